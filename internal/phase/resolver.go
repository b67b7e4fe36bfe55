// Package phase matches the shorter upstream exon of an event against
// the reference coding-exon catalogue and adjusts both upstream exon
// variants so that translation starts at reading-frame phase zero.
package phase

import (
	"sort"

	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/catalog"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/event"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/interval"
)

// Match is the selected reference coding exon for one event.
type Match struct {
	// Exon is the winning reference exon position, untrimmed.
	Exon interval.Interval
	// Trimmed is the reference exon after removing Removed nucleotides
	// from its 5' end so the retained portion begins in-frame.
	Trimmed interval.Interval
	// Removed is the number of nucleotides trimmed from the reference
	// exon's 5' end: the phase value with the strongest annotation support.
	Removed int
	// Overlap is the overlap length with E1D used as the selection score.
	Overlap int64
	// Evidence is the number of annotation records supporting the
	// selected exon position.
	Evidence int
}

// candidate is one distinct (position, phase-evidence) combination.
type candidate struct {
	pos         interval.Interval
	phaseCounts [3]int
	evidence    int
	overlap     int64
}

// Resolver selects phase matches from a per-gene coding-exon index.
type Resolver struct {
	index *catalog.GeneExonIndex
}

// NewResolver creates a resolver over a prebuilt gene exon index.
func NewResolver(index *catalog.GeneExonIndex) *Resolver {
	return &Resolver{index: index}
}

// Resolve finds the best reference coding exon for the event's E1D exon.
// Selection maximizes (overlap length, phase-evidence total)
// lexicographically, with genomic position as the final deterministic
// tie-break. Returns false when no coding exon of the same gene overlaps
// E1D; such events are excluded from translation.
func (r *Resolver) Resolve(geneID string, e1d interval.Interval) (*Match, bool) {
	overlapping := r.index.FindOverlapping(geneID, e1d)
	if len(overlapping) == 0 {
		return nil, false
	}

	// Tally phase evidence per distinct exon position.
	type posKey struct{ start, end int64 }
	byPos := make(map[posKey]*candidate)
	for _, e := range overlapping {
		key := posKey{e.Start, e.End}
		c, ok := byPos[key]
		if !ok {
			c = &candidate{
				pos:     e.Interval,
				overlap: e.OverlapLen(e1d),
			}
			byPos[key] = c
		}
		c.phaseCounts[e.Phase]++
		c.evidence++
	}

	candidates := make([]*candidate, 0, len(byPos))
	for _, c := range byPos {
		candidates = append(candidates, c)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.overlap != b.overlap {
			return a.overlap > b.overlap
		}
		if a.evidence != b.evidence {
			return a.evidence > b.evidence
		}
		if a.pos.Start != b.pos.Start {
			return a.pos.Start < b.pos.Start
		}
		return a.pos.End < b.pos.End
	})

	win := candidates[0]

	// The winning phase is the one with the strongest annotation support;
	// ties resolve to the lowest phase. The phase value is the number of
	// nucleotides to skip before the first complete codon.
	phase := 0
	for p := 1; p < 3; p++ {
		if win.phaseCounts[p] > win.phaseCounts[phase] {
			phase = p
		}
	}

	return &Match{
		Exon:     win.pos,
		Trimmed:  win.pos.TrimFivePrime(int64(phase)),
		Removed:  phase,
		Overlap:  win.overlap,
		Evidence: win.evidence,
	}, true
}

// Apply moves the shared 5' boundary of E1D and E1P onto the phase-zero
// frame of the matched reference exon and returns the adjusted geometry.
// Two geometric cases arise, both strand-aware:
//
//   - E1D begins downstream of the trimmed reference boundary: both
//     variants are extended out to meet it exactly.
//   - E1D extends upstream beyond the trimmed reference boundary: both
//     variants are trimmed inward to the nearest codon boundary in frame
//     with it.
//
// Either way the new boundary differs from the phase-zero boundary by a
// multiple of three, so translation starts in-frame. Applying the same
// match twice removes zero additional nucleotides.
func Apply(g *event.Geometry, m *Match) (*event.Geometry, int64) {
	// Signed distance from the trimmed phase-zero boundary to E1D's 5'
	// boundary, measured in transcript direction: positive means E1D
	// begins downstream of the boundary.
	var d int64
	if g.Strand == interval.Reverse {
		d = m.Trimmed.End - g.E1D.End
	} else {
		d = g.E1D.Start - m.Trimmed.Start
	}

	adjusted := *g
	switch {
	case d > 0:
		five := m.Trimmed.FivePrime()
		adjusted.E1D.Interval = g.E1D.WithFivePrime(five)
		adjusted.E1P.Interval = g.E1P.WithFivePrime(five)
		return &adjusted, 0
	case d < 0:
		trim := (-d) % 3
		adjusted.E1D.Interval = g.E1D.TrimFivePrime(trim)
		adjusted.E1P.Interval = g.E1P.TrimFivePrime(trim)
		return &adjusted, trim
	}
	return &adjusted, 0
}
