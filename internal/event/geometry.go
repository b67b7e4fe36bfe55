package event

import (
	"fmt"
	"sort"

	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/interval"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/majiq"
)

// Role identifies one of the three exons participating in an event.
type Role string

const (
	// RoleE1D is the upstream exon with the distal (shorter) splice choice.
	RoleE1D Role = "E1D"
	// RoleE1P is the upstream exon with the proximal (longer) splice choice.
	RoleE1P Role = "E1P"
	// RoleE2 is the constant downstream exon.
	RoleE2 Role = "E2"
)

// Exon is one typed exon of an event geometry. Each exon carries the
// quantification of the junction role it corresponds to.
type Exon struct {
	interval.Interval
	Role Role

	PSIControl   float64
	PSITreatment float64
	DPSI         float64
	Probability  float64
	Annotated    bool
}

// Geometry is the three-exon coordinate model of one A5SS event.
// Exons are named fields rather than a positional collection, so
// boundary edits are explicit field assignments.
type Geometry struct {
	EventID  string
	ModuleID string
	LSVID    string
	GeneID   string
	GeneName string
	Chrom    string
	Strand   interval.Strand

	E1D Exon
	E1P Exon
	E2  Exon

	// EventSize is the distance in nucleotides between the two
	// alternative splice positions.
	EventSize int64
}

// BuildGeometry constructs the three-exon interval set of one event from
// its distal and proximal junction rows.
func BuildGeometry(distal, proximal *majiq.Junction) (*Geometry, error) {
	if distal.EventID != proximal.EventID {
		return nil, fmt.Errorf("junction rows belong to different events (%s vs %s)",
			distal.EventID, proximal.EventID)
	}
	if distal.Chrom != proximal.Chrom || distal.Strand != proximal.Strand {
		return nil, fmt.Errorf("event %s: inconsistent chromosome or strand between junction rows",
			distal.EventID)
	}

	strand := proximal.Strand
	chrom := proximal.Chrom

	refStart, refEnd, err := interval.ParseRange(proximal.ReferenceExonCoord)
	if err != nil {
		return nil, fmt.Errorf("event %s: reference exon: %w", proximal.EventID, err)
	}
	withStart, withEnd, err := interval.ParseRange(proximal.SplicedWithCoord)
	if err != nil {
		return nil, fmt.Errorf("event %s: spliced-with exon: %w", proximal.EventID, err)
	}

	base := []interval.Interval{
		interval.New(chrom, refStart, refEnd, strand),
		interval.New(chrom, withStart, withEnd, strand),
	}
	sort.Slice(base, func(i, k int) bool { return base[i].Start < base[k].Start })

	// The upstream exon is leftmost on the forward strand, rightmost on
	// the reverse strand. Duplicate coordinates are tolerated here;
	// ordering then follows the slice order.
	var e1p, e2 interval.Interval
	if strand == interval.Forward {
		e1p, e2 = base[0], base[1]
	} else {
		e1p, e2 = base[1], base[0]
	}

	// The distal junction coordinate gives the alternative 3' boundary of
	// the upstream exon: its end nearer E1P is where the shorter variant
	// stops. The 5' boundary is shared with E1P.
	jStart, jEnd, err := interval.ParseRange(distal.Coord)
	if err != nil {
		return nil, fmt.Errorf("event %s: distal junction: %w", distal.EventID, err)
	}
	distalBoundary := jStart
	if strand == interval.Reverse {
		distalBoundary = jEnd
	}
	if distalBoundary < e1p.Start || distalBoundary > e1p.End {
		return nil, fmt.Errorf("event %s: distal junction boundary %d outside upstream exon %d-%d",
			distal.EventID, distalBoundary, e1p.Start, e1p.End)
	}
	e1d := e1p.WithThreePrime(distalBoundary)

	eventSize := e1p.ThreePrime() - e1d.ThreePrime()
	if eventSize < 0 {
		eventSize = -eventSize
	}

	return &Geometry{
		EventID:   proximal.EventID,
		ModuleID:  proximal.ModuleID,
		LSVID:     proximal.LSVID,
		GeneID:    proximal.GeneID,
		GeneName:  proximal.GeneName,
		Chrom:     chrom,
		Strand:    strand,
		E1D:       attachStats(e1d, RoleE1D, distal),
		E1P:       attachStats(e1p, RoleE1P, proximal),
		E2:        attachStats(e2, RoleE2, proximal),
		EventSize: eventSize,
	}, nil
}

// BuildA5SS selects the distal and proximal rows of a single perspective
// and builds the event geometry from them. When an event is quantified
// from more than one perspective, the lexicographically smallest LSV id
// that carries both junction roles is used, so construction does not
// depend on input row order.
func BuildA5SS(rows []*majiq.Junction) (*Geometry, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no junction rows")
	}

	byLSV := make(map[string]map[string]*majiq.Junction)
	for _, j := range rows {
		if j.LSVID == "" {
			continue
		}
		m := byLSV[j.LSVID]
		if m == nil {
			m = make(map[string]*majiq.Junction)
			byLSV[j.LSVID] = m
		}
		m[j.Name] = j
	}

	lsvs := make([]string, 0, len(byLSV))
	for id := range byLSV {
		lsvs = append(lsvs, id)
	}
	sort.Strings(lsvs)

	for _, id := range lsvs {
		m := byLSV[id]
		distal, okD := m[majiq.RoleDistal]
		proximal, okP := m[majiq.RoleProximal]
		if okD && okP {
			return BuildGeometry(distal, proximal)
		}
	}

	return nil, fmt.Errorf("event %s: no perspective with both distal and proximal junctions",
		rows[0].EventID)
}

func attachStats(iv interval.Interval, role Role, j *majiq.Junction) Exon {
	return Exon{
		Interval:     iv,
		Role:         role,
		PSIControl:   j.PSIControl,
		PSITreatment: j.PSITreatment,
		DPSI:         j.DPSI,
		Probability:  j.Probability,
		Annotated:    j.Annotated,
	}
}
