// Package align implements the fitted pairwise alignment used to place a
// variant peptide inside a reference protein: the peptide is aligned as
// a contiguous block end to end, while the reference may overhang freely
// on both sides. Identical residues score positively and any mismatch
// costs a fixed harsh penalty, so exact segment matches strongly
// dominate homologous-but-different ones.
package align

// Scoring holds the alignment scores. Gaps use a linear penalty.
type Scoring struct {
	Match    int
	Mismatch int
	Gap      int
}

// DefaultScoring returns the scoring used by the integrator: mismatches
// and gaps are penalized far harder than in typical substitution
// matrices.
func DefaultScoring() Scoring {
	return Scoring{Match: 1, Mismatch: -10, Gap: -10}
}

// Alignment operations.
const (
	opMatch    = 'M'
	opMismatch = 'X'
	opInsert   = 'I' // peptide residue aligned to a gap
	opDelete   = 'D' // reference residue aligned to a gap
)

// Result describes one pattern-vs-subject alignment. Positions are
// 1-based. The spans cover the region between the first and last aligned
// residue pair; indels before or after that region are edge indels.
type Result struct {
	Score      int
	PatternLen int

	PatternStart int
	PatternEnd   int
	SubjectStart int
	SubjectEnd   int

	Matches    int
	Mismatches int
	Insertions int
	Deletions  int

	// InternalIndel is true when an insertion or deletion falls strictly
	// inside the aligned span rather than at its edge.
	InternalIndel bool
}

// Exact reports whether the pattern matched the subject exactly over its
// full length: every residue aligned, no mismatch, no indel.
func (r Result) Exact() bool {
	return r.PatternLen > 0 &&
		r.Mismatches == 0 && r.Insertions == 0 && r.Deletions == 0 &&
		r.PatternStart == 1 && r.PatternEnd == r.PatternLen
}

// Fit aligns pattern against subject with free subject overhang.
// Ties prefer substitution columns over gaps, so exact matches trace
// back without spurious indels.
func Fit(pattern, subject string, sc Scoring) Result {
	m, n := len(pattern), len(subject)
	res := Result{PatternLen: m}
	if m == 0 {
		return res
	}

	// H[i][j]: best score of pattern[:i] against a subject block ending
	// at j. Row 0 is free (unaligned subject prefix); column 0 forces
	// leading pattern residues into gaps.
	h := make([][]int, m+1)
	for i := range h {
		h[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		h[i][0] = i * sc.Gap
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			s := sc.Mismatch
			if pattern[i-1] == subject[j-1] {
				s = sc.Match
			}
			best := h[i-1][j-1] + s
			if up := h[i-1][j] + sc.Gap; up > best {
				best = up
			}
			if left := h[i][j-1] + sc.Gap; left > best {
				best = left
			}
			h[i][j] = best
		}
	}

	// Free subject suffix: end anywhere on the last row. The leftmost
	// maximum keeps the traceback deterministic.
	endJ := 0
	res.Score = h[m][0]
	for j := 1; j <= n; j++ {
		if h[m][j] > res.Score {
			res.Score = h[m][j]
			endJ = j
		}
	}

	ops := traceback(pattern, subject, h, sc, m, endJ)
	res.summarize(ops, endJ)
	return res
}

// traceback recovers the operation string from (i, j) back to row 0,
// using the same tie preference as the fill.
func traceback(pattern, subject string, h [][]int, sc Scoring, i, j int) []byte {
	var rev []byte
	for i > 0 {
		if j > 0 {
			s := sc.Mismatch
			op := byte(opMismatch)
			if pattern[i-1] == subject[j-1] {
				s = sc.Match
				op = opMatch
			}
			if h[i][j] == h[i-1][j-1]+s {
				rev = append(rev, op)
				i--
				j--
				continue
			}
		}
		if h[i][j] == h[i-1][j]+sc.Gap {
			rev = append(rev, opInsert)
			i--
			continue
		}
		rev = append(rev, opDelete)
		j--
	}

	for a, b := 0, len(rev)-1; a < b; a, b = a+1, b-1 {
		rev[a], rev[b] = rev[b], rev[a]
	}
	return rev
}

// summarize derives spans, counts, and the internal-indel flag from the
// operation string. endJ is the subject position of the last consumed
// reference residue.
func (r *Result) summarize(ops []byte, endJ int) {
	// Subject position before the aligned block.
	subjConsumed := 0
	for _, op := range ops {
		if op != opInsert {
			subjConsumed++
		}
	}
	sj := endJ - subjConsumed
	pi := 0

	firstAligned, lastAligned := -1, -1
	for k, op := range ops {
		switch op {
		case opMatch, opMismatch:
			pi++
			sj++
			if firstAligned == -1 {
				firstAligned = k
				r.PatternStart = pi
				r.SubjectStart = sj
			}
			lastAligned = k
			r.PatternEnd = pi
			r.SubjectEnd = sj
			if op == opMatch {
				r.Matches++
			} else {
				r.Mismatches++
			}
		case opInsert:
			pi++
			r.Insertions++
		case opDelete:
			sj++
			r.Deletions++
		}
	}

	if firstAligned == -1 {
		return
	}
	for k := firstAligned + 1; k < lastAligned; k++ {
		if ops[k] == opInsert || ops[k] == opDelete {
			r.InternalIndel = true
			break
		}
	}
}
