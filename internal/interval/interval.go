// Package interval provides the genomic interval model shared by the
// splicing pipeline: closed 1-based coordinates, strand, and the small
// amount of interval algebra the geometry and phase steps need.
package interval

import "fmt"

// Strand is the genomic strand of an interval.
type Strand int8

const (
	// Forward is the plus strand.
	Forward Strand = 1
	// Reverse is the minus strand.
	Reverse Strand = -1
)

// ParseStrand parses a GTF-style strand symbol ("+" or "-").
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+":
		return Forward, nil
	case "-":
		return Reverse, nil
	}
	return 0, fmt.Errorf("invalid strand %q", s)
}

// String returns the GTF-style strand symbol.
func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}

// Interval is a genomic interval with 1-based inclusive coordinates.
// Start <= End regardless of strand; strand only changes which end is
// considered 5' or 3'.
type Interval struct {
	Chrom  string
	Start  int64
	End    int64
	Strand Strand
}

// New creates an interval, normalizing start/end order.
func New(chrom string, start, end int64, strand Strand) Interval {
	if start > end {
		start, end = end, start
	}
	return Interval{Chrom: chrom, Start: start, End: end, Strand: strand}
}

// Len returns the interval length in nucleotides.
func (iv Interval) Len() int64 {
	return iv.End - iv.Start + 1
}

// Contains returns true if pos falls within the interval.
func (iv Interval) Contains(pos int64) bool {
	return pos >= iv.Start && pos <= iv.End
}

// ContainsInterval returns true if o lies entirely within iv.
func (iv Interval) ContainsInterval(o Interval) bool {
	return iv.Chrom == o.Chrom && o.Start >= iv.Start && o.End <= iv.End
}

// Overlaps returns true if the two intervals share at least one position.
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Chrom == o.Chrom && iv.Start <= o.End && o.Start <= iv.End
}

// OverlapLen returns the number of shared positions, 0 if disjoint.
func (iv Interval) OverlapLen(o Interval) int64 {
	if !iv.Overlaps(o) {
		return 0
	}
	lo, hi := iv.Start, iv.End
	if o.Start > lo {
		lo = o.Start
	}
	if o.End < hi {
		hi = o.End
	}
	return hi - lo + 1
}

// Gap returns the interval strictly between iv and o (the complement of
// the pair on their chromosome). ok is false if the intervals overlap,
// are adjacent, or sit on different chromosomes.
func (iv Interval) Gap(o Interval) (Interval, bool) {
	if iv.Chrom != o.Chrom || iv.Overlaps(o) {
		return Interval{}, false
	}
	left, right := iv, o
	if o.End < iv.Start {
		left, right = o, iv
	}
	if right.Start-left.End < 2 {
		return Interval{}, false
	}
	return Interval{
		Chrom:  iv.Chrom,
		Start:  left.End + 1,
		End:    right.Start - 1,
		Strand: iv.Strand,
	}, true
}

// FivePrime returns the genomic position of the strand-aware 5' end.
func (iv Interval) FivePrime() int64 {
	if iv.Strand == Reverse {
		return iv.End
	}
	return iv.Start
}

// ThreePrime returns the genomic position of the strand-aware 3' end.
func (iv Interval) ThreePrime() int64 {
	if iv.Strand == Reverse {
		return iv.Start
	}
	return iv.End
}

// TrimFivePrime removes n nucleotides from the strand-aware 5' end.
func (iv Interval) TrimFivePrime(n int64) Interval {
	out := iv
	if iv.Strand == Reverse {
		out.End -= n
	} else {
		out.Start += n
	}
	return out
}

// TrimThreePrime removes n nucleotides from the strand-aware 3' end.
func (iv Interval) TrimThreePrime(n int64) Interval {
	out := iv
	if iv.Strand == Reverse {
		out.Start += n
	} else {
		out.End -= n
	}
	return out
}

// WithFivePrime moves the strand-aware 5' boundary to pos, keeping the
// 3' boundary anchored.
func (iv Interval) WithFivePrime(pos int64) Interval {
	out := iv
	if iv.Strand == Reverse {
		out.End = pos
	} else {
		out.Start = pos
	}
	return out
}

// WithThreePrime moves the strand-aware 3' boundary to pos, keeping the
// 5' boundary anchored.
func (iv Interval) WithThreePrime(pos int64) Interval {
	out := iv
	if iv.Strand == Reverse {
		out.Start = pos
	} else {
		out.End = pos
	}
	return out
}

// ResizeFromFivePrime anchors the 5' end and sets the length to n.
func (iv Interval) ResizeFromFivePrime(n int64) Interval {
	out := iv
	if iv.Strand == Reverse {
		out.Start = out.End - n + 1
	} else {
		out.End = out.Start + n - 1
	}
	return out
}

// ResizeFromThreePrime anchors the 3' end and sets the length to n.
func (iv Interval) ResizeFromThreePrime(n int64) Interval {
	out := iv
	if iv.Strand == Reverse {
		out.End = out.Start + n - 1
	} else {
		out.Start = out.End - n + 1
	}
	return out
}

// String formats the interval as chrom:start-end(strand).
func (iv Interval) String() string {
	return fmt.Sprintf("%s:%d-%d(%s)", iv.Chrom, iv.Start, iv.End, iv.Strand)
}
