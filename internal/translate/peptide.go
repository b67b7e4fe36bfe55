package translate

import "strings"

// Variant names the two alternative splice choices of an event.
type Variant string

const (
	// VariantDistal uses the splice site further from the downstream exon
	// (the shorter upstream exon).
	VariantDistal Variant = "distal"
	// VariantProximal uses the splice site nearer the downstream exon
	// (the longer upstream exon).
	VariantProximal Variant = "proximal"
)

// Peptide is one translated splice variant.
type Peptide struct {
	EventID string
	Variant Variant
	Seq     string
	// FrameShift is true when the event size is not a multiple of three.
	// It depends only on the distance between the splice choices, not on
	// the translation outcome.
	FrameShift bool
	// StopCodon is true when an in-frame stop was encountered; the
	// sequence is truncated just before it.
	StopCodon bool
}

// Len returns the peptide length in residues.
func (p *Peptide) Len() int {
	return len(p.Seq)
}

// Translate translates a phase-adjusted nucleotide sequence into a
// peptide, truncating at the first in-frame stop codon.
func Translate(eventID string, variant Variant, nt string, eventSize int64) *Peptide {
	aa := TranslateSequence(nt)

	stop := false
	if idx := strings.IndexByte(aa, '*'); idx >= 0 {
		aa = aa[:idx]
		stop = true
	}

	return &Peptide{
		EventID:    eventID,
		Variant:    variant,
		Seq:        aa,
		FrameShift: eventSize%3 != 0,
		StopCodon:  stop,
	}
}
