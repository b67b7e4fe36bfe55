// Package classify derives the coding-consequence group of a splice
// event from its frame arithmetic, stop-codon outcome, and direction of
// change.
package classify

import "github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/translate"

// Group is the final consequence category of an event.
type Group string

const (
	// GroupShortened: the shorter upstream exon is favored and the
	// reading frame and peptide stay intact.
	GroupShortened Group = "shortened"
	// GroupElongated: the longer upstream exon is favored and the
	// reading frame and peptide stay intact.
	GroupElongated Group = "elongated"
	// GroupDisrupted: the event shifts the frame or introduces a
	// premature stop codon in either variant.
	GroupDisrupted Group = "disrupted"
)

// Classify maps the three inputs to a consequence group. It is total and
// deterministic: frame shift or a stop codon in either variant yields
// disrupted; otherwise the sign of the distal variant's dPSI decides. A
// positive distal dPSI means the distal (shorter) splice choice gains
// usage, so the exon shortens.
func Classify(frameShift, stop bool, distalDPSI float64) Group {
	if frameShift || stop {
		return GroupDisrupted
	}
	if distalDPSI > 0 {
		return GroupShortened
	}
	return GroupElongated
}

// FromPeptides classifies an event from its two translated variants plus
// the distal variant's dPSI. A stop in either variant counts.
func FromPeptides(distal, proximal *translate.Peptide, distalDPSI float64) Group {
	frameShift := distal.FrameShift || proximal.FrameShift
	stop := distal.StopCodon || proximal.StopCodon
	return Classify(frameShift, stop, distalDPSI)
}
