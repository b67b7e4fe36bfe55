// Package catalog provides the read-only reference catalogues consumed
// by the pipeline: the coding-exon annotation, the genome sequence, and
// the reference protein isoforms. Each catalogue is loaded once and
// indexed by gene id so lookups never re-scan input tables.
package catalog

import (
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/interval"
)

// CodingExon is one CDS record from the reference annotation.
type CodingExon struct {
	interval.Interval
	GeneID string
	// Phase is the reading-frame offset of the exon's 5' end: the number
	// of nucleotides to skip before the first complete codon.
	Phase int
}

// ProteinIsoform is one reference protein sequence.
type ProteinIsoform struct {
	ID     string
	GeneID string
	Seq    string
}
