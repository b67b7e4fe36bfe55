// Package majiq parses per-junction splicing quantification tables as
// produced by the MAJIQ modulizer: one tab-delimited table per event
// class, one row per quantified junction.
package majiq

import (
	"math"

	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/interval"
)

// Junction role names used in alternative 5' splice site tables.
const (
	RoleDistal   = "Distal"
	RoleProximal = "Proximal"
)

// Junction is one quantified junction row. Rows are read-only inputs:
// the pipeline filters and aggregates them but never mutates them.
type Junction struct {
	ModuleID string
	EventID  string
	GeneID   string
	GeneName string
	Chrom    string
	Strand   interval.Strand

	LSVID string // perspective grouping key, may be empty for uninformative rows
	Name  string // junction role within the event (e.g. Distal, Proximal)

	Coord              string // raw junction coordinate string ("start-end")
	ReferenceExonCoord string // raw coordinate of the reference (upstream) exon
	SplicedWithCoord   string // raw coordinate of the exon spliced with

	Annotated bool // junction pre-exists in the reference annotation

	// Quantification values are NaN when the table had no value.
	Probability  float64 // probability of changing, in [0,1]
	DPSI         float64 // median delta PSI, in [-1,1]
	PSIControl   float64 // median PSI in the control condition
	PSITreatment float64 // median PSI in the treatment condition
}

// HasEvidence returns true if both the change probability and the delta
// PSI are defined. Events containing any junction without evidence are
// dropped from regulation calling.
func (j *Junction) HasEvidence() bool {
	return !math.IsNaN(j.Probability) && !math.IsNaN(j.DPSI)
}
