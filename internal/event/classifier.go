// Package event implements regulation calling over junction
// quantification rows and the three-exon geometry of alternative
// 5' splice site events.
package event

import (
	"math"
	"sort"

	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/majiq"
)

// Event class names as emitted by the modulizer, one table per class.
const (
	ClassA5SS              = "alt5prime"
	ClassA3SS              = "alt3prime"
	ClassPutativeA5SS      = "p_alt5prime"
	ClassPutativeA3SS      = "p_alt3prime"
	ClassCassette          = "cassette"
	ClassMultiExonSpanning = "multi_exon_spanning"
)

// Thresholds holds the decision thresholds for regulation calling.
type Thresholds struct {
	Probability float64 // minimum probability of changing per junction
	DeltaPSI    float64 // minimum |median dPSI| per junction
	Fraction    float64 // minimum |dPSI| / max |dPSI| within a perspective
}

// DefaultThresholds returns the thresholds used throughout the study.
func DefaultThresholds() Thresholds {
	return Thresholds{Probability: 0.9, DeltaPSI: 0.1, Fraction: 0.5}
}

// Call is the regulation call for one event, combined across all of its
// quantification perspectives.
type Call struct {
	EventClass string
	EventID    string
	ModuleID   string
	GeneID     string
	GeneName   string

	Regulated  bool // any perspective: all junctions pass the probability threshold
	Change     bool // every perspective: all junctions pass the |dPSI| threshold
	Opposite   bool // every perspective: junction dPSI signs cancel out
	FractionOK bool // every perspective: no junction's change is a residual of another's
}

// Included reports whether the event passes the final inclusion rule for
// its class. The multi-exon-spanning class is exempt from the
// opposite-sign requirement: its junction pairs carry duplicated dPSI
// values from the upstream table generation, so the signs never cancel.
func (c *Call) Included() bool {
	if !c.Regulated || !c.Change || !c.FractionOK {
		return false
	}
	if c.EventClass == ClassMultiExonSpanning {
		return true
	}
	return c.Opposite
}

// groupCall holds the per-(event, lsv) predicates before combination.
type groupCall struct {
	regulated bool
	change    bool
	opposite  bool
	fraction  bool
}

// ClassifyRegulation computes regulation calls for all events in one
// event-class table. Rows with an empty perspective key are dropped, and
// events containing any junction without defined probability or dPSI are
// dropped entirely; their count is returned so the filter is reported,
// never silently swallowed. The returned calls are sorted by event id so
// output is independent of input row order.
func ClassifyRegulation(eventClass string, rows []*majiq.Junction, th Thresholds) (calls []*Call, droppedIncomplete int) {
	// Group rows per event, dropping uninformative perspectives.
	byEvent := make(map[string][]*majiq.Junction)
	for _, j := range rows {
		if j.LSVID == "" {
			continue
		}
		byEvent[j.EventID] = append(byEvent[j.EventID], j)
	}

	for eventID, junctions := range byEvent {
		complete := true
		for _, j := range junctions {
			if !j.HasEvidence() {
				complete = false
				break
			}
		}
		if !complete {
			droppedIncomplete++
			continue
		}

		byLSV := make(map[string][]*majiq.Junction)
		for _, j := range junctions {
			byLSV[j.LSVID] = append(byLSV[j.LSVID], j)
		}

		call := &Call{
			EventClass: eventClass,
			EventID:    eventID,
			ModuleID:   junctions[0].ModuleID,
			GeneID:     junctions[0].GeneID,
			GeneName:   junctions[0].GeneName,
			Change:     true,
			Opposite:   true,
			FractionOK: true,
		}

		for _, group := range byLSV {
			gc := classifyGroup(group, th)
			// Regulation is existential across perspectives: one
			// informative perspective suffices. The remaining
			// predicates are universal: every perspective must agree.
			call.Regulated = call.Regulated || gc.regulated
			call.Change = call.Change && gc.change
			call.Opposite = call.Opposite && gc.opposite
			call.FractionOK = call.FractionOK && gc.fraction
		}

		calls = append(calls, call)
	}

	sort.Slice(calls, func(i, k int) bool { return calls[i].EventID < calls[k].EventID })
	return calls, droppedIncomplete
}

// classifyGroup evaluates the per-perspective predicates over the
// junctions of one (event, lsv) group.
func classifyGroup(junctions []*majiq.Junction, th Thresholds) groupCall {
	gc := groupCall{regulated: true, change: true, opposite: true, fraction: true}

	maxAbs := 0.0
	signSum := 0
	for _, j := range junctions {
		if j.Probability < th.Probability {
			gc.regulated = false
		}
		abs := math.Abs(j.DPSI)
		if abs < th.DeltaPSI {
			gc.change = false
		}
		if abs > maxAbs {
			maxAbs = abs
		}
		signSum += sign(j.DPSI)
	}

	// Opposite holds when the dPSI signs cancel exactly: one positive and
	// one negative junction, or all exactly zero.
	gc.opposite = signSum == 0

	// Guard against one junction's change being a tiny residual of the
	// other. A group with no change at all trivially passes.
	if maxAbs > 0 {
		for _, j := range junctions {
			if math.Abs(j.DPSI)/maxAbs < th.Fraction {
				gc.fraction = false
				break
			}
		}
	}

	return gc
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
