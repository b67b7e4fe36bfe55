// Package integrate places accepted variant peptides into reference
// protein isoforms, producing edited full-length protein sequences.
package integrate

import (
	"fmt"

	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/align"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/catalog"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/translate"
)

// Outcome summarizes what happened to one event during integration.
type Outcome int

const (
	// OutcomeAccepted: at least one isoform passed the acceptance test.
	OutcomeAccepted Outcome = iota
	// OutcomeRejected: candidates existed but none passed.
	OutcomeRejected
	// OutcomeNoIsoform: the gene has no reference protein entries.
	OutcomeNoIsoform
)

// Integration is the result of integrating one accepted variant peptide
// into one reference isoform.
type Integration struct {
	EventID   string
	Variant   translate.Variant
	IsoformID string
	// NewID identifies the edited sequence. It equals IsoformID when the
	// variant reproduces the reference exactly without a premature stop.
	NewID     string
	Alignment align.Result
	Edited    string
}

// Integrator aligns variant peptides against the reference protein
// catalogue and applies the acceptance decision procedure.
type Integrator struct {
	scoring  align.Scoring
	proteins *catalog.ProteinCatalog
}

// NewIntegrator creates an integrator over a protein catalogue.
func NewIntegrator(proteins *catalog.ProteinCatalog, sc align.Scoring) *Integrator {
	return &Integrator{scoring: sc, proteins: proteins}
}

// Integrate aligns both variant peptides of an event against every
// candidate isoform of the event's gene. For each accepted isoform both
// variants are integrated: the exact-match variant reuses the isoform's
// identifier, the altered variant receives a synthesized one.
func (it *Integrator) Integrate(geneID string, distal, proximal *translate.Peptide) ([]*Integration, Outcome) {
	candidates := it.proteins.ByGene(geneID)
	if len(candidates) == 0 {
		return nil, OutcomeNoIsoform
	}

	var out []*Integration
	for _, iso := range candidates {
		resD := align.Fit(distal.Seq, iso.Seq, it.scoring)
		resP := align.Fit(proximal.Seq, iso.Seq, it.scoring)

		if !accept(resD, resP, distal, proximal, len(iso.Seq)) {
			continue
		}

		out = append(out,
			it.integrateVariant(iso, distal, resD),
			it.integrateVariant(iso, proximal, resP),
		)
	}

	if len(out) == 0 {
		return nil, OutcomeRejected
	}
	return out, OutcomeAccepted
}

// accept implements the acceptance test. All conditions must hold:
//
//  1. Both variants align to the same reference start position, with no
//     unaligned peptide prefix on either.
//  2. At least one variant matches the reference exactly over its full
//     span.
//  3. If only one variant is exact, the other must carry an internal
//     insertion or deletion, or a premature stop codon.
//  4. If both variants match exactly with no stop on either, or both are
//     identical with a stop in both, the pairing is informative only
//     when the matched region extends to the full reference length.
//     This configuration otherwise reflects an intron retained in the
//     3' UTR, not an alternative protein isoform.
func accept(resD, resP align.Result, distal, proximal *translate.Peptide, refLen int) bool {
	if resD.SubjectStart != resP.SubjectStart {
		return false
	}
	if resD.PatternStart != 1 || resP.PatternStart != 1 {
		return false
	}

	exactD, exactP := resD.Exact(), resP.Exact()
	if !exactD && !exactP {
		return false
	}

	if exactD && exactP {
		bothClean := !distal.StopCodon && !proximal.StopCodon
		bothStopIdentical := distal.StopCodon && proximal.StopCodon &&
			distal.Seq == proximal.Seq
		if bothClean || bothStopIdentical {
			maxEnd := resD.SubjectEnd
			if resP.SubjectEnd > maxEnd {
				maxEnd = resP.SubjectEnd
			}
			return maxEnd == refLen
		}
		return true
	}

	// Exactly one exact variant: the other must change the protein in a
	// recognizable way.
	other, otherRes := proximal, resP
	if exactP {
		other, otherRes = distal, resD
	}
	return otherRes.InternalIndel || other.StopCodon
}

func (it *Integrator) integrateVariant(iso catalog.ProteinIsoform, pep *translate.Peptide, res align.Result) *Integration {
	id := iso.ID
	if !res.Exact() || pep.StopCodon {
		id = fmt.Sprintf("%s_%s_%s", iso.ID, pep.EventID, pep.Variant)
	}

	return &Integration{
		EventID:   pep.EventID,
		Variant:   pep.Variant,
		IsoformID: iso.ID,
		NewID:     id,
		Alignment: res,
		Edited:    edit(iso.Seq, pep, res),
	}
}

// edit produces the full-length edited protein. A variant carrying a
// premature stop truncates the reference at the substitution point;
// otherwise the peptide replaces the aligned reference segment.
func edit(ref string, pep *translate.Peptide, res align.Result) string {
	prefix := ref[:res.SubjectStart-1]
	if pep.StopCodon {
		return prefix + pep.Seq
	}
	return prefix + pep.Seq + ref[res.SubjectEnd:]
}
