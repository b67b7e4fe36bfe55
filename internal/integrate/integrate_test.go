package integrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/align"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/catalog"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/translate"
)

const refSeq = "ACDEFGHIKLMNPQRSTVWY"

func catalogWith(isoforms ...catalog.ProteinIsoform) *catalog.ProteinCatalog {
	return catalog.NewProteinCatalog(isoforms)
}

func pep(variant translate.Variant, seq string, stop bool) *translate.Peptide {
	return &translate.Peptide{
		EventID:   "E1",
		Variant:   variant,
		Seq:       seq,
		StopCodon: stop,
	}
}

func newIntegrator(isoforms ...catalog.ProteinIsoform) *Integrator {
	return NewIntegrator(catalogWith(isoforms...), align.DefaultScoring())
}

func TestIntegrate_ExactPlusInternalInsertion(t *testing.T) {
	it := newIntegrator(catalog.ProteinIsoform{ID: "ISO1", GeneID: "G1", Seq: refSeq})

	// The proximal variant reproduces the reference segment; the distal
	// variant carries three extra residues inside it.
	distal := pep(translate.VariantDistal, "DEFWYVGHIKL", false)
	proximal := pep(translate.VariantProximal, "DEFGHIKL", false)

	out, outcome := it.Integrate("G1", distal, proximal)
	require.Equal(t, OutcomeAccepted, outcome)
	require.Len(t, out, 2)

	d, p := out[0], out[1]
	assert.Equal(t, translate.VariantDistal, d.Variant)
	assert.Equal(t, translate.VariantProximal, p.Variant)

	// The altered variant gets a synthesized identifier and an edited
	// sequence three residues longer than the reference.
	assert.Equal(t, "ISO1_E1_distal", d.NewID)
	assert.Equal(t, "AC"+"DEFWYVGHIKL"+"MNPQRSTVWY", d.Edited)
	assert.Equal(t, len(refSeq)+3, len(d.Edited))
	assert.True(t, d.Alignment.InternalIndel)

	// The exact variant reuses the isoform id and reproduces the reference.
	assert.Equal(t, "ISO1", p.NewID)
	assert.Equal(t, refSeq, p.Edited)
}

func TestIntegrate_ExactPlusPrematureStop(t *testing.T) {
	it := newIntegrator(catalog.ProteinIsoform{ID: "ISO1", GeneID: "G1", Seq: refSeq})

	distal := pep(translate.VariantDistal, "DEFGH", true)
	proximal := pep(translate.VariantProximal, "DEFGHIKL", false)

	out, outcome := it.Integrate("G1", distal, proximal)
	require.Equal(t, OutcomeAccepted, outcome)
	require.Len(t, out, 2)

	d := out[0]
	// A stop truncates the reference at the substitution point, and the
	// identifier is synthesized even though the alignment itself is exact.
	assert.Equal(t, "ISO1_E1_distal", d.NewID)
	assert.Equal(t, "ACDEFGH", d.Edited)
}

func TestIntegrate_StopVariantDeepInsideReference(t *testing.T) {
	// A reference whose N-terminal 99 residues share no letters with the
	// variant region, so both peptides can only align at position 100.
	prefix := make([]byte, 99)
	for i := range prefix {
		prefix[i] = "ACDEF"[i%5]
	}
	tail := make([]byte, 50)
	for i := range tail {
		tail[i] = "KLMNPQRSTVWY"[(i*5+i/12)%12]
	}
	ref := string(prefix) + string(tail)

	it := newIntegrator(catalog.ProteinIsoform{ID: "ISO1", GeneID: "G1", Seq: ref})

	distal := pep(translate.VariantDistal, string(tail[:40]), true)
	proximal := pep(translate.VariantProximal, string(tail), false)

	out, outcome := it.Integrate("G1", distal, proximal)
	require.Equal(t, OutcomeAccepted, outcome)
	require.Len(t, out, 2)

	d, p := out[0], out[1]
	assert.Equal(t, 100, d.Alignment.SubjectStart)
	assert.Equal(t, 100, p.Alignment.SubjectStart)

	// The stop variant keeps the reference up to position 99 and truncates
	// there; nothing follows the premature stop.
	assert.Equal(t, string(prefix)+string(tail[:40]), d.Edited)
	assert.Equal(t, 139, len(d.Edited))
	assert.Equal(t, "ISO1_E1_distal", d.NewID)

	assert.Equal(t, ref, p.Edited)
	assert.Equal(t, "ISO1", p.NewID)
}

func TestIntegrate_BothExactCleanRequiresFullReference(t *testing.T) {
	it := newIntegrator(catalog.ProteinIsoform{ID: "ISO1", GeneID: "G1", Seq: refSeq})

	// Both variants match exactly without stops but stop short of the
	// reference end: a retained intron in the 3' UTR, not a new isoform.
	distal := pep(translate.VariantDistal, "DEFGHIKL", false)
	proximal := pep(translate.VariantProximal, "DEFGHIKLMN", false)

	_, outcome := it.Integrate("G1", distal, proximal)
	assert.Equal(t, OutcomeRejected, outcome)

	// Extending the longer variant to the reference end makes the pairing
	// informative.
	proximal = pep(translate.VariantProximal, "DEFGHIKLMNPQRSTVWY", false)
	out, outcome := it.Integrate("G1", distal, proximal)
	assert.Equal(t, OutcomeAccepted, outcome)
	assert.Len(t, out, 2)
}

func TestIntegrate_RejectsDifferentStartPositions(t *testing.T) {
	it := newIntegrator(catalog.ProteinIsoform{ID: "ISO1", GeneID: "G1", Seq: refSeq})

	distal := pep(translate.VariantDistal, "CDEF", false)
	proximal := pep(translate.VariantProximal, "DEFG", false)

	_, outcome := it.Integrate("G1", distal, proximal)
	assert.Equal(t, OutcomeRejected, outcome)
}

func TestIntegrate_RejectsMismatchOnlyVariant(t *testing.T) {
	it := newIntegrator(catalog.ProteinIsoform{ID: "ISO1", GeneID: "G1", Seq: refSeq})

	// The distal variant differs by substitution only: no internal indel,
	// no stop, so the pair is uninformative.
	distal := pep(translate.VariantDistal, "DEWGHIKL", false)
	proximal := pep(translate.VariantProximal, "DEFGHIKL", false)

	_, outcome := it.Integrate("G1", distal, proximal)
	assert.Equal(t, OutcomeRejected, outcome)
}

func TestIntegrate_RejectsWhenNeitherExact(t *testing.T) {
	it := newIntegrator(catalog.ProteinIsoform{ID: "ISO1", GeneID: "G1", Seq: refSeq})

	distal := pep(translate.VariantDistal, "DEWGHIKL", false)
	proximal := pep(translate.VariantProximal, "DEYGHIKL", false)

	_, outcome := it.Integrate("G1", distal, proximal)
	assert.Equal(t, OutcomeRejected, outcome)
}

func TestIntegrate_NoIsoform(t *testing.T) {
	it := newIntegrator()

	distal := pep(translate.VariantDistal, "DEFGHIKL", false)
	proximal := pep(translate.VariantProximal, "DEFGHIKL", false)

	out, outcome := it.Integrate("G1", distal, proximal)
	assert.Equal(t, OutcomeNoIsoform, outcome)
	assert.Nil(t, out)
}

func TestIntegrate_MultipleIsoforms(t *testing.T) {
	// Both isoforms of the gene accept the pair; each contributes two
	// integrations.
	it := newIntegrator(
		catalog.ProteinIsoform{ID: "ISO1", GeneID: "G1", Seq: refSeq},
		catalog.ProteinIsoform{ID: "ISO2", GeneID: "G1", Seq: "GG" + refSeq},
	)

	distal := pep(translate.VariantDistal, "DEFWYVGHIKL", false)
	proximal := pep(translate.VariantProximal, "DEFGHIKL", false)

	out, outcome := it.Integrate("G1", distal, proximal)
	require.Equal(t, OutcomeAccepted, outcome)
	require.Len(t, out, 4)

	assert.Equal(t, "ISO1", out[0].IsoformID)
	assert.Equal(t, "ISO2", out[2].IsoformID)
	assert.Equal(t, "GGAC"+"DEFWYVGHIKL"+"MNPQRSTVWY", out[2].Edited)
}
