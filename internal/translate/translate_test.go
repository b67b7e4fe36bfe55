package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateCodon(t *testing.T) {
	assert.Equal(t, byte('M'), TranslateCodon("ATG"))
	assert.Equal(t, byte('K'), TranslateCodon("AAA"))
	assert.Equal(t, byte('*'), TranslateCodon("TAA"))
	assert.Equal(t, byte('*'), TranslateCodon("TAG"))
	assert.Equal(t, byte('*'), TranslateCodon("TGA"))
	assert.Equal(t, byte('X'), TranslateCodon("NNN"))
	assert.Equal(t, byte('X'), TranslateCodon("AT"))
}

func TestIsStopCodon(t *testing.T) {
	assert.True(t, IsStopCodon("TAA"))
	assert.True(t, IsStopCodon("TGA"))
	assert.False(t, IsStopCodon("TGG"))
}

func TestTranslateSequence(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		want string
	}{
		{"simple", "ATGGCTGAA", "MAE"},
		{"no initiator required", "GCTGAA", "AE"},
		{"stop kept in place", "GCTTAAGAA", "A*E"},
		{"trailing partial codon dropped", "GCTGA", "A"},
		{"empty", "", ""},
		{"ambiguous base", "GCTNNN", "AX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TranslateSequence(tt.seq))
		})
	}
}

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "CAT", ReverseComplement("ATG"))
	assert.Equal(t, "", ReverseComplement(""))
	assert.Equal(t, "NACGT", ReverseComplement("ACGTN"))
	// Involution.
	assert.Equal(t, "GATTACA", ReverseComplement(ReverseComplement("GATTACA")))
}

func TestTranslate_TruncatesAtStop(t *testing.T) {
	p := Translate("E1", VariantDistal, "GCTGAATAAGCT", 12)
	assert.Equal(t, "AE", p.Seq)
	assert.True(t, p.StopCodon)
	assert.False(t, p.FrameShift)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, VariantDistal, p.Variant)
}

func TestTranslate_FrameShiftFromEventSize(t *testing.T) {
	// Frame shift depends only on the event size, not the sequence.
	p := Translate("E1", VariantProximal, "GCTGAA", 10)
	assert.True(t, p.FrameShift)
	assert.False(t, p.StopCodon)
	assert.Equal(t, "AE", p.Seq)

	p = Translate("E1", VariantProximal, "GCTGAA", 12)
	assert.False(t, p.FrameShift)
}
