package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFit_ExactSubstring(t *testing.T) {
	r := Fit("DEFG", "ACDEFGHI", DefaultScoring())

	assert.Equal(t, 4, r.Score)
	assert.Equal(t, 4, r.Matches)
	assert.Zero(t, r.Mismatches)
	assert.Zero(t, r.Insertions)
	assert.Zero(t, r.Deletions)
	assert.Equal(t, 1, r.PatternStart)
	assert.Equal(t, 4, r.PatternEnd)
	assert.Equal(t, 3, r.SubjectStart)
	assert.Equal(t, 6, r.SubjectEnd)
	assert.True(t, r.Exact())
	assert.False(t, r.InternalIndel)
}

func TestFit_FullLengthIdentity(t *testing.T) {
	r := Fit("ACDEFGHIKL", "ACDEFGHIKL", DefaultScoring())

	assert.Equal(t, 10, r.Score)
	assert.Equal(t, 1, r.SubjectStart)
	assert.Equal(t, 10, r.SubjectEnd)
	assert.True(t, r.Exact())
}

func TestFit_InternalDeletion(t *testing.T) {
	// The subject carries three extra residues relative to the pattern.
	r := Fit("ACDEFGHIKL", "ACDEFWYVGHIKL", DefaultScoring())

	assert.Equal(t, 10, r.Matches)
	assert.Zero(t, r.Mismatches)
	assert.Zero(t, r.Insertions)
	assert.Equal(t, 3, r.Deletions)
	assert.Equal(t, 1, r.SubjectStart)
	assert.Equal(t, 13, r.SubjectEnd)
	assert.True(t, r.InternalIndel)
	assert.False(t, r.Exact())
}

func TestFit_InternalInsertion(t *testing.T) {
	// The pattern carries three extra residues relative to the subject.
	r := Fit("ACDEFWYVGHIKL", "ACDEFGHIKL", DefaultScoring())

	assert.Equal(t, 10, r.Matches)
	assert.Equal(t, 3, r.Insertions)
	assert.Zero(t, r.Deletions)
	assert.Equal(t, 1, r.PatternStart)
	assert.Equal(t, 13, r.PatternEnd)
	assert.Equal(t, 1, r.SubjectStart)
	assert.Equal(t, 10, r.SubjectEnd)
	assert.True(t, r.InternalIndel)
	assert.False(t, r.Exact())
}

func TestFit_TrailingInsertionIsEdgeIndel(t *testing.T) {
	// Pattern residues past the subject end hang off the aligned span.
	r := Fit("ACDEFWY", "ACDEF", DefaultScoring())

	assert.Equal(t, 5, r.Matches)
	assert.Equal(t, 2, r.Insertions)
	assert.False(t, r.InternalIndel)
	assert.Equal(t, 5, r.PatternEnd)
	assert.Equal(t, 5, r.SubjectEnd)
	assert.False(t, r.Exact())
}

func TestFit_MismatchPreferredOverGapPair(t *testing.T) {
	// One substitution column outscores an insertion-deletion pair.
	r := Fit("ACDEF", "ACYEF", DefaultScoring())

	assert.Equal(t, 4, r.Matches)
	assert.Equal(t, 1, r.Mismatches)
	assert.Zero(t, r.Insertions)
	assert.Zero(t, r.Deletions)
	assert.Equal(t, -6, r.Score)
	assert.False(t, r.Exact())
}

func TestFit_EmptyPattern(t *testing.T) {
	r := Fit("", "ACDEF", DefaultScoring())
	assert.Zero(t, r.Score)
	assert.Zero(t, r.PatternLen)
	assert.False(t, r.Exact())
}

func TestFit_SubjectOverhangIsFree(t *testing.T) {
	// Leading and trailing unaligned subject residues cost nothing.
	short := Fit("DEF", "DEF", DefaultScoring())
	embedded := Fit("DEF", "ACDEFGHIKL", DefaultScoring())
	assert.Equal(t, short.Score, embedded.Score)
}
