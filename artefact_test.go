package crush

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArtefactRoundTripsCrusher(t *testing.T) {
	input := "She sells seashells by the seashore, The shells she sells are seashells, I'm sure. So if she sells seashells on the seashore, Then I'm sure she sells seashore shells."
	result, err := Crush(input, DefaultCrusherOptions())
	require.NoError(t, err)

	alloc := Allocate(result, DefaultScorerWeights(), '`')
	require.GreaterOrEqual(t, alloc.Length, 0)

	artefact := BuildArtefact(alloc, input, '`', defaultDecoderGlue())
	assert.True(t, artefact.Passed, artefact.Details)
	assert.Less(t, artefact.Length, len(input))
	assert.Contains(t, artefact.Output, "eval(_)")
	assert.NoError(t, artefact.Err)

	for _, p := range alloc.Replacements {
		assert.Contains(t, artefact.Output, escapeLiteral(p.OriginalText(), '`')+p.Token,
			"the packed literal must carry this replacement's dictionary header, not just Details")
	}
}

// TestBuildArtefactCatchesMissingDictionary is a regression test for an
// artefact whose packed literal omits a bound replacement's header: the
// decoder this would emit can't actually recover that token, and
// simulateDecode must fail (not pass vacuously) against it.
func TestBuildArtefactCatchesMissingDictionary(t *testing.T) {
	p := newPattern([]rune("ab"), []rune("ab"), '`')
	p.Token = "\x01"
	p.Copies = 2
	p.NewOrder = 0

	// FinalText substitutes the token into the body but never appends the
	// "ab\x01" header packedBody would have produced.
	alloc := &AllocationResult{
		CharClass:    string(rune(1)),
		Replacements: []*Pattern{p},
		FinalText:    []rune("\x01\x01\x01"),
		Length:       3,
		Report:       "ok",
	}

	artefact := BuildArtefact(alloc, "ababab", '`', defaultDecoderGlue())
	assert.False(t, artefact.Passed)
	assert.True(t, errors.Is(artefact.Err, ErrVerificationFailed))
}

func TestBuildArtefactNoGainWrapsInputUnchanged(t *testing.T) {
	input := "abcdefghij"
	result, err := Crush(input, DefaultCrusherOptions())
	require.NoError(t, err)
	assert.Empty(t, result.Replacements)

	alloc := Allocate(result, DefaultScorerWeights(), '`')
	artefact := BuildArtefact(alloc, input, '`', defaultDecoderGlue())
	assert.True(t, artefact.Passed)
	assert.Equal(t, "no gain found", artefact.Details)
	assert.Contains(t, artefact.Output, input)
}

func TestBuildArtefactReportsFailureLength(t *testing.T) {
	alloc := &AllocationResult{Length: -1, Report: "no tokens available"}
	artefact := BuildArtefact(alloc, "xyz", '`', defaultDecoderGlue())
	assert.Equal(t, -1, artefact.Length)
	assert.False(t, artefact.Passed)
	assert.Equal(t, "no tokens available", artefact.Details)
}

func TestBuildDigitArtefactUsesReplaceForm(t *testing.T) {
	input := "abcabcabc"
	replacer := NewDigitReplacer(DefaultDigitOptions())
	result, err := replacer.Solve(context.Background(), input)
	require.NoError(t, err)
	require.NotEmpty(t, result.Replacements)

	alloc := AllocateDigits(result)
	artefact := BuildDigitArtefact(alloc, input, '`', defaultDecoderGlue())
	assert.True(t, artefact.Passed, artefact.Details)
	assert.True(t, strings.Contains(artefact.Output, ".replace(/\\d/g"))
}
