package crush

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverRangesExcludesDelimiterAndPresentBytes(t *testing.T) {
	ranges := discoverRanges([]rune("`abc"), '`')
	for _, r := range ranges {
		for b := r.First; b <= r.Last; b++ {
			assert.NotEqual(t, '`', b)
			assert.NotEqual(t, 'a', b)
			assert.NotEqual(t, 'b', b)
			assert.NotEqual(t, 'c', b)
		}
	}
}

func TestDiscoverRangesNoneWhenEveryByteUsed(t *testing.T) {
	var all []rune
	for b := rune(1); b <= 126; b++ {
		all = append(all, b)
	}
	ranges := discoverRanges(all, '`')
	assert.Empty(t, ranges)
}

func TestTokenSupplyOrdersBackslashLast(t *testing.T) {
	ranges := []TokenRange{newTokenRange('[', '^')} // includes '\\' (0x5C)
	supply := tokenSupply(ranges)
	require.NotEmpty(t, supply)
	assert.Equal(t, '\\', supply[len(supply)-1])
}

func TestRepairLeadingCaretDropsCaretWhenFewReplacements(t *testing.T) {
	ranges := []TokenRange{newTokenRange('^', 'b')}
	repaired := repairLeadingCaret(ranges, 1)
	require.NotEmpty(t, repaired)
	assert.NotEqual(t, rune('^'), repaired[0].First)
}

func TestAllocateFullRoundTrip(t *testing.T) {
	input := "abcabcabc"
	result, err := Crush(input, DefaultCrusherOptions())
	require.NoError(t, err)
	require.NotEmpty(t, result.Replacements)

	alloc := Allocate(result, DefaultScorerWeights(), '`')
	require.GreaterOrEqual(t, alloc.Length, 0)
	require.NotEmpty(t, alloc.Replacements)

	for i, a := range alloc.Replacements {
		for j, b := range alloc.Replacements {
			if i == j {
				continue
			}
			assert.NotEqual(t, a.Token, b.Token, "tokens must be disjoint")
		}
	}
}

func TestAllocateFinalTextEmbedsHeaderPerReplacement(t *testing.T) {
	input := "abcabcabc"
	result, err := Crush(input, DefaultCrusherOptions())
	require.NoError(t, err)
	require.NotEmpty(t, result.Replacements)

	alloc := Allocate(result, DefaultScorerWeights(), '`')
	require.NotEmpty(t, alloc.Replacements)

	text := string(alloc.FinalText)
	for _, p := range alloc.Replacements {
		assert.Contains(t, text, p.OriginalText()+p.Token,
			"FinalText must carry an original+token header for every bound replacement")
	}
}

func TestAllocateNoGainIsEmptyNotFailure(t *testing.T) {
	result := &SolverResult{Input: "abcdef", Text: []rune("abcdef")}
	alloc := Allocate(result, DefaultScorerWeights(), '`')
	assert.Equal(t, 0, alloc.Length)
	assert.Equal(t, "no gain found", alloc.Report)
}

func TestAllocateFailsWhenEveryByteIsUsed(t *testing.T) {
	var all []rune
	for b := rune(32); b <= 126; b++ {
		all = append(all, b, b)
	}
	input := string(all)
	p := newPattern([]rune(string(all[:4])), []rune(string(all[:4])), '`')
	p.Copies = 2
	p.Gain = 1
	p.Token = string(all[0])
	result := &SolverResult{Input: input, Text: []rune(input), Replacements: []*Pattern{p}}

	alloc := Allocate(result, DefaultScorerWeights(), '`')
	assert.Equal(t, -1, alloc.Length)
	assert.Equal(t, "no tokens available", alloc.Report)
	assert.True(t, errors.Is(alloc.Err, ErrNoFreeTokens))
}

func TestClassCompiles(t *testing.T) {
	ranges := discoverRanges([]rune("hello world"), '`')
	require.NotEmpty(t, ranges)
	sortRanges(ranges)
	class := buildClassString(ranges)
	_, err := coregexCompileClass(class)
	assert.NoError(t, err)
}
