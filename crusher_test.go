package crush

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrushTongueTwisterPicksSeashells(t *testing.T) {
	input := "She sells seashells by the seashore, The shells she sells are seashells, I'm sure. So if she sells seashells on the seashore, Then I'm sure she sells seashore shells."
	result, err := Crush(input, DefaultCrusherOptions())
	require.NoError(t, err)
	require.NotEmpty(t, result.Replacements)

	first := result.Replacements[0]
	assert.Contains(t, first.OriginalText(), "seashells")
	assert.GreaterOrEqual(t, first.Copies, 4)
	assert.Less(t, runeLen(result.Text), runeLen([]rune(input)))
}

func TestCrushSingleReplacement(t *testing.T) {
	result, err := Crush("abcabcabc", DefaultCrusherOptions())
	require.NoError(t, err)
	require.Len(t, result.Replacements, 1)
	assert.Equal(t, "abc", result.Replacements[0].OriginalText())
	assert.Equal(t, 1, result.Replacements[0].Gain)
}

func TestCrushNoRepeatsLeavesInputUnchanged(t *testing.T) {
	input := "the quick brown fox jumps nicely"
	result, err := Crush(input, DefaultCrusherOptions())
	require.NoError(t, err)
	assert.Empty(t, result.Replacements)
	assert.Equal(t, input, string(result.Text))
}

func TestCrushEveryPrintableByteHasNoFreeTokens(t *testing.T) {
	var all []rune
	for b := rune(32); b <= 126; b++ {
		all = append(all, b, b) // duplicate every byte so copies>=2 is reachable
	}
	input := string(all)
	alphabet := freeTokenAlphabet([]rune(input), '`')
	assert.Empty(t, alphabet)
}

func TestCrushReplacementsHavePositiveGainAndDistinctTokens(t *testing.T) {
	result, err := Crush("aaaaaabbbbbbccccccaaaaaabbbbbbcccccc", DefaultCrusherOptions())
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, r := range result.Replacements {
		assert.Greater(t, r.Gain, 0)
		assert.False(t, seen[r.Token], "duplicate token %q", r.Token)
		seen[r.Token] = true
	}
}
