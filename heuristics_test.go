package crush

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicStringNames(t *testing.T) {
	assert.Equal(t, "BALANCED", BALANCED.String())
	assert.Equal(t, "MOST_COPIES", MOST_COPIES.String())
	assert.Equal(t, "LONGEST", LONGEST.String())
	assert.Equal(t, "DENSITY", DENSITY.String())
	assert.Equal(t, "ADAPTIVE", ADAPTIVE.String())
	assert.Equal(t, "ADAPTIVE_GAIN", ADAPTIVE_GAIN.String())
	assert.Equal(t, "UNKNOWN", Heuristic(99).String())
}

func TestCountOverlappingCountsOverlappingMatches(t *testing.T) {
	got := countOverlapping([]rune("aaaa"), []rune("aa"))
	assert.Equal(t, 3, got)
}

func TestCountOverlappingEmptyNeedle(t *testing.T) {
	assert.Equal(t, 0, countOverlapping([]rune("aaaa"), nil))
}

func TestPickByHeuristicMostCopiesPrefersHighCopyCount(t *testing.T) {
	text := []rune("ababab cd cd")
	patterns := scoreAndFilter(Enumerate(string(text), '`'), DefaultScorerWeights())
	idx := pickByHeuristic(MOST_COPIES, patterns, text)
	if idx == -1 {
		t.Skip("no positive-gain pattern found for this input")
	}
	assert.GreaterOrEqual(t, patterns[idx].Copies, 2)
}

func TestPickByHeuristicDensityReturnsMinusOneWhenAllNonPositive(t *testing.T) {
	patterns := []*Pattern{{Gain: 0}, {Gain: -1}}
	idx := pickByHeuristic(DENSITY, patterns, []rune("abc"))
	assert.Equal(t, -1, idx)
}

func TestPickByHeuristicAdaptivePicksAmongVariants(t *testing.T) {
	text := []rune("abcabcabc xyzxyzxyz")
	patterns := scoreAndFilter(Enumerate(string(text), '`'), DefaultScorerWeights())
	idx := pickByHeuristic(ADAPTIVE, patterns, text)
	require := idx != -1
	assert.True(t, require, "expected adaptive to find a candidate among positive-gain patterns")
}

func TestMaxHelper(t *testing.T) {
	assert.Equal(t, 5, max(5, 3))
	assert.Equal(t, 5, max(3, 5))
}
