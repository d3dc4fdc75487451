package crush

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerateFindsRepeatedSubstring(t *testing.T) {
	patterns := Enumerate("abcabcabc", '`')
	require.NotEmpty(t, patterns)

	var found *Pattern
	for _, p := range patterns {
		if p.Text() == "abc" {
			found = p
		}
	}
	require.NotNil(t, found, "expected \"abc\" among candidates")
	assert.Equal(t, 3, found.Copies)
}

func TestEnumerateDropsSingleOccurrence(t *testing.T) {
	patterns := Enumerate("abcdefghij", '`')
	for _, p := range patterns {
		assert.GreaterOrEqual(t, p.Copies, 2, "pattern %q should have been dropped", p.Text())
	}
}

func TestEnumerateNoRepeatsOnDistinctInput(t *testing.T) {
	patterns := Enumerate("abcdef", '`')
	assert.Empty(t, patterns)
}

func TestRecountDropsVanishedPatterns(t *testing.T) {
	patterns := Enumerate("abcabcabc", '`')
	rewritten := []rune("XYZXYZXYZ") // "abc" no longer present anywhere
	kept := Recount(patterns, rewritten)
	for _, p := range kept {
		assert.NotEqual(t, "abc", p.Text())
	}
}

func TestIsLoneSurrogate(t *testing.T) {
	assert.True(t, isLoneSurrogate(0xD800))
	assert.True(t, isLoneSurrogate(0xDFFF))
	assert.False(t, isLoneSurrogate('a'))
	assert.False(t, isLoneSurrogate(0x1F600))
}

func TestMaxPatternLen(t *testing.T) {
	assert.Equal(t, 50, maxPatternLen(100))
	assert.Equal(t, 100, maxPatternLen(10000))
}
