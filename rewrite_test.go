package crush

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteRunesReplacesNonOverlapping(t *testing.T) {
	out := rewriteRunes([]rune("aaaa"), []rune("aa"), '1')
	assert.Equal(t, "11", string(out))
}

func TestRewriteRunesNoMatchReturnsCopy(t *testing.T) {
	out := rewriteRunes([]rune("abc"), []rune("zz"), '1')
	assert.Equal(t, "abc", string(out))
}

func TestRewriteRunesEmptyMatchReturnsCopyUnchanged(t *testing.T) {
	out := rewriteRunes([]rune("abc"), nil, '1')
	assert.Equal(t, "abc", string(out))
}

func TestContainsRunesFindsSubslice(t *testing.T) {
	assert.True(t, containsRunes([]rune("hello world"), []rune("wor")))
	assert.False(t, containsRunes([]rune("hello world"), []rune("xyz")))
}

func TestContainsRunesEmptyNeedleAlwaysTrue(t *testing.T) {
	assert.True(t, containsRunes([]rune("abc"), nil))
}

func TestFreeTokenAlphabetExcludesReservedAndPresentBytes(t *testing.T) {
	alphabet := freeTokenAlphabet([]rune("abc"), '`')
	for _, r := range alphabet {
		assert.NotEqual(t, '\r', r)
		assert.NotEqual(t, '\\', r)
		assert.NotEqual(t, '`', r)
		assert.NotContains(t, []rune("abc"), r)
	}
}

func TestFreeTokenAlphabetExcludesConfiguredDelimiter(t *testing.T) {
	alphabet := freeTokenAlphabet([]rune("abc"), '#')
	assert.NotContains(t, alphabet, '#')
}
