package crush

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredictorReturnsZeroWhenNoCandidates(t *testing.T) {
	pr := NewPredictor(10, 0.9, DefaultScorerWeights())
	got := pr.Predict([]rune("abcdef"), nil, 0, 10)
	assert.Equal(t, 0, got)
}

func TestPredictorFindsFutureGain(t *testing.T) {
	pr := NewPredictor(10, 0.9, DefaultScorerWeights())
	text := []rune("abcabcabc")
	candidates := Enumerate(string(text), '`')
	got := pr.Predict(text, candidates, 0, 10)
	assert.Greater(t, got, 0)
}

func TestPredictorMemoisesByKey(t *testing.T) {
	pr := NewPredictor(10, 0.9, DefaultScorerWeights())
	text := []rune("abcabcabc")
	candidates := Enumerate(string(text), '`')

	first := pr.Predict(text, candidates, 0, 5)
	assert.Len(t, pr.cache, 1)
	second := pr.Predict(text, candidates, 0, 5)
	assert.Equal(t, first, second)
	assert.Len(t, pr.cache, 1, "identical call should hit the cache, not grow it")
}

func TestPlaceholderTokenIsPrivateUse(t *testing.T) {
	r := placeholderToken(0)
	assert.GreaterOrEqual(t, r, rune(0xE000))
}
