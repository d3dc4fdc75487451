package crush

import "fmt"

// predictorFreeTokenBudget bounds how many fresh placeholder tokens the
// look-ahead simulation may hand out before concluding no more substitutions
// are possible. It approximates the printable-ASCII free-token alphabet
// without needing the real (input-dependent) alphabet computation, since
// the predictor only needs a realistic depth at which gains taper off.
const predictorFreeTokenBudget = 90

// Predictor implements spec.md §4.3's memoised, bounded-depth gain
// look-ahead: it estimates additional gain obtainable beyond the next
// replacement, so a beam can prefer a locally-inferior step that opens up
// richer follow-ups.
type Predictor struct {
	Weights  ScorerWeights
	MaxDepth int
	Discount float64

	cache map[string]int
}

// NewPredictor builds a Predictor with the given look-ahead depth and
// per-step discount (spec.md §4.3 and §9: default discount 0.9).
func NewPredictor(maxDepth int, discount float64, w ScorerWeights) *Predictor {
	return &Predictor{Weights: w, MaxDepth: maxDepth, Discount: discount, cache: map[string]int{}}
}

// Predict returns the cumulative projected gain of greedily applying the
// best available pattern repeatedly, up to MaxDepth steps or until no
// pattern has positive gain or no fresh placeholder token remains.
func (pr *Predictor) Predict(text []rune, available []*Pattern, tokensUsed int, depth int) int {
	if depth <= 0 || len(available) == 0 || tokensUsed >= predictorFreeTokenBudget {
		return 0
	}

	key := fmt.Sprintf("%d|%d|%s", depth, tokensUsed, string(text))
	if v, ok := pr.cache[key]; ok {
		return v
	}

	clones := clonePatterns(available)
	recounted := Recount(clones, text)
	recounted = scoreAndFilter(recounted, pr.Weights)
	if len(recounted) == 0 {
		pr.cache[key] = 0
		return 0
	}

	idx := bestPattern(pr.Weights, recounted)
	if idx == -1 {
		pr.cache[key] = 0
		return 0
	}
	best := recounted[idx]

	newText := rewriteRunes(text, best.Runes, placeholderToken(tokensUsed))
	remaining := make([]*Pattern, 0, len(recounted)-1)
	for i, p := range recounted {
		if i != idx {
			remaining = append(remaining, p)
		}
	}

	future := pr.Predict(newText, remaining, tokensUsed+1, depth-1)
	total := best.Gain + int(pr.Discount*float64(future))
	pr.cache[key] = total
	return total
}

// clonePatterns makes shallow value copies of patterns so a look-ahead
// simulation can mutate Copies/Gain/Score without disturbing the caller's
// live search state.
func clonePatterns(patterns []*Pattern) []*Pattern {
	out := make([]*Pattern, len(patterns))
	for i, p := range patterns {
		cp := *p
		out[i] = &cp
	}
	return out
}

// placeholderToken returns a private-use-area rune standing in for the
// n-th not-yet-allocated token during a look-ahead simulation. Real token
// bytes are only decided later by the allocator (allocator.go); the
// predictor only needs *a* distinct rune per simulated substitution so that
// rewriteRunes can tell substituted regions apart from the original text.
func placeholderToken(n int) rune {
	return rune(0xE000 + n)
}
