package crush

// ScorerWeights holds the four configurable real weights from spec.md §4.2
// / §6 (crushGainFactor, crushLengthFactor, crushCopiesFactor,
// crushTiebreakerFactor).
type ScorerWeights struct {
	GainFactor       float64
	LengthFactor     float64
	CopiesFactor     float64
	TiebreakerFactor float64
}

// DefaultScorerWeights favors gain with a light nod to longer, more-copied
// patterns for tie-breaking, matching the BALANCED heuristic in
// heuristics.go.
func DefaultScorerWeights() ScorerWeights {
	return ScorerWeights{
		GainFactor:       1.0,
		LengthFactor:     0.01,
		CopiesFactor:     0.01,
		TiebreakerFactor: 0.001,
	}
}

// gain is spec.md §3's invariant formula: one overhead unit for adding the
// token to the decoder's token list, one for the delimiter byte between the
// packed string and the token list, and a two-byte amortised cost of
// placing the substring in the decoder.
func gain(copies, length int) int {
	return copies*length - copies - length - 2
}

// gainWithTokenCost is the token-allocator's multi-byte-token-aware
// variant (spec.md §3, used only for the backslash token whose cost is 2
// output bytes instead of 1).
func gainWithTokenCost(copies, length, tokenCost int) int {
	return copies*(length-tokenCost) - length - 2*tokenCost
}

// score computes the weighted combination used for ordering, per spec.md
// §4.2.
func score(w ScorerWeights, g, length, copies int) float64 {
	return w.GainFactor*float64(g) + w.LengthFactor*float64(length) + w.CopiesFactor*float64(copies)
}

// scoreAndFilter recomputes Gain/Score for every pattern (using the
// one-byte-token gain formula) and drops any with Copies < 2 or Gain <= 0,
// per spec.md §4.2 ("A Pattern with gain <= 0 is never chosen. A Pattern
// with copies < 2 is dropped outright.").
func scoreAndFilter(patterns []*Pattern, w ScorerWeights) []*Pattern {
	kept := patterns[:0]
	for _, p := range patterns {
		if p.Copies < 2 {
			continue
		}
		p.Gain = gain(p.Copies, p.Len)
		if p.Gain <= 0 {
			continue
		}
		p.Score = score(w, p.Gain, p.Len, p.Copies)
		kept = append(kept, p)
	}
	return kept
}

// lessPattern orders patterns by the spec.md §4.2 tie-break chain: higher
// Score first, then higher Gain, then Copies ordered by the sign of
// TiebreakerFactor (positive favors more copies, negative favors fewer).
func lessPattern(w ScorerWeights, a, b *Pattern) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Gain != b.Gain {
		return a.Gain > b.Gain
	}
	ta := w.TiebreakerFactor * float64(a.Copies)
	tb := w.TiebreakerFactor * float64(b.Copies)
	return ta > tb
}

// bestPattern returns the index of the highest-ranked pattern by
// lessPattern's ordering, or -1 if patterns is empty.
func bestPattern(w ScorerWeights, patterns []*Pattern) int {
	best := -1
	for i, p := range patterns {
		if p.Gain <= 0 {
			continue
		}
		if best == -1 || lessPattern(w, p, patterns[best]) {
			best = i
		}
	}
	return best
}
