package crush

// Heuristic selects which scoring variant the Crusher uses to pick its next
// replacement, per spec.md §4.4.
type Heuristic int

const (
	BALANCED Heuristic = iota
	MOST_COPIES
	LONGEST
	DENSITY
	ADAPTIVE
	ADAPTIVE_GAIN
)

func (h Heuristic) String() string {
	switch h {
	case BALANCED:
		return "BALANCED"
	case MOST_COPIES:
		return "MOST_COPIES"
	case LONGEST:
		return "LONGEST"
	case DENSITY:
		return "DENSITY"
	case ADAPTIVE:
		return "ADAPTIVE"
	case ADAPTIVE_GAIN:
		return "ADAPTIVE_GAIN"
	default:
		return "UNKNOWN"
	}
}

// weightsForHeuristic returns the scorer weights a non-adaptive heuristic
// uses for ranking. ADAPTIVE and DENSITY are handled specially by
// pickByHeuristic below since they need information (per-variant
// candidates, overlap counts) beyond a fixed weight vector.
func weightsForHeuristic(h Heuristic) ScorerWeights {
	switch h {
	case MOST_COPIES:
		return ScorerWeights{GainFactor: 0.2, LengthFactor: 0, CopiesFactor: 1.0, TiebreakerFactor: 1.0}
	case LONGEST:
		return ScorerWeights{GainFactor: 0.2, LengthFactor: 1.0, CopiesFactor: 0, TiebreakerFactor: 0.001}
	case ADAPTIVE_GAIN:
		return ScorerWeights{GainFactor: 1.0, LengthFactor: 0, CopiesFactor: 0, TiebreakerFactor: 0}
	default:
		return DefaultScorerWeights()
	}
}

// countOverlapping returns the number of (possibly overlapping) occurrences
// of needle in haystack, advancing one rune at a time rather than skipping
// past each match. Used only by the DENSITY heuristic's weighted count, per
// spec.md §9's "adaptive overlap-weighted count" note.
func countOverlapping(haystack, needle []rune) int {
	if len(needle) == 0 || len(haystack) < len(needle) {
		return 0
	}
	count := 0
	limit := len(haystack) - len(needle)
	for i := 0; i <= limit; i++ {
		if runesEqual(haystack[i:i+len(needle)], needle) {
			count++
		}
	}
	return count
}

// densityWeight computes the DENSITY heuristic's ranking score: a
// non-integer, overlap-weighted occurrence estimate scaled by gain. Per
// SPEC_FULL.md §2.5, this value is used only for ranking; the Gain field
// bound to the chosen Pattern always uses the integer non-overlapping
// Copies count.
func densityWeight(p *Pattern, text []rune) float64 {
	overlap := countOverlapping(text, p.Runes)
	nonOverlap := p.Copies
	weighted := float64(nonOverlap) + 0.3*float64(overlap-nonOverlap)
	return weighted * float64(p.Gain) / float64(max(1, len(p.Runes)))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// pickByHeuristic returns the index into patterns chosen by heuristic h.
// patterns must already have Gain/Copies populated (via scoreAndFilter).
// Returns -1 if no pattern has positive gain.
func pickByHeuristic(h Heuristic, patterns []*Pattern, text []rune) int {
	switch h {
	case DENSITY:
		best := -1
		var bestW float64
		for i, p := range patterns {
			if p.Gain <= 0 {
				continue
			}
			w := densityWeight(p, text)
			if best == -1 || w > bestW {
				best, bestW = i, w
			}
		}
		return best
	case ADAPTIVE:
		candidates := map[int]bool{}
		for _, variant := range []Heuristic{BALANCED, MOST_COPIES, LONGEST, DENSITY} {
			if idx := pickByHeuristic(variant, patterns, text); idx != -1 {
				candidates[idx] = true
			}
		}
		best := -1
		for idx := range candidates {
			if best == -1 || patterns[idx].Gain > patterns[best].Gain {
				best = idx
			}
		}
		return best
	default:
		w := weightsForHeuristic(h)
		for _, p := range patterns {
			p.Score = score(w, p.Gain, p.Len, p.Copies)
		}
		return bestPattern(w, patterns)
	}
}
