package crush

import "github.com/crushlang/crush/internal/crushlog"

// maxCrusherIterations is the safety counter from spec.md §4.4: "a safety
// counter aborts any branch that exceeds a global iteration budget". In
// practice the loop always terminates much sooner because the working text
// strictly shrinks and the free-token alphabet is finite.
const maxCrusherIterations = 10000

// CrusherOptions configures the single-pass greedy strategy (spec.md
// §4.4 Crusher).
type CrusherOptions struct {
	Heuristic Heuristic
	Delimiter rune
}

// DefaultCrusherOptions returns BALANCED heuristic with the backtick
// delimiter, per spec.md §6's useES6/default conventions.
func DefaultCrusherOptions() CrusherOptions {
	return CrusherOptions{Heuristic: BALANCED, Delimiter: '`'}
}

// Crush runs the single-pass greedy strategy: repeatedly pick the
// highest-scoring positive-gain pattern, bind it to a fresh token, rewrite
// the text, and repeat until no positive-gain pattern or free token
// remains.
func Crush(input string, opts CrusherOptions) (*SolverResult, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = '`'
	}

	text := []rune(input)
	available := Enumerate(input, opts.Delimiter)
	var replacements []*Pattern
	totalGain := 0

	for iter := 0; iter < maxCrusherIterations; iter++ {
		available = Recount(available, text)
		available = scoreAndFilter(available, DefaultScorerWeights())
		if len(available) == 0 {
			break
		}

		idx := pickByHeuristic(opts.Heuristic, available, text)
		if idx == -1 {
			break
		}

		alphabet := freeTokenAlphabet(text, opts.Delimiter)
		if len(alphabet) == 0 {
			crushlog.L().Debugw("crusher: no free tokens remain", "replacements", len(replacements))
			break
		}

		chosen := available[idx]
		tokenRune := alphabet[0]
		chosen.Token = string(tokenRune)
		chosen.NewOrder = len(replacements)

		text = rewriteRunes(text, chosen.Runes, tokenRune)
		recordDependencies(replacements, chosen)
		replacements = append(replacements, chosen)
		totalGain += chosen.Gain

		available = append(available[:idx], available[idx+1:]...)
	}

	return &SolverResult{
		Input:        input,
		Text:         text,
		Replacements: replacements,
		TotalGain:    totalGain,
	}, nil
}
