package crush

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/crushlang/crush/internal/crushlog"
)

// BeamOptions configures BeamSearchSolver, per spec.md §4.4 and §6.
type BeamOptions struct {
	BeamWidth             int
	BranchFactor          int
	LookAheadDepth        int
	MaxReplacements       int
	PrioritizeHighestGain bool
	Discount              float64
	Delimiter             rune

	// AlphabetFunc returns the candidate fresh-token runes available for
	// the given current text. Defaults to freeTokenAlphabet (the printable
	// ASCII free-byte alphabet); DigitReplacer overrides it with a
	// digits-only alphabet (digit.go).
	AlphabetFunc func(text []rune, delim rune) []rune

	// OnIteration, if set, is called after each outer loop iteration with
	// the replacements bound so far, the configured cap, and the number of
	// search-graph nodes explored so far. Used by worker.go to report
	// monotone progress.
	OnIteration func(replacements, maxReplacements, nodes int)

	// Stop, if set and returning true, ends the search early with the best
	// solution found so far (spec.md §5/§7 "budget exhausted" -- a normal,
	// non-error outcome). Checked once per outer loop iteration.
	Stop func() bool
}

// DefaultBeamOptions returns spec.md §6's documented defaults.
func DefaultBeamOptions() BeamOptions {
	return BeamOptions{
		BeamWidth:       5,
		BranchFactor:    20,
		LookAheadDepth:  150,
		MaxReplacements: 100,
		Discount:        0.9,
		Delimiter:       '`',
	}
}

// BeamSearchSolver maintains up to BeamWidth partial solutions, expanding
// each by its top BranchFactor patterns and retaining the best BeamWidth
// children by predicted score (or raw cumulative gain), per spec.md §4.4.
type BeamSearchSolver struct {
	Opts BeamOptions
}

// NewBeamSearchSolver builds a solver with opts, filling in zero fields
// from DefaultBeamOptions.
func NewBeamSearchSolver(opts BeamOptions) *BeamSearchSolver {
	def := DefaultBeamOptions()
	if opts.BeamWidth == 0 {
		opts.BeamWidth = def.BeamWidth
	}
	if opts.BranchFactor == 0 {
		opts.BranchFactor = def.BranchFactor
	}
	if opts.LookAheadDepth == 0 {
		opts.LookAheadDepth = def.LookAheadDepth
	}
	if opts.MaxReplacements == 0 {
		opts.MaxReplacements = def.MaxReplacements
	}
	if opts.Discount == 0 {
		opts.Discount = def.Discount
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = def.Delimiter
	}
	if opts.AlphabetFunc == nil {
		opts.AlphabetFunc = freeTokenAlphabet
	}
	return &BeamSearchSolver{Opts: opts}
}

// beamState is one partial solution in the frontier.
type beamState struct {
	text         []rune
	replacements []*Pattern
	available    []*Pattern
	cumGain      int
	predicted    float64
	depth        int
	nodeID       int
}

// Solve runs the beam search to completion and returns the best solution
// found across all iterations, even if it was later ejected from the beam.
func (s *BeamSearchSolver) Solve(input string) (*SolverResult, error) {
	opts := s.Opts
	predictor := NewPredictor(opts.LookAheadDepth, opts.Discount, DefaultScorerWeights())
	graph := newGraph()

	runes := []rune(input)
	rootAvailable := Enumerate(input, opts.Delimiter)
	root := beamState{
		text:      runes,
		available: rootAvailable,
		nodeID:    graph.addNode(-1, string(runes), 0, 0, 0),
	}

	beam := []beamState{root}
	best := root

	maxIterations := opts.MaxReplacements + 5
	for iter := 0; iter < maxIterations; iter++ {
		g, _ := errgroup.WithContext(context.Background())
		childrenCh := make(chan []beamState, len(beam))

		for _, st := range beam {
			st := st
			g.Go(func() error {
				childrenCh <- s.expand(st, predictor, graph)
				return nil
			})
		}
		_ = g.Wait()
		close(childrenCh)

		var candidates []beamState
		for cs := range childrenCh {
			candidates = append(candidates, cs...)
		}
		// "stop here" option: keep the unexpanded parent states too.
		candidates = append(candidates, beam...)
		candidates = dedupBeamByText(candidates)

		sort.SliceStable(candidates, func(i, j int) bool {
			return lessBeamState(opts.PrioritizeHighestGain, candidates[i], candidates[j])
		})
		if len(candidates) > opts.BeamWidth {
			candidates = candidates[:opts.BeamWidth]
		}
		beam = candidates

		progressed := false
		for _, c := range beam {
			if c.cumGain > best.cumGain {
				best = c
				progressed = true
			}
		}

		_ = progressed
		if opts.OnIteration != nil {
			opts.OnIteration(len(best.replacements), opts.MaxReplacements, len(graph.Nodes))
		}
		if opts.Stop != nil && opts.Stop() {
			crushlog.L().Warnw("beam search stopped by budget", "gain", best.cumGain, "replacements", len(best.replacements))
			break
		}
		if allTerminal(beam, opts.MaxReplacements) {
			break
		}
	}

	graph.setBestPath(best.nodeID)
	crushlog.L().Infow("beam search complete", "gain", best.cumGain, "replacements", len(best.replacements), "nodes", len(graph.Nodes))

	return &SolverResult{
		Input:        input,
		Text:         best.text,
		Replacements: best.replacements,
		Graph:        graph,
		TotalGain:    best.cumGain,
	}, nil
}

// expand recounts st's available patterns, takes the top BranchFactor by
// gain, and applies each to produce a child state, recording every
// expansion in graph.
func (s *BeamSearchSolver) expand(st beamState, predictor *Predictor, graph *Graph) []beamState {
	opts := s.Opts
	available := Recount(clonePatterns(st.available), st.text)
	available = scoreAndFilter(available, DefaultScorerWeights())
	sort.Slice(available, func(i, j int) bool { return available[i].Gain > available[j].Gain })

	top := available
	if len(top) > opts.BranchFactor {
		top = top[:opts.BranchFactor]
	}

	var children []beamState
	for _, cand := range top {
		if cand.Gain <= 0 || len(st.replacements) >= opts.MaxReplacements {
			continue
		}
		alphabet := opts.AlphabetFunc(st.text, opts.Delimiter)
		if len(alphabet) == 0 {
			continue
		}
		tokenRune := alphabet[0]

		childPattern := *cand
		childPattern.Token = string(tokenRune)
		childPattern.NewOrder = len(st.replacements)

		childText := rewriteRunes(st.text, cand.Runes, tokenRune)
		childReplacements := append(append([]*Pattern(nil), st.replacements...), &childPattern)
		recordDependencies(childReplacements[:len(childReplacements)-1], &childPattern)

		remaining := make([]*Pattern, 0, len(available)-1)
		for _, a := range available {
			if a != cand {
				remaining = append(remaining, a)
			}
		}

		cumGain := st.cumGain + cand.Gain
		lookAhead := predictor.Predict(childText, remaining, len(childReplacements), opts.LookAheadDepth)
		predictedScore := float64(cumGain) + opts.Discount*float64(lookAhead)

		nodeID := graph.addNode(st.nodeID, string(childText), st.depth+1, cumGain, predictedScore)
		graph.addEdge(st.nodeID, nodeID, cand.OriginalText(), childPattern.Token, cand.Gain)

		children = append(children, beamState{
			text: childText, replacements: childReplacements, available: remaining,
			cumGain: cumGain, predicted: predictedScore, depth: st.depth + 1, nodeID: nodeID,
		})
	}
	return children
}

// dedupBeamByText keeps only the first occurrence of each distinct text,
// preserving insertion order, per spec.md §3's "deduplicate by text-key".
func dedupBeamByText(states []beamState) []beamState {
	seen := map[string]bool{}
	out := states[:0]
	for _, st := range states {
		key := string(st.text)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, st)
	}
	return out
}

// lessBeamState orders candidates per spec.md §4.4: when
// prioritizeHighestGain is set, raw cumulative gain wins outright;
// otherwise predicted score wins, with gain as the tiebreaker.
func lessBeamState(prioritizeHighestGain bool, a, b beamState) bool {
	if prioritizeHighestGain {
		if a.cumGain != b.cumGain {
			return a.cumGain > b.cumGain
		}
		return a.predicted > b.predicted
	}
	if a.predicted != b.predicted {
		return a.predicted > b.predicted
	}
	return a.cumGain > b.cumGain
}

// allTerminal reports whether every state in the beam either has no
// positive-gain pattern left or has reached maxReplacements.
func allTerminal(beam []beamState, maxReplacements int) bool {
	for _, st := range beam {
		if len(st.replacements) >= maxReplacements {
			continue
		}
		hasPositive := false
		for _, p := range st.available {
			if p.Gain > 0 {
				hasPositive = true
				break
			}
		}
		if hasPositive {
			return false
		}
	}
	return true
}
