package crush

import (
	"context"
	"fmt"

	"github.com/crushlang/crush/internal/crushlog"
)

// ResultStage is one stage of a PackerData's result pair, per spec.md §6.
type ResultStage struct {
	Length    int
	Output    string
	Details   string
	Transform string // optional; empty when unused
	IsRunning bool    // true only for the digit variant's async stage
}

// MatchEntry is one row of a PackerData's matchesLookup, per spec.md §6.
type MatchEntry struct {
	Token    string
	Original string
	Copies   int
}

// PackerData is one strategy's full output, per spec.md §6.
type PackerData struct {
	Strategy      string
	Original      string
	Replacements  []*Pattern
	MatchesLookup []MatchEntry
	Result        [2]ResultStage
	SearchGraph   *Graph
}

func matchesLookup(replacements []*Pattern) []MatchEntry {
	out := make([]MatchEntry, len(replacements))
	for i, p := range replacements {
		out[i] = MatchEntry{Token: p.Token, Original: p.OriginalText(), Copies: p.Copies}
	}
	return out
}

// preAllocationStage reports the raw, pre-allocator substituted text that a
// search strategy produced, before the token allocator's final byte
// assignment -- spec.md §6's Stage1.
func preAllocationStage(result *SolverResult) ResultStage {
	text := string(result.Text)
	return ResultStage{
		Length:  utf8LenString(text),
		Output:  text,
		Details: fmt.Sprintf("replacements=%d total_gain=%d", len(result.Replacements), result.TotalGain),
	}
}

// artefactStage turns an Artefact into spec.md §6's Stage2.
func artefactStage(a *Artefact) ResultStage {
	return ResultStage{Length: a.Length, Output: a.Output, Details: a.Details}
}

// Pack runs every search strategy over input and returns one PackerData per
// strategy, per spec.md §6's `pack(input, options) -> List[PackerData]`.
// A strategy that panics is recovered and reported as an error-shaped
// PackerData rather than propagating, per spec.md §7's propagation policy.
// Pack does no option validation; its returned error is always nil.
func Pack(input string, opts PackerOptions) ([]PackerData, error) {
	opts = opts.fillDefaults()
	weights := opts.scorerWeights()
	glue := opts.decoderGlue()

	data := []PackerData{
		runStrategySafely("crusher", input, func() PackerData { return runCrusher(input, opts, weights, glue) }),
		runStrategySafely("beam", input, func() PackerData { return runBeam(input, opts, weights, glue) }),
		runStrategySafely("digit", input, func() PackerData { return runDigit(input, opts, weights, glue) }),
	}
	return data, nil
}

func runStrategySafely(strategy, input string, fn func() PackerData) (pd PackerData) {
	defer func() {
		if r := recover(); r != nil {
			crushlog.L().Errorw("strategy panicked", "strategy", strategy, "recover", r)
			pd = errorPackerData(strategy, input, fmt.Errorf("%v", r))
		}
	}()
	return fn()
}

func errorPackerData(strategy, input string, err error) PackerData {
	msg := "Error: " + err.Error()
	return PackerData{
		Strategy: strategy,
		Original: input,
		Result: [2]ResultStage{
			{Length: -1, Details: msg},
			{Length: -1, Details: msg},
		},
	}
}

func runCrusher(input string, opts PackerOptions, weights ScorerWeights, glue decoderGlue) PackerData {
	result, err := Crush(input, CrusherOptions{Heuristic: opts.Heuristic, Delimiter: opts.Delimiter})
	if err != nil {
		return errorPackerData("crusher", input, err)
	}
	alloc := Allocate(result, weights, opts.Delimiter)
	artefact := BuildArtefact(alloc, input, opts.Delimiter, glue)
	return PackerData{
		Strategy:      "crusher",
		Original:      input,
		Replacements:  alloc.Replacements,
		MatchesLookup: matchesLookup(alloc.Replacements),
		Result:        [2]ResultStage{preAllocationStage(result), artefactStage(artefact)},
	}
}

func runBeam(input string, opts PackerOptions, weights ScorerWeights, glue decoderGlue) PackerData {
	solver := NewBeamSearchSolver(BeamOptions{
		BeamWidth:             opts.BeamWidth,
		BranchFactor:          opts.BranchFactor,
		LookAheadDepth:        opts.LookAheadDepth,
		MaxReplacements:       opts.MaxReplacements,
		PrioritizeHighestGain: opts.PrioritizeHighestGain,
		Delimiter:             opts.Delimiter,
	})
	result, err := solver.Solve(input)
	if err != nil {
		return errorPackerData("beam", input, err)
	}
	alloc := Allocate(result, weights, opts.Delimiter)
	artefact := BuildArtefact(alloc, input, opts.Delimiter, glue)
	return PackerData{
		Strategy:      "beam",
		Original:      input,
		Replacements:  alloc.Replacements,
		MatchesLookup: matchesLookup(alloc.Replacements),
		Result:        [2]ResultStage{preAllocationStage(result), artefactStage(artefact)},
		SearchGraph:   result.Graph,
	}
}

// runDigit runs the digit-token variant. When opts.WaitingForTrigger is set
// it returns immediately with Stage2.IsRunning = true and no result, per
// spec.md §6's waitingForTrigger option; the caller drives the search to
// completion separately via RunDigitWorker.
func runDigit(input string, opts PackerOptions, weights ScorerWeights, glue decoderGlue) PackerData {
	if present := digitsPresent(input); len(present) > 0 {
		return errorPackerData("digit", input, fmt.Errorf("%w: input contains %s", ErrReservedChar, describeDigits(present)))
	}
	if opts.WaitingForTrigger {
		return PackerData{
			Strategy: "digit",
			Original: input,
			Result: [2]ResultStage{
				{Details: "waiting for trigger"},
				{IsRunning: true, Details: "waiting for trigger"},
			},
		}
	}

	digitOpts := DigitOptions{
		MaxInt: opts.MaxInt, BeamWidth: opts.BeamWidth, BranchFactor: opts.BranchFactor,
		LookAheadDepth: opts.LookAheadDepth, Delimiter: opts.Delimiter,
		MaxStates: opts.MaxStates, TimeLimit: opts.TimeLimit,
	}
	replacer := NewDigitReplacer(digitOpts)
	result, err := replacer.Solve(context.Background(), input)
	if err != nil {
		return errorPackerData("digit", input, err)
	}
	alloc := AllocateDigits(result)
	artefact := BuildDigitArtefact(alloc, input, opts.Delimiter, glue)
	return PackerData{
		Strategy:      "digit",
		Original:      input,
		Replacements:  alloc.Replacements,
		MatchesLookup: matchesLookup(alloc.Replacements),
		Result:        [2]ResultStage{preAllocationStage(result), artefactStage(artefact)},
		SearchGraph:   result.Graph,
	}
}

// RunDigitWorker drives the asynchronous digit-variant worker to completion
// and reports progress/completion through opts.OnProgress/OnComplete, for
// callers that set opts.WaitingForTrigger and later decide to run it.
func RunDigitWorker(ctx context.Context, input string, opts PackerOptions) {
	opts = opts.fillDefaults()
	w := NewWorker(DigitOptions{
		MaxInt: opts.MaxInt, BeamWidth: opts.BeamWidth, BranchFactor: opts.BranchFactor,
		LookAheadDepth: opts.LookAheadDepth, Delimiter: opts.Delimiter,
		MaxStates: opts.MaxStates, TimeLimit: opts.TimeLimit,
	})
	w.Run(ctx, input)

	progressCh := w.Progress()
	for {
		select {
		case p, ok := <-progressCh:
			if !ok {
				progressCh = nil // stop selecting a closed channel; await the terminal message
				continue
			}
			if opts.OnProgress != nil {
				opts.OnProgress(p)
			}
		case res, ok := <-w.Result():
			if ok && opts.OnComplete != nil {
				opts.OnComplete(res)
			}
			return
		case err, ok := <-w.Errors():
			if ok {
				crushlog.L().Errorw("digit worker reported error", "error", err)
			}
			return
		}
	}
}
