package crush

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// DigitOptions configures the DigitReplacer variant (spec.md §4.4 "Digit-
// Replacer variant").
type DigitOptions struct {
	MaxInt         int // total replacements over the run, 1..100 (spec.md §6 maxInt)
	Discount       float64
	BeamWidth      int
	BranchFactor   int
	LookAheadDepth int
	Delimiter      rune

	// Worker budgets, spec.md §5.
	MaxStates int
	TimeLimit int // milliseconds
}

// DefaultDigitOptions returns spec.md §6's documented defaults (maxInt=10).
func DefaultDigitOptions() DigitOptions {
	return DigitOptions{
		MaxInt:         10,
		Discount:       0.9,
		BeamWidth:      5,
		BranchFactor:   20,
		LookAheadDepth: 150,
		Delimiter:      '`',
		MaxStates:      500000,
		TimeLimit:      10 * 60 * 1000,
	}
}

// DigitReplacer packs using the ten decimal digits 0-9 as tokens, decoded
// by `` `<packed>`.replace(/\d/g, i => `p0|p1|...`.split`|`[i]) `` instead
// of the iterate-until-no-match character-class decoder.
//
// spec.md allows maxInt up to 100 while the decode alphabet is only ten
// digits; per SPEC_FULL.md §2.4 we resolve this by letting a digit be
// reused once the text no longer contains it (its owning replacement has
// been fully subsumed by a later, larger one), rather than requiring up to
// 100 simultaneously live single-digit tokens.
type DigitReplacer struct {
	Opts DigitOptions
}

// NewDigitReplacer builds a DigitReplacer, filling in zero fields from
// DefaultDigitOptions.
func NewDigitReplacer(opts DigitOptions) *DigitReplacer {
	def := DefaultDigitOptions()
	if opts.MaxInt == 0 {
		opts.MaxInt = def.MaxInt
	}
	if opts.MaxInt > 100 {
		opts.MaxInt = 100
	}
	if opts.Discount == 0 {
		opts.Discount = def.Discount
	}
	if opts.BeamWidth == 0 {
		opts.BeamWidth = def.BeamWidth
	}
	if opts.BranchFactor == 0 {
		opts.BranchFactor = def.BranchFactor
	}
	if opts.LookAheadDepth == 0 {
		opts.LookAheadDepth = def.LookAheadDepth
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = def.Delimiter
	}
	if opts.MaxStates == 0 {
		opts.MaxStates = def.MaxStates
	}
	if opts.TimeLimit == 0 {
		opts.TimeLimit = def.TimeLimit
	}
	return &DigitReplacer{Opts: opts}
}

// digitsPresent reports which decimal digit characters occur in s.
func digitsPresent(s string) []rune {
	present := map[rune]bool{}
	for _, r := range s {
		if r >= '0' && r <= '9' {
			present[r] = true
		}
	}
	out := make([]rune, 0, len(present))
	for r := range present {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// digitAlphabet is a BeamOptions.AlphabetFunc restricted to the ten decimal
// digit bytes that do not currently appear in text.
func digitAlphabet(text []rune, _ rune) []rune {
	present := map[rune]bool{}
	for _, r := range text {
		present[r] = true
	}
	var out []rune
	for d := rune('0'); d <= '9'; d++ {
		if !present[d] {
			out = append(out, d)
		}
	}
	return out
}

// Solve runs the digit-token search synchronously on the caller's
// goroutine. Use Worker (worker.go) to run it on a background goroutine
// with progress reporting and budget enforcement.
func (d *DigitReplacer) Solve(ctx context.Context, input string) (*SolverResult, error) {
	if present := digitsPresent(input); len(present) > 0 {
		return nil, fmt.Errorf("%w: input contains %s", ErrReservedChar, describeDigits(present))
	}

	solver := NewBeamSearchSolver(BeamOptions{
		BeamWidth:       d.Opts.BeamWidth,
		BranchFactor:    d.Opts.BranchFactor,
		LookAheadDepth:  d.Opts.LookAheadDepth,
		MaxReplacements: d.Opts.MaxInt,
		Discount:        d.Opts.Discount,
		Delimiter:       d.Opts.Delimiter,
		AlphabetFunc:    digitAlphabet,
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return solver.Solve(input)
}

// AllocateDigits wraps a digit-variant SolverResult as an AllocationResult
// without running the byte-range allocator: digit.go's search already
// assigns final single-digit tokens directly from digitAlphabet, so there
// is no separate range-discovery/rebinding pass to run, per spec.md §4.4's
// digit-token variant.
func AllocateDigits(result *SolverResult) *AllocationResult {
	if len(result.Replacements) == 0 {
		return &AllocationResult{Length: 0, Report: "no gain found"}
	}
	return &AllocationResult{
		Replacements: dependencySort(result.Replacements),
		FinalText:    append([]rune(nil), result.Text...),
		Length:       len(result.Text),
		Report:       "ok",
	}
}

func describeDigits(digits []rune) string {
	parts := make([]string, len(digits))
	for i, d := range digits {
		parts[i] = string(d)
	}
	return "[" + strings.Join(parts, "") + "]"
}
