package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/crushlang/crush"
)

// packFlags holds the cobra.Command flags mirroring spec.md §6's option
// set, translated into a crush.PackerOptions before calling crush.Pack.
type packFlags struct {
	inputPath             string
	useES6                bool
	beamWidth             int
	branchFactor          int
	maxReplacements       int
	lookAheadDepth        int
	prioritizeHighestGain bool
	gainFactor            float64
	lengthFactor          float64
	copiesFactor          float64
	tiebreakerFactor      float64
	heuristic             string
	maxInt                int
	delimiter             string
}

func newPackCommand() *cobra.Command {
	f := &packFlags{}
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack a JS source file (or stdin) and print a report for every strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.inputPath, "input", "i", "", "path to the source file (defaults to stdin)")
	flags.BoolVar(&f.useES6, "es6", true, "set PackerOptions.UseES6 (the emitted decoder is the same either way)")
	flags.IntVar(&f.beamWidth, "beam-width", 0, "beam search width (default 5)")
	flags.IntVar(&f.branchFactor, "branch-factor", 0, "beam search branch factor (default 20)")
	flags.IntVar(&f.maxReplacements, "max-replacements", 0, "cap on bound replacements (default 100)")
	flags.IntVar(&f.lookAheadDepth, "look-ahead-depth", 0, "gain predictor look-ahead depth (default 150)")
	flags.BoolVar(&f.prioritizeHighestGain, "prioritize-highest-gain", false, "order the beam by raw cumulative gain instead of predicted score")
	flags.Float64Var(&f.gainFactor, "gain-factor", 0, "scorer gain weight (default 1.0)")
	flags.Float64Var(&f.lengthFactor, "length-factor", 0, "scorer length weight (default 0.01)")
	flags.Float64Var(&f.copiesFactor, "copies-factor", 0, "scorer copies weight (default 0.01)")
	flags.Float64Var(&f.tiebreakerFactor, "tiebreaker-factor", 0, "scorer tiebreaker weight (default 0.001)")
	flags.StringVar(&f.heuristic, "heuristic", "balanced", "crusher heuristic: balanced|most_copies|longest|density|adaptive|adaptive_gain")
	flags.IntVar(&f.maxInt, "max-int", 0, "digit-variant replacement cap (default 10)")
	flags.StringVar(&f.delimiter, "delimiter", "`", "packed-literal string delimiter")

	return cmd
}

func runPack(cmd *cobra.Command, f *packFlags) error {
	input, err := readInput(f.inputPath)
	if err != nil {
		return err
	}

	heuristic, err := parseHeuristic(f.heuristic)
	if err != nil {
		return err
	}
	if len([]rune(f.delimiter)) != 1 {
		return fmt.Errorf("--delimiter must be exactly one character, got %q", f.delimiter)
	}

	opts := crush.DefaultPackerOptions()
	opts.UseES6 = f.useES6
	opts.BeamWidth = f.beamWidth
	opts.BranchFactor = f.branchFactor
	opts.MaxReplacements = f.maxReplacements
	opts.LookAheadDepth = f.lookAheadDepth
	opts.PrioritizeHighestGain = f.prioritizeHighestGain
	opts.Heuristic = heuristic
	opts.MaxInt = f.maxInt
	opts.Delimiter = []rune(f.delimiter)[0]
	if f.gainFactor != 0 || f.lengthFactor != 0 || f.copiesFactor != 0 || f.tiebreakerFactor != 0 {
		opts.CrushGainFactor = f.gainFactor
		opts.CrushLengthFactor = f.lengthFactor
		opts.CrushCopiesFactor = f.copiesFactor
		opts.CrushTiebreakerFactor = f.tiebreakerFactor
	}

	results, err := crush.Pack(input, opts)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), results)
	return nil
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func parseHeuristic(name string) (crush.Heuristic, error) {
	switch name {
	case "balanced":
		return crush.BALANCED, nil
	case "most_copies":
		return crush.MOST_COPIES, nil
	case "longest":
		return crush.LONGEST, nil
	case "density":
		return crush.DENSITY, nil
	case "adaptive":
		return crush.ADAPTIVE, nil
	case "adaptive_gain":
		return crush.ADAPTIVE_GAIN, nil
	default:
		return 0, fmt.Errorf("unknown heuristic %q", name)
	}
}

func printReport(w io.Writer, results []crush.PackerData) {
	for _, pd := range results {
		stage := pd.Result[1]
		fmt.Fprintf(w, "=== %s ===\n", pd.Strategy)
		fmt.Fprintf(w, "length: %d\n", stage.Length)
		fmt.Fprintf(w, "details: %s\n", stage.Details)
		if stage.Length > 0 {
			fmt.Fprintf(w, "%s\n", stage.Output)
		}
		fmt.Fprintln(w)
	}
}
