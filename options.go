package crush

// PackerOptions aggregates every option documented in spec.md §6. Zero
// values are filled from each component's own defaults by Pack.
type PackerOptions struct {
	UseES6 bool // default true; does not change the emitted decoder (see decoderGlue)

	BeamWidth             int
	BranchFactor          int
	MaxReplacements       int
	LookAheadDepth        int
	PrioritizeHighestGain bool

	CrushGainFactor       float64
	CrushLengthFactor     float64
	CrushCopiesFactor     float64
	CrushTiebreakerFactor float64

	Heuristic Heuristic // crusher-only

	MaxInt    int // digit variant, 1..100
	MaxStates int // worker budget, nodes
	TimeLimit int // worker budget, milliseconds

	// WaitingForTrigger, when true, makes the digit worker variant return
	// immediately without running until the caller flips it (spec.md §6);
	// RunDigitWorker (pack.go) is the trigger.
	WaitingForTrigger bool

	OnProgress func(Progress)
	OnComplete func(Result)

	Delimiter rune
}

// DefaultPackerOptions returns spec.md §6's documented defaults.
func DefaultPackerOptions() PackerOptions {
	sw := DefaultScorerWeights()
	return PackerOptions{
		UseES6:                true,
		BeamWidth:             5,
		BranchFactor:          20,
		MaxReplacements:       100,
		LookAheadDepth:        150,
		PrioritizeHighestGain: false,
		CrushGainFactor:       sw.GainFactor,
		CrushLengthFactor:     sw.LengthFactor,
		CrushCopiesFactor:     sw.CopiesFactor,
		CrushTiebreakerFactor: sw.TiebreakerFactor,
		Heuristic:             BALANCED,
		MaxInt:                10,
		MaxStates:             500000,
		TimeLimit:             10 * 60 * 1000,
		Delimiter:             '`',
	}
}

func (o PackerOptions) scorerWeights() ScorerWeights {
	return ScorerWeights{
		GainFactor:       o.CrushGainFactor,
		LengthFactor:     o.CrushLengthFactor,
		CopiesFactor:     o.CrushCopiesFactor,
		TiebreakerFactor: o.CrushTiebreakerFactor,
	}
}

func (o PackerOptions) fillDefaults() PackerOptions {
	def := DefaultPackerOptions()
	if o.BeamWidth == 0 {
		o.BeamWidth = def.BeamWidth
	}
	if o.BranchFactor == 0 {
		o.BranchFactor = def.BranchFactor
	}
	if o.MaxReplacements == 0 {
		o.MaxReplacements = def.MaxReplacements
	}
	if o.LookAheadDepth == 0 {
		o.LookAheadDepth = def.LookAheadDepth
	}
	if o.CrushGainFactor == 0 && o.CrushLengthFactor == 0 && o.CrushCopiesFactor == 0 && o.CrushTiebreakerFactor == 0 {
		o.CrushGainFactor = def.CrushGainFactor
		o.CrushLengthFactor = def.CrushLengthFactor
		o.CrushCopiesFactor = def.CrushCopiesFactor
		o.CrushTiebreakerFactor = def.CrushTiebreakerFactor
	}
	if o.MaxInt == 0 {
		o.MaxInt = def.MaxInt
	}
	if o.MaxStates == 0 {
		o.MaxStates = def.MaxStates
	}
	if o.TimeLimit == 0 {
		o.TimeLimit = def.TimeLimit
	}
	if o.Delimiter == 0 {
		o.Delimiter = def.Delimiter
	}
	return o
}

func (o PackerOptions) decoderGlue() decoderGlue {
	g := defaultDecoderGlue()
	if !o.UseES6 {
		// UseES6 changes neither the glue strings nor the loop head: both
		// settings render the same for(...;G=/[...]/.exec(...);) decoder.
		return g
	}
	return g
}
