package crush

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPackerOptionsMatchesSpecDefaults(t *testing.T) {
	o := DefaultPackerOptions()
	assert.True(t, o.UseES6)
	assert.Equal(t, 5, o.BeamWidth)
	assert.Equal(t, 20, o.BranchFactor)
	assert.Equal(t, 100, o.MaxReplacements)
	assert.Equal(t, 150, o.LookAheadDepth)
	assert.Equal(t, BALANCED, o.Heuristic)
	assert.Equal(t, 10, o.MaxInt)
	assert.Equal(t, 500000, o.MaxStates)
	assert.Equal(t, 10*60*1000, o.TimeLimit)
	assert.Equal(t, '`', o.Delimiter)
}

func TestFillDefaultsOnlyFillsZeroFields(t *testing.T) {
	o := PackerOptions{BeamWidth: 9}
	filled := o.fillDefaults()
	assert.Equal(t, 9, filled.BeamWidth)
	assert.Equal(t, DefaultPackerOptions().BranchFactor, filled.BranchFactor)
}

func TestFillDefaultsTreatsCrushFactorsAsGroup(t *testing.T) {
	o := PackerOptions{CrushGainFactor: 5}
	filled := o.fillDefaults()
	// since at least one factor is non-zero, the group is left untouched,
	// even though the other three are still zero.
	assert.Equal(t, 5.0, filled.CrushGainFactor)
	assert.Equal(t, 0.0, filled.CrushLengthFactor)
}

func TestScorerWeightsProjectsCrushFactors(t *testing.T) {
	o := PackerOptions{CrushGainFactor: 1, CrushLengthFactor: 2, CrushCopiesFactor: 3, CrushTiebreakerFactor: 4}
	w := o.scorerWeights()
	assert.Equal(t, ScorerWeights{GainFactor: 1, LengthFactor: 2, CopiesFactor: 3, TiebreakerFactor: 4}, w)
}

func TestDecoderGlueSameForBothLoopForms(t *testing.T) {
	es6 := PackerOptions{UseES6: true}.decoderGlue()
	classic := PackerOptions{UseES6: false}.decoderGlue()
	assert.Equal(t, es6, classic)
}
