package crush

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeamSearchBeatsOrMatchesCrusherOnBlockRepeats(t *testing.T) {
	block := "abcdefghijklmnopqrst"
	var b []byte
	for i := 0; i < 100; i++ {
		b = append(b, block...)
	}
	input := string(b)

	crushResult, err := Crush(input, DefaultCrusherOptions())
	require.NoError(t, err)

	beamSolver := NewBeamSearchSolver(BeamOptions{BeamWidth: 5})
	beamResult, err := beamSolver.Solve(input)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, beamResult.TotalGain, crushResult.TotalGain)

	for _, result := range []*SolverResult{crushResult, beamResult} {
		alloc := Allocate(result, DefaultScorerWeights(), '`')
		artefact := BuildArtefact(alloc, input, '`', defaultDecoderGlue())
		assert.True(t, artefact.Passed, artefact.Details)
	}
}

func TestBeamSearchRecordsGraph(t *testing.T) {
	solver := NewBeamSearchSolver(DefaultBeamOptions())
	result, err := solver.Solve("abcabcabc")
	require.NoError(t, err)
	require.NotNil(t, result.Graph)
	assert.NotEmpty(t, result.Graph.Nodes)
	assert.NotEmpty(t, result.Graph.BestPath)
}

func TestBeamSearchOnIterationAndStopHooks(t *testing.T) {
	calls := 0
	solver := NewBeamSearchSolver(BeamOptions{
		BeamWidth: 3,
		OnIteration: func(replacements, max, nodes int) {
			calls++
		},
		Stop: func() bool { return calls >= 2 },
	})
	_, err := solver.Solve("abcabcabcabcabc")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, calls, 2)
}

func TestDedupBeamByTextKeepsFirstOccurrence(t *testing.T) {
	a := beamState{text: []rune("x"), cumGain: 1}
	b := beamState{text: []rune("x"), cumGain: 2}
	c := beamState{text: []rune("y"), cumGain: 3}
	out := dedupBeamByText([]beamState{a, b, c})
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].cumGain)
}
