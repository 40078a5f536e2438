package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStreamingValidation(t *testing.T) {
	_, err := NewStreaming(2, 101, nil)
	assert.Error(t, err)

	_, err = NewStreaming(-1, 101, EvaluatorFunc(func(int) uint64 { return 0 }))
	assert.Error(t, err)
}

func TestStreamingAgreesWithDense(t *testing.T) {
	f := testField(t, 101)

	evals := []uint64{3, 1, 4, 1, 5, 9, 2, 6}
	dense, err := FromEvaluations(3, evals)
	require.NoError(t, err)

	sp, err := NewStreaming(3, f.Modulus(), EvaluatorFunc(func(idx int) uint64 {
		return evals[idx]
	}))
	require.NoError(t, err)

	table := dense.EvaluationsModP(f)
	for idx := range evals {
		assert.Equal(t, table[idx], sp.EvaluateIndex(idx), "index %d", idx)
	}
}

func TestStreamingReducesModP(t *testing.T) {
	sp, err := NewStreaming(1, 101, EvaluatorFunc(func(idx int) uint64 {
		return 101 + uint64(idx)
	}))
	require.NoError(t, err)

	assert.Equal(t, uint64(0), sp.EvaluateIndex(0))
	assert.Equal(t, uint64(1), sp.EvaluateIndex(1))
	assert.Equal(t, uint64(101), sp.Modulus())
	assert.Equal(t, 1, sp.NumVars())
}
