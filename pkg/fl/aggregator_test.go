package fl_test

import (
	"testing"

	"github.com/absmach/fedsim/pkg/fl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name       string
		parameters [][]float64
		weights    []float64
		expected   []float64
		err        error
	}{
		{
			name: "equal weights average",
			parameters: [][]float64{
				{1, 2, 3},
				{3, 4, 5},
			},
			weights:  []float64{10, 10},
			expected: []float64{2, 3, 4},
		},
		{
			name: "weighted by sample count",
			parameters: [][]float64{
				{0, 0},
				{4, 8},
			},
			weights:  []float64{3, 1},
			expected: []float64{1, 2},
		},
		{
			name: "single update",
			parameters: [][]float64{
				{1.5, -2.5},
			},
			weights:  []float64{7},
			expected: []float64{1.5, -2.5},
		},
		{
			name:       "no updates",
			parameters: nil,
			weights:    nil,
			err:        fl.ErrNoUpdates,
		},
		{
			name: "weights length mismatch",
			parameters: [][]float64{
				{1, 2},
				{3, 4},
			},
			weights: []float64{1},
			err:     fl.ErrLengthMismatch,
		},
		{
			name: "vector length mismatch",
			parameters: [][]float64{
				{1, 2},
				{3, 4, 5},
			},
			weights: []float64{1, 1},
			err:     fl.ErrLengthMismatch,
		},
		{
			name: "zero weight sum",
			parameters: [][]float64{
				{1, 2},
				{3, 4},
			},
			weights: []float64{0, 0},
			err:     fl.ErrZeroWeightSum,
		},
		{
			name: "negative weight",
			parameters: [][]float64{
				{1, 2},
				{3, 4},
			},
			weights: []float64{2, -1},
			err:     fl.ErrNegativeWeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fl.Aggregate(tt.parameters, tt.weights)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)

				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.expected))
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i], got[i], 1e-12)
			}
		})
	}
}

func TestAggregatePermutationInvariance(t *testing.T) {
	parameters := [][]float64{
		{1, 2, 3},
		{-4, 5, 0.5},
		{7, -8, 9},
	}
	weights := []float64{5, 11, 2}

	forward, err := fl.Aggregate(parameters, weights)
	require.NoError(t, err)

	permuted, err := fl.Aggregate(
		[][]float64{parameters[2], parameters[0], parameters[1]},
		[]float64{weights[2], weights[0], weights[1]},
	)
	require.NoError(t, err)

	for i := range forward {
		assert.InDelta(t, forward[i], permuted[i], 1e-9)
	}
}

func TestUplinkPackageClone(t *testing.T) {
	pkg := fl.UplinkPackage{
		Parameters: []float64{1, 2, 3},
		NumSamples: 10,
		Metadata:   map[string]float64{"loss": 0.5},
	}

	clone := pkg.Clone()
	clone.Parameters[0] = 99
	clone.Metadata["loss"] = 99

	assert.Equal(t, 1.0, pkg.Parameters[0])
	assert.Equal(t, 0.5, pkg.Metadata["loss"])
}
