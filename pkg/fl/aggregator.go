package fl

// Aggregate merges client parameter vectors by weighted averaging. Weights
// are normalized by their sum, so the result is the elementwise sum of
// parameters[i] * weights[i] / sum(weights).
//
// All vectors must have the same length and there must be one weight per
// vector. A negative weight, a zero weight sum, or a length mismatch is an
// invalid-aggregation-input error and nothing is averaged.
func Aggregate(parameters [][]float64, weights []float64) ([]float64, error) {
	if len(parameters) == 0 {
		return nil, ErrNoUpdates
	}
	if len(parameters) != len(weights) {
		return nil, ErrLengthMismatch
	}

	dim := len(parameters[0])
	var sum float64
	for i, w := range weights {
		if len(parameters[i]) != dim {
			return nil, ErrLengthMismatch
		}
		if w < 0 {
			return nil, ErrNegativeWeight
		}
		sum += w
	}
	if sum == 0 {
		return nil, ErrZeroWeightSum
	}

	aggregated := make([]float64, dim)
	for i, params := range parameters {
		norm := weights[i] / sum
		for j, p := range params {
			aggregated[j] += p * norm
		}
	}

	return aggregated, nil
}
