package fl

import "errors"

var (
	ErrNoUpdates      = errors.New("no updates provided for aggregation")
	ErrLengthMismatch = errors.New("parameters and weights length mismatch")
	ErrZeroWeightSum  = errors.New("aggregation weights sum to zero")
	ErrNegativeWeight = errors.New("negative aggregation weight")
	ErrEmptyEvalSet   = errors.New("evaluation set has no samples")
)
