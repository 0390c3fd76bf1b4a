// Package fl holds the data structures exchanged between the round
// coordinator and client trainers, together with the FedAvg aggregation
// primitive operating on them.
package fl

// UplinkPackage is the client-to-server envelope produced by one client task.
// NumSamples is the number of training samples the parameters were fitted on
// and must be positive for aggregation to be well-defined.
type UplinkPackage struct {
	Parameters []float64          `json:"parameters" cbor:"parameters"`
	NumSamples int                `json:"num_samples" cbor:"num_samples"`
	Metadata   map[string]float64 `json:"metadata,omitempty" cbor:"metadata,omitempty"`
}

// DownlinkPackage is the server-to-client envelope. It is built once per
// round and broadcast unchanged to every sampled client.
type DownlinkPackage struct {
	Parameters []float64 `json:"parameters" cbor:"parameters"`
}

// Clone returns a deep copy sharing no memory with the original.
func (p UplinkPackage) Clone() UplinkPackage {
	out := UplinkPackage{
		Parameters: make([]float64, len(p.Parameters)),
		NumSamples: p.NumSamples,
	}
	copy(out.Parameters, p.Parameters)
	if p.Metadata != nil {
		out.Metadata = make(map[string]float64, len(p.Metadata))
		for k, v := range p.Metadata {
			out.Metadata[k] = v
		}
	}

	return out
}

// Hyperparams are the knobs of the local training routine.
type Hyperparams struct {
	Epochs       int     `json:"epochs" toml:"epochs"`
	BatchSize    int     `json:"batch_size" toml:"batch_size"`
	LearningRate float64 `json:"learning_rate" toml:"learning_rate"`
}
