// Package dataset defines the partitioned dataset consumed by client
// trainers and the coordinator's evaluation path.
package dataset

// Split identifies which portion of a client's partition to load.
type Split string

const (
	Train Split = "train"
	Val   Split = "val"
	Test  Split = "test"
)

// GlobalClient selects the unpartitioned split shared by all clients,
// used for server-side test evaluation.
const GlobalClient = -1

// Batch is one mini-batch of feature vectors with their targets.
type Batch struct {
	Inputs  [][]float64
	Targets []float64
}

// Size returns the number of samples in the batch.
func (b Batch) Size() int {
	return len(b.Targets)
}

// Dataset hands out mini-batches for a given split and client. Passing
// GlobalClient as cid selects the global split. Implementations must be safe
// for concurrent readers: parallel trainers load batches from multiple
// workers at once.
type Dataset interface {
	GetDataloader(split Split, cid, batchSize int) ([]Batch, error)
	NumClients() int
}
