// Package trainer executes client tasks for a round, either sequentially in
// process or fanned out across a bounded pool of isolated workers that
// communicate through persisted task envelopes.
package trainer

import (
	"context"

	"github.com/absmach/fedsim/pkg/fl"
)

// Trainer runs the local training of a set of clients against one downlink
// payload and caches the resulting uplink packages.
type Trainer interface {
	// LocalProcess trains every client in cids against the payload and
	// appends the results to the internal cache. Any client fault aborts
	// the whole call; the cache keeps only fully completed rounds.
	LocalProcess(ctx context.Context, payload fl.DownlinkPackage, cids []int) error

	// UplinkPackages drains the cache, returning an owned copy of its
	// contents. It never blocks; a second call returns an empty slice.
	UplinkPackages() []fl.UplinkPackage
}

func drain(cache []fl.UplinkPackage) []fl.UplinkPackage {
	out := make([]fl.UplinkPackage, len(cache))
	for i, pkg := range cache {
		out[i] = pkg.Clone()
	}

	return out
}
