// Package handler implements the server side of a federated averaging run:
// client sampling, update buffering, and the quota-triggered global update.
package handler

import (
	"context"

	"github.com/absmach/fedsim/pkg/fl"
)

// Service is the round coordinator. It owns the shared model parameters and
// the round state machine.
//
// Load is the sole state-mutating entry point. It is serialized internally,
// but callers are still expected to drive rounds from a single logical
// thread of control: quota detection assumes one round in flight at a time.
type Service interface {
	// SampleClients draws quota distinct client ids uniformly without
	// replacement, sorted ascending.
	SampleClients() []int

	// IfStop reports whether the configured number of global rounds has
	// completed. Once true it stays true.
	IfStop() bool

	// Load buffers a client update. When the buffer reaches quota it
	// aggregates the round, advances it, clears the buffer, and returns
	// true. A failed aggregation leaves round state untouched.
	Load(payload fl.UplinkPackage) (bool, error)

	// DownlinkPackage snapshots the current shared parameters.
	DownlinkPackage() fl.DownlinkPackage

	// GetSummary evaluates the shared model on the global test split.
	GetSummary(ctx context.Context) (map[string]float64, error)

	// Round returns the current round number.
	Round() int
}
