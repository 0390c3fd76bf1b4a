// Package device assigns accelerator devices to client tasks.
package device

import (
	"errors"
	"sync"
)

var ErrNoDevice = errors.New("no device was provided")

// Allocator hands out a device for each dispatched task.
type Allocator interface {
	Next() (string, error)
}

type roundRobin struct {
	mu      sync.Mutex
	devices []string
	last    int
}

// NewRoundRobin returns an Allocator cycling through the given devices in
// order, one per dispatch.
func NewRoundRobin(devices []string) (Allocator, error) {
	if len(devices) == 0 {
		return nil, ErrNoDevice
	}

	return &roundRobin{devices: devices, last: -1}, nil
}

func (r *roundRobin) Next() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.last = (r.last + 1) % len(r.devices)

	return r.devices[r.last], nil
}
