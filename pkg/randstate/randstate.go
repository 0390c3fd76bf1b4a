// Package randstate manages per-client random streams that survive process
// restarts. A stream's state is captured as an opaque blob after every use
// and restored bit-for-bit before the next one, so a client's randomness
// continues coherently across rounds and runs.
package randstate

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"os"
)

// Stream is a client-owned random stream whose generator state can be
// persisted and restored.
type Stream struct {
	pcg *rand.PCG
	*rand.Rand
}

// NewSeeded derives a fresh deterministic stream from a global seed and the
// target device. The same seed and device always yield the same stream.
func NewSeeded(seed uint64, device string) *Stream {
	h := fnv.New64a()
	h.Write([]byte(device))
	pcg := rand.NewPCG(seed, h.Sum64())

	return &Stream{pcg: pcg, Rand: rand.New(pcg)}
}

// Restore loads a previously saved stream from path.
func Restore(path string) (*Stream, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read random state: %w", err)
	}

	pcg := &rand.PCG{}
	if err := pcg.UnmarshalBinary(blob); err != nil {
		return nil, fmt.Errorf("failed to decode random state: %w", err)
	}

	return &Stream{pcg: pcg, Rand: rand.New(pcg)}, nil
}

// Save overwrites path with the stream's current generator state.
func (s *Stream) Save(path string) error {
	blob, err := s.pcg.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode random state: %w", err)
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return fmt.Errorf("failed to write random state: %w", err)
	}

	return nil
}

// Exists reports whether a saved stream is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}
