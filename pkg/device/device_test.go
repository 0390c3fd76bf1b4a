package device_test

import (
	"testing"

	"github.com/absmach/fedsim/pkg/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoundRobinEmpty(t *testing.T) {
	_, err := device.NewRoundRobin(nil)
	assert.ErrorIs(t, err, device.ErrNoDevice)
}

func TestRoundRobinCycles(t *testing.T) {
	alloc, err := device.NewRoundRobin([]string{"cuda:0", "cuda:1", "cuda:2"})
	require.NoError(t, err)

	expected := []string{"cuda:0", "cuda:1", "cuda:2", "cuda:0", "cuda:1"}
	for _, want := range expected {
		got, err := alloc.Next()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRoundRobinSingleDevice(t *testing.T) {
	alloc, err := device.NewRoundRobin([]string{"cpu"})
	require.NoError(t, err)

	for range 5 {
		got, err := alloc.Next()
		require.NoError(t, err)
		assert.Equal(t, "cpu", got)
	}
}
