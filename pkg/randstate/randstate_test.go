package randstate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/absmach/fedsim/pkg/randstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeededDeterminism(t *testing.T) {
	a := randstate.NewSeeded(42, "cpu")
	b := randstate.NewSeeded(42, "cpu")

	for range 10 {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestNewSeededDeviceChangesStream(t *testing.T) {
	a := randstate.NewSeeded(42, "cpu")
	b := randstate.NewSeeded(42, "cuda:0")

	assert.NotEqual(t, a.Uint64(), b.Uint64())
}

func TestSaveRestoreContinuesStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0.state")

	original := randstate.NewSeeded(7, "cpu")
	for range 5 {
		original.Uint64()
	}
	require.NoError(t, original.Save(path))
	require.True(t, randstate.Exists(path))

	restored, err := randstate.Restore(path)
	require.NoError(t, err)

	// The restored stream must continue exactly where the original one
	// left off.
	for range 10 {
		assert.Equal(t, original.Uint64(), restored.Uint64())
	}
}

func TestRestoreMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.state")

	assert.False(t, randstate.Exists(path))
	_, err := randstate.Restore(path)
	assert.Error(t, err)
}

func TestRestoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.state")
	require.NoError(t, os.WriteFile(path, []byte("not a state"), 0o644))

	_, err := randstate.Restore(path)
	assert.Error(t, err)
}
