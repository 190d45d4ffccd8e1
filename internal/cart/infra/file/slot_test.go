package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlot(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")

	slot, err := NewSlot(dir, "cart")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cart.json"), slot.Path())

	_, ok, err := slot.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "nothing saved yet")

	require.NoError(t, slot.Set(ctx, `[{"id":1}]`))
	require.NoError(t, slot.Set(ctx, `[]`))

	blob, ok, err := slot.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, blob, "each save overwrites the previous snapshot")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestSlotCanceledContext(t *testing.T) {
	slot, err := NewSlot(t.TempDir(), "cart")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, slot.Set(ctx, `[]`), context.Canceled)
}
