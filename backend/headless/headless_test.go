package headless

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kenballus/gb/backend"
)

// flatFrame is a FrameSource with every pixel the same shade.
type flatFrame uint8

func (f flatFrame) Get(x, y int) uint8 { return uint8(f) }

func TestQuitsAfterFrameBudget(t *testing.T) {
	h := New(3, SnapshotConfig{})
	assert.NoError(t, h.Init(backend.Config{}))

	for i := 0; i < 2; i++ {
		events, err := h.Present(flatFrame(0), backend.Origin{})
		assert.NoError(t, err)
		assert.Empty(t, events)
	}

	_, err := h.Present(flatFrame(0), backend.Origin{})
	assert.True(t, errors.Is(err, backend.ErrQuit), "third frame spends the budget")
	assert.Equal(t, 3, h.FrameCount())
}

func TestSnapshotWritten(t *testing.T) {
	dir := t.TempDir()
	snapshots, err := CreateSnapshotConfig(2, dir, "roms/demo.gb")
	assert.NoError(t, err)
	assert.Equal(t, "demo", snapshots.ROMName)

	h := New(2, snapshots)
	assert.NoError(t, h.Init(backend.Config{}))

	h.Present(flatFrame(3), backend.Origin{})
	h.Present(flatFrame(3), backend.Origin{})

	data, err := os.ReadFile(filepath.Join(dir, "demo_frame_2.txt"))
	assert.NoError(t, err)
	assert.Contains(t, string(data), "█", "shade 3 renders as the darkest rune")
}

func TestSnapshotConfigDisabled(t *testing.T) {
	snapshots, err := CreateSnapshotConfig(0, "", "x.gb")
	assert.NoError(t, err)
	assert.False(t, snapshots.Enabled)
}
