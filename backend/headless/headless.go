// Package headless implements a Presenter for automated runs: no
// display, no input, an optional text snapshot of frames, and a frame
// budget after which it requests quit. It counts presented frames only;
// it does not watch the serial output.
package headless

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kenballus/gb/backend"
)

// shadeChars maps the four DMG shades to text, lightest color index first.
var shadeChars = [4]rune{'░', '▒', '▓', '█'}

// SnapshotConfig controls periodic text snapshots of the visible frame.
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // save a snapshot every N frames
	Directory string // directory to save snapshots into
	ROMName   string // base name for snapshot files
}

// Backend counts frames and quits once the budget is spent.
type Backend struct {
	config     backend.Config
	frameCount int
	maxFrames  int
	snapshots  SnapshotConfig
}

// New returns a headless backend that runs for maxFrames frames.
func New(maxFrames int, snapshots SnapshotConfig) *Backend {
	return &Backend{maxFrames: maxFrames, snapshots: snapshots}
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config
	slog.Info("running headless",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshots.Interval,
		"snapshot_dir", h.snapshots.Directory)
	return nil
}

// FrameCount returns the number of frames presented so far.
func (h *Backend) FrameCount() int { return h.frameCount }

func (h *Backend) Present(frame backend.FrameSource, origin backend.Origin) ([]backend.InputEvent, error) {
	h.frameCount++

	if h.snapshots.Enabled && h.frameCount%h.snapshots.Interval == 0 {
		h.saveSnapshot(frame, origin)
	}
	if h.frameCount%60 == 0 {
		slog.Debug("frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}

	if h.frameCount >= h.maxFrames {
		if h.snapshots.Enabled && h.frameCount%h.snapshots.Interval != 0 {
			h.saveSnapshot(frame, origin)
		}
		slog.Info("headless run completed", "frames", h.frameCount)
		return nil, backend.ErrQuit
	}
	return nil, nil
}

func (h *Backend) Close() error { return nil }

// CreateSnapshotConfig builds a SnapshotConfig from CLI parameters,
// creating the target directory. interval <= 0 disables snapshots.
func CreateSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	config := SnapshotConfig{Enabled: interval > 0, Interval: interval}
	if !config.Enabled {
		return config, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "gb-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("headless: creating snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return config, fmt.Errorf("headless: creating snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	name := filepath.Base(romPath)
	config.ROMName = strings.TrimSuffix(name, filepath.Ext(name))
	return config, nil
}

// saveSnapshot writes the visible 160x144 window as shaded text, one
// rune per pixel.
func (h *Backend) saveSnapshot(frame backend.FrameSource, origin backend.Origin) {
	path := filepath.Join(h.snapshots.Directory,
		fmt.Sprintf("%s_frame_%d.txt", h.snapshots.ROMName, h.frameCount))

	var sb strings.Builder
	fmt.Fprintf(&sb, "# frame %d, origin (%d, %d)\n", h.frameCount, origin.SCY, origin.SCX)
	for y := 0; y < backend.VisibleHeight; y++ {
		for x := 0; x < backend.VisibleWidth; x++ {
			shade := frame.Get(int(origin.SCX)+x, int(origin.SCY)+y)
			sb.WriteRune(shadeChars[shade&0x03])
		}
		sb.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		slog.Error("failed to save snapshot", "frame", h.frameCount, "path", path, "error", err)
		return
	}
	slog.Info("saved frame snapshot", "frame", h.frameCount, "path", path)
}
