// Package blargg runs the Blargg cpu_instrs test ROMs against the core
// and watches the serial debug sink for their pass/fail report. The ROMs
// are not redistributable, so the suite skips when they are absent;
// drop them under test-roms/cpu_instrs/individual to enable it.
package blargg

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kenballus/gb"
	"github.com/kenballus/gb/serial"
)

// maxFrames bounds a run that never reports: the slowest cpu_instrs
// sub-test finishes well under a minute of emulated time.
const maxFrames = 3600

func TestCPUInstrs(t *testing.T) {
	roms, err := filepath.Glob(filepath.Join("..", "..", "test-roms", "cpu_instrs", "individual", "*.gb"))
	assert.NoError(t, err)
	if len(roms) == 0 {
		t.Skip("Blargg cpu_instrs ROMs not present")
	}

	for _, rom := range roms {
		rom := rom
		t.Run(filepath.Base(rom), func(t *testing.T) {
			var result string
			emu, err := gb.NewWithFile(rom, serial.WithLineHandler(func(line string) {
				if strings.Contains(line, "Passed") || strings.Contains(line, "Failed") {
					result = line
				}
			}))
			if err != nil {
				t.Fatalf("loading %s: %v", rom, err)
			}

			for frame := 0; frame < maxFrames && result == ""; frame++ {
				emu.RunUntilFrame()
			}

			if result == "" {
				t.Fatalf("no result after %d frames; serial output so far: %q", maxFrames, emu.SerialOutput())
			}
			assert.Contains(t, result, "Passed", "serial output: %q", emu.SerialOutput())
		})
	}
}
