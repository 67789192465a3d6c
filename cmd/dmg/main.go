package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/kenballus/gb"
	"github.com/kenballus/gb/backend"
	"github.com/kenballus/gb/backend/headless"
	"github.com/kenballus/gb/backend/sdl2"
	"github.com/kenballus/gb/backend/terminal"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmg"
	app.Description = "A Game Boy (DMG) emulator"
	app.Usage = "dmg [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Presenter to run with: terminal, headless or sdl2",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Pixel scale for the sdl2 backend",
			Value: 4,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.BoolFlag{
			Name:  "dump-on-exit",
			Usage: "Print a final register trace line when the run ends",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	emu, err := gb.NewWithFile(romPath)
	if err != nil {
		return err
	}

	presenter, err := makePresenter(c, romPath)
	if err != nil {
		return err
	}

	config := backend.Config{
		Title:      "dmg",
		Scale:      c.Int("scale"),
		StatusLine: statusLine(emu),
	}
	if err := presenter.Init(config); err != nil {
		return err
	}
	defer presenter.Close()

	for {
		emu.RunUntilFrame()

		scy, scx := emu.GetOrigin()
		events, err := presenter.Present(emu.FrameBuffer(), backend.Origin{SCY: scy, SCX: scx})
		applyEvents(emu, events)
		if err != nil {
			if errors.Is(err, backend.ErrQuit) {
				break
			}
			return err
		}
	}

	if c.Bool("dump-on-exit") {
		fmt.Fprintln(os.Stderr, emu.Dump())
	}
	return nil
}

func makePresenter(c *cli.Context, romPath string) (backend.Presenter, error) {
	switch name := c.String("backend"); name {
	case "terminal":
		return terminal.New(), nil
	case "sdl2":
		return sdl2.New(), nil
	case "headless":
		frames := c.Int("frames")
		if frames <= 0 {
			return nil, errors.New("headless backend requires --frames with a positive value")
		}
		snapshots, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return nil, err
		}
		return headless.New(frames, snapshots), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

func statusLine(emu *gb.GameBoy) string {
	checksum := "ok"
	if !emu.ValidHeaderChecksum() {
		checksum = "bad"
	}
	return fmt.Sprintf("%s  type:0x%02X  checksum:%s", emu.LoadedTitle(), emu.CartridgeType(), checksum)
}

func applyEvents(emu *gb.GameBoy, events []backend.InputEvent) {
	for _, ev := range events {
		if ev.Type == backend.Press {
			emu.PressButton(ev.Button)
		} else {
			emu.ReleaseButton(ev.Button)
		}
	}
}
