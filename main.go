package main

import (
	"fmt"
	"log/slog"

	"pixed/editor"
	"pixed/palette"
	"pixed/ui"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Width   int    `help:"Grid width in cells" default:"32"`
	Height  int    `help:"Grid height in cells" default:"32"`
	Cell    int    `help:"On-screen cell size in pixels" default:"16"`
	Palette string `help:"Palette name (default, bw, gray16), RIFF PAL file (.pal) or hex color list (.hex, .txt)" default:"default"`
	History int    `help:"Number of undo steps kept" default:"64"`

	Pal palette.Palette `kong:"-"`
}

func (c *CLI) Validate(kctx *kong.Context) error {
	// Non-positive dimensions fall back to the defaults rather than erroring,
	// matching the reference behavior for bad startup arguments.
	if c.Width <= 0 {
		c.Width = editor.DefaultGridSize
	}
	if c.Height <= 0 {
		c.Height = editor.DefaultGridSize
	}
	if c.Cell <= 0 {
		c.Cell = editor.DefaultCellSize
	}

	var err error
	if c.Pal, err = palette.Load(c.Palette); err != nil {
		return fmt.Errorf("invalid palette %q: %w", c.Palette, err)
	}
	return nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("pixed"),
		kong.Description("A grid pixel-art editor. Paint with the mouse; C clears, G toggles grid lines, S/L save and load BMP files, [ and ] resize cells, 0-9 pick a color, Ctrl+Z/Ctrl+Y undo and redo."),
	)

	session, err := editor.New(editor.Options{
		Width:        cli.Width,
		Height:       cli.Height,
		CellSize:     cli.Cell,
		Palette:      cli.Pal,
		HistoryDepth: cli.History,
	})
	if err != nil {
		slog.Error("could not start editor", "error", err)
		kctx.Exit(1)
	}

	slog.Info("starting", "grid", fmt.Sprintf("%dx%d", cli.Width, cli.Height),
		"cell", cli.Cell, "palette", cli.Palette, "colors", len(cli.Pal))

	ui.Run(session)
}
