// Package canvas holds the pixel grid of a drawing: a fixed-size 2D array
// of palette indices with coordinate-based accessors. The row-major backing
// slice is an implementation detail.
package canvas

import "fmt"

// Canvas is a W×H grid of palette indices. Dimensions are fixed after
// creation. Not safe for concurrent use; the editor mutates it from a
// single goroutine.
type Canvas struct {
	width  int
	height int
	colors int
	cells  []uint8
}

// New allocates a cleared canvas. colors is the palette size; every write
// is checked against it so the grid never stores an invalid index.
func New(width, height, colors int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	if colors < 1 || colors > 256 {
		return nil, fmt.Errorf("invalid palette size %d", colors)
	}
	return &Canvas{
		width:  width,
		height: height,
		colors: colors,
		cells:  make([]uint8, width*height),
	}, nil
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// InBounds reports whether (x, y) is a valid cell coordinate.
func (c *Canvas) InBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Paint sets the cell at (x, y) to idx. Out-of-bounds coordinates and
// out-of-range indices are silently ignored; pointer-driven input wanders
// off the grid all the time and that is not an error.
func (c *Canvas) Paint(x, y int, idx uint8) {
	if !c.InBounds(x, y) || int(idx) >= c.colors {
		return
	}
	c.cells[y*c.width+x] = idx
}

// Erase resets the cell at (x, y) to the background index 0.
func (c *Canvas) Erase(x, y int) {
	c.Paint(x, y, 0)
}

// Clear resets every cell to the background index 0.
func (c *Canvas) Clear() {
	clear(c.cells)
}

// Get returns the index stored at (x, y). Callers must bounds-check first;
// out-of-bounds coordinates panic.
func (c *Canvas) Get(x, y int) uint8 {
	return c.cells[y*c.width+x]
}

// Snapshot returns a copy of the full grid contents.
func (c *Canvas) Snapshot() []uint8 {
	snap := make([]uint8, len(c.cells))
	copy(snap, c.cells)
	return snap
}

// Restore replaces the grid contents with a snapshot of the same size.
// Every index is checked against the palette size before any cell is
// written, so a snapshot built for a larger palette cannot smuggle an
// invalid index past Paint's guard.
func (c *Canvas) Restore(snap []uint8) error {
	if len(snap) != len(c.cells) {
		return fmt.Errorf("snapshot holds %d cells, canvas has %d", len(snap), len(c.cells))
	}
	for _, idx := range snap {
		if int(idx) >= c.colors {
			return fmt.Errorf("snapshot stores palette index %d, canvas only has %d colors", idx, c.colors)
		}
	}
	copy(c.cells, snap)
	return nil
}
