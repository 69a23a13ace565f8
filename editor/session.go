// Package editor ties the canvas, palette and history together into one
// session object driven by a front end. The session never talks to a window
// or a terminal itself: pointers and commands come in through entry points,
// and file paths for save/load arrive in a second phase via ProvidePath so
// a GUI front end is never forced to block on a prompt.
package editor

import (
	"errors"
	"fmt"

	"pixed/canvas"
	"pixed/palette"
	"pixed/raster"
)

// Defaults for options left zero.
const (
	DefaultGridSize = 32
	DefaultCellSize = 16
	MinCellSize     = 4
)

var ErrNoPendingRequest = errors.New("no pending path request")

// Button identifies a pointer button.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
)

// Command is a discrete editor action, usually bound to a key.
type Command uint8

const (
	CmdClear Command = iota
	CmdToggleGrid
	CmdUndo
	CmdRedo
	CmdGrowCells
	CmdShrinkCells
	CmdRequestSave
	CmdRequestLoad
)

// Request names the path the session is waiting for, if any.
type Request uint8

const (
	RequestNone Request = iota
	RequestSavePath
	RequestLoadPath
)

// Options configures a new session. Non-positive dimensions fall back to
// DefaultGridSize, a non-positive cell size to DefaultCellSize, a nil
// palette to palette.Default().
type Options struct {
	Width        int
	Height       int
	CellSize     int
	Palette      palette.Palette
	HistoryDepth int
}

// Session is the editing state of one document. Single-threaded: one
// goroutine owns it and performs both mutation and rendering reads.
type Session struct {
	canvas  *canvas.Canvas
	palette palette.Palette
	history *canvas.History

	current  uint8
	showGrid bool
	cellSize int

	pending Request

	// in-progress paint stroke; one history entry per stroke
	painting    bool
	strokeBtn   Button
	strokeSnap  []uint8
	strokeDirty bool
}

// New creates a session with a cleared canvas.
func New(opts Options) (*Session, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultGridSize
	}
	if opts.Height <= 0 {
		opts.Height = DefaultGridSize
	}
	if opts.CellSize <= 0 {
		opts.CellSize = DefaultCellSize
	}
	if opts.CellSize < MinCellSize {
		opts.CellSize = MinCellSize
	}
	if opts.Palette == nil {
		opts.Palette = palette.Default()
	}

	c, err := canvas.New(opts.Width, opts.Height, len(opts.Palette))
	if err != nil {
		return nil, fmt.Errorf("could not allocate canvas: %w", err)
	}

	s := &Session{
		canvas:   c,
		palette:  opts.Palette,
		history:  canvas.NewHistory(opts.HistoryDepth),
		showGrid: true,
		cellSize: opts.CellSize,
	}
	if len(s.palette) > 1 {
		s.current = 1 // first non-background color
	}
	return s, nil
}

func (s *Session) Canvas() *canvas.Canvas   { return s.canvas }
func (s *Session) Palette() palette.Palette { return s.palette }
func (s *Session) Current() uint8           { return s.current }
func (s *Session) GridShown() bool          { return s.showGrid }
func (s *Session) CellSize() int            { return s.cellSize }
func (s *Session) Pending() Request         { return s.pending }
func (s *Session) CanUndo() bool            { return s.history.CanUndo() }
func (s *Session) CanRedo() bool            { return s.history.CanRedo() }

// Select makes palette entry n the paint color. Out-of-range n is ignored.
func (s *Session) Select(n int) {
	if n >= 0 && n < len(s.palette) {
		s.current = uint8(n)
	}
}

// PointerDown starts a paint (left) or erase (right) stroke at grid cell
// (x, y). Out-of-bounds coordinates still start the stroke; the canvas
// ignores them until the pointer drags onto the grid.
func (s *Session) PointerDown(btn Button, x, y int) {
	if btn != ButtonLeft && btn != ButtonRight {
		return
	}
	s.painting = true
	s.strokeBtn = btn
	s.strokeSnap = s.canvas.Snapshot()
	s.strokeDirty = false
	s.applyStroke(x, y)
}

// PointerMove continues the current stroke, if any.
func (s *Session) PointerMove(x, y int) {
	if !s.painting {
		return
	}
	s.applyStroke(x, y)
}

// PointerUp ends the stroke. Strokes that changed at least one cell become
// a single undo step.
func (s *Session) PointerUp() {
	if !s.painting {
		return
	}
	s.painting = false
	if s.strokeDirty {
		s.history.Push(s.strokeSnap)
	}
	s.strokeSnap = nil
}

func (s *Session) applyStroke(x, y int) {
	if !s.canvas.InBounds(x, y) {
		return
	}

	if s.strokeBtn == ButtonRight {
		if s.canvas.Get(x, y) != 0 {
			s.canvas.Erase(x, y)
			s.strokeDirty = true
		}
		return
	}
	if s.canvas.Get(x, y) != s.current {
		s.canvas.Paint(x, y, s.current)
		s.strokeDirty = true
	}
}

// Do executes a discrete command. Display-state commands never touch the
// grid contents.
func (s *Session) Do(cmd Command) error {
	switch cmd {
	case CmdClear:
		snap := s.canvas.Snapshot()
		s.canvas.Clear()
		if changed(snap) {
			s.history.Push(snap)
		}
	case CmdToggleGrid:
		s.showGrid = !s.showGrid
	case CmdUndo:
		return s.history.Undo(s.canvas)
	case CmdRedo:
		return s.history.Redo(s.canvas)
	case CmdGrowCells:
		s.cellSize++
	case CmdShrinkCells:
		if s.cellSize > MinCellSize {
			s.cellSize--
		}
	case CmdRequestSave:
		s.pending = RequestSavePath
	case CmdRequestLoad:
		s.pending = RequestLoadPath
	default:
		return fmt.Errorf("unknown command %d", cmd)
	}
	return nil
}

// ProvidePath completes a pending save or load request. An empty path
// cancels the request without touching anything. Load pushes an undo step
// on success; on failure the grid is left exactly as it was.
func (s *Session) ProvidePath(path string) error {
	req := s.pending
	s.pending = RequestNone

	switch req {
	case RequestNone:
		return ErrNoPendingRequest
	case RequestSavePath:
		if path == "" {
			return nil
		}
		return raster.Save(path, s.canvas, s.palette, s.cellSize)
	case RequestLoadPath:
		if path == "" {
			return nil
		}
		snap := s.canvas.Snapshot()
		if err := raster.Load(path, s.canvas, s.palette); err != nil {
			return err
		}
		s.history.Push(snap)
		return nil
	}
	return fmt.Errorf("unknown request %d", req)
}

// changed reports whether any cell of a snapshot differs from background.
func changed(snap []uint8) bool {
	for _, v := range snap {
		if v != 0 {
			return true
		}
	}
	return false
}
