package canvas

import "errors"

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History is a bounded undo/redo stack of full-grid snapshots. Grids are
// small enough that whole copies beat per-cell diff records.
type History struct {
	undo [][]uint8
	redo [][]uint8

	maxEntries int
}

// NewHistory creates a history keeping at most maxEntries undo steps.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = 64
	}
	return &History{maxEntries: maxEntries}
}

// Push records snap, the grid contents before an edit, as a new undo step.
// Any redo steps are discarded.
func (h *History) Push(snap []uint8) {
	h.undo = append(h.undo, snap)
	h.redo = nil

	if len(h.undo) > h.maxEntries {
		excess := len(h.undo) - h.maxEntries
		h.undo = h.undo[excess:]
	}
}

// Undo restores the most recent snapshot onto c and saves the current
// contents as a redo step.
func (h *History) Undo(c *Canvas) error {
	if len(h.undo) == 0 {
		return ErrNothingToUndo
	}

	snap := h.undo[len(h.undo)-1]
	current := c.Snapshot()
	if err := c.Restore(snap); err != nil {
		return err
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return nil
}

// Redo reapplies the most recently undone state onto c.
func (h *History) Redo(c *Canvas) error {
	if len(h.redo) == 0 {
		return ErrNothingToRedo
	}

	snap := h.redo[len(h.redo)-1]
	current := c.Snapshot()
	if err := c.Restore(snap); err != nil {
		return err
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return nil
}

// CanUndo reports whether an undo step is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo step is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Clear drops all undo and redo state.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}
