package editor

import (
	"os"
	"path/filepath"
	"testing"

	"pixed/canvas"
	"pixed/palette"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(Options{Width: 8, Height: 8})
	require.NoError(t, err)
	return s
}

func TestNewDefaults(t *testing.T) {
	s, err := New(Options{})
	require.NoError(t, err)

	assert.Equal(t, DefaultGridSize, s.Canvas().Width())
	assert.Equal(t, DefaultGridSize, s.Canvas().Height())
	assert.Equal(t, DefaultCellSize, s.CellSize())
	assert.Len(t, s.Palette(), 12)
	assert.EqualValues(t, 1, s.Current(), "starts on the first non-background color")
	assert.True(t, s.GridShown())
	assert.Equal(t, RequestNone, s.Pending())
}

func TestNewNormalizesBadOptions(t *testing.T) {
	s, err := New(Options{Width: -3, Height: 0, CellSize: 2})
	require.NoError(t, err)
	assert.Equal(t, DefaultGridSize, s.Canvas().Width())
	assert.Equal(t, DefaultGridSize, s.Canvas().Height())
	assert.Equal(t, MinCellSize, s.CellSize())
}

func TestStrokePaintsAndUndoesAsOne(t *testing.T) {
	s := newTestSession(t)

	s.PointerDown(ButtonLeft, 0, 0)
	s.PointerMove(1, 0)
	s.PointerMove(2, 0)
	s.PointerUp()

	for x := range 3 {
		assert.EqualValues(t, 1, s.Canvas().Get(x, 0))
	}

	require.NoError(t, s.Do(CmdUndo))
	for x := range 3 {
		assert.EqualValues(t, 0, s.Canvas().Get(x, 0), "one undo reverts the whole stroke")
	}
	assert.False(t, s.CanUndo())

	require.NoError(t, s.Do(CmdRedo))
	for x := range 3 {
		assert.EqualValues(t, 1, s.Canvas().Get(x, 0))
	}
}

func TestRightButtonErases(t *testing.T) {
	s := newTestSession(t)
	s.Canvas().Paint(3, 3, 2)
	s.Canvas().Paint(4, 3, 5)

	s.PointerDown(ButtonRight, 3, 3)
	s.PointerMove(4, 3)
	s.PointerUp()
	assert.EqualValues(t, 0, s.Canvas().Get(3, 3))
	assert.EqualValues(t, 0, s.Canvas().Get(4, 3))

	require.NoError(t, s.Do(CmdUndo))
	assert.EqualValues(t, 2, s.Canvas().Get(3, 3), "an erase drag is one undo step")
	assert.EqualValues(t, 5, s.Canvas().Get(4, 3))
}

func TestStrokeOffGridIsNoHistory(t *testing.T) {
	s := newTestSession(t)

	s.PointerDown(ButtonLeft, -5, -5)
	s.PointerMove(100, 100)
	s.PointerUp()

	assert.False(t, s.CanUndo(), "a stroke that never touched the grid records nothing")
}

func TestMoveWithoutDownIsIgnored(t *testing.T) {
	s := newTestSession(t)
	s.PointerMove(1, 1)
	s.PointerUp()
	assert.EqualValues(t, 0, s.Canvas().Get(1, 1))
}

func TestSelect(t *testing.T) {
	s := newTestSession(t)

	s.Select(4)
	assert.EqualValues(t, 4, s.Current())

	s.Select(-1)
	s.Select(len(s.Palette()))
	assert.EqualValues(t, 4, s.Current(), "out-of-range selections are ignored")

	s.PointerDown(ButtonLeft, 2, 2)
	s.PointerUp()
	assert.EqualValues(t, 4, s.Canvas().Get(2, 2))
}

func TestClearIsUndoable(t *testing.T) {
	s := newTestSession(t)
	s.Canvas().Paint(1, 1, 3)

	require.NoError(t, s.Do(CmdClear))
	assert.EqualValues(t, 0, s.Canvas().Get(1, 1))

	require.NoError(t, s.Do(CmdUndo))
	assert.EqualValues(t, 3, s.Canvas().Get(1, 1))
}

func TestClearOnEmptyRecordsNothing(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Do(CmdClear))
	assert.False(t, s.CanUndo())
}

func TestDisplayCommandsLeaveGridAlone(t *testing.T) {
	s := newTestSession(t)
	s.Canvas().Paint(1, 1, 2)
	before := s.Canvas().Snapshot()

	require.NoError(t, s.Do(CmdToggleGrid))
	assert.False(t, s.GridShown())
	require.NoError(t, s.Do(CmdGrowCells))
	require.NoError(t, s.Do(CmdShrinkCells))

	assert.Equal(t, before, s.Canvas().Snapshot())
	assert.False(t, s.CanUndo())
}

func TestCellSizeFloor(t *testing.T) {
	s, err := New(Options{CellSize: MinCellSize})
	require.NoError(t, err)

	require.NoError(t, s.Do(CmdShrinkCells))
	assert.Equal(t, MinCellSize, s.CellSize())

	require.NoError(t, s.Do(CmdGrowCells))
	assert.Equal(t, MinCellSize+1, s.CellSize())
}

func TestTwoPhaseSave(t *testing.T) {
	s := newTestSession(t)
	s.Canvas().Paint(0, 0, 1)
	path := filepath.Join(t.TempDir(), "out.bmp")

	require.NoError(t, s.Do(CmdRequestSave))
	assert.Equal(t, RequestSavePath, s.Pending())

	require.NoError(t, s.ProvidePath(path))
	assert.Equal(t, RequestNone, s.Pending())

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestTwoPhaseLoadRoundTrip(t *testing.T) {
	s := newTestSession(t)
	s.PointerDown(ButtonLeft, 2, 5)
	s.PointerUp()
	want := s.Canvas().Snapshot()
	path := filepath.Join(t.TempDir(), "art.bmp")

	require.NoError(t, s.Do(CmdRequestSave))
	require.NoError(t, s.ProvidePath(path))

	require.NoError(t, s.Do(CmdClear))
	require.NoError(t, s.Do(CmdRequestLoad))
	require.NoError(t, s.ProvidePath(path))
	assert.Equal(t, want, s.Canvas().Snapshot())

	// the load itself is one undo step back to the cleared grid
	require.NoError(t, s.Do(CmdUndo))
	assert.EqualValues(t, 0, s.Canvas().Get(2, 5))
}

func TestProvidePathEmptyCancels(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Do(CmdRequestLoad))
	require.NoError(t, s.ProvidePath(""))
	assert.Equal(t, RequestNone, s.Pending())
}

func TestProvidePathWithoutRequest(t *testing.T) {
	s := newTestSession(t)
	require.ErrorIs(t, s.ProvidePath("anything.bmp"), ErrNoPendingRequest)
}

func TestLoadFailureLeavesGrid(t *testing.T) {
	s := newTestSession(t)
	s.Canvas().Paint(4, 4, 2)
	before := s.Canvas().Snapshot()

	require.NoError(t, s.Do(CmdRequestLoad))
	err := s.ProvidePath(filepath.Join(t.TempDir(), "missing.bmp"))
	require.Error(t, err)

	assert.Equal(t, before, s.Canvas().Snapshot())
	assert.False(t, s.CanUndo(), "a failed load records no history")
	assert.Equal(t, RequestNone, s.Pending())
}

func TestSaveFailureLeavesGrid(t *testing.T) {
	s := newTestSession(t)
	s.Canvas().Paint(4, 4, 2)
	before := s.Canvas().Snapshot()

	require.NoError(t, s.Do(CmdRequestSave))
	err := s.ProvidePath(filepath.Join(t.TempDir(), "missing", "out.bmp"))
	require.Error(t, err)
	assert.Equal(t, before, s.Canvas().Snapshot())
}

func TestCustomPalette(t *testing.T) {
	pal := palette.Palette{
		{255, 255, 255, 255},
		{0, 0, 0, 255},
	}
	s, err := New(Options{Width: 2, Height: 2, Palette: pal})
	require.NoError(t, err)

	s.Select(1)
	s.PointerDown(ButtonLeft, 0, 0)
	s.PointerUp()
	assert.EqualValues(t, 1, s.Canvas().Get(0, 0))
}

func TestHistoryDepthRespected(t *testing.T) {
	s, err := New(Options{Width: 2, Height: 2, HistoryDepth: 2})
	require.NoError(t, err)

	for i := range 5 {
		s.PointerDown(ButtonLeft, i%2, (i/2)%2)
		s.PointerUp()
		require.NoError(t, s.Do(CmdClear))
	}

	var undos int
	for s.CanUndo() {
		require.NoError(t, s.Do(CmdUndo))
		undos++
	}
	assert.Equal(t, 2, undos)
}

func TestUndoRedoSurfaceHistoryErrors(t *testing.T) {
	s := newTestSession(t)
	require.ErrorIs(t, s.Do(CmdUndo), canvas.ErrNothingToUndo)
	require.ErrorIs(t, s.Do(CmdRedo), canvas.ErrNothingToRedo)
}
