// Package ui is the raylib front end: it owns the window and the input
// loop and drives an editor.Session. All drawing is immediate-mode.
package ui

import (
	"fmt"
	"log/slog"

	"pixed/editor"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	panelWidth   = 200
	statusHeight = 20
	fontSize     = 10

	swatchSize    = 24
	swatchSpacing = 8
	swatchPerRow  = 2
)

// App couples a session with window and prompt state.
type App struct {
	session *editor.Session

	promptOpen  bool
	promptLabel string
	promptText  []rune

	quit bool
}

// Run opens the window and drives the session until the user quits.
func Run(session *editor.Session) {
	app := &App{session: session}

	rl.InitWindow(int32(app.windowWidth()), int32(app.windowHeight()), "pixed")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	// Escape cancels the filename prompt, so handle quitting ourselves.
	rl.SetExitKey(rl.KeyNull)

	for !app.quit && !rl.WindowShouldClose() {
		app.update()
		app.draw()
	}
}

func (app *App) windowWidth() int {
	return app.session.Canvas().Width()*app.session.CellSize() + panelWidth
}

func (app *App) windowHeight() int {
	return app.session.Canvas().Height()*app.session.CellSize() + statusHeight
}

func (app *App) update() {
	if app.promptOpen {
		app.updatePrompt()
		return
	}

	app.updatePointer()
	app.updateKeys()
}

func (app *App) updatePointer() {
	s := app.session
	pos := rl.GetMousePosition()
	cell := s.CellSize()
	gridW := s.Canvas().Width() * cell

	if rl.IsMouseButtonReleased(rl.MouseLeftButton) || rl.IsMouseButtonReleased(rl.MouseRightButton) {
		s.PointerUp()
	}

	if int(pos.X) >= gridW {
		app.handlePaletteClick(pos)
		return
	}

	cx, cy := int(pos.X)/cell, int(pos.Y)/cell
	switch {
	case rl.IsMouseButtonPressed(rl.MouseLeftButton):
		s.PointerDown(editor.ButtonLeft, cx, cy)
	case rl.IsMouseButtonPressed(rl.MouseRightButton):
		s.PointerDown(editor.ButtonRight, cx, cy)
	case rl.IsMouseButtonDown(rl.MouseLeftButton) || rl.IsMouseButtonDown(rl.MouseRightButton):
		s.PointerMove(cx, cy)
	}
}

func (app *App) handlePaletteClick(pos rl.Vector2) {
	if !rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		return
	}

	s := app.session
	x0 := s.Canvas().Width()*s.CellSize() + swatchSpacing
	relX := int(pos.X) - x0
	relY := int(pos.Y) - swatchSpacing
	if relX < 0 || relY < 0 {
		return
	}

	step := swatchSize + swatchSpacing
	col, row := relX/step, relY/step
	if col >= swatchPerRow || relX%step >= swatchSize || relY%step >= swatchSize {
		return
	}
	s.Select(row*swatchPerRow + col)
}

func (app *App) updateKeys() {
	s := app.session
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)

	switch {
	case rl.IsKeyPressed(rl.KeyEscape):
		app.quit = true
	case ctrl && rl.IsKeyPressed(rl.KeyZ):
		app.do(editor.CmdUndo)
	case ctrl && rl.IsKeyPressed(rl.KeyY):
		app.do(editor.CmdRedo)
	case rl.IsKeyPressed(rl.KeyC):
		app.do(editor.CmdClear)
	case rl.IsKeyPressed(rl.KeyG):
		app.do(editor.CmdToggleGrid)
	case rl.IsKeyPressed(rl.KeyS):
		app.do(editor.CmdRequestSave)
		app.openPrompt("save as (BMP):")
	case rl.IsKeyPressed(rl.KeyL):
		app.do(editor.CmdRequestLoad)
		app.openPrompt("load image:")
	case rl.IsKeyPressed(rl.KeyLeftBracket):
		app.do(editor.CmdShrinkCells)
		app.resizeWindow()
	case rl.IsKeyPressed(rl.KeyRightBracket):
		app.do(editor.CmdGrowCells)
		app.resizeWindow()
	default:
		for n := range 10 {
			if rl.IsKeyPressed(rl.KeyZero + int32(n)) {
				s.Select(n)
			}
		}
	}
}

func (app *App) do(cmd editor.Command) {
	if err := app.session.Do(cmd); err != nil {
		slog.Info("nothing to do", "reason", err)
	}
}

func (app *App) resizeWindow() {
	rl.SetWindowSize(app.windowWidth(), app.windowHeight())
}

func (app *App) openPrompt(label string) {
	app.promptOpen = true
	app.promptLabel = label
	app.promptText = app.promptText[:0]
}

func (app *App) updatePrompt() {
	for ch := rl.GetCharPressed(); ch != 0; ch = rl.GetCharPressed() {
		if ch >= 32 {
			app.promptText = append(app.promptText, ch)
		}
	}

	switch {
	case rl.IsKeyPressed(rl.KeyBackspace):
		if len(app.promptText) > 0 {
			app.promptText = app.promptText[:len(app.promptText)-1]
		}
	case rl.IsKeyPressed(rl.KeyEscape):
		app.promptOpen = false
		if err := app.session.ProvidePath(""); err != nil {
			slog.Error("could not cancel request", "error", err)
		}
	case rl.IsKeyPressed(rl.KeyEnter):
		app.promptOpen = false
		app.submitPrompt(string(app.promptText))
	}
}

func (app *App) submitPrompt(path string) {
	req := app.session.Pending()
	if err := app.session.ProvidePath(path); err != nil {
		slog.Error("file operation failed", "file", path, "error", err)
		return
	}
	if path == "" {
		return
	}
	switch req {
	case editor.RequestSavePath:
		slog.Info("saved", "file", path)
	case editor.RequestLoadPath:
		slog.Info("loaded", "file", path)
	}
}

func (app *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(220, 220, 220, 255))

	app.drawCanvas()
	app.drawPalette()
	app.drawStatus()
	if app.promptOpen {
		app.drawPrompt()
	}

	rl.EndDrawing()
}

func (app *App) drawCanvas() {
	s := app.session
	c := s.Canvas()
	pal := s.Palette()
	cell := int32(s.CellSize())
	gridLine := rl.NewColor(200, 200, 200, 255)

	for y := range c.Height() {
		for x := range c.Width() {
			px, py := int32(x)*cell, int32(y)*cell
			rl.DrawRectangle(px, py, cell, cell, pal[c.Get(x, y)])
			if s.GridShown() {
				rl.DrawRectangleLines(px, py, cell, cell, gridLine)
			}
		}
	}
}

func (app *App) drawPalette() {
	s := app.session
	x0 := int32(s.Canvas().Width()*s.CellSize() + swatchSpacing)
	step := int32(swatchSize + swatchSpacing)

	for i, col := range s.Palette() {
		x := x0 + int32(i%swatchPerRow)*step
		y := int32(swatchSpacing) + int32(i/swatchPerRow)*step
		rl.DrawRectangle(x, y, swatchSize, swatchSize, col)
		rl.DrawRectangleLines(x, y, swatchSize, swatchSize, rl.Black)
		if i == int(s.Current()) {
			rl.DrawRectangleLines(x-2, y-2, swatchSize+4, swatchSize+4, rl.Black)
		}
	}
}

func (app *App) drawStatus() {
	s := app.session
	y := int32(s.Canvas().Height()*s.CellSize() + 4)
	grid := "off"
	if s.GridShown() {
		grid = "on"
	}
	text := fmt.Sprintf("color %d | cell %dpx | grid %s", s.Current(), s.CellSize(), grid)
	rl.DrawText(text, 5, y, fontSize, rl.DarkGray)
}

func (app *App) drawPrompt() {
	w := int32(app.windowWidth())
	boxW, boxH := w-40, int32(50)
	x, y := int32(20), int32(20)

	rl.DrawRectangle(x, y, boxW, boxH, rl.NewColor(50, 50, 50, 230))
	rl.DrawRectangleLines(x, y, boxW, boxH, rl.White)
	rl.DrawText(app.promptLabel, x+8, y+8, fontSize, rl.LightGray)
	rl.DrawText(string(app.promptText)+"_", x+8, y+26, fontSize, rl.White)
}
