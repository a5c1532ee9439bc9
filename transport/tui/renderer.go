package tui

import (
	"fmt"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/connect-four/game/config"
	"github.com/wricardo/connect-four/game/engine"
)

// Screen rows used by the layout
const (
	titleRow   = 0
	cursorRow  = 2
	boardTop   = 3
	labelRow   = boardTop + engine.Rows
	messageRow = labelRow + 2
	tallyRow   = messageRow + 1
	helpRow    = tallyRow + 2

	helpText = "<-/-> or digits: choose column  Enter/Space: drop  r: rematch  q/Esc: quit"
)

// cellX is the screen column of a board column
func cellX(col int) int {
	return 2 + 2*col
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen   Screen
	settings *config.Settings
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen Screen, settings *config.Settings) *Renderer {
	return &Renderer{screen: screen, settings: settings}
}

// View is everything drawn in one frame
type View struct {
	State   *engine.GameState
	Cursor  int
	Message string
	Tally   [3]int // first wins, second wins, ties
}

// Render draws a full frame.
func (r *Renderer) Render(v View) {
	r.screen.Clear()

	state := v.State
	r.text(0, titleRow, fmt.Sprintf("Connect Four: %s (%s) vs %s (%s)",
		state.Players[0].Name, r.settings.Markers.First,
		state.Players[1].Name, r.settings.Markers.Second), tcell.StyleDefault.Bold(true))

	if !state.IsGameOver() {
		r.screen.SetContent(cellX(v.Cursor), cursorRow, 'v', r.sideStyle(state.CurrentSide).Bold(true))
	}

	winning := make(map[engine.Coordinate]bool, len(state.WinningLine))
	for _, c := range state.WinningLine {
		winning[c] = true
	}

	frame := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	for row, cells := range state.Grid {
		y := boardTop + row
		r.screen.SetContent(0, y, '[', frame)
		for col, side := range cells {
			style := r.sideStyle(side)
			if winning[engine.Coordinate{Row: row, Col: col}] {
				style = style.Reverse(true)
			}
			r.screen.SetContent(cellX(col), y, r.marker(side), style)
		}
		r.screen.SetContent(cellX(engine.Columns), y, ']', frame)
	}

	for col := 0; col < engine.Columns; col++ {
		r.screen.SetContent(cellX(col), labelRow, rune('0'+col+r.settings.ColumnBase), tcell.StyleDefault)
	}

	message := v.Message
	if message == "" {
		message = state.Message
	}
	r.text(0, messageRow, message, tcell.StyleDefault.Foreground(tcell.ColorWhite))

	r.text(0, tallyRow, fmt.Sprintf("Score: %s %d - %d %s (ties: %d)",
		state.Players[0].Name, v.Tally[0], v.Tally[1], state.Players[1].Name, v.Tally[2]),
		tcell.StyleDefault.Foreground(tcell.ColorGray))

	r.text(0, helpRow, helpText, tcell.StyleDefault.Foreground(tcell.ColorDarkGray))

	r.screen.Show()
}

func (r *Renderer) marker(side engine.Side) rune {
	m, _ := utf8.DecodeRuneInString(r.settings.Markers.For(side))
	return m
}

// sideStyle returns the appropriate style for a cell owner.
func (r *Renderer) sideStyle(side engine.Side) tcell.Style {
	switch side {
	case engine.First:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	case engine.Second:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	}
}

func (r *Renderer) text(x, y int, msg string, style tcell.Style) {
	for _, ch := range msg {
		r.screen.SetContent(x, y, ch, style)
		x++
	}
}
