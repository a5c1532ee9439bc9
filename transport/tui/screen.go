package tui

import "github.com/gdamore/tcell/v2"

// Screen is the part of a terminal the game draws on and reads keys from.
type Screen interface {
	PollEvent() tcell.Event
	Clear()
	Show()
	SetContent(x, y int, r rune, style tcell.Style)
	Size() (width, height int)
	Sync()
	Close()
}

// TerminalScreen wraps tcell.Screen with a simplified interface.
type TerminalScreen struct {
	screen tcell.Screen
}

var _ Screen = (*TerminalScreen)(nil)

// NewScreen creates and initializes a new terminal screen.
func NewScreen() (*TerminalScreen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.Clear()
	return &TerminalScreen{screen: s}, nil
}

// Close finalizes the screen and restores terminal state.
func (s *TerminalScreen) Close() {
	s.screen.Fini()
}

// PollEvent waits for and returns the next terminal event.
func (s *TerminalScreen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

// Clear clears the screen buffer.
func (s *TerminalScreen) Clear() {
	s.screen.Clear()
}

// Show flushes the screen buffer to the terminal.
func (s *TerminalScreen) Show() {
	s.screen.Show()
}

// SetContent sets a single cell's content at the given position.
func (s *TerminalScreen) SetContent(x, y int, r rune, style tcell.Style) {
	s.screen.SetContent(x, y, r, nil, style)
}

// Size returns the current terminal dimensions.
func (s *TerminalScreen) Size() (width, height int) {
	return s.screen.Size()
}

// Sync forces a complete redraw of the screen.
func (s *TerminalScreen) Sync() {
	s.screen.Sync()
}
