package engine

import (
	"errors"
	"fmt"
)

const (
	Columns = 7
	Rows    = 6
	ToWin   = 4
	Cells   = Columns * Rows
)

var (
	// ErrInvalidMove is the one move error kind. Every rejected move wraps it.
	ErrInvalidMove      = errors.New("invalid move")
	ErrColumnOutOfRange = fmt.Errorf("%w: column out of range", ErrInvalidMove)
	ErrColumnFull       = fmt.Errorf("%w: column is full", ErrInvalidMove)
	ErrGameOver         = fmt.Errorf("%w: game is already over", ErrInvalidMove)

	ErrInvalidSide     = errors.New("invalid side")
	ErrEmptyPlayerName = errors.New("player name is required")
)

// Side identifies one of the two players of a game
type Side int

const (
	NoSide Side = iota
	First
	Second
)

// Other returns the opposing side
func (s Side) Other() Side {
	switch s {
	case First:
		return Second
	case Second:
		return First
	}
	return NoSide
}

// Valid reports whether s is First or Second
func (s Side) Valid() bool {
	return s == First || s == Second
}

func (s Side) String() string {
	switch s {
	case First:
		return "first"
	case Second:
		return "second"
	}
	return ""
}

// MarshalText encodes a side as "first", "second" or "" for JSON
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes the output of MarshalText
func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "first":
		*s = First
	case "second":
		*s = Second
	case "":
		*s = NoSide
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSide, string(text))
	}
	return nil
}

// Status is the lifecycle state of a game
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusTied       Status = "tied"
)

// IsTerminal reports whether no further moves are accepted
func (s Status) IsTerminal() bool {
	return s == StatusWon || s == StatusTied
}

// Coordinate is a (row, column) cell position. Row 0 is the top row.
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether c lies on the board
func (c Coordinate) InBounds() bool {
	return c.Row >= 0 && c.Row < Rows && c.Col >= 0 && c.Col < Columns
}

// Step returns the neighbouring coordinate in direction d
func (c Coordinate) Step(d Direction) Coordinate {
	return Coordinate{Row: c.Row + d.DRow, Col: c.Col + d.DCol}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Player is a named participant bound to a fixed side
type Player struct {
	Name string `json:"name"`
	Side Side   `json:"side"`
}

// Markers are the glyphs used when rendering a board
type Markers struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Empty  string `json:"empty"`
}

// DefaultMarkers match the classic console rendering
var DefaultMarkers = Markers{First: "X", Second: "Y", Empty: "O"}

// For returns the marker for a cell owned by side
func (m Markers) For(side Side) string {
	switch side {
	case First:
		return m.First
	case Second:
		return m.Second
	}
	return m.Empty
}

// MoveRecord represents a single accepted move in the game history
type MoveRecord struct {
	Number    int    `json:"number"`
	Side      Side   `json:"side"`
	Player    string `json:"player"`
	Column    int    `json:"column"`
	Row       int    `json:"row"`
	Timestamp int64  `json:"timestamp"`
}

// Coordinate returns the cell the recorded chip landed on
func (m MoveRecord) Coordinate() Coordinate {
	return Coordinate{Row: m.Row, Col: m.Column}
}

// MoveResult describes an accepted move
type MoveResult struct {
	Side       Side       `json:"side"`
	Player     string     `json:"player"`
	Coordinate Coordinate `json:"coordinate"`
	MoveNumber int        `json:"move_number"`
	Status     Status     `json:"status"`
	Won        bool       `json:"won"`
	Tied       bool       `json:"tied"`
}
