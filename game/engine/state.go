package engine

import (
	"fmt"
	"strings"
)

// GameState is a self-contained snapshot of a game
type GameState struct {
	Grid          [][]Side     `json:"grid"`
	Board         []string     `json:"board"`
	Heights       [Columns]int `json:"heights"`
	Players       [2]Player    `json:"players"`
	CurrentSide   Side         `json:"current_side"`
	CurrentPlayer string       `json:"current_player"`
	Status        Status       `json:"status"`
	WinnerSide    Side         `json:"winner_side,omitempty"`
	Winner        string       `json:"winner,omitempty"`
	WinningLine   []Coordinate `json:"winning_line,omitempty"`
	ValidMoves    []int        `json:"valid_moves"`
	MoveCount     int          `json:"move_count"`
	LastMove      *MoveRecord  `json:"last_move,omitempty"`
	Message       string       `json:"message"`
}

// State builds a snapshot that shares no memory with the engine
func (e *GameEngine) State() *GameState {
	grid := e.board.Grid()

	rows := make([]string, len(grid))
	for i, row := range grid {
		rows[i] = strings.TrimSuffix(RenderGrid([][]Side{row}, DefaultMarkers), "\n")
	}

	state := &GameState{
		Grid:          grid,
		Board:         rows,
		Heights:       e.board.Heights(),
		Players:       e.players,
		CurrentSide:   e.current,
		CurrentPlayer: e.CurrentPlayerName(),
		Status:        e.status,
		WinnerSide:    e.winner,
		WinningLine:   e.WinningLine(),
		ValidMoves:    e.ValidMoves(),
		MoveCount:     len(e.history),
		LastMove:      e.LastMove(),
	}
	if winner, ok := e.Winner(); ok {
		state.Winner = winner.Name
	}
	state.Message = state.describe()

	return state
}

// Render draws the snapshot's grid with the given markers
func (s *GameState) Render(markers Markers) string {
	return RenderGrid(s.Grid, markers)
}

// IsGameOver reports whether the snapshot is of a finished game
func (s *GameState) IsGameOver() bool {
	return s.Status.IsTerminal()
}

func (s *GameState) describe() string {
	switch s.Status {
	case StatusWon:
		return fmt.Sprintf("Player %s WON!!!", s.Winner)
	case StatusTied:
		return "Game tied!"
	}
	return fmt.Sprintf("Player %s to move", s.CurrentPlayer)
}
