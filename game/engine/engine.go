package engine

import (
	"fmt"
	"strings"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Turn state
	CurrentPlayerName() string
	CurrentSide() Side
	Player(side Side) Player
	Players() [2]Player

	// Moves
	ValidMoves() []int
	SubmitMove(column int) (MoveResult, error)

	// Outcome
	HasCurrentPlayerWon() bool
	IsTied() bool
	Status() Status
	IsGameOver() bool
	Winner() (Player, bool)
	WinningLine() []Coordinate

	// Board and history
	Board() *Board
	Render() string
	Moves(side Side) []Coordinate
	MoveHistory() []MoveRecord
	LastMove() *MoveRecord
	MoveCount() int

	// Lifecycle
	Reset()
	State() *GameState
}

// GameEngine implements the Engine interface for a single game
type GameEngine struct {
	board       *Board
	players     [2]Player
	current     Side
	lastMover   Side
	status      Status
	winner      Side
	winningLine []Coordinate
	history     []MoveRecord
}

var _ Engine = (*GameEngine)(nil)

// NewGame creates a game between two named players. player1 moves first.
func NewGame(player1Name, player2Name string) (*GameEngine, error) {
	player1Name = strings.TrimSpace(player1Name)
	player2Name = strings.TrimSpace(player2Name)
	if player1Name == "" {
		return nil, fmt.Errorf("%w: player 1", ErrEmptyPlayerName)
	}
	if player2Name == "" {
		return nil, fmt.Errorf("%w: player 2", ErrEmptyPlayerName)
	}

	e := &GameEngine{
		players: [2]Player{
			{Name: player1Name, Side: First},
			{Name: player2Name, Side: Second},
		},
	}
	e.Reset()
	return e, nil
}

// Reset clears the board for a rematch between the same players
func (e *GameEngine) Reset() {
	e.board = NewBoard()
	e.current = First
	e.lastMover = NoSide
	e.status = StatusInProgress
	e.winner = NoSide
	e.winningLine = nil
	e.history = []MoveRecord{}
}

// CurrentSide returns the side whose turn it is
func (e *GameEngine) CurrentSide() Side {
	return e.current
}

// CurrentPlayerName returns the name of the player whose turn it is
func (e *GameEngine) CurrentPlayerName() string {
	return e.Player(e.current).Name
}

// Player returns the player bound to side
func (e *GameEngine) Player(side Side) Player {
	if !side.Valid() {
		return Player{}
	}
	return e.players[side-1]
}

// Players returns both players, first mover first
func (e *GameEngine) Players() [2]Player {
	return e.players
}

// ValidMoves returns the open columns in ascending order. It is empty once
// the board is full.
func (e *GameEngine) ValidMoves() []int {
	return e.board.OpenColumns()
}

// IsValidMove checks whether column is currently playable
func (e *GameEngine) IsValidMove(column int) bool {
	return !e.status.IsTerminal() && e.board.IsColumnOpen(column)
}

// SubmitMove drops a chip for the current side. Either the move is fully
// applied, turn switch included, or the game is left untouched and the
// returned error wraps ErrInvalidMove.
func (e *GameEngine) SubmitMove(column int) (MoveResult, error) {
	if e.status.IsTerminal() {
		return MoveResult{}, ErrGameOver
	}
	if column < 0 || column >= Columns {
		return MoveResult{}, fmt.Errorf("%w: %d", ErrColumnOutOfRange, column)
	}
	if !e.board.IsColumnOpen(column) {
		return MoveResult{}, fmt.Errorf("%w: %d", ErrColumnFull, column)
	}

	side := e.current
	landing, err := e.board.DropChip(column, side)
	if err != nil {
		return MoveResult{}, err
	}

	e.lastMover = side
	e.history = append(e.history, MoveRecord{
		Number:    len(e.history) + 1,
		Side:      side,
		Player:    e.Player(side).Name,
		Column:    column,
		Row:       landing.Row,
		Timestamp: time.Now().Unix(),
	})

	if line := e.board.WinningLine(side); line != nil {
		e.status = StatusWon
		e.winner = side
		e.winningLine = line
	} else if e.board.IsFull() {
		e.status = StatusTied
	}

	e.current = side.Other()

	return MoveResult{
		Side:       side,
		Player:     e.Player(side).Name,
		Coordinate: landing,
		MoveNumber: len(e.history),
		Status:     e.status,
		Won:        e.status == StatusWon,
		Tied:       e.status == StatusTied,
	}, nil
}

// HasCurrentPlayerWon reports whether the side that placed the most recent
// chip has four in a row. It does not look at whose turn it is now.
func (e *GameEngine) HasCurrentPlayerWon() bool {
	return e.lastMover != NoSide && e.winner == e.lastMover
}

// IsTied reports whether the board filled up without a winner
func (e *GameEngine) IsTied() bool {
	return e.status == StatusTied
}

// Status returns the game status
func (e *GameEngine) Status() Status {
	return e.status
}

// IsGameOver returns whether the game reached a terminal state
func (e *GameEngine) IsGameOver() bool {
	return e.status.IsTerminal()
}

// Winner returns the winning player, if any
func (e *GameEngine) Winner() (Player, bool) {
	if e.winner == NoSide {
		return Player{}, false
	}
	return e.Player(e.winner), true
}

// WinningLine returns the four cells that won the game, or nil
func (e *GameEngine) WinningLine() []Coordinate {
	if e.winningLine == nil {
		return nil
	}
	line := make([]Coordinate, len(e.winningLine))
	copy(line, e.winningLine)
	return line
}

// Board returns the underlying board
func (e *GameEngine) Board() *Board {
	return e.board
}

// Render returns the textual board
func (e *GameEngine) Render() string {
	return e.board.Render()
}

// Moves returns every coordinate owned by side
func (e *GameEngine) Moves(side Side) []Coordinate {
	return e.board.Moves(side)
}

// MoveHistory returns the accepted moves in order
func (e *GameEngine) MoveHistory() []MoveRecord {
	history := make([]MoveRecord, len(e.history))
	copy(history, e.history)
	return history
}

// LastMove returns the last move made, or nil if no moves
func (e *GameEngine) LastMove() *MoveRecord {
	if len(e.history) == 0 {
		return nil
	}
	last := e.history[len(e.history)-1]
	return &last
}

// MoveCount returns the number of accepted moves
func (e *GameEngine) MoveCount() int {
	return len(e.history)
}
