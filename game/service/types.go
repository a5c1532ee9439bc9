package service

import (
	"errors"
	"time"

	"github.com/wricardo/connect-four/game/engine"
)

var ErrGameNotFound = errors.New("game not found")

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// GameInfo provides information about a game
type GameInfo struct {
	ID             string            `json:"id"`
	Players        [2]engine.Player  `json:"players"`
	Status         engine.Status     `json:"status"`
	MoveCount      int               `json:"move_count"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// MoveResult contains the result of an accepted move
type MoveResult struct {
	GameID    string            `json:"game_id"`
	Move      engine.MoveResult `json:"move"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveRecord `json:"moves"`
	TotalMoves  int                 `json:"total_moves"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}
