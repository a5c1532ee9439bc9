package service

import (
	"context"
	"time"

	"github.com/wricardo/connect-four/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Game Management
	CreateGame(ctx context.Context, gameID, player1, player2 string) (*GameInfo, error)
	GetGame(ctx context.Context, gameID string) (*GameInfo, error)
	ListGames(ctx context.Context) ([]*GameInfo, error)
	DeleteGame(ctx context.Context, gameID string) error
	CleanupIdleGames(ctx context.Context, maxAge time.Duration) int

	// Game Operations
	SubmitMove(ctx context.Context, gameID string, column int) (*MoveResult, error)
	ValidMoves(ctx context.Context, gameID string) ([]int, error)
	ResetGame(ctx context.Context, gameID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, gameID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, gameID string, opts HistoryOptions) (*HistoryResponse, error)
}

// SessionManager defines game storage operations
type SessionManager interface {
	Create(id, player1, player2 string) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	CleanupExpiredSessions(maxAge time.Duration) []string
}

// StateNotifier receives the new state of a game after every accepted move or
// reset, and hears when a game is removed. BroadcastToGame must not block.
type StateNotifier interface {
	BroadcastToGame(gameID string, state *engine.GameState)
	ForgetGame(gameID string)
}

// Session represents a game in progress
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
