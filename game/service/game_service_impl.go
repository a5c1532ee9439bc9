package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wricardo/connect-four/game/engine"
	"github.com/wricardo/connect-four/telemetry"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	notifier StateNotifier
	tracer   trace.Tracer
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance. notifier may be nil.
func NewGameService(sessions SessionManager, notifier StateNotifier) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		notifier: notifier,
		tracer:   telemetry.Tracer("service"),
	}
}

func (s *gameServiceImpl) startSpan(ctx context.Context, name, gameID string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, name)
	if gameID != "" {
		span.SetAttributes(attribute.String("game.id", gameID))
	}
	return ctx, span
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// getSession looks a game up and marks it as accessed. Callers hold the write
// lock since the access time is updated.
func (s *gameServiceImpl) getSession(gameID string) (*Session, error) {
	sess, err := s.sessions.Get(gameID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrGameNotFound, gameID, err)
	}
	if err := s.sessions.UpdateLastAccessed(gameID); err != nil {
		log.Printf("Failed to update last access of game %s: %v", gameID, err)
	}
	return sess, nil
}

func newGameInfo(sess *Session) *GameInfo {
	state := sess.Engine.State()
	return &GameInfo{
		ID:             sess.ID,
		Players:        sess.Engine.Players(),
		Status:         state.Status,
		MoveCount:      state.MoveCount,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      state,
	}
}

func (s *gameServiceImpl) notify(gameID string, state *engine.GameState) {
	if s.notifier != nil {
		s.notifier.BroadcastToGame(gameID, state)
	}
}

func (s *gameServiceImpl) forget(gameID string) {
	if s.notifier != nil {
		s.notifier.ForgetGame(gameID)
	}
}

// CreateGame starts a new game between two players. An empty gameID lets the
// session manager generate one.
func (s *gameServiceImpl) CreateGame(ctx context.Context, gameID, player1, player2 string) (*GameInfo, error) {
	_, span := s.startSpan(ctx, "game.create", gameID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Create(gameID, player1, player2)
	if err != nil {
		return nil, fail(span, fmt.Errorf("failed to create game: %w", err))
	}

	span.SetAttributes(attribute.String("game.id", sess.ID))
	return newGameInfo(sess), nil
}

// GetGame retrieves game information
func (s *gameServiceImpl) GetGame(ctx context.Context, gameID string) (*GameInfo, error) {
	_, span := s.startSpan(ctx, "game.get", gameID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(gameID)
	if err != nil {
		return nil, fail(span, err)
	}

	return newGameInfo(sess), nil
}

// ListGames returns all games, oldest first
func (s *gameServiceImpl) ListGames(ctx context.Context) ([]*GameInfo, error) {
	_, span := s.startSpan(ctx, "game.list", "")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*GameInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, newGameInfo(sess))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	span.SetAttributes(attribute.Int("game.count", len(result)))
	return result, nil
}

// DeleteGame removes a game
func (s *gameServiceImpl) DeleteGame(ctx context.Context, gameID string) error {
	_, span := s.startSpan(ctx, "game.delete", gameID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(gameID)
	if err != nil {
		return fail(span, fmt.Errorf("%w: %s: %w", ErrGameNotFound, gameID, err))
	}
	if err := s.sessions.Delete(gameID); err != nil {
		return fail(span, fmt.Errorf("%w: %s: %w", ErrGameNotFound, gameID, err))
	}

	s.forget(sess.ID)
	return nil
}

// CleanupIdleGames removes games nobody has touched within maxAge and returns
// how many were removed
func (s *gameServiceImpl) CleanupIdleGames(ctx context.Context, maxAge time.Duration) int {
	_, span := s.startSpan(ctx, "game.cleanup", "")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.sessions.CleanupExpiredSessions(maxAge)
	for _, id := range removed {
		s.forget(id)
	}

	span.SetAttributes(attribute.Int("game.removed", len(removed)))
	return len(removed)
}

// SubmitMove drops a chip for the side to move. Rejected moves return an error
// wrapping engine.ErrInvalidMove and leave the game unchanged.
func (s *gameServiceImpl) SubmitMove(ctx context.Context, gameID string, column int) (*MoveResult, error) {
	_, span := s.startSpan(ctx, "game.submit_move", gameID)
	defer span.End()
	span.SetAttributes(attribute.Int("move.column", column))

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(gameID)
	if err != nil {
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.String("move.side", sess.Engine.CurrentSide().String()))

	move, err := sess.Engine.SubmitMove(column)
	if err != nil {
		return nil, fail(span, err)
	}

	state := sess.Engine.State()
	span.SetAttributes(
		attribute.Int("move.row", move.Coordinate.Row),
		attribute.Int("move.number", move.MoveNumber),
		attribute.String("game.status", string(move.Status)),
	)

	s.notify(sess.ID, state)

	return &MoveResult{
		GameID:    sess.ID,
		Move:      move,
		GameState: state,
		Message:   state.Message,
	}, nil
}

// ValidMoves returns the playable columns of a game
func (s *gameServiceImpl) ValidMoves(ctx context.Context, gameID string) ([]int, error) {
	_, span := s.startSpan(ctx, "game.valid_moves", gameID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(gameID)
	if err != nil {
		return nil, fail(span, err)
	}

	if sess.Engine.IsGameOver() {
		return []int{}, nil
	}
	return sess.Engine.ValidMoves(), nil
}

// ResetGame clears the board for a rematch between the same players
func (s *gameServiceImpl) ResetGame(ctx context.Context, gameID string) (*engine.GameState, error) {
	_, span := s.startSpan(ctx, "game.reset", gameID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(gameID)
	if err != nil {
		return nil, fail(span, err)
	}

	sess.Engine.Reset()
	state := sess.Engine.State()
	s.notify(sess.ID, state)

	return state, nil
}

// GetGameState returns the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, gameID string) (*engine.GameState, error) {
	_, span := s.startSpan(ctx, "game.state", gameID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(gameID)
	if err != nil {
		return nil, fail(span, err)
	}

	return sess.Engine.State(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, gameID string, opts HistoryOptions) (*HistoryResponse, error) {
	_, span := s.startSpan(ctx, "game.move_history", gameID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(gameID)
	if err != nil {
		return nil, fail(span, err)
	}

	history := sess.Engine.MoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultHistoryLimit
	}
	if opts.Limit > MaxHistoryLimit {
		opts.Limit = MaxHistoryLimit
	}
	if opts.Order != OrderAsc {
		opts.Order = OrderDesc
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveRecord{}
	if opts.Order == OrderDesc {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}
