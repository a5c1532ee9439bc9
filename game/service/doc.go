// Package service provides the business logic layer for Connect Four.
//
// The service package implements:
//   - Multi-game management
//   - Move submission and validation
//   - Rematches on the same game
//   - Paginated move history
//   - State notifications for spectators
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles game creation, retrieval and lifecycle.
// StateNotifier receives the new state after each accepted move or reset.
//
// Architecture:
//
// The service layer sits between the front ends (console, terminal UI, MCP)
// and the game engine. Each game keeps its own engine instance. All engine
// access goes through the service, which serializes mutations and opens a
// tracing span per operation.
//
// Usage:
//
//	sessions := session.NewManager()
//	hub := websocket.NewHub()
//	gameService := service.NewGameService(sessions, hub)
//
//	game, err := gameService.CreateGame(ctx, "", "Ana", "Bo")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.SubmitMove(ctx, game.ID, 3)
//	if errors.Is(err, engine.ErrInvalidMove) {
//		// ask the player again
//	}
package service
