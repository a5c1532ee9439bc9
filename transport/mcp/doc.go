// Package mcp exposes Connect Four games as Model Context Protocol tools.
//
// The server runs in-process on top of service.GameService, so a tool-using
// client can create games and play both sides over stdio:
//   - create_game, list_games, delete_game
//   - game_state, valid_moves, move_history
//   - submit_move, reset_game
//   - game_instructions
//
// Tool errors (unknown game, full column, column out of range, game already
// over) come back as error results rather than protocol failures, so the
// client can read the message and retry.
//
// Usage:
//
//	srv := mcp.NewServer(gameService, settings, version)
//	if err := srv.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
package mcp
