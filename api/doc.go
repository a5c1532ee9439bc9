// Package api provides the read-only HTTP surface for watching Connect Four games.
//
// Endpoints:
//   - GET /api/health - Liveness check
//   - GET /api/games - List games, optional ?status=in_progress|won|tied
//   - GET /api/games/{id} - Game summary with its current state
//   - GET /api/games/{id}/state - Current game state
//   - GET /api/games/{id}/history - Move history (?page=&limit=&order=asc|desc)
//   - GET /ws?game={id} - WebSocket feed of state updates
//
// Spectators cannot change a game: moves are only accepted from the console,
// terminal UI and MCP drivers.
//
// Errors are returned as JSON with an appropriate HTTP status code:
//
//	{"error": "game not found: abc: session not found"}
package api
