// Package engine provides the core game logic for Connect Four.
//
// The engine package implements the game mechanics including:
//   - A 7x6 board with per-column gravity
//   - Move validation and atomic move application
//   - Win detection along the four axes
//   - Tie detection when the board fills without a winner
//
// Core Types:
//
// Board tracks which side owns every occupied coordinate and how many chips
// each column holds. GameEngine owns a Board, the two players and the turn
// state, and implements the Engine interface. GameState is a JSON-friendly
// snapshot of a game used by drivers and spectators.
//
// Usage:
//
//	game, err := engine.NewGame("Ana", "Bo")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := game.SubmitMove(3)
//	if errors.Is(err, engine.ErrInvalidMove) {
//		// ask the same player again
//	}
//	if result.Won {
//		fmt.Printf("%s wins\n", result.Player)
//	}
//	fmt.Print(game.Render())
//
// Coordinates:
//
// Rows are numbered from 0 at the top to 5 at the bottom, matching the order
// in which the board is printed. Callers only ever supply a column; the row a
// chip lands on is derived from the column's current height.
package engine
