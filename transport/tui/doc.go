// Package tui provides a full-screen terminal front end built on tcell.
//
// A cursor above the board picks the column (arrow keys or digits in the
// configured column base); Enter or Space drops a chip. After a win or tie,
// r starts a rematch with the same players. q, Esc or Ctrl-C quits.
package tui
