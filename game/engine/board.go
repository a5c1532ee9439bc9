package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Board is the 7x6 grid. Occupancy is kept as one coordinate set per side
// plus the number of chips already dropped in each column.
type Board struct {
	moves   [2]map[Coordinate]struct{}
	heights [Columns]int
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{
		moves: [2]map[Coordinate]struct{}{
			make(map[Coordinate]struct{}),
			make(map[Coordinate]struct{}),
		},
	}
}

// ColumnHeight returns how many chips column col holds (0..6).
// Columns outside the board report 0.
func (b *Board) ColumnHeight(col int) int {
	if col < 0 || col >= Columns {
		return 0
	}
	return b.heights[col]
}

// IsColumnOpen reports whether a chip can still be dropped in col
func (b *Board) IsColumnOpen(col int) bool {
	if col < 0 || col >= Columns {
		return false
	}
	return b.heights[col] < Rows
}

// DropChip lets a chip for side fall into col and returns where it landed
func (b *Board) DropChip(col int, side Side) (Coordinate, error) {
	if !side.Valid() {
		return Coordinate{}, fmt.Errorf("%w: %d", ErrInvalidSide, side)
	}
	if col < 0 || col >= Columns {
		return Coordinate{}, fmt.Errorf("%w: %d", ErrColumnOutOfRange, col)
	}
	if !b.IsColumnOpen(col) {
		return Coordinate{}, fmt.Errorf("%w: %d", ErrColumnFull, col)
	}

	landing := Coordinate{Row: Rows - 1 - b.heights[col], Col: col}
	b.moves[side-1][landing] = struct{}{}
	b.heights[col]++

	return landing, nil
}

// Occupied reports whether side owns the cell at c
func (b *Board) Occupied(side Side, c Coordinate) bool {
	if !side.Valid() {
		return false
	}
	_, ok := b.moves[side-1][c]
	return ok
}

// Owner returns the side occupying c, or NoSide when the cell is empty
func (b *Board) Owner(c Coordinate) Side {
	switch {
	case b.Occupied(First, c):
		return First
	case b.Occupied(Second, c):
		return Second
	}
	return NoSide
}

// Moves returns the coordinates owned by side ordered top to bottom, left to right
func (b *Board) Moves(side Side) []Coordinate {
	if !side.Valid() {
		return nil
	}
	coords := make([]Coordinate, 0, len(b.moves[side-1]))
	for c := range b.moves[side-1] {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
	return coords
}

// Count returns the number of chips side has on the board
func (b *Board) Count(side Side) int {
	if !side.Valid() {
		return 0
	}
	return len(b.moves[side-1])
}

// OpenColumns returns every column that still accepts a chip, ascending
func (b *Board) OpenColumns() []int {
	open := make([]int, 0, Columns)
	for col := 0; col < Columns; col++ {
		if b.IsColumnOpen(col) {
			open = append(open, col)
		}
	}
	return open
}

// IsFull reports whether all 42 cells are occupied
func (b *Board) IsFull() bool {
	for col := 0; col < Columns; col++ {
		if b.heights[col] < Rows {
			return false
		}
	}
	return true
}

// Heights returns a copy of the per-column chip counts
func (b *Board) Heights() [Columns]int {
	return b.heights
}

// Grid returns the board as rows of owners, row 0 first
func (b *Board) Grid() [][]Side {
	grid := make([][]Side, Rows)
	for r := range grid {
		grid[r] = make([]Side, Columns)
		for c := range grid[r] {
			grid[r][c] = b.Owner(Coordinate{Row: r, Col: c})
		}
	}
	return grid
}

// Clone creates a deep copy of the board
func (b *Board) Clone() *Board {
	clone := NewBoard()
	for i := range b.moves {
		for c := range b.moves[i] {
			clone.moves[i][c] = struct{}{}
		}
	}
	clone.heights = b.heights
	return clone
}

// Render returns the board using DefaultMarkers
func (b *Board) Render() string {
	return RenderGrid(b.Grid(), DefaultMarkers)
}

// RenderWith returns the board drawn with the given markers
func (b *Board) RenderWith(markers Markers) string {
	return RenderGrid(b.Grid(), markers)
}

// RenderGrid draws one line per row, top to bottom, as "[ X Y O ... ]"
func RenderGrid(grid [][]Side, markers Markers) string {
	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString("[ ")
		for _, side := range row {
			sb.WriteString(markers.For(side))
			sb.WriteByte(' ')
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}
