package engine

import (
	"errors"
	"strings"
	"testing"
)

func TestNewBoard(t *testing.T) {
	board := NewBoard()

	for col := 0; col < Columns; col++ {
		if h := board.ColumnHeight(col); h != 0 {
			t.Errorf("Expected empty column %d, got height %d", col, h)
		}
		if !board.IsColumnOpen(col) {
			t.Errorf("Expected column %d to be open", col)
		}
	}

	if board.IsFull() {
		t.Error("Expected new board not to be full")
	}
	if board.Count(First) != 0 || board.Count(Second) != 0 {
		t.Error("Expected no chips on a new board")
	}
}

func TestBoard_IsColumnOpenMatchesHeight(t *testing.T) {
	board := NewBoard()
	side := First

	for col := 0; col < Columns; col++ {
		// Fill each column to a different height, last one to the top
		fill := col
		if col == Columns-1 {
			fill = Rows
		}
		for i := 0; i < fill && i < Rows; i++ {
			if _, err := board.DropChip(col, side); err != nil {
				t.Fatalf("DropChip(%d) failed: %v", col, err)
			}
			side = side.Other()
		}
	}

	for col := 0; col < Columns; col++ {
		want := board.ColumnHeight(col) < Rows
		if got := board.IsColumnOpen(col); got != want {
			t.Errorf("column %d: IsColumnOpen=%v, height=%d", col, got, board.ColumnHeight(col))
		}
	}

	if board.IsColumnOpen(Columns - 1) {
		t.Error("Expected full column to be closed")
	}
}

func TestBoard_OutOfRangeColumns(t *testing.T) {
	board := NewBoard()

	for _, col := range []int{-1, Columns, 100} {
		if board.IsColumnOpen(col) {
			t.Errorf("Expected column %d to be closed", col)
		}
		if board.ColumnHeight(col) != 0 {
			t.Errorf("Expected height 0 for column %d", col)
		}
		_, err := board.DropChip(col, First)
		if !errors.Is(err, ErrColumnOutOfRange) {
			t.Errorf("Expected ErrColumnOutOfRange for column %d, got %v", col, err)
		}
		if !errors.Is(err, ErrInvalidMove) {
			t.Errorf("Expected error to wrap ErrInvalidMove, got %v", err)
		}
	}
}

func TestBoard_DropChipGravity(t *testing.T) {
	board := NewBoard()

	for k := 1; k <= Rows; k++ {
		landing, err := board.DropChip(2, First)
		if err != nil {
			t.Fatalf("drop %d failed: %v", k, err)
		}
		wantRow := Rows - 1 - (k - 1)
		if landing.Row != wantRow || landing.Col != 2 {
			t.Errorf("drop %d: expected (%d,2), got %s", k, wantRow, landing)
		}
		if board.ColumnHeight(2) != k {
			t.Errorf("drop %d: expected height %d, got %d", k, k, board.ColumnHeight(2))
		}
	}

	_, err := board.DropChip(2, Second)
	if !errors.Is(err, ErrColumnFull) {
		t.Errorf("Expected ErrColumnFull, got %v", err)
	}
	if board.ColumnHeight(2) != Rows {
		t.Errorf("Expected height to stay %d, got %d", Rows, board.ColumnHeight(2))
	}
}

func TestBoard_DropChipInvalidSide(t *testing.T) {
	board := NewBoard()

	_, err := board.DropChip(0, NoSide)
	if !errors.Is(err, ErrInvalidSide) {
		t.Errorf("Expected ErrInvalidSide, got %v", err)
	}
	if board.ColumnHeight(0) != 0 {
		t.Error("Expected column to be untouched")
	}
}

func TestBoard_OwnershipIsDisjoint(t *testing.T) {
	board := NewBoard()
	board.DropChip(0, First)
	board.DropChip(0, Second)
	board.DropChip(1, Second)

	tests := []struct {
		coord Coordinate
		owner Side
	}{
		{Coordinate{Row: 5, Col: 0}, First},
		{Coordinate{Row: 4, Col: 0}, Second},
		{Coordinate{Row: 5, Col: 1}, Second},
		{Coordinate{Row: 3, Col: 0}, NoSide},
		{Coordinate{Row: -1, Col: 0}, NoSide},
	}

	for _, tt := range tests {
		if got := board.Owner(tt.coord); got != tt.owner {
			t.Errorf("Owner(%s) = %v, want %v", tt.coord, got, tt.owner)
		}
		if board.Occupied(First, tt.coord) && board.Occupied(Second, tt.coord) {
			t.Errorf("%s owned by both sides", tt.coord)
		}
	}

	moves := board.Moves(Second)
	if len(moves) != 2 {
		t.Fatalf("Expected 2 moves for second side, got %d", len(moves))
	}
	// Sorted top to bottom, then left to right
	if moves[0] != (Coordinate{Row: 4, Col: 0}) || moves[1] != (Coordinate{Row: 5, Col: 1}) {
		t.Errorf("Unexpected move order: %v", moves)
	}
}

func TestBoard_OpenColumnsAndFull(t *testing.T) {
	board := NewBoard()
	side := First

	for col := 0; col < Columns; col++ {
		for i := 0; i < Rows; i++ {
			board.DropChip(col, side)
			side = side.Other()
		}
	}

	if !board.IsFull() {
		t.Error("Expected board to be full")
	}
	if open := board.OpenColumns(); len(open) != 0 {
		t.Errorf("Expected no open columns, got %v", open)
	}
	if board.Count(First)+board.Count(Second) != Cells {
		t.Errorf("Expected %d chips, got %d", Cells, board.Count(First)+board.Count(Second))
	}
}

func TestBoard_Render(t *testing.T) {
	board := NewBoard()
	board.DropChip(0, First)
	board.DropChip(0, Second)
	board.DropChip(6, First)

	rendered := board.Render()
	lines := strings.Split(strings.TrimSuffix(rendered, "\n"), "\n")

	if len(lines) != Rows {
		t.Fatalf("Expected %d lines, got %d", Rows, len(lines))
	}

	expected := []string{
		"[ O O O O O O O ]",
		"[ O O O O O O O ]",
		"[ O O O O O O O ]",
		"[ O O O O O O O ]",
		"[ Y O O O O O O ]",
		"[ X O O O O O X ]",
	}
	for i, want := range expected {
		if lines[i] != want {
			t.Errorf("line %d: expected %q, got %q", i, want, lines[i])
		}
	}
}

func TestBoard_RenderWith(t *testing.T) {
	board := NewBoard()
	board.DropChip(3, Second)

	rendered := board.RenderWith(Markers{First: "R", Second: "G", Empty: "."})
	if !strings.HasSuffix(rendered, "[ . . . G . . . ]\n") {
		t.Errorf("Unexpected rendering:\n%s", rendered)
	}
}

func TestBoard_Clone(t *testing.T) {
	board := NewBoard()
	board.DropChip(0, First)

	clone := board.Clone()
	clone.DropChip(0, Second)

	if board.ColumnHeight(0) != 1 {
		t.Errorf("Expected original height 1, got %d", board.ColumnHeight(0))
	}
	if board.Count(Second) != 0 {
		t.Error("Expected clone changes not to leak into original")
	}
	if clone.ColumnHeight(0) != 2 {
		t.Errorf("Expected clone height 2, got %d", clone.ColumnHeight(0))
	}
}
