package engine

// Probe walks from start in direction d and counts consecutive cells owned
// by side, start included. The walk stops after ToWin cells.
func (b *Board) Probe(side Side, start Coordinate, d Direction) int {
	count := 0
	for c := start; count < ToWin && c.InBounds() && b.Occupied(side, c); c = c.Step(d) {
		count++
	}
	return count
}

// RunLength returns the length of the run through c along axis, counting at
// most ToWin cells each way. It is 0 when side does not own c.
func (b *Board) RunLength(side Side, c Coordinate, axis Axis) int {
	if !b.Occupied(side, c) {
		return 0
	}
	forward, backward := axis.Directions()
	return b.Probe(side, c, forward) + b.Probe(side, c, backward) - 1
}

// HasWon reports whether side owns ToWin consecutive cells on any axis
func (b *Board) HasWon(side Side) bool {
	return b.WinningLine(side) != nil
}

// WinningLine returns the first line of ToWin cells owned by side, or nil.
// Every occupied cell is probed in all eight directions.
func (b *Board) WinningLine(side Side) []Coordinate {
	for _, start := range b.Moves(side) {
		for _, d := range Directions {
			if b.Probe(side, start, d) < ToWin {
				continue
			}
			line := make([]Coordinate, ToWin)
			c := start
			for i := range line {
				line[i] = c
				c = c.Step(d)
			}
			return line
		}
	}
	return nil
}
