package engine

// Direction is a unit step on the board
type Direction struct {
	DRow int
	DCol int
}

var (
	North     = Direction{DRow: -1, DCol: 0}
	NorthEast = Direction{DRow: -1, DCol: 1}
	East      = Direction{DRow: 0, DCol: 1}
	SouthEast = Direction{DRow: 1, DCol: 1}
	South     = Direction{DRow: 1, DCol: 0}
	SouthWest = Direction{DRow: 1, DCol: -1}
	West      = Direction{DRow: 0, DCol: -1}
	NorthWest = Direction{DRow: -1, DCol: -1}
)

// Directions lists the eight probe directions, two per axis
var Directions = [8]Direction{
	North, NorthEast, East, SouthEast,
	South, SouthWest, West, NorthWest,
}

// Opposite returns the direction pointing the other way
func (d Direction) Opposite() Direction {
	return Direction{DRow: -d.DRow, DCol: -d.DCol}
}

// Axis is one of the four lines a run can lie on
type Axis int

const (
	Horizontal   Axis = iota
	Vertical          // |
	DiagonalUp        // /
	DiagonalDown      // \
)

// Axes lists every axis in a fixed order
var Axes = [4]Axis{Horizontal, Vertical, DiagonalUp, DiagonalDown}

// Directions returns the two opposite probe directions of the axis
func (a Axis) Directions() (Direction, Direction) {
	switch a {
	case Horizontal:
		return East, West
	case Vertical:
		return North, South
	case DiagonalUp:
		return NorthEast, SouthWest
	default:
		return SouthEast, NorthWest
	}
}

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case DiagonalUp:
		return "diagonal /"
	case DiagonalDown:
		return "diagonal \\"
	}
	return "unknown"
}
