// Package life defines the simulation core: the toroidal cell board and the
// named shapes that seed it. This package is PURE and must NOT import any
// infrastructure packages.
package life

// CellState is the two-valued state of a single board cell.
type CellState uint8

const (
	// Dead is the zero value so a freshly allocated board starts empty.
	Dead CellState = iota
	Alive
)

// Flipped returns the opposite state.
func (c CellState) Flipped() CellState {
	if c == Alive {
		return Dead
	}
	return Alive
}

// String implements fmt.Stringer for logs and test failures.
func (c CellState) String() string {
	if c == Alive {
		return "Alive"
	}
	return "Dead"
}

// Position addresses a board cell as (row, column). It carries no wrapping of
// its own; wraparound is applied at the point of use.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
