package life

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrDegenerateDimensions is returned when a board would have a zero
	// width or height. Such a board cannot wrap neighbors by modulo.
	ErrDegenerateDimensions = errors.New("life: board dimensions must be positive")

	// ErrSeedOutOfBounds is returned when an initial live position lies
	// outside the board. Seeds are pre-validated sets, not shapes, so they
	// are rejected rather than silently wrapped.
	ErrSeedOutOfBounds = errors.New("life: seed position outside board")
)

// Board holds one generation of cells on a torus: the last row is adjacent to
// the first, same for columns. The matrix dimensions are fixed at
// construction; every mutation preserves them.
type Board struct {
	width  int
	height int
	cells  [][]CellState
}

// NewBoard creates a board of the given dimensions with every cell Dead,
// then marks each seed position Alive.
func NewBoard(width, height int, seed []Position) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDegenerateDimensions, width, height)
	}
	cells := make([][]CellState, height)
	for row := range cells {
		cells[row] = make([]CellState, width)
	}
	b := &Board{width: width, height: height, cells: cells}
	for _, pos := range seed {
		if pos.Row < 0 || pos.Row >= height || pos.Col < 0 || pos.Col >= width {
			return nil, fmt.Errorf("%w: (%d,%d) on %dx%d", ErrSeedOutOfBounds, pos.Row, pos.Col, width, height)
		}
		b.cells[pos.Row][pos.Col] = Alive
	}
	return b, nil
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// Cell returns the state at pos. The caller guarantees pos is on the board.
func (b *Board) Cell(pos Position) CellState {
	return b.cells[pos.Row][pos.Col]
}

// CountLivingNeighbors counts the Alive cells among the 8 toroidal neighbors
// of pos, excluding pos itself. Each offset is taken modulo the board
// dimensions, so on a width or height of 2 the same physical cell can be
// reached through more than one offset and is counted once per offset.
func (b *Board) CountLivingNeighbors(pos Position) int {
	count := 0
	for _, dr := range [3]int{b.height - 1, 0, 1} {
		neighborRow := (pos.Row + dr) % b.height
		for _, dc := range [3]int{b.width - 1, 0, 1} {
			neighborCol := (pos.Col + dc) % b.width
			if neighborRow == pos.Row && neighborCol == pos.Col {
				continue
			}
			if b.cells[neighborRow][neighborCol] == Alive {
				count++
			}
		}
	}
	return count
}

// Advance computes the next generation synchronously: every cell's fate is
// decided from the unmodified current matrix, then the whole matrix is
// replaced at once.
func (b *Board) Advance() {
	next := make([][]CellState, b.height)
	for row := range next {
		next[row] = make([]CellState, b.width)
		copy(next[row], b.cells[row])
	}
	for row := 0; row < b.height; row++ {
		for col := 0; col < b.width; col++ {
			neighbors := b.CountLivingNeighbors(Position{Row: row, Col: col})
			switch {
			case b.cells[row][col] == Dead && neighbors == 3:
				next[row][col] = Alive
			case b.cells[row][col] == Alive && neighbors > 3:
				next[row][col] = Dead
			case b.cells[row][col] == Alive && neighbors < 2:
				next[row][col] = Dead
			}
		}
	}
	b.cells = next
}

// Flip toggles the single cell at pos. No neighbor side effects.
func (b *Board) Flip(pos Position) {
	b.cells[pos.Row][pos.Col] = b.cells[pos.Row][pos.Col].Flipped()
}

// Stamp materializes the shape translated to pos and marks every resulting
// cell Alive. Cells the shape does not cover keep their prior state.
func (b *Board) Stamp(sh Shape, pos Position) {
	for _, p := range sh.Translated(pos).Materialize(b.width, b.height) {
		b.cells[p.Row][p.Col] = Alive
	}
}

// Clear sets every cell to Dead.
func (b *Board) Clear() {
	for row := range b.cells {
		for col := range b.cells[row] {
			b.cells[row][col] = Dead
		}
	}
}

// Randomize sets every cell independently to Alive or Dead with equal
// probability.
func (b *Board) Randomize() {
	for row := range b.cells {
		for col := range b.cells[row] {
			if rand.Intn(2) == 0 {
				b.cells[row][col] = Dead
			} else {
				b.cells[row][col] = Alive
			}
		}
	}
}

// SetAlive marks the given on-board positions Alive. Used when rebuilding a
// board from a journaled live set.
func (b *Board) SetAlive(cells []Position) {
	for _, pos := range cells {
		b.cells[pos.Row][pos.Col] = Alive
	}
}

// Snapshot returns a deep copy of the cell matrix for renderers. The copy is
// never mutated by later board operations.
func (b *Board) Snapshot() [][]CellState {
	out := make([][]CellState, b.height)
	for row := range b.cells {
		out[row] = make([]CellState, b.width)
		copy(out[row], b.cells[row])
	}
	return out
}

// LiveCells returns the positions of all Alive cells in row-major order.
func (b *Board) LiveCells() []Position {
	var live []Position
	for row := 0; row < b.height; row++ {
		for col := 0; col < b.width; col++ {
			if b.cells[row][col] == Alive {
				live = append(live, Position{Row: row, Col: col})
			}
		}
	}
	return live
}

// Population returns the number of Alive cells.
func (b *Board) Population() int {
	count := 0
	for row := range b.cells {
		for col := range b.cells[row] {
			if b.cells[row][col] == Alive {
				count++
			}
		}
	}
	return count
}

// Contains reports whether pos is a valid board coordinate.
func (b *Board) Contains(pos Position) bool {
	return pos.Row >= 0 && pos.Row < b.height && pos.Col >= 0 && pos.Col < b.width
}
