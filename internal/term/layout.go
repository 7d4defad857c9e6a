// Package term is the interactive terminal front end: rendering, screen
// layout arithmetic, and keyboard/mouse decoding over tcell. It is a thin
// adapter; all simulation state lives in the engine.
package term

import "github.com/torolife/server/internal/domain/life"

// boardTop fixes the number of terminal rows above the board (title plus
// padding), matching the original screen layout.
const boardTop = 5

// Layout holds the screen arithmetic for one frame. Board cells are drawn
// two terminal columns wide (glyph plus separator), centered horizontally.
type Layout struct {
	TermWidth  int
	TermHeight int
	BoardLeft  int
	BoardTop   int
	Width      int // board columns
	Height     int // board rows
}

// NewLayout computes the frame layout for a board of the given dimensions on
// a terminal of the given size.
func NewLayout(termWidth, termHeight, boardWidth, boardHeight int) Layout {
	return Layout{
		TermWidth:  termWidth,
		TermHeight: termHeight,
		BoardLeft:  (termWidth - boardWidth*2) / 2,
		BoardTop:   boardTop,
		Width:      boardWidth,
		Height:     boardHeight,
	}
}

// Locate translates a terminal click into a board position. This is the
// boundary where out-of-bounds input is rejected: the second return is false
// when the click is not on the grid, and the simulation core never receives
// such a position.
func (l Layout) Locate(termCol, termRow int) (life.Position, bool) {
	left := l.BoardLeft
	right := left + l.Width*2
	top := l.BoardTop
	bottom := top + l.Height

	if termRow < top || termRow >= bottom || termCol < left || termCol >= right {
		return life.Position{}, false
	}
	return life.Position{
		Row: termRow - top,
		Col: (termCol - left) / 2,
	}, true
}

// ControlsTop returns the row where the controls panel starts.
func (l Layout) ControlsTop() int {
	return l.BoardTop + l.Height + 2
}
