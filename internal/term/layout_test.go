package term

import (
	"testing"

	"github.com/torolife/server/internal/domain/life"
)

func TestNewLayoutCentersBoard(t *testing.T) {
	// 64 board columns render 128 terminal columns wide on a 160-column
	// terminal, leaving 16 columns on each side.
	l := NewLayout(160, 50, 64, 32)

	if l.BoardLeft != 16 {
		t.Errorf("BoardLeft = %d, want 16", l.BoardLeft)
	}
	if l.BoardTop != 5 {
		t.Errorf("BoardTop = %d, want 5", l.BoardTop)
	}
}

func TestLocateMapsClicksToCells(t *testing.T) {
	l := NewLayout(160, 50, 64, 32)

	cases := []struct {
		termCol, termRow int
		want             life.Position
	}{
		{termCol: 16, termRow: 5, want: life.Position{Row: 0, Col: 0}},
		// Both terminal columns of a double-width cell hit the same cell.
		{termCol: 17, termRow: 5, want: life.Position{Row: 0, Col: 0}},
		{termCol: 18, termRow: 5, want: life.Position{Row: 0, Col: 1}},
		{termCol: 16, termRow: 6, want: life.Position{Row: 1, Col: 0}},
		// Last cell of the last row.
		{termCol: 16 + 63*2, termRow: 5 + 31, want: life.Position{Row: 31, Col: 63}},
	}
	for _, tc := range cases {
		got, ok := l.Locate(tc.termCol, tc.termRow)
		if !ok {
			t.Errorf("Locate(%d,%d) reported off-grid", tc.termCol, tc.termRow)
			continue
		}
		if got != tc.want {
			t.Errorf("Locate(%d,%d) = %v, want %v", tc.termCol, tc.termRow, got, tc.want)
		}
	}
}

func TestLocateRejectsClicksOutsideBoard(t *testing.T) {
	l := NewLayout(160, 50, 64, 32)

	// Left margin, right of the last cell, title area above the board,
	// below the last row, and the top-left corner of the screen.
	outside := [][2]int{
		{15, 5},
		{16 + 64*2, 5},
		{16, 4},
		{16, 5 + 32},
		{0, 0},
	}
	for _, pos := range outside {
		if cell, ok := l.Locate(pos[0], pos[1]); ok {
			t.Errorf("Locate(%d,%d) = %v, want off-grid", pos[0], pos[1], cell)
		}
	}
}

func TestControlsTopSitsBelowBoard(t *testing.T) {
	l := NewLayout(160, 50, 64, 32)
	if got := l.ControlsTop(); got != 5+32+2 {
		t.Errorf("ControlsTop() = %d, want %d", got, 5+32+2)
	}
}
