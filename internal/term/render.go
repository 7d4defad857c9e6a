package term

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"

	"github.com/torolife/server/internal/domain/life"
	"github.com/torolife/server/internal/engine"
)

// cellGlyph is the square drawn for every board cell, alive or dead.
const cellGlyph = '■'

var (
	styleDefault   = tcell.StyleDefault
	styleBorder    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleAlive     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleDead      = tcell.StyleDefault.Foreground(tcell.ColorGray).Dim(true)
	styleSeparator = tcell.StyleDefault.Foreground(tcell.ColorGray).Dim(true)
	styleHUD       = tcell.StyleDefault.Foreground(tcell.ColorLightGreen)
)

// controlLines is the help panel, one line per binding.
var controlLines = []string{
	"ESC or 'q' : Quit",
	"Spacebar   : Play/Pause",
	"RIGHT →    : Next gen (if PAUSED)",
	"TAB or 's' : Cycle shape preset",
	"'c'        : Clear board",
	"'r'        : Randomize board",
	"Click      : Toggle cell at position",
	"Alt-Click  : Stamp shape at position",
}

// Renderer paints engine snapshots onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
}

// NewRenderer wraps an initialized screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Draw renders one frame and returns the layout used, so the input decoder
// shares the same arithmetic.
func (r *Renderer) Draw(snap engine.Snapshot) Layout {
	termWidth, termHeight := r.screen.Size()
	lay := NewLayout(termWidth, termHeight, snap.Width, snap.Height)

	r.screen.Clear()
	r.drawBorder(termWidth, termHeight)
	r.drawText((termWidth-12)/2, 1, styleBorder.Bold(true), "Game of Life")
	r.drawHUD(lay, snap)
	r.drawBoard(lay, snap)
	r.drawControls(lay)
	r.drawPresetPreview(lay, snap)
	r.screen.Show()
	return lay
}

func (r *Renderer) drawBoard(lay Layout, snap engine.Snapshot) {
	for row := 0; row < snap.Height; row++ {
		for col := 0; col < snap.Width; col++ {
			style := styleDead
			if snap.Cells[row][col] == life.Alive {
				style = styleAlive
			}
			x := lay.BoardLeft + col*2
			y := lay.BoardTop + row
			r.screen.SetContent(x, y, cellGlyph, nil, style)
			r.screen.SetContent(x+1, y, tcell.RuneVLine, nil, styleSeparator)
		}
	}
}

func (r *Renderer) drawHUD(lay Layout, snap engine.Snapshot) {
	state := "RUNNING"
	if snap.Paused {
		state = "PAUSED"
	}
	hud := fmt.Sprintf("Gen %s | Pop %s | %s | Preset: %s",
		humanize.Comma(snap.Generation),
		humanize.Comma(int64(snap.Population)),
		state,
		snap.Preset,
	)
	r.drawText((lay.TermWidth-len(hud))/2, 3, styleHUD, hud)
}

func (r *Renderer) drawControls(lay Layout) {
	top := lay.ControlsTop()
	r.drawText(4, top, styleBorder, "Controls")
	for i, line := range controlLines {
		r.drawText(4, top+1+i, styleDefault, line)
	}
}

// drawPresetPreview renders the current preset's offsets in a small box to
// the right of the controls panel.
func (r *Renderer) drawPresetPreview(lay Layout, snap engine.Snapshot) {
	top := lay.ControlsTop()
	left := 4 + 42
	r.drawText(left, top, styleBorder, "Preset: "+snap.Preset)
	for _, pos := range snap.PresetView {
		r.screen.SetContent(left+pos.Col*2, top+1+pos.Row, cellGlyph, nil, styleAlive)
	}
}

func (r *Renderer) drawBorder(width, height int) {
	for x := 0; x < width; x++ {
		r.screen.SetContent(x, 0, tcell.RuneHLine, nil, styleBorder)
		r.screen.SetContent(x, height-1, tcell.RuneHLine, nil, styleBorder)
	}
	for y := 0; y < height; y++ {
		r.screen.SetContent(0, y, tcell.RuneVLine, nil, styleBorder)
		r.screen.SetContent(width-1, y, tcell.RuneVLine, nil, styleBorder)
	}
	r.screen.SetContent(0, 0, tcell.RuneULCorner, nil, styleBorder)
	r.screen.SetContent(width-1, 0, tcell.RuneURCorner, nil, styleBorder)
	r.screen.SetContent(0, height-1, tcell.RuneLLCorner, nil, styleBorder)
	r.screen.SetContent(width-1, height-1, tcell.RuneLRCorner, nil, styleBorder)
}

func (r *Renderer) drawText(x, y int, style tcell.Style, text string) {
	col := x
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col++
	}
}
