package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/torolife/server/internal/domain/life"
)

// Command is a decoded keyboard action.
type Command int

const (
	CmdNone Command = iota
	CmdQuit
	CmdPlayPause
	CmdStep
	CmdCyclePreset
	CmdClear
	CmdRandomize
)

// MouseEdit is a decoded board click: toggle a cell, or stamp the current
// preset when the Alt modifier is held.
type MouseEdit struct {
	Pos   life.Position
	Stamp bool
}

// DecodeKey maps a key event onto a command.
func DecodeKey(ev *tcell.EventKey) Command {
	switch ev.Key() {
	case tcell.KeyEscape:
		return CmdQuit
	case tcell.KeyRight:
		return CmdStep
	case tcell.KeyTab:
		return CmdCyclePreset
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return CmdQuit
		case ' ':
			return CmdPlayPause
		case 's':
			return CmdCyclePreset
		case 'c':
			return CmdClear
		case 'r':
			return CmdRandomize
		}
	}
	return CmdNone
}

// DecodeMouse maps a left-button press onto a board edit. The layout's
// Locate call is the bounds check: clicks off the grid return false and are
// dropped without reaching the engine.
func DecodeMouse(ev *tcell.EventMouse, lay Layout) (MouseEdit, bool) {
	if ev.Buttons()&tcell.Button1 == 0 {
		return MouseEdit{}, false
	}
	col, row := ev.Position()
	pos, onGrid := lay.Locate(col, row)
	if !onGrid {
		return MouseEdit{}, false
	}
	return MouseEdit{
		Pos:   pos,
		Stamp: ev.Modifiers()&tcell.ModAlt != 0,
	}, true
}
