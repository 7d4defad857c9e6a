package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/torolife/server/internal/domain/life"
)

func TestDecodeKeyBindings(t *testing.T) {
	cases := []struct {
		name string
		ev   *tcell.EventKey
		want Command
	}{
		{"escape quits", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), CmdQuit},
		{"q quits", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), CmdQuit},
		{"space toggles play", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), CmdPlayPause},
		{"right arrow steps", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), CmdStep},
		{"tab cycles presets", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), CmdCyclePreset},
		{"s cycles presets", tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone), CmdCyclePreset},
		{"c clears", tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone), CmdClear},
		{"r randomizes", tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), CmdRandomize},
		{"unbound rune ignored", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), CmdNone},
		{"unbound key ignored", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), CmdNone},
	}

	for _, tc := range cases {
		if got := DecodeKey(tc.ev); got != tc.want {
			t.Errorf("%s: DecodeKey = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDecodeMouseToggleAndStamp(t *testing.T) {
	lay := NewLayout(160, 50, 64, 32)

	click := tcell.NewEventMouse(20, 7, tcell.Button1, tcell.ModNone)
	edit, ok := DecodeMouse(click, lay)
	if !ok {
		t.Fatal("on-grid left click should decode")
	}
	if edit.Stamp {
		t.Error("plain click must toggle, not stamp")
	}
	if edit.Pos != (life.Position{Row: 2, Col: 2}) {
		t.Errorf("click decoded to %v, want (2,2)", edit.Pos)
	}

	altClick := tcell.NewEventMouse(20, 7, tcell.Button1, tcell.ModAlt)
	edit, ok = DecodeMouse(altClick, lay)
	if !ok || !edit.Stamp {
		t.Error("alt-click should decode as a stamp")
	}
}

func TestDecodeMouseDropsOffGridAndNonLeft(t *testing.T) {
	lay := NewLayout(160, 50, 64, 32)

	offGrid := tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModNone)
	if _, ok := DecodeMouse(offGrid, lay); ok {
		t.Error("off-grid click must be dropped")
	}

	rightButton := tcell.NewEventMouse(20, 7, tcell.Button2, tcell.ModNone)
	if _, ok := DecodeMouse(rightButton, lay); ok {
		t.Error("non-left button must be dropped")
	}

	motion := tcell.NewEventMouse(20, 7, tcell.ButtonNone, tcell.ModNone)
	if _, ok := DecodeMouse(motion, lay); ok {
		t.Error("motion without a button must be dropped")
	}
}
