package network

import (
	"github.com/torolife/server/internal/domain/life"
	"github.com/torolife/server/internal/engine"
)

// BoardFrame is the wire form of one displayed frame: the full board state
// plus the preview of the preset currently under the carousel cursor.
type BoardFrame struct {
	Type       string          `json:"type"` // always "BOARD_FRAME"
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Generation int64           `json:"generation"`
	Paused     bool            `json:"paused"`
	Population int             `json:"population"`
	LiveCells  []life.Position `json:"live_cells"`
	Preset     string          `json:"preset"`
	PresetView []life.Position `json:"preset_view"`
}

// FrameFromSnapshot converts an engine snapshot into its wire form.
func FrameFromSnapshot(snap engine.Snapshot) BoardFrame {
	return BoardFrame{
		Type:       "BOARD_FRAME",
		Width:      snap.Width,
		Height:     snap.Height,
		Generation: snap.Generation,
		Paused:     snap.Paused,
		Population: snap.Population,
		LiveCells:  snap.LiveCells,
		Preset:     snap.Preset,
		PresetView: snap.PresetView,
	}
}

// EditorAction is an incoming edit command from a connected editor. Types
// map 1:1 onto the engine operations.
type EditorAction struct {
	Type  string `json:"type"` // TOGGLE, STAMP, STEP, CLEAR, RANDOMIZE, PLAY_PAUSE, CYCLE_PRESET
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Shape string `json:"shape,omitempty"` // optional explicit preset for STAMP
}
