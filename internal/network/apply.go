package network

import (
	"fmt"

	"github.com/torolife/server/internal/domain/life"
	"github.com/torolife/server/internal/engine"
)

// ApplyAction validates an editor action at the transport boundary and
// routes it to the engine. Positions not on the grid are rejected here; the
// simulation core never receives them.
func ApplyAction(eng *engine.Engine, action EditorAction, source string) error {
	snap := eng.Snapshot()

	onGrid := func(row, col int) bool {
		return row >= 0 && row < snap.Height && col >= 0 && col < snap.Width
	}

	switch action.Type {
	case "TOGGLE":
		if !onGrid(action.Row, action.Col) {
			return fmt.Errorf("position (%d,%d) not on grid", action.Row, action.Col)
		}
		eng.Toggle(life.Position{Row: action.Row, Col: action.Col}, source)
	case "STAMP":
		if !onGrid(action.Row, action.Col) {
			return fmt.Errorf("position (%d,%d) not on grid", action.Row, action.Col)
		}
		pos := life.Position{Row: action.Row, Col: action.Col}
		if action.Shape != "" {
			return eng.StampShape(action.Shape, pos, source)
		}
		eng.StampPreset(pos, source)
	case "STEP":
		eng.StepOnce(source)
	case "CLEAR":
		eng.ClearBoard(source)
	case "RANDOMIZE":
		eng.RandomizeBoard(source)
	case "PLAY_PAUSE":
		eng.TogglePlayPause(source)
	case "CYCLE_PRESET":
		eng.CyclePreset(source)
	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
	return nil
}
