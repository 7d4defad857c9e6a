package network

import (
	"testing"

	"github.com/torolife/server/internal/domain/life"
	"github.com/torolife/server/internal/engine"
	"github.com/torolife/server/internal/events"
	"github.com/torolife/server/internal/platform/logger"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng := engine.NewEngine(events.NewJournal(nil), logger.NewDiscardLogger(), engine.DefaultTickInterval)
	if err := eng.Seed(16, 12, "", 0); err != nil {
		t.Fatalf("seeding engine failed: %v", err)
	}
	return eng
}

func TestApplyActionToggle(t *testing.T) {
	eng := newTestEngine(t)

	if err := ApplyAction(eng, EditorAction{Type: "TOGGLE", Row: 3, Col: 4}, "editor-1"); err != nil {
		t.Fatalf("TOGGLE failed: %v", err)
	}

	if pop := eng.Snapshot().Population; pop != 1 {
		t.Errorf("population %d after toggle, want 1", pop)
	}
}

func TestApplyActionRejectsOffGridPositions(t *testing.T) {
	eng := newTestEngine(t)

	cases := []EditorAction{
		{Type: "TOGGLE", Row: 12, Col: 0},
		{Type: "TOGGLE", Row: 0, Col: 16},
		{Type: "TOGGLE", Row: -1, Col: 0},
		{Type: "STAMP", Row: 0, Col: -1, Shape: "glider"},
	}
	for _, action := range cases {
		if err := ApplyAction(eng, action, "editor-1"); err == nil {
			t.Errorf("%s at (%d,%d) should be rejected", action.Type, action.Row, action.Col)
		}
	}
	if pop := eng.Snapshot().Population; pop != 0 {
		t.Errorf("rejected actions changed the board, population = %d", pop)
	}
}

func TestApplyActionStampExplicitShape(t *testing.T) {
	eng := newTestEngine(t)

	if err := ApplyAction(eng, EditorAction{Type: "STAMP", Row: 4, Col: 4, Shape: "glider"}, "editor-1"); err != nil {
		t.Fatalf("STAMP failed: %v", err)
	}
	if pop := eng.Snapshot().Population; pop != 5 {
		t.Errorf("population %d after stamping a glider, want 5", pop)
	}

	if err := ApplyAction(eng, EditorAction{Type: "STAMP", Row: 4, Col: 4, Shape: "gosper_gun"}, "editor-1"); err == nil {
		t.Error("unknown shape name should be rejected")
	}
}

func TestApplyActionStampDefaultsToCarousel(t *testing.T) {
	eng := newTestEngine(t)

	if err := ApplyAction(eng, EditorAction{Type: "STAMP", Row: 2, Col: 2}, "editor-1"); err != nil {
		t.Fatalf("STAMP failed: %v", err)
	}
	// Carousel starts on acorn, 7 cells.
	if pop := eng.Snapshot().Population; pop != 7 {
		t.Errorf("population %d, want 7 (acorn)", pop)
	}
}

func TestApplyActionControlCommands(t *testing.T) {
	eng := newTestEngine(t)

	if err := ApplyAction(eng, EditorAction{Type: "STEP"}, "editor-1"); err != nil {
		t.Fatalf("STEP failed: %v", err)
	}
	if eng.Generation() != 1 {
		t.Errorf("generation %d after STEP, want 1", eng.Generation())
	}

	if err := ApplyAction(eng, EditorAction{Type: "PLAY_PAUSE"}, "editor-1"); err != nil {
		t.Fatalf("PLAY_PAUSE failed: %v", err)
	}
	if eng.Paused() {
		t.Error("PLAY_PAUSE should resume a paused session")
	}

	if err := ApplyAction(eng, EditorAction{Type: "RANDOMIZE"}, "editor-1"); err != nil {
		t.Fatalf("RANDOMIZE failed: %v", err)
	}
	if err := ApplyAction(eng, EditorAction{Type: "CLEAR"}, "editor-1"); err != nil {
		t.Fatalf("CLEAR failed: %v", err)
	}
	if pop := eng.Snapshot().Population; pop != 0 {
		t.Errorf("population %d after CLEAR, want 0", pop)
	}

	if err := ApplyAction(eng, EditorAction{Type: "CYCLE_PRESET"}, "editor-1"); err != nil {
		t.Fatalf("CYCLE_PRESET failed: %v", err)
	}
	if got := eng.Snapshot().Preset; got != "glider" {
		t.Errorf("preset %q after one cycle, want glider", got)
	}
}

func TestApplyActionUnknownType(t *testing.T) {
	eng := newTestEngine(t)
	if err := ApplyAction(eng, EditorAction{Type: "EXPLODE"}, "editor-1"); err == nil {
		t.Error("unknown action type should be rejected")
	}
}

func TestFrameFromSnapshot(t *testing.T) {
	eng := newTestEngine(t)
	eng.Toggle(life.Position{Row: 1, Col: 2}, "editor-1")
	eng.StepOnce("editor-1")

	frame := FrameFromSnapshot(eng.Snapshot())

	if frame.Type != "BOARD_FRAME" {
		t.Errorf("frame type %q", frame.Type)
	}
	if frame.Width != 16 || frame.Height != 12 {
		t.Errorf("frame dimensions %dx%d, want 16x12", frame.Width, frame.Height)
	}
	if frame.Generation != 1 {
		t.Errorf("frame generation %d, want 1", frame.Generation)
	}
	if frame.Preset != "acorn" {
		t.Errorf("frame preset %q, want acorn", frame.Preset)
	}
	if len(frame.PresetView) == 0 {
		t.Error("frame must carry the preset preview offsets")
	}
	if frame.Population != len(frame.LiveCells) {
		t.Errorf("population %d does not match %d live cells", frame.Population, len(frame.LiveCells))
	}
}
