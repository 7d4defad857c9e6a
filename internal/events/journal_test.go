package events

import (
	"sync"
	"testing"
	"time"

	"github.com/torolife/server/internal/domain/life"
)

// recordingPersister captures write-through appends for inspection.
type recordingPersister struct {
	mu     sync.Mutex
	stored []SimEvent
}

func (p *recordingPersister) Append(event SimEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stored = append(p.stored, event)
	return nil
}

func (p *recordingPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stored)
}

func makeEvent(t EventType) SimEvent {
	return SimEvent{
		ID:        GenerateEventID(),
		Timestamp: time.Now(),
		Type:      t,
		Source:    "SYSTEM",
	}
}

func TestJournalAppendAndLen(t *testing.T) {
	j := NewJournal(nil)
	if j.Len() != 0 {
		t.Fatalf("fresh journal has %d events", j.Len())
	}

	j.Append(makeEvent(EventTypeBoardSeeded))
	j.Append(makeEvent(EventTypeTimeTick))

	if j.Len() != 2 {
		t.Errorf("Len() = %d, want 2", j.Len())
	}
}

func TestJournalReplayPreservesOrder(t *testing.T) {
	j := NewJournal(nil)
	order := []EventType{
		EventTypeBoardSeeded,
		EventTypeCellFlipped,
		EventTypeTimeTick,
		EventTypeGenerationAdvanced,
		EventTypeSimPaused,
	}
	for _, et := range order {
		j.Append(makeEvent(et))
	}

	history := j.Replay()
	if len(history) != len(order) {
		t.Fatalf("replay returned %d events, want %d", len(history), len(order))
	}
	for i, ev := range history {
		if ev.Type != order[i] {
			t.Errorf("event %d: type %s, want %s", i, ev.Type, order[i])
		}
	}
}

func TestJournalGetByType(t *testing.T) {
	j := NewJournal(nil)
	j.Append(makeEvent(EventTypeTimeTick))
	j.Append(makeEvent(EventTypeCellFlipped))
	j.Append(makeEvent(EventTypeTimeTick))

	ticks := j.GetByType(EventTypeTimeTick)
	if len(ticks) != 2 {
		t.Errorf("GetByType(TIME_TICK) returned %d events, want 2", len(ticks))
	}
	if got := j.GetByType(EventTypeBoardCleared); len(got) != 0 {
		t.Errorf("GetByType(BOARD_CLEARED) returned %d events, want 0", len(got))
	}
}

func TestJournalWritesThroughToPersister(t *testing.T) {
	persister := &recordingPersister{}
	j := NewJournal(persister)

	ev := makeEvent(EventTypeCellFlipped)
	ev.Payload = CellFlippedPayload{Pos: life.Position{Row: 3, Col: 4}}
	j.Append(ev)

	// The write-through is asynchronous; poll until it lands.
	deadline := time.Now().Add(2 * time.Second)
	for persister.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("persister never received the appended event")
		}
		time.Sleep(5 * time.Millisecond)
	}

	persister.mu.Lock()
	defer persister.mu.Unlock()
	if persister.stored[0].ID != ev.ID {
		t.Errorf("persisted event ID %q, want %q", persister.stored[0].ID, ev.ID)
	}
}

func TestGenerateEventIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateEventID()
		if id == "" {
			t.Fatal("empty event ID")
		}
		if seen[id] {
			t.Fatalf("duplicate event ID %q", id)
		}
		seen[id] = true
	}
}
