// Package events provides the append-only simulation journal. Every board
// mutation enters the system as an event here; the engine replays the journal
// to rebuild an interrupted session.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/torolife/server/internal/domain/life"
)

// EventType defines the category of a simulation event.
type EventType string

const (
	EventTypeTimeTick           EventType = "TIME_TICK"
	EventTypeGenerationAdvanced EventType = "GENERATION_ADVANCED"
	EventTypeCellFlipped        EventType = "CELL_FLIPPED"
	EventTypeShapeStamped       EventType = "SHAPE_STAMPED"
	EventTypeBoardCleared       EventType = "BOARD_CLEARED"
	EventTypeBoardRandomized    EventType = "BOARD_RANDOMIZED"
	EventTypeBoardSeeded        EventType = "BOARD_SEEDED"
	EventTypeSimPaused          EventType = "SIM_PAUSED"
	EventTypeSimResumed         EventType = "SIM_RESUMED"
	EventTypePresetCycled       EventType = "PRESET_CYCLED"
)

// CellFlippedPayload identifies the toggled cell.
type CellFlippedPayload struct {
	Pos life.Position `json:"pos"`
}

// ShapeStampedPayload records which preset was stamped where.
type ShapeStampedPayload struct {
	Shape string        `json:"shape"`
	Pos   life.Position `json:"pos"`
}

// BoardRandomizedPayload carries the live set the randomize produced, so a
// journal replay reproduces the exact board instead of re-rolling.
type BoardRandomizedPayload struct {
	LiveCells []life.Position `json:"live_cells"`
}

// BoardSeededPayload records the initial board configuration.
type BoardSeededPayload struct {
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Shape     string          `json:"shape"`
	LiveCells []life.Position `json:"live_cells"`
}

// TimeTickPayload is attached to each ticker heartbeat.
type TimeTickPayload struct {
	TickNumber int64 `json:"tick_number"`
}

// GenerationAdvancedPayload reports the state after one advance.
type GenerationAdvancedPayload struct {
	Generation int64 `json:"generation"`
	Population int   `json:"population"`
}

// PresetCycledPayload names the preset now under the cursor.
type PresetCycledPayload struct {
	Shape string `json:"shape"`
}

// SimEvent is an immutable record of one simulation action.
type SimEvent struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	Type       EventType   `json:"type"`
	Source     string      `json:"source"` // TICKER, EDITOR, SYSTEM, or a client id
	Payload    interface{} `json:"payload"`
	Generation int64       `json:"generation"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event SimEvent) error
}

// Journal is the in-memory append-only log of simulation events, optionally
// written through to a persister.
type Journal struct {
	mu        sync.RWMutex
	events    []SimEvent
	persister EventPersister
}

// NewJournal creates a journal with an optional persister.
func NewJournal(persister EventPersister) *Journal {
	return &Journal{
		events:    make([]SimEvent, 0),
		persister: persister,
	}
}

// Append adds a new event. Events are immutable once appended.
func (j *Journal) Append(event SimEvent) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, event)

	if j.persister != nil {
		// Write through to persistent storage off the hot path.
		go func(e SimEvent) {
			_ = j.persister.Append(e)
		}(event)
	}
}

// Replay returns the full event history for state reconstruction.
func (j *Journal) Replay() []SimEvent {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.events
}

// Len returns the number of appended events.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.events)
}

// GetByType returns all events of the given type, in append order.
func (j *Journal) GetByType(t EventType) []SimEvent {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var result []SimEvent
	for _, e := range j.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
