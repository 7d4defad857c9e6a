package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/torolife/server/internal/domain/life"
	"github.com/torolife/server/internal/events"
	"github.com/torolife/server/internal/platform/logger"
	"github.com/torolife/server/internal/platform/metrics"
)

// Snapshot is the read-only view handed to renderers. It shares no memory
// with the live board.
type Snapshot struct {
	Width      int
	Height     int
	Generation int64
	Paused     bool
	Population int
	Cells      [][]life.CellState
	LiveCells  []life.Position
	Preset     string
	PresetView []life.Position
}

// Engine owns the single mutable Board of a session. All mutations are
// serialized through the session lock; the domain core itself does no
// locking and assumes exclusive access per call.
type Engine struct {
	journal *events.Journal
	logger  *logger.Logger
	ticker  *Ticker

	mu          sync.Mutex
	board       *life.Board
	paused      bool
	generation  int64
	presetNames []string
	presetIndex int

	lastProcessedEvent int
}

// NewEngine creates an engine with no board yet; call Seed or Rebuild before
// Start.
func NewEngine(journal *events.Journal, log *logger.Logger, tickInterval time.Duration) *Engine {
	return &Engine{
		journal:     journal,
		logger:      log,
		ticker:      NewTicker(journal, log, tickInterval),
		paused:      true,
		presetNames: life.PresetNames(),
	}
}

// Seed creates the session board. shapeName may be empty for an empty board;
// offsetPercent positions the shape as a fraction of the board dimensions.
func (e *Engine) Seed(width, height int, shapeName string, offsetPercent int) error {
	var seed []life.Position
	if shapeName != "" {
		sh, ok := life.LookupShape(shapeName)
		if !ok {
			return fmt.Errorf("engine: unknown shape %q", shapeName)
		}
		translation := life.TranslationFromPercent(offsetPercent, width, height)
		if translation != nil {
			sh = sh.Translated(*translation)
		}
		seed = sh.Materialize(width, height)
	}

	board, err := life.NewBoard(width, height, seed)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.board = board
	e.generation = 0
	e.mu.Unlock()

	e.journal.Append(events.SimEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeBoardSeeded,
		Source:    "SYSTEM",
		Payload: events.BoardSeededPayload{
			Width:     width,
			Height:    height,
			Shape:     shapeName,
			LiveCells: board.LiveCells(),
		},
	})
	e.logger.Info(fmt.Sprintf("Board seeded %dx%d with shape %q.", width, height, shapeName))
	return nil
}

// Rebuild reconstructs the session board by replaying a persisted history.
// TIME_TICK heartbeats are skipped; GENERATION_ADVANCED is the replayed fact.
func (e *Engine) Rebuild(history []events.SimEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, ev := range history {
		switch ev.Type {
		case events.EventTypeBoardSeeded:
			payload, ok := ev.Payload.(events.BoardSeededPayload)
			if !ok {
				return fmt.Errorf("engine: malformed BOARD_SEEDED payload")
			}
			board, err := life.NewBoard(payload.Width, payload.Height, payload.LiveCells)
			if err != nil {
				return err
			}
			e.board = board
			e.generation = 0

		case events.EventTypeGenerationAdvanced:
			if e.board == nil {
				return fmt.Errorf("engine: %s before BOARD_SEEDED", ev.Type)
			}
			e.board.Advance()
			e.generation++

		case events.EventTypeCellFlipped:
			payload, ok := ev.Payload.(events.CellFlippedPayload)
			if !ok || e.board == nil {
				return fmt.Errorf("engine: malformed %s event", ev.Type)
			}
			e.board.Flip(payload.Pos)

		case events.EventTypeShapeStamped:
			payload, ok := ev.Payload.(events.ShapeStampedPayload)
			if !ok || e.board == nil {
				return fmt.Errorf("engine: malformed %s event", ev.Type)
			}
			sh, found := life.LookupShape(payload.Shape)
			if !found {
				return fmt.Errorf("engine: unknown shape %q in journal", payload.Shape)
			}
			e.board.Stamp(sh, payload.Pos)

		case events.EventTypeBoardCleared:
			if e.board != nil {
				e.board.Clear()
			}

		case events.EventTypeBoardRandomized:
			payload, ok := ev.Payload.(events.BoardRandomizedPayload)
			if !ok || e.board == nil {
				return fmt.Errorf("engine: malformed %s event", ev.Type)
			}
			e.board.Clear()
			e.board.SetAlive(payload.LiveCells)

		case events.EventTypeSimPaused:
			e.paused = true
		case events.EventTypeSimResumed:
			e.paused = false
		}
	}
	if e.board == nil {
		return fmt.Errorf("engine: history holds no BOARD_SEEDED event")
	}
	e.logger.Info(fmt.Sprintf("Session rebuilt from %d journal events at generation %d.", len(history), e.generation))
	return nil
}

// Start spawns the ticker and the heartbeat-processing loop.
func (e *Engine) Start(ctx context.Context) {
	e.logger.Info("Starting simulation engine...")

	go e.ticker.Start(ctx)
	go e.processEvents(ctx)
}

// processEvents polls the journal for new heartbeats and advances the board
// once per TIME_TICK while the session is running.
func (e *Engine) processEvents(ctx context.Context) {
	pollInterval := time.NewTicker(25 * time.Millisecond)
	defer pollInterval.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Engine event processor stopped.")
			return
		case <-pollInterval.C:
			allEvents := e.journal.Replay()
			if len(allEvents) <= e.lastProcessedEvent {
				continue
			}
			newEvents := allEvents[e.lastProcessedEvent:]
			e.lastProcessedEvent = len(allEvents)
			for _, ev := range newEvents {
				if ev.Type == events.EventTypeTimeTick {
					e.onTimeTick()
				}
			}
		}
	}
}

// onTimeTick advances one generation unless paused.
func (e *Engine) onTimeTick() {
	e.mu.Lock()
	if e.paused || e.board == nil {
		e.mu.Unlock()
		return
	}
	start := time.Now()
	e.board.Advance()
	e.generation++
	generation := e.generation
	population := e.board.Population()
	e.mu.Unlock()

	metrics.Get().RecordGeneration(time.Since(start), population)

	e.journal.Append(events.SimEvent{
		ID:         events.GenerateEventID(),
		Timestamp:  time.Now(),
		Type:       events.EventTypeGenerationAdvanced,
		Source:     "TICKER",
		Generation: generation,
		Payload:    events.GenerationAdvancedPayload{Generation: generation, Population: population},
	})
}

// StepOnce advances a single generation regardless of the paused flag. The
// original UI binds this to the right-arrow key while paused.
func (e *Engine) StepOnce(source string) {
	e.mu.Lock()
	if e.board == nil {
		e.mu.Unlock()
		return
	}
	start := time.Now()
	e.board.Advance()
	e.generation++
	generation := e.generation
	population := e.board.Population()
	e.mu.Unlock()

	metrics.Get().RecordGeneration(time.Since(start), population)

	e.journal.Append(events.SimEvent{
		ID:         events.GenerateEventID(),
		Timestamp:  time.Now(),
		Type:       events.EventTypeGenerationAdvanced,
		Source:     source,
		Generation: generation,
		Payload:    events.GenerationAdvancedPayload{Generation: generation, Population: population},
	})
}

// Toggle flips the cell at pos. The caller has already validated that pos is
// on the board; the engine double-checks and drops invalid positions.
func (e *Engine) Toggle(pos life.Position, source string) {
	e.mu.Lock()
	if e.board == nil || !e.board.Contains(pos) {
		e.mu.Unlock()
		e.logger.Warn(fmt.Sprintf("Toggle at (%d,%d) ignored: position not on grid.", pos.Row, pos.Col))
		return
	}
	e.board.Flip(pos)
	generation := e.generation
	e.mu.Unlock()

	e.journal.Append(events.SimEvent{
		ID:         events.GenerateEventID(),
		Timestamp:  time.Now(),
		Type:       events.EventTypeCellFlipped,
		Source:     source,
		Generation: generation,
		Payload:    events.CellFlippedPayload{Pos: pos},
	})
}

// StampPreset stamps the current preset at pos.
func (e *Engine) StampPreset(pos life.Position, source string) {
	e.mu.Lock()
	if e.board == nil || !e.board.Contains(pos) {
		e.mu.Unlock()
		e.logger.Warn(fmt.Sprintf("Stamp at (%d,%d) ignored: position not on grid.", pos.Row, pos.Col))
		return
	}
	name := e.presetNames[e.presetIndex]
	sh, _ := life.LookupShape(name)
	e.board.Stamp(sh, pos)
	generation := e.generation
	e.mu.Unlock()

	e.journal.Append(events.SimEvent{
		ID:         events.GenerateEventID(),
		Timestamp:  time.Now(),
		Type:       events.EventTypeShapeStamped,
		Source:     source,
		Generation: generation,
		Payload:    events.ShapeStampedPayload{Shape: name, Pos: pos},
	})
}

// StampShape stamps a named preset at pos, for callers that carry their own
// shape selection instead of the session carousel.
func (e *Engine) StampShape(name string, pos life.Position, source string) error {
	sh, ok := life.LookupShape(name)
	if !ok {
		return fmt.Errorf("engine: unknown shape %q", name)
	}
	e.mu.Lock()
	if e.board == nil || !e.board.Contains(pos) {
		e.mu.Unlock()
		return fmt.Errorf("engine: position (%d,%d) not on grid", pos.Row, pos.Col)
	}
	e.board.Stamp(sh, pos)
	generation := e.generation
	e.mu.Unlock()

	e.journal.Append(events.SimEvent{
		ID:         events.GenerateEventID(),
		Timestamp:  time.Now(),
		Type:       events.EventTypeShapeStamped,
		Source:     source,
		Generation: generation,
		Payload:    events.ShapeStampedPayload{Shape: name, Pos: pos},
	})
	return nil
}

// ClearBoard kills every cell.
func (e *Engine) ClearBoard(source string) {
	e.mu.Lock()
	if e.board == nil {
		e.mu.Unlock()
		return
	}
	e.board.Clear()
	generation := e.generation
	e.mu.Unlock()

	e.journal.Append(events.SimEvent{
		ID:         events.GenerateEventID(),
		Timestamp:  time.Now(),
		Type:       events.EventTypeBoardCleared,
		Source:     source,
		Generation: generation,
	})
}

// RandomizeBoard rolls every cell to Alive or Dead with equal probability.
// The resulting live set goes into the journal so replays are deterministic.
func (e *Engine) RandomizeBoard(source string) {
	e.mu.Lock()
	if e.board == nil {
		e.mu.Unlock()
		return
	}
	e.board.Randomize()
	live := e.board.LiveCells()
	generation := e.generation
	e.mu.Unlock()

	e.journal.Append(events.SimEvent{
		ID:         events.GenerateEventID(),
		Timestamp:  time.Now(),
		Type:       events.EventTypeBoardRandomized,
		Source:     source,
		Generation: generation,
		Payload:    events.BoardRandomizedPayload{LiveCells: live},
	})
}

// TogglePlayPause flips the running state and reports the new paused flag.
func (e *Engine) TogglePlayPause(source string) bool {
	e.mu.Lock()
	e.paused = !e.paused
	paused := e.paused
	generation := e.generation
	e.mu.Unlock()

	eventType := events.EventTypeSimResumed
	if paused {
		eventType = events.EventTypeSimPaused
	}
	e.journal.Append(events.SimEvent{
		ID:         events.GenerateEventID(),
		Timestamp:  time.Now(),
		Type:       eventType,
		Source:     source,
		Generation: generation,
	})
	return paused
}

// CyclePreset advances the preset carousel and reports the new selection.
func (e *Engine) CyclePreset(source string) string {
	e.mu.Lock()
	e.presetIndex = (e.presetIndex + 1) % len(e.presetNames)
	name := e.presetNames[e.presetIndex]
	generation := e.generation
	e.mu.Unlock()

	e.journal.Append(events.SimEvent{
		ID:         events.GenerateEventID(),
		Timestamp:  time.Now(),
		Type:       events.EventTypePresetCycled,
		Source:     source,
		Generation: generation,
		Payload:    events.PresetCycledPayload{Shape: name},
	})
	return name
}

// CurrentPreset returns the preset under the carousel cursor.
func (e *Engine) CurrentPreset() life.Shape {
	e.mu.Lock()
	name := e.presetNames[e.presetIndex]
	e.mu.Unlock()
	sh, _ := life.LookupShape(name)
	return sh
}

// Paused reports whether the session is paused.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Generation returns the current generation number.
func (e *Engine) Generation() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// Journal exposes the journal for drivers that poll it for broadcasting.
func (e *Engine) Journal() *events.Journal {
	return e.journal
}

// Snapshot returns a consistent deep copy of the session for renderers.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Generation: e.generation,
		Paused:     e.paused,
		Preset:     e.presetNames[e.presetIndex],
	}
	if e.board != nil {
		snap.Width = e.board.Width()
		snap.Height = e.board.Height()
		snap.Cells = e.board.Snapshot()
		snap.LiveCells = e.board.LiveCells()
		snap.Population = e.board.Population()
	}
	if sh, ok := life.LookupShape(snap.Preset); ok {
		snap.PresetView = sh.Offsets()
	}
	return snap
}
