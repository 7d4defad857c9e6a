package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/torolife/server/internal/events"
	"github.com/torolife/server/internal/platform/logger"
)

// DefaultTickInterval matches the original interactive cadence.
const DefaultTickInterval = 50 * time.Millisecond

// Ticker is the simulation heartbeat. It knows nothing about boards or
// cells; it only appends TIME_TICK events at a fixed cadence.
type Ticker struct {
	journal    *events.Journal
	logger     *logger.Logger
	interval   time.Duration
	tickNumber int64
	stopChan   chan struct{}
}

// NewTicker creates a ticker appending to the given journal.
func NewTicker(journal *events.Journal, log *logger.Logger, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Ticker{
		journal:  journal,
		logger:   log,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the heartbeat. Call in a goroutine.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Info(fmt.Sprintf("Simulation ticker started at %s per tick.", t.interval))

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Simulation ticker stopped by context.")
			return
		case <-t.stopChan:
			t.logger.Info("Simulation ticker stopped manually.")
			return
		case <-ticker.C:
			t.tick()
		}
	}
}

// Stop gracefully stops the ticker.
func (t *Ticker) Stop() {
	close(t.stopChan)
}

// SetTickNumber restores the heartbeat counter from a recovered session.
func (t *Ticker) SetTickNumber(n int64) {
	t.tickNumber = n
}

func (t *Ticker) tick() {
	t.tickNumber++

	t.journal.Append(events.SimEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeTimeTick,
		Source:    "TICKER",
		Payload:   events.TimeTickPayload{TickNumber: t.tickNumber},
	})
}
