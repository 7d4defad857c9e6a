// Package metrics provides observability for the life server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance metrics.
type Collector struct {
	// Generation metrics
	GenerationCount  int64
	GenerationLatSum int64 // nanoseconds
	GenerationLatMax int64
	LastPopulation   int64
	LastGenerationAt time.Time

	// Journal metrics
	EventsWritten    int64
	EventWriteLatSum int64
	EventWriteLatMax int64
	EventWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordGeneration records one generation advance.
func (c *Collector) RecordGeneration(latency time.Duration, population int) {
	atomic.AddInt64(&c.GenerationCount, 1)
	atomic.AddInt64(&c.GenerationLatSum, int64(latency))
	atomic.StoreInt64(&c.LastPopulation, int64(population))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.GenerationLatMax) {
		atomic.StoreInt64(&c.GenerationLatMax, int64(latency))
	}

	c.mu.Lock()
	c.LastGenerationAt = time.Now()
	c.mu.Unlock()
}

// RecordEventWrite records a journal write to the database.
func (c *Collector) RecordEventWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	atomic.AddInt64(&c.EventWriteLatSum, int64(latency))

	if int64(latency) > atomic.LoadInt64(&c.EventWriteLatMax) {
		atomic.StoreInt64(&c.EventWriteLatMax, int64(latency))
	}

	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	generations := atomic.LoadInt64(&c.GenerationCount)
	eventsWritten := atomic.LoadInt64(&c.EventsWritten)

	// Calculate averages
	var genAvg, eventAvg float64
	if generations > 0 {
		genAvg = float64(atomic.LoadInt64(&c.GenerationLatSum)) / float64(generations) / 1e6 // ms
	}
	if eventsWritten > 0 {
		eventAvg = float64(atomic.LoadInt64(&c.EventWriteLatSum)) / float64(eventsWritten) / 1e6
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"generations": map[string]interface{}{
			"count":           generations,
			"avg_latency_ms":  genAvg,
			"max_latency_ms":  float64(atomic.LoadInt64(&c.GenerationLatMax)) / 1e6,
			"last_population": atomic.LoadInt64(&c.LastPopulation),
			"last_advance":    c.LastGenerationAt.Format(time.RFC3339),
		},

		"journal": map[string]interface{}{
			"written":          eventsWritten,
			"avg_write_lat_ms": eventAvg,
			"max_write_lat_ms": float64(atomic.LoadInt64(&c.EventWriteLatMax)) / 1e6,
			"errors":           atomic.LoadInt64(&c.EventWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		fmt.Fprintf(w, "# HELP life_generations_total Total generation advances\n")
		fmt.Fprintf(w, "# TYPE life_generations_total counter\n")
		fmt.Fprintf(w, "life_generations_total %d\n\n", atomic.LoadInt64(&c.GenerationCount))

		fmt.Fprintf(w, "# HELP life_generation_latency_max_ms Maximum advance latency\n")
		fmt.Fprintf(w, "# TYPE life_generation_latency_max_ms gauge\n")
		fmt.Fprintf(w, "life_generation_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.GenerationLatMax))/1e6)

		fmt.Fprintf(w, "# HELP life_population Current live cell count\n")
		fmt.Fprintf(w, "# TYPE life_population gauge\n")
		fmt.Fprintf(w, "life_population %d\n\n", atomic.LoadInt64(&c.LastPopulation))

		fmt.Fprintf(w, "# HELP life_events_written Total journal events written\n")
		fmt.Fprintf(w, "# TYPE life_events_written counter\n")
		fmt.Fprintf(w, "life_events_written %d\n\n", atomic.LoadInt64(&c.EventsWritten))

		fmt.Fprintf(w, "# HELP life_event_write_errors Total journal write errors\n")
		fmt.Fprintf(w, "# TYPE life_event_write_errors counter\n")
		fmt.Fprintf(w, "life_event_write_errors %d\n\n", atomic.LoadInt64(&c.EventWriteErrors))

		fmt.Fprintf(w, "# HELP life_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE life_ws_connections gauge\n")
		fmt.Fprintf(w, "life_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP life_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE life_ws_messages_total counter\n")
		fmt.Fprintf(w, "life_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "life_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
