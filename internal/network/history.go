package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/torolife/server/internal/events"
	"github.com/torolife/server/internal/platform/logger"
)

// HistoryHandler exposes the simulation journal over REST, so viewers can
// replay how a board reached its current state without a live WebSocket.
type HistoryHandler struct {
	journal *events.Journal
	logger  *logger.Logger
}

// NewHistoryHandler creates a journal history API over the given journal.
func NewHistoryHandler(journal *events.Journal, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		journal: journal,
		logger:  log,
	}
}

// HistoryEvent is the public form of one journal entry.
type HistoryEvent struct {
	ID         string      `json:"id"`
	Timestamp  string      `json:"timestamp"`
	Type       string      `json:"type"`
	Source     string      `json:"source"`
	Generation int64       `json:"generation"`
	Summary    string      `json:"summary"`
	Payload    interface{} `json:"payload,omitempty"`
}

// HistoryResponse is the API response for a journal query.
type HistoryResponse struct {
	TotalEvents int            `json:"total_events"`
	FilteredBy  string         `json:"filtered_by,omitempty"`
	GeneratedAt string         `json:"generated_at"`
	Events      []HistoryEvent `json:"events"`
}

// HandleHistory returns the journal, optionally filtered.
// GET /api/journal?type=CELL_FLIPPED&source=editor-1&limit=100
func (hh *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		hh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	eventType := r.URL.Query().Get("type")
	source := r.URL.Query().Get("source")
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, _ = strconv.Atoi(limitStr)
	}

	filterDesc := ""
	if eventType != "" {
		filterDesc = "type=" + eventType
	}
	if source != "" {
		if filterDesc != "" {
			filterDesc += " "
		}
		filterDesc += "source=" + source
	}

	var out []HistoryEvent
	for _, e := range hh.journal.Replay() {
		if eventType != "" && string(e.Type) != eventType {
			continue
		}
		if source != "" && e.Source != source {
			continue
		}
		out = append(out, hh.convert(e))
	}
	// The newest events matter most; a limit keeps the tail.
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}

	response := HistoryResponse{
		TotalEvents: len(out),
		FilteredBy:  filterDesc,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      out,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleEventDetail returns one journal entry with its full payload.
// GET /api/journal/event?event_id=XXX
func (hh *HistoryHandler) HandleEventDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		hh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	eventID := r.URL.Query().Get("event_id")
	if eventID == "" {
		hh.jsonError(w, "Missing event_id", http.StatusBadRequest)
		return
	}

	for _, e := range hh.journal.Replay() {
		if e.ID == eventID {
			detail := hh.convert(e)
			detail.Payload = e.Payload

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(detail)
			return
		}
	}

	hh.jsonError(w, "Event not found", http.StatusNotFound)
}

// HandleStats returns aggregate journal statistics.
// GET /api/journal/stats
func (hh *HistoryHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		hh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	allEvents := hh.journal.Replay()

	stats := map[string]int{
		"total_events": len(allEvents),
	}
	byType := map[string]int{}
	bySource := map[string]int{}
	for _, e := range allEvents {
		byType[string(e.Type)]++
		bySource[e.Source]++
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"stats":        stats,
		"by_type":      byType,
		"by_source":    bySource,
	})
}

// RegisterRoutes sets up the journal history API routes.
func (hh *HistoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/journal", hh.HandleHistory)
	mux.HandleFunc("/api/journal/event", hh.HandleEventDetail)
	mux.HandleFunc("/api/journal/stats", hh.HandleStats)
}

// convert transforms a journal entry to its public form, without payload.
func (hh *HistoryHandler) convert(e events.SimEvent) HistoryEvent {
	return HistoryEvent{
		ID:         e.ID,
		Timestamp:  e.Timestamp.Format(time.RFC3339),
		Type:       string(e.Type),
		Source:     e.Source,
		Generation: e.Generation,
		Summary:    summarizeEvent(e),
	}
}

// summarizeEvent creates a human-readable one-liner per event type.
func summarizeEvent(e events.SimEvent) string {
	switch e.Type {
	case events.EventTypeTimeTick:
		return "Heartbeat."
	case events.EventTypeGenerationAdvanced:
		return "The board advanced one generation."
	case events.EventTypeCellFlipped:
		return "An editor toggled a cell."
	case events.EventTypeShapeStamped:
		return "An editor stamped a preset shape."
	case events.EventTypeBoardCleared:
		return "The board was wiped clean."
	case events.EventTypeBoardRandomized:
		return "The board was re-rolled at random."
	case events.EventTypeBoardSeeded:
		return "A new board was seeded."
	case events.EventTypeSimPaused:
		return "The simulation was paused."
	case events.EventTypeSimResumed:
		return "The simulation was resumed."
	case events.EventTypePresetCycled:
		return "The preset carousel moved."
	default:
		return "Something happened."
	}
}

// jsonError sends an error response.
func (hh *HistoryHandler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
