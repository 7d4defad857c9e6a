// Package tuning provides concurrency parameters for high-load sessions:
// channel buffers, database pool sizes, and recommendations derived from
// observed metrics.
package tuning

import (
	"runtime"
)

// Config holds tuned parameters for a server deployment.
type Config struct {
	// Per-WebSocket outbound frame buffer.
	ClientSendBuffer int

	// SQLite connection pool.
	DBMaxOpenConns int
	DBMaxIdleConns int

	// Rate limiting.
	MaxMessagesPerSecond int
	MaxClients           int
}

// DefaultConfig returns sensible defaults for production.
func DefaultConfig() *Config {
	numCPU := runtime.NumCPU()

	return &Config{
		ClientSendBuffer: 256,

		DBMaxOpenConns: numCPU * 4,
		DBMaxIdleConns: numCPU * 2,

		MaxMessagesPerSecond: 100,
		MaxClients:           200,
	}
}

// StressTestConfig returns aggressive settings for load testing.
func StressTestConfig() *Config {
	numCPU := runtime.NumCPU()

	return &Config{
		ClientSendBuffer: 512,

		DBMaxOpenConns: numCPU * 8,
		DBMaxIdleConns: numCPU * 4,

		MaxMessagesPerSecond: 500,
		MaxClients:           500,
	}
}

// LowResourceConfig returns minimal settings for development.
func LowResourceConfig() *Config {
	return &Config{
		ClientSendBuffer: 32,

		DBMaxOpenConns: 5,
		DBMaxIdleConns: 2,

		MaxMessagesPerSecond: 10,
		MaxClients:           20,
	}
}

// Recommendations provides suggestions based on observed metrics.
type Recommendations struct {
	IncreaseSendBuffer    bool
	IncreaseDBConnections bool
	ReduceTickRate        bool
	Notes                 []string
}

// Analyze examines a metrics snapshot and returns tuning recommendations.
func Analyze(snapshot map[string]interface{}) *Recommendations {
	rec := &Recommendations{
		Notes: make([]string, 0),
	}

	if generations, ok := snapshot["generations"].(map[string]interface{}); ok {
		if maxLat, ok := generations["max_latency_ms"].(float64); ok && maxLat > 100 {
			rec.ReduceTickRate = true
			rec.Notes = append(rec.Notes, "Advance latency exceeds 100ms - lower the tick rate or shrink the board")
		}
	}

	if journal, ok := snapshot["journal"].(map[string]interface{}); ok {
		if maxLat, ok := journal["max_write_lat_ms"].(float64); ok && maxLat > 50 {
			rec.IncreaseDBConnections = true
			rec.Notes = append(rec.Notes, "Journal write latency exceeds 50ms - increase DB connections")
		}
		if errors, ok := journal["errors"].(int64); ok && errors > 0 {
			rec.IncreaseDBConnections = true
			rec.Notes = append(rec.Notes, "Journal write errors detected - check the DB connection pool")
		}
	}

	if ws, ok := snapshot["websocket"].(map[string]interface{}); ok {
		if errors, ok := ws["errors"].(int64); ok && errors > 0 {
			rec.IncreaseSendBuffer = true
			rec.Notes = append(rec.Notes, "WebSocket errors detected - increase the client send buffer")
		}
	}

	return rec
}

// ApplyRecommendations scales config values per the recommendations.
func ApplyRecommendations(config *Config, rec *Recommendations) *Config {
	if rec.IncreaseSendBuffer {
		config.ClientSendBuffer *= 2
	}
	if rec.IncreaseDBConnections {
		config.DBMaxOpenConns = int(float64(config.DBMaxOpenConns) * 1.5)
		config.DBMaxIdleConns = int(float64(config.DBMaxIdleConns) * 1.5)
	}
	return config
}
