package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// InitSQLite initializes the local SQLite database and creates the schemas
// for persisting sessions, the simulation journal, and board checkpoints.
func InitSQLite(dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	// Create tables
	if err := createSchemas(db); err != nil {
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			seed_shape TEXT,
			generation INTEGER NOT NULL DEFAULT 0,
			paused BOOLEAN NOT NULL DEFAULT 1,
			last_updated DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sim_events (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			event_type TEXT NOT NULL,
			source TEXT NOT NULL,
			payload TEXT NOT NULL,
			generation INTEGER NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		);`,
		`CREATE TABLE IF NOT EXISTS board_snapshots (
			session_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			live_cells TEXT NOT NULL,
			taken_at DATETIME NOT NULL,
			PRIMARY KEY (session_id, generation),
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sim_events_session_id ON sim_events(session_id);`,
		`CREATE INDEX IF NOT EXISTS idx_sim_events_event_type ON sim_events(event_type);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
