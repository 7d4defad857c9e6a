// Package main is the entry point for the life session server.
// It only handles dependency injection and server initialization.
// NO simulation logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/torolife/server/internal/domain/life"
	"github.com/torolife/server/internal/engine"
	"github.com/torolife/server/internal/events"
	"github.com/torolife/server/internal/infra/storage"
	"github.com/torolife/server/internal/network"
	"github.com/torolife/server/internal/platform/logger"
	"github.com/torolife/server/internal/platform/metrics"
	"github.com/torolife/server/internal/platform/tuning"
)

// SQLitePersisterAdapter translates journal events to storage rows.
type SQLitePersisterAdapter struct {
	repo      *storage.SQLiteEventRepository
	sessionID string
}

func (a *SQLitePersisterAdapter) Append(event events.SimEvent) error {
	payloadBytes, _ := json.Marshal(event.Payload)

	stored := storage.StoredEvent{
		ID:         event.ID,
		SessionID:  a.sessionID,
		Timestamp:  event.Timestamp,
		EventType:  string(event.Type),
		Source:     event.Source,
		Payload:    string(payloadBytes),
		Generation: event.Generation,
	}

	start := time.Now()
	err := a.repo.Append(context.Background(), stored)
	metrics.Get().RecordEventWrite(time.Since(start), err)
	return err
}

// bootstrapSession seeds a fresh board or rebuilds one from the persisted
// journal of a previous run.
func bootstrapSession(ctx context.Context, eng *engine.Engine, eventRepo *storage.SQLiteEventRepository, sessionRepo *storage.SQLiteSessionRepository, sessionID string, width, height int, shapeName string, offsetPercent int, appLogger *logger.Logger) error {
	existing, err := sessionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}

	if existing == nil {
		appLogger.Info("No prior session found. Seeding a fresh board...")
		if err := eng.Seed(width, height, shapeName, offsetPercent); err != nil {
			return err
		}
		return sessionRepo.Upsert(ctx, storage.SessionSnapshot{
			SessionID: sessionID,
			Width:     width,
			Height:    height,
			SeedShape: shapeName,
			Paused:    true,
		})
	}

	appLogger.Info("Reconstructing session from the persisted journal...")
	rows, err := eventRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	history, err := storage.DecodeEvents(rows)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		// Session row without journal rows; reseed rather than fail.
		appLogger.Warn("Session row exists but journal is empty. Reseeding.")
		return eng.Seed(existing.Width, existing.Height, existing.SeedShape, offsetPercent)
	}
	return eng.Rebuild(history)
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "life.db", "SQLite database path")
	sessionID := flag.String("session", "SESSION_1", "Session identifier")
	rows := flag.Int("rows", 32, "Board rows")
	columns := flag.Int("columns", 64, "Board columns")
	shapeName := flag.String("shape", "rpentomino", "Seed shape name (empty for a blank board)")
	offset := flag.Int("offset", 10, "Seed shape offset, percent of board size")
	tick := flag.Duration("tick", engine.DefaultTickInterval, "Generation interval while running")
	flag.Parse()

	log.Println("[LIFE-SERVER] Initializing toroidal life session server...")

	appLogger := logger.NewLogger()
	tuningCfg := tuning.DefaultConfig()

	appLogger.Info("Initializing SQLite database '" + *dbPath + "'...")
	db, err := storage.InitSQLite(*dbPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	db.SetMaxOpenConns(tuningCfg.DBMaxOpenConns)
	db.SetMaxIdleConns(tuningCfg.DBMaxIdleConns)
	eventRepo := storage.NewSQLiteEventRepository(db)
	sessionRepo := storage.NewSQLiteSessionRepository(db)
	persister := &SQLitePersisterAdapter{repo: eventRepo, sessionID: *sessionID}

	appLogger.Info("Bootstrapping simulation journal...")
	journal := events.NewJournal(persister)

	appLogger.Info("Bootstrapping session engine...")
	eng := engine.NewEngine(journal, appLogger, *tick)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bootstrapSession(ctx, eng, eventRepo, sessionRepo, *sessionID, *columns, *rows, *shapeName, *offset, appLogger); err != nil {
		appLogger.Error("Failed to bootstrap session: " + err.Error())
		os.Exit(1)
	}

	eng.Start(ctx)

	appLogger.Info("Bootstrapping WebSocket hub...")
	hub := network.NewHub(eng, appLogger)
	hub.StartFramePoller(ctx)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	// Automated session backup routine.
	g.Go(func() error {
		backupTicker := time.NewTicker(5 * time.Second)
		defer backupTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-backupTicker.C:
				snap := eng.Snapshot()
				_ = sessionRepo.Upsert(ctx, storage.SessionSnapshot{
					SessionID:  *sessionID,
					Width:      snap.Width,
					Height:     snap.Height,
					SeedShape:  *shapeName,
					Generation: snap.Generation,
					Paused:     snap.Paused,
				})
				liveJSON, err := json.Marshal(snap.LiveCells)
				if err != nil {
					continue
				}
				_ = sessionRepo.SaveCheckpoint(ctx, storage.BoardCheckpoint{
					SessionID:  *sessionID,
					Generation: snap.Generation,
					LiveCells:  string(liveJSON),
				})
			}
		}
	})

	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger, tuningCfg.ClientSendBuffer)
	})

	history := network.NewHistoryHandler(journal, appLogger)
	history.RegisterRoutes(mux)

	mux.HandleFunc("/api/patterns", func(w http.ResponseWriter, r *http.Request) {
		type pattern struct {
			Name    string          `json:"name"`
			Offsets []life.Position `json:"offsets"`
		}
		var out []pattern
		for _, name := range life.AllShapeNames() {
			sh, _ := life.LookupShape(name)
			out = append(out, pattern{Name: name, Offsets: sh.Offsets()})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	})

	mux.HandleFunc("/api/snapshot", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(network.FrameFromSnapshot(eng.Snapshot()))
	})

	mux.HandleFunc("/api/command", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var action network.EditorAction
		if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if err := network.ApplyAction(eng, action, "HTTP_API"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/metrics", metrics.Handler())
	mux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	mux.HandleFunc("/api/tuning", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tuning.Analyze(metrics.Get().Snapshot()))
	})

	server := &http.Server{Addr: *addr, Handler: mux}

	g.Go(func() error {
		log.Printf("[LIFE-SERVER] HTTP API & WS server listening on %s", *addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	log.Println("[LIFE-SERVER] Server running. Press Ctrl+C to exit.")

	if err := g.Wait(); err != nil {
		appLogger.Error("Server exited with error: " + err.Error())
		os.Exit(1)
	}
	log.Println("[LIFE-SERVER] Shut down cleanly.")
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Browser editors are served from other origins in dev.
	},
}

// serveWs handles websocket requests from editor clients.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger, sendBuffer int) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection")
		return
	}

	client := network.NewClient(hub, conn, "editor-"+uuid.NewString()[:8], sendBuffer)
	client.Register()

	// Allow collection of memory referenced by the caller by doing all work
	// in new goroutines.
	go client.WritePump()
	go client.ReadPump()
}
