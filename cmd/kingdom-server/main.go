// Package main is the entry point for the kingdom crisis game server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kingdom-crisis/server/internal/content"
	"github.com/kingdom-crisis/server/internal/engine"
	"github.com/kingdom-crisis/server/internal/events"
	"github.com/kingdom-crisis/server/internal/infra/storage"
	"github.com/kingdom-crisis/server/internal/network"
	"github.com/kingdom-crisis/server/internal/platform/config"
	"github.com/kingdom-crisis/server/internal/platform/logger"
	"github.com/kingdom-crisis/server/internal/platform/metrics"
)

func main() {
	log.Println("[KINGDOM-SERVER] Initializing crisis server...")

	appLogger := logger.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		appLogger.Error("Failed to load configuration: " + err.Error())
		os.Exit(1)
	}

	appLogger.Info("Loading content library...")
	library, err := engine.LoadContent()
	if err != nil {
		// Content defects are fatal at boot, never at play time.
		appLogger.Error("Content validation failed: " + err.Error())
		os.Exit(1)
	}

	appLogger.Info("Initializing SQLite database '" + cfg.DBPath + "'...")
	db, err := storage.InitSQLite(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	defer db.Close()

	eventRepo := storage.NewSQLiteEventRepository(db)
	sessionRepo := storage.NewSQLiteSessionRepository(db)
	eventLog := events.NewEventLog(storage.NewEventPersister(eventRepo))

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	engineCfg := engine.DefaultConfig()
	engineCfg.TotalDays = cfg.TotalDays
	engineCfg.SlotsPerDay = cfg.SlotsPerDay
	engineCfg.AllowRepeatEvents = cfg.AllowRepeatEvents

	appLogger.Info("Bootstrapping engine...")
	gameEngine := engine.NewEngine(library, engineCfg, rng, eventLog, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Periodic session summary backup, so past runs survive restarts.
	go func() {
		backupTicker := time.NewTicker(5 * time.Second)
		defer backupTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-backupTicker.C:
				snap := gameEngine.Snapshot()
				if snap.State == engine.StateRoleAssignment {
					continue
				}
				summary := storage.SessionSummary{
					SessionID:      snap.SessionID,
					Role:           snap.Role,
					Crisis:         snap.Crisis,
					State:          string(snap.State),
					Day:            snap.Day,
					Slot:           snap.Slot,
					Score:          snap.Score,
					Band:           string(snap.Band),
					SecretRevealed: snap.Secret.Revealed,
					EvidenceCount:  len(snap.Evidence),
				}
				if snap.State == engine.StateResolved {
					summary.Outcome = content.OutcomeForBand(snap.Band)
					metrics.Get().RecordSessionResolved()
				}
				if err := sessionRepo.Upsert(ctx, summary); err != nil {
					appLogger.Warn("Session backup failed: " + err.Error())
				}
			}
		}
	}()

	appLogger.Info("Bootstrapping WebSocket hub...")
	hub := network.NewHub(gameEngine, appLogger)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)

	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger)
	})

	mux.HandleFunc("/api/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, gameEngine.Snapshot())
	})

	mux.HandleFunc("/api/actions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, gameEngine.Actions())
	})

	mux.HandleFunc("/api/begin", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		snap, err := gameEngine.Begin()
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, snap)
	})

	mux.HandleFunc("/api/advance", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		snap, err := gameEngine.Advance()
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, snap)
	})

	mux.HandleFunc("/api/recap", func(w http.ResponseWriter, r *http.Request) {
		recap, err := gameEngine.Recap()
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, recap)
	})

	mux.HandleFunc("/api/sessions", func(w http.ResponseWriter, r *http.Request) {
		sessions, err := sessionRepo.List(r.Context(), 50)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, sessions)
	})

	mux.HandleFunc("/metrics", metrics.Handler())
	mux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	server := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		log.Printf("[KINGDOM-SERVER] HTTP API & WS server listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[KINGDOM-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[KINGDOM-SERVER] Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown: " + err.Error())
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeEngineError maps typed engine failures to HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case engine.IsKind(err, engine.KindInvalidAction):
		status = http.StatusBadRequest
	case engine.IsKind(err, engine.KindInsufficientResources),
		engine.IsKind(err, engine.KindEvidenceExhausted),
		engine.IsKind(err, engine.KindInvalidState):
		status = http.StatusConflict
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow cross-origin requests for the dev frontend
	},
}

// serveWs handles websocket requests from the peer.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection")
		return
	}

	client := network.NewClient(hub, conn)
	client.Register()

	go client.WritePump()
	go client.ReadPump()
}
