package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgsmath/pratik/internal/api"
	"github.com/dgsmath/pratik/internal/domain/exercise"
	"github.com/dgsmath/pratik/internal/infrastructure/config"
	"github.com/dgsmath/pratik/internal/migrate"
	"github.com/dgsmath/pratik/internal/selection"
	"github.com/dgsmath/pratik/internal/service"
	"github.com/dgsmath/pratik/internal/simulation"
	"github.com/dgsmath/pratik/internal/store"
	"github.com/dgsmath/pratik/internal/worker"
)

func main() {
	simulate := flag.Int("simulate", 0, "run N simulated answer cycles per exercise and exit")
	flag.Parse()

	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	snapshot := store.NewSnapshot(cfg.SnapshotPath)

	// A failed primary open is not fatal: the session degrades to the
	// flat snapshot backend and keeps working without durability for
	// anything but the user totals.
	var primary store.RecordStore
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database, degrading to snapshot backend", "error", err)
	} else {
		defer db.Close()
		primary = db

		if err := migrate.New(db, snapshot, logger).Run(); err != nil {
			logger.Error("legacy snapshot migration failed", "error", err)
		}
	}

	records := store.NewFallback(primary, snapshot, logger)

	queue := worker.NewQueue(64)
	defer queue.Close() // drain pending writes on shutdown

	aggregator := service.NewAggregator(records, queue, logger)
	if err := aggregator.Load(); err != nil {
		logger.Error("failed to load statistics", "error", err)
		os.Exit(1)
	}

	registry := exercise.DefaultRegistry()
	engine := service.NewEngine(registry, selection.NewPolicy(), aggregator, logger)

	if *simulate > 0 {
		err := simulation.Run(engine, registry, simulation.Config{
			Rounds:    *simulate,
			ErrorRate: 0.2,
			Seed:      time.Now().UnixNano(),
		}, logger)
		if err != nil {
			logger.Error("simulation failed", "error", err)
			os.Exit(1)
		}
		return
	}

	handler := api.NewHandler(engine, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress, "session", engine.SessionID())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
