// Command worker consumes ticket-ingested events off the bus, runs the
// assignment engine against them, persists the decision, and serves the
// admin/explain and metrics HTTP surfaces.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/northbridge-support/triage/internal/adminapi"
	"github.com/northbridge-support/triage/internal/bus"
	"github.com/northbridge-support/triage/internal/clock"
	"github.com/northbridge-support/triage/internal/config"
	"github.com/northbridge-support/triage/internal/engine"
	"github.com/northbridge-support/triage/internal/metrics"
	"github.com/northbridge-support/triage/internal/oracle"
	"github.com/northbridge-support/triage/internal/similarity"
	"github.com/northbridge-support/triage/internal/store"
	"github.com/northbridge-support/triage/internal/worker"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	adminToken := flag.String("admin-token", os.Getenv("ADMIN_TOKEN"), "bearer token for admin endpoints")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	busClient, err := bus.NewNATSClient(ctx, cfg.Bus.URL, logger)
	if err != nil {
		logger.Error("failed to connect to bus", "error", err)
		os.Exit(1)
	}
	defer busClient.Close()
	logger.Info("connected to bus", "url", cfg.Bus.URL)

	realClock := clock.Real{}
	extractor := oracle.DefaultExtractor{}
	orcl := oracle.New(db, realClock, extractor)

	embedder := similarity.NewHashEmbedder(cfg.Worker.EmbeddingDims)
	simProvider := similarity.NewProvider(db.Pool(), embedder, cfg.Worker.SimilarityTopK)

	assignEngine := engine.New(orcl, realClock, nil, logger)

	w := worker.New(busClient, db, simProvider, assignEngine, logger, cfg.WorkerDeadline())
	if err := w.Start(); err != nil {
		logger.Error("failed to subscribe to bus", "error", err)
		os.Exit(1)
	}
	logger.Info("worker subscribed", "subject", bus.SubjectTicketIngested)

	m := metrics.New()
	router := adminapi.NewRouter(db, m, *adminToken, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Worker.Port),
		Handler: router,
	}

	go func() {
		logger.Info("worker admin server starting", "port", cfg.Worker.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("worker admin server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
