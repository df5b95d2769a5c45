// Command gateway runs the ServiceNow webhook receiver: it verifies the
// inbound signature, translates the payload into a ticket-ingested
// event, and publishes it to the bus for the worker to pick up.
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

	"github.com/northbridge-support/triage/internal/bus"
	"github.com/northbridge-support/triage/internal/config"
	"github.com/northbridge-support/triage/internal/gateway"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Gateway.WebhookSecret == "" {
		logger.Error("SERVICENOW_WEBHOOK_SECRET is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	busClient, err := bus.NewNATSClient(ctx, cfg.Bus.URL, logger)
	if err != nil {
		logger.Error("failed to connect to bus", "error", err)
		os.Exit(1)
	}
	defer busClient.Close()
	logger.Info("connected to bus", "url", cfg.Bus.URL)

	handler := gateway.NewHandler(cfg.Gateway.WebhookSecret, busClient, logger)
	router := gateway.NewRouter(handler, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Gateway.Port),
		Handler:      router,
		ReadTimeout:  cfg.PublishTimeout(),
		WriteTimeout: cfg.PublishTimeout(),
	}

	go func() {
		logger.Info("gateway server starting", "port", cfg.Gateway.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("gateway server error", "error", err)
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
