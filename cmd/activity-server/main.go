// cmd/activity-server/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"mergington-activities/internal/app"
	"mergington-activities/internal/common/config"
	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/common/observability"
)

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting activity server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	tp, err := observability.NewTracerProvider(cfg.Tracing)
	if err != nil {
		zapLog.Fatal("tracer provider init failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name, nil)
	defer obs.Shutdown()

	ctx := context.Background()

	application, err := app.New(ctx, app.Options{
		Config:        cfg,
		Logger:        log,
		Observability: obs,
		Retries:       10,
	})
	if err != nil {
		zapLog.Fatal("application init failed", zap.Error(err))
	}
	application.Start()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during shutdown", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing traces", zap.Error(err))
	}

	zapLog.Info("Activity server stopped gracefully")
}
