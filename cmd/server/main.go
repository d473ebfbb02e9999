package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/ToolSpend/internal/config"
	"github.com/JonMunkholm/ToolSpend/internal/core"
	"github.com/JonMunkholm/ToolSpend/internal/database"
	"github.com/JonMunkholm/ToolSpend/internal/logging"
	"github.com/JonMunkholm/ToolSpend/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	switch err := godotenv.Overload(); {
	case err == nil:
		slog.Info("loaded .env file (overwriting existing env vars)")
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("no .env file found, using environment variables")
	default:
		slog.Warn("could not load .env file, using environment variables", "error", err)
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"database", cfg.Database.Enabled(),
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"import_allow_partial", cfg.Import.AllowPartial,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	ctx := context.Background()

	store, closeStore, err := database.Open(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	serviceCfg, err := cfg.ServiceConfig()
	if err != nil {
		slog.Error("invalid import configuration", "error", err)
		os.Exit(1)
	}

	service, err := core.NewService(ctx, store, core.NewHTTPSheetFetcher(cfg.Sheets.FetchTimeout), serviceCfg)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}
	if snap := service.Current(); snap != nil {
		slog.Info("loaded current tool set", "import_id", snap.ImportID, "records", len(snap.Records))
	}

	rates := core.NewExchangeRates(cfg.Currency.INRPerUSD, cfg.Currency.RateURL)
	server := web.NewServer(service, rates, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(ctx)
	go service.StartSheetRefreshScheduler(jobCtx, cfg.Sheets.RefreshInterval)
	if cfg.Currency.RateURL != "" {
		go core.StartRateRefreshScheduler(jobCtx, rates, cfg.Currency.RefreshInterval)
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active imports to complete (with timeout)
		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := service.WaitForImports(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		cancelJobs()
		closeStore()
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
