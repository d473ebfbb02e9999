package core

// scheduler.go provides background jobs that keep the dashboard fresh.
//
// Two jobs exist:
//  1. Sheet refresh: re-imports the linked Google Sheet on an interval
//  2. Exchange rate refresh: reloads the USD to INR display rate
//
// Both are long-running and context-aware for graceful shutdown. They log
// progress and errors but never stop the application when a run fails.

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// StartSheetRefreshScheduler re-imports the linked sheet every interval
// until ctx is cancelled. It returns immediately when interval is zero.
func (s *Service) StartSheetRefreshScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	slog.Info("sheet refresh scheduler started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("sheet refresh scheduler stopped")
			return
		case <-ticker.C:
			s.runSheetRefresh(ctx)
		}
	}
}

// runSheetRefresh performs one refresh cycle.
func (s *Service) runSheetRefresh(ctx context.Context) {
	start := time.Now()
	result, err := s.Refresh(ctx)
	switch {
	case errors.Is(err, ErrNoSheetLinked):
		slog.Debug("sheet refresh skipped, no sheet linked")
	case err != nil:
		slog.Error("sheet refresh failed", "error", err, "code", MapError(err).Code)
	default:
		slog.Info("sheet refreshed",
			"import_id", result.ImportID,
			"records", len(result.Parse.Records),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// StartRateRefreshScheduler reloads the exchange rate immediately and then
// every interval until ctx is cancelled.
func StartRateRefreshScheduler(ctx context.Context, rates *ExchangeRates, interval time.Duration) {
	if rates == nil || interval <= 0 {
		return
	}
	slog.Info("exchange rate scheduler started", "interval", interval)

	rates.refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("exchange rate scheduler stopped")
			return
		case <-ticker.C:
			rates.refresh(ctx)
		}
	}
}
