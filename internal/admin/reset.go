// Package admin provides administrative operations for database management.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/ToolSpend/internal/database"
)

// ResetTimeout is the maximum duration for database reset operations.
const ResetTimeout = 30 * time.Second

// ResetDB clears stored imports.
type ResetDB struct {
	DB *database.Queries
}

type dbResetFn func(ctx context.Context) error

// ResetAll deletes every record, the current-import pointer and the whole
// import history including raw files. The schema is left in place.
// This is a destructive operation - use with caution.
func (r *ResetDB) ResetAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ResetTimeout)
	defer cancel()

	return r.runResets(ctx, []namedReset{
		{"tool_records", func(ctx context.Context) error {
			_, err := r.DB.DeleteAllRecords(ctx)
			return err
		}},
		{"current_import", r.DB.ResetCurrentImport},
		{"tool_imports", r.DB.ResetImports},
	})
}

type namedReset struct {
	table string
	fn    dbResetFn
}

func (r *ResetDB) runResets(ctx context.Context, resets []namedReset) error {
	for _, reset := range resets {
		if err := reset.fn(ctx); err != nil {
			return fmt.Errorf("reset %s: %w", reset.table, err)
		}
		slog.Debug("table reset", "table", reset.table)
	}
	return nil
}
