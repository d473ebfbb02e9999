package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/ToolSpend/internal/core"
)

// Store is a core.Store backed by PostgreSQL. Each SaveImport runs in one
// transaction: the history row, the whole-set replacement of tool_records
// and the current_import pointer commit together.
type Store struct {
	pool  *pgxpool.Pool
	limit int
}

var _ core.Store = (*Store)(nil)

// NewStore creates a Store keeping at most historyLimit imports.
func NewStore(pool *pgxpool.Pool, historyLimit int) *Store {
	if historyLimit <= 0 {
		historyLimit = core.DefaultHistoryLimit
	}
	return &Store{pool: pool, limit: historyLimit}
}

func (s *Store) SaveImport(ctx context.Context, summary core.ImportSummary, raw []byte, snap *core.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	q := New(tx)
	id := ToPgUUID(summary.ImportID)
	if !id.Valid {
		return fmt.Errorf("invalid import id %q", summary.ImportID)
	}

	if raw == nil {
		raw = []byte{}
	}
	if err := q.InsertImport(ctx, InsertImportParams{
		ToolImport: importFromSummary(summary),
		RawData:    raw,
	}); err != nil {
		return fmt.Errorf("insert import: %w", err)
	}

	if snap != nil {
		if _, err := q.DeleteAllRecords(ctx); err != nil {
			return fmt.Errorf("clear records: %w", err)
		}
		rows := make([]ToolRecord, len(snap.Records))
		for i, r := range snap.Records {
			rows[i] = recordToRow(id, i, r)
		}
		if _, err := q.CopyRecords(ctx, rows); err != nil {
			return fmt.Errorf("copy records: %w", err)
		}
		if err := q.SetCurrentImport(ctx, id); err != nil {
			return fmt.Errorf("set current import: %w", err)
		}
	}

	if _, err := q.PruneImports(ctx, int32(s.limit)); err != nil {
		return fmt.Errorf("prune history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) CurrentSnapshot(ctx context.Context) (*core.Snapshot, error) {
	q := New(s.pool)

	imp, err := q.GetCurrentImport(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get current import: %w", err)
	}

	rows, err := q.ListRecords(ctx, imp.ID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	snap := &core.Snapshot{
		ImportID:   PgUUIDToString(imp.ID),
		Source:     core.ImportSource(imp.Source),
		FileName:   imp.FileName.String,
		SheetURL:   imp.SheetUrl.String,
		ImportedAt: imp.ImportedAt.Time,
		Records:    make([]core.ToolRecord, len(rows)),
	}
	for i, r := range rows {
		snap.Records[i] = rowToRecord(r)
	}
	return snap, nil
}

func (s *Store) ListImports(ctx context.Context, limit int) ([]core.ImportSummary, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}
	items, err := New(s.pool).ListImports(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	out := make([]core.ImportSummary, len(items))
	for i, it := range items {
		out[i] = summaryFromImport(it)
	}
	return out, nil
}

func (s *Store) RawFile(ctx context.Context, importID string) (core.ImportSummary, []byte, error) {
	id := ToPgUUID(importID)
	if !id.Valid {
		return core.ImportSummary{}, nil, core.ErrImportNotFound
	}
	imp, raw, err := New(s.pool).GetImportWithRaw(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ImportSummary{}, nil, core.ErrImportNotFound
	}
	if err != nil {
		return core.ImportSummary{}, nil, fmt.Errorf("get import: %w", err)
	}
	return summaryFromImport(imp), raw, nil
}

func importFromSummary(s core.ImportSummary) ToolImport {
	return ToolImport{
		ID:           ToPgUUID(s.ImportID),
		Source:       string(s.Source),
		FileName:     ToPgText(s.FileName),
		SheetUrl:     ToPgText(s.SheetURL),
		Encoding:     s.Encoding,
		Accepted:     s.Accepted,
		RowCount:     int32(s.RowCount),
		ErrorCount:   int32(s.ErrorCount),
		WarningCount: int32(s.WarningCount),
		SizeBytes:    s.SizeBytes,
		ClientIp:     ToInet(s.ClientIP),
		UserAgent:    ToPgText(s.UserAgent),
		ImportedAt:   ToPgTimestamptz(s.ImportedAt),
	}
}

func summaryFromImport(i ToolImport) core.ImportSummary {
	return core.ImportSummary{
		ImportID:     PgUUIDToString(i.ID),
		Source:       core.ImportSource(i.Source),
		FileName:     i.FileName.String,
		SheetURL:     i.SheetUrl.String,
		Encoding:     i.Encoding,
		Accepted:     i.Accepted,
		RowCount:     int(i.RowCount),
		ErrorCount:   int(i.ErrorCount),
		WarningCount: int(i.WarningCount),
		SizeBytes:    i.SizeBytes,
		ClientIP:     InetString(i.ClientIp),
		UserAgent:    i.UserAgent.String,
		ImportedAt:   i.ImportedAt.Time,
	}
}

func recordToRow(importID pgtype.UUID, position int, r core.ToolRecord) ToolRecord {
	return ToolRecord{
		ImportID:         importID,
		Position:         int32(position),
		RecordID:         r.ID,
		Name:             r.Name,
		MonthlyCost:      ToPgNumeric(r.MonthlyCost),
		Accounts:         int32(r.Accounts),
		AssignedPerson:   r.AssignedPerson,
		Category:         string(r.Category),
		GunaHonestyMeter: int32(r.GunaHonestyMeter),
		RenewalDate:      ToPgTextPtr(r.RenewalDate),
		Notes:            r.Notes,
		BillingCycle:     ToPgText(string(r.BillingCycle)),
		ActualYearlyCost: ToPgNumeric(r.ActualYearlyCost),
		Fingerprint:      r.Fingerprint,
	}
}

func rowToRecord(r ToolRecord) core.ToolRecord {
	return core.ToolRecord{
		ID:               r.RecordID,
		Name:             r.Name,
		MonthlyCost:      PgNumericToFloat(r.MonthlyCost),
		Accounts:         int(r.Accounts),
		AssignedPerson:   r.AssignedPerson,
		Category:         core.Category(r.Category),
		GunaHonestyMeter: int(r.GunaHonestyMeter),
		RenewalDate:      PgTextPtr(r.RenewalDate),
		Notes:            r.Notes,
		BillingCycle:     core.BillingCycle(r.BillingCycle.String),
		ActualYearlyCost: PgNumericToFloat(r.ActualYearlyCost),
		Fingerprint:      r.Fingerprint,
	}
}
