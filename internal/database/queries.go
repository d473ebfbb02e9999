package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const importColumns = `id, source, file_name, sheet_url, encoding, accepted,
	row_count, error_count, warning_count, size_bytes, client_ip, user_agent, imported_at`

func scanImport(row pgx.Row) (ToolImport, error) {
	var i ToolImport
	err := row.Scan(
		&i.ID, &i.Source, &i.FileName, &i.SheetUrl, &i.Encoding, &i.Accepted,
		&i.RowCount, &i.ErrorCount, &i.WarningCount, &i.SizeBytes, &i.ClientIp, &i.UserAgent, &i.ImportedAt,
	)
	return i, err
}

const insertImport = `
INSERT INTO tool_imports (` + importColumns + `, raw_data)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

func (q *Queries) InsertImport(ctx context.Context, arg InsertImportParams) error {
	_, err := q.db.Exec(ctx, insertImport,
		arg.ID, arg.Source, arg.FileName, arg.SheetUrl, arg.Encoding, arg.Accepted,
		arg.RowCount, arg.ErrorCount, arg.WarningCount, arg.SizeBytes, arg.ClientIp, arg.UserAgent, arg.ImportedAt,
		arg.RawData,
	)
	return err
}

const listImports = `
SELECT ` + importColumns + `
FROM tool_imports
ORDER BY imported_at DESC, id
LIMIT $1`

func (q *Queries) ListImports(ctx context.Context, limit int32) ([]ToolImport, error) {
	rows, err := q.db.Query(ctx, listImports, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ToolImport
	for rows.Next() {
		i, err := scanImport(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getImportWithRaw = `
SELECT ` + importColumns + `, raw_data
FROM tool_imports
WHERE id = $1`

func (q *Queries) GetImportWithRaw(ctx context.Context, id pgtype.UUID) (ToolImport, []byte, error) {
	var (
		i   ToolImport
		raw []byte
	)
	err := q.db.QueryRow(ctx, getImportWithRaw, id).Scan(
		&i.ID, &i.Source, &i.FileName, &i.SheetUrl, &i.Encoding, &i.Accepted,
		&i.RowCount, &i.ErrorCount, &i.WarningCount, &i.SizeBytes, &i.ClientIp, &i.UserAgent, &i.ImportedAt,
		&raw,
	)
	return i, raw, err
}

const getCurrentImport = `
SELECT ` + importColumns + `
FROM tool_imports
WHERE id = (SELECT import_id FROM current_import)`

func (q *Queries) GetCurrentImport(ctx context.Context) (ToolImport, error) {
	return scanImport(q.db.QueryRow(ctx, getCurrentImport))
}

const setCurrentImport = `
INSERT INTO current_import (singleton, import_id) VALUES (TRUE, $1)
ON CONFLICT (singleton) DO UPDATE SET import_id = EXCLUDED.import_id`

func (q *Queries) SetCurrentImport(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, setCurrentImport, id)
	return err
}

const deleteAllRecords = `DELETE FROM tool_records`

func (q *Queries) DeleteAllRecords(ctx context.Context) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteAllRecords)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const resetCurrentImport = `DELETE FROM current_import`

func (q *Queries) ResetCurrentImport(ctx context.Context) error {
	_, err := q.db.Exec(ctx, resetCurrentImport)
	return err
}

const resetImports = `DELETE FROM tool_imports`

func (q *Queries) ResetImports(ctx context.Context) error {
	_, err := q.db.Exec(ctx, resetImports)
	return err
}

var recordColumns = []string{
	"import_id", "position", "record_id", "name", "monthly_cost", "accounts",
	"assigned_person", "category", "guna_honesty_meter", "renewal_date", "notes",
	"billing_cycle", "actual_yearly_cost", "fingerprint",
}

// CopyRecords bulk loads records with the COPY protocol.
func (q *Queries) CopyRecords(ctx context.Context, records []ToolRecord) (int64, error) {
	return q.db.CopyFrom(ctx, pgx.Identifier{"tool_records"}, recordColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{
				r.ImportID, r.Position, r.RecordID, r.Name, r.MonthlyCost, r.Accounts,
				r.AssignedPerson, r.Category, r.GunaHonestyMeter, r.RenewalDate, r.Notes,
				r.BillingCycle, r.ActualYearlyCost, r.Fingerprint,
			}, nil
		}),
	)
}

const listRecords = `
SELECT import_id, position, record_id, name, monthly_cost, accounts,
	assigned_person, category, guna_honesty_meter, renewal_date, notes,
	billing_cycle, actual_yearly_cost, fingerprint
FROM tool_records
WHERE import_id = $1
ORDER BY position`

func (q *Queries) ListRecords(ctx context.Context, importID pgtype.UUID) ([]ToolRecord, error) {
	rows, err := q.db.Query(ctx, listRecords, importID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ToolRecord
	for rows.Next() {
		var r ToolRecord
		if err := rows.Scan(
			&r.ImportID, &r.Position, &r.RecordID, &r.Name, &r.MonthlyCost, &r.Accounts,
			&r.AssignedPerson, &r.Category, &r.GunaHonestyMeter, &r.RenewalDate, &r.Notes,
			&r.BillingCycle, &r.ActualYearlyCost, &r.Fingerprint,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// Imports beyond the newest $1 are removed, except the current one.
const pruneImports = `
DELETE FROM tool_imports
WHERE id NOT IN (SELECT id FROM tool_imports ORDER BY imported_at DESC, id LIMIT $1)
  AND id NOT IN (SELECT import_id FROM current_import)`

func (q *Queries) PruneImports(ctx context.Context, keep int32) (int64, error) {
	tag, err := q.db.Exec(ctx, pruneImports, keep)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
