package database

import (
	"net/netip"

	"github.com/jackc/pgx/v5/pgtype"
)

// ToolImport is a row of tool_imports without the raw bytes.
type ToolImport struct {
	ID           pgtype.UUID
	Source       string
	FileName     pgtype.Text
	SheetUrl     pgtype.Text
	Encoding     string
	Accepted     bool
	RowCount     int32
	ErrorCount   int32
	WarningCount int32
	SizeBytes    int64
	ClientIp     *netip.Addr
	UserAgent    pgtype.Text
	ImportedAt   pgtype.Timestamptz
}

// ToolRecord is a row of tool_records.
type ToolRecord struct {
	ImportID         pgtype.UUID
	Position         int32
	RecordID         string
	Name             string
	MonthlyCost      pgtype.Numeric
	Accounts         int32
	AssignedPerson   string
	Category         string
	GunaHonestyMeter int32
	RenewalDate      pgtype.Text
	Notes            string
	BillingCycle     pgtype.Text
	ActualYearlyCost pgtype.Numeric
	Fingerprint      string
}

// InsertImportParams holds the columns of a new tool_imports row.
type InsertImportParams struct {
	ToolImport
	RawData []byte
}
