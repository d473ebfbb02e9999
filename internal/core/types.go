// Package core provides the business logic for tool-spend imports.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"time"
)

// Category classifies a tool by necessity.
type Category string

const (
	CategoryNeed Category = "Need"
	CategoryWant Category = "Want"
)

// BillingCycle records how a tool is billed. It is informational only:
// yearly cost is always derived from the monthly cost.
type BillingCycle string

const (
	BillingUnspecified BillingCycle = ""
	BillingMonthly     BillingCycle = "monthly"
	BillingYearly      BillingCycle = "yearly"
)

// ToolRecord is the validated, normalized representation of one tracked
// tool or subscription.
type ToolRecord struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	MonthlyCost      float64      `json:"monthlyCost"`
	Accounts         int          `json:"accounts"`
	AssignedPerson   string       `json:"assignedPerson"`
	Category         Category     `json:"category"`
	GunaHonestyMeter int          `json:"gunaHonestyMeter"`
	RenewalDate      *string      `json:"renewalDate"`
	Notes            string       `json:"notes"`
	BillingCycle     BillingCycle `json:"billingCycle,omitempty"`
	ActualYearlyCost float64      `json:"actualYearlyCost"`
	IsOverBudget     bool         `json:"isOverBudget"`

	// Fingerprint is derived from the normalized content fields, so two rows
	// describing the same tool share it across imports.
	Fingerprint string `json:"fingerprint"`
}

// ParseResult is the partitioned output of the batch processor.
// An empty Records slice with non-empty Errors is a valid outcome.
type ParseResult struct {
	Records  []ToolRecord `json:"records"`
	Errors   []string     `json:"errors"`
	Warnings []string     `json:"warnings"`
}

// ValidationVerdict is the whole-batch acceptance decision over parsed records.
type ValidationVerdict struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ImportSource identifies where an import's bytes came from.
type ImportSource string

const (
	SourceCSV          ImportSource = "csv"
	SourceGoogleSheets ImportSource = "google-sheets"
)

// ImportPhase indicates the stage at which an import finished.
type ImportPhase string

const (
	PhaseDecoding   ImportPhase = "decoding"
	PhaseProcessing ImportPhase = "processing"
	PhaseValidating ImportPhase = "validating"
	PhaseStoring    ImportPhase = "storing"
	PhaseComplete   ImportPhase = "complete"
	PhaseRejected   ImportPhase = "rejected"
)

// ImportResult describes one finished pipeline run.
type ImportResult struct {
	ImportID   string            `json:"importId"`
	Source     ImportSource      `json:"source"`
	FileName   string            `json:"fileName,omitempty"`
	SheetURL   string            `json:"sheetUrl,omitempty"`
	Encoding   string            `json:"encoding"`
	Phase      ImportPhase       `json:"phase"`
	TotalRows  int               `json:"totalRows"`
	Parse      ParseResult       `json:"parse"`
	Validation ValidationVerdict `json:"validation"`
	Accepted   bool              `json:"accepted"`
	ImportedAt time.Time         `json:"importedAt"`
	Duration   time.Duration     `json:"duration"`
}

// Snapshot is the complete current record set. It is only ever replaced
// whole; there is no incremental merge.
type Snapshot struct {
	ImportID   string       `json:"importId"`
	Source     ImportSource `json:"source"`
	FileName   string       `json:"fileName,omitempty"`
	SheetURL   string       `json:"sheetUrl,omitempty"`
	ImportedAt time.Time    `json:"importedAt"`
	Records    []ToolRecord `json:"records"`
}

// ImportSummary is one entry of the import history. Rejected imports are
// recorded too, with Accepted false.
type ImportSummary struct {
	ImportID     string       `json:"importId"`
	Source       ImportSource `json:"source"`
	FileName     string       `json:"fileName,omitempty"`
	SheetURL     string       `json:"sheetUrl,omitempty"`
	Encoding     string       `json:"encoding"`
	Accepted     bool         `json:"accepted"`
	RowCount     int          `json:"rowCount"`
	ErrorCount   int          `json:"errorCount"`
	WarningCount int          `json:"warningCount"`
	SizeBytes    int64        `json:"sizeBytes"`
	ClientIP     string       `json:"clientIp,omitempty"`
	UserAgent    string       `json:"userAgent,omitempty"`
	ImportedAt   time.Time    `json:"importedAt"`
}

// Summary condenses a finished import for the history.
func (r *ImportResult) Summary(size int64) ImportSummary {
	return ImportSummary{
		ImportID:     r.ImportID,
		Source:       r.Source,
		FileName:     r.FileName,
		SheetURL:     r.SheetURL,
		Encoding:     r.Encoding,
		Accepted:     r.Accepted,
		RowCount:     len(r.Parse.Records),
		ErrorCount:   len(r.Parse.Errors) + len(r.Validation.Errors),
		WarningCount: len(r.Parse.Warnings),
		SizeBytes:    size,
		ImportedAt:   r.ImportedAt,
	}
}
