// Package core provides the business logic for tool-spend imports.
//
// This package is the heart of the importer, containing all domain logic
// independent of any UI or transport layer. It can be used by web handlers,
// CLI tools, or tests without modification.
//
// # Pipeline
//
// An import runs five stages, leaf to root:
//
//  1. [Decode] turns CSV bytes into header-keyed [RawRow] values
//  2. [Resolve] finds a logical field under any of its header aliases
//  3. [Normalizer] maps one row to a [ToolRecord] or a [RowError]
//  4. [Process] folds every row into a [ParseResult]; bad rows never abort
//  5. [Validate] produces the whole-batch [ValidationVerdict]
//
// [ComputeKPIs] and [ComputeChartGroups] then derive dashboard figures from
// the accepted records, and [BudgetAlerts] evaluates the alert rules.
//
// # Defaults
//
// Every default the pipeline applies (person, category, honesty score,
// header aliases, clock) travels in an explicit [Options] value:
//
//	opts := core.DefaultOptions()
//	opts.People = core.PeoplePolicy{Named: []string{"Rudyculous", "Rudraksh"}, Shared: "Both"}
//	result := core.Process(rows, opts)
//
// # Service
//
// [Service] wraps the pipeline with transport pre-checks, a concurrency
// limit, Google Sheets fetching and a [Store]. A successful import replaces
// the current record set whole; a rejected one leaves it untouched.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE006: File errors (size, type, encoding, syntax)
//   - SHEET001-SHEET003: Google Sheets errors (link, fetch, refresh)
//   - VAL001-VAL002: Validation errors (no data, rejected rows)
//   - IMP001-IMP003: Import errors (busy, cancelled, timeout)
//   - DB001-DB003: Database errors (connections)
package core
