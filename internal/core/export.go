package core

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportFormat is a report serialization.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
	ExportXLSX ExportFormat = "xlsx"
)

// ParseExportFormat validates a format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ExportCSV, ExportJSON, ExportXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// ContentType returns the MIME type of the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportJSON:
		return "application/json; charset=utf-8"
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// DefaultExportName is the base of exported file names.
const DefaultExportName = "tool-data"

// ExportFileName returns "<base>-<YYYY-MM-DD>.<ext>".
func ExportFileName(base string, f ExportFormat, now time.Time) string {
	if base == "" {
		base = DefaultExportName
	}
	return fmt.Sprintf("%s-%s.%s", base, now.Format("2006-01-02"), f)
}

// exportHeaders is the column order of CSV and XLSX reports. The names are
// accepted by the default aliases, so a report can be imported again.
var exportHeaders = []string{
	"Tool Name",
	"Accounts",
	"Monthly Cost",
	"Yearly Cost",
	"Assigned Person",
	"Category",
	"Guna Honesty Meter",
	"Renewal Date",
	"Notes",
}

func exportRow(r ToolRecord) []string {
	renewal := ""
	if r.RenewalDate != nil {
		renewal = *r.RenewalDate
	}
	return []string{
		r.Name,
		strconv.Itoa(r.Accounts),
		strconv.FormatFloat(r.MonthlyCost, 'f', -1, 64),
		strconv.FormatFloat(r.MonthlyCost*12, 'f', -1, 64),
		r.AssignedPerson,
		string(r.Category),
		strconv.Itoa(r.GunaHonestyMeter),
		renewal,
		r.Notes,
	}
}

// Export writes records in format f.
func Export(w io.Writer, f ExportFormat, records []ToolRecord) error {
	switch f {
	case ExportCSV:
		return WriteCSV(w, records)
	case ExportJSON:
		return WriteJSON(w, records)
	case ExportXLSX:
		return WriteXLSX(w, records)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// WriteCSV writes records as CSV with a header row.
func WriteCSV(w io.Writer, records []ToolRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(exportRow(r)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []ToolRecord) error {
	if records == nil {
		records = []ToolRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteXLSX writes a workbook with a Tools sheet and a Summary sheet.
func WriteXLSX(w io.Writer, records []ToolRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	const toolsSheet = "Tools"
	const summarySheet = "Summary"

	if err := f.SetSheetName("Sheet1", toolsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E7FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("money style: %w", err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(toolsSheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := f.SetCellStyle(toolsSheet, "A1", "I1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range records {
		row := i + 2
		renewal := ""
		if r.RenewalDate != nil {
			renewal = *r.RenewalDate
		}
		values := []any{
			r.Name,
			r.Accounts,
			RoundMoney(r.MonthlyCost),
			RoundMoney(r.MonthlyCost * 12),
			r.AssignedPerson,
			string(r.Category),
			r.GunaHonestyMeter,
			renewal,
			r.Notes,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(toolsSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}
	if len(records) > 0 {
		last := len(records) + 1
		if err := f.SetCellStyle(toolsSheet, "C2", fmt.Sprintf("D%d", last), moneyStyle); err != nil {
			return fmt.Errorf("style money: %w", err)
		}
	}
	_ = f.SetColWidth(toolsSheet, "A", "A", 24)
	_ = f.SetColWidth(toolsSheet, "B", "H", 16)
	_ = f.SetColWidth(toolsSheet, "I", "I", 40)

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	k := ComputeKPIs(records)
	summary := [][]any{
		{"Total Tools", k.TotalTools},
		{"Total Monthly", RoundMoney(k.TotalMonthly)},
		{"Total Yearly", RoundMoney(k.TotalYearly)},
		{"Average Guna Honesty", RoundMoney(k.AverageHonesty)},
		{"Need", k.NeedCount},
		{"Want", k.WantCount},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 24)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
