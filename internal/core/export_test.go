package core

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSourceCSV = "Tool Name,Monthly Cost,Accounts,Assigned Person,Category,Guna Honesty Meter,Renewal Date,Notes\n" +
	"Figma,45.5,2,Alice,Need,8,2025-07-01,\"design, prototyping\"\n" +
	"Netflix,15.49,1,Bob,Want,2,,\n"

func importedRecords(t *testing.T) []ToolRecord {
	t.Helper()
	dec, err := DecodeBytes([]byte(exportSourceCSV))
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	result := ProcessDecoded(dec, testOptions())
	if len(result.Errors) != 0 || len(result.Records) != 2 {
		t.Fatalf("setup import = %+v", result)
	}
	return result.Records
}

func TestParseExportFormat(t *testing.T) {
	for _, s := range []string{"csv", "JSON", " xlsx "} {
		if _, err := ParseExportFormat(s); err != nil {
			t.Errorf("ParseExportFormat(%q) error = %v", s, err)
		}
	}
	if _, err := ParseExportFormat("pdf"); err == nil {
		t.Error("ParseExportFormat(pdf) should fail")
	}
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)
	if got := ExportFileName("", ExportXLSX, now); got != "tool-data-2025-03-09.xlsx" {
		t.Errorf("ExportFileName() = %q", got)
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	records := importedRecords(t)

	var buf bytes.Buffer
	if err := Export(&buf, ExportCSV, records); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	dec, err := DecodeBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("re-decode error = %v", err)
	}
	again := ProcessDecoded(dec, testOptions())

	if len(again.Warnings) != 0 || len(again.Errors) != 0 {
		t.Errorf("re-import warnings=%v errors=%v, want none", again.Warnings, again.Errors)
	}
	if len(again.Records) != len(records) {
		t.Fatalf("got %d records, want %d", len(again.Records), len(records))
	}
	for i := range records {
		if again.Records[i].Fingerprint != records[i].Fingerprint {
			t.Errorf("record %d changed in round trip: %+v vs %+v", i, again.Records[i], records[i])
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := bytes.TrimSpace(buf.Bytes()); string(got) != "[]" {
		t.Errorf("WriteJSON(nil) = %s, want []", got)
	}

	buf.Reset()
	if err := WriteJSON(&buf, importedRecords(t)); err != nil {
		t.Fatal(err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(decoded) != 2 || decoded[0]["name"] != "Figma" {
		t.Errorf("decoded = %v", decoded)
	}
	if _, ok := decoded[1]["renewalDate"]; !ok {
		t.Error("renewalDate must be present, null when absent")
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, importedRecords(t)); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Tools")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus 2", len(rows))
	}
	if rows[0][0] != "Tool Name" || rows[1][0] != "Figma" {
		t.Errorf("rows = %v", rows)
	}

	total, err := f.GetCellValue("Summary", "B1")
	if err != nil || total != "2" {
		t.Errorf("Summary!B1 = %q, %v; want 2", total, err)
	}
}
