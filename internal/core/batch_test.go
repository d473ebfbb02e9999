package core

import (
	"strings"
	"testing"
)

func TestProcess_RowErrorDoesNotAbortBatch(t *testing.T) {
	rows := []RawRow{
		RowOf("Name", "One", "Cost", "1"),
		RowOf("Name", "Two", "Cost", "2"),
		RowOf("Name", "Three", "Cost", "-3"),
		RowOf("Name", "Four", "Cost", "4"),
		RowOf("Name", "Five", "Cost", "5"),
	}

	result := Process(rows, testOptions())

	if len(result.Records) != 4 {
		t.Fatalf("got %d records, want 4", len(result.Records))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(result.Errors), result.Errors)
	}
	if !strings.HasPrefix(result.Errors[0], "Row 3:") {
		t.Errorf("error = %q, want it to reference row 3", result.Errors[0])
	}

	wantOrder := []string{"One", "Two", "Four", "Five"}
	for i, want := range wantOrder {
		if result.Records[i].Name != want {
			t.Errorf("record %d = %q, want %q", i, result.Records[i].Name, want)
		}
	}
}

func TestProcess_EndToEndFigma(t *testing.T) {
	rows := []RawRow{
		RowOf("name", "Figma", "cost", "$45.00", "accounts", "2", "person", "Alice"),
		RowOf("name", "", "cost", "10"),
	}

	result := Process(rows, testOptions())

	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	r := result.Records[0]
	if r.Name != "Figma" || r.MonthlyCost != 45 || r.Accounts != 2 || r.AssignedPerson != "Alice" {
		t.Errorf("record = %+v", r)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "name") {
		t.Errorf("errors = %v, want one citing the missing name", result.Errors)
	}
	if result.Errors[0] != "Row 2: Tool name is required" {
		t.Errorf("error = %q", result.Errors[0])
	}
}

func TestProcess_TotalFailureIsValidOutcome(t *testing.T) {
	result := Process([]RawRow{RowOf("Cost", "1"), RowOf("Cost", "2")}, testOptions())

	if result.Records == nil || len(result.Records) != 0 {
		t.Errorf("Records = %v, want empty non-nil", result.Records)
	}
	if len(result.Errors) != 2 {
		t.Errorf("Errors = %v, want 2", result.Errors)
	}
}

func TestProcess_EmptyInput(t *testing.T) {
	result := Process(nil, testOptions())
	if result.Records == nil || result.Errors == nil || result.Warnings == nil {
		t.Errorf("slices must be non-nil: %+v", result)
	}
}

func TestProcess_WarningsArePrefixedAndDuplicatesFlagged(t *testing.T) {
	rows := []RawRow{
		RowOf("Name", "Figma", "Cost", "45"),
		RowOf("Name", "Slack", "Cost", "8", "Rating", "12"),
		RowOf("Name", "figma", "Cost", "45.00"),
	}

	result := Process(rows, testOptions())

	if len(result.Records) != 3 {
		t.Fatalf("duplicates must still be imported, got %d records", len(result.Records))
	}
	joined := strings.Join(result.Warnings, "\n")
	if !strings.Contains(joined, "Row 2: Guna Honesty Meter 12 clamped to 10") {
		t.Errorf("missing clamp warning in %q", joined)
	}
	if !strings.Contains(joined, "Row 3: duplicates row 1 (figma)") {
		t.Errorf("missing duplicate warning in %q", joined)
	}
}

func TestProcess_OptionsAreExplicit(t *testing.T) {
	rows := []RawRow{RowOf("Name", "Figma")}

	opts := testOptions()
	opts.People = PeoplePolicy{Default: "Finance"}
	opts.DefaultCategory = CategoryWant
	opts.DefaultHonesty = 8

	r := Process(rows, opts).Records[0]
	if r.AssignedPerson != "Finance" || r.Category != CategoryWant || r.GunaHonestyMeter != 8 {
		t.Errorf("record = %+v, want configured defaults", r)
	}
}

func TestProcessDecoded_IncludesDecoderAndHeaderWarnings(t *testing.T) {
	dec, err := DecodeBytes([]byte("Tool Name,Monthly Cots\nFigma,45,extra\n"))
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}

	result := ProcessDecoded(dec, testOptions())

	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	if result.Records[0].MonthlyCost != 0 {
		t.Errorf("misspelled cost column should not resolve, got %v", result.Records[0].MonthlyCost)
	}
	joined := strings.Join(result.Warnings, "\n")
	if !strings.Contains(joined, "extra cells ignored") {
		t.Errorf("missing decoder warning in %q", joined)
	}
	if !strings.Contains(joined, `did you mean "Monthly Cost"`) {
		t.Errorf("missing header hint in %q", joined)
	}
}
