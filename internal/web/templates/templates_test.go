package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/ToolSpend/internal/core"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestErrorAlert(t *testing.T) {
	got := render(t, ErrorAlert("File <too> large", "Split the sheet", "FILE001"))
	for _, want := range []string{"File &lt;too&gt; large", "Split the sheet", "FILE001", `role="alert"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestImportResult(t *testing.T) {
	t.Run("nil renders nothing", func(t *testing.T) {
		if got := render(t, ImportResult(nil)); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})

	t.Run("rejected lists errors", func(t *testing.T) {
		result := &core.ImportResult{
			FileName:  "tools.csv",
			Encoding:  "utf-8",
			TotalRows: 3,
			Parse: core.ParseResult{
				Records:  []core.ToolRecord{{Name: "Figma"}},
				Errors:   []string{"Row 2: Tool name is required"},
				Warnings: []string{"Row 3: accounts coerced to 1"},
			},
		}
		got := render(t, ImportResult(result))
		for _, want := range []string{"Import rejected", "1 of 3 rows", "tools.csv", "Errors (1)", "Row 2: Tool name is required", "Warnings (1)"} {
			if !strings.Contains(got, want) {
				t.Errorf("output missing %q:\n%s", want, got)
			}
		}
	})
}

func TestDashboardPage(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		got := render(t, DashboardPage(DashboardView{Currency: core.USD}))
		if !strings.Contains(got, "No tools imported yet") || !strings.HasPrefix(got, "<!doctype html>") {
			t.Errorf("unexpected empty dashboard:\n%s", got)
		}
	})

	t.Run("with records", func(t *testing.T) {
		renewal := "2026-01-15"
		records := []core.ToolRecord{
			{Name: "Adobe <CC>", MonthlyCost: 60, ActualYearlyCost: 720, Accounts: 2, AssignedPerson: "Alice",
				Category: core.CategoryNeed, GunaHonestyMeter: 3, RenewalDate: &renewal, IsOverBudget: true},
			{Name: "Netflix", MonthlyCost: 15.5, ActualYearlyCost: 186, Accounts: 1, AssignedPerson: "Bob",
				Category: core.CategoryWant, GunaHonestyMeter: 2},
		}
		v := DashboardView{
			Dashboard: core.Dashboard{
				Snapshot: &core.Snapshot{ImportID: "imp-1", Source: core.SourceCSV, ImportedAt: time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)},
				Records:  records,
				KPIs:     core.ComputeKPIs(records),
				Alerts:   []core.Alert{{Severity: core.SeverityHigh, Title: "Over budget", Description: "1 tool"}},
			},
			Tools:       records,
			Query:       core.RecordQuery{Person: "Bob", Sort: core.SortName},
			Currency:    core.USD,
			People:      []string{"Alice", "Bob"},
			LinkedSheet: "https://docs.google.com/spreadsheets/d/abc/edit",
		}
		got := render(t, DashboardPage(v))
		for _, want := range []string{
			"Total Monthly Cost", "$75.50", "$906.00",
			"Adobe &lt;CC&gt;", `class="over"`, "2026-01-15",
			"alert-high", "Over budget",
			`<option value="Bob" selected>`, `<option value="name" selected>`,
			`action="/import/refresh"`, "imp-1",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("custom money formatter", func(t *testing.T) {
		records := []core.ToolRecord{{Name: "Slack", MonthlyCost: 10}}
		v := DashboardView{
			Dashboard: core.Dashboard{Snapshot: &core.Snapshot{}, Records: records, KPIs: core.ComputeKPIs(records)},
			Tools:     records,
			Currency:  core.INR,
			Money:     func(usd float64) string { return "₹" + core.MoneyString(usd*2) },
		}
		got := render(t, Dashboard(v))
		if !strings.Contains(got, "₹20.00") {
			t.Errorf("output missing converted amount:\n%s", got)
		}
		if !strings.Contains(got, `<strong>INR</strong>`) {
			t.Error("current currency should be highlighted")
		}
	})
}

func TestToolsTableRowClasses(t *testing.T) {
	records := []core.ToolRecord{
		{Name: "Pricey", MonthlyCost: 80, IsOverBudget: true},
		{Name: "Cheap", MonthlyCost: 5},
	}
	got := render(t, toolsTable(DashboardView{Tools: records, Currency: core.USD}))

	if n := strings.Count(got, `<tr class="over">`); n != 1 {
		t.Errorf("over-budget rows = %d, want 1:\n%s", n, got)
	}
	if !strings.Contains(got, `<td>Cheap</td>`) || !strings.Contains(got, `<td>-</td>`) {
		t.Errorf("output missing plain row or dash placeholder:\n%s", got)
	}
	if !strings.Contains(got, `<input type="hidden" name="currency" value="USD">`) {
		t.Errorf("filter form should keep the currency:\n%s", got)
	}
}

func TestRenderStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := DashboardPage(DashboardView{}).Render(ctx, &buf); err == nil {
		t.Error("Render() error = nil, want context error")
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes after cancellation", buf.Len())
	}
}
