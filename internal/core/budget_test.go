package core

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestMarkOverBudget(t *testing.T) {
	records := []ToolRecord{
		recordFor("Cheap", 50, "x", CategoryNeed, 5),
		recordFor("Pricey", 50.01, "x", CategoryNeed, 5),
	}

	marked := MarkOverBudget(records, 50)

	if marked[0].IsOverBudget {
		t.Error("cost equal to budget is not over budget")
	}
	if !marked[1].IsOverBudget {
		t.Error("cost above budget should be over budget")
	}
	if records[1].IsOverBudget {
		t.Error("MarkOverBudget modified its input")
	}
}

func findAlert(alerts []Alert, kind AlertKind) *Alert {
	for i := range alerts {
		if alerts[i].Kind == kind {
			return &alerts[i]
		}
	}
	return nil
}

func TestBudgetAlerts(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	policy := DefaultBudgetPolicy()

	t.Run("quiet when nothing is wrong", func(t *testing.T) {
		alerts := BudgetAlerts([]ToolRecord{recordFor("Slack", 8, "x", CategoryNeed, 7)}, policy, now)
		if len(alerts) != 0 {
			t.Errorf("alerts = %+v, want none", alerts)
		}
	})

	t.Run("budget warning above 80 percent", func(t *testing.T) {
		alerts := BudgetAlerts([]ToolRecord{
			recordFor("A", 45, "x", CategoryNeed, 7),
			recordFor("B", 45, "x", CategoryNeed, 7),
			recordFor("C", 45, "x", CategoryNeed, 7),
			recordFor("D", 45, "x", CategoryNeed, 7),
			recordFor("E", 45, "x", CategoryNeed, 7),
			recordFor("F", 45, "x", CategoryNeed, 7),
		}, policy, now)

		a := findAlert(alerts, AlertBudget)
		if a == nil {
			t.Fatal("missing budget alert")
		}
		if a.Severity != SeverityMedium || a.Title != "Budget Warning" {
			t.Errorf("alert = %+v, want medium Budget Warning", a)
		}
		if a.Description != "90.0% of monthly budget used ($270.00 / $300.00)" {
			t.Errorf("Description = %q", a.Description)
		}
	})

	t.Run("budget exceeded above 100 percent", func(t *testing.T) {
		alerts := BudgetAlerts([]ToolRecord{recordFor("Big", 301, "x", CategoryNeed, 7)}, policy, now)

		a := findAlert(alerts, AlertBudget)
		if a == nil || a.Severity != SeverityHigh || a.Title != "Budget Exceeded" {
			t.Errorf("alert = %+v, want high Budget Exceeded", a)
		}
		if o := findAlert(alerts, AlertOverBudget); o == nil || len(o.Tools) != 1 || o.Tools[0] != "Big" {
			t.Errorf("over budget alert = %+v", o)
		}
	})

	t.Run("renewals inside the window", func(t *testing.T) {
		soon := recordFor("Soon", 5, "x", CategoryNeed, 7)
		soon.RenewalDate = strPtr("2025-07-01")
		today := recordFor("Today", 5, "x", CategoryNeed, 7)
		today.RenewalDate = strPtr("06/15/2025")
		later := recordFor("Later", 5, "x", CategoryNeed, 7)
		later.RenewalDate = strPtr("2025-09-01")
		past := recordFor("Past", 5, "x", CategoryNeed, 7)
		past.RenewalDate = strPtr("2025-06-01")
		junk := recordFor("Junk", 5, "x", CategoryNeed, 7)
		junk.RenewalDate = strPtr("next month")

		a := findAlert(BudgetAlerts([]ToolRecord{soon, today, later, past, junk}, policy, now), AlertRenewal)
		if a == nil {
			t.Fatal("missing renewal alert")
		}
		if len(a.Tools) != 2 || a.Tools[0] != "Soon" || a.Tools[1] != "Today" {
			t.Errorf("renewing tools = %v, want [Soon Today]", a.Tools)
		}
		if a.Description != "2 subscription(s) renewing within 30 days" {
			t.Errorf("Description = %q", a.Description)
		}
	})

	t.Run("renewal window uses UTC calendar days", func(t *testing.T) {
		// 23:30 on June 14 in New York is already June 15 in UTC.
		ny := time.FixedZone("EDT", -4*60*60)
		late := time.Date(2025, 6, 14, 23, 30, 0, 0, ny)

		yesterday := recordFor("Yesterday", 5, "x", CategoryNeed, 7)
		yesterday.RenewalDate = strPtr("2025-06-14")
		today := recordFor("Today", 5, "x", CategoryNeed, 7)
		today.RenewalDate = strPtr("2025-06-15")
		edge := recordFor("Edge", 5, "x", CategoryNeed, 7)
		edge.RenewalDate = strPtr("2025-07-15")

		a := findAlert(BudgetAlerts([]ToolRecord{yesterday, today, edge}, policy, late), AlertRenewal)
		if a == nil {
			t.Fatal("missing renewal alert")
		}
		if len(a.Tools) != 2 || a.Tools[0] != "Today" || a.Tools[1] != "Edge" {
			t.Errorf("renewing tools = %v, want [Today Edge]", a.Tools)
		}
	})

	t.Run("low utility", func(t *testing.T) {
		a := findAlert(BudgetAlerts([]ToolRecord{
			recordFor("Meh", 5, "x", CategoryWant, 4),
			recordFor("Fine", 5, "x", CategoryNeed, 5),
		}, policy, now), AlertUtility)
		if a == nil || len(a.Tools) != 1 || a.Tools[0] != "Meh" || a.Severity != SeverityLow {
			t.Errorf("utility alert = %+v", a)
		}
	})
}
