package core

import (
	"fmt"
	"time"
)

// BudgetPolicy holds the thresholds the dashboard alerts are computed against.
type BudgetPolicy struct {
	MonthlyBudget   float64
	PerToolBudget   float64
	RenewalWindow   time.Duration
	LowUtilityBelow int
}

// DefaultBudgetPolicy returns the stock thresholds.
func DefaultBudgetPolicy() BudgetPolicy {
	return BudgetPolicy{
		MonthlyBudget:   300,
		PerToolBudget:   50,
		RenewalWindow:   30 * 24 * time.Hour,
		LowUtilityBelow: 5,
	}
}

// AlertKind identifies an alert rule.
type AlertKind string

const (
	AlertBudget     AlertKind = "budget"
	AlertOverBudget AlertKind = "overbudget"
	AlertRenewal    AlertKind = "renewal"
	AlertUtility    AlertKind = "utility"
)

// Severity ranks alerts.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Alert is one dashboard budget alert.
type Alert struct {
	Kind        AlertKind `json:"type"`
	Severity    Severity  `json:"severity"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Action      string    `json:"action"`
	Tools       []string  `json:"tools,omitempty"`
}

// MarkOverBudget returns a copy of records with IsOverBudget set for every
// tool costing more than perTool per month.
func MarkOverBudget(records []ToolRecord, perTool float64) []ToolRecord {
	out := make([]ToolRecord, len(records))
	for i, r := range records {
		r.IsOverBudget = r.MonthlyCost > perTool
		out[i] = r
	}
	return out
}

// BudgetAlerts evaluates the alert rules over records at time now.
func BudgetAlerts(records []ToolRecord, p BudgetPolicy, now time.Time) []Alert {
	var (
		total      float64
		expensive  []string
		renewing   []string
		lowUtility []string
	)
	// Renewal dates parse as UTC midnights, so the window is measured in UTC.
	now = now.UTC()
	horizon := now.Add(p.RenewalWindow)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for _, r := range records {
		total += r.MonthlyCost
		if r.MonthlyCost > p.PerToolBudget {
			expensive = append(expensive, r.Name)
		}
		if r.GunaHonestyMeter < p.LowUtilityBelow {
			lowUtility = append(lowUtility, r.Name)
		}
		if r.RenewalDate != nil {
			if d, ok := ParseDate(*r.RenewalDate); ok && !d.Before(today) && !d.After(horizon) {
				renewing = append(renewing, r.Name)
			}
		}
	}

	alerts := []Alert{}

	if p.MonthlyBudget > 0 {
		usage := total / p.MonthlyBudget * 100
		if usage > 80 {
			a := Alert{
				Kind:        AlertBudget,
				Severity:    SeverityMedium,
				Title:       "Budget Warning",
				Description: fmt.Sprintf("%.1f%% of monthly budget used ($%s / $%s)", usage, MoneyString(total), MoneyString(p.MonthlyBudget)),
				Action:      "Review Spending",
			}
			if usage > 100 {
				a.Severity = SeverityHigh
				a.Title = "Budget Exceeded"
			}
			alerts = append(alerts, a)
		}
	}

	if len(expensive) > 0 {
		alerts = append(alerts, Alert{
			Kind:        AlertOverBudget,
			Severity:    SeverityHigh,
			Title:       "Tools Over Budget",
			Description: fmt.Sprintf("%d tool(s) exceed $%s per tool budget", len(expensive), MoneyString(p.PerToolBudget)),
			Action:      "Review Tools",
			Tools:       expensive,
		})
	}

	if len(renewing) > 0 {
		alerts = append(alerts, Alert{
			Kind:        AlertRenewal,
			Severity:    SeverityMedium,
			Title:       "Upcoming Renewals",
			Description: fmt.Sprintf("%d subscription(s) renewing within %d days", len(renewing), int(p.RenewalWindow.Hours()/24)),
			Action:      "Check Renewals",
			Tools:       renewing,
		})
	}

	if len(lowUtility) > 0 {
		alerts = append(alerts, Alert{
			Kind:        AlertUtility,
			Severity:    SeverityLow,
			Title:       "Low Utility Tools",
			Description: fmt.Sprintf("%d tool(s) with Guna Honesty Score < %d", len(lowUtility), p.LowUtilityBelow),
			Action:      "Review Necessity",
			Tools:       lowUtility,
		})
	}

	return alerts
}
