// Package templates renders the dashboard HTML. The components are written
// in the .templ files next to this one; run `templ generate` after editing
// them.
package templates

import (
	"strconv"

	"github.com/JonMunkholm/ToolSpend/internal/core"
)

// DashboardView is everything the dashboard page shows.
type DashboardView struct {
	Dashboard core.Dashboard

	// Tools is the filtered and sorted table; Dashboard.Records is the full set.
	Tools []core.ToolRecord
	Query core.RecordQuery

	Currency core.Currency
	Money    func(usd float64) string

	LinkedSheet string
	People      []string

	// Result and Error are set after a form import.
	Result *core.ImportResult
	Error  *core.UserMessage
}

func (v DashboardView) money(usd float64) string {
	if v.Money == nil {
		return "$" + core.MoneyString(usd)
	}
	return v.Money(usd)
}

var toolColumns = []string{"Tool", "Monthly", "Yearly", "Accounts", "Person", "Category", "Guna Honesty", "Renewal", "Notes"}

var categories = []core.Category{core.CategoryNeed, core.CategoryWant}

type sortOption struct {
	field core.SortField
	label string
}

var sortOptions = []sortOption{
	{core.SortMonthlyCost, "Monthly cost"},
	{core.SortName, "Name"},
	{core.SortHonesty, "Guna honesty"},
	{core.SortAccounts, "Accounts"},
	{core.SortRenewalDate, "Renewal date"},
}

func resultClass(r *core.ImportResult) string {
	if r.Accepted {
		return "alert alert-ok"
	}
	return "alert alert-error"
}

func resultHeading(r *core.ImportResult) string {
	if r.Accepted {
		return "Import complete"
	}
	return "Import rejected"
}

// resultErrors lists row errors followed by batch validation errors.
func resultErrors(r *core.ImportResult) []string {
	out := make([]string, 0, len(r.Parse.Errors)+len(r.Validation.Errors))
	out = append(out, r.Parse.Errors...)
	return append(out, r.Validation.Errors...)
}

func countLabel(n int, label string) string {
	return strconv.Itoa(n) + " " + label
}

func distribution(k core.KPIs) string {
	return strconv.Itoa(k.NeedCount) + " Need / " + strconv.Itoa(k.WantCount) + " Want"
}

func bucketLabel(b core.CategoryBucket) string {
	return string(b.Name) + " (" + strconv.Itoa(b.Value) + ")"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
