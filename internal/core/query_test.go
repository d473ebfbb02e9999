package core

import (
	"slices"
	"testing"
)

func names(records []ToolRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestQueryRecords(t *testing.T) {
	records := []ToolRecord{
		recordFor("Figma", 45, "Alice", CategoryNeed, 8),
		recordFor("Netflix", 15.5, "Bob", CategoryWant, 2),
		recordFor("figjam", 5, "Alice", CategoryWant, 6),
		recordFor("Slack", 45, "Both", CategoryNeed, 9),
	}
	records[0].RenewalDate = strPtr("2026-03-01")
	records[3].RenewalDate = strPtr("2026-01-15")

	tests := []struct {
		name  string
		query RecordQuery
		want  []string
	}{
		{"default order", DefaultRecordQuery(), []string{"Figma", "Slack", "Netflix", "figjam"}},
		{"zero value ascending cost", RecordQuery{}, []string{"figjam", "Netflix", "Figma", "Slack"}},
		{"search is case-insensitive", RecordQuery{Search: "FIG", Sort: SortName}, []string{"figjam", "Figma"}},
		{"person filter", RecordQuery{Person: "Alice", Sort: SortHonesty, Desc: true}, []string{"Figma", "figjam"}},
		{"category filter", RecordQuery{Category: CategoryWant, Sort: SortAccounts}, []string{"Netflix", "figjam"}},
		{"renewal date nil first", RecordQuery{Sort: SortRenewalDate}, []string{"Netflix", "figjam", "Slack", "Figma"}},
		{"no match", RecordQuery{Search: "zoom"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(QueryRecords(records, tt.query))
			if !slices.Equal(got, tt.want) {
				t.Errorf("QueryRecords() = %v, want %v", got, tt.want)
			}
		})
	}

	if records[0].Name != "Figma" || records[2].Name != "figjam" {
		t.Error("QueryRecords modified its input")
	}
}

func TestParseSortField(t *testing.T) {
	if f, err := ParseSortField(""); err != nil || f != SortMonthlyCost {
		t.Errorf(`ParseSortField("") = %q, %v`, f, err)
	}
	if f, err := ParseSortField("renewalDate"); err != nil || f != SortRenewalDate {
		t.Errorf("ParseSortField(renewalDate) = %q, %v", f, err)
	}
	if _, err := ParseSortField("price"); err == nil {
		t.Error("ParseSortField(price) should fail")
	}
}
