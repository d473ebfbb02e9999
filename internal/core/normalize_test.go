package core

import (
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	return opts
}

func closedPeopleOptions() Options {
	opts := testOptions()
	opts.People = PeoplePolicy{Named: []string{"Rudyculous", "Rudraksh"}, Shared: "Both"}
	return opts
}

func TestNormalize_Success(t *testing.T) {
	n := NewNormalizer(testOptions())
	out := n.Normalize(RowOf(
		"Tool Name", " Figma ",
		"Monthly Cost", "$45.00",
		"Accounts", "2",
		"Assigned Person", "Alice",
		"Category", "want",
		"Guna Honesty Meter", "7",
		"Renewal Date", "2025-07-01",
		"Notes", " design ",
		"Billing Cycle", "annual",
	), 1)

	if !out.OK() {
		t.Fatalf("Normalize() failed: %v", out.Err)
	}
	r := out.Record
	if r.Name != "Figma" {
		t.Errorf("Name = %q, want Figma", r.Name)
	}
	if r.MonthlyCost != 45 || r.ActualYearlyCost != 540 {
		t.Errorf("costs = %v/%v, want 45/540", r.MonthlyCost, r.ActualYearlyCost)
	}
	if r.Accounts != 2 {
		t.Errorf("Accounts = %d, want 2", r.Accounts)
	}
	if r.AssignedPerson != "Alice" {
		t.Errorf("AssignedPerson = %q, want Alice", r.AssignedPerson)
	}
	if r.Category != CategoryWant {
		t.Errorf("Category = %q, want Want", r.Category)
	}
	if r.GunaHonestyMeter != 7 {
		t.Errorf("GunaHonestyMeter = %d, want 7", r.GunaHonestyMeter)
	}
	if r.RenewalDate == nil || *r.RenewalDate != "2025-07-01" {
		t.Errorf("RenewalDate = %v, want 2025-07-01", r.RenewalDate)
	}
	if r.Notes != "design" {
		t.Errorf("Notes = %q, want design", r.Notes)
	}
	if r.BillingCycle != BillingYearly {
		t.Errorf("BillingCycle = %q, want yearly", r.BillingCycle)
	}
	if r.IsOverBudget {
		t.Error("IsOverBudget must start false")
	}
	if want := "imported-1-" + "1749988800000"; r.ID != want {
		t.Errorf("ID = %q, want %q", r.ID, want)
	}
	if r.Fingerprint == "" {
		t.Error("Fingerprint is empty")
	}
	if len(out.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", out.Warnings)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	out := NewNormalizer(testOptions()).Normalize(RowOf("Name", "Slack"), 4)
	if !out.OK() {
		t.Fatalf("Normalize() failed: %v", out.Err)
	}
	r := out.Record
	if r.MonthlyCost != 0 {
		t.Errorf("MonthlyCost = %v, want 0 default", r.MonthlyCost)
	}
	if r.Accounts != 1 {
		t.Errorf("Accounts = %d, want 1", r.Accounts)
	}
	if r.AssignedPerson != DefaultPersonName {
		t.Errorf("AssignedPerson = %q, want %q", r.AssignedPerson, DefaultPersonName)
	}
	if r.Category != CategoryNeed {
		t.Errorf("Category = %q, want Need", r.Category)
	}
	if r.GunaHonestyMeter != DefaultHonestyScore {
		t.Errorf("GunaHonestyMeter = %d, want %d", r.GunaHonestyMeter, DefaultHonestyScore)
	}
	if r.RenewalDate != nil {
		t.Errorf("RenewalDate = %v, want nil", *r.RenewalDate)
	}
	if r.Notes != "" {
		t.Errorf("Notes = %q, want empty", r.Notes)
	}
	if !strings.HasPrefix(r.ID, "imported-4-") {
		t.Errorf("ID = %q, want imported-4- prefix", r.ID)
	}
}

func TestNormalize_RenewalDefaultToday(t *testing.T) {
	opts := testOptions()
	opts.RenewalDefaultToday = true

	out := NewNormalizer(opts).Normalize(RowOf("Name", "Slack"), 1)
	if out.Record.RenewalDate == nil || *out.Record.RenewalDate != "2025-06-15" {
		t.Errorf("RenewalDate = %v, want today", out.Record.RenewalDate)
	}
}

func TestNormalize_Failures(t *testing.T) {
	tests := []struct {
		name       string
		row        RawRow
		wantReason string
	}{
		{"no name column", RowOf("Cost", "10"), ReasonNameRequired},
		{"blank name", RowOf("Name", "   ", "Cost", "10"), ReasonNameRequired},
		{"negative cost", RowOf("Name", "X", "Cost", "-1"), ReasonInvalidCost},
		{"accounting negative cost", RowOf("Name", "X", "Cost", "(5.00)"), ReasonInvalidCost},
		{"text cost", RowOf("Name", "X", "Cost", "free"), ReasonInvalidCost},
		{"NaN cost", RowOf("Name", "X", "Cost", "NaN"), ReasonInvalidCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewNormalizer(testOptions()).Normalize(tt.row, 3)
			if out.OK() {
				t.Fatalf("Normalize() succeeded, want %q", tt.wantReason)
			}
			if out.Record != nil {
				t.Error("failed outcome carries a record")
			}
			if out.Err.Reason != tt.wantReason || out.Err.Row != 3 {
				t.Errorf("Err = %+v, want row 3 %q", out.Err, tt.wantReason)
			}
			if got := out.Err.Error(); got != "Row 3: "+tt.wantReason {
				t.Errorf("Error() = %q", got)
			}
		})
	}
}

func TestNormalize_FailureMessagesNameTheField(t *testing.T) {
	n := NewNormalizer(testOptions())
	if out := n.Normalize(RowOf("Cost", "1"), 1); !strings.Contains(strings.ToLower(out.Err.Reason), "name") {
		t.Errorf("missing-name reason %q does not mention name", out.Err.Reason)
	}
	if out := n.Normalize(RowOf("Name", "X", "Cost", "abc"), 1); !strings.Contains(strings.ToLower(out.Err.Reason), "cost") {
		t.Errorf("bad-cost reason %q does not mention cost", out.Err.Reason)
	}
}

func TestNormalize_AccountsNeverFail(t *testing.T) {
	for _, v := range []string{"", "abc", "0", "-3", "2.5", "NaN"} {
		t.Run(v, func(t *testing.T) {
			out := NewNormalizer(testOptions()).Normalize(RowOf("Name", "X", "Accounts", v), 1)
			if !out.OK() {
				t.Fatalf("Normalize() failed on accounts %q: %v", v, out.Err)
			}
			if out.Record.Accounts < 1 {
				t.Errorf("Accounts = %d, want >= 1", out.Record.Accounts)
			}
		})
	}
}

func TestNormalize_HonestyClamp(t *testing.T) {
	tests := []struct {
		input    string
		want     int
		wantWarn bool
	}{
		{"-5", 0, true},
		{"0", 0, false},
		{"10", 10, false},
		{"15", 10, true},
		{"7.8", 7, false},
		{"great", DefaultHonestyScore, true},
		{"1e10", 10, true},
		{"99999999999999999999", 10, true},
		{"1e400", 10, true},
		{"-1e10", 0, true},
		{"-99999999999999999999", 0, true},
		{"-0.5", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out := NewNormalizer(testOptions()).Normalize(RowOf("Name", "X", "Rating", tt.input), 1)
			if got := out.Record.GunaHonestyMeter; got != tt.want {
				t.Errorf("GunaHonestyMeter = %d, want %d", got, tt.want)
			}
			if (len(out.Warnings) > 0) != tt.wantWarn {
				t.Errorf("warnings = %v, wantWarn %v", out.Warnings, tt.wantWarn)
			}
		})
	}
}

func TestNormalize_Category(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{"Want", CategoryWant},
		{"WANT", CategoryWant},
		{"Need", CategoryNeed},
		{"nice to have", CategoryNeed},
		{"Wants", CategoryNeed},
	}
	for _, tt := range tests {
		out := NewNormalizer(testOptions()).Normalize(RowOf("Name", "X", "Type", tt.input), 1)
		if out.Record.Category != tt.want {
			t.Errorf("category %q = %q, want %q", tt.input, out.Record.Category, tt.want)
		}
	}
}

func TestNormalize_ClosedPeople(t *testing.T) {
	tests := []struct {
		input    string
		want     string
		wantWarn bool
	}{
		{"Rudraksh", "Rudraksh", false},
		{"rudyculous", "Rudyculous", false},
		{"both", "Both", false},
		{"Alice", "Rudyculous", true},
		{"", "Rudyculous", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out := NewNormalizer(closedPeopleOptions()).Normalize(RowOf("Name", "X", "Person", tt.input), 1)
			if out.Record.AssignedPerson != tt.want {
				t.Errorf("AssignedPerson = %q, want %q", out.Record.AssignedPerson, tt.want)
			}
			if (len(out.Warnings) > 0) != tt.wantWarn {
				t.Errorf("warnings = %v, wantWarn %v", out.Warnings, tt.wantWarn)
			}
		})
	}
}

func TestNormalize_SatisfiesRecordInvariants(t *testing.T) {
	rows := []RawRow{
		RowOf("Name", "A", "Cost", "0", "Users", "-1", "Rating", "99"),
		RowOf("Tool", "B", "Price", "₹1,000", "Seats", "x", "Honesty", "-4"),
		RowOf("tool_name", "C", "monthly_cost", "12.5"),
	}
	n := NewNormalizer(testOptions())
	for i, row := range rows {
		out := n.Normalize(row, i+1)
		if !out.OK() {
			t.Fatalf("row %d failed: %v", i+1, out.Err)
		}
		r := out.Record
		if r.Name == "" || r.MonthlyCost < 0 || r.Accounts < 1 ||
			r.GunaHonestyMeter < HonestyMin || r.GunaHonestyMeter > HonestyMax {
			t.Errorf("row %d violates invariants: %+v", i+1, r)
		}
	}
}

func TestFingerprint_IgnoresIdentity(t *testing.T) {
	n1 := NewNormalizer(testOptions())
	opts := testOptions()
	opts.Now = func() time.Time { return fixedNow.Add(time.Hour) }
	n2 := NewNormalizer(opts)

	row := RowOf("Name", "Figma", "Cost", "45")
	a := n1.Normalize(row, 1).Record
	b := n2.Normalize(row, 9).Record

	if a.ID == b.ID {
		t.Error("ids should differ across row index and time")
	}
	if a.Fingerprint != b.Fingerprint {
		t.Error("fingerprints should match for identical content")
	}

	c := n1.Normalize(RowOf("Name", "Figma", "Cost", "46"), 1).Record
	if a.Fingerprint == c.Fingerprint {
		t.Error("fingerprints should differ for different cost")
	}
}
