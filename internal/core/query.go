package core

import (
	"fmt"
	"slices"
	"strings"
)

// SortField is a sortable tool table column.
type SortField string

const (
	SortName        SortField = "name"
	SortMonthlyCost SortField = "monthlyCost"
	SortHonesty     SortField = "gunaHonestyMeter"
	SortAccounts    SortField = "accounts"
	SortRenewalDate SortField = "renewalDate"
)

// RecordQuery filters and orders the tool table. Empty fields match
// everything; the zero value sorts by monthly cost, highest first.
type RecordQuery struct {
	Search   string
	Person   string
	Category Category
	Sort     SortField
	Desc     bool
}

// DefaultRecordQuery returns the table's initial ordering.
func DefaultRecordQuery() RecordQuery {
	return RecordQuery{Sort: SortMonthlyCost, Desc: true}
}

// ParseSortField validates a column name. Empty means monthly cost.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.TrimSpace(s)); f {
	case "":
		return SortMonthlyCost, nil
	case SortName, SortMonthlyCost, SortHonesty, SortAccounts, SortRenewalDate:
		return f, nil
	default:
		return "", fmt.Errorf("unknown sort field %q", s)
	}
}

// QueryRecords returns the records matching q in the requested order.
// The input is not modified. Ties keep their import order.
func QueryRecords(records []ToolRecord, q RecordQuery) []ToolRecord {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]ToolRecord, 0, len(records))
	for _, r := range records {
		if search != "" && !strings.Contains(strings.ToLower(r.Name), search) {
			continue
		}
		if q.Person != "" && r.AssignedPerson != q.Person {
			continue
		}
		if q.Category != "" && r.Category != q.Category {
			continue
		}
		out = append(out, r)
	}

	field := q.Sort
	if field == "" {
		field = SortMonthlyCost
	}
	slices.SortStableFunc(out, func(a, b ToolRecord) int {
		c := compareBy(field, a, b)
		if q.Desc {
			return -c
		}
		return c
	})
	return out
}

func compareBy(field SortField, a, b ToolRecord) int {
	switch field {
	case SortName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case SortHonesty:
		return a.GunaHonestyMeter - b.GunaHonestyMeter
	case SortAccounts:
		return a.Accounts - b.Accounts
	case SortRenewalDate:
		return strings.Compare(deref(a.RenewalDate), deref(b.RenewalDate))
	default:
		switch {
		case a.MonthlyCost < b.MonthlyCost:
			return -1
		case a.MonthlyCost > b.MonthlyCost:
			return 1
		}
		return 0
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
