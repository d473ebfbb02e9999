package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Row failure reasons.
const (
	ReasonNameRequired = "Tool name is required"
	ReasonInvalidCost  = "Invalid monthly cost"
)

// RowError is a recoverable failure of a single row.
type RowError struct {
	Row    int // 1-based data row index
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Reason)
}

// RowOutcome is the result of normalizing one row: exactly one of Record
// and Err is set. Warnings may accompany either.
type RowOutcome struct {
	Record   *ToolRecord
	Err      *RowError
	Warnings []string
}

// OK reports whether the row produced a record.
func (o RowOutcome) OK() bool {
	return o.Err == nil && o.Record != nil
}

// Normalizer maps resolved rows into ToolRecords under a fixed set of options.
type Normalizer struct {
	opts Options
}

// NewNormalizer creates a Normalizer. Zero-valued options fall back to defaults.
func NewNormalizer(opts Options) *Normalizer {
	return &Normalizer{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (n *Normalizer) Options() Options {
	return n.opts
}

// Normalize converts row into a ToolRecord. rowIndex is the 1-based data
// row number used in the id and in any error.
func (n *Normalizer) Normalize(row RawRow, rowIndex int) RowOutcome {
	var out RowOutcome
	warn := func(format string, args ...any) {
		out.Warnings = append(out.Warnings, fmt.Sprintf(format, args...))
	}
	fail := func(reason string) RowOutcome {
		out.Err = &RowError{Row: rowIndex, Reason: reason}
		return out
	}

	aliases := n.opts.Aliases

	name, ok := aliases.Lookup(row, FieldName)
	if !ok {
		return fail(ReasonNameRequired)
	}

	costText, ok := aliases.Lookup(row, FieldMonthlyCost)
	if !ok {
		costText = "0"
	}
	cost, err := ParseMoney(costText)
	if err != nil || cost < 0 {
		return fail(ReasonInvalidCost)
	}

	accounts := 1
	if v, ok := aliases.Lookup(row, FieldAccounts); ok {
		parsed, err := ParseCount(v)
		switch {
		case err != nil:
			warn("Accounts %q is not a number, using 1", v)
		case parsed < 1:
			warn("Accounts %d is below 1, using 1", parsed)
		default:
			accounts = parsed
		}
	}

	person := n.opts.People.DefaultPerson()
	if v, ok := aliases.Lookup(row, FieldAssignedPerson); ok {
		coerced, matched := n.opts.People.Coerce(v)
		if !matched {
			warn("Assigned person %q is not recognised, using %s", v, coerced)
		}
		person = coerced
	}

	category := n.opts.DefaultCategory
	if v, ok := aliases.Lookup(row, FieldCategory); ok {
		if strings.EqualFold(v, string(CategoryWant)) {
			category = CategoryWant
		} else {
			category = CategoryNeed
			if !strings.EqualFold(v, string(CategoryNeed)) {
				warn("Category %q is not Need or Want, using Need", v)
			}
		}
	}

	honesty := n.opts.DefaultHonesty
	if v, ok := aliases.Lookup(row, FieldHonesty); ok {
		parsed, err := ParseScore(v)
		if err != nil {
			warn("Guna Honesty Meter %q is not a number, using %d", v, honesty)
		} else {
			honesty = ClampScore(parsed, HonestyMin, HonestyMax)
			if float64(honesty) != math.Trunc(parsed) {
				warn("Guna Honesty Meter %s clamped to %d", v, honesty)
			}
		}
	}

	var renewal *string
	if v, ok := aliases.Lookup(row, FieldRenewalDate); ok {
		renewal = &v
	} else if n.opts.RenewalDefaultToday {
		today := n.opts.Now().Format("2006-01-02")
		renewal = &today
	}

	notes, _ := aliases.Lookup(row, FieldNotes)

	billing := BillingUnspecified
	if v, ok := aliases.Lookup(row, FieldBillingCycle); ok {
		cycle, known := ParseBillingCycle(v)
		if !known {
			warn("Billing cycle %q is not recognised", v)
		}
		billing = cycle
	}

	rec := ToolRecord{
		ID:               fmt.Sprintf("imported-%d-%d", rowIndex, n.opts.Now().UnixMilli()),
		Name:             name,
		MonthlyCost:      cost,
		Accounts:         accounts,
		AssignedPerson:   person,
		Category:         category,
		GunaHonestyMeter: honesty,
		RenewalDate:      renewal,
		Notes:            notes,
		BillingCycle:     billing,
		ActualYearlyCost: cost * 12,
		IsOverBudget:     false,
	}
	rec.Fingerprint = Fingerprint(rec)

	out.Record = &rec
	return out
}

// Fingerprint hashes the normalized content fields of r. Records that
// describe the same tool the same way share a fingerprint regardless of
// row position or import time.
func Fingerprint(r ToolRecord) string {
	renewal := ""
	if r.RenewalDate != nil {
		renewal = *r.RenewalDate
	}
	h := sha256.New()
	for _, part := range []string{
		strings.ToLower(r.Name),
		strconv.FormatFloat(r.MonthlyCost, 'f', -1, 64),
		strconv.Itoa(r.Accounts),
		strings.ToLower(r.AssignedPerson),
		string(r.Category),
		strconv.Itoa(r.GunaHonestyMeter),
		renewal,
		r.Notes,
		string(r.BillingCycle),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
