package core

// convert.go turns raw spreadsheet cells into typed values.
//
// These functions handle the messy reality of user-provided CSV data:
//   - Currency symbols, thousand separators and accounting negatives
//   - Integers written as decimals ("2.0")
//   - Multiple date formats (US, EU, ISO, etc.)
//   - Excel formula prefixes (="value")

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// HonestyMin and HonestyMax bound the Guna Honesty Meter.
const (
	HonestyMin = 0
	HonestyMax = 10
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// moneyStripper removes currency symbols and grouping characters.
var moneyStripper = strings.NewReplacer(
	"$", "",
	"€", "", // Euro
	"£", "", // Pound
	"₹", "", // Rupee
	"¥", "", // Yen
	",", "",
	" ", "",
	" ", "", // NBSP
)

var errNotNumeric = errors.New("not a number")

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "January 2, 2006", "2 Jan 2006",
		"20060102",
		time.RFC3339,
	}
)

// ParseMoney parses a cost cell. Currency symbols, thousands separators
// and spaces are removed; "(12.50)" is read as -12.50. NaN and infinities
// are rejected.
func ParseMoney(s string) (float64, error) {
	s = CleanCell(s)

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = s[1 : len(s)-1]
	}

	s = moneyStripper.Replace(s)
	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, errNotNumeric
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotNumeric
	}
	return v, nil
}

// ParseCount parses an integer cell. Decimal input is truncated toward zero
// and grouping commas are ignored.
func ParseCount(s string) (int, error) {
	s = strings.ReplaceAll(CleanCell(s), ",", "")
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	if !numericRegex.MatchString(s) {
		return 0, errNotNumeric
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, errNotNumeric
	}
	return int(f), nil
}

// ParseScore parses a numeric cell that will be clamped into a range.
// Values beyond float64 saturate to an infinity instead of failing.
func ParseScore(s string) (float64, error) {
	s = strings.ReplaceAll(CleanCell(s), ",", "")
	if !numericRegex.MatchString(s) {
		return 0, errNotNumeric
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, errNotNumeric
	}
	return f, nil
}

// ClampScore truncates f toward zero and clamps it into [lo, hi].
func ClampScore(f float64, lo, hi int) int {
	f = math.Trunc(f)
	if f < float64(lo) {
		return lo
	}
	if f > float64(hi) {
		return hi
	}
	return int(f)
}

// ParseDate parses a date cell in any supported layout.
// Two-digit years are resolved relative to the current year.
func ParseDate(s string) (time.Time, bool) {
	s = CleanCell(s)
	if s == "" {
		return time.Time{}, false
	}

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	// Try 2-digit year layouts with pivot year adjustment
	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseBillingCycle maps free text to a BillingCycle.
func ParseBillingCycle(s string) (BillingCycle, bool) {
	switch strings.ToLower(CleanCell(s)) {
	case "":
		return BillingUnspecified, true
	case "monthly", "month", "m", "mo":
		return BillingMonthly, true
	case "yearly", "annual", "annually", "year", "y", "yr":
		return BillingYearly, true
	default:
		return BillingUnspecified, false
	}
}

// ClampInt bounds v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}
