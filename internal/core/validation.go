package core

// validation.go provides whole-batch validation of parsed records.
//
// Validation happens after every row has been normalized:
//  1. Batch check: the set must not be empty
//  2. Record checks: name, cost, accounts and honesty range per record
//
// Row numbers in messages are 1-based positions within the validated
// slice, not the original spreadsheet rows.

import (
	"fmt"
	"strings"
)

// Validation messages.
const (
	MsgNoData            = "No valid data found in the file"
	MsgNameRequired      = "Tool name is required"
	MsgNegativeCost      = "Monthly cost cannot be negative"
	MsgAccountsTooLow    = "Must have at least 1 account"
	MsgHonestyOutOfRange = "Guna Honesty Meter must be between 0 and 10"
)

// ValidationError represents a single validation error for a record field.
type ValidationError struct {
	Row     int    // 1-based position in the validated slice, 0 for batch errors
	Field   Field  // Logical field, empty for batch errors
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
	}
	return e.Message
}

// ValidateRecords returns every problem found in records.
func ValidateRecords(records []ToolRecord) []ValidationError {
	if len(records) == 0 {
		return []ValidationError{{Message: MsgNoData}}
	}

	var errs []ValidationError
	for i, r := range records {
		row := i + 1
		if strings.TrimSpace(r.Name) == "" {
			errs = append(errs, ValidationError{Row: row, Field: FieldName, Message: MsgNameRequired})
		}
		if r.MonthlyCost < 0 {
			errs = append(errs, ValidationError{Row: row, Field: FieldMonthlyCost, Message: MsgNegativeCost})
		}
		if r.Accounts < 1 {
			errs = append(errs, ValidationError{Row: row, Field: FieldAccounts, Message: MsgAccountsTooLow})
		}
		// Normalized records are already clamped; this guards records that
		// come from storage or from callers building them directly.
		if r.GunaHonestyMeter < HonestyMin || r.GunaHonestyMeter > HonestyMax {
			errs = append(errs, ValidationError{Row: row, Field: FieldHonesty, Message: MsgHonestyOutOfRange})
		}
	}
	return errs
}

// Validate produces the accept/reject verdict for a parsed record set.
// The verdict is valid iff no error was found.
func Validate(records []ToolRecord) ValidationVerdict {
	errs := ValidateRecords(records)
	verdict := ValidationVerdict{
		IsValid: len(errs) == 0,
		Errors:  make([]string, 0, len(errs)),
	}
	for _, e := range errs {
		verdict.Errors = append(verdict.Errors, e.Error())
	}
	return verdict
}
