package core

// aliases.go resolves logical fields against whatever headers a spreadsheet
// happens to use.
//
// Each field has an ordered alias list. Earlier aliases win, so canonical
// spellings beat looser synonyms. Every alias is tried as an exact key
// first and then case-insensitively against the row's own headers.

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

// Field names a logical ToolRecord input.
type Field string

const (
	FieldName           Field = "name"
	FieldMonthlyCost    Field = "monthlyCost"
	FieldAccounts       Field = "accounts"
	FieldAssignedPerson Field = "assignedPerson"
	FieldCategory       Field = "category"
	FieldHonesty        Field = "gunaHonestyMeter"
	FieldRenewalDate    Field = "renewalDate"
	FieldNotes          Field = "notes"
	FieldBillingCycle   Field = "billingCycle"
)

// Fields lists every logical field in display order.
var Fields = []Field{
	FieldName,
	FieldMonthlyCost,
	FieldAccounts,
	FieldAssignedPerson,
	FieldCategory,
	FieldHonesty,
	FieldRenewalDate,
	FieldNotes,
	FieldBillingCycle,
}

// FieldAliasSet maps each field to its ordered alias list.
type FieldAliasSet map[Field][]string

// DefaultAliases returns the built-in header vocabulary.
func DefaultAliases() FieldAliasSet {
	return FieldAliasSet{
		FieldName:           {"Tool Name", "Name", "tool_name", "toolname", "Tool"},
		FieldMonthlyCost:    {"Monthly Cost", "monthly_cost", "monthlycost", "Cost", "Price"},
		FieldAccounts:       {"Accounts", "Account", "Users", "Seats"},
		FieldAssignedPerson: {"Assigned Person", "Person", "assigned_person", "assignedperson", "Owner"},
		FieldCategory:       {"Category", "Type"},
		FieldHonesty:        {"Guna Honesty Meter", "Guna Honesty", "Honesty", "Rating"},
		FieldRenewalDate:    {"Renewal Date", "renewal_date", "renewaldate", "Expiry", "Expiry Date"},
		FieldNotes:          {"Notes", "Description", "Comment", "Comments"},
		FieldBillingCycle:   {"Billing Cycle", "Billing", "billing_cycle", "Billing Schedule"},
	}
}

// Resolve returns the trimmed value of the first alias that yields a
// non-blank cell.
func Resolve(row RawRow, aliases []string) (string, bool) {
	for _, alias := range aliases {
		if v, ok := row.Get(alias); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v, true
			}
		}
		for _, key := range row.Keys() {
			if key == alias || !strings.EqualFold(key, alias) {
				continue
			}
			v, _ := row.Get(key)
			if v = strings.TrimSpace(v); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// Lookup resolves one field of row.
func (s FieldAliasSet) Lookup(row RawRow, f Field) (string, bool) {
	return Resolve(row, s[f])
}

// Merge returns a new set where overrides are tried before the existing
// aliases of the same field. Duplicates are dropped case-insensitively.
func (s FieldAliasSet) Merge(overrides FieldAliasSet) FieldAliasSet {
	out := make(FieldAliasSet, len(Fields))
	for _, f := range Fields {
		seen := make(map[string]bool)
		var list []string
		for _, a := range append(append([]string(nil), overrides[f]...), s[f]...) {
			a = strings.TrimSpace(a)
			key := strings.ToLower(a)
			if a == "" || seen[key] {
				continue
			}
			seen[key] = true
			list = append(list, a)
		}
		out[f] = list
	}
	return out
}

// LoadAliases reads alias overrides from a YAML file of the form
//
//	monthlyCost: ["Spend", "Monthly"]
//	name: ["App"]
//
// and merges them over the defaults.
func LoadAliases(path string) (FieldAliasSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}
	return ParseAliases(data)
}

// ParseAliases parses YAML alias overrides and merges them over the defaults.
func ParseAliases(data []byte) (FieldAliasSet, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse alias file: %w", err)
	}

	known := make(map[string]Field, len(Fields))
	for _, f := range Fields {
		known[strings.ToLower(string(f))] = f
	}

	overrides := make(FieldAliasSet, len(raw))
	var unknown []string
	for name, aliases := range raw {
		f, ok := known[strings.ToLower(name)]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		overrides[f] = aliases
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown fields in alias file: %s", strings.Join(unknown, ", "))
	}

	return DefaultAliases().Merge(overrides), nil
}

// derivedHeaders are columns written by exports that hold computed values.
// They are ignored on import without a hint.
var derivedHeaders = map[string]bool{
	"yearly cost":      true,
	"actualyearlycost": true,
	"isoverbudget":     true,
	"id":               true,
	"fingerprint":      true,
}

// HeaderHint describes a source header that no alias recognises.
type HeaderHint struct {
	Header     string
	Suggestion string // closest known alias, empty when nothing is close
}

func (h HeaderHint) String() string {
	if h.Suggestion == "" {
		return fmt.Sprintf("Column %q is not recognised and will be ignored", h.Header)
	}
	return fmt.Sprintf("Column %q is not recognised; did you mean %q?", h.Header, h.Suggestion)
}

// UnmappedHeaders reports headers that match no alias of any field.
func (s FieldAliasSet) UnmappedHeaders(headers []string) []HeaderHint {
	var all []string
	known := make(map[string]bool)
	for _, f := range Fields {
		for _, a := range s[f] {
			known[strings.ToLower(a)] = true
			all = append(all, a)
		}
	}

	var hints []HeaderHint
	for _, h := range headers {
		if h == "" || known[strings.ToLower(h)] || derivedHeaders[strings.ToLower(h)] {
			continue
		}
		hints = append(hints, HeaderHint{Header: h, Suggestion: closestAlias(h, all)})
	}
	return hints
}

// closestAlias returns the alias with the smallest edit distance to header,
// or "" when even the best candidate needs too many edits.
func closestAlias(header string, aliases []string) string {
	h := strings.ToLower(header)
	limit := len(h) / 3
	if limit < 2 {
		limit = 2
	}

	best, bestDist := "", limit+1
	for _, a := range aliases {
		d := levenshtein.ComputeDistance(h, strings.ToLower(a))
		if d < bestDist {
			best, bestDist = a, d
		}
	}
	return best
}
