package core

import "fmt"

// Process normalizes every row in source order. A failing row becomes a
// "Row <n>: <reason>" message and processing continues, so the result is
// a fold over per-row outcomes and never aborts.
func Process(rows []RawRow, opts Options) ParseResult {
	n := NewNormalizer(opts)

	result := ParseResult{
		Records:  make([]ToolRecord, 0, len(rows)),
		Errors:   []string{},
		Warnings: []string{},
	}

	firstSeen := make(map[string]int)
	for i, row := range rows {
		rowIndex := i + 1
		outcome := n.Normalize(row, rowIndex)

		for _, w := range outcome.Warnings {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Row %d: %s", rowIndex, w))
		}

		if !outcome.OK() {
			result.Errors = append(result.Errors, outcome.Err.Error())
			continue
		}

		rec := *outcome.Record
		if prev, dup := firstSeen[rec.Fingerprint]; dup {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Row %d: duplicates row %d (%s)", rowIndex, prev, rec.Name))
		} else {
			firstSeen[rec.Fingerprint] = rowIndex
		}
		result.Records = append(result.Records, rec)
	}

	return result
}

// ProcessDecoded runs Process over a decode result and folds in the
// decoder's warnings and hints for unrecognised headers.
func ProcessDecoded(dec *DecodeResult, opts Options) ParseResult {
	opts = opts.withDefaults()
	result := Process(dec.Rows, opts)

	var pre []string
	pre = append(pre, dec.Warnings...)
	for _, hint := range opts.Aliases.UnmappedHeaders(dec.Headers) {
		pre = append(pre, hint.String())
	}
	if len(pre) > 0 {
		result.Warnings = append(pre, result.Warnings...)
	}
	return result
}
