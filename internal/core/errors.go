package core

import (
	"errors"
	"fmt"
	"strings"
)

// Transport and decode errors. These are fatal for an import and are
// reported before any row is normalized.
var (
	ErrNoFile          = errors.New("no file provided")
	ErrInvalidFileType = errors.New("invalid file type: please upload a CSV file")
	ErrFileTooLarge    = errors.New("file too large")
	ErrEmptyFile       = errors.New("empty file")
	ErrDecode          = errors.New("invalid csv")
	ErrInvalidSheetURL = errors.New("invalid google sheets url")
	ErrSheetFetch      = errors.New("sheet fetch failed")
	ErrNoSheetLinked   = errors.New("no sheet linked")
	ErrTooManyImports  = errors.New("too many imports in progress")
	ErrNoData          = errors.New("no valid data")
)

// ImportRejectedError reports an import whose rows or records did not pass.
// The current record set is left untouched.
type ImportRejectedError struct {
	Result *ImportResult
}

func (e *ImportRejectedError) Error() string {
	var msgs []string
	if e.Result != nil {
		msgs = append(msgs, e.Result.Parse.Errors...)
		msgs = append(msgs, e.Result.Validation.Errors...)
	}
	switch len(msgs) {
	case 0:
		return "import rejected"
	case 1:
		return "import rejected: " + msgs[0]
	default:
		return fmt.Sprintf("import rejected: %s (and %d more)", msgs[0], len(msgs)-1)
	}
}

// Unwrap lets errors.Is(err, ErrNoData) identify an empty import.
func (e *ImportRejectedError) Unwrap() error {
	if e.Result != nil && len(e.Result.Parse.Records) == 0 && len(e.Result.Parse.Errors) == 0 {
		return ErrNoData
	}
	return nil
}

// Messages returns every row and validation message, row errors first.
func (e *ImportRejectedError) Messages() []string {
	if e.Result == nil {
		return nil
	}
	out := make([]string, 0, len(e.Result.Parse.Errors)+len(e.Result.Validation.Errors))
	out = append(out, e.Result.Parse.Errors...)
	out = append(out, e.Result.Validation.Errors...)
	return out
}

// fileTooLarge formats the size-limit error with the configured ceiling.
func fileTooLarge(size, limit int64) error {
	return fmt.Errorf("%w: %s exceeds the %s limit", ErrFileTooLarge, formatBytes(size), formatBytes(limit))
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return strings.TrimSuffix(strings.TrimSuffix(fmt.Sprintf("%.1f", float64(n)/float64(div)), "0"), ".") +
		" " + string("KMGTPE"[exp]) + "B"
}
