package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "wrapped file too large",
			err:         fileTooLarge(12<<20, 10<<20),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum size limit",
		},
		{
			name:        "decode error",
			err:         fmt.Errorf("%w: line 3: bare \" in non-quoted field", ErrDecode),
			wantCode:    "FILE002",
			wantMessage: "The file could not be read as CSV",
		},
		{
			name:        "transcode error wins over generic decode",
			err:         fmt.Errorf("%w: transcode utf-16le: short input", ErrDecode),
			wantCode:    "FILE003",
			wantMessage: "File contains characters that could not be read",
		},
		{
			name:        "empty file",
			err:         ErrEmptyFile,
			wantCode:    "FILE005",
			wantMessage: "The uploaded file is empty",
		},
		{
			name:        "wrong file type",
			err:         fmt.Errorf("%w: tools.xlsx", ErrInvalidFileType),
			wantCode:    "FILE006",
			wantMessage: "Please upload a CSV file",
		},
		{
			name:        "invalid sheet url",
			err:         fmt.Errorf("%w: %q", ErrInvalidSheetURL, "https://example.com"),
			wantCode:    "SHEET001",
			wantMessage: "Please enter a valid Google Sheets URL",
		},
		{
			name:        "sheet fetch",
			err:         fmt.Errorf("%w: status 404", ErrSheetFetch),
			wantCode:    "SHEET002",
			wantMessage: "Failed to fetch Google Sheets data",
		},
		{
			name:        "empty import is no data",
			err:         &ImportRejectedError{Result: &ImportResult{}},
			wantCode:    "VAL001",
			wantMessage: MsgNoData,
		},
		{
			name: "row errors reject",
			err: &ImportRejectedError{Result: &ImportResult{
				Parse: ParseResult{Errors: []string{"Row 2: Tool name is required"}},
			}},
			wantCode:    "VAL002",
			wantMessage: "Some rows could not be imported",
		},
		{
			name:        "limiter busy",
			err:         ErrTooManyImports,
			wantCode:    "IMP001",
			wantMessage: "Too many imports in progress",
		},
		{
			name:        "context deadline",
			err:         fmt.Errorf("fetch: %w", context.DeadlineExceeded),
			wantCode:    "IMP003",
			wantMessage: "Request timed out",
		},
		{
			name:        "connection refused",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB001",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "rate limit",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("CONNECTION RESET by peer"),
			wantCode:    "DB002",
			wantMessage: "Database connection was interrupted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrEmptyFile)

	expected := "The uploaded file is empty (Code: FILE005). Please upload a CSV file with a header and data rows"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"sentinel is user facing", ErrNoSheetLinked, true},
		{"pattern is user facing", errors.New("deadlock detected"), true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("upload: %w", ErrEmptyFile)
		userErr := NewUserError(techErr)

		if userErr.Error() != "The uploaded file is empty" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrEmptyFile) {
			t.Error("Unwrap() should expose the original error")
		}
	})
}

func TestImportRejectedError_Messages(t *testing.T) {
	err := &ImportRejectedError{Result: &ImportResult{
		Parse:      ParseResult{Errors: []string{"Row 3: Invalid monthly cost"}},
		Validation: ValidationVerdict{Errors: []string{"Row 1: Must have at least 1 account"}},
	}}

	msgs := err.Messages()
	if len(msgs) != 2 || msgs[0] != "Row 3: Invalid monthly cost" {
		t.Errorf("Messages() = %v", msgs)
	}
	if got, want := err.Error(), "import rejected: Row 3: Invalid monthly cost (and 1 more)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if errors.Is(err, ErrNoData) {
		t.Error("rejection with row errors should not match ErrNoData")
	}
}
