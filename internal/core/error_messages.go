// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Error codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum size limit
//	          Action: Remove unused rows or split the sheet
//	          Sentinel: ErrFileTooLarge
//
//	FILE002 - Invalid CSV: The file could not be read as CSV
//	          Action: Check for unbalanced quotes and re-export as CSV
//	          Sentinel: ErrDecode
//
//	FILE003 - Encoding error: File contains characters that could not be read
//	          Action: Save file as UTF-8 encoding
//	          Patterns: "transcode"
//
//	FILE004 - No file: No file was selected
//	          Action: Please select a CSV file to upload
//	          Sentinel: ErrNoFile
//
//	FILE005 - Empty file: The uploaded file is empty
//	          Action: Please upload a CSV file with a header and data rows
//	          Sentinel: ErrEmptyFile
//
//	FILE006 - Wrong type: Only .csv files are accepted
//	          Action: Please upload a CSV file
//	          Sentinel: ErrInvalidFileType
//
// # Google Sheets Errors (SHEET001-SHEET099)
//
//	SHEET001 - Invalid link: Not a Google Sheets URL
//	           Action: Paste the full link from the browser address bar
//	           Sentinel: ErrInvalidSheetURL
//
//	SHEET002 - Fetch failed: The sheet could not be downloaded
//	           Action: Make sure the sheet is shared as "Anyone with the link"
//	           Sentinel: ErrSheetFetch
//
//	SHEET003 - Nothing to refresh: No sheet has been linked yet
//	           Action: Import a Google Sheets link first
//	           Sentinel: ErrNoSheetLinked
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - No data: No valid rows were found
//	         Action: Check that the file has a Tool Name column with values
//	         Sentinel: ErrNoData
//
//	VAL002 - Rows rejected: Some rows could not be imported
//	         Action: Fix the listed rows and import again
//	         Type: *ImportRejectedError
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - System busy: Too many imports in progress
//	         Action: Please wait a moment and try again
//	         Sentinel: ErrTooManyImports
//
//	IMP002 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	IMP003 - Request timeout: Request timed out
//	         Action: Try a smaller file or check your connection
//	         Patterns: "context deadline exceeded", "timeout"
//
//	IMP004 - Not found: The requested import does not exist
//	         Action: It may have been pruned from history
//	         Sentinel: ErrImportNotFound
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Connection refused: Unable to connect to database
//	        Action: Please try again in a few moments
//	        Patterns: "connection refused"
//
//	DB002 - Connection reset: Database connection was interrupted
//	        Action: Please try again
//	        Patterns: "connection reset"
//
//	DB003 - Deadlock: Database was busy with conflicting operations
//	        Action: Please try again
//	        Patterns: "deadlock"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific sentinel or pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Matching
//
// Sentinels are checked first with errors.Is, in table order. Patterns are
// then matched case-insensitively using strings.Contains. The first match
// wins, so more specific entries come before general ones.
//
// # For Support Staff
//
// When a user reports an error code:
//  1. Look up the code in this reference
//  2. Check the associated sentinel or patterns to understand what triggered it
//  3. Review the suggested action to guide the user
//  4. If ERR000, check application logs for the original technical error
package core

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// sentinelMessage maps a sentinel error to its user message.
type sentinelMessage struct {
	target error
	msg    UserMessage
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var sentinelMessages = []sentinelMessage{
	// =========================================================================
	// File Errors (FILE001-FILE006)
	// =========================================================================
	{
		target: ErrFileTooLarge,
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Remove unused rows or split the sheet",
			Code:    "FILE001",
		},
	},
	{
		target: ErrNoFile,
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE004",
		},
	},
	{
		target: ErrEmptyFile,
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a CSV file with a header and data rows",
			Code:    "FILE005",
		},
	},
	{
		target: ErrInvalidFileType,
		msg: UserMessage{
			Message: "Please upload a CSV file",
			Action:  "Export the spreadsheet as .csv and try again",
			Code:    "FILE006",
		},
	},

	// =========================================================================
	// Google Sheets Errors (SHEET001-SHEET003)
	// =========================================================================
	{
		target: ErrInvalidSheetURL,
		msg: UserMessage{
			Message: "Please enter a valid Google Sheets URL",
			Action:  "Paste the full link from the browser address bar",
			Code:    "SHEET001",
		},
	},
	{
		target: ErrSheetFetch,
		msg: UserMessage{
			Message: "Failed to fetch Google Sheets data",
			Action:  "Make sure the sheet is shared as \"Anyone with the link\"",
			Code:    "SHEET002",
		},
	},
	{
		target: ErrNoSheetLinked,
		msg: UserMessage{
			Message: "No Google Sheet is linked",
			Action:  "Import a Google Sheets link first",
			Code:    "SHEET003",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001)
	// ErrNoData must precede the generic rejection, since an empty import
	// is also an *ImportRejectedError.
	// =========================================================================
	{
		target: ErrNoData,
		msg: UserMessage{
			Message: MsgNoData,
			Action:  "Check that the file has a Tool Name column with values",
			Code:    "VAL001",
		},
	},

	// =========================================================================
	// Import Errors (IMP001, IMP004)
	// =========================================================================
	{
		target: ErrTooManyImports,
		msg: UserMessage{
			Message: "Too many imports in progress",
			Action:  "Please wait a moment and try again",
			Code:    "IMP001",
		},
	},
	{
		target: ErrImportNotFound,
		msg: UserMessage{
			Message: "The requested import does not exist",
			Action:  "It may have been pruned from history",
			Code:    "IMP004",
		},
	},
}

var rejectedMessage = UserMessage{
	Message: "Some rows could not be imported",
	Action:  "Fix the listed rows and import again",
	Code:    "VAL002",
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains, so partial matches work.
// The first matching pattern wins, so order matters:
//   - More specific patterns should come before general ones
//   - Multiple patterns can map to the same error code
//
// To add a new error pattern:
//  1. Choose the appropriate category and code range
//  2. Add the pattern in the correct position (specific before general)
//  3. Update the package documentation at the top of this file
var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors (FILE002-FILE003)
	// =========================================================================
	{
		pattern: "transcode",
		msg: UserMessage{
			Message: "File contains characters that could not be read",
			Action:  "Save file as UTF-8 encoding",
			Code:    "FILE003",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "The file could not be read as CSV",
			Action:  "Check for unbalanced quotes and re-export as CSV",
			Code:    "FILE002",
		},
	},

	// =========================================================================
	// Database Connection Errors (DB001-DB003)
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB003",
		},
	},

	// =========================================================================
	// Request Errors (IMP002-IMP003)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "IMP002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "IMP003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "IMP003",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// This is the fallback for unexpected errors. Support staff should check
// application logs for the original technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Sentinels are matched with errors.Is, then known patterns are searched
// case-insensitively. If nothing matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := fmt.Errorf("upload: %w", ErrEmptyFile)
//	msg := MapError(err)
//	// msg.Code == "FILE005"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	var rejected *ImportRejectedError
	if errors.As(err, &rejected) {
		return rejectedMessage
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
//
// Example output: "The uploaded file is empty (Code: FILE005). Please upload a CSV file with a header and data rows"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known sentinel or pattern and
// should be shown to users. Returns false for the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
