// Package errors provides structured error handling for docuseek.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Storage errors (index database)
//   - 2XX: Scan errors (filesystem traversal)
//   - 3XX: Validation errors (query and import input)
//   - 4XX: Busy errors (concurrent invocation rejected)
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryStorage indicates index database errors.
	CategoryStorage Category = "STORAGE"
	// CategoryScan indicates filesystem traversal errors.
	CategoryScan Category = "SCAN"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryBusy indicates a rejected duplicate invocation.
	CategoryBusy Category = "BUSY"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but the process can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Storage errors (100-199)
	ErrCodeStoreUnreachable = "ERR_101_STORE_UNREACHABLE"
	ErrCodeStoreCorrupt     = "ERR_102_STORE_CORRUPT"
	ErrCodeStoreLocked      = "ERR_103_STORE_LOCKED"
	ErrCodeStoreQuery       = "ERR_104_STORE_QUERY"

	// Scan errors (200-299)
	ErrCodeRootNotFound   = "ERR_201_ROOT_NOT_FOUND"
	ErrCodeRootNotDir     = "ERR_202_ROOT_NOT_DIR"
	ErrCodeRootUnreadable = "ERR_203_ROOT_UNREADABLE"
	ErrCodeWatchFailed    = "ERR_204_WATCH_FAILED"

	// Validation errors (300-399)
	ErrCodeEmptyQuery     = "ERR_301_EMPTY_QUERY"
	ErrCodeThresholdRange = "ERR_302_THRESHOLD_RANGE"
	ErrCodeColumnNotFound = "ERR_303_COLUMN_NOT_FOUND"
	ErrCodeNoRecords      = "ERR_304_NO_RECORDS"
	ErrCodeInvalidInput   = "ERR_305_INVALID_INPUT"

	// Busy errors (400-499)
	ErrCodeTaskBusy = "ERR_401_TASK_BUSY"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryStorage
	case '2':
		return CategoryScan
	case '3':
		return CategoryValidation
	case '4':
		return CategoryBusy
	default:
		return CategoryInternal
	}
}

// severityFromCode derives severity from error code.
// Busy rejections are warnings: the user retries by re-issuing the request.
func severityFromCode(code string) Severity {
	switch categoryFromCode(code) {
	case CategoryBusy:
		return SeverityWarning
	case CategoryStorage:
		return SeverityFatal
	default:
		return SeverityError
	}
}
