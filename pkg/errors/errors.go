// Package errors defines the error taxonomy for the ledger import service.
//
// Errors carry a category, a machine-readable code, an optional suggestion
// for the user, and free-form context. File-level failures (an unrecognized
// statement format) are recoverable by the caller; row-level issues never
// surface here at all, they are collected per file as plain messages.
package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile       ErrorCategory = "file"
	CategoryDetect     ErrorCategory = "detect"
	CategoryParse      ErrorCategory = "parse"
	CategoryValidation ErrorCategory = "validation"
	CategoryConfig     ErrorCategory = "configuration"
	CategoryStorage    ErrorCategory = "storage"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"
	CodeFileRead       ErrorCode = "file_read"

	// Detection errors
	CodeUnrecognizedFormat ErrorCode = "unrecognized_format"
	CodeEncodingError      ErrorCode = "encoding_error"

	// Parse errors
	CodeRowParse      ErrorCode = "row_parse"
	CodeMissingHeader ErrorCode = "missing_header"

	// Validation errors
	CodeInvalidAmount ErrorCode = "invalid_amount"
	CodeInvalidDate   ErrorCode = "invalid_date"
	CodeMissingField  ErrorCode = "missing_field"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Storage errors
	CodeLedgerRead  ErrorCode = "ledger_read"
	CodeLedgerWrite ErrorCode = "ledger_write"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// SupportedFormatsMessage is the user-facing message shown when no header
// signature matched under either encoding. It names the three supported
// statement sources.
const SupportedFormatsMessage = "CSV形式を認識できませんでした。PayPay, ゆうちょ銀行, 楽天カードの標準CSVか確認してください。"

// ImportError is the base error type for all application errors
type ImportError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *ImportError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *ImportError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *ImportError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryDetect, CategoryParse, CategoryValidation:
		return 3
	case CategoryConfig:
		return 4
	case CategoryStorage:
		return 5
	case CategoryInternal:
		return 6
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *ImportError) WithContext(key string, value interface{}) *ImportError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *ImportError) WithSuggestion(suggestion string) *ImportError {
	e.Suggestion = suggestion
	return e
}

// New creates a new ImportError
func New(category ErrorCategory, code ErrorCode, message string) *ImportError {
	return &ImportError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with ImportError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *ImportError {
	if err == nil {
		return nil
	}

	return &ImportError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *ImportError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	default:
		message = fmt.Sprintf("failed to read file: %s", path)
		suggestion = "check the file and try again"
	}

	var result *ImportError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// UnrecognizedFormat creates the error for a statement file whose header
// signature matched no supported source under any attempted encoding.
func UnrecognizedFormat(fileName string) *ImportError {
	return New(CategoryDetect, CodeUnrecognizedFormat, SupportedFormatsMessage).
		WithSuggestion("export the statement again from the provider without editing it").
		WithContext("file", fileName)
}

// EncodingError creates an error for undecodable file content
func EncodingError(fileName string, err error) *ImportError {
	return Wrap(err, CategoryDetect, CodeEncodingError,
		fmt.Sprintf("failed to decode file %s", fileName)).
		WithSuggestion("save the file in UTF-8 or Shift-JIS encoding and try again").
		WithContext("file", fileName)
}

// RowError creates a parsing error for a single malformed data line
func RowError(fileName string, line int, reason string, err error) *ImportError {
	var result *ImportError
	message := fmt.Sprintf("malformed row in %s at line %d: %s", fileName, line, reason)
	if err != nil {
		result = Wrap(err, CategoryParse, CodeRowParse, message)
	} else {
		result = New(CategoryParse, CodeRowParse, message)
	}

	return result.
		WithSuggestion("correct or remove the malformed line; remaining rows are still imported").
		WithContext("file", fileName).
		WithContext("line", line)
}

// ConfigError creates a configuration-related error
func ConfigError(code ErrorCode, setting string, err error) *ImportError {
	var message string
	var suggestion string

	switch code {
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "provide this setting via flag, environment or config file"
	default:
		message = fmt.Sprintf("invalid configuration for '%s'", setting)
		suggestion = "check the configuration documentation for valid values"
	}

	var result *ImportError
	if err != nil {
		result = Wrap(err, CategoryConfig, code, message)
	} else {
		result = New(CategoryConfig, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("setting", setting)
}

// StorageError creates a ledger store error
func StorageError(code ErrorCode, path string, err error) *ImportError {
	var message string
	switch code {
	case CodeLedgerRead:
		message = fmt.Sprintf("failed to read ledger: %s", path)
	default:
		message = fmt.Sprintf("failed to write ledger: %s", path)
	}

	return Wrap(err, CategoryStorage, code, message).
		WithSuggestion("check that the ledger file is accessible and not corrupted").
		WithContext("ledger_path", path)
}

// InternalError creates an internal error
func InternalError(operation string, err error) *ImportError {
	message := fmt.Sprintf("unexpected error during %s", operation)

	var result *ImportError
	if err != nil {
		result = Wrap(err, CategoryInternal, CodeUnexpectedError, message)
	} else {
		result = New(CategoryInternal, CodeUnexpectedError, message)
	}

	return result.
		WithSuggestion("this is likely a bug - please report it with the error details").
		WithContext("operation", operation)
}

// ErrorSummary provides a summary of multiple errors
type ErrorSummary struct {
	Total      int                   `json:"total"`
	ByCategory map[ErrorCategory]int `json:"by_category"`
	ByCode     map[ErrorCode]int     `json:"by_code"`
	Errors     []*ImportError        `json:"errors"`
}

// NewErrorSummary creates a new error summary
func NewErrorSummary(errs []*ImportError) *ErrorSummary {
	summary := &ErrorSummary{
		Total:      len(errs),
		ByCategory: make(map[ErrorCategory]int),
		ByCode:     make(map[ErrorCode]int),
		Errors:     errs,
	}
	if errs == nil {
		summary.Errors = []*ImportError{}
	}

	for _, err := range errs {
		summary.ByCategory[err.Category]++
		summary.ByCode[err.Code]++
	}

	return summary
}

// Error returns a formatted error message for the summary
func (es *ErrorSummary) Error() string {
	if es.Total == 0 {
		return "no errors"
	}

	if es.Total == 1 {
		return es.Errors[0].Error()
	}

	var categories []string
	for category, count := range es.ByCategory {
		categories = append(categories, fmt.Sprintf("%s: %d", category, count))
	}

	return fmt.Sprintf("%d errors occurred (%s)", es.Total, strings.Join(categories, ", "))
}

// HasCategory checks if the summary contains errors of the given category
func (es *ErrorSummary) HasCategory(category ErrorCategory) bool {
	return es.ByCategory[category] > 0
}

// GetExitCode returns the highest priority exit code from all errors
func (es *ErrorSummary) GetExitCode() int {
	if es.Total == 0 {
		return 0
	}

	maxCode := 1
	for _, err := range es.Errors {
		if code := err.GetExitCode(); code > maxCode {
			maxCode = code
		}
	}

	return maxCode
}

// IsImportError checks if an error is an ImportError
func IsImportError(err error) bool {
	_, ok := err.(*ImportError)
	return ok
}

// AsImportError extracts an ImportError from an error chain
func AsImportError(err error) (*ImportError, bool) {
	var importErr *ImportError
	if errors.As(err, &importErr) {
		return importErr, true
	}
	return nil, false
}

// WrapIfNeeded wraps an error if it's not already an ImportError
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *ImportError {
	if err == nil {
		return nil
	}

	if importErr, ok := AsImportError(err); ok {
		return importErr
	}

	return Wrap(err, category, code, message)
}
