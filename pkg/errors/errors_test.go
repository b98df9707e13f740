package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CategoryParse, CodeRowParse, "test message")

	if err.Category != CategoryParse {
		t.Errorf("category = %s, want %s", err.Category, CategoryParse)
	}
	if err.Code != CodeRowParse {
		t.Errorf("code = %s, want %s", err.Code, CodeRowParse)
	}
	if err.Error() != "test message" {
		t.Errorf("message = %q", err.Error())
	}
	if err.StackTrace == nil {
		t.Error("expected a stack trace")
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := Wrap(cause, CategoryStorage, CodeLedgerRead, "wrapped")

	if err.Unwrap() != cause {
		t.Error("Unwrap must return the cause")
	}
	if Wrap(nil, CategoryStorage, CodeLedgerRead, "x") != nil {
		t.Error("wrapping nil must yield nil")
	}
}

func TestErrorWithSuggestion(t *testing.T) {
	err := New(CategoryFile, CodeFileNotFound, "file not found").
		WithSuggestion("check the path")

	if !strings.Contains(err.Error(), "suggestion: check the path") {
		t.Errorf("suggestion missing from message: %q", err.Error())
	}
}

func TestWithContext(t *testing.T) {
	err := New(CategoryParse, CodeRowParse, "x").
		WithContext("file", "a.csv").
		WithContext("line", 3)

	if err.Context["file"] != "a.csv" {
		t.Errorf("context file = %v", err.Context["file"])
	}
	if err.Context["line"] != 3 {
		t.Errorf("context line = %v", err.Context["line"])
	}
}

func TestUnrecognizedFormat(t *testing.T) {
	err := UnrecognizedFormat("statement.csv")

	if err.Category != CategoryDetect {
		t.Errorf("category = %s, want %s", err.Category, CategoryDetect)
	}
	if err.Message != SupportedFormatsMessage {
		t.Errorf("message = %q, want the user-facing format message", err.Message)
	}
	for _, source := range []string{"PayPay", "ゆうちょ銀行", "楽天カード"} {
		if !strings.Contains(err.Message, source) {
			t.Errorf("message does not name source %q", source)
		}
	}
	if err.Context["file"] != "statement.csv" {
		t.Errorf("context file = %v", err.Context["file"])
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		want     int
	}{
		{CategoryFile, 2},
		{CategoryDetect, 3},
		{CategoryParse, 3},
		{CategoryValidation, 3},
		{CategoryConfig, 4},
		{CategoryStorage, 5},
		{CategoryInternal, 6},
		{ErrorCategory("bogus"), 1},
	}

	for _, tt := range tests {
		err := &ImportError{Category: tt.category}
		if got := err.GetExitCode(); got != tt.want {
			t.Errorf("GetExitCode(%s) = %d, want %d", tt.category, got, tt.want)
		}
	}
}

func TestErrorSummary(t *testing.T) {
	summary := NewErrorSummary([]*ImportError{
		New(CategoryParse, CodeRowParse, "row 1"),
		New(CategoryParse, CodeRowParse, "row 2"),
		New(CategoryStorage, CodeLedgerWrite, "write failed"),
	})

	if summary.Total != 3 {
		t.Errorf("total = %d, want 3", summary.Total)
	}
	if summary.ByCategory[CategoryParse] != 2 {
		t.Errorf("parse count = %d, want 2", summary.ByCategory[CategoryParse])
	}
	if !summary.HasCategory(CategoryStorage) {
		t.Error("expected storage category present")
	}
	if summary.HasCategory(CategoryConfig) {
		t.Error("unexpected config category")
	}
	if summary.GetExitCode() != 5 {
		t.Errorf("exit code = %d, want 5 (storage wins over parse)", summary.GetExitCode())
	}
}

func TestErrorSummary_Empty(t *testing.T) {
	summary := NewErrorSummary(nil)

	if summary.Error() != "no errors" {
		t.Errorf("message = %q", summary.Error())
	}
	if summary.GetExitCode() != 0 {
		t.Errorf("exit code = %d, want 0", summary.GetExitCode())
	}
}

func TestAsImportError(t *testing.T) {
	inner := New(CategoryFile, CodeFileRead, "read failed")
	wrapped := fmt.Errorf("outer: %w", inner)

	got, ok := AsImportError(wrapped)
	if !ok {
		t.Fatal("expected to find ImportError in chain")
	}
	if got != inner {
		t.Error("extracted a different error")
	}

	if _, ok := AsImportError(fmt.Errorf("plain")); ok {
		t.Error("plain error must not extract")
	}
}

func TestWrapIfNeeded(t *testing.T) {
	inner := New(CategoryDetect, CodeUnrecognizedFormat, "x")
	if got := WrapIfNeeded(inner, CategoryInternal, CodeUnexpectedError, "y"); got != inner {
		t.Error("existing ImportError must pass through unchanged")
	}

	plain := fmt.Errorf("plain")
	got := WrapIfNeeded(plain, CategoryInternal, CodeUnexpectedError, "wrapped")
	if got.Category != CategoryInternal || got.Unwrap() != plain {
		t.Errorf("plain error not wrapped: %v", got)
	}

	if WrapIfNeeded(nil, CategoryInternal, CodeUnexpectedError, "z") != nil {
		t.Error("nil must stay nil")
	}
}
