package engine

import (
	"errors"
	"fmt"
)

// RunError represents a failure detected while expanding a grammar.
//
// A failed run produces no usable entity. Run errors are never retried:
// they indicate a malformed grammar, and rewriting again cannot help.
type RunError struct {
	// Code identifies the error category.
	Code RunErrorCode

	// Message is a human-readable description.
	Message string

	// RunID identifies the failed run.
	RunID string

	// Step is the generation (sequence engine) or tree depth (tree engine)
	// at which the failure occurred.
	Step int

	// Err is the underlying cause, typically returned by Token.Replace.
	Err error
}

// RunErrorCode categorizes run errors.
type RunErrorCode string

const (
	// ErrCodeReplaceFailed indicates a token's Replace returned an error.
	ErrCodeReplaceFailed RunErrorCode = "REPLACE_FAILED"

	// ErrCodeInvalidGrammar indicates the grammar broke the token contract
	// (nil root token, nil successor).
	ErrCodeInvalidGrammar RunErrorCode = "INVALID_GRAMMAR"

	// ErrCodeBudgetExceeded indicates the run hit its replacement budget
	// (see WithMaxReplacements).
	ErrCodeBudgetExceeded RunErrorCode = "BUDGET_EXCEEDED"
)

// Error implements the error interface.
func (e *RunError) Error() string {
	msg := fmt.Sprintf("%s: %s (run=%s, step=%d)", e.Code, e.Message, e.RunID, e.Step)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *RunError) Unwrap() error {
	return e.Err
}

// IsReplaceError returns true if err is a RunError caused by a failing
// Replace. Uses errors.As to handle wrapped errors.
func IsReplaceError(err error) bool {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code == ErrCodeReplaceFailed
	}
	return false
}

// IsInvalidGrammarError returns true if err is a RunError raised for a
// grammar that broke the token contract.
func IsInvalidGrammarError(err error) bool {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code == ErrCodeInvalidGrammar
	}
	return false
}

// IsBudgetExceededError returns true if err is a RunError raised because
// a run exhausted its replacement budget.
func IsBudgetExceededError(err error) bool {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code == ErrCodeBudgetExceeded
	}
	return false
}

// NewReplaceError wraps a Replace failure.
func NewReplaceError(runID string, step int, err error) *RunError {
	return &RunError{
		Code:    ErrCodeReplaceFailed,
		Message: "token replace failed",
		RunID:   runID,
		Step:    step,
		Err:     err,
	}
}

// NewInvalidGrammarError reports a token contract violation.
func NewInvalidGrammarError(runID string, step int, message string) *RunError {
	return &RunError{
		Code:    ErrCodeInvalidGrammar,
		Message: message,
		RunID:   runID,
		Step:    step,
	}
}
