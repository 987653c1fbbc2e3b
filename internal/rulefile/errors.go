package rulefile

import "fmt"

// Error codes for rule-file loading.
const (
	ErrCodeNotFound    = "E_NOT_FOUND"
	ErrCodeUnsupported = "E_UNSUPPORTED"
	ErrCodeParse       = "E_PARSE"
	ErrCodeInvalid     = "E_INVALID"
	ErrCodeUnresolved  = "E_UNRESOLVED"
)

// LoadError represents an error that occurred while loading a rule file.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Err     error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
