package textgrammar

import (
	"errors"
	"fmt"
)

// MissingRuleError is returned when a rule reference is rewritten but the
// grammar holds no rule for its key. The grammar is malformed; retrying the
// run cannot succeed.
type MissingRuleError struct {
	Key string
}

// Error implements the error interface.
func (e *MissingRuleError) Error() string {
	return fmt.Sprintf("grammar does not contain rule %q", e.Key)
}

// IsMissingRuleError returns true if err is, or wraps, a MissingRuleError.
func IsMissingRuleError(err error) bool {
	var me *MissingRuleError
	return errors.As(err, &me)
}

// MissingKey returns the key of the MissingRuleError wrapped by err, if any.
func MissingKey(err error) (string, bool) {
	var me *MissingRuleError
	if errors.As(err, &me) {
		return me.Key, true
	}
	return "", false
}
