package engine

import "fmt"

// quota enforces the optional per-run limit on Replace calls.
//
// Termination of a grammar is trusted by default: a grammar whose expected
// expansion is infinite runs until memory is exhausted. A positive limit
// turns that into a BUDGET_EXCEEDED error instead.
type quota struct {
	max     int // 0 means unlimited
	current int
}

func newQuota(max int) *quota {
	return &quota{max: max}
}

// check counts one Replace call and fails once the limit is exceeded.
func (q *quota) check(runID string, step int) error {
	q.current++
	if q.max > 0 && q.current > q.max {
		return &RunError{
			Code:    ErrCodeBudgetExceeded,
			Message: fmt.Sprintf("replacement budget of %d exceeded", q.max),
			RunID:   runID,
			Step:    step,
		}
	}
	return nil
}
