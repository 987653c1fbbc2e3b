package harness

import "github.com/roach88/stochrammar/internal/engine"

// TraceEvent is one action application.
type TraceEvent struct {
	Run      int   `json:"run"` // 1-based run index
	Seq      int64 `json:"seq"`
	Depth    int   `json:"depth"`
	Terminal bool  `json:"terminal"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Outputs holds one rendered entity per successful run, in run order.
	Outputs []string `json:"outputs"`

	// OutputRuns holds the 1-based run index of each entry in Outputs.
	OutputRuns []int `json:"output_runs"`

	// Stats holds one entry per run, in run order.
	Stats []engine.Stats `json:"stats"`

	// Trace contains every act event of every run, in order.
	Trace []TraceEvent `json:"trace"`

	// RunErrors holds the error message of each failed run.
	RunErrors []string `json:"run_errors,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Outputs:    []string{},
		OutputRuns: []int{},
		Trace:      []TraceEvent{},
		Errors:     []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// actsInRun counts trace events of the given run.
func (r *Result) actsInRun(run int) int {
	n := 0
	for _, ev := range r.Trace {
		if ev.Run == run {
			n++
		}
	}
	return n
}
