package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/stochrammar/internal/engine"
	"github.com/roach88/stochrammar/internal/examples"
	"github.com/roach88/stochrammar/internal/rulefile"
	"github.com/roach88/stochrammar/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Build the grammar from the example registry or the rule file
//  2. Build the engine with fixed run IDs and a recording observer
//  3. Generate scenario.Runs outputs from one seeded random source
//  4. Check expect_error, then evaluate assertions
//
// The returned error reports problems setting up the scenario. Run and
// assertion failures are reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	recorder := testutil.NewRecorder()
	runner, err := buildRunner(scenario, recorder)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	rng := testutil.Rand(scenario.Seed)
	for run := 1; run <= scenario.Runs; run++ {
		out, stats, err := runner.RunWithStats(rng)
		result.Stats = append(result.Stats, stats)

		for _, ev := range recorder.Acts() {
			result.Trace = append(result.Trace, TraceEvent{
				Run:      run,
				Seq:      ev.Seq,
				Depth:    ev.Depth,
				Terminal: ev.Terminal,
			})
		}
		recorder.Reset()

		if err != nil {
			result.RunErrors = append(result.RunErrors, err.Error())
			continue
		}
		result.Outputs = append(result.Outputs, out)
		result.OutputRuns = append(result.OutputRuns, run)
	}

	checkExpectedErrors(scenario, result)
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func buildRunner(s *Scenario, obs engine.Observer) (engine.Runner[string], error) {
	kind, err := engine.ParseKind(s.Engine)
	if err != nil {
		return nil, err
	}
	traversal, err := engine.ParseTraversal(s.Traversal)
	if err != nil {
		return nil, err
	}

	opts := append(testutil.Options(s.RunID),
		engine.WithObserver(obs),
		engine.WithTraversal(traversal),
		engine.WithMaxReplacements(s.MaxReplacements),
	)

	if s.Example != "" {
		ex, err := examples.Lookup(s.Example)
		if err != nil {
			return nil, err
		}
		return ex.Runner(kind, opts...)
	}

	g, _, err := rulefile.LoadGrammar(s.Grammar)
	if err != nil {
		return nil, fmt.Errorf("failed to load grammar: %w", err)
	}
	r, err := engine.New(kind, g, opts...)
	if err != nil {
		return nil, err
	}
	return engine.Render(r, func(b *strings.Builder) string { return b.String() }), nil
}

func checkExpectedErrors(s *Scenario, r *Result) {
	if s.ExpectError == "" {
		for i, msg := range r.RunErrors {
			r.AddError(fmt.Sprintf("unexpected run error %d: %s", i+1, msg))
		}
		return
	}

	if len(r.Outputs) > 0 {
		r.AddError(fmt.Sprintf("expected every run to fail with %q, but %d run(s) succeeded", s.ExpectError, len(r.Outputs)))
	}
	for i, msg := range r.RunErrors {
		if !strings.Contains(msg, s.ExpectError) {
			r.AddError(fmt.Sprintf("run error %d: expected %q in %q", i+1, s.ExpectError, msg))
		}
	}
}
