package harness

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Run      int      // 1-based run index, 0 when the assertion spans runs
	Outputs  []string // All outputs for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s", e.Type)
	if e.Run > 0 {
		fmt.Fprintf(&buf, " (run %d)", e.Run)
	}
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nOutputs:\n")
	for i, out := range e.Outputs {
		fmt.Fprintf(&buf, "  [%d] %q\n", i+1, out)
	}

	return buf.String()
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}

// eachOutput applies check to every output and reports the first failure
// with the run that produced it.
func eachOutput(r *Result, typ string, check func(string) (expected, actual string, ok bool)) error {
	for i, out := range r.Outputs {
		expected, actual, ok := check(out)
		if !ok {
			return &AssertionError{
				Type:     typ,
				Expected: expected,
				Actual:   actual,
				Run:      r.OutputRuns[i],
				Outputs:  r.Outputs,
			}
		}
	}
	return nil
}

func assertEquals(r *Result, a Assertion) error {
	return eachOutput(r, AssertEquals, func(out string) (string, string, bool) {
		return fmt.Sprintf("%q", a.Value), fmt.Sprintf("%q", out), out == a.Value
	})
}

func assertMatches(r *Result, a Assertion) error {
	re, err := compilePattern(a.Pattern)
	if err != nil {
		return err
	}
	return eachOutput(r, AssertMatches, func(out string) (string, string, bool) {
		return "match for " + a.Pattern, fmt.Sprintf("%q", out), re.MatchString(out)
	})
}

func assertLength(r *Result, a Assertion) error {
	expected := "length"
	if a.Min != nil {
		expected += fmt.Sprintf(" >= %d", *a.Min)
	}
	if a.Max != nil {
		expected += fmt.Sprintf(" <= %d", *a.Max)
	}
	return eachOutput(r, AssertLength, func(out string) (string, string, bool) {
		n := utf8.RuneCountInString(out)
		ok := (a.Min == nil || n >= *a.Min) && (a.Max == nil || n <= *a.Max)
		return expected, fmt.Sprintf("length %d", n), ok
	})
}

func assertCount(r *Result, a Assertion) error {
	return eachOutput(r, AssertCount, func(out string) (string, string, bool) {
		n := strings.Count(out, a.Text)
		return fmt.Sprintf("%d occurrences of %q", a.Count, a.Text),
			fmt.Sprintf("%d occurrences", n), n == a.Count
	})
}

func assertActs(r *Result, a Assertion) error {
	for run := 1; run <= len(r.Stats); run++ {
		if n := r.actsInRun(run); n != a.Count {
			return &AssertionError{
				Type:     AssertActs,
				Expected: fmt.Sprintf("%d acts", a.Count),
				Actual:   fmt.Sprintf("%d acts", n),
				Run:      run,
				Outputs:  r.Outputs,
			}
		}
	}
	return nil
}

func assertDistinct(r *Result, a Assertion) error {
	seen := make(map[string]struct{}, len(r.Outputs))
	for _, out := range r.Outputs {
		seen[out] = struct{}{}
	}
	if len(seen) < *a.Min {
		return &AssertionError{
			Type:     AssertDistinct,
			Expected: fmt.Sprintf("at least %d distinct outputs", *a.Min),
			Actual:   fmt.Sprintf("%d distinct outputs", len(seen)),
			Outputs:  r.Outputs,
		}
	}
	return nil
}

// EvaluateAssertions runs every assertion against the result and returns the
// failure messages in assertion order.
func EvaluateAssertions(r *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertEquals:
			err = assertEquals(r, a)
		case AssertMatches:
			err = assertMatches(r, a)
		case AssertLength:
			err = assertLength(r, a)
		case AssertCount:
			err = assertCount(r, a)
		case AssertActs:
			err = assertActs(r, a)
		case AssertDistinct:
			err = assertDistinct(r, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %s", i, err.Error()))
		}
	}
	return errs
}
