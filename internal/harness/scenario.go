package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/stochrammar/internal/engine"
)

// Scenario defines a grammar test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Grammar is a YAML, TOML or CUE rule file. Relative paths are resolved
	// against the scenario file's directory by LoadScenario.
	Grammar string `yaml:"grammar,omitempty"`

	// Example names a built-in grammar. Exactly one of Grammar and Example
	// must be set.
	Example string `yaml:"example,omitempty"`

	// Engine is "sequence" (default) or "tree".
	Engine string `yaml:"engine,omitempty"`

	// Traversal is the tree engine's walk order. Default: depth-first.
	Traversal string `yaml:"traversal,omitempty"`

	// Seed seeds the random source shared by all runs.
	Seed uint64 `yaml:"seed,omitempty"`

	// Runs is the number of generations. Default: 1.
	Runs int `yaml:"runs,omitempty"`

	// RunID is the fixed run ID reported in the trace.
	// If empty, defaults to "run-fixed".
	RunID string `yaml:"run_id,omitempty"`

	// MaxReplacements caps Replace calls per run. 0 means unlimited.
	MaxReplacements int `yaml:"max_replacements,omitempty"`

	// ExpectError, if set, requires every run to fail with an error whose
	// message contains this text.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate the outputs and trace.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates outputs or the act trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "equals": every output equals Value
	// - "matches": every output matches the regular expression Pattern
	// - "length": every output has between Min and Max runes
	// - "count": every output contains Text exactly Count times
	// - "acts": every run applied exactly Count actions
	// - "distinct": at least Min distinct outputs were generated
	Type string `yaml:"type"`

	Value   string `yaml:"value,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`
	Text    string `yaml:"text,omitempty"`
	Count   int    `yaml:"count,omitempty"`
	Min     *int   `yaml:"min,omitempty"`
	Max     *int   `yaml:"max,omitempty"`
}

// Assertion type constants.
const (
	AssertEquals   = "equals"
	AssertMatches  = "matches"
	AssertLength   = "length"
	AssertCount    = "count"
	AssertActs     = "acts"
	AssertDistinct = "distinct"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Grammar != "" && !filepath.IsAbs(scenario.Grammar) {
		scenario.Grammar = filepath.Join(filepath.Dir(path), scenario.Grammar)
	}
	return scenario, nil
}

// ParseScenario decodes and validates scenario YAML. Grammar paths are
// left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&scenario)
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func applyDefaults(s *Scenario) {
	if s.Engine == "" {
		s.Engine = string(engine.KindSequence)
	}
	if s.Traversal == "" {
		s.Traversal = engine.DepthFirst.String()
	}
	if s.Runs == 0 {
		s.Runs = 1
	}
	if s.RunID == "" {
		s.RunID = "run-fixed"
	}
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Grammar == "" && s.Example == "":
		return fmt.Errorf("one of grammar or example is required")
	case s.Grammar != "" && s.Example != "":
		return fmt.Errorf("grammar and example are mutually exclusive")
	}

	if _, err := engine.ParseKind(s.Engine); err != nil {
		return err
	}
	if _, err := engine.ParseTraversal(s.Traversal); err != nil {
		return err
	}

	if s.MaxReplacements < 0 {
		return fmt.Errorf("max_replacements must be non-negative, got %d", s.MaxReplacements)
	}

	if s.Runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", s.Runs)
	}

	if len(s.Assertions) == 0 && s.ExpectError == "" {
		return fmt.Errorf("assertions list is required unless expect_error is set")
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEquals:
		// An empty Value asserts empty output.
	case AssertMatches:
		if a.Pattern == "" {
			return fmt.Errorf("assertions[%d]: pattern is required for matches", index)
		}
		if _, err := compilePattern(a.Pattern); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertLength:
		if a.Min == nil && a.Max == nil {
			return fmt.Errorf("assertions[%d]: min or max is required for length", index)
		}
		if a.Min != nil && a.Max != nil && *a.Min > *a.Max {
			return fmt.Errorf("assertions[%d]: min %d exceeds max %d", index, *a.Min, *a.Max)
		}
	case AssertCount:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertActs:
		if a.Count < 1 {
			return fmt.Errorf("assertions[%d]: count must be at least 1 for acts", index)
		}
	case AssertDistinct:
		if a.Min == nil || *a.Min < 1 {
			return fmt.Errorf("assertions[%d]: min must be at least 1 for distinct", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", index, a.Type)
	}

	return nil
}
