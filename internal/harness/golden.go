package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/segmentio/fasthash/fnv1a"
)

// TraceSnapshot captures the outputs and act trace of a scenario execution.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	RunID        string       `json:"run_id"`
	Engine       string       `json:"engine"`
	Traversal    string       `json:"traversal,omitempty"`
	Outputs      []string     `json:"outputs"`
	Digests      []string     `json:"digests"`
	Trace        []TraceEvent `json:"trace"`
}

// Marshal renders the snapshot as indented JSON. Field order is fixed by
// the struct, so equal snapshots produce identical bytes.
func (s *TraceSnapshot) Marshal() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Snapshot builds the golden snapshot of a scenario result. Traversal is
// omitted for the sequence engine. Digests holds one fingerprint per run.
func Snapshot(scenario *Scenario, result *Result) *TraceSnapshot {
	s := &TraceSnapshot{
		ScenarioName: scenario.Name,
		RunID:        scenario.RunID,
		Engine:       scenario.Engine,
		Outputs:      result.Outputs,
		Digests:      RunDigests(result),
		Trace:        result.Trace,
	}
	if scenario.Engine == "tree" {
		s.Traversal = scenario.Traversal
	}
	return s
}

// RunDigests returns one FNV-1a fingerprint per run, covering the run's
// output (empty for a failed run) and its act events. Two runs with equal
// digests rendered the same text through the same sequence of acts.
func RunDigests(result *Result) []string {
	hashes := make([]uint64, len(result.Stats))
	for i := range hashes {
		hashes[i] = fnv1a.Init64
	}
	for i, out := range result.Outputs {
		run := result.OutputRuns[i]
		hashes[run-1] = fnv1a.AddString64(hashes[run-1], out)
	}
	for _, ev := range result.Trace {
		line := fmt.Sprintf("|%d:%d:%t", ev.Seq, ev.Depth, ev.Terminal)
		hashes[ev.Run-1] = fnv1a.AddString64(hashes[ev.Run-1], line)
	}

	digests := make([]string, len(hashes))
	for i, h := range hashes {
		digests[i] = fmt.Sprintf("%016x", h)
	}
	return digests
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against the scenario's golden
// file without re-running.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenario, result).Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}
