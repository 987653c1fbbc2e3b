package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/stochrammar/internal/engine"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	SourceOptions
	RunID string
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	RunID     string       `json:"run_id"`
	Grammar   string       `json:"grammar"`
	Engine    string       `json:"engine"`
	Traversal string       `json:"traversal,omitempty"`
	Output    string       `json:"output"`
	Timeline  []TraceEvent `json:"timeline"`
	Stats     engine.Stats `json:"stats"`
}

// TraceEvent is one Act application in the timeline.
type TraceEvent struct {
	Seq      int64 `json:"seq"`
	Depth    int   `json:"depth"`
	Terminal bool  `json:"terminal"`
}

// timeline is the observer collecting a single run's events.
type timeline struct {
	runID  string
	events []TraceEvent
}

func (t *timeline) RunStarted(info engine.RunInfo) { t.runID = info.RunID }

func (t *timeline) TokenActed(ev engine.ActEvent) {
	t.events = append(t.events, TraceEvent{Seq: ev.Seq, Depth: ev.Depth, Terminal: ev.Terminal})
}

func (t *timeline) RunFinished(engine.RunInfo, engine.Stats, error) {}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the order in which a run applies actions",
		Long: `Run a grammar once and print every action application in order.

The sequence engine acts on terminals only, left to right. The tree engine
acts on every node in its traversal order; non-terminal nodes are marked
"node" and leaves "leaf", indented by depth.

Examples:
  stochrammar trace --example traversal --engine tree --traversal bfs
  stochrammar trace --grammar rules.cue --seed 7 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	opts.SourceOptions.register(cmd)
	cmd.Flags().StringVar(&opts.RunID, "run-id", "", "fixed run ID (default: generated UUIDv7)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := opts.SourceOptions.resolve(cmd, opts.RootOptions)
	if err != nil {
		_ = formatter.Error(ErrCodeBadFlags, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}

	tl := &timeline{}
	extra := []engine.Option{engine.WithObserver(tl)}
	if opts.RunID != "" {
		extra = append(extra, engine.WithRunIDs(engine.NewFixedGenerator(opts.RunID)))
	}

	runner, err := opts.SourceOptions.buildRunner(st, opts.RootOptions, formatter, extra...)
	if err != nil {
		_ = formatter.Error(ErrCodeGrammar, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load grammar", err)
	}

	out, stats, err := runner.RunWithStats(st.rand())
	if err != nil {
		_ = formatter.Error(ErrCodeRun, err.Error(), runErrorDetails(err))
		return WrapExitError(ExitFailure, "run failed", err)
	}

	result := TraceResult{
		RunID:     tl.runID,
		Grammar:   st.source,
		Engine:    string(st.kind),
		Traversal: st.traversalName(),
		Output:    out,
		Timeline:  tl.events,
		Stats:     stats,
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return outputTraceText(cmd, result)
}

func outputTraceText(cmd *cobra.Command, result TraceResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Run: %s\n", result.RunID)
	fmt.Fprintf(w, "Grammar: %s\n", result.Grammar)
	if result.Traversal != "" {
		fmt.Fprintf(w, "Engine: %s (%s)\n", result.Engine, result.Traversal)
	} else {
		fmt.Fprintf(w, "Engine: %s\n", result.Engine)
	}
	fmt.Fprintf(w, "Output: %q\n", result.Output)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Timeline:")
	for _, ev := range result.Timeline {
		kind := "node"
		if ev.Terminal {
			kind = "leaf"
		}
		fmt.Fprintf(w, "  [%d] %s%s (depth %d)\n", ev.Seq, strings.Repeat("  ", ev.Depth), kind, ev.Depth)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Stats:")
	fmt.Fprintf(w, "  Acts: %d\n", result.Stats.Acts)
	fmt.Fprintf(w, "  Replacements: %d\n", result.Stats.Replacements)
	fmt.Fprintf(w, "  Terminals: %d\n", result.Stats.Terminals)
	fmt.Fprintf(w, "  Max depth: %d\n", result.Stats.MaxDepth)

	return nil
}
