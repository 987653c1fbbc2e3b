package cli

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/stochrammar/internal/engine"
	"github.com/roach88/stochrammar/internal/metrics"
	"github.com/roach88/stochrammar/internal/textgrammar"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	SourceOptions
	Count   int
	Stats   bool // include per-run statistics
	Metrics bool // print a Prometheus metrics summary
}

// GenerateResult is the JSON payload of the generate command.
type GenerateResult struct {
	Grammar   string           `json:"grammar"`
	Engine    string           `json:"engine"`
	Traversal string           `json:"traversal,omitempty"`
	Seed      *uint64          `json:"seed,omitempty"`
	Outputs   []string         `json:"outputs"`
	Stats     []engine.Stats   `json:"stats,omitempty"`
	Metrics   []metrics.Sample `json:"metrics,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate outputs from a grammar",
		Long: `Expand a grammar and print one output per run.

Every run draws from the same random source, so a seeded invocation
prints the same outputs every time.

Exit codes:
  0 - All runs succeeded
  1 - A run failed (for example, it reached an undefined rule)
  2 - Command error (bad flags, unreadable rule file, etc.)

Examples:
  stochrammar generate --example magic -n 5 --seed 42
  stochrammar generate --grammar rules.yaml --engine tree --traversal bfs
  stochrammar generate --example weighted -n 100 --metrics --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, cmd)
		},
	}

	opts.SourceOptions.register(cmd)
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 0, "number of outputs to generate")
	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "include per-run expansion statistics")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print a metrics summary after generating")

	return cmd
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := opts.SourceOptions.resolve(cmd, opts.RootOptions)
	if err != nil {
		_ = formatter.Error(ErrCodeBadFlags, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}

	count := opts.Config.Count
	if cmd.Flags().Changed("count") {
		count = opts.Count
	}
	if count < 1 {
		err := fmt.Errorf("count must be at least 1, got %d", count)
		_ = formatter.Error(ErrCodeBadFlags, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}

	var (
		reg   *prometheus.Registry
		extra []engine.Option
	)
	if opts.Metrics {
		reg = prometheus.NewRegistry()
		extra = append(extra, engine.WithObserver(metrics.NewCollector(reg)))
	}

	runner, err := opts.SourceOptions.buildRunner(st, opts.RootOptions, formatter, extra...)
	if err != nil {
		_ = formatter.Error(ErrCodeGrammar, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load grammar", err)
	}

	result := GenerateResult{
		Grammar:   st.source,
		Engine:    string(st.kind),
		Traversal: st.traversalName(),
		Outputs:   make([]string, 0, count),
	}
	if st.seeded {
		seed := st.seed
		result.Seed = &seed
	}

	rng := st.rand()
	for i := 0; i < count; i++ {
		out, stats, err := runner.RunWithStats(rng)
		if err != nil {
			_ = formatter.Error(ErrCodeRun, fmt.Sprintf("run %d failed: %v", i+1, err), runErrorDetails(err))
			return WrapExitError(ExitFailure, "generation failed", err)
		}
		result.Outputs = append(result.Outputs, out)
		if opts.Stats {
			result.Stats = append(result.Stats, stats)
		}
	}

	if reg != nil {
		samples, err := metrics.Snapshot(reg)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to gather metrics", err)
		}
		result.Metrics = samples
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return outputGenerateText(cmd, result)
}

func outputGenerateText(cmd *cobra.Command, result GenerateResult) error {
	w := cmd.OutOrStdout()
	for i, out := range result.Outputs {
		fmt.Fprintln(w, out)
		if i < len(result.Stats) {
			s := result.Stats[i]
			fmt.Fprintf(w, "  # replacements=%d terminals=%d acts=%d max_depth=%d\n",
				s.Replacements, s.Terminals, s.Acts, s.MaxDepth)
		}
	}
	if len(result.Metrics) > 0 {
		fmt.Fprintln(w, "# metrics")
		for _, m := range result.Metrics {
			fmt.Fprintln(w, m.String())
		}
	}
	return nil
}

// runErrorDetails extracts structured context from an engine failure.
func runErrorDetails(err error) map[string]interface{} {
	details := map[string]interface{}{}
	var runErr *engine.RunError
	if errors.As(err, &runErr) {
		details["code"] = string(runErr.Code)
		details["run_id"] = runErr.RunID
		details["step"] = runErr.Step
	}
	if key, ok := textgrammar.MissingKey(err); ok {
		details["missing_rule"] = key
	}
	if len(details) == 0 {
		return nil
	}
	return details
}
