package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/stochrammar/internal/examples"
)

// ExampleInfo describes a built-in grammar.
type ExampleInfo struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Deterministic bool   `json:"deterministic"`
}

// NewExamplesCommand creates the examples command.
func NewExamplesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "List built-in example grammars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all := examples.All()
			infos := make([]ExampleInfo, 0, len(all))
			for _, ex := range all {
				infos = append(infos, ExampleInfo{Name: ex.Name, Description: ex.Description, Deterministic: ex.Deterministic})
			}

			if rootOpts.Format == "json" {
				return newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr()).Success(infos)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%s\n", info.Name, info.Description)
			}
			return tw.Flush()
		},
	}
}
