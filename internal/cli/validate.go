package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/stochrammar/internal/rulefile"
)

// FileValidation is the validation outcome of one rule file.
type FileValidation struct {
	Path       string   `json:"path"`
	Name       string   `json:"name,omitempty"`
	Rules      int      `json:"rules"`
	Valid      bool     `json:"valid"`
	Code       string   `json:"code,omitempty"`
	Unresolved []string `json:"unresolved,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <rule-file>...",
		Short: "Validate rule files without generating",
		Long: `Validate YAML, TOML or CUE rule files.

Checks syntax, rejects unknown fields, checks each rule's structure, and
reports every rule reference that names an undefined key.

Exit codes:
  0 - All files are valid
  1 - One or more files are invalid`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(paths))}
	for _, path := range paths {
		fv := validateFile(path)
		formatter.VerboseLog("Validated %s: %d rule(s)", path, fv.Rules)
		if !fv.Valid {
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputValidateText(cmd, result)
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

func validateFile(path string) FileValidation {
	fv := FileValidation{Path: path, Valid: true}

	doc, err := rulefile.Check(path)
	if doc != nil {
		fv.Name = doc.Name
		fv.Rules = len(doc.Rules)
		fv.Unresolved = doc.Unresolved()
	}
	if err == nil {
		return fv
	}

	fv.Valid = false
	var le *rulefile.LoadError
	if errors.As(err, &le) {
		fv.Code = le.Code
		fv.Errors = flatten(le.Err)
		if len(fv.Errors) == 0 {
			fv.Errors = []string{le.Message}
		}
		return fv
	}
	fv.Errors = []string{err.Error()}
	return fv
}

// flatten splits an errors.Join result into its messages.
func flatten(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []string{err.Error()}
}

func outputValidateText(cmd *cobra.Command, result ValidationResult) {
	w := cmd.OutOrStdout()
	for _, fv := range result.Files {
		if fv.Valid {
			fmt.Fprintf(w, "%s %s (%d rules)\n", pass(w), fv.Path, fv.Rules)
			continue
		}
		fmt.Fprintf(w, "%s %s [%s]\n", fail(w), fv.Path, fv.Code)
		for _, e := range fv.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
}
