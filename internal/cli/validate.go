package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/parafilter/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Filters  int                        `json:"filters"`
	Mappings int                        `json:"mappings"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config-dir>",
		Short: "Validate a filter config without applying it",
		Long: `Validate the filters and mappings of a CUE config directory.

Runs the CUE schema and then the checks the schema cannot express:
bound counts, set members, duplicate or unknown mappings.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, configDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loaded, err := LoadConfig(configDir)
	if err != nil {
		var loadErr *LoadError
		if !errors.As(err, &loadErr) {
			return outputValidateError(formatter, ErrCodeGeneric, err.Error())
		}
		// A config the schema or compiler rejects is a validation failure;
		// a missing or unloadable directory is a command error.
		if loadErr.Err == nil {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputValidationErrors(formatter, []compiler.ValidationError{{
			Field:   "config",
			Message: loadErr.Message,
			Code:    loadErr.Code,
			Line:    lineOf(loadErr),
		}})
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loaded.FileCount, configDir)

	cfg := loaded.Config
	for i, f := range cfg.Filters {
		formatter.VerboseLog("Validating filters[%d]: %s %s", i, f.SourcePath, f.Operation)
	}

	validationErrors := compiler.Validate(cfg)
	if len(cfg.Filters) == 0 && len(validationErrors) == 0 {
		validationErrors = append(validationErrors, compiler.ValidationError{
			Field:   "filters",
			Message: "no filters found in config",
			Code:    ErrCodeNoFilters,
		})
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:    true,
			Filters:  len(cfg.Filters),
			Mappings: len(cfg.Mappings),
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Config valid (%d filter(s), %d mapping(s))\n", len(cfg.Filters), len(cfg.Mappings))
	return nil
}

// lineOf extracts the line number of a load error, 0 if unknown.
func lineOf(e *LoadError) int {
	if e.Pos.IsValid() {
		return e.Pos.Line()
	}
	return 0
}

// outputValidateError outputs a single command-level error.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Missing directories and unloadable packages are command errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
