// Package cmd implements the todolist CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON     bool
	flagTable    bool
	flagCompact  bool
	flagDir      string
	flagNoColor  bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "todolist",
	Short: "Track tasks from the terminal",
	Long: `todolist keeps a list of tasks with priorities, categories and due dates.
Run todolist without arguments to open the interactive UI.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to the todolist data directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error); overrides log.level")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if outputFormat() == output.FormatJSON {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// warnf prints a non-fatal warning to stderr.
func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

// parseIDs splits a comma-separated id list, dropping blanks and duplicates.
func parseIDs(arg string) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, part := range strings.Split(arg, ",") {
		id := strings.TrimSpace(part)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, clierr.Newf(clierr.InvalidInput, "no task id given in %q", arg)
	}
	return ids, nil
}

// runBatch executes fn for each ref and collects results. Returns a
// SilentError with exit code 1 if any operation failed (after outputting
// results).
func runBatch(refs []string, fn func(string) (*task.Task, error)) error {
	results := make([]output.BatchResult, 0, len(refs))
	anyFailed := false

	for _, ref := range refs {
		t, err := fn(ref)
		if err != nil {
			anyFailed = true
			var cliErr *clierr.Error
			if errors.As(err, &cliErr) {
				results = append(results, output.BatchResult{ID: ref, OK: false, Error: cliErr.Message, Code: cliErr.Code})
			} else {
				results = append(results, output.BatchResult{ID: ref, OK: false, Error: err.Error()})
			}
			continue
		}
		results = append(results, output.BatchResult{ID: string(t.ID), OK: true})
	}

	if outputFormat() == output.FormatJSON {
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		var succeeded int
		for _, r := range results {
			if r.OK {
				succeeded++
			} else {
				fmt.Fprintf(os.Stderr, "Error: task %s: %s\n", r.ID, r.Error)
			}
		}
		output.Messagef(os.Stdout, "Completed %d/%d operations", succeeded, len(refs))
	}

	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
