package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/persist"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace tasks from a JSON backup",
	Long: `Reads a backup written by 'todolist export' (or the web version) and
replaces all tasks with its contents. The theme and status filter are adopted
when present. An invalid file leaves the current tasks untouched.
Use - to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	data, err := readInput(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession(replaceLock)
	if err != nil {
		return err
	}
	defer sess.close()

	st, err := persist.Import(data, sess.store.FallbackCategory())
	if err != nil {
		sess.logger.Warn("import rejected", "source", args[0], "err", err)
		return err
	}
	sess.store.ApplyImport(st)
	sess.saveNow()
	sess.logger.Info("imported tasks", "source", args[0], "tasks", sess.store.Len())

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"status": "imported", "tasks": sess.store.Len()})
	}
	output.Messagef(os.Stdout, "Imported %d tasks from %s", sess.store.Len(), args[0])
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // user-chosen import file
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
