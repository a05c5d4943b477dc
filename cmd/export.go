package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/date"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/persist"
)

const fileMode = 0o600

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks to a JSON backup",
	Long: `Writes tasks, theme and status filter to a JSON backup file that
'todolist import' reads back. The default file name is
todolist_backup_YYYY-MM-DD.json in the current directory; --out - writes to stdout.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "output file, or - for stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(readLock)
	if err != nil {
		return err
	}
	defer sess.close()

	now := time.Now()
	st := sess.store.State()
	out, _ := cmd.Flags().GetString("out")
	if out == "-" {
		return persist.Export(os.Stdout, st, now)
	}
	if out == "" {
		out = persist.ExportFilename(date.Of(now))
	}

	if err := writeFile(out, func(w io.Writer) error { return persist.Export(w, st, now) }); err != nil {
		return err
	}
	sess.journal.Record("export", "", out)
	sess.logger.Info("exported tasks", "path", out, "tasks", len(st.Tasks))

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"status": "exported", "path": out, "tasks": len(st.Tasks)})
	}
	output.Messagef(os.Stdout, "Exported %d tasks to %s", len(st.Tasks), out)
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode) //nolint:gosec // user-chosen output path
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
