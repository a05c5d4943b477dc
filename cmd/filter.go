package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/derive"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
)

var filterCmd = &cobra.Command{
	Use:   "filter [STATUS]",
	Short: "Show or set the saved status filter",
	Long: `Without an argument prints the saved status filter. With one, saves it.
The filter applies to 'list' and the interactive UI.

Statuses: ` + statusNames() + `. "next" cycles through them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(filterCmd)
}

func runFilter(_ *cobra.Command, args []string) error {
	mode := readLock
	if len(args) == 1 {
		mode = writeLock
	}
	sess, err := openSession(mode)
	if err != nil {
		return err
	}
	defer sess.close()

	if len(args) == 1 {
		status := sess.store.View().StatusFilter.Next()
		if args[0] != "next" {
			if status, err = derive.ParseStatus(args[0]); err != nil {
				return err
			}
		}
		sess.store.SetStatusFilter(status)
	}

	current := sess.store.View().StatusFilter
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"statusFilter": current,
			"visible":      len(sess.store.Filtered()),
		})
	}
	output.Messagef(os.Stdout, "Status filter: %s (%d of %d tasks visible)",
		current, len(sess.store.Filtered()), sess.store.Len())
	return nil
}
