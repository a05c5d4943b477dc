package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/output"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all tasks",
	Long: `Removes every task and resets the saved view settings (status filter and
theme). Prompts for confirmation in interactive mode.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(replaceLock)
	if err != nil {
		return err
	}
	defer sess.close()

	n := sess.store.Len()
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		ok, err := confirm(fmt.Sprintf("Delete ALL %d tasks?", n))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}
	sess.store.ClearAll()

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"status": "cleared", "removed": n})
	}
	output.Messagef(os.Stdout, "Deleted %d tasks", n)
	return nil
}
