package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/store"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Permanently removes a task. Prompts for confirmation in interactive mode.
Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	refs, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")

	// Batch mode requires --yes.
	if len(refs) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq, "batch delete requires --yes")
	}

	sess, err := openSession(writeLock)
	if err != nil {
		return err
	}
	defer sess.close()

	if len(refs) > 1 {
		return runBatch(refs, func(ref string) (*task.Task, error) {
			return deleteTask(sess.store, ref)
		})
	}

	t, err := sess.store.Lookup(refs[0])
	if err != nil {
		return err
	}
	if !yes {
		ok, err := confirm(fmt.Sprintf("Delete task %s %q?", t.ID.Short(), t.Text))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}
	sess.store.DeleteTask(t.ID)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status": "deleted",
			"id":     t.ID,
			"text":   t.Text,
		})
	}
	output.Messagef(os.Stdout, "Deleted task %s: %s", t.ID.Short(), t.Text)
	return nil
}

func deleteTask(s *store.Store, ref string) (*task.Task, error) {
	t, err := s.Lookup(ref)
	if err != nil {
		return nil, err
	}
	s.DeleteTask(t.ID)
	return t, nil
}

// confirm asks a yes/no question on stderr. Without a terminal on stdin it
// fails with CONFIRMATION_REQUIRED.
func confirm(question string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, clierr.New(clierr.ConfirmationReq,
			"cannot prompt for confirmation (not a terminal); use --yes")
	}
	fmt.Fprintf(os.Stderr, "%s [y/N] ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}
