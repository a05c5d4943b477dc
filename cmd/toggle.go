package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/store"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

var toggleCmd = &cobra.Command{
	Use:     "toggle ID[,ID,...]",
	Aliases: []string{"done"},
	Short:   "Toggle task completion",
	Long: `Marks an active task completed, or reopens a completed one.
Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: runToggle,
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}

func runToggle(_ *cobra.Command, args []string) error {
	refs, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession(writeLock)
	if err != nil {
		return err
	}
	defer sess.close()

	if len(refs) > 1 {
		return runBatch(refs, func(ref string) (*task.Task, error) {
			return toggleTask(sess.store, ref)
		})
	}

	t, err := toggleTask(sess.store, refs[0])
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, output.TaskViews([]*task.Task{t}, sess.store.Classifier())[0])
	}
	verb := "Reopened"
	if t.Completed {
		verb = "Completed"
	}
	output.Messagef(os.Stdout, "%s task %s: %s", verb, t.ID.Short(), t.Text)
	return nil
}

func toggleTask(s *store.Store, ref string) (*task.Task, error) {
	t, err := s.Lookup(ref)
	if err != nil {
		return nil, err
	}
	s.ToggleCompleted(t.ID)
	return t, nil
}
