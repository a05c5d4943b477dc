package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

var priorityCmd = &cobra.Command{
	Use:     "priority ID LEVEL",
	Aliases: []string{"prio"},
	Short:   "Set task priority",
	Long:    `Sets the priority of a task to low, medium or high. "next" cycles low → medium → high → low.`,
	Args:    cobra.ExactArgs(2), //nolint:mnd // id and level
	RunE:    runPriority,
}

func init() {
	rootCmd.AddCommand(priorityCmd)
}

func runPriority(_ *cobra.Command, args []string) error {
	level := strings.ToLower(strings.TrimSpace(args[1]))
	var (
		prio task.Priority
		err  error
	)
	if level != "next" {
		if prio, err = task.ParsePriority(level); err != nil {
			return err
		}
	}

	sess, err := openSession(writeLock)
	if err != nil {
		return err
	}
	defer sess.close()

	t, err := sess.store.Lookup(args[0])
	if err != nil {
		return err
	}
	if prio == "" {
		prio = t.Priority.Next()
	}
	if prio == t.Priority {
		return clierr.Newf(clierr.NoChanges, "task %s already has priority %s", t.ID.Short(), prio).
			WithDetails(map[string]any{"id": string(t.ID), "priority": string(prio)})
	}
	sess.store.SetPriority(t.ID, prio)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, output.TaskViews([]*task.Task{t}, sess.store.Classifier())[0])
	}
	output.Messagef(os.Stdout, "Set priority of task %s to %s", t.ID.Short(), t.Priority)
	return nil
}
