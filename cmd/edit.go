package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID TEXT",
	Short: "Edit task text",
	Long:  `Replaces the text of a task. Blank text is rejected and leaves the task unchanged.`,
	Args:  cobra.MinimumNArgs(2), //nolint:mnd // id and text
	RunE:  runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(_ *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args[1:], " "))
	if text == "" {
		return clierr.New(clierr.NoChanges, "task text cannot be blank; edit discarded")
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
	if t.Text == text {
		return clierr.Newf(clierr.NoChanges, "task %s text is unchanged", t.ID.Short()).
			WithDetails(map[string]any{"id": string(t.ID)})
	}
	sess.store.EditText(t.ID, text)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, output.TaskViews([]*task.Task{t}, sess.store.Classifier())[0])
	}
	output.Messagef(os.Stdout, "Updated task %s: %s", t.ID.Short(), t.Text)
	return nil
}
