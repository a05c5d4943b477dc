package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

var addCmd = &cobra.Command{
	Use:     "add [TEXT]",
	Aliases: []string{"create", "new"},
	Short:   "Add a new task",
	Long: `Adds a task to the top of the list.

Text can be provided as positional arguments or via the --text flag.
Tasks added without a category get the configured default category.`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().String("text", "", "task text (alternative to positional arguments)")
	addCmd.Flags().StringP("category", "c", "", "task category")
	addCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().StringP("priority", "p", "", "task priority (low, medium, high)")
	addCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "cat":
			name = "category"
		case "title":
			name = "text"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	text, err := resolveAddText(cmd, args)
	if err != nil {
		return err
	}

	// Validate every flag before touching the store.
	dueFlag, _ := cmd.Flags().GetString("due")
	due, err := task.ParseDueDate(dueFlag)
	if err != nil {
		return err
	}
	var prio task.Priority
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		if prio, err = task.ParsePriority(v); err != nil {
			return err
		}
	}
	category, _ := cmd.Flags().GetString("category")

	sess, err := openSession(writeLock)
	if err != nil {
		return err
	}
	defer sess.close()

	t, ok := sess.store.AddTask(text, category, due)
	if !ok {
		return clierr.New(clierr.InvalidInput, "task text is required")
	}
	if prio != "" && prio != t.Priority {
		sess.store.SetPriority(t.ID, prio)
	}
	sess.logger.Info("task added", "id", t.ID, "category", t.Category)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, output.TaskViews([]*task.Task{t}, sess.store.Classifier())[0])
	}
	output.Messagef(os.Stdout, "Added task %s: %s", t.ID.Short(), t.Text)
	output.Messagef(os.Stdout, "  Category: %s | Priority: %s", t.Category, t.Priority)
	if t.DueDate != nil {
		output.Messagef(os.Stdout, "  Due: %s", t.DueDate)
	}
	return nil
}

// resolveAddText returns the task text from either the positional args or --text.
func resolveAddText(cmd *cobra.Command, args []string) (string, error) {
	flagText, _ := cmd.Flags().GetString("text")
	positional := strings.TrimSpace(strings.Join(args, " "))

	switch {
	case positional != "" && flagText != "":
		return "", clierr.New(clierr.InvalidInput,
			"text provided both as argument and --text flag; use one or the other")
	case positional != "":
		return positional, nil
	case strings.TrimSpace(flagText) != "":
		return flagText, nil
	default:
		return "", clierr.New(clierr.InvalidInput, "task text is required: provide it as an argument or with --text")
	}
}
