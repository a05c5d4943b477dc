package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

const defaultWrapWidth = 80

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long: `Displays full details of a single task. The task text is rendered as
markdown. ID may be a unique prefix of the full id.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	sess, err := openSession(readLock)
	if err != nil {
		return err
	}
	defer sess.close()

	t, err := sess.store.Lookup(args[0])
	if err != nil {
		return err
	}
	c := sess.store.Classifier()

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, output.TaskViews([]*task.Task{t}, c)[0])
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t, c)
		return nil
	}

	body := ""
	if !flagNoColor {
		body, err = output.Markdown(t.Text, sess.store.View().ThemeDark, terminalWidth())
		if err != nil {
			sess.logger.Warn("rendering markdown failed", "err", err)
			body = ""
		}
	}
	output.TaskDetail(os.Stdout, t, c, body)
	return nil
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultWrapWidth
}
