package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/todolist/internal/derive"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

// TaskCompact renders tasks one per line.
func TaskCompact(w io.Writer, tasks []*task.Task, c derive.Classifier) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t, c))
	}
}

// TaskDetailCompact renders a single task with its timestamps.
func TaskDetailCompact(w io.Writer, t *task.Task, c derive.Classifier) {
	fmt.Fprintln(w, formatTaskLine(t, c))
	ts := "  id:" + string(t.ID) + " created:" + t.CreatedAt.String()
	if !t.UpdatedAt.IsZero() {
		ts += " updated:" + t.UpdatedAt.Local().Format("2006-01-02T15:04")
	}
	fmt.Fprintln(w, ts)
}

// StatsCompact renders stats on one line.
func StatsCompact(w io.Writer, s derive.Stats) {
	parts := []string{
		"total=" + strconv.Itoa(s.Total),
		"active=" + strconv.Itoa(s.Active),
		"completed=" + strconv.Itoa(s.Completed),
		"overdue=" + strconv.Itoa(s.Overdue),
		"dueSoon=" + strconv.Itoa(s.DueSoon),
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}

// GroupedCompact renders one summary line per group.
func GroupedCompact(w io.Writer, groups []derive.Group) {
	for _, g := range groups {
		fmt.Fprintf(w, "%s: %d (%d done, %d overdue)\n", g.Key, g.Stats.Total, g.Stats.Completed, g.Stats.Overdue)
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task, c derive.Classifier) string {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	line := mark + " " + t.ID.Short() + " [" + State(t, c) + "/" + string(t.Priority) + "] " + t.Text
	if t.Category != "" {
		line += " (" + t.Category + ")"
	}
	if t.DueDate != nil {
		line += " due:" + t.DueDate.String()
	}
	return line
}
