package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/todolist/internal/activity"
	"github.com/twiced-technology-gmbh/todolist/internal/derive"
	"github.com/twiced-technology-gmbh/todolist/internal/icons"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// State colors aligned with the TUI palette.
	stateStyles = map[string]lipgloss.Style{
		stateDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		stateOverdue: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		stateDueSoon: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		stateActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}

	priorityStyles = map[string]lipgloss.Style{
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
)

const (
	stateDone    = "done"
	stateOverdue = "overdue"
	stateDueSoon = "due-soon"
	stateActive  = "active"
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	stateStyles = map[string]lipgloss.Style{}
	priorityStyles = map[string]lipgloss.Style{}
	categoryStyle = lipgloss.NewStyle()
}

// State returns the display state of t: done, overdue, due-soon or active.
func State(t *task.Task, c derive.Classifier) string {
	switch {
	case t.Completed:
		return stateDone
	case c.Overdue(t):
		return stateOverdue
	case c.DueSoon(t):
		return stateDueSoon
	default:
		return stateActive
	}
}

// Checkbox returns the completion glyph for t.
func Checkbox(t *task.Task) string {
	if t.Completed {
		return icons.Get("checkCircle")
	}
	return icons.Get("circle")
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []*task.Task, c derive.Classifier) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	idW, stateW, prioW, textW, catW, dueW := 10, 7, 10, 6, 10, 12
	for _, t := range tasks {
		stateW = max(stateW, len(State(t, c))+pad)
		textW = max(textW, min(len(t.Text)+pad, 50))   //nolint:mnd // max text column width
		catW = max(catW, min(len(t.Category)+pad, 24)) //nolint:mnd // max category column width
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s",
		idW, "ID", stateW, "STATE", prioW, "PRIORITY",
		textW, "TASK", catW, "CATEGORY", dueW, "DUE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		text := truncate(t.Text, 48) //nolint:mnd // fits the capped column
		due := dimStyle.Render("--")
		if t.DueDate != nil {
			due = t.DueDate.String()
		}
		row := fmt.Sprintf("%-*s %s %s %s %s %s",
			idW, t.ID.Short(),
			padRight(styledValue(State(t, c), stateStyles), stateW),
			padRight(styledValue(string(t.Priority), priorityStyles), prioW),
			padRight(text, textW),
			padRight(categoryStyle.Render(truncate(t.Category, 22)), catW), //nolint:mnd // fits the capped column
			due)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail. body is the rendered
// task text; when empty the plain text is printed.
func TaskDetail(w io.Writer, t *task.Task, c derive.Classifier, body string) {
	titleLine := fmt.Sprintf("%s %s", Checkbox(t), t.Text)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "ID", string(t.ID))
	printField(w, "State", styledValue(State(t, c), stateStyles))
	printField(w, "Priority", styledValue(string(t.Priority), priorityStyles))
	printField(w, "Category", categoryStyle.Render(t.Category))
	if t.DueDate != nil {
		printField(w, "Due", icons.Get("calendar")+" "+t.DueDate.String()+" ("+dueRelative(c.Today.DaysUntil(*t.DueDate))+")")
	} else {
		printField(w, "Due", dimStyle.Render("--"))
	}
	printField(w, "Created", t.CreatedAt.String())
	if !t.UpdatedAt.IsZero() {
		printField(w, "Updated", t.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}

	if body != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, body)
		if !strings.HasSuffix(body, "\n") {
			fmt.Fprintln(w)
		}
	}
}

// StatsTable renders collection statistics.
func StatsTable(w io.Writer, s derive.Stats) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-12s %6s", "STAT", "COUNT")))
	rows := []struct {
		label string
		n     int
		style string
	}{
		{"total", s.Total, ""},
		{"active", s.Active, stateActive},
		{"completed", s.Completed, stateDone},
		{"overdue", s.Overdue, stateOverdue},
		{"due soon", s.DueSoon, stateDueSoon},
	}
	for _, r := range rows {
		label := r.label
		if st, ok := stateStyles[r.style]; ok {
			label = st.Render(label)
		}
		const labelW = 12
		fmt.Fprintf(w, "%s %6d\n", padRight(label, labelW), r.n)
	}
}

// GroupedTable renders groups with their stats and tasks.
func GroupedTable(w io.Writer, groups []derive.Group, c derive.Classifier) {
	if len(groups) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := fmt.Sprintf("%s (%d tasks, %d done)", g.Key, g.Stats.Total, g.Stats.Completed)
		fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(title))
		for _, t := range g.Tasks {
			fmt.Fprintf(w, "  %s %s %s %s\n", Checkbox(t), t.ID.Short(),
				padRight(styledValue(State(t, c), stateStyles), 9), t.Text) //nolint:mnd // widest state plus padding
		}
	}
}

// CategoryList prints one category per line with its task count.
func CategoryList(w io.Writer, categories []string, counts map[string]int) {
	if len(categories) == 0 {
		fmt.Fprintln(os.Stderr, "No categories.")
		return
	}
	for _, cat := range categories {
		fmt.Fprintf(w, "%s %s %s\n", icons.Get("tag"), categoryStyle.Render(cat), dimStyle.Render("("+strconv.Itoa(counts[cat])+")"))
	}
}

// ActivityTable renders journal entries.
func ActivityTable(w io.Writer, entries []activity.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}
	for _, e := range entries {
		id := dimStyle.Render("--------")
		if e.TaskID != "" {
			id = task.ID(e.TaskID).Short()
		}
		fmt.Fprintf(w, "%s  %-8s %s %s\n",
			dimStyle.Render(e.Timestamp.Local().Format("2006-01-02 15:04:05")),
			e.Action, padRight(id, 8), truncate(e.Detail, 60)) //nolint:mnd // column widths
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-10s %s\n", label+":", value)
}

// RelativeTime renders how long ago then was, relative to now.
func RelativeTime(then, now time.Time) string {
	d := now.Sub(then)
	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return strconv.Itoa(int(d.Seconds())) + "s ago"
	case d < time.Hour:
		return strconv.Itoa(int(d.Minutes())) + " min ago"
	case d < 24*time.Hour:
		return strconv.Itoa(int(d.Hours())) + "h ago"
	default:
		return then.Local().Format("2006-01-02 15:04")
	}
}

func dueRelative(days int) string {
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days < 0:
		return strconv.Itoa(-days) + " days ago"
	default:
		return "in " + strconv.Itoa(days) + " days"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
