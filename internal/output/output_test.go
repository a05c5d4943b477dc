package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/todolist/internal/date"
	"github.com/twiced-technology-gmbh/todolist/internal/derive"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

var today = date.New(2026, time.October, 16)

func classifier() derive.Classifier { return derive.NewClassifier(today, 3) }

func sampleTasks() []*task.Task {
	late := today.AddDays(-2)
	return []*task.Task{
		{ID: "11111111-aaaa", Text: "Buy milk", Priority: task.PriorityMedium, Category: "Errands", Completed: true},
		{ID: "22222222-bbbb", Text: "File taxes", Priority: task.PriorityHigh, Category: "Admin", DueDate: &late},
	}
}

func TestDetect(t *testing.T) {
	t.Setenv(EnvOutput, "")
	assert.Equal(t, FormatJSON, Detect(true, true, true))
	assert.Equal(t, FormatCompact, Detect(false, true, true))
	assert.Equal(t, FormatTable, Detect(false, false, false))

	t.Setenv(EnvOutput, "json")
	assert.Equal(t, FormatJSON, Detect(false, false, false))
}

func TestState(t *testing.T) {
	tasks := sampleTasks()
	assert.Equal(t, "done", State(tasks[0], classifier()))
	assert.Equal(t, "overdue", State(tasks[1], classifier()))
}

func TestTaskCompact(t *testing.T) {
	var buf bytes.Buffer
	TaskCompact(&buf, sampleTasks(), classifier())

	assert.Equal(t,
		"[x] 11111111 [done/medium] Buy milk (Errands)\n"+
			"[ ] 22222222 [overdue/high] File taxes (Admin) due:2026-10-14\n",
		buf.String())
}

func TestStatsCompact(t *testing.T) {
	var buf bytes.Buffer
	StatsCompact(&buf, derive.Stats{Total: 2, Active: 1, Completed: 1, Overdue: 1})

	assert.Equal(t, "total=2 active=1 completed=1 overdue=1 dueSoon=0\n", buf.String())
}

func TestTaskTableNoColor(t *testing.T) {
	DisableColor()
	var buf bytes.Buffer
	TaskTable(&buf, sampleTasks(), classifier())

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "22222222")
	assert.Contains(t, out, "2026-10-14")
	assert.NotContains(t, out, "\x1b[")
}

func TestTaskViewsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, TaskViews(sampleTasks(), classifier())))

	var views []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "File taxes", views[1]["text"])
	assert.Equal(t, true, views[1]["overdue"])
	assert.Equal(t, false, views[1]["dueSoon"])
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	JSONError(&buf, "TASK_NOT_FOUND", "task not found: x", map[string]any{"id": "x"})

	assert.JSONEq(t, `{"error":"task not found: x","code":"TASK_NOT_FOUND","details":{"id":"x"}}`, buf.String())
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", RelativeTime(now.Add(-2*time.Second), now))
	assert.Equal(t, "42s ago", RelativeTime(now.Add(-42*time.Second), now))
	assert.Equal(t, "3 min ago", RelativeTime(now.Add(-3*time.Minute), now))
	assert.Equal(t, "5h ago", RelativeTime(now.Add(-5*time.Hour), now))
}

func TestDueRelative(t *testing.T) {
	assert.Equal(t, "today", dueRelative(0))
	assert.Equal(t, "tomorrow", dueRelative(1))
	assert.Equal(t, "in 3 days", dueRelative(3))
	assert.Equal(t, "2 days ago", dueRelative(-2))
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown("Buy **milk**", true, 40)

	require.NoError(t, err)
	assert.Contains(t, out, "milk")
}
