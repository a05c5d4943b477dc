package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/date"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

var today = date.New(2026, time.October, 16)

func due(days int) *date.Date {
	d := today.AddDays(days)
	return &d
}

func newTask(id, text, category string) *task.Task {
	return &task.Task{ID: task.ID(id), Text: text, Category: category, Priority: task.PriorityMedium}
}

func TestClassifier(t *testing.T) {
	c := NewClassifier(today, 0)

	tests := []struct {
		name        string
		due         *date.Date
		completed   bool
		wantOverdue bool
		wantSoon    bool
	}{
		{name: "no due date", due: nil},
		{name: "yesterday", due: due(-1), wantOverdue: true},
		{name: "yesterday but completed", due: due(-1), completed: true},
		{name: "today", due: due(0), wantSoon: true},
		{name: "in three days", due: due(3), wantSoon: true},
		{name: "in four days", due: due(4)},
		{name: "soon but completed", due: due(1), completed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := newTask("1", "x", "General")
			tk.DueDate = tt.due
			tk.Completed = tt.completed

			assert.Equal(t, tt.wantOverdue, c.Overdue(tk), "overdue")
			assert.Equal(t, tt.wantSoon, c.DueSoon(tk), "due soon")
			assert.False(t, c.Overdue(tk) && c.DueSoon(tk), "predicates must be exclusive")
		})
	}
}

func TestClassifierCustomWindow(t *testing.T) {
	c := NewClassifier(today, 7)
	tk := newTask("1", "x", "General")
	tk.DueDate = due(6)

	assert.True(t, c.DueSoon(tk))
}

func TestFilterByCategory(t *testing.T) {
	errands := newTask("1", "Buy milk", "Errands")
	work := newTask("2", "Write report", "Work")
	tasks := []*task.Task{errands, work}

	got := Filter(tasks, Criteria{Status: StatusAll, Category: "Errands"}, NewClassifier(today, 0))

	require.Len(t, got, 1)
	assert.Equal(t, errands, got[0])
}

func TestFilterCombinesCriteria(t *testing.T) {
	a := newTask("a", "Call plumber", "Home")
	b := newTask("b", "Pay rent", "Home")
	b.Completed = true
	c := newTask("c", "Plan sprint", "Work")
	c.DueDate = due(-2)
	d := newTask("d", "Home office chair", "Shopping")
	d.DueDate = due(2)
	tasks := []*task.Task{a, b, c, d}
	cls := NewClassifier(today, 0)

	tests := []struct {
		name string
		crit Criteria
		want []*task.Task
	}{
		{name: "all", crit: Criteria{Status: StatusAll}, want: tasks},
		{name: "active", crit: Criteria{Status: StatusActive}, want: []*task.Task{a, c, d}},
		{name: "completed", crit: Criteria{Status: StatusCompleted}, want: []*task.Task{b}},
		{name: "overdue", crit: Criteria{Status: StatusOverdue}, want: []*task.Task{c}},
		{name: "due soon", crit: Criteria{Status: StatusDueSoon}, want: []*task.Task{d}},
		{name: "search text case-insensitive", crit: Criteria{Status: StatusAll, Search: "PLAN"}, want: []*task.Task{c}},
		{name: "search matches category", crit: Criteria{Status: StatusAll, Search: "home"}, want: []*task.Task{a, b, d}},
		{name: "search and status", crit: Criteria{Status: StatusActive, Search: "home"}, want: []*task.Task{a, d}},
		{name: "category all keyword", crit: Criteria{Status: StatusAll, Category: AllCategories}, want: tasks},
		{name: "no match", crit: Criteria{Status: StatusAll, Search: "zzz"}, want: []*task.Task{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filter(tasks, tt.crit, cls))
		})
	}
}

func TestCategoriesSortedAndDistinct(t *testing.T) {
	tasks := []*task.Task{
		newTask("1", "a", "Work"),
		newTask("2", "b", "Errands"),
		newTask("3", "c", "Work"),
		newTask("4", "d", "Home"),
	}

	assert.Equal(t, []string{"Errands", "Home", "Work"}, Categories(tasks))
	assert.Empty(t, Categories(nil))
}

func TestSummarize(t *testing.T) {
	done := newTask("1", "a", "x")
	done.Completed = true
	late := newTask("2", "b", "x")
	late.DueDate = due(-3)
	soon := newTask("3", "c", "x")
	soon.DueDate = due(1)
	plain := newTask("4", "d", "x")

	s := Summarize([]*task.Task{done, late, soon, plain}, NewClassifier(today, 0))

	assert.Equal(t, Stats{Total: 4, Completed: 1, Active: 3, Overdue: 1, DueSoon: 1}, s)
	assert.Equal(t, s.Total, s.Active+s.Completed)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("due-soon")
	require.NoError(t, err)
	assert.Equal(t, StatusDueSoon, s)

	_, err = ParseStatus("someday")
	assert.True(t, clierr.HasCode(err, clierr.InvalidFilter))
}

func TestStatusNextWraps(t *testing.T) {
	assert.Equal(t, StatusActive, StatusAll.Next())
	assert.Equal(t, StatusAll, StatusDueSoon.Next())
}

func TestGroupByPriority(t *testing.T) {
	low := newTask("1", "a", "x")
	low.Priority = task.PriorityLow
	high := newTask("2", "b", "x")
	high.Priority = task.PriorityHigh
	med := newTask("3", "c", "x")

	groups := GroupBy([]*task.Task{low, high, med}, "priority", NewClassifier(today, 0))

	require.Len(t, groups, 3)
	assert.Equal(t, "high", groups[0].Key)
	assert.Equal(t, "medium", groups[1].Key)
	assert.Equal(t, "low", groups[2].Key)
	assert.Equal(t, 1, groups[0].Stats.Total)
}

func TestGroupByCategory(t *testing.T) {
	tasks := []*task.Task{
		newTask("1", "a", "Work"),
		newTask("2", "b", "Errands"),
		newTask("3", "c", "Work"),
	}

	groups := GroupBy(tasks, "category", NewClassifier(today, 0))

	require.Len(t, groups, 2)
	assert.Equal(t, "Errands", groups[0].Key)
	assert.Equal(t, "Work", groups[1].Key)
	assert.Equal(t, []*task.Task{tasks[0], tasks[2]}, groups[1].Tasks)
}
