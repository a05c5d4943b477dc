// Package derive computes views over a task collection: status
// classification, the filtered list, the category set and statistics.
// Every function is pure and recomputes from its inputs.
package derive

import (
	"sort"
	"strings"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/date"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

// DefaultDueSoonDays is how far ahead, inclusive, a due date counts as soon.
const DefaultDueSoonDays = 3

// AllCategories is the category filter value that matches every task.
const AllCategories = "all"

// Status is a status filter value.
type Status string

// Status filters.
const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusDueSoon   Status = "due-soon"
)

// Statuses returns every status filter in display order.
func Statuses() []Status {
	return []Status{StatusAll, StatusActive, StatusCompleted, StatusOverdue, StatusDueSoon}
}

// Next returns the status filter after s in display order, wrapping around.
func (s Status) Next() Status {
	all := Statuses()
	for i, v := range all {
		if v == s {
			return all[(i+1)%len(all)]
		}
	}
	return StatusAll
}

// ParseStatus validates a status filter name.
func ParseStatus(s string) (Status, error) {
	for _, v := range Statuses() {
		if string(v) == s {
			return v, nil
		}
	}
	allowed := make([]string, 0, len(Statuses()))
	for _, v := range Statuses() {
		allowed = append(allowed, string(v))
	}
	return "", clierr.Newf(clierr.InvalidFilter, "invalid status filter %q", s).
		WithDetails(map[string]any{
			"filter":  s,
			"allowed": allowed,
		})
}

// Classifier decides the overdue and due-soon predicates relative to a
// fixed calendar day. Comparisons are by whole calendar days: a task due
// today is due soon and never overdue.
type Classifier struct {
	Today  date.Date
	Window int // days ahead, inclusive, that count as due soon
}

// NewClassifier returns a Classifier for today with the given window. A
// non-positive window falls back to DefaultDueSoonDays.
func NewClassifier(today date.Date, window int) Classifier {
	if window <= 0 {
		window = DefaultDueSoonDays
	}
	return Classifier{Today: today, Window: window}
}

// Overdue reports whether t is incomplete and its due date has passed.
func (c Classifier) Overdue(t *task.Task) bool {
	if t.DueDate == nil || t.Completed {
		return false
	}
	return t.DueDate.Before(c.Today)
}

// DueSoon reports whether t is incomplete and due within the window.
func (c Classifier) DueSoon(t *task.Task) bool {
	if t.DueDate == nil || t.Completed {
		return false
	}
	days := c.Today.DaysUntil(*t.DueDate)
	return days >= 0 && days <= c.Window
}

// Criteria holds the three view preferences that select tasks.
type Criteria struct {
	Status   Status
	Search   string // case-insensitive substring of text or category
	Category string // exact category, or AllCategories
}

// Filter returns tasks matching all criteria (AND logic), in input order.
func Filter(tasks []*task.Task, crit Criteria, c Classifier) []*task.Task {
	result := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchesStatus(t, crit.Status, c) && matchesSearch(t, crit.Search) && matchesCategory(t, crit.Category) {
			result = append(result, t)
		}
	}
	return result
}

func matchesStatus(t *task.Task, s Status, c Classifier) bool {
	switch s {
	case StatusActive:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	case StatusOverdue:
		return c.Overdue(t)
	case StatusDueSoon:
		return c.DueSoon(t)
	default:
		return true
	}
}

// matchesSearch performs case-insensitive substring matching across text and category.
func matchesSearch(t *task.Task, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Text), q) ||
		strings.Contains(strings.ToLower(t.Category), q)
}

func matchesCategory(t *task.Task, category string) bool {
	return category == "" || category == AllCategories || t.Category == category
}

// Categories returns the distinct categories across tasks, sorted ascending.
func Categories(tasks []*task.Task) []string {
	seen := make(map[string]bool, len(tasks))
	cats := make([]string, 0)
	for _, t := range tasks {
		if !seen[t.Category] {
			seen[t.Category] = true
			cats = append(cats, t.Category)
		}
	}
	sort.Strings(cats)
	return cats
}
