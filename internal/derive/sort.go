package derive

import (
	"slices"
	"sort"
	"strings"

	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

const (
	fieldCreated = "created"
	fieldUpdated = "updated"
	fieldDue     = "due"
	fieldText    = "text"
)

// ValidSortFields returns the list of valid --sort field names.
func ValidSortFields() []string {
	return []string{fieldCreated, fieldUpdated, fieldDue, fieldPriority, fieldCategory, fieldText}
}

// IsSortField reports whether field is accepted by Sort.
func IsSortField(field string) bool {
	return slices.Contains(ValidSortFields(), field)
}

// Sort orders tasks in place by field. Priority sorts high to low and tasks
// without a due date sort last. The sort is stable so equal tasks keep the
// newest-first order of the store.
func Sort(tasks []*task.Task, field string, reverse bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if reverse {
			return compareTasks(tasks[j], tasks[i], field)
		}
		return compareTasks(tasks[i], tasks[j], field)
	})
}

func compareTasks(a, b *task.Task, field string) bool {
	switch field {
	case fieldCreated:
		return a.CreatedAt.Before(b.CreatedAt)
	case fieldUpdated:
		return a.UpdatedAt.Before(b.UpdatedAt)
	case fieldPriority:
		return a.Priority.Rank() > b.Priority.Rank()
	case fieldCategory:
		return a.Category < b.Category
	case fieldText:
		return strings.ToLower(a.Text) < strings.ToLower(b.Text)
	case fieldDue:
		return compareDue(a, b)
	default:
		return false
	}
}

func compareDue(a, b *task.Task) bool {
	if a.DueDate == nil {
		return false // nil sorts last
	}
	if b.DueDate == nil {
		return true
	}
	return a.DueDate.Before(*b.DueDate)
}
