package derive

import (
	"sort"

	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

// Stats aggregates counts over the whole collection.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Active    int `json:"active"`
	Overdue   int `json:"overdue"`
	DueSoon   int `json:"dueSoon"`
}

// Summarize computes Stats for tasks.
func Summarize(tasks []*task.Task, c Classifier) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
		if c.Overdue(t) {
			s.Overdue++
		} else if c.DueSoon(t) {
			s.DueSoon++
		}
	}
	s.Active = s.Total - s.Completed
	return s
}

const (
	fieldCategory = "category"
	fieldPriority = "priority"
)

// ValidGroupByFields returns the list of valid --group-by field names.
func ValidGroupByFields() []string {
	return []string{fieldCategory, fieldPriority}
}

// Group is one bucket of a grouped view.
type Group struct {
	Key   string       `json:"key"`
	Stats Stats        `json:"stats"`
	Tasks []*task.Task `json:"tasks"`
}

// GroupBy buckets tasks by field. Categories sort alphabetically and
// priorities from high to low; tasks keep their input order within a group.
func GroupBy(tasks []*task.Task, field string, c Classifier) []Group {
	groups := make(map[string][]*task.Task)
	for _, t := range tasks {
		key := groupKey(t, field)
		groups[key] = append(groups[key], t)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	if field == fieldPriority {
		sort.SliceStable(keys, func(i, j int) bool {
			return task.Priority(keys[i]).Rank() > task.Priority(keys[j]).Rank()
		})
	} else {
		sort.Strings(keys)
	}

	result := make([]Group, 0, len(keys))
	for _, k := range keys {
		result = append(result, Group{
			Key:   k,
			Stats: Summarize(groups[k], c),
			Tasks: groups[k],
		})
	}
	return result
}

func groupKey(t *task.Task, field string) string {
	switch field {
	case fieldPriority:
		return string(t.Priority)
	case fieldCategory:
		return t.Category
	default:
		return "(all)"
	}
}
