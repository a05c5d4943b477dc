package task

import (
	"strings"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/date"
)

// ParsePriority checks that s names a priority level.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if p.Rank() >= 0 {
		return p, nil
	}
	allowed := make([]string, 0, len(Priorities()))
	for _, q := range Priorities() {
		allowed = append(allowed, string(q))
	}
	return "", clierr.Newf(clierr.InvalidPriority, "invalid priority %q", s).
		WithDetails(map[string]any{
			"priority": s,
			"allowed":  allowed,
		})
}

// ParseDueDate parses a due date flag value. An empty string means no date.
func ParseDueDate(s string) (*date.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil //nolint:nilnil // absent due date is not an error
	}
	d, err := date.Parse(s)
	if err != nil {
		return nil, ValidateDate("due", s, err)
	}
	return &d, nil
}

// ValidateDate returns a CLI error for invalid date input.
func ValidateDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s date: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

// ValidateTaskID returns a CLI error for an unknown task reference.
func ValidateTaskID(ref string) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task not found: %s", ref).
		WithDetails(map[string]any{"id": ref})
}

// ValidateAmbiguousID returns a CLI error for a prefix matching several tasks.
func ValidateAmbiguousID(ref string, matches []ID) *clierr.Error {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = string(m)
	}
	return clierr.Newf(clierr.AmbiguousID, "task id %q is ambiguous (%d matches)", ref, len(matches)).
		WithDetails(map[string]any{
			"id":      ref,
			"matches": ids,
		})
}
