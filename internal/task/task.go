// Package task defines the tracked to-do item and its field types.
package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/twiced-technology-gmbh/todolist/internal/date"
)

// DefaultCategory labels tasks created without a category.
const DefaultCategory = "General"

// ID uniquely identifies a task within a collection.
type ID string

// NewID returns a fresh random task ID.
func NewID() ID {
	return ID(uuid.New().String())
}

// String returns the ID as a string.
func (id ID) String() string { return string(id) }

// Short returns the first eight characters of the ID for display.
func (id ID) Short() string {
	const shortLen = 8
	if len(id) <= shortLen {
		return string(id)
	}
	return string(id[:shortLen])
}

// UnmarshalJSON accepts either a JSON string or a JSON number. Older backups
// used millisecond timestamps as numeric ids.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id must be a string or number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ID(n.String())
	return nil
}

// Priority ranks a task.
type Priority string

// Priority levels, lowest first.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities returns every priority level, lowest first.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Next returns the priority that follows p in the low→medium→high cycle.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// Rank returns the index of p in Priorities, or -1.
func (p Priority) Rank() int {
	for i, q := range Priorities() {
		if q == p {
			return i
		}
	}
	return -1
}

// Task is a single tracked to-do item.
type Task struct {
	ID        ID         `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	CreatedAt date.Date  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Priority  Priority   `json:"priority"`
	Category  string     `json:"category"`
	DueDate   *date.Date `json:"dueDate"`
}

// Clone returns a deep copy of t.
func (t *Task) Clone() *Task {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}

// CategoryOr returns the trimmed category, or fallback when it is blank.
func CategoryOr(category, fallback string) string {
	if c := strings.TrimSpace(category); c != "" {
		return c
	}
	return fallback
}

// Normalize fills defaults on a task read from an external source: a missing
// id gets a fresh one, text and category are trimmed, an unknown priority
// becomes medium, a blank category becomes fallback and a zero due date is
// dropped.
func Normalize(t *Task, fallback string) {
	if t.ID == "" {
		t.ID = NewID()
	}
	t.Text = strings.TrimSpace(t.Text)
	if t.Priority.Rank() < 0 {
		t.Priority = PriorityMedium
	}
	t.Category = CategoryOr(t.Category, fallback)
	if t.DueDate != nil && t.DueDate.IsZero() {
		t.DueDate = nil
	}
}
