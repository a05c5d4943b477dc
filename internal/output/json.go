package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/twiced-technology-gmbh/todolist/internal/derive"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

// JSON writes data as indented JSON to the given writer.
func JSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the JSON envelope for structured error output.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// JSONError writes a structured error to the given writer as JSON.
func JSONError(w io.Writer, code, msg string, details map[string]any) {
	resp := ErrorResponse{Error: msg, Code: code, Details: details}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp) // best-effort; if writer fails, nothing we can do
}

// BatchResult represents the outcome of a single operation within a batch.
type BatchResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// TaskView is a task with its derived due-date classification, as emitted
// by --json.
type TaskView struct {
	*task.Task
	Overdue bool `json:"overdue"`
	DueSoon bool `json:"dueSoon"`
}

// TaskViews classifies each task with c.
func TaskViews(tasks []*task.Task, c derive.Classifier) []TaskView {
	views := make([]TaskView, len(tasks))
	for i, t := range tasks {
		views[i] = TaskView{Task: t, Overdue: c.Overdue(t), DueSoon: c.DueSoon(t)}
	}
	return views
}
