package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	_ "embed"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/date"
	"github.com/twiced-technology-gmbh/todolist/internal/derive"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

// SnapshotVersion is written to every export.
const SnapshotVersion = "2.0"

const schemaURL = "https://todolist.local/schema/snapshot.json"

//go:embed schema/snapshot.schema.json
var snapshotSchema string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(snapshotSchema)); err != nil {
			schemaErr = fmt.Errorf("loading snapshot schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Snapshot is the export document.
type Snapshot struct {
	Tasks        []*task.Task `json:"tasks"`
	ThemeDark    bool         `json:"themeDark"`
	StatusFilter string       `json:"statusFilter"`
	ExportedAt   time.Time    `json:"exportedAt"`
	Version      string       `json:"version"`
}

// importDoc accepts both the current keys and the darkMode/filter keys
// written by the web version of the app.
type importDoc struct {
	Tasks        []*task.Task `json:"tasks"`
	ThemeDark    *bool        `json:"themeDark"`
	StatusFilter *string      `json:"statusFilter"`
	DarkMode     *bool        `json:"darkMode"`
	Filter       *string      `json:"filter"`
}

// ExportFilename returns the suggested file name for an export made on day.
func ExportFilename(day date.Date) string {
	return "todolist_backup_" + day.String() + ".json"
}

// Export writes st as an indented JSON snapshot stamped with now.
func Export(w io.Writer, st State, now time.Time) error {
	snap := Snapshot{
		Tasks:        st.Tasks,
		StatusFilter: string(derive.StatusAll),
		ExportedAt:   now.UTC(),
		Version:      SnapshotVersion,
	}
	if snap.Tasks == nil {
		snap.Tasks = []*task.Task{}
	}
	if st.ThemeDark != nil {
		snap.ThemeDark = *st.ThemeDark
	}
	if st.StatusFilter != nil {
		snap.StatusFilter = *st.StatusFilter
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Import parses and validates a snapshot. On any failure it returns an
// INVALID_IMPORT error and a zero State. Tasks are normalized with fallback
// as the default category; tasks with blank text are dropped.
func Import(data []byte, fallback string) (State, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return State{}, invalidImport(err, "file is not valid JSON")
	}
	if dec.More() {
		return State{}, invalidImport(errors.New("trailing data after JSON document"), "file is not valid JSON")
	}

	sch, err := compiledSchema()
	if err != nil {
		return State{}, clierr.Wrap(clierr.InternalError, err, "snapshot schema")
	}
	if err := sch.Validate(raw); err != nil {
		return State{}, invalidImport(err, "file is not a todolist backup").
			WithDetails(map[string]any{"problems": schemaProblems(err)})
	}

	var doc importDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return State{}, invalidImport(err, "decoding tasks")
	}

	st := State{Tasks: make([]*task.Task, 0, len(doc.Tasks))}
	seen := make(map[task.ID]bool, len(doc.Tasks))
	for _, t := range doc.Tasks {
		if t == nil {
			continue
		}
		task.Normalize(t, fallback)
		if t.Text == "" {
			continue
		}
		if seen[t.ID] {
			t.ID = task.NewID()
		}
		seen[t.ID] = true
		st.Tasks = append(st.Tasks, t)
	}

	switch {
	case doc.ThemeDark != nil:
		st.ThemeDark = doc.ThemeDark
	case doc.DarkMode != nil:
		st.ThemeDark = doc.DarkMode
	}

	filter := doc.StatusFilter
	if filter == nil {
		filter = doc.Filter
	}
	if filter != nil {
		if s, err := derive.ParseStatus(*filter); err == nil {
			v := string(s)
			st.StatusFilter = &v
		}
	}

	return st, nil
}

func invalidImport(err error, msg string) *clierr.Error {
	return clierr.Wrap(clierr.InvalidImport, err, "%s", msg)
}

// schemaProblems flattens a validation error into "path: message" lines.
func schemaProblems(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	var out []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return out
}
