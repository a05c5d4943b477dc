// Package activity keeps an append-only JSONL journal of task mutations.
// It is an audit trail; nothing is ever replayed from it.
package activity

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/todolist/internal/store"
)

const (
	fileMode   = 0o600
	maxEntries = 10000 // oldest entries are dropped past this
)

// Entry is one journal line.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	TaskID    string    `json:"task_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Journal appends entries to a JSONL file.
type Journal struct {
	path string
	max  int
	now  func() time.Time
}

// Open returns a journal writing to path. The file is created lazily.
func Open(path string) *Journal {
	return &Journal{path: path, max: maxEntries, now: time.Now}
}

// Path returns the journal file path.
func (j *Journal) Path() string { return j.path }

// Append writes e, truncating the journal to its newest entries when it has
// grown past the cap.
func (j *Journal) Append(e Entry) error {
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode) //nolint:gosec // path inside the data dir
	if err != nil {
		return fmt.Errorf("opening activity journal: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling activity entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing activity entry: %w", err)
	}

	_ = j.truncate()
	return nil
}

// Record appends an entry stamped now. Errors are dropped: the journal must
// never fail a command.
func (j *Journal) Record(action, taskID, detail string) {
	_ = j.Append(Entry{Timestamp: j.now(), Action: action, TaskID: taskID, Detail: detail})
}

// Observe records task mutations reported by a store. View changes are not
// journaled.
func (j *Journal) Observe(c store.Change) {
	switch c.Kind {
	case store.KindAdd, store.KindToggle, store.KindDelete, store.KindPriority,
		store.KindEdit, store.KindClear, store.KindImport:
		j.Record(string(c.Kind), string(c.TaskID), c.Text)
	}
}

// Tail returns up to n of the newest entries, oldest first. n <= 0 returns
// everything. Malformed lines are skipped.
func (j *Journal) Tail(n int) ([]Entry, error) {
	lines, err := j.readLines()
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (j *Journal) readLines() ([]string, error) {
	f, err := os.Open(j.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func (j *Journal) truncate() error {
	lines, err := j.readLines()
	if err != nil {
		return err
	}
	if len(lines) <= j.max {
		return nil
	}
	lines = lines[len(lines)-j.max:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return os.WriteFile(j.path, []byte(buf.String()), fileMode)
}
