// Package persist moves store snapshots in and out of durable storage: a
// key-value Adapter for session-to-session sync, a debounced Syncer in front
// of it, and the JSON export/import codec.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

// Keys under which State is stored.
const (
	KeyTasks  = "tasks"
	KeyTheme  = "theme"
	KeyFilter = "filter"
)

// ErrNotFound is returned by KV.Get for an absent key.
var ErrNotFound = errors.New("key not found")

// State is the durable snapshot of a store. A nil field means the value was
// absent and the corresponding store field keeps its default.
type State struct {
	Tasks        []*task.Task
	ThemeDark    *bool
	StatusFilter *string
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{}
	if s.Tasks != nil {
		out.Tasks = make([]*task.Task, len(s.Tasks))
		for i, t := range s.Tasks {
			out.Tasks[i] = t.Clone()
		}
	}
	if s.ThemeDark != nil {
		v := *s.ThemeDark
		out.ThemeDark = &v
	}
	if s.StatusFilter != nil {
		v := *s.StatusFilter
		out.StatusFilter = &v
	}
	return out
}

// Adapter loads and saves State.
type Adapter interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, st State) error
}

// KV is a flat string key-value store.
type KV interface {
	Get(key string) ([]byte, error)
	// SetMany writes entries. Each key is replaced atomically, but a failure
	// part way through can leave earlier keys written and later ones not.
	SetMany(entries map[string][]byte) error
}

// KVAdapter stores State as three keys of a KV.
type KVAdapter struct {
	kv KV
}

// NewKVAdapter wraps kv.
func NewKVAdapter(kv KV) *KVAdapter {
	return &KVAdapter{kv: kv}
}

// NewMemory returns an adapter that keeps state in process memory only.
func NewMemory() *KVAdapter {
	return NewKVAdapter(NewMapKV())
}

// NewDir returns an adapter that stores one file per key in dir. A positive
// quota caps the combined size of the key files.
func NewDir(dir string, quota int64) *KVAdapter {
	return NewKVAdapter(NewDirKV(dir, quota))
}

// Load reads every key that is present.
func (a *KVAdapter) Load(ctx context.Context) (State, error) {
	var st State
	if err := ctx.Err(); err != nil {
		return st, err
	}

	raw, err := a.kv.Get(KeyTasks)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return st, fmt.Errorf("reading %s: %w", KeyTasks, err)
	default:
		var tasks []*task.Task
		if err := json.Unmarshal(raw, &tasks); err != nil {
			return st, fmt.Errorf("decoding %s: %w", KeyTasks, err)
		}
		if tasks == nil {
			tasks = []*task.Task{}
		}
		st.Tasks = tasks
	}

	raw, err = a.kv.Get(KeyTheme)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return st, fmt.Errorf("reading %s: %w", KeyTheme, err)
	default:
		var dark bool
		if err := json.Unmarshal(raw, &dark); err != nil {
			return st, fmt.Errorf("decoding %s: %w", KeyTheme, err)
		}
		st.ThemeDark = &dark
	}

	raw, err = a.kv.Get(KeyFilter)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return st, fmt.Errorf("reading %s: %w", KeyFilter, err)
	default:
		f := strings.TrimSpace(string(raw))
		st.StatusFilter = &f
	}

	return st, nil
}

// Save writes every non-nil field of st.
func (a *KVAdapter) Save(ctx context.Context, st State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries := make(map[string][]byte, 3) //nolint:mnd // three keys
	if st.Tasks != nil {
		data, err := json.Marshal(st.Tasks)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", KeyTasks, err)
		}
		entries[KeyTasks] = data
	}
	if st.ThemeDark != nil {
		data, err := json.Marshal(*st.ThemeDark)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", KeyTheme, err)
		}
		entries[KeyTheme] = data
	}
	if st.StatusFilter != nil {
		entries[KeyFilter] = []byte(*st.StatusFilter)
	}
	if len(entries) == 0 {
		return nil
	}
	return a.kv.SetMany(entries)
}

// MapKV is an in-memory KV, safe for concurrent use.
type MapKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMapKV returns an empty MapKV.
func NewMapKV() *MapKV {
	return &MapKV{data: make(map[string][]byte)}
}

// Get implements KV.
func (m *MapKV) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// SetMany implements KV.
func (m *MapKV) SetMany(entries map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range entries {
		m.data[k] = append([]byte(nil), v...)
	}
	return nil
}
