package activity

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/todolist/internal/store"
)

func newJournal(t *testing.T) *Journal {
	t.Helper()
	j := Open(filepath.Join(t.TempDir(), "activity.jsonl"))
	j.now = func() time.Time { return time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC) }
	return j
}

func TestTailMissingFile(t *testing.T) {
	entries, err := newJournal(t).Tail(10)

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordAndTail(t *testing.T) {
	j := newJournal(t)
	j.Record("add", "a", "Buy milk")
	j.Record("toggle", "a", "Buy milk")
	j.Record("delete", "a", "Buy milk")

	entries, err := j.Tail(2)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "toggle", entries[0].Action)
	assert.Equal(t, "delete", entries[1].Action)
	assert.Equal(t, "a", entries[1].TaskID)
}

func TestTruncatesToNewest(t *testing.T) {
	j := newJournal(t)
	j.max = 3
	for _, action := range []string{"1", "2", "3", "4", "5"} {
		j.Record(action, "", "")
	}

	entries, err := j.Tail(0)

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "3", entries[0].Action)
	assert.Equal(t, "5", entries[2].Action)
}

func TestObserveSkipsViewChanges(t *testing.T) {
	j := newJournal(t)
	s := store.New()
	s.OnChange(j.Observe)

	tk, _ := s.AddTask("Buy milk", "Errands", nil)
	s.SetSearch("milk")
	s.ToggleTheme()
	s.ToggleCompleted(tk.ID)
	s.ClearAll()

	entries, err := j.Tail(0)
	require.NoError(t, err)
	actions := make([]string, len(entries))
	for i, e := range entries {
		actions[i] = e.Action
	}
	assert.Equal(t, []string{"add", "toggle", "clear"}, actions)
	assert.Equal(t, "Buy milk", entries[0].Detail)
}
