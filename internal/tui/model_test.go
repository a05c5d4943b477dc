package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/todolist/internal/derive"
	"github.com/twiced-technology-gmbh/todolist/internal/persist"
	"github.com/twiced-technology-gmbh/todolist/internal/store"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

var testNow = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.Local)

type harness struct {
	m       *Model
	store   *store.Store
	adapter *persist.KVAdapter
	syncer  *persist.Syncer
}

func newHarness(t *testing.T, seed ...string) *harness {
	t.Helper()
	n := 0
	s := store.New(
		store.WithClock(func() time.Time { return testNow }),
		store.WithIDs(func() task.ID {
			n++
			return task.ID(fmt.Sprintf("task-%03d", n))
		}),
	)
	for _, text := range seed {
		s.AddTask(text, "", nil)
	}
	adapter := persist.NewMemory()
	syncer := persist.NewSyncer(adapter, persist.WithDebounce(time.Hour))
	t.Cleanup(syncer.Stop)

	m := New(Options{
		Store:     s,
		Adapter:   adapter,
		Syncer:    syncer,
		ExportDir: t.TempDir(),
		Now:       func() time.Time { return testNow },
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return &harness{m: m, store: s, adapter: adapter, syncer: syncer}
}

func (h *harness) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = h.m.Update(keyMsg(k))
	}
	return cmd
}

func (h *harness) typeText(s string) {
	h.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func TestAddFormCreatesTaskAndClearsInputs(t *testing.T) {
	h := newHarness(t)

	h.press("a")
	require.Equal(t, viewAdd, h.m.view)
	h.typeText("Buy milk")
	h.press("tab")
	h.typeText("Errands")
	h.press("tab")
	h.typeText("2026-10-18")
	h.press("enter")

	require.Equal(t, 1, h.store.Len())
	got := h.store.Tasks()[0]
	assert.Equal(t, "Buy milk", got.Text)
	assert.Equal(t, "Errands", got.Category)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2026-10-18", got.DueDate.String())

	assert.Equal(t, viewList, h.m.view)
	for i := range h.m.form {
		assert.Empty(t, h.m.form[i].Value())
	}
	assert.True(t, h.syncer.Pending(), "add schedules a save")
}

func TestAddFormRejectsInvalidInput(t *testing.T) {
	h := newHarness(t)

	h.press("a", "enter")
	assert.Equal(t, viewAdd, h.m.view)
	assert.NotEmpty(t, h.m.formErr)
	assert.Equal(t, 0, h.store.Len())

	h.typeText("Call mom")
	h.press("tab", "tab")
	h.typeText("next week")
	h.press("enter")
	assert.Equal(t, viewAdd, h.m.view)
	assert.Contains(t, h.m.formErr, "invalid due date")
	assert.Equal(t, 0, h.store.Len())

	h.press("esc")
	assert.Equal(t, viewList, h.m.view)
	assert.False(t, h.syncer.Pending())
}

func TestToggleAndPriority(t *testing.T) {
	h := newHarness(t, "Buy milk")

	h.press("x")
	assert.True(t, h.store.Tasks()[0].Completed)
	h.press(" ")
	assert.False(t, h.store.Tasks()[0].Completed)

	h.press("p")
	assert.Equal(t, task.PriorityHigh, h.store.Tasks()[0].Priority)
	h.press("p")
	assert.Equal(t, task.PriorityLow, h.store.Tasks()[0].Priority)
}

func TestCursorMovement(t *testing.T) {
	h := newHarness(t, "one", "two", "three")

	h.press("j", "j", "j")
	assert.Equal(t, 2, h.m.cursor)
	assert.Equal(t, "one", h.m.selected().Text)

	h.press("k")
	assert.Equal(t, "two", h.m.selected().Text)
}

func TestDeleteConfirmation(t *testing.T) {
	h := newHarness(t, "keep", "drop")

	h.press("d")
	require.Equal(t, viewConfirmDelete, h.m.view)
	h.press("n")
	assert.Equal(t, viewList, h.m.view)
	assert.Equal(t, 2, h.store.Len())

	h.press("d", "y")
	require.Equal(t, 1, h.store.Len())
	assert.Equal(t, "keep", h.store.Tasks()[0].Text)
}

func TestEditTask(t *testing.T) {
	h := newHarness(t, "Buy milk")

	h.press("e")
	require.Equal(t, viewEdit, h.m.view)
	assert.Equal(t, "Buy milk", h.m.editInput.Value())
	h.typeText(" and eggs")
	h.press("enter")

	assert.Equal(t, "Buy milk and eggs", h.store.Tasks()[0].Text)
	assert.Equal(t, viewList, h.m.view)
}

func TestEditBlankIsDiscarded(t *testing.T) {
	h := newHarness(t, "Buy milk")

	h.press("e")
	h.m.editInput.SetValue("   ")
	h.press("enter")

	assert.Equal(t, "Buy milk", h.store.Tasks()[0].Text)
	assert.Equal(t, "Edit discarded", h.m.notice)
}

func TestFilterAndCategoryCycle(t *testing.T) {
	h := newHarness(t)
	h.store.AddTask("File taxes", "Admin", nil)
	h.store.AddTask("Buy milk", "Errands", nil)

	h.press("f")
	assert.Equal(t, derive.StatusActive, h.store.View().StatusFilter)
	assert.True(t, h.syncer.Pending(), "status filter is durable")

	h.press("c")
	assert.Equal(t, "Admin", h.store.View().Category)
	require.Len(t, h.store.Filtered(), 1)
	h.press("c")
	assert.Equal(t, "Errands", h.store.View().Category)
	h.press("c")
	assert.Equal(t, derive.AllCategories, h.store.View().Category)
}

func TestSearchIsLiveAndEscClears(t *testing.T) {
	h := newHarness(t, "Buy milk", "Walk dog")

	h.press("/")
	require.Equal(t, viewSearch, h.m.view)
	h.typeText("MILK")
	assert.Equal(t, "MILK", h.store.View().Search)
	require.Len(t, h.store.Filtered(), 1)
	assert.False(t, h.syncer.Pending(), "search is session-only")

	h.press("enter")
	assert.Equal(t, viewList, h.m.view)
	assert.Equal(t, "MILK", h.store.View().Search)

	h.press("/", "esc")
	assert.Empty(t, h.store.View().Search)
	assert.Len(t, h.store.Filtered(), 2)
}

func TestThemeToggleSwapsPalette(t *testing.T) {
	h := newHarness(t)
	require.False(t, h.m.dark)

	h.press("t")
	_ = h.m.View()

	assert.True(t, h.store.View().ThemeDark)
	assert.True(t, h.m.dark)
}

func TestClearAllConfirmation(t *testing.T) {
	h := newHarness(t, "a", "b")
	h.press("f")

	h.press("C", "esc")
	assert.Equal(t, 2, h.store.Len())

	h.press("C", "y")
	assert.Equal(t, 0, h.store.Len())
	assert.Equal(t, derive.StatusAll, h.store.View().StatusFilter)
	assert.Equal(t, "All tasks cleared", h.m.notice)
}

func TestClearAllIgnoredWhenEmpty(t *testing.T) {
	h := newHarness(t)
	h.press("C")
	assert.Equal(t, viewList, h.m.view)
}

func TestExportWritesBackup(t *testing.T) {
	h := newHarness(t, "Buy milk")

	cmd := h.press("E")
	require.NotNil(t, cmd)
	msg := cmd()
	h.m.Update(msg)

	path := filepath.Join(h.m.exportDir, "todolist_backup_2026-10-16.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"text": "Buy milk"`)
	assert.Equal(t, "Exported to "+path, h.m.notice)
}

func TestImportReplacesTasks(t *testing.T) {
	h := newHarness(t, "old task")
	path := filepath.Join(t.TempDir(), "backup.json")
	doc := `{"tasks":[{"id":"x1","text":"Imported","completed":true,"priority":"high","category":"Work"}],"themeDark":true}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	h.press("I")
	require.Equal(t, viewImport, h.m.view)
	h.typeText(path)
	cmd := h.press("enter")
	require.NotNil(t, cmd)
	_, save := h.m.Update(cmd())

	require.Equal(t, 1, h.store.Len())
	assert.Equal(t, "Imported", h.store.Tasks()[0].Text)
	assert.True(t, h.store.View().ThemeDark)
	assert.Contains(t, h.m.notice, "Imported 1 tasks")

	require.NotNil(t, save, "import is written without waiting for the debounce")
	save()
	assert.False(t, h.syncer.Pending())
	st, err := h.adapter.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, st.Tasks, 1)
	assert.Equal(t, task.ID("x1"), st.Tasks[0].ID)
}

func TestImportFailureLeavesStore(t *testing.T) {
	h := newHarness(t, "old task")
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tasks":"nope"}`), 0o600))

	h.m.Update(importCmd(path, "General")())

	require.Equal(t, 1, h.store.Len())
	assert.Equal(t, "old task", h.store.Tasks()[0].Text)
	assert.True(t, h.m.noticeWarn)
	assert.Contains(t, h.m.notice, "import failed")
}

func TestReloadRestoresFromAdapter(t *testing.T) {
	h := newHarness(t, "mine")
	other := store.New()
	other.AddTask("from another process", "", nil)
	require.NoError(t, h.adapter.Save(context.Background(), other.State()))

	_, cmd := h.m.Update(ReloadMsg{})
	require.NotNil(t, cmd)
	h.m.Update(cmd())

	require.Equal(t, 1, h.store.Len())
	assert.Equal(t, "from another process", h.store.Tasks()[0].Text)
	assert.False(t, h.syncer.Pending(), "restore does not schedule a save")
}

func TestReloadSkippedWhileSavePending(t *testing.T) {
	h := newHarness(t, "mine")
	h.press("x")
	require.True(t, h.syncer.Pending())

	_, cmd := h.m.Update(ReloadMsg{})
	assert.Nil(t, cmd)

	h.m.Update(reloadedMsg{state: persist.State{Tasks: []*task.Task{}}})
	assert.Equal(t, 1, h.store.Len())
}

func TestQuitFlushesPendingSave(t *testing.T) {
	h := newHarness(t)
	h.store.AddTask("Buy milk", "", nil)
	require.True(t, h.syncer.Pending())

	cmd := h.press("q")
	require.NotNil(t, cmd)
	_, quit := h.m.Update(cmd())

	st, err := h.adapter.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, st.Tasks, 1)
	assert.Equal(t, "Buy milk", st.Tasks[0].Text)
	require.NotNil(t, quit)
	assert.IsType(t, tea.QuitMsg{}, quit())
}

func TestSaveMessages(t *testing.T) {
	h := newHarness(t)

	h.m.Update(SaveFailedMsg{Err: errors.New("disk full")})
	assert.True(t, h.m.noticeWarn)
	assert.Contains(t, h.m.notice, "disk full")

	saved := testNow.Add(-2 * time.Minute)
	h.m.Update(SavedMsg{At: saved})
	require.NotNil(t, h.store.View().LastPersistedAt)
	assert.Equal(t, saved, *h.store.View().LastPersistedAt)
	assert.Empty(t, h.m.notice)
	assert.Contains(t, h.m.View(), "saved 2 min ago")
}

func TestViewListsTasks(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.m.View(), "No tasks yet")

	h.store.AddTask("Buy milk", "Errands", nil)
	out := h.m.View()
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "Errands")
	assert.Contains(t, out, "1 tasks")

	h.press("f", "f")
	assert.Contains(t, h.m.View(), "No tasks match")
}

func TestViewBeforeResize(t *testing.T) {
	m := New(Options{Store: store.New()})
	assert.Equal(t, "Loading...", m.View())
}
