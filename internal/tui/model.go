// Package tui implements the interactive terminal UI for a todolist.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/twiced-technology-gmbh/todolist/internal/activity"
	"github.com/twiced-technology-gmbh/todolist/internal/date"
	"github.com/twiced-technology-gmbh/todolist/internal/derive"
	"github.com/twiced-technology-gmbh/todolist/internal/logging"
	"github.com/twiced-technology-gmbh/todolist/internal/persist"
	"github.com/twiced-technology-gmbh/todolist/internal/store"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewList view = iota
	viewAdd
	viewEdit
	viewSearch
	viewImport
	viewConfirmDelete
	viewConfirmClearAll
)

const (
	keyEsc   = "esc"
	keyEnter = "enter"

	tickInterval = 30 * time.Second // how often "saved ... ago" refreshes
)

// Add form fields.
const (
	fieldText = iota
	fieldCategory
	fieldDue
	fieldCount
)

// Options wires a Model to its collaborators. Store is required; the rest
// may be nil.
type Options struct {
	Store *store.Store
	// Adapter is read on ReloadMsg to pick up writes from other processes.
	Adapter persist.Adapter
	// Syncer receives a snapshot after every durable change. Its callbacks
	// should report back with SavedMsg and SaveFailedMsg.
	Syncer  *persist.Syncer
	Journal *activity.Journal
	Logger  *log.Logger
	// ExportDir is where E writes backups.
	ExportDir string
	Now       func() time.Time
}

// Model is the top-level bubbletea model.
type Model struct {
	store     *store.Store
	adapter   persist.Adapter
	syncer    *persist.Syncer
	journal   *activity.Journal
	logger    *log.Logger
	exportDir string
	now       func() time.Time

	keys   KeyMap
	styles Styles
	dark   bool

	view     view
	cursor   int
	offset   int // first visible row
	width    int
	height   int
	quitting bool

	notice     string
	noticeWarn bool

	form        [fieldCount]textinput.Model
	focus       int
	formErr     string
	editInput   textinput.Model
	searchInput textinput.Model
	importInput textinput.Model

	targetID   task.ID
	targetText string
}

// New creates a Model and subscribes it to store changes.
func New(opts Options) *Model {
	m := &Model{
		store:     opts.Store,
		adapter:   opts.Adapter,
		syncer:    opts.Syncer,
		journal:   opts.Journal,
		logger:    opts.Logger,
		exportDir: opts.ExportDir,
		now:       opts.Now,
		keys:      DefaultKeyMap(),
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.logger == nil {
		m.logger = logging.Discard()
	}
	if m.exportDir == "" {
		m.exportDir = "."
	}
	m.dark = m.store.View().ThemeDark
	m.styles = stylesFor(m.dark)

	placeholders := [fieldCount]string{"What needs doing?", "Category (" + m.store.FallbackCategory() + ")", "Due YYYY-MM-DD (optional)"}
	limits := [fieldCount]int{500, 60, 25}
	for i := range m.form {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		m.form[i] = ti
	}
	m.editInput = textinput.New()
	m.editInput.CharLimit = limits[fieldText]
	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "Search tasks..."
	m.searchInput.CharLimit = 100
	m.importInput = textinput.New()
	m.importInput.Placeholder = "path/to/todolist_backup.json"

	m.store.OnChange(m.onChange)
	return m
}

// onChange schedules a durable write for every change that needs one.
func (m *Model) onChange(c store.Change) {
	if m.syncer != nil && c.Persisted() {
		m.syncer.Schedule(m.store.State())
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureVisible()
		return m, nil
	case ReloadMsg:
		return m, m.reloadCmd()
	case reloadedMsg:
		m.handleReloaded(msg)
		return m, nil
	case SavedMsg:
		m.store.MarkPersisted(msg.At)
		if m.noticeWarn {
			m.setNotice("")
		}
		return m, nil
	case SaveFailedMsg:
		m.logger.Warn("saving tasks failed", "err", msg.Err)
		m.warnf("could not save: %v", msg.Err)
		return m, nil
	case importLoadedMsg:
		return m, m.handleImportLoaded(msg)
	case exportedMsg:
		m.handleExported(msg)
		return m, nil
	case flushedMsg:
		if msg.err != nil {
			m.logger.Warn("final save failed", "err", msg.err)
		}
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil
	case TickMsg:
		return m, tickCmd()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.view {
	case viewAdd:
		return m.handleAddKey(msg)
	case viewEdit:
		return m.handleEditKey(msg)
	case viewSearch:
		return m.handleSearchKey(msg)
	case viewImport:
		return m.handleImportKey(msg)
	case viewConfirmDelete:
		return m.handleDeleteKey(msg)
	case viewConfirmClearAll:
		return m.handleClearAllKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.store.Filtered())-1 {
			m.cursor++
			m.ensureVisible()
		}
	case key.Matches(msg, m.keys.Add):
		return m, m.startAdd()
	case key.Matches(msg, m.keys.Edit):
		return m, m.startEdit()
	case key.Matches(msg, m.keys.Toggle):
		if t := m.selected(); t != nil {
			m.store.ToggleCompleted(t.ID)
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.Priority):
		if t := m.selected(); t != nil {
			m.store.SetPriority(t.ID, t.Priority.Next())
		}
	case key.Matches(msg, m.keys.Delete):
		if t := m.selected(); t != nil {
			m.targetID, m.targetText = t.ID, t.Text
			m.view = viewConfirmDelete
		}
	case key.Matches(msg, m.keys.Filter):
		m.store.SetStatusFilter(m.store.View().StatusFilter.Next())
		m.resetCursor()
	case key.Matches(msg, m.keys.Category):
		m.store.SetCategoryFilter(m.nextCategory())
		m.resetCursor()
	case key.Matches(msg, m.keys.Search):
		m.searchInput.SetValue(m.store.View().Search)
		m.searchInput.CursorEnd()
		m.view = viewSearch
		return m, m.searchInput.Focus()
	case key.Matches(msg, m.keys.Theme):
		m.store.ToggleTheme()
	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()
	case key.Matches(msg, m.keys.Import):
		m.importInput.Reset()
		m.view = viewImport
		return m, m.importInput.Focus()
	case key.Matches(msg, m.keys.ClearAll):
		if m.store.Len() > 0 {
			m.view = viewConfirmClearAll
		}
	}
	return m, nil
}

func (m *Model) startAdd() tea.Cmd {
	for i := range m.form {
		m.form[i].Reset()
		m.form[i].Blur()
	}
	m.focus = fieldText
	m.formErr = ""
	m.view = viewAdd
	return m.form[fieldText].Focus()
}

func (m *Model) startEdit() tea.Cmd {
	t := m.selected()
	if t == nil {
		return nil
	}
	m.targetID, m.targetText = t.ID, t.Text
	m.editInput.SetValue(t.Text)
	m.editInput.CursorEnd()
	m.view = viewEdit
	return m.editInput.Focus()
}

func (m *Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		m.view = viewList
		return m, nil
	case "tab", "down":
		return m, m.focusField((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
	case keyEnter:
		m.submitAdd()
		return m, nil
	}
	var cmd tea.Cmd
	m.form[m.focus], cmd = m.form[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusField(i int) tea.Cmd {
	m.form[m.focus].Blur()
	m.focus = i
	return m.form[i].Focus()
}

func (m *Model) submitAdd() {
	due, err := task.ParseDueDate(m.form[fieldDue].Value())
	if err != nil {
		m.formErr = err.Error()
		return
	}
	t, ok := m.store.AddTask(m.form[fieldText].Value(), m.form[fieldCategory].Value(), due)
	if !ok {
		m.formErr = "task text is required"
		return
	}
	for i := range m.form {
		m.form[i].Reset()
	}
	m.formErr = ""
	m.view = viewList
	m.setNotice("Added: " + t.Text)
	m.selectID(t.ID)
}

func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		m.editInput.Blur()
		m.view = viewList
		return m, nil
	case keyEnter:
		if !m.store.EditText(m.targetID, m.editInput.Value()) {
			m.setNotice("Edit discarded")
		}
		m.editInput.Blur()
		m.view = viewList
		m.clampCursor()
		return m, nil
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		m.searchInput.Reset()
		m.searchInput.Blur()
		m.store.SetSearch("")
		m.view = viewList
		m.resetCursor()
		return m, nil
	case keyEnter:
		m.searchInput.Blur()
		m.view = viewList
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.store.SetSearch(m.searchInput.Value())
	m.resetCursor()
	return m, cmd
}

func (m *Model) handleImportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		m.importInput.Blur()
		m.view = viewList
		return m, nil
	case keyEnter:
		path := strings.TrimSpace(m.importInput.Value())
		m.importInput.Blur()
		m.view = viewList
		if path == "" {
			return m, nil
		}
		return m, importCmd(path, m.store.FallbackCategory())
	}
	var cmd tea.Cmd
	m.importInput, cmd = m.importInput.Update(msg)
	return m, cmd
}

func (m *Model) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.store.DeleteTask(m.targetID)
		m.view = viewList
		m.clampCursor()
	case "n", "N", keyEsc, "q":
		m.view = viewList
	}
	return m, nil
}

func (m *Model) handleClearAllKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.store.ClearAll()
		m.view = viewList
		m.resetCursor()
		m.setNotice("All tasks cleared")
	case "n", "N", keyEsc, "q":
		m.view = viewList
	}
	return m, nil
}

// quit writes any pending state before leaving the program.
func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.syncer == nil {
		return m, tea.Quit
	}
	m.quitting = true
	return m, flushCmd(m.syncer)
}

func (m *Model) handleReloaded(msg reloadedMsg) {
	if msg.err != nil {
		m.logger.Warn("reloading tasks failed", "err", msg.err)
		m.warnf("could not reload: %v", msg.err)
		return
	}
	// Local edits not yet on disk win over whatever was read.
	if m.syncer != nil && m.syncer.Pending() {
		return
	}
	m.store.Restore(msg.state)
	m.clampCursor()
}

// handleImportLoaded applies a parsed backup and writes it out without
// waiting for the debounce.
func (m *Model) handleImportLoaded(msg importLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Warn("import failed", "path", msg.path, "err", msg.err)
		m.warnf("import failed: %v", msg.err)
		return nil
	}
	m.store.ApplyImport(msg.state)
	m.resetCursor()
	m.setNotice(fmt.Sprintf("Imported %d tasks from %s", len(msg.state.Tasks), msg.path))
	if m.syncer == nil {
		return nil
	}
	return saveNowCmd(m.syncer, m.store.State())
}

func (m *Model) handleExported(msg exportedMsg) {
	if msg.err != nil {
		m.logger.Warn("export failed", "err", msg.err)
		m.warnf("export failed: %v", msg.err)
		return
	}
	if m.journal != nil {
		m.journal.Record("export", "", msg.path)
	}
	m.setNotice("Exported to " + msg.path)
}

// --- Selection ---

func (m *Model) selected() *task.Task {
	tasks := m.store.Filtered()
	if m.cursor >= 0 && m.cursor < len(tasks) {
		return tasks[m.cursor]
	}
	return nil
}

func (m *Model) selectID(id task.ID) {
	for i, t := range m.store.Filtered() {
		if t.ID == id {
			m.cursor = i
			m.ensureVisible()
			return
		}
	}
	m.clampCursor()
}

func (m *Model) resetCursor() {
	m.cursor = 0
	m.offset = 0
}

func (m *Model) clampCursor() {
	n := len(m.store.Filtered())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

// ensureVisible adjusts the scroll offset so the cursor row is on screen.
func (m *Model) ensureVisible() {
	rows := m.visibleRows()
	switch {
	case m.cursor < m.offset:
		m.offset = m.cursor
	case m.cursor >= m.offset+rows:
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// nextCategory cycles all → each category in order → all.
func (m *Model) nextCategory() string {
	current := m.store.View().Category
	cats := m.store.Categories()
	if current == derive.AllCategories {
		if len(cats) == 0 {
			return derive.AllCategories
		}
		return cats[0]
	}
	for i, c := range cats {
		if c == current && i+1 < len(cats) {
			return cats[i+1]
		}
	}
	return derive.AllCategories
}

func (m *Model) setNotice(s string) {
	m.notice = s
	m.noticeWarn = false
}

func (m *Model) warnf(format string, args ...any) {
	m.notice = "Warning: " + fmt.Sprintf(format, args...)
	m.noticeWarn = true
}

// --- Commands ---

func (m *Model) reloadCmd() tea.Cmd {
	if m.adapter == nil || (m.syncer != nil && m.syncer.Pending()) {
		return nil
	}
	adapter := m.adapter
	return func() tea.Msg {
		st, err := adapter.Load(context.Background())
		return reloadedMsg{state: st, err: err}
	}
}

func (m *Model) exportCmd() tea.Cmd {
	st := m.store.State()
	now := m.now()
	path := filepath.Join(m.exportDir, persist.ExportFilename(date.Of(now)))
	return func() tea.Msg {
		return exportedMsg{path: path, err: writeExport(path, st, now)}
	}
}

func writeExport(path string, st persist.State, now time.Time) error {
	f, err := os.Create(path) //nolint:gosec // user-chosen export location
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := persist.Export(f, st, now); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func importCmd(path, fallback string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path) //nolint:gosec // user-chosen import file
		if err != nil {
			return importLoadedMsg{path: path, err: fmt.Errorf("reading %s: %w", path, err)}
		}
		st, err := persist.Import(data, fallback)
		return importLoadedMsg{path: path, state: st, err: err}
	}
}

func saveNowCmd(s *persist.Syncer, st persist.State) tea.Cmd {
	return func() tea.Msg {
		_ = s.SaveNow(context.Background(), st)
		return nil
	}
}

func flushCmd(s *persist.Syncer) tea.Cmd {
	return func() tea.Msg {
		return flushedMsg{err: s.Flush(context.Background())}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

// --- Messages ---

// ReloadMsg is sent by the file watcher when the data files change.
type ReloadMsg struct{}

// TickMsg is sent periodically to refresh relative times.
type TickMsg struct{}

// SavedMsg reports a completed durable write.
type SavedMsg struct{ At time.Time }

// SaveFailedMsg reports a failed durable write.
type SaveFailedMsg struct{ Err error }

type reloadedMsg struct {
	state persist.State
	err   error
}

type importLoadedMsg struct {
	path  string
	state persist.State
	err   error
}

type exportedMsg struct {
	path string
	err  error
}

type flushedMsg struct{ err error }
