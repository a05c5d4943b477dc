// Package store holds the authoritative in-memory task collection and the
// view preferences that go with it. It performs no I/O; callers subscribe to
// changes and persist snapshots themselves.
//
// A Store is not safe for concurrent use. Exactly one goroutine mutates it.
package store

import (
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/todolist/internal/date"
	"github.com/twiced-technology-gmbh/todolist/internal/derive"
	"github.com/twiced-technology-gmbh/todolist/internal/persist"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

// View is the scalar view state kept next to the tasks.
type View struct {
	StatusFilter    derive.Status
	Search          string
	Category        string
	ThemeDark       bool
	LastPersistedAt *time.Time
}

func defaultView() View {
	return View{StatusFilter: derive.StatusAll, Category: derive.AllCategories}
}

// Kind names what a Change did.
type Kind string

// Change kinds.
const (
	KindAdd      Kind = "add"
	KindToggle   Kind = "toggle"
	KindDelete   Kind = "delete"
	KindPriority Kind = "priority"
	KindEdit     Kind = "edit"
	KindClear    Kind = "clear"
	KindImport   Kind = "import"
	KindTheme    Kind = "theme"
	KindFilter   Kind = "filter"
	KindSearch   Kind = "search"
	KindCategory Kind = "category"
)

// Change describes one applied mutation.
type Change struct {
	Kind   Kind
	TaskID task.ID // empty for collection-wide and view changes
	Text   string  // task text after the change, when TaskID is set
}

// Persisted reports whether the change touched durable state. Search and
// category filter are session-only.
func (c Change) Persisted() bool {
	return c.Kind != KindSearch && c.Kind != KindCategory
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for createdAt, updatedAt and "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs sets the id generator for new tasks.
func WithIDs(next func() task.ID) Option {
	return func(s *Store) { s.newID = next }
}

// WithFallbackCategory sets the category given to tasks added without one.
func WithFallbackCategory(category string) Option {
	return func(s *Store) {
		if c := strings.TrimSpace(category); c != "" {
			s.fallback = c
		}
	}
}

// WithDueSoonDays sets the due-soon window used by Classifier.
func WithDueSoonDays(days int) Option {
	return func(s *Store) { s.dueSoonDays = days }
}

// Store is the task collection plus view state.
type Store struct {
	tasks []*task.Task
	view  View

	now         func() time.Time
	newID       func() task.ID
	fallback    string
	dueSoonDays int

	listeners []func(Change)
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		view:        defaultView(),
		now:         time.Now,
		newID:       task.NewID,
		fallback:    task.DefaultCategory,
		dueSoonDays: derive.DefaultDueSoonDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers fn to run after every mutation, in registration order.
func (s *Store) OnChange(fn func(Change)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Store) emit(c Change) {
	for _, fn := range s.listeners {
		fn(c)
	}
}

func (s *Store) emitTask(kind Kind, t *task.Task) {
	s.emit(Change{Kind: kind, TaskID: t.ID, Text: t.Text})
}

// FallbackCategory returns the category assigned to uncategorised tasks.
func (s *Store) FallbackCategory() string { return s.fallback }

// AddTask prepends a new task. Blank text is ignored and reports false.
func (s *Store) AddTask(text, category string, due *date.Date) (*task.Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}
	now := s.now()
	t := &task.Task{
		ID:        s.newID(),
		Text:      text,
		CreatedAt: date.Of(now),
		UpdatedAt: now,
		Priority:  task.PriorityMedium,
		Category:  task.CategoryOr(category, s.fallback),
	}
	if due != nil && !due.IsZero() {
		d := *due
		t.DueDate = &d
	}
	s.tasks = append([]*task.Task{t}, s.tasks...)
	s.emitTask(KindAdd, t)
	return t, true
}

// ToggleCompleted flips the completed flag of the task with id.
func (s *Store) ToggleCompleted(id task.ID) bool {
	t := s.find(id)
	if t == nil {
		return false
	}
	t.Completed = !t.Completed
	t.UpdatedAt = s.now()
	s.emitTask(KindToggle, t)
	return true
}

// DeleteTask removes the task with id.
func (s *Store) DeleteTask(id task.ID) bool {
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
			s.emitTask(KindDelete, t)
			return true
		}
	}
	return false
}

// SetPriority sets the priority of the task with id. p must be a valid level.
func (s *Store) SetPriority(id task.ID, p task.Priority) bool {
	t := s.find(id)
	if t == nil {
		return false
	}
	t.Priority = p
	t.UpdatedAt = s.now()
	s.emitTask(KindPriority, t)
	return true
}

// EditText replaces the text of the task with id. Blank text discards the
// edit and reports false.
func (s *Store) EditText(id task.ID, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	t := s.find(id)
	if t == nil {
		return false
	}
	t.Text = text
	t.UpdatedAt = s.now()
	s.emitTask(KindEdit, t)
	return true
}

// ClearAll drops every task and resets the view to its defaults. Callers
// confirm with the user first.
func (s *Store) ClearAll() {
	s.tasks = nil
	s.view = defaultView()
	s.emit(Change{Kind: KindClear})
}

// SetStatusFilter selects the status filter.
func (s *Store) SetStatusFilter(st derive.Status) {
	if s.view.StatusFilter == st {
		return
	}
	s.view.StatusFilter = st
	s.emit(Change{Kind: KindFilter})
}

// SetSearch sets the free-text search.
func (s *Store) SetSearch(q string) {
	if s.view.Search == q {
		return
	}
	s.view.Search = q
	s.emit(Change{Kind: KindSearch})
}

// SetCategoryFilter selects a category, or derive.AllCategories.
func (s *Store) SetCategoryFilter(category string) {
	if category == "" {
		category = derive.AllCategories
	}
	if s.view.Category == category {
		return
	}
	s.view.Category = category
	s.emit(Change{Kind: KindCategory})
}

// SetThemeDark sets the theme flag.
func (s *Store) SetThemeDark(dark bool) {
	if s.view.ThemeDark == dark {
		return
	}
	s.view.ThemeDark = dark
	s.emit(Change{Kind: KindTheme})
}

// ToggleTheme flips the theme flag.
func (s *Store) ToggleTheme() {
	s.SetThemeDark(!s.view.ThemeDark)
}

// MarkPersisted records when the state was last written durably. It does not
// notify listeners.
func (s *Store) MarkPersisted(at time.Time) {
	s.view.LastPersistedAt = &at
}

// View returns the current view state.
func (s *Store) View() View { return s.view }

// Tasks returns the task sequence, newest first. The tasks are shared with
// the store and must not be modified.
func (s *Store) Tasks() []*task.Task {
	out := make([]*task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int { return len(s.tasks) }

// Get returns the task with exactly id.
func (s *Store) Get(id task.ID) (*task.Task, bool) {
	t := s.find(id)
	return t, t != nil
}

// Lookup resolves a full id or a unique id prefix.
func (s *Store) Lookup(ref string) (*task.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, task.ValidateTaskID(ref)
	}
	if t := s.find(task.ID(ref)); t != nil {
		return t, nil
	}
	var matches []*task.Task
	for _, t := range s.tasks {
		if strings.HasPrefix(string(t.ID), ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, task.ValidateTaskID(ref)
	case 1:
		return matches[0], nil
	default:
		ids := make([]task.ID, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return nil, task.ValidateAmbiguousID(ref, ids)
	}
}

func (s *Store) find(id task.ID) *task.Task {
	for _, t := range s.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Classifier returns a classifier for the store clock's current day.
func (s *Store) Classifier() derive.Classifier {
	return derive.NewClassifier(date.Of(s.now()), s.dueSoonDays)
}

// Criteria returns the filter criteria selected by the view.
func (s *Store) Criteria() derive.Criteria {
	return derive.Criteria{
		Status:   s.view.StatusFilter,
		Search:   s.view.Search,
		Category: s.view.Category,
	}
}

// Filtered returns the tasks visible under the current view.
func (s *Store) Filtered() []*task.Task {
	return derive.Filter(s.tasks, s.Criteria(), s.Classifier())
}

// Stats summarises the whole collection.
func (s *Store) Stats() derive.Stats {
	return derive.Summarize(s.tasks, s.Classifier())
}

// Categories returns the distinct categories in use.
func (s *Store) Categories() []string {
	return derive.Categories(s.tasks)
}

// State returns a deep copy of the durable part of the store.
func (s *Store) State() persist.State {
	tasks := make([]*task.Task, len(s.tasks))
	for i, t := range s.tasks {
		tasks[i] = t.Clone()
	}
	dark := s.view.ThemeDark
	filter := string(s.view.StatusFilter)
	return persist.State{Tasks: tasks, ThemeDark: &dark, StatusFilter: &filter}
}

// Restore rehydrates the store from persisted state. Absent fields keep
// their current value. Listeners are not notified.
func (s *Store) Restore(st persist.State) {
	s.adopt(st)
}

// ApplyImport replaces the task sequence wholesale and adopts the theme and
// status filter when present.
func (s *Store) ApplyImport(st persist.State) {
	if st.Tasks == nil {
		st.Tasks = []*task.Task{}
	}
	s.adopt(st)
	s.emit(Change{Kind: KindImport})
}

func (s *Store) adopt(st persist.State) {
	if st.Tasks != nil {
		tasks := make([]*task.Task, 0, len(st.Tasks))
		for _, t := range st.Tasks {
			c := t.Clone()
			task.Normalize(c, s.fallback)
			tasks = append(tasks, c)
		}
		s.tasks = tasks
	}
	if st.ThemeDark != nil {
		s.view.ThemeDark = *st.ThemeDark
	}
	if st.StatusFilter != nil {
		if status, err := derive.ParseStatus(*st.StatusFilter); err == nil {
			s.view.StatusFilter = status
		}
	}
}
