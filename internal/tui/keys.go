package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the list-view key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Add      key.Binding
	Edit     key.Binding
	Toggle   key.Binding
	Priority key.Binding
	Delete   key.Binding
	Filter   key.Binding
	Category key.Binding
	Search   key.Binding
	Theme    key.Binding
	Export   key.Binding
	Import   key.Binding
	ClearAll key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("x", "done")),
		Priority: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prio")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "del")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Category: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Export:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export")),
		Import:   key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "import")),
		ClearAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear-all")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp lists the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Add, k.Edit, k.Toggle, k.Priority, k.Delete, k.Filter, k.Category,
		k.Search, k.Theme, k.Export, k.Import, k.ClearAll, k.Quit,
	}
}
