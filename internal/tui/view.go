package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/todolist/internal/derive"
	"github.com/twiced-technology-gmbh/todolist/internal/icons"
	"github.com/twiced-technology-gmbh/todolist/internal/output"
	"github.com/twiced-technology-gmbh/todolist/internal/task"
)

const (
	listChrome   = 4 // title, filter line, blank line, status bar
	noticeChrome = 1
	defaultRows  = 20
	minRows      = 1
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	m.syncStyles()

	switch m.view {
	case viewAdd:
		return m.viewAddForm()
	case viewEdit:
		return m.viewPrompt("Edit task", m.editInput.View(), "enter:save  esc:cancel")
	case viewImport:
		return m.viewPrompt("Import from file", m.importInput.View(), "enter:import  esc:cancel")
	case viewConfirmDelete:
		return m.viewConfirm("Delete task?", "  "+truncate(m.targetText, m.width-8)) //nolint:mnd // dialog padding and border
	case viewConfirmClearAll:
		return m.viewConfirm("Delete ALL tasks?",
			fmt.Sprintf("  %d tasks will be removed and view settings reset.", m.store.Len()))
	default:
		return m.viewList()
	}
}

// syncStyles swaps the palette when the theme flag changed.
func (m *Model) syncStyles() {
	if dark := m.store.View().ThemeDark; dark != m.dark {
		m.dark = dark
		m.styles = stylesFor(dark)
	}
}

func (m *Model) visibleRows() int {
	if m.height == 0 {
		return defaultRows
	}
	h := m.height - listChrome
	if m.notice != "" {
		h -= noticeChrome
	}
	if m.view == viewSearch {
		h--
	}
	return max(h, minRows)
}

func (m *Model) viewList() string {
	s := m.styles
	tasks := m.store.Filtered()
	c := m.store.Classifier()

	parts := []string{m.renderTitle(), m.renderFilterLine()}
	if m.view == viewSearch {
		parts = append(parts, icons.Get("search")+" "+m.searchInput.View())
	}

	rows := m.visibleRows()
	var body []string
	switch {
	case m.store.Len() == 0:
		body = append(body, s.Dim.Render("  No tasks yet. Press a to add one."))
	case len(tasks) == 0:
		body = append(body, s.Dim.Render("  No tasks match the current filter."))
	default:
		end := min(m.offset+rows, len(tasks))
		for i := m.offset; i < end; i++ {
			body = append(body, m.renderRow(tasks[i], c, i == m.cursor))
		}
	}
	for len(body) < rows {
		body = append(body, "")
	}
	parts = append(parts, body...)
	parts = append(parts, "")
	if m.notice != "" {
		style := s.StatusBar
		if m.noticeWarn {
			style = s.Warning
		}
		parts = append(parts, style.Render(truncate(m.notice, m.width)))
	}
	parts = append(parts, m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderTitle() string {
	st := m.store.Stats()
	summary := fmt.Sprintf("%d tasks · %d active · %d done · %d overdue · %d due soon",
		st.Total, st.Active, st.Completed, st.Overdue, st.DueSoon)
	title := m.styles.Title.Render(icons.Get("checkCircle") + " todolist")
	return title + " " + m.styles.Dim.Render(truncate(summary, m.width-lipgloss.Width(title)-1))
}

func (m *Model) renderFilterLine() string {
	v := m.store.View()
	label := m.styles.Label
	line := label.Render("Filter:") + " " + string(v.StatusFilter) +
		"  " + label.Render("Category:") + " " + m.styles.Category.Render(v.Category)
	if v.Search != "" && m.view != viewSearch {
		line += "  " + label.Render("Search:") + " " + v.Search
	}
	return line
}

func (m *Model) renderRow(t *task.Task, c derive.Classifier, active bool) string {
	s := m.styles
	check := icons.Get("circle")
	if t.Completed {
		check = icons.Get("check")
	}

	prio := fmt.Sprintf("%-6s", t.Priority)
	if st, ok := s.Priority[string(t.Priority)]; ok {
		prio = st.Render(prio)
	}

	due := ""
	if t.DueDate != nil {
		due = " " + icons.Get("calendar") + " " + t.DueDate.String()
		switch output.State(t, c) {
		case "overdue":
			due = s.Overdue.Render(due + " overdue")
		case "due-soon":
			due = s.DueSoon.Render(due)
		default:
			due = s.Dim.Render(due)
		}
	}

	cat := s.Category.Render(t.Category)
	fixed := 4 + 6 + 2 + lipgloss.Width(cat) + lipgloss.Width(due) + 2 //nolint:mnd // cursor, checkbox, priority and gaps
	text := truncate(t.Text, m.width-fixed)
	if t.Completed {
		text = s.Done.Render(text)
	}

	cursor := "  "
	if active {
		cursor = "▸ "
	}
	row := cursor + check + " " + prio + " " + text + "  " + cat + due
	if active {
		return s.Selected.Render(row)
	}
	return s.Row.Render(row)
}

func (m *Model) renderStatusBar() string {
	help := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		help = append(help, h.Key+":"+h.Desc)
	}
	bar := " " + strings.Join(help, " ")
	if at := m.store.View().LastPersistedAt; at != nil {
		bar = " " + icons.Get("save") + " saved " + output.RelativeTime(*at, m.now()) + " |" + bar
	}
	return m.styles.StatusBar.Render(truncate(bar, m.width))
}

func (m *Model) viewAddForm() string {
	s := m.styles
	labels := [fieldCount]string{"Task", "Category", "Due"}
	lines := []string{s.Title.Render(icons.Get("plus") + " New task"), ""}
	for i := range m.form {
		lines = append(lines, s.Label.Render(fmt.Sprintf("%-9s", labels[i]))+" "+m.form[i].View())
	}
	if m.formErr != "" {
		lines = append(lines, "", s.Error.Render(m.formErr))
	}
	lines = append(lines, "", s.Dim.Render("tab:next field  enter:add  esc:cancel"))
	return s.Dialog.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewPrompt(title, input, help string) string {
	s := m.styles
	content := s.Title.Render(title) + "\n\n" + input + "\n\n" + s.Dim.Render(help)
	return s.Dialog.Render(content)
}

func (m *Model) viewConfirm(title, body string) string {
	s := m.styles
	content := s.Error.Render(title) + "\n\n" + body + "\n\n" + s.Dim.Render("y:yes  n:no")
	return s.Dialog.Render(content)
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
