// Package tui is the interactive list view. It renders the Manager's current
// snapshot and forwards add and toggle intents to it.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/todos"
	"github.com/idilsaglam/tada/internal/ui"
)

// row adapts a todo to bubbles/list.Item.
type row struct{ todo model.Todo }

func (r row) FilterValue() string { return r.todo.Label }

// delegate draws one todo per line: cursor, checkbox, label.
type delegate struct{ theme ui.Theme }

func (d delegate) Height() int                         { return 1 }
func (d delegate) Spacing() int                        { return 0 }
func (d delegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(row)
	if !ok {
		return
	}
	box := d.theme.Muted.Render(d.theme.Box(false))
	label := r.todo.Label
	if r.todo.Checked {
		box = d.theme.Success.Render(d.theme.Box(true))
		label = d.theme.Done.Render(label)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = d.theme.Selected.Render(">") + " "
	}
	fmt.Fprint(w, prefix+box+" "+label)
}

type keyMap struct {
	Toggle, Add, Quit, Confirm, Cancel key.Binding
}

var keys = keyMap{
	Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Confirm: key.NewBinding(key.WithKeys("enter")),
	Cancel:  key.NewBinding(key.WithKeys("esc")),
}

// Model is the Bubble Tea model for the list screen.
type Model struct {
	mgr   *todos.Manager
	theme ui.Theme
	list  list.Model

	adding bool
	input  textinput.Model

	status    string
	statusErr bool
	width     int
	height    int
}

// New builds the list screen over mgr's current snapshot.
func New(mgr *todos.Manager, theme ui.Theme) Model {
	l := list.New(nil, delegate{theme: theme}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("item", "items")
	l.Styles.Title = theme.Title
	l.Styles.HelpStyle = theme.Help
	l.Styles.PaginationStyle = theme.Help
	l.FilterInput.Prompt = "/ "
	l.KeyMap.Quit.SetEnabled(false)
	extra := func() []key.Binding { return []key.Binding{keys.Toggle, keys.Add, keys.Quit} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "What needs doing?"
	in.CharLimit = 200

	m := Model{mgr: mgr, theme: theme, list: l, input: in}
	m.setItems(mgr.Snapshot())
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(mgr *todos.Manager, theme ui.Theme) error {
	_, err := tea.NewProgram(New(mgr, theme), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
		m.resize()
		return m, nil
	}
	if m.adding {
		return m.updateAdding(msg)
	}

	if k, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(k, keys.Quit):
			return m, tea.Quit
		case key.Matches(k, keys.Cancel) && m.list.FilterState() == list.Unfiltered:
			return m, tea.Quit
		case key.Matches(k, keys.Toggle):
			return m.toggleSelected()
		case key.Matches(k, keys.Add):
			m.adding = true
			m.status = ""
			m.input.SetValue("")
			m.resize()
			return m, m.input.Focus()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, keys.Confirm):
			label := strings.TrimSpace(m.input.Value())
			if label == "" {
				m.setStatus("Label cannot be empty", true)
				return m, nil
			}
			next, err := m.mgr.Add(label)
			m.stopAdding()
			m.report(err, "added")
			m.setItems(next)
			m.selectID(next[0].ID)
			return m, nil
		case key.Matches(k, keys.Cancel):
			m.stopAdding()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	r, ok := m.list.SelectedItem().(row)
	if !ok {
		return m, nil
	}
	next, err := m.mgr.Toggle(r.todo.ID, !r.todo.Checked)
	m.report(err, "")
	m.setItems(next)
	m.selectID(r.todo.ID)
	return m, nil
}

func (m *Model) selectID(id string) {
	for i, it := range m.list.VisibleItems() {
		if it.(row).todo.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m *Model) stopAdding() {
	m.adding = false
	m.input.SetValue("")
	m.input.Blur()
	m.resize()
}

// report shows a save failure, or ok when it is non-empty.
// The list on screen already reflects the change either way.
func (m *Model) report(err error, ok string) {
	switch {
	case errors.Is(err, todos.ErrPersist):
		m.setStatus("kept in memory only: "+err.Error(), true)
	case err != nil:
		m.setStatus(err.Error(), true)
	case ok != "":
		m.setStatus(ok, false)
	default:
		m.status = ""
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

// setItems replaces the rows. An active filter is re-run in place so
// VisibleItems is current as soon as setItems returns.
func (m *Model) setItems(c model.Collection) {
	items := make([]list.Item, 0, len(c))
	for _, t := range c {
		items = append(items, row{todo: t})
	}
	done, pending := c.Stats()
	m.list.Title = fmt.Sprintf("Todos   %s %d  %s %d  Total %d",
		m.theme.SymDone, done,
		m.theme.SymPending, pending,
		len(c),
	)
	if refilter := m.list.SetItems(items); refilter != nil {
		m.list, _ = m.list.Update(refilter())
	}
}

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 4
	if m.adding {
		h -= 3
	}
	if m.status != "" {
		h--
	}
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) View() string {
	content := m.list.View()
	if m.adding {
		bar := m.theme.Frame()
		content += "\n" + bar.Render("Add new item\n"+m.input.View())
	}
	if m.status != "" {
		style := m.theme.Success
		if m.statusErr {
			style = m.theme.Error
		}
		content += "\n" + style.Render(m.status)
	}
	return m.theme.Frame().Render(content)
}

// Items returns the todos currently shown, in display order.
func (m Model) Items() model.Collection {
	out := make(model.Collection, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		out = append(out, it.(row).todo)
	}
	return out
}

// Status returns the status line and whether it reports a failure.
func (m Model) Status() (string, bool) { return m.status, m.statusErr }

// Adding reports whether the add input is open.
func (m Model) Adding() bool { return m.adding }
