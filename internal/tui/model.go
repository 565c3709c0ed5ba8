// Package tui is the terminal front-end. It reaches the API only through
// client.Controller.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fastygo/todo/client"
	"github.com/fastygo/todo/domain"
)

type focus int

const (
	focusList focus = iota
	focusAdd
	focusFilter
)

type (
	pageLoadedMsg struct {
		page   int
		result *client.ListResult
		err    error
	}
	createdMsg struct{ todo domain.Todo }
	flipMsg    struct{ id string }
	savedMsg   struct{ todo domain.Todo }
	removeMsg  struct{ id string }
	restoreMsg struct {
		todo  domain.Todo
		index int
	}
	errorMsg struct{ err error }
)

// Model is the bubbletea model of the todo screen.
type Model struct {
	ctx  context.Context
	ctrl *client.Controller
	// send delivers controller callbacks to the running program.
	send func(tea.Msg)

	todos   []domain.Todo
	page    int
	pages   int
	total   int
	loading bool

	cursor int
	focus  focus
	add    textinput.Model
	filter textinput.Model
	errMsg string
}

// New builds the model. send is usually (*tea.Program).Send.
func New(ctx context.Context, ctrl *client.Controller, send func(tea.Msg)) Model {
	add := textinput.New()
	add.Prompt = "+ "
	add.Placeholder = "What needs to be done?"
	add.CharLimit = 500

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter"

	if send == nil {
		send = func(tea.Msg) {}
	}
	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		send:    send,
		todos:   []domain.Todo{},
		loading: true,
		add:     add,
		filter:  filter,
	}
}

// Run opens the screen and blocks until the user quits.
func Run(ctx context.Context, ctrl *client.Controller) error {
	var p *tea.Program
	send := func(msg tea.Msg) { p.Send(msg) }
	p = tea.NewProgram(New(ctx, ctrl, send), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.load(1)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = client.ErrorMessage(msg.err)
			return m, nil
		}
		if msg.page <= 1 {
			m.todos = append([]domain.Todo{}, msg.result.Todos...)
		} else {
			m.todos = append(m.todos, msg.result.Todos...)
		}
		m.page, m.pages, m.total = msg.page, msg.result.Pages, msg.result.Total
		m.clampCursor()
		return m, nil

	case createdMsg:
		m.todos = append([]domain.Todo{msg.todo}, m.todos...)
		m.total++
		return m, nil

	case flipMsg:
		if i := m.indexOf(msg.id); i >= 0 {
			m.todos[i].Done = !m.todos[i].Done
		}
		return m, nil

	case savedMsg:
		if i := m.indexOf(msg.todo.ID); i >= 0 {
			m.todos[i] = msg.todo
		}
		return m, nil

	case removeMsg:
		if i := m.indexOf(msg.id); i >= 0 {
			m.todos = append(m.todos[:i:i], m.todos[i+1:]...)
			m.total--
		}
		m.clampCursor()
		return m, nil

	case restoreMsg:
		i := min(max(msg.index, 0), len(m.todos))
		m.todos = append(m.todos[:i:i], append([]domain.Todo{msg.todo}, m.todos[i:]...)...)
		m.total++
		return m, nil

	case errorMsg:
		m.errMsg = client.ErrorMessage(msg.err)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.errMsg = ""
		switch m.focus {
		case focusAdd:
			return m.updateAdd(msg)
		case focusFilter:
			return m.updateFilter(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visible()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "a":
		m.focus = focusAdd
		return m, m.add.Focus()
	case "/":
		m.focus = focusFilter
		return m, m.filter.Focus()
	case "esc":
		m.filter.SetValue("")
		m.clampCursor()
	case " ":
		if m.cursor < len(visible) {
			return m, m.toggle(visible[m.cursor].ID)
		}
	case "d":
		if m.cursor < len(visible) {
			return m, m.remove(visible[m.cursor])
		}
	case "m":
		if !m.loading && m.page < m.pages {
			m.loading = true
			return m, m.load(m.page + 1)
		}
	}
	return m, nil
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		content := m.add.Value()
		m.add.SetValue("")
		m.add.Blur()
		m.focus = focusList
		return m, m.create(content)
	case "esc":
		m.add.SetValue("")
		m.add.Blur()
		m.focus = focusList
		return m, nil
	}
	var cmd tea.Cmd
	m.add, cmd = m.add.Update(msg)
	return m, cmd
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filter.Blur()
		m.focus = focusList
		return m, nil
	case "esc":
		m.filter.SetValue("")
		m.filter.Blur()
		m.focus = focusList
		m.clampCursor()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.clampCursor()
	return m, cmd
}

func (m Model) load(page int) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		result, err := ctrl.Get(ctx, client.GetParams{Page: page})
		return pageLoadedMsg{page: page, result: result, err: err}
	}
}

func (m Model) create(content string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		var out tea.Msg
		ctrl.Create(ctx, client.CreateParams{
			Content:   content,
			OnSuccess: func(todo domain.Todo) { out = createdMsg{todo: todo} },
			OnError:   func(err error) { out = errorMsg{err: err} },
		})
		return out
	}
}

func (m Model) toggle(id string) tea.Cmd {
	ctx, ctrl, send := m.ctx, m.ctrl, m.send
	return func() tea.Msg {
		ctrl.ToggleDone(ctx, client.ToggleDoneParams{
			ID:                 id,
			UpdateTodoOnScreen: func() { send(flipMsg{id: id}) },
			OnSuccess:          func(todo domain.Todo) { send(savedMsg{todo: todo}) },
			OnError:            func(err error) { send(errorMsg{err: err}) },
		})
		return nil
	}
}

func (m Model) remove(todo domain.Todo) tea.Cmd {
	ctx, ctrl, send := m.ctx, m.ctrl, m.send
	index := m.indexOf(todo.ID)
	return func() tea.Msg {
		ctrl.DeleteByID(ctx, client.DeleteParams{
			ID:                  todo.ID,
			OnSuccess:           func() { send(removeMsg{id: todo.ID}) },
			RestoreTodoOnScreen: func() { send(restoreMsg{todo: todo, index: index}) },
			OnError:             func(err error) { send(errorMsg{err: err}) },
		})
		return nil
	}
}

func (m Model) visible() []domain.Todo {
	return client.FilterTodosByContent(m.todos, m.filter.Value())
}

func (m Model) indexOf(id string) int {
	for i, todo := range m.todos {
		if todo.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	var b strings.Builder

	done := 0
	for _, todo := range m.todos {
		if todo.Done {
			done++
		}
	}
	fmt.Fprintf(&b, "%s   %s %d  %s %d  %s %d\n",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), len(m.todos)-done,
		accentStyle.Render("Total"), m.total,
	)
	b.WriteString(inputStyle.Render(m.add.View()))
	b.WriteString("\n")
	if m.focus == focusFilter || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	visible := m.visible()
	for i, todo := range visible {
		prefix := "  "
		if i == m.cursor && m.focus == focusList {
			prefix = selectedStyle.Render(">") + " "
		}
		box, text := mutedStyle.Render(boxUnchecked), todo.Content
		if todo.Done {
			box, text = successStyle.Render(boxChecked), doneStyle.Render(todo.Content)
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", prefix, box, mutedStyle.Render(shortID(todo.ID)), text)
	}
	switch {
	case m.loading:
		b.WriteString(mutedStyle.Render("loading..."))
		b.WriteString("\n")
	case len(visible) == 0:
		b.WriteString(mutedStyle.Render("no todos found"))
		b.WriteString("\n")
	}

	if m.pages > 0 {
		footer := fmt.Sprintf("page %d/%d", m.page, m.pages)
		if m.page < m.pages {
			footer += " · m: load more"
		}
		b.WriteString(mutedStyle.Render(footer))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render("✖ " + m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("a add · / filter · space toggle · d delete · q quit"))

	return panelStyle.Render(b.String())
}

func shortID(id string) string {
	if len(id) > 4 {
		return id[:4]
	}
	return id
}
