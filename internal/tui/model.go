// Package tui is the interactive analysis page.
package tui

import (
	"context"
	"slices"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/huangsam/codearchitect/internal/controller"
	"github.com/huangsam/codearchitect/internal/form"
	"github.com/huangsam/codearchitect/schema"
)

// focusResults is the focus index after the four form fields.
const focusResults = 4

type healthMsg struct{ err error }

type submitDoneMsg struct{ err error }

type sessionMsg schema.AnalysisSession

// Model is the bubbletea model of the analysis page.
type Model struct {
	ctx     context.Context
	ctrl    *controller.Controller
	form    *form.Form
	updates chan schema.AnalysisSession
	unsub   func()

	session  schema.AnalysisSession
	focus    int
	selected int
	expanded map[int]bool
	formErr  string

	width  int
	height int
}

// NewModel wires a page to a controller. The model subscribes to the
// controller's session store; call Close when the program ends.
func NewModel(ctx context.Context, ctrl *controller.Controller) *Model {
	m := &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		form:     form.New(),
		updates:  make(chan schema.AnalysisSession, 1),
		session:  ctrl.Store().Snapshot(),
		expanded: map[int]bool{},
	}
	m.unsub = ctrl.Store().Subscribe(m.forward)
	return m
}

// forward keeps only the newest snapshot in the channel.
func (m *Model) forward(s schema.AnalysisSession) {
	for {
		select {
		case m.updates <- s:
			return
		default:
		}
		select {
		case <-m.updates:
		default:
		}
	}
}

// Close stops listening to the store and cancels polling.
func (m *Model) Close() {
	m.unsub()
	m.ctrl.Close()
}

// Init runs the one-time health check and starts listening for session updates.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.checkHealth(), m.waitForSession())
}

func (m *Model) checkHealth() tea.Cmd {
	return func() tea.Msg {
		_, err := m.ctrl.CheckHealth(m.ctx)
		return healthMsg{err: err}
	}
}

func (m *Model) waitForSession() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.updates:
			return sessionMsg(s)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) submit(req schema.AnalysisRequest) tea.Cmd {
	return func() tea.Msg {
		_, err := m.ctrl.Submit(m.ctx, req)
		return submitDoneMsg{err: err}
	}
}

// Update handles key presses and background results.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case sessionMsg:
		prev := m.session
		m.session = schema.AnalysisSession(msg)
		if prev.AnalysisID != m.session.AnalysisID || len(prev.Findings) != len(m.session.Findings) {
			m.expanded = map[int]bool{}
			m.selected = 0
		}
		return m, m.waitForSession()
	case submitDoneMsg:
		m.form.SetLoading(false)
	case healthMsg:
		// The banner lives in the controller; re-render only.
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.focus = (m.focus + 1) % (focusResults + 1)
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + focusResults) % (focusResults + 1)
		return m, nil
	case "ctrl+r":
		m.ctrl.Reset()
		m.formErr = ""
		m.expanded = map[int]bool{}
		m.selected = 0
		return m, nil
	}

	if m.focus == focusResults {
		return m.handleResultsKey(msg)
	}
	return m.handleFieldKey(msg)
}

func (m *Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.session.Findings)
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < n-1 {
			m.selected++
		}
	case "enter", " ":
		if n > 0 {
			m.expanded[m.selected] = !m.expanded[m.selected]
		}
	}
	return m, nil
}

func (m *Model) handleFieldKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	name := form.FieldNames[m.focus]
	current, _ := m.form.Values().Get(name)

	switch msg.Type {
	case tea.KeyEnter:
		if m.form.Loading() {
			return m, nil
		}
		var req schema.AnalysisRequest
		if err := m.form.Submit(func(r schema.AnalysisRequest) { req = r }); err != nil {
			m.formErr = err.Error()
			return m, nil
		}
		m.formErr = ""
		m.form.SetLoading(true)
		return m, m.submit(req)
	case tea.KeyBackspace:
		if current != "" {
			_, r := utf8.DecodeLastRuneInString(current)
			_, _ = m.form.SetField(name, current[:len(current)-r])
		}
	case tea.KeySpace:
		_, _ = m.form.SetField(name, current+" ")
	case tea.KeyRunes:
		_, _ = m.form.SetField(name, current+string(msg.Runes))
	}
	return m, nil
}

// Expanded returns the indexes of the open finding panels in order.
func (m *Model) Expanded() []int {
	var out []int
	for i, open := range m.expanded {
		if open {
			out = append(out, i)
		}
	}
	slices.Sort(out)
	return out
}
