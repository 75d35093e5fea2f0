package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/uitam/pkg/session"
)

// loginDoneMsg carries the outcome of Manager.Login.
type loginDoneMsg struct {
	session session.Session
	err     error
}

const (
	fieldUsername = iota
	fieldPassword
)

type loginModel struct {
	manager    *session.Manager
	username   string
	password   string
	focus      int
	submitting bool
	err        string
	width      int
}

func newLoginModel(m *session.Manager) loginModel {
	return loginModel{manager: m}
}

// submit starts a login unless one is already in flight.
func (m loginModel) submit() (loginModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.submitting = true
	m.err = ""
	mgr := m.manager
	user, pass := strings.TrimSpace(m.username), m.password
	return m, func() tea.Msg {
		s, err := mgr.Login(context.Background(), user, pass)
		return loginDoneMsg{session: s, err: err}
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case loginDoneMsg:
		m.submitting = false
		m.password = ""
		if msg.err != nil {
			m.err = msg.err.Error()
			m.focus = fieldPassword
		}

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down", "shift+tab", "up":
			m.focus = 1 - m.focus
		case "enter":
			if m.focus == fieldUsername {
				m.focus = fieldPassword
				return m, nil
			}
			return m.submit()
		default:
			if m.focus == fieldUsername {
				m.username = editRune(m.username, msg.String())
			} else {
				m.password = editRune(m.password, msg.String())
			}
		}
	}
	return m, nil
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + selectedStyle.Render("Sign in") + "\n\n")
	b.WriteString(renderField("username", m.username, "email address", m.focus == fieldUsername && !m.submitting, false) + "\n")
	b.WriteString(renderField("password", m.password, "", m.focus == fieldPassword && !m.submitting, true) + "\n\n")

	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("signing in...") + "\n")
	case m.err != "":
		b.WriteString(statusLine(m.err, true) + "\n")
	}
	return b.String()
}

func (m loginModel) helpKeys() string {
	return helpBar([2]string{"tab", "next"}, [2]string{"enter", "sign in"}, [2]string{"ctrl+c", "quit"})
}
