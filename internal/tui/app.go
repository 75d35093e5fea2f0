// Package tui is the interactive terminal front end: a login form, the asset
// list and an asset detail view, driven by the session store.
package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/naveenspark/uitam/pkg/client"
	"github.com/naveenspark/uitam/pkg/session"
)

type view int

const (
	viewChecking view = iota
	viewLogin
	viewList
	viewDetail
)

// sessionMsg carries a store change into the update loop.
type sessionMsg struct {
	session session.Session
}

// checkDoneMsg carries the result of CheckAuth and the session it left.
type checkDoneMsg struct {
	session session.Session
	err     error
}

type loggedOutMsg struct {
	session session.Session
}

// Options configures the App.
type Options struct {
	// WebURL is the web UI base used by "open in browser". Empty disables it.
	WebURL string
	Logger zerolog.Logger
}

// App is the root Bubbletea model.
type App struct {
	manager   *session.Manager
	assets    AssetService
	opts      Options
	view      view
	session   session.Session
	login     loginModel
	list      listModel
	detail    detailModel
	detailSeq int
	status    string
	statusErr bool
	width     int
	height    int
}

// NewApp creates the root model. Init restores any persisted session.
func NewApp(m *session.Manager, assets AssetService, opts Options) App {
	return App{
		manager: m,
		assets:  assets,
		opts:    opts,
		login:   newLoginModel(m),
		list:    newListModel(assets),
	}
}

// Run starts the UI and blocks until it exits. Every store change, whichever
// flow caused it, is forwarded to the program.
func Run(m *session.Manager, assets AssetService, opts Options) error {
	p := tea.NewProgram(NewApp(m, assets, opts), tea.WithAltScreen())
	unsubscribe := m.Store().Subscribe(func(s session.Session) {
		p.Send(sessionMsg{session: s})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui.Run: %w", err)
	}
	return nil
}

func (a App) Init() tea.Cmd {
	return a.checkAuth()
}

func (a App) checkAuth() tea.Cmd {
	mgr := a.manager
	return func() tea.Msg {
		err := mgr.CheckAuth(context.Background())
		return checkDoneMsg{session: mgr.Store().Current(), err: err}
	}
}

func (a App) logout() tea.Cmd {
	mgr := a.manager
	return func() tea.Msg {
		mgr.Logout(context.Background())
		return loggedOutMsg{session: mgr.Store().Current()}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(1) + status(1) + help(1)
		body := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 3}
		a.login, _ = a.login.Update(body)
		a.list, _ = a.list.Update(body)
		a.detail, _ = a.detail.Update(body)
		return a, nil

	case sessionMsg:
		return a.applySession(msg.session)

	case checkDoneMsg:
		if msg.err != nil {
			a.opts.Logger.Error().Err(msg.err).Msg("restore session")
			a.setStatus(msg.err.Error(), true)
		}
		return a.applySession(msg.session)

	case loginDoneMsg:
		a.login, _ = a.login.Update(msg)
		return a.applySession(msg.session)

	case loggedOutMsg:
		return a.applySession(msg.session)

	case logoutRequestMsg:
		return a, a.logout()

	case openDetailMsg:
		a.detailSeq++
		a.detail = newDetailModel(a.assets, a.opts.WebURL, a.detailSeq, msg.id)
		a.detail.width = a.width
		a.view = viewDetail
		return a, a.detail.load()

	case closeDetailMsg:
		a.view = viewList
		a.detail = detailModel{}
		return a, nil

	case assetsLoadedMsg:
		stale := msg.seq != a.list.seq
		a.list, _ = a.list.Update(msg)
		if !stale && client.IsStatus(msg.err, http.StatusUnauthorized) {
			return a, a.checkAuth()
		}
		return a, nil

	case assetLoadedMsg:
		stale := msg.seq != a.detail.seq
		a.detail, _ = a.detail.Update(msg)
		if !stale && client.IsStatus(msg.err, http.StatusUnauthorized) {
			return a, a.checkAuth()
		}
		return a, nil

	case assetDeletedMsg:
		if msg.seq != a.detail.seq || a.view != viewDetail {
			return a, nil
		}
		if msg.err != nil {
			a.detail, _ = a.detail.Update(msg)
			if client.IsStatus(msg.err, http.StatusUnauthorized) {
				return a, a.checkAuth()
			}
			return a, nil
		}
		tag := ""
		if msg.asset != nil {
			tag = msg.asset.AssetTag
		}
		a.setStatus(strings.TrimSpace("deleted "+tag), false)
		a.view = viewList
		a.detail = detailModel{}
		var cmd tea.Cmd
		a.list, cmd = a.list.reload()
		return a, cmd

	case copyResultMsg:
		if msg.err != nil {
			a.setStatus("copy failed: "+msg.err.Error(), true)
		} else {
			a.setStatus("copied "+msg.tag, false)
		}
		return a, nil

	case openResultMsg:
		if msg.err != nil {
			a.setStatus("open failed: "+msg.err.Error(), true)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.status = ""
		if msg.String() == "q" && !a.isEditing() {
			return a, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewList:
		a.list, cmd = a.list.Update(msg)
	case viewDetail:
		a.detail, cmd = a.detail.Update(msg)
	}
	return a, cmd
}

// applySession moves between views to match s. Both the subscription and
// the flow results call it, so it must be idempotent.
func (a App) applySession(s session.Session) (tea.Model, tea.Cmd) {
	a.session = s
	switch s.State {
	case session.Revalidating:
		a.view = viewChecking

	case session.Authenticating:
		a.view = viewLogin
		a.login.submitting = true

	case session.Authenticated:
		if a.view == viewChecking || a.view == viewLogin {
			a.view = viewList
			a.list = newListModel(a.assets)
			a.list.width, a.list.height = a.width, a.height-3
			var cmd tea.Cmd
			a.list, cmd = a.list.reload()
			return a, cmd
		}

	case session.Unauthenticated:
		if a.view != viewLogin {
			a.view = viewLogin
			username := a.login.username
			a.login = newLoginModel(a.manager)
			a.login.username = username
			a.login.width = a.width
			a.list = newListModel(a.assets)
			a.detail = detailModel{}
		}
	}
	return a, nil
}

func (a *App) setStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
}

// isEditing reports whether printable keys belong to a text input.
func (a App) isEditing() bool {
	switch a.view {
	case viewLogin:
		return true
	case viewList:
		return a.list.searching
	}
	return false
}

func (a App) View() string {
	user := ""
	if a.session.User != nil {
		user = a.session.User.DisplayName()
	}

	var body, help string
	switch a.view {
	case viewChecking:
		body = "\n " + dimStyle.Render("checking session...") + "\n"
		help = helpBar([2]string{"ctrl+c", "quit"})
	case viewLogin:
		body = a.login.View()
		help = a.login.helpKeys()
	case viewList:
		body = a.list.View()
		help = a.list.helpKeys()
	case viewDetail:
		body = a.detail.View()
		help = a.detail.helpKeys()
	}

	// Chrome budget: header(1) + status(1) + help(1)
	body = strings.TrimRight(truncateToHeight(body, a.height-3), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header(user, a.width), body, statusLine(a.status, a.statusErr), help)
}
