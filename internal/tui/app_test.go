package tui

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/uitam/pkg/client"
	"github.com/naveenspark/uitam/pkg/domain"
	"github.com/naveenspark/uitam/pkg/session"
)

// signedIn returns an app that has completed a login and loaded the list.
func signedIn(t *testing.T, env *testEnv) App {
	t.Helper()
	a := env.app()
	a, _ = drain(a, a.Init())
	a = typeText(a, "alice@example.com")
	a, _ = update(a, keyMsg("tab"))
	a = typeText(a, "secret")
	a, cmd := update(a, keyMsg("enter"))
	a, _ = drain(a, cmd)
	if a.view != viewList {
		t.Fatalf("expected list view after login, got %d", a.view)
	}
	return a
}

func TestAppStartsInCheckingView(t *testing.T) {
	a := newTestEnv().app()
	if a.view != viewChecking {
		t.Errorf("expected viewChecking, got %d", a.view)
	}
	if a.Init() == nil {
		t.Fatal("Init should restore the session")
	}
	if !strings.Contains(a.View(), "checking session") {
		t.Errorf("checking view missing indicator: %q", a.View())
	}
}

func TestAppInitWithoutStoredTokenShowsLogin(t *testing.T) {
	env := newTestEnv()
	a := env.app()
	a, _ = drain(a, a.Init())

	if a.view != viewLogin {
		t.Errorf("expected viewLogin, got %d", a.view)
	}
	if env.auth.introspects != 0 {
		t.Errorf("no stored token should mean no introspection, got %d", env.auth.introspects)
	}
}

func TestAppInitRestoresStoredSession(t *testing.T) {
	env := newTestEnv()
	persister := session.NewPersister(env.mem, "")
	stored := session.Session{State: session.Authenticated, User: &domain.User{ID: 7, FullName: "Stale"}, Token: "tok123"}
	if err := persister.Save(context.Background(), stored); err != nil {
		t.Fatal(err)
	}

	a := env.app()
	a, _ = drain(a, a.Init())

	if a.view != viewList {
		t.Fatalf("expected viewList, got %d", a.view)
	}
	if a.session.User.FullName != "Alice" {
		t.Errorf("user should be refreshed from the server, got %q", a.session.User.FullName)
	}
	if len(a.list.assets) != 2 {
		t.Errorf("expected the list to load, got %d assets", len(a.list.assets))
	}
	if !strings.Contains(a.View(), "Alice") {
		t.Error("header should show the signed-in user")
	}
}

func TestAppInitRejectedTokenShowsLogin(t *testing.T) {
	env := newTestEnv()
	env.auth.rejectToken = true
	persister := session.NewPersister(env.mem, "")
	_ = persister.Save(context.Background(), session.Session{State: session.Authenticated, User: &domain.User{ID: 7}, Token: "old"})

	a := env.app()
	a, _ = drain(a, a.Init())

	if a.view != viewLogin {
		t.Errorf("expected viewLogin, got %d", a.view)
	}
	if env.mem.Len() != 0 {
		t.Error("rejected token should be cleared from storage")
	}
}

func TestAppLoginSucceeds(t *testing.T) {
	env := newTestEnv()
	a := signedIn(t, env)

	if !a.session.IsAuthenticated() {
		t.Error("expected an authenticated session")
	}
	if a.login.password != "" {
		t.Error("password should be cleared after submit")
	}
	if env.mem.Len() != 1 {
		t.Error("session should be persisted")
	}
}

func TestAppLoginFailureShowsServerDetail(t *testing.T) {
	env := newTestEnv()
	env.auth.exchangeErr = detailError{"Incorrect email or password"}

	a := env.app()
	a, _ = drain(a, a.Init())
	a = typeText(a, "alice")
	a, _ = update(a, keyMsg("enter"))
	a = typeText(a, "wrong")
	a, cmd := update(a, keyMsg("enter"))
	if !a.login.submitting {
		t.Fatal("expected submitting while the login is in flight")
	}
	a, _ = drain(a, cmd)

	if a.view != viewLogin {
		t.Errorf("expected viewLogin, got %d", a.view)
	}
	if a.login.err != "Incorrect email or password" {
		t.Errorf("login error = %q", a.login.err)
	}
	if a.login.submitting {
		t.Error("submit should be re-enabled after failure")
	}
	if a.login.username != "alice" {
		t.Error("username should survive a failed attempt")
	}
}

func TestAppLoginIgnoresKeysWhileSubmitting(t *testing.T) {
	a := newTestEnv().app()
	a.view = viewLogin
	a.login.submitting = true
	a, cmd := update(a, keyMsg("enter"))
	if cmd != nil {
		t.Error("a second submit should not start another login")
	}
	a, _ = update(a, keyMsg("x"))
	if a.login.username != "" {
		t.Error("typing should be disabled while submitting")
	}
}

func TestAppSessionMsgDrivesViews(t *testing.T) {
	env := newTestEnv()
	a := signedIn(t, env)

	a, _ = update(a, sessionMsg{session: session.Session{State: session.Revalidating}})
	if a.view != viewChecking {
		t.Errorf("revalidating should show the checking view, got %d", a.view)
	}
	a, _ = update(a, sessionMsg{session: session.Session{}})
	if a.view != viewLogin {
		t.Errorf("unauthenticated should show login, got %d", a.view)
	}
	if len(a.list.assets) != 0 {
		t.Error("signing out should drop loaded assets")
	}
}

func TestAppLogoutReturnsToLogin(t *testing.T) {
	env := newTestEnv()
	a := signedIn(t, env)

	a, cmd := update(a, keyMsg("L"))
	a, _ = drain(a, cmd)

	if a.view != viewLogin {
		t.Errorf("expected viewLogin after logout, got %d", a.view)
	}
	if env.mem.Len() != 0 {
		t.Error("logout should clear storage")
	}
	if env.manager.Store().Current().IsAuthenticated() {
		t.Error("store should be unauthenticated")
	}
}

func TestAppQuit(t *testing.T) {
	env := newTestEnv()
	a := signedIn(t, env)

	_, cmd := update(a, keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command on 'q'")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q in the list should quit")
	}

	login := env.app()
	login.view = viewLogin
	login, cmd = update(login, keyMsg("q"))
	if cmd != nil || login.login.username != "q" {
		t.Error("q in the login form should be typed, not quit")
	}

	_, cmd = update(login, keyMsg("ctrl+c"))
	if cmd == nil {
		t.Fatal("ctrl+c should always quit")
	}
}

func TestAppOpenAndCloseDetail(t *testing.T) {
	env := newTestEnv()
	a := signedIn(t, env)

	a, _ = update(a, keyMsg("j"))
	a, cmd := update(a, keyMsg("enter"))
	a, _ = drain(a, cmd)

	if a.view != viewDetail {
		t.Fatalf("expected viewDetail, got %d", a.view)
	}
	if a.detail.asset == nil || a.detail.asset.AssetTag != "IT-002" {
		t.Fatalf("detail asset = %+v", a.detail.asset)
	}
	if !strings.Contains(a.View(), "Dell U2720Q") {
		t.Error("detail view should show the asset name")
	}

	a, cmd = update(a, keyMsg("esc"))
	a, _ = drain(a, cmd)
	if a.view != viewList {
		t.Errorf("esc should return to the list, got %d", a.view)
	}
}

func TestAppDiscardsStaleDetailResults(t *testing.T) {
	env := newTestEnv()
	a := signedIn(t, env)

	a, _ = update(a, openDetailMsg{id: 1})
	first := a.detail.seq
	a, _ = update(a, openDetailMsg{id: 2})

	a, _ = update(a, assetLoadedMsg{seq: first, asset: &testAssets[0]})
	if a.detail.asset != nil {
		t.Error("a result for a superseded detail view should be dropped")
	}

	a, _ = update(a, closeDetailMsg{})
	a, _ = update(a, assetLoadedMsg{seq: first + 1, asset: &testAssets[1]})
	if a.detail.asset != nil {
		t.Error("a result arriving after the view closed should be dropped")
	}
}

func TestAppDeleteFlow(t *testing.T) {
	env := newTestEnv()
	a := signedIn(t, env)

	a, cmd := update(a, keyMsg("enter"))
	a, _ = drain(a, cmd)

	a, _ = update(a, keyMsg("d"))
	if !a.detail.confirm {
		t.Fatal("d should ask for confirmation")
	}
	a, cmd = update(a, keyMsg("y"))
	a, _ = drain(a, cmd)

	if a.view != viewList {
		t.Errorf("expected list after delete, got %d", a.view)
	}
	if len(env.assets.deleted) != 1 || env.assets.deleted[0] != 1 {
		t.Errorf("deleted = %v", env.assets.deleted)
	}
	if a.status != "deleted IT-001" || a.statusErr {
		t.Errorf("status = %q err=%v", a.status, a.statusErr)
	}
}

func TestAppDeleteCancelled(t *testing.T) {
	env := newTestEnv()
	a := signedIn(t, env)
	a, cmd := update(a, keyMsg("enter"))
	a, _ = drain(a, cmd)

	a, _ = update(a, keyMsg("d"))
	a, cmd = update(a, keyMsg("n"))
	if cmd != nil || a.detail.confirm {
		t.Error("any key other than y should cancel the delete")
	}
	if len(env.assets.deleted) != 0 {
		t.Error("nothing should be deleted")
	}
}

func TestAppDeleteFailureStaysOnDetail(t *testing.T) {
	env := newTestEnv()
	env.assets.deleteErr = errors.New("Failed to delete asset")
	a := signedIn(t, env)
	a, cmd := update(a, keyMsg("enter"))
	a, _ = drain(a, cmd)

	a, _ = update(a, keyMsg("d"))
	a, cmd = update(a, keyMsg("y"))
	a, _ = drain(a, cmd)

	if a.view != viewDetail {
		t.Errorf("expected detail view after failed delete, got %d", a.view)
	}
	if a.detail.err != "Failed to delete asset" {
		t.Errorf("detail err = %q", a.detail.err)
	}
}

func TestAppListErrorIsRetryable(t *testing.T) {
	env := newTestEnv()
	env.assets.listErr = errors.New("DB down")
	a := signedIn(t, env)

	if a.list.err != "DB down" {
		t.Fatalf("list err = %q", a.list.err)
	}
	if !strings.Contains(a.View(), "DB down") {
		t.Error("error should be visible")
	}

	env.assets.mu.Lock()
	env.assets.listErr = nil
	env.assets.mu.Unlock()
	a, cmd := update(a, keyMsg("r"))
	a, _ = drain(a, cmd)
	if a.list.err != "" || len(a.list.assets) != 2 {
		t.Errorf("retry should recover, err=%q assets=%d", a.list.err, len(a.list.assets))
	}
}

func TestAppUnauthorizedListRevalidates(t *testing.T) {
	env := newTestEnv()
	a := signedIn(t, env)
	env.auth.rejectToken = true

	unauthorized := &client.Error{Op: client.OpListAssets, StatusCode: http.StatusUnauthorized, Message: "Could not validate credentials"}
	a, cmd := update(a, assetsLoadedMsg{seq: a.list.seq, err: unauthorized})
	if cmd == nil {
		t.Fatal("a 401 should trigger a session check")
	}
	a, _ = drain(a, cmd)
	if a.view != viewLogin {
		t.Errorf("expected login after the token was rejected, got %d", a.view)
	}
}

func TestAppUnauthorizedDetailRevalidates(t *testing.T) {
	unauthorized := &client.Error{Op: client.OpGetAsset, StatusCode: http.StatusUnauthorized, Message: "Could not validate credentials"}
	msgs := map[string]func(seq int) tea.Msg{
		"load":   func(seq int) tea.Msg { return assetLoadedMsg{seq: seq, err: unauthorized} },
		"delete": func(seq int) tea.Msg { return assetDeletedMsg{seq: seq, asset: &testAssets[0], err: unauthorized} },
	}
	for name, msg := range msgs {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv()
			a := signedIn(t, env)
			a, _ = update(a, openDetailMsg{id: testAssets[0].ID})
			env.auth.rejectToken = true

			a, cmd := update(a, msg(a.detail.seq))
			if cmd == nil {
				t.Fatal("a 401 should trigger a session check")
			}
			a, _ = drain(a, cmd)
			if a.view != viewLogin {
				t.Errorf("expected login after the token was rejected, got %d", a.view)
			}
		})
	}
}

func TestAppCopyAndOpenResults(t *testing.T) {
	a := newTestEnv().app()

	a, _ = update(a, copyResultMsg{tag: "IT-001"})
	if a.status != "copied IT-001" || a.statusErr {
		t.Errorf("copy status = %q", a.status)
	}
	a, _ = update(a, copyResultMsg{err: errors.New("no clipboard")})
	if !a.statusErr {
		t.Error("copy failure should be an error status")
	}
	a, _ = update(a, openResultMsg{err: errors.New("no display")})
	if !strings.Contains(a.status, "no display") {
		t.Errorf("open status = %q", a.status)
	}
}

func TestAppWindowSizePropagates(t *testing.T) {
	a := newTestEnv().app()
	a, _ = update(a, tea.WindowSizeMsg{Width: 120, Height: 40})
	if a.list.width != 120 || a.list.height != 37 {
		t.Errorf("list size = %dx%d", a.list.width, a.list.height)
	}
	if a.login.width != 120 {
		t.Errorf("login width = %d", a.login.width)
	}
}
