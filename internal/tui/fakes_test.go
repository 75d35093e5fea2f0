package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/uitam/internal/storage"
	"github.com/naveenspark/uitam/pkg/domain"
	"github.com/naveenspark/uitam/pkg/session"
)

type detailError struct{ detail string }

func (e detailError) Error() string  { return e.detail }
func (e detailError) Detail() string { return e.detail }

type fakeAuth struct {
	token       string
	user        *domain.User
	exchangeErr error
	rejectToken bool
	introspects int
}

func (f *fakeAuth) ExchangeCredentials(_ context.Context, _, _ string) (string, error) {
	return f.token, f.exchangeErr
}

func (f *fakeAuth) Introspect(_ context.Context, _ string) (*domain.User, error) {
	f.introspects++
	if f.rejectToken {
		return nil, detailError{"Could not validate credentials"}
	}
	return f.user, nil
}

type fakeAssets struct {
	mu         sync.Mutex
	assets     []domain.Asset
	listErr    error
	getErr     error
	deleteErr  error
	filters    []domain.AssetFilter
	categories []string
	deleted    []int64
}

func (f *fakeAssets) ListAssets(_ context.Context, flt domain.AssetFilter) ([]domain.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, flt)
	return f.assets, f.listErr
}

func (f *fakeAssets) ListAssetsByCategory(_ context.Context, category string, flt domain.AssetFilter) ([]domain.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = append(f.categories, category)
	f.filters = append(f.filters, flt)
	return f.assets, f.listErr
}

func (f *fakeAssets) GetAsset(_ context.Context, id int64) (*domain.Asset, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, a := range f.assets {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, detailError{"Asset not found"}
}

func (f *fakeAssets) DeleteAsset(_ context.Context, id int64) (*domain.Asset, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	for _, a := range f.assets {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, detailError{"Asset not found"}
}

var testAssets = []domain.Asset{
	{ID: 1, Name: "ThinkPad X1", AssetTag: "IT-001", Category: "Computer", Status: "Active", Location: "HQ"},
	{ID: 2, Name: "Dell U2720Q", AssetTag: "IT-002", Category: "Monitor", Status: "Under Repair"},
}

type testEnv struct {
	auth    *fakeAuth
	assets  *fakeAssets
	mem     *storage.Memory
	manager *session.Manager
}

func newTestEnv() *testEnv {
	env := &testEnv{
		auth:   &fakeAuth{token: "tok123", user: &domain.User{ID: 7, FullName: "Alice"}},
		assets: &fakeAssets{assets: testAssets},
		mem:    storage.NewMemory(),
	}
	env.manager = session.NewManager(env.auth, session.NewStore(), session.NewPersister(env.mem, ""))
	return env
}

func (env *testEnv) app() App {
	a := NewApp(env.manager, env.assets, Options{WebURL: "https://itam.example.com"})
	a.width = 100
	a.height = 30
	return a
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// update feeds msg to the app and returns the new model with its command.
func update(a App, msg tea.Msg) (App, tea.Cmd) {
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

// drain runs cmd and feeds every resulting message back until the app
// settles. It returns the last message seen.
func drain(a App, cmd tea.Cmd) (App, tea.Msg) {
	var last tea.Msg
	for cmd != nil {
		last = cmd()
		if last == nil {
			break
		}
		if _, ok := last.(tea.QuitMsg); ok {
			break
		}
		a, cmd = update(a, last)
	}
	return a, last
}

func typeText(a App, s string) App {
	for _, r := range s {
		a, _ = update(a, keyMsg(string(r)))
	}
	return a
}
