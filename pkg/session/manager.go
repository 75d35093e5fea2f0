package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/naveenspark/uitam/pkg/domain"
)

// DefaultLoginFailure is shown when a login fails without a server detail.
const DefaultLoginFailure = "Login failed"

// ErrMissingCredentials is returned by Login for an empty identifier or secret.
var ErrMissingCredentials = errors.New("session: missing credentials")

// Authenticator is the part of the resource client the session needs.
type Authenticator interface {
	ExchangeCredentials(ctx context.Context, identifier, secret string) (string, error)
	Introspect(ctx context.Context, token string) (*domain.User, error)
}

// LoginError is returned by Login. Error() is the message to show the user.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() error { return e.Err }

// Manager runs the session flows: it calls the Authenticator, dispatches the
// resulting events to the Store and syncs the Persister after each outcome.
type Manager struct {
	auth         Authenticator
	store        *Store
	persister    *Persister
	logger       zerolog.Logger
	loginFailure string
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger for session events. The default discards.
func WithLogger(l zerolog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// WithLoginFailureMessage overrides DefaultLoginFailure.
func WithLoginFailureMessage(msg string) ManagerOption {
	return func(m *Manager) {
		if msg != "" {
			m.loginFailure = msg
		}
	}
}

// NewManager wires a Manager.
func NewManager(auth Authenticator, store *Store, persister *Persister, opts ...ManagerOption) *Manager {
	m := &Manager{
		auth:         auth,
		store:        store,
		persister:    persister,
		logger:       zerolog.Nop(),
		loginFailure: DefaultLoginFailure,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the container the manager dispatches to.
func (m *Manager) Store() *Store {
	return m.store
}

// Login exchanges credentials for a token, then fetches the user that token
// belongs to. Both steps must succeed; otherwise the session ends
// Unauthenticated with nothing persisted.
func (m *Manager) Login(ctx context.Context, identifier, secret string) (Session, error) {
	m.store.Dispatch(Event{Kind: LoginStarted})

	if identifier == "" || secret == "" {
		return m.loginFailed(ctx, ErrMissingCredentials)
	}

	token, err := m.auth.ExchangeCredentials(ctx, identifier, secret)
	if err != nil {
		return m.loginFailed(ctx, err)
	}
	user, err := m.auth.Introspect(ctx, token)
	if err != nil {
		return m.loginFailed(ctx, err)
	}

	ev := Event{Kind: LoginSucceeded, User: user, Token: token}
	next := Transition(m.store.Current(), ev)
	if !next.IsAuthenticated() {
		return m.loginFailed(ctx, errors.New("introspection returned no user"))
	}
	// The token must be durable before anyone observes Authenticated.
	if err := m.persister.Sync(ctx, next); err != nil {
		m.logger.Warn().Err(err).Msg("session not persisted")
		return m.loginFailed(ctx, err)
	}
	s := m.store.Dispatch(ev)
	m.logger.Info().Int64("user_id", user.ID).Msg("logged in")
	return s, nil
}

func (m *Manager) loginFailed(ctx context.Context, cause error) (Session, error) {
	s := m.store.Dispatch(Event{Kind: LoginFailed})
	if err := m.persister.Sync(ctx, s); err != nil {
		m.logger.Warn().Err(err).Msg("clear session storage")
	}
	m.logger.Debug().Err(cause).Msg("login failed")
	return s, &LoginError{Message: m.failureMessage(cause), Err: cause}
}

// failureMessage prefers a server detail carried anywhere in the error chain.
func (m *Manager) failureMessage(err error) string {
	var d interface{ Detail() string }
	if errors.As(err, &d) && d.Detail() != "" {
		return d.Detail()
	}
	return m.loginFailure
}

// Logout clears storage and returns to Unauthenticated. It always succeeds.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.persister.Clear(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("clear session storage")
	}
	m.store.Dispatch(Event{Kind: LoggedOut})
	m.logger.Debug().Msg("logged out")
}

// CheckAuth restores a persisted session. Without a stored token it makes no
// network call. A token the server rejects, or any other revalidation
// failure, clears storage and leaves the session Unauthenticated; that
// outcome is not an error. Only a storage read failure is returned.
func (m *Manager) CheckAuth(ctx context.Context) error {
	rec, err := m.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("session.CheckAuth: %w", err)
	}
	if rec.Token == "" {
		return nil
	}

	m.store.Dispatch(Event{Kind: RevalidationStarted})
	user, err := m.auth.Introspect(ctx, rec.Token)
	if err != nil {
		m.logger.Debug().Err(err).Msg("stored token rejected")
		s := m.store.Dispatch(Event{Kind: RevalidationFailed})
		if err := m.persister.Sync(ctx, s); err != nil {
			m.logger.Warn().Err(err).Msg("clear session storage")
		}
		return nil
	}

	s := m.store.Dispatch(Event{Kind: RevalidationSucceeded, User: user, Token: rec.Token})
	if err := m.persister.Sync(ctx, s); err != nil {
		m.logger.Warn().Err(err).Msg("session not persisted")
	}
	return nil
}
