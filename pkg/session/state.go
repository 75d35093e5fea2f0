// Package session owns the client's authentication state: who is logged in,
// with which bearer token, and how that survives a restart.
//
// The package is split the same way the flow is:
//
//	Transition  pure state machine, no I/O
//	Store       observable container holding the current Session
//	Persister   mirrors the token into durable storage
//	Manager     runs Login, Logout and CheckAuth against an Authenticator
package session

import "github.com/naveenspark/uitam/pkg/domain"

// State is the authentication phase of a Session.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
	Revalidating
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Revalidating:
		return "revalidating"
	default:
		return "unknown"
	}
}

// Session is an immutable snapshot of the authentication state.
// User and Token are set only in the Authenticated state.
type Session struct {
	State State
	User  *domain.User
	Token string
}

// IsAuthenticated reports whether both a token and a user are present.
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// EventKind identifies a session transition.
type EventKind int

const (
	LoginStarted EventKind = iota
	LoginSucceeded
	LoginFailed
	RevalidationStarted
	RevalidationSucceeded
	RevalidationFailed
	LoggedOut
)

func (k EventKind) String() string {
	switch k {
	case LoginStarted:
		return "login_started"
	case LoginSucceeded:
		return "login_succeeded"
	case LoginFailed:
		return "login_failed"
	case RevalidationStarted:
		return "revalidation_started"
	case RevalidationSucceeded:
		return "revalidation_succeeded"
	case RevalidationFailed:
		return "revalidation_failed"
	case LoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}

// Event drives Transition. User and Token are read only by the success kinds.
type Event struct {
	Kind  EventKind
	User  *domain.User
	Token string
}

// Transition returns the session that follows s after ev. It has no side effects.
//
// A success event missing its user or token is handled as the matching
// failure, so a token is never held without a user.
func Transition(s Session, ev Event) Session {
	switch ev.Kind {
	case LoginStarted:
		return Session{State: Authenticating}
	case RevalidationStarted:
		return Session{State: Revalidating}
	case LoginSucceeded, RevalidationSucceeded:
		if ev.User == nil || ev.Token == "" {
			return Session{State: Unauthenticated}
		}
		return Session{State: Authenticated, User: ev.User, Token: ev.Token}
	case LoginFailed, RevalidationFailed, LoggedOut:
		return Session{State: Unauthenticated}
	default:
		return s
	}
}
