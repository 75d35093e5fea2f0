package client

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenSource yields the current session token, or "" when there is none.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// authTransport attaches the session bearer token and a request id to every
// outgoing request. An Authorization header already set by the caller wins.
type authTransport struct {
	base      http.RoundTripper
	tokens    TokenSource
	userAgent string
	logger    zerolog.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if r.Header.Get("Authorization") == "" && t.tokens != nil {
		if tok := t.tokens.Token(); tok != "" {
			r.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	if r.Header.Get("X-Request-ID") == "" {
		r.Header.Set("X-Request-ID", uuid.NewString())
	}
	if t.userAgent != "" {
		r.Header.Set("User-Agent", t.userAgent)
	}

	started := time.Now()
	resp, err := t.base.RoundTrip(r)
	ev := t.logger.Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", r.Header.Get("X-Request-ID")).
		Dur("duration", time.Since(started))
	if err != nil {
		ev.Err(err).Msg("request failed")
		return nil, err
	}
	ev.Int("status", resp.StatusCode).Msg("request")
	return resp, nil
}
