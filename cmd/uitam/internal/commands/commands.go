// Package commands implements the uitam subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/naveenspark/uitam/internal/config"
	"github.com/naveenspark/uitam/internal/logger"
	"github.com/naveenspark/uitam/internal/storage"
	"github.com/naveenspark/uitam/pkg/client"
	"github.com/naveenspark/uitam/pkg/session"
)

// ErrNotLoggedIn is returned by commands that need a session when none could
// be restored.
var ErrNotLoggedIn = errors.New("not logged in, run `uitam login`")

// CLI is the full command tree.
type CLI struct {
	Config  string `help:"Config file." type:"path" placeholder:"FILE" env:"UITAM_CONFIG"`
	APIURL  string `name:"api-url" help:"API base URL, overrides the config file." placeholder:"URL"`
	Debug   bool   `help:"Enable debug logging."`
	Version kong.VersionFlag

	TUI    TUICmd    `cmd:"" name:"tui" default:"1" help:"Browse assets interactively (default)."`
	Login  LoginCmd  `cmd:"" help:"Sign in and store the session."`
	Logout LogoutCmd `cmd:"" help:"Sign out and forget the stored session."`
	Whoami WhoamiCmd `cmd:"" help:"Show the signed-in user."`
	Assets AssetsCmd `cmd:"" help:"Manage assets."`
}

// Globals carries process-wide settings into every command.
type Globals struct {
	Config  string
	APIURL  string
	Debug   bool
	Version string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Globals returns the settings the parsed flags describe, bound to the
// process streams.
func (c *CLI) Globals(version string) *Globals {
	return &Globals{
		Config:  c.Config,
		APIURL:  c.APIURL,
		Debug:   c.Debug,
		Version: version,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// env is the wired object graph one command runs against.
type env struct {
	cfg     *config.Config
	log     zerolog.Logger
	storage storage.Storage
	store   *session.Store
	client  *client.Client
	manager *session.Manager
	closers []io.Closer
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
}

// open loads configuration and wires storage, session and client. When
// logFile is set logs go to the profile log file instead of stderr.
func (g *Globals) open(ctx context.Context, logFile bool) (*env, error) {
	cfg, err := config.Load(ctx, g.Config)
	if err != nil {
		return nil, err
	}
	if g.APIURL != "" {
		cfg.APIURL = g.APIURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if g.Debug {
		cfg.LogLevel = "debug"
	}

	e := &env{cfg: cfg}

	opts := logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Output: g.Stderr}
	if logFile {
		f, err := logger.OpenFile(cfg.LogFile())
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, f)
		opts.Output = f
		opts.Pretty = false
	} else if f, ok := g.Stderr.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		opts.Pretty = true
	}
	e.log = logger.Setup(opts).With().Str("profile", cfg.ProfileDir).Logger()

	st, err := storage.Open(ctx, cfg.StorageDriver, cfg.ProfileDir)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.storage = st
	e.closers = append(e.closers, st)

	e.store = session.NewStore()
	e.client = client.New(cfg.APIURL,
		client.WithTokenSource(e.store),
		client.WithTimeout(cfg.Timeout.Duration),
		client.WithLogger(e.log),
		client.WithUserAgent("uitam/"+g.Version),
	)
	e.manager = session.NewManager(e.client, e.store,
		session.NewPersister(st, cfg.StorageKey),
		session.WithLogger(e.log),
	)

	e.log.Debug().Str("api_url", cfg.APIURL).Str("storage", cfg.StorageDriver).Msg("wired")
	return e, nil
}

// requireSession restores the stored session once and fails when there is
// none.
func (e *env) requireSession(ctx context.Context) (session.Session, error) {
	if err := e.manager.CheckAuth(ctx); err != nil {
		return session.Session{}, err
	}
	s := e.store.Current()
	if !s.IsAuthenticated() {
		return s, ErrNotLoggedIn
	}
	return s, nil
}

func formatExpiry(token string, now time.Time) string {
	exp, ok := session.TokenExpiry(token)
	if !ok {
		return "unknown"
	}
	if exp.Before(now) {
		return fmt.Sprintf("%s (expired)", exp.Local().Format(time.RFC1123))
	}
	return fmt.Sprintf("%s (in %s)", exp.Local().Format(time.RFC1123), exp.Sub(now).Round(time.Minute))
}
