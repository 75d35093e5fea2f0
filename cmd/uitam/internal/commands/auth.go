package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// LoginCmd signs in with a username and password.
type LoginCmd struct {
	Username      string `short:"u" help:"Account email or username. Prompted when omitted."`
	PasswordStdin bool   `name:"password-stdin" help:"Read the password from stdin instead of prompting."`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.open(ctx, false)
	if err != nil {
		return err
	}
	defer e.Close()

	in := bufio.NewReader(globals.Stdin)

	username := strings.TrimSpace(l.Username)
	if username == "" {
		if l.PasswordStdin {
			return errors.New("--password-stdin requires --username")
		}
		fmt.Fprint(globals.Stderr, "Username: ")
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}

	password, err := l.readPassword(in, globals)
	if err != nil {
		return err
	}

	s, err := e.manager.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(globals.Stdout, "Logged in as %s\n", s.User.DisplayName())
	return nil
}

func (l *LoginCmd) readPassword(in *bufio.Reader, globals *Globals) (string, error) {
	if l.PasswordStdin {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}

	f, ok := globals.Stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", errors.New("stdin is not a terminal, use --password-stdin")
	}
	fmt.Fprint(globals.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(globals.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

// LogoutCmd forgets the stored session. It succeeds even when nobody is
// signed in.
type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.open(ctx, false)
	if err != nil {
		return err
	}
	defer e.Close()

	e.manager.Logout(ctx)
	fmt.Fprintln(globals.Stdout, "Logged out")
	return nil
}

// WhoamiCmd prints the user the stored session belongs to.
type WhoamiCmd struct {
	JSON bool `help:"Print the user as JSON."`
}

func (w *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.open(ctx, false)
	if err != nil {
		return err
	}
	defer e.Close()

	s, err := e.requireSession(ctx)
	if err != nil {
		return err
	}

	if w.JSON {
		enc := json.NewEncoder(globals.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s.User)
	}

	u := s.User
	fmt.Fprintf(globals.Stdout, "Name:       %s\n", u.DisplayName())
	fmt.Fprintf(globals.Stdout, "Email:      %s\n", u.Email)
	fmt.Fprintf(globals.Stdout, "ID:         %d\n", u.ID)
	if u.IsSuperuser {
		fmt.Fprintln(globals.Stdout, "Role:       administrator")
	}
	fmt.Fprintf(globals.Stdout, "API:        %s\n", e.client.BaseURL())
	fmt.Fprintf(globals.Stdout, "Expires:    %s\n", formatExpiry(s.Token, time.Now()))
	return nil
}
