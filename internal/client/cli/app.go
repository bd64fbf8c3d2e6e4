// Package cli implements the claimcheck command-line client: account
// commands, claim submission and history browsing against the HTTP API.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/claimcheck/internal/client/api"
	"github.com/dmitrijs2005/claimcheck/internal/client/config"
	"github.com/dmitrijs2005/claimcheck/internal/client/session"
	"github.com/dmitrijs2005/claimcheck/internal/flagx"
)

// API is the part of the HTTP client the commands use.
type API interface {
	SetToken(token string)
	Register(ctx context.Context, email, password, fullName string) (*api.TokenResponse, error)
	Login(ctx context.Context, email, password string) (*api.TokenResponse, error)
	Me(ctx context.Context) (*api.User, error)
	Analyze(ctx context.Context, docs api.Documents) (*api.Analysis, error)
	History(ctx context.Context, limit int) ([]api.Analysis, error)
	Get(ctx context.Context, id string) (*api.Analysis, error)
}

// SessionStore remembers the access token between runs.
type SessionStore interface {
	Save(ctx context.Context, s session.Session) error
	Load(ctx context.Context) (*session.Session, error)
	Clear(ctx context.Context) error
}

type App struct {
	api    API
	store  SessionStore
	reader *bufio.Reader
	out    io.Writer
	closer io.Closer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	store, err := session.Open(ctx, c.StateDir)
	if err != nil {
		return nil, fmt.Errorf("error opening session store: %w", err)
	}

	return &App{
		api:    api.New(c.ServerURL, c.RequestTimeout),
		store:  store,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		closer: store,
	}, nil
}

func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

type command struct {
	usage string
	auth  bool
	run   func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"register": {usage: "register [--email E] [--name N]", run: (*App).register},
	"login":    {usage: "login [--email E]", run: (*App).login},
	"logout":   {usage: "logout", run: (*App).logout},
	"me":       {usage: "me", auth: true, run: (*App).me},
	"analyze":  {usage: "analyze --policy F --claim F --bills F --doctor-notes F", auth: true, run: (*App).analyze},
	"history":  {usage: "history [--limit N]", auth: true, run: (*App).history},
	"show":     {usage: "show <id>", auth: true, run: (*App).show},
}

var commandOrder = []string{"register", "login", "logout", "me", "analyze", "history", "show"}

// ErrUsage is returned for an unknown or incomplete command line.
var ErrUsage = errors.New("usage error")

// Run executes the command named by the first positional argument. args
// excludes the program name and may carry global flags anywhere.
func (a *App) Run(ctx context.Context, args []string) error {
	fs := flagx.NewFlagSet("cli")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 || rest[0] == "help" {
		a.usage()
		return nil
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		a.usage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, rest[0])
	}

	if cmd.auth {
		sess, err := a.store.Load(ctx)
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				return fmt.Errorf("not logged in, run 'claimcheck login' first")
			}
			return err
		}
		a.api.SetToken(sess.AccessToken)
	}

	err := cmd.run(a, ctx, args)
	if cmd.auth && errors.Is(err, api.ErrUnauthorized) {
		return fmt.Errorf("session rejected by server, run 'claimcheck login' again: %w", err)
	}
	return err
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "Usage: claimcheck [--server URL] <command> [flags]")
	fmt.Fprintln(a.out, "Commands:")
	for _, name := range commandOrder {
		fmt.Fprintf(a.out, "  %s\n", commands[name].usage)
	}
}
