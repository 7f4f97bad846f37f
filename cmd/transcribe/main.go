// Command transcribe submits media files to the transcription backend,
// tracks jobs to completion and browses past transcripts.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/tarminik/transcribe/internal/api"
	"github.com/tarminik/transcribe/internal/config"
	"github.com/tarminik/transcribe/internal/history"
	"github.com/tarminik/transcribe/internal/keyring"
	"github.com/tarminik/transcribe/internal/logger"
	"github.com/tarminik/transcribe/internal/origin"
	"github.com/tarminik/transcribe/internal/poll"
	"github.com/tarminik/transcribe/internal/result"
	"github.com/tarminik/transcribe/internal/session"
	"github.com/tarminik/transcribe/internal/upload"
)

// CLI defines the transcribe command structure.
type CLI struct {
	Login    LoginCmd    `cmd:"" help:"Sign in with email and password"`
	Register RegisterCmd `cmd:"" help:"Create an account and sign in"`
	Logout   LogoutCmd   `cmd:"" help:"Clear the stored session"`
	Submit   SubmitCmd   `cmd:"" help:"Submit a media file for transcription"`
	History  HistoryCmd  `cmd:"" help:"Browse past transcriptions"`
	Status   StatusCmd   `cmd:"" help:"Show the signed-in account and optionally one job"`
}

// app wires the client components together once per command invocation.
type app struct {
	cfg      *config.Config
	store    *session.Store
	sessions *session.Manager
	client   *api.Client
	uploads  *upload.Coordinator
	results  *result.Fetcher
	watcher  *poll.Watcher
	history  *history.Reconciler
}

// newApp loads configuration and builds the component graph. The session
// store gates everything; the reconciler's reset hook makes logout drop all
// per-principal state.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger.Setup(cfg)

	resolver, err := origin.NewResolver(cfg.APIBase, cfg.BackendOrigin)
	if err != nil {
		return nil, fmt.Errorf("failed to build origin resolver: %w", err)
	}

	store, err := session.NewStore(keyring.NewStore())
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	client := api.NewClient(cfg, store, resolver)
	results := result.NewFetcher(client)
	reconciler := history.NewReconciler(client, results)
	store.OnReset(reconciler.Reset)

	return &app{
		cfg:      cfg,
		store:    store,
		sessions: session.NewManager(store, client),
		client:   client,
		uploads:  upload.NewCoordinator(client),
		results:  results,
		watcher:  poll.NewWatcher(client, results, cfg.PollInterval(), cfg.MaxWait()),
		history:  reconciler,
	}, nil
}

// requireAuth fails early for commands that need a session, instead of
// letting the backend answer 401 mid-flow.
func (a *app) requireAuth() error {
	if !a.store.Authenticated() {
		return fmt.Errorf("not signed in: run 'transcribe login' first")
	}

	return nil
}

func main() {
	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}
