package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jobmatch/internal/api"
	"github.com/jobmatch/internal/config"
	"github.com/jobmatch/internal/session"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var errLoginRequired = errors.New("login required")

type app struct {
	cfg      *config.Config
	logger   *zerolog.Logger
	store    *session.FileStore
	client   *api.Client
	sessions *session.Manager
	guard    *session.Guard
	term     *terminal
	in       io.Reader
}

func main() {
	cfg := config.LoadConfig()
	logger := config.SetupLogger(cfg)

	a := newApp(cfg, &logger.Logger, os.Stdin, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := a.run(ctx, os.Args[1:]...)
	switch {
	case err == nil:
	case errors.Is(err, errLoginRequired):
		os.Exit(3)
	default:
		logger.Error().Err(err).Strs("args", os.Args[1:]).Msg("Command failed")
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, logger *zerolog.Logger, in io.Reader, out io.Writer) *app {
	store := session.NewFileStore(cfg.TokenFile)
	client := api.New(api.Options{
		BaseURL: cfg.APIURL,
		Timeout: cfg.Timeout,
		Tokens:  store,
		Logger:  logger,
	})
	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		client:   client,
		sessions: session.NewManager(client, store, logger),
		guard:    session.NewGuard(store, logger),
		term:     newTerminal(out),
		in:       in,
	}
}

// run executes one command line against the app.
func (a *app) run(ctx context.Context, args ...string) error {
	root := a.rootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jobmatch",
		Short:         "Terminal client for the job-matching backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.in)
	root.SetOut(a.term.out)
	root.SetErr(a.term.out)

	root.AddGroup(
		&cobra.Group{ID: "account", Title: "Account:"},
		&cobra.Group{ID: "screens", Title: "Screens:"},
		&cobra.Group{ID: "lists", Title: "Lists:"},
	)
	root.AddCommand(
		a.registerCmd(),
		a.verifyCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.chatsCmd(),
		a.chatCmd(),
		a.applicantsCmd(),
		a.applicationsCmd(),
		a.offersCmd(),
		a.saveCmd(),
		a.profileCmd(),
		a.statsCmd(),
	)
	return root
}

// protected runs fn only when the session guard lets the user in.
func (a *app) protected(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if !a.guard.Enter(cmd.Context(), a.term) {
			return errLoginRequired
		}
		return fn(cmd, args)
	}
}

// guardErr sends the user back to login on a 401. The API client never
// does that by itself.
func (a *app) guardErr(err error) error {
	if api.IsUnauthorized(err) {
		a.term.Replace(session.RouteLogin)
		return errLoginRequired
	}
	return err
}
