// Package cli implements the stockflow subcommands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/app"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/config"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/render"
	"github.com/Mohan-0108/KSM-ENTERPRIES/pkg/logger"
)

var (
	envFile = flag.String("env", "", "Path to a dotenv file with the configuration.")
	plain   = flag.Bool("plain", false, "Print raw markdown instead of styled output.")
	verbose = flag.Bool("v", false, "Log at LOG_LEVEL instead of warn.")
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Register adds every command to c.
func Register(c *subcommands.Commander) {
	c.Register(&dashboardCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
	c.Register(&insightsCmd{}, "reports")

	c.Register(&productsCmd{}, "catalogue")
	c.Register(&addProductCmd{}, "catalogue")
	c.Register(&contactsCmd{}, "catalogue")
	c.Register(&addContactCmd{}, "catalogue")

	c.Register(&txCmd{direction: models.Inward}, "transactions")
	c.Register(&txCmd{direction: models.Outward}, "transactions")
}

// session is what every command works with.
type session struct {
	app      *app.App
	renderer *render.Renderer
}

func open(ctx context.Context) (*session, error) {
	cfg, err := config.Load(*envFile)
	if err != nil {
		return nil, err
	}
	level := "warn"
	if *verbose {
		level = cfg.Server.LogLevel
	}
	log, err := logger.NewCLI(level)
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	r, err := render.New(cfg.Server.DisplayCurrency)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	return &session{app: a, renderer: r}, nil
}

func (s *session) close(ctx context.Context) {
	_ = s.app.Logger.Sync()
	if err := s.app.Close(ctx); err != nil {
		fmt.Fprintln(stderr, err)
	}
}

// run opens a session, calls fn and prints the markdown it returns.
func run(ctx context.Context, fn func(*session) (string, error)) subcommands.ExitStatus {
	s, err := open(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	defer s.close(ctx)

	md, err := fn(s)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

func printMarkdown(md string) {
	if err := render.Print(stdout, md, *plain); err != nil {
		fmt.Fprintln(stderr, err)
	}
}
