package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"
)

type dashboardCmd struct{}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show inventory value, low stock and top sellers" }
func (*dashboardCmd) Usage() string {
	return `stockflow dashboard

  Prints the inventory value, the product and order counts, the products below
  the low stock threshold and the best sellers by units.
`
}
func (*dashboardCmd) SetFlags(*flag.FlagSet) {}

func (*dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(s *session) (string, error) {
		return s.renderer.Dashboard(s.app.Reporting.Dashboard())
	})
}

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list the transactions of the last 90 days" }
func (*historyCmd) Usage() string {
	return `stockflow history

  Lists purchases and sales of the last 90 days, newest first.
`
}
func (*historyCmd) SetFlags(*flag.FlagSet) {}

func (*historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(s *session) (string, error) {
		return s.renderer.History(s.app.Reporting.History())
	})
}

type insightsCmd struct{}

func (*insightsCmd) Name() string     { return "insights" }
func (*insightsCmd) Synopsis() string { return "ask the AI provider for a business summary" }
func (*insightsCmd) Usage() string {
	return `stockflow insights

  Sends the catalogue and the latest sales to the configured AI provider and
  prints its summary. Without an API key a fallback message is printed.
`
}
func (*insightsCmd) SetFlags(*flag.FlagSet) {}

func (*insightsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(s *session) (string, error) {
		<-s.app.Tracker.Start(s.app.Ledger.Snapshot())
		return s.renderer.Insights(s.app.Tracker.Status().Text)
	})
}
