package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/quantfolio/quantfolio"
	"github.com/quantfolio/quantfolio/renderer"
)

type snapshotCmd struct {
	date         string
	portfolio    string
	consolidated bool
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "value a portfolio on a date, in the base currency" }
func (*snapshotCmd) Usage() string {
	return `qfs snapshot [-d <date>] [-P <portfolio>] [-consolidated]

  Values a portfolio on a date: market value, cash, total value, cost basis,
  unrealized and realized gains, all normalized into the base currency.
  With -consolidated, every portfolio is valued and summed.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Valuation date (defaults to today)")
	f.StringVar(&c.portfolio, "P", quantfolio.DefaultPortfolio, "Portfolio to value")
	f.BoolVar(&c.consolidated, "consolidated", false, "Value all portfolios together")
}

func (c *snapshotCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := quantfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	valuation, err := newValuation()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var snap quantfolio.PortfolioSnapshot
	if c.consolidated {
		snap, err = valuation.Consolidated(asOf)
	} else {
		snap, err = valuation.Snapshot(c.portfolio, asOf)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.SnapshotMarkdown(&snap))
	return subcommands.ExitSuccess
}
