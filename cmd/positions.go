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

type positionsCmd struct {
	date      string
	portfolio string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "list open positions with price and unrealized gain" }
func (*positionsCmd) Usage() string {
	return `qfs positions [-d <date>] [-P <portfolio>]

  Lists the portfolio's open positions on a date, each priced in its native
  currency: quantity, average cost, market value and unrealized gain.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Valuation date (defaults to today)")
	f.StringVar(&c.portfolio, "P", quantfolio.DefaultPortfolio, "Portfolio to report on")
}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	positions, err := valuation.Breakdown(c.portfolio, asOf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.PositionsMarkdown(c.portfolio, asOf, positions))
	return subcommands.ExitSuccess
}
