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

type gainsCmd struct {
	portfolio string
	period    string
	date      string
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "list realized gains, lot by lot" }
func (*gainsCmd) Usage() string {
	return `qfs gains [-P <portfolio>] [-p <period>] [-d <end_date>]

  Replays the ledger and lists every realized gain event: the closed lot, its
  proceeds, cost basis, fees, and short/long term tagging. Without -p the
  whole history is listed.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "P", quantfolio.DefaultPortfolio, "Portfolio to report on")
	f.StringVar(&c.period, "p", "", "Predefined period (day, week, month, quarter, year)")
	f.StringVar(&c.date, "d", "0d", "The end date for the period")
}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := decodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	book, err := quantfolio.ReplayLedger(ledger, bookConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	events := book.EventsOf(c.portfolio)
	if c.period != "" {
		endDate, err := quantfolio.ParseDate(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
			return subcommands.ExitFailure
		}
		period, err := quantfolio.ParsePeriod(c.period)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
			return subcommands.ExitFailure
		}
		within := period.Range(endDate)
		kept := events[:0]
		for _, e := range events {
			if within.Contains(e.Close) {
				kept = append(kept, e)
			}
		}
		events = kept
	}

	printMarkdown(renderer.GainsMarkdown(c.portfolio, events))
	return subcommands.ExitSuccess
}
