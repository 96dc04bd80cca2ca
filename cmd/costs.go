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

type costsCmd struct {
	portfolio string
	period    string
	date      string
	start     string
}

func (*costsCmd) Name() string     { return "costs" }
func (*costsCmd) Synopsis() string { return "aggregate trading volumes and fees over a period" }
func (*costsCmd) Usage() string {
	return `qfs costs [-P <portfolio>] [-p <period> | -s <start_date>] [-d <end_date>]

  Aggregates what the portfolio paid in commissions and standalone fees over a
  period, converted into the base currency at each transaction's date.
`
}

func (c *costsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "P", quantfolio.DefaultPortfolio, "Portfolio to report on")
	f.StringVar(&c.period, "p", "year", "Predefined period (day, week, month, quarter, year)")
	f.StringVar(&c.start, "s", "", "The start date for a custom range. Overrides -p.")
	f.StringVar(&c.date, "d", "0d", "The end date for the period")
}

func (c *costsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	endDate, err := quantfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitFailure
	}

	var within quantfolio.Range
	if c.start != "" {
		startDate, err := quantfolio.ParseDate(c.start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitFailure
		}
		within = quantfolio.NewRange(startDate, endDate)
	} else {
		period, err := quantfolio.ParsePeriod(c.period)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
			return subcommands.ExitFailure
		}
		within = period.Range(endDate)
	}

	ledger, err := decodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	rates, err := decodeRates()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	report, err := quantfolio.NewCostReport(ledger, rates, c.portfolio, within)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.CostsMarkdown(report))
	return subcommands.ExitSuccess
}
