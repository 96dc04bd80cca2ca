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

type summaryCmd struct {
	date      string
	portfolio string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "to-date performance overview of a portfolio" }
func (*summaryCmd) Usage() string {
	return `qfs summary [-d <date>] [-P <portfolio>]

  Values the portfolio on a date and on the eve of the day, week, month,
  quarter and year, and reports the value change over each window.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Report date (defaults to today)")
	f.StringVar(&c.portfolio, "P", quantfolio.DefaultPortfolio, "Portfolio to report on")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := quantfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	valuation, err := newValuation()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	summary, err := quantfolio.NewSummary(valuation, c.portfolio, on)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.SummaryMarkdown(summary))
	return subcommands.ExitSuccess
}
