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

type txCmd struct {
	period    string
	start     string
	date      string
	portfolio string
	security  string
	head      int
	tail      int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions in the ledger" }
func (*txCmd) Usage() string {
	return `qfs tx [-p <period> | -s <start_date>] [-d <end_date>] [-P <portfolio>] [-sec <ticker>] [-head <n>] [-tail <n>]

  Lists transactions from the ledger, with options for filtering and limiting
  the output.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.period, "p", "", "Predefined period (day, week, month, quarter, year).")
	f.StringVar(&p.start, "s", "", "The start date for a custom range. Overrides -p.")
	f.StringVar(&p.date, "d", "", "The end date for the range.")
	f.StringVar(&p.portfolio, "P", "", "Only transactions of this portfolio.")
	f.StringVar(&p.security, "sec", "", "Only transactions of this security.")
	f.IntVar(&p.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N transactions.")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	ledger, err := decodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var periodRange quantfolio.Range
	// If no date range flags are provided, use the full range of the ledger.
	useFullRange := p.start == "" && p.date == "" && p.period == ""

	if !useFullRange {
		endDateStr := p.date
		if endDateStr == "" {
			endDateStr = quantfolio.Today().String()
		}
		endDate, err := quantfolio.ParseDate(endDateStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
			return subcommands.ExitFailure
		}

		if p.start != "" {
			startDate, err := quantfolio.ParseDate(p.start)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
				return subcommands.ExitFailure
			}
			periodRange = quantfolio.NewRange(startDate, endDate)
		} else {
			period, err := quantfolio.ParsePeriod(p.period)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
				return subcommands.ExitFailure
			}
			periodRange = period.Range(endDate)
		}
	}

	// The flags combine as an intersection, so filter one by one.
	byPortfolio := quantfolio.ByPortfolio(p.portfolio)
	bySecurity := quantfolio.BySecurity(p.security)
	var transactions []quantfolio.Transaction
	for _, tx := range ledger.Transactions() {
		if !useFullRange && !periodRange.Contains(tx.When()) {
			continue
		}
		if p.portfolio != "" && !byPortfolio(tx) {
			continue
		}
		if p.security != "" && !bySecurity(tx) {
			continue
		}
		transactions = append(transactions, tx)
	}

	if p.head > 0 && len(transactions) > p.head {
		transactions = transactions[:p.head]
	}
	if p.tail > 0 && len(transactions) > p.tail {
		transactions = transactions[len(transactions)-p.tail:]
	}

	printMarkdown(renderer.Transactions(transactions))

	return subcommands.ExitSuccess
}
