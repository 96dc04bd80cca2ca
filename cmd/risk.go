package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/google/subcommands"
	"github.com/quantfolio/quantfolio"
	"github.com/quantfolio/quantfolio/renderer"
)

type riskCmd struct {
	portfolio  string
	period     string
	start      string
	date       string
	riskFree   float64
	confidence float64
	benchmark  string
	ticker     string
}

func (*riskCmd) Name() string     { return "risk" }
func (*riskCmd) Synopsis() string { return "volatility, Sharpe, Sortino, VaR and drawdown of a portfolio" }
func (*riskCmd) Usage() string {
	return `qfs risk [-P <portfolio>] [-p <period> | -s <start_date>] [-d <end_date>] [-rf <rate>] [-confidence <level>]

  Values the portfolio on every day of the window, derives the daily return
  series, and computes the risk metrics: annualized volatility, Sharpe and
  Sortino ratios, historical and parametric VaR, CVaR and maximum drawdown.

  With -benchmark, also computes beta, correlation, tracking error and the
  information ratio against a benchmark price series (JSONL price file, the
  ticker picked with -benchmark-ticker or the file's first one).
`
}

func (c *riskCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "P", quantfolio.DefaultPortfolio, "Portfolio to report on")
	f.StringVar(&c.period, "p", "year", "Predefined window (month, quarter, year)")
	f.StringVar(&c.start, "s", "", "The start date for a custom window. Overrides -p.")
	f.StringVar(&c.date, "d", "0d", "The end date for the window")
	f.Float64Var(&c.riskFree, "rf", 0, "Annual risk free rate (e.g., 0.03)")
	f.Float64Var(&c.confidence, "confidence", quantfolio.DefaultConfidence, "VaR confidence level")
	f.StringVar(&c.benchmark, "benchmark", "", "Benchmark price file (JSONL format)")
	f.StringVar(&c.ticker, "benchmark-ticker", "", "Ticker to use from the benchmark file")
}

// benchmarkSeries derives the benchmark return series on the given dates from
// a price file.
func (c *riskCmd) benchmarkSeries(dates []quantfolio.Date) (*quantfolio.ReturnSeries, string, error) {
	f, err := os.Open(c.benchmark)
	if err != nil {
		return nil, "", fmt.Errorf("could not open benchmark file %q: %w", c.benchmark, err)
	}
	defer f.Close()
	table, err := quantfolio.DecodePriceTable(f)
	if err != nil {
		return nil, "", err
	}

	ticker := c.ticker
	if ticker == "" {
		tickers := table.Securities()
		if len(tickers) == 0 {
			return nil, "", fmt.Errorf("benchmark file %q holds no prices", c.benchmark)
		}
		ticker = tickers[0]
	}

	values := make([]float64, len(dates))
	for i, on := range dates {
		price, err := table.PriceAsOf(ticker, on)
		if err != nil {
			return nil, "", err
		}
		values[i] = price.AsFloat()
	}
	series, err := quantfolio.NewReturnSeriesFromValues(dates, values, quantfolio.Daily)
	if err != nil {
		return nil, "", err
	}
	return series, ticker, nil
}

func (c *riskCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	endDate, err := quantfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitFailure
	}

	var window quantfolio.Range
	if c.start != "" {
		startDate, err := quantfolio.ParseDate(c.start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitFailure
		}
		window = quantfolio.NewRange(startDate, endDate)
	} else {
		period, err := quantfolio.ParsePeriod(c.period)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
			return subcommands.ExitFailure
		}
		window = period.Range(endDate)
	}

	valuation, err := newValuation()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	snapshots, err := valuation.Series(c.portfolio, slices.Collect(window.Days()))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	report, err := quantfolio.NewRiskReport(c.portfolio, snapshots, quantfolio.Daily, quantfolio.RiskConfig{
		RiskFreeRate: c.riskFree,
		Confidence:   c.confidence,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	report.Range = window

	out := renderer.RiskMarkdown(report)
	if c.benchmark != "" {
		dates := slices.Collect(window.Days())
		benchmark, ticker, err := c.benchmarkSeries(dates)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		series, err := quantfolio.NewReturnSeries(snapshots, quantfolio.Daily)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		relative, err := quantfolio.NewBenchmarkReport(ticker, series, benchmark)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		out += "\n" + renderer.BenchmarkMarkdown(relative)
	}

	printMarkdown(out)
	return subcommands.ExitSuccess
}
