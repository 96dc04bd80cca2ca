package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/quantfolio/quantfolio"
	"github.com/quantfolio/quantfolio/renderer"
)

type callsCmd struct {
	portfolio string
	date      string
	chainFile string
	minOI     int
	objective string
	rate      float64
	yield     float64
}

func (*callsCmd) Name() string     { return "calls" }
func (*callsCmd) Synopsis() string { return "scan an option chain for covered call candidates" }
func (*callsCmd) Usage() string {
	return `qfs calls -chain <chain.json> [-P <portfolio>] [-d <date>] [-min-oi <n>] [-objective <static|if-called|premium>]

  Scans an option chain for covered calls on the portfolio's long positions:
  out-of-the-money calls with enough open interest, ranked by the chosen
  objective. The chain file holds a JSON array of quotes:

    [{"security":"AAPL","type":"call","strike":210,"expiry":"2025-07-02","bid":4.2,"openInterest":500,"impliedVol":0.30}, ...]

  A quote with no bid is priced with the model at its implied volatility.
`
}

func (c *callsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "P", quantfolio.DefaultPortfolio, "Portfolio holding the shares")
	f.StringVar(&c.date, "d", "0d", "Scan date (defaults to today)")
	f.StringVar(&c.chainFile, "chain", "", "Option chain JSON file")
	f.IntVar(&c.minOI, "min-oi", 0, "Minimum open interest to consider a quote")
	f.StringVar(&c.objective, "objective", "static", "Ranking objective (static, if-called, premium)")
	f.Float64Var(&c.rate, "r", 0, "Annual risk free rate, for model pricing")
	f.Float64Var(&c.yield, "q", 0, "Continuous dividend yield, for model pricing")
}

// decodeChain reads an option chain file; a dedicated local struct carries
// the json tags.
func decodeChain(filename string) ([]quantfolio.OptionQuote, error) {
	type jquote struct {
		Security     string          `json:"security"`
		Type         string          `json:"type"`
		Strike       float64         `json:"strike"`
		Expiry       quantfolio.Date `json:"expiry"`
		Bid          float64         `json:"bid"`
		OpenInterest int             `json:"openInterest"`
		ImpliedVol   float64         `json:"impliedVol"`
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read chain file %q: %w", filename, err)
	}
	var raw []jquote
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("chain file %q is not a JSON array of quotes: %w", filename, err)
	}
	chain := make([]quantfolio.OptionQuote, 0, len(raw))
	for _, q := range raw {
		optionType, err := quantfolio.ParseOptionType(q.Type)
		if err != nil {
			return nil, fmt.Errorf("chain file %q: %w", filename, err)
		}
		chain = append(chain, quantfolio.OptionQuote{
			Security:     q.Security,
			Type:         optionType,
			Strike:       q.Strike,
			Expiry:       q.Expiry,
			Bid:          q.Bid,
			OpenInterest: q.OpenInterest,
			ImpliedVol:   q.ImpliedVol,
		})
	}
	return chain, nil
}

func parseObjective(name string) (quantfolio.CallObjective, error) {
	switch name {
	case "static":
		return quantfolio.ByAnnualizedStatic, nil
	case "if-called":
		return quantfolio.ByAnnualizedIfCalled, nil
	case "premium":
		return quantfolio.ByPremium, nil
	default:
		return 0, fmt.Errorf("unknown objective %q", name)
	}
}

func (c *callsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.chainFile == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	asOf, err := quantfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	objective, err := parseObjective(c.objective)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	chain, err := decodeChain(c.chainFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

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
	prices, err := decodePrices()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	candidates, err := quantfolio.ScanCoveredCalls(book.Positions(c.portfolio), prices, chain, quantfolio.CoveredCallConfig{
		AsOf:            asOf,
		RiskFreeRate:    c.rate,
		DividendYield:   c.yield,
		MinOpenInterest: c.minOI,
		Objective:       objective,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.CallsMarkdown(c.portfolio, candidates))
	return subcommands.ExitSuccess
}
