// Package cmd implements the qfs CLI application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/google/subcommands"
	"github.com/quantfolio/quantfolio"
)

// Register registers all subcommands. A main package calls Register() and
// then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&dividendCmd{}, "transactions")
	c.Register(&feeCmd{}, "transactions")
	c.Register(&depositCmd{}, "transactions")
	c.Register(&withdrawCmd{}, "transactions")

	c.Register(&txCmd{}, "ledger")
	c.Register(&fmtCmd{}, "ledger")

	c.Register(&snapshotCmd{}, "valuation")
	c.Register(&summaryCmd{}, "valuation")
	c.Register(&positionsCmd{}, "valuation")
	c.Register(&gainsCmd{}, "valuation")
	c.Register(&costsCmd{}, "valuation")

	c.Register(&riskCmd{}, "analytics")
	c.Register(&montecarloCmd{}, "analytics")
	c.Register(&attributionCmd{}, "analytics")

	c.Register(&optionCmd{}, "options")
	c.Register(&callsCmd{}, "options")

	c.Register(&importPricesCmd{}, "market data")
	c.Register(&importRatesCmd{}, "market data")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "transactions.jsonl", "Path to the ledger file (JSONL format)")
var pricesFile = flag.String("prices-file", "prices.jsonl", "Path to the security prices file (JSONL format)")
var ratesFile = flag.String("rates-file", "rates.jsonl", "Path to the exchange rates file (JSONL format)")
var baseCurrency = flag.String("base-currency", "USD", "Base currency every valuation normalizes into")
var allowShort = flag.Bool("allow-short", false, "Allow sells to open short positions")
var longTermDays = flag.Int("long-term-days", quantfolio.DefaultLongTermAfterDays, "Holding days beyond which a gain is long-term")

func bookConfig() quantfolio.BookConfig {
	return quantfolio.BookConfig{
		AllowShort:        *allowShort,
		LongTermAfterDays: *longTermDays,
	}
}

// decodeLedger loads the app ledger file. A missing file is an empty ledger.
func decodeLedger() (*quantfolio.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, ledger file %q does not exist, using an empty ledger instead", *ledgerFile)
		return quantfolio.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	return quantfolio.DecodeLedger(f)
}

// decodePrices loads the app prices file. A missing file is an empty table.
func decodePrices() (*quantfolio.PriceTable, error) {
	f, err := os.Open(*pricesFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, prices file %q does not exist, using an empty table instead", *pricesFile)
		return quantfolio.NewPriceTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open prices file %q: %w", *pricesFile, err)
	}
	defer f.Close()
	return quantfolio.DecodePriceTable(f)
}

// decodeRates loads the app rates file. A missing file is an empty table that
// can still convert the base currency.
func decodeRates() (*quantfolio.RateTable, error) {
	f, err := os.Open(*ratesFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, rates file %q does not exist, using an empty table instead", *ratesFile)
		return quantfolio.NewRateTable(*baseCurrency), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open rates file %q: %w", *ratesFile, err)
	}
	defer f.Close()
	return quantfolio.DecodeRateTable(f, *baseCurrency)
}

// newValuation wires the app files into a valuation engine.
func newValuation() (*quantfolio.Valuation, error) {
	ledger, err := decodeLedger()
	if err != nil {
		return nil, err
	}
	prices, err := decodePrices()
	if err != nil {
		return nil, err
	}
	rates, err := decodeRates()
	if err != nil {
		return nil, err
	}
	return quantfolio.NewValuation(ledger, prices, rates, bookConfig()), nil
}

// appendTransaction validates a transaction and appends it to the app ledger file.
func appendTransaction(tx quantfolio.Transaction) subcommands.ExitStatus {
	tx, err := tx.Validate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid transaction: %v\n", err)
		return subcommands.ExitUsageError
	}

	f, err := os.OpenFile(*ledgerFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := quantfolio.EncodeTransaction(f, tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended transaction to %s\n", *ledgerFile)
	return subcommands.ExitSuccess
}
