package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/quantfolio/quantfolio"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `qfs fmt

  Validates and formats the ledger file. This command reads all transactions,
  validates them, applies available quick-fixes (default date and portfolio),
  sorts them by date, and writes them back in a canonical JSONL format.
`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := decodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	formatted := quantfolio.NewLedger()
	for i, tx := range ledger.Transactions() {
		tx, err := tx.Validate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: transaction %d is invalid: %v\n", i, err)
			return subcommands.ExitFailure
		}
		formatted.Append(tx)
	}

	tmp := *ledgerFile + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating ledger file: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := quantfolio.EncodeLedger(file, formatted); err != nil {
		file.Close()
		fmt.Fprintf(os.Stderr, "Error writing ledger file: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := file.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing ledger file: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := os.Rename(tmp, *ledgerFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error replacing ledger file: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Formatted %d transactions into %s\n", formatted.Len(), *ledgerFile)
	return subcommands.ExitSuccess
}
