package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"
)

// runCommand parses args into the command's flag set and executes it.
func runCommand(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}
	return cmd.Execute(context.Background(), f)
}

func TestBuy_AppendsCanonicalLine(t *testing.T) {
	setLedgerFile(t, filepath.Join(t.TempDir(), "transactions.jsonl"))

	status := runCommand(t, &buyCmd{},
		"-d", "2025-08-15", "-s", "AAPL", "-q", "10", "-p", "150.5", "-fee", "1", "-c", "USD")
	if status != subcommands.ExitSuccess {
		t.Fatalf("Execute() = %v, want ExitSuccess", status)
	}

	got, err := os.ReadFile(*ledgerFile)
	if err != nil {
		t.Fatalf("Failed to read ledger: %v", err)
	}
	want := `{"command":"buy","date":"2025-08-15","portfolio":"main","security":"AAPL","quantity":10,"price":150.5,"fee":1,"currency":"USD"}
`
	if string(got) != want {
		t.Errorf("ledger line mismatch.\nGot:\n%s\nWant:\n%s", got, want)
	}
}

func TestBuy_MissingSecurityIsUsageError(t *testing.T) {
	setLedgerFile(t, filepath.Join(t.TempDir(), "transactions.jsonl"))

	status := runCommand(t, &buyCmd{}, "-d", "2025-08-15", "-q", "10", "-p", "150.5")
	if status != subcommands.ExitUsageError {
		t.Fatalf("Execute() = %v, want ExitUsageError", status)
	}
	if _, err := os.Stat(*ledgerFile); !os.IsNotExist(err) {
		t.Error("a rejected trade must not create the ledger file")
	}
}

func TestDeposit_ThenWithdraw(t *testing.T) {
	setLedgerFile(t, filepath.Join(t.TempDir(), "transactions.jsonl"))

	if status := runCommand(t, &depositCmd{}, "-d", "2025-08-01", "-a", "1000", "-c", "EUR"); status != subcommands.ExitSuccess {
		t.Fatalf("deposit Execute() = %v, want ExitSuccess", status)
	}
	if status := runCommand(t, &withdrawCmd{}, "-d", "2025-08-10", "-a", "250", "-c", "EUR", "-m", "rent"); status != subcommands.ExitSuccess {
		t.Fatalf("withdraw Execute() = %v, want ExitSuccess", status)
	}

	got, err := os.ReadFile(*ledgerFile)
	if err != nil {
		t.Fatalf("Failed to read ledger: %v", err)
	}
	want := `{"command":"deposit","date":"2025-08-01","portfolio":"main","currency":"EUR","amount":1000}
{"command":"withdraw","date":"2025-08-10","portfolio":"main","memo":"rent","currency":"EUR","amount":250}
`
	if string(got) != want {
		t.Errorf("ledger mismatch.\nGot:\n%s\nWant:\n%s", got, want)
	}
}

func TestRejectedAmounts(t *testing.T) {
	setLedgerFile(t, filepath.Join(t.TempDir(), "transactions.jsonl"))

	tests := []struct {
		name string
		cmd  subcommands.Command
		args []string
	}{
		{"zero deposit", &depositCmd{}, []string{"-d", "2025-08-01", "-a", "0"}},
		{"negative withdraw", &withdrawCmd{}, []string{"-d", "2025-08-01", "-a", "-5"}},
		{"dividend without security", &dividendCmd{}, []string{"-d", "2025-08-01", "-a", "10"}},
		{"fee without amount", &feeCmd{}, []string{"-d", "2025-08-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status := runCommand(t, tt.cmd, tt.args...); status != subcommands.ExitUsageError {
				t.Errorf("Execute() = %v, want ExitUsageError", status)
			}
		})
	}
}
