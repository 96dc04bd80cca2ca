package renderer

import (
	"fmt"
	"strings"

	"github.com/quantfolio/quantfolio"
)

// Transaction renders a one-line description of a transaction.
func Transaction(tx quantfolio.Transaction) string {
	switch v := tx.(type) {
	case quantfolio.Buy:
		return fmt.Sprintf("Bought %s %s at %s", v.Quantity, v.Security, v.Price)
	case quantfolio.Sell:
		return fmt.Sprintf("Sold %s %s at %s", v.Quantity, v.Security, v.Price)
	case quantfolio.Dividend:
		return fmt.Sprintf("Dividend of %s for %s", v.Amount, v.Security)
	case quantfolio.Fee:
		if v.Security != "" {
			return fmt.Sprintf("Fee of %s for %s", v.Amount, v.Security)
		}
		return fmt.Sprintf("Fee of %s", v.Amount)
	case quantfolio.Deposit:
		return fmt.Sprintf("Deposited %s", v.Amount)
	case quantfolio.Withdraw:
		return fmt.Sprintf("Withdrew %s", v.Amount)
	default:
		return string(tx.What())
	}
}

// Transactions renders a chronological transaction list to markdown.
func Transactions(txs []quantfolio.Transaction) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Transactions\n\n")
	if len(txs) == 0 {
		fmt.Fprintln(&b, "No transactions.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Date | Portfolio | Description |")
	fmt.Fprintln(&b, "|:---|:---|:---|")
	for _, tx := range txs {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", tx.When(), tx.Where(), Transaction(tx))
	}
	return b.String()
}
