package renderer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/quantfolio/quantfolio"
)

// GainsMarkdown renders realized gain events to markdown, one lot closure per
// row, with short/long term tagging.
func GainsMarkdown(portfolio string, events []quantfolio.RealizedEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Realized Gains of %q\n\n", portfolio)

	if len(events) == 0 {
		fmt.Fprintln(&b, "No realized gains.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Security | Opened | Closed | Quantity | Proceeds | Cost Basis | Fees | Gain | Term |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|---:|:---|")

	totals := make(map[string]quantfolio.Money)
	for _, e := range events {
		ticker := e.Security
		if e.Short {
			ticker += " (short)"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			ticker, e.Open, e.Close, e.Quantity, e.Proceeds, e.CostBasis, e.Fees, e.Gain.SignedString(), e.Term)
		cur := e.Gain.Currency()
		totals[cur] = totals[cur].Add(e.Gain)
	}

	fmt.Fprint(&b, "\n")
	for _, total := range sortedTotals(totals) {
		fmt.Fprintf(&b, "Total: **%s**\n", total.SignedString())
	}
	return b.String()
}

// sortedTotals flattens a per-currency total map, sorted by currency code.
func sortedTotals(totals map[string]quantfolio.Money) []quantfolio.Money {
	currencies := make([]string, 0, len(totals))
	for cur := range totals {
		currencies = append(currencies, cur)
	}
	slices.Sort(currencies)
	out := make([]quantfolio.Money, 0, len(currencies))
	for _, cur := range currencies {
		out = append(out, totals[cur])
	}
	return out
}
