package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/quantfolio/quantfolio"
)

// CostsMarkdown renders a trading cost report to markdown.
func CostsMarkdown(r *quantfolio.CostReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Trading Costs of %q from %s to %s\n\n", r.Portfolio, r.Range.From, r.Range.To)

	fmt.Fprintln(&b, "| | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Trades | %d |\n", r.Trades)
	fmt.Fprintf(&b, "| Volume | %s |\n", r.Volume)
	fmt.Fprintf(&b, "| Trade Commissions | %s |\n", r.TradeFees)
	fmt.Fprintf(&b, "| Other Fees | %s |\n", r.OtherFees)
	fmt.Fprintf(&b, "| **Total Fees** | **%s** |\n", r.TotalFees)

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Per Security\n\n")
		fmt.Fprintln(w, "| Security | Trades | Volume | Fees | Fee Rate |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|---:|")
		for _, sc := range r.Securities {
			fmt.Fprintf(w, "| %s | %d | %s | %s | %s |\n",
				sc.Security, sc.Trades, sc.Volume, sc.Fees, pct(sc.FeeRate))
		}
		return len(r.Securities) > 0
	})
	return b.String()
}
