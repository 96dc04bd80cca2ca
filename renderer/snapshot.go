package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/quantfolio/quantfolio"
)

// SnapshotMarkdown renders a portfolio valuation snapshot to markdown.
func SnapshotMarkdown(s *quantfolio.PortfolioSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Snapshot of %q on %s\n\n", s.Portfolio, s.Date)

	fmt.Fprintln(&b, "| | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Market Value | %s |\n", s.MarketValue)
	fmt.Fprintf(&b, "| Cash | %s |\n", s.Cash)
	fmt.Fprintf(&b, "| **Total Value** | **%s** |\n", s.TotalValue)
	fmt.Fprintf(&b, "| Cost Basis | %s |\n", s.CostBasis)
	fmt.Fprintf(&b, "| Unrealized Gains | %s |\n", s.Unrealized.SignedString())
	fmt.Fprintf(&b, "| Realized Gains | %s |\n", s.Realized.SignedString())

	return b.String()
}

// PositionsMarkdown renders per-security positions to markdown. Positions are
// expected priced in their native currency; flat positions are skipped.
func PositionsMarkdown(portfolio string, asOf quantfolio.Date, positions []quantfolio.Position) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Positions of %q on %s\n\n", portfolio, asOf)

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintln(w, "| Security | Quantity | Avg Cost | Price | Market Value | Unrealized |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|---:|---:|")
		printed := false
		for _, p := range positions {
			if p.Quantity.IsZero() {
				continue
			}
			printed = true
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
				p.Security, p.Quantity, p.AvgCost(), p.Price, p.MarketValue, p.Unrealized.SignedString())
		}
		return printed
	})
	return b.String()
}
