package renderer

import (
	"fmt"
	"strings"

	"github.com/quantfolio/quantfolio"
)

// RiskMarkdown renders a risk report to markdown. Ratios that could not be
// computed (flat series, too few observations) show as n/a.
func RiskMarkdown(r *quantfolio.RiskReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Risk Report of %q\n\n", r.Portfolio)
	fmt.Fprintf(&b, "%d observations, risk free rate %s, confidence %s.\n\n",
		r.Observations, pct(r.RiskFreeRate), pct(r.Confidence))

	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Annualized Volatility | %s |\n", pct(r.Volatility))
	fmt.Fprintf(&b, "| Sharpe Ratio | %s |\n", num(r.Sharpe))
	fmt.Fprintf(&b, "| Sortino Ratio | %s |\n", num(r.Sortino))
	fmt.Fprintf(&b, "| Historical VaR | %s |\n", signedPct(r.HistoricalVaR))
	fmt.Fprintf(&b, "| Parametric VaR | %s |\n", signedPct(r.ParametricVaR))
	fmt.Fprintf(&b, "| CVaR | %s |\n", signedPct(r.CVaR))
	fmt.Fprintf(&b, "| Max Drawdown | %s |\n", pct(r.MaxDrawdown))

	return b.String()
}

// BenchmarkMarkdown renders the metrics relative to a benchmark series.
func BenchmarkMarkdown(r *quantfolio.BenchmarkReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Against %q\n\n", r.Benchmark)
	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Beta | %s |\n", num(r.Beta))
	fmt.Fprintf(&b, "| Correlation | %s |\n", num(r.Correlation))
	fmt.Fprintf(&b, "| Tracking Error | %s |\n", pct(r.TrackingError))
	fmt.Fprintf(&b, "| Information Ratio | %s |\n", num(r.InformationRatio))
	return b.String()
}
