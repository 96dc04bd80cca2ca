package renderer

import (
	"fmt"
	"strings"

	"github.com/quantfolio/quantfolio"
)

// OptionMarkdown renders the price and greeks of a single contract.
func OptionMarkdown(in quantfolio.BSMInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s %.2f\n\n", strings.ToUpper(in.Type.String()), expiryLabel(in.TimeToExpiry), in.Strike)
	fmt.Fprintf(&b, "Spot %.2f, volatility %s, rate %s, dividend yield %s.\n\n",
		in.Spot, pct(in.Volatility), pct(in.RiskFreeRate), pct(in.DividendYield))

	greeks := in.Greeks()
	fmt.Fprintln(&b, "| | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Price | %.4f |\n", in.Price())
	fmt.Fprintf(&b, "| Delta | %.4f |\n", greeks.Delta)
	fmt.Fprintf(&b, "| Gamma | %.4f |\n", greeks.Gamma)
	fmt.Fprintf(&b, "| Theta (per day) | %.4f |\n", greeks.Theta)
	fmt.Fprintf(&b, "| Vega (per vol point) | %.4f |\n", greeks.Vega)
	fmt.Fprintf(&b, "| Rho (per rate point) | %.4f |\n", greeks.Rho)
	return b.String()
}

func expiryLabel(years float64) string {
	if years <= 0 {
		return "expired"
	}
	return fmt.Sprintf("%.0fd", years*365)
}

// CallsMarkdown renders ranked covered call candidates to markdown.
func CallsMarkdown(portfolio string, candidates []quantfolio.CoveredCallCandidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Covered Calls for %q\n\n", portfolio)

	if len(candidates) == 0 {
		fmt.Fprintln(&b, "No candidate found.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Security | Strike | Expiry | Days | Contracts | Premium | Static | Static (ann.) | If Called (ann.) |")
	fmt.Fprintln(&b, "|:---|---:|:---|---:|---:|---:|---:|---:|---:|")
	for _, c := range candidates {
		fmt.Fprintf(&b, "| %s | %.2f | %s | %d | %d | %.2f | %s | %s | %s |\n",
			c.Security, c.Strike, c.Expiry, c.Days, c.Contracts, c.Premium,
			pct(c.StaticReturn), pct(c.AnnualizedStatic), pct(c.AnnualizedIfCalled))
	}
	return b.String()
}
