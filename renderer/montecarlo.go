package renderer

import (
	"fmt"
	"strings"

	"github.com/quantfolio/quantfolio"
)

// MonteCarloMarkdown renders the terminal value distribution of a simulation.
func MonteCarloMarkdown(cfg quantfolio.MCConfig, r *quantfolio.MCResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Monte Carlo Projection\n\n")
	fmt.Fprintf(&b, "%d paths over %d periods, starting from %.2f", cfg.Paths, cfg.Horizon, cfg.InitialValue)
	if cfg.Seed != 0 {
		fmt.Fprintf(&b, ", seed %d", cfg.Seed)
	}
	fmt.Fprint(&b, ".\n\n")

	fmt.Fprintln(&b, "| Percentile | Terminal Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| 5th | %.2f |\n", r.Bands.P5)
	fmt.Fprintf(&b, "| 25th | %.2f |\n", r.Bands.P25)
	fmt.Fprintf(&b, "| Median | %.2f |\n", r.Bands.P50)
	fmt.Fprintf(&b, "| 75th | %.2f |\n", r.Bands.P75)
	fmt.Fprintf(&b, "| 95th | %.2f |\n", r.Bands.P95)

	fmt.Fprintf(&b, "\nMean %.2f, standard deviation %.2f.\n", r.Mean, r.StdDev)
	fmt.Fprintf(&b, "Probability of loss: %s.\n", pct(r.ProbabilityOfLoss))
	return b.String()
}
