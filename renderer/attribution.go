package renderer

import (
	"fmt"
	"strings"

	"github.com/quantfolio/quantfolio"
)

// AttributionMarkdown renders a Brinson-Fachler decomposition to markdown.
func AttributionMarkdown(r *quantfolio.AttributionReport) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Performance Attribution\n\n")
	fmt.Fprintf(&b, "Portfolio %s vs benchmark %s: active return %s.\n\n",
		pct(r.PortfolioReturn), pct(r.BenchmarkReturn), signedPct(r.ActiveReturn))

	fmt.Fprintln(&b, "| Bucket | Allocation | Selection | Interaction | Total |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	for _, bucket := range r.Buckets {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			bucket.Name, signedPct(bucket.Allocation), signedPct(bucket.Selection),
			signedPct(bucket.Interaction), signedPct(bucket.Total))
	}
	fmt.Fprintf(&b, "| **Total** | **%s** | **%s** | **%s** | **%s** |\n",
		signedPct(r.Allocation), signedPct(r.Selection), signedPct(r.Interaction), signedPct(r.ActiveReturn))
	return b.String()
}
