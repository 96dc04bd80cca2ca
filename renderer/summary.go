package renderer

import (
	"fmt"
	"strings"

	"github.com/quantfolio/quantfolio"
)

// SummaryMarkdown renders the to-date performance summary to markdown.
func SummaryMarkdown(s *quantfolio.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Summary of %q on %s\n\n", s.Portfolio, s.Date)
	fmt.Fprintf(&b, "Total value: **%s** (%s)\n\n", s.TotalValue, s.Base)

	fmt.Fprintln(&b, "| Window | Start | Change | Return |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	row := func(name string, p quantfolio.Performance) {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			name, p.Start, p.Change().SignedString(), p.Return.SignedString())
	}
	row(quantfolio.Daily.ToDateName(), s.Daily)
	row(quantfolio.Weekly.ToDateName(), s.WTD)
	row(quantfolio.Monthly.ToDateName(), s.MTD)
	row(quantfolio.Quarterly.ToDateName(), s.QTD)
	row(quantfolio.Yearly.ToDateName(), s.YTD)

	return b.String()
}
