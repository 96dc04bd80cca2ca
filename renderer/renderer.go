// Package renderer turns analytics reports into markdown strings.
//
// Every renderer takes a computed report and returns markdown; no
// computation happens here.
package renderer

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/quantfolio/quantfolio"
)

// pct formats a fractional value as a percentage, "n/a" when the metric
// could not be computed.
func pct(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return quantfolio.Percent(100 * v).String()
}

// signedPct formats a fractional value as a signed percentage.
func signedPct(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return quantfolio.Percent(100 * v).SignedString()
}

// num formats a unitless statistic, "n/a" when it could not be computed.
func num(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

// ConditionalBlock lets a renderer write a whole block and decide at the end
// whether to keep it. If the block function returns true the content is
// copied to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	var bw bytes.Buffer
	if block(&bw) {
		io.Copy(w, &bw)
	}
}
