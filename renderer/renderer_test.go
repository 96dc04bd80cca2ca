package renderer

import (
	"math"
	"strings"
	"testing"

	"github.com/quantfolio/quantfolio"
)

func usd(v float64) quantfolio.Money { return quantfolio.M(v, "USD") }

func TestTransactions(t *testing.T) {
	day := quantfolio.NewDate(2025, 3, 3)
	txs := []quantfolio.Transaction{
		quantfolio.NewBuy(day, "main", "AAPL", quantfolio.Q(10), usd(150), usd(1)),
		quantfolio.NewDividend(day, "main", "AAPL", usd(12)),
		quantfolio.NewWithdraw(day, "retirement", usd(500)),
	}

	md := Transactions(txs)
	for _, want := range []string{
		"| Date | Portfolio | Description |",
		"Bought 10 AAPL",
		"Dividend of",
		"Withdrew",
		"retirement",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Transactions() missing %q in:\n%s", want, md)
		}
	}

	if md := Transactions(nil); !strings.Contains(md, "No transactions.") {
		t.Errorf("empty list rendered as:\n%s", md)
	}
}

func TestSnapshotMarkdown(t *testing.T) {
	snap := &quantfolio.PortfolioSnapshot{
		Portfolio:   "main",
		Date:        quantfolio.NewDate(2025, 3, 3),
		MarketValue: usd(13060),
		Cash:        usd(8777),
		TotalValue:  usd(21837),
		CostBasis:   usd(11523),
		Unrealized:  usd(1537),
		Realized:    usd(396),
	}
	md := SnapshotMarkdown(snap)
	for _, want := range []string{`# Snapshot of "main" on 2025-03-03`, "Market Value", "**Total Value**"} {
		if !strings.Contains(md, want) {
			t.Errorf("SnapshotMarkdown() missing %q in:\n%s", want, md)
		}
	}
}

func TestPositionsMarkdown_SkipsFlatPositions(t *testing.T) {
	asOf := quantfolio.NewDate(2025, 3, 3)
	positions := []quantfolio.Position{
		{Portfolio: "main", Security: "AAPL", Quantity: quantfolio.Q(60), CostBasis: usd(9003), Price: usd(170), MarketValue: usd(10200), Unrealized: usd(1197)},
		{Portfolio: "main", Security: "FLAT", Quantity: quantfolio.Q(0)},
	}
	md := PositionsMarkdown("main", asOf, positions)
	if !strings.Contains(md, "AAPL") {
		t.Errorf("PositionsMarkdown() missing AAPL:\n%s", md)
	}
	if strings.Contains(md, "FLAT") {
		t.Errorf("PositionsMarkdown() rendered a flat position:\n%s", md)
	}

	// With only flat positions, no table at all.
	md = PositionsMarkdown("main", asOf, positions[1:])
	if strings.Contains(md, "| Security |") {
		t.Errorf("PositionsMarkdown() rendered an empty table:\n%s", md)
	}
}

func TestRiskMarkdown_ShowsNotAvailable(t *testing.T) {
	report := &quantfolio.RiskReport{
		Portfolio:    "main",
		Observations: 5,
		Volatility:   0.18,
		Sharpe:       math.NaN(),
		Sortino:      math.NaN(),
		Confidence:   0.95,
	}
	md := RiskMarkdown(report)
	if !strings.Contains(md, "| Sharpe Ratio | n/a |") {
		t.Errorf("RiskMarkdown() did not render NaN as n/a:\n%s", md)
	}
	if !strings.Contains(md, "18.00%") {
		t.Errorf("RiskMarkdown() missing volatility:\n%s", md)
	}
}

func TestAttributionMarkdown(t *testing.T) {
	report := &quantfolio.AttributionReport{
		Buckets: []quantfolio.BucketEffect{
			{Name: "tech", Allocation: 0.0038, Selection: 0.008, Interaction: 0.002, Total: 0.0138},
		},
		PortfolioReturn: 0.068,
		BenchmarkReturn: 0.062,
		ActiveReturn:    0.006,
	}
	md := AttributionMarkdown(report)
	for _, want := range []string{"tech", "6.80%", "6.20%", "+0.60%"} {
		if !strings.Contains(md, want) {
			t.Errorf("AttributionMarkdown() missing %q in:\n%s", want, md)
		}
	}
}

func TestGainsMarkdown(t *testing.T) {
	events := []quantfolio.RealizedEvent{
		{
			Portfolio: "main", Security: "AAPL",
			Open: quantfolio.NewDate(2025, 1, 3), Close: quantfolio.NewDate(2025, 2, 3),
			Quantity: quantfolio.Q(40), Proceeds: usd(6400), CostBasis: usd(6002), Fees: usd(2),
			Gain: usd(396), Days: 31, Term: quantfolio.ShortTerm,
		},
	}
	md := GainsMarkdown("main", events)
	for _, want := range []string{"AAPL", "2025-01-03", "short"} {
		if !strings.Contains(md, want) {
			t.Errorf("GainsMarkdown() missing %q in:\n%s", want, md)
		}
	}
	if md := GainsMarkdown("main", nil); !strings.Contains(md, "No realized gains.") {
		t.Errorf("empty events rendered as:\n%s", md)
	}
}
