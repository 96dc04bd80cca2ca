package quantfolio

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func eur(v float64) Money { return M(v, "EUR") }

func fixtureLedger() *Ledger {
	ledger := NewLedger()
	ledger.Append(
		NewDeposit(NewDate(2025, 1, 2), "main", usd(20000)),
		NewBuy(NewDate(2025, 1, 3), "main", "AAPL", Q(100), usd(150), usd(5)),
		NewBuy(NewDate(2025, 1, 3), "main", "SAP", Q(20), eur(120), eur(0)),
		NewSell(NewDate(2025, 2, 3), "main", "AAPL", Q(40), usd(160), usd(2)),
		NewDividend(NewDate(2025, 2, 10), "main", "AAPL", usd(24)),
	)
	return ledger
}

func fixtureTables() (*PriceTable, *RateTable) {
	prices := NewPriceTable()
	prices.Add("AAPL", NewDate(2025, 1, 3), usd(150))
	prices.Add("AAPL", NewDate(2025, 2, 28), usd(170))
	prices.Add("SAP", NewDate(2025, 1, 3), eur(120))
	prices.Add("SAP", NewDate(2025, 2, 28), eur(130))

	rates := NewRateTable("USD")
	rates.Add("EUR", NewDate(2025, 1, 1), decimal.NewFromFloat(1.05))
	rates.Add("EUR", NewDate(2025, 2, 1), decimal.NewFromFloat(1.10))
	return prices, rates
}

func TestValuation_Snapshot(t *testing.T) {
	prices, rates := fixtureTables()
	v := NewValuation(fixtureLedger(), prices, rates, BookConfig{})

	snap, err := v.Snapshot("main", NewDate(2025, 3, 1))
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	// 60 AAPL @ 170 plus 20 SAP @ 130 EUR at 1.10 (= 2860 USD).
	wantMarket := usd(60*170 + 2860)
	if !snap.MarketValue.Equal(wantMarket) {
		t.Errorf("MarketValue = %v, want %v", snap.MarketValue, wantMarket)
	}

	// Cash: 20000 - 15005 (buy) + 6398 (sell net) + 24 (dividend) in USD,
	// minus 2400 EUR at 1.10 (= 2640 USD).
	wantCash := usd(20000 - 15005 + 6398 + 24 - 2640)
	if !snap.Cash.Equal(wantCash) {
		t.Errorf("Cash = %v, want %v", snap.Cash, wantCash)
	}
	if !snap.TotalValue.Equal(snap.MarketValue.Add(snap.Cash)) {
		t.Errorf("TotalValue = %v, want MarketValue+Cash", snap.TotalValue)
	}

	// Realized: sell 40 of the 100-lot whose per-share basis is 150.05 after
	// the folded buy fee: 6400 - 6002 - 2.
	wantRealized := usd(396)
	if !snap.Realized.Equal(wantRealized) {
		t.Errorf("Realized = %v, want %v", snap.Realized, wantRealized)
	}
	if !snap.Unrealized.Equal(snap.MarketValue.Sub(snap.CostBasis)) {
		t.Errorf("Unrealized = %v, want MarketValue-CostBasis", snap.Unrealized)
	}
}

func TestValuation_SnapshotBuyOnly(t *testing.T) {
	// A position with no sells has no realized events. Its zero realized
	// balance must still carry the trade currency, or conversion fails.
	ledger := NewLedger()
	ledger.Append(
		NewDeposit(NewDate(2025, 1, 2), "main", usd(10000)),
		NewBuy(NewDate(2025, 1, 3), "main", "AAPL", Q(10), usd(150), usd(1)),
	)
	prices := NewPriceTable()
	prices.Add("AAPL", NewDate(2025, 1, 3), usd(150))
	v := NewValuation(ledger, prices, NewRateTable("USD"), BookConfig{})

	snap, err := v.Snapshot("main", NewDate(2025, 3, 1))
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if !snap.Realized.Equal(usd(0)) {
		t.Errorf("Realized = %v, want %v", snap.Realized, usd(0))
	}
}

func TestValuation_MissingPrice(t *testing.T) {
	prices, rates := fixtureTables()
	ledger := fixtureLedger()
	ledger.Append(NewBuy(NewDate(2025, 2, 20), "main", "UNPRICED", Q(1), usd(10), usd(0)))
	v := NewValuation(ledger, prices, rates, BookConfig{})

	_, err := v.Snapshot("main", NewDate(2025, 3, 1))
	var missing *MissingPriceError
	if !errors.As(err, &missing) {
		t.Fatalf("Snapshot() error = %v, want *MissingPriceError", err)
	}
	if missing.Security != "UNPRICED" {
		t.Errorf("error names %q, want UNPRICED", missing.Security)
	}
}

func TestValuation_MissingRate(t *testing.T) {
	prices, _ := fixtureTables()
	v := NewValuation(fixtureLedger(), prices, NewRateTable("USD"), BookConfig{})

	_, err := v.Snapshot("main", NewDate(2025, 3, 1))
	var missing *MissingRateError
	if !errors.As(err, &missing) {
		t.Fatalf("Snapshot() error = %v, want *MissingRateError", err)
	}
	if missing.Currency != "EUR" {
		t.Errorf("error names %q, want EUR", missing.Currency)
	}
}

func TestValuation_Breakdown(t *testing.T) {
	prices, rates := fixtureTables()
	v := NewValuation(fixtureLedger(), prices, rates, BookConfig{})

	positions, err := v.Breakdown("main", NewDate(2025, 3, 1))
	if err != nil {
		t.Fatalf("Breakdown() error = %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("got %d positions, want 2", len(positions))
	}
	// Sorted by ticker: AAPL then SAP, each in its native currency.
	if positions[0].Security != "AAPL" || !positions[0].MarketValue.Equal(usd(60*170)) {
		t.Errorf("AAPL = %v %v", positions[0].Security, positions[0].MarketValue)
	}
	if positions[1].Security != "SAP" || !positions[1].MarketValue.Equal(eur(20*130)) {
		t.Errorf("SAP = %v %v", positions[1].Security, positions[1].MarketValue)
	}
}

func TestValuation_ConsolidatedSumsPortfolios(t *testing.T) {
	prices, rates := fixtureTables()
	ledger := fixtureLedger()
	ledger.Append(NewBuy(NewDate(2025, 1, 3), "retirement", "AAPL", Q(10), usd(150), usd(0)))
	v := NewValuation(ledger, prices, rates, BookConfig{})

	asOf := NewDate(2025, 3, 1)
	main, err := v.Snapshot("main", asOf)
	if err != nil {
		t.Fatalf("Snapshot(main) error = %v", err)
	}
	retirement, err := v.Snapshot("retirement", asOf)
	if err != nil {
		t.Fatalf("Snapshot(retirement) error = %v", err)
	}
	consolidated, err := v.Consolidated(asOf)
	if err != nil {
		t.Fatalf("Consolidated() error = %v", err)
	}
	if want := main.TotalValue.Add(retirement.TotalValue); !consolidated.TotalValue.Equal(want) {
		t.Errorf("Consolidated TotalValue = %v, want %v", consolidated.TotalValue, want)
	}
}

func TestValuation_Series(t *testing.T) {
	prices, rates := fixtureTables()
	v := NewValuation(fixtureLedger(), prices, rates, BookConfig{})

	dates := []Date{NewDate(2025, 3, 2), NewDate(2025, 3, 1)} // unsorted on purpose
	snapshots, err := v.Series("main", dates)
	if err != nil {
		t.Fatalf("Series() error = %v", err)
	}
	if len(snapshots) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snapshots))
	}
	if snapshots[0].Date.After(snapshots[1].Date) {
		t.Errorf("series not in date order: %v, %v", snapshots[0].Date, snapshots[1].Date)
	}
	// No market data changed between the two days.
	if !snapshots[0].TotalValue.Equal(snapshots[1].TotalValue) {
		t.Errorf("values differ with unchanged data: %v vs %v", snapshots[0].TotalValue, snapshots[1].TotalValue)
	}
}
