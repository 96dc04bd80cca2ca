package quantfolio

import (
	"testing"
)

func TestNewSummary(t *testing.T) {
	prices, rates := fixtureTables()
	v := NewValuation(fixtureLedger(), prices, rates, BookConfig{})

	summary, err := NewSummary(v, "main", NewDate(2025, 3, 1))
	if err != nil {
		t.Fatalf("NewSummary() error = %v", err)
	}

	// 2025-03-01: 60 AAPL @ 170 + 20 SAP @ 130 EUR at 1.10, cash 8777 USD.
	wantTotal := usd(60*170 + 2860 + 8777)
	if !summary.TotalValue.Equal(wantTotal) {
		t.Errorf("TotalValue = %v, want %v", summary.TotalValue, wantTotal)
	}
	if summary.Base != "USD" {
		t.Errorf("Base = %q, want USD", summary.Base)
	}

	// Nothing changed between 02-28 and 03-01.
	if !summary.Daily.Start.Equal(wantTotal) || summary.Daily.Return != 0 {
		t.Errorf("Daily = %+v, want flat at %v", summary.Daily, wantTotal)
	}

	// The week starts Monday 02-24; on its eve AAPL is still at its January
	// price of 150 and SAP at 120 EUR.
	wantWeekStart := usd(60*150 + 2640 + 8777)
	if !summary.WTD.Start.Equal(wantWeekStart) {
		t.Errorf("WTD.Start = %v, want %v", summary.WTD.Start, wantWeekStart)
	}
	if !summary.WTD.Change().Equal(wantTotal.Sub(wantWeekStart)) {
		t.Errorf("WTD.Change() = %v, want %v", summary.WTD.Change(), wantTotal.Sub(wantWeekStart))
	}
	if summary.WTD.Return <= 0 {
		t.Errorf("WTD.Return = %v, want > 0", summary.WTD.Return)
	}

	// The quarter and year both start 01-01, before the first deposit: the
	// portfolio was worth nothing, and a return over zero stays unset.
	if !summary.QTD.Start.IsZero() || summary.QTD.Return != 0 {
		t.Errorf("QTD = %+v, want a zero start and no return", summary.QTD)
	}
	if !summary.YTD.Start.IsZero() {
		t.Errorf("YTD.Start = %v, want zero", summary.YTD.Start)
	}
}

func TestPerformance_Change(t *testing.T) {
	p := newPerformance(usd(100), usd(125))
	if !p.Change().Equal(usd(25)) {
		t.Errorf("Change() = %v, want %v", p.Change(), usd(25))
	}
	if !p.Return.Equal(Percent(25)) {
		t.Errorf("Return = %v, want 25%%", p.Return)
	}
}
