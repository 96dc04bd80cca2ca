package quantfolio

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRateTable_Convert(t *testing.T) {
	rates := NewRateTable("USD")
	rates.Add("EUR", NewDate(2025, 1, 1), decimal.NewFromFloat(1.05))
	rates.Add("EUR", NewDate(2025, 2, 1), decimal.NewFromFloat(1.10))

	tests := []struct {
		name string
		in   Money
		asOf Date
		want Money
	}{
		{"base currency is identity", usd(100), NewDate(2020, 1, 1), usd(100)},
		{"exact date", eur(100), NewDate(2025, 1, 1), usd(105)},
		{"between points uses the earlier rate", eur(100), NewDate(2025, 1, 20), usd(105)},
		{"after the last point uses it", eur(100), NewDate(2025, 6, 1), usd(110)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := rates.Convert(tc.in, tc.asOf)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("Convert(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}

	t.Run("before the first point", func(t *testing.T) {
		_, err := rates.Convert(eur(100), NewDate(2024, 12, 31))
		var missing *MissingRateError
		if !errors.As(err, &missing) {
			t.Fatalf("Convert() error = %v, want *MissingRateError", err)
		}
		if missing.Currency != "EUR" || missing.Base != "USD" {
			t.Errorf("error = %s/%s, want EUR/USD", missing.Currency, missing.Base)
		}
	})

	t.Run("unknown currency", func(t *testing.T) {
		_, err := rates.Convert(M(100, "JPY"), NewDate(2025, 3, 1))
		var missing *MissingRateError
		if !errors.As(err, &missing) {
			t.Fatalf("Convert() error = %v, want *MissingRateError", err)
		}
	})
}

func TestPriceTable_PriceAsOf(t *testing.T) {
	prices := NewPriceTable()
	prices.Add("AAPL", NewDate(2025, 1, 10), usd(150))
	prices.Add("AAPL", NewDate(2025, 1, 20), usd(155))
	// out-of-order insert lands in its place
	prices.Add("AAPL", NewDate(2025, 1, 15), usd(152))

	tests := []struct {
		asOf Date
		want Money
	}{
		{NewDate(2025, 1, 10), usd(150)},
		{NewDate(2025, 1, 14), usd(150)},
		{NewDate(2025, 1, 15), usd(152)},
		{NewDate(2025, 1, 19), usd(152)},
		{NewDate(2025, 3, 1), usd(155)},
	}
	for _, tc := range tests {
		got, err := prices.PriceAsOf("AAPL", tc.asOf)
		if err != nil {
			t.Fatalf("PriceAsOf(%v) error = %v", tc.asOf, err)
		}
		if !got.Equal(tc.want) {
			t.Errorf("PriceAsOf(%v) = %v, want %v", tc.asOf, got, tc.want)
		}
	}

	t.Run("before the first point", func(t *testing.T) {
		_, err := prices.PriceAsOf("AAPL", NewDate(2025, 1, 1))
		var missing *MissingPriceError
		if !errors.As(err, &missing) {
			t.Fatalf("PriceAsOf() error = %v, want *MissingPriceError", err)
		}
	})

	t.Run("unknown security", func(t *testing.T) {
		_, err := prices.PriceAsOf("NOPE", NewDate(2025, 3, 1))
		var missing *MissingPriceError
		if !errors.As(err, &missing) {
			t.Fatalf("PriceAsOf() error = %v, want *MissingPriceError", err)
		}
		if missing.Security != "NOPE" {
			t.Errorf("error names %q, want NOPE", missing.Security)
		}
	})

	t.Run("same-day add replaces", func(t *testing.T) {
		prices.Add("AAPL", NewDate(2025, 1, 20), usd(156))
		got, err := prices.PriceAsOf("AAPL", NewDate(2025, 1, 20))
		if err != nil {
			t.Fatalf("PriceAsOf() error = %v", err)
		}
		if !got.Equal(usd(156)) {
			t.Errorf("PriceAsOf() = %v, want 156.00 USD", got)
		}
	})
}
