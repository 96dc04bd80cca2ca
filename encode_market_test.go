package quantfolio

import (
	"bytes"
	"strings"
	"testing"
)

func TestDecodePriceTable(t *testing.T) {
	stream := `
{"security":"AAPL","date":"2025-01-03","price":150.5,"currency":"USD"}
{"security":"SAP","date":"2025-01-03","price":120,"currency":"EUR"}
{"security":"AAPL","date":"2025-01-02","price":149,"currency":"USD"}
`
	table, err := DecodePriceTable(strings.NewReader(stream))
	if err != nil {
		t.Fatalf("DecodePriceTable() error = %v", err)
	}
	price, err := table.PriceAsOf("AAPL", NewDate(2025, 1, 10))
	if err != nil {
		t.Fatalf("PriceAsOf() error = %v", err)
	}
	if !price.Equal(M(150.5, "USD")) {
		t.Errorf("PriceAsOf() = %v, want 150.50 USD", price)
	}

	var buf bytes.Buffer
	if err := EncodePriceTable(&buf, table); err != nil {
		t.Fatalf("EncodePriceTable() error = %v", err)
	}
	// Canonical output: sorted by ticker then date.
	want := `{"security":"AAPL","date":"2025-01-02","price":149,"currency":"USD"}
{"security":"AAPL","date":"2025-01-03","price":150.5,"currency":"USD"}
{"security":"SAP","date":"2025-01-03","price":120,"currency":"EUR"}
`
	if got := buf.String(); got != want {
		t.Errorf("EncodePriceTable() =\n%s\nwant\n%s", got, want)
	}

	t.Run("rejects unknown currency", func(t *testing.T) {
		bad := `{"security":"AAPL","date":"2025-01-03","price":1,"currency":"NOPE"}`
		if _, err := DecodePriceTable(strings.NewReader(bad)); err == nil {
			t.Fatal("DecodePriceTable() accepted an unknown currency")
		}
	})
}

func TestDecodeRateTable(t *testing.T) {
	stream := `
{"currency":"EUR","date":"2025-01-01","rate":1.05}
{"currency":"GBP","date":"2025-01-01","rate":1.27}
`
	table, err := DecodeRateTable(strings.NewReader(stream), "USD")
	if err != nil {
		t.Fatalf("DecodeRateTable() error = %v", err)
	}
	got, err := table.Convert(M(100, "EUR"), NewDate(2025, 2, 1))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !got.Equal(M(105, "USD")) {
		t.Errorf("Convert() = %v, want 105.00 USD", got)
	}

	t.Run("rejects non-positive rates", func(t *testing.T) {
		bad := `{"currency":"EUR","date":"2025-01-01","rate":0}`
		if _, err := DecodeRateTable(strings.NewReader(bad), "USD"); err == nil {
			t.Fatal("DecodeRateTable() accepted a zero rate")
		}
	})
}
