package quantfolio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// Market data persists as JSONL, one point per line, human-readable and
// git-friendly:
//
//	{"security":"AAPL","date":"2025-01-03","price":150.5,"currency":"USD"}
//	{"currency":"EUR","date":"2025-01-01","rate":1.05}

type pricePoint struct {
	Security string          `json:"security"`
	Date     Date            `json:"date"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
}

func (p pricePoint) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("security", p.Security)
	w.Append("date", p.Date)
	w.Append("price", p.Price)
	w.Append("currency", p.Currency)
	return w.MarshalJSON()
}

type ratePoint struct {
	Currency string          `json:"currency"`
	Date     Date            `json:"date"`
	Rate     decimal.Decimal `json:"rate"`
}

func (p ratePoint) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currency", p.Currency)
	w.Append("date", p.Date)
	w.Append("rate", p.Rate)
	return w.MarshalJSON()
}

// DecodePriceTable reads price points from a JSONL stream.
func DecodePriceTable(r io.Reader) (*PriceTable, error) {
	table := NewPriceTable()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var p pricePoint
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("format error in price line %q: %w", string(line), err)
		}
		if p.Security == "" {
			return nil, fmt.Errorf("price line %q names no security", string(line))
		}
		if err := ValidateCurrency(p.Currency); err != nil {
			return nil, fmt.Errorf("price line %q: %w", string(line), err)
		}
		table.Add(p.Security, p.Date, M(p.Price, p.Currency))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading prices: %w", err)
	}
	return table, nil
}

// EncodePriceTable writes the table to a JSONL stream, sorted by ticker then
// date, for canonical output.
func EncodePriceTable(w io.Writer, table *PriceTable) error {
	for _, security := range table.Securities() {
		for day, price := range table.Prices(security) {
			point := pricePoint{Security: security, Date: day, Price: price.value, Currency: price.Currency()}
			data, err := json.Marshal(point)
			if err != nil {
				return fmt.Errorf("failed to marshal price point: %w", err)
			}
			if _, err := w.Write(append(data, '\n')); err != nil {
				return fmt.Errorf("failed to write price point: %w", err)
			}
		}
	}
	return nil
}

// DecodeRateTable reads rate points from a JSONL stream into a table with the
// given base currency.
func DecodeRateTable(r io.Reader, base string) (*RateTable, error) {
	if err := ValidateCurrency(base); err != nil {
		return nil, err
	}
	table := NewRateTable(base)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var p ratePoint
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("format error in rate line %q: %w", string(line), err)
		}
		if err := ValidateCurrency(p.Currency); err != nil {
			return nil, fmt.Errorf("rate line %q: %w", string(line), err)
		}
		if !p.Rate.IsPositive() {
			return nil, fmt.Errorf("rate line %q: rate must be positive", string(line))
		}
		table.Add(p.Currency, p.Date, p.Rate)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading rates: %w", err)
	}
	return table, nil
}

// EncodeRateTable writes the table to a JSONL stream, sorted by currency then
// date.
func EncodeRateTable(w io.Writer, table *RateTable) error {
	for _, currency := range table.Currencies() {
		for day, rate := range table.Rates(currency) {
			point := ratePoint{Currency: currency, Date: day, Rate: rate}
			data, err := json.Marshal(point)
			if err != nil {
				return fmt.Errorf("failed to marshal rate point: %w", err)
			}
			if _, err := w.Write(append(data, '\n')); err != nil {
				return fmt.Errorf("failed to write rate point: %w", err)
			}
		}
	}
	return nil
}
