package quantfolio

import (
	"fmt"
	"iter"
	"slices"
)

// Valuation binds a transaction ledger to a price table and a rate table, and
// computes point-in-time portfolio values in the rate table's base currency.
//
// Valuation is a stateless calculator: every query replays the ledger through
// a fresh book up to the requested date, so queries for different dates or
// portfolios never interact.
type Valuation struct {
	ledger *Ledger
	prices *PriceTable
	rates  *RateTable
	cfg    BookConfig
}

// NewValuation creates a valuation over a ledger, market prices, and exchange
// rates into the rate table's base currency.
func NewValuation(ledger *Ledger, prices *PriceTable, rates *RateTable, cfg BookConfig) *Valuation {
	return &Valuation{ledger: ledger, prices: prices, rates: rates, cfg: cfg}
}

// Base returns the currency all snapshot figures are expressed in.
func (v *Valuation) Base() string { return v.rates.Base() }

// bookAsOf replays the ledger up to and including asOf.
func (v *Valuation) bookAsOf(asOf Date) (*Book, error) {
	book := NewBook(v.cfg)
	for i, tx := range v.ledger.Transactions() {
		if tx.When().After(asOf) {
			break
		}
		if _, err := book.Apply(tx); err != nil {
			return nil, fmt.Errorf("transaction %d (%s on %s): %w", i, tx.What(), tx.When(), err)
		}
	}
	return book, nil
}

// PortfolioSnapshot is the value of one portfolio on one date, in the
// valuation's base currency.
type PortfolioSnapshot struct {
	Portfolio   string
	Date        Date
	MarketValue Money // securities at market price
	Cash        Money
	TotalValue  Money // MarketValue + Cash
	CostBasis   Money // cost of the open lots
	Unrealized  Money // MarketValue - CostBasis
	Realized    Money // realized gain since inception
}

// Snapshot values one portfolio on one date. A held security without a price
// at or before the date is a *MissingPriceError; a currency without a rate is
// a *MissingRateError.
func (v *Valuation) Snapshot(portfolio string, asOf Date) (PortfolioSnapshot, error) {
	book, err := v.bookAsOf(asOf)
	if err != nil {
		return PortfolioSnapshot{}, err
	}
	return v.snapshot(book, portfolio, asOf)
}

func (v *Valuation) snapshot(book *Book, portfolio string, asOf Date) (PortfolioSnapshot, error) {
	base := v.rates.Base()
	snap := PortfolioSnapshot{
		Portfolio:   portfolio,
		Date:        asOf,
		MarketValue: M(0, base),
		Cash:        M(0, base),
		CostBasis:   M(0, base),
		Realized:    M(0, base),
	}

	for _, pos := range book.Positions(portfolio) {
		realized, err := v.rates.Convert(pos.Realized, asOf)
		if err != nil {
			return PortfolioSnapshot{}, err
		}
		snap.Realized = snap.Realized.Add(realized)

		if pos.Quantity.IsZero() {
			continue
		}
		price, err := v.prices.PriceAsOf(pos.Security, asOf)
		if err != nil {
			return PortfolioSnapshot{}, err
		}
		pos = pos.priced(price)

		value, err := v.rates.Convert(pos.MarketValue, asOf)
		if err != nil {
			return PortfolioSnapshot{}, err
		}
		basis, err := v.rates.Convert(pos.CostBasis, asOf)
		if err != nil {
			return PortfolioSnapshot{}, err
		}
		snap.MarketValue = snap.MarketValue.Add(value)
		snap.CostBasis = snap.CostBasis.Add(basis)
	}

	for _, currency := range book.Currencies(portfolio) {
		cash, err := v.rates.Convert(book.Cash(portfolio, currency), asOf)
		if err != nil {
			return PortfolioSnapshot{}, err
		}
		snap.Cash = snap.Cash.Add(cash)
	}

	snap.TotalValue = snap.MarketValue.Add(snap.Cash)
	snap.Unrealized = snap.MarketValue.Sub(snap.CostBasis)
	return snap, nil
}

// Breakdown returns the priced positions of one portfolio on one date, in
// their native trading currency, sorted by ticker. Flat positions keep their
// realized history and are returned unpriced.
func (v *Valuation) Breakdown(portfolio string, asOf Date) ([]Position, error) {
	book, err := v.bookAsOf(asOf)
	if err != nil {
		return nil, err
	}
	positions := book.Positions(portfolio)
	for i, pos := range positions {
		if pos.Quantity.IsZero() {
			continue
		}
		price, err := v.prices.PriceAsOf(pos.Security, asOf)
		if err != nil {
			return nil, err
		}
		positions[i] = pos.priced(price)
	}
	return positions, nil
}

// Consolidated sums the same-date snapshots of every portfolio in the ledger.
func (v *Valuation) Consolidated(asOf Date) (PortfolioSnapshot, error) {
	book, err := v.bookAsOf(asOf)
	if err != nil {
		return PortfolioSnapshot{}, err
	}

	total := PortfolioSnapshot{Portfolio: "consolidated", Date: asOf}
	base := v.rates.Base()
	total.MarketValue = M(0, base)
	total.Cash = M(0, base)
	total.CostBasis = M(0, base)
	total.Realized = M(0, base)

	for _, portfolio := range book.Portfolios() {
		snap, err := v.snapshot(book, portfolio, asOf)
		if err != nil {
			return PortfolioSnapshot{}, err
		}
		total.MarketValue = total.MarketValue.Add(snap.MarketValue)
		total.Cash = total.Cash.Add(snap.Cash)
		total.CostBasis = total.CostBasis.Add(snap.CostBasis)
		total.Realized = total.Realized.Add(snap.Realized)
	}
	total.TotalValue = total.MarketValue.Add(total.Cash)
	total.Unrealized = total.MarketValue.Sub(total.CostBasis)
	return total, nil
}

// Series values one portfolio on each of the given dates, replaying the
// ledger once. Dates are sorted before evaluation.
func (v *Valuation) Series(portfolio string, dates []Date) ([]PortfolioSnapshot, error) {
	sorted := slices.Clone(dates)
	slices.SortFunc(sorted, func(a, b Date) int {
		switch {
		case a.Before(b):
			return -1
		case a.After(b):
			return 1
		default:
			return 0
		}
	})

	book := NewBook(v.cfg)
	next, stop := iter.Pull2(v.ledger.Transactions())
	defer stop()
	_, tx, ok := next()

	snapshots := make([]PortfolioSnapshot, 0, len(sorted))
	for _, asOf := range sorted {
		for ok && !tx.When().After(asOf) {
			if _, err := book.Apply(tx); err != nil {
				return nil, err
			}
			_, tx, ok = next()
		}
		snap, err := v.snapshot(book, portfolio, asOf)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}
