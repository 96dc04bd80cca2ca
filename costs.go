package quantfolio

import (
	"maps"
	"slices"
)

// SecurityCost aggregates the trading costs of one security.
type SecurityCost struct {
	Security string
	Trades   int
	Volume   Money // gross traded value
	Fees     Money // trade commissions plus standalone fees naming the security
	FeeRate  float64
}

// CostReport aggregates what a portfolio paid in fees over a period, in the
// rate table's base currency.
type CostReport struct {
	Portfolio  string
	Range      Range
	Trades     int
	Volume     Money
	TradeFees  Money // commissions embedded in buys and sells
	OtherFees  Money // standalone fee transactions
	TotalFees  Money
	Securities []SecurityCost // sorted by ticker
}

// NewCostReport scans a portfolio's transactions within a date range and
// aggregates volumes and fees, converted to the base currency at each
// transaction's date.
func NewCostReport(ledger *Ledger, rates *RateTable, portfolio string, within Range) (*CostReport, error) {
	base := rates.Base()
	report := &CostReport{
		Portfolio: portfolio,
		Range:     within,
		Volume:    M(0, base),
		TradeFees: M(0, base),
		OtherFees: M(0, base),
	}
	perSecurity := make(map[string]*SecurityCost)

	costOf := func(ticker string) *SecurityCost {
		sc, ok := perSecurity[ticker]
		if !ok {
			sc = &SecurityCost{Security: ticker, Volume: M(0, base), Fees: M(0, base)}
			perSecurity[ticker] = sc
		}
		return sc
	}

	for _, tx := range ledger.Transactions(ByPortfolio(portfolio)) {
		if !within.Contains(tx.When()) {
			continue
		}
		switch v := tx.(type) {
		case Buy:
			if err := report.addTrade(costOf(v.Security), rates, v.tradeCmd); err != nil {
				return nil, err
			}
		case Sell:
			if err := report.addTrade(costOf(v.Security), rates, v.tradeCmd); err != nil {
				return nil, err
			}
		case Fee:
			amount, err := rates.Convert(v.Amount, v.When())
			if err != nil {
				return nil, err
			}
			report.OtherFees = report.OtherFees.Add(amount)
			if v.Security != "" {
				sc := costOf(v.Security)
				sc.Fees = sc.Fees.Add(amount)
			}
		}
	}

	tickers := slices.Collect(maps.Keys(perSecurity))
	slices.Sort(tickers)
	for _, ticker := range tickers {
		sc := perSecurity[ticker]
		if !sc.Volume.IsZero() {
			sc.FeeRate = sc.Fees.AsFloat() / sc.Volume.AsFloat()
		}
		report.Securities = append(report.Securities, *sc)
	}

	report.TotalFees = report.TradeFees.Add(report.OtherFees)
	return report, nil
}

func (r *CostReport) addTrade(sc *SecurityCost, rates *RateTable, trade tradeCmd) error {
	gross, err := rates.Convert(trade.Gross(), trade.When())
	if err != nil {
		return err
	}
	fee, err := rates.Convert(trade.Fee, trade.When())
	if err != nil {
		return err
	}
	r.Trades++
	r.Volume = r.Volume.Add(gross)
	r.TradeFees = r.TradeFees.Add(fee)
	sc.Trades++
	sc.Volume = sc.Volume.Add(gross)
	sc.Fees = sc.Fees.Add(fee)
	return nil
}
