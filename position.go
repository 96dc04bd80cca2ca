package quantfolio

// Position is the state of one (portfolio, security) pair at a point in the
// replay: open quantity (negative when short), the cost of the open lots, and
// the realized gain to date.
//
// MarketValue and Unrealized are populated only when the position is priced.
type Position struct {
	Portfolio string
	Security  string
	Quantity  Quantity
	CostBasis Money // total cost of the open lots, buy commissions included
	Realized  Money // realized gain to date, net of commissions

	Price       Money // last known price, when priced
	MarketValue Money
	Unrealized  Money
}

// AvgCost returns the per-unit cost of the open lots. Zero when flat.
func (p Position) AvgCost() Money {
	if p.Quantity.IsZero() {
		return M(0, p.CostBasis.Currency())
	}
	return p.CostBasis.Div(p.Quantity)
}

// priced returns a copy of the position valued at the given per-unit price.
func (p Position) priced(price Money) Position {
	p.Price = price
	p.MarketValue = price.Mul(p.Quantity)
	p.Unrealized = p.MarketValue.Sub(p.CostBasis)
	return p
}
