package quantfolio

// lot represents a single opening trade of a security, used for cost basis
// calculations. A buy opens a lot with a positive quantity whose cost includes
// the buy commission. An uncovered sell (short selling enabled) opens a lot
// with a negative quantity whose negative cost carries the short proceeds.
type lot struct {
	Open     Date
	Quantity Quantity
	Cost     Money // Total cost of the lot, commission included.
}

type lots []lot

// quantity returns the sum of the remaining lot quantities (signed).
func (l lots) quantity() Quantity {
	var total Quantity
	for _, currentLot := range l {
		total = total.Add(currentLot.Quantity)
	}
	return total
}

// cost returns the sum of the remaining lot costs.
func (l lots) cost() Money {
	var total Money
	for _, currentLot := range l {
		total = total.Add(currentLot.Cost)
	}
	return total
}

// consumption records the portion taken from a single lot by a closing trade.
// Quantity and Cost keep the sign of the source lot.
type consumption struct {
	Open     Date
	Quantity Quantity
	Cost     Money
}

// consume removes up to quantityToClose (in absolute terms) from the oldest
// lots first. It returns the remaining lots and one consumption per lot
// touched, with costs allocated pro rata on partially consumed lots.
//
// consume never mutates the receiver: callers keep the original until they
// decide to commit.
func (l lots) consume(quantityToClose Quantity) (remaining lots, consumed []consumption) {
	for _, currentLot := range l {
		if quantityToClose.IsZero() {
			remaining = append(remaining, currentLot)
			continue
		}

		size := currentLot.Quantity.Abs()
		if size.GreaterThan(quantityToClose) {
			// Partial close from this lot
			portion := quantityToClose
			if currentLot.Quantity.IsNegative() {
				portion = portion.Neg()
			}
			costShare := currentLot.Cost.Mul(quantityToClose).Div(size)
			consumed = append(consumed, consumption{
				Open:     currentLot.Open,
				Quantity: portion,
				Cost:     costShare,
			})
			remaining = append(remaining, lot{
				Open:     currentLot.Open,
				Quantity: currentLot.Quantity.Sub(portion),
				Cost:     currentLot.Cost.Sub(costShare),
			})
			quantityToClose = Q(0)
		} else {
			// Full close of this lot
			consumed = append(consumed, consumption{
				Open:     currentLot.Open,
				Quantity: currentLot.Quantity,
				Cost:     currentLot.Cost,
			})
			quantityToClose = quantityToClose.Sub(size)
		}
	}
	return remaining, consumed
}
