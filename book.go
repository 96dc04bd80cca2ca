package quantfolio

import (
	"fmt"
	"maps"
	"slices"
)

// DefaultLongTermAfterDays is the holding duration, in days, at which a
// realized gain becomes long-term.
const DefaultLongTermAfterDays = 365

// BookConfig tunes the lot-matching behavior of a Book.
type BookConfig struct {
	// AllowShort lets an uncovered sell open a short lot instead of failing
	// with an OverdraftError. Later buys cover short lots oldest-first.
	AllowShort bool
	// LongTermAfterDays is the short/long term threshold. Zero means
	// DefaultLongTermAfterDays.
	LongTermAfterDays int
}

type bookKey struct{ portfolio, security string }
type cashKey struct{ portfolio, currency string }

// Book is the lot-matching engine. It holds, per (portfolio, security) pair,
// the FIFO queue of open lots, and per (portfolio, currency) pair the cash
// balance, and accumulates the realized events emitted by closing trades.
//
// State is partitioned per pair: applying transactions for different
// portfolios never interacts.
type Book struct {
	cfg      BookConfig
	open     map[bookKey]lots
	realized map[bookKey]Money
	cash     map[cashKey]Money
	events   []RealizedEvent
}

// NewBook creates an empty book.
func NewBook(cfg BookConfig) *Book {
	if cfg.LongTermAfterDays == 0 {
		cfg.LongTermAfterDays = DefaultLongTermAfterDays
	}
	return &Book{
		cfg:      cfg,
		open:     make(map[bookKey]lots),
		realized: make(map[bookKey]Money),
		cash:     make(map[cashKey]Money),
	}
}

// ReplayLedger applies every transaction of a sorted ledger to a fresh book.
func ReplayLedger(ledger *Ledger, cfg BookConfig) (*Book, error) {
	book := NewBook(cfg)
	for i, tx := range ledger.Transactions() {
		if _, err := book.Apply(tx); err != nil {
			return nil, fmt.Errorf("transaction %d (%s on %s): %w", i, tx.What(), tx.When(), err)
		}
	}
	return book, nil
}

// ApplyResult reports the effect of a single applied transaction.
type ApplyResult struct {
	Realized      []RealizedEvent // one per lot consumed by a closing trade
	QuantityDelta Quantity        // signed change of the open position
	CashDelta     Money           // signed change of the portfolio's cash
}

// Apply updates the book with one transaction. Transactions are expected to
// have passed Validate at the ingestion boundary; Apply performs the stateful
// checks. On error the book is left exactly as it was.
func (b *Book) Apply(tx Transaction) (*ApplyResult, error) {
	switch v := tx.(type) {
	case Buy:
		return b.applyBuy(v)
	case Sell:
		return b.applySell(v)
	case Dividend:
		return b.applyCash(v, v.Amount), nil
	case Fee:
		return b.applyCash(v, v.Amount.Neg()), nil
	case Deposit:
		return b.applyCash(v, v.Amount), nil
	case Withdraw:
		return b.applyCash(v, v.Amount.Neg()), nil
	default:
		return nil, fmt.Errorf("unsupported transaction type: %T", tx)
	}
}

func (b *Book) applyCash(tx Transaction, delta Money) *ApplyResult {
	b.addCash(tx.Where(), delta)
	return &ApplyResult{CashDelta: delta}
}

func (b *Book) addCash(portfolio string, delta Money) {
	key := cashKey{portfolio, delta.Currency()}
	b.cash[key] = b.cash[key].Add(delta)
}

func (b *Book) applyBuy(v Buy) (*ApplyResult, error) {
	key := bookKey{v.Where(), v.Security}
	open := b.open[key]
	held := open.quantity()

	// A buy first covers open short lots, oldest first, then the remainder
	// opens a new long lot.
	toCover := Q(0)
	if held.IsNegative() {
		toCover = held.Neg()
		if v.Quantity.LessThan(toCover) {
			toCover = v.Quantity
		}
	}

	remaining, consumed := open.consume(toCover)
	var events []RealizedEvent
	// Seed with the trade currency so positions that never realize anything
	// still hold a convertible zero.
	realizedGain := M(0, v.Currency())
	for _, c := range consumed {
		portion := c.Quantity.Abs()
		e := newRealizedEvent(RealizedEvent{
			Portfolio: v.Where(),
			Security:  v.Security,
			Short:     true,
			Open:      c.Open,
			Close:     v.When(),
			Quantity:  portion,
			Proceeds:  c.Cost.Neg(), // short lot cost is the negated opening proceeds
			CostBasis: v.Price.Mul(portion),
			Fees:      v.Fee.Mul(portion).Div(v.Quantity),
		}, b.cfg.LongTermAfterDays)
		events = append(events, e)
		realizedGain = realizedGain.Add(e.Gain)
	}

	if opened := v.Quantity.Sub(toCover); opened.IsPositive() {
		remaining = append(remaining, lot{
			Open:     v.When(),
			Quantity: opened,
			Cost:     v.Price.Mul(opened).Add(v.Fee.Mul(opened).Div(v.Quantity)),
		})
	}

	b.open[key] = remaining
	b.realized[key] = b.realized[key].Add(realizedGain)
	b.events = append(b.events, events...)
	cashDelta := v.Gross().Add(v.Fee).Neg()
	b.addCash(v.Where(), cashDelta)

	return &ApplyResult{
		Realized:      events,
		QuantityDelta: v.Quantity,
		CashDelta:     cashDelta,
	}, nil
}

func (b *Book) applySell(v Sell) (*ApplyResult, error) {
	key := bookKey{v.Where(), v.Security}
	open := b.open[key]
	held := open.quantity()

	// How much of the sale closes long lots, and how much extends short.
	toClose := held
	if toClose.IsNegative() {
		toClose = Q(0)
	}
	if v.Quantity.LessThan(toClose) {
		toClose = v.Quantity
	}
	toShort := v.Quantity.Sub(toClose)

	if toShort.IsPositive() && !b.cfg.AllowShort {
		return nil, &OverdraftError{
			Security:  v.Security,
			Portfolio: v.Where(),
			Requested: v.Quantity,
			Held:      held,
		}
	}

	remaining, consumed := open.consume(toClose)
	var events []RealizedEvent
	realizedGain := M(0, v.Currency())
	for _, c := range consumed {
		portion := c.Quantity.Abs()
		e := newRealizedEvent(RealizedEvent{
			Portfolio: v.Where(),
			Security:  v.Security,
			Open:      c.Open,
			Close:     v.When(),
			Quantity:  portion,
			Proceeds:  v.Price.Mul(portion),
			CostBasis: c.Cost,
			Fees:      v.Fee.Mul(portion).Div(v.Quantity),
		}, b.cfg.LongTermAfterDays)
		events = append(events, e)
		realizedGain = realizedGain.Add(e.Gain)
	}

	if toShort.IsPositive() {
		// The short lot's negative cost carries the net opening proceeds.
		proceeds := v.Price.Mul(toShort).Sub(v.Fee.Mul(toShort).Div(v.Quantity))
		remaining = append(remaining, lot{
			Open:     v.When(),
			Quantity: toShort.Neg(),
			Cost:     proceeds.Neg(),
		})
	}

	b.open[key] = remaining
	b.realized[key] = b.realized[key].Add(realizedGain)
	b.events = append(b.events, events...)
	cashDelta := v.Gross().Sub(v.Fee)
	b.addCash(v.Where(), cashDelta)

	return &ApplyResult{
		Realized:      events,
		QuantityDelta: v.Quantity.Neg(),
		CashDelta:     cashDelta,
	}, nil
}

// Position returns the current state of a (portfolio, security) pair.
func (b *Book) Position(portfolio, security string) Position {
	key := bookKey{portfolio, security}
	open := b.open[key]
	return Position{
		Portfolio: portfolio,
		Security:  security,
		Quantity:  open.quantity(),
		CostBasis: open.cost(),
		Realized:  b.realized[key],
	}
}

// Positions returns all positions of a portfolio that ever traded, sorted by
// security ticker. Flat positions with realized history are included.
func (b *Book) Positions(portfolio string) []Position {
	var tickers []string
	for key := range b.open {
		if key.portfolio == portfolio {
			tickers = append(tickers, key.security)
		}
	}
	slices.Sort(tickers)

	positions := make([]Position, 0, len(tickers))
	for _, ticker := range tickers {
		positions = append(positions, b.Position(portfolio, ticker))
	}
	return positions
}

// Cash returns the cash balance of a portfolio in a given currency.
func (b *Book) Cash(portfolio, currency string) Money {
	balance, ok := b.cash[cashKey{portfolio, currency}]
	if !ok {
		return M(0, currency)
	}
	return balance
}

// Currencies returns the sorted currencies holding cash in a portfolio.
func (b *Book) Currencies(portfolio string) []string {
	var currencies []string
	for key := range b.cash {
		if key.portfolio == portfolio {
			currencies = append(currencies, key.currency)
		}
	}
	slices.Sort(currencies)
	return currencies
}

// Portfolios returns the sorted labels of all portfolios seen by the book.
func (b *Book) Portfolios() []string {
	seen := make(map[string]struct{})
	for key := range b.open {
		seen[key.portfolio] = struct{}{}
	}
	for key := range b.cash {
		seen[key.portfolio] = struct{}{}
	}
	labels := slices.Collect(maps.Keys(seen))
	slices.Sort(labels)
	return labels
}

// Events returns the realized events emitted so far, in application order.
func (b *Book) Events() []RealizedEvent {
	return slices.Clone(b.events)
}

// EventsOf returns the realized events of one portfolio, in application order.
func (b *Book) EventsOf(portfolio string) []RealizedEvent {
	var events []RealizedEvent
	for _, e := range b.events {
		if e.Portfolio == portfolio {
			events = append(events, e)
		}
	}
	return events
}
