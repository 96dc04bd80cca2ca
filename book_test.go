package quantfolio

import (
	"errors"
	"testing"
)

func usd(v float64) Money { return M(v, "USD") }

func TestBook_FifoWorkedExample(t *testing.T) {
	// Buy 100 @ 150.50, then sell 50 @ 160.00 with a 0.50 commission.
	book := NewBook(BookConfig{})
	buy := NewBuy(NewDate(2025, 1, 10), "main", "AAPL", Q(100), usd(150.50), usd(0))
	sell := NewSell(NewDate(2025, 3, 10), "main", "AAPL", Q(50), usd(160), usd(0.50))

	if _, err := book.Apply(buy); err != nil {
		t.Fatalf("Apply(buy) error = %v", err)
	}
	res, err := book.Apply(sell)
	if err != nil {
		t.Fatalf("Apply(sell) error = %v", err)
	}

	if len(res.Realized) != 1 {
		t.Fatalf("Apply(sell) emitted %d events, want 1", len(res.Realized))
	}
	e := res.Realized[0]
	if !e.CostBasis.Equal(usd(7525)) {
		t.Errorf("CostBasis = %v, want 7525.00 USD", e.CostBasis)
	}
	if !e.Proceeds.Equal(usd(8000)) {
		t.Errorf("Proceeds = %v, want 8000.00 USD", e.Proceeds)
	}
	if !e.Gain.Equal(usd(474.50)) {
		t.Errorf("Gain = %v, want 474.50 USD", e.Gain)
	}
	if e.Open != buy.When() {
		t.Errorf("Open = %v, want %v", e.Open, buy.When())
	}
	if e.Term != ShortTerm {
		t.Errorf("Term = %v, want short-term", e.Term)
	}
	if e.ID == "" {
		t.Error("event has no ID")
	}

	pos := book.Position("main", "AAPL")
	if !pos.Quantity.Equal(Q(50)) {
		t.Errorf("remaining quantity = %v, want 50", pos.Quantity)
	}
	if !pos.CostBasis.Equal(usd(7525)) {
		t.Errorf("remaining cost basis = %v, want 7525.00 USD", pos.CostBasis)
	}
	if !pos.Realized.Equal(usd(474.50)) {
		t.Errorf("realized to date = %v, want 474.50 USD", pos.Realized)
	}
}

func TestBook_FifoConsumesOldestFirst(t *testing.T) {
	book := NewBook(BookConfig{})
	book.Apply(NewBuy(NewDate(2024, 1, 2), "main", "MSFT", Q(10), usd(100), usd(0)))
	book.Apply(NewBuy(NewDate(2024, 6, 2), "main", "MSFT", Q(10), usd(200), usd(0)))

	// Selling 15 consumes the whole first lot and half of the second.
	res, err := book.Apply(NewSell(NewDate(2025, 2, 1), "main", "MSFT", Q(15), usd(300), usd(0)))
	if err != nil {
		t.Fatalf("Apply(sell) error = %v", err)
	}
	if len(res.Realized) != 2 {
		t.Fatalf("got %d events, want 2", len(res.Realized))
	}
	first, second := res.Realized[0], res.Realized[1]
	if first.Open != NewDate(2024, 1, 2) || !first.Quantity.Equal(Q(10)) {
		t.Errorf("first event = %v @ %v, want 10 from 2024-01-02", first.Quantity, first.Open)
	}
	if !first.CostBasis.Equal(usd(1000)) {
		t.Errorf("first cost basis = %v, want 1000.00 USD", first.CostBasis)
	}
	if first.Term != LongTerm {
		t.Errorf("first term = %v, want long-term", first.Term)
	}
	if second.Open != NewDate(2024, 6, 2) || !second.Quantity.Equal(Q(5)) {
		t.Errorf("second event = %v @ %v, want 5 from 2024-06-02", second.Quantity, second.Open)
	}
	if !second.CostBasis.Equal(usd(1000)) {
		t.Errorf("second cost basis = %v, want 1000.00 USD", second.CostBasis)
	}
	if second.Term != ShortTerm {
		t.Errorf("second term = %v, want short-term", second.Term)
	}

	// FIFO invariant: open quantity is bought minus sold.
	if got := book.Position("main", "MSFT").Quantity; !got.Equal(Q(5)) {
		t.Errorf("open quantity = %v, want 5", got)
	}
}

func TestBook_BuyFeeFoldedIntoBasis(t *testing.T) {
	book := NewBook(BookConfig{})
	book.Apply(NewBuy(NewDate(2025, 1, 2), "main", "NVDA", Q(10), usd(100), usd(10)))

	res, err := book.Apply(NewSell(NewDate(2025, 1, 20), "main", "NVDA", Q(5), usd(110), usd(0)))
	if err != nil {
		t.Fatalf("Apply(sell) error = %v", err)
	}
	// Half the lot carries half the buy fee: basis 500 + 5 = 505.
	if got := res.Realized[0].CostBasis; !got.Equal(usd(505)) {
		t.Errorf("CostBasis = %v, want 505.00 USD", got)
	}
	if got := book.Position("main", "NVDA").CostBasis; !got.Equal(usd(505)) {
		t.Errorf("remaining basis = %v, want 505.00 USD", got)
	}
}

func TestBook_OverdraftLeavesStateUntouched(t *testing.T) {
	book := NewBook(BookConfig{})
	book.Apply(NewBuy(NewDate(2025, 1, 2), "main", "AAPL", Q(100), usd(150), usd(0)))
	before := book.Position("main", "AAPL")

	_, err := book.Apply(NewSell(NewDate(2025, 1, 3), "main", "AAPL", Q(150), usd(160), usd(0)))
	var overdraft *OverdraftError
	if !errors.As(err, &overdraft) {
		t.Fatalf("Apply(sell) error = %v, want *OverdraftError", err)
	}
	if !overdraft.Requested.Equal(Q(150)) || !overdraft.Held.Equal(Q(100)) {
		t.Errorf("overdraft = %v/%v, want 150/100", overdraft.Requested, overdraft.Held)
	}

	after := book.Position("main", "AAPL")
	if !after.Quantity.Equal(before.Quantity) || !after.CostBasis.Equal(before.CostBasis) {
		t.Errorf("book mutated by failed sell: %+v != %+v", after, before)
	}
	if len(book.Events()) != 0 {
		t.Errorf("failed sell emitted %d events", len(book.Events()))
	}
	if got := book.Cash("main", "USD"); !got.Equal(usd(-15000)) {
		t.Errorf("cash = %v, want -15000.00 USD (buy only)", got)
	}
}

func TestBook_PortfoliosDoNotInteract(t *testing.T) {
	book := NewBook(BookConfig{})
	book.Apply(NewBuy(NewDate(2025, 1, 2), "retirement", "AAPL", Q(100), usd(150), usd(0)))

	// The taxable portfolio holds nothing: selling there must overdraft even
	// though retirement holds plenty.
	_, err := book.Apply(NewSell(NewDate(2025, 1, 3), "taxable", "AAPL", Q(10), usd(160), usd(0)))
	var overdraft *OverdraftError
	if !errors.As(err, &overdraft) {
		t.Fatalf("cross-portfolio sell error = %v, want *OverdraftError", err)
	}
	if overdraft.Portfolio != "taxable" {
		t.Errorf("overdraft names portfolio %q, want taxable", overdraft.Portfolio)
	}
}

func TestBook_ShortSelling(t *testing.T) {
	book := NewBook(BookConfig{AllowShort: true})

	res, err := book.Apply(NewSell(NewDate(2025, 1, 2), "main", "TSLA", Q(10), usd(200), usd(0)))
	if err != nil {
		t.Fatalf("uncovered sell error = %v", err)
	}
	if len(res.Realized) != 0 {
		t.Fatalf("opening a short realized %d events", len(res.Realized))
	}
	if got := book.Position("main", "TSLA").Quantity; !got.Equal(Q(-10)) {
		t.Errorf("short position = %v, want -10", got)
	}

	// Cover at a lower price: gain is the spread.
	res, err = book.Apply(NewBuy(NewDate(2025, 2, 2), "main", "TSLA", Q(10), usd(150), usd(0)))
	if err != nil {
		t.Fatalf("cover error = %v", err)
	}
	if len(res.Realized) != 1 {
		t.Fatalf("cover emitted %d events, want 1", len(res.Realized))
	}
	e := res.Realized[0]
	if !e.Short {
		t.Error("cover event not flagged short")
	}
	if !e.Gain.Equal(usd(500)) {
		t.Errorf("short gain = %v, want 500.00 USD", e.Gain)
	}
	if got := book.Position("main", "TSLA").Quantity; !got.IsZero() {
		t.Errorf("position after cover = %v, want 0", got)
	}
}

func TestBook_SellFeeAllocatedProRata(t *testing.T) {
	book := NewBook(BookConfig{})
	book.Apply(NewBuy(NewDate(2025, 1, 2), "main", "AMD", Q(10), usd(100), usd(0)))
	book.Apply(NewBuy(NewDate(2025, 1, 3), "main", "AMD", Q(30), usd(100), usd(0)))

	res, err := book.Apply(NewSell(NewDate(2025, 2, 2), "main", "AMD", Q(40), usd(120), usd(4)))
	if err != nil {
		t.Fatalf("Apply(sell) error = %v", err)
	}
	if len(res.Realized) != 2 {
		t.Fatalf("got %d events, want 2", len(res.Realized))
	}
	if got := res.Realized[0].Fees; !got.Equal(usd(1)) {
		t.Errorf("first lot fee share = %v, want 1.00 USD", got)
	}
	if got := res.Realized[1].Fees; !got.Equal(usd(3)) {
		t.Errorf("second lot fee share = %v, want 3.00 USD", got)
	}
}

func TestBook_CashMovements(t *testing.T) {
	book := NewBook(BookConfig{})
	day := NewDate(2025, 1, 2)
	book.Apply(NewDeposit(day, "main", usd(20000)))
	book.Apply(NewBuy(day, "main", "AAPL", Q(100), usd(150), usd(5)))
	book.Apply(NewDividend(day.Add(30), "main", "AAPL", usd(25)))
	book.Apply(NewFee(day.Add(31), "main", "", usd(10)))
	book.Apply(NewWithdraw(day.Add(60), "main", usd(1000)))

	// 20000 - 15005 + 25 - 10 - 1000
	if got := book.Cash("main", "USD"); !got.Equal(usd(4010)) {
		t.Errorf("cash = %v, want 4010.00 USD", got)
	}
}

func TestReplayLedger(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewSell(NewDate(2025, 3, 1), "main", "AAPL", Q(50), usd(160), usd(0)),
		NewBuy(NewDate(2025, 1, 1), "main", "AAPL", Q(100), usd(150), usd(0)),
	)

	// Append sorts: the buy replays before the sell even though it was
	// appended second.
	book, err := ReplayLedger(ledger, BookConfig{})
	if err != nil {
		t.Fatalf("ReplayLedger() error = %v", err)
	}
	if got := book.Position("main", "AAPL").Quantity; !got.Equal(Q(50)) {
		t.Errorf("position = %v, want 50", got)
	}
	if got := len(book.Events()); got != 1 {
		t.Errorf("events = %d, want 1", got)
	}
}
