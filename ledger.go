package quantfolio

import (
	"iter"
	"maps"
	"slices"
	"sort"
)

// Ledger represents an append-only list of transactions.
//
// In a Ledger transactions are always in chronological order; same-day
// transactions keep their ingestion order.
type Ledger struct {
	transactions []Transaction
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{transactions: make([]Transaction, 0)}
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) }

// Validate checks a transaction at the ingestion boundary and applies quick
// fixes (defaulting the date and the portfolio label). It returns the
// validated, potentially modified, transaction or an error.
func (l *Ledger) Validate(tx Transaction) (Transaction, error) {
	return tx.Validate()
}

// Append appends transactions to this ledger and maintains the chronological
// order of transactions.
func (l *Ledger) Append(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
	l.stableSort()
}

// stableSort sorts the ledger by transaction date. The sort is stable, meaning
// transactions on the same day maintain their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].When().Before(l.transactions[j].When())
	})
}

// Transactions returns an iterator that yields transactions in chronological
// order. With no filter every transaction is yielded; with filters a
// transaction is yielded when any filter accepts it.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			accept := len(filters) == 0
			for _, filter := range filters {
				if filter(tx) {
					accept = true
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// OldestTransactionDate returns the date of the earliest transaction in the
// ledger, or the zero date when empty.
func (l *Ledger) OldestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[0].When()
}

// NewestTransactionDate returns the date of the latest transaction in the
// ledger, or the zero date when empty.
func (l *Ledger) NewestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[len(l.transactions)-1].When()
}

// CashBalance computes a portfolio's cash in a specific currency on a specific
// date, by scanning the ledger's cash movements.
func (l *Ledger) CashBalance(portfolio, currency string, on Date) Money {
	balance := M(0, currency)
	for _, tx := range l.transactions {
		if tx.When().After(on) {
			// The ledger is sorted by date, so it's safe to break.
			break
		}
		if tx.Where() != portfolio {
			continue
		}
		switch v := tx.(type) {
		case Buy:
			if v.Currency() == currency {
				balance = balance.Sub(v.Gross()).Sub(v.Fee)
			}
		case Sell:
			if v.Currency() == currency {
				balance = balance.Add(v.Gross()).Sub(v.Fee)
			}
		case Dividend:
			if v.Amount.Currency() == currency {
				balance = balance.Add(v.Amount)
			}
		case Fee:
			if v.Amount.Currency() == currency {
				balance = balance.Sub(v.Amount)
			}
		case Deposit:
			if v.Amount.Currency() == currency {
				balance = balance.Add(v.Amount)
			}
		case Withdraw:
			if v.Amount.Currency() == currency {
				balance = balance.Sub(v.Amount)
			}
		}
	}
	return balance
}

// AllPortfolios iterates over the sorted portfolio labels seen in the ledger.
func (l *Ledger) AllPortfolios() iter.Seq[string] {
	return func(yield func(string) bool) {
		visited := make(map[string]struct{})
		for _, tx := range l.transactions {
			visited[tx.Where()] = struct{}{}
		}
		labels := slices.Collect(maps.Keys(visited))
		slices.Sort(labels)
		for _, label := range labels {
			if !yield(label) {
				return
			}
		}
	}
}

// AllSecurities iterates over the sorted security tickers seen in the ledger.
func (l *Ledger) AllSecurities() iter.Seq[string] {
	return func(yield func(string) bool) {
		visited := make(map[string]struct{})
		for _, tx := range l.transactions {
			if ticker := securityOf(tx); ticker != "" {
				visited[ticker] = struct{}{}
			}
		}
		tickers := slices.Collect(maps.Keys(visited))
		slices.Sort(tickers)
		for _, ticker := range tickers {
			if !yield(ticker) {
				return
			}
		}
	}
}

// AllCurrencies iterates over the sorted currencies that appear in the
// ledger's transactions.
func (l *Ledger) AllCurrencies() iter.Seq[string] {
	return func(yield func(string) bool) {
		visited := make(map[string]struct{})
		for _, tx := range l.transactions {
			switch v := tx.(type) {
			case Buy:
				visited[v.Currency()] = struct{}{}
			case Sell:
				visited[v.Currency()] = struct{}{}
			case Dividend:
				visited[v.Amount.Currency()] = struct{}{}
			case Fee:
				visited[v.Amount.Currency()] = struct{}{}
			case Deposit:
				visited[v.Amount.Currency()] = struct{}{}
			case Withdraw:
				visited[v.Amount.Currency()] = struct{}{}
			}
		}
		currencies := slices.Collect(maps.Keys(visited))
		slices.Sort(currencies)
		for _, currency := range currencies {
			if !yield(currency) {
				return
			}
		}
	}
}

// securityOf returns the ticker a transaction relates to, or "".
func securityOf(tx Transaction) string {
	switch v := tx.(type) {
	case Buy:
		return v.Security
	case Sell:
		return v.Security
	case Dividend:
		return v.Security
	case Fee:
		return v.Security
	default:
		return ""
	}
}

// BySecurity returns a predicate that filters transactions by security ticker.
func BySecurity(ticker string) func(Transaction) bool {
	return func(tx Transaction) bool {
		return securityOf(tx) == ticker
	}
}

// ByPortfolio returns a predicate that filters transactions by portfolio label.
func ByPortfolio(portfolio string) func(Transaction) bool {
	return func(tx Transaction) bool {
		return tx.Where() == portfolio
	}
}

// ByCommand returns a predicate that filters transactions by command type.
func ByCommand(types ...CommandType) func(Transaction) bool {
	return func(tx Transaction) bool {
		return slices.Contains(types, tx.What())
	}
}

// InceptionDate returns the date of the very first transaction for the given
// security ticker, and whether one was found.
func (l *Ledger) InceptionDate(security string) (Date, bool) {
	for _, tx := range l.transactions {
		if securityOf(tx) == security {
			return tx.When(), true
		}
	}
	return Date{}, false
}
