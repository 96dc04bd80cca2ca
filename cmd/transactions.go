package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/quantfolio/quantfolio"
)

// tradeFlags are the flags shared by buy and sell.
type tradeFlags struct {
	date      string
	portfolio string
	security  string
	quantity  float64
	price     float64
	fee       float64
	currency  string
	memo      string
}

func (c *tradeFlags) set(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", quantfolio.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.portfolio, "P", "", "Portfolio label (defaults to \"main\")")
	f.StringVar(&c.security, "s", "", "Security ticker")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.Float64Var(&c.fee, "fee", 0, "Commission paid on the trade")
	f.StringVar(&c.currency, "c", "USD", "Trade currency (e.g., USD, EUR)")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the transaction")
}

func (c *tradeFlags) parse(f *flag.FlagSet) (day quantfolio.Date, price, fee quantfolio.Money, ok bool) {
	if c.security == "" || c.quantity <= 0 || c.price <= 0 {
		f.Usage()
		return day, price, fee, false
	}
	day, err := quantfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return day, price, fee, false
	}
	return day, quantfolio.M(c.price, c.currency), quantfolio.M(c.fee, c.currency), true
}

// --- Buy Command ---

type buyCmd struct{ tradeFlags }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares to open or add to a position" }
func (*buyCmd) Usage() string {
	return `buy -d <date> -s <security> -q <quantity> -p <price> [-fee <fee>] [-c <currency>] [-P <portfolio>] [-m <memo>]

  Purchases shares of a security. The total cost, fee included, is debited
  from the portfolio's cash account in the trade currency.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, price, fee, ok := c.parse(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	tx := quantfolio.NewBuy(day, c.portfolio, c.security, quantfolio.Q(c.quantity), price, fee)
	tx.Memo = c.memo
	return appendTransaction(tx)
}

// --- Sell Command ---

type sellCmd struct{ tradeFlags }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares to trim or close a position" }
func (*sellCmd) Usage() string {
	return `sell -d <date> -s <security> -q <quantity> -p <price> [-fee <fee>] [-c <currency>] [-P <portfolio>] [-m <memo>]

  Sells shares of a security. The proceeds, net of fee, are credited to the
  portfolio's cash account. Selling more than the open position is rejected
  when the book is applied, unless -allow-short is set.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, price, fee, ok := c.parse(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	tx := quantfolio.NewSell(day, c.portfolio, c.security, quantfolio.Q(c.quantity), price, fee)
	tx.Memo = c.memo
	return appendTransaction(tx)
}

// --- Dividend Command ---

type dividendCmd struct {
	date      string
	portfolio string
	security  string
	amount    float64
	currency  string
	memo      string
}

func (*dividendCmd) Name() string     { return "dividend" }
func (*dividendCmd) Synopsis() string { return "record a dividend payment for a security" }
func (*dividendCmd) Usage() string {
	return `dividend -d <date> -s <security> -a <amount> [-c <currency>] [-P <portfolio>] [-m <memo>]

  Records a dividend payment. The amount is credited to the cash account.
`
}

func (c *dividendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", quantfolio.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.portfolio, "P", "", "Portfolio label (defaults to \"main\")")
	f.StringVar(&c.security, "s", "", "Security ticker receiving the dividend")
	f.Float64Var(&c.amount, "a", 0, "Total dividend amount received")
	f.StringVar(&c.currency, "c", "USD", "Currency of the dividend")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note")
}

func (c *dividendCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.security == "" || c.amount <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := quantfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	tx := quantfolio.NewDividend(day, c.portfolio, c.security, quantfolio.M(c.amount, c.currency))
	tx.Memo = c.memo
	return appendTransaction(tx)
}

// --- Fee Command ---

type feeCmd struct {
	date      string
	portfolio string
	security  string
	amount    float64
	currency  string
	memo      string
}

func (*feeCmd) Name() string     { return "fee" }
func (*feeCmd) Synopsis() string { return "record a standalone fee charged to the portfolio" }
func (*feeCmd) Usage() string {
	return `fee -d <date> -a <amount> [-s <security>] [-c <currency>] [-P <portfolio>] [-m <memo>]

  Records a standalone charge (account maintenance, custody, margin interest)
  against the portfolio's cash. The fee may optionally name the security it
  relates to.
`
}

func (c *feeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", quantfolio.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.portfolio, "P", "", "Portfolio label (defaults to \"main\")")
	f.StringVar(&c.security, "s", "", "Security the fee relates to, if any")
	f.Float64Var(&c.amount, "a", 0, "Amount charged")
	f.StringVar(&c.currency, "c", "USD", "Currency of the fee")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note")
}

func (c *feeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := quantfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	tx := quantfolio.NewFee(day, c.portfolio, c.security, quantfolio.M(c.amount, c.currency))
	tx.Memo = c.memo
	return appendTransaction(tx)
}

// --- Deposit Command ---

type depositCmd struct {
	date      string
	portfolio string
	amount    float64
	currency  string
	memo      string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "record a cash deposit into the portfolio" }
func (*depositCmd) Usage() string {
	return `deposit -d <date> -a <amount> [-c <currency>] [-P <portfolio>] [-m <memo>]

  Records a cash deposit into the portfolio's cash account. Cash is kept per
  currency.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", quantfolio.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.portfolio, "P", "", "Portfolio label (defaults to \"main\")")
	f.Float64Var(&c.amount, "a", 0, "Amount of cash to deposit")
	f.StringVar(&c.currency, "c", "USD", "Currency of the deposit (e.g., USD, EUR)")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note")
}

func (c *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := quantfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	tx := quantfolio.NewDeposit(day, c.portfolio, quantfolio.M(c.amount, c.currency))
	tx.Memo = c.memo
	return appendTransaction(tx)
}

// --- Withdraw Command ---

type withdrawCmd struct {
	date      string
	portfolio string
	amount    float64
	currency  string
	memo      string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "record a cash withdrawal from the portfolio" }
func (*withdrawCmd) Usage() string {
	return `withdraw -d <date> -a <amount> [-c <currency>] [-P <portfolio>] [-m <memo>]

  Records a cash withdrawal from the portfolio's cash account.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", quantfolio.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.portfolio, "P", "", "Portfolio label (defaults to \"main\")")
	f.Float64Var(&c.amount, "a", 0, "Amount of cash to withdraw")
	f.StringVar(&c.currency, "c", "USD", "Currency of the withdrawal (e.g., USD, EUR)")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note")
}

func (c *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := quantfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	tx := quantfolio.NewWithdraw(day, c.portfolio, quantfolio.M(c.amount, c.currency))
	tx.Memo = c.memo
	return appendTransaction(tx)
}
