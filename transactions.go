package quantfolio

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CommandType is a typed string for identifying transaction commands.
type CommandType string

// Command types used for identifying transactions.
const (
	CmdBuy      CommandType = "buy"
	CmdSell     CommandType = "sell"
	CmdDividend CommandType = "dividend"
	CmdFee      CommandType = "fee"
	CmdDeposit  CommandType = "deposit"
	CmdWithdraw CommandType = "withdraw"
)

// DefaultPortfolio is the label assigned to transactions that do not name one.
const DefaultPortfolio = "main"

// Transaction defines the common interface for all types of financial events
// that can be recorded in the ledger.
type Transaction interface {
	What() CommandType // What returns the command type of the transaction (e.g., "buy", "sell").
	When() Date        // When returns the date on which the transaction occurred.
	Where() string     // Where returns the portfolio label the transaction belongs to.
	Equal(Transaction) bool
	Validate() (Transaction, error)
}

type baseCmd struct {
	Command   CommandType `json:"command"`             // Command specifies the type of transaction (e.g., "buy", "sell").
	Date      Date        `json:"date"`                // Date is the trade date of the transaction.
	Portfolio string      `json:"portfolio,omitempty"` // Portfolio is the label of the portfolio the transaction belongs to.
	Memo      string      `json:"memo,omitempty"`      // Memo provides an optional rationale or note for the transaction.
}

// What returns the command name for the transaction.
func (t baseCmd) What() CommandType { return t.Command }

// When returns the trade date of the transaction.
func (t baseCmd) When() Date { return t.Date }

// Where returns the portfolio label of the transaction.
func (t baseCmd) Where() string { return t.Portfolio }

// Rationale returns the memo associated with the transaction.
func (t baseCmd) Rationale() string { return t.Memo }

// MarshalJSON implements the json.Marshaler interface for baseCmd.
func (t baseCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Command)
	w.Append("date", t.Date)
	w.Optional("portfolio", t.Portfolio)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// Validate checks the base command fields, applying quick fixes: a zero date
// becomes today, an empty portfolio label becomes DefaultPortfolio.
func (t *baseCmd) Validate() {
	if t.Date == (Date{}) {
		t.Date = Today()
	}
	if t.Portfolio == "" {
		t.Portfolio = DefaultPortfolio
	}
}

// secCmd is a component for security-based transactions (buy, sell, dividend).
type secCmd struct {
	baseCmd
	Security string `json:"security"` // Security is the ticker symbol of the security involved.
}

// Validate checks the security command fields.
func (t *secCmd) Validate() error {
	t.baseCmd.Validate()
	if t.Security == "" {
		return errors.New("security ticker is missing")
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for secCmd.
func (t secCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("security", t.Security)
	return w.MarshalJSON()
}

// tradeCmd is a component for lot-affecting transactions (buy, sell): a
// quantity traded at a per-unit price, with an optional commission.
type tradeCmd struct {
	secCmd
	Quantity Quantity // Quantity is the number of shares or units traded, always positive.
	Price    Money    // Price is the per-unit execution price.
	Fee      Money    // Fee is the commission paid on the trade, in the price currency.
}

// Gross returns the quantity times the per-unit price.
func (t tradeCmd) Gross() Money { return t.Price.Mul(t.Quantity) }

// Currency returns the trade's currency.
func (t tradeCmd) Currency() string { return t.Price.Currency() }

// MarshalJSON implements the json.Marshaler interface for tradeCmd.
func (t tradeCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price.value)
	if !t.Fee.IsZero() {
		w.Append("fee", t.Fee.value)
	}
	w.Append("currency", t.Currency())
	return w.MarshalJSON()
}

// Validate checks the fields shared by buy and sell.
func (t *tradeCmd) Validate() error {
	if err := t.secCmd.Validate(); err != nil {
		return err
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("%s quantity must be positive, got %s", t.Command, t.Quantity)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("%s price must be positive, got %s", t.Command, t.Price)
	}
	if err := ValidateCurrency(t.Price.Currency()); err != nil {
		return fmt.Errorf("invalid currency for %s: %w", t.Command, err)
	}
	// quick fix: an absent fee inherits the price currency.
	if t.Fee.Currency() == "" {
		t.Fee = M(t.Fee.value, t.Price.Currency())
	}
	if t.Fee.IsNegative() {
		return fmt.Errorf("%s fee cannot be negative, got %s", t.Command, t.Fee)
	}
	if t.Fee.Currency() != t.Price.Currency() {
		return fmt.Errorf("%s fee currency %s does not match trade currency %s", t.Command, t.Fee.Currency(), t.Price.Currency())
	}
	return nil
}

// Buy represents a transaction where a quantity of a security is purchased at
// a per-unit price, plus an optional commission.
type Buy struct {
	tradeCmd
}

// NewBuy creates a new Buy transaction.
func NewBuy(day Date, portfolio, security string, quantity Quantity, price, fee Money) Buy {
	return Buy{tradeCmd{
		secCmd:   secCmd{baseCmd: baseCmd{Command: CmdBuy, Date: day, Portfolio: portfolio}, Security: security},
		Quantity: quantity,
		Price:    price,
		Fee:      fee,
	}}
}

// UnmarshalJSON implements the json.Unmarshaler interface for Buy.
func (t *Buy) UnmarshalJSON(data []byte) error {
	temp, err := decodeTrade(data)
	if err != nil {
		return err
	}
	t.tradeCmd = temp
	return nil
}

func (t Buy) Equal(other Transaction) bool {
	o, ok := other.(Buy)
	return ok && t.secCmd == o.secCmd && t.Quantity.Equal(o.Quantity) &&
		t.Price.Equal(o.Price) && t.Fee.Equal(o.Fee)
}

// Validate checks the Buy transaction's fields at the ingestion boundary.
// Cash sufficiency is not checked here: buying on margin is allowed and the
// cash balance simply goes negative.
func (t Buy) Validate() (Transaction, error) {
	if err := t.tradeCmd.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Sell represents a transaction where a quantity of a security is sold at a
// per-unit price, minus an optional commission.
//
// The quantity is always positive here. Feeds that encode sells as negative
// buy quantities are mapped by NewTrade before reaching the ledger.
type Sell struct {
	tradeCmd
}

// NewSell creates a new Sell transaction.
func NewSell(day Date, portfolio, security string, quantity Quantity, price, fee Money) Sell {
	return Sell{tradeCmd{
		secCmd:   secCmd{baseCmd: baseCmd{Command: CmdSell, Date: day, Portfolio: portfolio}, Security: security},
		Quantity: quantity,
		Price:    price,
		Fee:      fee,
	}}
}

// NewTrade maps a raw signed-quantity record to a Buy or a Sell: a positive
// quantity buys, a negative quantity sells the absolute value.
func NewTrade(day Date, portfolio, security string, quantity Quantity, price, fee Money) Transaction {
	if quantity.IsNegative() {
		return NewSell(day, portfolio, security, quantity.Neg(), price, fee)
	}
	return NewBuy(day, portfolio, security, quantity, price, fee)
}

// UnmarshalJSON implements the json.Unmarshaler interface for Sell.
func (t *Sell) UnmarshalJSON(data []byte) error {
	temp, err := decodeTrade(data)
	if err != nil {
		return err
	}
	t.tradeCmd = temp
	return nil
}

func (t Sell) Equal(other Transaction) bool {
	o, ok := other.(Sell)
	return ok && t.secCmd == o.secCmd && t.Quantity.Equal(o.Quantity) &&
		t.Price.Equal(o.Price) && t.Fee.Equal(o.Fee)
}

// Validate checks the Sell transaction's fields at the ingestion boundary.
// Whether the position covers the sale is a book concern, checked when the
// transaction is applied.
func (t Sell) Validate() (Transaction, error) {
	if err := t.tradeCmd.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Dividend represents a cash dividend received for a held security.
type Dividend struct {
	secCmd
	Amount Money // Amount is the total cash received.
}

// NewDividend creates a new Dividend transaction.
func NewDividend(day Date, portfolio, security string, amount Money) Dividend {
	return Dividend{
		secCmd: secCmd{baseCmd: baseCmd{Command: CmdDividend, Date: day, Portfolio: portfolio}, Security: security},
		Amount: amount,
	}
}

// MarshalJSON implements the json.Marshaler interface for Dividend.
func (t Dividend) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	// dividends can be fractional beyond the currency's minor unit.
	w.EmbedFrom(t.Amount.exact())
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Dividend.
func (t *Dividend) UnmarshalJSON(data []byte) error {
	var temp struct {
		secCmd
		amountCmd
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.secCmd = temp.secCmd
	t.Amount = temp.Money()
	return nil
}

func (t Dividend) Equal(other Transaction) bool {
	o, ok := other.(Dividend)
	return ok && t.secCmd == o.secCmd && t.Amount.Equal(o.Amount)
}

// Validate checks the Dividend transaction's fields.
func (t Dividend) Validate() (Transaction, error) {
	if err := t.secCmd.Validate(); err != nil {
		return t, err
	}
	if !t.Amount.IsPositive() {
		return t, errors.New("dividend must have a positive amount")
	}
	if err := ValidateCurrency(t.Amount.Currency()); err != nil {
		return t, fmt.Errorf("invalid currency for dividend: %w", err)
	}
	return t, nil
}

// Fee represents a standalone charge against a portfolio's cash: account
// maintenance, custody, margin interest. A fee may optionally name the
// security it relates to.
type Fee struct {
	baseCmd
	Security string // Security optionally names the security the fee relates to.
	Amount   Money  // Amount is the cash charged.
}

// NewFee creates a new Fee transaction.
func NewFee(day Date, portfolio, security string, amount Money) Fee {
	return Fee{
		baseCmd:  baseCmd{Command: CmdFee, Date: day, Portfolio: portfolio},
		Security: security,
		Amount:   amount,
	}
}

// MarshalJSON implements the json.Marshaler interface for Fee.
func (t Fee) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Optional("security", t.Security)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Fee.
func (t *Fee) UnmarshalJSON(data []byte) error {
	var temp struct {
		baseCmd
		amountCmd
		Security string `json:"security,omitempty"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseCmd = temp.baseCmd
	t.Security = temp.Security
	t.Amount = temp.Money()
	return nil
}

func (t Fee) Equal(other Transaction) bool {
	o, ok := other.(Fee)
	return ok && t.baseCmd == o.baseCmd && t.Security == o.Security && t.Amount.Equal(o.Amount)
}

// Validate checks the Fee transaction's fields.
func (t Fee) Validate() (Transaction, error) {
	t.baseCmd.Validate()
	if !t.Amount.IsPositive() {
		return t, fmt.Errorf("fee amount must be positive, got %s", t.Amount)
	}
	if err := ValidateCurrency(t.Amount.Currency()); err != nil {
		return t, fmt.Errorf("invalid currency for fee: %w", err)
	}
	return t, nil
}

// Deposit represents cash added to a portfolio's currency account.
type Deposit struct {
	baseCmd
	Amount Money // Amount is the quantity of cash deposited.
}

// NewDeposit creates a new Deposit transaction.
func NewDeposit(day Date, portfolio string, amount Money) Deposit {
	return Deposit{
		baseCmd: baseCmd{Command: CmdDeposit, Date: day, Portfolio: portfolio},
		Amount:  amount,
	}
}

// MarshalJSON implements the json.Marshaler interface for Deposit.
func (t Deposit) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Deposit.
func (t *Deposit) UnmarshalJSON(data []byte) error {
	var temp struct {
		baseCmd
		amountCmd
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseCmd = temp.baseCmd
	t.Amount = temp.Money()
	return nil
}

func (t Deposit) Equal(other Transaction) bool {
	o, ok := other.(Deposit)
	return ok && t.baseCmd == o.baseCmd && t.Amount.Equal(o.Amount)
}

// Validate checks the Deposit transaction's fields.
func (t Deposit) Validate() (Transaction, error) {
	t.baseCmd.Validate()
	if !t.Amount.IsPositive() {
		return t, fmt.Errorf("deposit amount must be positive, got %s", t.Amount)
	}
	if err := ValidateCurrency(t.Amount.Currency()); err != nil {
		return t, fmt.Errorf("invalid currency for deposit: %w", err)
	}
	return t, nil
}

// Withdraw represents cash removed from a portfolio's currency account.
type Withdraw struct {
	baseCmd
	Amount Money // Amount is the quantity of cash withdrawn.
}

// NewWithdraw creates a new Withdraw transaction.
func NewWithdraw(day Date, portfolio string, amount Money) Withdraw {
	return Withdraw{
		baseCmd: baseCmd{Command: CmdWithdraw, Date: day, Portfolio: portfolio},
		Amount:  amount,
	}
}

// MarshalJSON implements the json.Marshaler interface for Withdraw.
func (t Withdraw) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Withdraw.
func (t *Withdraw) UnmarshalJSON(data []byte) error {
	var temp struct {
		baseCmd
		amountCmd
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseCmd = temp.baseCmd
	t.Amount = temp.Money()
	return nil
}

func (t Withdraw) Equal(other Transaction) bool {
	o, ok := other.(Withdraw)
	return ok && t.baseCmd == o.baseCmd && t.Amount.Equal(o.Amount)
}

// Validate checks the Withdraw transaction's fields.
func (t Withdraw) Validate() (Transaction, error) {
	t.baseCmd.Validate()
	if !t.Amount.IsPositive() {
		return t, fmt.Errorf("withdraw amount must be positive, got %s", t.Amount)
	}
	if err := ValidateCurrency(t.Amount.Currency()); err != nil {
		return t, fmt.Errorf("invalid currency for withdraw: %w", err)
	}
	return t, nil
}
