package quantfolio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// amountCmd is a specialized struct to read a ledger amount split over two
// fields. Inline json would work for some transactions but not all.
type amountCmd struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountCmd) Money() Money {
	return M(a.Amount, a.Currency)
}

// decodeTrade reads the shared buy/sell wire shape: quantity, per-unit price,
// optional fee, and a single currency tagging both money fields.
func decodeTrade(data []byte) (tradeCmd, error) {
	var temp struct {
		secCmd
		Quantity Quantity        `json:"quantity"`
		Price    decimal.Decimal `json:"price"`
		Fee      decimal.Decimal `json:"fee"`
		Currency string          `json:"currency"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return tradeCmd{}, err
	}
	return tradeCmd{
		secCmd:   temp.secCmd,
		Quantity: temp.Quantity,
		Price:    M(temp.Price, temp.Currency),
		Fee:      M(temp.Fee, temp.Currency),
	}, nil
}

// DecodeLedger decodes transactions from a stream of JSONL data, decodes each
// line into the appropriate transaction struct, and returns a sorted Ledger.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify command in line %q: %w", string(lineBytes), err)
		}

		var decodedTx Transaction
		var err error

		switch identifier.Command {
		case CmdBuy:
			var tx Buy
			err = json.Unmarshal(lineBytes, &tx)
			decodedTx = tx
		case CmdSell:
			var tx Sell
			err = json.Unmarshal(lineBytes, &tx)
			decodedTx = tx
		case CmdDividend:
			var tx Dividend
			err = json.Unmarshal(lineBytes, &tx)
			decodedTx = tx
		case CmdFee:
			var tx Fee
			err = json.Unmarshal(lineBytes, &tx)
			decodedTx = tx
		case CmdDeposit:
			var tx Deposit
			err = json.Unmarshal(lineBytes, &tx)
			decodedTx = tx
		case CmdWithdraw:
			var tx Withdraw
			err = json.Unmarshal(lineBytes, &tx)
			decodedTx = tx
		default:
			err = fmt.Errorf("unknown transaction command: %q", identifier.Command)
		}

		if err != nil {
			return nil, err
		}
		ledger.Append(decodedTx)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	// Perform a stable sort on the ledger based on the transaction date.
	ledger.stableSort()

	return ledger, nil
}

// EncodeTransaction marshals a single transaction to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	decimal.MarshalJSONWithoutQuotes = true
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLedger reorders transactions by date and persists them to an io.Writer
// in JSONL format. The sort is stable, meaning transactions on the same day
// maintain their original relative order. Keys within each transaction keep a
// fixed order for canonical output.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	decimal.MarshalJSONWithoutQuotes = true

	ledger.stableSort()

	for _, tx := range ledger.transactions {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}

	return nil
}
