package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"
	"github.com/quantfolio/quantfolio"
	"github.com/shopspring/decimal"
)

// jsonSeries extracts two parallel arrays (dates and values) from a provider
// JSON document with jsonpath expressions.
func jsonSeries(document any, datesPath, valuesPath string) ([]quantfolio.Date, []float64, error) {
	rawDates, err := jsonpath.Get(datesPath, document)
	if err != nil {
		return nil, nil, fmt.Errorf("error evaluating dates path %q: %w", datesPath, err)
	}
	rawValues, err := jsonpath.Get(valuesPath, document)
	if err != nil {
		return nil, nil, fmt.Errorf("error evaluating values path %q: %w", valuesPath, err)
	}

	jdates, ok := rawDates.([]any)
	if !ok {
		// a path can resolve to a single answer instead of a list of one
		jdates = []any{rawDates}
	}
	jvalues, ok := rawValues.([]any)
	if !ok {
		jvalues = []any{rawValues}
	}
	if len(jdates) != len(jvalues) {
		return nil, nil, fmt.Errorf("paths resolve to %d dates but %d values", len(jdates), len(jvalues))
	}

	dates := make([]quantfolio.Date, 0, len(jdates))
	values := make([]float64, 0, len(jvalues))
	for i := range jdates {
		str, ok := jdates[i].(string)
		if !ok {
			return nil, nil, fmt.Errorf("date %v is not a string", jdates[i])
		}
		day, err := quantfolio.ParseDate(str)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot parse date %q: %w", str, err)
		}
		val, ok := jvalues[i].(float64)
		if !ok {
			// some providers return numbers as strings
			sval, ok := jvalues[i].(string)
			if !ok {
				return nil, nil, fmt.Errorf("value %v on %s is neither a float nor a string", jvalues[i], day)
			}
			sval = strings.ReplaceAll(sval, ",", ".")
			val, err = strconv.ParseFloat(sval, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("value %q on %s is an invalid number: %w", sval, day, err)
			}
		}
		dates = append(dates, day)
		values = append(values, val)
	}
	return dates, values, nil
}

// readDocument loads a provider JSON document from a file.
func readDocument(filename string) (any, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read provider file %q: %w", filename, err)
	}
	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("provider file %q is not valid JSON: %w", filename, err)
	}
	return document, nil
}

// writeFileAtomically writes through a temp file and renames over the target.
func writeFileAtomically(filename string, write func(f *os.File) error) error {
	tmp := filename + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, filename)
}

// --- Import Prices Command ---

type importPricesCmd struct {
	file       string
	security   string
	currency   string
	datesPath  string
	valuesPath string
}

func (*importPricesCmd) Name() string     { return "import-prices" }
func (*importPricesCmd) Synopsis() string { return "import security prices from a provider JSON file" }
func (*importPricesCmd) Usage() string {
	return `qfs import-prices -f <provider.json> -s <security> [-c <currency>] [-dates <jsonpath>] [-values <jsonpath>]

  Extracts a date series and a price series from a provider JSON document
  using jsonpath expressions, and merges the points into the prices file.
  Points on days already present are replaced.
`
}

func (c *importPricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Provider JSON file to import from")
	f.StringVar(&c.security, "s", "", "Security ticker the prices belong to")
	f.StringVar(&c.currency, "c", "USD", "Trading currency of the prices")
	f.StringVar(&c.datesPath, "dates", "$[*].date", "jsonpath to the array of dates")
	f.StringVar(&c.valuesPath, "values", "$[*].close", "jsonpath to the array of closing prices")
}

func (c *importPricesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" || c.security == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if err := quantfolio.ValidateCurrency(c.currency); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	document, err := readDocument(c.file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	dates, values, err := jsonSeries(document, c.datesPath, c.valuesPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	table, err := decodePrices()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for i, day := range dates {
		table.Add(c.security, day, quantfolio.M(values[i], c.currency))
	}

	err = writeFileAtomically(*pricesFile, func(f *os.File) error {
		return quantfolio.EncodePriceTable(f, table)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing prices file: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Imported %d price points for %s into %s\n", len(dates), c.security, *pricesFile)
	return subcommands.ExitSuccess
}

// --- Import Rates Command ---

type importRatesCmd struct {
	file       string
	currency   string
	datesPath  string
	valuesPath string
}

func (*importRatesCmd) Name() string     { return "import-rates" }
func (*importRatesCmd) Synopsis() string { return "import exchange rates from a provider JSON file" }
func (*importRatesCmd) Usage() string {
	return `qfs import-rates -f <provider.json> -c <currency> [-dates <jsonpath>] [-values <jsonpath>]

  Extracts a date series and a rate series from a provider JSON document using
  jsonpath expressions, and merges the points into the rates file. A rate is
  the amount of base currency one unit of the foreign currency buys.
`
}

func (c *importRatesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Provider JSON file to import from")
	f.StringVar(&c.currency, "c", "", "Foreign currency the rates convert from")
	f.StringVar(&c.datesPath, "dates", "$[*].date", "jsonpath to the array of dates")
	f.StringVar(&c.valuesPath, "values", "$[*].rate", "jsonpath to the array of rates")
}

func (c *importRatesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" || c.currency == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if err := quantfolio.ValidateCurrency(c.currency); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	document, err := readDocument(c.file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	dates, values, err := jsonSeries(document, c.datesPath, c.valuesPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	table, err := decodeRates()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for i, day := range dates {
		if values[i] <= 0 {
			fmt.Fprintf(os.Stderr, "Error: rate on %s must be positive, got %v\n", day, values[i])
			return subcommands.ExitFailure
		}
		table.Add(c.currency, day, decimal.NewFromFloat(values[i]))
	}

	err = writeFileAtomically(*ratesFile, func(f *os.File) error {
		return quantfolio.EncodeRateTable(f, table)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing rates file: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Imported %d rate points for %s into %s\n", len(dates), c.currency, *ratesFile)
	return subcommands.ExitSuccess
}
