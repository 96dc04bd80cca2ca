package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/quantfolio/quantfolio"
	"github.com/quantfolio/quantfolio/renderer"
)

type optionCmd struct {
	optionType string
	spot       float64
	strike     float64
	days       float64
	volatility float64
	rate       float64
	yield      float64
	price      float64
}

func (*optionCmd) Name() string     { return "option" }
func (*optionCmd) Synopsis() string { return "price a European option and its greeks" }
func (*optionCmd) Usage() string {
	return `qfs option -type <call|put> -S <spot> -K <strike> -T <days> -v <volatility> [-r <rate>] [-q <yield>]
qfs option -type <call|put> -S <spot> -K <strike> -T <days> -price <market_price> [-r <rate>] [-q <yield>]

  Prices a European option with the Black-Scholes-Merton model and reports its
  greeks. With -price instead of -v, solves for the implied volatility that
  reproduces the market price, then reports the greeks at that volatility.
`
}

func (c *optionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.optionType, "type", "call", "Option type (call, put)")
	f.Float64Var(&c.spot, "S", 0, "Spot price of the underlying")
	f.Float64Var(&c.strike, "K", 0, "Strike price")
	f.Float64Var(&c.days, "T", 0, "Days to expiry")
	f.Float64Var(&c.volatility, "v", 0, "Annualized volatility (e.g., 0.25)")
	f.Float64Var(&c.rate, "r", 0, "Annual risk free rate")
	f.Float64Var(&c.yield, "q", 0, "Continuous dividend yield")
	f.Float64Var(&c.price, "price", 0, "Observed market price, to solve for implied volatility")
}

func (c *optionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	optionType, err := quantfolio.ParseOptionType(c.optionType)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if c.spot <= 0 || c.strike <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	in := quantfolio.BSMInput{
		Type:          optionType,
		Spot:          c.spot,
		Strike:        c.strike,
		TimeToExpiry:  c.days / 365,
		Volatility:    c.volatility,
		RiskFreeRate:  c.rate,
		DividendYield: c.yield,
	}

	if c.price > 0 {
		iv, err := quantfolio.ImpliedVolatility(in, c.price, quantfolio.IVConfig{})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		in.Volatility = iv
		fmt.Printf("Implied volatility: %.4f\n\n", iv)
	}

	printMarkdown(renderer.OptionMarkdown(in))
	return subcommands.ExitSuccess
}
