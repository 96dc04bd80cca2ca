package quantfolio

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// OptionType distinguishes calls from puts.
type OptionType int

const (
	Call OptionType = iota
	Put
)

func (t OptionType) String() string {
	switch t {
	case Call:
		return "call"
	case Put:
		return "put"
	default:
		return "unknown"
	}
}

// ParseOptionType parses a string into an OptionType.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	default:
		return 0, fmt.Errorf("unknown option type %q", s)
	}
}

// BSMInput holds the Black-Scholes-Merton pricing inputs. Rates, yields and
// volatility are annualized; time to expiry is in years.
type BSMInput struct {
	Type          OptionType
	Spot          float64
	Strike        float64
	TimeToExpiry  float64
	Volatility    float64
	RiskFreeRate  float64
	DividendYield float64
}

// Greeks are the analytic sensitivities of an option price. Theta is per
// calendar day, Vega per volatility point, Rho per rate point.
type Greeks struct {
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

func normCDF(x float64) float64 { return 0.5 * (1 + math.Erf(x/math.Sqrt2)) }

func normPDF(x float64) float64 { return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi) }

// d1d2 returns the two probability arguments of the closed form.
func (in BSMInput) d1d2() (d1, d2 float64) {
	sqrtT := math.Sqrt(in.TimeToExpiry)
	d1 = (math.Log(in.Spot/in.Strike) + (in.RiskFreeRate-in.DividendYield+in.Volatility*in.Volatility/2)*in.TimeToExpiry) /
		(in.Volatility * sqrtT)
	return d1, d1 - in.Volatility*sqrtT
}

// intrinsic returns the exercise value at the current spot.
func (in BSMInput) intrinsic() float64 {
	switch in.Type {
	case Call:
		return math.Max(in.Spot-in.Strike, 0)
	default:
		return math.Max(in.Strike-in.Spot, 0)
	}
}

// degenerate reports whether the closed form collapses: an expired contract
// or one with no volatility prices at intrinsic value.
func (in BSMInput) degenerate() bool {
	return in.TimeToExpiry <= 0 || in.Volatility <= 0
}

// Price returns the Black-Scholes-Merton value of the contract, with a
// continuous dividend yield. Degenerate contracts price at intrinsic value.
func (in BSMInput) Price() float64 {
	if in.degenerate() {
		return in.intrinsic()
	}
	d1, d2 := in.d1d2()
	spotDisc := in.Spot * math.Exp(-in.DividendYield*in.TimeToExpiry)
	strikeDisc := in.Strike * math.Exp(-in.RiskFreeRate*in.TimeToExpiry)
	if in.Type == Call {
		return spotDisc*normCDF(d1) - strikeDisc*normCDF(d2)
	}
	return strikeDisc*normCDF(-d2) - spotDisc*normCDF(-d1)
}

// Greeks returns the analytic sensitivities. For degenerate contracts delta
// collapses to the exercise indicator and the other Greeks to zero.
func (in BSMInput) Greeks() Greeks {
	if in.degenerate() {
		var delta float64
		if in.intrinsic() > 0 {
			if in.Type == Call {
				delta = 1
			} else {
				delta = -1
			}
		}
		return Greeks{Delta: delta}
	}

	d1, d2 := in.d1d2()
	sqrtT := math.Sqrt(in.TimeToExpiry)
	qDisc := math.Exp(-in.DividendYield * in.TimeToExpiry)
	rDisc := math.Exp(-in.RiskFreeRate * in.TimeToExpiry)
	pdf := normPDF(d1)

	g := Greeks{
		Gamma: qDisc * pdf / (in.Spot * in.Volatility * sqrtT),
		Vega:  in.Spot * qDisc * pdf * sqrtT / 100,
	}

	decay := -in.Spot * qDisc * pdf * in.Volatility / (2 * sqrtT)
	if in.Type == Call {
		g.Delta = qDisc * normCDF(d1)
		g.Theta = (decay - in.RiskFreeRate*in.Strike*rDisc*normCDF(d2) +
			in.DividendYield*in.Spot*qDisc*normCDF(d1)) / 365
		g.Rho = in.Strike * in.TimeToExpiry * rDisc * normCDF(d2) / 100
	} else {
		g.Delta = qDisc * (normCDF(d1) - 1)
		g.Theta = (decay + in.RiskFreeRate*in.Strike*rDisc*normCDF(-d2) -
			in.DividendYield*in.Spot*qDisc*normCDF(-d1)) / 365
		g.Rho = -in.Strike * in.TimeToExpiry * rDisc * normCDF(-d2) / 100
	}
	return g
}

// Volatility bounds for the implied volatility search.
const (
	minImpliedVol = 0.001
	maxImpliedVol = 5.0
)

// IVConfig tunes the implied volatility solver. The zero value gets defaults.
type IVConfig struct {
	MaxIterations int     // default 100
	Tolerance     float64 // price tolerance, default 1e-3
}

func (c IVConfig) withDefaults() IVConfig {
	if c.MaxIterations == 0 {
		c.MaxIterations = 100
	}
	if c.Tolerance == 0 {
		c.Tolerance = 1e-3
	}
	return c
}

// ImpliedVolatility inverts the pricing formula: it finds the volatility at
// which the contract prices at marketPrice. Newton iteration on vega, with a
// bisection fallback whenever a step leaves the bracket or vega vanishes.
// A market price outside what any volatility in [0.001, 5] can produce is a
// *NoConvergenceError.
func ImpliedVolatility(in BSMInput, marketPrice float64, cfg IVConfig) (float64, error) {
	cfg = cfg.withDefaults()
	if marketPrice <= 0 {
		return 0, errors.New("market price must be positive")
	}
	if in.TimeToExpiry <= 0 {
		return 0, errors.New("cannot imply volatility on an expired contract")
	}

	lo, hi := minImpliedVol, maxImpliedVol
	priceAt := func(sigma float64) float64 {
		in.Volatility = sigma
		return in.Price()
	}
	if marketPrice < priceAt(lo) || marketPrice > priceAt(hi) {
		return 0, &NoConvergenceError{What: "implied volatility (price unbracketed)", Iterations: 0}
	}

	sigma := 0.5 // starting guess in the middle of typical equity vols
	for i := 0; i < cfg.MaxIterations; i++ {
		in.Volatility = sigma
		price := in.Price()
		diff := price - marketPrice
		if math.Abs(diff) < cfg.Tolerance {
			return sigma, nil
		}

		// maintain the bisection bracket
		if diff > 0 {
			hi = sigma
		} else {
			lo = sigma
		}

		vega := in.Greeks().Vega * 100 // derivative per unit volatility
		next := sigma - diff/vega
		if vega < 1e-12 || next <= lo || next >= hi || math.IsNaN(next) {
			next = (lo + hi) / 2
		}
		sigma = next
	}
	return 0, &NoConvergenceError{What: "implied volatility", Iterations: cfg.MaxIterations}
}
