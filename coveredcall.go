package quantfolio

import (
	"fmt"
	"slices"
)

// OptionQuote is one listed contract of an option chain supplied by the
// caller. Bid is the quoted premium per share; when zero the scan falls back
// to the theoretical price at ImpliedVol.
type OptionQuote struct {
	Security     string
	Type         OptionType
	Strike       float64
	Expiry       Date
	Bid          float64
	OpenInterest int
	ImpliedVol   float64
}

// CallObjective selects the ranking key of a covered-call scan.
type CallObjective int

const (
	// ByAnnualizedStatic ranks by the annualized premium yield, assuming the
	// call expires worthless.
	ByAnnualizedStatic CallObjective = iota
	// ByAnnualizedIfCalled ranks by the annualized total return when the
	// shares are called away at the strike.
	ByAnnualizedIfCalled
	// ByPremium ranks by the raw premium per share.
	ByPremium
)

// CoveredCallConfig tunes the scan.
type CoveredCallConfig struct {
	AsOf            Date
	RiskFreeRate    float64
	DividendYield   float64
	MinOpenInterest int
	Objective       CallObjective
}

// CoveredCallCandidate is one writable call on a held long position, with the
// income metrics the scan ranks on.
type CoveredCallCandidate struct {
	Security           string
	Position           Quantity
	Contracts          int // position / 100, rounded down
	Spot               float64
	Strike             float64
	Expiry             Date
	Days               int
	Premium            float64 // per share
	StaticReturn       float64 // premium / spot
	AnnualizedStatic   float64
	IfCalledReturn     float64 // (premium + strike - spot) / spot
	AnnualizedIfCalled float64
}

// ScanCoveredCalls filters the supplied chain down to out-of-the-money calls
// on held long positions with enough open interest, prices each, and returns
// the candidates ranked by the configured objective (best first).
func ScanCoveredCalls(positions []Position, prices *PriceTable, chain []OptionQuote, cfg CoveredCallConfig) ([]CoveredCallCandidate, error) {
	var candidates []CoveredCallCandidate

	for _, pos := range positions {
		if !pos.Quantity.IsPositive() {
			continue
		}
		spotPrice, err := prices.PriceAsOf(pos.Security, cfg.AsOf)
		if err != nil {
			return nil, err
		}
		spot := spotPrice.AsFloat()
		if spot <= 0 {
			return nil, fmt.Errorf("non-positive spot price for %s", pos.Security)
		}

		for _, quote := range chain {
			if quote.Security != pos.Security || quote.Type != Call {
				continue
			}
			if quote.Strike <= spot || quote.OpenInterest < cfg.MinOpenInterest {
				continue
			}
			days := quote.Expiry.Sub(cfg.AsOf)
			if days <= 0 {
				continue
			}

			premium := quote.Bid
			if premium <= 0 {
				premium = BSMInput{
					Type:          Call,
					Spot:          spot,
					Strike:        quote.Strike,
					TimeToExpiry:  float64(days) / 365,
					Volatility:    quote.ImpliedVol,
					RiskFreeRate:  cfg.RiskFreeRate,
					DividendYield: cfg.DividendYield,
				}.Price()
			}

			static := premium / spot
			ifCalled := (premium + quote.Strike - spot) / spot
			annualize := 365 / float64(days)
			candidates = append(candidates, CoveredCallCandidate{
				Security:           pos.Security,
				Position:           pos.Quantity,
				Contracts:          int(pos.Quantity.Div(Q(100)).value.IntPart()),
				Spot:               spot,
				Strike:             quote.Strike,
				Expiry:             quote.Expiry,
				Days:               days,
				Premium:            premium,
				StaticReturn:       static,
				AnnualizedStatic:   static * annualize,
				IfCalledReturn:     ifCalled,
				AnnualizedIfCalled: ifCalled * annualize,
			})
		}
	}

	key := func(c CoveredCallCandidate) float64 {
		switch cfg.Objective {
		case ByAnnualizedIfCalled:
			return c.AnnualizedIfCalled
		case ByPremium:
			return c.Premium
		default:
			return c.AnnualizedStatic
		}
	}
	slices.SortStableFunc(candidates, func(a, b CoveredCallCandidate) int {
		switch {
		case key(a) > key(b):
			return -1
		case key(a) < key(b):
			return 1
		default:
			return 0
		}
	})
	return candidates, nil
}
