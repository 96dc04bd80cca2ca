package quantfolio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// Distribution selects the innovation distribution of a simulation.
type Distribution int

const (
	// Normal draws standard normal innovations.
	Normal Distribution = iota
	// StudentT draws Student-t innovations rescaled to unit variance, for
	// fatter tails. Degrees of freedom must exceed 2.
	StudentT
)

// DefaultDegreesOfFreedom is used for StudentT when the config leaves it zero.
const DefaultDegreesOfFreedom = 5

// mcBatchSize is the number of paths simulated between two cancellation checks.
const mcBatchSize = 1024

// MCConfig describes a geometric Brownian motion simulation of a portfolio
// value. Mean and Volatility are per period; Horizon counts periods.
type MCConfig struct {
	InitialValue     float64
	Mean             float64
	Volatility       float64
	Horizon          int
	Paths            int
	Seed             uint64 // non-zero seeds a private PCG for reproducible runs
	Distribution     Distribution
	DegreesOfFreedom float64 // StudentT only, default DefaultDegreesOfFreedom
}

// MCBands are interpolated percentiles of the terminal value distribution.
type MCBands struct {
	P5, P25, P50, P75, P95 float64
}

// MCResult is the terminal value distribution of a simulation.
type MCResult struct {
	Terminals         []float64 // one terminal value per path, in path order
	Mean              float64
	StdDev            float64
	ProbabilityOfLoss float64 // fraction of paths ending below the initial value
	Bands             MCBands
}

// Percentile returns the interpolated p-percentile (0..1) of the terminal
// values.
func (r *MCResult) Percentile(p float64) float64 {
	return quantile(r.Terminals, p)
}

// Simulate runs a geometric Brownian motion simulation. Identical seeded
// configs produce identical results; an unseeded run draws its randomness
// from the process-wide source. Cancellation is cooperative: the context is
// checked between path batches.
func Simulate(ctx context.Context, cfg MCConfig) (*MCResult, error) {
	if cfg.InitialValue <= 0 {
		return nil, fmt.Errorf("initial value must be positive, got %v", cfg.InitialValue)
	}
	if cfg.Horizon < 1 {
		return nil, fmt.Errorf("horizon must be at least 1 period, got %d", cfg.Horizon)
	}
	if cfg.Paths < 1 {
		return nil, fmt.Errorf("paths must be at least 1, got %d", cfg.Paths)
	}
	if cfg.Volatility < 0 {
		return nil, fmt.Errorf("volatility cannot be negative, got %v", cfg.Volatility)
	}
	df := cfg.DegreesOfFreedom
	if cfg.Distribution == StudentT {
		if df == 0 {
			df = DefaultDegreesOfFreedom
		}
		if df <= 2 {
			return nil, errors.New("student-t degrees of freedom must exceed 2")
		}
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, 0))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	draw := rng.NormFloat64
	if cfg.Distribution == StudentT {
		// Rescaled to unit variance so the configured volatility is honored.
		scale := math.Sqrt(df / (df - 2))
		draw = func() float64 { return studentT(rng, df) / scale }
	}

	drift := cfg.Mean - cfg.Volatility*cfg.Volatility/2
	terminals := make([]float64, 0, cfg.Paths)
	var losses int

	for done := 0; done < cfg.Paths; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch := min(mcBatchSize, cfg.Paths-done)
		for i := 0; i < batch; i++ {
			value := cfg.InitialValue
			for t := 0; t < cfg.Horizon; t++ {
				value *= math.Exp(drift + cfg.Volatility*draw())
			}
			terminals = append(terminals, value)
			if value < cfg.InitialValue {
				losses++
			}
		}
		done += batch
	}

	result := &MCResult{
		Terminals:         terminals,
		Mean:              mean(terminals),
		ProbabilityOfLoss: float64(losses) / float64(cfg.Paths),
	}
	if cfg.Paths > 1 {
		result.StdDev = sampleStdDev(terminals)
	}
	result.Bands = MCBands{
		P5:  quantile(terminals, 0.05),
		P25: quantile(terminals, 0.25),
		P50: quantile(terminals, 0.50),
		P75: quantile(terminals, 0.75),
		P95: quantile(terminals, 0.95),
	}
	return result, nil
}

// studentT draws from a Student-t distribution with df degrees of freedom
// using Bailey's polar method.
func studentT(rng *rand.Rand, df float64) float64 {
	for {
		u := 2*rng.Float64() - 1
		v := 2*rng.Float64() - 1
		w := u*u + v*v
		if w == 0 || w >= 1 {
			continue
		}
		return u * math.Sqrt(df*(math.Pow(w, -2/df)-1)/w)
	}
}
