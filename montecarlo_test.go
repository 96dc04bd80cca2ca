package quantfolio

import (
	"context"
	"math"
	"testing"
)

func TestSimulate_SeedReproducibility(t *testing.T) {
	cfg := MCConfig{
		InitialValue: 10000,
		Mean:         0.0003,
		Volatility:   0.012,
		Horizon:      252,
		Paths:        500,
		Seed:         42,
	}
	a, err := Simulate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	b, err := Simulate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	for i := range a.Terminals {
		if a.Terminals[i] != b.Terminals[i] {
			t.Fatalf("path %d differs between identical seeded runs: %v vs %v", i, a.Terminals[i], b.Terminals[i])
		}
	}

	cfg.Seed = 43
	c, err := Simulate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if a.Terminals[0] == c.Terminals[0] && a.Terminals[1] == c.Terminals[1] {
		t.Error("different seeds produced identical paths")
	}
}

func TestSimulate_ZeroVolatilityIsDeterministic(t *testing.T) {
	cfg := MCConfig{
		InitialValue: 1000,
		Mean:         0.001,
		Volatility:   0,
		Horizon:      10,
		Paths:        50,
		Seed:         1,
	}
	result, err := Simulate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	want := 1000 * math.Exp(0.001*10)
	for _, terminal := range result.Terminals {
		if math.Abs(terminal-want) > 1e-9 {
			t.Fatalf("terminal = %v, want %v", terminal, want)
		}
	}
	if result.ProbabilityOfLoss != 0 {
		t.Errorf("probability of loss = %v, want 0", result.ProbabilityOfLoss)
	}
	if result.StdDev > 1e-9 {
		t.Errorf("stddev = %v, want 0", result.StdDev)
	}
}

func TestSimulate_Bands(t *testing.T) {
	result, err := Simulate(context.Background(), MCConfig{
		InitialValue: 10000,
		Mean:         0.0002,
		Volatility:   0.015,
		Horizon:      126,
		Paths:        2000,
		Seed:         7,
	})
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	bands := result.Bands
	if !(bands.P5 <= bands.P25 && bands.P25 <= bands.P50 && bands.P50 <= bands.P75 && bands.P75 <= bands.P95) {
		t.Errorf("bands not ordered: %+v", bands)
	}
	if result.ProbabilityOfLoss <= 0 || result.ProbabilityOfLoss >= 1 {
		t.Errorf("probability of loss = %v, want strictly inside (0,1)", result.ProbabilityOfLoss)
	}
	if got := result.Percentile(0.50); got != bands.P50 {
		t.Errorf("Percentile(0.50) = %v, want %v", got, bands.P50)
	}
}

func TestSimulate_StudentT(t *testing.T) {
	t.Run("fat tails simulate", func(t *testing.T) {
		result, err := Simulate(context.Background(), MCConfig{
			InitialValue: 10000,
			Volatility:   0.02,
			Horizon:      20,
			Paths:        1000,
			Seed:         11,
			Distribution: StudentT,
		})
		if err != nil {
			t.Fatalf("Simulate() error = %v", err)
		}
		if len(result.Terminals) != 1000 {
			t.Fatalf("got %d paths, want 1000", len(result.Terminals))
		}
	})

	t.Run("degrees of freedom must exceed 2", func(t *testing.T) {
		_, err := Simulate(context.Background(), MCConfig{
			InitialValue:     1000,
			Volatility:       0.02,
			Horizon:          1,
			Paths:            1,
			Distribution:     StudentT,
			DegreesOfFreedom: 2,
		})
		if err == nil {
			t.Fatal("Simulate() with df=2, want error")
		}
	})
}

func TestSimulate_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Simulate(ctx, MCConfig{
		InitialValue: 1000,
		Volatility:   0.01,
		Horizon:      252,
		Paths:        100000,
	})
	if err != context.Canceled {
		t.Errorf("Simulate() error = %v, want context.Canceled", err)
	}
}

func TestSimulate_RejectsBadInputs(t *testing.T) {
	tests := []struct {
		name string
		cfg  MCConfig
	}{
		{"zero initial value", MCConfig{Horizon: 1, Paths: 1}},
		{"zero horizon", MCConfig{InitialValue: 1, Paths: 1}},
		{"zero paths", MCConfig{InitialValue: 1, Horizon: 1}},
		{"negative volatility", MCConfig{InitialValue: 1, Horizon: 1, Paths: 1, Volatility: -0.1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Simulate(context.Background(), tc.cfg); err == nil {
				t.Fatal("Simulate() accepted an invalid config")
			}
		})
	}
}
