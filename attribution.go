package quantfolio

import (
	"fmt"
	"math"
)

// Segment is one bucket (sector, region, factor) of a portfolio or benchmark:
// its weight in the whole and its return over the measured period.
type Segment struct {
	Name   string
	Weight float64
	Return float64
}

// BucketEffect is the Brinson-Fachler decomposition of one bucket's
// contribution to the active return.
type BucketEffect struct {
	Name        string
	Allocation  float64 // over/underweighting a bucket that beat/trailed the benchmark
	Selection   float64 // picking securities that beat the bucket's benchmark return
	Interaction float64 // the cross term of the two decisions
	Total       float64
}

// AttributionReport decomposes the active return of a portfolio against its
// benchmark across buckets. The three effect totals sum to the active return.
type AttributionReport struct {
	Buckets         []BucketEffect
	PortfolioReturn float64
	BenchmarkReturn float64
	ActiveReturn    float64
	Allocation      float64
	Selection       float64
	Interaction     float64
}

// BrinsonFachler decomposes the active return over aligned bucket sets. The
// portfolio and benchmark must cover exactly the same buckets, and each side's
// weights must sum to one; a mismatch is an *AlignmentError.
func BrinsonFachler(portfolio, benchmark []Segment) (*AttributionReport, error) {
	if len(portfolio) != len(benchmark) {
		return nil, &AlignmentError{Reason: fmt.Sprintf("%d portfolio buckets vs %d benchmark buckets", len(portfolio), len(benchmark))}
	}
	bench := make(map[string]Segment, len(benchmark))
	for _, seg := range benchmark {
		bench[seg.Name] = seg
	}
	for _, seg := range portfolio {
		if _, ok := bench[seg.Name]; !ok {
			return nil, &AlignmentError{Reason: fmt.Sprintf("bucket %q has no benchmark counterpart", seg.Name)}
		}
	}
	if err := checkWeights("portfolio", portfolio); err != nil {
		return nil, err
	}
	if err := checkWeights("benchmark", benchmark); err != nil {
		return nil, err
	}

	report := &AttributionReport{}
	for _, seg := range portfolio {
		report.PortfolioReturn += seg.Weight * seg.Return
	}
	for _, seg := range benchmark {
		report.BenchmarkReturn += seg.Weight * seg.Return
	}

	for _, p := range portfolio {
		b := bench[p.Name]
		effect := BucketEffect{
			Name:        p.Name,
			Allocation:  (p.Weight - b.Weight) * (b.Return - report.BenchmarkReturn),
			Selection:   b.Weight * (p.Return - b.Return),
			Interaction: (p.Weight - b.Weight) * (p.Return - b.Return),
		}
		effect.Total = effect.Allocation + effect.Selection + effect.Interaction
		report.Buckets = append(report.Buckets, effect)

		report.Allocation += effect.Allocation
		report.Selection += effect.Selection
		report.Interaction += effect.Interaction
	}
	report.ActiveReturn = report.PortfolioReturn - report.BenchmarkReturn
	return report, nil
}

func checkWeights(side string, segments []Segment) error {
	var sum float64
	for _, seg := range segments {
		if seg.Weight < 0 {
			return fmt.Errorf("%s bucket %q has negative weight %v", side, seg.Name, seg.Weight)
		}
		sum += seg.Weight
	}
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("%s weights sum to %v, want 1", side, sum)
	}
	return nil
}
