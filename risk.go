package quantfolio

import (
	"errors"
	"math"
	"sort"
)

// DefaultMinSamples is the number of observations below which ratio metrics
// (Sharpe, Sortino, VaR, CVaR) refuse to produce a number.
const DefaultMinSamples = 20

// DefaultConfidence is the confidence level used for VaR and CVaR when the
// config leaves it zero.
const DefaultConfidence = 0.95

// RiskConfig tunes the risk metrics. The zero value gets sensible defaults.
type RiskConfig struct {
	RiskFreeRate   float64 // annualized risk-free rate, e.g. 0.03
	MinSamples     int     // minimum observations for ratio metrics, default DefaultMinSamples
	Confidence     float64 // VaR/CVaR confidence level, default DefaultConfidence
	DownsideTarget float64 // per-period minimal acceptable return for Sortino, default 0
}

func (c RiskConfig) withDefaults() RiskConfig {
	if c.MinSamples == 0 {
		c.MinSamples = DefaultMinSamples
	}
	if c.Confidence == 0 {
		c.Confidence = DefaultConfidence
	}
	return c
}

// VaRMethod selects how Value at Risk is estimated.
type VaRMethod int

const (
	// VaRHistorical reads the empirical quantile of the observed returns,
	// interpolating linearly between order statistics.
	VaRHistorical VaRMethod = iota
	// VaRParametric assumes normal returns scaled by the sample mean and
	// standard deviation.
	VaRParametric
)

// mean returns the arithmetic mean.
func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleVariance returns the unbiased (n-1) variance. Float accumulation
// leaves a constant series with a tiny nonzero sum, so anything below 1e-24
// counts as flat.
func sampleVariance(xs []float64) float64 {
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	v := sum / float64(len(xs)-1)
	if v < 1e-24 {
		return 0
	}
	return v
}

func sampleStdDev(xs []float64) float64 { return math.Sqrt(sampleVariance(xs)) }

// sampleCovariance returns the unbiased (n-1) covariance of two equal-length
// slices.
func sampleCovariance(xs, ys []float64) float64 {
	mx, my := mean(xs), mean(ys)
	var sum float64
	for i := range xs {
		sum += (xs[i] - mx) * (ys[i] - my)
	}
	return sum / float64(len(xs)-1)
}

// quantile returns the p-quantile (0..1) of xs with linear interpolation
// between order statistics. xs must be non-empty; it is not modified.
func quantile(xs []float64, p float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	frac := h - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// normQuantile is the standard normal inverse CDF.
func normQuantile(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}

// Volatility returns the annualized sample standard deviation of the returns.
func Volatility(s *ReturnSeries) (float64, error) {
	if s.Len() < 2 {
		return 0, &InsufficientDataError{Metric: "volatility", Got: s.Len(), Need: 2}
	}
	return sampleStdDev(s.Returns) * math.Sqrt(s.Period.PeriodsPerYear()), nil
}

// SharpeRatio returns the annualized excess return per unit of volatility.
// Zero volatility is a degenerate but valid input: the result is NaN, not an
// error.
func SharpeRatio(s *ReturnSeries, cfg RiskConfig) (float64, error) {
	cfg = cfg.withDefaults()
	if s.Len() < cfg.MinSamples {
		return 0, &InsufficientDataError{Metric: "sharpe ratio", Got: s.Len(), Need: cfg.MinSamples}
	}
	ppy := s.Period.PeriodsPerYear()
	excess := mean(s.Returns) - cfg.RiskFreeRate/ppy
	std := sampleStdDev(s.Returns)
	if std == 0 {
		return math.NaN(), nil
	}
	return excess / std * math.Sqrt(ppy), nil
}

// SortinoRatio is the Sharpe variant that only penalizes volatility below the
// configured per-period target. No observation below target makes the
// downside deviation zero and the result NaN.
func SortinoRatio(s *ReturnSeries, cfg RiskConfig) (float64, error) {
	cfg = cfg.withDefaults()
	if s.Len() < cfg.MinSamples {
		return 0, &InsufficientDataError{Metric: "sortino ratio", Got: s.Len(), Need: cfg.MinSamples}
	}
	ppy := s.Period.PeriodsPerYear()
	var sum float64
	for _, r := range s.Returns {
		if d := r - cfg.DownsideTarget; d < 0 {
			sum += d * d
		}
	}
	downside := math.Sqrt(sum / float64(s.Len()))
	if downside == 0 {
		return math.NaN(), nil
	}
	excess := mean(s.Returns) - cfg.RiskFreeRate/ppy
	return excess / downside * math.Sqrt(ppy), nil
}

// ValueAtRisk estimates the per-period return at the configured confidence
// level, in returns space: a negative result is a loss. The caller picks the
// estimation method.
func ValueAtRisk(s *ReturnSeries, cfg RiskConfig, method VaRMethod) (float64, error) {
	cfg = cfg.withDefaults()
	if s.Len() < cfg.MinSamples {
		return 0, &InsufficientDataError{Metric: "value at risk", Got: s.Len(), Need: cfg.MinSamples}
	}
	switch method {
	case VaRHistorical:
		return quantile(s.Returns, 1-cfg.Confidence), nil
	case VaRParametric:
		return mean(s.Returns) + sampleStdDev(s.Returns)*normQuantile(1-cfg.Confidence), nil
	default:
		return 0, errors.New("unknown VaR method")
	}
}

// ConditionalVaR (expected shortfall) is the mean of the returns at or below
// the historical VaR. It is never above the VaR it conditions on.
func ConditionalVaR(s *ReturnSeries, cfg RiskConfig) (float64, error) {
	v, err := ValueAtRisk(s, cfg, VaRHistorical)
	if err != nil {
		return 0, err
	}
	var sum float64
	var n int
	for _, r := range s.Returns {
		if r <= v {
			sum += r
			n++
		}
	}
	if n == 0 {
		// The interpolated quantile sits below the minimum only when p==0;
		// fall back to the worst observation.
		return quantile(s.Returns, 0), nil
	}
	return sum / float64(n), nil
}

// MaxDrawdown returns the largest peak-to-trough decline of a non-negative
// value series, as a fraction in [0, 1]. It is 0 exactly when the series
// never declines; a trough at zero is a full drawdown of 1.
func MaxDrawdown(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, &InsufficientDataError{Metric: "max drawdown", Got: 0, Need: 1}
	}
	peak := values[0]
	var maxDD float64
	for _, v := range values {
		if v < 0 {
			return 0, errors.New("max drawdown requires non-negative values")
		}
		if v > peak {
			peak = v
		}
		if peak == 0 {
			continue
		}
		if dd := (peak - v) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD, nil
}

// Beta measures the sensitivity of a return series to a benchmark:
// cov(r, b) / var(b). The two series must be aligned observation by
// observation. A flat benchmark has no defined beta and yields NaN.
func Beta(s, benchmark *ReturnSeries) (float64, error) {
	if err := s.alignedWith(benchmark); err != nil {
		return 0, err
	}
	if s.Len() < 2 {
		return 0, &InsufficientDataError{Metric: "beta", Got: s.Len(), Need: 2}
	}
	v := sampleVariance(benchmark.Returns)
	if v == 0 {
		return math.NaN(), nil
	}
	return sampleCovariance(s.Returns, benchmark.Returns) / v, nil
}

// TrackingError is the annualized standard deviation of the active returns
// (portfolio minus benchmark).
func TrackingError(s, benchmark *ReturnSeries) (float64, error) {
	if err := s.alignedWith(benchmark); err != nil {
		return 0, err
	}
	if s.Len() < 2 {
		return 0, &InsufficientDataError{Metric: "tracking error", Got: s.Len(), Need: 2}
	}
	active := make([]float64, s.Len())
	for i := range active {
		active[i] = s.Returns[i] - benchmark.Returns[i]
	}
	return sampleStdDev(active) * math.Sqrt(s.Period.PeriodsPerYear()), nil
}

// InformationRatio is the annualized mean active return per unit of tracking
// error. A zero tracking error yields NaN.
func InformationRatio(s, benchmark *ReturnSeries) (float64, error) {
	if err := s.alignedWith(benchmark); err != nil {
		return 0, err
	}
	if s.Len() < 2 {
		return 0, &InsufficientDataError{Metric: "information ratio", Got: s.Len(), Need: 2}
	}
	active := make([]float64, s.Len())
	for i := range active {
		active[i] = s.Returns[i] - benchmark.Returns[i]
	}
	std := sampleStdDev(active)
	if std == 0 {
		return math.NaN(), nil
	}
	return mean(active) / std * math.Sqrt(s.Period.PeriodsPerYear()), nil
}

// Correlation is the Pearson correlation of two aligned return series. Either
// series being flat yields NaN.
func Correlation(s, benchmark *ReturnSeries) (float64, error) {
	if err := s.alignedWith(benchmark); err != nil {
		return 0, err
	}
	if s.Len() < 2 {
		return 0, &InsufficientDataError{Metric: "correlation", Got: s.Len(), Need: 2}
	}
	sx, sy := sampleStdDev(s.Returns), sampleStdDev(benchmark.Returns)
	if sx == 0 || sy == 0 {
		return math.NaN(), nil
	}
	return sampleCovariance(s.Returns, benchmark.Returns) / (sx * sy), nil
}

// RiskReport bundles the metrics computed over a single return series.
type RiskReport struct {
	Portfolio      string
	Range          Range
	Observations   int
	Volatility     float64
	Sharpe         float64
	Sortino        float64
	HistoricalVaR  float64
	ParametricVaR  float64
	CVaR           float64
	MaxDrawdown    float64
	RiskFreeRate   float64
	Confidence     float64
	PeriodsPerYear float64
}

// NewRiskReport computes the full set of single-series metrics over a
// snapshot series.
func NewRiskReport(portfolio string, snapshots []PortfolioSnapshot, period Period, cfg RiskConfig) (*RiskReport, error) {
	cfg = cfg.withDefaults()
	series, err := NewReturnSeries(snapshots, period)
	if err != nil {
		return nil, err
	}

	report := &RiskReport{
		Portfolio:      portfolio,
		Observations:   series.Len(),
		RiskFreeRate:   cfg.RiskFreeRate,
		Confidence:     cfg.Confidence,
		PeriodsPerYear: period.PeriodsPerYear(),
	}
	if len(snapshots) > 0 {
		report.Range = Range{From: snapshots[0].Date, To: snapshots[len(snapshots)-1].Date}
	}

	if report.Volatility, err = Volatility(series); err != nil {
		return nil, err
	}
	if report.Sharpe, err = SharpeRatio(series, cfg); err != nil {
		return nil, err
	}
	if report.Sortino, err = SortinoRatio(series, cfg); err != nil {
		return nil, err
	}
	if report.HistoricalVaR, err = ValueAtRisk(series, cfg, VaRHistorical); err != nil {
		return nil, err
	}
	if report.ParametricVaR, err = ValueAtRisk(series, cfg, VaRParametric); err != nil {
		return nil, err
	}
	if report.CVaR, err = ConditionalVaR(series, cfg); err != nil {
		return nil, err
	}

	values := make([]float64, len(snapshots))
	for i, snap := range snapshots {
		values[i] = snap.TotalValue.AsFloat()
	}
	if report.MaxDrawdown, err = MaxDrawdown(values); err != nil {
		return nil, err
	}
	return report, nil
}

// BenchmarkReport bundles the metrics computed against a benchmark series.
type BenchmarkReport struct {
	Benchmark        string
	Beta             float64
	Correlation      float64
	TrackingError    float64
	InformationRatio float64
}

// NewBenchmarkReport computes the relative metrics of a return series
// against an aligned benchmark series.
func NewBenchmarkReport(benchmark string, s, b *ReturnSeries) (*BenchmarkReport, error) {
	report := &BenchmarkReport{Benchmark: benchmark}
	var err error
	if report.Beta, err = Beta(s, b); err != nil {
		return nil, err
	}
	if report.Correlation, err = Correlation(s, b); err != nil {
		return nil, err
	}
	if report.TrackingError, err = TrackingError(s, b); err != nil {
		return nil, err
	}
	if report.InformationRatio, err = InformationRatio(s, b); err != nil {
		return nil, err
	}
	return report, nil
}
