package quantfolio

import "fmt"

// The error types below carry enough fields for a caller to react
// programmatically (errors.As) instead of parsing messages.
//
// Data errors (bad or missing inputs): OverdraftError, MissingRateError,
// MissingPriceError, AlignmentError.
// Computation errors (valid inputs, no defined result): InsufficientDataError,
// NoConvergenceError.
//
// Degenerate but valid results are not errors: a zero-volatility Sharpe ratio
// is reported as NaN.

// OverdraftError reports a sell that exceeds the open quantity for a
// (security, portfolio) pair. The book state is left untouched.
type OverdraftError struct {
	Security  string
	Portfolio string
	Requested Quantity
	Held      Quantity
}

func (e *OverdraftError) Error() string {
	short := e.Requested.Sub(e.Held)
	return fmt.Sprintf("cannot sell %s %s in %q: only %s held (short by %s)",
		e.Requested, e.Security, e.Portfolio, e.Held, short)
}

// MissingRateError reports that no exchange rate is known at or before a date.
type MissingRateError struct {
	Currency string
	Base     string
	On       Date
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("no %s/%s exchange rate at or before %s", e.Currency, e.Base, e.On)
}

// MissingPriceError reports that a held security has no price at or before a
// date. Valuation never substitutes a silent zero.
type MissingPriceError struct {
	Security string
	On       Date
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("no price for %s at or before %s", e.Security, e.On)
}

// AlignmentError reports two series that cannot be compared: different
// lengths, or same length but different observation dates.
type AlignmentError struct {
	Reason string
}

func (e *AlignmentError) Error() string {
	return "series are not aligned: " + e.Reason
}

// InsufficientDataError reports a statistic requested on fewer observations
// than it needs to be meaningful.
type InsufficientDataError struct {
	Metric string
	Got    int
	Need   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s needs at least %d observations, got %d", e.Metric, e.Need, e.Got)
}

// NoConvergenceError reports an iterative solver that exhausted its iteration
// budget or could not bracket a root.
type NoConvergenceError struct {
	What       string
	Iterations int
}

func (e *NoConvergenceError) Error() string {
	return fmt.Sprintf("%s did not converge after %d iterations", e.What, e.Iterations)
}
