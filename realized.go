package quantfolio

import "github.com/google/uuid"

// Term classifies a realized gain by holding duration for tax reporting.
type Term int

const (
	ShortTerm Term = iota
	LongTerm
)

func (t Term) String() string {
	switch t {
	case ShortTerm:
		return "short-term"
	case LongTerm:
		return "long-term"
	default:
		return "unknown"
	}
}

// RealizedEvent records the closing of (part of) a single lot. One closing
// trade consuming three lots emits three events. Events are immutable once
// emitted.
//
// The buy commission is already embedded in CostBasis through the lot's cost;
// Fees carries only the closing trade's commission share, allocated pro rata
// by consumed quantity. Gain = Proceeds - CostBasis - Fees.
type RealizedEvent struct {
	ID        string   `json:"id"`
	Portfolio string   `json:"portfolio"`
	Security  string   `json:"security"`
	Short     bool     `json:"short,omitempty"` // true when the closed lot was a short lot
	Open      Date     `json:"open"`            // date the consumed lot was opened
	Close     Date     `json:"close"`           // date of the closing trade
	Quantity  Quantity `json:"quantity"`        // always positive
	Proceeds  Money    `json:"proceeds"`
	CostBasis Money    `json:"costBasis"`
	Fees      Money    `json:"fees"`
	Gain      Money    `json:"gain"`
	Days      int      `json:"days"` // holding duration in days
	Term      Term     `json:"-"`
}

// newRealizedEvent assigns the event its identity and derived fields.
func newRealizedEvent(e RealizedEvent, longTermAfterDays int) RealizedEvent {
	e.ID = uuid.NewString()
	e.Days = e.Close.Sub(e.Open)
	e.Gain = e.Proceeds.Sub(e.CostBasis).Sub(e.Fees)
	if e.Days >= longTermAfterDays {
		e.Term = LongTerm
	} else {
		e.Term = ShortTerm
	}
	return e
}
