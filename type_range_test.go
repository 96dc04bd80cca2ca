package quantfolio

import (
	"slices"
	"testing"
)

func TestNewRange_SwapsBounds(t *testing.T) {
	from, to := NewDate(2024, 3, 10), NewDate(2024, 1, 5)
	r := NewRange(from, to)
	if r.From != to || r.To != from {
		t.Errorf("NewRange() = %v, want bounds swapped", r)
	}
}

func TestRange_Contains(t *testing.T) {
	r := NewRange(NewDate(2024, 1, 10), NewDate(2024, 1, 20))
	tests := []struct {
		date Date
		want bool
	}{
		{NewDate(2024, 1, 9), false},
		{NewDate(2024, 1, 10), true},
		{NewDate(2024, 1, 15), true},
		{NewDate(2024, 1, 20), true},
		{NewDate(2024, 1, 21), false},
	}
	for _, tc := range tests {
		if got := r.Contains(tc.date); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestRange_Days(t *testing.T) {
	r := NewRange(NewDate(2024, 2, 27), NewDate(2024, 3, 1)) // across a leap day
	got := slices.Collect(r.Days())
	want := []Date{
		NewDate(2024, 2, 27),
		NewDate(2024, 2, 28),
		NewDate(2024, 2, 29),
		NewDate(2024, 3, 1),
	}
	if !slices.Equal(got, want) {
		t.Errorf("Days() = %v, want %v", got, want)
	}
}
