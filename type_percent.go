package quantfolio

import (
	"fmt"
	"math"
)

// Percent is a percentage in points: Percent(25) prints as "25.00%".
type Percent float64

// Equal compares two percentages at display precision.
func (p Percent) Equal(q Percent) bool {
	const tolerance = 0.0001
	return math.Abs(float64(p-q)) < tolerance
}

func (p Percent) String() string { return fmt.Sprintf("%.2f%%", p) }

// SignedString always carries the sign, except for zero which reads "-".
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}
