package quantfolio

import "testing"

func TestPercent_Strings(t *testing.T) {
	tests := []struct {
		p      Percent
		s      string
		signed string
	}{
		{Percent(25), "25.00%", "+25.00%"},
		{Percent(-3.456), "-3.46%", "-3.46%"},
		{Percent(0), "0.00%", "-"},
	}
	for _, tc := range tests {
		if got := tc.p.String(); got != tc.s {
			t.Errorf("String(%v) = %q, want %q", float64(tc.p), got, tc.s)
		}
		if got := tc.p.SignedString(); got != tc.signed {
			t.Errorf("SignedString(%v) = %q, want %q", float64(tc.p), got, tc.signed)
		}
	}
}

func TestPercent_Equal(t *testing.T) {
	if !Percent(12.34).Equal(Percent(12.34005)) {
		t.Error("Equal() should tolerate sub-display differences")
	}
	if Percent(12.34).Equal(Percent(12.35)) {
		t.Error("Equal() should reject a visible difference")
	}
}
