package core

import "testing"

func TestAddDuration(t *testing.T) {
	cases := []struct {
		name string
		a, b Duration
		want Duration
	}{
		{"both zero", 0, 0, 0},
		{"ordinary sum", 100, 250, 350},
		{"b zero is identity", 42, 0, 42},
		{"saturates at MaxDuration", MaxDuration, 1, MaxDuration},
		{"saturates on large sum", MaxDuration - 10, 20, MaxDuration},
		{"exact max is not saturated away", MaxDuration - 10, 10, MaxDuration},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := AddDuration(c.a, c.b); got != c.want {
				t.Errorf("AddDuration(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestScaleDuration(t *testing.T) {
	cases := []struct {
		name   string
		d      Duration
		factor float64
		want   Duration
	}{
		{"zero factor is identity", 100, 0, 100},
		{"zero duration stays zero regardless of factor", 0, 0.5, 0},
		{"negative duration clamps to zero", -5, 0.5, 0},
		{"ordinary scale", 100, 0.1, 110},
		{"scale that would overflow saturates at MaxDuration", MaxDuration / 2, 10, MaxDuration},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ScaleDuration(c.d, c.factor); got != c.want {
				t.Errorf("ScaleDuration(%d, %v) = %d, want %d", c.d, c.factor, got, c.want)
			}
		})
	}
}

func TestTimestampSubAndAdd(t *testing.T) {
	a := Timestamp(150)
	b := Timestamp(100)

	if got := a.Sub(b); got != Duration(50) {
		t.Errorf("Sub: got %d, want 50", got)
	}
	if got := b.Sub(a); got != Duration(-50) {
		t.Errorf("Sub (reversed): got %d, want -50", got)
	}
	if got := b.Add(Duration(50)); got != a {
		t.Errorf("Add: got %d, want %d", got, a)
	}
}
