package floatutils

import (
	"math"
	"testing"
)

func TestClip(t *testing.T) {
	tests := []struct {
		value, want float64
	}{
		{0.5, 0.5},
		{-3, -1},
		{3, 1},
		{math.Inf(1), 1},
		{math.Inf(-1), -1},
	}

	for _, test := range tests {
		if got := Clip(test.value, -1, 1); got != test.want {
			t.Errorf("Clip(%v): want %v, got %v", test.value, test.want, got)
		}
	}

	if !math.IsNaN(Clip(math.NaN(), -1, 1)) {
		t.Errorf("want NaN unchanged")
	}
}
