package aggregate

import (
	"math/big"
	"testing"
)

func bigFromString(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad test constant %q", s)
	}
	return v
}

func TestScaleNear(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"zero", "0", "0.000"},
		{"whole", "3000000000000000000000000", "3.000"},
		{"rounds half up", "1234500000000000000000000", "1.235"},
		{"rounds down", "1234400000000000000000000", "1.234"},
		{"sub-milli", "400000000000000000000", "0.000"},
		{"carry across point", "999999999999999999999999", "1.000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScaleNear(bigFromString(t, tt.raw)); got != tt.want {
				t.Errorf("ScaleNear(%s) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestScaleGas(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"tiny burn", "350", "0.00000"},
		{"one unit", "10000000000000000", "1.00000"},
		{"fractional", "12345670000000000", "1.23457"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScaleGas(bigFromString(t, tt.raw)); got != tt.want {
				t.Errorf("ScaleGas(%s) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}
