package contract

import (
	"math/big"
	"testing"
)

func TestFormatUnits(t *testing.T) {
	wei := func(s string) *big.Int {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			t.Fatalf("bad test value %q", s)
		}
		return v
	}

	tests := []struct {
		name     string
		value    *big.Int
		expected string
	}{
		{"nil", nil, "0.0"},
		{"zero", big.NewInt(0), "0.0"},
		{"one unit", wei("1000000000000000000"), "1.0"},
		{"one and a half", wei("1500000000000000000"), "1.5"},
		{"smallest", wei("1"), "0.000000000000000001"},
		{"trailing zeros trimmed", wei("1200000000000000000"), "1.2"},
		{"large", wei("123456000000000000000000"), "123456.0"},
		{"negative", wei("-2500000000000000000"), "-2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatUnits(tt.value, PoolDecimals); got != tt.expected {
				t.Errorf("FormatUnits(%v) = %q, expected %q", tt.value, got, tt.expected)
			}
		})
	}
}
