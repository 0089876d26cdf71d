package xrpl

import (
	"fmt"
	"math/big"
	"strings"
)

// ToDrops converts a display-unit decimal string to drops.
// The conversion is exact: the text is parsed digit-by-digit instead of
// going through binary floating point, and fractional digits beyond the
// sixth are truncated (floor for non-negative amounts, the only amounts
// accepted). The result is a non-negative integer decimal string.
func ToDrops(display string) (string, error) {
	s := strings.TrimSpace(display)
	if s == "" {
		return "", fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if strings.HasPrefix(s, "-") {
		return "", fmt.Errorf("negative amount %q", display)
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) {
		return "", fmt.Errorf("invalid amount %q", display)
	}
	if hasFrac && fracPart != "" && !isDigits(fracPart) {
		return "", fmt.Errorf("invalid amount %q", display)
	}

	// Keep at most six fractional digits, pad the rest with zeros
	if len(fracPart) > 6 {
		fracPart = fracPart[:6]
	}
	fracPart += strings.Repeat("0", 6-len(fracPart))

	whole, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return "", fmt.Errorf("invalid amount %q", display)
	}
	frac, ok := new(big.Int).SetString(fracPart, 10)
	if !ok {
		return "", fmt.Errorf("invalid amount %q", display)
	}

	drops := new(big.Int).Mul(whole, big.NewInt(DropsPerXRP))
	drops.Add(drops, frac)

	return drops.String(), nil
}

// FromDrops converts a drops decimal string back to display units.
// Trailing fractional zeros are trimmed; whole amounts render with a
// single ".0" fraction ("1.0", not "1").
func FromDrops(drops string) (string, error) {
	if drops == "" {
		return "", fmt.Errorf("invalid drops value %q", drops)
	}
	v, ok := new(big.Int).SetString(drops, 10)
	if !ok {
		return "", fmt.Errorf("invalid drops value %q", drops)
	}
	if v.Sign() < 0 {
		return "", fmt.Errorf("negative drops value %q", drops)
	}

	scale := big.NewInt(DropsPerXRP)
	whole := new(big.Int)
	frac := new(big.Int)
	whole.QuoRem(v, scale, frac)

	fracStr := strings.TrimRight(fmt.Sprintf("%06d", frac), "0")
	if fracStr == "" {
		fracStr = "0"
	}
	return whole.String() + "." + fracStr, nil
}

// AddDrops sums two drops decimal strings exactly
func AddDrops(a, b string) (string, error) {
	x, ok := new(big.Int).SetString(a, 10)
	if !ok {
		return "", fmt.Errorf("invalid drops value %q", a)
	}
	y, ok := new(big.Int).SetString(b, 10)
	if !ok {
		return "", fmt.Errorf("invalid drops value %q", b)
	}
	return new(big.Int).Add(x, y).String(), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
