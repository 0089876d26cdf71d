package contract

import (
	"fmt"
	"math/big"
	"strings"
)

// PoolDecimals is the fixed-point scale the pool contract accounts in
const PoolDecimals = 18

// FormatUnits renders a base-unit contract value as a display-unit
// decimal string. Trailing fractional zeros are trimmed, whole values
// keep a single ".0" fraction ("1.0", not "1").
func FormatUnits(value *big.Int, decimals int) string {
	if value == nil || value.Sign() == 0 {
		return "0.0"
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)

	neg := value.Sign() < 0
	abs := new(big.Int).Abs(value)

	whole := new(big.Int)
	frac := new(big.Int)
	whole.QuoRem(abs, scale, frac)

	fracStr := strings.TrimRight(fmt.Sprintf("%0*d", decimals, frac), "0")
	if fracStr == "" {
		fracStr = "0"
	}

	out := whole.String() + "." + fracStr
	if neg {
		out = "-" + out
	}
	return out
}
