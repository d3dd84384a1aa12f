package aggregate

import (
	"math/big"
	"strings"
)

// Raw sums stay arbitrary-precision integers; only these display
// conversions produce scaled decimal strings, rounded half-up.
const (
	nearDecimals   = 24 // yoctoNEAR per NEAR
	nearFracDigits = 3

	gasDecimals   = 16
	gasFracDigits = 5
)

// ScaleNear renders a yoctoNEAR amount as NEAR with 3 fraction digits.
func ScaleNear(v *big.Int) string {
	return scaleDecimal(v, nearDecimals, nearFracDigits)
}

// ScaleGas renders a gas amount divided by 10^16 with 5 fraction digits.
func ScaleGas(v *big.Int) string {
	return scaleDecimal(v, gasDecimals, gasFracDigits)
}

// scaleDecimal divides a non-negative integer by 10^decimals and formats
// it with exactly frac fraction digits, rounding half-up.
func scaleDecimal(v *big.Int, decimals, frac int) string {
	unit := pow10(decimals - frac)
	half := new(big.Int).Rsh(unit, 1)

	// scaled is v in units of 10^-frac, rounded.
	scaled := new(big.Int).Add(v, half)
	scaled.Quo(scaled, unit)

	quo, rem := new(big.Int).QuoRem(scaled, pow10(frac), new(big.Int))
	fracStr := rem.String()
	if pad := frac - len(fracStr); pad > 0 {
		fracStr = strings.Repeat("0", pad) + fracStr
	}
	return quo.String() + "." + fracStr
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
