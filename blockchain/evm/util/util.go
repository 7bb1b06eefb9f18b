// Package util converts the EVM amounts between units.
package util

import (
	"math/big"
	"strings"
)

// ETHER_DECIMALS is the number of wei digits in one Ether
const ETHER_DECIMALS = 18

// FormatEther returns the wei amount as a decimal Ether string.
//
//	FormatEther(big.NewInt(1e18)) == "1.0"
//	FormatEther(big.NewInt(1))    == "0.000000000000000001"
func FormatEther(wei *big.Int) string {
	return FormatUnits(wei, ETHER_DECIMALS)
}

// FormatUnits returns the value with the decimal point placed decimals
// digits from the right. The result is exact, there is no rounding.
// The fraction has atleast one digit, the trailing zeros are removed.
func FormatUnits(value *big.Int, decimals uint) string {
	if value == nil {
		value = new(big.Int)
	}

	sign := ""
	if value.Sign() < 0 {
		sign = "-"
	}
	digits := new(big.Int).Abs(value).String()

	if uint(len(digits)) <= decimals {
		digits = strings.Repeat("0", int(decimals)-len(digits)+1) + digits
	}

	point := len(digits) - int(decimals)
	whole := digits[:point]
	fraction := strings.TrimRight(digits[point:], "0")
	if len(fraction) == 0 {
		fraction = "0"
	}

	return sign + whole + "." + fraction
}
