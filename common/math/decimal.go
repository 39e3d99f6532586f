package math

import (
	"math/big"

	"github.com/refstake/refstake-go/common"
	"github.com/shopspring/decimal"
)

func abs(n int64) int64 {
	y := n >> 63
	return (n ^ y) - y
}

// ToInt truncates value towards zero.
func ToInt(value *decimal.Decimal) *big.Int {

	m := value.Coefficient()
	exp := value.Exponent()

	if exp == 0 {
		return m
	}

	coef := big.NewInt(1)

	for i := int64(0); i < abs(int64(exp)); i++ {
		coef.Mul(coef, big.NewInt(10))
	}

	if exp < 0 {
		m.Quo(m, coef)
	} else {
		m.Mul(m, coef)
	}
	return m
}

// TokenAmount converts whole tokens (e.g. 2.5) into base units.
func TokenAmount(value decimal.Decimal) *big.Int {
	shifted := value.Shift(common.TokenDecimals)
	return ToInt(&shifted)
}

// FromTokenAmount converts base units into whole tokens.
func FromTokenAmount(amount *big.Int) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -common.TokenDecimals)
}
