package math

import (
	"github.com/refstake/refstake-go/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"math/big"
	"testing"
)

func TestToInt(t *testing.T) {
	v := decimal.NewFromBigInt(big.NewInt(77777000000000000), -14)
	s := "777"
	require.Equal(t, s, ToInt(&v).String())

	v = decimal.NewFromBigInt(big.NewInt(100), -10)
	s = "0"
	require.Equal(t, s, ToInt(&v).String())

	v = decimal.NewFromBigInt(big.NewInt(123), 3)
	s = "123000"
	require.Equal(t, s, ToInt(&v).String())
}

func TestTokenAmount(t *testing.T) {
	require.Equal(t, 0, common.Tokens(5).Cmp(TokenAmount(decimal.NewFromInt(5))))

	half, err := decimal.NewFromString("0.5")
	require.NoError(t, err)
	require.Equal(t, "500000000000000000", TokenAmount(half).String())

	dust, err := decimal.NewFromString("0.0000000000000000001")
	require.NoError(t, err)
	require.Equal(t, 0, TokenAmount(dust).Sign())
}

func TestFromTokenAmount(t *testing.T) {
	require.Equal(t, "10", FromTokenAmount(common.Tokens(10)).String())
	require.Equal(t, "0.000000000000000001", FromTokenAmount(big.NewInt(1)).String())
	require.True(t, FromTokenAmount(nil).IsZero())
}
