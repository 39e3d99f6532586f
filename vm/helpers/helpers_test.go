package helpers

import (
	"github.com/refstake/refstake-go/common"
	"github.com/stretchr/testify/require"
	"math/big"
	"testing"
)

func TestExtractAddr(t *testing.T) {
	addr, err := ExtractAddr(1, nil, common.Address{0x5}.Bytes())
	require.NoError(t, err)
	require.Equal(t, common.Address{0x5}, addr)

	_, err = ExtractAddr(2, nil, common.Address{0x5}.Bytes())
	require.Equal(t, indexOufOfRange, err)

	_, err = ExtractAddr(0, []byte{0x1, 0x2})
	require.Equal(t, invalidAddress, err)
}

func TestExtractUInt64(t *testing.T) {
	v, err := ExtractUInt64(0, common.ToBytes(uint64(1002)))
	require.NoError(t, err)
	require.Equal(t, uint64(1002), v)

	_, err = ExtractUInt64(0, []byte{0x1})
	require.Error(t, err)
}

func TestExtractBigInt(t *testing.T) {
	v, err := ExtractBigInt(0, common.Tokens(5).Bytes())
	require.NoError(t, err)
	require.Equal(t, 0, common.Tokens(5).Cmp(v))

	v, err = ExtractBigInt(0, nil)
	require.NoError(t, err)
	require.Equal(t, 0, v.Cmp(big.NewInt(0)))
}
