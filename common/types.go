package common

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

const (
	AddressLength = ethcommon.AddressLength
	HashLength    = ethcommon.HashLength

	// TokenDecimals is the fixed-point scale of every fungible amount handled by the contracts.
	TokenDecimals = 18
)

type Address = ethcommon.Address

type Hash = ethcommon.Hash

var TokenBase = new(big.Int).Exp(big.NewInt(10), big.NewInt(TokenDecimals), nil)

func BytesToAddress(b []byte) Address {
	return ethcommon.BytesToAddress(b)
}

func HexToAddress(s string) Address {
	return ethcommon.HexToAddress(s)
}

func IsHexAddress(s string) bool {
	return ethcommon.IsHexAddress(s)
}

func BytesToHash(b []byte) Hash {
	return ethcommon.BytesToHash(b)
}

// Tokens returns n whole tokens expressed in base units.
func Tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), TokenBase)
}
