package config

import (
	"github.com/refstake/refstake-go/common"
	"github.com/shopspring/decimal"
)

// GenesisConf describes the state created on an empty database: the owner of
// every contract and the initial staking asset balances, in whole tokens.
type GenesisConf struct {
	Owner common.Address
	Time  int64
	Alloc map[common.Address]decimal.Decimal
}
