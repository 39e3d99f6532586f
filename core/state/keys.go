package state

import (
	"github.com/refstake/refstake-go/common"
)

var (
	// global db key holding nothing but the state prefix
	stateDbPrefixBytes = []byte{0x1}

	// state tree prefixes
	contractCodePrefix  = []byte{0x1}
	contractStorePrefix = []byte{0x5}
)

var StateDbKeys = &stateDbKeys{}

type stateDbKeys struct {
}

func (s *stateDbKeys) DbPrefix() []byte {
	return stateDbPrefixBytes
}

func (s *stateDbKeys) ContractCodeKey(addr common.Address) []byte {
	return append(append([]byte{}, contractCodePrefix...), addr[:]...)
}

func (s *stateDbKeys) ContractStoreKey(address common.Address, key []byte) []byte {
	return append(append(append([]byte{}, contractStorePrefix...), address[:]...), key...)
}
