package node

import (
	"bytes"
	"sort"

	"github.com/refstake/refstake-go/common"
	"github.com/shopspring/decimal"
)

func sortedAddresses(alloc map[common.Address]decimal.Decimal) []common.Address {
	addrs := make([]common.Address, 0, len(alloc))
	for addr := range alloc {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i].Bytes(), addrs[j].Bytes()) < 0
	})
	return addrs
}
