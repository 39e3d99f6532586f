package embedded

import (
	"bytes"
	"math/big"

	"github.com/pkg/errors"
	"github.com/refstake/refstake-go/common"
	"github.com/refstake/refstake-go/vm/env"
)

// receiptBook is the staking contract's own ReceiptTokenPort: balances keyed
// by (owner, id) in the contract storage.
type receiptBook struct {
	balances *env.Map
}

func newReceiptBook(e env.Env, ctx env.CallContext) *receiptBook {
	return &receiptBook{balances: env.NewMap([]byte("rcpt:"), e, ctx)}
}

func (b *receiptBook) MintReceipt(to common.Address, id uint64, quantity *big.Int) {
	if quantity.Sign() <= 0 {
		return
	}
	balance := b.BalanceOfReceipt(to, id)
	b.balances.Set(receiptKey(to, id), balance.Add(balance, quantity).Bytes())
}

func (b *receiptBook) BurnReceipt(from common.Address, id uint64, quantity *big.Int) error {
	balance := b.BalanceOfReceipt(from, id)
	if balance.Cmp(quantity) < 0 {
		return errors.Wrapf(ErrInsufficientBalance, "receipt %v", id)
	}
	balance.Sub(balance, quantity)
	if balance.Sign() == 0 {
		b.balances.Remove(receiptKey(from, id))
		return nil
	}
	b.balances.Set(receiptKey(from, id), balance.Bytes())
	return nil
}

func (b *receiptBook) BalanceOfReceipt(owner common.Address, id uint64) *big.Int {
	return new(big.Int).SetBytes(b.balances.Get(receiptKey(owner, id)))
}

// ReceiptsOf lists the ids owner holds a positive balance of, ascending.
func (b *receiptBook) ReceiptsOf(owner common.Address) []uint64 {
	var ids []uint64
	prefix := owner.Bytes()
	b.balances.Iterate(func(key []byte, value []byte) bool {
		if len(key) != common.AddressLength+8 {
			return false
		}
		switch c := bytes.Compare(key[:common.AddressLength], prefix); {
		case c < 0:
			return false
		case c > 0:
			return true
		}
		if new(big.Int).SetBytes(value).Sign() > 0 {
			ids = append(ids, common.KeyToUint64(key[common.AddressLength:]))
		}
		return false
	})
	return ids
}

func receiptKey(owner common.Address, id uint64) []byte {
	key := make([]byte, 0, common.AddressLength+8)
	key = append(key, owner.Bytes()...)
	return append(key, common.Uint64Key(id)...)
}
