package embedded

import (
	"math/big"

	"github.com/refstake/refstake-go/common"
	"github.com/refstake/refstake-go/stats/collector"
	"github.com/refstake/refstake-go/vm/env"
	"github.com/refstake/refstake-go/vm/helpers"
)

type EmbeddedContractType = common.Hash

var (
	RewardTokenContract    EmbeddedContractType
	ReferralSystemContract EmbeddedContractType
	StakingContract        EmbeddedContractType
	AvailableContracts     map[EmbeddedContractType]struct{}
)

func init() {
	RewardTokenContract.SetBytes([]byte{0x1})
	ReferralSystemContract.SetBytes([]byte{0x2})
	StakingContract.SetBytes([]byte{0x3})

	AvailableContracts = map[EmbeddedContractType]struct{}{
		RewardTokenContract:    {},
		ReferralSystemContract: {},
		StakingContract:        {},
	}
}

type Contract interface {
	Deploy(args ...[]byte) error
	Call(method string, args ...[]byte) error
	Read(method string, args ...[]byte) ([]byte, error)
}

// base contract with useful common methods

type BaseContract struct {
	ctx            env.CallContext
	env            env.Env
	statsCollector collector.StatsCollector
}

func (b *BaseContract) SetOwner(address common.Address) {
	b.env.SetValue(b.ctx, []byte("owner"), address.Bytes())
}

func (b *BaseContract) Owner() common.Address {
	return common.BytesToAddress(b.env.GetValue(b.ctx, []byte("owner")))
}

func (b *BaseContract) SetUint64(s string, value uint64) {
	b.env.SetValue(b.ctx, []byte(s), common.ToBytes(value))
}

func (b *BaseContract) GetUint64(s string) uint64 {
	data := b.env.GetValue(b.ctx, []byte(s))
	ret, _ := helpers.ExtractUInt64(0, data)
	return ret
}

func (b *BaseContract) SetAddress(s string, address common.Address) {
	b.env.SetValue(b.ctx, []byte(s), address.Bytes())
}

func (b *BaseContract) GetAddress(s string) (common.Address, bool) {
	data := b.env.GetValue(b.ctx, []byte(s))
	if len(data) != common.AddressLength {
		return common.Address{}, false
	}
	return common.BytesToAddress(data), true
}

func (b *BaseContract) SetBigInt(s string, value *big.Int) {
	b.env.SetValue(b.ctx, []byte(s), value.Bytes())
}

// GetBigInt returns zero for a missing value.
func (b *BaseContract) GetBigInt(s string) *big.Int {
	data := b.env.GetValue(b.ctx, []byte(s))
	return new(big.Int).SetBytes(data)
}

func (b *BaseContract) accessPolicy() AccessPolicy {
	return NewAccessPolicy(b.Owner())
}

func (b *BaseContract) emit(name string, args ...[]byte) {
	b.env.Event(b.ctx, name, args...)
}

// rewardTokenAt binds the token deployed at addr to the current transaction,
// with this contract as the caller.
func (b *BaseContract) rewardTokenAt(addr common.Address) (*RewardToken, error) {
	codeHash := b.env.CodeHash(addr)
	if codeHash == nil || *codeHash != RewardTokenContract {
		return nil, ErrTokenNotDeployed
	}
	return NewRewardToken(env.NewInnerCallContext(b.ctx, addr, RewardTokenContract), b.env, b.statsCollector), nil
}
