package env

import (
	"bytes"
	"sort"

	"github.com/refstake/refstake-go/blockchain/types"
	"github.com/refstake/refstake-go/common"
	"github.com/refstake/refstake-go/core/state"
	"github.com/refstake/refstake-go/vm/costs"
)

type Env interface {
	BlockNumber() uint64
	BlockTimeStamp() int64
	SetValue(ctx CallContext, key []byte, value []byte)
	GetValue(ctx CallContext, key []byte) []byte
	RemoveValue(ctx CallContext, key []byte)
	Deploy(ctx CallContext)
	Iterate(ctx CallContext, minKey []byte, maxKey []byte, f func(key []byte, value []byte) bool)
	ReadContractData(contractAddr common.Address, key []byte) []byte
	CodeHash(contractAddr common.Address) *common.Hash
	Event(ctx CallContext, name string, args ...[]byte)
}

type contractValue struct {
	value   []byte
	removed bool
}

// EnvImp buffers every write of a transaction. Nothing reaches the state
// until Commit; Reset discards the buffered writes and events.
type EnvImp struct {
	state      *state.StateDB
	block      *types.Header
	gasCounter *GasCounter

	contractStoreCache    map[common.Address]map[string]*contractValue
	deployedContractCache map[common.Address]common.Hash
	events                []*types.TxEvent
}

func NewEnvImp(s *state.StateDB, block *types.Header, gasCounter *GasCounter) *EnvImp {
	return &EnvImp{state: s, block: block, gasCounter: gasCounter,
		contractStoreCache:    map[common.Address]map[string]*contractValue{},
		deployedContractCache: map[common.Address]common.Hash{},
	}
}

func (e *EnvImp) Deploy(ctx CallContext) {
	e.deployedContractCache[ctx.ContractAddr()] = ctx.CodeHash()
	e.gasCounter.AddGas(costs.RegisterCodeGas)
}

func (e *EnvImp) CodeHash(contractAddr common.Address) *common.Hash {
	if codeHash, ok := e.deployedContractCache[contractAddr]; ok {
		return &codeHash
	}
	return e.state.GetCodeHash(contractAddr)
}

func (e *EnvImp) BlockTimeStamp() int64 {
	return e.block.Time
}

func (e *EnvImp) BlockNumber() uint64 {
	return e.block.Height
}

func (e *EnvImp) SetValue(ctx CallContext, key []byte, value []byte) {

	addr := ctx.ContractAddr()
	var cache map[string]*contractValue
	var ok bool
	if cache, ok = e.contractStoreCache[addr]; !ok {
		cache = make(map[string]*contractValue)
		e.contractStoreCache[addr] = cache
	}
	cache[string(key)] = &contractValue{
		value:   value,
		removed: false,
	}
	e.gasCounter.AddWrittenBytesAsGas(len(key) + len(value))
}

func (e *EnvImp) GetValue(ctx CallContext, key []byte) []byte {
	return e.ReadContractData(ctx.ContractAddr(), key)
}

func (e *EnvImp) RemoveValue(ctx CallContext, key []byte) {
	addr := ctx.ContractAddr()
	var cache map[string]*contractValue
	var ok bool
	if cache, ok = e.contractStoreCache[addr]; !ok {
		cache = map[string]*contractValue{}
		e.contractStoreCache[addr] = cache
	}
	cache[string(key)] = &contractValue{removed: true}
	e.gasCounter.AddGas(costs.RemoveStateGas)
}

// Iterate visits keys in [minKey; maxKey] in ascending order, buffered writes
// taking precedence over the committed state.
func (e *EnvImp) Iterate(ctx CallContext, minKey []byte, maxKey []byte, f func(key []byte, value []byte) (stopped bool)) {
	addr := ctx.ContractAddr()

	inRange := func(key []byte) bool {
		return (minKey == nil || bytes.Compare(key, minKey) >= 0) && (maxKey == nil || bytes.Compare(key, maxKey) <= 0)
	}

	merged := make(map[string][]byte)
	e.state.IterateContractStore(addr, minKey, maxKey, func(key []byte, value []byte) bool {
		merged[string(key)] = value
		return false
	})
	if cache, ok := e.contractStoreCache[addr]; ok {
		for key, value := range cache {
			if !inRange([]byte(key)) {
				continue
			}
			if value.removed {
				delete(merged, key)
			} else {
				merged[key] = value.value
			}
		}
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := merged[key]
		e.gasCounter.AddReadBytesAsGas(len(value))
		if f([]byte(key), value) {
			return
		}
	}
}

func (e *EnvImp) ReadContractData(contractAddr common.Address, key []byte) []byte {
	if cache, ok := e.contractStoreCache[contractAddr]; ok {
		if value, ok := cache[string(key)]; ok {
			if value.removed {
				return nil
			}
			e.gasCounter.AddReadBytesAsGas(len(value.value))
			return value.value
		}
	}
	value := e.state.GetContractValue(contractAddr, key)
	e.gasCounter.AddReadBytesAsGas(len(value))
	return value
}

func (e *EnvImp) Event(ctx CallContext, name string, args ...[]byte) {
	e.events = append(e.events, &types.TxEvent{
		Contract: ctx.ContractAddr(),
		Name:     name,
		Args:     args,
	})
	size := len(name)
	for _, arg := range args {
		size += len(arg)
	}
	e.gasCounter.AddGas(costs.EmitEventBase + size*costs.EmitEventPerByteGas)
}

func (e *EnvImp) Events() []*types.TxEvent {
	return e.events
}

func (e *EnvImp) Commit() {
	for contract, cache := range e.contractStoreCache {
		for k, v := range cache {
			if v.removed {
				e.state.RemoveContractValue(contract, []byte(k))
			} else {
				e.state.SetContractValue(contract, []byte(k), v.value)
			}
		}
	}
	for contract, codeHash := range e.deployedContractCache {
		e.state.DeployContract(contract, codeHash)
	}
}

func (e *EnvImp) Reset() {
	e.contractStoreCache = map[common.Address]map[string]*contractValue{}
	e.deployedContractCache = map[common.Address]common.Hash{}
	e.events = nil
}
