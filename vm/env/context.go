package env

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/refstake/refstake-go/blockchain/types"
	"github.com/refstake/refstake-go/common"
)

type CallContext interface {
	Sender() common.Address
	ContractAddr() common.Address
	CodeHash() common.Hash
	Nonce() uint32
}

type CallContextImpl struct {
	tx       *types.Transaction
	codeHash common.Hash
}

func NewCallContextImpl(tx *types.Transaction, codeHash common.Hash) *CallContextImpl {
	return &CallContextImpl{tx: tx, codeHash: codeHash}
}

func (c *CallContextImpl) Nonce() uint32 {
	return c.tx.AccountNonce
}

func (c *CallContextImpl) ContractAddr() common.Address {
	return *c.tx.To
}

func (c *CallContextImpl) Sender() common.Address {
	return c.tx.From
}

func (c *CallContextImpl) CodeHash() common.Hash {
	return c.codeHash
}

type DeployContextImpl struct {
	tx       *types.Transaction
	codeHash common.Hash
}

func NewDeployContextImpl(tx *types.Transaction, codeHash common.Hash) *DeployContextImpl {
	return &DeployContextImpl{tx: tx, codeHash: codeHash}
}

func (d *DeployContextImpl) Nonce() uint32 {
	return d.tx.AccountNonce
}

func (d *DeployContextImpl) Sender() common.Address {
	return d.tx.From
}

func (d *DeployContextImpl) ContractAddr() common.Address {
	return ComputeContractAddr(d.tx.From, d.tx.AccountNonce)
}

func (d *DeployContextImpl) CodeHash() common.Hash {
	return d.codeHash
}

// InnerCallContext is used when one contract invokes another inside the same
// transaction: the calling contract becomes the sender.
type InnerCallContext struct {
	parent   CallContext
	contract common.Address
	codeHash common.Hash
}

func NewInnerCallContext(parent CallContext, contract common.Address, codeHash common.Hash) *InnerCallContext {
	return &InnerCallContext{parent: parent, contract: contract, codeHash: codeHash}
}

func (c *InnerCallContext) Sender() common.Address {
	return c.parent.ContractAddr()
}

func (c *InnerCallContext) ContractAddr() common.Address {
	return c.contract
}

func (c *InnerCallContext) CodeHash() common.Hash {
	return c.codeHash
}

func (c *InnerCallContext) Nonce() uint32 {
	return c.parent.Nonce()
}

type ReadContextImpl struct {
	Contract common.Address
	Code     common.Hash
}

func NewReadContextImpl(contract common.Address, codeHash common.Hash) *ReadContextImpl {
	return &ReadContextImpl{Contract: contract, Code: codeHash}
}

// Sender of a read-only call is the zero address.
func (r *ReadContextImpl) Sender() common.Address {
	return common.Address{}
}

func (r *ReadContextImpl) ContractAddr() common.Address {
	return r.Contract
}

func (r *ReadContextImpl) CodeHash() common.Hash {
	return r.Code
}

func (r *ReadContextImpl) Nonce() uint32 {
	return 0
}

func ComputeContractAddr(from common.Address, nonce uint32) common.Address {
	hash := crypto.Keccak256(from.Bytes(), common.ToBytes(nonce))
	return common.BytesToAddress(hash)
}
