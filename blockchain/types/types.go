package types

import (
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/refstake/refstake-go/common"
)

const (
	DeployContractTx TxType = 0x1
	CallContractTx   TxType = 0x2
)

type TxType = uint16

// Header carries the host values a transaction executes against.
// Time is unix seconds and never decreases between consecutive headers.
type Header struct {
	Height     uint64
	Time       int64
	ParentRoot common.Hash
}

type Transaction struct {
	AccountNonce uint32
	Type         TxType
	From         common.Address
	To           *common.Address `rlp:"nil"`
	Payload      []byte          `rlp:"nil"`

	// caches
	hash atomic.Value
}

func (tx *Transaction) Hash() common.Hash {
	if hash := tx.hash.Load(); hash != nil {
		return hash.(common.Hash)
	}
	enc, err := rlp.EncodeToBytes(tx)
	if err != nil {
		panic(err)
	}
	h := crypto.Keccak256Hash(enc)
	tx.hash.Store(h)
	return h
}

type TxEvent struct {
	Contract common.Address
	Name     string
	Args     [][]byte
}

type TxReceipt struct {
	ContractAddress common.Address
	Success         bool
	GasUsed         uint64
	TxHash          common.Hash
	Error           error
	From            common.Address
	Events          []*TxEvent
}
