package database

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/refstake/refstake-go/blockchain/types"
	"github.com/refstake/refstake-go/common"
	"github.com/refstake/refstake-go/log"
	dbm "github.com/tendermint/tm-db"
)

// Repo keeps the node data that lives outside the contract state.
type Repo struct {
	db dbm.DB
}

func NewRepo(db dbm.DB) *Repo {
	return &Repo{
		db: db,
	}
}

// Contracts are the addresses deployed on an empty database.
type Contracts struct {
	RewardToken common.Address
	AssetToken  common.Address
	Referral    common.Address
	Staking     common.Address
}

// StoredReceipt is the persisted form of types.TxReceipt.
type StoredReceipt struct {
	TxHash          common.Hash
	ContractAddress common.Address
	From            common.Address
	Success         bool
	GasUsed         uint64
	Error           string
	Height          uint64
	Events          []*types.TxEvent
}

type storedHeader struct {
	Height     uint64
	Time       uint64
	ParentRoot common.Hash
}

func receiptKey(hash common.Hash) []byte {
	return append(append([]byte{}, receiptPrefix...), hash.Bytes()...)
}

func (r *Repo) ReadHead() *types.Header {
	data, err := r.db.Get(headBlockKey)
	if err != nil || data == nil {
		return nil
	}
	stored := new(storedHeader)
	if err := rlp.DecodeBytes(data, stored); err != nil {
		log.Error("Invalid block header RLP", "err", err)
		return nil
	}
	return &types.Header{Height: stored.Height, Time: int64(stored.Time), ParentRoot: stored.ParentRoot}
}

func (r *Repo) WriteHead(header *types.Header) error {
	if header.Time < 0 {
		return errors.New("negative header time")
	}
	data, err := rlp.EncodeToBytes(&storedHeader{
		Height:     header.Height,
		Time:       uint64(header.Time),
		ParentRoot: header.ParentRoot,
	})
	if err != nil {
		return err
	}
	return r.db.SetSync(headBlockKey, data)
}

func (r *Repo) WriteReceipt(height uint64, receipt *types.TxReceipt) error {
	stored := &StoredReceipt{
		TxHash:          receipt.TxHash,
		ContractAddress: receipt.ContractAddress,
		From:            receipt.From,
		Success:         receipt.Success,
		GasUsed:         receipt.GasUsed,
		Height:          height,
		Events:          receipt.Events,
	}
	if receipt.Error != nil {
		stored.Error = receipt.Error.Error()
	}
	data, err := rlp.EncodeToBytes(stored)
	if err != nil {
		return err
	}
	return r.db.Set(receiptKey(receipt.TxHash), data)
}

func (r *Repo) ReadReceipt(hash common.Hash) *StoredReceipt {
	data, err := r.db.Get(receiptKey(hash))
	if err != nil || data == nil {
		return nil
	}
	receipt := new(StoredReceipt)
	if err := rlp.DecodeBytes(data, receipt); err != nil {
		log.Error("Invalid receipt RLP", "hash", hash.Hex(), "err", err)
		return nil
	}
	return receipt
}

func (r *Repo) WriteContracts(contracts *Contracts) error {
	data, err := rlp.EncodeToBytes(contracts)
	if err != nil {
		return err
	}
	return r.db.SetSync(contractsKey, data)
}

func (r *Repo) ReadContracts() *Contracts {
	data, err := r.db.Get(contractsKey)
	if err != nil || data == nil {
		return nil
	}
	contracts := new(Contracts)
	if err := rlp.DecodeBytes(data, contracts); err != nil {
		log.Error("Invalid contracts RLP", "err", err)
		return nil
	}
	return contracts
}
