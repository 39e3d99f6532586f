package state

import (
	"github.com/pkg/errors"
	"github.com/refstake/refstake-go/common"
	"github.com/refstake/refstake-go/log"
	dbm "github.com/tendermint/tm-db"
)

// MaxContractStoreKeyLength bounds the length of a key inside one contract's storage.
const MaxContractStoreKeyLength = 64

var (
	contractStoreMinKey = make([]byte, 0)
	contractStoreMaxKey []byte
)

func init() {
	contractStoreMaxKey = make([]byte, MaxContractStoreKeyLength)
	for i := 0; i < len(contractStoreMaxKey); i++ {
		contractStoreMaxKey[i] = 0xFF
	}
}

// StateDB is the versioned store of deployed contracts and their storage.
// Writes land in the working tree; Commit saves a version, Reset drops
// everything written since the last saved version.
type StateDB struct {
	original dbm.DB
	db       dbm.DB
	tree     Tree

	log log.Logger
}

func NewStateDB(db dbm.DB) *StateDB {
	pdb := dbm.NewPrefixDB(db, StateDbKeys.DbPrefix())
	return &StateDB{
		original: db,
		db:       pdb,
		tree:     NewMutableTree(pdb),
		log:      log.New("component", "state"),
	}
}

// Load restores the latest saved version.
func (s *StateDB) Load() (int64, error) {
	version, err := s.tree.Load()
	if err != nil {
		return 0, errors.Wrap(err, "failed to load state tree")
	}
	s.log.Debug("State loaded", "version", version, "root", s.tree.Hash().Hex())
	return version, nil
}

func (s *StateDB) Version() int64 {
	return s.tree.Version()
}

// Root is the hash of the last saved version.
func (s *StateDB) Root() common.Hash {
	return s.tree.Hash()
}

// WorkingRoot includes writes not yet committed.
func (s *StateDB) WorkingRoot() common.Hash {
	return s.tree.WorkingHash()
}

func (s *StateDB) Commit() (common.Hash, int64, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return common.Hash{}, 0, errors.Wrap(err, "failed to save state version")
	}
	return common.BytesToHash(hash), version, nil
}

func (s *StateDB) Reset() {
	s.tree.Rollback()
}

func (s *StateDB) DeployContract(addr common.Address, codeHash common.Hash) {
	s.tree.Set(StateDbKeys.ContractCodeKey(addr), codeHash.Bytes())
}

func (s *StateDB) GetCodeHash(addr common.Address) *common.Hash {
	_, value := s.tree.Get(StateDbKeys.ContractCodeKey(addr))
	if value == nil {
		return nil
	}
	hash := common.BytesToHash(value)
	return &hash
}

func (s *StateDB) SetContractValue(addr common.Address, key []byte, value []byte) {
	s.tree.Set(StateDbKeys.ContractStoreKey(addr, key), value)
}

func (s *StateDB) GetContractValue(addr common.Address, key []byte) []byte {
	_, value := s.tree.Get(StateDbKeys.ContractStoreKey(addr, key))
	return value
}

func (s *StateDB) RemoveContractValue(addr common.Address, key []byte) {
	s.tree.Remove(StateDbKeys.ContractStoreKey(addr, key))
}

// IterateContractStore visits the storage of addr with minKey <= key <= maxKey in key order.
// Keys passed to f are relative to the contract storage.
func (s *StateDB) IterateContractStore(addr common.Address, minKey []byte, maxKey []byte, f func(key []byte, value []byte) bool) {
	if minKey == nil {
		minKey = contractStoreMinKey
	}
	if maxKey == nil {
		maxKey = contractStoreMaxKey
	}
	offset := len(contractStorePrefix) + common.AddressLength
	s.tree.IterateRangeInclusive(StateDbKeys.ContractStoreKey(addr, minKey), StateDbKeys.ContractStoreKey(addr, maxKey), true,
		func(key []byte, value []byte) (stopped bool) {
			return f(key[offset:], value)
		})
}
