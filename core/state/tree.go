package state

import (
	"sync"

	"github.com/refstake/refstake-go/common"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tm-db"
)

type Tree interface {
	Get(key []byte) (index int64, value []byte)
	Set(key, value []byte) bool
	Remove(key []byte) ([]byte, bool)
	Load() (int64, error)
	LoadVersion(targetVersion int64) (int64, error)
	SaveVersion() ([]byte, int64, error)
	Version() int64
	Hash() common.Hash
	WorkingHash() common.Hash
	Rollback()
	IterateRangeInclusive(start, end []byte, ascending bool, fn func(key, value []byte) bool) (stopped bool)
}

func NewMutableTree(db dbm.DB) *MutableTree {
	return &MutableTree{
		tree: iavl.NewMutableTree(db, 1024),
	}
}

type MutableTree struct {
	tree *iavl.MutableTree

	lock sync.RWMutex
}

func (t *MutableTree) Hash() common.Hash {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return common.BytesToHash(t.tree.Hash())
}

func (t *MutableTree) WorkingHash() common.Hash {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return common.BytesToHash(t.tree.WorkingHash())
}

func (t *MutableTree) Version() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Version()
}

func (t *MutableTree) Load() (int64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.Load()
}

func (t *MutableTree) LoadVersion(targetVersion int64) (int64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.LoadVersion(targetVersion)
}

func (t *MutableTree) Get(key []byte) (index int64, value []byte) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Get(key)
}

func (t *MutableTree) Set(key, value []byte) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.Set(key, value)
}

func (t *MutableTree) Remove(key []byte) ([]byte, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.Remove(key)
}

func (t *MutableTree) SaveVersion() ([]byte, int64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.SaveVersion()
}

func (t *MutableTree) Rollback() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.tree.Rollback()
}

// IterateRangeInclusive walks the working tree, so unsaved writes are visited too.
func (t *MutableTree) IterateRangeInclusive(start, end []byte, ascending bool, fn func(key, value []byte) bool) (stopped bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.tree.ImmutableTree.IterateRangeInclusive(start, end, ascending, func(key, value []byte, version int64) bool {
		return fn(key, value)
	})
}
