package state

import (
	"github.com/refstake/refstake-go/common"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"
	"testing"
)

func TestStateDB_ContractStore(t *testing.T) {
	s := NewStateDB(dbm.NewMemDB())
	addr := common.Address{0x1}
	other := common.Address{0x2}

	s.SetContractValue(addr, []byte{0x1}, []byte{0x1})
	s.SetContractValue(addr, []byte{0x3}, []byte{0x3})
	s.SetContractValue(addr, []byte{0x2}, []byte{0x2})
	s.SetContractValue(other, []byte{0x1}, []byte{0x9})

	require.Equal(t, []byte{0x3}, s.GetContractValue(addr, []byte{0x3}))
	require.Equal(t, []byte{0x9}, s.GetContractValue(other, []byte{0x1}))

	var keys [][]byte
	s.IterateContractStore(addr, nil, nil, func(key []byte, value []byte) bool {
		keys = append(keys, key)
		return false
	})
	require.Equal(t, [][]byte{{0x1}, {0x2}, {0x3}}, keys)

	s.RemoveContractValue(addr, []byte{0x2})
	require.Nil(t, s.GetContractValue(addr, []byte{0x2}))

	keys = nil
	s.IterateContractStore(addr, []byte{0x2}, nil, func(key []byte, value []byte) bool {
		keys = append(keys, key)
		return false
	})
	require.Equal(t, [][]byte{{0x3}}, keys)
}

func TestStateDB_CommitAndReset(t *testing.T) {
	db := dbm.NewMemDB()
	s := NewStateDB(db)
	addr := common.Address{0x1}

	s.DeployContract(addr, common.Hash{0x2})
	s.SetContractValue(addr, []byte("k"), []byte("v"))
	root, version, err := s.Commit()
	require.NoError(t, err)
	require.Equal(t, int64(1), version)
	require.NotEqual(t, common.Hash{}, root)

	s.SetContractValue(addr, []byte("k"), []byte("changed"))
	s.SetContractValue(addr, []byte("k2"), []byte("v2"))
	require.NotEqual(t, root, s.WorkingRoot())
	s.Reset()

	require.Equal(t, []byte("v"), s.GetContractValue(addr, []byte("k")))
	require.Nil(t, s.GetContractValue(addr, []byte("k2")))
	require.Equal(t, root, s.WorkingRoot())

	reloaded := NewStateDB(db)
	loadedVersion, err := reloaded.Load()
	require.NoError(t, err)
	require.Equal(t, int64(1), loadedVersion)
	require.Equal(t, root, reloaded.Root())
	require.Equal(t, common.Hash{0x2}, *reloaded.GetCodeHash(addr))
	require.Nil(t, reloaded.GetCodeHash(common.Address{0x3}))
}
