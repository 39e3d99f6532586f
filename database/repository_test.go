package database

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/refstake/refstake-go/blockchain/types"
	"github.com/refstake/refstake-go/common"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"
)

func TestRepo_Head(t *testing.T) {
	repo := NewRepo(dbm.NewMemDB())
	require.Nil(t, repo.ReadHead())

	require.NoError(t, repo.WriteHead(&types.Header{Height: 3, Time: 100, ParentRoot: common.Hash{0x1}}))
	head := repo.ReadHead()
	require.NotNil(t, head)
	require.Equal(t, uint64(3), head.Height)
	require.Equal(t, int64(100), head.Time)
	require.Equal(t, common.Hash{0x1}, head.ParentRoot)
}

func TestRepo_Receipts(t *testing.T) {
	require := require.New(t)
	repo := NewRepo(dbm.NewMemDB())

	hash := common.Hash{0x5}
	require.Nil(repo.ReadReceipt(hash))

	require.NoError(repo.WriteReceipt(7, &types.TxReceipt{
		TxHash:  hash,
		From:    common.Address{0x1},
		GasUsed: 120,
		Error:   errors.New("stake not found"),
		Events:  []*types.TxEvent{{Contract: common.Address{0x2}, Name: "Staked", Args: [][]byte{{0x1}}}},
	}))

	receipt := repo.ReadReceipt(hash)
	require.NotNil(receipt)
	require.False(receipt.Success)
	require.Equal("stake not found", receipt.Error)
	require.Equal(uint64(7), receipt.Height)
	require.Equal(uint64(120), receipt.GasUsed)
	require.Len(receipt.Events, 1)
	require.Equal("Staked", receipt.Events[0].Name)
}

func TestRepo_Contracts(t *testing.T) {
	repo := NewRepo(dbm.NewMemDB())
	require.Nil(t, repo.ReadContracts())

	contracts := &Contracts{
		RewardToken: common.Address{0x1},
		AssetToken:  common.Address{0x2},
		Referral:    common.Address{0x3},
		Staking:     common.Address{0x4},
	}
	require.NoError(t, repo.WriteContracts(contracts))
	require.Equal(t, contracts, repo.ReadContracts())
}
