package node

import (
	"math/big"
	"testing"

	"github.com/refstake/refstake-go/blockchain/attachments"
	"github.com/refstake/refstake-go/blockchain/types"
	"github.com/refstake/refstake-go/common"
	"github.com/refstake/refstake-go/config"
	"github.com/refstake/refstake-go/vm/embedded"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type nodeTester struct {
	t      *testing.T
	node   *Node
	now    int64
	nonces map[common.Address]uint32
}

func newNodeTester(t *testing.T, cfg *config.Config) *nodeTester {
	n, err := NewNode(cfg, nil)
	require.NoError(t, err)
	tester := &nodeTester{t: t, node: n, now: 1700000000, nonces: map[common.Address]uint32{}}
	n.clock = func() int64 { return tester.now }
	require.NoError(t, n.Start())
	return tester
}

func testConfig() *config.Config {
	cfg := config.GetDefaultConfig()
	cfg.InMemory = true
	cfg.GenesisConf.Owner = common.Address{0xAA}
	cfg.GenesisConf.Alloc = map[common.Address]decimal.Decimal{
		{0x1}: decimal.NewFromInt(100),
		{0x2}: decimal.RequireFromString("0.5"),
	}
	return cfg
}

func (n *nodeTester) call(from common.Address, contract common.Address, method string, args ...[]byte) *types.TxReceipt {
	payload, err := attachments.CreateCallContractAttachment(method, args...).ToBytes()
	require.NoError(n.t, err)
	n.nonces[from]++
	receipt, err := n.node.ApplyTx(&types.Transaction{
		AccountNonce: n.nonces[from],
		Type:         types.CallContractTx,
		From:         from,
		To:           &contract,
		Payload:      payload,
	})
	require.NoError(n.t, err)
	return receipt
}

func (n *nodeTester) balance(token common.Address, addr common.Address) *big.Int {
	data, err := n.node.Read(token, "balanceOf", addr.Bytes())
	require.NoError(n.t, err)
	return new(big.Int).SetBytes(data)
}

func TestNode_Bootstrap(t *testing.T) {
	n := newNodeTester(t, testConfig())
	contracts := n.node.Contracts()

	require.Equal(t, common.Tokens(100), n.balance(contracts.AssetToken, common.Address{0x1}))
	require.Equal(t, new(big.Int).Div(common.Tokens(1), big.NewInt(2)), n.balance(contracts.AssetToken, common.Address{0x2}))

	data, err := n.node.Read(contracts.RewardToken, "controller")
	require.NoError(t, err)
	require.Equal(t, contracts.Referral.Bytes(), data)

	data, err = n.node.Read(contracts.Referral, "owner")
	require.NoError(t, err)
	require.Equal(t, common.Address{0xAA}.Bytes(), data)

	require.Equal(t, uint64(1), n.node.Head().Height)
	require.NotEqual(t, common.Hash{}, n.node.Root())
}

func TestNode_ApplyTx(t *testing.T) {
	n := newNodeTester(t, testConfig())
	contracts := n.node.Contracts()
	user := common.Address{0x1}

	receipt := n.call(user, contracts.Referral, "recordReferral", user.Bytes(), common.Address{0x3}.Bytes())
	require.True(t, receipt.Success)
	require.Equal(t, common.Tokens(10), n.balance(contracts.RewardToken, user))
	require.Equal(t, uint64(2), n.node.Head().Height)

	stored := n.node.Receipt(receipt.TxHash)
	require.NotNil(t, stored)
	require.True(t, stored.Success)
	require.Equal(t, uint64(2), stored.Height)

	root := n.node.Root()
	receipt = n.call(user, contracts.Referral, "recordReferral", user.Bytes(), user.Bytes())
	require.False(t, receipt.Success)
	require.ErrorIs(t, receipt.Error, embedded.ErrSelfReferral)
	require.Equal(t, root, n.node.Root())
	require.Equal(t, embedded.ErrSelfReferral.Error(), n.node.Receipt(receipt.TxHash).Error)

	require.True(t, n.call(user, contracts.AssetToken, "approve", contracts.Staking.Bytes(), common.Tokens(100).Bytes()).Success)
	receipt = n.call(user, contracts.Staking, "stake", common.Tokens(100).Bytes())
	require.True(t, receipt.Success)
	require.Equal(t, "Staked", receipt.Events[0].Name)

	n.now += 10 * embedded.SecondsPerDay
	require.True(t, n.call(user, contracts.Staking, "redeemBadge", common.ToBytes(uint64(1))).Success)

	// the clock going backwards does not move block time
	n.now -= embedded.SecondsPerDay
	receipt = n.call(user, contracts.Staking, "withdraw", common.ToBytes(uint64(1)))
	require.True(t, receipt.Success)
	require.Equal(t, int64(1700000000+10*embedded.SecondsPerDay), n.node.Head().Time)
	require.Equal(t, common.Tokens(100), n.balance(contracts.AssetToken, user))

	data, err := n.node.Read(contracts.Staking, "balanceOf", user.Bytes(), common.ToBytes(embedded.BadgeBasicId))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1), new(big.Int).SetBytes(data))
}

func TestNode_Restart(t *testing.T) {
	cfg := testConfig()
	cfg.InMemory = false
	cfg.DataDir = t.TempDir()

	n := newNodeTester(t, cfg)
	contracts := n.node.Contracts()
	require.True(t, n.call(common.Address{0x1}, contracts.Referral, "recordReferral", common.Address{0x1}.Bytes(), common.Address{0x3}.Bytes()).Success)
	root := n.node.Root()
	require.NoError(t, n.node.Stop())

	restarted := newNodeTester(t, cfg)
	defer restarted.node.Stop()
	require.Equal(t, contracts, restarted.node.Contracts())
	require.Equal(t, root, restarted.node.Root())
	require.Equal(t, uint64(2), restarted.node.Head().Height)
	require.Equal(t, common.Tokens(5), restarted.balance(contracts.RewardToken, common.Address{0x3}))
}
