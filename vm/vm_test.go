package vm

import (
	"math/big"
	"testing"

	"github.com/refstake/refstake-go/blockchain/attachments"
	"github.com/refstake/refstake-go/blockchain/types"
	"github.com/refstake/refstake-go/common"
	"github.com/refstake/refstake-go/core/state"
	"github.com/refstake/refstake-go/vm/embedded"
	env2 "github.com/refstake/refstake-go/vm/env"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"
)

type vmTester struct {
	t     *testing.T
	vm    *VmImpl
	state *state.StateDB
	nonce uint32
}

func newVmTester(t *testing.T) *vmTester {
	s := state.NewStateDB(dbm.NewMemDB())
	return &vmTester{t: t, state: s, vm: NewVmImpl(s, &types.Header{Height: 1, Time: 100}, nil)}
}

func (v *vmTester) deploy(from common.Address, codeHash common.Hash, args ...[]byte) *types.TxReceipt {
	payload, err := attachments.CreateDeployContractAttachment(codeHash, args...).ToBytes()
	require.NoError(v.t, err)
	v.nonce++
	return v.vm.Run(&types.Transaction{
		AccountNonce: v.nonce,
		Type:         types.DeployContractTx,
		From:         from,
		Payload:      payload,
	}, -1)
}

func (v *vmTester) call(from common.Address, to common.Address, gasLimit int64, method string, args ...[]byte) *types.TxReceipt {
	payload, err := attachments.CreateCallContractAttachment(method, args...).ToBytes()
	require.NoError(v.t, err)
	v.nonce++
	return v.vm.Run(&types.Transaction{
		AccountNonce: v.nonce,
		Type:         types.CallContractTx,
		From:         from,
		To:           &to,
		Payload:      payload,
	}, gasLimit)
}

func TestVmImpl_Run(t *testing.T) {
	v := newVmTester(t)
	owner := common.Address{0xAA}

	receipt := v.deploy(owner, embedded.RewardTokenContract)
	require.True(t, receipt.Success)
	require.NoError(t, receipt.Error)
	require.Equal(t, env2.ComputeContractAddr(owner, 1), receipt.ContractAddress)
	token := receipt.ContractAddress

	receipt = v.deploy(owner, embedded.ReferralSystemContract, token.Bytes())
	require.True(t, receipt.Success)
	referral := receipt.ContractAddress
	require.Equal(t, embedded.ReferralSystemContract, *v.state.GetCodeHash(referral))

	require.True(t, v.call(owner, token, -1, "setController", referral.Bytes()).Success)

	receipt = v.call(owner, referral, -1, "recordReferral", common.Address{0x2}.Bytes(), common.Address{0x1}.Bytes())
	require.True(t, receipt.Success)
	require.Positive(t, receipt.GasUsed)
	require.Len(t, receipt.Events, 1)
	require.Equal(t, "ReferralRecorded", receipt.Events[0].Name)

	data, err := v.vm.Read(token, "balanceOf", common.Address{0x2}.Bytes())
	require.NoError(t, err)
	require.Equal(t, common.Tokens(10), new(big.Int).SetBytes(data))

	_, err = v.vm.Read(common.Address{0x9}, "balanceOf", common.Address{0x2}.Bytes())
	require.Error(t, err)
}

func TestVmImpl_RunRollback(t *testing.T) {
	v := newVmTester(t)
	owner := common.Address{0xAA}
	token := v.deploy(owner, embedded.RewardTokenContract).ContractAddress
	referral := v.deploy(owner, embedded.ReferralSystemContract, token.Bytes()).ContractAddress
	require.True(t, v.call(owner, token, -1, "setController", referral.Bytes()).Success)

	root := v.state.WorkingRoot()

	receipt := v.call(owner, referral, -1, "recordReferral", common.Address{0x1}.Bytes(), common.Address{0x1}.Bytes())
	require.False(t, receipt.Success)
	require.ErrorIs(t, receipt.Error, embedded.ErrSelfReferral)
	require.Empty(t, receipt.Events)
	require.Equal(t, root, v.state.WorkingRoot())

	receipt = v.call(owner, referral, 50, "recordReferral", common.Address{0x2}.Bytes(), common.Address{0x1}.Bytes())
	require.False(t, receipt.Success)
	require.ErrorIs(t, receipt.Error, env2.ErrOutOfGas)
	require.Equal(t, uint64(50), receipt.GasUsed)
	require.Equal(t, root, v.state.WorkingRoot())

	receipt = v.call(owner, referral, -1, "recordReferral", common.Address{0x2}.Bytes(), common.Address{0x1}.Bytes())
	require.True(t, receipt.Success)
	require.NotEqual(t, root, v.state.WorkingRoot())
}

func TestVmImpl_RunErrors(t *testing.T) {
	v := newVmTester(t)
	owner := common.Address{0xAA}

	receipt := v.vm.Run(&types.Transaction{Type: 0x7, From: owner}, -1)
	require.Equal(t, UnexpectedTx, receipt.Error)

	receipt = v.deploy(owner, common.Hash{0x77})
	require.False(t, receipt.Success)
	require.EqualError(t, receipt.Error, "unknown contract")
	require.Nil(t, v.state.GetCodeHash(receipt.ContractAddress))

	receipt = v.call(owner, common.Address{0x5}, -1, "transfer")
	require.False(t, receipt.Success)

	token := v.deploy(owner, embedded.RewardTokenContract).ContractAddress
	receipt = v.call(owner, token, -1, "unknown")
	require.ErrorIs(t, receipt.Error, embedded.ErrUnknownMethod)

	receipt = v.vm.Run(&types.Transaction{AccountNonce: 10, Type: types.CallContractTx, From: owner, To: &token, Payload: []byte{0x1}}, -1)
	require.False(t, receipt.Success)
}
