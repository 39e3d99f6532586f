package embedded

import (
	"math/big"
	"testing"

	"github.com/refstake/refstake-go/common"
	"github.com/stretchr/testify/require"
)

func TestRewardToken_Mint(t *testing.T) {
	c := newContractTester(t)
	user := common.Address{0x1}

	err := c.call(user, c.rewardToken, "mint", user.Bytes(), common.Tokens(1).Bytes())
	require.ErrorIs(t, err, ErrUnauthorized)

	err = c.call(c.owner, c.rewardToken, "mint", user.Bytes(), common.Tokens(1).Bytes())
	require.ErrorIs(t, err, ErrUnauthorized, "the owner is not the controller")
	require.Zero(t, c.balance(c.rewardToken, user).Sign())

	require.NoError(t, c.call(c.owner, c.assetToken, "mint", user.Bytes(), common.Tokens(3).Bytes()))
	require.Equal(t, common.Tokens(3), c.balance(c.assetToken, user))

	data, err := c.read(c.assetToken, "totalSupply")
	require.NoError(t, err)
	require.Equal(t, common.Tokens(3), new(big.Int).SetBytes(data))

	data, err = c.read(c.assetToken, "decimals")
	require.NoError(t, err)
	require.Equal(t, []byte{18}, data)
}

func TestRewardToken_SetController(t *testing.T) {
	c := newContractTester(t)

	data, err := c.read(c.rewardToken, "controller")
	require.NoError(t, err)
	require.Equal(t, c.referral.Bytes(), data)

	err = c.call(c.owner, c.rewardToken, "setController", c.owner.Bytes())
	require.ErrorIs(t, err, ErrControllerAlreadySet)

	token, err := c.deploy(c.owner, RewardTokenContract)
	require.NoError(t, err)

	err = c.call(common.Address{0x1}, token, "setController", c.owner.Bytes())
	require.ErrorIs(t, err, ErrUnauthorized)

	err = c.call(c.owner, token, "mint", c.owner.Bytes(), common.Tokens(1).Bytes())
	require.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, c.call(c.owner, token, "setController", c.owner.Bytes()))
	require.NoError(t, c.call(c.owner, token, "mint", c.owner.Bytes(), common.Tokens(1).Bytes()))
	require.Equal(t, common.Tokens(1), c.balance(token, c.owner))
}

func TestRewardToken_Transfers(t *testing.T) {
	c := newContractTester(t)
	alice, bob, carol := common.Address{0x1}, common.Address{0x2}, common.Address{0x3}

	require.NoError(t, c.call(c.owner, c.assetToken, "mint", alice.Bytes(), common.Tokens(10).Bytes()))

	err := c.call(alice, c.assetToken, "transfer", bob.Bytes(), common.Tokens(11).Bytes())
	require.ErrorIs(t, err, ErrInsufficientBalance)

	require.NoError(t, c.call(alice, c.assetToken, "transfer", bob.Bytes(), common.Tokens(4).Bytes()))
	require.Equal(t, common.Tokens(6), c.balance(c.assetToken, alice))
	require.Equal(t, common.Tokens(4), c.balance(c.assetToken, bob))

	err = c.call(carol, c.assetToken, "transferFrom", alice.Bytes(), carol.Bytes(), common.Tokens(1).Bytes())
	require.ErrorIs(t, err, ErrInsufficientAllowance)

	require.NoError(t, c.call(alice, c.assetToken, "approve", carol.Bytes(), common.Tokens(2).Bytes()))
	data, err := c.read(c.assetToken, "allowance", alice.Bytes(), carol.Bytes())
	require.NoError(t, err)
	require.Equal(t, common.Tokens(2), new(big.Int).SetBytes(data))

	require.NoError(t, c.call(carol, c.assetToken, "transferFrom", alice.Bytes(), carol.Bytes(), common.Tokens(2).Bytes()))
	require.Equal(t, common.Tokens(4), c.balance(c.assetToken, alice))
	require.Equal(t, common.Tokens(2), c.balance(c.assetToken, carol))

	data, err = c.read(c.assetToken, "allowance", alice.Bytes(), carol.Bytes())
	require.NoError(t, err)
	require.Zero(t, new(big.Int).SetBytes(data).Sign())

	require.ErrorIs(t, c.call(alice, c.assetToken, "burn"), ErrUnknownMethod)
}
