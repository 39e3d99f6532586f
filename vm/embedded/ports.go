package embedded

import (
	"math/big"

	"github.com/refstake/refstake-go/common"
)

// RewardTokenPort mints referral rewards. The implementation checks that the
// caller is allowed to mint.
type RewardTokenPort interface {
	Mint(to common.Address, amount *big.Int) error
}

// AssetPort moves the staked asset between a depositor and the escrow holder.
type AssetPort interface {
	TransferIn(from common.Address, amount *big.Int) error
	TransferOut(to common.Address, amount *big.Int) error
}

// ReceiptTokenPort keeps id-keyed receipt balances for stakes and badges.
type ReceiptTokenPort interface {
	MintReceipt(to common.Address, id uint64, quantity *big.Int)
	BurnReceipt(from common.Address, id uint64, quantity *big.Int) error
	BalanceOfReceipt(owner common.Address, id uint64) *big.Int
}

// tokenAsset escrows through a RewardToken instance whose caller is the
// holder contract.
type tokenAsset struct {
	token  *RewardToken
	holder common.Address
}

func newTokenAsset(token *RewardToken, holder common.Address) *tokenAsset {
	return &tokenAsset{token: token, holder: holder}
}

func (a *tokenAsset) TransferIn(from common.Address, amount *big.Int) error {
	if err := a.token.TransferFrom(from, a.holder, amount); err != nil {
		return &assetTransferError{cause: err}
	}
	return nil
}

func (a *tokenAsset) TransferOut(to common.Address, amount *big.Int) error {
	if err := a.token.Transfer(to, amount); err != nil {
		return &assetTransferError{cause: err}
	}
	return nil
}
