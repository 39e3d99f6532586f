package embedded

import "github.com/pkg/errors"

var (
	ErrSelfReferral        = errors.New("referrer and referee are the same address")
	ErrAlreadyReferred     = errors.New("referee already has a referrer")
	ErrCircularReferral    = errors.New("referral would create a cycle")
	ErrInvalidAmount       = errors.New("amount should be positive")
	ErrAssetTransferFailed = errors.New("asset transfer failed")
	ErrTierNotReached      = errors.New("no new tier reached")
	ErrNotFound            = errors.New("stake not found")
	ErrNotOwner            = errors.New("sender is not the stake owner")
	ErrUnauthorized        = errors.New("sender is not authorized")

	ErrControllerAlreadySet  = errors.New("controller is already set")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrTokenNotDeployed      = errors.New("token contract is not deployed")
	ErrUnknownMethod         = errors.New("unknown method")
)

// assetTransferError matches ErrAssetTransferFailed and keeps the token error
// as its cause.
type assetTransferError struct {
	cause error
}

func (e *assetTransferError) Error() string {
	return ErrAssetTransferFailed.Error() + ": " + e.cause.Error()
}

func (e *assetTransferError) Is(target error) bool {
	return target == ErrAssetTransferFailed
}

func (e *assetTransferError) Unwrap() error {
	return e.cause
}
