package embedded

import (
	"github.com/pkg/errors"
	"github.com/refstake/refstake-go/common"
)

// AccessPolicy holds the privileged addresses of a contract. It is rebuilt from
// contract storage on every call, so a zero value denies everything.
type AccessPolicy struct {
	owner      common.Address
	controller common.Address
}

func NewAccessPolicy(owner common.Address) AccessPolicy {
	return AccessPolicy{owner: owner}
}

func (p AccessPolicy) WithController(controller common.Address) AccessPolicy {
	p.controller = controller
	return p
}

func (p AccessPolicy) Owner() common.Address {
	return p.owner
}

func (p AccessPolicy) Controller() common.Address {
	return p.controller
}

func (p AccessPolicy) RequireOwner(sender common.Address) error {
	if p.owner == (common.Address{}) || sender != p.owner {
		return errors.Wrapf(ErrUnauthorized, "%v is not the owner", sender.Hex())
	}
	return nil
}

func (p AccessPolicy) RequireController(sender common.Address) error {
	if p.controller == (common.Address{}) {
		return errors.Wrap(ErrUnauthorized, "controller is not set")
	}
	if sender != p.controller {
		return errors.Wrapf(ErrUnauthorized, "%v is not the controller", sender.Hex())
	}
	return nil
}
