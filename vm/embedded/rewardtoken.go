package embedded

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/refstake/refstake-go/common"
	"github.com/refstake/refstake-go/stats/collector"
	"github.com/refstake/refstake-go/vm/env"
	"github.com/refstake/refstake-go/vm/helpers"
)

// RewardToken is a fungible 18-decimal token. Only the configured controller
// may mint; it serves both as the referral reward token and as the staked asset.
type RewardToken struct {
	*BaseContract
	balances   *env.Map
	allowances *env.Map
}

func NewRewardToken(ctx env.CallContext, e env.Env, statsCollector collector.StatsCollector) *RewardToken {
	return &RewardToken{&BaseContract{
		ctx:            ctx,
		env:            e,
		statsCollector: statsCollector,
	}, env.NewMap([]byte("bal"), e, ctx), env.NewMap([]byte("alw"), e, ctx)}
}

func (t *RewardToken) Deploy(args ...[]byte) error {
	t.SetOwner(t.ctx.Sender())
	if len(args) > 0 && len(args[0]) > 0 {
		controller, err := helpers.ExtractAddr(0, args...)
		if err != nil {
			return err
		}
		t.SetAddress("controller", controller)
	}
	return nil
}

func (t *RewardToken) Call(method string, args ...[]byte) error {
	switch method {
	case "mint":
		return t.mint(args...)
	case "transfer":
		return t.transfer(args...)
	case "approve":
		return t.approve(args...)
	case "transferFrom":
		return t.transferFrom(args...)
	case "setController":
		return t.setController(args...)
	default:
		return ErrUnknownMethod
	}
}

func (t *RewardToken) Read(method string, args ...[]byte) ([]byte, error) {
	switch method {
	case "balanceOf":
		addr, err := helpers.ExtractAddr(0, args...)
		if err != nil {
			return nil, err
		}
		return t.BalanceOf(addr).Bytes(), nil
	case "allowance":
		owner, err := helpers.ExtractAddr(0, args...)
		if err != nil {
			return nil, err
		}
		spender, err := helpers.ExtractAddr(1, args...)
		if err != nil {
			return nil, err
		}
		return t.Allowance(owner, spender).Bytes(), nil
	case "totalSupply":
		return t.TotalSupply().Bytes(), nil
	case "controller":
		controller, _ := t.GetAddress("controller")
		return controller.Bytes(), nil
	case "decimals":
		return []byte{common.TokenDecimals}, nil
	default:
		return nil, ErrUnknownMethod
	}
}

func (t *RewardToken) mint(args ...[]byte) error {
	to, err := helpers.ExtractAddr(0, args...)
	if err != nil {
		return err
	}
	amount, err := helpers.ExtractBigInt(1, args...)
	if err != nil {
		return err
	}
	return t.Mint(to, amount)
}

func (t *RewardToken) transfer(args ...[]byte) error {
	to, err := helpers.ExtractAddr(0, args...)
	if err != nil {
		return err
	}
	amount, err := helpers.ExtractBigInt(1, args...)
	if err != nil {
		return err
	}
	return t.Transfer(to, amount)
}

func (t *RewardToken) approve(args ...[]byte) error {
	spender, err := helpers.ExtractAddr(0, args...)
	if err != nil {
		return err
	}
	amount, err := helpers.ExtractBigInt(1, args...)
	if err != nil {
		return err
	}
	t.Approve(spender, amount)
	return nil
}

func (t *RewardToken) transferFrom(args ...[]byte) error {
	from, err := helpers.ExtractAddr(0, args...)
	if err != nil {
		return err
	}
	to, err := helpers.ExtractAddr(1, args...)
	if err != nil {
		return err
	}
	amount, err := helpers.ExtractBigInt(2, args...)
	if err != nil {
		return err
	}
	return t.TransferFrom(from, to, amount)
}

func (t *RewardToken) setController(args ...[]byte) error {
	if err := t.accessPolicy().RequireOwner(t.ctx.Sender()); err != nil {
		return err
	}
	controller, err := helpers.ExtractAddr(0, args...)
	if err != nil {
		return err
	}
	if _, ok := t.GetAddress("controller"); ok {
		return ErrControllerAlreadySet
	}
	t.SetAddress("controller", controller)
	return nil
}

func (t *RewardToken) policy() AccessPolicy {
	controller, _ := t.GetAddress("controller")
	return t.accessPolicy().WithController(controller)
}

// Mint credits amount to the given address. The sender of the current
// context must be the controller.
func (t *RewardToken) Mint(to common.Address, amount *big.Int) error {
	if err := t.policy().RequireController(t.ctx.Sender()); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	t.setBalance(to, new(big.Int).Add(t.BalanceOf(to), amount))
	t.SetBigInt("supply", new(big.Int).Add(t.TotalSupply(), amount))
	collector.AddMintedTokens(t.statsCollector, to, amount)
	return nil
}

func (t *RewardToken) Transfer(to common.Address, amount *big.Int) error {
	return t.move(t.ctx.Sender(), to, amount)
}

func (t *RewardToken) Approve(spender common.Address, amount *big.Int) {
	t.allowances.Set(allowanceKey(t.ctx.Sender(), spender), amount.Bytes())
}

// TransferFrom moves amount on behalf of from, spending the sender's allowance.
func (t *RewardToken) TransferFrom(from, to common.Address, amount *big.Int) error {
	spender := t.ctx.Sender()
	allowance := t.Allowance(from, spender)
	if allowance.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientAllowance, "allowance %v, required %v", allowance, amount)
	}
	if err := t.move(from, to, amount); err != nil {
		return err
	}
	t.allowances.Set(allowanceKey(from, spender), new(big.Int).Sub(allowance, amount).Bytes())
	return nil
}

func (t *RewardToken) BalanceOf(addr common.Address) *big.Int {
	return new(big.Int).SetBytes(t.balances.Get(addr.Bytes()))
}

func (t *RewardToken) Allowance(owner, spender common.Address) *big.Int {
	return new(big.Int).SetBytes(t.allowances.Get(allowanceKey(owner, spender)))
}

func (t *RewardToken) TotalSupply() *big.Int {
	return t.GetBigInt("supply")
}

func (t *RewardToken) move(from, to common.Address, amount *big.Int) error {
	balance := t.BalanceOf(from)
	if balance.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientBalance, "balance %v, required %v", balance, amount)
	}
	if from == to || amount.Sign() == 0 {
		return nil
	}
	t.setBalance(from, new(big.Int).Sub(balance, amount))
	t.setBalance(to, new(big.Int).Add(t.BalanceOf(to), amount))
	return nil
}

func (t *RewardToken) setBalance(addr common.Address, balance *big.Int) {
	if balance.Sign() == 0 {
		t.balances.Remove(addr.Bytes())
		return
	}
	t.balances.Set(addr.Bytes(), balance.Bytes())
}

func allowanceKey(owner, spender common.Address) []byte {
	key := make([]byte, 0, common.AddressLength*2)
	key = append(key, owner.Bytes()...)
	return append(key, spender.Bytes()...)
}
