package embedded

import (
	"iter"
	"math/big"

	"github.com/deckarep/golang-set"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/refstake/refstake-go/common"
	"github.com/refstake/refstake-go/stats/collector"
	"github.com/refstake/refstake-go/vm/env"
	"github.com/refstake/refstake-go/vm/helpers"
)

var (
	DefaultReferrerReward = common.Tokens(5)
	DefaultRefereeReward  = common.Tokens(10)
)

// ReferralSystem keeps the referee -> referrer graph and pays both parties of
// every new edge in reward tokens.
type ReferralSystem struct {
	*BaseContract
	referrers     *env.Map
	referralCount *env.Map
	referrals     *env.Map
}

func NewReferralSystem(ctx env.CallContext, e env.Env, statsCollector collector.StatsCollector) *ReferralSystem {
	return &ReferralSystem{&BaseContract{
		ctx:            ctx,
		env:            e,
		statsCollector: statsCollector,
	},
		env.NewMap([]byte("ref:"), e, ctx),
		env.NewMap([]byte("refc:"), e, ctx),
		env.NewMap([]byte("refl:"), e, ctx),
	}
}

// Deploy expects the reward token address, optionally followed by the referrer
// and referee rewards.
func (r *ReferralSystem) Deploy(args ...[]byte) error {
	token, err := helpers.ExtractAddr(0, args...)
	if err != nil {
		return err
	}
	referrerReward, refereeReward := DefaultReferrerReward, DefaultRefereeReward
	if len(args) > 1 {
		if referrerReward, err = helpers.ExtractBigInt(1, args...); err != nil {
			return err
		}
	}
	if len(args) > 2 {
		if refereeReward, err = helpers.ExtractBigInt(2, args...); err != nil {
			return err
		}
	}
	r.SetAddress("token", token)
	r.SetBigInt("referrerReward", referrerReward)
	r.SetBigInt("refereeReward", refereeReward)
	r.SetOwner(r.ctx.Sender())
	collector.SetReferralRewards(r.statsCollector, referrerReward, refereeReward)
	return nil
}

func (r *ReferralSystem) Call(method string, args ...[]byte) error {
	switch method {
	case "recordReferral":
		return r.recordReferral(args...)
	case "updateRewards":
		return r.updateRewards(args...)
	default:
		return ErrUnknownMethod
	}
}

func (r *ReferralSystem) Read(method string, args ...[]byte) ([]byte, error) {
	switch method {
	case "getReferrals":
		referrer, err := helpers.ExtractAddr(0, args...)
		if err != nil {
			return nil, err
		}
		var list []common.Address
		for referee := range r.Referrals(referrer) {
			list = append(list, referee)
		}
		return rlp.EncodeToBytes(list)
	case "referrerOf":
		referee, err := helpers.ExtractAddr(0, args...)
		if err != nil {
			return nil, err
		}
		referrer, ok := r.ReferrerOf(referee)
		if !ok {
			return nil, nil
		}
		return referrer.Bytes(), nil
	case "REFERRER_REWARD":
		referrerReward, _ := r.Rewards()
		return referrerReward.Bytes(), nil
	case "REFEREE_REWARD":
		_, refereeReward := r.Rewards()
		return refereeReward.Bytes(), nil
	case "owner":
		return r.Owner().Bytes(), nil
	default:
		return nil, ErrUnknownMethod
	}
}

// recordReferral takes the referee first and the referrer second.
func (r *ReferralSystem) recordReferral(args ...[]byte) error {
	referee, err := helpers.ExtractAddr(0, args...)
	if err != nil {
		return err
	}
	referrer, err := helpers.ExtractAddr(1, args...)
	if err != nil {
		return err
	}
	return r.RecordReferral(referrer, referee)
}

func (r *ReferralSystem) updateRewards(args ...[]byte) error {
	referrerReward, err := helpers.ExtractBigInt(0, args...)
	if err != nil {
		return err
	}
	refereeReward, err := helpers.ExtractBigInt(1, args...)
	if err != nil {
		return err
	}
	return r.UpdateRewards(referrerReward, refereeReward)
}

// RecordReferral links referee to referrer and mints the configured rewards to
// both of them.
func (r *ReferralSystem) RecordReferral(referrer, referee common.Address) error {
	if referrer == referee {
		return ErrSelfReferral
	}
	if _, ok := r.ReferrerOf(referee); ok {
		return ErrAlreadyReferred
	}
	if r.createsCycle(referrer, referee) {
		return ErrCircularReferral
	}

	r.referrers.Set(referee.Bytes(), referrer.Bytes())
	count := r.referralsCount(referrer)
	r.referrals.Set(referralKey(referrer, count), referee.Bytes())
	r.referralCount.Set(referrer.Bytes(), common.ToBytes(count+1))

	token, err := r.rewardToken()
	if err != nil {
		return err
	}
	referrerReward, refereeReward := r.Rewards()
	if err := token.Mint(referrer, referrerReward); err != nil {
		return errors.Wrap(err, "mint referrer reward")
	}
	if err := token.Mint(referee, refereeReward); err != nil {
		return errors.Wrap(err, "mint referee reward")
	}

	r.emit("ReferralRecorded", referrer.Bytes(), referee.Bytes(), referrerReward.Bytes(), refereeReward.Bytes())
	collector.AddReferral(r.statsCollector, referrer, referee, referrerReward, refereeReward)
	return nil
}

// UpdateRewards replaces both reward amounts. Already minted rewards are kept.
func (r *ReferralSystem) UpdateRewards(referrerReward, refereeReward *big.Int) error {
	if err := r.accessPolicy().RequireOwner(r.ctx.Sender()); err != nil {
		return err
	}
	r.SetBigInt("referrerReward", referrerReward)
	r.SetBigInt("refereeReward", refereeReward)
	r.emit("RewardsUpdated", referrerReward.Bytes(), refereeReward.Bytes())
	collector.SetReferralRewards(r.statsCollector, referrerReward, refereeReward)
	return nil
}

func (r *ReferralSystem) Rewards() (referrerReward, refereeReward *big.Int) {
	return r.GetBigInt("referrerReward"), r.GetBigInt("refereeReward")
}

func (r *ReferralSystem) ReferrerOf(referee common.Address) (common.Address, bool) {
	data := r.referrers.Get(referee.Bytes())
	if len(data) != common.AddressLength {
		return common.Address{}, false
	}
	return common.BytesToAddress(data), true
}

// Referrals yields the referees of referrer in the order they were recorded.
// The sequence reads the store lazily and can be ranged more than once.
func (r *ReferralSystem) Referrals(referrer common.Address) iter.Seq[common.Address] {
	return func(yield func(common.Address) bool) {
		count := r.referralsCount(referrer)
		for i := uint64(0); i < count; i++ {
			data := r.referrals.Get(referralKey(referrer, i))
			if data == nil {
				continue
			}
			if !yield(common.BytesToAddress(data)) {
				return
			}
		}
	}
}

func (r *ReferralSystem) referralsCount(referrer common.Address) uint64 {
	count, _ := helpers.ExtractUInt64(0, r.referralCount.Get(referrer.Bytes()))
	return count
}

// createsCycle walks up from referrer. Reaching referee means the new edge
// would close a loop.
func (r *ReferralSystem) createsCycle(referrer, referee common.Address) bool {
	visited := mapset.NewSet()
	current := referrer
	for {
		if current == referee {
			return true
		}
		if !visited.Add(current) {
			// the stored chain already loops
			return true
		}
		next, ok := r.ReferrerOf(current)
		if !ok {
			return false
		}
		current = next
	}
}

func (r *ReferralSystem) rewardToken() (RewardTokenPort, error) {
	addr, ok := r.GetAddress("token")
	if !ok {
		return nil, ErrTokenNotDeployed
	}
	return r.rewardTokenAt(addr)
}

func referralKey(referrer common.Address, index uint64) []byte {
	key := make([]byte, 0, common.AddressLength+8)
	key = append(key, referrer.Bytes()...)
	return append(key, common.Uint64Key(index)...)
}
