package collector

import (
	"math/big"

	"github.com/refstake/refstake-go/common"
)

// StatsCollector receives contract level facts after they have been applied
// to the transaction environment. Every helper below accepts a nil collector.
type StatsCollector interface {
	AddReferral(referrer, referee common.Address, referrerReward, refereeReward *big.Int)
	SetReferralRewards(referrerReward, refereeReward *big.Int)
	AddStake(owner common.Address, stakeId uint64, amount *big.Int)
	AddBadgeRedeem(owner common.Address, stakeId uint64, tier byte)
	AddWithdrawal(owner common.Address, stakeId uint64, amount *big.Int)
	AddMintedTokens(to common.Address, amount *big.Int)
	AddFailedTx(reason string)
}

func AddReferral(c StatsCollector, referrer, referee common.Address, referrerReward, refereeReward *big.Int) {
	if c == nil {
		return
	}
	c.AddReferral(referrer, referee, referrerReward, refereeReward)
}

func SetReferralRewards(c StatsCollector, referrerReward, refereeReward *big.Int) {
	if c == nil {
		return
	}
	c.SetReferralRewards(referrerReward, refereeReward)
}

func AddStake(c StatsCollector, owner common.Address, stakeId uint64, amount *big.Int) {
	if c == nil {
		return
	}
	c.AddStake(owner, stakeId, amount)
}

func AddBadgeRedeem(c StatsCollector, owner common.Address, stakeId uint64, tier byte) {
	if c == nil {
		return
	}
	c.AddBadgeRedeem(owner, stakeId, tier)
}

func AddWithdrawal(c StatsCollector, owner common.Address, stakeId uint64, amount *big.Int) {
	if c == nil {
		return
	}
	c.AddWithdrawal(owner, stakeId, amount)
}

func AddMintedTokens(c StatsCollector, to common.Address, amount *big.Int) {
	if c == nil {
		return
	}
	c.AddMintedTokens(to, amount)
}

func AddFailedTx(c StatsCollector, reason string) {
	if c == nil {
		return
	}
	c.AddFailedTx(reason)
}
