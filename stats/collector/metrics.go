package collector

import (
	"math/big"
	"strconv"

	"github.com/rcrowley/go-metrics"
	"github.com/refstake/refstake-go/common"
)

const metricsPrefix = "refstake/"

type metricsCollector struct {
	referrals      metrics.Counter
	referralReward metrics.Counter
	rewardUpdates  metrics.Counter
	stakes         metrics.Counter
	stakedTokens   metrics.Gauge
	withdrawals    metrics.Counter
	badges         map[byte]metrics.Counter
	mintedTokens   metrics.Counter
	failedTxs      metrics.Meter
	registry       metrics.Registry
}

// NewMetricsCollector publishes contract stats into registry. Token amounts are
// tracked in whole tokens, fractions are truncated.
func NewMetricsCollector(registry metrics.Registry) StatsCollector {
	if registry == nil {
		registry = metrics.DefaultRegistry
	}
	return &metricsCollector{
		referrals:      metrics.GetOrRegisterCounter(metricsPrefix+"referral/records", registry),
		referralReward: metrics.GetOrRegisterCounter(metricsPrefix+"referral/rewarded", registry),
		rewardUpdates:  metrics.GetOrRegisterCounter(metricsPrefix+"referral/config/updates", registry),
		stakes:         metrics.GetOrRegisterCounter(metricsPrefix+"staking/deposits", registry),
		stakedTokens:   metrics.GetOrRegisterGauge(metricsPrefix+"staking/locked", registry),
		withdrawals:    metrics.GetOrRegisterCounter(metricsPrefix+"staking/withdrawals", registry),
		mintedTokens:   metrics.GetOrRegisterCounter(metricsPrefix+"token/minted", registry),
		failedTxs:      metrics.GetOrRegisterMeter(metricsPrefix+"vm/failed", registry),
		badges:         map[byte]metrics.Counter{},
		registry:       registry,
	}
}

func wholeTokens(amount *big.Int) int64 {
	if amount == nil {
		return 0
	}
	return new(big.Int).Quo(amount, common.TokenBase).Int64()
}

func (c *metricsCollector) AddReferral(referrer, referee common.Address, referrerReward, refereeReward *big.Int) {
	c.referrals.Inc(1)
	c.referralReward.Inc(wholeTokens(referrerReward) + wholeTokens(refereeReward))
}

func (c *metricsCollector) SetReferralRewards(referrerReward, refereeReward *big.Int) {
	c.rewardUpdates.Inc(1)
}

func (c *metricsCollector) AddStake(owner common.Address, stakeId uint64, amount *big.Int) {
	c.stakes.Inc(1)
	c.stakedTokens.Update(c.stakedTokens.Value() + wholeTokens(amount))
}

func (c *metricsCollector) AddBadgeRedeem(owner common.Address, stakeId uint64, tier byte) {
	counter, ok := c.badges[tier]
	if !ok {
		counter = metrics.GetOrRegisterCounter(metricsPrefix+"staking/badges/"+strconv.Itoa(int(tier)), c.registry)
		c.badges[tier] = counter
	}
	counter.Inc(1)
}

func (c *metricsCollector) AddWithdrawal(owner common.Address, stakeId uint64, amount *big.Int) {
	c.withdrawals.Inc(1)
	c.stakedTokens.Update(c.stakedTokens.Value() - wholeTokens(amount))
}

func (c *metricsCollector) AddMintedTokens(to common.Address, amount *big.Int) {
	c.mintedTokens.Inc(wholeTokens(amount))
}

func (c *metricsCollector) AddFailedTx(reason string) {
	c.failedTxs.Mark(1)
}
