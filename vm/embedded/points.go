package embedded

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/refstake/refstake-go/common"
)

const SecondsPerDay = 86400

type Tier byte

const (
	TierNone Tier = iota
	TierBasic
	TierPlus
	TierPremium
)

const (
	BadgeBasicId   uint64 = 1001
	BadgePlusId    uint64 = 1002
	BadgePremiumId uint64 = 1003
)

var tierThresholds = map[Tier]*big.Int{
	TierBasic:   common.Tokens(1000),
	TierPlus:    common.Tokens(5000),
	TierPremium: common.Tokens(10000),
}

var maxPoints = new(uint256.Int).SetAllOne()

func (t Tier) String() string {
	switch t {
	case TierNone:
		return "None"
	case TierBasic:
		return "Basic"
	case TierPlus:
		return "Plus"
	case TierPremium:
		return "Premium"
	default:
		return "Unknown"
	}
}

// Threshold is the minimum number of points for the tier, in 18-decimal units.
func (t Tier) Threshold() *big.Int {
	threshold, ok := tierThresholds[t]
	if !ok {
		return new(big.Int)
	}
	return new(big.Int).Set(threshold)
}

// BadgeId returns the receipt id of the tier badge, 0 for TierNone.
func (t Tier) BadgeId() uint64 {
	switch t {
	case TierBasic:
		return BadgeBasicId
	case TierPlus:
		return BadgePlusId
	case TierPremium:
		return BadgePremiumId
	default:
		return 0
	}
}

func isBadgeId(id uint64) bool {
	return id >= BadgeBasicId && id <= BadgePremiumId
}

// ReachedTier is the highest tier whose threshold points meet.
func ReachedTier(points *big.Int) Tier {
	for _, tier := range []Tier{TierPremium, TierPlus, TierBasic} {
		if points.Cmp(tierThresholds[tier]) >= 0 {
			return tier
		}
	}
	return TierNone
}

// CalculatePoints returns amount * (now - startTime) / SecondsPerDay. The
// product is computed on 512 bits; a quotient beyond 256 bits saturates.
func CalculatePoints(amount *big.Int, startTime uint64, now int64) *big.Int {
	if now <= 0 || uint64(now) <= startTime || amount.Sign() <= 0 {
		return new(big.Int)
	}
	elapsed := uint64(now) - startTime
	x, overflow := uint256.FromBig(amount)
	if overflow {
		return maxPoints.ToBig()
	}
	points, overflow := new(uint256.Int).MulDivOverflow(x, uint256.NewInt(elapsed), uint256.NewInt(SecondsPerDay))
	if overflow {
		return maxPoints.ToBig()
	}
	return points.ToBig()
}
