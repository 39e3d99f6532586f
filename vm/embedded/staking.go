package embedded

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/refstake/refstake-go/common"
	"github.com/refstake/refstake-go/stats/collector"
	"github.com/refstake/refstake-go/vm/env"
	"github.com/refstake/refstake-go/vm/helpers"
)

var _ ReceiptTokenPort = (*receiptBook)(nil)

type StakeRecord struct {
	Owner        common.Address
	Amount       *big.Int
	StartTime    uint64
	RedeemedTier Tier
	Active       bool
}

// StakeInfo is the read view of a stake record.
type StakeInfo struct {
	Amount       *big.Int
	StartTime    uint64
	RedeemedTier Tier
	Active       bool
}

// Staking escrows asset tokens per deposit, accrues points over time and
// issues a receipt for every stake and badge.
type Staking struct {
	*BaseContract
	stakes     *env.Map
	userStakes *env.Map
	userCounts *env.Map
	receipts   *receiptBook
}

func NewStaking(ctx env.CallContext, e env.Env, statsCollector collector.StatsCollector) *Staking {
	return &Staking{&BaseContract{
		ctx:            ctx,
		env:            e,
		statsCollector: statsCollector,
	},
		env.NewMap([]byte("stake:"), e, ctx),
		env.NewMap([]byte("ustk:"), e, ctx),
		env.NewMap([]byte("ucnt:"), e, ctx),
		newReceiptBook(e, ctx),
	}
}

// Deploy expects the address of the staked asset token.
func (s *Staking) Deploy(args ...[]byte) error {
	asset, err := helpers.ExtractAddr(0, args...)
	if err != nil {
		return err
	}
	s.SetAddress("asset", asset)
	s.SetUint64("nextId", 1)
	s.SetOwner(s.ctx.Sender())
	return nil
}

func (s *Staking) Call(method string, args ...[]byte) error {
	switch method {
	case "stake":
		amount, err := helpers.ExtractBigInt(0, args...)
		if err != nil {
			return err
		}
		_, err = s.Stake(amount)
		return err
	case "redeemBadge":
		stakeId, err := helpers.ExtractUInt64(0, args...)
		if err != nil {
			return err
		}
		_, err = s.RedeemBadge(stakeId)
		return err
	case "withdraw":
		stakeId, err := helpers.ExtractUInt64(0, args...)
		if err != nil {
			return err
		}
		return s.Withdraw(stakeId)
	default:
		return ErrUnknownMethod
	}
}

func (s *Staking) Read(method string, args ...[]byte) ([]byte, error) {
	switch method {
	case "calculatePoints":
		owner, stakeId, err := extractOwnerAndId(args...)
		if err != nil {
			return nil, err
		}
		points, err := s.CalculatePoints(owner, stakeId)
		if err != nil {
			return nil, err
		}
		return points.Bytes(), nil
	case "getStakeInfo":
		owner, stakeId, err := extractOwnerAndId(args...)
		if err != nil {
			return nil, err
		}
		info, err := s.StakeInfo(owner, stakeId)
		if err != nil {
			return nil, err
		}
		return rlp.EncodeToBytes(info)
	case "getUserStakeIds":
		owner, err := helpers.ExtractAddr(0, args...)
		if err != nil {
			return nil, err
		}
		return rlp.EncodeToBytes(s.UserStakeIds(owner))
	case "balanceOf":
		owner, id, err := extractOwnerAndId(args...)
		if err != nil {
			return nil, err
		}
		return s.receipts.BalanceOfReceipt(owner, id).Bytes(), nil
	case "receiptsOf":
		owner, err := helpers.ExtractAddr(0, args...)
		if err != nil {
			return nil, err
		}
		return rlp.EncodeToBytes(s.receipts.ReceiptsOf(owner))
	case "tierThresholds":
		return rlp.EncodeToBytes([]*big.Int{TierBasic.Threshold(), TierPlus.Threshold(), TierPremium.Threshold()})
	default:
		return nil, ErrUnknownMethod
	}
}

// Stake pulls amount from the sender into escrow and opens a new stake.
func (s *Staking) Stake(amount *big.Int) (uint64, error) {
	if amount == nil || amount.Sign() <= 0 {
		return 0, ErrInvalidAmount
	}
	sender := s.ctx.Sender()
	asset, err := s.asset()
	if err != nil {
		return 0, err
	}
	if err := asset.TransferIn(sender, amount); err != nil {
		return 0, err
	}

	stakeId := s.nextStakeId()
	record := &StakeRecord{
		Owner:     sender,
		Amount:    new(big.Int).Set(amount),
		StartTime: stakeStartTime(s.env.BlockTimeStamp()),
		Active:    true,
	}
	if err := s.saveRecord(stakeId, record); err != nil {
		return 0, err
	}
	s.appendUserStake(sender, stakeId)
	s.receipts.MintReceipt(sender, stakeId, big.NewInt(1))

	s.emit("Staked", sender.Bytes(), common.ToBytes(stakeId), amount.Bytes())
	collector.AddStake(s.statsCollector, sender, stakeId, amount)
	return stakeId, nil
}

// RedeemBadge mints the badge of the highest tier the stake has reached.
// Lower tiers that were never redeemed are skipped.
func (s *Staking) RedeemBadge(stakeId uint64) (Tier, error) {
	record, err := s.ownedActiveRecord(stakeId)
	if err != nil {
		return TierNone, err
	}
	points := CalculatePoints(record.Amount, record.StartTime, s.env.BlockTimeStamp())
	tier := ReachedTier(points)
	if tier <= record.RedeemedTier {
		return TierNone, errors.Wrapf(ErrTierNotReached, "points %v, redeemed %v", points, record.RedeemedTier)
	}
	record.RedeemedTier = tier
	if err := s.saveRecord(stakeId, record); err != nil {
		return TierNone, err
	}
	s.receipts.MintReceipt(record.Owner, tier.BadgeId(), big.NewInt(1))

	s.emit("BadgeRedeemed", record.Owner.Bytes(), common.ToBytes(stakeId), []byte{byte(tier)})
	collector.AddBadgeRedeem(s.statsCollector, record.Owner, stakeId, byte(tier))
	return tier, nil
}

// Withdraw retires the stake and returns the principal. Badges are kept.
func (s *Staking) Withdraw(stakeId uint64) error {
	record, err := s.ownedActiveRecord(stakeId)
	if err != nil {
		return err
	}
	amount := record.Amount
	record.Amount = new(big.Int)
	record.Active = false
	if err := s.saveRecord(stakeId, record); err != nil {
		return err
	}
	if err := s.receipts.BurnReceipt(record.Owner, stakeId, big.NewInt(1)); err != nil {
		return err
	}
	asset, err := s.asset()
	if err != nil {
		return err
	}
	if err := asset.TransferOut(record.Owner, amount); err != nil {
		return err
	}

	s.emit("Withdrawn", record.Owner.Bytes(), common.ToBytes(stakeId), amount.Bytes())
	collector.AddWithdrawal(s.statsCollector, record.Owner, stakeId, amount)
	return nil
}

func (s *Staking) CalculatePoints(owner common.Address, stakeId uint64) (*big.Int, error) {
	record, err := s.record(stakeId)
	if err != nil {
		return nil, err
	}
	if record.Owner != owner || !record.Active {
		return nil, ErrNotFound
	}
	return CalculatePoints(record.Amount, record.StartTime, s.env.BlockTimeStamp()), nil
}

// StakeInfo also returns withdrawn stakes, with a zero amount.
func (s *Staking) StakeInfo(owner common.Address, stakeId uint64) (*StakeInfo, error) {
	record, err := s.record(stakeId)
	if err != nil {
		return nil, err
	}
	if record.Owner != owner {
		return nil, ErrNotFound
	}
	return &StakeInfo{
		Amount:       record.Amount,
		StartTime:    record.StartTime,
		RedeemedTier: record.RedeemedTier,
		Active:       record.Active,
	}, nil
}

func (s *Staking) UserStakeIds(owner common.Address) []uint64 {
	count := s.userStakeCount(owner)
	ids := make([]uint64, 0, count)
	for i := uint32(0); i < count; i++ {
		data := s.userStakes.Get(userStakeKey(owner, i))
		if data == nil {
			continue
		}
		ids = append(ids, common.KeyToUint64(data))
	}
	return ids
}

func (s *Staking) ownedActiveRecord(stakeId uint64) (*StakeRecord, error) {
	record, err := s.record(stakeId)
	if err != nil {
		return nil, err
	}
	if !record.Active {
		return nil, ErrNotFound
	}
	if record.Owner != s.ctx.Sender() {
		return nil, ErrNotOwner
	}
	return record, nil
}

func (s *Staking) record(stakeId uint64) (*StakeRecord, error) {
	data := s.stakes.Get(common.Uint64Key(stakeId))
	if data == nil {
		return nil, ErrNotFound
	}
	record := new(StakeRecord)
	if err := rlp.DecodeBytes(data, record); err != nil {
		return nil, errors.Wrapf(err, "decode stake %v", stakeId)
	}
	return record, nil
}

func (s *Staking) saveRecord(stakeId uint64, record *StakeRecord) error {
	data, err := rlp.EncodeToBytes(record)
	if err != nil {
		return err
	}
	s.stakes.Set(common.Uint64Key(stakeId), data)
	return nil
}

// nextStakeId skips the badge id range so receipts of stakes and badges never
// share an id.
func (s *Staking) nextStakeId() uint64 {
	id := s.GetUint64("nextId")
	if id == 0 {
		id = 1
	}
	if isBadgeId(id) {
		id = BadgePremiumId + 1
	}
	s.SetUint64("nextId", id+1)
	return id
}

func (s *Staking) appendUserStake(owner common.Address, stakeId uint64) {
	count := s.userStakeCount(owner)
	s.userStakes.Set(userStakeKey(owner, count), common.Uint64Key(stakeId))
	s.userCounts.Set(owner.Bytes(), common.Uint32Key(count+1))
}

func (s *Staking) userStakeCount(owner common.Address) uint32 {
	return common.KeyToUint32(s.userCounts.Get(owner.Bytes()))
}

func (s *Staking) asset() (AssetPort, error) {
	addr, ok := s.GetAddress("asset")
	if !ok {
		return nil, ErrTokenNotDeployed
	}
	token, err := s.rewardTokenAt(addr)
	if err != nil {
		return nil, err
	}
	return newTokenAsset(token, s.ctx.ContractAddr()), nil
}

// stakeStartTime treats a header time before the epoch as zero.
func stakeStartTime(blockTime int64) uint64 {
	if blockTime < 0 {
		return 0
	}
	return uint64(blockTime)
}

func userStakeKey(owner common.Address, index uint32) []byte {
	key := make([]byte, 0, common.AddressLength+4)
	key = append(key, owner.Bytes()...)
	return append(key, common.Uint32Key(index)...)
}

func extractOwnerAndId(args ...[]byte) (common.Address, uint64, error) {
	owner, err := helpers.ExtractAddr(0, args...)
	if err != nil {
		return common.Address{}, 0, err
	}
	id, err := helpers.ExtractUInt64(1, args...)
	if err != nil {
		return common.Address{}, 0, err
	}
	return owner, id, nil
}
