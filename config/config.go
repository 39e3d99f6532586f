package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/refstake/refstake-go/common"
	"github.com/shopspring/decimal"
	"gopkg.in/urfave/cli.v1"
)

type Config struct {
	DataDir     string
	InMemory    bool
	GasLimit    int64
	GenesisConf *GenesisConf
	Referral    *ReferralConf
}

// ReferralConf holds the rewards the referral system is deployed with, in
// whole tokens.
type ReferralConf struct {
	ReferrerReward decimal.Decimal
	RefereeReward  decimal.Decimal
}

func MakeConfig(ctx *cli.Context) (*Config, error) {
	cfg := getDefaultConfig()

	if file := ctx.String(CfgFileFlag.Name); file != "" {
		if err := loadConfig(file, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyFlags(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func GetDefaultConfig() *Config {
	return getDefaultConfig()
}

func getDefaultConfig() *Config {
	return &Config{
		DataDir:  DefaultDataDir,
		GasLimit: DefaultGasLimit,
		GenesisConf: &GenesisConf{
			Owner: common.HexToAddress(DefaultOwner),
		},
		Referral: &ReferralConf{
			ReferrerReward: decimal.NewFromInt(DefaultReferrerReward),
			RefereeReward:  decimal.NewFromInt(DefaultRefereeReward),
		},
	}
}

func (c *Config) Validate() error {
	if c.Referral.ReferrerReward.IsNegative() || c.Referral.RefereeReward.IsNegative() {
		return errors.New("referral rewards should not be negative")
	}
	for addr, amount := range c.GenesisConf.Alloc {
		if amount.IsNegative() {
			return errors.Errorf("negative genesis allocation for %v", addr.Hex())
		}
	}
	return nil
}

func applyFlags(ctx *cli.Context, cfg *Config) error {
	if ctx.IsSet(DataDirFlag.Name) {
		cfg.DataDir = ctx.String(DataDirFlag.Name)
	}
	if ctx.IsSet(InMemoryFlag.Name) {
		cfg.InMemory = ctx.Bool(InMemoryFlag.Name)
	}
	if ctx.IsSet(GasLimitFlag.Name) {
		cfg.GasLimit = ctx.Int64(GasLimitFlag.Name)
	}
	applyGenesisFlags(ctx, cfg)
	return applyReferralFlags(ctx, cfg)
}

func applyGenesisFlags(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet(OwnerFlag.Name) {
		cfg.GenesisConf.Owner = common.HexToAddress(ctx.String(OwnerFlag.Name))
	}
}

func applyReferralFlags(ctx *cli.Context, cfg *Config) error {
	if ctx.IsSet(ReferrerRewardFlag.Name) {
		value, err := decimal.NewFromString(ctx.String(ReferrerRewardFlag.Name))
		if err != nil {
			return errors.Wrap(err, "invalid referrer reward")
		}
		cfg.Referral.ReferrerReward = value
	}
	if ctx.IsSet(RefereeRewardFlag.Name) {
		value, err := decimal.NewFromString(ctx.String(RefereeRewardFlag.Name))
		if err != nil {
			return errors.Wrap(err, "invalid referee reward")
		}
		cfg.Referral.RefereeReward = value
	}
	return nil
}

func loadConfig(configPath string, conf *Config) error {
	if _, err := os.Stat(configPath); err != nil {
		return errors.Errorf("Config file cannot be found, path: %v", configPath)
	}
	byteValue, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Errorf("Config file cannot be opened, path: %v", configPath)
	}
	if err := json.Unmarshal(byteValue, conf); err != nil {
		return errors.Errorf("Cannot parse JSON config, path: %v", configPath)
	}
	return nil
}
