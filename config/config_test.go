package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/refstake/refstake-go/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gopkg.in/urfave/cli.v1"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String(CfgFileFlag.Name, "", "")
	set.String(DataDirFlag.Name, "", "")
	set.Bool(InMemoryFlag.Name, false, "")
	set.Int64(GasLimitFlag.Name, 0, "")
	set.String(OwnerFlag.Name, "", "")
	set.String(ReferrerRewardFlag.Name, "", "")
	set.String(RefereeRewardFlag.Name, "", "")
	require.NoError(t, set.Parse(args))
	return cli.NewContext(nil, set, nil)
}

func TestMakeConfig_Defaults(t *testing.T) {
	cfg, err := MakeConfig(newContext(t))
	require.NoError(t, err)
	require.Equal(t, DefaultDataDir, cfg.DataDir)
	require.Equal(t, DefaultGasLimit, cfg.GasLimit)
	require.True(t, cfg.Referral.ReferrerReward.Equal(decimal.NewFromInt(5)))
	require.True(t, cfg.Referral.RefereeReward.Equal(decimal.NewFromInt(10)))
	require.Equal(t, common.HexToAddress(DefaultOwner), cfg.GenesisConf.Owner)
}

func TestMakeConfig_FileAndFlags(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
		"GasLimit": 500,
		"Referral": {"ReferrerReward": "1.5", "RefereeReward": "3"},
		"GenesisConf": {"Alloc": {"0x0000000000000000000000000000000000000001": "100"}}
	}`), 0600))

	cfg, err := MakeConfig(newContext(t, "--config", file, "--refereereward", "2.25", "--memdb", "--owner", "0x0000000000000000000000000000000000000002"))
	require.NoError(t, err)
	require.Equal(t, int64(500), cfg.GasLimit)
	require.True(t, cfg.InMemory)
	require.True(t, cfg.Referral.ReferrerReward.Equal(decimal.RequireFromString("1.5")))
	require.True(t, cfg.Referral.RefereeReward.Equal(decimal.RequireFromString("2.25")))
	require.Equal(t, common.Address{19: 0x2}, cfg.GenesisConf.Owner)
	require.True(t, cfg.GenesisConf.Alloc[common.Address{19: 0x1}].Equal(decimal.NewFromInt(100)))
}

func TestMakeConfig_Errors(t *testing.T) {
	_, err := MakeConfig(newContext(t, "--config", filepath.Join(t.TempDir(), "missing.json")))
	require.Error(t, err)

	_, err = MakeConfig(newContext(t, "--referrerreward", "abc"))
	require.Error(t, err)

	_, err = MakeConfig(newContext(t, "--referrerreward", "-1"))
	require.Error(t, err)
}
