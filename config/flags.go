package config

import "gopkg.in/urfave/cli.v1"

const (
	DefaultDataDir        = "datadir"
	DefaultGasLimit       = int64(1000000)
	DefaultOwner          = "0x4d60dc6a2cba8c3ef1ba5e1eba5c12c54cee6b61"
	DefaultReferrerReward = 5
	DefaultRefereeReward  = 10
)

var (
	CfgFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "JSON configuration file",
	}
	DataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "datadir for the contract state",
	}
	InMemoryFlag = cli.BoolFlag{
		Name:  "memdb",
		Usage: "Keep the state in memory only",
	}
	VerbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Log verbosity",
		Value: 3,
	}
	GasLimitFlag = cli.Int64Flag{
		Name:  "gaslimit",
		Usage: "Gas limit per transaction, negative to disable",
	}
	OwnerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "Owner of the deployed contracts",
	}
	ReferrerRewardFlag = cli.StringFlag{
		Name:  "referrerreward",
		Usage: "Referrer reward in tokens",
	}
	RefereeRewardFlag = cli.StringFlag{
		Name:  "refereereward",
		Usage: "Referee reward in tokens",
	}
)
