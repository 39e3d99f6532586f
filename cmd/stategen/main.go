package main

import (
	"os"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/refstake/refstake-go/common"
	"github.com/refstake/refstake-go/config"
	"github.com/refstake/refstake-go/core/state"
	"github.com/refstake/refstake-go/database"
	"github.com/refstake/refstake-go/log"
	"github.com/refstake/refstake-go/node"
	dbm "github.com/tendermint/tm-db"
	"gopkg.in/urfave/cli.v1"
)

var outFlag = cli.StringFlag{
	Name:  "out",
	Usage: "Snapshot file",
	Value: "stategen.out",
}

type ContractSnapshot struct {
	Address  common.Address
	CodeHash common.Hash
	Keys     [][]byte
	Values   [][]byte
}

type Snapshot struct {
	Height    uint64
	Root      common.Hash
	Contracts []*ContractSnapshot
}

// stategen writes the storage of the bootstrapped contracts as an rlp snapshot.
func main() {
	app := cli.NewApp()

	app.Flags = []cli.Flag{
		config.DataDirFlag,
		config.VerbosityFlag,
		outFlag,
	}

	app.Action = func(context *cli.Context) error {
		log.Setup(os.Stderr, context.Int(config.VerbosityFlag.Name), false)

		if !context.IsSet(config.DataDirFlag.Name) {
			return errors.New("datadir option is required")
		}
		cfg := config.GetDefaultConfig()
		cfg.DataDir = context.String(config.DataDirFlag.Name)

		db, err := node.OpenDatabase(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		snapshot, err := makeSnapshot(db)
		if err != nil {
			return err
		}

		file, err := os.Create(context.String(outFlag.Name))
		if err != nil {
			return err
		}
		defer file.Close()
		return rlp.Encode(file, snapshot)
	}

	if err := app.Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func makeSnapshot(db dbm.DB) (*Snapshot, error) {
	repo := node.NewRepo(db)
	head := repo.ReadHead()
	contracts := repo.ReadContracts()
	if head == nil || contracts == nil {
		return nil, errors.New("head is not found")
	}
	stateDb := state.NewStateDB(db)
	if _, err := stateDb.Load(); err != nil {
		return nil, err
	}

	snapshot := &Snapshot{Height: head.Height, Root: stateDb.Root()}
	for _, addr := range contractAddresses(contracts) {
		codeHash := stateDb.GetCodeHash(addr)
		if codeHash == nil {
			return nil, errors.Errorf("contract %v is not deployed", addr.Hex())
		}
		contract := &ContractSnapshot{Address: addr, CodeHash: *codeHash}
		stateDb.IterateContractStore(addr, nil, nil, func(key []byte, value []byte) bool {
			contract.Keys = append(contract.Keys, key)
			contract.Values = append(contract.Values, value)
			return false
		})
		snapshot.Contracts = append(snapshot.Contracts, contract)
	}
	return snapshot, nil
}

func contractAddresses(contracts *database.Contracts) []common.Address {
	return []common.Address{contracts.RewardToken, contracts.AssetToken, contracts.Referral, contracts.Staking}
}
