package node

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/refstake/refstake-go/blockchain/attachments"
	"github.com/refstake/refstake-go/blockchain/types"
	"github.com/refstake/refstake-go/common"
	"github.com/refstake/refstake-go/common/math"
	"github.com/refstake/refstake-go/config"
	"github.com/refstake/refstake-go/core/state"
	"github.com/refstake/refstake-go/database"
	"github.com/refstake/refstake-go/log"
	"github.com/refstake/refstake-go/stats/collector"
	"github.com/refstake/refstake-go/vm"
	"github.com/refstake/refstake-go/vm/embedded"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	dbm "github.com/tendermint/tm-db"
)

const (
	dbName    = "refstake"
	dbCache   = 16
	dbHandles = 16
)

var repoPrefix = []byte("repo")

type Node struct {
	config         *config.Config
	db             dbm.DB
	state          *state.StateDB
	repo           *database.Repo
	head           *types.Header
	contracts      *database.Contracts
	statsCollector collector.StatsCollector
	log            log.Logger
	clock          func() int64
	mutex          sync.Mutex
}

func NewNode(cfg *config.Config, statsCollector collector.StatsCollector) (*Node, error) {
	db, err := OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}
	return &Node{
		config:         cfg,
		db:             db,
		state:          state.NewStateDB(db),
		repo:           NewRepo(db),
		statsCollector: statsCollector,
		log:            log.New("component", "node"),
		clock:          func() int64 { return time.Now().Unix() },
	}, nil
}

// NewRepo opens the node repository kept next to the state in db.
func NewRepo(db dbm.DB) *database.Repo {
	return database.NewRepo(dbm.NewPrefixDB(db, repoPrefix))
}

func OpenDatabase(cfg *config.Config) (dbm.DB, error) {
	if cfg.InMemory {
		return dbm.NewMemDB(), nil
	}
	db, err := dbm.NewGoLevelDBWithOpts(dbName, cfg.DataDir, &opt.Options{
		OpenFilesCacheCapacity: dbHandles,
		BlockCacheCapacity:     dbCache / 2 * opt.MiB,
		WriteBuffer:            dbCache / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database in %v", cfg.DataDir)
	}
	return db, nil
}

// Start loads the last state version or, on an empty database, deploys and
// wires the contracts.
func (node *Node) Start() error {
	node.mutex.Lock()
	defer node.mutex.Unlock()

	version, err := node.state.Load()
	if err != nil {
		return err
	}
	node.head = node.repo.ReadHead()
	node.contracts = node.repo.ReadContracts()
	if node.head != nil && node.contracts != nil {
		node.log.Info("Node started", "height", node.head.Height, "version", version, "root", node.state.Root().Hex())
		return nil
	}
	if version != 0 {
		return errors.New("state exists but node head is missing")
	}
	return node.bootstrap()
}

func (node *Node) bootstrap() error {
	genesis := node.config.GenesisConf
	owner := genesis.Owner
	timestamp := genesis.Time
	if timestamp == 0 {
		timestamp = node.clock()
	}
	header := &types.Header{Height: 1, Time: timestamp}
	machine := vm.NewVmImpl(node.state, header, node.statsCollector)

	var nonce uint32
	run := func(tx *types.Transaction) (*types.TxReceipt, error) {
		receipt := machine.Run(tx, -1)
		if !receipt.Success {
			return nil, errors.Wrapf(receipt.Error, "bootstrap tx %v", tx.AccountNonce)
		}
		return receipt, nil
	}
	deploy := func(codeHash common.Hash, args ...[]byte) (common.Address, error) {
		nonce++
		payload, err := attachments.CreateDeployContractAttachment(codeHash, args...).ToBytes()
		if err != nil {
			return common.Address{}, err
		}
		receipt, err := run(&types.Transaction{AccountNonce: nonce, Type: types.DeployContractTx, From: owner, Payload: payload})
		if err != nil {
			return common.Address{}, err
		}
		return receipt.ContractAddress, nil
	}
	call := func(contract common.Address, method string, args ...[]byte) error {
		nonce++
		payload, err := attachments.CreateCallContractAttachment(method, args...).ToBytes()
		if err != nil {
			return err
		}
		_, err = run(&types.Transaction{AccountNonce: nonce, Type: types.CallContractTx, From: owner, To: &contract, Payload: payload})
		return err
	}

	contracts := &database.Contracts{}
	var err error
	if contracts.RewardToken, err = deploy(embedded.RewardTokenContract); err != nil {
		return err
	}
	if contracts.AssetToken, err = deploy(embedded.RewardTokenContract, owner.Bytes()); err != nil {
		return err
	}
	referral := node.config.Referral
	if contracts.Referral, err = deploy(embedded.ReferralSystemContract, contracts.RewardToken.Bytes(),
		math.TokenAmount(referral.ReferrerReward).Bytes(), math.TokenAmount(referral.RefereeReward).Bytes()); err != nil {
		return err
	}
	if contracts.Staking, err = deploy(embedded.StakingContract, contracts.AssetToken.Bytes()); err != nil {
		return err
	}
	if err := call(contracts.RewardToken, "setController", contracts.Referral.Bytes()); err != nil {
		return err
	}
	for _, addr := range sortedAddresses(genesis.Alloc) {
		if err := call(contracts.AssetToken, "mint", addr.Bytes(), math.TokenAmount(genesis.Alloc[addr]).Bytes()); err != nil {
			return err
		}
	}

	root, version, err := node.state.Commit()
	if err != nil {
		return err
	}
	header.ParentRoot = root
	if err := node.repo.WriteContracts(contracts); err != nil {
		return err
	}
	if err := node.repo.WriteHead(header); err != nil {
		return err
	}
	node.head = header
	node.contracts = contracts
	node.log.Info("Contracts deployed", "version", version, "root", root.Hex(),
		"rewardToken", contracts.RewardToken.Hex(), "assetToken", contracts.AssetToken.Hex(),
		"referral", contracts.Referral.Hex(), "staking", contracts.Staking.Hex())
	return nil
}

// ApplyTx runs tx in a new block and saves a state version. The block time
// never goes below the previous one.
func (node *Node) ApplyTx(tx *types.Transaction) (*types.TxReceipt, error) {
	node.mutex.Lock()
	defer node.mutex.Unlock()
	if node.head == nil {
		return nil, errors.New("node is not started")
	}

	timestamp := node.clock()
	if timestamp < node.head.Time {
		timestamp = node.head.Time
	}
	header := &types.Header{
		Height:     node.head.Height + 1,
		Time:       timestamp,
		ParentRoot: node.state.Root(),
	}
	receipt := vm.NewVmImpl(node.state, header, node.statsCollector).Run(tx, node.config.GasLimit)

	if _, _, err := node.state.Commit(); err != nil {
		node.state.Reset()
		return nil, err
	}
	if err := node.repo.WriteReceipt(header.Height, receipt); err != nil {
		return nil, err
	}
	if err := node.repo.WriteHead(header); err != nil {
		return nil, err
	}
	node.head = header
	if !receipt.Success {
		node.log.Debug("Transaction failed", "hash", receipt.TxHash.Hex(), "err", receipt.Error)
	}
	return receipt, nil
}

// Read calls a read-only contract method against the last saved state.
func (node *Node) Read(contract common.Address, method string, args ...[]byte) ([]byte, error) {
	node.mutex.Lock()
	defer node.mutex.Unlock()
	if node.head == nil {
		return nil, errors.New("node is not started")
	}
	return vm.NewVmImpl(node.state, node.head, nil).Read(contract, method, args...)
}

func (node *Node) Receipt(hash common.Hash) *database.StoredReceipt {
	return node.repo.ReadReceipt(hash)
}

func (node *Node) Contracts() database.Contracts {
	node.mutex.Lock()
	defer node.mutex.Unlock()
	if node.contracts == nil {
		return database.Contracts{}
	}
	return *node.contracts
}

func (node *Node) Head() *types.Header {
	node.mutex.Lock()
	defer node.mutex.Unlock()
	return node.head
}

func (node *Node) Root() common.Hash {
	node.mutex.Lock()
	defer node.mutex.Unlock()
	return node.state.Root()
}

func (node *Node) Stop() error {
	node.mutex.Lock()
	defer node.mutex.Unlock()
	return node.db.Close()
}
