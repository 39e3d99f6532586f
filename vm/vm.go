package vm

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/refstake/refstake-go/blockchain/attachments"
	"github.com/refstake/refstake-go/blockchain/types"
	"github.com/refstake/refstake-go/common"
	"github.com/refstake/refstake-go/core/state"
	"github.com/refstake/refstake-go/log"
	"github.com/refstake/refstake-go/stats/collector"
	"github.com/refstake/refstake-go/vm/costs"
	"github.com/refstake/refstake-go/vm/embedded"
	env2 "github.com/refstake/refstake-go/vm/env"
)

var (
	UnexpectedTx = errors.New("unexpected tx type")

	loggerOnce sync.Once
	vmLogger   log.ThrottlingLogger
)

// logger is shared by all VM instances so repeated failures are throttled
// across blocks.
func logger() log.ThrottlingLogger {
	loggerOnce.Do(func() {
		vmLogger = log.NewThrottlingLogger(log.New("component", "vm"))
	})
	return vmLogger
}

type VM interface {
	Run(tx *types.Transaction, gasLimit int64) *types.TxReceipt
	Read(contractAddr common.Address, method string, args ...[]byte) ([]byte, error)
}

type VmImpl struct {
	env            *env2.EnvImp
	gasCounter     *env2.GasCounter
	state          *state.StateDB
	block          *types.Header
	statsCollector collector.StatsCollector
	logger         log.ThrottlingLogger
}

func NewVmImpl(s *state.StateDB, block *types.Header, statsCollector collector.StatsCollector) *VmImpl {
	gasCounter := env2.NewGasCounter(-1)
	return &VmImpl{
		env:            env2.NewEnvImp(s, block, gasCounter),
		gasCounter:     gasCounter,
		state:          s,
		block:          block,
		statsCollector: statsCollector,
		logger:         logger(),
	}
}

func createContract(ctx env2.CallContext, e env2.Env, statsCollector collector.StatsCollector) embedded.Contract {
	switch ctx.CodeHash() {
	case embedded.RewardTokenContract:
		return embedded.NewRewardToken(ctx, e, statsCollector)
	case embedded.ReferralSystemContract:
		return embedded.NewReferralSystem(ctx, e, statsCollector)
	case embedded.StakingContract:
		return embedded.NewStaking(ctx, e, statsCollector)
	default:
		return nil
	}
}

func (vm *VmImpl) deploy(tx *types.Transaction) (common.Address, error) {
	attach := attachments.ParseDeployContractAttachment(tx)
	if attach == nil {
		return common.Address{}, errors.New("can't parse attachment")
	}
	ctx := env2.NewDeployContextImpl(tx, attach.CodeHash)
	if _, ok := embedded.AvailableContracts[attach.CodeHash]; !ok {
		return ctx.ContractAddr(), errors.New("unknown contract")
	}
	contract := createContract(ctx, vm.env, vm.statsCollector)
	if vm.env.CodeHash(ctx.ContractAddr()) != nil {
		return ctx.ContractAddr(), errors.New("contract is already deployed")
	}
	vm.gasCounter.AddGas(costs.DeployContractGas)
	vm.env.Deploy(ctx)
	return ctx.ContractAddr(), contract.Deploy(attach.Args...)
}

func (vm *VmImpl) call(tx *types.Transaction) (common.Address, error) {
	if tx.To == nil {
		return common.Address{}, errors.New("contract address is missing")
	}
	attach := attachments.ParseCallContractAttachment(tx)
	if attach == nil {
		return *tx.To, errors.New("can't parse attachment")
	}
	codeHash := vm.env.CodeHash(*tx.To)
	if codeHash == nil {
		return *tx.To, errors.New("contract is not deployed")
	}
	ctx := env2.NewCallContextImpl(tx, *codeHash)
	contract := createContract(ctx, vm.env, vm.statsCollector)
	if contract == nil {
		return *tx.To, errors.New("unknown contract")
	}
	vm.gasCounter.AddGas(costs.CallContractGas)
	return *tx.To, contract.Call(attach.Method, attach.Args...)
}

func (vm *VmImpl) execute(tx *types.Transaction) (contractAddr common.Address, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.Is(e, env2.ErrOutOfGas) {
				err = env2.ErrOutOfGas
				return
			}
			err = errors.Errorf("contract panic: %v", r)
		}
	}()
	switch tx.Type {
	case types.CallContractTx:
		return vm.call(tx)
	default:
		return vm.deploy(tx)
	}
}

// Run executes tx against the state. Changes are written to the state only if
// the contract returns no error; a negative gas limit disables metering.
func (vm *VmImpl) Run(tx *types.Transaction, gasLimit int64) *types.TxReceipt {
	if tx.Type != types.CallContractTx && tx.Type != types.DeployContractTx {
		return &types.TxReceipt{Success: false, Error: UnexpectedTx, TxHash: tx.Hash(), From: tx.From}
	}
	vm.gasCounter.Reset(int(gasLimit))
	contractAddr, err := vm.execute(tx)

	var events []*types.TxEvent
	if err != nil {
		vm.logger.Debug("contract execution failed", "contract", contractAddr.Hex(), "err", err)
		collector.AddFailedTx(vm.statsCollector, errors.Cause(err).Error())
	} else {
		events = vm.env.Events()
		vm.env.Commit()
	}
	vm.env.Reset()

	gasUsed := vm.gasCounter.UsedGas
	if gasLimit >= 0 && gasUsed > int(gasLimit) {
		gasUsed = int(gasLimit)
	}
	return &types.TxReceipt{
		GasUsed:         uint64(gasUsed),
		TxHash:          tx.Hash(),
		Error:           err,
		Success:         err == nil,
		From:            tx.From,
		ContractAddress: contractAddr,
		Events:          events,
	}
}

// Read runs a read-only method on a fresh environment. Nothing is committed.
func (vm *VmImpl) Read(contractAddr common.Address, method string, args ...[]byte) (result []byte, err error) {
	e := env2.NewEnvImp(vm.state, vm.block, env2.NewGasCounter(-1))
	codeHash := e.CodeHash(contractAddr)
	if codeHash == nil {
		return nil, errors.New("contract is not deployed")
	}
	contract := createContract(env2.NewReadContextImpl(contractAddr, *codeHash), e, nil)
	if contract == nil {
		return nil, errors.New("unknown contract")
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("contract panic: %v", r)
		}
	}()
	return contract.Read(method, args...)
}
