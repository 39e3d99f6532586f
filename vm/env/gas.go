package env

import (
	"github.com/pkg/errors"
	"github.com/refstake/refstake-go/vm/costs"
)

// ErrOutOfGas is the value GasCounter panics with once the limit is exceeded.
var ErrOutOfGas = errors.New("not enough gas")

type GasCounter struct {
	UsedGas  int
	gasLimit int
}

// NewGasCounter creates a counter; a negative limit means unlimited.
func NewGasCounter(gasLimit int) *GasCounter {
	return &GasCounter{gasLimit: gasLimit}
}

func (g *GasCounter) AddGas(gas int) {
	g.UsedGas += gas
	if g.gasLimit >= 0 && g.gasLimit < g.UsedGas {
		panic(ErrOutOfGas)
	}
}

func (g *GasCounter) AddWrittenBytesAsGas(size int) {
	g.AddGas(size * costs.WriteStatePerByteGas)
}

func (g *GasCounter) AddReadBytesAsGas(size int) {
	g.AddGas(size * costs.ReadStatePerByteGas)
}

func (g *GasCounter) Reset(gasLimit int) {
	g.UsedGas = 0
	g.gasLimit = gasLimit
}
