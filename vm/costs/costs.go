package costs

const DeployContractGas = 200
const CallContractGas = 100
const ReadContractGas = 10

const ReadStatePerByteGas = 1
const WriteStatePerByteGas = 2
const RemoveStateGas = 1
const RegisterCodeGas = 10

const EmitEventBase = 10
const EmitEventPerByteGas = 2
