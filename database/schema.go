package database

var (
	// headBlockKey tracks the header of the last applied transaction.
	headBlockKey = []byte("LastBlock")

	receiptPrefix = []byte("r")

	contractsKey = []byte("contracts")
)
