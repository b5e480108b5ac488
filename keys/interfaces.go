package bskeys

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/nodeset-org/hyperdrive-bsteth/common/contracts"
)

// Tracks which pubkeys have already been submitted to BstETH
type KeyRegistry interface {
	IsRegistered(pubkey []byte) (bool, error)
}

// Prices the bond for a new node operator
type BondResolver interface {
	ResolveBond(ctx context.Context, keyCount int) (*big.Int, error)
}

// Opens a connection to the execution client for a single submission attempt
type ConnectionProvider interface {
	Open(ctx context.Context) (ChainConnection, error)
}

// A live connection to the execution client; it must be closed when the attempt ends
type ChainConnection interface {
	GetOperatorContract(address common.Address) (OperatorContract, error)
	Close() error
}

// The BstETH operations used to submit keys
type OperatorContract interface {
	CreateNodeOperatorId(pubkeys []byte, signatures []byte, opts *bind.TransactOpts) (*contracts.TransactionInfo, error)
	BondValidators(keysCount *big.Int, pubkeys []byte, signatures []byte, opts *bind.TransactOpts) (*contracts.TransactionInfo, error)
}

// Gets an unsigned transaction signed and sent, returning its hash
type Signer interface {
	Sign(ctx context.Context, tx *contracts.TransactionInfo) (common.Hash, error)
}
