package contracts

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rocket-pool/node-manager-core/eth"
)

var (
	// The arguments for a contract method could not be ABI-encoded
	ErrCallEncoding error = errors.New("error encoding contract call")

	// The node is on a different chain than the one the transaction is meant for
	ErrWrongChain error = errors.New("execution client is on the wrong chain")

	// The simulated gas usage can't fit in a block
	ErrUnsafeGasLimit error = errors.New("transaction gas limit is unsafe")
)

// The execution client methods the bindings need; *ethclient.Client satisfies it
type ExecutionClient interface {
	bind.ContractBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Create a contract wrapper bound to the provided execution client
func NewContract(name string, address common.Address, contractAbi *abi.ABI, ec ExecutionClient) *eth.Contract {
	return &eth.Contract{
		Name:         name,
		ContractImpl: bind.NewBoundContract(address, *contractAbi, ec, ec, ec),
		Address:      address,
		ABI:          contractAbi,
	}
}

// An unsigned transaction that has been simulated against the chain, along with who sends it and where
type TransactionInfo struct {
	eth.TransactionInfo

	// The method being called
	Method string

	// The account that will sign and send the transaction
	From common.Address

	// The chain the transaction is intended for
	ChainID *big.Int
}

// Builds transactions for contract methods, simulating each one before it is returned.
// Simulation failures are returned as errors, never flattened into the simulation result.
type TransactionManager struct {
	ec              ExecutionClient
	gasMgr          *eth.TransactionManager
	expectedChainID uint64
}

// Creates a new transaction manager. If expectedChainID is not zero, transactions are only built when the
// node reports that chain.
func NewTransactionManager(ec ExecutionClient, expectedChainID uint64) (*TransactionManager, error) {
	// Only used for its safe gas limit calculation, which doesn't touch the client
	gasMgr, err := eth.NewTransactionManager(nil, eth.DefaultSafeGasBuffer, eth.DefaultSafeGasMultiplier)
	if err != nil {
		return nil, fmt.Errorf("error creating gas calculator: %w", err)
	}
	return &TransactionManager{
		ec:              ec,
		gasMgr:          gasMgr,
		expectedChainID: expectedChainID,
	}, nil
}

// Get the execution client behind the manager
func (t *TransactionManager) GetExecutionClient() ExecutionClient {
	return t.ec
}

// Encodes a contract method call and simulates it from opts.From with opts.Value attached.
// Encoding failures wrap ErrCallEncoding; simulation failures are returned as-is from the client
// so revert data is preserved.
func (t *TransactionManager) CreateTransactionInfo(contract *eth.Contract, method string, opts *bind.TransactOpts, parameters ...any) (*TransactionInfo, error) {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := packCall(contract.ABI, method, parameters...)
	if err != nil {
		return nil, err
	}

	chainID, err := t.ec.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting chain ID: %w", err)
	}
	if t.expectedChainID != 0 && (!chainID.IsUint64() || chainID.Uint64() != t.expectedChainID) {
		return nil, fmt.Errorf("%w: expected chain %d but the node is on chain %s", ErrWrongChain, t.expectedChainID, chainID.String())
	}

	value := opts.Value
	if value == nil {
		value = big.NewInt(0)
	}
	msg := ethereum.CallMsg{
		From:  opts.From,
		To:    &contract.Address,
		Value: value,
		Data:  data,
	}
	gasLimit, err := t.ec.EstimateGas(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("error simulating %s: %w", method, err)
	}
	safeLimit, err := t.gasMgr.GetSafeGasLimit(gasLimit)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %w", ErrUnsafeGasLimit, method, err)
	}

	return &TransactionInfo{
		TransactionInfo: eth.TransactionInfo{
			Data:  data,
			To:    contract.Address,
			Value: value,
			SimulationResult: eth.SimulationResult{
				IsSimulated:       true,
				EstimatedGasLimit: gasLimit,
				SafeGasLimit:      safeLimit,
			},
		},
		Method:  method,
		From:    opts.From,
		ChainID: chainID,
	}, nil
}

// Runs a read-only call against the latest block and returns the unpacked outputs
func Call(ctx context.Context, contract *eth.Contract, method string, parameters ...any) ([]any, error) {
	// The bound contract packs again; this catches arguments it would panic on
	_, err := packCall(contract.ABI, method, parameters...)
	if err != nil {
		return nil, err
	}

	var results []any
	err = contract.ContractImpl.Call(&bind.CallOpts{Context: ctx}, &results, method, parameters...)
	if err != nil {
		return nil, fmt.Errorf("error calling %s: %w", method, err)
	}
	return results, nil
}

// ABI-encodes a method call. The encoder panics on some invalid arguments (e.g. a nil *big.Int);
// those come back as ErrCallEncoding like any other encoding failure.
func packCall(contractAbi *abi.ABI, method string, parameters ...any) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("%w [%s]: %v", ErrCallEncoding, method, r)
		}
	}()

	data, err = contractAbi.Pack(method, parameters...)
	if err != nil {
		return nil, fmt.Errorf("%w [%s]: %w", ErrCallEncoding, method, err)
	}
	return data, nil
}
