package bstesting

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Default gas estimate returned by the fake client
const DefaultGasEstimate uint64 = 250000

// An execution client that records the calls it receives and returns canned results
type FakeExecutionClient struct {
	// Returned from EstimateGas; DefaultGasEstimate if zero
	GasEstimate uint64

	// Returned from EstimateGas when set
	EstimateGasErr error

	// Returned from CallContract
	CallResponse []byte

	// Returned from CallContract when set
	CallErr error

	// Returned from ChainID when set
	ChainIDErr error

	// Returned from ChainID; TestChainID if zero
	NodeChainID uint64

	EstimateGasCalls  []ethereum.CallMsg
	CallContractCalls []ethereum.CallMsg
	lock              sync.Mutex
}

func (c *FakeExecutionClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.CallContractCalls = append(c.CallContractCalls, msg)
	if c.CallErr != nil {
		return nil, c.CallErr
	}
	return c.CallResponse, nil
}

func (c *FakeExecutionClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.EstimateGasCalls = append(c.EstimateGasCalls, msg)
	if c.EstimateGasErr != nil {
		return 0, c.EstimateGasErr
	}
	if c.GasEstimate == 0 {
		return DefaultGasEstimate, nil
	}
	return c.GasEstimate, nil
}

func (c *FakeExecutionClient) ChainID(ctx context.Context) (*big.Int, error) {
	if c.ChainIDErr != nil {
		return nil, c.ChainIDErr
	}
	if c.NodeChainID != 0 {
		return new(big.Int).SetUint64(c.NodeChainID), nil
	}
	return new(big.Int).SetUint64(TestChainID), nil
}

// Every address has code so empty call results aren't mistaken for a missing contract
func (c *FakeExecutionClient) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x60, 0x80}, nil
}

func (c *FakeExecutionClient) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return c.CodeAt(ctx, account, nil)
}

func (c *FakeExecutionClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(0), BaseFee: big.NewInt(0)}, nil
}

func (c *FakeExecutionClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return 0, nil
}

func (c *FakeExecutionClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (c *FakeExecutionClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(0), nil
}

// Nothing is ever sent; transactions are signed and sent by the wallet
func (c *FakeExecutionClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return errors.New("the fake execution client can't send transactions")
}

func (c *FakeExecutionClient) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (c *FakeExecutionClient) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("the fake execution client doesn't support subscriptions")
}

// A JSON-RPC error as returned by a node, optionally carrying revert data
type RpcError struct {
	Code    int
	Message string
	Data    any
}

func (e *RpcError) Error() string {
	return e.Message
}

func (e *RpcError) ErrorCode() int {
	return e.Code
}

func (e *RpcError) ErrorData() any {
	return e.Data
}

// Creates an "execution reverted" error with the revert data hex-encoded the way nodes send it
func NewRevertError(revertData []byte) *RpcError {
	return &RpcError{
		Code:    3,
		Message: "execution reverted",
		Data:    hexutil.Encode(revertData),
	}
}
