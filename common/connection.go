package bscommon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/nodeset-org/hyperdrive-bsteth/common/contracts"
	"github.com/nodeset-org/hyperdrive-bsteth/common/contracts/bsteth"
	bskeys "github.com/nodeset-org/hyperdrive-bsteth/keys"
)

// Opens websocket connections to the execution client
type ExecutionConnectionProvider struct {
	url     string
	chainID uint64
	logger  *slog.Logger
}

// Creates a new connection provider for the execution client at the provided URL.
// Transactions are only built if the client is on the provided chain.
func NewExecutionConnectionProvider(url string, chainID uint64, logger *slog.Logger) *ExecutionConnectionProvider {
	return &ExecutionConnectionProvider{
		url:     url,
		chainID: chainID,
		logger:  logger,
	}
}

// Open a connection for a single submission attempt
func (p *ExecutionConnectionProvider) Open(ctx context.Context) (bskeys.ChainConnection, error) {
	return p.dial(ctx)
}

func (p *ExecutionConnectionProvider) dial(ctx context.Context) (*ExecutionConnection, error) {
	client, err := ethclient.DialContext(ctx, p.url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to execution client at [%s]: %w", p.url, err)
	}
	txMgr, err := contracts.NewTransactionManager(client, p.chainID)
	if err != nil {
		client.Close()
		return nil, err
	}
	p.logger.Debug("Connected to execution client", slog.String("url", p.url))
	return &ExecutionConnection{
		client: client,
		txMgr:  txMgr,
		logger: p.logger,
	}, nil
}

// A live connection to the execution client
type ExecutionConnection struct {
	client *ethclient.Client
	txMgr  *contracts.TransactionManager
	logger *slog.Logger
}

// Get a BstETH binding that builds transactions over this connection
func (c *ExecutionConnection) GetOperatorContract(address common.Address) (bskeys.OperatorContract, error) {
	return bsteth.NewBstETH(address, c.txMgr)
}

// Get an accounting binding that calls over this connection
func (c *ExecutionConnection) GetAccounting(address common.Address) (*bsteth.Accounting, error) {
	return bsteth.NewAccounting(address, c.client)
}

// Close the connection
func (c *ExecutionConnection) Close() error {
	c.client.Close()
	c.logger.Debug("Closed execution client connection")
	return nil
}
