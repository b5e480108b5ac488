package bscommon

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rocket-pool/node-manager-core/log"
)

// Asks the accounting contract for the bond a new node operator must send
type AccountingBondResolver struct {
	provider *ExecutionConnectionProvider
	address  common.Address
	curveID  *big.Int
	logger   *slog.Logger
}

// Create a new bond resolver for the accounting contract at the provided address
func NewAccountingBondResolver(provider *ExecutionConnectionProvider, address common.Address, curveID uint64, logger *slog.Logger) *AccountingBondResolver {
	return &AccountingBondResolver{
		provider: provider,
		address:  address,
		curveID:  new(big.Int).SetUint64(curveID),
		logger:   logger,
	}
}

// Get the bond in wei for the given number of keys
func (r *AccountingBondResolver) ResolveBond(ctx context.Context, keyCount int) (*big.Int, error) {
	conn, err := r.provider.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		err := conn.Close()
		if err != nil {
			r.logger.Warn("Error closing execution client connection", log.Err(err))
		}
	}()

	accounting, err := conn.GetAccounting(r.address)
	if err != nil {
		return nil, fmt.Errorf("error creating accounting binding: %w", err)
	}
	bond, err := accounting.GetBondAmountByKeysCount(ctx, big.NewInt(int64(keyCount)), r.curveID)
	if err != nil {
		return nil, fmt.Errorf("error getting bond amount: %w", err)
	}
	r.logger.Debug("Got bond amount", slog.Int("keys", keyCount), slog.String("bond", bond.String()))
	return bond, nil
}
