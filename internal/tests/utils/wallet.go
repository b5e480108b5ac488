package bstestutils

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	bsapi "github.com/nodeset-org/hyperdrive-bsteth/shared/api"
)

// What the simulated wallet does with the pending transaction
type WalletAction func(params *bsapi.SignerParams) (common.Hash, bool)

// Sends every transaction and returns the provided hash
func SendWith(txHash common.Hash) WalletAction {
	return func(params *bsapi.SignerParams) (common.Hash, bool) {
		return txHash, true
	}
}

// Rejects every transaction
func Reject() WalletAction {
	return func(params *bsapi.SignerParams) (common.Hash, bool) {
		return common.Hash{}, false
	}
}

// Plays the browser wallet for a single request: polls /params until a transaction shows up,
// then reports the outcome to /done. The seen params are sent on the returned channel.
func (h *StandardTestHarness) RunWallet(ctx context.Context, action WalletAction) <-chan *bsapi.SignerParams {
	seen := make(chan *bsapi.SignerParams, 1)
	go func() {
		defer close(seen)
		params, err := h.waitForParams(ctx)
		if err != nil {
			h.Logger.Warn(err.Error())
			return
		}
		seen <- params

		txHash, send := action(params)
		if send {
			_, err = h.Wallet.ReportTxHash(ctx, txHash)
		} else {
			_, err = h.Wallet.ReportRejected(ctx)
		}
		if err != nil {
			h.Logger.Warn(fmt.Sprintf("error reporting wallet outcome: %s", err.Error()))
		}
	}()
	return seen
}

func (h *StandardTestHarness) waitForParams(ctx context.Context) (*bsapi.SignerParams, error) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		params, err := h.Wallet.GetParams(ctx)
		if err == nil {
			return params, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wallet gave up waiting for a transaction: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
