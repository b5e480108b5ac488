package bssigner

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/nodeset-org/hyperdrive-bsteth/common/contracts"
	bsapi "github.com/nodeset-org/hyperdrive-bsteth/shared/api"
)

var (
	// The user rejected the transaction in the wallet
	ErrTransactionRejected error = errors.New("transaction was rejected by the signer")

	// The wallet didn't report back before the signer timeout
	ErrSignerTimeout error = errors.New("timed out waiting for the signer")

	// The signing endpoint isn't serving a request right now
	ErrNoPendingRequest error = errors.New("there is no pending signing request")
)

type signingOutcome struct {
	txHash common.Hash
	err    error
}

// A single transaction waiting for the wallet to sign it
type SigningSession struct {
	params *bsapi.SignerParams
	done   chan signingOutcome
	once   sync.Once
}

// Creates a new session for the transaction
func NewSigningSession(tx *contracts.TransactionInfo) *SigningSession {
	value := tx.Value
	if value == nil {
		value = big.NewInt(0)
	}
	chainID := tx.ChainID
	if chainID == nil {
		chainID = big.NewInt(0)
	}
	return &SigningSession{
		params: &bsapi.SignerParams{
			To:      tx.To,
			From:    tx.From,
			Value:   (*hexutil.Big)(value),
			Data:    hexutil.Bytes(tx.Data),
			ChainID: (*hexutil.Big)(chainID),
			Gas:     hexutil.Uint64(tx.SimulationResult.SafeGasLimit),
		},
		done: make(chan signingOutcome, 1),
	}
}

// Get the transaction parameters served to the wallet
func (s *SigningSession) GetParams() *bsapi.SignerParams {
	return s.params
}

// Records the hash of the sent transaction; returns false if the session was already resolved
func (s *SigningSession) Complete(txHash common.Hash) bool {
	return s.resolve(signingOutcome{txHash: txHash})
}

// Records a rejection from the wallet; returns false if the session was already resolved
func (s *SigningSession) Reject() bool {
	return s.resolve(signingOutcome{err: ErrTransactionRejected})
}

// Blocks until the wallet reports back or the context ends
func (s *SigningSession) Wait(ctx context.Context) (common.Hash, error) {
	select {
	case outcome := <-s.done:
		return outcome.txHash, outcome.err
	case <-ctx.Done():
		return common.Hash{}, ctx.Err()
	}
}

// Only the first report counts
func (s *SigningSession) resolve(outcome signingOutcome) bool {
	resolved := false
	s.once.Do(func() {
		s.done <- outcome
		resolved = true
	})
	return resolved
}
