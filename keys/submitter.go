package bskeys

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/nodeset-org/hyperdrive-bsteth/common/contracts"
	"github.com/nodeset-org/hyperdrive-bsteth/common/contracts/bsteth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rocket-pool/node-manager-core/log"
)

// The result of a successful submission
type SubmissionResult struct {
	// The operation used to submit the batch
	Operation Operation

	// The contract call that was sent
	Plan CallPlan

	// The transaction handed to the signer
	TxInfo *contracts.TransactionInfo

	// The hash reported by the signer
	TxHash common.Hash
}

// Submits batches of validator keys to BstETH
type Submitter struct {
	logger          *slog.Logger
	contractAddress common.Address
	registry        KeyRegistry
	bondResolver    BondResolver
	connections     ConnectionProvider
	signer          Signer
	errorAbis       []*abi.ABI
	metrics         *submissionMetrics
}

// Creates a new submitter. The metrics registerer is optional.
func NewSubmitter(
	logger *slog.Logger,
	contractAddress common.Address,
	registry KeyRegistry,
	bondResolver BondResolver,
	connections ConnectionProvider,
	signer Signer,
	registerer prometheus.Registerer,
) (*Submitter, error) {
	errorAbis, err := bsteth.GetErrorAbis()
	if err != nil {
		return nil, fmt.Errorf("error loading contract error ABIs: %w", err)
	}
	metrics, err := newSubmissionMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Submitter{
		logger:          logger,
		contractAddress: contractAddress,
		registry:        registry,
		bondResolver:    bondResolver,
		connections:     connections,
		signer:          signer,
		errorAbis:       errorAbis,
		metrics:         metrics,
	}, nil
}

// Submits a batch of keys for the operator. Every failure is returned as a *SubmissionError.
// Nothing is retried.
func (s *Submitter) Submit(ctx context.Context, batch Batch, opCtx OperatorContext) (*SubmissionResult, error) {
	logger := s.logger.With(
		slog.String("attempt", uuid.New().String()),
		slog.Int("keys", len(batch)),
	)

	result, err := s.submitImpl(ctx, logger, batch, opCtx)
	if err != nil {
		subErr := asSubmissionError(err)
		s.metrics.recordFailure(subErr.Kind)
		logger.Error("Key submission failed", slog.String("kind", string(subErr.Kind)), log.Err(subErr))
		return nil, subErr
	}

	s.metrics.recordSuccess(len(batch))
	logger.Info("Uploaded keys and sent ETH to BstETH successfully", slog.String("txHash", result.TxHash.Hex()))
	return result, nil
}

func (s *Submitter) submitImpl(ctx context.Context, logger *slog.Logger, batch Batch, opCtx OperatorContext) (*SubmissionResult, error) {
	// Reject keys that were already submitted
	err := CheckDuplicateKeys(batch, s.registry)
	if err != nil {
		return nil, err
	}

	// Pick the operation
	operation, err := SelectOperation(opCtx, len(batch))
	if err != nil {
		return nil, err
	}

	// Validate the payload before doing anything on-chain
	_, _, err = AssemblePayload(batch)
	if err != nil {
		return nil, err
	}

	// Price the bond for a new operator
	var bond *big.Int
	if operation == Operation_CreateOperator {
		bond, err = s.bondResolver.ResolveBond(ctx, len(batch))
		if err != nil {
			return nil, translateChainError(fmt.Errorf("error getting bond amount for %d keys: %w", len(batch), err), s.errorAbis)
		}
		logger.Debug("Resolved bond", slog.String("bond", bond.String()))
	}

	plan, err := BuildCallPlan(operation, batch, bond)
	if err != nil {
		return nil, err
	}

	logger.Info("Submitting keys...", slog.String("operation", string(operation)))
	txInfo, txHash, err := s.sendPlan(ctx, logger, plan, opCtx)
	if err != nil {
		return nil, err
	}

	return &SubmissionResult{
		Operation: operation,
		Plan:      plan,
		TxInfo:    txInfo,
		TxHash:    txHash,
	}, nil
}

// Builds the transaction for the plan and gets it signed, holding a single execution client
// connection for the whole sequence
func (s *Submitter) sendPlan(ctx context.Context, logger *slog.Logger, plan CallPlan, opCtx OperatorContext) (*contracts.TransactionInfo, common.Hash, error) {
	conn, err := s.connections.Open(ctx)
	if err != nil {
		return nil, common.Hash{}, newSubmissionError(ErrorKind_ExecutionLayerUnavailable, fmt.Errorf("error connecting to the execution client: %w", err))
	}
	defer func() {
		closeErr := conn.Close()
		if closeErr != nil {
			logger.Warn("Error closing execution client connection", log.Err(closeErr))
		}
	}()

	contract, err := conn.GetOperatorContract(s.contractAddress)
	if err != nil {
		return nil, common.Hash{}, fmt.Errorf("error creating BstETH binding: %w", err)
	}

	opts := &bind.TransactOpts{
		From:    opCtx.EthBaseAddress,
		Context: ctx,
	}
	var txInfo *contracts.TransactionInfo
	switch p := plan.(type) {
	case *CreateOperatorPlan:
		logger.Info("Creating node operator id...")
		opts.Value = p.Value
		txInfo, err = contract.CreateNodeOperatorId(p.Pubkeys, p.Signatures, opts)
	case *BondValidatorsPlan:
		logger.Info("Bonding validators...")
		opts.Value = big.NewInt(0)
		txInfo, err = contract.BondValidators(p.Count, p.Pubkeys, p.Signatures, opts)
	default:
		return nil, common.Hash{}, fmt.Errorf("unknown call plan type %T", plan)
	}
	if err != nil {
		return nil, common.Hash{}, translateChainError(err, s.errorAbis)
	}

	txHash, err := s.signer.Sign(ctx, txInfo)
	if err != nil {
		return nil, common.Hash{}, translateSignerError(err)
	}
	logger.Info("Transaction sent", slog.String("txHash", txHash.Hex()))
	return txInfo, txHash, nil
}
