package bskeys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/nodeset-org/hyperdrive-bsteth/common/contracts"
	bssigner "github.com/nodeset-org/hyperdrive-bsteth/server/signer"
	"github.com/rocket-pool/node-manager-core/api/types"
)

// The category of a failed submission
type ErrorKind string

const (
	ErrorKind_None                      ErrorKind = ""
	ErrorKind_KeyExists                 ErrorKind = "KeyExists"
	ErrorKind_InvalidBatchForOperation  ErrorKind = "InvalidBatchForOperation"
	ErrorKind_SubmissionFailed          ErrorKind = "SubmissionFailed"
	ErrorKind_ExecutionLayerUnavailable ErrorKind = "ExecutionLayerUnavailable"
)

var (
	ErrKeyExists                 error = errors.New("one or more keys are already uploaded to the protocol")
	ErrInvalidBatchForOperation  error = errors.New("the batch is not valid for the selected operation")
	ErrSubmissionFailed          error = errors.New("key submission failed")
	ErrExecutionLayerUnavailable error = errors.New("the execution layer is unavailable")

	// A multi-key batch was submitted for an operator that doesn't exist yet
	ErrSingleKeyRequired error = errors.New("only one validator is supported without an existing node operator")

	// The batch had no keys
	ErrEmptyBatch error = errors.New("the batch does not contain any keys")
)

// Get the sentinel error for the kind
func (k ErrorKind) Sentinel() error {
	switch k {
	case ErrorKind_KeyExists:
		return ErrKeyExists
	case ErrorKind_InvalidBatchForOperation:
		return ErrInvalidBatchForOperation
	case ErrorKind_SubmissionFailed:
		return ErrSubmissionFailed
	case ErrorKind_ExecutionLayerUnavailable:
		return ErrExecutionLayerUnavailable
	default:
		return nil
	}
}

// Get the API response status for the kind
func (k ErrorKind) ResponseStatus() types.ResponseStatus {
	switch k {
	case ErrorKind_None:
		return types.ResponseStatus_Success
	case ErrorKind_KeyExists:
		return types.ResponseStatus_InvalidChainState
	case ErrorKind_InvalidBatchForOperation:
		return types.ResponseStatus_InvalidArguments
	case ErrorKind_ExecutionLayerUnavailable:
		return types.ResponseStatus_ClientsNotSynced
	default:
		return types.ResponseStatus_Error
	}
}

// A failed submission attempt
type SubmissionError struct {
	Kind ErrorKind

	// The underlying failure
	Cause error

	// The decoded revert, if the contract rejected the call
	ContractError *contracts.ContractError

	// True if the user rejected the transaction in the wallet
	Rejected bool

	// The 0x-prefixed pubkeys that were already submitted
	DuplicateKeys []string
}

func (e *SubmissionError) Error() string {
	var sb strings.Builder
	sentinel := e.Kind.Sentinel()
	if sentinel == nil {
		sb.WriteString("unknown submission error")
	} else {
		sb.WriteString(sentinel.Error())
	}
	if len(e.DuplicateKeys) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(e.DuplicateKeys, ", "))
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}

// Matches the sentinel for the error's kind
func (e *SubmissionError) Is(target error) bool {
	sentinel := e.Kind.Sentinel()
	return sentinel != nil && target == sentinel
}

// Get the kind of a submission error, or ErrorKind_None if err isn't one
func KindOf(err error) ErrorKind {
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		return subErr.Kind
	}
	return ErrorKind_None
}

func newSubmissionError(kind ErrorKind, cause error) *SubmissionError {
	return &SubmissionError{
		Kind:  kind,
		Cause: cause,
	}
}

// Wrap a failure that hasn't been classified yet as a submission failure
func asSubmissionError(err error) *SubmissionError {
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		return subErr
	}
	return newSubmissionError(ErrorKind_SubmissionFailed, err)
}

// Classify a failure that happened while talking to the execution client. Calls the node rejected
// (reverts and other JSON-RPC errors), calls that could not be encoded and transactions with an unsafe
// gas limit are submission failures; anything else, including a node on the wrong chain, means the
// execution layer is unusable.
func translateChainError(err error, errorAbis []*abi.ABI) *SubmissionError {
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		return subErr
	}
	if errors.Is(err, contracts.ErrCallEncoding) || errors.Is(err, contracts.ErrUnsafeGasLimit) {
		return newSubmissionError(ErrorKind_SubmissionFailed, err)
	}
	if contractErr, isContractErr := contracts.DecodeContractError(err, errorAbis...); isContractErr {
		translated := newSubmissionError(ErrorKind_SubmissionFailed, err)
		translated.ContractError = contractErr
		return translated
	}
	return newSubmissionError(ErrorKind_ExecutionLayerUnavailable, err)
}

// Classify a failure from the signer. Every signer failure is a submission failure; rejections are
// flagged so callers can tell them apart from timeouts.
func translateSignerError(err error) *SubmissionError {
	translated := newSubmissionError(ErrorKind_SubmissionFailed, err)
	translated.Rejected = errors.Is(err, bssigner.ErrTransactionRejected)
	return translated
}
