package bsapi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rocket-pool/node-manager-core/api/types"
)

// The outcome of a single key submission attempt
type SubmitKeysData struct {
	Status    types.ResponseStatus `json:"status"`
	Operation string               `json:"operation,omitempty"`
	KeyCount  int                  `json:"keyCount"`
	Value     *big.Int             `json:"value,omitempty"`
	TxHash    *common.Hash         `json:"txHash,omitempty"`
	ErrorKind string               `json:"errorKind,omitempty"`
	Error     string               `json:"error,omitempty"`

	// Set when the batch contained keys that were already submitted
	DuplicateKeys []string `json:"duplicateKeys,omitempty"`

	// Set when the contract reverted with a known error
	ContractError string `json:"contractError,omitempty"`

	// Submission counters for this run
	Metrics map[string]float64 `json:"metrics,omitempty"`
}
