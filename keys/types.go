package bskeys

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rocket-pool/node-manager-core/utils"
)

const (
	// Length of a BLS validator pubkey
	PubkeyLength int = 48

	// Length of a BLS deposit signature
	SignatureLength int = 96
)

// A validator key and the deposit signature proving ownership of it
type DepositDatum struct {
	Pubkey    []byte
	Signature []byte
}

// Get the 0x-prefixed hex form of the pubkey
func (d DepositDatum) PubkeyHex() string {
	return utils.EncodeHexWithPrefix(d.Pubkey)
}

// An ordered set of keys submitted together
type Batch []DepositDatum

// The node operator the batch is submitted for
type OperatorContext struct {
	// The operator's ID in BstETH, nil if the operator has not been created yet
	NodeOperatorID *big.Int

	// The account that signs and pays for the submission
	EthBaseAddress common.Address
}

// Check if the operator already exists in BstETH
func (c OperatorContext) HasOperatorID() bool {
	return c.NodeOperatorID != nil
}

// The contract operation used to submit a batch
type Operation string

const (
	// Register a new node operator with its first key
	Operation_CreateOperator Operation = "createNodeOperatorId"

	// Add keys to an existing node operator
	Operation_BondValidators Operation = "bondValidators"
)

// The contract call for a batch; either *CreateOperatorPlan or *BondValidatorsPlan
type CallPlan interface {
	GetOperation() Operation
	GetKeyCount() int
}

// Plan for registering a new node operator; the bond is sent as the call value
type CreateOperatorPlan struct {
	Pubkeys    []byte
	Signatures []byte
	Value      *big.Int
}

func (p *CreateOperatorPlan) GetOperation() Operation {
	return Operation_CreateOperator
}

func (p *CreateOperatorPlan) GetKeyCount() int {
	return len(p.Pubkeys) / PubkeyLength
}

// Plan for adding keys to an existing node operator; no value is sent
type BondValidatorsPlan struct {
	Count      *big.Int
	Pubkeys    []byte
	Signatures []byte
}

func (p *BondValidatorsPlan) GetOperation() Operation {
	return Operation_BondValidators
}

func (p *BondValidatorsPlan) GetKeyCount() int {
	return int(p.Count.Int64())
}
