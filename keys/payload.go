package bskeys

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	eth2types "github.com/wealdtech/go-eth2-types/v2"
)

var (
	blsInitOnce sync.Once
	blsInitErr  error
)

// Initializes the BLS library with the Ethereum consensus parameters. Safe to call more than once.
func InitBLS() error {
	blsInitOnce.Do(func() {
		blsInitErr = eth2types.InitBLS()
	})
	return blsInitErr
}

// Concatenates the pubkeys and signatures of the batch, in batch order. Every pubkey and signature
// must be a valid compressed BLS12-381 point.
func AssemblePayload(batch Batch) ([]byte, []byte, error) {
	err := InitBLS()
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing BLS: %w", err)
	}

	pubkeys := make([]byte, 0, len(batch)*PubkeyLength)
	signatures := make([]byte, 0, len(batch)*SignatureLength)
	for i, datum := range batch {
		err := validateDatum(i, datum)
		if err != nil {
			return nil, nil, newSubmissionError(ErrorKind_InvalidBatchForOperation, err)
		}
		pubkeys = append(pubkeys, datum.Pubkey...)
		signatures = append(signatures, datum.Signature...)
	}
	return pubkeys, signatures, nil
}

func validateDatum(index int, datum DepositDatum) error {
	if len(datum.Pubkey) != PubkeyLength {
		return fmt.Errorf("key %d has a %d-byte pubkey, expected %d bytes", index, len(datum.Pubkey), PubkeyLength)
	}
	if len(datum.Signature) != SignatureLength {
		return fmt.Errorf("key %d has a %d-byte signature, expected %d bytes", index, len(datum.Signature), SignatureLength)
	}
	_, err := eth2types.BLSPublicKeyFromBytes(datum.Pubkey)
	if err != nil {
		return fmt.Errorf("key %d has an invalid pubkey: %w", index, err)
	}
	_, err = eth2types.BLSSignatureFromBytes(datum.Signature)
	if err != nil {
		return fmt.Errorf("key %d has an invalid signature: %w", index, err)
	}
	return nil
}

// Builds the contract call for a batch. The bond is only used when creating a new operator.
func BuildCallPlan(operation Operation, batch Batch, bond *big.Int) (CallPlan, error) {
	pubkeys, signatures, err := AssemblePayload(batch)
	if err != nil {
		return nil, err
	}

	switch operation {
	case Operation_CreateOperator:
		if bond == nil {
			return nil, errors.New("creating a node operator requires a bond amount")
		}
		return &CreateOperatorPlan{
			Pubkeys:    pubkeys,
			Signatures: signatures,
			Value:      new(big.Int).Set(bond),
		}, nil
	case Operation_BondValidators:
		return &BondValidatorsPlan{
			Count:      big.NewInt(int64(len(batch))),
			Pubkeys:    pubkeys,
			Signatures: signatures,
		}, nil
	default:
		return nil, fmt.Errorf("unknown operation [%s]", operation)
	}
}
