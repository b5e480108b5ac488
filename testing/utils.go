package bstesting

import (
	"fmt"

	"github.com/nodeset-org/hyperdrive-bsteth/common/contracts/bsteth"
	bskeys "github.com/nodeset-org/hyperdrive-bsteth/keys"
	eth2types "github.com/wealdtech/go-eth2-types/v2"
)

// Creates a deposit datum from a BLS key derived from the seed, signed over its own pubkey.
// The seed must not be zero.
func NewDepositDatum(seed byte) bskeys.DepositDatum {
	err := bskeys.InitBLS()
	if err != nil {
		panic(fmt.Errorf("error initializing BLS: %w", err))
	}
	privateKeyBytes := make([]byte, 32)
	privateKeyBytes[15] = 0x01
	privateKeyBytes[16] = seed
	privateKey, err := eth2types.BLSPrivateKeyFromBytes(privateKeyBytes)
	if err != nil {
		panic(fmt.Errorf("error creating BLS key for seed %d: %w", seed, err))
	}
	pubkey := privateKey.PublicKey().Marshal()
	return bskeys.DepositDatum{
		Pubkey:    pubkey,
		Signature: privateKey.Sign(pubkey).Marshal(),
	}
}

// Creates a batch of distinct deposit data
func NewBatch(size int) bskeys.Batch {
	batch := make(bskeys.Batch, size)
	for i := range batch {
		batch[i] = NewDepositDatum(byte(i + 1))
	}
	return batch
}

// Decodes BstETH calldata into the method name and its arguments
func DecodeBstETHCall(data []byte) (string, []any, error) {
	bstethAbi, err := bsteth.GetBstETHAbi()
	if err != nil {
		return "", nil, err
	}
	if len(data) < 4 {
		return "", nil, fmt.Errorf("calldata is too short")
	}
	method, err := bstethAbi.MethodById(data[:4])
	if err != nil {
		return "", nil, fmt.Errorf("error finding method: %w", err)
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return "", nil, fmt.Errorf("error unpacking %s arguments: %w", method.Name, err)
	}
	return method.Name, args, nil
}
