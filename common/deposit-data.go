package bscommon

import (
	"encoding/json"
	"fmt"
	"os"

	bskeys "github.com/nodeset-org/hyperdrive-bsteth/keys"
	"github.com/rocket-pool/node-manager-core/beacon"
)

// Load a batch from a deposit data file, as written by the staking deposit CLI
func LoadDepositData(path string) (bskeys.Batch, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading deposit data file [%s]: %w", path, err)
	}
	return ParseDepositData(bytes)
}

// Parse a deposit data list into a batch, keeping the file's order
func ParseDepositData(bytes []byte) (bskeys.Batch, error) {
	var depositData []beacon.ExtendedDepositData
	err := json.Unmarshal(bytes, &depositData)
	if err != nil {
		return nil, fmt.Errorf("error deserializing deposit data: %w", err)
	}

	batch := make(bskeys.Batch, len(depositData))
	for i, data := range depositData {
		batch[i] = bskeys.DepositDatum{
			Pubkey:    []byte(data.PublicKey),
			Signature: []byte(data.Signature),
		}
	}
	return batch, nil
}
