package bsapi

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// The marker the wallet app sends in place of a hash when the user rejects the transaction
const RejectedTxHash string = "rejected"

// The unsigned transaction served to the wallet app from the signing endpoint
type SignerParams struct {
	To      common.Address `json:"to"`
	From    common.Address `json:"from"`
	Value   *hexutil.Big   `json:"value"`
	Data    hexutil.Bytes  `json:"data"`
	ChainID *hexutil.Big   `json:"chainId"`
	Gas     hexutil.Uint64 `json:"gas"`
}

// Acknowledgement for a /done report
type SignerDoneData struct {
	Accepted bool `json:"accepted"`
}
