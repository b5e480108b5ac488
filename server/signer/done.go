package bssigner

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	bsapi "github.com/nodeset-org/hyperdrive-bsteth/shared/api"
	nmcserver "github.com/rocket-pool/node-manager-core/api/server"
)

// GET /done?txHash=<hash>: the wallet's outcome, either a transaction hash or the rejection marker
func (h *SignerHandler) getDone(w http.ResponseWriter, r *http.Request) {
	var txHash string
	err := nmcserver.ValidateArg("txHash", r.URL.Query(), validateTxHash, &txHash)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	session := h.getSession()
	if session == nil {
		h.writeError(w, http.StatusNotFound, ErrNoPendingRequest)
		return
	}

	var accepted bool
	if txHash == bsapi.RejectedTxHash {
		h.logger.Info("Transaction was rejected by the wallet")
		accepted = session.Reject()
	} else {
		h.logger.Info("Wallet sent the transaction", slog.String("txHash", txHash))
		accepted = session.Complete(common.HexToHash(txHash))
	}
	h.writeJson(w, http.StatusOK, bsapi.SignerDoneData{
		Accepted: accepted,
	})
}

// Accepts a 32-byte 0x-prefixed hash or the rejection marker
func validateTxHash(name string, value string) (string, error) {
	if value == bsapi.RejectedTxHash {
		return value, nil
	}
	hashBytes, err := hexutil.Decode(value)
	if err != nil {
		return "", fmt.Errorf("invalid %s [%s]: %w", name, value, err)
	}
	if len(hashBytes) != common.HashLength {
		return "", fmt.Errorf("invalid %s [%s]: expected %d bytes but got %d", name, value, common.HashLength, len(hashBytes))
	}
	return value, nil
}
