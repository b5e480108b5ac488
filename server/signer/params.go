package bssigner

import (
	"net/http"
)

// GET /params: the unsigned transaction for the wallet
func (h *SignerHandler) getParams(w http.ResponseWriter, r *http.Request) {
	session := h.getSession()
	if session == nil {
		h.writeError(w, http.StatusNotFound, ErrNoPendingRequest)
		return
	}

	h.logger.Debug("Serving transaction parameters to the wallet")
	h.writeJson(w, http.StatusOK, session.GetParams())
}
