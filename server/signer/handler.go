package bssigner

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rocket-pool/node-manager-core/log"
)

// Serves the pending signing session to the browser wallet
type SignerHandler struct {
	logger  *slog.Logger
	session *SigningSession
	lock    sync.Mutex
}

func NewSignerHandler(logger *slog.Logger) *SignerHandler {
	return &SignerHandler{
		logger: logger,
	}
}

// Sets the session served by the handler
func (h *SignerHandler) SetSession(session *SigningSession) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.session = session
}

// Stops serving the session
func (h *SignerHandler) ClearSession() {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.session = nil
}

func (h *SignerHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/params", h.getParams).Methods(http.MethodGet)
	router.HandleFunc("/done", h.getDone).Methods(http.MethodGet)
}

func (h *SignerHandler) getSession() *SigningSession {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.session
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *SignerHandler) writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		h.logger.Warn("Error writing signer response", log.Err(err))
	}
}

func (h *SignerHandler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJson(w, status, errorResponse{Error: err.Error()})
}
