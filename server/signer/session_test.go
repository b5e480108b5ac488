package bssigner

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/nodeset-org/hyperdrive-bsteth/common/contracts"
	bsapi "github.com/nodeset-org/hyperdrive-bsteth/shared/api"
	"github.com/rocket-pool/node-manager-core/eth"
	"github.com/stretchr/testify/require"
)

func newTestTx() *contracts.TransactionInfo {
	value, _ := new(big.Int).SetString("32000000000000000000", 10)
	return &contracts.TransactionInfo{
		TransactionInfo: eth.TransactionInfo{
			To:    common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
			Value: value,
			Data:  []byte{0xde, 0xad, 0xbe, 0xef},
			SimulationResult: eth.SimulationResult{
				IsSimulated:       true,
				EstimatedGasLimit: 14000,
				SafeGasLimit:      21000,
			},
		},
		Method:  "createNodeOperatorId",
		From:    common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		ChainID: big.NewInt(17000),
	}
}

func newTestRouter(session *SigningSession) *mux.Router {
	handler := NewSignerHandler(slog.Default())
	if session != nil {
		handler.SetSession(session)
	}
	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func TestSessionResolvesOnce(t *testing.T) {
	session := NewSigningSession(newTestTx())
	hash := common.HexToHash("0x01")
	require.True(t, session.Complete(hash))
	require.False(t, session.Reject())

	txHash, err := session.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, hash, txHash)
}

func TestSessionWaitHonorsContext(t *testing.T) {
	session := NewSigningSession(newTestTx())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := session.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGetParams(t *testing.T) {
	tx := newTestTx()
	router := newTestRouter(NewSigningSession(tx))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/params", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	// The wallet reads the quantities as 0x-hex strings
	var raw map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &raw))
	require.Equal(t, "0x1bc16d674ec800000", raw["value"])
	require.Equal(t, "0xdeadbeef", raw["data"])
	require.Equal(t, "0x4268", raw["chainId"])

	var params bsapi.SignerParams
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &params))
	require.Equal(t, tx.To, params.To)
	require.Equal(t, tx.From, params.From)
	require.Equal(t, 0, tx.Value.Cmp(params.Value.ToInt()))
}

func TestGetParamsWithoutSession(t *testing.T) {
	router := newTestRouter(nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/params", nil))
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestDoneWithHash(t *testing.T) {
	session := NewSigningSession(newTestTx())
	router := newTestRouter(session)
	hash := common.HexToHash("0x8e1b2d1e8b6c3f0b8f9c0c4f2b6d2a7e5a3c1f9e8d7c6b5a4f3e2d1c0b9a8f7e")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/done?txHash="+hash.Hex(), nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	txHash, err := session.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, hash, txHash)
}

func TestDoneRejected(t *testing.T) {
	session := NewSigningSession(newTestTx())
	router := newTestRouter(session)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/done?txHash=rejected", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	_, err := session.Wait(context.Background())
	require.ErrorIs(t, err, ErrTransactionRejected)
}

func TestDoneInvalidHash(t *testing.T) {
	session := NewSigningSession(newTestTx())
	router := newTestRouter(session)

	for _, query := range []string{"/done", "/done?txHash=0x1234", "/done?txHash=nothex"} {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, query, nil))
		require.Equal(t, http.StatusBadRequest, recorder.Code, query)
	}

	// The session is still waiting
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := session.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
