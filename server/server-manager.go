package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/nodeset-org/hyperdrive-bsteth/common/contracts"
	bssigner "github.com/nodeset-org/hyperdrive-bsteth/server/signer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rocket-pool/node-manager-core/log"
)

const shutdownTimeout time.Duration = 5 * time.Second

// ServerManager runs the local signing endpoint the browser wallet talks to
type ServerManager struct {
	logger   *slog.Logger
	ip       string
	port     uint16
	timeout  time.Duration
	appDir   string
	metrics  prometheus.Gatherer
	handler  *bssigner.SignerHandler
	server   *http.Server
	listener net.Listener

	// Held for the duration of a signing request
	signLock sync.Mutex

	// Protects the server state
	stateLock sync.Mutex
}

// Creates a new server manager. If appDir is set, the browser signing app is served from it.
// If metrics is set, it is served at /metrics.
func NewServerManager(logger *slog.Logger, ip string, port uint16, timeout time.Duration, appDir string, metrics prometheus.Gatherer) *ServerManager {
	return &ServerManager{
		logger:  logger,
		ip:      ip,
		port:    port,
		timeout: timeout,
		appDir:  appDir,
		metrics: metrics,
		handler: bssigner.NewSignerHandler(logger),
	}
}

// Starts listening; if stopWg is provided it is released when the server stops
func (m *ServerManager) Start(stopWg *sync.WaitGroup) error {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()
	if m.server != nil {
		return nil
	}

	// Create the router
	router := mux.NewRouter()
	m.handler.RegisterRoutes(router)
	if m.metrics != nil {
		router.Handle("/metrics", promhttp.HandlerFor(m.metrics, promhttp.HandlerOpts{
			ErrorLog: slog.NewLogLogger(m.logger.Handler(), slog.LevelError),
		})).Methods(http.MethodGet)
	}
	if m.appDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(m.appDir)))
	}

	// Create the socket
	address := net.JoinHostPort(m.ip, strconv.FormatUint(uint64(m.port), 10))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("error creating signing endpoint socket on %s: %w", address, err)
	}
	m.listener = listener
	m.port = uint16(listener.Addr().(*net.TCPAddr).Port)
	m.server = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start listening
	if stopWg != nil {
		stopWg.Add(1)
	}
	server := m.server
	go func() {
		if stopWg != nil {
			defer stopWg.Done()
		}
		err := server.Serve(listener)
		if !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("Error while listening for signing requests", log.Err(err))
		}
	}()
	m.logger.Info("Signing endpoint started", slog.String("address", m.GetUrl()))
	return nil
}

// Returns the port the server is running on
func (m *ServerManager) GetPort() uint16 {
	return m.port
}

// Returns the URL the wallet app should be opened at
func (m *ServerManager) GetUrl() string {
	return fmt.Sprintf("http://%s", net.JoinHostPort(m.ip, strconv.FormatUint(uint64(m.port), 10)))
}

// Stops and shuts down the server
func (m *ServerManager) Stop() error {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()
	if m.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := m.server.Shutdown(ctx)
	m.server = nil
	m.listener = nil
	if err != nil {
		return fmt.Errorf("error stopping signing endpoint: %w", err)
	}
	return nil
}

func (m *ServerManager) isRunning() bool {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()
	return m.server != nil
}

// Serves the transaction to the wallet and waits for it to report back. Requests are handled one at
// a time. If the server isn't already running it is started for this request and stopped after.
func (m *ServerManager) Sign(ctx context.Context, tx *contracts.TransactionInfo) (common.Hash, error) {
	m.signLock.Lock()
	defer m.signLock.Unlock()

	if !m.isRunning() {
		err := m.Start(nil)
		if err != nil {
			return common.Hash{}, err
		}
		defer func() {
			err := m.Stop()
			if err != nil {
				m.logger.Warn("Signing endpoint didn't shutdown cleanly", log.Err(err))
			}
		}()
	}

	session := bssigner.NewSigningSession(tx)
	m.handler.SetSession(session)
	defer m.handler.ClearSession()

	m.logger.Info("Waiting for the transaction to be signed; open the signing app in your browser",
		slog.String("url", m.GetUrl()),
		slog.String("method", tx.Method),
	)
	timeoutCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	txHash, err := session.Wait(timeoutCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return common.Hash{}, fmt.Errorf("%w after %s", bssigner.ErrSignerTimeout, m.timeout)
		}
		return common.Hash{}, err
	}
	return txHash, nil
}
