package bstestutils

import (
	"fmt"
	"log/slog"
	"math/big"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	bsclient "github.com/nodeset-org/hyperdrive-bsteth/client"
	bscommon "github.com/nodeset-org/hyperdrive-bsteth/common"
	bskeys "github.com/nodeset-org/hyperdrive-bsteth/keys"
	"github.com/nodeset-org/hyperdrive-bsteth/server"
	bsconfig "github.com/nodeset-org/hyperdrive-bsteth/shared/config"
	bstesting "github.com/nodeset-org/hyperdrive-bsteth/testing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rocket-pool/node-manager-core/log"
)

// A submitter wired to the real key registry and signing endpoint, with the chain faked out
type StandardTestHarness struct {
	Logger        *slog.Logger
	DataDir       string
	Registry      *bscommon.KeyRegistry
	Bonds         *bstesting.FakeBondResolver
	Connections   *bstesting.FakeConnectionProvider
	ServerManager *server.ServerManager
	Wallet        *bsclient.SignerClient
	Metrics       *prometheus.Registry
	Submitter     *bskeys.Submitter

	stopWg *sync.WaitGroup
}

// Creates a standard test harness with a signing endpoint on a random port
func CreateStandardTestHarness(bond *big.Int, signerTimeout time.Duration) (*StandardTestHarness, error) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dataDir, err := os.MkdirTemp("", "bsteth-test-*")
	if err != nil {
		return nil, fmt.Errorf("error creating data dir: %w", err)
	}
	registry, err := bscommon.NewKeyRegistry(filepath.Join(dataDir, bsconfig.KeyRegistryFilename))
	if err != nil {
		return nil, fmt.Errorf("error creating key registry: %w", err)
	}

	// Start the signing endpoint
	metrics := prometheus.NewRegistry()
	stopWg := &sync.WaitGroup{}
	serverMgr := server.NewServerManager(logger, bsconfig.DefaultSignerIP, 0, signerTimeout, "", metrics)
	err = serverMgr.Start(stopWg)
	if err != nil {
		return nil, fmt.Errorf("error starting signing endpoint: %w", err)
	}
	signerUrl, err := url.Parse(serverMgr.GetUrl())
	if err != nil {
		return nil, fmt.Errorf("error parsing signing endpoint URL: %w", err)
	}

	bonds := &bstesting.FakeBondResolver{Bond: bond}
	connections := bstesting.NewFakeConnectionProvider()
	submitter, err := bskeys.NewSubmitter(logger, bstesting.BstETHAddress, registry, bonds, connections, serverMgr, metrics)
	if err != nil {
		return nil, fmt.Errorf("error creating submitter: %w", err)
	}

	return &StandardTestHarness{
		Logger:        logger,
		DataDir:       dataDir,
		Registry:      registry,
		Bonds:         bonds,
		Connections:   connections,
		ServerManager: serverMgr,
		Wallet:        bsclient.NewSignerClient(signerUrl, logger),
		Metrics:       metrics,
		Submitter:     submitter,
		stopWg:        stopWg,
	}, nil
}

// Stops the signing endpoint and removes the data dir
func (h *StandardTestHarness) Close() error {
	err := h.ServerManager.Stop()
	if err != nil {
		h.Logger.Error("Error stopping signing endpoint", log.Err(err))
	}
	h.stopWg.Wait()
	return os.RemoveAll(h.DataDir)
}
