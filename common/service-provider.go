package bscommon

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	bskeys "github.com/nodeset-org/hyperdrive-bsteth/keys"
	"github.com/nodeset-org/hyperdrive-bsteth/server"
	bsconfig "github.com/nodeset-org/hyperdrive-bsteth/shared/config"
	"github.com/prometheus/client_golang/prometheus"
)

// Holds the services needed to submit keys
type BstethServiceProvider struct {
	registry      *KeyRegistry
	serverManager *server.ServerManager
	metrics       *prometheus.Registry
	submitter     *bskeys.Submitter
}

// Create a new service provider from the config; the key registry lives in dataDir
func NewBstethServiceProvider(cfg *bsconfig.BstethConfig, dataDir string, logger *slog.Logger) (*BstethServiceProvider, error) {
	// Make sure the config is usable
	errs := cfg.Validate()
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid BstETH config: %w", cfg.ValidateErr())
	}
	resources := cfg.GetBstethResources()

	// Key registry
	registryPath := filepath.Join(dataDir, bsconfig.KeyRegistryFilename)
	registry, err := NewKeyRegistry(registryPath)
	if err != nil {
		return nil, err
	}

	// Execution client access
	connections := NewExecutionConnectionProvider(cfg.ExecutionClientUrl.Value, resources.ChainID, logger)
	bondResolver := NewAccountingBondResolver(connections, *resources.Accounting, cfg.BondCurveID.Value, logger)

	// Signing endpoint, which also serves the submission metrics
	metrics := prometheus.NewRegistry()
	timeout := time.Duration(cfg.SignerTimeout.Value) * time.Second
	serverManager := server.NewServerManager(logger, cfg.SignerIP.Value, cfg.SignerPort.Value, timeout, cfg.SignerAppDir.Value, metrics)

	// Submitter
	submitter, err := bskeys.NewSubmitter(logger, *resources.BstETH, registry, bondResolver, connections, serverManager, metrics)
	if err != nil {
		return nil, fmt.Errorf("error creating submitter: %w", err)
	}

	return &BstethServiceProvider{
		registry:      registry,
		serverManager: serverManager,
		metrics:       metrics,
		submitter:     submitter,
	}, nil
}

func (p *BstethServiceProvider) GetKeyRegistry() *KeyRegistry {
	return p.registry
}

func (p *BstethServiceProvider) GetSubmitter() *bskeys.Submitter {
	return p.submitter
}

// Get the value of every submission counter, keyed by the counter name and its labels
// (e.g. bsteth_key_submissions_total{result="success"})
func (p *BstethServiceProvider) GetSubmissionCounts() (map[string]float64, error) {
	families, err := p.metrics.Gather()
	if err != nil {
		return nil, fmt.Errorf("error gathering submission metrics: %w", err)
	}

	counts := map[string]float64{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, label := range metric.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", label.GetName(), label.GetValue()))
			}
			name := family.GetName()
			if len(labels) > 0 {
				name = fmt.Sprintf("%s{%s}", name, strings.Join(labels, ","))
			}
			counts[name] = metric.GetCounter().GetValue()
		}
	}
	return counts, nil
}

// Shuts down the signing endpoint if it's still running
func (p *BstethServiceProvider) Close() error {
	err := p.serverManager.Stop()
	if err != nil {
		return fmt.Errorf("error closing service provider: %w", err)
	}
	return nil
}
