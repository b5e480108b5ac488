package bsconfig

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/nodeset-org/hyperdrive-bsteth/shared/config/ids"
	"github.com/rocket-pool/node-manager-core/config"
)

// Configuration for BstETH key submission
type BstethConfig struct {
	// Websocket URL of the execution client
	ExecutionClientUrl config.Parameter[string]

	// Address the local signing endpoint binds to
	SignerIP config.Parameter[string]

	// Port the local signing endpoint listens on
	SignerPort config.Parameter[uint16]

	// Seconds to wait for the wallet before giving up on a signing request
	SignerTimeout config.Parameter[uint64]

	// Directory holding the built browser signing app, served at the endpoint root
	SignerAppDir config.Parameter[string]

	// The bond curve used when asking the accounting contract for a bond amount
	BondCurveID config.Parameter[uint64]

	// Internal fields
	Version   string
	network   config.Network
	resources *BstethResources
}

// Generates a new BstETH config for the provided network
func NewBstethConfig(network config.Network) *BstethConfig {
	cfg := newBstethConfigImpl(network)
	cfg.updateResources(nil)
	return cfg
}

// Generates a new BstETH config with custom resources
func NewBstethConfigWithResources(network config.Network, resources *BstethResources) *BstethConfig {
	cfg := newBstethConfigImpl(network)
	cfg.resources = resources
	return cfg
}

// Internal constructor for BstETH config
func newBstethConfigImpl(network config.Network) *BstethConfig {
	cfg := &BstethConfig{
		network: network,

		ExecutionClientUrl: config.Parameter[string]{
			ParameterCommon: &config.ParameterCommon{
				ID:                 ids.ExecutionClientUrlID,
				Name:               "Execution Client URL",
				Description:        "The websocket URL of the Execution Client used to simulate and submit BstETH transactions.",
				CanBeBlank:         false,
				OverwriteOnUpgrade: false,
			},
			Default: map[config.Network]string{
				config.Network_All: "ws://127.0.0.1:8546",
			},
		},

		SignerIP: config.Parameter[string]{
			ParameterCommon: &config.ParameterCommon{
				ID:                 ids.SignerIPID,
				Name:               "Signer IP",
				Description:        "The address the local signing endpoint binds to. The browser wallet loads the transaction from here.",
				CanBeBlank:         false,
				OverwriteOnUpgrade: false,
			},
			Default: map[config.Network]string{
				config.Network_All: DefaultSignerIP,
			},
		},

		SignerPort: config.Parameter[uint16]{
			ParameterCommon: &config.ParameterCommon{
				ID:                 ids.SignerPortID,
				Name:               "Signer Port",
				Description:        "The port the local signing endpoint listens on.",
				CanBeBlank:         false,
				OverwriteOnUpgrade: false,
			},
			Default: map[config.Network]uint16{
				config.Network_All: DefaultSignerPort,
			},
		},

		SignerTimeout: config.Parameter[uint64]{
			ParameterCommon: &config.ParameterCommon{
				ID:                 ids.SignerTimeoutID,
				Name:               "Signer Timeout",
				Description:        "The number of seconds to wait for the wallet to sign or reject a transaction.",
				CanBeBlank:         false,
				OverwriteOnUpgrade: false,
			},
			Default: map[config.Network]uint64{
				config.Network_All: DefaultSignerTimeout,
			},
		},

		SignerAppDir: config.Parameter[string]{
			ParameterCommon: &config.ParameterCommon{
				ID:                 ids.SignerAppDirID,
				Name:               "Signer App Directory",
				Description:        "Optional directory with the built browser signing app. Leave blank if the app is hosted elsewhere.",
				CanBeBlank:         true,
				OverwriteOnUpgrade: false,
			},
			Default: map[config.Network]string{
				config.Network_All: "",
			},
		},

		BondCurveID: config.Parameter[uint64]{
			ParameterCommon: &config.ParameterCommon{
				ID:                 ids.BondCurveIDID,
				Name:               "Bond Curve ID",
				Description:        "The accounting bond curve used to compute the collateral for a new node operator.",
				CanBeBlank:         false,
				OverwriteOnUpgrade: false,
			},
			Default: map[config.Network]uint64{
				config.Network_All: DefaultBondCurveID,
			},
		},
	}

	// Apply the default values for the current network
	config.ApplyDefaults(cfg, network)
	return cfg
}

// The title for the config
func (cfg *BstethConfig) GetTitle() string {
	return "BstETH"
}

// Get the parameters for this config
func (cfg *BstethConfig) GetParameters() []config.IParameter {
	return []config.IParameter{
		&cfg.ExecutionClientUrl,
		&cfg.SignerIP,
		&cfg.SignerPort,
		&cfg.SignerTimeout,
		&cfg.SignerAppDir,
		&cfg.BondCurveID,
	}
}

// Get the sections underneath this one
func (cfg *BstethConfig) GetSubconfigs() map[string]config.IConfigSection {
	return map[string]config.IConfigSection{}
}

// The network this config was built for
func (cfg *BstethConfig) GetNetwork() config.Network {
	return cfg.network
}

// Get the BstETH resources for the selected network
func (cfg *BstethConfig) GetBstethResources() *BstethResources {
	return cfg.resources
}

// Replaces the built-in resources and defaults with the ones from a matching network settings file, if present
func (cfg *BstethConfig) ApplySettings(settingsList []*BstethSettings) error {
	cfg.updateResources(settingsList)
	for _, settings := range settingsList {
		if settings.Key != cfg.network || settings.DefaultConfigSettings == nil {
			continue
		}
		err := cfg.applyDefaultSettings(settings.DefaultConfigSettings)
		if err != nil {
			return fmt.Errorf("error applying default settings for network [%s]: %w", cfg.network, err)
		}
	}
	return nil
}

// Changes the current network, propagating new parameter settings if they are affected
func (cfg *BstethConfig) ChangeNetwork(oldNetwork config.Network, newNetwork config.Network) {
	config.ChangeNetwork(cfg, oldNetwork, newNetwork)
	cfg.network = newNetwork
	cfg.updateResources(nil)
}

// Creates a copy of the configuration
func (cfg *BstethConfig) Clone() *BstethConfig {
	clone := NewBstethConfig(cfg.network)
	config.Clone(cfg, clone, cfg.network)
	clone.Version = cfg.Version
	clone.resources = cfg.resources
	return clone
}

// Updates the default parameters based on the current network value
func (cfg *BstethConfig) UpdateDefaults(network config.Network) {
	config.UpdateDefaults(cfg, network)
}

// Checks to see if the current configuration is valid; if not, returns a list of errors
func (cfg *BstethConfig) Validate() []string {
	errs := []string{}
	ecUrl, err := url.Parse(cfg.ExecutionClientUrl.Value)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid execution client URL [%s]: %s", cfg.ExecutionClientUrl.Value, err.Error()))
	} else if ecUrl.Scheme != "ws" && ecUrl.Scheme != "wss" {
		errs = append(errs, fmt.Sprintf("execution client URL [%s] must be a websocket (ws:// or wss://) URL", cfg.ExecutionClientUrl.Value))
	}
	if cfg.SignerTimeout.Value == 0 {
		errs = append(errs, "signer timeout must be greater than zero")
	}
	if cfg.resources == nil {
		errs = append(errs, fmt.Sprintf("no BstETH resources are available for network [%s]", cfg.network))
	} else {
		if cfg.resources.BstETH == nil {
			errs = append(errs, fmt.Sprintf("the BstETH contract address for network [%s] is not set", cfg.network))
		}
		if cfg.resources.Accounting == nil {
			errs = append(errs, fmt.Sprintf("the accounting contract address for network [%s] is not set", cfg.network))
		}
	}
	return errs
}

// Runs Validate and folds the results into a single error
func (cfg *BstethConfig) ValidateErr() error {
	errs := []error{}
	for _, msg := range cfg.Validate() {
		errs = append(errs, errors.New(msg))
	}
	return errors.Join(errs...)
}

// Serialize the config to a map
func (cfg *BstethConfig) Serialize() map[string]any {
	cfgMap := config.Serialize(cfg)
	cfgMap[ids.VersionID] = cfg.Version
	return cfgMap
}

// Deserialize the config from a map
func (cfg *BstethConfig) Deserialize(configMap map[string]any, network config.Network) error {
	err := config.Deserialize(cfg, configMap, network)
	if err != nil {
		return err
	}
	version, exists := configMap[ids.VersionID]
	if !exists {
		// Handle pre-version configs
		version = "0.0.1"
	}
	cfg.Version = version.(string)
	return nil
}

// Pick the resources for the configured network, preferring a loaded settings file
func (cfg *BstethConfig) updateResources(settingsList []*BstethSettings) {
	for _, settings := range settingsList {
		if settings.Key == cfg.network && settings.BstethResources != nil {
			cfg.resources = settings.BstethResources
			return
		}
	}

	switch cfg.network {
	case config.Network_Mainnet:
		cfg.resources = MainnetResourcesReference
	case config.Network_Holesky:
		cfg.resources = HoleskyResourcesReference
	default:
		cfg.resources = nil
	}
}

// Overrides the parameter values with the network's default settings; values are stringified
// into the serialized form before being deserialized
func (cfg *BstethConfig) applyDefaultSettings(settings map[string]any) error {
	serialized := config.Serialize(cfg)
	for id, value := range settings {
		serialized[id] = fmt.Sprint(value)
	}
	return config.Deserialize(cfg, serialized, cfg.network)
}
