package bsconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rocket-pool/node-manager-core/config"
	"gopkg.in/yaml.v2"
)

var (
	// Mainnet resources for reference; BstETH itself is deployed per environment and must come from a settings file
	MainnetResourcesReference *BstethResources = &BstethResources{
		BstETH:     nil,
		Accounting: config.HexToAddressPtr("0x4d72BFF1BeaC69925F8Bd12526a39BAAb069e5Da"),
		ChainID:    1,
	}

	// Holesky resources for reference
	HoleskyResourcesReference *BstethResources = &BstethResources{
		BstETH:     nil,
		Accounting: config.HexToAddressPtr("0xc093e53e8F4b55A223c18A2Da6fA00e60DD5EFE1"),
		ChainID:    17000,
	}
)

// Network settings with a field for BstETH-specific settings
type BstethSettings struct {
	// The unique key used to identify the network in the configuration
	Key config.Network `yaml:"key" json:"key"`

	// BstETH resources for the network
	BstethResources *BstethResources `yaml:"bstethResources" json:"bstethResources"`

	// A collection of default configuration settings to use for the network, which will override
	// the standard "general-purpose" default value for the setting
	DefaultConfigSettings map[string]any `yaml:"defaultConfigSettings,omitempty" json:"defaultConfigSettings,omitempty"`
}

// A collection of network-specific resources
type BstethResources struct {
	// The BstETH node operator module; keys and bonds are submitted here
	BstETH *common.Address `yaml:"bstETH" json:"bstETH"`

	// The accounting contract that prices the bond for a given number of keys
	Accounting *common.Address `yaml:"accounting" json:"accounting"`

	// The chain ID of the network
	ChainID uint64 `yaml:"chainId" json:"chainId"`
}

// Load network settings from a folder
func LoadSettingsFiles(sourceDir string) ([]*BstethSettings, error) {
	// Make sure the folder exists
	_, err := os.Stat(sourceDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("network settings folder [%s] does not exist", sourceDir)
	}

	// Enumerate the dir
	files, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("error enumerating network settings source folder: %w", err)
	}

	settingsList := []*BstethSettings{}
	for _, file := range files {
		// Ignore dirs and nonstandard files
		if file.IsDir() || !file.Type().IsRegular() {
			continue
		}

		// Load the file
		filename := file.Name()
		ext := filepath.Ext(filename)
		if ext != ".yaml" && ext != ".yml" {
			// Only load YAML files
			continue
		}
		settingsFilePath := filepath.Join(sourceDir, filename)
		bytes, err := os.ReadFile(settingsFilePath)
		if err != nil {
			return nil, fmt.Errorf("error reading network settings file [%s]: %w", settingsFilePath, err)
		}

		// Unmarshal the settings
		settings := new(BstethSettings)
		err = yaml.Unmarshal(bytes, settings)
		if err != nil {
			return nil, fmt.Errorf("error unmarshalling network settings file [%s]: %w", settingsFilePath, err)
		}
		settingsList = append(settingsList, settings)
	}
	return settingsList, nil
}
