package bsconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rocket-pool/node-manager-core/config"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewBstethConfig(config.Network_Mainnet)
	require.Equal(t, DefaultSignerIP, cfg.SignerIP.Value)
	require.Equal(t, DefaultSignerPort, cfg.SignerPort.Value)
	require.Equal(t, DefaultSignerTimeout, cfg.SignerTimeout.Value)
	require.Equal(t, DefaultBondCurveID, cfg.BondCurveID.Value)
	require.Equal(t, "", cfg.SignerAppDir.Value)
	require.Same(t, MainnetResourcesReference, cfg.GetBstethResources())
}

func TestValidateRequiresBstethAddress(t *testing.T) {
	cfg := NewBstethConfig(config.Network_Holesky)
	errs := cfg.Validate()
	require.Len(t, errs, 1)
	require.Contains(t, errs[0], "BstETH contract address")
	require.Error(t, cfg.ValidateErr())
}

func TestValidateRejectsHttpUrl(t *testing.T) {
	resources := &BstethResources{
		BstETH:     config.HexToAddressPtr("0x1000000000000000000000000000000000000001"),
		Accounting: config.HexToAddressPtr("0x1000000000000000000000000000000000000002"),
		ChainID:    17000,
	}
	cfg := NewBstethConfigWithResources(config.Network_Holesky, resources)
	require.Empty(t, cfg.Validate())

	cfg.ExecutionClientUrl.Value = "http://localhost:8545"
	errs := cfg.Validate()
	require.Len(t, errs, 1)
	require.Contains(t, errs[0], "websocket")
}

func TestLoadSettingsFiles(t *testing.T) {
	dir := t.TempDir()
	contents := `key: holesky
bstethResources:
  bstETH: "0x1000000000000000000000000000000000000001"
  accounting: "0x1000000000000000000000000000000000000002"
  chainId: 17000
defaultConfigSettings:
  signerPort: 8123
`
	err := os.WriteFile(filepath.Join(dir, "holesky.yml"), []byte(contents), 0644)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)
	require.NoError(t, err)

	settingsList, err := LoadSettingsFiles(dir)
	require.NoError(t, err)
	require.Len(t, settingsList, 1)

	cfg := NewBstethConfig(config.Network_Holesky)
	err = cfg.ApplySettings(settingsList)
	require.NoError(t, err)

	resources := cfg.GetBstethResources()
	require.Equal(t, common.HexToAddress("0x1000000000000000000000000000000000000001"), *resources.BstETH)
	require.Equal(t, common.HexToAddress("0x1000000000000000000000000000000000000002"), *resources.Accounting)
	require.Equal(t, uint64(17000), resources.ChainID)
	require.Equal(t, uint16(8123), cfg.SignerPort.Value)
	require.Empty(t, cfg.Validate())
}

func TestLoadSettingsFilesMissingDir(t *testing.T) {
	_, err := LoadSettingsFiles(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestSerializeRoundTrip(t *testing.T) {
	cfg := NewBstethConfig(config.Network_Mainnet)
	cfg.Version = "1.2.3"
	cfg.SignerPort.Value = 9001

	clone := NewBstethConfig(config.Network_Mainnet)
	err := clone.Deserialize(cfg.Serialize(), config.Network_Mainnet)
	require.NoError(t, err)
	require.Equal(t, "1.2.3", clone.Version)
	require.Equal(t, uint16(9001), clone.SignerPort.Value)
}
