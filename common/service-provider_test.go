package bscommon_test

import (
	"context"
	"log/slog"
	"testing"

	bscommon "github.com/nodeset-org/hyperdrive-bsteth/common"
	bskeys "github.com/nodeset-org/hyperdrive-bsteth/keys"
	bsconfig "github.com/nodeset-org/hyperdrive-bsteth/shared/config"
	bstesting "github.com/nodeset-org/hyperdrive-bsteth/testing"
	"github.com/rocket-pool/node-manager-core/config"
	"github.com/stretchr/testify/require"
)

func TestServiceProviderRejectsInvalidConfig(t *testing.T) {
	cfg := bsconfig.NewBstethConfig(config.Network_Mainnet)
	_, err := bscommon.NewBstethServiceProvider(cfg, t.TempDir(), slog.Default())
	require.ErrorContains(t, err, "the BstETH contract address for network [mainnet] is not set")
}

func TestServiceProviderCountsSubmissions(t *testing.T) {
	cfg := bsconfig.NewBstethConfigWithResources(config.Network_Holesky, bstesting.GetTestResources())
	sp, err := bscommon.NewBstethServiceProvider(cfg, t.TempDir(), slog.Default())
	require.NoError(t, err)
	defer func() {
		require.NoError(t, sp.Close())
	}()

	// A key that was already submitted fails before anything is dialed
	datum := bstesting.NewDepositDatum(0x51)
	require.NoError(t, sp.GetKeyRegistry().Add(datum.Pubkey))
	_, err = sp.GetSubmitter().Submit(context.Background(), bskeys.Batch{datum}, bskeys.OperatorContext{
		EthBaseAddress: bstesting.EthBaseAddress,
	})
	require.ErrorIs(t, err, bskeys.ErrKeyExists)

	counts, err := sp.GetSubmissionCounts()
	require.NoError(t, err)
	require.Equal(t, map[string]float64{
		`bsteth_key_submissions_total{result="KeyExists"}`: 1,
		"bsteth_submitted_keys_total":                      0,
	}, counts)
}
