package bscommon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rocket-pool/node-manager-core/utils"
	"github.com/stretchr/testify/require"
)

func TestLoadDepositData(t *testing.T) {
	pubkey1 := strings.Repeat("a1", 48)
	pubkey2 := strings.Repeat("b2", 48)
	signature1 := strings.Repeat("c3", 96)
	signature2 := strings.Repeat("d4", 96)
	contents := `[
  {"pubkey": "` + pubkey1 + `", "withdrawal_credentials": "` + strings.Repeat("00", 32) + `", "amount": 32000000000, "signature": "` + signature1 + `", "deposit_message_root": "` + strings.Repeat("11", 32) + `", "deposit_data_root": "` + strings.Repeat("22", 32) + `", "fork_version": "00017000", "network_name": "holesky", "deposit_cli_version": "2.7.0"},
  {"pubkey": "` + pubkey2 + `", "withdrawal_credentials": "` + strings.Repeat("00", 32) + `", "amount": 32000000000, "signature": "` + signature2 + `", "deposit_message_root": "` + strings.Repeat("11", 32) + `", "deposit_data_root": "` + strings.Repeat("22", 32) + `", "fork_version": "00017000", "network_name": "holesky", "deposit_cli_version": "2.7.0"}
]`
	path := filepath.Join(t.TempDir(), "deposit_data-1700000000.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))

	batch, err := LoadDepositData(path)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	require.Equal(t, "0x"+pubkey1, utils.EncodeHexWithPrefix(batch[0].Pubkey))
	require.Equal(t, "0x"+pubkey2, batch[1].PubkeyHex())
	require.Equal(t, "0x"+signature1, utils.EncodeHexWithPrefix(batch[0].Signature))
	require.Equal(t, "0x"+signature2, utils.EncodeHexWithPrefix(batch[1].Signature))
}

func TestParseDepositDataInvalid(t *testing.T) {
	_, err := ParseDepositData([]byte(`{"pubkey": "00"}`))
	require.Error(t, err)
}
