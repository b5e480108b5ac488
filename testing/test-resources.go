package bstesting

import (
	"github.com/ethereum/go-ethereum/common"
	bsconfig "github.com/nodeset-org/hyperdrive-bsteth/shared/config"
	"github.com/rocket-pool/node-manager-core/config"
)

const (
	// Address of the BstETH contract for testing
	BstETHString string = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

	// Address of the accounting contract for testing
	AccountingString string = "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"

	// The node operator's eth base account for testing
	EthBaseString string = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

	// Chain ID for testing
	TestChainID uint64 = 31337
)

var (
	BstETHAddress  common.Address = common.HexToAddress(BstETHString)
	EthBaseAddress common.Address = common.HexToAddress(EthBaseString)
)

// GetTestResources returns a new BstethResources instance with test network values
func GetTestResources() *bsconfig.BstethResources {
	return &bsconfig.BstethResources{
		BstETH:     config.HexToAddressPtr(BstETHString),
		Accounting: config.HexToAddressPtr(AccountingString),
		ChainID:    TestChainID,
	}
}
