package bsconfig

const (
	ModuleName        string = "bsteth"
	ShortModuleName   string = "bs"
	DefaultSignerIP   string = "127.0.0.1"
	DefaultSignerPort uint16 = 8000

	// Seconds to wait for the wallet to report back on a signing request
	DefaultSignerTimeout uint64 = 600

	// The bond curve used by the accounting contract for permissionless operators
	DefaultBondCurveID uint64 = 0

	// The file that tracks keys already submitted to BstETH
	KeyRegistryFilename string = "submitted-keys.json"

	// Logging
	ClientLogName string = "bsteth.log"
)
