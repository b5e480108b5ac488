package ids

const (
	ExecutionClientUrlID string = "executionClientUrl"
	SignerIPID           string = "signerIp"
	SignerPortID         string = "signerPort"
	SignerTimeoutID      string = "signerTimeout"
	SignerAppDirID       string = "signerAppDir"
	BondCurveIDID        string = "bondCurveId"
	VersionID            string = "version"
)
