package submission

import (
	"fmt"
	"math/big"
	"os"
	"testing"
	"time"

	bstestutils "github.com/nodeset-org/hyperdrive-bsteth/internal/tests/utils"
)

// Various singleton variables used for testing
var (
	harness *bstestutils.StandardTestHarness
	bond    *big.Int = new(big.Int).Mul(big.NewInt(24), big.NewInt(1e17))
)

// Initialize a common signing endpoint used by all tests
func TestMain(m *testing.M) {
	_harness, err := bstestutils.CreateStandardTestHarness(bond, 5*time.Second)
	if err != nil {
		fail("error creating standard test harness: %v", err)
	}
	harness = _harness

	// Run tests
	code := m.Run()

	// Clean up and exit
	cleanup()
	os.Exit(code)
}

// Fail with an error message
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	cleanup()
	os.Exit(1)
}

// Clean up the test harness
func cleanup() {
	if harness == nil {
		return
	}
	err := harness.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error closing test harness: %v", err)
	}
	harness = nil
}
