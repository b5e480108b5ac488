package bsteth

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/nodeset-org/hyperdrive-bsteth/common/contracts"
	"github.com/rocket-pool/node-manager-core/eth"
)

const (
	accountingAbiString string = `[{"type":"function","name":"getBondAmountByKeysCount","stateMutability":"view","inputs":[{"name":"keysCount","type":"uint256","internalType":"uint256"},{"name":"curveId","type":"uint256","internalType":"uint256"}],"outputs":[{"name":"","type":"uint256","internalType":"uint256"}]},{"type":"function","name":"getBondCurveId","stateMutability":"view","inputs":[{"name":"nodeOperatorId","type":"uint256","internalType":"uint256"}],"outputs":[{"name":"","type":"uint256","internalType":"uint256"}]},{"type":"error","name":"InvalidBondCurveId","inputs":[]},{"type":"error","name":"InvalidBondCurveMaxLength","inputs":[]},{"type":"error","name":"InvalidBondCurveValues","inputs":[]}]`
)

// ABI cache
var accountingAbi abi.ABI
var accountingOnce sync.Once
var accountingAbiErr error

// Binding for the accounting contract that prices node operator bonds
type Accounting struct {
	Address  common.Address
	contract *eth.Contract
}

// Get the parsed accounting ABI
func GetAccountingAbi() (*abi.ABI, error) {
	accountingOnce.Do(func() {
		var parsedAbi abi.ABI
		parsedAbi, accountingAbiErr = abi.JSON(strings.NewReader(accountingAbiString))
		if accountingAbiErr == nil {
			accountingAbi = parsedAbi
		}
	})
	if accountingAbiErr != nil {
		return nil, fmt.Errorf("error parsing Accounting ABI: %w", accountingAbiErr)
	}
	return &accountingAbi, nil
}

// Create a new Accounting instance
func NewAccounting(address common.Address, ec contracts.ExecutionClient) (*Accounting, error) {
	parsedAbi, err := GetAccountingAbi()
	if err != nil {
		return nil, err
	}
	return &Accounting{
		Address:  address,
		contract: contracts.NewContract("Accounting", address, parsedAbi, ec),
	}, nil
}

// =============
// === Calls ===
// =============

// Get the bond in wei required for the given number of keys on the given bond curve
func (c *Accounting) GetBondAmountByKeysCount(ctx context.Context, keysCount *big.Int, curveID *big.Int) (*big.Int, error) {
	results, err := contracts.Call(ctx, c.contract, "getBondAmountByKeysCount", keysCount, curveID)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(results[0], new(*big.Int)).(**big.Int), nil
}

// Get every ABI whose custom errors can show up when submitting keys
func GetErrorAbis() ([]*abi.ABI, error) {
	bstethAbi, err := GetBstETHAbi()
	if err != nil {
		return nil, err
	}
	accountingAbi, err := GetAccountingAbi()
	if err != nil {
		return nil, err
	}
	return []*abi.ABI{bstethAbi, accountingAbi}, nil
}
