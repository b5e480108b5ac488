package bsteth

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/nodeset-org/hyperdrive-bsteth/common/contracts"
	"github.com/rocket-pool/node-manager-core/eth"
)

const (
	bstethAbiString string = `[{"type":"function","name":"createNodeOperatorId","stateMutability":"payable","inputs":[{"name":"publicKeys","type":"bytes","internalType":"bytes"},{"name":"signatures","type":"bytes","internalType":"bytes"}],"outputs":[{"name":"nodeOperatorId","type":"uint256","internalType":"uint256"}]},{"type":"function","name":"bondValidators","stateMutability":"nonpayable","inputs":[{"name":"keysCount","type":"uint256","internalType":"uint256"},{"name":"publicKeys","type":"bytes","internalType":"bytes"},{"name":"signatures","type":"bytes","internalType":"bytes"}],"outputs":[]},{"type":"function","name":"nodeOperatorIdOf","stateMutability":"view","inputs":[{"name":"operator","type":"address","internalType":"address"}],"outputs":[{"name":"","type":"uint256","internalType":"uint256"}]},{"type":"event","name":"NodeOperatorCreated","anonymous":false,"inputs":[{"name":"nodeOperatorId","type":"uint256","indexed":true,"internalType":"uint256"},{"name":"operator","type":"address","indexed":true,"internalType":"address"}]},{"type":"event","name":"ValidatorsBonded","anonymous":false,"inputs":[{"name":"nodeOperatorId","type":"uint256","indexed":true,"internalType":"uint256"},{"name":"keysCount","type":"uint256","indexed":false,"internalType":"uint256"}]},{"type":"error","name":"InvalidKeysCount","inputs":[]},{"type":"error","name":"InvalidLength","inputs":[]},{"type":"error","name":"NodeOperatorAlreadyExists","inputs":[{"name":"operator","type":"address","internalType":"address"}]},{"type":"error","name":"NodeOperatorDoesNotExist","inputs":[]},{"type":"error","name":"SenderIsNotEligible","inputs":[]},{"type":"error","name":"KeyAlreadyBonded","inputs":[{"name":"publicKey","type":"bytes","internalType":"bytes"}]},{"type":"error","name":"InsufficientBond","inputs":[{"name":"required","type":"uint256","internalType":"uint256"},{"name":"provided","type":"uint256","internalType":"uint256"}]}]`
)

// ABI cache
var bstethAbi abi.ABI
var bstethOnce sync.Once
var bstethAbiErr error

// Binding for the BstETH node operator module
type BstETH struct {
	Address  common.Address
	contract *eth.Contract
	txMgr    *contracts.TransactionManager
}

// Get the parsed BstETH ABI
func GetBstETHAbi() (*abi.ABI, error) {
	bstethOnce.Do(func() {
		var parsedAbi abi.ABI
		parsedAbi, bstethAbiErr = abi.JSON(strings.NewReader(bstethAbiString))
		if bstethAbiErr == nil {
			bstethAbi = parsedAbi
		}
	})
	if bstethAbiErr != nil {
		return nil, fmt.Errorf("error parsing BstETH ABI: %w", bstethAbiErr)
	}
	return &bstethAbi, nil
}

// Create a new BstETH instance
func NewBstETH(address common.Address, txMgr *contracts.TransactionManager) (*BstETH, error) {
	// Parse the ABI
	parsedAbi, err := GetBstETHAbi()
	if err != nil {
		return nil, err
	}

	// Create the contract
	contract := contracts.NewContract("BstETH", address, parsedAbi, txMgr.GetExecutionClient())

	return &BstETH{
		Address:  address,
		contract: contract,
		txMgr:    txMgr,
	}, nil
}

// ====================
// === Transactions ===
// ====================

// Registers a new node operator with its first key; opts.Value must carry the bond
func (c *BstETH) CreateNodeOperatorId(pubkeys []byte, signatures []byte, opts *bind.TransactOpts) (*contracts.TransactionInfo, error) {
	return c.txMgr.CreateTransactionInfo(c.contract, "createNodeOperatorId", opts, pubkeys, signatures)
}

// Adds keys to an existing node operator
func (c *BstETH) BondValidators(keysCount *big.Int, pubkeys []byte, signatures []byte, opts *bind.TransactOpts) (*contracts.TransactionInfo, error) {
	return c.txMgr.CreateTransactionInfo(c.contract, "bondValidators", opts, keysCount, pubkeys, signatures)
}
