package bsteth_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/nodeset-org/hyperdrive-bsteth/common/contracts"
	"github.com/nodeset-org/hyperdrive-bsteth/common/contracts/bsteth"
	bstesting "github.com/nodeset-org/hyperdrive-bsteth/testing"
	"github.com/stretchr/testify/require"
)

func newBinding(t *testing.T, client *bstesting.FakeExecutionClient) *bsteth.BstETH {
	txMgr, err := contracts.NewTransactionManager(client, bstesting.TestChainID)
	require.NoError(t, err)
	binding, err := bsteth.NewBstETH(bstesting.BstETHAddress, txMgr)
	require.NoError(t, err)
	return binding
}

func TestCreateNodeOperatorId(t *testing.T) {
	client := &bstesting.FakeExecutionClient{GasEstimate: 123456}
	binding := newBinding(t, client)

	datum := bstesting.NewDepositDatum(0x11)
	bond := big.NewInt(2_400_000_000_000_000_000)
	txInfo, err := binding.CreateNodeOperatorId(datum.Pubkey, datum.Signature, &bind.TransactOpts{
		From:    bstesting.EthBaseAddress,
		Value:   bond,
		Context: context.Background(),
	})
	require.NoError(t, err)
	require.Equal(t, "createNodeOperatorId", txInfo.Method)
	require.Equal(t, bstesting.BstETHAddress, txInfo.To)
	require.Equal(t, bstesting.EthBaseAddress, txInfo.From)
	require.True(t, txInfo.SimulationResult.IsSimulated)
	require.Equal(t, uint64(123456), txInfo.SimulationResult.EstimatedGasLimit)
	require.Equal(t, uint64(185184), txInfo.SimulationResult.SafeGasLimit)
	require.Equal(t, bstesting.TestChainID, txInfo.ChainID.Uint64())
	require.Equal(t, 0, bond.Cmp(txInfo.Value))

	// The simulation used the same calldata and value
	require.Len(t, client.EstimateGasCalls, 1)
	require.Equal(t, txInfo.Data, client.EstimateGasCalls[0].Data)
	require.Equal(t, 0, bond.Cmp(client.EstimateGasCalls[0].Value))

	method, args, err := bstesting.DecodeBstETHCall(txInfo.Data)
	require.NoError(t, err)
	require.Equal(t, "createNodeOperatorId", method)
	require.Equal(t, datum.Pubkey, args[0])
	require.Equal(t, datum.Signature, args[1])
}

func TestBondValidatorsDefaultsToZeroValue(t *testing.T) {
	client := &bstesting.FakeExecutionClient{}
	binding := newBinding(t, client)

	txInfo, err := binding.BondValidators(big.NewInt(1), make([]byte, 48), make([]byte, 96), &bind.TransactOpts{From: bstesting.EthBaseAddress})
	require.NoError(t, err)
	require.Equal(t, 0, txInfo.Value.Sign())
	require.Equal(t, 0, client.EstimateGasCalls[0].Value.Sign())
}

func TestSimulationErrorIsPreserved(t *testing.T) {
	revert := bstesting.NewRevertError([]byte{0x01, 0x02, 0x03, 0x04})
	client := &bstesting.FakeExecutionClient{EstimateGasErr: revert}
	binding := newBinding(t, client)

	_, err := binding.BondValidators(big.NewInt(1), make([]byte, 48), make([]byte, 96), &bind.TransactOpts{From: bstesting.EthBaseAddress})
	require.ErrorIs(t, err, revert)
}

func TestEncodingError(t *testing.T) {
	client := &bstesting.FakeExecutionClient{}
	binding := newBinding(t, client)

	// A nil count can't be encoded as a uint256
	_, err := binding.BondValidators(nil, make([]byte, 48), make([]byte, 96), &bind.TransactOpts{From: bstesting.EthBaseAddress})
	require.ErrorIs(t, err, contracts.ErrCallEncoding)
	require.Empty(t, client.EstimateGasCalls)
}

func TestWrongChainIsRejectedBeforeSimulation(t *testing.T) {
	client := &bstesting.FakeExecutionClient{NodeChainID: 1}
	binding := newBinding(t, client)

	_, err := binding.BondValidators(big.NewInt(1), make([]byte, 48), make([]byte, 96), &bind.TransactOpts{From: bstesting.EthBaseAddress})
	require.ErrorIs(t, err, contracts.ErrWrongChain)
	require.Empty(t, client.EstimateGasCalls)
}

func TestUnsafeGasLimit(t *testing.T) {
	client := &bstesting.FakeExecutionClient{GasEstimate: 29_000_000}
	binding := newBinding(t, client)

	_, err := binding.BondValidators(big.NewInt(1), make([]byte, 48), make([]byte, 96), &bind.TransactOpts{From: bstesting.EthBaseAddress})
	require.ErrorIs(t, err, contracts.ErrUnsafeGasLimit)
}

func TestGetBondAmountByKeysCount(t *testing.T) {
	accountingAbi, err := bsteth.GetAccountingAbi()
	require.NoError(t, err)
	bond, ok := new(big.Int).SetString("2400000000000000000", 10)
	require.True(t, ok)
	response, err := accountingAbi.Methods["getBondAmountByKeysCount"].Outputs.Pack(bond)
	require.NoError(t, err)

	client := &bstesting.FakeExecutionClient{CallResponse: response}
	accounting, err := bsteth.NewAccounting(bstesting.BstETHAddress, client)
	require.NoError(t, err)

	amount, err := accounting.GetBondAmountByKeysCount(context.Background(), big.NewInt(1), big.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, 0, bond.Cmp(amount))

	// The request carried the key count and curve
	require.Len(t, client.CallContractCalls, 1)
	args, err := accountingAbi.Methods["getBondAmountByKeysCount"].Inputs.Unpack(client.CallContractCalls[0].Data[4:])
	require.NoError(t, err)
	require.Equal(t, int64(1), args[0].(*big.Int).Int64())
	require.Equal(t, int64(0), args[1].(*big.Int).Int64())
}

func TestGetBondAmountCallFailure(t *testing.T) {
	cause := errors.New("connection reset by peer")
	client := &bstesting.FakeExecutionClient{CallErr: cause}
	accounting, err := bsteth.NewAccounting(bstesting.BstETHAddress, client)
	require.NoError(t, err)

	_, err = accounting.GetBondAmountByKeysCount(context.Background(), big.NewInt(1), big.NewInt(0))
	require.ErrorIs(t, err, cause)
}

func TestGetBondAmountEncodingError(t *testing.T) {
	client := &bstesting.FakeExecutionClient{}
	accounting, err := bsteth.NewAccounting(bstesting.BstETHAddress, client)
	require.NoError(t, err)

	_, err = accounting.GetBondAmountByKeysCount(context.Background(), big.NewInt(1), nil)
	require.ErrorIs(t, err, contracts.ErrCallEncoding)
	require.Empty(t, client.CallContractCalls)
}

func TestErrorAbisHaveCustomErrors(t *testing.T) {
	errorAbis, err := bsteth.GetErrorAbis()
	require.NoError(t, err)
	require.Len(t, errorAbis, 2)

	names := map[string]bool{}
	for _, contractAbi := range errorAbis {
		for name := range contractAbi.Errors {
			names[name] = true
		}
	}
	for _, name := range []string{"KeyAlreadyBonded", "InsufficientBond", "NodeOperatorDoesNotExist", "InvalidBondCurveId"} {
		require.True(t, names[name], name)
	}
}
