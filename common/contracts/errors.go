package contracts

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

const selectorSize int = 4

// An error returned by the execution client while executing a contract call, with the revert
// decoded against the known contract ABIs when possible
type ContractError struct {
	// The JSON-RPC error code reported by the node
	Code int

	// The error message reported by the node
	Message string

	// The raw revert data (selector + arguments), if the node returned any
	Data []byte

	// The name of the custom error, if the selector matched one of the ABIs
	Name string

	// The decoded arguments of the custom error
	Args []any

	// The reason from a standard Error(string) or Panic(uint256) revert
	Reason string
}

func (e *ContractError) Error() string {
	if decoded := e.Decoded(); decoded != "" {
		return fmt.Sprintf("contract call failed: %s (revert reason: %s)", e.Message, decoded)
	}
	if len(e.Data) > 0 {
		return fmt.Sprintf("contract call failed: %s (raw revert data: %s)", e.Message, hexutil.Encode(e.Data))
	}
	return fmt.Sprintf("contract call failed: %s", e.Message)
}

// Get the human-readable revert, formatted as "ErrorName(arg1, arg2)" for custom errors
func (e *ContractError) Decoded() string {
	if e.Name != "" {
		return formatDecodedError(e.Name, e.Args)
	}
	return e.Reason
}

// Get the 4-byte selector of the revert data, if present
func (e *ContractError) Selector() ([4]byte, bool) {
	var selector [4]byte
	if len(e.Data) < selectorSize {
		return selector, false
	}
	copy(selector[:], e.Data[:selectorSize])
	return selector, true
}

// Checks if an error came from the execution client rejecting a contract call (a JSON-RPC error
// rather than a transport failure). If so, the revert data is decoded against the provided ABIs.
func DecodeContractError(err error, abis ...*abi.ABI) (*ContractError, bool) {
	if err == nil {
		return nil, false
	}
	var existing *ContractError
	if errors.As(err, &existing) {
		return existing, true
	}
	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) {
		return nil, false
	}

	contractErr := &ContractError{
		Code:    rpcErr.ErrorCode(),
		Message: rpcErr.Error(),
	}
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		contractErr.Data = parseRevertData(dataErr.ErrorData())
	}
	if len(contractErr.Data) < selectorSize {
		return contractErr, true
	}

	selector := contractErr.Data[:selectorSize]
	for _, contractAbi := range abis {
		if name, args, ok := decodeErrorBySelector(selector, contractErr.Data, contractAbi); ok {
			contractErr.Name = name
			contractErr.Args = args
			return contractErr, true
		}
	}

	// Fallback to standard Solidity Error(string) or Panic(uint256)
	if reason, err := abi.UnpackRevert(contractErr.Data); err == nil {
		contractErr.Reason = reason
	}
	return contractErr, true
}

// Revert data comes back as a hex string over JSON-RPC
func parseRevertData(data any) []byte {
	switch value := data.(type) {
	case string:
		decoded, err := hexutil.Decode(value)
		if err != nil {
			return nil
		}
		return decoded
	case []byte:
		return value
	case hexutil.Bytes:
		return value
	default:
		return nil
	}
}

// Find the custom error in the ABI by matching the selector
func decodeErrorBySelector(selector []byte, data []byte, contractAbi *abi.ABI) (string, []any, bool) {
	if contractAbi == nil {
		return "", nil, false
	}
	for name, errDef := range contractAbi.Errors {
		if !bytes.Equal(errDef.ID[:selectorSize], selector) {
			continue
		}
		decoded, err := errDef.Unpack(data)
		if err != nil {
			continue
		}
		if values, ok := decoded.([]any); ok {
			return name, values, true
		}
		return name, []any{decoded}, true
	}
	return "", nil, false
}

func formatDecodedError(errorName string, values []any) string {
	if len(values) == 0 {
		return errorName + "()"
	}
	parts := make([]string, 0, len(values))
	for _, value := range values {
		switch v := value.(type) {
		case []byte:
			parts = append(parts, hexutil.Encode(v))
		default:
			parts = append(parts, fmt.Sprintf("%v", v))
		}
	}
	return fmt.Sprintf("%s(%s)", errorName, strings.Join(parts, ", "))
}
