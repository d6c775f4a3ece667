package stack

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/bnb-chain/bsc-codec/evm"
	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/read"
)

const tokenAbi = `[{"type":"function","name":"transfer","stateMutability":"nonpayable",
	"inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],
	"outputs":[{"name":"","type":"bool"}]}]`

var (
	tokenAddress = common.HexToAddress("0x00000000000000000000000000000000000070c3")
	tokenCode    = []byte{0x60, 0x80, 0x60, 0x40, 0x52}
)

func word(n int64) common.Hash { return common.BigToHash(big.NewInt(n)) }

func TestPermissiveScalars(t *testing.T) {
	state := &read.State{Stack: []common.Hash{
		common.HexToHash("0x01000000000000000000000000000000000000000000000000000000000000ff"),
	}}
	info := &evm.DecoderInfo{State: state}

	result, err := Decode(&format.UintType{Bits: 8}, &format.StackPointer{From: 0, To: 0}, info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.Equal(t, big.NewInt(255), result.(*format.UintValue).Value)

	// bools are still checked on the stack
	result, err = Decode(&format.BoolType{}, &format.StackPointer{From: 0, To: 0}, info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.IsType(t, &format.BoolPaddingError{}, result.(*format.ErrorResult).Error)
}

func TestStackUnderflow(t *testing.T) {
	info := &evm.DecoderInfo{State: &read.State{}}
	result, err := Decode(&format.UintType{Bits: 256}, &format.StackPointer{From: 2, To: 2}, info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.Equal(t, &format.ReadErrorStack{From: 2, To: 2}, result.(*format.ErrorResult).Error)
}

func TestMemoryReference(t *testing.T) {
	mem := make([]byte, 0xc0)
	copy(mem[0x80:], word(2).Bytes())
	copy(mem[0xa0:], "hi")
	info := &evm.DecoderInfo{State: &read.State{Memory: mem, Stack: []common.Hash{word(0x80)}}}

	result, err := Decode(&format.StringType{Location: format.MemoryLocation}, &format.StackPointer{}, info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.Equal(t, "hi", result.(*format.StringValue).Value)
}

func TestStorageReference(t *testing.T) {
	var short common.Hash
	copy(short[:], "abc")
	short[31] = 6
	state := &read.State{
		Stack:   []common.Hash{word(3)},
		Storage: map[common.Hash]common.Hash{word(3): short},
	}
	info := &evm.DecoderInfo{State: state}

	result, err := Decode(&format.StringType{Location: format.StorageLocation}, &format.StackPointer{}, info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.Equal(t, "abc", result.(*format.StringValue).Value)
}

func TestCalldataReference(t *testing.T) {
	// f(string) called with "hello": the stack holds the data location and
	// the length, skipping the length word in calldata
	calldata := common.FromHex("0x12345678")
	calldata = append(calldata, word(0x20).Bytes()...)
	calldata = append(calldata, word(5).Bytes()...)
	calldata = append(calldata, common.RightPadBytes([]byte("hello"), 32)...)
	info := &evm.DecoderInfo{State: &read.State{Calldata: calldata, Stack: []common.Hash{word(0x44), word(5)}}}

	result, err := Decode(&format.StringType{Location: format.CalldataLocation}, &format.StackPointer{From: 0, To: 1}, info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.Equal(t, "hello", result.(*format.StringValue).Value)

	// a single word is not enough
	result, err = DecodeLiteral(&format.StringType{Location: format.CalldataLocation}, &format.StackLiteralPointer{Literal: word(0x44).Bytes()}, info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.True(t, result.IsError())
}

func TestExternalFunction(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(tokenAbi))
	require.NoError(t, err)
	contexts, err := evm.NewContextSet([]*evm.Context{{
		Context: "0xtoken", Binary: tokenCode, ContractName: "Token", ContractKind: "contract", Abi: &parsed,
	}}, 0)
	require.NoError(t, err)
	state := &read.State{Codes: map[common.Address][]byte{tokenAddress: tokenCode}}
	info := &evm.DecoderInfo{State: state, Contexts: contexts}
	fn := &format.FunctionExternalType{}

	address := common.LeftPadBytes(tokenAddress.Bytes(), 32)
	selector := common.LeftPadBytes(parsed.Methods["transfer"].ID, 32)
	result, err := DecodeLiteral(fn, &format.StackLiteralPointer{Literal: append(common.CopyBytes(address), selector...)}, info, evm.DecoderOptions{})
	require.NoError(t, err)
	value := result.(*format.FunctionExternalValue).Value
	require.Equal(t, format.FunctionExternalKnown, value.Kind)
	require.Equal(t, "transfer", value.Abi.Name)

	// padding of the selector word is checked on its own
	dirty := common.CopyBytes(selector)
	dirty[0] = 1
	result, err = DecodeLiteral(fn, &format.StackLiteralPointer{Literal: append(common.CopyBytes(address), dirty...)}, info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.Equal(t, &format.FunctionExternalStackPaddingError{RawAddress: address, RawSelector: dirty}, result.(*format.ErrorResult).Error)
}
