package basic

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnb-chain/bsc-codec/evm"
	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/read"
)

const tokenAbi = `[{"type":"function","name":"transfer","stateMutability":"nonpayable",
	"inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],
	"outputs":[{"name":"","type":"bool"}]}]`

var (
	tokenAddress   = common.HexToAddress("0x00000000000000000000000000000000000070c3")
	unknownAddress = common.HexToAddress("0x000000000000000000000000000000000000dead")
	tokenCode      = []byte{0x60, 0x80, 0x60, 0x40, 0x52}
)

func newInfo(t *testing.T, state *read.State) *evm.DecoderInfo {
	parsed, err := abi.JSON(strings.NewReader(tokenAbi))
	require.NoError(t, err)
	contexts, err := evm.NewContextSet([]*evm.Context{{
		Context:      "0xtoken",
		Binary:       tokenCode,
		ContractName: "Token",
		ContractID:   "token",
		ContractKind: "contract",
		Abi:          &parsed,
	}}, 0)
	require.NoError(t, err)
	if state.Codes == nil {
		state.Codes = map[common.Address][]byte{}
	}
	state.Codes[tokenAddress] = tokenCode
	state.Codes[unknownAddress] = []byte{0xfe}
	return &evm.DecoderInfo{State: state, Contexts: contexts}
}

func literal(hex string) format.Pointer {
	return &format.StackLiteralPointer{Literal: common.FromHex(hex)}
}

func decode(t *testing.T, typ format.Type, hex string, options evm.DecoderOptions) format.Result {
	result, err := Decode(typ, literal(hex), newInfo(t, &read.State{}), options)
	require.NoError(t, err)
	return result
}

func decoderError(t *testing.T, result format.Result) format.DecoderError {
	errResult, ok := result.(*format.ErrorResult)
	require.True(t, ok, "expected an error result, got %T", result)
	return errResult.Error
}

func TestUintPadding(t *testing.T) {
	uint8Type := &format.UintType{Bits: 8}

	result := decode(t, uint8Type, "0x00000000000000000000000000000000000000000000000000000000000000ff", evm.DecoderOptions{})
	require.Equal(t, big.NewInt(255), result.(*format.UintValue).Value)

	bad := "0x01000000000000000000000000000000000000000000000000000000000000ff"
	result = decode(t, uint8Type, bad, evm.DecoderOptions{})
	require.Equal(t, &format.UintPaddingError{Raw: common.FromHex(bad)}, decoderError(t, result))

	// permissive mode ignores the padding
	result = decode(t, uint8Type, bad, evm.DecoderOptions{PaddingMode: evm.PaddingPermissive})
	require.Equal(t, big.NewInt(255), result.(*format.UintValue).Value)
	require.Equal(t, common.FromHex(bad), result.(*format.UintValue).Raw.Bytes())
}

func TestIntSignExtension(t *testing.T) {
	int8Type := &format.IntType{Bits: 8}

	result := decode(t, int8Type, "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", evm.DecoderOptions{})
	require.Equal(t, big.NewInt(-1), result.(*format.IntValue).Value)

	result = decode(t, int8Type, "0x000000000000000000000000000000000000000000000000000000000000007f", evm.DecoderOptions{})
	require.Equal(t, big.NewInt(127), result.(*format.IntValue).Value)

	// negative field with zero padding
	result = decode(t, int8Type, "0x00000000000000000000000000000000000000000000000000000000000000ff", evm.DecoderOptions{})
	require.IsType(t, &format.IntPaddingError{}, decoderError(t, result))

	// positive field with ones padding
	result = decode(t, int8Type, "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff01", evm.DecoderOptions{})
	require.IsType(t, &format.IntPaddingError{}, decoderError(t, result))
}

func TestBool(t *testing.T) {
	boolType := &format.BoolType{}

	result := decode(t, boolType, "0x0000000000000000000000000000000000000000000000000000000000000001", evm.DecoderOptions{})
	require.Equal(t, &format.BoolValue{Type: boolType, Value: true}, result)

	result = decode(t, boolType, "0x0000000000000000000000000000000000000000000000000000000000000002", evm.DecoderOptions{})
	require.Equal(t, &format.BoolOutOfRangeError{RawAsBN: big.NewInt(2)}, decoderError(t, result))

	// padding is checked even in permissive mode
	result = decode(t, boolType, "0x0100000000000000000000000000000000000000000000000000000000000001", evm.DecoderOptions{PaddingMode: evm.PaddingPermissive})
	require.IsType(t, &format.BoolPaddingError{}, decoderError(t, result))
}

func TestBytesStatic(t *testing.T) {
	bytes2 := &format.BytesStaticType{Length: 2}

	result := decode(t, bytes2, "0xabcd000000000000000000000000000000000000000000000000000000000000", evm.DecoderOptions{})
	require.Equal(t, []byte{0xab, 0xcd}, result.(*format.BytesStaticValue).Value)

	result = decode(t, bytes2, "0xabcd000000000000000000000000000000000000000000000000000000000001", evm.DecoderOptions{})
	require.IsType(t, &format.BytesPaddingError{}, decoderError(t, result))
}

func TestString(t *testing.T) {
	stringType := &format.StringType{Location: format.MemoryLocation}

	result := decode(t, stringType, "0x68656c6c6f", evm.DecoderOptions{})
	require.Equal(t, &format.StringValue{Type: stringType, Value: "hello"}, result)

	result = decode(t, stringType, "0xff00", evm.DecoderOptions{})
	require.Equal(t, &format.StringValue{Type: stringType, Malformed: true, Raw: []byte{0xff, 0x00}}, result)
}

func TestEnumBounds(t *testing.T) {
	enum := &format.EnumType{ID: "color", TypeName: "Color", Options: []string{"Red", "Green", "Blue"}}

	result := decode(t, enum, "0x0000000000000000000000000000000000000000000000000000000000000002", evm.DecoderOptions{})
	require.Equal(t, "Blue", result.(*format.EnumValue).Name)

	result = decode(t, enum, "0x0000000000000000000000000000000000000000000000000000000000000003", evm.DecoderOptions{})
	require.Equal(t, &format.EnumOutOfRangeError{Type: enum, RawAsBN: big.NewInt(3)}, decoderError(t, result))

	result = decode(t, enum, "0x0000000000000000000000000000000000000000000000000000000000000100", evm.DecoderOptions{})
	require.IsType(t, &format.EnumPaddingError{}, decoderError(t, result))

	// a bare reference is completed from the registry
	info := newInfo(t, &read.State{})
	info.UserDefinedTypes = format.TypesByID{"color": enum}
	result, err := Decode(&format.EnumType{ID: "color"}, literal("0x01"), info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.Equal(t, "Green", result.(*format.EnumValue).Name)

	result, err = Decode(&format.EnumType{ID: "shape"}, literal("0x01"), info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.IsType(t, &format.EnumNotFoundDecodingError{}, decoderError(t, result))

	// a single option leaves no value bits
	only := &format.EnumType{ID: "unit", TypeName: "Unit", Options: []string{"Only"}}
	result = decode(t, only, "0x0000000000000000000000000000000000000000000000000000000000000000", evm.DecoderOptions{})
	require.Equal(t, "Only", result.(*format.EnumValue).Name)
	result = decode(t, only, "0x0000000000000000000000000000000000000000000000000000000000000001", evm.DecoderOptions{})
	require.IsType(t, &format.EnumPaddingError{}, decoderError(t, result))
}

func TestContract(t *testing.T) {
	contractType := &format.ContractType{TypeName: "Token"}

	result := decode(t, contractType, "0x"+strings.Repeat("00", 12)+tokenAddress.Hex()[2:], evm.DecoderOptions{})
	value := result.(*format.ContractValue).Value
	require.Equal(t, format.ContractKnown, value.Kind)
	require.Equal(t, "Token", value.Class.TypeName)

	result = decode(t, contractType, "0x"+strings.Repeat("00", 12)+unknownAddress.Hex()[2:], evm.DecoderOptions{})
	value = result.(*format.ContractValue).Value
	require.Equal(t, format.ContractUnknown, value.Kind)
	require.Equal(t, unknownAddress, value.Address)
}

func TestExternalFunctionResolution(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(tokenAbi))
	require.NoError(t, err)
	selector := common.Bytes2Hex(parsed.Methods["transfer"].ID)
	fnType := &format.FunctionExternalType{}

	word := func(address common.Address, selector string) string {
		return "0x" + address.Hex()[2:] + selector + strings.Repeat("00", 8)
	}

	known := decode(t, fnType, word(tokenAddress, selector), evm.DecoderOptions{})
	require.False(t, known.IsError())
	value := known.(*format.FunctionExternalValue).Value
	require.Equal(t, format.FunctionExternalKnown, value.Kind)
	require.Equal(t, "transfer", value.Abi.Name)
	require.Equal(t, "transfer(address,uint256)", value.Abi.Signature)

	invalid := decode(t, fnType, word(tokenAddress, "deadbeef"), evm.DecoderOptions{})
	require.False(t, invalid.IsError())
	require.Equal(t, format.FunctionExternalInvalid, invalid.(*format.FunctionExternalValue).Value.Kind)

	unknown := decode(t, fnType, word(unknownAddress, selector), evm.DecoderOptions{})
	require.False(t, unknown.IsError())
	require.Equal(t, format.FunctionExternalUnknown, unknown.(*format.FunctionExternalValue).Value.Kind)

	padded := decode(t, fnType, "0x"+tokenAddress.Hex()[2:]+selector+strings.Repeat("00", 7)+"01", evm.DecoderOptions{})
	require.IsType(t, &format.FunctionExternalNonStackPaddingError{}, decoderError(t, padded))
}

func TestInternalFunction(t *testing.T) {
	fnType := &format.FunctionInternalType{}
	word := func(constructorPc, deployedPc string) format.Pointer {
		return literal("0x" + strings.Repeat("00", 24) + constructorPc + deployedPc)
	}
	table := evm.InternalFunctionsTable{
		0x10: {Name: "helper", ID: "helper-id", Mutability: "pure"},
		0x20: {IsDesignatedInvalid: true},
	}
	deployed := &evm.Context{Context: "deployed", ContractName: "C"}
	constructor := &evm.Context{Context: "constructor", ContractName: "C", IsConstructor: true}

	tests := []struct {
		name    string
		table   evm.InternalFunctionsTable
		context *evm.Context
		pointer format.Pointer
		kind    format.FunctionInternalKind
		err     format.DecoderError
	}{
		{"no table", nil, deployed, word("00000000", "00000010"), format.FunctionInternalUnknown, nil},
		{"both zero", table, deployed, word("00000000", "00000000"), format.FunctionInternalException, nil},
		{"function", table, deployed, word("00000000", "00000010"), format.FunctionInternalFunction, nil},
		{"designated invalid", table, deployed, word("00000000", "00000020"), format.FunctionInternalException, nil},
		{"constructor pc", table, constructor, word("00000010", "00000099"), format.FunctionInternalFunction, nil},
		{"no such function", table, deployed, word("00000000", "00000030"), 0,
			&format.NoSuchInternalFunctionError{Context: deployed.Class(), DeployedProgramCounter: 0x30}},
		{"deployed in constructor", table, constructor, word("00000000", "00000010"), 0,
			&format.DeployedFunctionInConstructorError{Context: constructor.Class(), DeployedProgramCounter: 0x10}},
		{"malformed", table, deployed, word("00000010", "00000000"), 0,
			&format.MalformedInternalFunctionError{Context: deployed.Class(), ConstructorProgramCounter: 0x10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := newInfo(t, &read.State{})
			info.InternalFunctionsTable = tt.table
			info.CurrentContext = tt.context
			result, err := Decode(fnType, tt.pointer, info, evm.DecoderOptions{})
			require.NoError(t, err)
			if tt.err != nil {
				require.Equal(t, tt.err, decoderError(t, result))
				return
			}
			value := result.(*format.FunctionInternalValue).Value
			require.Equal(t, tt.kind, value.Kind)
			if tt.kind == format.FunctionInternalFunction {
				assert.Equal(t, "helper", value.Name)
			}
		})
	}
}

func TestFixedPointUnsupported(t *testing.T) {
	result := decode(t, &format.FixedType{Bits: 128, Places: 18}, "0x01", evm.DecoderOptions{PaddingMode: evm.PaddingPermissive})
	require.Equal(t, &format.FixedPointNotYetSupportedError{Raw: []byte{0x01}}, decoderError(t, result))
}

func TestStrictModeStops(t *testing.T) {
	_, err := Decode(&format.BoolType{}, literal("0x02"), newInfo(t, &read.State{}), evm.DecoderOptions{StrictAbiMode: true})
	var stop *evm.StopDecodingError
	require.ErrorAs(t, err, &stop)
	require.IsType(t, &format.BoolOutOfRangeError{}, stop.Err)
}

func TestReadErrorBecomesValue(t *testing.T) {
	result, err := Decode(&format.UintType{Bits: 256}, &format.StackPointer{From: 0, To: 0}, newInfo(t, &read.State{}), evm.DecoderOptions{})
	require.NoError(t, err)
	require.Equal(t, &format.ReadErrorStack{From: 0, To: 0}, decoderError(t, result))
}
