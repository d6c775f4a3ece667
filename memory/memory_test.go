package memory

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/bnb-chain/bsc-codec/allocate"
	"github.com/bnb-chain/bsc-codec/evm"
	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/read"
)

var uint256Type = &format.UintType{Bits: 256}

// layout writes words into a memory image at the given byte offsets.
func layout(size int, words map[int]int64) []byte {
	mem := make([]byte, size)
	for offset, n := range words {
		copy(mem[offset:], common.BigToHash(big.NewInt(n)).Bytes())
	}
	return mem
}

func literal(n int64) *format.StackLiteralPointer {
	return &format.StackLiteralPointer{Literal: common.BigToHash(big.NewInt(n)).Bytes()}
}

func TestDecodeString(t *testing.T) {
	mem := layout(0xc0, map[int]int64{0x80: 5})
	copy(mem[0xa0:], "hello")
	info := &evm.DecoderInfo{State: &read.State{Memory: mem}}

	result, err := DecodeByAddress(&format.StringType{Location: format.MemoryLocation}, literal(0x80), info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.Equal(t, "hello", result.(*format.StringValue).Value)
}

func TestDecodeDynamicArrayOfStrings(t *testing.T) {
	// string[] at 0x80 holding pointers to "ab" at 0xe0 and "c" at 0x120
	mem := layout(0x160, map[int]int64{0x80: 2, 0xa0: 0xe0, 0xc0: 0x120, 0xe0: 2, 0x120: 1})
	copy(mem[0x100:], "ab")
	copy(mem[0x140:], "c")
	info := &evm.DecoderInfo{State: &read.State{Memory: mem}}
	array := &format.ArrayDynamicType{BaseType: &format.StringType{}, Location: format.MemoryLocation}

	result, err := DecodeByAddress(array, &format.MemoryPointer{Start: 0x40, Length: 32}, info, evm.DecoderOptions{})
	require.NoError(t, err)
	// nothing at 0x40, so this is the empty array at address zero
	require.Empty(t, result.(*format.ArrayValue).Value)

	result, err = DecodeByAddress(array, literal(0x80), info, evm.DecoderOptions{})
	require.NoError(t, err)
	elements := result.(*format.ArrayValue).Value
	require.Len(t, elements, 2)
	require.Equal(t, "ab", elements[0].(*format.StringValue).Value)
	require.Equal(t, "c", elements[1].(*format.StringValue).Value)
	require.Equal(t, format.MemoryLocation, elements[1].ResultType().(*format.StringType).Location)
}

func TestDecodeCircularStruct(t *testing.T) {
	// struct S { uint256 x; S[] children; } with s.children[0] == s
	structS := &format.StructType{ID: "S", TypeName: "S", Location: format.MemoryLocation}
	allocations := &allocate.Allocations{Memory: allocate.MemoryAllocations{
		"S": {Members: []*allocate.MemoryMemberAllocation{
			{Name: "x", Type: uint256Type, Start: 0, Length: 32},
			{Name: "children", Type: &format.ArrayDynamicType{BaseType: structS}, Start: 32, Length: 32},
			{Name: "balances", Type: &format.MappingType{KeyType: &format.AddressType{}, ValueType: uint256Type}, Start: 64, Length: 0},
		}},
	}}
	mem := layout(0x100, map[int]int64{0x80: 7, 0xa0: 0xc0, 0xc0: 1, 0xe0: 0x80})
	info := &evm.DecoderInfo{State: &read.State{Memory: mem}, Allocations: allocations}

	result, err := DecodeByAddress(structS, literal(0x80), info, evm.DecoderOptions{})
	require.NoError(t, err)

	s := result.(*format.StructValue)
	require.Zero(t, s.Reference)
	require.Equal(t, big.NewInt(7), s.Value[0].Value.(*format.UintValue).Value)
	require.Empty(t, s.Value[2].Value.(*format.MappingValue).Value)

	children := s.Value[1].Value.(*format.ArrayValue)
	require.Zero(t, children.Reference)
	require.Len(t, children.Value, 1)
	back := children.Value[0].(*format.StructValue)
	// the array is the nearest ancestor, the struct the one above it
	require.Equal(t, 2, back.Reference)
	require.Empty(t, back.Value)
}

func TestDecodeStaticArray(t *testing.T) {
	mem := layout(0xe0, map[int]int64{0x80: 1, 0xa0: 2, 0xc0: 3})
	info := &evm.DecoderInfo{State: &read.State{Memory: mem}}
	array := &format.ArrayStaticType{BaseType: &format.UintType{Bits: 8}, Length: big.NewInt(3), Location: format.MemoryLocation}

	result, err := DecodeByAddress(array, literal(0x80), info, evm.DecoderOptions{})
	require.NoError(t, err)
	elements := result.(*format.ArrayValue).Value
	require.Len(t, elements, 3)
	require.Equal(t, big.NewInt(3), elements[2].(*format.UintValue).Value)
}

func TestMissingAllocation(t *testing.T) {
	info := &evm.DecoderInfo{State: &read.State{Memory: layout(0xa0, nil)}}
	structT := &format.StructType{ID: "T", Location: format.MemoryLocation}

	result, err := DecodeByAddress(structT, literal(0x80), info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.IsType(t, &format.UserDefinedTypeNotFoundError{}, result.(*format.ErrorResult).Error)

	_, err = DecodeByAddress(structT, literal(0x80), info, evm.DecoderOptions{StrictAbiMode: true})
	var stop *evm.StopDecodingError
	require.ErrorAs(t, err, &stop)
}

func TestOverlongString(t *testing.T) {
	mem := layout(0xc0, nil)
	copy(mem[0x80:], common.FromHex("0x0100000000000000000000000000000000000000000000000000000000000000"))
	info := &evm.DecoderInfo{State: &read.State{Memory: mem}}

	result, err := DecodeByAddress(&format.StringType{Location: format.MemoryLocation}, literal(0x80), info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.IsType(t, &format.OverlongArraysAndStringsNotImplementedError{}, result.(*format.ErrorResult).Error)
}

func TestOverlongArray(t *testing.T) {
	// 64 bytes of memory claiming an array of 0x07fffff0 words at 0x20
	mem := layout(0x40, map[int]int64{0x20: 0x07fffff0})
	info := &evm.DecoderInfo{State: &read.State{Memory: mem}}
	array := &format.ArrayDynamicType{BaseType: uint256Type, Location: format.MemoryLocation}

	result, err := DecodeByAddress(array, literal(0x20), info, evm.DecoderOptions{})
	require.NoError(t, err)
	overlong := result.(*format.ErrorResult).Error.(*format.OverlongArraysAndStringsNotImplementedError)
	require.Equal(t, big.NewInt(0x07fffff0), overlong.LengthAsBN)
	require.Equal(t, big.NewInt(0x40), overlong.DataLength)

	_, err = DecodeByAddress(array, literal(0x20), info, evm.DecoderOptions{StrictAbiMode: true})
	var stop *evm.StopDecodingError
	require.ErrorAs(t, err, &stop)

	// a string running one byte past the end of memory
	copy(mem[0x20:], common.BigToHash(big.NewInt(1)).Bytes())
	result, err = DecodeByAddress(&format.StringType{Location: format.MemoryLocation}, literal(0x20), info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.IsType(t, &format.OverlongArraysAndStringsNotImplementedError{}, result.(*format.ErrorResult).Error)
}
