package storage

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/bnb-chain/bsc-codec/allocate"
	"github.com/bnb-chain/bsc-codec/evm"
	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/read"
	"github.com/bnb-chain/bsc-codec/slot"
)

var (
	uint24Type  = &format.UintType{Bits: 24}
	uint128Type = &format.UintType{Bits: 128}
	uint256Type = &format.UintType{Bits: 256}
	stringType  = &format.StringType{Location: format.StorageLocation}
)

type testStorage map[common.Hash]common.Hash

func (s testStorage) set(t *testing.T, at *format.Slot, word common.Hash) {
	addr, err := slot.Address(at)
	require.NoError(t, err)
	s[addr] = word
}

func wordPointer(s *format.Slot) *format.StoragePointer {
	return &format.StoragePointer{Range: format.WordRange(s, 1)}
}

func TestShortString(t *testing.T) {
	storage := testStorage{}
	var word common.Hash
	copy(word[:], "abc")
	word[31] = 0x06
	storage.set(t, format.NewSlot(0), word)
	info := &evm.DecoderInfo{State: &read.State{Storage: storage}}

	result, err := Decode(stringType, wordPointer(format.NewSlot(0)), info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.Equal(t, "abc", result.(*format.StringValue).Value)

	// an untouched slot is the empty string
	result, err = Decode(stringType, wordPointer(format.NewSlot(9)), info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.Equal(t, "", result.(*format.StringValue).Value)
}

func TestLongBytes(t *testing.T) {
	storage := testStorage{}
	base := format.NewSlot(1)
	storage.set(t, base, common.BigToHash(big.NewInt(64*2+1)))
	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i)
	}
	storage.set(t, base.HashedChild(0), common.BytesToHash(data[:32]))
	storage.set(t, base.HashedChild(1), common.BytesToHash(data[32:]))
	info := &evm.DecoderInfo{State: &read.State{Storage: storage}}

	result, err := Decode(&format.BytesDynamicType{Location: format.StorageLocation}, wordPointer(base), info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.Equal(t, data, result.(*format.BytesDynamicValue).Value)
}

func TestPackedStaticArray(t *testing.T) {
	// uint24[11]: ten elements share the first word, the last one spills over
	storage := testStorage{}
	var first, second common.Hash
	for i := 0; i < 10; i++ {
		first[32-3*(i+1)+2] = byte(i + 1)
	}
	second[31] = 11
	storage.set(t, format.NewSlot(2), first)
	storage.set(t, format.NewSlot(3), second)
	info := &evm.DecoderInfo{State: &read.State{Storage: storage}}

	array := &format.ArrayStaticType{BaseType: uint24Type, Length: big.NewInt(11), Location: format.StorageLocation}
	size, err := allocate.StorageSize(array, nil, nil)
	require.Nil(t, err)
	require.Equal(t, uint64(2), size.Words)

	result, derr := Decode(array, &format.StoragePointer{Range: format.WordRange(format.NewSlot(2), 2)}, info, evm.DecoderOptions{})
	require.NoError(t, derr)
	elements := result.(*format.ArrayValue).Value
	require.Len(t, elements, 11)
	for i, element := range elements {
		require.Equal(t, big.NewInt(int64(i+1)), element.(*format.UintValue).Value, "element %d", i)
	}
}

func TestDynamicArray(t *testing.T) {
	storage := testStorage{}
	base := format.NewSlot(6)
	storage.set(t, base, common.BigToHash(big.NewInt(3)))
	var first, second common.Hash
	first[31], first[15] = 1, 2
	second[31] = 3
	storage.set(t, base.HashedChild(0), first)
	storage.set(t, base.HashedChild(1), second)
	info := &evm.DecoderInfo{State: &read.State{Storage: storage}}

	result, err := Decode(&format.ArrayDynamicType{BaseType: uint128Type, Location: format.StorageLocation}, wordPointer(base), info, evm.DecoderOptions{})
	require.NoError(t, err)
	elements := result.(*format.ArrayValue).Value
	require.Len(t, elements, 3)
	for i, element := range elements {
		require.Equal(t, big.NewInt(int64(i+1)), element.(*format.UintValue).Value)
	}
}

func TestMappingKnownKeys(t *testing.T) {
	key := func(n int64) format.Result { return &format.UintValue{Type: uint256Type, Value: big.NewInt(n)} }
	mine, other := format.NewSlot(4), format.NewSlot(5)
	keys := []*format.Slot{
		{Path: mine, Key: key(7)},
		{Path: other, Key: key(7)},
		{Path: other, Key: key(8)},
		{Path: format.NewSlot(4), Key: key(7)}, // duplicate of the first
	}
	storage := testStorage{}
	storage.set(t, &format.Slot{Path: mine, Key: key(7)}, common.BigToHash(big.NewInt(100)))
	storage.set(t, &format.Slot{Path: other, Key: key(7)}, common.BigToHash(big.NewInt(200)))
	info := &evm.DecoderInfo{State: &read.State{Storage: storage}, MappingKeys: slot.NewKeyIndex(keys)}

	mapping := &format.MappingType{KeyType: uint256Type, ValueType: uint128Type, Location: format.StorageLocation}
	result, err := Decode(mapping, wordPointer(mine), info, evm.DecoderOptions{})
	require.NoError(t, err)
	entries := result.(*format.MappingValue).Value
	require.Len(t, entries, 1)
	require.Equal(t, big.NewInt(7), entries[0].Key.(*format.UintValue).Value)
	require.Equal(t, big.NewInt(100), entries[0].Value.(*format.UintValue).Value)

	result, err = Decode(mapping, wordPointer(other), info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.Len(t, result.(*format.MappingValue).Value, 2)
}

func TestStructByAddress(t *testing.T) {
	// struct T { uint128 a; uint128 b; string s; } at slot 10
	allocations := &allocate.Allocations{Storage: allocate.StorageAllocations{
		"T": {Size: allocate.StorageLength{Words: 2}, Members: []*allocate.StorageMemberAllocation{
			{Name: "a", Type: uint128Type, Range: format.ByteRange(format.NewSlot(0), 16, 16)},
			{Name: "b", Type: uint128Type, Range: format.ByteRange(format.NewSlot(0), 0, 16)},
			{Name: "s", Type: &format.StringType{}, Range: format.WordRange(format.NewSlot(1), 1)},
		}},
	}}
	storage := testStorage{}
	var packed, short common.Hash
	packed[31], packed[15] = 5, 6
	copy(short[:], "hi")
	short[31] = 4
	storage.set(t, format.NewSlot(10), packed)
	storage.set(t, format.NewSlot(11), short)
	info := &evm.DecoderInfo{State: &read.State{Storage: storage}, Allocations: allocations}

	structT := &format.StructType{ID: "T", TypeName: "T", Location: format.StorageLocation}
	pointer := &format.StackLiteralPointer{Literal: common.BigToHash(big.NewInt(10)).Bytes()}
	result, err := DecodeByAddress(structT, pointer, info, evm.DecoderOptions{})
	require.NoError(t, err)
	members := result.(*format.StructValue).Value
	require.Equal(t, big.NewInt(5), members[0].Value.(*format.UintValue).Value)
	require.Equal(t, big.NewInt(6), members[1].Value.(*format.UintValue).Value)
	require.Equal(t, "hi", members[2].Value.(*format.StringValue).Value)
	require.Equal(t, format.StorageLocation, members[2].Value.ResultType().(*format.StringType).Location)
}

func TestMissingStructAllocation(t *testing.T) {
	info := &evm.DecoderInfo{State: &read.State{Storage: testStorage{}}}
	result, err := Decode(&format.StructType{ID: "U"}, wordPointer(format.NewSlot(0)), info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.IsType(t, &format.UserDefinedTypeNotFoundError{}, result.(*format.ErrorResult).Error)
}

func TestOverlongArray(t *testing.T) {
	storage := testStorage{}
	storage.set(t, format.NewSlot(0), common.BigToHash(big.NewInt(0x7ffffff0)))
	array := &format.ArrayDynamicType{BaseType: uint256Type, Location: format.StorageLocation}

	info := &evm.DecoderInfo{State: &read.State{Storage: storage}}
	result, err := Decode(array, wordPointer(format.NewSlot(0)), info, evm.DecoderOptions{})
	require.NoError(t, err)
	overlong := result.(*format.ErrorResult).Error.(*format.OverlongArraysAndStringsNotImplementedError)
	require.Equal(t, big.NewInt(0x7ffffff0), overlong.LengthAsBN)

	_, err = Decode(array, wordPointer(format.NewSlot(0)), info, evm.DecoderOptions{StrictAbiMode: true})
	var stop *evm.StopDecodingError
	require.ErrorAs(t, err, &stop)

	// the cap is tunable
	storage.set(t, format.NewSlot(0), common.BigToHash(big.NewInt(3)))
	info.MaxUncheckedLength = 2
	result, err = Decode(array, wordPointer(format.NewSlot(0)), info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.True(t, result.IsError())
	info.MaxUncheckedLength = 3
	result, err = Decode(array, wordPointer(format.NewSlot(0)), info, evm.DecoderOptions{})
	require.NoError(t, err)
	require.Len(t, result.(*format.ArrayValue).Value, 3)

	// long byte strings are capped by their words
	storage.set(t, format.NewSlot(1), common.BigToHash(big.NewInt(0x7ffffff0*2+1)))
	result, err = Decode(&format.BytesDynamicType{Location: format.StorageLocation}, wordPointer(format.NewSlot(1)), &evm.DecoderInfo{State: &read.State{Storage: storage}}, evm.DecoderOptions{})
	require.NoError(t, err)
	overlong = result.(*format.ErrorResult).Error.(*format.OverlongArraysAndStringsNotImplementedError)
	require.Equal(t, big.NewInt(0x7ffffff0), overlong.LengthAsBN)
}
