// Copyright 2024 The bsc-codec Authors
// This file is part of the bsc-codec library.
//
// The bsc-codec library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The bsc-codec library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the bsc-codec library. If not, see <http://www.gnu.org/licenses/>.

package allocate

import (
	"math/big"
	"math/bits"

	"github.com/bnb-chain/bsc-codec/format"
)

// WordSize is the size of an EVM word in bytes.
const WordSize = 32

// StorageLength is the storage footprint of a type: whole words for types
// that start a new slot, bytes for types that may share a slot.
type StorageLength struct {
	Words uint64
	Bytes int
}

// IsWords reports whether the length is counted in words.
func (l StorageLength) IsWords() bool { return l.Bytes == 0 }

func wordsLength(n uint64) StorageLength { return StorageLength{Words: n} }
func bytesLength(n int) StorageLength    { return StorageLength{Bytes: n} }

// EnumByteWidth is the number of bytes an enum with the given number of
// options occupies: enough for ceil(log2(options)) bits, and at least one.
// The value bits of a single-option enum still number zero.
func EnumByteWidth(options int) int {
	if options <= 1 {
		return 1
	}
	width := (bits.Len(uint(options-1)) + 7) / 8
	if width == 0 {
		return 1
	}
	return width
}

// StorageSize returns the storage footprint of t.
func StorageSize(t format.Type, registry format.TypesByID, allocations StorageAllocations) (StorageLength, format.DecoderError) {
	switch t := t.(type) {
	case *format.BoolType:
		return bytesLength(1), nil
	case *format.AddressType, *format.ContractType:
		return bytesLength(20), nil
	case *format.UintType:
		return bytesLength(t.Bits / 8), nil
	case *format.IntType:
		return bytesLength(t.Bits / 8), nil
	case *format.FixedType:
		return bytesLength(t.Bits / 8), nil
	case *format.UfixedType:
		return bytesLength(t.Bits / 8), nil
	case *format.BytesStaticType:
		return bytesLength(t.Length), nil
	case *format.EnumType:
		full, ok := format.FullType(t, registry)
		if !ok {
			return StorageLength{}, &format.UserDefinedTypeNotFoundError{Type: t}
		}
		return bytesLength(EnumByteWidth(len(full.(*format.EnumType).Options))), nil
	case *format.FunctionInternalType:
		return bytesLength(8), nil
	case *format.FunctionExternalType:
		return bytesLength(24), nil
	case *format.StringType, *format.BytesDynamicType, *format.ArrayDynamicType, *format.MappingType:
		return wordsLength(1), nil
	case *format.ArrayStaticType:
		return staticArrayStorageSize(t, registry, allocations)
	case *format.StructType:
		allocation, ok := allocations[t.ID]
		if !ok {
			return StorageLength{}, &format.UserDefinedTypeNotFoundError{Type: t}
		}
		return allocation.Size, nil
	}
	return StorageLength{}, &format.UnsupportedTypeError{Type: t}
}

func staticArrayStorageSize(t *format.ArrayStaticType, registry format.TypesByID, allocations StorageAllocations) (StorageLength, format.DecoderError) {
	if !t.Length.IsUint64() {
		return StorageLength{}, &format.OverlongArraysAndStringsNotImplementedError{LengthAsBN: t.Length}
	}
	length := t.Length.Uint64()
	base, err := StorageSize(t.BaseType, registry, allocations)
	if err != nil {
		return StorageLength{}, err
	}
	if length == 0 {
		return wordsLength(0), nil
	}
	var words uint64
	if base.IsWords() {
		hi, lo := bits.Mul64(length, base.Words)
		if hi != 0 {
			return StorageLength{}, &format.OverlongArraysAndStringsNotImplementedError{LengthAsBN: t.Length}
		}
		words = lo
	} else {
		perWord := uint64(WordSize / base.Bytes)
		words = (length + perWord - 1) / perWord
	}
	return wordsLength(words), nil
}

// ElementsPerWord returns how many elements of the given byte size share one
// storage word.
func ElementsPerWord(size int) int {
	return WordSize / size
}

// AbiSizeInfo describes the head footprint of a type in ABI encoding.
type AbiSizeInfo struct {
	Size    int // bytes in the head; 32 for dynamic types, whose head is a pointer
	Dynamic bool
}

// AbiSize returns the ABI head footprint of t.
func AbiSize(t format.Type, allocations AbiAllocations) (AbiSizeInfo, format.DecoderError) {
	switch t := t.(type) {
	case *format.BoolType, *format.AddressType, *format.ContractType, *format.UintType, *format.IntType,
		*format.FixedType, *format.UfixedType, *format.BytesStaticType, *format.EnumType,
		*format.FunctionExternalType:
		return AbiSizeInfo{Size: WordSize}, nil
	case *format.StringType, *format.BytesDynamicType, *format.ArrayDynamicType:
		return AbiSizeInfo{Size: WordSize, Dynamic: true}, nil
	case *format.FunctionInternalType:
		return AbiSizeInfo{}, &format.InternalFunctionInABIError{}
	case *format.ArrayStaticType:
		base, err := AbiSize(t.BaseType, allocations)
		if err != nil {
			return AbiSizeInfo{}, err
		}
		if base.Dynamic {
			return AbiSizeInfo{Size: WordSize, Dynamic: true}, nil
		}
		size := new(big.Int).Mul(t.Length, big.NewInt(int64(base.Size)))
		if !size.IsInt64() || size.Int64() > maxAbiSize {
			return AbiSizeInfo{}, &format.OverlongArraysAndStringsNotImplementedError{LengthAsBN: t.Length}
		}
		return AbiSizeInfo{Size: int(size.Int64())}, nil
	case *format.StructType:
		allocation, ok := allocations[t.ID]
		if !ok {
			return AbiSizeInfo{}, &format.UserDefinedTypeNotFoundError{Type: t}
		}
		if allocation.Dynamic {
			return AbiSizeInfo{Size: WordSize, Dynamic: true}, nil
		}
		return AbiSizeInfo{Size: allocation.Length}, nil
	case *format.TupleType:
		var info AbiSizeInfo
		for _, member := range t.MemberTypes {
			m, err := AbiSize(member.Type, allocations)
			if err != nil {
				return AbiSizeInfo{}, err
			}
			info.Size += m.Size
			info.Dynamic = info.Dynamic || m.Dynamic
		}
		if info.Dynamic {
			info.Size = WordSize
		}
		return info, nil
	}
	return AbiSizeInfo{}, &format.UnsupportedTypeError{Type: t}
}

// maxAbiSize bounds the head of a static ABI value.
const maxAbiSize = 1<<32 - 1

// IsDynamic reports whether the ABI encoding of t is dynamic, i.e. accessed
// through a pointer in the head. Types the tables cannot size are reported as
// static.
func IsDynamic(t format.Type, allocations AbiAllocations) bool {
	switch t := t.(type) {
	case *format.StringType, *format.BytesDynamicType, *format.ArrayDynamicType:
		return true
	case *format.ArrayStaticType:
		return IsDynamic(t.BaseType, allocations)
	case *format.StructType:
		allocation, ok := allocations[t.ID]
		return ok && allocation.Dynamic
	case *format.TupleType:
		for _, member := range t.MemberTypes {
			if IsDynamic(member.Type, allocations) {
				return true
			}
		}
	}
	return false
}
