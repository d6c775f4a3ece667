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

// Package storage decodes values held in contract storage.
package storage

import (
	"github.com/holiman/uint256"

	"github.com/bnb-chain/bsc-codec/allocate"
	"github.com/bnb-chain/bsc-codec/basic"
	"github.com/bnb-chain/bsc-codec/evm"
	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/log"
	"github.com/bnb-chain/bsc-codec/read"
)

var chaseFilter = &log.EveryN{N: 64}

// Decode decodes the value of type t occupying the storage range of pointer.
func Decode(t format.Type, pointer *format.StoragePointer, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	if format.IsReferenceType(t) {
		return decodeReference(t, pointer, info, options)
	}
	return basic.Decode(t, pointer, info, options)
}

// DecodeByAddress reads a slot number from pointer, typically a stack word,
// and decodes the value of type t stored from that slot on.
func DecodeByAddress(t format.Type, pointer format.Pointer, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	raw, rerr := read.Read(pointer, info.State)
	if rerr != nil {
		return evm.HandleDecodingError(t, rerr, options.StrictAbiMode)
	}
	size, err := allocate.StorageSize(t, info.UserDefinedTypes, info.StorageAllocations())
	if err != nil {
		return evm.HandleDecodingError(t, err, options.StrictAbiMode)
	}
	start := &format.Slot{}
	start.Offset.SetBytes(raw)
	words := size.Words
	if !size.IsWords() || words == 0 {
		words = 1
	}
	return decodeReference(t, &format.StoragePointer{Range: format.WordRange(start, words)}, info, options)
}

func decodeReference(t format.Type, pointer *format.StoragePointer, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	strict := options.StrictAbiMode
	base := pointer.Range.From.Slot

	switch t := t.(type) {
	case *format.StringType, *format.BytesDynamicType:
		word, rerr := read.Read(&format.StoragePointer{Range: format.WordRange(base, 1)}, info.State)
		if rerr != nil {
			return evm.HandleDecodingError(t, rerr, strict)
		}
		marker := word[len(word)-1]
		if marker%2 == 0 {
			// short form: the data shares the slot with its doubled length
			return basic.Decode(t, &format.StoragePointer{Range: format.ByteRange(base, 0, int(marker/2))}, info, options)
		}
		length := new(uint256.Int).SetBytes(word)
		length.Rsh(length, 1)
		if !length.IsUint64() || length.Uint64() > read.MaxOffset {
			return evm.HandleDecodingError(t, &format.OverlongArraysAndStringsNotImplementedError{LengthAsBN: length.ToBig()}, strict)
		}
		words := int((length.Uint64() + allocate.WordSize - 1) / allocate.WordSize)
		if overlong := info.CheckLength(format.StoragePointerLocation, 0, words, allocate.WordSize); overlong != nil {
			overlong.LengthAsBN = length.ToBig()
			return evm.HandleDecodingError(t, overlong, strict)
		}
		log.TraceBy(info.Log(), chaseFilter, "Reading long storage bytes", "type", t, "length", length.Uint64())
		return basic.Decode(t, &format.StoragePointer{Range: format.ByteRange(base.HashedChild(0), 0, int(length.Uint64()))}, info, options)

	case *format.ArrayDynamicType:
		word, rerr := read.Read(&format.StoragePointer{Range: format.WordRange(base, 1)}, info.State)
		if rerr != nil {
			return evm.HandleDecodingError(t, rerr, strict)
		}
		length, ok := evm.ToOffset(word)
		if !ok {
			return evm.HandleDecodingError(t, &format.OverlongArraysAndStringsNotImplementedError{LengthAsBN: evm.ToBig(word)}, strict)
		}
		return decodeArray(t, t.BaseType, length, base.HashedChild(0), info, options)

	case *format.ArrayStaticType:
		if !t.Length.IsInt64() || t.Length.Int64() > read.MaxOffset {
			return evm.HandleDecodingError(t, &format.OverlongArraysAndStringsNotImplementedError{LengthAsBN: t.Length}, strict)
		}
		return decodeArray(t, t.BaseType, int(t.Length.Int64()), base, info, options)

	case *format.StructType:
		allocation, ok := info.StorageAllocations()[t.ID]
		if !ok {
			return evm.HandleDecodingError(t, &format.UserDefinedTypeNotFoundError{Type: t}, strict)
		}
		members := make([]format.NameValuePair, len(allocation.Members))
		for i, member := range allocation.Members {
			from, to := member.Range.From, member.Range.To
			memberPointer := &format.StoragePointer{Range: format.Range{
				From: format.Position{Slot: base.Child(from.Slot.Offset.Uint64()), Index: from.Index},
				To:   format.Position{Slot: base.Child(to.Slot.Offset.Uint64()), Index: to.Index},
			}}
			value, stop := Decode(format.SpecifyLocation(member.Type, format.StorageLocation), memberPointer, info, options)
			if stop != nil {
				return nil, stop
			}
			members[i] = format.NameValuePair{Name: member.Name, Value: value}
		}
		return &format.StructValue{Type: t, Value: members}, nil

	case *format.MappingType:
		return decodeMapping(t, base, info, options)
	}
	return evm.HandleDecodingError(t, &format.UnsupportedTypeError{Type: t}, strict)
}

// decodeArray decodes length elements starting at slot data. Elements of
// whole-word types follow each other; smaller elements share words, element
// i at byte index 32-size*(i%perWord+1) of its word.
func decodeArray(t, baseType format.Type, length int, data *format.Slot, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	size, err := allocate.StorageSize(baseType, info.UserDefinedTypes, info.StorageAllocations())
	if err != nil {
		return evm.HandleDecodingError(t, err, options.StrictAbiMode)
	}
	if overlong := info.CheckLength(format.StoragePointerLocation, 0, length, 0); overlong != nil {
		return evm.HandleDecodingError(t, overlong, options.StrictAbiMode)
	}
	log.TraceBy(info.Log(), chaseFilter, "Decoding storage array", "type", t, "length", length)

	baseType = format.SpecifyLocation(baseType, format.StorageLocation)
	children := []format.Result{}
	for i := 0; i < length; i++ {
		var r format.Range
		if size.IsWords() {
			r = format.WordRange(data.Sibling(uint64(i)*size.Words), max(size.Words, 1))
		} else {
			perWord := allocate.ElementsPerWord(size.Bytes)
			index := allocate.WordSize - size.Bytes*(i%perWord+1)
			r = format.ByteRange(data.Sibling(uint64(i/perWord)), index, size.Bytes)
		}
		value, stop := Decode(baseType, &format.StoragePointer{Range: r}, info, options)
		if stop != nil {
			return nil, stop
		}
		children = append(children, value)
	}
	return &format.ArrayValue{Type: t, Value: children}, nil
}

// decodeMapping decodes the entries of the mapping at base whose keys are
// known. Storage cannot be enumerated, so other entries are not reported.
func decodeMapping(t *format.MappingType, base *format.Slot, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	size, err := allocate.StorageSize(t.ValueType, info.UserDefinedTypes, info.StorageAllocations())
	if err != nil {
		return evm.HandleDecodingError(t, err, options.StrictAbiMode)
	}
	valueType := format.SpecifyLocation(t.ValueType, format.StorageLocation)
	keys := info.MappingKeys.Keys(base)
	entries := make([]format.KeyValuePair, 0, len(keys))
	for _, key := range keys {
		entry := &format.Slot{Path: base, Key: key.Key}
		var r format.Range
		if size.IsWords() {
			r = format.WordRange(entry, max(size.Words, 1))
		} else {
			// sub-word values sit at the low-order end of their slot
			r = format.ByteRange(entry, allocate.WordSize-size.Bytes, size.Bytes)
		}
		value, stop := Decode(valueType, &format.StoragePointer{Range: r}, info, options)
		if stop != nil {
			return nil, stop
		}
		entries = append(entries, format.KeyValuePair{Key: key.Key, Value: value})
	}
	return &format.MappingValue{Type: t, Value: entries}, nil
}
