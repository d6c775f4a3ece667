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

// Package memory decodes values held in EVM memory. Every reference in
// memory is a pointer word, so arrays and structs are always decoded by
// address.
package memory

import (
	"github.com/bnb-chain/bsc-codec/basic"
	"github.com/bnb-chain/bsc-codec/evm"
	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/log"
	"github.com/bnb-chain/bsc-codec/read"
)

var chaseFilter = &log.EveryN{N: 64}

// Decode decodes the value of type t whose word is at pointer.
func Decode(t format.Type, pointer format.Pointer, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	if !format.IsReferenceType(t) {
		return basic.Decode(t, pointer, info, options)
	}
	if mapping, ok := t.(*format.MappingType); ok {
		// mappings take no space in memory; a memory struct's mapping member
		// is always empty
		return &format.MappingValue{Type: mapping, Value: []format.KeyValuePair{}}, nil
	}
	return DecodeByAddress(t, pointer, info, options)
}

// DecodeByAddress reads a memory address from pointer, which may designate
// memory or the stack, and decodes the value of type t stored there.
//
// Arrays and structs already being decoded further up the tree are not
// decoded again; they are returned empty with Reference set to their
// 1-based position in options.MemoryVisited.
func DecodeByAddress(t format.Type, pointer format.Pointer, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	strict := options.StrictAbiMode
	raw, rerr := read.Read(pointer, info.State)
	if rerr != nil {
		return evm.HandleDecodingError(t, rerr, strict)
	}
	start, ok := evm.ToOffset(raw)
	if !ok {
		return evm.HandleDecodingError(t, &format.OverlargePointersNotImplementedError{PointerAsBN: evm.ToBig(raw)}, strict)
	}
	log.TraceBy(info.Log(), chaseFilter, "Chasing memory pointer", "type", t, "start", start)

	switch t := t.(type) {
	case *format.StringType, *format.BytesDynamicType:
		length, failed, stop := readLength(t, start, info, strict)
		if failed != nil || stop != nil {
			return failed, stop
		}
		if overlong := info.CheckLength(format.MemoryPointerLocation, start+evm.WordSize, length, 1); overlong != nil {
			return evm.HandleDecodingError(t, overlong, strict)
		}
		return basic.Decode(t, &format.MemoryPointer{Start: start + evm.WordSize, Length: length}, info, options)

	case *format.ArrayDynamicType, *format.ArrayStaticType:
		if reference := circularity(start, options.MemoryVisited); reference != 0 {
			return &format.ArrayValue{Type: t, Reference: reference}, nil
		}
		var (
			baseType  format.Type
			length    int
			dataStart = start
		)
		if dynamic, ok := t.(*format.ArrayDynamicType); ok {
			n, failed, stop := readLength(t, start, info, strict)
			if failed != nil || stop != nil {
				return failed, stop
			}
			baseType, length, dataStart = dynamic.BaseType, n, start+evm.WordSize
		} else {
			static := t.(*format.ArrayStaticType)
			if !static.Length.IsInt64() || static.Length.Int64() > read.MaxOffset/evm.WordSize {
				return evm.HandleDecodingError(t, &format.OverlongArraysAndStringsNotImplementedError{LengthAsBN: static.Length}, strict)
			}
			baseType, length = static.BaseType, int(static.Length.Int64())
		}
		if length > (read.MaxOffset-dataStart)/evm.WordSize {
			return evm.HandleDecodingError(t, &format.OverlongArraysAndStringsNotImplementedError{LengthAsBN: evm.ToBig(raw)}, strict)
		}
		if overlong := info.CheckLength(format.MemoryPointerLocation, dataStart, length, evm.WordSize); overlong != nil {
			return evm.HandleDecodingError(t, overlong, strict)
		}
		baseType = format.SpecifyLocation(baseType, format.MemoryLocation)
		childOptions := visiting(options, start)
		children := make([]format.Result, length)
		for i := range children {
			value, stop := Decode(baseType, &format.MemoryPointer{Start: dataStart + i*evm.WordSize, Length: evm.WordSize}, info, childOptions)
			if stop != nil {
				return nil, stop
			}
			children[i] = value
		}
		return &format.ArrayValue{Type: t, Value: children}, nil

	case *format.StructType:
		if reference := circularity(start, options.MemoryVisited); reference != 0 {
			return &format.StructValue{Type: t, Reference: reference}, nil
		}
		allocation, ok := info.MemoryAllocations()[t.ID]
		if !ok {
			return evm.HandleDecodingError(t, &format.UserDefinedTypeNotFoundError{Type: t}, strict)
		}
		childOptions := visiting(options, start)
		members := make([]format.NameValuePair, len(allocation.Members))
		for i, member := range allocation.Members {
			memberType := format.SpecifyLocation(member.Type, format.MemoryLocation)
			value, stop := Decode(memberType, &format.MemoryPointer{Start: start + member.Start, Length: member.Length}, info, childOptions)
			if stop != nil {
				return nil, stop
			}
			members[i] = format.NameValuePair{Name: member.Name, Value: value}
		}
		return &format.StructValue{Type: t, Value: members}, nil
	}
	return evm.HandleDecodingError(t, &format.UnsupportedTypeError{Type: t}, strict)
}

func readLength(t format.Type, start int, info *evm.DecoderInfo, strict bool) (int, format.Result, error) {
	raw, rerr := read.Read(&format.MemoryPointer{Start: start, Length: evm.WordSize}, info.State)
	if rerr != nil {
		failed, stop := evm.HandleDecodingError(t, rerr, strict)
		return 0, failed, stop
	}
	length, ok := evm.ToOffset(raw)
	if !ok || start > read.MaxOffset-evm.WordSize || length > read.MaxOffset-start-evm.WordSize {
		failed, stop := evm.HandleDecodingError(t, &format.OverlongArraysAndStringsNotImplementedError{LengthAsBN: evm.ToBig(raw)}, strict)
		return 0, failed, stop
	}
	return length, nil, nil
}

// circularity returns the 1-based position of address among the addresses
// being visited, or 0.
func circularity(address int, visited []int) int {
	for i, v := range visited {
		if v == address {
			return i + 1
		}
	}
	return 0
}

// visiting returns options for the children of the object at address.
func visiting(options evm.DecoderOptions, address int) evm.DecoderOptions {
	visited := make([]int, 0, len(options.MemoryVisited)+1)
	visited = append(visited, address)
	options.MemoryVisited = append(visited, options.MemoryVisited...)
	return options
}
