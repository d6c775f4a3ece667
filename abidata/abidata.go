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

// Package abidata decodes ABI-encoded data: calldata, event data and other
// ABI buffers, plus indexed event topics.
package abidata

import (
	"math/big"

	"github.com/bnb-chain/bsc-codec/allocate"
	"github.com/bnb-chain/bsc-codec/basic"
	"github.com/bnb-chain/bsc-codec/evm"
	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/log"
	"github.com/bnb-chain/bsc-codec/read"
)

var chaseFilter = &log.EveryN{N: 64}

// Decode decodes the value of type t at pointer, which designates the head of
// the value: the value itself for static types, the pointer word for dynamic
// ones.
func Decode(t format.Type, pointer format.Pointer, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	if !format.IsReferenceType(t) && t.TypeClass() != format.TupleClass {
		return basic.Decode(t, pointer, info, options)
	}
	if _, ok := t.(*format.MappingType); ok {
		return evm.HandleDecodingError(t, &format.UnsupportedTypeError{Type: t}, options.StrictAbiMode)
	}
	size, err := allocate.AbiSize(t, info.AbiAllocations())
	if err != nil {
		return evm.HandleDecodingError(t, err, options.StrictAbiMode)
	}
	if size.Dynamic {
		return DecodeByAddress(t, pointer, info, options)
	}
	return decodeStatic(t, pointer, info, options)
}

// DecodeByAddress decodes a dynamic value whose pointer word is at pointer.
// The pointer word is relative to options.AbiPointerBase. A stack literal
// pointer holds the pointer word itself and refers to calldata; its length
// comes from options.LengthOverride.
func DecodeByAddress(t format.Type, pointer format.Pointer, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	strict := options.StrictAbiMode
	location := pointer.Location()
	if location == format.StackLiteralPointerLocation || location == format.StackPointerLocation {
		location = format.CalldataPointerLocation
	}

	raw, rerr := read.Read(pointer, info.State)
	if rerr != nil {
		return evm.HandleDecodingError(t, rerr, strict)
	}
	offset, ok := evm.ToOffset(raw)
	if !ok || offset > read.MaxOffset-options.AbiPointerBase {
		return evm.HandleDecodingError(t, &format.OverlargePointersNotImplementedError{PointerAsBN: evm.ToBig(raw)}, strict)
	}
	start := offset + options.AbiPointerBase
	if strict {
		if size, known := dataSize(info, location); known && start+evm.WordSize > size && options.LengthOverride == nil {
			return nil, &evm.StopDecodingError{Err: &format.OverlargePointersNotImplementedError{PointerAsBN: big.NewInt(int64(start))}, AllowRetry: true}
		}
	}
	log.TraceBy(info.Log(), chaseFilter, "Chasing ABI pointer", "type", t, "location", location, "start", start)

	switch t := t.(type) {
	case *format.StringType, *format.BytesDynamicType:
		length, dataStart, failed, stop := readLength(t, location, start, info, options)
		if failed != nil || stop != nil {
			return failed, stop
		}
		if failed, stop := checkLength(t, location, dataStart, length, 1, info, options); failed != nil || stop != nil {
			return failed, stop
		}
		childOptions := options
		childOptions.LengthOverride = nil
		return basic.Decode(t, format.BytesPointer(location, dataStart, length), info, childOptions)

	case *format.ArrayDynamicType:
		length, dataStart, failed, stop := readLength(t, location, start, info, options)
		if failed != nil || stop != nil {
			return failed, stop
		}
		base, err := allocate.AbiSize(t.BaseType, info.AbiAllocations())
		if err != nil {
			return evm.HandleDecodingError(t, err, strict)
		}
		if failed, stop := checkLength(t, location, dataStart, length, base.Size, info, options); failed != nil || stop != nil {
			return failed, stop
		}
		childOptions := options
		childOptions.LengthOverride = nil
		return decodeArray(t, t.BaseType, length, base.Size, location, dataStart, info, childOptions)
	}

	// static arrays, structs and tuples that contain dynamic members are
	// encoded in place at the target of the pointer
	childOptions := options
	childOptions.LengthOverride = nil
	return decodeStatic(t, format.BytesPointer(location, start, 0), info, childOptions)
}

// readLength reads the length word at start, or takes the length from the
// options when it was supplied separately. It returns the length and the
// start of the data after the length word. When the length cannot be
// obtained, failed holds the error result, or stop is set in strict mode.
func readLength(t format.Type, location format.PointerLocation, start int, info *evm.DecoderInfo, options evm.DecoderOptions) (length, dataStart int, failed format.Result, stop error) {
	if options.LengthOverride != nil {
		if !options.LengthOverride.IsInt64() || options.LengthOverride.Int64() > read.MaxOffset {
			failed, stop = evm.HandleDecodingError(t, &format.OverlongArraysAndStringsNotImplementedError{LengthAsBN: options.LengthOverride}, options.StrictAbiMode)
			return 0, 0, failed, stop
		}
		return int(options.LengthOverride.Int64()), start, nil, nil
	}
	raw, rerr := read.Read(format.BytesPointer(location, start, evm.WordSize), info.State)
	if rerr != nil {
		failed, stop = evm.HandleDecodingError(t, rerr, options.StrictAbiMode)
		return 0, 0, failed, stop
	}
	length, ok := evm.ToOffset(raw)
	if !ok || length > read.MaxOffset-start-evm.WordSize {
		failed, stop = evm.HandleDecodingError(t, &format.OverlongArraysAndStringsNotImplementedError{LengthAsBN: evm.ToBig(raw)}, options.StrictAbiMode)
		return 0, 0, failed, stop
	}
	return length, start + evm.WordSize, nil, nil
}

// checkLength fails when length items of itemSize bytes from start run past
// the data. Strict decoding stops in a way that allows a retry with another
// layout.
func checkLength(t format.Type, location format.PointerLocation, start, length, itemSize int, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	overlong := info.CheckLength(location, start, length, itemSize)
	if overlong == nil {
		return nil, nil
	}
	if options.StrictAbiMode {
		return nil, &evm.StopDecodingError{Err: overlong, AllowRetry: true}
	}
	return format.NewError(t, overlong), nil
}

// decodeStatic decodes a value laid out in place at the start of pointer.
func decodeStatic(t format.Type, pointer format.Pointer, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	location, start := pointer.Location(), startOf(pointer)
	switch t := t.(type) {
	case *format.ArrayStaticType:
		if !t.Length.IsInt64() || t.Length.Int64() > read.MaxOffset {
			return evm.HandleDecodingError(t, &format.OverlongArraysAndStringsNotImplementedError{LengthAsBN: t.Length}, options.StrictAbiMode)
		}
		base, err := allocate.AbiSize(t.BaseType, info.AbiAllocations())
		if err != nil {
			return evm.HandleDecodingError(t, err, options.StrictAbiMode)
		}
		length := int(t.Length.Int64())
		if failed, stop := checkLength(t, location, start, length, base.Size, info, options); failed != nil || stop != nil {
			return failed, stop
		}
		return decodeArray(t, t.BaseType, length, base.Size, location, start, info, options)

	case *format.StructType:
		return decodeStruct(t, location, start, info, options)

	case *format.TupleType:
		members := make([]format.NameValuePair, 0, len(t.MemberTypes))
		position := start
		for _, member := range t.MemberTypes {
			size, err := allocate.AbiSize(member.Type, info.AbiAllocations())
			if err != nil {
				return evm.HandleDecodingError(t, err, options.StrictAbiMode)
			}
			childOptions := options
			childOptions.AbiPointerBase = start
			value, stop := Decode(member.Type, format.BytesPointer(location, position, size.Size), info, childOptions)
			if stop != nil {
				return nil, stop
			}
			members = append(members, format.NameValuePair{Name: member.Name, Value: value})
			position += size.Size
		}
		return &format.TupleValue{Type: t, Value: members}, nil
	}
	return evm.HandleDecodingError(t, &format.UnsupportedTypeError{Type: t}, options.StrictAbiMode)
}

func decodeArray(t, baseType format.Type, length, baseSize int, location format.PointerLocation, start int, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	baseType = format.SpecifyLocation(baseType, dataLocation(location))
	children := make([]format.Result, length)
	childOptions := options
	childOptions.AbiPointerBase = start
	for i := range children {
		value, stop := Decode(baseType, format.BytesPointer(location, start+i*baseSize, baseSize), info, childOptions)
		if stop != nil {
			return nil, stop
		}
		children[i] = value
	}
	return &format.ArrayValue{Type: t, Value: children}, nil
}

func decodeStruct(t *format.StructType, location format.PointerLocation, start int, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	allocation, ok := info.AbiAllocations()[t.ID]
	if !ok {
		return evm.HandleDecodingError(t, &format.UserDefinedTypeNotFoundError{Type: t}, options.StrictAbiMode)
	}
	members := make([]format.NameValuePair, 0, len(allocation.Members))
	childOptions := options
	childOptions.AbiPointerBase = start
	for _, member := range allocation.Members {
		memberType := format.SpecifyLocation(member.Type, dataLocation(location))
		value, stop := Decode(memberType, format.BytesPointer(location, start+member.Start, member.Length), info, childOptions)
		if stop != nil {
			return nil, stop
		}
		members = append(members, format.NameValuePair{Name: member.Name, Value: value})
	}
	return &format.StructValue{Type: t, Value: members}, nil
}

// dataLocation is the Solidity data location of values read from an ABI
// buffer at location.
func dataLocation(location format.PointerLocation) format.Location {
	if location == format.CalldataPointerLocation {
		return format.CalldataLocation
	}
	return format.MemoryLocation
}

func startOf(pointer format.Pointer) int {
	switch p := pointer.(type) {
	case *format.CalldataPointer:
		return p.Start
	case *format.EventDataPointer:
		return p.Start
	case *format.MemoryPointer:
		return p.Start
	case *format.CodePointer:
		return p.Start
	}
	return 0
}

func dataSize(info *evm.DecoderInfo, location format.PointerLocation) (int, bool) {
	sizer, ok := info.Sizer()
	if !ok {
		return 0, false
	}
	return sizer.Size(location)
}
