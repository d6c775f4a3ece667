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

// Package stack decodes values held on the EVM stack, either read through a
// stack pointer or already read into a stack literal.
package stack

import (
	"github.com/bnb-chain/bsc-codec/abidata"
	"github.com/bnb-chain/bsc-codec/allocate"
	"github.com/bnb-chain/bsc-codec/basic"
	"github.com/bnb-chain/bsc-codec/evm"
	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/memory"
	"github.com/bnb-chain/bsc-codec/read"
	"github.com/bnb-chain/bsc-codec/storage"
)

const (
	addressLength  = 20
	selectorLength = 4
)

// Decode reads the stack words at pointer and decodes them.
func Decode(t format.Type, pointer *format.StackPointer, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	raw, err := read.Read(pointer, info.State)
	if err != nil {
		return evm.HandleDecodingError(t, err, options.StrictAbiMode)
	}
	return DecodeLiteral(t, &format.StackLiteralPointer{Literal: raw}, info, options)
}

// DecodeLiteral decodes stack words that have already been read. References
// hold a memory address or a storage slot; dynamic calldata references hold
// a calldata location word followed by a length word. External functions
// take an address word followed by a selector word.
func DecodeLiteral(t format.Type, pointer *format.StackLiteralPointer, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	if format.IsReferenceType(t) {
		switch format.LocationOf(t) {
		case format.MemoryLocation:
			return memory.DecodeByAddress(t, pointer, info, options)
		case format.StorageLocation:
			return storage.DecodeByAddress(t, pointer, info, options)
		case format.CalldataLocation:
			return decodeCalldataReference(t, pointer, info, options)
		}
		return evm.HandleDecodingError(t, &format.UnsupportedTypeError{Type: t}, options.StrictAbiMode)
	}

	if _, ok := t.(*format.FunctionExternalType); ok {
		return decodeExternalFunction(t, pointer.Literal, info, options)
	}

	options.PaddingMode = evm.PaddingPermissive
	return basic.Decode(t, pointer, info, options)
}

func decodeCalldataReference(t format.Type, pointer *format.StackLiteralPointer, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	options.AbiPointerBase = 0
	options.LengthOverride = nil
	if !allocate.IsDynamic(t, info.AbiAllocations()) {
		return abidata.DecodeByAddress(t, pointer, info, options)
	}
	switch t.(type) {
	case *format.StringType, *format.BytesDynamicType, *format.ArrayDynamicType:
		if len(pointer.Literal) < 2*evm.WordSize {
			return evm.HandleDecodingError(t, &format.ReadErrorBytes{
				Location: format.StackLiteralPointerLocation,
				Length:   len(pointer.Literal),
			}, options.StrictAbiMode)
		}
		location := pointer.Literal[:evm.WordSize]
		options.LengthOverride = evm.ToBig(pointer.Literal[evm.WordSize : 2*evm.WordSize])
		return abidata.DecodeByAddress(t, &format.StackLiteralPointer{Literal: location}, info, options)
	}
	// dynamic structs and static arrays of dynamic elements are located by
	// one word and carry their own lengths
	return abidata.DecodeByAddress(t, pointer, info, options)
}

func decodeExternalFunction(t format.Type, literal []byte, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	if len(literal) < 2*evm.WordSize {
		return evm.HandleDecodingError(t, &format.ReadErrorBytes{
			Location: format.StackLiteralPointerLocation,
			Length:   len(literal),
		}, options.StrictAbiMode)
	}
	address, selector := literal[:evm.WordSize], literal[evm.WordSize:2*evm.WordSize]
	if !evm.IsZero(address[:evm.WordSize-addressLength]) || !evm.IsZero(selector[:evm.WordSize-selectorLength]) {
		return evm.HandleDecodingError(t, &format.FunctionExternalStackPaddingError{
			RawAddress:  address,
			RawSelector: selector,
		}, options.StrictAbiMode)
	}
	value := basic.DecodeExternalFunction(address[evm.WordSize-addressLength:], selector[evm.WordSize-selectorLength:], info)
	return &format.FunctionExternalValue{Type: t.(*format.FunctionExternalType), Value: value}, nil
}
