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

// Package basic decodes values that are not containers from their raw bytes,
// enforcing the padding and range rules of each type.
package basic

import (
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bnb-chain/bsc-codec/allocate"
	"github.com/bnb-chain/bsc-codec/evm"
	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/read"
)

const (
	addressLength          = common.AddressLength
	selectorLength         = 4
	externalFunctionLength = addressLength + selectorLength
	programCounterLength   = 4
	internalFunctionLength = 2 * programCounterLength
)

// Decode reads the bytes at pointer and decodes them as a value of type t.
// Representable errors are embedded in the result; the returned error is
// non-nil only when strict mode stops decoding.
func Decode(t format.Type, pointer format.Pointer, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	bytes, err := read.Read(pointer, info.State)
	if err != nil {
		info.Log().Trace("Read failed", "type", t, "location", pointer.Location(), "err", err)
		return evm.HandleDecodingError(t, err, options.StrictAbiMode)
	}
	return DecodeBytes(t, bytes, info, options)
}

// DecodeBytes decodes bytes that have already been read.
func DecodeBytes(t format.Type, bytes []byte, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	strict := options.StrictAbiMode
	permissive := options.PaddingMode == evm.PaddingPermissive

	switch t := t.(type) {
	case *format.BoolType:
		bytes = padLeft(bytes, 1)
		if !checkPaddingLeft(bytes, 1) {
			return evm.HandleDecodingError(t, &format.BoolPaddingError{Raw: bytes}, strict)
		}
		numeric := evm.ToBig(bytes)
		switch {
		case numeric.Sign() == 0:
			return &format.BoolValue{Type: t, Value: false}, nil
		case numeric.IsInt64() && numeric.Int64() == 1:
			return &format.BoolValue{Type: t, Value: true}, nil
		}
		return evm.HandleDecodingError(t, &format.BoolOutOfRangeError{RawAsBN: numeric}, strict)

	case *format.UintType:
		size := t.Bits / 8
		bytes = padLeft(bytes, size)
		if !permissive && !checkPaddingLeft(bytes, size) {
			return evm.HandleDecodingError(t, &format.UintPaddingError{Raw: bytes}, strict)
		}
		return &format.UintValue{
			Type:  t,
			Value: evm.ToBig(removePadding(bytes, size)),
			Raw:   evm.ToBig(bytes),
		}, nil

	case *format.IntType:
		size := t.Bits / 8
		bytes = padLeft(bytes, size)
		if !permissive && !checkPaddingSigned(bytes, size) {
			return evm.HandleDecodingError(t, &format.IntPaddingError{Raw: bytes}, strict)
		}
		return &format.IntValue{
			Type:  t,
			Value: evm.ToSignedBig(removePadding(bytes, size)),
			Raw:   evm.ToSignedBig(bytes),
		}, nil

	case *format.AddressType:
		bytes = padLeft(bytes, addressLength)
		if !checkPaddingLeft(bytes, addressLength) {
			return evm.HandleDecodingError(t, &format.AddressPaddingError{Raw: bytes}, strict)
		}
		return &format.AddressValue{
			Type:  t,
			Value: common.BytesToAddress(removePadding(bytes, addressLength)),
			Raw:   bytes,
		}, nil

	case *format.ContractType:
		bytes = padLeft(bytes, addressLength)
		if !checkPaddingLeft(bytes, addressLength) {
			return evm.HandleDecodingError(t, &format.ContractPaddingError{Raw: bytes}, strict)
		}
		contract, _ := DecodeContract(bytes, info)
		return &format.ContractValue{Type: t, Value: contract}, nil

	case *format.BytesStaticType:
		bytes = padRight(bytes, t.Length)
		if !permissive && !checkPaddingRight(bytes, t.Length) {
			return evm.HandleDecodingError(t, &format.BytesPaddingError{Raw: bytes}, strict)
		}
		return &format.BytesStaticValue{
			Type:  t,
			Value: common.CopyBytes(bytes[:t.Length]),
			Raw:   bytes,
		}, nil

	case *format.BytesDynamicType:
		return &format.BytesDynamicValue{Type: t, Value: bytes}, nil

	case *format.StringType:
		if utf8.Valid(bytes) {
			return &format.StringValue{Type: t, Value: string(bytes)}, nil
		}
		return &format.StringValue{Type: t, Malformed: true, Raw: bytes}, nil

	case *format.FunctionExternalType:
		bytes = padRight(bytes, externalFunctionLength)
		if !checkPaddingRight(bytes, externalFunctionLength) {
			return evm.HandleDecodingError(t, &format.FunctionExternalNonStackPaddingError{Raw: bytes}, strict)
		}
		value := DecodeExternalFunction(bytes[:addressLength], bytes[addressLength:externalFunctionLength], info)
		return &format.FunctionExternalValue{Type: t, Value: value}, nil

	case *format.FunctionInternalType:
		bytes = padLeft(bytes, internalFunctionLength)
		if !checkPaddingLeft(bytes, internalFunctionLength) {
			return evm.HandleDecodingError(t, &format.FunctionInternalPaddingError{Raw: bytes}, strict)
		}
		deployed := removePadding(bytes, programCounterLength)
		constructor := removePadding(bytes[:len(bytes)-programCounterLength], programCounterLength)
		return decodeInternalFunction(t, evm.ToBig(deployed).Uint64(), evm.ToBig(constructor).Uint64(), info, strict)

	case *format.EnumType:
		return decodeEnum(t, bytes, info, strict)

	case *format.FixedType, *format.UfixedType:
		return evm.HandleDecodingError(t, &format.FixedPointNotYetSupportedError{Raw: bytes}, strict)
	}
	return evm.HandleDecodingError(t, &format.UnsupportedTypeError{Type: t}, strict)
}

func decodeEnum(t *format.EnumType, bytes []byte, info *evm.DecoderInfo, strict bool) (format.Result, error) {
	full, ok := format.FullType(t, info.UserDefinedTypes)
	if !ok {
		return evm.HandleDecodingError(t, &format.EnumNotFoundDecodingError{Type: t, RawAsBN: evm.ToBig(bytes)}, strict)
	}
	enum := full.(*format.EnumType)
	// a single-option enum carries no bits: every byte is padding, even the
	// one it occupies in storage
	width := 0
	if len(enum.Options) > 1 {
		width = allocate.EnumByteWidth(len(enum.Options))
	}
	bytes = padLeft(bytes, width)
	if !checkPaddingLeft(bytes, width) {
		return evm.HandleDecodingError(t, &format.EnumPaddingError{Type: enum, Raw: bytes}, strict)
	}
	numeric := evm.ToBig(bytes)
	if numeric.IsInt64() && numeric.Int64() < int64(len(enum.Options)) {
		return &format.EnumValue{Type: enum, Name: enum.Options[numeric.Int64()], Numeric: numeric}, nil
	}
	return evm.HandleDecodingError(t, &format.EnumOutOfRangeError{Type: enum, RawAsBN: numeric}, strict)
}

// DecodeContract resolves the contract at the address held in the last 20
// bytes of addressBytes. It returns the matching context, or nil when the
// code is unknown.
func DecodeContract(addressBytes []byte, info *evm.DecoderInfo) (format.ContractValueInfo, *evm.Context) {
	raw := common.CopyBytes(addressBytes)
	address := common.BytesToAddress(removePadding(padLeft(addressBytes, addressLength), addressLength))
	code, err := info.State.CodeAt(address)
	if err != nil {
		info.Log().Debug("Failed to fetch contract code", "address", address, "err", err)
		return format.ContractValueInfo{Kind: format.ContractUnknown, Address: address, RawAddress: raw}, nil
	}
	ctx := info.Contexts.MatchDeployed(code)
	if ctx == nil {
		return format.ContractValueInfo{Kind: format.ContractUnknown, Address: address, RawAddress: raw}, nil
	}
	return format.ContractValueInfo{
		Kind:       format.ContractKnown,
		Address:    address,
		RawAddress: raw,
		Class:      ctx.Class(),
	}, ctx
}

// DecodeExternalFunction resolves an external function pointer: known when
// the contract and the selector are recognized, invalid when only the
// contract is, unknown otherwise.
func DecodeExternalFunction(addressBytes, selectorBytes []byte, info *evm.DecoderInfo) format.FunctionExternalValueInfo {
	contract, ctx := DecodeContract(addressBytes, info)
	var selector [selectorLength]byte
	copy(selector[:], removePadding(padLeft(selectorBytes, selectorLength), selectorLength))

	if ctx == nil {
		return format.FunctionExternalValueInfo{Kind: format.FunctionExternalUnknown, Contract: contract, Selector: selector}
	}
	if ctx.Abi != nil {
		if method, err := ctx.Abi.MethodById(selector[:]); err == nil {
			return format.FunctionExternalValueInfo{
				Kind:     format.FunctionExternalKnown,
				Contract: contract,
				Selector: selector,
				Abi: &format.FunctionAbi{
					Name:            method.RawName,
					Signature:       method.Sig,
					StateMutability: method.StateMutability,
				},
			}
		}
	}
	return format.FunctionExternalValueInfo{Kind: format.FunctionExternalInvalid, Contract: contract, Selector: selector}
}

func decodeInternalFunction(t *format.FunctionInternalType, deployedPc, constructorPc uint64, info *evm.DecoderInfo, strict bool) (format.Result, error) {
	var context *format.ContractType
	if info.CurrentContext != nil {
		context = info.CurrentContext.Class()
	}
	value := format.FunctionInternalValueInfo{
		Context:                   context,
		DeployedProgramCounter:    deployedPc,
		ConstructorProgramCounter: constructorPc,
	}
	if info.InternalFunctionsTable == nil {
		value.Kind = format.FunctionInternalUnknown
		return &format.FunctionInternalValue{Type: t, Value: value}, nil
	}
	if deployedPc == 0 && constructorPc == 0 {
		value.Kind = format.FunctionInternalException
		return &format.FunctionInternalValue{Type: t, Value: value}, nil
	}
	if deployedPc == 0 {
		return evm.HandleDecodingError(t, &format.MalformedInternalFunctionError{
			Context:                   context,
			DeployedProgramCounter:    deployedPc,
			ConstructorProgramCounter: constructorPc,
		}, strict)
	}
	pc := deployedPc
	if info.InConstructor() {
		if constructorPc == 0 {
			return evm.HandleDecodingError(t, &format.DeployedFunctionInConstructorError{
				Context:                   context,
				DeployedProgramCounter:    deployedPc,
				ConstructorProgramCounter: constructorPc,
			}, strict)
		}
		pc = constructorPc
	}
	fn, ok := info.InternalFunctionsTable[pc]
	if !ok {
		return evm.HandleDecodingError(t, &format.NoSuchInternalFunctionError{
			Context:                   context,
			DeployedProgramCounter:    deployedPc,
			ConstructorProgramCounter: constructorPc,
		}, strict)
	}
	if fn.IsDesignatedInvalid {
		value.Kind = format.FunctionInternalException
		return &format.FunctionInternalValue{Type: t, Value: value}, nil
	}
	value.Kind = format.FunctionInternalFunction
	value.Name = fn.Name
	value.ID = fn.ID
	value.DefinedIn = fn.DefinedIn
	value.Mutability = fn.Mutability
	return &format.FunctionInternalValue{Type: t, Value: value}, nil
}
