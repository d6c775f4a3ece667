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

package format

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DecoderError is a representable decoding failure. Decoders never return
// these as Go errors; they are embedded in the result tree as *ErrorResult at
// the place where the failing value would have gone.
type DecoderError interface {
	error
	// ErrorKind returns the stable name of the error, used as its tag when
	// serialized.
	ErrorKind() string
}

// Padding errors. Raw holds the bytes that failed the check.

type UintPaddingError struct {
	Raw []byte
}

type IntPaddingError struct {
	Raw []byte
}

type BoolPaddingError struct {
	Raw []byte
}

type BytesPaddingError struct {
	Raw []byte
}

type AddressPaddingError struct {
	Raw []byte
}

type ContractPaddingError struct {
	Raw []byte
}

type EnumPaddingError struct {
	Type *EnumType
	Raw  []byte
}

// FunctionExternalNonStackPaddingError is a padding failure of an external
// function stored inline as address++selector in one word.
type FunctionExternalNonStackPaddingError struct {
	Raw []byte
}

// FunctionExternalStackPaddingError is a padding failure of an external
// function held on the stack as separate address and selector words.
type FunctionExternalStackPaddingError struct {
	RawAddress  []byte
	RawSelector []byte
}

type FunctionInternalPaddingError struct {
	Raw []byte
}

// Range errors.

type BoolOutOfRangeError struct {
	RawAsBN *big.Int
}

type EnumOutOfRangeError struct {
	Type    *EnumType
	RawAsBN *big.Int
}

// Lookup errors.

// UserDefinedTypeNotFoundError reports a struct, enum or allocation that is
// missing from the registry or from the allocation tables.
type UserDefinedTypeNotFoundError struct {
	Type Type
}

// EnumNotFoundDecodingError reports an enum whose definition is unknown, so
// only its numeric value could be read.
type EnumNotFoundDecodingError struct {
	Type    *EnumType
	RawAsBN *big.Int
}

type NoSuchInternalFunctionError struct {
	Context                   *ContractType
	DeployedProgramCounter    uint64
	ConstructorProgramCounter uint64
}

type DeployedFunctionInConstructorError struct {
	Context                   *ContractType
	DeployedProgramCounter    uint64
	ConstructorProgramCounter uint64
}

type MalformedInternalFunctionError struct {
	Context                   *ContractType
	DeployedProgramCounter    uint64
	ConstructorProgramCounter uint64
}

// CodeNotSuppliedError reports that the code holding an immutable was not
// available to the reader.
type CodeNotSuppliedError struct {
	Address common.Address
}

// Read errors.

type ReadErrorStack struct {
	From, To int
}

type ReadErrorBytes struct {
	Location PointerLocation
	Start    int
	Length   int
}

type ReadErrorStorage struct {
	Range Range
}

type ReadErrorTopic struct {
	Topic int
}

type ReadErrorSpecial struct {
	Special string
}

// Unimplemented and unsupported features.

// OverlongArraysAndStringsNotImplementedError reports a length that does not
// fit the reader's address arithmetic.
type OverlongArraysAndStringsNotImplementedError struct {
	LengthAsBN *big.Int
	// DataLength is the length of the underlying data, when known. Strict
	// decoding reports lengths that exceed the available data this way too.
	DataLength *big.Int
}

// OverlargePointersNotImplementedError reports a pointer that does not fit
// the reader's address arithmetic.
type OverlargePointersNotImplementedError struct {
	PointerAsBN *big.Int
}

type FixedPointNotYetSupportedError struct {
	Raw []byte
}

type UnsupportedConstantError struct {
	Definition *ConstantDefinition
}

type IndexedReferenceTypeError struct {
	Type Type
	Raw  []byte
}

type InternalFunctionInABIError struct{}

// UnsupportedTypeError reports a type that cannot appear at the location it
// was found, such as a mapping in calldata.
type UnsupportedTypeError struct {
	Type Type
}

func (e *UintPaddingError) Error() string {
	return "uint padding error: " + hexutil.Encode(e.Raw)
}

func (e *IntPaddingError) Error() string {
	return "int padding error: " + hexutil.Encode(e.Raw)
}

func (e *BoolPaddingError) Error() string {
	return "bool padding error: " + hexutil.Encode(e.Raw)
}

func (e *BytesPaddingError) Error() string {
	return "bytes padding error: " + hexutil.Encode(e.Raw)
}

func (e *AddressPaddingError) Error() string {
	return "address padding error: " + hexutil.Encode(e.Raw)
}

func (e *ContractPaddingError) Error() string {
	return "contract padding error: " + hexutil.Encode(e.Raw)
}

func (e *EnumPaddingError) Error() string {
	return fmt.Sprintf("%s padding error: %s", e.Type, hexutil.Encode(e.Raw))
}

func (e *FunctionExternalNonStackPaddingError) Error() string {
	return "external function padding error: " + hexutil.Encode(e.Raw)
}

func (e *FunctionExternalStackPaddingError) Error() string {
	return fmt.Sprintf("external function padding error: address %s selector %s",
		hexutil.Encode(e.RawAddress), hexutil.Encode(e.RawSelector))
}

func (e *FunctionInternalPaddingError) Error() string {
	return "internal function padding error: " + hexutil.Encode(e.Raw)
}

func (e *BoolOutOfRangeError) Error() string {
	return fmt.Sprintf("bool out of range: %v", e.RawAsBN)
}

func (e *EnumOutOfRangeError) Error() string {
	return fmt.Sprintf("%s out of range: %v", e.Type, e.RawAsBN)
}

func (e *UserDefinedTypeNotFoundError) Error() string {
	return fmt.Sprintf("user-defined type not found: %s", e.Type)
}

func (e *EnumNotFoundDecodingError) Error() string {
	return fmt.Sprintf("definition of %s not found, raw value %v", e.Type, e.RawAsBN)
}

func (e *NoSuchInternalFunctionError) Error() string {
	return fmt.Sprintf("no internal function at deployed pc %d, constructor pc %d",
		e.DeployedProgramCounter, e.ConstructorProgramCounter)
}

func (e *DeployedFunctionInConstructorError) Error() string {
	return fmt.Sprintf("deployed internal function pc %d used in constructor", e.DeployedProgramCounter)
}

func (e *MalformedInternalFunctionError) Error() string {
	return fmt.Sprintf("malformed internal function: deployed pc %d, constructor pc %d",
		e.DeployedProgramCounter, e.ConstructorProgramCounter)
}

func (e *CodeNotSuppliedError) Error() string {
	return "code not supplied for " + e.Address.Hex()
}

func (e *ReadErrorStack) Error() string {
	return fmt.Sprintf("cannot read stack words %d..%d", e.From, e.To)
}

func (e *ReadErrorBytes) Error() string {
	return fmt.Sprintf("cannot read %d bytes of %s at %d", e.Length, e.Location, e.Start)
}

func (e *ReadErrorStorage) Error() string {
	return "cannot read storage range"
}

func (e *ReadErrorTopic) Error() string {
	return fmt.Sprintf("cannot read topic %d", e.Topic)
}

func (e *ReadErrorSpecial) Error() string {
	return fmt.Sprintf("cannot read special %q", e.Special)
}

func (e *OverlongArraysAndStringsNotImplementedError) Error() string {
	if e.DataLength != nil {
		return fmt.Sprintf("length %v exceeds data length %v", e.LengthAsBN, e.DataLength)
	}
	return fmt.Sprintf("length %v is too large", e.LengthAsBN)
}

func (e *OverlargePointersNotImplementedError) Error() string {
	return fmt.Sprintf("pointer %v is too large", e.PointerAsBN)
}

func (e *FixedPointNotYetSupportedError) Error() string {
	return "fixed point decoding not supported: " + hexutil.Encode(e.Raw)
}

func (e *UnsupportedConstantError) Error() string {
	return fmt.Sprintf("unsupported constant definition %q", e.Definition.String())
}

func (e *IndexedReferenceTypeError) Error() string {
	return fmt.Sprintf("indexed %s cannot be decoded, topic %s", e.Type, hexutil.Encode(e.Raw))
}

func (e *InternalFunctionInABIError) Error() string {
	return "internal function in ABI"
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %s", e.Type)
}

func (*UintPaddingError) ErrorKind() string                     { return "UintPaddingError" }
func (*IntPaddingError) ErrorKind() string                      { return "IntPaddingError" }
func (*BoolPaddingError) ErrorKind() string                     { return "BoolPaddingError" }
func (*BytesPaddingError) ErrorKind() string                    { return "BytesPaddingError" }
func (*AddressPaddingError) ErrorKind() string                  { return "AddressPaddingError" }
func (*ContractPaddingError) ErrorKind() string                 { return "ContractPaddingError" }
func (*EnumPaddingError) ErrorKind() string                     { return "EnumPaddingError" }
func (*FunctionExternalNonStackPaddingError) ErrorKind() string { return "FunctionExternalNonStackPaddingError" }
func (*FunctionExternalStackPaddingError) ErrorKind() string    { return "FunctionExternalStackPaddingError" }
func (*FunctionInternalPaddingError) ErrorKind() string         { return "FunctionInternalPaddingError" }
func (*BoolOutOfRangeError) ErrorKind() string                  { return "BoolOutOfRangeError" }
func (*EnumOutOfRangeError) ErrorKind() string                  { return "EnumOutOfRangeError" }
func (*UserDefinedTypeNotFoundError) ErrorKind() string         { return "UserDefinedTypeNotFoundError" }
func (*EnumNotFoundDecodingError) ErrorKind() string            { return "EnumNotFoundDecodingError" }
func (*NoSuchInternalFunctionError) ErrorKind() string          { return "NoSuchInternalFunctionError" }
func (*DeployedFunctionInConstructorError) ErrorKind() string   { return "DeployedFunctionInConstructorError" }
func (*MalformedInternalFunctionError) ErrorKind() string       { return "MalformedInternalFunctionError" }
func (*CodeNotSuppliedError) ErrorKind() string                 { return "CodeNotSuppliedError" }
func (*ReadErrorStack) ErrorKind() string                       { return "ReadErrorStack" }
func (*ReadErrorBytes) ErrorKind() string                       { return "ReadErrorBytes" }
func (*ReadErrorStorage) ErrorKind() string                     { return "ReadErrorStorage" }
func (*ReadErrorTopic) ErrorKind() string                       { return "ReadErrorTopic" }
func (*ReadErrorSpecial) ErrorKind() string                     { return "ReadErrorSpecial" }
func (*OverlongArraysAndStringsNotImplementedError) ErrorKind() string {
	return "OverlongArraysAndStringsNotImplementedError"
}
func (*OverlargePointersNotImplementedError) ErrorKind() string {
	return "OverlargePointersNotImplementedError"
}
func (*FixedPointNotYetSupportedError) ErrorKind() string { return "FixedPointNotYetSupportedError" }
func (*UnsupportedConstantError) ErrorKind() string       { return "UnsupportedConstantError" }
func (*IndexedReferenceTypeError) ErrorKind() string      { return "IndexedReferenceTypeError" }
func (*InternalFunctionInABIError) ErrorKind() string     { return "InternalFunctionInABIError" }
func (*UnsupportedTypeError) ErrorKind() string           { return "UnsupportedTypeError" }

// IsReadError reports whether err is one of the ReadError* kinds.
func IsReadError(err DecoderError) bool {
	switch err.(type) {
	case *ReadErrorStack, *ReadErrorBytes, *ReadErrorStorage, *ReadErrorTopic, *ReadErrorSpecial:
		return true
	}
	return false
}
