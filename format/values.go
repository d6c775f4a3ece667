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
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Result is the outcome of decoding one value: either a proper value of its
// type or an *ErrorResult. Container values may hold error results for some
// of their elements while the container itself decoded fine.
type Result interface {
	// ResultType returns the type the value was decoded as.
	ResultType() Type
	IsError() bool
}

// ErrorResult is a value that could not be decoded.
type ErrorResult struct {
	Type  Type
	Error DecoderError
}

type UintValue struct {
	Type  *UintType
	Value *big.Int
	Raw   *big.Int // full word before padding removal
}

type IntValue struct {
	Type  *IntType
	Value *big.Int
	Raw   *big.Int
}

type BoolValue struct {
	Type  *BoolType
	Value bool
}

type BytesStaticValue struct {
	Type  *BytesStaticType
	Value []byte
	Raw   []byte
}

type BytesDynamicValue struct {
	Type  *BytesDynamicType
	Value []byte
}

type AddressValue struct {
	Type  *AddressType
	Value common.Address
	Raw   []byte
}

// StringValue holds a decoded string. Strings that are not valid UTF-8 are
// reported as malformed and keep their raw bytes.
type StringValue struct {
	Type      *StringType
	Value     string
	Malformed bool
	Raw       []byte // set when Malformed
}

type EnumValue struct {
	Type    *EnumType
	Name    string
	Numeric *big.Int
}

// ContractInfoKind tells whether the code at an address matched a known
// contract context.
type ContractInfoKind int

const (
	ContractKnown ContractInfoKind = iota
	ContractUnknown
)

func (k ContractInfoKind) String() string {
	if k == ContractKnown {
		return "known"
	}
	return "unknown"
}

type ContractValueInfo struct {
	Kind       ContractInfoKind
	Address    common.Address
	RawAddress []byte
	Class      *ContractType // nil when unknown
}

type ContractValue struct {
	Type  *ContractType
	Value ContractValueInfo
}

// FunctionAbi identifies a function of a known contract interface.
type FunctionAbi struct {
	Name            string
	Signature       string // canonical signature, e.g. transfer(address,uint256)
	StateMutability string
}

type FunctionExternalKind int

const (
	FunctionExternalKnown FunctionExternalKind = iota
	FunctionExternalInvalid
	FunctionExternalUnknown
)

func (k FunctionExternalKind) String() string {
	switch k {
	case FunctionExternalKnown:
		return "known"
	case FunctionExternalInvalid:
		return "invalid"
	}
	return "unknown"
}

// FunctionExternalValueInfo is an external function pointer. Known: the
// contract and the selector were both recognized. Invalid: the contract was
// recognized but has no such selector. Unknown: the contract was not
// recognized.
type FunctionExternalValueInfo struct {
	Kind     FunctionExternalKind
	Contract ContractValueInfo
	Selector [4]byte
	Abi      *FunctionAbi // set when Known
}

type FunctionExternalValue struct {
	Type  *FunctionExternalType
	Value FunctionExternalValueInfo
}

type FunctionInternalKind int

const (
	FunctionInternalFunction FunctionInternalKind = iota
	FunctionInternalException
	FunctionInternalUnknown
)

func (k FunctionInternalKind) String() string {
	switch k {
	case FunctionInternalFunction:
		return "function"
	case FunctionInternalException:
		return "exception"
	}
	return "unknown"
}

type FunctionInternalValueInfo struct {
	Kind                      FunctionInternalKind
	Context                   *ContractType
	DeployedProgramCounter    uint64
	ConstructorProgramCounter uint64
	Name                      string        // set for FunctionInternalFunction
	ID                        string        // set for FunctionInternalFunction
	DefinedIn                 *ContractType // set for FunctionInternalFunction
	Mutability                string        // set for FunctionInternalFunction
}

type FunctionInternalValue struct {
	Type  *FunctionInternalType
	Value FunctionInternalValueInfo
}

// ArrayValue is a static or dynamic array. A non-zero Reference marks a
// circular reference to the Reference-th enclosing array or struct, counting
// from 1 for the innermost.
type ArrayValue struct {
	Type      Type // *ArrayStaticType or *ArrayDynamicType
	Value     []Result
	Reference int
}

type NameValuePair struct {
	Name  string
	Value Result
}

type StructValue struct {
	Type      *StructType
	Value     []NameValuePair
	Reference int
}

type KeyValuePair struct {
	Key   Result
	Value Result
}

type MappingValue struct {
	Type  *MappingType
	Value []KeyValuePair
}

type TupleValue struct {
	Type  *TupleType
	Value []NameValuePair
}

type MagicValue struct {
	Type  *MagicType
	Value map[string]Result
}

func (v *ErrorResult) ResultType() Type           { return v.Type }
func (v *UintValue) ResultType() Type             { return v.Type }
func (v *IntValue) ResultType() Type              { return v.Type }
func (v *BoolValue) ResultType() Type             { return v.Type }
func (v *BytesStaticValue) ResultType() Type      { return v.Type }
func (v *BytesDynamicValue) ResultType() Type     { return v.Type }
func (v *AddressValue) ResultType() Type          { return v.Type }
func (v *StringValue) ResultType() Type           { return v.Type }
func (v *EnumValue) ResultType() Type             { return v.Type }
func (v *ContractValue) ResultType() Type         { return v.Type }
func (v *FunctionExternalValue) ResultType() Type { return v.Type }
func (v *FunctionInternalValue) ResultType() Type { return v.Type }
func (v *ArrayValue) ResultType() Type            { return v.Type }
func (v *StructValue) ResultType() Type           { return v.Type }
func (v *MappingValue) ResultType() Type          { return v.Type }
func (v *TupleValue) ResultType() Type            { return v.Type }
func (v *MagicValue) ResultType() Type            { return v.Type }

func (*ErrorResult) IsError() bool           { return true }
func (*UintValue) IsError() bool             { return false }
func (*IntValue) IsError() bool              { return false }
func (*BoolValue) IsError() bool             { return false }
func (*BytesStaticValue) IsError() bool      { return false }
func (*BytesDynamicValue) IsError() bool     { return false }
func (*AddressValue) IsError() bool          { return false }
func (*StringValue) IsError() bool           { return false }
func (*EnumValue) IsError() bool             { return false }
func (*ContractValue) IsError() bool         { return false }
func (*FunctionExternalValue) IsError() bool { return false }
func (*FunctionInternalValue) IsError() bool { return false }
func (*ArrayValue) IsError() bool            { return false }
func (*StructValue) IsError() bool           { return false }
func (*MappingValue) IsError() bool          { return false }
func (*TupleValue) IsError() bool            { return false }
func (*MagicValue) IsError() bool            { return false }

// NewError wraps a decoder error as a result of type t.
func NewError(t Type, err DecoderError) *ErrorResult {
	return &ErrorResult{Type: t, Error: err}
}
