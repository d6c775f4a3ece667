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

// Package format defines the data model shared by every decoder: Solidity type
// descriptors, decoded results, decoder errors, pointers and storage slots.
package format

import (
	"fmt"
	"math/big"
	"strings"
)

// TypeClass identifies the kind of a Type.
type TypeClass int

const (
	UintClass TypeClass = iota
	IntClass
	BoolClass
	BytesClass
	AddressClass
	StringClass
	FixedClass
	UfixedClass
	ArrayClass
	MappingClass
	StructClass
	TupleClass
	EnumClass
	ContractClass
	FunctionClass
	MagicClass
)

var typeClassNames = map[TypeClass]string{
	UintClass:     "uint",
	IntClass:      "int",
	BoolClass:     "bool",
	BytesClass:    "bytes",
	AddressClass:  "address",
	StringClass:   "string",
	FixedClass:    "fixed",
	UfixedClass:   "ufixed",
	ArrayClass:    "array",
	MappingClass:  "mapping",
	StructClass:   "struct",
	TupleClass:    "tuple",
	EnumClass:     "enum",
	ContractClass: "contract",
	FunctionClass: "function",
	MagicClass:    "magic",
}

func (c TypeClass) String() string {
	if name, ok := typeClassNames[c]; ok {
		return name
	}
	return fmt.Sprintf("TypeClass(%d)", int(c))
}

// ParseTypeClass is the inverse of TypeClass.String.
func ParseTypeClass(name string) (TypeClass, bool) {
	for class, n := range typeClassNames {
		if n == name {
			return class, true
		}
	}
	return 0, false
}

// Location is the data location of a reference type. It is NoLocation until
// the type has been resolved against a variable or parameter.
type Location int

const (
	NoLocation Location = iota
	StorageLocation
	MemoryLocation
	CalldataLocation
)

func (l Location) String() string {
	switch l {
	case StorageLocation:
		return "storage"
	case MemoryLocation:
		return "memory"
	case CalldataLocation:
		return "calldata"
	}
	return ""
}

// ParseLocation is the inverse of Location.String.
func ParseLocation(s string) (Location, error) {
	switch s {
	case "":
		return NoLocation, nil
	case "storage":
		return StorageLocation, nil
	case "memory":
		return MemoryLocation, nil
	case "calldata":
		return CalldataLocation, nil
	}
	return NoLocation, fmt.Errorf("unknown location %q", s)
}

// Type is a Solidity type descriptor. The set of implementations is closed;
// every implementation is a pointer to one of the structs in this file.
type Type interface {
	TypeClass() TypeClass
	// String returns the Solidity spelling of the type, including the data
	// location when one is set.
	String() string

	isType()
}

// NameTypePair is a named member of a struct, tuple or magic variable.
type NameTypePair struct {
	Name string
	Type Type
}

type UintType struct {
	Bits int
}

type IntType struct {
	Bits int
}

type BoolType struct{}

// BytesStaticType is bytesN, 1 <= N <= 32.
type BytesStaticType struct {
	Length int
}

type BytesDynamicType struct {
	Location Location
}

type AddressType struct {
	Payable bool
}

type StringType struct {
	Location Location
}

type FixedType struct {
	Bits   int
	Places int
}

type UfixedType struct {
	Bits   int
	Places int
}

type ArrayStaticType struct {
	BaseType Type
	Length   *big.Int
	Location Location
}

type ArrayDynamicType struct {
	BaseType Type
	Location Location
}

// MappingType is a mapping; KeyType is always an elementary type.
type MappingType struct {
	KeyType   Type
	ValueType Type
	Location  Location
}

// StructType is a user-defined struct. MemberTypes may be nil when the type
// is only a reference into the user-defined type registry.
type StructType struct {
	ID                   string
	TypeName             string
	DefiningContractName string
	Location             Location
	MemberTypes          []NameTypePair
}

type TupleType struct {
	MemberTypes []NameTypePair
}

// EnumType is a user-defined enum. Options may be nil when the type is only a
// reference into the user-defined type registry.
type EnumType struct {
	ID                   string
	TypeName             string
	DefiningContractName string
	Options              []string
}

type ContractType struct {
	ID           string
	TypeName     string
	ContractKind string // "contract", "library" or "interface"
	Payable      bool
}

type FunctionExternalType struct {
	Mutability           string
	InputParameterTypes  []Type
	OutputParameterTypes []Type
}

type FunctionInternalType struct {
	Mutability           string
	InputParameterTypes  []Type
	OutputParameterTypes []Type
}

// MagicVariable names a magic global.
type MagicVariable string

const (
	MagicMessage     MagicVariable = "msg"
	MagicTransaction MagicVariable = "tx"
	MagicBlock       MagicVariable = "block"
)

type MagicType struct {
	Variable    MagicVariable
	MemberTypes map[string]Type
}

func (*UintType) TypeClass() TypeClass             { return UintClass }
func (*IntType) TypeClass() TypeClass              { return IntClass }
func (*BoolType) TypeClass() TypeClass             { return BoolClass }
func (*BytesStaticType) TypeClass() TypeClass      { return BytesClass }
func (*BytesDynamicType) TypeClass() TypeClass     { return BytesClass }
func (*AddressType) TypeClass() TypeClass          { return AddressClass }
func (*StringType) TypeClass() TypeClass           { return StringClass }
func (*FixedType) TypeClass() TypeClass            { return FixedClass }
func (*UfixedType) TypeClass() TypeClass           { return UfixedClass }
func (*ArrayStaticType) TypeClass() TypeClass      { return ArrayClass }
func (*ArrayDynamicType) TypeClass() TypeClass     { return ArrayClass }
func (*MappingType) TypeClass() TypeClass          { return MappingClass }
func (*StructType) TypeClass() TypeClass           { return StructClass }
func (*TupleType) TypeClass() TypeClass            { return TupleClass }
func (*EnumType) TypeClass() TypeClass             { return EnumClass }
func (*ContractType) TypeClass() TypeClass         { return ContractClass }
func (*FunctionExternalType) TypeClass() TypeClass { return FunctionClass }
func (*FunctionInternalType) TypeClass() TypeClass { return FunctionClass }
func (*MagicType) TypeClass() TypeClass            { return MagicClass }

func (*UintType) isType()             {}
func (*IntType) isType()              {}
func (*BoolType) isType()             {}
func (*BytesStaticType) isType()      {}
func (*BytesDynamicType) isType()     {}
func (*AddressType) isType()          {}
func (*StringType) isType()           {}
func (*FixedType) isType()            {}
func (*UfixedType) isType()           {}
func (*ArrayStaticType) isType()      {}
func (*ArrayDynamicType) isType()     {}
func (*MappingType) isType()          {}
func (*StructType) isType()           {}
func (*TupleType) isType()            {}
func (*EnumType) isType()             {}
func (*ContractType) isType()         {}
func (*FunctionExternalType) isType() {}
func (*FunctionInternalType) isType() {}
func (*MagicType) isType()            {}

func withLocation(s string, l Location) string {
	if l == NoLocation {
		return s
	}
	return s + " " + l.String()
}

func qualifiedName(contract, name string) string {
	if contract == "" {
		return name
	}
	return contract + "." + name
}

func (t *UintType) String() string        { return fmt.Sprintf("uint%d", t.Bits) }
func (t *IntType) String() string         { return fmt.Sprintf("int%d", t.Bits) }
func (t *BoolType) String() string        { return "bool" }
func (t *BytesStaticType) String() string { return fmt.Sprintf("bytes%d", t.Length) }
func (t *BytesDynamicType) String() string {
	return withLocation("bytes", t.Location)
}
func (t *StringType) String() string { return withLocation("string", t.Location) }

func (t *AddressType) String() string {
	if t.Payable {
		return "address payable"
	}
	return "address"
}

func (t *FixedType) String() string  { return fmt.Sprintf("fixed%dx%d", t.Bits, t.Places) }
func (t *UfixedType) String() string { return fmt.Sprintf("ufixed%dx%d", t.Bits, t.Places) }

// elementTypeString strips the location suffix of an array base type, which
// Solidity only prints once for the outermost array.
func elementTypeString(t Type) string {
	switch base := t.(type) {
	case *ArrayStaticType:
		return fmt.Sprintf("%s[%s]", elementTypeString(base.BaseType), base.Length)
	case *ArrayDynamicType:
		return elementTypeString(base.BaseType) + "[]"
	case *BytesDynamicType:
		return "bytes"
	case *StringType:
		return "string"
	case *StructType:
		return "struct " + qualifiedName(base.DefiningContractName, base.TypeName)
	case *MappingType:
		return (&MappingType{KeyType: base.KeyType, ValueType: base.ValueType}).String()
	}
	return t.String()
}

func (t *ArrayStaticType) String() string {
	return withLocation(fmt.Sprintf("%s[%s]", elementTypeString(t.BaseType), t.Length), t.Location)
}

func (t *ArrayDynamicType) String() string {
	return withLocation(elementTypeString(t.BaseType)+"[]", t.Location)
}

func (t *MappingType) String() string {
	return withLocation(fmt.Sprintf("mapping(%s => %s)", elementTypeString(t.KeyType), elementTypeString(t.ValueType)), t.Location)
}

func (t *StructType) String() string {
	return withLocation("struct "+qualifiedName(t.DefiningContractName, t.TypeName), t.Location)
}

func (t *TupleType) String() string {
	members := make([]string, len(t.MemberTypes))
	for i, member := range t.MemberTypes {
		members[i] = elementTypeString(member.Type)
	}
	return "tuple(" + strings.Join(members, ",") + ")"
}

func (t *EnumType) String() string {
	return "enum " + qualifiedName(t.DefiningContractName, t.TypeName)
}

func (t *ContractType) String() string {
	kind := t.ContractKind
	if kind == "" {
		kind = "contract"
	}
	return kind + " " + t.TypeName
}

func (t *FunctionExternalType) String() string { return functionString("external", t.Mutability) }
func (t *FunctionInternalType) String() string { return functionString("internal", t.Mutability) }

func functionString(visibility, mutability string) string {
	if mutability == "" || mutability == "nonpayable" {
		return "function " + visibility
	}
	return "function " + visibility + " " + mutability
}

func (t *MagicType) String() string { return string(t.Variable) }

// IsReferenceType reports whether values of the type are accessed through a
// pointer: arrays, mappings, structs, strings and dynamic bytes.
func IsReferenceType(t Type) bool {
	switch t.(type) {
	case *ArrayStaticType, *ArrayDynamicType, *MappingType, *StructType, *StringType, *BytesDynamicType:
		return true
	}
	return false
}

// IsElementary reports whether the type may be used as a mapping key.
func IsElementary(t Type) bool {
	switch t.(type) {
	case *UintType, *IntType, *BoolType, *BytesStaticType, *BytesDynamicType,
		*AddressType, *StringType, *FixedType, *UfixedType, *EnumType, *ContractType:
		return true
	}
	return false
}

// LocationOf returns the data location of a reference type.
func LocationOf(t Type) Location {
	switch t := t.(type) {
	case *ArrayStaticType:
		return t.Location
	case *ArrayDynamicType:
		return t.Location
	case *MappingType:
		return t.Location
	case *StructType:
		return t.Location
	case *StringType:
		return t.Location
	case *BytesDynamicType:
		return t.Location
	}
	return NoLocation
}

// SpecifyLocation returns a copy of t with its data location set to l. Array
// base types and mapping value types are relocated too; other types are
// returned unchanged.
func SpecifyLocation(t Type, l Location) Type {
	switch t := t.(type) {
	case *ArrayStaticType:
		return &ArrayStaticType{BaseType: SpecifyLocation(t.BaseType, l), Length: t.Length, Location: l}
	case *ArrayDynamicType:
		return &ArrayDynamicType{BaseType: SpecifyLocation(t.BaseType, l), Location: l}
	case *MappingType:
		return &MappingType{KeyType: t.KeyType, ValueType: SpecifyLocation(t.ValueType, l), Location: l}
	case *StructType:
		cpy := *t
		cpy.Location = l
		return &cpy
	case *StringType:
		return &StringType{Location: l}
	case *BytesDynamicType:
		return &BytesDynamicType{Location: l}
	}
	return t
}

// TypesByID is the user-defined type registry: type id to full definition.
type TypesByID map[string]Type

// FullType completes a struct or enum type that only carries its id, looking
// its definition up in the registry. The location of t is preserved. The
// second return value is false if the definition was needed but not found.
func FullType(t Type, registry TypesByID) (Type, bool) {
	switch t := t.(type) {
	case *StructType:
		if t.MemberTypes != nil {
			return t, true
		}
		def, ok := registry[t.ID].(*StructType)
		if !ok {
			return t, false
		}
		full := *def
		full.Location = t.Location
		return &full, true
	case *EnumType:
		if t.Options != nil {
			return t, true
		}
		def, ok := registry[t.ID].(*EnumType)
		if !ok {
			return t, false
		}
		return def, true
	}
	return t, true
}
