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

package serial

import (
	"fmt"
	"math/big"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/bnb-chain/bsc-codec/format"
)

// jsonType is the wire form of every format.Type. Fields not used by a type
// class are omitted.
type jsonType struct {
	TypeClass            string               `json:"typeClass"`
	Kind                 string               `json:"kind,omitempty"` // static/dynamic, external/internal
	Bits                 int                  `json:"bits,omitempty"`
	Places               int                  `json:"places,omitempty"`
	Length               string               `json:"length,omitempty"`
	Location             string               `json:"location,omitempty"`
	Payable              bool                 `json:"payable,omitempty"`
	BaseType             *jsonType            `json:"baseType,omitempty"`
	KeyType              *jsonType            `json:"keyType,omitempty"`
	ValueType            *jsonType            `json:"valueType,omitempty"`
	ID                   string               `json:"id,omitempty"`
	TypeName             string               `json:"typeName,omitempty"`
	DefiningContractName string               `json:"definingContractName,omitempty"`
	ContractKind         string               `json:"contractKind,omitempty"`
	Options              *[]string            `json:"options,omitempty"`
	MemberTypes          *[]jsonMemberType    `json:"memberTypes,omitempty"`
	Mutability           string               `json:"mutability,omitempty"`
	InputParameterTypes  []*jsonType          `json:"inputParameterTypes,omitempty"`
	OutputParameterTypes []*jsonType          `json:"outputParameterTypes,omitempty"`
	Variable             string               `json:"variable,omitempty"`
	MagicMemberTypes     map[string]*jsonType `json:"magicMemberTypes,omitempty"`
}

type jsonMemberType struct {
	Name string    `json:"name"`
	Type *jsonType `json:"type"`
}

const (
	kindStatic   = "static"
	kindDynamic  = "dynamic"
	kindExternal = "external"
	kindInternal = "internal"
)

func encodeType(t format.Type) *jsonType {
	e := &typeEncoder{open: mapset.NewThreadUnsafeSet[string]()}
	return e.encode(t)
}

// typeEncoder tracks the structs being encoded; a struct reached again
// through its own members is written without them.
type typeEncoder struct {
	open mapset.Set[string]
}

func (e *typeEncoder) encode(t format.Type) *jsonType {
	if t == nil {
		return nil
	}
	j := &jsonType{TypeClass: t.TypeClass().String()}
	switch t := t.(type) {
	case *format.UintType:
		j.Bits = t.Bits
	case *format.IntType:
		j.Bits = t.Bits
	case *format.BoolType:
	case *format.BytesStaticType:
		j.Kind, j.Length = kindStatic, strconv.Itoa(t.Length)
	case *format.BytesDynamicType:
		j.Kind, j.Location = kindDynamic, t.Location.String()
	case *format.AddressType:
		j.Payable = t.Payable
	case *format.StringType:
		j.Location = t.Location.String()
	case *format.FixedType:
		j.Bits, j.Places = t.Bits, t.Places
	case *format.UfixedType:
		j.Bits, j.Places = t.Bits, t.Places
	case *format.ArrayStaticType:
		j.Kind, j.BaseType, j.Location = kindStatic, e.encode(t.BaseType), t.Location.String()
		if t.Length != nil {
			j.Length = t.Length.String()
		}
	case *format.ArrayDynamicType:
		j.Kind, j.BaseType, j.Location = kindDynamic, e.encode(t.BaseType), t.Location.String()
	case *format.MappingType:
		j.KeyType, j.ValueType, j.Location = e.encode(t.KeyType), e.encode(t.ValueType), t.Location.String()
	case *format.StructType:
		j.ID, j.TypeName, j.DefiningContractName, j.Location = t.ID, t.TypeName, t.DefiningContractName, t.Location.String()
		if !e.open.Contains(t.ID) {
			e.open.Add(t.ID)
			j.MemberTypes = e.members(t.MemberTypes)
			e.open.Remove(t.ID)
		}
	case *format.TupleType:
		j.MemberTypes = e.members(t.MemberTypes)
		if j.MemberTypes == nil {
			j.MemberTypes = &[]jsonMemberType{}
		}
	case *format.EnumType:
		j.ID, j.TypeName, j.DefiningContractName = t.ID, t.TypeName, t.DefiningContractName
		if t.Options != nil {
			options := append([]string{}, t.Options...)
			j.Options = &options
		}
	case *format.ContractType:
		j.ID, j.TypeName, j.ContractKind, j.Payable = t.ID, t.TypeName, t.ContractKind, t.Payable
	case *format.FunctionExternalType:
		j.Kind, j.Mutability = kindExternal, t.Mutability
		j.InputParameterTypes, j.OutputParameterTypes = e.types(t.InputParameterTypes), e.types(t.OutputParameterTypes)
	case *format.FunctionInternalType:
		j.Kind, j.Mutability = kindInternal, t.Mutability
		j.InputParameterTypes, j.OutputParameterTypes = e.types(t.InputParameterTypes), e.types(t.OutputParameterTypes)
	case *format.MagicType:
		j.Variable = string(t.Variable)
		if len(t.MemberTypes) > 0 {
			j.MagicMemberTypes = make(map[string]*jsonType, len(t.MemberTypes))
			for name, member := range t.MemberTypes {
				j.MagicMemberTypes[name] = e.encode(member)
			}
		}
	}
	return j
}

func (e *typeEncoder) members(members []format.NameTypePair) *[]jsonMemberType {
	if members == nil {
		return nil
	}
	out := make([]jsonMemberType, len(members))
	for i, member := range members {
		out[i] = jsonMemberType{Name: member.Name, Type: e.encode(member.Type)}
	}
	return &out
}

func (e *typeEncoder) types(types []format.Type) []*jsonType {
	out := make([]*jsonType, len(types))
	for i, t := range types {
		out[i] = e.encode(t)
	}
	return out
}

func decodeType(j *jsonType) (format.Type, error) {
	if j == nil {
		return nil, fmt.Errorf("missing type")
	}
	class, ok := format.ParseTypeClass(j.TypeClass)
	if !ok {
		return nil, fmt.Errorf("unknown type class %q", j.TypeClass)
	}
	location, err := format.ParseLocation(j.Location)
	if err != nil {
		return nil, err
	}

	switch class {
	case format.UintClass:
		return &format.UintType{Bits: j.Bits}, nil
	case format.IntClass:
		return &format.IntType{Bits: j.Bits}, nil
	case format.BoolClass:
		return &format.BoolType{}, nil
	case format.BytesClass:
		if j.Kind == kindStatic {
			length, err := strconv.Atoi(j.Length)
			if err != nil {
				return nil, fmt.Errorf("bad bytes length %q", j.Length)
			}
			return &format.BytesStaticType{Length: length}, nil
		}
		return &format.BytesDynamicType{Location: location}, nil
	case format.AddressClass:
		return &format.AddressType{Payable: j.Payable}, nil
	case format.StringClass:
		return &format.StringType{Location: location}, nil
	case format.FixedClass:
		return &format.FixedType{Bits: j.Bits, Places: j.Places}, nil
	case format.UfixedClass:
		return &format.UfixedType{Bits: j.Bits, Places: j.Places}, nil
	case format.ArrayClass:
		base, err := decodeType(j.BaseType)
		if err != nil {
			return nil, err
		}
		if j.Kind == kindStatic {
			length, ok := new(big.Int).SetString(j.Length, 10)
			if !ok {
				return nil, fmt.Errorf("bad array length %q", j.Length)
			}
			return &format.ArrayStaticType{BaseType: base, Length: length, Location: location}, nil
		}
		return &format.ArrayDynamicType{BaseType: base, Location: location}, nil
	case format.MappingClass:
		key, err := decodeType(j.KeyType)
		if err != nil {
			return nil, err
		}
		value, err := decodeType(j.ValueType)
		if err != nil {
			return nil, err
		}
		return &format.MappingType{KeyType: key, ValueType: value, Location: location}, nil
	case format.StructClass:
		members, err := decodeMembers(j.MemberTypes)
		if err != nil {
			return nil, err
		}
		return &format.StructType{
			ID:                   j.ID,
			TypeName:             j.TypeName,
			DefiningContractName: j.DefiningContractName,
			Location:             location,
			MemberTypes:          members,
		}, nil
	case format.TupleClass:
		members, err := decodeMembers(j.MemberTypes)
		if err != nil {
			return nil, err
		}
		return &format.TupleType{MemberTypes: members}, nil
	case format.EnumClass:
		t := &format.EnumType{ID: j.ID, TypeName: j.TypeName, DefiningContractName: j.DefiningContractName}
		if j.Options != nil {
			t.Options = append([]string{}, *j.Options...)
		}
		return t, nil
	case format.ContractClass:
		return &format.ContractType{ID: j.ID, TypeName: j.TypeName, ContractKind: j.ContractKind, Payable: j.Payable}, nil
	case format.FunctionClass:
		inputs, err := decodeTypes(j.InputParameterTypes)
		if err != nil {
			return nil, err
		}
		outputs, err := decodeTypes(j.OutputParameterTypes)
		if err != nil {
			return nil, err
		}
		if j.Kind == kindInternal {
			return &format.FunctionInternalType{Mutability: j.Mutability, InputParameterTypes: inputs, OutputParameterTypes: outputs}, nil
		}
		return &format.FunctionExternalType{Mutability: j.Mutability, InputParameterTypes: inputs, OutputParameterTypes: outputs}, nil
	case format.MagicClass:
		t := &format.MagicType{Variable: format.MagicVariable(j.Variable)}
		if len(j.MagicMemberTypes) > 0 {
			t.MemberTypes = make(map[string]format.Type, len(j.MagicMemberTypes))
			for name, member := range j.MagicMemberTypes {
				mt, err := decodeType(member)
				if err != nil {
					return nil, err
				}
				t.MemberTypes[name] = mt
			}
		}
		return t, nil
	}
	return nil, fmt.Errorf("unsupported type class %s", class)
}

func decodeMembers(members *[]jsonMemberType) ([]format.NameTypePair, error) {
	if members == nil {
		return nil, nil
	}
	out := make([]format.NameTypePair, len(*members))
	for i, member := range *members {
		t, err := decodeType(member.Type)
		if err != nil {
			return nil, err
		}
		out[i] = format.NameTypePair{Name: member.Name, Type: t}
	}
	return out, nil
}

func decodeTypes(types []*jsonType) ([]format.Type, error) {
	if len(types) == 0 {
		return nil, nil
	}
	out := make([]format.Type, len(types))
	for i, j := range types {
		t, err := decodeType(j)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
