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

// Package special decodes the magic variables msg, tx and block, whose
// members are synthesized by the execution engine rather than read from a
// data location.
package special

import (
	"github.com/bnb-chain/bsc-codec/basic"
	"github.com/bnb-chain/bsc-codec/evm"
	"github.com/bnb-chain/bsc-codec/format"
)

var (
	addressType  = &format.AddressType{Payable: true}
	uint256Type  = &format.UintType{Bits: 256}
	selectorType = &format.BytesStaticType{Length: 4}
	calldataType = &format.BytesDynamicType{Location: format.CalldataLocation}
)

type member struct {
	name    string
	typ     format.Type
	pointer format.Pointer
}

func specialMember(name string, typ format.Type) member {
	return member{name: name, typ: typ, pointer: &format.SpecialPointer{Special: name}}
}

// members lists, per magic variable, where each of its members comes from.
var members = map[format.MagicVariable][]member{
	format.MagicMessage: {
		specialMember("data", calldataType),
		{name: "sig", typ: selectorType, pointer: &format.CalldataPointer{Start: 0, Length: 4}},
		specialMember("sender", addressType),
		specialMember("value", uint256Type),
	},
	format.MagicTransaction: {
		specialMember("origin", addressType),
		specialMember("gasprice", uint256Type),
	},
	format.MagicBlock: {
		specialMember("coinbase", addressType),
		specialMember("difficulty", uint256Type),
		specialMember("gaslimit", uint256Type),
		specialMember("number", uint256Type),
		specialMember("timestamp", uint256Type),
		specialMember("chainid", uint256Type),
		specialMember("basefee", uint256Type),
	},
}

// MagicType returns the type of a whole magic variable.
func MagicType(variable format.MagicVariable) *format.MagicType {
	t := &format.MagicType{Variable: variable, MemberTypes: make(map[string]format.Type)}
	for _, m := range members[variable] {
		t.MemberTypes[m.name] = m.typ
	}
	return t
}

// Decode decodes the special value at pointer. A magic type decodes the
// whole variable named by pointer; any other type decodes the single special
// value.
func Decode(t format.Type, pointer *format.SpecialPointer, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	magic, ok := t.(*format.MagicType)
	if !ok {
		return basic.Decode(t, pointer, info, options)
	}
	variable := magic.Variable
	if variable == "" {
		variable = format.MagicVariable(pointer.Special)
	}
	list, ok := members[variable]
	if !ok {
		return evm.HandleDecodingError(t, &format.UnsupportedTypeError{Type: t}, options.StrictAbiMode)
	}
	value := &format.MagicValue{Type: magic, Value: make(map[string]format.Result, len(list))}
	for _, m := range list {
		result, err := basic.Decode(m.typ, m.pointer, info, options)
		if err != nil {
			return nil, err
		}
		value.Value[m.name] = result
	}
	return value, nil
}
