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

// Package serial converts decoded results and types to and from JSON.
//
// A result is an object with its type, a "kind" of "value" or "error", and
// the payload under "value" or "error". Big numbers are decimal strings and
// byte strings are 0x-prefixed hex. A back-reference is written with its
// "reference" tag and no contents; Deserialize ties it again.
package serial

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/tie"
)

const (
	kindValue = "value"
	kindError = "error"
)

type jsonResult struct {
	Type      *jsonType       `json:"type"`
	Kind      string          `json:"kind"`
	Reference int             `json:"reference,omitempty"`
	Value     json.RawMessage `json:"value,omitempty"`
	Error     *jsonError      `json:"error,omitempty"`
}

type jsonNumber struct {
	AsString    string `json:"asString"`
	RawAsString string `json:"rawAsString,omitempty"`
}

type jsonBytes struct {
	AsHex    hexutil.Bytes `json:"asHex"`
	RawAsHex hexutil.Bytes `json:"rawAsHex,omitempty"`
}

type jsonAddress struct {
	AsAddress common.Address `json:"asAddress"`
	RawAsHex  hexutil.Bytes  `json:"rawAsHex,omitempty"`
}

type jsonString struct {
	Kind     string        `json:"kind"` // valid or malformed
	AsString string        `json:"asString,omitempty"`
	AsHex    hexutil.Bytes `json:"asHex,omitempty"`
}

type jsonEnum struct {
	Name            string `json:"name,omitempty"`
	NumericAsString string `json:"numericAsString"`
}

type jsonContract struct {
	Kind       string         `json:"kind"`
	Address    common.Address `json:"address"`
	RawAddress hexutil.Bytes  `json:"rawAddress,omitempty"`
	Class      *jsonType      `json:"class,omitempty"`
}

type jsonFunctionAbi struct {
	Name            string `json:"name"`
	Signature       string `json:"signature"`
	StateMutability string `json:"stateMutability,omitempty"`
}

type jsonExternal struct {
	Kind     string           `json:"kind"`
	Contract jsonContract     `json:"contract"`
	Selector hexutil.Bytes    `json:"selector"`
	Abi      *jsonFunctionAbi `json:"abi,omitempty"`
}

type jsonInternal struct {
	Kind                      string    `json:"kind"`
	Context                   *jsonType `json:"context,omitempty"`
	DeployedProgramCounter    uint64    `json:"deployedProgramCounter"`
	ConstructorProgramCounter uint64    `json:"constructorProgramCounter"`
	Name                      string    `json:"name,omitempty"`
	ID                        string    `json:"id,omitempty"`
	DefinedIn                 *jsonType `json:"definedIn,omitempty"`
	Mutability                string    `json:"mutability,omitempty"`
}

type jsonNamed struct {
	Name  string      `json:"name"`
	Value *jsonResult `json:"value"`
}

type jsonEntry struct {
	Key   *jsonResult `json:"key"`
	Value *jsonResult `json:"value"`
}

// Serialize encodes a result. Tied back-references are written without
// their contents, so circular values serialize finitely.
func Serialize(v format.Result) ([]byte, error) {
	j, err := encodeResult(v)
	if err != nil {
		return nil, errors.Wrap(err, "serialize result")
	}
	return json.Marshal(j)
}

// Deserialize decodes a result written by Serialize. Back-references are
// tied to their ancestors again.
func Deserialize(data []byte) (format.Result, error) {
	v, err := decodeResult(data)
	if err != nil {
		return nil, errors.Wrap(err, "deserialize result")
	}
	return tie.Tie(v), nil
}

// SerializeType encodes a type.
func SerializeType(t format.Type) ([]byte, error) {
	if t == nil {
		return nil, errors.New("serialize type: nil type")
	}
	return json.Marshal(encodeType(t))
}

// DeserializeType decodes a type written by SerializeType.
func DeserializeType(data []byte) (format.Type, error) {
	var j jsonType
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, errors.Wrap(err, "deserialize type")
	}
	t, err := decodeType(&j)
	if err != nil {
		return nil, errors.Wrap(err, "deserialize type")
	}
	return t, nil
}

func encodeResult(v format.Result) (*jsonResult, error) {
	if v == nil {
		return nil, fmt.Errorf("nil result")
	}
	j := &jsonResult{Type: encodeType(v.ResultType()), Kind: kindValue}
	var payload interface{}
	switch v := v.(type) {
	case *format.ErrorResult:
		e, err := encodeError(v.Error)
		if err != nil {
			return nil, err
		}
		j.Kind, j.Error = kindError, e
		return j, nil
	case *format.UintValue:
		payload = jsonNumber{AsString: decimal(v.Value), RawAsString: decimal(v.Raw)}
	case *format.IntValue:
		payload = jsonNumber{AsString: decimal(v.Value), RawAsString: decimal(v.Raw)}
	case *format.BoolValue:
		payload = map[string]bool{"asBoolean": v.Value}
	case *format.BytesStaticValue:
		payload = jsonBytes{AsHex: v.Value, RawAsHex: v.Raw}
	case *format.BytesDynamicValue:
		payload = jsonBytes{AsHex: v.Value}
	case *format.AddressValue:
		payload = jsonAddress{AsAddress: v.Value, RawAsHex: v.Raw}
	case *format.StringValue:
		if v.Malformed {
			payload = jsonString{Kind: "malformed", AsHex: v.Raw}
		} else {
			payload = jsonString{Kind: "valid", AsString: v.Value}
		}
	case *format.EnumValue:
		payload = jsonEnum{Name: v.Name, NumericAsString: decimal(v.Numeric)}
	case *format.ContractValue:
		payload = encodeContract(v.Value)
	case *format.FunctionExternalValue:
		external := jsonExternal{
			Kind:     v.Value.Kind.String(),
			Contract: encodeContract(v.Value.Contract),
			Selector: v.Value.Selector[:],
		}
		if abi := v.Value.Abi; abi != nil {
			external.Abi = &jsonFunctionAbi{Name: abi.Name, Signature: abi.Signature, StateMutability: abi.StateMutability}
		}
		payload = external
	case *format.FunctionInternalValue:
		payload = jsonInternal{
			Kind:                      v.Value.Kind.String(),
			Context:                   contractType(v.Value.Context),
			DeployedProgramCounter:    v.Value.DeployedProgramCounter,
			ConstructorProgramCounter: v.Value.ConstructorProgramCounter,
			Name:                      v.Value.Name,
			ID:                        v.Value.ID,
			DefinedIn:                 contractType(v.Value.DefinedIn),
			Mutability:                v.Value.Mutability,
		}
	case *format.ArrayValue:
		if v.Reference != 0 {
			j.Reference = v.Reference
			return j, nil
		}
		elements := make([]*jsonResult, len(v.Value))
		for i, element := range v.Value {
			e, err := encodeResult(element)
			if err != nil {
				return nil, err
			}
			elements[i] = e
		}
		payload = elements
	case *format.StructValue:
		if v.Reference != 0 {
			j.Reference = v.Reference
			return j, nil
		}
		members, err := encodeNamed(v.Value)
		if err != nil {
			return nil, err
		}
		payload = members
	case *format.TupleValue:
		members, err := encodeNamed(v.Value)
		if err != nil {
			return nil, err
		}
		payload = members
	case *format.MappingValue:
		entries := make([]jsonEntry, len(v.Value))
		for i, entry := range v.Value {
			key, err := encodeResult(entry.Key)
			if err != nil {
				return nil, err
			}
			value, err := encodeResult(entry.Value)
			if err != nil {
				return nil, err
			}
			entries[i] = jsonEntry{Key: key, Value: value}
		}
		payload = entries
	case *format.MagicValue:
		members := make(map[string]*jsonResult, len(v.Value))
		for name, member := range v.Value {
			m, err := encodeResult(member)
			if err != nil {
				return nil, err
			}
			members[name] = m
		}
		payload = members
	default:
		return nil, fmt.Errorf("cannot serialize result %T", v)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	j.Value = raw
	return j, nil
}

func encodeNamed(pairs []format.NameValuePair) ([]jsonNamed, error) {
	out := make([]jsonNamed, len(pairs))
	for i, pair := range pairs {
		value, err := encodeResult(pair.Value)
		if err != nil {
			return nil, err
		}
		out[i] = jsonNamed{Name: pair.Name, Value: value}
	}
	return out, nil
}

func encodeContract(info format.ContractValueInfo) jsonContract {
	return jsonContract{
		Kind:       info.Kind.String(),
		Address:    info.Address,
		RawAddress: info.RawAddress,
		Class:      contractType(info.Class),
	}
}

func decodeResult(data []byte) (format.Result, error) {
	var j jsonResult
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}
	return fromJSON(&j)
}

// typed asserts the concrete type a value kind requires.
func typed[T format.Type](t format.Type) (T, error) {
	out, ok := t.(T)
	if !ok {
		return out, fmt.Errorf("unexpected type %s", t.TypeClass())
	}
	return out, nil
}

func fromJSON(j *jsonResult) (format.Result, error) {
	if j == nil {
		return nil, fmt.Errorf("missing result")
	}
	t, err := decodeType(j.Type)
	if err != nil {
		return nil, err
	}
	switch j.Kind {
	case kindError:
		e, err := decodeError(j.Error)
		if err != nil {
			return nil, err
		}
		return format.NewError(t, e), nil
	case kindValue:
	default:
		return nil, fmt.Errorf("unknown result kind %q", j.Kind)
	}

	if j.Reference != 0 {
		switch t := t.(type) {
		case *format.ArrayStaticType, *format.ArrayDynamicType:
			return &format.ArrayValue{Type: t, Reference: j.Reference}, nil
		case *format.StructType:
			return &format.StructValue{Type: t, Reference: j.Reference}, nil
		}
		return nil, fmt.Errorf("reference on %s value", t.TypeClass())
	}

	switch t := t.(type) {
	case *format.UintType:
		var n jsonNumber
		if err := json.Unmarshal(j.Value, &n); err != nil {
			return nil, err
		}
		value, raw, err := numbers(n)
		if err != nil {
			return nil, err
		}
		return &format.UintValue{Type: t, Value: value, Raw: raw}, nil
	case *format.IntType:
		var n jsonNumber
		if err := json.Unmarshal(j.Value, &n); err != nil {
			return nil, err
		}
		value, raw, err := numbers(n)
		if err != nil {
			return nil, err
		}
		return &format.IntValue{Type: t, Value: value, Raw: raw}, nil
	case *format.BoolType:
		var b map[string]bool
		if err := json.Unmarshal(j.Value, &b); err != nil {
			return nil, err
		}
		return &format.BoolValue{Type: t, Value: b["asBoolean"]}, nil
	case *format.BytesStaticType:
		var b jsonBytes
		if err := json.Unmarshal(j.Value, &b); err != nil {
			return nil, err
		}
		return &format.BytesStaticValue{Type: t, Value: b.AsHex, Raw: b.RawAsHex}, nil
	case *format.BytesDynamicType:
		var b jsonBytes
		if err := json.Unmarshal(j.Value, &b); err != nil {
			return nil, err
		}
		return &format.BytesDynamicValue{Type: t, Value: b.AsHex}, nil
	case *format.AddressType:
		var a jsonAddress
		if err := json.Unmarshal(j.Value, &a); err != nil {
			return nil, err
		}
		return &format.AddressValue{Type: t, Value: a.AsAddress, Raw: a.RawAsHex}, nil
	case *format.StringType:
		var s jsonString
		if err := json.Unmarshal(j.Value, &s); err != nil {
			return nil, err
		}
		if s.Kind == "malformed" {
			return &format.StringValue{Type: t, Malformed: true, Raw: s.AsHex}, nil
		}
		return &format.StringValue{Type: t, Value: s.AsString}, nil
	case *format.EnumType:
		var e jsonEnum
		if err := json.Unmarshal(j.Value, &e); err != nil {
			return nil, err
		}
		numeric, err := parseDecimal(e.NumericAsString)
		if err != nil {
			return nil, err
		}
		return &format.EnumValue{Type: t, Name: e.Name, Numeric: numeric}, nil
	case *format.ContractType:
		var c jsonContract
		if err := json.Unmarshal(j.Value, &c); err != nil {
			return nil, err
		}
		info, err := decodeContract(c)
		if err != nil {
			return nil, err
		}
		return &format.ContractValue{Type: t, Value: info}, nil
	case *format.FunctionExternalType:
		var e jsonExternal
		if err := json.Unmarshal(j.Value, &e); err != nil {
			return nil, err
		}
		contract, err := decodeContract(e.Contract)
		if err != nil {
			return nil, err
		}
		info := format.FunctionExternalValueInfo{Contract: contract}
		switch e.Kind {
		case "known":
			info.Kind = format.FunctionExternalKnown
		case "invalid":
			info.Kind = format.FunctionExternalInvalid
		default:
			info.Kind = format.FunctionExternalUnknown
		}
		copy(info.Selector[:], e.Selector)
		if e.Abi != nil {
			info.Abi = &format.FunctionAbi{Name: e.Abi.Name, Signature: e.Abi.Signature, StateMutability: e.Abi.StateMutability}
		}
		return &format.FunctionExternalValue{Type: t, Value: info}, nil
	case *format.FunctionInternalType:
		var e jsonInternal
		if err := json.Unmarshal(j.Value, &e); err != nil {
			return nil, err
		}
		info := format.FunctionInternalValueInfo{
			DeployedProgramCounter:    e.DeployedProgramCounter,
			ConstructorProgramCounter: e.ConstructorProgramCounter,
			Name:                      e.Name,
			ID:                        e.ID,
			Mutability:                e.Mutability,
		}
		switch e.Kind {
		case "function":
			info.Kind = format.FunctionInternalFunction
		case "exception":
			info.Kind = format.FunctionInternalException
		default:
			info.Kind = format.FunctionInternalUnknown
		}
		if info.Context, err = optionalContract(e.Context); err != nil {
			return nil, err
		}
		if info.DefinedIn, err = optionalContract(e.DefinedIn); err != nil {
			return nil, err
		}
		return &format.FunctionInternalValue{Type: t, Value: info}, nil
	case *format.ArrayStaticType, *format.ArrayDynamicType:
		var elements []*jsonResult
		if err := json.Unmarshal(j.Value, &elements); err != nil {
			return nil, err
		}
		out := &format.ArrayValue{Type: t, Value: make([]format.Result, len(elements))}
		for i, element := range elements {
			if out.Value[i], err = fromJSON(element); err != nil {
				return nil, err
			}
		}
		return out, nil
	case *format.StructType:
		members, err := decodeNamed(j.Value)
		if err != nil {
			return nil, err
		}
		return &format.StructValue{Type: t, Value: members}, nil
	case *format.TupleType:
		members, err := decodeNamed(j.Value)
		if err != nil {
			return nil, err
		}
		return &format.TupleValue{Type: t, Value: members}, nil
	case *format.MappingType:
		var entries []jsonEntry
		if err := json.Unmarshal(j.Value, &entries); err != nil {
			return nil, err
		}
		out := &format.MappingValue{Type: t, Value: make([]format.KeyValuePair, len(entries))}
		for i, entry := range entries {
			key, err := fromJSON(entry.Key)
			if err != nil {
				return nil, err
			}
			value, err := fromJSON(entry.Value)
			if err != nil {
				return nil, err
			}
			out.Value[i] = format.KeyValuePair{Key: key, Value: value}
		}
		return out, nil
	case *format.MagicType:
		var members map[string]*jsonResult
		if err := json.Unmarshal(j.Value, &members); err != nil {
			return nil, err
		}
		out := &format.MagicValue{Type: t, Value: make(map[string]format.Result, len(members))}
		for name, member := range members {
			if out.Value[name], err = fromJSON(member); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot deserialize %s value", t.TypeClass())
}

func numbers(n jsonNumber) (*big.Int, *big.Int, error) {
	value, err := parseDecimal(n.AsString)
	if err != nil {
		return nil, nil, err
	}
	if value == nil {
		return nil, nil, fmt.Errorf("missing number")
	}
	raw, err := parseDecimal(n.RawAsString)
	if err != nil {
		return nil, nil, err
	}
	return value, raw, nil
}

func decodeNamed(data json.RawMessage) ([]format.NameValuePair, error) {
	var members []jsonNamed
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	out := make([]format.NameValuePair, len(members))
	for i, member := range members {
		value, err := fromJSON(member.Value)
		if err != nil {
			return nil, err
		}
		out[i] = format.NameValuePair{Name: member.Name, Value: value}
	}
	return out, nil
}

func decodeContract(j jsonContract) (format.ContractValueInfo, error) {
	info := format.ContractValueInfo{Kind: format.ContractUnknown, Address: j.Address, RawAddress: j.RawAddress}
	if j.Kind == "known" {
		info.Kind = format.ContractKnown
	}
	class, err := optionalContract(j.Class)
	if err != nil {
		return info, err
	}
	info.Class = class
	return info, nil
}

func optionalContract(j *jsonType) (*format.ContractType, error) {
	if j == nil {
		return nil, nil
	}
	t, err := decodeType(j)
	if err != nil {
		return nil, err
	}
	return typed[*format.ContractType](t)
}
