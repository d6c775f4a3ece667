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
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/bnb-chain/bsc-codec/format"
)

// jsonError is the wire form of every format.DecoderError, tagged by its
// ErrorKind. Big numbers are decimal strings.
type jsonError struct {
	Kind string `json:"kind"`

	Raw         hexutil.Bytes `json:"raw,omitempty"`
	RawAddress  hexutil.Bytes `json:"rawAddress,omitempty"`
	RawSelector hexutil.Bytes `json:"rawSelector,omitempty"`

	RawAsString        string `json:"rawAsString,omitempty"`
	LengthAsString     string `json:"lengthAsString,omitempty"`
	DataLengthAsString string `json:"dataLengthAsString,omitempty"`
	PointerAsString    string `json:"pointerAsString,omitempty"`

	Type *jsonType `json:"type,omitempty"`

	Context                   *jsonType `json:"context,omitempty"`
	DeployedProgramCounter    uint64    `json:"deployedProgramCounter,omitempty"`
	ConstructorProgramCounter uint64    `json:"constructorProgramCounter,omitempty"`

	Address *common.Address `json:"address,omitempty"`

	From     int        `json:"from,omitempty"`
	To       int        `json:"to,omitempty"`
	Location string     `json:"location,omitempty"`
	Start    int        `json:"start,omitempty"`
	Length   int        `json:"length,omitempty"`
	Range    *jsonRange `json:"range,omitempty"`
	Topic    int        `json:"topic,omitempty"`
	Special  string     `json:"special,omitempty"`

	Definition *jsonDefinition `json:"definition,omitempty"`
}

type jsonDefinition struct {
	Kind            format.LiteralKind `json:"kind"`
	Value           string             `json:"value"`
	Subdenomination string             `json:"subdenomination,omitempty"`
	Negative        bool               `json:"negative,omitempty"`
}

type jsonRange struct {
	From jsonPosition `json:"from"`
	To   jsonPosition `json:"to"`
}

type jsonPosition struct {
	Slot  *jsonSlot `json:"slot"`
	Index int       `json:"index"`
}

// jsonSlot encodes a symbolic slot; a mapping key slot carries its key as a
// serialized result.
type jsonSlot struct {
	Offset   string          `json:"offset"`
	Path     *jsonSlot       `json:"path,omitempty"`
	Key      json.RawMessage `json:"key,omitempty"`
	HashPath bool            `json:"hashPath,omitempty"`
}

func decimal(n *big.Int) string {
	if n == nil {
		return ""
	}
	return n.String()
}

func parseDecimal(s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("bad decimal %q", s)
	}
	return n, nil
}

func contractType(t *format.ContractType) *jsonType {
	if t == nil {
		return nil
	}
	return encodeType(t)
}

func encodeError(err format.DecoderError) (*jsonError, error) {
	j := &jsonError{Kind: err.ErrorKind()}
	switch e := err.(type) {
	case *format.UintPaddingError:
		j.Raw = e.Raw
	case *format.IntPaddingError:
		j.Raw = e.Raw
	case *format.BoolPaddingError:
		j.Raw = e.Raw
	case *format.BytesPaddingError:
		j.Raw = e.Raw
	case *format.AddressPaddingError:
		j.Raw = e.Raw
	case *format.ContractPaddingError:
		j.Raw = e.Raw
	case *format.FunctionExternalNonStackPaddingError:
		j.Raw = e.Raw
	case *format.FunctionInternalPaddingError:
		j.Raw = e.Raw
	case *format.FixedPointNotYetSupportedError:
		j.Raw = e.Raw
	case *format.EnumPaddingError:
		j.Type, j.Raw = encodeType(e.Type), e.Raw
	case *format.FunctionExternalStackPaddingError:
		j.RawAddress, j.RawSelector = e.RawAddress, e.RawSelector
	case *format.BoolOutOfRangeError:
		j.RawAsString = decimal(e.RawAsBN)
	case *format.EnumOutOfRangeError:
		j.Type, j.RawAsString = encodeType(e.Type), decimal(e.RawAsBN)
	case *format.EnumNotFoundDecodingError:
		j.Type, j.RawAsString = encodeType(e.Type), decimal(e.RawAsBN)
	case *format.UserDefinedTypeNotFoundError:
		j.Type = encodeType(e.Type)
	case *format.UnsupportedTypeError:
		j.Type = encodeType(e.Type)
	case *format.IndexedReferenceTypeError:
		j.Type, j.Raw = encodeType(e.Type), e.Raw
	case *format.NoSuchInternalFunctionError:
		j.Context, j.DeployedProgramCounter, j.ConstructorProgramCounter = contractType(e.Context), e.DeployedProgramCounter, e.ConstructorProgramCounter
	case *format.DeployedFunctionInConstructorError:
		j.Context, j.DeployedProgramCounter, j.ConstructorProgramCounter = contractType(e.Context), e.DeployedProgramCounter, e.ConstructorProgramCounter
	case *format.MalformedInternalFunctionError:
		j.Context, j.DeployedProgramCounter, j.ConstructorProgramCounter = contractType(e.Context), e.DeployedProgramCounter, e.ConstructorProgramCounter
	case *format.CodeNotSuppliedError:
		address := e.Address
		j.Address = &address
	case *format.ReadErrorStack:
		j.From, j.To = e.From, e.To
	case *format.ReadErrorBytes:
		j.Location, j.Start, j.Length = e.Location.String(), e.Start, e.Length
	case *format.ReadErrorStorage:
		r, err := encodeRange(e.Range)
		if err != nil {
			return nil, err
		}
		j.Range = r
	case *format.ReadErrorTopic:
		j.Topic = e.Topic
	case *format.ReadErrorSpecial:
		j.Special = e.Special
	case *format.OverlongArraysAndStringsNotImplementedError:
		j.LengthAsString, j.DataLengthAsString = decimal(e.LengthAsBN), decimal(e.DataLength)
	case *format.OverlargePointersNotImplementedError:
		j.PointerAsString = decimal(e.PointerAsBN)
	case *format.UnsupportedConstantError:
		if e.Definition != nil {
			j.Definition = &jsonDefinition{
				Kind:            e.Definition.Kind,
				Value:           e.Definition.Value,
				Subdenomination: e.Definition.Subdenomination,
				Negative:        e.Definition.Negative,
			}
		}
	case *format.InternalFunctionInABIError:
	default:
		return nil, fmt.Errorf("cannot serialize error %T", err)
	}
	return j, nil
}

func decodeError(j *jsonError) (format.DecoderError, error) {
	if j == nil {
		return nil, fmt.Errorf("missing error")
	}
	raw := []byte(j.Raw)
	rawAsBN, err := parseDecimal(j.RawAsString)
	if err != nil {
		return nil, err
	}
	var typ format.Type
	if j.Type != nil {
		if typ, err = decodeType(j.Type); err != nil {
			return nil, err
		}
	}
	enumType, _ := typ.(*format.EnumType)
	var context *format.ContractType
	if j.Context != nil {
		t, err := decodeType(j.Context)
		if err != nil {
			return nil, err
		}
		var ok bool
		if context, ok = t.(*format.ContractType); !ok {
			return nil, fmt.Errorf("context is not a contract type")
		}
	}

	switch j.Kind {
	case "UintPaddingError":
		return &format.UintPaddingError{Raw: raw}, nil
	case "IntPaddingError":
		return &format.IntPaddingError{Raw: raw}, nil
	case "BoolPaddingError":
		return &format.BoolPaddingError{Raw: raw}, nil
	case "BytesPaddingError":
		return &format.BytesPaddingError{Raw: raw}, nil
	case "AddressPaddingError":
		return &format.AddressPaddingError{Raw: raw}, nil
	case "ContractPaddingError":
		return &format.ContractPaddingError{Raw: raw}, nil
	case "FunctionExternalNonStackPaddingError":
		return &format.FunctionExternalNonStackPaddingError{Raw: raw}, nil
	case "FunctionInternalPaddingError":
		return &format.FunctionInternalPaddingError{Raw: raw}, nil
	case "FixedPointNotYetSupportedError":
		return &format.FixedPointNotYetSupportedError{Raw: raw}, nil
	case "EnumPaddingError":
		return &format.EnumPaddingError{Type: enumType, Raw: raw}, nil
	case "FunctionExternalStackPaddingError":
		return &format.FunctionExternalStackPaddingError{RawAddress: j.RawAddress, RawSelector: j.RawSelector}, nil
	case "BoolOutOfRangeError":
		return &format.BoolOutOfRangeError{RawAsBN: rawAsBN}, nil
	case "EnumOutOfRangeError":
		return &format.EnumOutOfRangeError{Type: enumType, RawAsBN: rawAsBN}, nil
	case "EnumNotFoundDecodingError":
		return &format.EnumNotFoundDecodingError{Type: enumType, RawAsBN: rawAsBN}, nil
	case "UserDefinedTypeNotFoundError":
		return &format.UserDefinedTypeNotFoundError{Type: typ}, nil
	case "UnsupportedTypeError":
		return &format.UnsupportedTypeError{Type: typ}, nil
	case "IndexedReferenceTypeError":
		return &format.IndexedReferenceTypeError{Type: typ, Raw: raw}, nil
	case "NoSuchInternalFunctionError":
		return &format.NoSuchInternalFunctionError{Context: context, DeployedProgramCounter: j.DeployedProgramCounter, ConstructorProgramCounter: j.ConstructorProgramCounter}, nil
	case "DeployedFunctionInConstructorError":
		return &format.DeployedFunctionInConstructorError{Context: context, DeployedProgramCounter: j.DeployedProgramCounter, ConstructorProgramCounter: j.ConstructorProgramCounter}, nil
	case "MalformedInternalFunctionError":
		return &format.MalformedInternalFunctionError{Context: context, DeployedProgramCounter: j.DeployedProgramCounter, ConstructorProgramCounter: j.ConstructorProgramCounter}, nil
	case "CodeNotSuppliedError":
		e := &format.CodeNotSuppliedError{}
		if j.Address != nil {
			e.Address = *j.Address
		}
		return e, nil
	case "ReadErrorStack":
		return &format.ReadErrorStack{From: j.From, To: j.To}, nil
	case "ReadErrorBytes":
		location, ok := format.ParsePointerLocation(j.Location)
		if !ok {
			return nil, fmt.Errorf("unknown location %q", j.Location)
		}
		return &format.ReadErrorBytes{Location: location, Start: j.Start, Length: j.Length}, nil
	case "ReadErrorStorage":
		r, err := decodeRange(j.Range)
		if err != nil {
			return nil, err
		}
		return &format.ReadErrorStorage{Range: r}, nil
	case "ReadErrorTopic":
		return &format.ReadErrorTopic{Topic: j.Topic}, nil
	case "ReadErrorSpecial":
		return &format.ReadErrorSpecial{Special: j.Special}, nil
	case "OverlongArraysAndStringsNotImplementedError":
		length, err := parseDecimal(j.LengthAsString)
		if err != nil {
			return nil, err
		}
		dataLength, err := parseDecimal(j.DataLengthAsString)
		if err != nil {
			return nil, err
		}
		return &format.OverlongArraysAndStringsNotImplementedError{LengthAsBN: length, DataLength: dataLength}, nil
	case "OverlargePointersNotImplementedError":
		pointer, err := parseDecimal(j.PointerAsString)
		if err != nil {
			return nil, err
		}
		return &format.OverlargePointersNotImplementedError{PointerAsBN: pointer}, nil
	case "UnsupportedConstantError":
		e := &format.UnsupportedConstantError{}
		if d := j.Definition; d != nil {
			e.Definition = &format.ConstantDefinition{Kind: d.Kind, Value: d.Value, Subdenomination: d.Subdenomination, Negative: d.Negative}
		}
		return e, nil
	case "InternalFunctionInABIError":
		return &format.InternalFunctionInABIError{}, nil
	}
	return nil, fmt.Errorf("unknown error kind %q", j.Kind)
}

func encodeRange(r format.Range) (*jsonRange, error) {
	from, err := encodeSlot(r.From.Slot)
	if err != nil {
		return nil, err
	}
	to, err := encodeSlot(r.To.Slot)
	if err != nil {
		return nil, err
	}
	return &jsonRange{
		From: jsonPosition{Slot: from, Index: r.From.Index},
		To:   jsonPosition{Slot: to, Index: r.To.Index},
	}, nil
}

func decodeRange(j *jsonRange) (format.Range, error) {
	if j == nil {
		return format.Range{}, fmt.Errorf("missing range")
	}
	from, err := decodeSlot(j.From.Slot)
	if err != nil {
		return format.Range{}, err
	}
	to, err := decodeSlot(j.To.Slot)
	if err != nil {
		return format.Range{}, err
	}
	return format.Range{
		From: format.Position{Slot: from, Index: j.From.Index},
		To:   format.Position{Slot: to, Index: j.To.Index},
	}, nil
}

func encodeSlot(s *format.Slot) (*jsonSlot, error) {
	if s == nil {
		return nil, nil
	}
	j := &jsonSlot{Offset: s.Offset.Dec(), HashPath: s.HashPath}
	path, err := encodeSlot(s.Path)
	if err != nil {
		return nil, err
	}
	j.Path = path
	if s.Key != nil {
		encoded, err := encodeResult(s.Key)
		if err != nil {
			return nil, err
		}
		key, err := json.Marshal(encoded)
		if err != nil {
			return nil, err
		}
		j.Key = key
	}
	return j, nil
}

func decodeSlot(j *jsonSlot) (*format.Slot, error) {
	if j == nil {
		return nil, nil
	}
	offset, err := uint256.FromDecimal(j.Offset)
	if err != nil {
		return nil, err
	}
	s := &format.Slot{Offset: *offset, HashPath: j.HashPath}
	if s.Path, err = decodeSlot(j.Path); err != nil {
		return nil, err
	}
	if len(j.Key) > 0 {
		if s.Key, err = decodeResult(j.Key); err != nil {
			return nil, err
		}
	}
	return s, nil
}
