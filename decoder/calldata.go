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

package decoder

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/bnb-chain/bsc-codec/allocate"
	"github.com/bnb-chain/bsc-codec/evm"
	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/log"
	"github.com/bnb-chain/bsc-codec/read"
)

const selectorLength = 4

// CalldataKind classifies a decoded call.
type CalldataKind int

const (
	// CalldataUnknown is a call into code no context matches.
	CalldataUnknown CalldataKind = iota
	// CalldataFunction is a call of a known function.
	CalldataFunction
	// CalldataConstructor is a contract creation.
	CalldataConstructor
	// CalldataMessage is a call that reaches the fallback or receive
	// function, or one whose selector is not recognized.
	CalldataMessage
)

func (k CalldataKind) String() string {
	switch k {
	case CalldataFunction:
		return "function"
	case CalldataConstructor:
		return "constructor"
	case CalldataMessage:
		return "message"
	}
	return "unknown"
}

// Argument is one decoded function or event argument.
type Argument struct {
	Name    string
	Value   format.Result
	Indexed bool
}

// CalldataDecoding is the interpretation of a call's input.
type CalldataDecoding struct {
	Kind  CalldataKind
	Class *format.ContractType
	// Abi is the called function or constructor. For messages it is the
	// fallback or receive function if the contract has one.
	Abi       *abi.Method
	Selector  [selectorLength]byte
	Arguments []Argument
	// Data is the raw input for unknown calls and messages.
	Data []byte
}

// DecodeCalldata decodes the input of a call into info.CurrentContext. The
// input is read as the special "data".
func DecodeCalldata(info *evm.DecoderInfo, options evm.DecoderOptions) (*CalldataDecoding, error) {
	calldataCounter.Inc(1)
	data, rerr := read.Read(&format.SpecialPointer{Special: "data"}, info.State)
	if rerr != nil {
		return nil, rerr
	}
	ctx := info.CurrentContext
	if ctx == nil {
		return &CalldataDecoding{Kind: CalldataUnknown, Data: data}, nil
	}
	decoding := &CalldataDecoding{Class: ctx.Class()}

	var allocation *allocate.CalldataAllocation
	if info.Allocations != nil {
		allocations := info.Allocations.Calldata
		if ctx.IsConstructor {
			allocation = allocations.Constructors[ctx.Context]
		} else if len(data) >= selectorLength {
			copy(decoding.Selector[:], data[:selectorLength])
			allocation = allocations.Functions[ctx.Context][decoding.Selector]
		}
	}
	if allocation == nil {
		decoding.Kind = CalldataMessage
		decoding.Data = data
		decoding.Abi = messageAbi(ctx, len(data) == 0)
		log.TraceIf(info.Log(), decoding.Abi == nil, "Message reaches no fallback", "contract", ctx.ContractName, "selector", decoding.Selector)
		return decoding, nil
	}

	if ctx.IsConstructor {
		decoding.Kind = CalldataConstructor
		if ctx.Abi != nil {
			decoding.Abi = &ctx.Abi.Constructor
		}
	} else {
		decoding.Kind = CalldataFunction
		if ctx.Abi != nil {
			if method, err := ctx.Abi.MethodById(decoding.Selector[:]); err == nil {
				decoding.Abi = method
			}
		}
	}

	options.AbiPointerBase = allocation.Offset
	for _, argument := range allocation.Arguments {
		t := format.SpecifyLocation(argument.Type, format.CalldataLocation)
		value, err := Decode(t, &format.CalldataPointer{Start: argument.Start, Length: argument.Length}, info, options)
		if err != nil {
			return nil, err
		}
		decoding.Arguments = append(decoding.Arguments, Argument{Name: argument.Name, Value: value})
	}
	info.Log().Trace("Decoded calldata", "contract", ctx.ContractName, "kind", decoding.Kind, "args", len(decoding.Arguments))
	return decoding, nil
}

// messageAbi returns the function a message call reaches: receive for empty
// input when the contract has one, fallback otherwise.
func messageAbi(ctx *evm.Context, empty bool) *abi.Method {
	if ctx.Abi == nil {
		return nil
	}
	if empty && ctx.Abi.HasReceive() {
		return &ctx.Abi.Receive
	}
	if ctx.Abi.HasFallback() {
		return &ctx.Abi.Fallback
	}
	return nil
}

// Selector returns the function selector of a signature such as
// "transfer(address,uint256)".
func Selector(signature string) [selectorLength]byte {
	var selector [selectorLength]byte
	copy(selector[:], crypto.Keccak256([]byte(signature)))
	return selector
}
