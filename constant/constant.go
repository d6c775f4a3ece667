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

// Package constant decodes compile-time constants from their defining
// literals.
package constant

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/bnb-chain/bsc-codec/basic"
	"github.com/bnb-chain/bsc-codec/evm"
	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/read"
)

// Decode decodes the constant defined at pointer as a value of type t.
//
// A number literal assigned to a bytesN constant evaluates to a word holding
// the bytes at its low-order end; they are moved to the front before
// decoding. String and hex string literals already hold their bytes in order.
func Decode(t format.Type, pointer *format.ConstantDefinitionPointer, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	bytesType, ok := t.(*format.BytesStaticType)
	if !ok || pointer.Definition == nil || pointer.Definition.Kind != format.NumberLiteral {
		return basic.Decode(t, pointer, info, options)
	}
	word, err := read.Read(pointer, info.State)
	if err != nil {
		return evm.HandleDecodingError(t, err, options.StrictAbiMode)
	}
	word = common.LeftPadBytes(word, evm.WordSize)
	shifted := &format.StackLiteralPointer{Literal: word[evm.WordSize-bytesType.Length:]}
	return basic.Decode(t, shifted, info, options)
}
