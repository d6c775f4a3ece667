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

package abidata

import (
	"github.com/bnb-chain/bsc-codec/basic"
	"github.com/bnb-chain/bsc-codec/evm"
	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/read"
)

// DecodeTopic decodes an indexed event parameter. Indexed reference types are
// stored as the hash of their encoding and cannot be recovered; they decode
// to an IndexedReferenceTypeError carrying the topic, in strict mode too.
func DecodeTopic(t format.Type, pointer *format.EventTopicPointer, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	if format.IsReferenceType(t) || t.TypeClass() == format.TupleClass {
		raw, err := read.Read(pointer, info.State)
		if err != nil {
			return evm.HandleDecodingError(t, err, options.StrictAbiMode)
		}
		return format.NewError(t, &format.IndexedReferenceTypeError{Type: t, Raw: raw}), nil
	}
	return basic.Decode(t, pointer, info, options)
}
