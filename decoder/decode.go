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

// Package decoder is the entry point of the codec: it dispatches a type and
// pointer to the decoder of the pointer's location and decodes whole
// calldata buffers and event logs.
package decoder

import (
	"errors"

	"github.com/ethereum/go-ethereum/metrics"

	"github.com/bnb-chain/bsc-codec/abidata"
	"github.com/bnb-chain/bsc-codec/basic"
	"github.com/bnb-chain/bsc-codec/constant"
	"github.com/bnb-chain/bsc-codec/evm"
	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/memory"
	"github.com/bnb-chain/bsc-codec/special"
	"github.com/bnb-chain/bsc-codec/stack"
	"github.com/bnb-chain/bsc-codec/storage"
)

var (
	decodeCounter     = metrics.NewRegisteredCounter("codec/decode/values", nil)
	decodeStopCounter = metrics.NewRegisteredCounter("codec/decode/stops", nil)
	calldataCounter   = metrics.NewRegisteredCounter("codec/decode/calldata", nil)
	eventCounter      = metrics.NewRegisteredCounter("codec/decode/events", nil)
	eventMissCounter  = metrics.NewRegisteredCounter("codec/decode/events/nomatch", nil)
	logBatchTimer     = metrics.NewRegisteredTimer("codec/decode/logs", nil)
	variableTimer     = metrics.NewRegisteredTimer("codec/decode/variables", nil)
)

// Decode decodes the value of type t at pointer with the decoder of the
// pointer's location. Malformed data is reported inside the result; the
// error is non-nil only when options.StrictAbiMode stops decoding.
func Decode(t format.Type, pointer format.Pointer, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	decodeCounter.Inc(1)
	result, err := dispatch(t, pointer, info, options)
	if err != nil {
		decodeStopCounter.Inc(1)
	}
	return result, err
}

func dispatch(t format.Type, pointer format.Pointer, info *evm.DecoderInfo, options evm.DecoderOptions) (format.Result, error) {
	switch p := pointer.(type) {
	case *format.StackPointer:
		return stack.Decode(t, p, info, options)
	case *format.StackLiteralPointer:
		return stack.DecodeLiteral(t, p, info, options)
	case *format.MemoryPointer:
		return memory.Decode(t, p, info, options)
	case *format.StoragePointer:
		return storage.Decode(t, p, info, options)
	case *format.CalldataPointer, *format.EventDataPointer:
		return abidata.Decode(t, p, info, options)
	case *format.EventTopicPointer:
		return abidata.DecodeTopic(t, p, info, options)
	case *format.CodePointer:
		// immutables are stored as plain words in the code
		return basic.Decode(t, p, info, options)
	case *format.ConstantDefinitionPointer:
		return constant.Decode(t, p, info, options)
	case *format.SpecialPointer:
		return special.Decode(t, p, info, options)
	}
	return evm.HandleDecodingError(t, &format.ReadErrorBytes{Location: pointer.Location()}, options.StrictAbiMode)
}

// isStop reports whether err is a strict-mode stop rather than a failure of
// the byte source or of the caller.
func isStop(err error) bool {
	var stop *evm.StopDecodingError
	return errors.As(err, &stop)
}
