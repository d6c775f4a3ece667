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

package read

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/slot"
)

// maxStorageWords bounds a single storage range read.
const maxStorageWords = MaxOffset / common.HashLength

// Read returns exactly the bytes pointer designates.
func Read(pointer format.Pointer, src Source) ([]byte, format.DecoderError) {
	switch p := pointer.(type) {
	case *format.StackPointer:
		if p.From < 0 || p.To < p.From {
			return nil, &format.ReadErrorStack{From: p.From, To: p.To}
		}
		req := &Request{Location: format.StackPointerLocation, Start: p.From, Length: p.To - p.From + 1}
		data, err := src.Read(req)
		if err != nil || len(data) != req.Length*common.HashLength {
			return nil, passThrough(err, &format.ReadErrorStack{From: p.From, To: p.To})
		}
		return data, nil

	case *format.StackLiteralPointer:
		return p.Literal, nil

	case *format.MemoryPointer:
		return readBytes(format.MemoryPointerLocation, p.Start, p.Length, src)
	case *format.CalldataPointer:
		return readBytes(format.CalldataPointerLocation, p.Start, p.Length, src)
	case *format.EventDataPointer:
		return readBytes(format.EventDataPointerLocation, p.Start, p.Length, src)
	case *format.CodePointer:
		return readBytes(format.CodePointerLocation, p.Start, p.Length, src)

	case *format.StoragePointer:
		return readStorage(p.Range, src)

	case *format.EventTopicPointer:
		data, err := src.Read(&Request{Location: format.EventTopicPointerLocation, Start: p.Topic})
		if err != nil || len(data) != common.HashLength {
			return nil, passThrough(err, &format.ReadErrorTopic{Topic: p.Topic})
		}
		return data, nil

	case *format.SpecialPointer:
		data, err := src.Read(&Request{Location: format.SpecialPointerLocation, Special: p.Special})
		if err != nil {
			return nil, passThrough(err, &format.ReadErrorSpecial{Special: p.Special})
		}
		return data, nil

	case *format.ConstantDefinitionPointer:
		return EvaluateDefinition(p.Definition)
	}
	return nil, &format.ReadErrorBytes{Location: pointer.Location()}
}

func readBytes(location format.PointerLocation, start, length int, src Source) ([]byte, format.DecoderError) {
	if start < 0 || length < 0 || start > MaxOffset || length > MaxOffset-start {
		return nil, &format.ReadErrorBytes{Location: location, Start: start, Length: length}
	}
	if length == 0 {
		return []byte{}, nil
	}
	data, err := src.Read(&Request{Location: location, Start: start, Length: length})
	if err != nil || len(data) != length {
		return nil, passThrough(err, &format.ReadErrorBytes{Location: location, Start: start, Length: length})
	}
	return data, nil
}

// readStorage fetches every word the range touches and cuts the requested
// bytes out of their concatenation.
func readStorage(r format.Range, src Source) ([]byte, format.DecoderError) {
	fail := &format.ReadErrorStorage{Range: r}
	from, err := slot.AddressInt(r.From.Slot)
	if err != nil {
		return nil, fail
	}
	to, err := slot.AddressInt(r.To.Slot)
	if err != nil {
		return nil, fail
	}
	if r.From.Index < 0 || r.From.Index >= common.HashLength || r.To.Index >= common.HashLength {
		return nil, fail
	}
	span := new(uint256.Int).Sub(to, from)
	if !span.IsUint64() || span.Uint64() >= maxStorageWords {
		return nil, fail
	}
	words := int(span.Uint64()) + 1
	end := (words-1)*common.HashLength + r.To.Index + 1
	if end <= r.From.Index {
		return []byte{}, nil
	}

	data := make([]byte, 0, words*common.HashLength)
	addr := new(uint256.Int).Set(from)
	for i := 0; i < words; i++ {
		word, err := src.Read(&Request{Location: format.StoragePointerLocation, Slot: common.Hash(addr.Bytes32())})
		if err != nil || len(word) != common.HashLength {
			return nil, passThrough(err, fail)
		}
		data = append(data, word...)
		addr.AddUint64(addr, 1)
	}
	return data[r.From.Index:end], nil
}

// passThrough returns the decoder error carried by err, if any, and fallback
// otherwise.
func passThrough(err error, fallback format.DecoderError) format.DecoderError {
	var derr format.DecoderError
	if err != nil && errors.As(err, &derr) {
		return derr
	}
	return fallback
}
