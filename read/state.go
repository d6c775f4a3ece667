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
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bnb-chain/bsc-codec/format"
)

var (
	errStackUnderflow = errors.New("stack index out of range")
	errNoTopic        = errors.New("no such topic")
	errNoSpecial      = errors.New("no such special")
)

// State is an in-memory Source holding a snapshot of everything a decoder can
// read. It is safe for concurrent readers once populated.
type State struct {
	Stack     []common.Hash // bottom first
	Memory    []byte
	Calldata  []byte
	EventData []byte
	Topics    []common.Hash

	// Code is the code of the contract being decoded, where immutables live.
	// A nil Code reports CodeNotSuppliedError.
	Code        []byte
	CodeAddress common.Address

	// Storage holds the storage words of the contract; missing words read as
	// zero.
	Storage map[common.Hash]common.Hash

	// Specials holds the magic values (sender, value, origin, ...). The
	// special "data" is always Calldata.
	Specials map[string][]byte

	// Codes is the deployed code of other accounts, for contract and external
	// function resolution.
	Codes map[common.Address][]byte
}

// Read implements Source.
func (s *State) Read(req *Request) ([]byte, error) {
	switch req.Location {
	case format.StackPointerLocation:
		if req.Start < 0 || req.Length < 0 || req.Start+req.Length > len(s.Stack) {
			return nil, errStackUnderflow
		}
		out := make([]byte, 0, req.Length*common.HashLength)
		for _, w := range s.Stack[req.Start : req.Start+req.Length] {
			out = append(out, w[:]...)
		}
		return out, nil
	case format.MemoryPointerLocation:
		return sliceZeroPadded(s.Memory, req.Start, req.Length), nil
	case format.CalldataPointerLocation:
		return sliceZeroPadded(s.Calldata, req.Start, req.Length), nil
	case format.EventDataPointerLocation:
		return sliceZeroPadded(s.EventData, req.Start, req.Length), nil
	case format.CodePointerLocation:
		if s.Code == nil {
			return nil, &format.CodeNotSuppliedError{Address: s.CodeAddress}
		}
		return sliceZeroPadded(s.Code, req.Start, req.Length), nil
	case format.StoragePointerLocation:
		w := s.Storage[req.Slot]
		return w.Bytes(), nil
	case format.EventTopicPointerLocation:
		if req.Start < 0 || req.Start >= len(s.Topics) {
			return nil, errNoTopic
		}
		return s.Topics[req.Start].Bytes(), nil
	case format.SpecialPointerLocation:
		if req.Special == "data" {
			return common.CopyBytes(s.Calldata), nil
		}
		v, ok := s.Specials[req.Special]
		if !ok {
			return nil, errNoSpecial
		}
		return common.CopyBytes(v), nil
	}
	return nil, fmt.Errorf("unsupported read location %v", req.Location)
}

// CodeAt implements Source.
func (s *State) CodeAt(address common.Address) ([]byte, error) {
	return s.Codes[address], nil
}

// Size implements Sizer.
func (s *State) Size(location format.PointerLocation) (int, bool) {
	switch location {
	case format.MemoryPointerLocation:
		return len(s.Memory), true
	case format.CalldataPointerLocation:
		return len(s.Calldata), true
	case format.EventDataPointerLocation:
		return len(s.EventData), true
	case format.EventTopicPointerLocation:
		return len(s.Topics), true
	case format.CodePointerLocation:
		return len(s.Code), s.Code != nil
	}
	return 0, false
}

// sliceZeroPadded returns data[start:start+length], reading zeros past the end
// of data.
func sliceZeroPadded(data []byte, start, length int) []byte {
	out := make([]byte, length)
	if start < len(data) {
		copy(out, data[start:])
	}
	return out
}
