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

// Package read turns pointers into the raw bytes they designate.
//
// The reader owns no data. Every byte it produces is obtained from a Source,
// the collaborator that fronts a node, a debugger trace or a fixture. Source
// failures are converted to the ReadError* decoder errors and never escape as
// Go errors.
package read

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bnb-chain/bsc-codec/format"
)

// Request describes the bytes a reader needs from its Source.
//
//	stack:       words Start..Start+Length-1, counted from the bottom
//	memory, calldata, eventdata, code:
//	             bytes Start..Start+Length-1, zero padded past the end
//	storage:     the 32-byte word at Slot
//	eventtopic:  topic number Start
//	special:     the value named Special
type Request struct {
	Location format.PointerLocation
	Start    int
	Length   int
	Slot     common.Hash
	Special  string
}

func (r *Request) String() string {
	switch r.Location {
	case format.StoragePointerLocation:
		return fmt.Sprintf("storage[%s]", r.Slot.Hex())
	case format.SpecialPointerLocation:
		return fmt.Sprintf("special[%s]", r.Special)
	case format.EventTopicPointerLocation:
		return fmt.Sprintf("eventtopic[%d]", r.Start)
	}
	return fmt.Sprintf("%s[%d:%d]", r.Location, r.Start, r.Start+r.Length)
}

// Source supplies raw bytes to the reader. Requests are idempotent; the same
// request may be issued any number of times and must yield the same answer.
// A Source may return a format.DecoderError to report a specific condition,
// which the reader passes through unchanged.
type Source interface {
	Read(req *Request) ([]byte, error)
	// CodeAt returns the deployed code at address. Empty code is not an
	// error.
	CodeAt(address common.Address) ([]byte, error)
}

// Sizer is implemented by sources that know the length of their byte-addressed
// locations, and for event topics their number. Decoders use it to reject
// lengths that run past the end of the data, and in strict mode pointers too.
type Sizer interface {
	Size(location format.PointerLocation) (int, bool)
}

// MaxOffset bounds every byte offset and length the reader will request.
// Pointers and lengths beyond it are reported by the decoders as
// OverlargePointersNotImplementedError and
// OverlongArraysAndStringsNotImplementedError.
const MaxOffset = 1<<32 - 1
