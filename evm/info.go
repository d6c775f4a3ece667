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

// Package evm carries the context every decoder works in: the byte source,
// the layout tables, the known contract contexts and the decoding options.
package evm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/log"

	"github.com/bnb-chain/bsc-codec/allocate"
	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/read"
	"github.com/bnb-chain/bsc-codec/slot"
)

// DecoderInfo is the read-only input shared by all decoders of one decoding
// session. It may be shared between concurrent decoding calls.
type DecoderInfo struct {
	State            read.Source
	UserDefinedTypes format.TypesByID
	Allocations      *allocate.Allocations
	Contexts         *ContextSet

	// CurrentContext is the context whose code is executing, if known.
	CurrentContext *Context
	// InternalFunctionsTable resolves internal function pointers of the
	// current context. Without it internal functions decode as unknown.
	InternalFunctionsTable InternalFunctionsTable
	MappingKeys            *slot.KeyIndex

	// Logger receives decoding traces. Nil means log.Root().
	Logger log.Logger

	// MaxUncheckedLength bounds lengths that cannot be held against the size
	// of their data: storage arrays in elements, long storage byte strings in
	// words, and ABI or memory data whose source does not report its size.
	// Zero means DefaultMaxUncheckedLength.
	MaxUncheckedLength int
}

// DefaultMaxUncheckedLength is the MaxUncheckedLength of a DecoderInfo that
// sets none.
const DefaultMaxUncheckedLength = 1 << 20

// Log returns the logger traces should be written to.
func (info *DecoderInfo) Log() log.Logger {
	if info.Logger != nil {
		return info.Logger
	}
	return log.Root()
}

// Sizer returns the sizer of the state, if it has one.
func (info *DecoderInfo) Sizer() (read.Sizer, bool) {
	sizer, ok := info.State.(read.Sizer)
	return sizer, ok
}

// CheckLength returns an OverlongArraysAndStringsNotImplementedError when
// count items of itemSize bytes, starting at byte start of location, run past
// the end of the data. Storage, and locations whose size the source does not
// report, hold count against MaxUncheckedLength instead.
func (info *DecoderInfo) CheckLength(location format.PointerLocation, start, count, itemSize int) *format.OverlongArraysAndStringsNotImplementedError {
	if count == 0 {
		return nil
	}
	if sizer, ok := info.Sizer(); ok && location != format.StoragePointerLocation {
		if size, known := sizer.Size(location); known {
			if start > size || int64(count)*int64(itemSize) > int64(size-start) {
				return &format.OverlongArraysAndStringsNotImplementedError{
					LengthAsBN: big.NewInt(int64(count)),
					DataLength: big.NewInt(int64(size)),
				}
			}
			return nil
		}
	}
	limit := info.MaxUncheckedLength
	if limit <= 0 {
		limit = DefaultMaxUncheckedLength
	}
	if count > limit {
		return &format.OverlongArraysAndStringsNotImplementedError{LengthAsBN: big.NewInt(int64(count))}
	}
	return nil
}

// InConstructor reports whether the current context is a constructor.
func (info *DecoderInfo) InConstructor() bool {
	return info.CurrentContext != nil && info.CurrentContext.IsConstructor
}

// StorageAllocations returns the storage table, which may be nil.
func (info *DecoderInfo) StorageAllocations() allocate.StorageAllocations {
	if info.Allocations == nil {
		return nil
	}
	return info.Allocations.Storage
}

// MemoryAllocations returns the memory table, which may be nil.
func (info *DecoderInfo) MemoryAllocations() allocate.MemoryAllocations {
	if info.Allocations == nil {
		return nil
	}
	return info.Allocations.Memory
}

// AbiAllocations returns the ABI table, which may be nil.
func (info *DecoderInfo) AbiAllocations() allocate.AbiAllocations {
	if info.Allocations == nil {
		return nil
	}
	return info.Allocations.Abi
}

// PaddingMode selects how padding is checked.
type PaddingMode int

const (
	// PaddingDefault checks every padding rule.
	PaddingDefault PaddingMode = iota
	// PaddingPermissive skips padding checks of uint, int, bytesN, fixed and
	// ufixed values. Stack values are decoded this way.
	PaddingPermissive
)

// DecoderOptions are the per-call options decoders pass down, adjusted at
// each level.
type DecoderOptions struct {
	PaddingMode PaddingMode

	// StrictAbiMode stops decoding at the first error instead of embedding
	// it, and rejects lengths and pointers that run past the data.
	StrictAbiMode bool

	// AbiPointerBase is the start of the enclosing ABI region; relative
	// pointers are resolved against it.
	AbiPointerBase int

	// LengthOverride supplies the length of a dynamic calldata value whose
	// length was read from the stack rather than from the data.
	LengthOverride *big.Int

	// MemoryVisited lists the memory addresses of the enclosing arrays and
	// structs, innermost first.
	MemoryVisited []int
}
