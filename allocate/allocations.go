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

// Package allocate holds the layout tables the decoders consume and answers
// size and dynamic-ness questions from them. The tables are produced by the
// compiler-facing tooling; nothing here infers a layout on its own.
package allocate

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/bnb-chain/bsc-codec/format"
)

// StorageMemberAllocation places one struct member. Range is relative to the
// struct's base slot: its slots carry only an offset.
type StorageMemberAllocation struct {
	Name  string
	Type  format.Type
	Range format.Range
}

type StorageAllocation struct {
	Size    StorageLength
	Members []*StorageMemberAllocation
}

// StorageAllocations is keyed by struct type id.
type StorageAllocations map[string]*StorageAllocation

// MemoryMemberAllocation places one struct member at a byte offset from the
// start of the struct. Mappings occupy no memory and have zero Length.
type MemoryMemberAllocation struct {
	Name   string
	Type   format.Type
	Start  int
	Length int
}

type MemoryAllocation struct {
	Members []*MemoryMemberAllocation
}

// MemoryAllocations is keyed by struct type id.
type MemoryAllocations map[string]*MemoryAllocation

// AbiMemberAllocation places one struct member at a byte offset from the
// start of the struct's head.
type AbiMemberAllocation struct {
	Name   string
	Type   format.Type
	Start  int
	Length int
}

type AbiAllocation struct {
	Length  int // size of the head, in bytes
	Dynamic bool
	Members []*AbiMemberAllocation
}

// AbiAllocations is keyed by struct type id.
type AbiAllocations map[string]*AbiAllocation

// ArgumentAllocation places one function or event argument. Start is an
// absolute offset into calldata or event data; for indexed event arguments
// Topic is used instead.
type ArgumentAllocation struct {
	Name    string
	Type    format.Type
	Start   int
	Length  int
	Indexed bool
	Topic   int
}

// CalldataAllocation lays out the arguments of one function or constructor.
// Offset is where the argument tuple begins: 4 for functions, the length of
// the creation code for constructors.
type CalldataAllocation struct {
	Offset    int
	Arguments []*ArgumentAllocation
}

// CalldataAllocations is keyed by context hash.
type CalldataAllocations struct {
	Constructors map[string]*CalldataAllocation
	Functions    map[string]map[[4]byte]*CalldataAllocation
}

// EventAllocation lays out the arguments of one event as emitted by one
// contract context.
type EventAllocation struct {
	Name         string
	Selector     common.Hash // zero for anonymous events
	Anonymous    bool
	TopicCount   int
	ContextHash  string
	ContractName string
	Arguments    []*ArgumentAllocation
}

// EventAllocations is every known event layout.
type EventAllocations []*EventAllocation

// Allocations groups every table the decoders consume.
type Allocations struct {
	Storage  StorageAllocations
	Memory   MemoryAllocations
	Abi      AbiAllocations
	Calldata CalldataAllocations
	Events   EventAllocations
}
