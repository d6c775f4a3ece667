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

package format

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Slot is a symbolic storage address. It is resolved to a concrete 256-bit
// address only when needed; see the slot package. Slots are never mutated
// once built.
type Slot struct {
	Offset   uint256.Int
	Path     *Slot
	Key      Result // elementary value; set for mapping entries
	HashPath bool
}

// NewSlot returns a root slot at the given offset.
func NewSlot(offset uint64) *Slot {
	return &Slot{Offset: *uint256.NewInt(offset)}
}

// Child returns the slot offset words after the address of s.
func (s *Slot) Child(offset uint64) *Slot {
	return &Slot{Path: s, Offset: *uint256.NewInt(offset)}
}

// HashedChild returns the slot offset words after keccak256 of the address
// of s, which is where dynamic array elements and long strings live.
func (s *Slot) HashedChild(offset uint64) *Slot {
	return &Slot{Path: s, Offset: *uint256.NewInt(offset), HashPath: true}
}

// Sibling returns a slot sharing the path of s but with offset words added.
func (s *Slot) Sibling(words uint64) *Slot {
	cpy := *s
	cpy.Offset.AddUint64(&s.Offset, words)
	return &cpy
}

// Position is a byte within a storage word.
type Position struct {
	Slot  *Slot
	Index int // 0..31, counted from the high-order end of the word
}

// Range is an inclusive span of storage bytes.
type Range struct {
	From Position
	To   Position
}

// WordRange returns the range covering words whole words starting at s.
func WordRange(s *Slot, words uint64) Range {
	return Range{
		From: Position{Slot: s, Index: 0},
		To:   Position{Slot: s.Sibling(words - 1), Index: 31},
	}
}

// ByteRange returns the range covering length bytes that start at byte
// index within the word of s. The range may span several words.
func ByteRange(s *Slot, index, length int) Range {
	end := index + length - 1
	return Range{
		From: Position{Slot: s, Index: index},
		To:   Position{Slot: s.Sibling(uint64(end / 32)), Index: end % 32},
	}
}

// PointerLocation identifies the address space a Pointer refers to.
type PointerLocation int

const (
	StackPointerLocation PointerLocation = iota
	StackLiteralPointerLocation
	MemoryPointerLocation
	StoragePointerLocation
	CalldataPointerLocation
	EventDataPointerLocation
	EventTopicPointerLocation
	CodePointerLocation
	DefinitionPointerLocation
	SpecialPointerLocation
)

var pointerLocationNames = [...]string{
	StackPointerLocation:        "stack",
	StackLiteralPointerLocation: "stackliteral",
	MemoryPointerLocation:       "memory",
	StoragePointerLocation:      "storage",
	CalldataPointerLocation:     "calldata",
	EventDataPointerLocation:    "eventdata",
	EventTopicPointerLocation:   "eventtopic",
	CodePointerLocation:         "code",
	DefinitionPointerLocation:   "definition",
	SpecialPointerLocation:      "special",
}

func (l PointerLocation) String() string {
	if int(l) < len(pointerLocationNames) {
		return pointerLocationNames[l]
	}
	return fmt.Sprintf("PointerLocation(%d)", int(l))
}

// ParsePointerLocation is the inverse of PointerLocation.String.
func ParsePointerLocation(s string) (PointerLocation, bool) {
	for i, name := range pointerLocationNames {
		if name == s {
			return PointerLocation(i), true
		}
	}
	return 0, false
}

// Pointer describes where the raw bytes of a value live.
type Pointer interface {
	Location() PointerLocation
}

// StackPointer designates the stack words From..To, inclusive, counted from
// the bottom of the stack.
type StackPointer struct {
	From, To int
}

// StackLiteralPointer carries stack words that have already been read.
type StackLiteralPointer struct {
	Literal []byte
}

type MemoryPointer struct {
	Start, Length int
}

type StoragePointer struct {
	Range Range
}

type CalldataPointer struct {
	Start, Length int
}

type EventDataPointer struct {
	Start, Length int
}

type EventTopicPointer struct {
	Topic int
}

// CodePointer designates bytes of the current contract's code, where
// immutables live.
type CodePointer struct {
	Start, Length int
}

type ConstantDefinitionPointer struct {
	Definition *ConstantDefinition
}

// SpecialPointer designates a value synthesized by the execution engine,
// such as "sender" or "timestamp", or a whole magic variable ("msg").
type SpecialPointer struct {
	Special string
}

func (*StackPointer) Location() PointerLocation              { return StackPointerLocation }
func (*StackLiteralPointer) Location() PointerLocation       { return StackLiteralPointerLocation }
func (*MemoryPointer) Location() PointerLocation             { return MemoryPointerLocation }
func (*StoragePointer) Location() PointerLocation            { return StoragePointerLocation }
func (*CalldataPointer) Location() PointerLocation           { return CalldataPointerLocation }
func (*EventDataPointer) Location() PointerLocation          { return EventDataPointerLocation }
func (*EventTopicPointer) Location() PointerLocation         { return EventTopicPointerLocation }
func (*CodePointer) Location() PointerLocation               { return CodePointerLocation }
func (*ConstantDefinitionPointer) Location() PointerLocation { return DefinitionPointerLocation }
func (*SpecialPointer) Location() PointerLocation            { return SpecialPointerLocation }

// BytesPointer returns a byte-range pointer of the given location. It panics
// for locations that are not plain byte ranges.
func BytesPointer(location PointerLocation, start, length int) Pointer {
	switch location {
	case MemoryPointerLocation:
		return &MemoryPointer{Start: start, Length: length}
	case CalldataPointerLocation:
		return &CalldataPointer{Start: start, Length: length}
	case EventDataPointerLocation:
		return &EventDataPointer{Start: start, Length: length}
	case CodePointerLocation:
		return &CodePointer{Start: start, Length: length}
	}
	panic(fmt.Sprintf("location %v is not byte addressed", location))
}

// LiteralKind is the syntactic kind of a constant's defining literal.
type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	BoolLiteral
	StringLiteral
	HexStringLiteral
)

// ConstantDefinition is the defining literal of a compile-time constant.
type ConstantDefinition struct {
	Kind            LiteralKind
	Value           string // literal text, without quotes for strings
	Subdenomination string // "wei", "gwei", "ether", "seconds", ...
	Negative        bool
}

func (d *ConstantDefinition) String() string {
	s := d.Value
	if d.Negative {
		s = "-" + s
	}
	if d.Subdenomination != "" {
		s += " " + d.Subdenomination
	}
	return s
}
