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

package slot

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bnb-chain/bsc-codec/format"
)

// KeyIndex is the set of mapping keys known to exist in storage, grouped by
// the address of the mapping they belong to. Storage cannot be enumerated, so
// mapping decoding is limited to these keys.
type KeyIndex struct {
	byMapping map[common.Hash][]*format.Slot
}

// NewKeyIndex indexes the given mapping entry slots. Every slot must carry a
// Key and a Path; slots that cannot be resolved are skipped, and duplicate
// entries (same mapping, same key) are kept once.
func NewKeyIndex(slots []*format.Slot) *KeyIndex {
	idx := &KeyIndex{byMapping: make(map[common.Hash][]*format.Slot)}
	seen := mapset.NewThreadUnsafeSet[common.Hash]()
	for _, s := range slots {
		if s == nil || s.Key == nil || s.Path == nil {
			continue
		}
		entry, err := Address(s)
		if err != nil || !seen.Add(entry) {
			continue
		}
		base, err := Address(s.Path)
		if err != nil {
			continue
		}
		idx.byMapping[base] = append(idx.byMapping[base], s)
	}
	return idx
}

// Keys returns the known key slots of the mapping whose base slot is base, in
// the order they were supplied.
func (idx *KeyIndex) Keys(base *format.Slot) []*format.Slot {
	if idx == nil {
		return nil
	}
	addr, err := Address(base)
	if err != nil {
		return nil
	}
	return idx.byMapping[addr]
}

// Len returns the number of distinct known keys.
func (idx *KeyIndex) Len() int {
	if idx == nil {
		return 0
	}
	n := 0
	for _, keys := range idx.byMapping {
		n += len(keys)
	}
	return n
}
