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

package evm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/bnb-chain/bsc-codec/read"
)

// WordSize is the size of an EVM word in bytes.
const WordSize = 32

// ToBig interprets b as an unsigned big-endian number.
func ToBig(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// ToSignedBig interprets b as a big-endian two's complement number.
func ToSignedBig(b []byte) *big.Int {
	n := ToBig(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		return n.Sub(n, math.BigPow(2, int64(8*len(b))))
	}
	return n
}

// ToOffset interprets b as an unsigned number and returns it as an int if it
// is a usable byte offset or length.
func ToOffset(b []byte) (int, bool) {
	n := ToBig(b)
	if !n.IsInt64() || n.Int64() > read.MaxOffset {
		return 0, false
	}
	return int(n.Int64()), true
}

// IsZero reports whether every byte of b is zero.
func IsZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// AllBytes reports whether every byte of b equals c.
func AllBytes(b []byte, c byte) bool {
	for _, x := range b {
		if x != c {
			return false
		}
	}
	return true
}
