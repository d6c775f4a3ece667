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

package basic

import (
	"github.com/bnb-chain/bsc-codec/evm"
)

// padLeft left-pads b with zeros to at least length bytes.
func padLeft(b []byte, length int) []byte {
	if len(b) >= length {
		return b
	}
	out := make([]byte, length)
	copy(out[length-len(b):], b)
	return out
}

// padRight right-pads b with zeros to at least length bytes.
func padRight(b []byte, length int) []byte {
	if len(b) >= length {
		return b
	}
	out := make([]byte, length)
	copy(out, b)
	return out
}

// checkPaddingLeft reports whether everything but the last length bytes of b
// is zero.
func checkPaddingLeft(b []byte, length int) bool {
	return evm.IsZero(b[:len(b)-length])
}

// checkPaddingRight reports whether everything but the first length bytes of
// b is zero.
func checkPaddingRight(b []byte, length int) bool {
	return evm.IsZero(b[length:])
}

// checkPaddingSigned reports whether everything but the last length bytes of
// b is a sign extension of them.
func checkPaddingSigned(b []byte, length int) bool {
	padding := b[:len(b)-length]
	if length == 0 {
		return evm.IsZero(padding)
	}
	if b[len(b)-length]&0x80 != 0 {
		return evm.AllBytes(padding, 0xff)
	}
	return evm.IsZero(padding)
}

// removePadding returns the last length bytes of b.
func removePadding(b []byte, length int) []byte {
	return b[len(b)-length:]
}
