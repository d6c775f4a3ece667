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

// Package slot resolves symbolic storage slots to concrete 256-bit storage
// addresses.
package slot

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"

	"github.com/bnb-chain/bsc-codec/format"
)

// hasher computes keccak256 digests of slot preimages.
type hasher struct{ sha crypto.KeccakState }

var hasherPool = sync.Pool{
	New: func() interface{} { return &hasher{sha: sha3.NewLegacyKeccak256().(crypto.KeccakState)} },
}

func newHasher() *hasher {
	return hasherPool.Get().(*hasher)
}

func (h *hasher) hash(data ...[]byte) common.Hash {
	var out common.Hash
	h.sha.Reset()
	for _, b := range data {
		h.sha.Write(b)
	}
	h.sha.Read(out[:])
	return out
}

func (h *hasher) release() {
	hasherPool.Put(h)
}

// Address resolves s to its storage address:
//
//	key set:       keccak256(encode(key) ++ address(path)) + offset
//	hashed path:   keccak256(address(path)) + offset
//	path:          address(path) + offset
//	otherwise:     offset
//
// All arithmetic wraps modulo 2^256.
func Address(s *format.Slot) (common.Hash, error) {
	addr, err := resolve(s)
	if err != nil {
		return common.Hash{}, err
	}
	return common.Hash(addr.Bytes32()), nil
}

// AddressInt is Address as a number.
func AddressInt(s *format.Slot) (*uint256.Int, error) {
	return resolve(s)
}

func resolve(s *format.Slot) (*uint256.Int, error) {
	if s == nil {
		return nil, fmt.Errorf("nil slot")
	}
	if s.Path == nil {
		if s.Key != nil {
			return nil, fmt.Errorf("mapping key slot without path")
		}
		return new(uint256.Int).Set(&s.Offset), nil
	}
	base, err := resolve(s.Path)
	if err != nil {
		return nil, err
	}
	if s.Key == nil && !s.HashPath {
		return base.Add(base, &s.Offset), nil
	}
	baseWord := base.Bytes32()

	h := newHasher()
	defer h.release()

	var digest common.Hash
	if s.Key != nil {
		key, err := EncodeMappingKey(s.Key)
		if err != nil {
			return nil, err
		}
		digest = h.hash(key, baseWord[:])
	} else {
		digest = h.hash(baseWord[:])
	}
	addr := new(uint256.Int).SetBytes32(digest[:])
	return addr.Add(addr, &s.Offset), nil
}

// EncodeMappingKey returns the preimage contribution of a mapping key. Value
// types are encoded as one ABI word; strings and dynamic bytes contribute
// their raw bytes.
func EncodeMappingKey(key format.Result) ([]byte, error) {
	switch v := key.(type) {
	case *format.UintValue:
		return word(v.Value), nil
	case *format.IntValue:
		return word(v.Value), nil
	case *format.EnumValue:
		return word(v.Numeric), nil
	case *format.BoolValue:
		if v.Value {
			return word(common.Big1), nil
		}
		return word(common.Big0), nil
	case *format.AddressValue:
		return common.LeftPadBytes(v.Value.Bytes(), 32), nil
	case *format.ContractValue:
		return common.LeftPadBytes(v.Value.Address.Bytes(), 32), nil
	case *format.BytesStaticValue:
		return common.RightPadBytes(v.Value, 32), nil
	case *format.BytesDynamicValue:
		return common.CopyBytes(v.Value), nil
	case *format.StringValue:
		if v.Malformed {
			return common.CopyBytes(v.Raw), nil
		}
		return []byte(v.Value), nil
	}
	return nil, fmt.Errorf("cannot use %T as a mapping key", key)
}

// word is the 32-byte two's complement encoding of x.
func word(x *big.Int) []byte {
	return math.U256Bytes(new(big.Int).Set(x))
}
