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
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/bnb-chain/bsc-codec/format"
)

var subdenominations = map[string]*big.Int{
	"":        big.NewInt(1),
	"wei":     big.NewInt(1),
	"gwei":    big.NewInt(1e9),
	"szabo":   big.NewInt(1e12),
	"finney":  big.NewInt(1e15),
	"ether":   big.NewInt(1e18),
	"seconds": big.NewInt(1),
	"minutes": big.NewInt(60),
	"hours":   big.NewInt(3600),
	"days":    big.NewInt(86400),
	"weeks":   big.NewInt(604800),
	"years":   big.NewInt(31536000),
}

// decimalLiteral matches decimal and scientific number literals, capturing
// the exponent.
var decimalLiteral = regexp.MustCompile(`^(?:[0-9]+|[0-9]*\.[0-9]+|[0-9]+\.)(?:[eE](-?[0-9]+))?$`)

// maxExponent bounds scientific notation; larger exponents cannot produce a
// 256-bit integer anyway.
const maxExponent = 200

// minInt256 is the smallest value a constant may take.
var minInt256 = new(big.Int).Neg(math.BigPow(2, 255))

// EvaluateDefinition computes the bytes of a compile-time constant. Numbers
// and booleans produce a 32-byte word, negative numbers in two's complement.
// String and hex string literals produce their raw bytes.
//
// A number literal is accepted in hex, decimal or scientific notation, with
// '_' separators and an optional subdenomination, as long as its value is an
// integer representable as int256 or uint256. Anything else is reported as
// UnsupportedConstantError.
func EvaluateDefinition(def *format.ConstantDefinition) ([]byte, format.DecoderError) {
	unsupported := &format.UnsupportedConstantError{Definition: def}
	if def == nil {
		return nil, &format.UnsupportedConstantError{Definition: &format.ConstantDefinition{}}
	}
	switch def.Kind {
	case format.BoolLiteral:
		switch def.Value {
		case "true":
			return common.LeftPadBytes([]byte{1}, 32), nil
		case "false":
			return make([]byte, 32), nil
		}
		return nil, unsupported
	case format.StringLiteral:
		return []byte(def.Value), nil
	case format.HexStringLiteral:
		raw := strings.ReplaceAll(def.Value, "_", "")
		if !strings.HasPrefix(raw, "0x") {
			raw = "0x" + raw
		}
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, unsupported
		}
		return b, nil
	case format.NumberLiteral:
		n, ok := parseNumber(def.Value, def.Subdenomination)
		if !ok {
			return nil, unsupported
		}
		if def.Negative {
			n.Neg(n)
		}
		if n.Cmp(minInt256) < 0 || n.Cmp(math.MaxBig256) > 0 {
			return nil, unsupported
		}
		return math.U256Bytes(n), nil
	}
	return nil, unsupported
}

func parseNumber(text, subdenomination string) (*big.Int, bool) {
	unit, ok := subdenominations[subdenomination]
	if !ok {
		return nil, false
	}
	text = strings.ReplaceAll(text, "_", "")
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		n, ok := new(big.Int).SetString(text[2:], 16)
		if !ok {
			return nil, false
		}
		return n.Mul(n, unit), true
	}
	m := decimalLiteral.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	if m[1] != "" {
		exp, err := strconv.Atoi(m[1])
		if err != nil || exp > maxExponent || exp < -maxExponent {
			return nil, false
		}
	}
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return nil, false
	}
	r.Mul(r, new(big.Rat).SetInt(unit))
	if !r.IsInt() {
		return nil, false
	}
	return new(big.Int).Set(r.Num()), true
}
