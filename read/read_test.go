package read

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/slot"
)

func TestReadStack(t *testing.T) {
	state := &State{Stack: []common.Hash{common.HexToHash("0x01"), common.HexToHash("0x02"), common.HexToHash("0x03")}}

	data, err := Read(&format.StackPointer{From: 1, To: 2}, state)
	require.Nil(t, err)
	require.Equal(t, append(common.HexToHash("0x02").Bytes(), common.HexToHash("0x03").Bytes()...), data)

	_, err = Read(&format.StackPointer{From: 2, To: 3}, state)
	require.IsType(t, &format.ReadErrorStack{}, err)
}

func TestReadBytesZeroPadded(t *testing.T) {
	state := &State{Memory: []byte{1, 2, 3}, Calldata: []byte{0xaa}}

	data, err := Read(&format.MemoryPointer{Start: 1, Length: 4}, state)
	require.Nil(t, err)
	require.Equal(t, []byte{2, 3, 0, 0}, data)

	data, err = Read(&format.CalldataPointer{Start: 10, Length: 2}, state)
	require.Nil(t, err)
	require.Equal(t, []byte{0, 0}, data)

	data, err = Read(&format.EventDataPointer{Start: 0, Length: 0}, state)
	require.Nil(t, err)
	require.Empty(t, data)

	_, err = Read(&format.MemoryPointer{Start: -1, Length: 1}, state)
	require.IsType(t, &format.ReadErrorBytes{}, err)
	_, err = Read(&format.MemoryPointer{Start: MaxOffset, Length: 2}, state)
	require.IsType(t, &format.ReadErrorBytes{}, err)
}

func TestReadCodeNotSupplied(t *testing.T) {
	addr := common.HexToAddress("0xc0de")
	_, err := Read(&format.CodePointer{Start: 0, Length: 32}, &State{CodeAddress: addr})
	require.Equal(t, &format.CodeNotSuppliedError{Address: addr}, err)
}

func TestReadStorageRange(t *testing.T) {
	w0 := common.HexToHash("0x000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	w1 := common.HexToHash("0x202122232425262728292a2b2c2d2e2f303132333435363738393a3b3c3d3e3f")
	state := &State{Storage: map[common.Hash]common.Hash{
		common.BigToHash(big.NewInt(4)): w0,
		common.BigToHash(big.NewInt(5)): w1,
	}}

	// a sub-range of one word
	data, err := Read(&format.StoragePointer{Range: format.ByteRange(format.NewSlot(4), 30, 2)}, state)
	require.Nil(t, err)
	require.Equal(t, []byte{0x1e, 0x1f}, data)

	// spanning two words
	data, err = Read(&format.StoragePointer{Range: format.ByteRange(format.NewSlot(4), 31, 3)}, state)
	require.Nil(t, err)
	require.Equal(t, []byte{0x1f, 0x20, 0x21}, data)

	data, err = Read(&format.StoragePointer{Range: format.WordRange(format.NewSlot(4), 2)}, state)
	require.Nil(t, err)
	require.Equal(t, append(w0.Bytes(), w1.Bytes()...), data)

	// missing words read as zero
	data, err = Read(&format.StoragePointer{Range: format.WordRange(format.NewSlot(9), 1)}, state)
	require.Nil(t, err)
	require.Equal(t, make([]byte, 32), data)

	data, err = Read(&format.StoragePointer{Range: format.ByteRange(format.NewSlot(4), 0, 0)}, state)
	require.Nil(t, err)
	require.Empty(t, data)
}

type failingSource struct{ State }

func (f *failingSource) Read(req *Request) ([]byte, error) {
	if req.Location == format.StoragePointerLocation {
		return nil, errors.New("node unavailable")
	}
	return f.State.Read(req)
}

func TestReadStorageFailure(t *testing.T) {
	r := format.WordRange(format.NewSlot(0), 1)
	_, err := Read(&format.StoragePointer{Range: r}, &failingSource{})
	require.Equal(t, &format.ReadErrorStorage{Range: r}, err)
}

func TestReadTopicsAndSpecials(t *testing.T) {
	state := &State{
		Calldata: []byte{0xde, 0xad},
		Topics:   []common.Hash{common.HexToHash("0xff")},
		Specials: map[string][]byte{"sender": common.LeftPadBytes([]byte{1}, 32)},
	}
	data, err := Read(&format.EventTopicPointer{Topic: 0}, state)
	require.Nil(t, err)
	require.Equal(t, common.HexToHash("0xff").Bytes(), data)

	_, err = Read(&format.EventTopicPointer{Topic: 1}, state)
	require.Equal(t, &format.ReadErrorTopic{Topic: 1}, err)

	data, err = Read(&format.SpecialPointer{Special: "data"}, state)
	require.Nil(t, err)
	require.Equal(t, []byte{0xde, 0xad}, data)

	_, err = Read(&format.SpecialPointer{Special: "timestamp"}, state)
	require.Equal(t, &format.ReadErrorSpecial{Special: "timestamp"}, err)
}

func TestReadStorageMappingEntry(t *testing.T) {
	entry := &format.Slot{Path: format.NewSlot(0), Key: &format.UintValue{Type: &format.UintType{Bits: 256}, Value: big.NewInt(1)}}
	addr, derr := slot.Address(entry)
	require.NoError(t, derr)
	state := &State{Storage: map[common.Hash]common.Hash{addr: common.HexToHash("0x2a")}}

	data, err := Read(&format.StoragePointer{Range: format.ByteRange(entry, 31, 1)}, state)
	require.Nil(t, err)
	assert.Equal(t, []byte{0x2a}, data)
}

func TestEvaluateDefinition(t *testing.T) {
	word := func(n int64) []byte { return common.BigToHash(big.NewInt(n)).Bytes() }
	tests := []struct {
		name string
		def  format.ConstantDefinition
		want []byte
	}{
		{"decimal", format.ConstantDefinition{Kind: format.NumberLiteral, Value: "1_000"}, word(1000)},
		{"hex", format.ConstantDefinition{Kind: format.NumberLiteral, Value: "0xff"}, word(255)},
		{"scientific", format.ConstantDefinition{Kind: format.NumberLiteral, Value: "2.5e3"}, word(2500)},
		{"fraction with unit", format.ConstantDefinition{Kind: format.NumberLiteral, Value: "0.5", Subdenomination: "gwei"}, word(500000000)},
		{"time unit", format.ConstantDefinition{Kind: format.NumberLiteral, Value: "2", Subdenomination: "days"}, word(172800)},
		{"negative", format.ConstantDefinition{Kind: format.NumberLiteral, Value: "1", Negative: true}, common.FromHex("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")},
		{"bool", format.ConstantDefinition{Kind: format.BoolLiteral, Value: "true"}, word(1)},
		{"string", format.ConstantDefinition{Kind: format.StringLiteral, Value: "hi"}, []byte("hi")},
		{"hex string", format.ConstantDefinition{Kind: format.HexStringLiteral, Value: "00_ff"}, []byte{0x00, 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(&format.ConstantDefinitionPointer{Definition: &tt.def}, &State{})
			require.Nil(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateDefinitionUnsupported(t *testing.T) {
	for _, def := range []*format.ConstantDefinition{
		{Kind: format.NumberLiteral, Value: "1.5"},
		{Kind: format.NumberLiteral, Value: "1/2"},
		{Kind: format.NumberLiteral, Value: "1e80"},
		{Kind: format.NumberLiteral, Value: "1e100000"},
		{Kind: format.NumberLiteral, Value: "1", Subdenomination: "fortnights"},
		{Kind: format.BoolLiteral, Value: "maybe"},
	} {
		_, err := EvaluateDefinition(def)
		require.Equal(t, &format.UnsupportedConstantError{Definition: def}, err, def.String())
	}
}
