package evm

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/read"
)

func TestContextMatching(t *testing.T) {
	// library address linked at bytes [2, 6)
	linked := &Context{Context: "0xlinked", Binary: []byte{0x60, 0x80, 0, 0, 0, 0, 0x52}, Wildcards: []Wildcard{{Start: 2, Length: 4}}}
	ctor := &Context{Context: "0xctor", Binary: []byte{0x60, 0x80, 0x34}, IsConstructor: true}
	set, err := NewContextSet([]*Context{linked, ctor}, 0)
	require.NoError(t, err)

	require.Same(t, linked, set.MatchDeployed([]byte{0x60, 0x80, 0xde, 0xad, 0xbe, 0xef, 0x52}))
	// cached the second time round
	require.Same(t, linked, set.MatchDeployed([]byte{0x60, 0x80, 0xde, 0xad, 0xbe, 0xef, 0x52}))
	require.Nil(t, set.MatchDeployed([]byte{0x60, 0x81, 0xde, 0xad, 0xbe, 0xef, 0x52}))
	require.Nil(t, set.MatchDeployed([]byte{0x60, 0x80, 0, 0, 0, 0, 0x52, 0x00}))
	require.Nil(t, set.MatchDeployed(nil))

	// constructor input carries its arguments after the creation code
	require.Same(t, ctor, set.MatchConstructor([]byte{0x60, 0x80, 0x34, 0, 0, 1}))
	require.Nil(t, set.MatchDeployed([]byte{0x60, 0x80, 0x34}))

	require.Same(t, ctor, set.Get("0xctor"))
	require.Nil(t, set.Get("0xnope"))
	require.Len(t, set.All(), 2)

	var empty *ContextSet
	require.Nil(t, empty.Get("0xctor"))
	require.Nil(t, empty.MatchDeployed([]byte{1}))
}

func TestContextClass(t *testing.T) {
	ctx := &Context{ContractName: "Vault", ContractID: "vault", ContractKind: "contract", Payable: true}
	require.Equal(t, &format.ContractType{ID: "vault", TypeName: "Vault", ContractKind: "contract", Payable: true}, ctx.Class())
}

func TestHandleDecodingError(t *testing.T) {
	typ := &format.BoolType{}
	derr := &format.BoolOutOfRangeError{RawAsBN: big.NewInt(2)}

	result, err := HandleDecodingError(typ, derr, false)
	require.NoError(t, err)
	require.True(t, result.IsError())
	require.Same(t, derr, result.(*format.ErrorResult).Error.(*format.BoolOutOfRangeError))

	result, err = HandleDecodingError(typ, derr, true)
	require.Nil(t, result)
	var stop *StopDecodingError
	require.True(t, errors.As(err, &stop))
	require.Contains(t, err.Error(), "decoding stopped")
}

func TestWordConversions(t *testing.T) {
	require.Equal(t, big.NewInt(-1), ToSignedBig([]byte{0xff}))
	require.Equal(t, big.NewInt(127), ToSignedBig([]byte{0x7f}))
	require.Equal(t, big.NewInt(-256), ToSignedBig([]byte{0xff, 0x00}))
	require.Equal(t, big.NewInt(0xff00), ToBig([]byte{0xff, 0x00}))

	n, ok := ToOffset(common.BigToHash(big.NewInt(0x80)).Bytes())
	require.True(t, ok)
	require.Equal(t, 0x80, n)
	_, ok = ToOffset(common.BigToHash(big.NewInt(read.MaxOffset + 1)).Bytes())
	require.False(t, ok)
	_, ok = ToOffset(common.BigToHash(new(big.Int).Lsh(big.NewInt(1), 200)).Bytes())
	require.False(t, ok)

	require.True(t, IsZero(make([]byte, 4)))
	require.False(t, IsZero([]byte{0, 1}))
	require.True(t, AllBytes([]byte{0xff, 0xff}, 0xff))
	require.False(t, AllBytes([]byte{0xff, 0xfe}, 0xff))
}

func TestDecoderInfoDefaults(t *testing.T) {
	info := &DecoderInfo{State: &read.State{Memory: make([]byte, 64)}}
	require.NotNil(t, info.Log())
	require.False(t, info.InConstructor())
	require.Nil(t, info.StorageAllocations())
	require.Nil(t, info.MemoryAllocations())
	require.Nil(t, info.AbiAllocations())

	sizer, ok := info.Sizer()
	require.True(t, ok)
	size, known := sizer.Size(format.MemoryPointerLocation)
	require.True(t, known)
	require.Equal(t, 64, size)

	info.CurrentContext = &Context{IsConstructor: true}
	require.True(t, info.InConstructor())
}
