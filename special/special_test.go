package special

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/bnb-chain/bsc-codec/evm"
	"github.com/bnb-chain/bsc-codec/format"
	"github.com/bnb-chain/bsc-codec/read"
)

var sender = common.HexToAddress("0x00000000000000000000000000000000000000aa")

func newInfo() *evm.DecoderInfo {
	return &evm.DecoderInfo{State: &read.State{
		Calldata: common.FromHex("0xa9059cbb0000000000000000000000000000000000000000000000000000000000000001"),
		Specials: map[string][]byte{
			"sender":    sender.Bytes(),
			"value":     big.NewInt(1000).Bytes(),
			"timestamp": big.NewInt(1700000000).Bytes(),
			"chainid":   big.NewInt(56).Bytes(),
		},
	}}
}

func TestMessage(t *testing.T) {
	result, err := Decode(MagicType(format.MagicMessage), &format.SpecialPointer{Special: "msg"}, newInfo(), evm.DecoderOptions{})
	require.NoError(t, err)
	msg := result.(*format.MagicValue).Value
	require.Len(t, msg, 4)
	require.Equal(t, common.FromHex("0xa9059cbb"), msg["sig"].(*format.BytesStaticValue).Value)
	require.Len(t, msg["data"].(*format.BytesDynamicValue).Value, 36)
	require.Equal(t, sender, msg["sender"].(*format.AddressValue).Value)
	require.Equal(t, big.NewInt(1000), msg["value"].(*format.UintValue).Value)
}

func TestBlockWithMissingMembers(t *testing.T) {
	result, err := Decode(&format.MagicType{}, &format.SpecialPointer{Special: "block"}, newInfo(), evm.DecoderOptions{})
	require.NoError(t, err)
	block := result.(*format.MagicValue).Value
	require.Len(t, block, 7)
	require.Equal(t, big.NewInt(56), block["chainid"].(*format.UintValue).Value)
	require.Equal(t, &format.ReadErrorSpecial{Special: "coinbase"}, block["coinbase"].(*format.ErrorResult).Error)

	_, err = Decode(&format.MagicType{}, &format.SpecialPointer{Special: "block"}, newInfo(), evm.DecoderOptions{StrictAbiMode: true})
	var stop *evm.StopDecodingError
	require.ErrorAs(t, err, &stop)
}

func TestSingleSpecial(t *testing.T) {
	result, err := Decode(&format.UintType{Bits: 256}, &format.SpecialPointer{Special: "timestamp"}, newInfo(), evm.DecoderOptions{})
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1700000000), result.(*format.UintValue).Value)
}

func TestUnknownVariable(t *testing.T) {
	result, err := Decode(&format.MagicType{}, &format.SpecialPointer{Special: "abi"}, newInfo(), evm.DecoderOptions{})
	require.NoError(t, err)
	require.True(t, result.IsError())
}
