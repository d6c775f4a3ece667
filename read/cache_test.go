package read

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/bnb-chain/bsc-codec/format"
)

type countingSource struct {
	State
	reads, codes int
	fail         bool
}

func (c *countingSource) Read(req *Request) ([]byte, error) {
	c.reads++
	if c.fail {
		return nil, &format.ReadErrorSpecial{Special: "boom"}
	}
	return c.State.Read(req)
}

func (c *countingSource) CodeAt(address common.Address) ([]byte, error) {
	c.codes++
	if c.fail {
		return nil, errors.New("boom")
	}
	return c.State.CodeAt(address)
}

func TestCachedSource(t *testing.T) {
	addr := common.HexToAddress("0x1234")
	src := &countingSource{State: State{
		Memory:  []byte{1, 2, 3},
		Storage: map[common.Hash]common.Hash{{}: common.HexToHash("0x07")},
		Codes:   map[common.Address][]byte{addr: {0x60, 0x80}},
	}}
	cached := NewCachedSource(src, CacheConfig{})

	for i := 0; i < 3; i++ {
		word, err := cached.Read(&Request{Location: format.StoragePointerLocation})
		require.NoError(t, err)
		require.Equal(t, common.HexToHash("0x07").Bytes(), word)

		code, err := cached.CodeAt(addr)
		require.NoError(t, err)
		require.Equal(t, []byte{0x60, 0x80}, code)

		_, err = cached.Read(&Request{Location: format.MemoryPointerLocation, Start: 0, Length: 2})
		require.NoError(t, err)
	}
	// memory reads are not cached
	require.Equal(t, 4, src.reads)
	require.Equal(t, 1, src.codes)

	size, ok := cached.Size(format.MemoryPointerLocation)
	require.True(t, ok)
	require.Equal(t, 3, size)

	// empty code is cached too
	other := common.HexToAddress("0x9999")
	code, err := cached.CodeAt(other)
	require.NoError(t, err)
	require.Empty(t, code)
	_, _ = cached.CodeAt(other)
	require.Equal(t, 2, src.codes)
}

func TestCachedSourceErrors(t *testing.T) {
	src := &countingSource{fail: true}
	cached := NewCachedSource(src, CacheConfig{})

	_, err := cached.Read(&Request{Location: format.StoragePointerLocation})
	require.Error(t, err)
	// the decoder error survives wrapping
	_, derr := Read(&format.StoragePointer{Range: format.WordRange(format.NewSlot(0), 1)}, cached)
	require.Equal(t, &format.ReadErrorSpecial{Special: "boom"}, derr)

	_, err = cached.CodeAt(common.Address{})
	require.Error(t, err)
}
