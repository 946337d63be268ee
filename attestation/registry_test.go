package attestation

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRegistry(t *testing.T) {
	r := NewMemoryRegistry()
	key := hexutil.MustDecode(testCompressedPublicKey)

	_, ok := r.ExpectedSigner(ProtocolEvm, ChainEvmMainnet)
	assert.False(t, ok)

	require.NoError(t, r.SetSigner(ProtocolEvm, ChainEvmMainnet, key))
	assert.Equal(t, 1, r.Len())

	got, ok := r.ExpectedSigner(ProtocolEvm, ChainEvmMainnet)
	require.True(t, ok)
	assert.Equal(t, key, got)

	got[0] ^= 0xff
	again, _ := r.ExpectedSigner(ProtocolEvm, ChainEvmMainnet)
	assert.Equal(t, key, again, "returned keys must be copies")

	// Same chain id under another protocol is a different origin.
	_, ok = r.ExpectedSigner(ProtocolEos, ChainEvmMainnet)
	assert.False(t, ok)

	t.Run("RejectsInvalidKey", func(t *testing.T) {
		err := r.SetSigner(ProtocolEvm, ChainEvmBsc, []byte{1, 2, 3})
		assert.ErrorIs(t, err, ErrInvalidPublicKey)
		assert.Panics(t, func() { r.MustSetSigner(ProtocolEvm, ChainEvmBsc, nil) })
	})

	t.Run("AcceptsAddress", func(t *testing.T) {
		require.NoError(t, r.SetSigner(ProtocolEvm, ChainEvmGnosis, make([]byte, 20)))
	})

	t.Run("Remove", func(t *testing.T) {
		assert.True(t, r.RemoveSigner(ProtocolEvm, ChainEvmMainnet))
		assert.False(t, r.RemoveSigner(ProtocolEvm, ChainEvmMainnet))
	})
}
