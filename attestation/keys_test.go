package attestation

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		seed := hexutil.MustDecode("0x" + testPrivateKey)
		key, err := GenerateKey(bytes.NewReader(seed))
		require.NoError(t, err)
		assert.Equal(t, testCompressedPublicKey, hexutil.Encode(crypto.CompressPubkey(&key.PublicKey)))
	})

	t.Run("SkipsOutOfRange", func(t *testing.T) {
		// The curve order itself is not a valid scalar, nor is zero.
		order := crypto.S256().Params().N.Bytes()
		stream := append(append(append([]byte{}, order...), make([]byte, 32)...), hexutil.MustDecode("0x"+testPrivateKey)...)
		key, err := GenerateKey(bytes.NewReader(stream))
		require.NoError(t, err)
		assert.Equal(t, testPublicKey, hexutil.Encode(crypto.FromECDSAPub(&key.PublicKey)))
	})

	t.Run("ShortEntropy", func(t *testing.T) {
		_, err := GenerateKey(bytes.NewReader(make([]byte, 10)))
		assert.Error(t, err)
	})

	t.Run("NilReader", func(t *testing.T) {
		_, err := GenerateKey(nil)
		assert.Error(t, err)
	})

	t.Run("CryptoRand", func(t *testing.T) {
		a, err := GenerateKey(rand.Reader)
		require.NoError(t, err)
		b, err := GenerateKey(rand.Reader)
		require.NoError(t, err)
		assert.False(t, a.Equal(b))
	})
}

func TestPrivateKeyParsing(t *testing.T) {
	for _, s := range []string{testPrivateKey, "0x" + testPrivateKey, "  " + testPrivateKey + "\n"} {
		key, err := PrivateKeyFromHex(s)
		require.NoError(t, err, s)
		assert.Equal(t, testCompressedPublicKey, hexutil.Encode(crypto.CompressPubkey(&key.PublicKey)))
	}

	_, err := PrivateKeyFromHex("0x1234")
	assert.Error(t, err)

	key, err := PrivateKeyFromBytes(hexutil.MustDecode("0x" + testPrivateKey))
	require.NoError(t, err)
	assert.Equal(t, testPublicKey, hexutil.Encode(crypto.FromECDSAPub(&key.PublicKey)))

	_, err = PrivateKeyFromBytes(make([]byte, 31))
	assert.Error(t, err)
	_, err = PrivateKeyFromBytes(make([]byte, 32))
	assert.Error(t, err)
}

func TestPublicKeyFromBytes(t *testing.T) {
	compressed, err := PublicKeyFromBytes(hexutil.MustDecode(testCompressedPublicKey))
	require.NoError(t, err)
	uncompressed, err := PublicKeyFromBytes(hexutil.MustDecode(testPublicKey))
	require.NoError(t, err)
	assert.True(t, compressed.Equal(uncompressed))

	for _, b := range [][]byte{nil, make([]byte, 20), make([]byte, 33), make([]byte, 65)} {
		_, err := PublicKeyFromBytes(b)
		assert.ErrorIs(t, err, ErrInvalidPublicKey)
	}
}
