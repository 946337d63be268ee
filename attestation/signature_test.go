package attestation

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSignature(t *testing.T) {
	sig, err := ParseEvmSignature(hexutil.MustDecode(evmMainnetSignature))
	require.NoError(t, err)
	assert.Equal(t, byte(1), sig.RecoveryID)

	t.Run("EvmLegacy", func(t *testing.T) {
		assert.Equal(t, evmMainnetSignature, hexutil.Encode(FormatForEvm(sig, EvmLegacyV)))
	})

	t.Run("EvmTyped", func(t *testing.T) {
		out := FormatForEvm(sig, EvmTypedV)
		assert.Equal(t, byte(1), out[64])
		assert.Equal(t, hexutil.MustDecode(evmMainnetSignature)[:64], out[:64])
	})

	t.Run("Eos", func(t *testing.T) {
		out := FormatForEos(sig)
		require.Len(t, out, SignatureLength)
		assert.Equal(t, byte(32), out[0])
		assert.Equal(t, sig.R[:], out[1:33])
		assert.Equal(t, sig.S[:], out[33:])
	})

	t.Run("Dispatch", func(t *testing.T) {
		out, err := Format(sig, FormatEvm)
		require.NoError(t, err)
		assert.Equal(t, FormatForEvm(sig, EvmLegacyV), out)

		out, err = Format(sig, FormatEos)
		require.NoError(t, err)
		assert.Equal(t, FormatForEos(sig), out)

		_, err = Format(sig, SignatureFormat(9))
		assert.Error(t, err)
	})
}

func TestParseSignature(t *testing.T) {
	legacy := hexutil.MustDecode(evmMainnetSignature)
	want, err := ParseEvmSignature(legacy)
	require.NoError(t, err)

	t.Run("EvmTypedV", func(t *testing.T) {
		typed := FormatForEvm(want, EvmTypedV)
		got, err := ParseEvmSignature(typed)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("EosHeaders", func(t *testing.T) {
		a, err := ParseEosSignature(hexutil.MustDecode(eosMainnetLegacySignature))
		require.NoError(t, err)
		b, err := ParseEosSignature(hexutil.MustDecode(eosMainnetSignature))
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Equal(t, byte(0), a.RecoveryID)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		for _, f := range []SignatureFormat{FormatEvm, FormatEos} {
			out, err := Format(want, f)
			require.NoError(t, err)
			got, err := ParseSignature(out, f)
			require.NoError(t, err, f.String())
			assert.Equal(t, want, got)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		cases := map[string]struct {
			sig    []byte
			format SignatureFormat
		}{
			"evm short":     {legacy[:64], FormatEvm},
			"evm bad v":     {append(append([]byte{}, legacy[:64]...), 29), FormatEvm},
			"eos bad head":  {append([]byte{26}, legacy[:64]...), FormatEos},
			"eos high head": {append([]byte{35}, legacy[:64]...), FormatEos},
			"zero r":        {make([]byte, SignatureLength), FormatEvm},
			"unknown":       {legacy, SignatureFormat(0)},
		}
		for name, tc := range cases {
			_, err := ParseSignature(tc.sig, tc.format)
			assert.ErrorIs(t, err, ErrMalformedSignature, name)
		}
	})

	t.Run("HighS", func(t *testing.T) {
		n := crypto.S256().Params().N
		s := new(big.Int).SetBytes(want.S[:])
		highS := new(big.Int).Sub(n, s)

		malleable := want
		highS.FillBytes(malleable.S[:])
		malleable.RecoveryID ^= 1

		_, err := ParseEvmSignature(FormatForEvm(malleable, EvmLegacyV))
		assert.ErrorIs(t, err, ErrMalformedSignature)
	})
}

func TestParseSignatureFormat(t *testing.T) {
	f, err := ParseSignatureFormat("evm")
	require.NoError(t, err)
	assert.Equal(t, FormatEvm, f)

	f, err = ParseSignatureFormat("eos")
	require.NoError(t, err)
	assert.Equal(t, FormatEos, f)

	_, err = ParseSignatureFormat("EVM")
	assert.Error(t, err)
}
