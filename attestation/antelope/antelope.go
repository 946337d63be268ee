// Package antelope renders secp256k1 keys and signatures in the string forms
// used by Antelope (EOSIO) chains: PUB_K1_, legacy EOS and SIG_K1_.
package antelope

import (
	"bytes"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // Antelope checksums are ripemd160.
)

const (
	PublicKeyPrefix       = "PUB_K1_"
	LegacyPublicKeyPrefix = "EOS"
	SignaturePrefix       = "SIG_K1_"

	// CompressedKeyLength is the size of the keys Antelope registers.
	CompressedKeyLength = 33
	// SignatureLength is header || r || s.
	SignatureLength = 65

	checksumLength = 4
	keyTypeK1      = "K1"
)

var (
	ErrInvalidKey       = errors.New("invalid antelope public key")
	ErrInvalidSignature = errors.New("invalid antelope signature")
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// checksum returns the first four bytes of ripemd160(data || suffix).
func checksum(data []byte, suffix string) []byte {
	h := ripemd160.New()
	h.Write(data)
	h.Write([]byte(suffix))
	return h.Sum(nil)[:checksumLength]
}

func encode(prefix string, data []byte, suffix string) string {
	buf := make([]byte, 0, len(data)+checksumLength)
	buf = append(buf, data...)
	buf = append(buf, checksum(data, suffix)...)
	return prefix + base58.Encode(buf)
}

func decode(s, prefix string, size int, suffix string) ([]byte, error) {
	body, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return nil, errors.Errorf("missing %s prefix", prefix)
	}
	raw, err := base58.Decode(body)
	if err != nil {
		return nil, errors.Wrap(err, "base58")
	}
	if len(raw) != size+checksumLength {
		return nil, errors.Errorf("decoded length %d, want %d", len(raw), size+checksumLength)
	}
	data, sum := raw[:size], raw[size:]
	if !bytes.Equal(sum, checksum(data, suffix)) {
		return nil, ErrChecksumMismatch
	}
	return data, nil
}

// PublicKeyString renders a compressed key as PUB_K1_...
func PublicKeyString(compressed []byte) (string, error) {
	if err := checkCompressed(compressed); err != nil {
		return "", err
	}
	return encode(PublicKeyPrefix, compressed, keyTypeK1), nil
}

// LegacyPublicKeyString renders a compressed key as EOS...
func LegacyPublicKeyString(compressed []byte) (string, error) {
	if err := checkCompressed(compressed); err != nil {
		return "", err
	}
	return encode(LegacyPublicKeyPrefix, compressed, ""), nil
}

// ParsePublicKey accepts either the PUB_K1_ or the legacy EOS form and returns
// the 33-byte compressed key after verifying its checksum.
func ParsePublicKey(s string) ([]byte, error) {
	var (
		key []byte
		err error
	)
	if strings.HasPrefix(s, PublicKeyPrefix) {
		key, err = decode(s, PublicKeyPrefix, CompressedKeyLength, keyTypeK1)
	} else {
		key, err = decode(s, LegacyPublicKeyPrefix, CompressedKeyLength, "")
	}
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidKey, "%q: %v", s, err)
	}
	if err := checkCompressed(key); err != nil {
		return nil, err
	}
	return key, nil
}

// SignatureString renders a compact header || r || s signature as SIG_K1_...
func SignatureString(sig []byte) (string, error) {
	if len(sig) != SignatureLength {
		return "", errors.Wrapf(ErrInvalidSignature, "signature must be %d bytes, got %d", SignatureLength, len(sig))
	}
	return encode(SignaturePrefix, sig, keyTypeK1), nil
}

// ParseSignature decodes a SIG_K1_ string into header || r || s.
func ParseSignature(s string) ([]byte, error) {
	sig, err := decode(s, SignaturePrefix, SignatureLength, keyTypeK1)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSignature, "%v", err)
	}
	return sig, nil
}

func checkCompressed(key []byte) error {
	if len(key) != CompressedKeyLength || (key[0] != 0x02 && key[0] != 0x03) {
		return errors.Wrapf(ErrInvalidKey, "expected a %d-byte compressed key", CompressedKeyLength)
	}
	return nil
}
