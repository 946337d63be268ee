package attestation

import (
	"crypto/ecdsa"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

const (
	// PrivateKeyLength is the size of a raw secp256k1 private key.
	PrivateKeyLength = 32
	// maxKeygenAttempts bounds rejection sampling; a 32-byte draw falls outside
	// the curve order with probability ~2^-128.
	maxKeygenAttempts = 16
)

// GenerateKey draws a secp256k1 key from rng. There is no implicit entropy
// source: callers pass crypto/rand.Reader or a deterministic reader in tests.
func GenerateKey(rng io.Reader) (*ecdsa.PrivateKey, error) {
	if rng == nil {
		return nil, errors.New("entropy source cannot be nil")
	}
	buf := make([]byte, PrivateKeyLength)
	for range maxKeygenAttempts {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return nil, errors.Wrap(err, "read entropy")
		}
		if key, err := crypto.ToECDSA(buf); err == nil {
			return key, nil
		}
	}
	return nil, errors.New("entropy source produced no valid secp256k1 scalar")
}

// PrivateKeyFromBytes converts a raw 32-byte key.
func PrivateKeyFromBytes(b []byte) (*ecdsa.PrivateKey, error) {
	if len(b) != PrivateKeyLength {
		return nil, errors.Errorf("private key must be %d bytes, got %d", PrivateKeyLength, len(b))
	}
	key, err := crypto.ToECDSA(b)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert private key to ECDSA")
	}
	return key, nil
}

// PrivateKeyFromHex parses a hex private key, with or without 0x prefix.
// Surrounding whitespace (as found in key files) is ignored.
func PrivateKeyFromHex(s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimSpace(s)
	if has0xPrefix(s) {
		s = s[2:]
	}
	key, err := crypto.HexToECDSA(s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode private key")
	}
	return key, nil
}

// PublicKeyFromBytes accepts a 33-byte compressed or 65-byte uncompressed
// secp256k1 public key.
func PublicKeyFromBytes(b []byte) (*ecdsa.PublicKey, error) {
	switch len(b) {
	case 33:
		pub, err := crypto.DecompressPubkey(b)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidPublicKey, "decompress: %v", err)
		}
		return pub, nil
	case 65:
		pub, err := crypto.UnmarshalPubkey(b)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidPublicKey, "unmarshal: %v", err)
		}
		return pub, nil
	default:
		return nil, errors.Wrapf(ErrInvalidPublicKey, "public key must be 33 or 65 bytes, got %d", len(b))
	}
}

// signerMatches compares a recovered key with an expected signer given as a
// compressed key, an uncompressed key or a 20-byte EVM address.
func signerMatches(recovered *ecdsa.PublicKey, expected []byte) (bool, error) {
	if len(expected) == common.AddressLength {
		return crypto.PubkeyToAddress(*recovered) == common.BytesToAddress(expected), nil
	}
	want, err := PublicKeyFromBytes(expected)
	if err != nil {
		return false, err
	}
	return want.X.Cmp(recovered.X) == 0 && want.Y.Cmp(recovered.Y) == 0, nil
}
