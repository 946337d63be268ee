package attestation

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// SignatureLength is the size of every formatted signature.
const SignatureLength = 65

// Signature is a secp256k1 signature with its recovery id, independent of any
// chain's wire format.
type Signature struct {
	R          [32]byte
	S          [32]byte
	RecoveryID byte
}

// signatureFromRaw splits go-ethereum's [R || S || V] form with V in {0,1}.
func signatureFromRaw(raw []byte) Signature {
	var sig Signature
	copy(sig.R[:], raw[:32])
	copy(sig.S[:], raw[32:64])
	sig.RecoveryID = raw[64]
	return sig
}

// raw returns the [R || S || V] form expected by go-ethereum's recovery.
func (s Signature) raw() []byte {
	out := make([]byte, SignatureLength)
	copy(out[:32], s.R[:])
	copy(out[32:64], s.S[:])
	out[64] = s.RecoveryID
	return out
}

// validate rejects recovery ids outside {0,1}, zero or out-of-range scalars and
// high-S (malleable) signatures.
func (s Signature) validate() error {
	r := new(big.Int).SetBytes(s.R[:])
	sv := new(big.Int).SetBytes(s.S[:])
	if !crypto.ValidateSignatureValues(s.RecoveryID, r, sv, true) {
		return errors.Wrapf(ErrMalformedSignature, "invalid signature values (recovery id %d)", s.RecoveryID)
	}
	return nil
}

// SignatureFormat selects the destination chain's wire format.
type SignatureFormat uint8

const (
	// FormatEvm is r(32) || s(32) || v(1).
	FormatEvm SignatureFormat = iota + 1
	// FormatEos is header(1) || r(32) || s(32).
	FormatEos
)

func (f SignatureFormat) String() string {
	switch f {
	case FormatEvm:
		return "evm"
	case FormatEos:
		return "eos"
	default:
		return "unknown"
	}
}

// ParseSignatureFormat maps "evm"/"eos" to a SignatureFormat.
func ParseSignatureFormat(s string) (SignatureFormat, error) {
	switch s {
	case "evm":
		return FormatEvm, nil
	case "eos":
		return FormatEos, nil
	default:
		return 0, errors.Errorf("unknown signature format %q", s)
	}
}

// EvmConvention selects how the recovery id is rendered in the trailing v
// byte. The consuming chain decides; nothing is inferred.
type EvmConvention uint8

const (
	// EvmLegacyV renders v = 27 + recoveryId (ecrecover).
	EvmLegacyV EvmConvention = iota
	// EvmTypedV renders v = recoveryId (typed-transaction style y-parity).
	EvmTypedV
)

const (
	evmLegacyOffset = 27
	// Antelope compact signature headers: 27 + recid for uncompressed keys,
	// 31 + recid for compressed K1 keys.
	eosHeaderMin        = 27
	eosCompressedOffset = 31
	eosHeaderMax        = 34
)

// FormatForEvm serializes sig as r || s || v.
func FormatForEvm(sig Signature, conv EvmConvention) []byte {
	out := sig.raw()
	if conv == EvmLegacyV {
		out[64] += evmLegacyOffset
	}
	return out
}

// FormatForEos serializes sig as the Antelope compact form: a header byte of
// 31 + recoveryId (K1, compressed key) followed by r || s.
func FormatForEos(sig Signature) []byte {
	out := make([]byte, SignatureLength)
	out[0] = eosCompressedOffset + sig.RecoveryID
	copy(out[1:33], sig.R[:])
	copy(out[33:], sig.S[:])
	return out
}

// Format serializes sig for the given destination format. EVM signatures use
// the legacy v convention.
func Format(sig Signature, format SignatureFormat) ([]byte, error) {
	switch format {
	case FormatEvm:
		return FormatForEvm(sig, EvmLegacyV), nil
	case FormatEos:
		return FormatForEos(sig), nil
	default:
		return nil, errors.Errorf("unknown signature format %d", format)
	}
}

// ParseEvmSignature parses r || s || v with v in {0, 1, 27, 28}.
func ParseEvmSignature(b []byte) (Signature, error) {
	if len(b) != SignatureLength {
		return Signature{}, errors.Wrapf(ErrMalformedSignature, "signature must be %d bytes, got %d", SignatureLength, len(b))
	}
	sig := signatureFromRaw(b)
	switch v := b[64]; v {
	case 0, 1:
	case evmLegacyOffset, evmLegacyOffset + 1:
		sig.RecoveryID = v - evmLegacyOffset
	default:
		return Signature{}, errors.Wrapf(ErrMalformedSignature, "invalid recovery id %d", v)
	}
	if err := sig.validate(); err != nil {
		return Signature{}, err
	}
	return sig, nil
}

// ParseEosSignature parses header || r || s with header in [27, 34].
func ParseEosSignature(b []byte) (Signature, error) {
	if len(b) != SignatureLength {
		return Signature{}, errors.Wrapf(ErrMalformedSignature, "signature must be %d bytes, got %d", SignatureLength, len(b))
	}
	header := b[0]
	if header < eosHeaderMin || header > eosHeaderMax {
		return Signature{}, errors.Wrapf(ErrMalformedSignature, "invalid signature header %d", header)
	}
	var sig Signature
	copy(sig.R[:], b[1:33])
	copy(sig.S[:], b[33:])
	sig.RecoveryID = (header - eosHeaderMin) & 3
	if err := sig.validate(); err != nil {
		return Signature{}, err
	}
	return sig, nil
}

// ParseSignature dispatches on format.
func ParseSignature(b []byte, format SignatureFormat) (Signature, error) {
	switch format {
	case FormatEvm:
		return ParseEvmSignature(b)
	case FormatEos:
		return ParseEosSignature(b)
	default:
		return Signature{}, errors.Wrapf(ErrMalformedSignature, "unknown signature format %d", format)
	}
}

func (s Signature) String() string {
	return hexutil.Encode(s.raw())
}
