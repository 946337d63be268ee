package attestation

import (
	"context"
	"crypto/ecdsa"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pnetwork/event-attestator/attestation/metrics"
)

// RecoverSigner recovers the public key that produced sig over digest.
func RecoverSigner(digest common.Hash, sig Signature) (*ecdsa.PublicKey, error) {
	if err := sig.validate(); err != nil {
		return nil, err
	}
	pub, err := crypto.SigToPub(digest[:], sig.raw())
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedSignature, "recover public key: %v", err)
	}
	return pub, nil
}

// VerifyDigest accepts iff signature, parsed under format, recovers to
// expectedSigner over digest. expectedSigner may be a compressed key, an
// uncompressed key or an EVM address.
func VerifyDigest(digest common.Hash, signature []byte, format SignatureFormat, expectedSigner []byte) error {
	sig, err := ParseSignature(signature, format)
	if err != nil {
		return reject(ReasonMalformedSignature, err)
	}
	recovered, err := RecoverSigner(digest, sig)
	if err != nil {
		return reject(ReasonMalformedSignature, err)
	}
	ok, err := signerMatches(recovered, expectedSigner)
	if err != nil {
		return err
	}
	if !ok {
		return reject(ReasonSignerMismatch, errors.Wrapf(ErrSignerMismatch,
			"recovered %x does not match expected %x", crypto.CompressPubkey(recovered), expectedSigner))
	}
	return nil
}

// VerifyPreimage recomputes the commitment of preimage and verifies signature
// against it. The commitment is returned even when verification fails, as
// long as the preimage is well formed.
func VerifyPreimage(preimage, signature []byte, format SignatureFormat, expectedSigner []byte) (common.Hash, error) {
	if len(preimage) < PreimagePrefixLength {
		return common.Hash{}, reject(ReasonMalformedPreimage, errors.Wrapf(ErrMalformedPreimage,
			"preimage must be at least %d bytes, got %d", PreimagePrefixLength, len(preimage)))
	}
	digest := Commit(preimage)
	return digest, VerifyDigest(digest, signature, format, expectedSigner)
}

// VerifyEvent rebuilds the preimage from its components and verifies it.
func VerifyEvent(ctx Context, ev Event, signature []byte, format SignatureFormat, expectedSigner []byte) (common.Hash, error) {
	preimage, err := BuildPreimage(ctx, ev)
	if err != nil {
		return common.Hash{}, reject(ReasonMalformedPreimage, err)
	}
	return VerifyPreimage(preimage, signature, format, expectedSigner)
}

// Verifier verifies preimages against the signer registered for their origin.
// It is read-only and safe for concurrent use as long as the registry is.
type Verifier struct {
	registry SignerRegistry
	format   SignatureFormat
	logger   *zap.Logger
	metrics  metrics.Recorder
}

// NewVerifier builds a verifier for signatures in the given wire format.
func NewVerifier(registry SignerRegistry, format SignatureFormat, opts ...Option) (*Verifier, error) {
	if registry == nil {
		return nil, errors.New("signer registry cannot be nil")
	}
	if format != FormatEvm && format != FormatEos {
		return nil, errors.Errorf("unknown signature format %d", format)
	}
	o := buildOptions(opts)
	return &Verifier{
		registry: registry,
		format:   format,
		logger:   o.logger,
		metrics:  o.metrics,
	}, nil
}

// Verify parses preimage, looks up the signer registered for its
// (protocolId, chainId) and checks signature. The decoded preimage is
// returned only on acceptance.
func (v *Verifier) Verify(preimage, signature []byte) (*Preimage, error) {
	start := time.Now()
	parsed, err := v.verify(preimage, signature)
	outcome := "accepted"
	if err != nil {
		outcome = string(ReasonOf(err))
		if outcome == "" {
			outcome = "error"
		}
		v.logger.Debug("attestation rejected", zap.String("reason", outcome), zap.Error(err))
	}
	v.metrics.RecordVerify(context.Background(), outcome, time.Since(start))
	return parsed, err
}

func (v *Verifier) verify(preimage, signature []byte) (*Preimage, error) {
	parsed, err := ParsePreimage(preimage)
	if err != nil {
		return nil, reject(ReasonMalformedPreimage, err)
	}

	ctx := parsed.Context
	expected, ok := v.registry.ExpectedSigner(ctx.ProtocolID, ctx.ChainID)
	if !ok {
		return nil, reject(ReasonSignerMismatch, errors.Wrapf(ErrSignerNotRegistered,
			"no signer for protocol %s chain %s", ctx.ProtocolID, ctx.ChainID))
	}

	if err := VerifyDigest(parsed.Commitment(), signature, v.format, expected); err != nil {
		return nil, err
	}
	return parsed, nil
}
