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

// Attester signs events for one origin Context with one secp256k1 key. It
// holds no mutable state after construction and is safe for concurrent use.
type Attester struct {
	ctx     Context
	key     *ecdsa.PrivateKey
	logger  *zap.Logger
	metrics metrics.Recorder
}

// Option configures an Attester or a Verifier.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	metrics metrics.Recorder
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the metrics recorder; the default is a no-op.
func WithMetrics(m metrics.Recorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop(), metrics: metrics.NewNoOpMetrics()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewAttester binds key to ctx. The key must be supplied by the caller; see
// GenerateKey for explicit key generation.
func NewAttester(ctx Context, key *ecdsa.PrivateKey, opts ...Option) (*Attester, error) {
	if key == nil {
		return nil, errors.New("private key cannot be nil")
	}
	o := buildOptions(opts)
	return &Attester{
		ctx:     ctx,
		key:     key,
		logger:  o.logger.With(zap.Stringer("protocol", ctx.ProtocolID), zap.Stringer("chain_id", ctx.ChainID)),
		metrics: o.metrics,
	}, nil
}

func (a *Attester) Context() Context {
	return a.ctx
}

// PublicKey returns the 65-byte uncompressed public key (0x04 || X || Y).
func (a *Attester) PublicKey() []byte {
	return crypto.FromECDSAPub(&a.key.PublicKey)
}

// CompressedPublicKey returns the 33-byte compressed public key, the form
// Antelope chains register.
func (a *Attester) CompressedPublicKey() []byte {
	return crypto.CompressPubkey(&a.key.PublicKey)
}

// Address returns the EVM address derived from the public key.
func (a *Attester) Address() common.Address {
	return crypto.PubkeyToAddress(a.key.PublicKey)
}

// Preimage builds the preimage of ev under the attester's context.
func (a *Attester) Preimage(ev Event) ([]byte, error) {
	return BuildPreimage(a.ctx, ev)
}

// EventID returns the commitment of ev.
func (a *Attester) EventID(ev Event) (common.Hash, error) {
	preimage, err := a.Preimage(ev)
	if err != nil {
		return common.Hash{}, err
	}
	return Commit(preimage), nil
}

// Sign commits to ev and signs the commitment directly.
func (a *Attester) Sign(ev Event) (common.Hash, Signature, error) {
	_, digest, sig, err := a.signEvent(ev)
	return digest, sig, err
}

func (a *Attester) signEvent(ev Event) ([]byte, common.Hash, Signature, error) {
	start := time.Now()
	preimage, err := a.Preimage(ev)
	if err != nil {
		a.metrics.RecordSignError(context.Background(), a.ctx.ProtocolID.String(), classifyError(err))
		return nil, common.Hash{}, Signature{}, err
	}

	digest := Commit(preimage)
	sig, err := a.SignDigest(digest[:])
	if err != nil {
		a.metrics.RecordSignError(context.Background(), a.ctx.ProtocolID.String(), classifyError(err))
		return nil, common.Hash{}, Signature{}, err
	}

	a.metrics.RecordSign(context.Background(), a.ctx.ProtocolID.String(), ev.Kind().String(), time.Since(start))
	a.logger.Debug("event signed",
		zap.Stringer("kind", ev.Kind()),
		zap.Stringer("event_id", digest),
		zap.Int("preimage_len", len(preimage)))
	return preimage, digest, sig, nil
}

// SignRaw signs sha256(b) for ad-hoc statements outside the event flow.
func (a *Attester) SignRaw(b []byte) (Signature, error) {
	digest := Commit(b)
	return a.SignDigest(digest[:])
}

// SignDigest signs a 32-byte digest without further hashing.
func (a *Attester) SignDigest(digest []byte) (Signature, error) {
	if len(digest) != crypto.DigestLength {
		return Signature{}, errors.Errorf("digest must be %d bytes, got %d", crypto.DigestLength, len(digest))
	}

	raw, err := crypto.Sign(digest, a.key)
	if err != nil {
		return Signature{}, errors.Wrap(err, "failed to sign digest")
	}
	return signatureFromRaw(raw), nil
}

// Metadata returns context || eventId || formatted signature.
func (a *Attester) Metadata(ev Event, format SignatureFormat) ([]byte, error) {
	att, err := a.Attest(ev, format)
	if err != nil {
		return nil, err
	}
	return att.Metadata(), nil
}

// Sign builds the preimage of ev under ctx and signs its commitment with key.
func Sign(ev Event, ctx Context, key *ecdsa.PrivateKey) (common.Hash, Signature, error) {
	a, err := NewAttester(ctx, key)
	if err != nil {
		return common.Hash{}, Signature{}, err
	}
	return a.Sign(ev)
}

// SignRaw signs sha256(b) with key.
func SignRaw(b []byte, key *ecdsa.PrivateKey) (Signature, error) {
	a, err := NewAttester(Context{}, key)
	if err != nil {
		return Signature{}, err
	}
	return a.SignRaw(b)
}

// classifyError keeps metric label cardinality low.
func classifyError(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrInvalidEventShape):
		return "invalid_event_shape"
	case errors.Is(err, ErrMalformedHash):
		return "malformed_hash"
	case errors.Is(err, ErrIdentifierTooLong):
		return "identifier_too_long"
	case errors.Is(err, ErrMalformedSignature):
		return "malformed_signature"
	case errors.Is(err, ErrSignerMismatch):
		return "signer_mismatch"
	case errors.Is(err, ErrMalformedPreimage):
		return "malformed_preimage"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "unknown"
	}
}
