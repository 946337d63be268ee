package attestation

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidEventShape is returned for events that are neither an EVM log nor
	// an Antelope action, or that look like both.
	ErrInvalidEventShape = errors.New("invalid event shape")
	// ErrMalformedHash is returned when a block hash, tx hash or chain id does not
	// decode to exactly 32 bytes.
	ErrMalformedHash = errors.New("malformed hash")
	// ErrIdentifierTooLong is returned when an Antelope account or action name
	// exceeds 32 bytes once UTF-8 encoded.
	ErrIdentifierTooLong = errors.New("identifier too long")
	// ErrMalformedSignature is returned when a signature cannot be parsed into
	// (r, s, recovery id) under the claimed wire format.
	ErrMalformedSignature = errors.New("malformed signature")
	// ErrSignerMismatch is returned when the recovered key is not the expected
	// attester key.
	ErrSignerMismatch = errors.New("signer mismatch")
	// ErrMalformedPreimage is returned for preimages that cannot hold the fixed
	// 258-byte prefix.
	ErrMalformedPreimage = errors.New("malformed preimage")
	// ErrInvalidPublicKey is returned for expected-signer keys that are neither a
	// compressed, an uncompressed secp256k1 key nor an EVM address.
	ErrInvalidPublicKey = errors.New("invalid public key")
	// ErrSignerNotRegistered is returned by a Verifier whose registry holds no key
	// for the origin of a preimage.
	ErrSignerNotRegistered = errors.New("signer not registered")
)

// Reason is the code surfaced to settlement logic when a verification fails.
type Reason string

const (
	ReasonMalformedSignature Reason = "MALFORMED_SIGNATURE"
	ReasonSignerMismatch     Reason = "SIGNER_MISMATCH"
	ReasonMalformedPreimage  Reason = "MALFORMED_PREIMAGE"
)

// Rejection is the error returned by the verification functions. Err keeps the
// underlying cause so errors.Is works against the sentinel errors above.
type Rejection struct {
	Reason Reason
	Err    error
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("attestation rejected (%s): %v", r.Reason, r.Err)
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

func reject(reason Reason, err error) *Rejection {
	return &Rejection{Reason: reason, Err: err}
}

// ReasonOf extracts the rejection reason from err, or "" when err is not a
// rejection.
func ReasonOf(err error) Reason {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Reason
	}
	return ""
}
