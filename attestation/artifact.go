package attestation

import (
	"bytes"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// Attestation is the out-of-band payload handed to settlement: the preimage,
// its commitment and the signature formatted for the destination chain.
type Attestation struct {
	Context   Context
	Preimage  []byte
	EventID   common.Hash
	Signature []byte
	Format    SignatureFormat
}

// Attest signs ev and packages the result for the destination format.
func (a *Attester) Attest(ev Event, format SignatureFormat) (*Attestation, error) {
	preimage, digest, sig, err := a.signEvent(ev)
	if err != nil {
		return nil, err
	}
	formatted, err := Format(sig, format)
	if err != nil {
		return nil, err
	}
	return &Attestation{
		Context:   a.ctx,
		Preimage:  preimage,
		EventID:   digest,
		Signature: formatted,
		Format:    format,
	}, nil
}

// Metadata returns context(34) || eventId(32) || signature(65).
func (att *Attestation) Metadata() []byte {
	var buf bytes.Buffer
	buf.Grow(ContextLength + HashLength + len(att.Signature))
	buf.Write(att.Context.Bytes())
	buf.Write(att.EventID[:])
	buf.Write(att.Signature)
	return buf.Bytes()
}

// Verify checks the attestation against the expected signer key.
func (att *Attestation) Verify(expectedSigner []byte) error {
	_, err := VerifyPreimage(att.Preimage, att.Signature, att.Format, expectedSigner)
	return err
}

type attestationJSON struct {
	Context   hexutil.Bytes `json:"context"`
	Preimage  hexutil.Bytes `json:"preimage"`
	EventID   common.Hash   `json:"eventId"`
	Signature hexutil.Bytes `json:"signature"`
	Format    string        `json:"format"`
}

func (att *Attestation) MarshalJSON() ([]byte, error) {
	return json.Marshal(attestationJSON{
		Context:   att.Context.Bytes(),
		Preimage:  att.Preimage,
		EventID:   att.EventID,
		Signature: att.Signature,
		Format:    att.Format.String(),
	})
}

func (att *Attestation) UnmarshalJSON(data []byte) error {
	var raw attestationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ctx, err := ParseContext(raw.Context)
	if err != nil {
		return err
	}
	format, err := ParseSignatureFormat(raw.Format)
	if err != nil {
		return err
	}
	if len(raw.Preimage) < ContextLength || !bytes.Equal(raw.Context, raw.Preimage[:ContextLength]) {
		return errors.Wrap(ErrMalformedPreimage, "context does not match preimage")
	}
	if Commit(raw.Preimage) != raw.EventID {
		return errors.Wrap(ErrMalformedPreimage, "event id does not match preimage")
	}
	*att = Attestation{
		Context:   ctx,
		Preimage:  raw.Preimage,
		EventID:   raw.EventID,
		Signature: raw.Signature,
		Format:    format,
	}
	return nil
}
