package attestation

import (
	"bytes"
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// HashLength is the width of block and transaction identifiers.
const HashLength = 32

// PreimagePrefixLength is the fixed part of every preimage; the total length is
// PreimagePrefixLength + len(data).
const PreimagePrefixLength = ContextLength + 2*HashLength + PayloadPrefixLength

// BuildPreimage returns context || blockHash || txHash || payload for ev. The
// result is the only definition of what gets signed.
func BuildPreimage(ctx Context, ev Event) ([]byte, error) {
	blockHash, txHash, err := eventHashes(ev)
	if err != nil {
		return nil, err
	}
	if len(blockHash) != HashLength {
		return nil, errors.Wrapf(ErrMalformedHash, "block hash must be %d bytes, got %d", HashLength, len(blockHash))
	}
	if len(txHash) != HashLength {
		return nil, errors.Wrapf(ErrMalformedHash, "tx hash must be %d bytes, got %d", HashLength, len(txHash))
	}

	payload, err := Canonicalize(ev)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(ContextLength + 2*HashLength + len(payload))
	buf.Write(ctx.Bytes())
	buf.Write(blockHash)
	buf.Write(txHash)
	buf.Write(payload)
	return buf.Bytes(), nil
}

// Commit computes sha256(preimage). The commitment is both the event id and
// the digest that is signed.
func Commit(preimage []byte) common.Hash {
	return sha256.Sum256(preimage)
}

// Preimage is the decoded form of a preimage.
//
// Layout:
//
//	34 bytes  context (version, protocol id, chain id)
//	32 bytes  block hash
//	32 bytes  tx hash
//	32 bytes  emitter (address or account name, left padded)
//	4 x 32    topics
//	n bytes   data
type Preimage struct {
	Context   Context
	BlockHash common.Hash
	TxHash    common.Hash
	Emitter   common.Hash
	Topics    [MaxTopics]common.Hash
	Data      []byte

	raw []byte
}

// ParsePreimage decodes a preimage into its fields.
func ParsePreimage(data []byte) (*Preimage, error) {
	if len(data) < PreimagePrefixLength {
		return nil, errors.Wrapf(ErrMalformedPreimage, "preimage must be at least %d bytes, got %d", PreimagePrefixLength, len(data))
	}

	ctx, err := ParseContext(data[:ContextLength])
	if err != nil {
		return nil, err
	}

	cursor := ContextLength
	p := &Preimage{Context: ctx}
	p.BlockHash = common.BytesToHash(data[cursor : cursor+HashLength])
	cursor += HashLength
	p.TxHash = common.BytesToHash(data[cursor : cursor+HashLength])
	cursor += HashLength
	p.Emitter = common.BytesToHash(data[cursor : cursor+SlotLength])
	cursor += SlotLength
	for i := range p.Topics {
		p.Topics[i] = common.BytesToHash(data[cursor : cursor+SlotLength])
		cursor += SlotLength
	}
	p.Data = bytes.Clone(data[cursor:])

	p.raw = bytes.Clone(data)
	return p, nil
}

// Bytes returns the encoded preimage. Callers should treat it as immutable.
func (p *Preimage) Bytes() []byte {
	return p.raw
}

// Commitment returns sha256 of the encoded preimage.
func (p *Preimage) Commitment() common.Hash {
	return Commit(p.raw)
}
