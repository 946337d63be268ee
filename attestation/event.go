package attestation

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

const (
	// MaxTopics is the number of topic slots in a payload.
	MaxTopics = 4
	// SlotLength is the width of every fixed payload slot.
	SlotLength = 32
	// PayloadPrefixLength is slot0 plus the four topic slots.
	PayloadPrefixLength = SlotLength + MaxTopics*SlotLength
)

// Kind tags the variant of an Event.
type Kind uint8

const (
	KindEvm Kind = iota + 1
	KindEos
)

func (k Kind) String() string {
	switch k {
	case KindEvm:
		return "evm"
	case KindEos:
		return "eos"
	default:
		return "unknown"
	}
}

// Event is a chain-native event. It is sealed: the only implementations are
// EvmEvent and EosEvent (and pointers to them).
type Event interface {
	Kind() Kind
	sealed()
}

// EvmEvent is an EVM log entry. BlockHash and TxHash are kept as raw bytes so
// malformed lengths surface as ErrMalformedHash when the preimage is built.
type EvmEvent struct {
	Address   common.Address
	Topics    []common.Hash
	Data      []byte
	BlockHash []byte
	TxHash    []byte
}

func (EvmEvent) Kind() Kind { return KindEvm }
func (EvmEvent) sealed()    {}

// EosEvent is an Antelope action trace. Data is the serialized action data,
// copied verbatim into the payload.
type EosEvent struct {
	Account   string
	Action    string
	Data      []byte
	BlockHash []byte
	TxHash    []byte
}

func (EosEvent) Kind() Kind { return KindEos }
func (EosEvent) sealed()    {}

// FromLog converts a go-ethereum log into an EvmEvent.
func FromLog(l *types.Log) EvmEvent {
	return EvmEvent{
		Address:   l.Address,
		Topics:    append([]common.Hash(nil), l.Topics...),
		Data:      append([]byte(nil), l.Data...),
		BlockHash: l.BlockHash.Bytes(),
		TxHash:    l.TxHash.Bytes(),
	}
}

// Canonicalize maps an event into its payload:
//
//	slot0(32) || topic0(32) || topic1(32) || topic2(32) || topic3(32) || data
//
// For EVM logs slot0 is the left-padded emitter address and topics beyond the
// fourth are dropped. For Antelope actions slot0 is the left-padded account
// name, topic0 the left-padded action name and the remaining topics are zero.
func Canonicalize(ev Event) ([]byte, error) {
	switch e := ev.(type) {
	case EvmEvent:
		return e.payload(), nil
	case *EvmEvent:
		if e == nil {
			return nil, errors.Wrap(ErrInvalidEventShape, "nil evm event")
		}
		return e.payload(), nil
	case EosEvent:
		return e.payload()
	case *EosEvent:
		if e == nil {
			return nil, errors.Wrap(ErrInvalidEventShape, "nil eos event")
		}
		return e.payload()
	default:
		return nil, errors.Wrapf(ErrInvalidEventShape, "unsupported event %T", ev)
	}
}

func (e EvmEvent) payload() []byte {
	out := make([]byte, PayloadPrefixLength, PayloadPrefixLength+len(e.Data))
	copy(out[SlotLength-common.AddressLength:SlotLength], e.Address[:])
	for i := 0; i < MaxTopics && i < len(e.Topics); i++ {
		offset := SlotLength * (i + 1)
		copy(out[offset:offset+SlotLength], e.Topics[i][:])
	}
	return append(out, e.Data...)
}

func (e EosEvent) payload() ([]byte, error) {
	account, err := leftPadIdentifier("account", e.Account)
	if err != nil {
		return nil, err
	}
	action, err := leftPadIdentifier("action", e.Action)
	if err != nil {
		return nil, err
	}

	out := make([]byte, PayloadPrefixLength, PayloadPrefixLength+len(e.Data))
	copy(out[:SlotLength], account)
	copy(out[SlotLength:2*SlotLength], action)
	return append(out, e.Data...), nil
}

// eventHashes returns the raw block and transaction identifiers of ev.
func eventHashes(ev Event) (block, tx []byte, err error) {
	switch e := ev.(type) {
	case EvmEvent:
		return e.BlockHash, e.TxHash, nil
	case *EvmEvent:
		if e != nil {
			return e.BlockHash, e.TxHash, nil
		}
	case EosEvent:
		return e.BlockHash, e.TxHash, nil
	case *EosEvent:
		if e != nil {
			return e.BlockHash, e.TxHash, nil
		}
	}
	return nil, nil, errors.Wrapf(ErrInvalidEventShape, "unsupported event %T", ev)
}

func leftPadIdentifier(field, name string) ([]byte, error) {
	raw := []byte(name)
	if len(raw) > SlotLength {
		return nil, errors.Wrapf(ErrIdentifierTooLong, "%s %q is %d bytes, max %d", field, name, len(raw), SlotLength)
	}
	return common.LeftPadBytes(raw, SlotLength), nil
}
