package attestation

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// evmDocument mirrors an EVM log as emitted by JSON-RPC clients.
type evmDocument struct {
	Address         string   `mapstructure:"address"`
	Topics          []string `mapstructure:"topics"`
	Data            string   `mapstructure:"data"`
	BlockHash       string   `mapstructure:"blockHash"`
	TransactionHash string   `mapstructure:"transactionHash"`
}

// eosDocument mirrors an Antelope action trace. block_id and trx_id are
// accepted as aliases of blockHash and transactionHash.
type eosDocument struct {
	Account         string `mapstructure:"account"`
	Action          string `mapstructure:"action"`
	Data            any    `mapstructure:"data"`
	BlockHash       string `mapstructure:"blockHash"`
	TransactionHash string `mapstructure:"transactionHash"`
	BlockID         string `mapstructure:"block_id"`
	TrxID           string `mapstructure:"trx_id"`
}

// DecodeEvent turns an untyped document into the matching Event variant. The
// variant is chosen by the presence of "address" (EVM) or "account" (EOS);
// documents with neither or both fail with ErrInvalidEventShape.
func DecodeEvent(doc map[string]any) (Event, error) {
	_, hasAddress := doc["address"]
	_, hasAccount := doc["account"]
	switch {
	case hasAddress && hasAccount:
		return nil, errors.Wrap(ErrInvalidEventShape, "document has both address and account")
	case hasAddress:
		return decodeEvmDocument(doc)
	case hasAccount:
		return decodeEosDocument(doc)
	default:
		return nil, errors.Wrap(ErrInvalidEventShape, "document has neither address nor account")
	}
}

// ReadEvents parses a YAML or JSON stream holding one event document or a
// list of them. Hex values in YAML must be quoted. Nested mappings keep their
// document order, so EOS object data serializes with keys as written.
func ReadEvents(r io.Reader) ([]Event, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, errors.Wrap(err, "parse event document")
	}
	v, err := nodeValue(&root)
	if err != nil {
		return nil, err
	}

	var docs []any
	switch v := v.(type) {
	case Object:
		docs = []any{v}
	case []any:
		docs = v
	default:
		return nil, errors.Wrapf(ErrInvalidEventShape, "expected a mapping or a list, got %T", v)
	}

	events := make([]Event, 0, len(docs))
	for i, d := range docs {
		obj, ok := d.(Object)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidEventShape, "document %d is %T", i, d)
		}
		ev, err := DecodeEvent(obj.Map())
		if err != nil {
			return nil, errors.Wrapf(err, "document %d", i)
		}
		events = append(events, ev)
	}
	return events, nil
}

// Field is one member of an Object.
type Field struct {
	Key   string
	Value any
}

// Object is a mapping that keeps its key order. It encodes to JSON in that
// order without HTML escaping. Use it for EOS data passed to DecodeEvent when
// the serialized key order matters; plain maps encode with sorted keys.
type Object []Field

// Map flattens o into a map; later duplicates win.
func (o Object) Map() map[string]any {
	m := make(map[string]any, len(o))
	for _, f := range o {
		m[f.Key] = f.Value
	}
	return m
}

func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := compactJSON(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := compactJSON(f.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "field %q", f.Key)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// nodeValue converts a YAML node into plain values, with mappings as Object.
func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		out := make(Object, 0, len(n.Content)/2)
		seen := make(map[string]struct{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			var key string
			if err := n.Content[i].Decode(&key); err != nil {
				return nil, errors.Wrapf(ErrInvalidEventShape, "line %d: mapping key: %v", n.Content[i].Line, err)
			}
			if _, dup := seen[key]; dup {
				return nil, errors.Wrapf(ErrInvalidEventShape, "line %d: key %q already defined", n.Content[i].Line, key)
			}
			seen[key] = struct{}{}
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out = append(out, Field{Key: key, Value: v})
		}
		return out, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, errors.Wrapf(err, "line %d", n.Line)
		}
		return v, nil
	}
}

func decodeEvmDocument(doc map[string]any) (EvmEvent, error) {
	var d evmDocument
	if err := decodeDocument(doc, &d); err != nil {
		return EvmEvent{}, err
	}
	if !common.IsHexAddress(d.Address) {
		return EvmEvent{}, errors.Wrapf(ErrInvalidEventShape, "invalid address %q", d.Address)
	}

	topics := make([]common.Hash, 0, len(d.Topics))
	for i, t := range d.Topics {
		b, err := decodeHash("topic", t)
		if err != nil {
			return EvmEvent{}, errors.Wrapf(err, "topic %d", i)
		}
		topics = append(topics, common.BytesToHash(b))
	}

	data, err := DecodeHex(d.Data)
	if err != nil {
		return EvmEvent{}, errors.Wrap(err, "data")
	}
	blockHash, err := decodeHash("block hash", d.BlockHash)
	if err != nil {
		return EvmEvent{}, err
	}
	txHash, err := decodeHash("transaction hash", d.TransactionHash)
	if err != nil {
		return EvmEvent{}, err
	}

	return EvmEvent{
		Address:   common.HexToAddress(d.Address),
		Topics:    topics,
		Data:      data,
		BlockHash: blockHash,
		TxHash:    txHash,
	}, nil
}

func decodeEosDocument(doc map[string]any) (EosEvent, error) {
	var d eosDocument
	if err := decodeDocument(doc, &d); err != nil {
		return EosEvent{}, err
	}
	if d.BlockHash == "" {
		d.BlockHash = d.BlockID
	}
	if d.TransactionHash == "" {
		d.TransactionHash = d.TrxID
	}

	data, err := eosActionData(d.Data)
	if err != nil {
		return EosEvent{}, err
	}
	blockHash, err := decodeHash("block hash", d.BlockHash)
	if err != nil {
		return EosEvent{}, err
	}
	txHash, err := decodeHash("transaction hash", d.TransactionHash)
	if err != nil {
		return EosEvent{}, err
	}

	return EosEvent{
		Account:   d.Account,
		Action:    d.Action,
		Data:      data,
		BlockHash: blockHash,
		TxHash:    txHash,
	}, nil
}

func decodeDocument(doc map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(doc); err != nil {
		return errors.Wrapf(ErrInvalidEventShape, "decode document: %v", err)
	}
	return nil
}

// eosActionData serializes action data: structured data becomes compact JSON
// as JSON.stringify writes it, 0x strings are hex, other strings are taken
// verbatim.
func eosActionData(v any) ([]byte, error) {
	switch d := v.(type) {
	case nil:
		return []byte{}, nil
	case string:
		if has0xPrefix(d) {
			return DecodeHex(d)
		}
		return []byte(d), nil
	case []byte:
		return bytes.Clone(d), nil
	default:
		b, err := compactJSON(d)
		if err != nil {
			return nil, errors.Wrap(err, "encode action data")
		}
		return b, nil
	}
}

func compactJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DecodeHex decodes hex with an optional 0x prefix.
func DecodeHex(s string) ([]byte, error) {
	if has0xPrefix(s) {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hex %q", s)
	}
	return b, nil
}

// decodeHash decodes a 32-byte hex identifier, failing with ErrMalformedHash.
func decodeHash(field, s string) ([]byte, error) {
	b, err := DecodeHex(s)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedHash, "%s: %v", field, err)
	}
	if len(b) != HashLength {
		return nil, errors.Wrapf(ErrMalformedHash, "%s must be %d bytes, got %d", field, HashLength, len(b))
	}
	return b, nil
}
