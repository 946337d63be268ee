package attestation

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// ContextLength is the size of an encoded context tag:
// version(1) || protocolId(1) || chainId(32).
const ContextLength = 2 + ChainIDLength

// ChainIDLength is the width every chain id is normalised to.
const ChainIDLength = 32

// Version identifies the attestation scheme.
type Version uint8

const VersionV1 Version = 0x01

// ProtocolID identifies the family of the origin chain.
type ProtocolID uint8

const (
	ProtocolEvm ProtocolID = 0x01
	ProtocolEos ProtocolID = 0x02
)

func (p ProtocolID) String() string {
	switch p {
	case ProtocolEvm:
		return "evm"
	case ProtocolEos:
		return "eos"
	default:
		return "protocol(" + hexutil.EncodeUint64(uint64(p)) + ")"
	}
}

// ChainID is a chain identifier left-zero-padded to 32 bytes. Numeric EVM
// chain ids and 32-byte Antelope chain hashes share this representation.
type ChainID [ChainIDLength]byte

// ChainIDFromUint64 renders n big-endian into the low bytes of a ChainID.
func ChainIDFromUint64(n uint64) ChainID {
	var c ChainID
	binary.BigEndian.PutUint64(c[ChainIDLength-8:], n)
	return c
}

// ChainIDFromBig renders a non-negative n big-endian, left padded.
func ChainIDFromBig(n *big.Int) (ChainID, error) {
	if n == nil || n.Sign() < 0 {
		return ChainID{}, errors.Wrap(ErrMalformedHash, "chain id must be a non-negative integer")
	}
	return ChainIDFromBytes(n.Bytes())
}

// ChainIDFromBytes left pads b to 32 bytes. It fails with ErrMalformedHash when
// b is wider than 32 bytes.
func ChainIDFromBytes(b []byte) (ChainID, error) {
	var c ChainID
	if len(b) > ChainIDLength {
		return c, errors.Wrapf(ErrMalformedHash, "chain id is %d bytes, max %d", len(b), ChainIDLength)
	}
	copy(c[ChainIDLength-len(b):], b)
	return c, nil
}

// ParseChainID accepts "0x"-prefixed hex of any width up to 32 bytes, a bare
// 64-character hex chain hash, or a decimal number.
func ParseChainID(s string) (ChainID, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return ChainID{}, errors.Wrap(ErrMalformedHash, "empty chain id")
	case has0xPrefix(s):
		raw := s[2:]
		if len(raw)%2 == 1 {
			raw = "0" + raw
		}
		b, err := hex.DecodeString(raw)
		if err != nil {
			return ChainID{}, errors.Wrapf(ErrMalformedHash, "chain id %q: %v", s, err)
		}
		return ChainIDFromBytes(b)
	case len(s) == 2*ChainIDLength:
		b, err := hex.DecodeString(s)
		if err != nil {
			return ChainID{}, errors.Wrapf(ErrMalformedHash, "chain id %q: %v", s, err)
		}
		return ChainIDFromBytes(b)
	default:
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return ChainID{}, errors.Wrapf(ErrMalformedHash, "chain id %q is neither hex nor decimal", s)
		}
		return ChainIDFromBig(n)
	}
}

func mustChainID(s string) ChainID {
	c, err := ParseChainID(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ChainID) Bytes() []byte {
	return append([]byte(nil), c[:]...)
}

func (c ChainID) Hex() string {
	return hexutil.Encode(c[:])
}

func (c ChainID) String() string {
	return c.Hex()
}

// Known origin chains.
var (
	ChainEvmMainnet = mustChainID("0x01")
	ChainEvmGoerli  = mustChainID("0x05")
	ChainEvmGnosis  = mustChainID("0x64")
	ChainEvmBsc     = mustChainID("0x38")
	ChainEvmHardhat = mustChainID("0x7a69")

	ChainEosMainnet = mustChainID("0xaca376f206b8fc25a6ed44dbdc66547c36c6c33e3a119ffbeaef943642f0e906")
	ChainEosJungle  = mustChainID("0x73e4385a2708e6d7048834fbc1079f2fabb17b3c125b146af438971e90716c4d")
)

// Chains lists the known chains of a protocol by name.
func Chains(p ProtocolID) map[string]ChainID {
	switch p {
	case ProtocolEvm:
		return map[string]ChainID{
			"mainnet": ChainEvmMainnet,
			"goerli":  ChainEvmGoerli,
			"gnosis":  ChainEvmGnosis,
			"bsc":     ChainEvmBsc,
			"hardhat": ChainEvmHardhat,
		}
	case ProtocolEos:
		return map[string]ChainID{
			"mainnet": ChainEosMainnet,
			"jungle":  ChainEosJungle,
		}
	default:
		return nil
	}
}

// ParseProtocolID maps "evm"/"eos" to a ProtocolID.
func ParseProtocolID(s string) (ProtocolID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "evm":
		return ProtocolEvm, nil
	case "eos":
		return ProtocolEos, nil
	default:
		return 0, errors.Errorf("unknown protocol %q", s)
	}
}

// ResolveChain accepts a catalog name of the protocol ("mainnet", "jungle")
// or any form understood by ParseChainID.
func ResolveChain(p ProtocolID, s string) (ChainID, error) {
	if c, ok := Chains(p)[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return ParseChainID(s)
}

// Context is the immutable tag an attester stamps on every preimage.
type Context struct {
	Version    Version
	ProtocolID ProtocolID
	ChainID    ChainID
}

// NewContext is a convenience constructor for a V1 context.
func NewContext(protocol ProtocolID, chain ChainID) Context {
	return Context{Version: VersionV1, ProtocolID: protocol, ChainID: chain}
}

// EncodeContext lays out version || protocolId || chainId.
func EncodeContext(version Version, protocol ProtocolID, chain ChainID) [ContextLength]byte {
	var out [ContextLength]byte
	out[0] = byte(version)
	out[1] = byte(protocol)
	copy(out[2:], chain[:])
	return out
}

// Bytes returns the 34-byte context tag.
func (c Context) Bytes() []byte {
	tag := EncodeContext(c.Version, c.ProtocolID, c.ChainID)
	return tag[:]
}

func (c Context) Hex() string {
	return hexutil.Encode(c.Bytes())
}

// ParseContext decodes a 34-byte context tag.
func ParseContext(b []byte) (Context, error) {
	if len(b) != ContextLength {
		return Context{}, errors.Wrapf(ErrMalformedPreimage, "context must be %d bytes, got %d", ContextLength, len(b))
	}
	c := Context{Version: Version(b[0]), ProtocolID: ProtocolID(b[1])}
	copy(c.ChainID[:], b[2:])
	return c, nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
