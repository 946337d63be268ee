package attestation

import (
	"bytes"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// SignerRegistry resolves the attester key trusted for an origin.
type SignerRegistry interface {
	ExpectedSigner(protocol ProtocolID, chain ChainID) ([]byte, bool)
}

type registryKey struct {
	protocol ProtocolID
	chain    ChainID
}

// MemoryRegistry is a thread-safe in-memory SignerRegistry.
type MemoryRegistry struct {
	mu      sync.RWMutex
	signers map[registryKey][]byte
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{signers: make(map[registryKey][]byte)}
}

// SetSigner registers key (compressed, uncompressed or EVM address) for the
// origin, replacing any previous entry.
func (r *MemoryRegistry) SetSigner(protocol ProtocolID, chain ChainID, key []byte) error {
	if len(key) != common.AddressLength {
		if _, err := PublicKeyFromBytes(key); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.signers[registryKey{protocol, chain}] = bytes.Clone(key)
	return nil
}

// RemoveSigner deletes the entry for the origin. It reports whether one existed.
func (r *MemoryRegistry) RemoveSigner(protocol ProtocolID, chain ChainID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := registryKey{protocol, chain}
	_, ok := r.signers[k]
	delete(r.signers, k)
	return ok
}

func (r *MemoryRegistry) ExpectedSigner(protocol ProtocolID, chain ChainID) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.signers[registryKey{protocol, chain}]
	if !ok {
		return nil, false
	}
	return bytes.Clone(key), true
}

// Len returns the number of registered origins.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.signers)
}

// MustSetSigner is SetSigner for static configuration.
func (r *MemoryRegistry) MustSetSigner(protocol ProtocolID, chain ChainID, key []byte) *MemoryRegistry {
	if err := r.SetSigner(protocol, chain, key); err != nil {
		panic(errors.Wrap(err, "register signer"))
	}
	return r
}
