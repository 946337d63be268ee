// Package attestation implements the event-attestation protocol of the bridge.
//
// An origin-chain event (an EVM log or an Antelope action trace) is turned into
// a fixed-format preimage:
//
//	context(34) || blockHash(32) || txHash(32) || payload(160 + len(data))
//
// The preimage is hashed with sha256 into the commitment (the event id), which
// is signed directly with the attester's secp256k1 key. Destination chains
// rebuild the commitment, recover the signer and compare it with the key they
// registered for the origin (protocolId, chainId).
//
// Key components:
//   - Context: version, protocol id and 32-byte chain id (EncodeContext)
//   - Event: sealed sum type with EvmEvent and EosEvent variants (Canonicalize)
//   - BuildPreimage / ParsePreimage / Commit
//   - Attester: immutable signer bound to one Context
//   - FormatForEvm / FormatForEos and their parsers
//   - Verify*, Verifier: recovery-based acceptance with reason codes
package attestation
