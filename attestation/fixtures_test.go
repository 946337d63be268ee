package attestation

import (
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

// Reference vectors produced by the production attester for a known key.
const (
	testPrivateKey          = "dfcc79a57e91c42d7eea05f82a08bd1b7e77f30236bb7c56fe98d3366a1929c4"
	testCompressedPublicKey = "0x0380472f799469d9af8790307a022802785c2b1e2f9c0930bdf9bafe193245e7a3"
	testPublicKey           = "0x0480472f799469d9af8790307a022802785c2b1e2f9c0930bdf9bafe193245e7a37cf43c720edc0892a2a97050005207e412f2227b1d92a78b8ee366fe4fea5ac9"

	evmBlockHash = "0x658d5ae6a577714c7507e7b5911d26429280d6a0922a2be3f4502d577985527a"
	evmTxHash    = "0x9b3b567ec90fc3a263f1784f57f942ac52ab4e609c23ba794de944fc1b512d34"
	evmAddress   = "0x87415715056da7a5eb1a30e53c4f4d20b44db71d"
	evmTopic0    = "0x9b706941b48091a1c675b439064f40b9d43c577d9c7134cce93179b9b0bf2a52"
	evmData      = "0x0000000000000000000000000000000000000000000000000000000000000020000000000000000000000000000000000000000000000000000000000000002000000000000000000000000000000000000000000000000000000000000000ea000000000000000000000000000000000000000000000000000000000000000000000000000000000000000051a240271ab8ab9f9a21c82d9a85396b704e164d0000000000000000000000000000000000000000000000000000000000007a6a00000000000000000000000000000000000000000000000000000000000026fc0000000000000000000000002b5ad5c4795c026514f8317c7a215e218dccd6cf000000000000000000000000000000000000000000000000000000000000002a30783638313345623933363233373245454636323030663362316462433366383139363731634241363900000000000000000000000000000000000000000000"

	evmMainnetEventID   = "0x77a9681fd73ebac8a9450916d27fe8c3a22664dfbd7e478b1e779ca07c98d0f4"
	evmMainnetSignature = "0x5b838b1283851a1fa35ba79ea39bb74b0bf7ec7d3c0bcb96d3879e28d291c8e348a74ff321b0e02fa3960fc1fec2ddc2e49738a77d0f9f1a596312b6bb03b8f01c"

	evmHardhatEventID   = "0x81b1e1f340632cb3da9419d974a551769ff7445352dd34c3f864b661d59ddfbb"
	evmHardhatSignature = "0x6e7b183ccf691100b778a08b53621ed00e13475c67148d6831fee81939a773ee5034cce521dfc9e63e969de34f9875334b4a2bae0b2f0a6815fa41e18fbd82c61c"

	eosBlockHash  = "0x179ed57f474f446f2c9f6ea6702724cdad0cf26422299b368755ed93c0134a35"
	eosTxHash     = "0x27598a45ee610287d85695f823f8992c10602ce5bf3240ee20635219de4f734f"
	eosEventBytes = "00000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000746b6e2e746f6b656e00000000000000000000000000000000000000000000000000000000000000380000000000000000000000000000000000000000000000008a88f6dc465640000000000000000000000000000000000000000000000000000000000075736572000000000000000000000000000000000000000000000000000000000000002a307836386262656436613437313934656666316366353134623530656139313839353539376663393165"
	eosData       = `{"event_bytes":"` + eosEventBytes + `"}`

	eosMainnetEventID = "0xdfcd6dd38b02aec21ccf5f6f1dbed24b7ff1f61df2351127ad785b92c3818d09"
	// Emitted with the uncompressed header (27 + recid).
	eosMainnetLegacySignature = "0x1b546cb297b24aab5b445756f1d0beece3dad851d2cbd8d973f89f69e83f82b77016c87be815fa95bf25d37fb10c3f884cb200d38495e2d1c1bb686e9de38842a5"
	eosMainnetSignature       = "0x1f546cb297b24aab5b445756f1d0beece3dad851d2cbd8d973f89f69e83f82b77016c87be815fa95bf25d37fb10c3f884cb200d38495e2d1c1bb686e9de38842a5"
)

func testKey(t testing.TB) *ecdsa.PrivateKey {
	t.Helper()
	key, err := PrivateKeyFromHex(testPrivateKey)
	require.NoError(t, err)
	return key
}

func testEvmEvent() EvmEvent {
	return EvmEvent{
		Address:   common.HexToAddress(evmAddress),
		Topics:    []common.Hash{common.HexToHash(evmTopic0), {}},
		Data:      hexutil.MustDecode(evmData),
		BlockHash: hexutil.MustDecode(evmBlockHash),
		TxHash:    hexutil.MustDecode(evmTxHash),
	}
}

func testEosEvent() EosEvent {
	return EosEvent{
		Account:   "adapter",
		Action:    "swap",
		Data:      []byte(eosData),
		BlockHash: hexutil.MustDecode(eosBlockHash),
		TxHash:    hexutil.MustDecode(eosTxHash),
	}
}

func testAttester(t testing.TB, ctx Context, opts ...Option) *Attester {
	t.Helper()
	a, err := NewAttester(ctx, testKey(t), opts...)
	require.NoError(t, err)
	return a
}

func hash32(b byte) []byte {
	out := make([]byte, HashLength)
	for i := range out {
		out[i] = b
	}
	return out
}
