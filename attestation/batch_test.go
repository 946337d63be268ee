package attestation

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttestBatch(t *testing.T) {
	a := testAttester(t, NewContext(ProtocolEvm, ChainEvmMainnet))

	t.Run("PreservesOrder", func(t *testing.T) {
		events := make([]Event, 20)
		for i := range events {
			events[i] = EvmEvent{Data: []byte{byte(i)}, BlockHash: hash32(byte(i)), TxHash: hash32(0xee)}
		}
		events[7] = testEvmEvent()

		results, err := a.AttestBatch(context.Background(), events, FormatEvm, 4)
		require.NoError(t, err)
		require.Len(t, results, len(events))

		for i, att := range results {
			id, err := a.EventID(events[i])
			require.NoError(t, err)
			assert.Equal(t, id, att.EventID, "event %d", i)
		}
		assert.Equal(t, evmMainnetSignature, hexutil.Encode(results[7].Signature))
	})

	t.Run("DefaultLimit", func(t *testing.T) {
		results, err := a.AttestBatch(context.Background(), []Event{testEvmEvent()}, FormatEos, 0)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, FormatEos, results[0].Format)
	})

	t.Run("Empty", func(t *testing.T) {
		results, err := a.AttestBatch(context.Background(), nil, FormatEvm, 2)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("FailsWithIndex", func(t *testing.T) {
		events := []Event{testEvmEvent(), EvmEvent{BlockHash: hash32(1)}, testEvmEvent()}
		_, err := a.AttestBatch(context.Background(), events, FormatEvm, 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedHash)
		assert.Contains(t, err.Error(), "event 1")
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := a.AttestBatch(ctx, []Event{testEvmEvent()}, FormatEvm, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
