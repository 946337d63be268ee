package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func TestNoOpMetrics(t *testing.T) {
	m := NewNoOpMetrics()
	ctx := context.Background()

	m.RecordSign(ctx, "evm", "evm", time.Millisecond)
	m.RecordSignError(ctx, "evm", "malformed_hash")
	m.RecordVerify(ctx, "accepted", time.Millisecond)
	m.RecordBatch(ctx, 3, time.Second)
}

func TestNewRecorderUsesGlobalProvider(t *testing.T) {
	r := NewRecorder(zap.NewNop())
	require.NotNil(t, r)
	r.RecordSign(context.Background(), "eos", "eos", time.Millisecond)
}

func TestOTELMetricsRecordsInstruments(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	m, err := NewOTELMetrics(provider.Meter(meterName), zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordSign(ctx, "evm", "evm", 2*time.Millisecond)
	m.RecordSign(ctx, "evm", "evm", 3*time.Millisecond)
	m.RecordVerify(ctx, "SIGNER_MISMATCH", time.Millisecond)
	m.RecordBatch(ctx, 2, time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, md := range rm.ScopeMetrics[0].Metrics {
		byName[md.Name] = md
	}

	sigs, ok := byName["attestation.signatures"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sigs.DataPoints, 1)
	assert.Equal(t, int64(2), sigs.DataPoints[0].Value)

	verifications, ok := byName["attestation.verifications"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, verifications.DataPoints, 1)
	outcome, found := verifications.DataPoints[0].Attributes.Value("outcome")
	require.True(t, found)
	assert.Equal(t, "SIGNER_MISMATCH", outcome.AsString())

	assert.Contains(t, byName, "attestation.batch.size")
	assert.NotContains(t, byName, "attestation.sign.errors")
}
