// Package metrics provides observability for attestation signing and
// verification. It uses a plugin pattern so callers pay nothing when
// OpenTelemetry is not configured.
package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const meterName = "github.com/pnetwork/event-attestator/attestation"

// Recorder defines the interface for recording attestation metrics.
type Recorder interface {
	// Signing
	RecordSign(ctx context.Context, protocol, kind string, duration time.Duration)
	RecordSignError(ctx context.Context, protocol, errType string)

	// Verification; reason is "accepted" or a rejection reason code
	RecordVerify(ctx context.Context, reason string, duration time.Duration)

	// Batches
	RecordBatch(ctx context.Context, size int, duration time.Duration)
}

// NewRecorder returns an OTEL-backed recorder built from the global meter
// provider, or a no-op recorder when instruments cannot be created.
func NewRecorder(logger *zap.Logger) Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}

	meter := otel.GetMeterProvider().Meter(meterName)
	m, err := NewOTELMetrics(meter, logger)
	if err != nil {
		logger.Warn("failed to initialize OTEL metrics, falling back to no-op", zap.Error(err))
		return NewNoOpMetrics()
	}

	logger.Debug("OpenTelemetry metrics initialized")
	return m
}
