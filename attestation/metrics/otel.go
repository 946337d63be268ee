package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// OTELMetrics implements Recorder using OpenTelemetry
type OTELMetrics struct {
	signatures     metric.Int64Counter
	signErrors     metric.Int64Counter
	signDuration   metric.Float64Histogram
	verifications  metric.Int64Counter
	verifyDuration metric.Float64Histogram
	batchSize      metric.Int64Histogram
	batchDuration  metric.Float64Histogram

	logger *zap.Logger
}

// NewOTELMetrics creates the instruments on meter.
func NewOTELMetrics(meter metric.Meter, logger *zap.Logger) (*OTELMetrics, error) {
	m := &OTELMetrics{logger: logger}

	var err error

	m.signatures, err = meter.Int64Counter("attestation.signatures",
		metric.WithDescription("Number of signatures produced"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	m.signErrors, err = meter.Int64Counter("attestation.sign.errors",
		metric.WithDescription("Number of failed signing attempts"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	m.signDuration, err = meter.Float64Histogram("attestation.sign.duration",
		metric.WithDescription("Time taken to build, hash and sign a preimage"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	m.verifications, err = meter.Int64Counter("attestation.verifications",
		metric.WithDescription("Number of verifications by outcome"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	m.verifyDuration, err = meter.Float64Histogram("attestation.verify.duration",
		metric.WithDescription("Time taken to verify a signature"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	m.batchSize, err = meter.Int64Histogram("attestation.batch.size",
		metric.WithDescription("Number of events per attestation batch"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	m.batchDuration, err = meter.Float64Histogram("attestation.batch.duration",
		metric.WithDescription("Time taken to attest a batch"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *OTELMetrics) RecordSign(ctx context.Context, protocol, kind string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("protocol", protocol),
		attribute.String("kind", kind),
	)
	m.signatures.Add(ctx, 1, attrs)
	m.signDuration.Record(ctx, duration.Seconds(), attrs)
}

func (m *OTELMetrics) RecordSignError(ctx context.Context, protocol, errType string) {
	m.signErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("protocol", protocol),
		attribute.String("error_type", errType),
	))
}

func (m *OTELMetrics) RecordVerify(ctx context.Context, reason string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", reason))
	m.verifications.Add(ctx, 1, attrs)
	m.verifyDuration.Record(ctx, duration.Seconds(), attrs)
}

func (m *OTELMetrics) RecordBatch(ctx context.Context, size int, duration time.Duration) {
	m.batchSize.Record(ctx, int64(size))
	m.batchDuration.Record(ctx, duration.Seconds())
}
