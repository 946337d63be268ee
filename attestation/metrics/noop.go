package metrics

import (
	"context"
	"time"
)

// NoOpMetrics discards everything.
type NoOpMetrics struct{}

func NewNoOpMetrics() *NoOpMetrics {
	return &NoOpMetrics{}
}

func (n *NoOpMetrics) RecordSign(ctx context.Context, protocol, kind string, duration time.Duration) {
}

func (n *NoOpMetrics) RecordSignError(ctx context.Context, protocol, errType string) {}

func (n *NoOpMetrics) RecordVerify(ctx context.Context, reason string, duration time.Duration) {}

func (n *NoOpMetrics) RecordBatch(ctx context.Context, size int, duration time.Duration) {}
