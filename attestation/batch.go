package attestation

import (
	"context"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AttestBatch attests events concurrently with at most limit workers
// (GOMAXPROCS when limit <= 0). Results keep the order of events. The first
// failure cancels the remaining work and is returned with the event index.
func (a *Attester) AttestBatch(ctx context.Context, events []Event, format SignatureFormat, limit int) ([]*Attestation, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	results := make([]*Attestation, len(events))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, ev := range events {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			att, err := a.Attest(ev, format)
			if err != nil {
				return errors.Wrapf(err, "event %d", i)
			}
			results[i] = att
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		a.logger.Warn("attestation batch failed", zap.Int("size", len(events)), zap.Error(err))
		return nil, err
	}

	a.metrics.RecordBatch(ctx, len(events), time.Since(start))
	a.logger.Debug("attestation batch signed", zap.Int("size", len(events)), zap.Duration("elapsed", time.Since(start)))
	return results, nil
}
