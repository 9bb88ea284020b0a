package source

import (
	"context"
	"log/slog"

	"laurelid/internal/trust"
	"laurelid/pkg/platform/circuit"
)

// BreakerSource short-circuits fetches while the wrapped source keeps failing,
// so the store falls back to its stale list without waiting on a dead network.
type BreakerSource struct {
	next    trust.Source
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// WithBreaker wraps next with breaker. A nil logger discards output.
func WithBreaker(next trust.Source, breaker *circuit.Breaker, logger *slog.Logger) *BreakerSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BreakerSource{next: next, breaker: breaker, logger: logger}
}

func (b *BreakerSource) Fetch(ctx context.Context) (trust.List, error) {
	if !b.breaker.Allow() {
		return nil, trust.NewFetchError(trust.CategoryCircuitOpen, b.breaker.Name(), "circuit open, fetch skipped", nil)
	}

	list, err := b.next.Fetch(ctx)
	if err != nil {
		if _, change := b.breaker.RecordFailure(); change.Opened {
			b.logger.WarnContext(ctx, "trust list circuit opened",
				"breaker", b.breaker.Name(),
				"error", err,
			)
		}
		return nil, err
	}

	if _, change := b.breaker.RecordSuccess(); change.Closed {
		b.logger.InfoContext(ctx, "trust list circuit closed", "breaker", b.breaker.Name())
	}
	return list, nil
}
