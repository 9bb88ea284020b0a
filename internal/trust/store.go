package trust

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"laurelid/internal/trust/metrics"
)

// DefaultFetchTimeout bounds a single source fetch. The store lock is held for
// the whole fetch, so an unbounded fetch would stall every verification.
const DefaultFetchTimeout = 10 * time.Second

const sourceName = "trust_list"

var tracer = otel.Tracer("laurelid/internal/trust")

// Store owns one freshness-bounded copy of the trust list shared by all
// verification calls.
//
// Refresh, Get and GetOrRefresh run under a single mutex held across the
// fetch-and-swap, so only one network fetch is ever in flight. Callers that
// queued behind a fetch observe its result instead of fetching again.
type Store struct {
	source Source

	mu       sync.Mutex
	attempts atomic.Uint64 // completed fetch attempts; written under mu
	lastErr  error         // result of the most recent failed attempt; guarded by mu

	snapshot atomic.Pointer[Snapshot]

	fetchTimeout time.Duration
	now          func() time.Time
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithFetchTimeout overrides DefaultFetchTimeout. Zero or negative disables
// the bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.fetchTimeout = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty store backed by source.
func New(source Source, opts ...Option) (*Store, error) {
	if source == nil {
		return nil, errors.New("trust list source is required")
	}
	s := &Store{
		source:       source,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Refresh unconditionally fetches the trust list and replaces the snapshot.
// On failure the existing snapshot is left untouched.
func (s *Store) Refresh(ctx context.Context) (List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.fetchLocked(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "trust list refreshed", "entries", len(list))
	return list, nil
}

// Get returns the cached list, fetching it first when nothing is cached.
func (s *Store) Get(ctx context.Context) (List, error) {
	if snap := s.snapshot.Load(); snap != nil {
		return snap.List, nil
	}

	seen := s.attempts.Load()
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap := s.snapshot.Load(); snap != nil {
		return snap.List, nil
	}
	if s.attempts.Load() != seen {
		// A fetch finished while we waited and left nothing cached.
		if seeded, ok := s.seedLocked(ctx, s.lastErr); ok {
			return seeded, nil
		}
		return nil, noTrustList(s.lastErr)
	}

	list, err := s.fetchLocked(ctx)
	if err != nil {
		if seeded, ok := s.seedLocked(ctx, err); ok {
			return seeded, nil
		}
		s.logger.ErrorContext(ctx, "unable to load trust list", "error", err)
		return nil, noTrustList(err)
	}
	s.logger.InfoContext(ctx, "loaded trust list", "entries", len(list))
	return list, nil
}

// GetOrRefresh returns a list no older than maxAge when the source allows it.
// A maxAge of zero or less means no forced refresh and behaves like Get. When
// the refresh fails, the stale list is returned if one exists.
func (s *Store) GetOrRefresh(ctx context.Context, maxAge time.Duration) (List, error) {
	if maxAge <= 0 {
		return s.Get(ctx)
	}
	if snap := s.snapshot.Load(); snap != nil && snap.Age(s.now()) <= maxAge {
		return snap.List, nil
	}

	seen := s.attempts.Load()
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot.Load()
	if snap != nil && snap.Age(s.now()) <= maxAge {
		return snap.List, nil
	}
	if s.attempts.Load() != seen {
		// The fetch we queued behind failed; share its outcome.
		if snap != nil {
			s.metrics.IncStaleServed()
			return snap.List, nil
		}
		if seeded, ok := s.seedLocked(ctx, s.lastErr); ok {
			return seeded, nil
		}
		return nil, noTrustList(s.lastErr)
	}

	list, err := s.fetchLocked(ctx)
	if err == nil {
		return list, nil
	}
	if snap != nil {
		s.metrics.IncStaleServed()
		s.logger.WarnContext(ctx, "trust list refresh failed, serving stale list",
			"error", err,
			"age", snap.Age(s.now()).String(),
			"max_age", maxAge.String(),
		)
		return snap.List, nil
	}
	if seeded, ok := s.seedLocked(ctx, err); ok {
		return seeded, nil
	}
	return nil, noTrustList(err)
}

// Cached returns the current list without any I/O.
func (s *Store) Cached() (List, bool) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, false
	}
	return snap.List, true
}

// Snapshot returns the current list and its fetch time.
func (s *Store) Snapshot() Snapshot {
	snap := s.snapshot.Load()
	if snap == nil {
		return Snapshot{}
	}
	return *snap
}

// fetchLocked performs one bounded fetch and swaps the snapshot on success.
// Must be called while holding s.mu.
//
// A fetch that failed because its own caller went away is not an attempt
// other callers may share: waiters queued behind it fetch for themselves.
func (s *Store) fetchLocked(ctx context.Context) (List, error) {
	caller := ctx
	ctx, span := tracer.Start(ctx, "trust.fetch")
	defer span.End()

	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	start := time.Now()
	remote, err := s.source.Fetch(ctx)
	elapsed := time.Since(start)

	if err != nil {
		fe := asFetchError(sourceName, err)
		if caller.Err() == nil {
			s.lastErr = fe
			s.attempts.Add(1)
		}
		s.metrics.ObserveFetch(string(fe.Category), elapsed)
		span.RecordError(fe)
		span.SetStatus(codes.Error, string(fe.Category))
		return nil, fe
	}

	list := maps.Clone(remote)
	if list == nil {
		list = List{}
	}
	s.snapshot.Store(&Snapshot{List: list, FetchedAt: s.now()})
	s.lastErr = nil
	s.attempts.Add(1)

	s.metrics.ObserveFetch("success", elapsed)
	s.metrics.SetEntries(len(list))
	span.SetAttributes(attribute.Int("trust.entries", len(list)))
	return list, nil
}

// seedLocked installs the fallback copy carried by a failed fetch when the
// store has nothing cached. The copy keeps its original fetch time so the
// next TTL check retries the source. Must be called while holding s.mu.
func (s *Store) seedLocked(ctx context.Context, err error) (List, bool) {
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Fallback == nil || fe.Fallback.List == nil {
		return nil, false
	}
	if s.snapshot.Load() != nil {
		return nil, false
	}
	snap := &Snapshot{List: maps.Clone(fe.Fallback.List), FetchedAt: fe.Fallback.FetchedAt}
	s.snapshot.Store(snap)
	s.metrics.SetEntries(len(snap.List))
	s.metrics.IncStaleServed()
	s.logger.WarnContext(ctx, "trust list source down, seeded cache from fallback copy",
		"error", err,
		"fetched_at", snap.FetchedAt,
		"entries", len(snap.List),
	)
	return snap.List, true
}

func noTrustList(err error) error {
	if err == nil {
		return ErrNoTrustList
	}
	return fmt.Errorf("%w: %w", ErrNoTrustList, err)
}
