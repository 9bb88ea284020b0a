package trust

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// =============================================================================
// Trust Store Test Suite
// =============================================================================
// The store is the only shared mutable state of the verifier. These tests pin
// the freshness policy, stale fallback and the single-fetch guarantee.

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// countingSource returns list or err and counts calls. When gate is set each
// call announces itself on started and blocks until gate is closed.
type countingSource struct {
	mu      sync.Mutex
	list    List
	err     error
	calls   atomic.Int32
	gate    chan struct{}
	started chan struct{}
}

func (f *countingSource) Fetch(ctx context.Context) (List, error) {
	f.calls.Add(1)
	if f.gate != nil {
		f.started <- struct{}{}
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list, f.err
}

func (f *countingSource) set(list List, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list, f.err = list, err
}

type StoreSuite struct {
	suite.Suite
	clock  *fakeClock
	source *countingSource
	store  *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.clock = &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	s.source = &countingSource{list: List{"AZ-MVD": "token-az"}}

	var err error
	s.store, err = New(s.source, WithClock(s.clock.Now))
	s.Require().NoError(err)
}

var errUnreachable = errors.New("connection refused")

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *StoreSuite) TestNew() {
	s.Run("nil source returns error", func() {
		_, err := New(nil)
		s.Error(err)
		s.Contains(err.Error(), "source is required")
	})

	s.Run("new store has nothing cached", func() {
		list, ok := s.store.Cached()
		s.False(ok)
		s.Nil(list)
		s.True(s.store.Snapshot().IsZero())
	})
}

// =============================================================================
// Refresh Tests
// =============================================================================

func (s *StoreSuite) TestRefresh() {
	ctx := context.Background()

	s.Run("replaces snapshot on success", func() {
		list, err := s.store.Refresh(ctx)
		s.Require().NoError(err)
		s.True(list.Trusts("AZ-MVD"))

		s.clock.Advance(time.Minute)
		s.source.set(List{"CA-DMV": "token-ca"}, nil)

		list, err = s.store.Refresh(ctx)
		s.Require().NoError(err)
		s.False(list.Trusts("AZ-MVD"))
		s.True(list.Trusts("CA-DMV"))
		s.Equal(s.clock.Now(), s.store.Snapshot().FetchedAt)
		s.EqualValues(2, s.source.calls.Load())
	})

	s.Run("failure leaves snapshot untouched", func() {
		before := s.store.Snapshot()
		s.source.set(nil, errUnreachable)

		_, err := s.store.Refresh(ctx)
		s.Require().Error(err)
		s.True(IsFetchError(err))
		s.ErrorIs(err, errUnreachable)
		s.Equal(CategoryOutage, GetCategory(err))
		s.Equal(before, s.store.Snapshot())
	})

	s.Run("source mutations do not leak into the cache", func() {
		remote := List{"NV-DMV": "token-nv"}
		s.source.set(remote, nil)

		_, err := s.store.Refresh(ctx)
		s.Require().NoError(err)
		remote["XX-FAKE"] = "injected"

		cached, ok := s.store.Cached()
		s.Require().True(ok)
		s.False(cached.Trusts("XX-FAKE"))
	})
}

// =============================================================================
// Get Tests
// =============================================================================

func (s *StoreSuite) TestGet() {
	ctx := context.Background()

	s.Run("cold get fails with fetch error when source is down", func() {
		s.source.set(nil, errUnreachable)

		_, err := s.store.Get(ctx)
		s.Require().Error(err)
		s.True(IsFetchError(err))
	})

	s.Run("cold get fetches and caches", func() {
		s.source.set(List{"AZ-MVD": "token-az"}, nil)

		list, err := s.store.Get(ctx)
		s.Require().NoError(err)
		s.True(list.Trusts("AZ-MVD"))

		cached, ok := s.store.Cached()
		s.True(ok)
		s.Equal(list, cached)
	})

	s.Run("warm get never touches the source", func() {
		calls := s.source.calls.Load()
		s.source.set(nil, errUnreachable)
		s.clock.Advance(365 * 24 * time.Hour)

		list, err := s.store.Get(ctx)
		s.NoError(err)
		s.True(list.Trusts("AZ-MVD"))
		s.Equal(calls, s.source.calls.Load())
	})
}

// =============================================================================
// GetOrRefresh Tests
// =============================================================================

func (s *StoreSuite) TestGetOrRefreshWithoutTTL() {
	ctx := context.Background()
	_, err := s.store.Refresh(ctx)
	s.Require().NoError(err)

	s.clock.Advance(1000 * time.Hour)
	list, err := s.store.GetOrRefresh(ctx, 0)
	s.NoError(err)
	s.True(list.Trusts("AZ-MVD"))

	_, err = s.store.GetOrRefresh(ctx, -time.Minute)
	s.NoError(err)
	s.EqualValues(1, s.source.calls.Load(), "no TTL never forces a fetch")
}

func (s *StoreSuite) TestGetOrRefreshWithTTL() {
	ctx := context.Background()
	ttl := 10 * time.Minute

	_, err := s.store.GetOrRefresh(ctx, ttl)
	s.Require().NoError(err)
	s.EqualValues(1, s.source.calls.Load(), "cold cache fetches")

	s.Run("age equal to ttl is still fresh", func() {
		s.clock.Advance(ttl)
		_, err := s.store.GetOrRefresh(ctx, ttl)
		s.NoError(err)
		s.EqualValues(1, s.source.calls.Load())
	})

	s.Run("age beyond ttl triggers exactly one fetch", func() {
		s.clock.Advance(time.Second)
		s.source.set(List{"AZ-MVD": "token-az-2"}, nil)

		list, err := s.store.GetOrRefresh(ctx, ttl)
		s.NoError(err)
		s.Equal("token-az-2", list["AZ-MVD"])
		s.EqualValues(2, s.source.calls.Load())

		_, err = s.store.GetOrRefresh(ctx, ttl)
		s.NoError(err)
		s.EqualValues(2, s.source.calls.Load(), "fresh after refresh")
	})

	s.Run("failed refresh serves the stale list", func() {
		s.clock.Advance(ttl + time.Second)
		s.source.set(nil, errUnreachable)

		list, err := s.store.GetOrRefresh(ctx, ttl)
		s.NoError(err)
		s.Equal("token-az-2", list["AZ-MVD"])
		s.EqualValues(3, s.source.calls.Load())
	})
}

func (s *StoreSuite) TestGetOrRefreshColdFailure() {
	s.source.set(nil, errUnreachable)

	_, err := s.store.GetOrRefresh(context.Background(), time.Minute)
	s.Require().Error(err)
	s.True(IsFetchError(err))
	s.ErrorIs(err, ErrNoTrustList)
	s.ErrorIs(err, errUnreachable)

	_, err = s.store.Get(context.Background())
	s.ErrorIs(err, ErrNoTrustList)
}

func (s *StoreSuite) TestFetchTimeout() {
	blocking := SourceFunc(func(ctx context.Context) (List, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	store, err := New(blocking, WithFetchTimeout(20*time.Millisecond))
	s.Require().NoError(err)

	_, err = store.Refresh(context.Background())
	s.Require().Error(err)
	s.Equal(CategoryTimeout, GetCategory(err))
}

// =============================================================================
// Concurrency Tests
// =============================================================================
// Concurrent callers on a cold cache must share one fetch, whatever its result.

func (s *StoreSuite) TestNoStampede() {
	for _, tc := range []struct {
		name string
		err  error
	}{
		{name: "successful fetch", err: nil},
		{name: "failed fetch", err: errUnreachable},
	} {
		s.Run(tc.name, func() {
			source := &countingSource{
				list:    List{"AZ-MVD": "token-az"},
				err:     tc.err,
				gate:    make(chan struct{}),
				started: make(chan struct{}, 1),
			}
			store, err := New(source, WithClock(s.clock.Now))
			s.Require().NoError(err)

			const callers = 16
			var ready, done sync.WaitGroup
			errs := make(chan error, callers)
			ready.Add(callers)
			done.Add(callers)
			for i := range callers {
				go func() {
					defer done.Done()
					ready.Done()
					var err error
					if i%2 == 0 {
						_, err = store.Get(context.Background())
					} else {
						_, err = store.GetOrRefresh(context.Background(), time.Minute)
					}
					errs <- err
				}()
			}

			ready.Wait()
			<-source.started
			time.Sleep(50 * time.Millisecond)
			close(source.gate)
			done.Wait()
			close(errs)

			s.EqualValues(1, source.calls.Load())
			for err := range errs {
				if tc.err == nil {
					s.NoError(err)
				} else {
					s.True(IsFetchError(err))
					s.ErrorIs(err, ErrNoTrustList)
				}
			}
		})
	}
}

// A fetch abandoned by its own caller says nothing about the source, so a
// caller queued behind it must fetch instead of inheriting context.Canceled.
func (s *StoreSuite) TestCanceledFetchIsNotShared() {
	started := make(chan struct{}, 1)
	var calls atomic.Int32
	source := SourceFunc(func(ctx context.Context) (List, error) {
		if calls.Add(1) == 1 {
			started <- struct{}{}
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return List{"AZ-MVD": "token-az"}, nil
	})
	store, err := New(source, WithClock(s.clock.Now))
	s.Require().NoError(err)

	adminCtx, cancel := context.WithCancel(context.Background())
	refreshErr := make(chan error, 1)
	go func() {
		_, err := store.Refresh(adminCtx)
		refreshErr <- err
	}()
	<-started

	type result struct {
		list List
		err  error
	}
	waiter := make(chan result, 1)
	go func() {
		list, err := store.GetOrRefresh(context.Background(), time.Minute)
		waiter <- result{list, err}
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	s.ErrorIs(<-refreshErr, context.Canceled)
	got := <-waiter
	s.Require().NoError(got.err)
	s.True(got.list.Trusts("AZ-MVD"))
	s.EqualValues(2, calls.Load())
}

// =============================================================================
// Fallback Copy Tests
// =============================================================================
// A source may attach an older copy of the list to a failure. It may only fill
// an empty cache, and it keeps its own fetch time.

func fallbackErr(list List, fetchedAt time.Time) error {
	return WithFallback("mirror", errUnreachable, Snapshot{List: list, FetchedAt: fetchedAt})
}

func (s *StoreSuite) TestFallbackSeedsColdCache() {
	ctx := context.Background()
	mirroredAt := s.clock.Now().Add(-6 * time.Hour)
	s.source.set(nil, fallbackErr(List{"AZ-MVD": "token-mirror"}, mirroredAt))

	s.Run("refresh reports the failure and caches nothing", func() {
		_, err := s.store.Refresh(ctx)
		s.Require().Error(err)
		s.True(s.store.Snapshot().IsZero())
	})

	s.Run("lookup seeds the cache with the original fetch time", func() {
		list, err := s.store.GetOrRefresh(ctx, time.Hour)
		s.Require().NoError(err)
		s.Equal("token-mirror", list["AZ-MVD"])
		s.Equal(mirroredAt, s.store.Snapshot().FetchedAt)
	})

	s.Run("seeded copy is already past ttl so the source is retried", func() {
		calls := s.source.calls.Load()
		s.source.set(List{"AZ-MVD": "token-fresh"}, nil)

		list, err := s.store.GetOrRefresh(ctx, time.Hour)
		s.Require().NoError(err)
		s.Equal("token-fresh", list["AZ-MVD"])
		s.Equal(calls+1, s.source.calls.Load())
	})
}

func (s *StoreSuite) TestFallbackNeverReplacesCachedList() {
	ctx := context.Background()
	fetchedAt := s.clock.Now()
	_, err := s.store.Refresh(ctx)
	s.Require().NoError(err)

	s.clock.Advance(61 * time.Minute)
	s.source.set(nil, fallbackErr(List{"AZ-MVD": "token-old"}, fetchedAt.Add(-6*time.Hour)))

	list, err := s.store.GetOrRefresh(ctx, time.Hour)
	s.Require().NoError(err)
	s.Equal("token-az", list["AZ-MVD"], "newer local list is served stale")
	s.Equal(fetchedAt, s.store.Snapshot().FetchedAt)

	list, err = s.store.Get(ctx)
	s.Require().NoError(err)
	s.Equal("token-az", list["AZ-MVD"])
}

func (s *StoreSuite) TestFallbackKeepsCategoryAndCause() {
	err := WithFallback("mirror", NewFetchError(CategoryTimeout, "https://trust.example", "request timed out", errUnreachable),
		Snapshot{List: List{}})
	s.Equal(CategoryTimeout, GetCategory(err))
	s.ErrorIs(err, errUnreachable)
	s.Equal("https://trust.example", err.Source)
}
