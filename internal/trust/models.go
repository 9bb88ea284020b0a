package trust

import (
	"context"
	"time"
)

// List maps issuer identifiers to opaque issuer-trust tokens. A List is never
// mutated after it has been handed to the Store; a refresh replaces it whole.
type List map[string]string

// Trusts reports whether issuer is present in the list.
func (l List) Trusts(issuer string) bool {
	_, ok := l[issuer]
	return ok
}

// Snapshot is the cached trust list together with the instant it was fetched.
type Snapshot struct {
	List      List
	FetchedAt time.Time
}

// IsZero reports whether nothing has been fetched yet.
func (s Snapshot) IsZero() bool {
	return s.List == nil && s.FetchedAt.IsZero()
}

// Age returns how old the snapshot is at now.
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// Source fetches the authoritative trust list from a remote system.
// No pagination, no partial results.
type Source interface {
	Fetch(ctx context.Context) (List, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (List, error)

func (f SourceFunc) Fetch(ctx context.Context) (List, error) {
	return f(ctx)
}
