// Package store persists verification decisions for on-device review.
package store

import (
	"context"

	"laurelid/internal/verification"
)

// DefaultLatest is the number of records returned for the debug dump.
const DefaultLatest = 10

// Store is an append-only log of decisions.
type Store interface {
	Save(ctx context.Context, decision verification.Decision) error
	// Latest returns up to n decisions, newest first.
	Latest(ctx context.Context, n int) ([]verification.Decision, error)
}

func clampLatest(n int) int {
	if n <= 0 {
		return DefaultLatest
	}
	return n
}
