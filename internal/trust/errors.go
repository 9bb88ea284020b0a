package trust

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCategory normalizes trust list fetch failures.
type ErrorCategory string

const (
	// CategoryTimeout indicates the source did not answer within the fetch timeout.
	CategoryTimeout ErrorCategory = "timeout"

	// CategoryBadData indicates the source answered with a malformed document.
	CategoryBadData ErrorCategory = "bad_data"

	// CategoryOutage indicates the source could not be reached or returned an error status.
	CategoryOutage ErrorCategory = "outage"

	// CategoryCircuitOpen indicates the call was short-circuited after repeated failures.
	CategoryCircuitOpen ErrorCategory = "circuit_open"
)

// ErrNoTrustList is returned when neither a fetch nor the cache produced a
// list. It is always joined with the *FetchError that caused it.
var ErrNoTrustList = errors.New("no trust list available")

// FetchError is returned when the remote trust list is unavailable or malformed.
type FetchError struct {
	Category ErrorCategory
	Source   string
	Message  string
	Err      error
	// Fallback is an older copy a source kept for this failure, stamped with
	// when it was originally fetched. The store only uses it when nothing is
	// cached.
	Fallback *Snapshot
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("trust list %s [%s]: %s: %v", e.Source, e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("trust list %s [%s]: %s", e.Source, e.Category, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a categorized fetch error.
func NewFetchError(category ErrorCategory, source, message string, err error) *FetchError {
	return &FetchError{
		Category: category,
		Source:   source,
		Message:  message,
		Err:      err,
	}
}

// WithFallback attaches an older copy of the list to a fetch failure. The
// failure keeps its category and cause.
func WithFallback(source string, err error, fallback Snapshot) *FetchError {
	fe := *asFetchError(source, err)
	fe.Fallback = &fallback
	return &fe
}

// IsFetchError reports whether err carries a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// GetCategory extracts the category from err, defaulting to CategoryOutage.
func GetCategory(err error) ErrorCategory {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Category
	}
	return CategoryOutage
}

// asFetchError normalizes any error returned by a Source.
func asFetchError(source string, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewFetchError(CategoryTimeout, source, "fetch timed out", err)
	}
	return NewFetchError(CategoryOutage, source, "fetch failed", err)
}
