package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, sources and other
// infrastructure layers return these (optionally wrapped) so the verification
// core can translate them into its own error types.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in a store or mirror
// - ErrExpired: a cached value outlived its retention
// - ErrInvalidState: component in wrong state for requested operation
// - ErrUnavailable: service or resource temporarily unavailable
// - ErrBusy: a single-occupancy resource is already in use
var (
	ErrNotFound     = errors.New("not found")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
	ErrBusy         = errors.New("busy")
)
