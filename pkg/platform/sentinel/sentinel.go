package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and provider adapters
// return these (optionally wrapped) so services can translate them into coded
// domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: document or package does not exist in the store
// - ErrExpired: invite code or token past its TTL
// - ErrAlreadyUsed: one-time invite code already redeemed
// - ErrInvalidState: entity in wrong state for the requested operation
// - ErrUnavailable: backing service temporarily unreachable
//
// For validation failures (bad input, malformed documents), use
// pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
