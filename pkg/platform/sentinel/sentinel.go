package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors without parsing
// message strings.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: no record exists for the given code or identifier
// - ErrConflict: a record with the same code already exists
// - ErrExpired: the record's expiry timestamp has passed
// - ErrAlreadyUsed: the code was consumed by an earlier claim
// - ErrUnavailable: the backing store is temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrExpired     = errors.New("expired")
	ErrAlreadyUsed = errors.New("already used")
	ErrUnavailable = errors.New("unavailable")
)
