package shamir

import "errors"

//nolint:staticcheck // messages are user-facing and kept capitalised
var (
	ErrThresholdTooLow       = errors.New("Threshold must be at least 2")
	ErrTotalBelowThreshold   = errors.New("Total shares must be >= threshold")
	ErrTooManyShares         = errors.New("Maximum 255 shares supported")
	ErrDuplicateShareIndices = errors.New("Duplicate share indices")
	ErrShareLengthMismatch   = errors.New("Share length mismatch")
	ErrInvalidShareFormat    = errors.New("Invalid share format")

	// ErrEmptySecret is returned when splitting a zero-length secret.
	ErrEmptySecret = errors.New("secret must not be empty")

	// ErrNoShares is returned by Combine for an empty share list.
	ErrNoShares = errors.New("no shares provided")
)
