package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidKDFConfigs indicates Argon2id parameters that cannot be used
	// (for example, zero passes or memory below 8 KiB per lane).
	ErrInvalidKDFConfigs = errors.New("invalid kdf configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an unknown driver or empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSessionConfigs indicates non-positive session lifetimes.
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
	// ErrInvalidWorkerConfigs indicates invalid worker settings
	// (for example, zero KDF concurrency).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
