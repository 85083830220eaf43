// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or one of the Err*Configs
// sentinels wrapped with the offending value otherwise.
func (cfg *StructuredConfig) validate() error {
	if err := cfg.KDF.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKDFConfigs, err)
	}

	switch cfg.Storage.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
	}
	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: empty dsn", ErrInvalidStorageConfigs)
	}
	if cfg.Storage.Cache.Size < 0 {
		return fmt.Errorf("%w: negative cache size", ErrInvalidStorageConfigs)
	}

	if cfg.Session.BiometricWindow <= 0 || cfg.Session.RecoveryTTL <= 0 || cfg.Session.SweepInterval <= 0 {
		return ErrInvalidSessionConfigs
	}

	if cfg.Workers.KDFConcurrency < 1 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
