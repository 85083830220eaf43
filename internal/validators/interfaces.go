// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks records before they reach the repositories:
// stored vaults, recovery contacts, recovery bundles, hardware records and
// recovery token records.
//
// Validation here is structural. It never decrypts anything; whether a
// password, phrase or key is correct is decided by the vault engine.
package validators

import "context"

// Validator validates obj. When fields are given only those checks run,
// using the Field* names of this package; otherwise every check for the
// type of obj runs.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
