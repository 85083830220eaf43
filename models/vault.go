// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

const (
	// VaultVersion is the only envelope version understood by this module.
	VaultVersion = 1

	// VaultFormat tags the envelope family in exported JSON.
	VaultFormat = "go-vault-keeper/envelope"

	// KDFAlgorithmArgon2id is the literal stored in [KDFHeader.Algorithm].
	KDFAlgorithmArgon2id = "argon2id"
)

// Sealed is the output of one AEAD encryption: a fresh nonce, the
// authentication tag and the ciphertext. All three are base64-encoded when
// marshalled to JSON ([]byte fields are encoded by encoding/json as std
// base64).
type Sealed struct {
	// Nonce is the per-encryption unique value. Not secret.
	Nonce []byte `json:"nonce"`

	// Tag is the GCM authentication tag.
	Tag []byte `json:"tag"`

	// Ciphertext is the encrypted plaintext without the tag.
	Ciphertext []byte `json:"ciphertext"`
}

// KDFHeader describes how the password key of a vault was derived.
// The salt is random per password; cost parameters are persisted so
// that a deployment can raise its defaults without locking out old vaults.
type KDFHeader struct {
	// Algorithm is always [KDFAlgorithmArgon2id].
	Algorithm string `json:"algorithm"`

	// Salt is the random per-password salt.
	Salt []byte `json:"salt"`

	// MemoryCost is the Argon2id memory parameter in KiB.
	MemoryCost uint32 `json:"memoryCost"`

	// TimeCost is the Argon2id iteration count.
	TimeCost uint32 `json:"timeCost"`

	// Parallelism is the Argon2id lane count.
	Parallelism uint8 `json:"parallelism"`
}

// Vault is the persisted envelope. Primary and Recovery always decrypt to
// byte-identical plaintext: Primary under the password key, Recovery under
// the key derived from the recovery seed. KeyWrap holds the recovery key
// sealed under the password key so that the recovery box can be rewritten
// on update without the caller supplying the seed.
type Vault struct {
	Version  int       `json:"version"`
	Format   string    `json:"format"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	KDF      KDFHeader `json:"kdf"`
	Primary  Sealed    `json:"primary"`
	Recovery Sealed    `json:"recovery"`
	KeyWrap  Sealed    `json:"keyWrap"`
}

// StoredVault binds an envelope to its owner for persistence.
type StoredVault struct {
	// VaultID is the UUID assigned when the vault was first stored.
	VaultID string `json:"vault_id"`

	// Envelope is the vault itself.
	Envelope Vault `json:"envelope"`

	// Revision is the optimistic-locking counter incremented on every write.
	Revision int64 `json:"revision"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
