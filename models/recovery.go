// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Contact is a person enrolled to hold one shard of the recovery seed.
type Contact struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ContactShard is a [Contact] together with the share it was given.
type ContactShard struct {
	Email string `json:"email"`
	Name  string `json:"name"`

	// ShareIndex is the Shamir x-coordinate (1..n) of the share.
	ShareIndex int `json:"shareIndex"`

	// EncryptedShard is the encoded share sealed under the key derived
	// from (recoveryId, email).
	EncryptedShard Sealed `json:"encryptedShard"`
}

// RecoveryBundle is the result of setting up social recovery.
type RecoveryBundle struct {
	// RecoveryID is 16 random bytes, hex-encoded.
	RecoveryID  string         `json:"recoveryId"`
	Threshold   int            `json:"threshold"`
	TotalShares int            `json:"totalShares"`
	Contacts    []ContactShard `json:"contacts"`
	Created     time.Time      `json:"created"`
}

// HardwareBackupKey is returned once to the user when a backup key is
// generated. Only KeyHash may be persisted.
type HardwareBackupKey struct {
	// BackupKey is KeyBytes in base32, grouped as XXXX-XXXX-...
	BackupKey string `json:"backupKey"`

	// KeyBytes is the raw 32-byte key.
	KeyBytes []byte `json:"-"`

	// KeyHash is a hex fingerprint of KeyBytes, used for matching.
	KeyHash string `json:"keyHash"`
}

// HardwareRecord is the persisted part of hardware-key recovery.
type HardwareRecord struct {
	EncryptedSeed Sealed    `json:"encryptedSeed"`
	KeyHash       string    `json:"keyHash"`
	Created       time.Time `json:"created"`
}

// RecoveryMethod names the path a recovery session was opened for.
type RecoveryMethod string

const (
	RecoveryMethodPhrase   RecoveryMethod = "phrase"
	RecoveryMethodSocial   RecoveryMethod = "social"
	RecoveryMethodHardware RecoveryMethod = "hardware"
)

// RecoveryToken is the server-side record of an issued recovery token.
// The raw token is handed to the requester and never stored.
type RecoveryToken struct {
	TokenHash string         `json:"token_hash"`
	VaultID   string         `json:"vault_id"`
	Method    RecoveryMethod `json:"method"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// StoredRecoveryBundle binds a social recovery bundle to its vault.
type StoredRecoveryBundle struct {
	VaultID string         `json:"vault_id"`
	Bundle  RecoveryBundle `json:"bundle"`
}

// StoredHardwareRecord binds a hardware recovery record to its vault.
type StoredHardwareRecord struct {
	VaultID string         `json:"vault_id"`
	Record  HardwareRecord `json:"record"`
}
