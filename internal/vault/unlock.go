// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"fmt"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/internal/phrase"
	"github.com/MKhiriev/go-vault-keeper/models"
)

// Unlock decrypts the payload of v with password.
func (e *Engine) Unlock(v models.Vault, password string) (models.Payload, error) {
	key, err := e.passwordKey(v, password)
	if err != nil {
		return models.Payload{}, err
	}
	defer crypto.Zero(key)

	payload, _, err := e.open(key, v.Primary, ErrInvalidPassword)
	return payload, err
}

// UnlockWithPasswordAndKey is [Engine.Unlock] that also returns the derived
// password key, so a caller can reopen the vault with [Engine.UnlockWithKey]
// inside a short window without paying for the KDF again. The caller owns
// the key and must drop it when the window closes.
func (e *Engine) UnlockWithPasswordAndKey(v models.Vault, password string) (Unlocked, error) {
	key, err := e.passwordKey(v, password)
	if err != nil {
		return Unlocked{}, err
	}

	payload, _, err := e.open(key, v.Primary, ErrInvalidPassword)
	if err != nil {
		crypto.Zero(key)
		return Unlocked{}, err
	}
	return Unlocked{Payload: payload, Key: key}, nil
}

// UnlockWithKey decrypts the payload of v with a previously derived
// password key. No KDF runs.
func (e *Engine) UnlockWithKey(v models.Vault, key []byte) (models.Payload, error) {
	if !IsValid(v) {
		return models.Payload{}, ErrInvalidVault
	}
	if len(key) != crypto.KeySize {
		return models.Payload{}, ErrInvalidKey
	}

	payload, _, err := e.open(key, v.Primary, ErrInvalidKey)
	return payload, err
}

// UnlockWithRecovery decrypts the recovery box of v with the seed encoded by
// the recovery phrase. The seed is returned so the caller can reset the
// password with [Engine.CreateWithData].
func (e *Engine) UnlockWithRecovery(v models.Vault, recoveryPhrase string) (Recovered, error) {
	if !IsValid(v) {
		return Recovered{}, ErrInvalidVault
	}

	seed, err := phrase.RecoverSeed(recoveryPhrase)
	if err != nil {
		return Recovered{}, ErrInvalidRecoveryPhrase
	}

	payload, err := e.unlockRecovery(v, seed, ErrInvalidRecoveryPhrase)
	if err != nil {
		crypto.Zero(seed)
		return Recovered{}, err
	}
	return Recovered{Payload: payload, Seed: seed}, nil
}

// UnlockWithSeed decrypts the recovery box of v with a seed obtained from
// social or hardware recovery.
func (e *Engine) UnlockWithSeed(v models.Vault, seed []byte) (models.Payload, error) {
	if !IsValid(v) {
		return models.Payload{}, ErrInvalidVault
	}
	if len(seed) != phrase.SeedSize {
		return models.Payload{}, ErrInvalidSeed
	}
	return e.unlockRecovery(v, seed, ErrInvalidSeed)
}

func (e *Engine) unlockRecovery(v models.Vault, seed []byte, authErr error) (models.Payload, error) {
	key, err := e.keys.DeriveRecoveryKey(seed)
	if err != nil {
		return models.Payload{}, fmt.Errorf("derive recovery key: %w", err)
	}
	defer crypto.Zero(key)

	payload, _, err := e.open(key, v.Recovery, authErr)
	return payload, err
}
