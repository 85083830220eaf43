// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"fmt"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/internal/phrase"
	"github.com/MKhiriev/go-vault-keeper/models"
)

// Create builds a new vault holding the empty payload under password, and
// returns the recovery phrase anchoring it.
func (e *Engine) Create(password string) (Created, error) {
	rec, err := phrase.Generate()
	if err != nil {
		return Created{}, fmt.Errorf("generate recovery phrase: %w", err)
	}
	defer crypto.Zero(rec.Seed)

	v, err := e.CreateWithData(password, models.DefaultPayload(), rec.Seed)
	if err != nil {
		return Created{}, err
	}
	return Created{Vault: v, Phrase: rec.Phrase}, nil
}

// CreateWithData builds a fresh envelope for payload from an existing seed.
// It is the password-reset path after a recovery: the seed, and so the
// recovery phrase, stay the same while the salt and password change.
func (e *Engine) CreateWithData(password string, payload models.Payload, seed []byte) (models.Vault, error) {
	if len(seed) != phrase.SeedSize {
		return models.Vault{}, ErrInvalidSeed
	}

	plaintext, err := models.EncodePayload(payload)
	if err != nil {
		return models.Vault{}, err
	}

	kdf, err := e.keys.NewKDFHeader()
	if err != nil {
		return models.Vault{}, fmt.Errorf("new kdf header: %w", err)
	}
	passwordKey, err := e.keys.DerivePasswordKey(password, kdf)
	if err != nil {
		return models.Vault{}, fmt.Errorf("derive password key: %w", err)
	}
	defer crypto.Zero(passwordKey)

	recoveryKey, err := e.keys.DeriveRecoveryKey(seed)
	if err != nil {
		return models.Vault{}, fmt.Errorf("derive recovery key: %w", err)
	}
	defer crypto.Zero(recoveryKey)

	keyWrap, err := e.cipher.Encrypt(passwordKey, recoveryKey)
	if err != nil {
		return models.Vault{}, fmt.Errorf("seal key wrap: %w", err)
	}

	now := e.timestamp()
	v := models.Vault{
		Version: models.VaultVersion,
		Format:  models.VaultFormat,
		Created: now,
		KDF:     kdf,
		KeyWrap: keyWrap,
	}
	return e.reseal(v, passwordKey, recoveryKey, plaintext)
}

// Update replaces the payload of v. The password authenticates the call and
// the recovery key is unwrapped from KeyWrap, so the seed is never needed.
func (e *Engine) Update(v models.Vault, password string, payload models.Payload) (models.Vault, error) {
	passwordKey, err := e.passwordKey(v, password)
	if err != nil {
		return models.Vault{}, err
	}
	defer crypto.Zero(passwordKey)

	return e.update(v, passwordKey, payload, ErrInvalidPassword)
}

// UpdateWithKey is [Engine.Update] with a previously derived password key.
func (e *Engine) UpdateWithKey(v models.Vault, key []byte, payload models.Payload) (models.Vault, error) {
	if !IsValid(v) {
		return models.Vault{}, ErrInvalidVault
	}
	if len(key) != crypto.KeySize {
		return models.Vault{}, ErrInvalidKey
	}
	return e.update(v, key, payload, ErrInvalidKey)
}

func (e *Engine) update(v models.Vault, passwordKey []byte, payload models.Payload, authErr error) (models.Vault, error) {
	if _, _, err := e.open(passwordKey, v.Primary, authErr); err != nil {
		return models.Vault{}, err
	}
	recoveryKey, err := e.cipher.Decrypt(passwordKey, v.KeyWrap)
	if err != nil {
		return models.Vault{}, authErr
	}
	defer crypto.Zero(recoveryKey)

	plaintext, err := models.EncodePayload(payload)
	if err != nil {
		return models.Vault{}, err
	}
	return e.reseal(v, passwordKey, recoveryKey, plaintext)
}

// ChangePassword re-keys the password path of v under a fresh salt. The
// recovery key is unchanged, so the existing recovery phrase keeps working.
func (e *Engine) ChangePassword(v models.Vault, oldPassword, newPassword string) (models.Vault, error) {
	oldKey, err := e.passwordKey(v, oldPassword)
	if err != nil {
		return models.Vault{}, err
	}
	defer crypto.Zero(oldKey)

	_, plaintext, err := e.open(oldKey, v.Primary, ErrInvalidPassword)
	if err != nil {
		return models.Vault{}, err
	}
	recoveryKey, err := e.cipher.Decrypt(oldKey, v.KeyWrap)
	if err != nil {
		return models.Vault{}, ErrInvalidPassword
	}
	defer crypto.Zero(recoveryKey)

	kdf, err := e.keys.NewKDFHeader()
	if err != nil {
		return models.Vault{}, fmt.Errorf("new kdf header: %w", err)
	}
	newKey, err := e.keys.DerivePasswordKey(newPassword, kdf)
	if err != nil {
		return models.Vault{}, fmt.Errorf("derive password key: %w", err)
	}
	defer crypto.Zero(newKey)

	keyWrap, err := e.cipher.Encrypt(newKey, recoveryKey)
	if err != nil {
		return models.Vault{}, fmt.Errorf("seal key wrap: %w", err)
	}

	v.KDF = kdf
	v.KeyWrap = keyWrap
	return e.reseal(v, newKey, recoveryKey, plaintext)
}

// passwordKey validates v and derives its password key.
func (e *Engine) passwordKey(v models.Vault, password string) ([]byte, error) {
	if !IsValid(v) {
		return nil, ErrInvalidVault
	}
	key, err := e.keys.DerivePasswordKey(password, v.KDF)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidVault, err)
	}
	return key, nil
}
