// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault manages the lifecycle of a vault envelope.
//
// A vault seals one plaintext payload twice: Primary under the password key
// and Recovery under the key derived from the recovery seed. A third box,
// KeyWrap, holds the recovery key sealed under the password key. Every
// mutating operation rewrites Primary and Recovery from one plaintext so
// that the two always decrypt to identical bytes.
//
// Engine is stateless and safe for concurrent use. It never logs.
package vault

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/models"
)

// Engine implements the vault operations on top of a [crypto.KeyChain] and
// a [crypto.Cipher].
type Engine struct {
	keys   crypto.KeyChain
	cipher crypto.Cipher
	now    func() time.Time
}

// Option customises an [Engine].
type Option func(*Engine)

// WithClock replaces the clock used for Created/Updated stamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine constructs an [Engine].
func NewEngine(keys crypto.KeyChain, cipher crypto.Cipher, opts ...Option) *Engine {
	e := &Engine{
		keys:   keys,
		cipher: cipher,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Created is the result of [Engine.Create]. Phrase must be shown to the
// user once and then discarded.
type Created struct {
	Vault  models.Vault
	Phrase string
}

// Unlocked is a payload together with the password key that opened it.
type Unlocked struct {
	Payload models.Payload
	Key     []byte
}

// Recovered is a payload together with the seed recovered from a phrase.
type Recovered struct {
	Payload models.Payload
	Seed    []byte
}

// timestamp is the engine clock in UTC with millisecond precision, which
// survives a JSON round trip unchanged.
func (e *Engine) timestamp() time.Time {
	return e.now().UTC().Truncate(time.Millisecond)
}

// open decrypts box under key and decodes the payload. The raw plaintext is
// returned as well so that callers can reseal it unchanged.
func (e *Engine) open(key []byte, box models.Sealed, authErr error) (models.Payload, []byte, error) {
	plaintext, err := e.cipher.Decrypt(key, box)
	if err != nil {
		return models.Payload{}, nil, authErr
	}
	payload, err := models.DecodePayload(plaintext)
	if err != nil {
		return models.Payload{}, nil, errors.Join(ErrCorruptPayload, err)
	}
	return payload, plaintext, nil
}

// reseal rewrites Primary and Recovery of v from one plaintext with fresh
// nonces and bumps Updated.
func (e *Engine) reseal(v models.Vault, passwordKey, recoveryKey, plaintext []byte) (models.Vault, error) {
	primary, err := e.cipher.Encrypt(passwordKey, plaintext)
	if err != nil {
		return models.Vault{}, fmt.Errorf("seal primary: %w", err)
	}
	recovery, err := e.cipher.Encrypt(recoveryKey, plaintext)
	if err != nil {
		return models.Vault{}, fmt.Errorf("seal recovery: %w", err)
	}

	v.Primary = primary
	v.Recovery = recovery
	v.Updated = e.timestamp()
	return v, nil
}
