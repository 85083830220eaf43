// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/MKhiriev/go-vault-keeper/models"
)

const (
	// NonceSize is the AES-GCM standard nonce length.
	NonceSize = 12

	// TagSize is the AES-GCM tag length.
	TagSize = 16
)

// gcmCipher is the AES-256-GCM implementation of [Cipher].
type gcmCipher struct {
	random io.Reader
}

// NewCipher returns an AES-256-GCM [Cipher] drawing nonces from crypto/rand.
func NewCipher() Cipher {
	return &gcmCipher{random: rand.Reader}
}

// Encrypt implements [Cipher]. gcm.Seal appends the tag to the ciphertext;
// it is split off so the box carries the three fields separately.
func (c *gcmCipher) Encrypt(key, plaintext []byte) (models.Sealed, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return models.Sealed{}, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(c.random, nonce); err != nil {
		return models.Sealed{}, fmt.Errorf("generate nonce: %w", err)
	}

	out := gcm.Seal(nil, nonce, plaintext, nil)
	split := len(out) - TagSize

	return models.Sealed{
		Nonce:      nonce,
		Tag:        out[split:],
		Ciphertext: out[:split],
	}, nil
}

// Decrypt implements [Cipher].
func (c *gcmCipher) Decrypt(key []byte, box models.Sealed) ([]byte, error) {
	if len(box.Nonce) != NonceSize || len(box.Tag) != TagSize {
		return nil, ErrDecryptionFailed
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	sealed := make([]byte, 0, len(box.Ciphertext)+TagSize)
	sealed = append(sealed, box.Ciphertext...)
	sealed = append(sealed, box.Tag...)

	plaintext, err := gcm.Open(nil, box.Nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKeyLength, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
