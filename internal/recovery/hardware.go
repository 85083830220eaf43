// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package recovery

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/models"
)

const (
	backupKeySize  = 32
	backupKeyGroup = 4
)

// backupKeyEncoding is RFC 4648 base32 (A-Z, 2-7) without padding.
var backupKeyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// HardwareManager issues backup keys and wraps the seed under them.
type HardwareManager struct {
	cipher crypto.Cipher
	random io.Reader
	now    func() time.Time
}

// NewHardwareManager constructs a [HardwareManager].
func NewHardwareManager(cipher crypto.Cipher) *HardwareManager {
	return &HardwareManager{
		cipher: cipher,
		random: rand.Reader,
		now:    time.Now,
	}
}

// Generate creates a new random backup key.
func (m *HardwareManager) Generate() (models.HardwareBackupKey, error) {
	key := make([]byte, backupKeySize)
	if _, err := io.ReadFull(m.random, key); err != nil {
		return models.HardwareBackupKey{}, fmt.Errorf("generate backup key: %w", err)
	}

	return models.HardwareBackupKey{
		BackupKey: FormatBackupKey(key),
		KeyBytes:  key,
		KeyHash:   HashBackupKey(key),
	}, nil
}

// Setup seals seed directly under keyBytes. The key is uniformly random,
// so no KDF is applied.
func (m *HardwareManager) Setup(seed, keyBytes []byte) (models.HardwareRecord, error) {
	if len(seed) != SeedSize {
		return models.HardwareRecord{}, ErrInvalidSeed
	}
	if len(keyBytes) != backupKeySize {
		return models.HardwareRecord{}, ErrInvalidBackupKey
	}

	box, err := m.cipher.Encrypt(keyBytes, seed)
	if err != nil {
		return models.HardwareRecord{}, fmt.Errorf("seal seed: %w", err)
	}

	return models.HardwareRecord{
		EncryptedSeed: box,
		KeyHash:       HashBackupKey(keyBytes),
		Created:       m.now().UTC().Truncate(time.Millisecond),
	}, nil
}

// Recover decodes backupKey as typed by the user and opens encryptedSeed.
func (m *HardwareManager) Recover(backupKey string, encryptedSeed models.Sealed) ([]byte, error) {
	key, err := ParseBackupKey(backupKey)
	if err != nil {
		return nil, err
	}
	defer crypto.Zero(key)

	seed, err := m.cipher.Decrypt(key, encryptedSeed)
	if err != nil {
		return nil, ErrInvalidBackupKey
	}
	if len(seed) != SeedSize {
		crypto.Zero(seed)
		return nil, ErrInvalidBackupKey
	}
	return seed, nil
}

// FormatBackupKey renders key as base32 in dash-separated groups of four.
func FormatBackupKey(key []byte) string {
	encoded := backupKeyEncoding.EncodeToString(key)

	var b strings.Builder
	for i := 0; i < len(encoded); i += backupKeyGroup {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(encoded[i:min(i+backupKeyGroup, len(encoded))])
	}
	return b.String()
}

// NormalizeBackupKey strips dashes and whitespace and upper-cases text.
// It is idempotent.
func NormalizeBackupKey(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, text)
}

// ParseBackupKey decodes backup key text in any case, with or without
// dashes.
func ParseBackupKey(text string) ([]byte, error) {
	key, err := backupKeyEncoding.DecodeString(NormalizeBackupKey(text))
	if err != nil || len(key) != backupKeySize {
		return nil, ErrInvalidBackupKey
	}
	return key, nil
}

// HashBackupKey returns the hex SHA-256 fingerprint of key.
func HashBackupKey(key []byte) string {
	sum := sha256.Sum256(key)
	return hex.EncodeToString(sum[:])
}
