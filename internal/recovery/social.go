// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package recovery implements the ways back into a vault when the password
// is lost: seed shards held by trusted contacts, a printed hardware backup
// key, and the opaque tokens that identify a recovery session.
//
// Every method works on the 32-byte vault seed, never on the payload.
package recovery

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/internal/shamir"
	"github.com/MKhiriev/go-vault-keeper/models"
)

const (
	// SeedSize is the length of a vault seed.
	SeedSize = 32

	// MinContacts and MaxContacts bound the number of shard holders.
	MinContacts = 3
	MaxContacts = 10

	// DefaultThreshold is the number of shards needed when none is given.
	DefaultThreshold = 3

	recoveryIDSize = 16
)

// SocialManager splits a seed into contact shards and rebuilds it.
type SocialManager struct {
	keys   crypto.KeyChain
	cipher crypto.Cipher
	random io.Reader
	now    func() time.Time
}

// NewSocialManager constructs a [SocialManager].
func NewSocialManager(keys crypto.KeyChain, cipher crypto.Cipher) *SocialManager {
	return &SocialManager{
		keys:   keys,
		cipher: cipher,
		random: rand.Reader,
		now:    time.Now,
	}
}

// Setup splits seed into one Shamir share per contact, any threshold of
// which rebuild it, and seals each share under a key bound to the new
// recovery ID and that contact's email. A threshold of 0 selects
// [DefaultThreshold].
func (m *SocialManager) Setup(seed []byte, contacts []models.Contact, threshold int) (models.RecoveryBundle, error) {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if err := validateContacts(contacts, threshold); err != nil {
		return models.RecoveryBundle{}, err
	}
	if len(seed) != SeedSize {
		return models.RecoveryBundle{}, ErrInvalidSeed
	}

	id := make([]byte, recoveryIDSize)
	if _, err := io.ReadFull(m.random, id); err != nil {
		return models.RecoveryBundle{}, fmt.Errorf("generate recovery id: %w", err)
	}

	shares, err := shamir.Split(seed, len(contacts), threshold)
	if err != nil {
		return models.RecoveryBundle{}, err
	}

	bundle := models.RecoveryBundle{
		RecoveryID:  hex.EncodeToString(id),
		Threshold:   threshold,
		TotalShares: len(contacts),
		Contacts:    make([]models.ContactShard, len(contacts)),
		Created:     m.now().UTC().Truncate(time.Millisecond),
	}

	for i, c := range contacts {
		key, err := m.keys.DeriveContactKey(id, c.Email)
		if err != nil {
			return models.RecoveryBundle{}, fmt.Errorf("derive contact key: %w", err)
		}
		box, err := m.cipher.Encrypt(key, []byte(shamir.Encode(shares[i])))
		crypto.Zero(key)
		if err != nil {
			return models.RecoveryBundle{}, fmt.Errorf("seal shard: %w", err)
		}

		bundle.Contacts[i] = models.ContactShard{
			Email:          c.Email,
			Name:           c.Name,
			ShareIndex:     int(shares[i].X),
			EncryptedShard: box,
		}
	}

	return bundle, nil
}

func validateContacts(contacts []models.Contact, threshold int) error {
	if len(contacts) < MinContacts {
		return ErrNotEnoughContacts
	}
	if len(contacts) > MaxContacts {
		return ErrTooManyContacts
	}
	if threshold < 2 {
		return shamir.ErrThresholdTooLow
	}
	if threshold >= len(contacts) {
		return ErrThresholdTooHigh
	}

	seen := make(map[string]struct{}, len(contacts))
	for _, c := range contacts {
		email := strings.ToLower(strings.TrimSpace(c.Email))
		if email == "" {
			return ErrInvalidContact
		}
		if _, dup := seen[email]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateContact, c.Email)
		}
		seen[email] = struct{}{}
	}
	return nil
}

// DecryptContactShard opens one contact's shard. A wrong recovery ID or
// email yields a different key and so an authentication failure.
func (m *SocialManager) DecryptContactShard(recoveryID, email string, shard models.Sealed) (shamir.Share, error) {
	id, err := hex.DecodeString(recoveryID)
	if err != nil || len(id) != recoveryIDSize || email == "" {
		return shamir.Share{}, ErrInvalidShard
	}

	key, err := m.keys.DeriveContactKey(id, email)
	if err != nil {
		return shamir.Share{}, ErrInvalidShard
	}
	defer crypto.Zero(key)

	plaintext, err := m.cipher.Decrypt(key, shard)
	if err != nil {
		return shamir.Share{}, ErrInvalidShard
	}
	return shamir.Decode(string(plaintext))
}

// RecoverSeed rebuilds the seed from decrypted shares. With fewer than
// threshold genuine shares the result is wrong but well-formed; it is
// rejected later when it fails to open the vault.
func (m *SocialManager) RecoverSeed(shares []shamir.Share) ([]byte, error) {
	seed, err := shamir.Combine(shares)
	if err != nil {
		return nil, err
	}
	if len(seed) != SeedSize {
		return nil, ErrInvalidSeed
	}
	return seed, nil
}
