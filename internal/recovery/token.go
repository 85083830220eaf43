// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package recovery

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/MKhiriev/go-vault-keeper/internal/utils"
)

const tokenSize = 32

// TokenService issues opaque recovery tokens and the digests stored in
// their place.
type TokenService struct {
	hasher *utils.Hasher
	random io.Reader
}

// NewTokenService constructs a [TokenService]. A non-empty hashKey turns
// the digest into an HMAC so that a leaked token table cannot be checked
// offline without the key.
func NewTokenService(hashKey string) *TokenService {
	return &TokenService{
		hasher: utils.NewHasher(hashKey),
		random: rand.Reader,
	}
}

// Create returns 32 random bytes, hex-encoded.
func (s *TokenService) Create() (string, error) {
	b := make([]byte, tokenSize)
	if _, err := io.ReadFull(s.random, b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Hash returns the deterministic one-way digest of token.
func (s *TokenService) Hash(token string) string {
	return s.hasher.HashString(token)
}

// Verify reports whether token hashes to hash.
func (s *TokenService) Verify(token, hash string) bool {
	return utils.Equal(s.Hash(token), hash)
}
