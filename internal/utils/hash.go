// Package utils provides small helpers shared across the application:
// pooled keyed hashing and identifier generation.
package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// Hasher computes HMAC-SHA256 digests under a fixed key, or plain SHA-256
// when the key is empty. Hash instances are pooled.
//
// Purpose:
//   - Avoid repeated allocations of new hash.Hash instances
//   - Let a deployment pepper stored digests without changing callers
//
// Hasher is safe for concurrent use.
type Hasher struct {
	pool sync.Pool
}

// NewHasher returns a [Hasher] keyed with hashKey.
//
// Example usage:
//
//	h := utils.NewHasher(cfg.App.TokenHashKey)
//	digest := h.HashString(token)
func NewHasher(hashKey string) *Hasher {
	key := []byte(hashKey)

	h := &Hasher{}
	h.pool.New = func() any {
		if len(key) == 0 {
			return sha256.New()
		}
		return hmac.New(sha256.New, key)
	}
	return h
}

// Hash returns the digest of data.
//
// Behavior:
//   - Retrieves a hash.Hash instance from the pool
//   - Resets it, writes the data, computes the sum
//   - Resets again and returns it to the pool
func (h *Hasher) Hash(data []byte) []byte {
	hs := h.pool.Get().(hash.Hash)
	hs.Reset()

	hs.Write(data)
	sum := hs.Sum(nil)

	hs.Reset()
	h.pool.Put(hs)

	return sum
}

// HashString returns the hex-encoded digest of data.
func (h *Hasher) HashString(data string) string {
	return hex.EncodeToString(h.Hash([]byte(data)))
}

// Equal reports whether two hex digests are equal in constant time.
func Equal(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
