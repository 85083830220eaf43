// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	"github.com/MKhiriev/go-vault-keeper/models"
)

const (
	// KeySize is the length of every derived key (AES-256).
	KeySize = 32

	// SaltSize is the length of a freshly generated password salt.
	SaltSize = 16

	// minSaltSize is the shortest salt accepted from a stored header.
	minSaltSize = 8

	recoveryKeyContext = "go-vault-keeper/recovery-key/v1"
	contactKeyContext  = "go-vault-keeper/contact-shard/v1"
)

// Params are Argon2id cost parameters.
type Params struct {
	// Memory is the memory cost in KiB.
	Memory uint32
	// Time is the number of passes.
	Time uint32
	// Threads is the degree of parallelism.
	Threads uint8
}

// DefaultPasswordParams are the password-path defaults: 64 MiB, 3 passes,
// 4 lanes.
var DefaultPasswordParams = Params{Memory: 64 * 1024, Time: 3, Threads: 4}

// DefaultRecoveryParams are the seed-path parameters. They are not stored
// in the envelope, so changing them orphans every existing recovery box.
var DefaultRecoveryParams = Params{Memory: 64 * 1024, Time: 3, Threads: 4}

// Validate reports whether p can be handed to Argon2id.
func (p Params) Validate() error {
	if p.Time < 1 || p.Threads < 1 || p.Memory < 8*uint32(p.Threads) {
		return fmt.Errorf("%w: memory=%d time=%d threads=%d", ErrInvalidKDFParams, p.Memory, p.Time, p.Threads)
	}
	return nil
}

// keyChain is the private implementation of [KeyChain].
type keyChain struct {
	passwordParams Params
	recoveryParams Params
	recoverySalt   []byte
	random         io.Reader
}

// Option customises a [KeyChain].
type Option func(*keyChain)

// WithPasswordParams sets the cost parameters stamped into new KDF headers.
func WithPasswordParams(p Params) Option {
	return func(k *keyChain) { k.passwordParams = p }
}

// WithRecoveryParams overrides the seed-path parameters. Intended for
// tests; production code must keep [DefaultRecoveryParams].
func WithRecoveryParams(p Params) Option {
	return func(k *keyChain) { k.recoveryParams = p }
}

// WithRandom replaces the CSPRNG used for salts.
func WithRandom(r io.Reader) Option {
	return func(k *keyChain) { k.random = r }
}

// NewKeyChain constructs a [KeyChain]. Without options it uses
// [DefaultPasswordParams] and [DefaultRecoveryParams].
func NewKeyChain(opts ...Option) KeyChain {
	ctx := sha256.Sum256([]byte(recoveryKeyContext))
	k := &keyChain{
		passwordParams: DefaultPasswordParams,
		recoveryParams: DefaultRecoveryParams,
		recoverySalt:   ctx[:SaltSize],
		random:         rand.Reader,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Derive is the raw Argon2id step shared by the password and seed paths.
func Derive(input, salt []byte, p Params) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(salt) < minSaltSize {
		return nil, ErrInvalidSalt
	}
	return argon2.IDKey(input, salt, p.Time, p.Memory, p.Threads, KeySize), nil
}

// NewKDFHeader implements [KeyChain].
func (k *keyChain) NewKDFHeader() (models.KDFHeader, error) {
	if err := k.passwordParams.Validate(); err != nil {
		return models.KDFHeader{}, err
	}

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(k.random, salt); err != nil {
		return models.KDFHeader{}, fmt.Errorf("generate salt: %w", err)
	}

	return models.KDFHeader{
		Algorithm:   models.KDFAlgorithmArgon2id,
		Salt:        salt,
		MemoryCost:  k.passwordParams.Memory,
		TimeCost:    k.passwordParams.Time,
		Parallelism: k.passwordParams.Threads,
	}, nil
}

// DerivePasswordKey implements [KeyChain]. The cost parameters come from
// the header, not from the receiver, so vaults created under older defaults
// keep unlocking.
func (k *keyChain) DerivePasswordKey(password string, kdf models.KDFHeader) ([]byte, error) {
	if kdf.Algorithm != models.KDFAlgorithmArgon2id {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKDF, kdf.Algorithm)
	}
	return Derive([]byte(password), kdf.Salt, Params{
		Memory:  kdf.MemoryCost,
		Time:    kdf.TimeCost,
		Threads: kdf.Parallelism,
	})
}

// DeriveRecoveryKey implements [KeyChain].
func (k *keyChain) DeriveRecoveryKey(seed []byte) ([]byte, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("%w: empty seed", ErrInvalidKDFParams)
	}
	return Derive(seed, k.recoverySalt, k.recoveryParams)
}

// DeriveContactKey implements [KeyChain]. The recovery ID is the input key
// material and the email is bound through the HKDF info string.
func (k *keyChain) DeriveContactKey(recoveryID []byte, email string) ([]byte, error) {
	if len(recoveryID) == 0 || email == "" {
		return nil, fmt.Errorf("%w: empty recovery id or email", ErrInvalidKDFParams)
	}

	stream := hkdf.New(sha256.New, recoveryID, []byte(contactKeyContext), []byte(email))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(stream, key); err != nil {
		return nil, fmt.Errorf("derive contact key: %w", err)
	}
	return key, nil
}
