package crypto

import "github.com/MKhiriev/go-vault-keeper/models"

// KeyChain derives every symmetric key used by the vault engine. It does not
// know about storage, users or transport; it only turns secret material into
// 32-byte keys.
//
// Key families:
//
//	password key = Argon2id(password, kdf.salt, kdf.params)   (stored params)
//	recovery key = Argon2id(seed, H(context), seed params)    (no stored material)
//	contact key  = HKDF-SHA256(recoveryId, context, email)    (per contact shard)
type KeyChain interface {
	// NewKDFHeader returns a header carrying a fresh random salt and the
	// password-path cost parameters configured on this KeyChain.
	NewKDFHeader() (models.KDFHeader, error)

	// DerivePasswordKey derives the password key described by kdf.
	// Same password and header always yield the same key.
	DerivePasswordKey(password string, kdf models.KDFHeader) ([]byte, error)

	// DeriveRecoveryKey derives the key protecting the recovery box from the
	// seed alone. The salt is a fixed context tag, so no extra state is
	// persisted.
	DeriveRecoveryKey(seed []byte) ([]byte, error)

	// DeriveContactKey derives the key sealing one contact's shard. Both the
	// recovery ID and the exact enrolled email are needed to reproduce it.
	DeriveContactKey(recoveryID []byte, email string) ([]byte, error)
}

// Cipher is the authenticated-encryption primitive.
type Cipher interface {
	// Encrypt seals plaintext under key with a fresh random nonce.
	Encrypt(key, plaintext []byte) (models.Sealed, error)

	// Decrypt opens box with key. Every failure (wrong key, bad tag,
	// truncated field, tampered ciphertext) returns [ErrDecryptionFailed]
	// and no plaintext.
	Decrypt(key []byte, box models.Sealed) ([]byte, error)
}
