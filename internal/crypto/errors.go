package crypto

import "errors"

var (
	// ErrDecryptionFailed is the single error returned for any failed
	// authenticated decryption. Callers must not be able to tell a wrong
	// key from a tampered ciphertext.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidKeyLength is returned when an encryption key is not 32 bytes.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrInvalidKDFParams is returned for cost parameters Argon2id rejects
	// or that fall below the accepted floor.
	ErrInvalidKDFParams = errors.New("invalid kdf parameters")

	// ErrInvalidSalt is returned for a missing or too short salt.
	ErrInvalidSalt = errors.New("invalid salt")

	// ErrUnsupportedKDF is returned for a header naming another algorithm.
	ErrUnsupportedKDF = errors.New("unsupported kdf algorithm")
)
