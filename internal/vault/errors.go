package vault

import (
	"errors"

	"github.com/MKhiriev/go-vault-keeper/internal/phrase"
)

//nolint:staticcheck // user-facing messages
var (
	// ErrInvalidPassword is returned when the password path fails to
	// authenticate, whatever the cause.
	ErrInvalidPassword = errors.New("Invalid password")

	// ErrInvalidKey is returned when a caller-held derived key fails to
	// authenticate.
	ErrInvalidKey = errors.New("Invalid key")

	// ErrInvalidRecoveryPhrase is returned for a phrase that does not decode
	// or whose seed does not open the recovery box.
	ErrInvalidRecoveryPhrase = phrase.ErrInvalidPhrase

	// ErrInvalidSeed is returned for a seed that is not 32 bytes or does not
	// open the recovery box.
	ErrInvalidSeed = errors.New("Invalid recovery seed")
)

var (
	// ErrInvalidVault is returned for an envelope that fails the structural
	// check.
	ErrInvalidVault = errors.New("invalid vault envelope")

	// ErrCorruptPayload is returned when an authenticated plaintext does not
	// decode as a payload.
	ErrCorruptPayload = errors.New("corrupt vault payload")
)
