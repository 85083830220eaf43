package recovery

import "errors"

//nolint:staticcheck // user-facing messages
var (
	ErrNotEnoughContacts = errors.New("Need at least 3 contacts")
	ErrTooManyContacts   = errors.New("Maximum 10 contacts")

	// ErrThresholdTooHigh is returned when the threshold would require every
	// contact, leaving no slack for a lost shard.
	ErrThresholdTooHigh = errors.New("Threshold must be less than number of contacts")

	// ErrDuplicateContact is returned when two contacts share an email.
	ErrDuplicateContact = errors.New("Duplicate contact email")

	// ErrInvalidContact is returned for a contact without an email.
	ErrInvalidContact = errors.New("Contact email is required")

	// ErrInvalidShard is returned when a contact shard fails to
	// authenticate under the given recovery ID and email.
	ErrInvalidShard = errors.New("Invalid recovery shard")

	// ErrInvalidBackupKey is returned for backup key text that does not
	// decode, or that fails to open the encrypted seed.
	ErrInvalidBackupKey = errors.New("Invalid backup key")

	// ErrInvalidSeed is returned for a seed that is not 32 bytes.
	ErrInvalidSeed = errors.New("Invalid recovery seed")
)
