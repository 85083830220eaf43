package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidVaultID     = errors.New("invalid vault ID")
	ErrInvalidEnvelope    = errors.New("invalid vault envelope")
	ErrInvalidRevision    = errors.New("invalid revision")
	ErrInvalidEmail       = errors.New("invalid contact email")
	ErrEmptyContacts      = errors.New("contacts list cannot be empty")
	ErrInvalidTokenHash   = errors.New("invalid token hash")
	ErrInvalidMethod      = errors.New("invalid recovery method")
	ErrInvalidExpiry      = errors.New("token expiry must follow creation")
	ErrInvalidRecoveryID  = errors.New("invalid recovery ID")
	ErrInvalidBundleShape = errors.New("recovery bundle contacts do not match total shares")
)
