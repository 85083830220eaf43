package service

import (
	"context"

	"github.com/MKhiriev/go-vault-keeper/models"
)

// CreatedVault is returned once when a vault is created. Phrase must be
// shown to the user and then discarded; it is never stored.
type CreatedVault struct {
	VaultID string
	Phrase  string
}

// VaultService orchestrates the vault lifecycle over the durable store.
// Every operation that derives a password or seed key runs in the
// [KDFPool].
type VaultService interface {
	// Create generates a seed, seals the empty payload under the password
	// and the seed, and stores the envelope under a fresh vault ID.
	Create(ctx context.Context, password string) (CreatedVault, error)

	// Unlock opens the vault with its password and starts the biometric
	// window for it.
	Unlock(ctx context.Context, vaultID, password string) (models.Payload, error)

	// UnlockWithBiometrics opens the vault with the key retained by the last
	// password unlock, skipping key derivation. Fails with
	// [ErrBiometricsUnavailable] once the window has passed.
	UnlockWithBiometrics(ctx context.Context, vaultID string) (models.Payload, error)

	// CanUseBiometrics reports whether a biometric unlock would succeed
	// without re-entering the password.
	CanUseBiometrics(vaultID string) bool

	// UnlockWithPhrase opens the vault through its recovery box.
	UnlockWithPhrase(ctx context.Context, vaultID, phrase string) (models.Payload, error)

	// Update replaces the payload, re-sealing both boxes.
	Update(ctx context.Context, vaultID, password string, payload models.Payload) error

	// UpdateWithBiometrics replaces the payload using the retained key.
	UpdateWithBiometrics(ctx context.Context, vaultID string, payload models.Payload) error

	// ChangePassword re-keys the primary box. The recovery phrase keeps
	// working.
	ChangePassword(ctx context.Context, vaultID, oldPassword, newPassword string) error

	// ResetPasswordWithPhrase rebuilds the envelope under newPassword from
	// the seed behind phrase, keeping the payload and the phrase.
	ResetPasswordWithPhrase(ctx context.Context, vaultID, phrase, newPassword string) error

	// Export renders the stored envelope for backup.
	Export(ctx context.Context, vaultID string) (string, error)

	// Import stores a previously exported envelope under a new vault ID.
	Import(ctx context.Context, data []byte) (string, error)

	// List returns every stored vault.
	List(ctx context.Context) ([]models.StoredVault, error)

	// Lock ends the biometric window for the vault.
	Lock(vaultID string)

	// Delete removes the vault and every recovery record bound to it.
	Delete(ctx context.Context, vaultID string) error
}

// RecoveryService manages the recovery paths that do not need the
// password: social recovery through contact shards, hardware backup keys
// and the recovery tokens that gate them.
type RecoveryService interface {
	// SetupSocial splits the seed behind phrase across contacts and stores
	// the resulting bundle.
	SetupSocial(ctx context.Context, vaultID, phrase string, contacts []models.Contact, threshold int) (models.RecoveryBundle, error)

	// DecryptContactShard opens the shard enrolled for email in the bundle
	// and returns it in share text form.
	DecryptContactShard(ctx context.Context, recoveryID, email string) (string, error)

	// SocialBundles lists the social recovery bundles enrolled for the
	// vault, oldest first.
	SocialBundles(ctx context.Context, vaultID string) ([]models.RecoveryBundle, error)

	// RecoverWithShards rebuilds the seed from shares and resets the vault
	// password. token must be a live social recovery token for the vault
	// and is consumed by the first successful recovery.
	RecoverWithShards(ctx context.Context, token, recoveryID string, shares []string, newPassword string) error

	// GenerateHardwareKey returns a new random backup key.
	GenerateHardwareKey(ctx context.Context) (models.HardwareBackupKey, error)

	// SetupHardware seals the seed behind phrase under keyBytes and stores
	// the record.
	SetupHardware(ctx context.Context, vaultID, phrase string, keyBytes []byte) (models.HardwareRecord, error)

	// RecoverWithHardwareKey opens the seed with backupKey and resets the
	// vault password. token must be a live hardware recovery token for the
	// vault the key belongs to. Returns the vault ID.
	RecoverWithHardwareKey(ctx context.Context, token, backupKey, newPassword string) (string, error)

	// StartRecovery issues a recovery token for the vault. Only its hash is
	// kept.
	StartRecovery(ctx context.Context, vaultID string, method models.RecoveryMethod) (string, error)

	// VerifyToken returns the live session behind token.
	VerifyToken(ctx context.Context, token string) (models.RecoveryToken, error)
}
