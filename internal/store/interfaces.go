package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vault-keeper/models"
)

// VaultRepository persists vault envelopes keyed by vault ID.
//
// Update is optimistic: it succeeds only when the supplied Revision equals
// the stored one and returns the record with the incremented Revision.
type VaultRepository interface {
	Create(ctx context.Context, vault models.StoredVault) (models.StoredVault, error)
	Get(ctx context.Context, vaultID string) (models.StoredVault, error)
	List(ctx context.Context) ([]models.StoredVault, error)
	Update(ctx context.Context, vault models.StoredVault) (models.StoredVault, error)
	Delete(ctx context.Context, vaultID string) error
}

// RecoveryBundleRepository persists social recovery bundles. Bundles are
// addressed by their recovery ID, which contacts are given out of band.
type RecoveryBundleRepository interface {
	Save(ctx context.Context, bundle models.StoredRecoveryBundle) error
	Get(ctx context.Context, recoveryID string) (models.StoredRecoveryBundle, error)
	ListByVault(ctx context.Context, vaultID string) ([]models.StoredRecoveryBundle, error)
}

// HardwareRecordRepository persists hardware recovery records, found by the
// fingerprint of the backup key.
type HardwareRecordRepository interface {
	Save(ctx context.Context, record models.StoredHardwareRecord) error
	FindByKeyHash(ctx context.Context, keyHash string) (models.StoredHardwareRecord, error)
}

// RecoveryTokenRepository persists issued recovery tokens by hash.
type RecoveryTokenRepository interface {
	Save(ctx context.Context, token models.RecoveryToken) error
	Get(ctx context.Context, tokenHash string) (models.RecoveryToken, error)
	// Delete returns ErrRecordNotFound when the token was already gone.
	Delete(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
