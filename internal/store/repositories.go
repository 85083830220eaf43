package store

import "github.com/MKhiriev/go-vault-keeper/internal/logger"

// Repositories groups every repository the service layer depends on.
type Repositories struct {
	Vaults          VaultRepository
	RecoveryBundles RecoveryBundleRepository
	HardwareRecords HardwareRecordRepository
	RecoveryTokens  RecoveryTokenRepository
}

// NewRepositories builds the repositories over db. Vault reads are served
// through a [CachedVaultRepository] of cacheSizeMiB megabytes.
func NewRepositories(db *DB, cacheSizeMiB int, log *logger.Logger) *Repositories {
	return &Repositories{
		Vaults:          NewCachedVaultRepository(NewVaultRepository(db, log), cacheSizeMiB, log),
		RecoveryBundles: NewRecoveryBundleRepository(db, log),
		HardwareRecords: NewHardwareRecordRepository(db, log),
		RecoveryTokens:  NewRecoveryTokenRepository(db, log),
	}
}
