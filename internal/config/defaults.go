package config

import (
	"runtime"
	"time"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
)

// Driver names accepted in [DB.Driver].
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

const (
	defaultDSN             = "vaultctl.db"
	defaultCacheSize       = 32
	defaultBiometricWindow = 5 * time.Minute
	defaultRecoveryTTL     = 30 * time.Minute
	defaultSweepInterval   = time.Minute
)

// applyDefaults fills every zero field with its documented default.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.KDF.MemoryCost == 0 {
		cfg.KDF.MemoryCost = crypto.DefaultPasswordParams.Memory
	}
	if cfg.KDF.TimeCost == 0 {
		cfg.KDF.TimeCost = crypto.DefaultPasswordParams.Time
	}
	if cfg.KDF.Parallelism == 0 {
		cfg.KDF.Parallelism = crypto.DefaultPasswordParams.Threads
	}

	if cfg.Storage.DB.Driver == "" {
		cfg.Storage.DB.Driver = DriverSQLite
	}
	if cfg.Storage.DB.DSN == "" && cfg.Storage.DB.Driver == DriverSQLite {
		cfg.Storage.DB.DSN = defaultDSN
	}
	if cfg.Storage.Cache.Size == 0 {
		cfg.Storage.Cache.Size = defaultCacheSize
	}

	if cfg.Session.BiometricWindow == 0 {
		cfg.Session.BiometricWindow = defaultBiometricWindow
	}
	if cfg.Session.RecoveryTTL == 0 {
		cfg.Session.RecoveryTTL = defaultRecoveryTTL
	}
	if cfg.Session.SweepInterval == 0 {
		cfg.Session.SweepInterval = defaultSweepInterval
	}

	if cfg.Workers.KDFConcurrency == 0 {
		cfg.Workers.KDFConcurrency = runtime.NumCPU()
	}
}
