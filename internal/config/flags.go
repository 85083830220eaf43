package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Flag names registered by [RegisterFlags].
const (
	flagConfig          = "config"
	flagTokenHashKey    = "token-hash-key"
	flagKDFMemory       = "kdf-memory"
	flagKDFTime         = "kdf-time"
	flagKDFParallelism  = "kdf-parallelism"
	flagDBDriver        = "db-driver"
	flagDSN             = "dsn"
	flagCacheSize       = "cache-size"
	flagBiometricWindow = "biometric-window"
	flagRecoveryTTL     = "recovery-ttl"
	flagSweepInterval   = "sweep-interval"
	flagKDFConcurrency  = "kdf-concurrency"
)

// RegisterFlags adds the configuration flags to fs.
//
// Flags:
//
//	-c/--config           json file path with configs
//	--token-hash-key      HMAC key for recovery token digests
//	--kdf-memory          Argon2id memory cost, KiB
//	--kdf-time            Argon2id passes
//	--kdf-parallelism     Argon2id lanes
//	--db-driver           sqlite3 | pgx
//	-d/--dsn              database DSN
//	--cache-size          in-process vault cache size, MiB
//	--biometric-window    derived-key reuse window (e.g. "5m")
//	--recovery-ttl        recovery token lifetime (e.g. "30m")
//	--sweep-interval      session sweep interval (e.g. "1m")
//	--kdf-concurrency     concurrent key derivations
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(flagConfig, "c", "", "JSON config file path")
	fs.String(flagTokenHashKey, "", "HMAC key for recovery token digests")
	fs.Uint32(flagKDFMemory, 0, "Argon2id memory cost in KiB")
	fs.Uint32(flagKDFTime, 0, "Argon2id passes")
	fs.Uint8(flagKDFParallelism, 0, "Argon2id lanes")
	fs.String(flagDBDriver, "", "Database driver (sqlite3, pgx)")
	fs.StringP(flagDSN, "d", "", "Database DSN")
	fs.Int(flagCacheSize, 0, "In-process vault cache size in MiB")
	fs.Duration(flagBiometricWindow, 0, "Derived-key reuse window (e.g. 5m)")
	fs.Duration(flagRecoveryTTL, 0, "Recovery token lifetime (e.g. 30m)")
	fs.Duration(flagSweepInterval, 0, "Session sweep interval (e.g. 1m)")
	fs.Int(flagKDFConcurrency, 0, "Concurrent key derivations")
}

// parseFlags reads the flags registered by [RegisterFlags] from an already
// parsed fs. Flags that were never registered read as zero.
func parseFlags(fs *pflag.FlagSet) (*StructuredConfig, error) {
	r := flagReader{fs: fs}

	cfg := &StructuredConfig{
		App: App{
			TokenHashKey: r.str(flagTokenHashKey),
		},
		KDF: KDF{
			MemoryCost:  r.uint32(flagKDFMemory),
			TimeCost:    r.uint32(flagKDFTime),
			Parallelism: r.uint8(flagKDFParallelism),
		},
		Storage: Storage{
			DB: DB{
				Driver: r.str(flagDBDriver),
				DSN:    r.str(flagDSN),
			},
			Cache: Cache{
				Size: r.int(flagCacheSize),
			},
		},
		Session: Session{
			BiometricWindow: r.duration(flagBiometricWindow),
			RecoveryTTL:     r.duration(flagRecoveryTTL),
			SweepInterval:   r.duration(flagSweepInterval),
		},
		Workers: Workers{
			KDFConcurrency: r.int(flagKDFConcurrency),
		},
		JSONFilePath: r.str(flagConfig),
	}

	if r.err != nil {
		return nil, fmt.Errorf("error reading flags: %w", r.err)
	}
	return cfg, nil
}

// flagReader collects the first lookup error so parseFlags stays linear.
type flagReader struct {
	fs  *pflag.FlagSet
	err error
}

func (r *flagReader) skip(name string) bool {
	return r.err != nil || r.fs.Lookup(name) == nil
}

func (r *flagReader) str(name string) string {
	if r.skip(name) {
		return ""
	}
	v, err := r.fs.GetString(name)
	r.err = err
	return v
}

func (r *flagReader) int(name string) int {
	if r.skip(name) {
		return 0
	}
	v, err := r.fs.GetInt(name)
	r.err = err
	return v
}

func (r *flagReader) uint32(name string) uint32 {
	if r.skip(name) {
		return 0
	}
	v, err := r.fs.GetUint32(name)
	r.err = err
	return v
}

func (r *flagReader) uint8(name string) uint8 {
	if r.skip(name) {
		return 0
	}
	v, err := r.fs.GetUint8(name)
	r.err = err
	return v
}

func (r *flagReader) duration(name string) time.Duration {
	if r.skip(name) {
		return 0
	}
	v, err := r.fs.GetDuration(name)
	r.err = err
	return v
}
