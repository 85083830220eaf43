package config

import (
	"encoding/json"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		KDF: KDF{
			MemoryCost:  crypto.DefaultPasswordParams.Memory,
			TimeCost:    crypto.DefaultPasswordParams.Time,
			Parallelism: crypto.DefaultPasswordParams.Threads,
		},
		Storage: Storage{
			DB:    DB{Driver: DriverSQLite, DSN: defaultDSN},
			Cache: Cache{Size: defaultCacheSize},
		},
		Session: Session{
			BiometricWindow: defaultBiometricWindow,
			RecoveryTTL:     defaultRecoveryTTL,
			SweepInterval:   defaultSweepInterval,
		},
		Workers: Workers{KDFConcurrency: runtime.NumCPU()},
	}
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder verifies that building with no configs returns the
// documented defaults.
func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_LaterSourceOverrides verifies that a later non-zero field wins
// and that zero fields do not erase earlier values.
func TestBuild_LaterSourceOverrides(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{
			App:     App{TokenHashKey: "from-env"},
			Storage: Storage{DB: DB{Driver: DriverPostgres, DSN: "postgres://env"}},
		},
		&StructuredConfig{
			Storage: Storage{DB: DB{DSN: "postgres://flags"}},
		},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.App.TokenHashKey)
	assert.Equal(t, DriverPostgres, cfg.Storage.DB.Driver)
	assert.Equal(t, "postgres://flags", cfg.Storage.DB.DSN)
}

// TestBuild_ValidationFailure verifies that the merged config is validated.
func TestBuild_ValidationFailure(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{Storage: Storage{DB: DB{Driver: "mysql", DSN: "x"}}})

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

// TestWithJSON_LoadsPathFromEarlierSource verifies that the JSON path set by
// env or flags is read and merged last.
func TestWithJSON_LoadsPathFromEarlierSource(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"kdf":     map[string]any{"time_cost": 5},
		"session": map[string]any{"recovery_ttl": "10m"},
	})

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		KDF:          KDF{TimeCost: 2, MemoryCost: 8192},
		JSONFilePath: path,
	})

	cfg, err := b.withJSON().build()
	require.NoError(t, err)
	assert.Equal(t, uint32(5), cfg.KDF.TimeCost)
	assert.Equal(t, uint32(8192), cfg.KDF.MemoryCost)
	assert.Equal(t, 10*time.Minute, cfg.Session.RecoveryTTL)
}

// TestWithJSON_MissingFile verifies that an unreadable file becomes a build
// error.
func TestWithJSON_MissingFile(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/definitely/missing.json"})

	_, err := b.withJSON().build()
	require.Error(t, err)
}

// ── GetStructuredConfig ───────────────────────────────────────────────────────

func TestGetStructuredConfig_EnvFlagsJSON(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"workers": map[string]any{"kdf_concurrency": 7},
	})
	setEnvVars(t, map[string]string{
		"STORAGE_DB_DATABASE_URI": "env.db",
		"APP_TOKEN_HASH_KEY":      "env-key",
	})

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--dsn", "flag.db", "--config", path}))

	cfg, err := GetStructuredConfig(fs)
	require.NoError(t, err)
	assert.Equal(t, "flag.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "env-key", cfg.App.TokenHashKey)
	assert.Equal(t, 7, cfg.Workers.KDFConcurrency)
	assert.Equal(t, DriverSQLite, cfg.Storage.DB.Driver)
}

func TestGetStructuredConfig_NilFlagSet(t *testing.T) {
	clearEnvVars(t)

	cfg, err := GetStructuredConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}
