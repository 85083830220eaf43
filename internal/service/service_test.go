package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/mock"
	"github.com/MKhiriev/go-vault-keeper/internal/recovery"
	"github.com/MKhiriev/go-vault-keeper/internal/session"
	"github.com/MKhiriev/go-vault-keeper/internal/store"
	"github.com/MKhiriev/go-vault-keeper/internal/utils"
	"github.com/MKhiriev/go-vault-keeper/internal/validators"
	"github.com/MKhiriev/go-vault-keeper/internal/vault"
	"github.com/MKhiriev/go-vault-keeper/models"
)

var fastParams = crypto.Params{Memory: 1024, Time: 1, Threads: 1}

// testEnv wires both services over gomock repositories and a real engine
// with cheap KDF parameters.
type testEnv struct {
	deps Dependencies

	vaults   *mock.MockVaultRepository
	bundles  *mock.MockRecoveryBundleRepository
	hardware *mock.MockHardwareRecordRepository
	tokens   *mock.MockRecoveryTokenRepository

	vaultService    VaultService
	recoveryService RecoveryService

	now time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	keys := crypto.NewKeyChain(
		crypto.WithPasswordParams(fastParams),
		crypto.WithRecoveryParams(fastParams),
	)
	cipher := crypto.NewCipher()

	env := &testEnv{
		vaults:   mock.NewMockVaultRepository(ctrl),
		bundles:  mock.NewMockRecoveryBundleRepository(ctrl),
		hardware: mock.NewMockHardwareRecordRepository(ctrl),
		tokens:   mock.NewMockRecoveryTokenRepository(ctrl),
		now:      time.Now().UTC(),
	}

	env.deps = Dependencies{
		Repositories: &store.Repositories{
			Vaults:          env.vaults,
			RecoveryBundles: env.bundles,
			HardwareRecords: env.hardware,
			RecoveryTokens:  env.tokens,
		},
		Engine:      vault.NewEngine(keys, cipher),
		Social:      recovery.NewSocialManager(keys, cipher),
		Hardware:    recovery.NewHardwareManager(cipher),
		Tokens:      recovery.NewTokenService("test-key"),
		Pool:        NewKDFPool(2),
		Biometric:   session.NewBiometricKeys(time.Minute),
		Sessions:    session.NewRecoverySessions(30 * time.Minute),
		Validator:   validators.NewVaultValidator(),
		IDs:         utils.NewUUIDGenerator(),
		RecoveryTTL: 30 * time.Minute,
		Now:         func() time.Time { return env.now },
	}

	env.vaultService = NewVaultService(env.deps, logger.Nop())
	env.recoveryService = NewRecoveryService(env.deps, logger.Nop())
	return env
}

func testContext() context.Context {
	return logger.Nop().WithContext(context.Background())
}

// backVaults makes the vault mock behave like a store with optimistic
// revisions and returns its rows.
func (e *testEnv) backVaults() map[string]models.StoredVault {
	var mu sync.Mutex
	rows := make(map[string]models.StoredVault)

	e.vaults.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, v models.StoredVault) (models.StoredVault, error) {
			mu.Lock()
			defer mu.Unlock()
			if _, ok := rows[v.VaultID]; ok {
				return models.StoredVault{}, store.ErrVaultAlreadyExists
			}
			v.Revision = 1
			rows[v.VaultID] = v
			return v, nil
		}).AnyTimes()

	e.vaults.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, id string) (models.StoredVault, error) {
			mu.Lock()
			defer mu.Unlock()
			v, ok := rows[id]
			if !ok {
				return models.StoredVault{}, store.ErrVaultNotFound
			}
			return v, nil
		}).AnyTimes()

	e.vaults.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, v models.StoredVault) (models.StoredVault, error) {
			mu.Lock()
			defer mu.Unlock()
			cur, ok := rows[v.VaultID]
			if !ok {
				return models.StoredVault{}, store.ErrVaultNotFound
			}
			if cur.Revision != v.Revision {
				return models.StoredVault{}, store.ErrVersionConflict
			}
			v.Revision++
			rows[v.VaultID] = v
			return v, nil
		}).AnyTimes()

	e.vaults.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, id string) error {
			mu.Lock()
			defer mu.Unlock()
			if _, ok := rows[id]; !ok {
				return store.ErrVaultNotFound
			}
			delete(rows, id)
			return nil
		}).AnyTimes()

	e.vaults.EXPECT().List(gomock.Any()).DoAndReturn(
		func(_ context.Context) ([]models.StoredVault, error) {
			mu.Lock()
			defer mu.Unlock()
			out := make([]models.StoredVault, 0, len(rows))
			for _, v := range rows {
				out = append(out, v)
			}
			sort.Slice(out, func(i, j int) bool { return out[i].VaultID < out[j].VaultID })
			return out, nil
		}).AnyTimes()

	return rows
}

// backRecovery does the same for bundles, hardware records and tokens.
// Token deletes report a missing row like the SQL repository does.
func (e *testEnv) backRecovery() (map[string]models.StoredRecoveryBundle, map[string]models.StoredHardwareRecord, map[string]models.RecoveryToken) {
	var mu sync.Mutex
	bundles := make(map[string]models.StoredRecoveryBundle)
	records := make(map[string]models.StoredHardwareRecord)
	tokens := make(map[string]models.RecoveryToken)

	e.bundles.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, b models.StoredRecoveryBundle) error {
			mu.Lock()
			defer mu.Unlock()
			bundles[b.Bundle.RecoveryID] = b
			return nil
		}).AnyTimes()
	e.bundles.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, id string) (models.StoredRecoveryBundle, error) {
			mu.Lock()
			defer mu.Unlock()
			b, ok := bundles[id]
			if !ok {
				return models.StoredRecoveryBundle{}, store.ErrRecordNotFound
			}
			return b, nil
		}).AnyTimes()
	e.bundles.EXPECT().ListByVault(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, vaultID string) ([]models.StoredRecoveryBundle, error) {
			mu.Lock()
			defer mu.Unlock()
			out := make([]models.StoredRecoveryBundle, 0)
			for _, b := range bundles {
				if b.VaultID == vaultID {
					out = append(out, b)
				}
			}
			sort.Slice(out, func(i, j int) bool { return out[i].Bundle.Created.Before(out[j].Bundle.Created) })
			return out, nil
		}).AnyTimes()

	e.hardware.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r models.StoredHardwareRecord) error {
			mu.Lock()
			defer mu.Unlock()
			records[r.Record.KeyHash] = r
			return nil
		}).AnyTimes()
	e.hardware.EXPECT().FindByKeyHash(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, hash string) (models.StoredHardwareRecord, error) {
			mu.Lock()
			defer mu.Unlock()
			r, ok := records[hash]
			if !ok {
				return models.StoredHardwareRecord{}, store.ErrRecordNotFound
			}
			return r, nil
		}).AnyTimes()

	e.tokens.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tok models.RecoveryToken) error {
			mu.Lock()
			defer mu.Unlock()
			tokens[tok.TokenHash] = tok
			return nil
		}).AnyTimes()
	e.tokens.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, hash string) (models.RecoveryToken, error) {
			mu.Lock()
			defer mu.Unlock()
			tok, ok := tokens[hash]
			if !ok {
				return models.RecoveryToken{}, store.ErrRecordNotFound
			}
			return tok, nil
		}).AnyTimes()
	e.tokens.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, hash string) error {
			mu.Lock()
			defer mu.Unlock()
			if _, ok := tokens[hash]; !ok {
				return store.ErrRecordNotFound
			}
			delete(tokens, hash)
			return nil
		}).AnyTimes()

	return bundles, records, tokens
}

func testContacts() []models.Contact {
	return []models.Contact{
		{Email: "alice@example.com", Name: "Alice"},
		{Email: "bob@example.com", Name: "Bob"},
		{Email: "carol@example.com", Name: "Carol"},
	}
}
