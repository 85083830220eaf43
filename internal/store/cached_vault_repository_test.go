package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/mock"
	"github.com/MKhiriev/go-vault-keeper/models"
)

func newTestCachedRepo(t *testing.T) (*CachedVaultRepository, *mock.MockVaultRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	durable := mock.NewMockVaultRepository(ctrl)
	return NewCachedVaultRepository(durable, 1, logger.Nop()), durable
}

func storedVault(revision int64) models.StoredVault {
	return models.StoredVault{
		VaultID:   "vault-1",
		Envelope:  testEnvelope(),
		Revision:  revision,
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
}

func TestCachedVaultRepository_GetMissThenHit(t *testing.T) {
	repo, durable := newTestCachedRepo(t)
	ctx := testContext()

	// durable tier is hit exactly once; the second read is served from cache
	durable.EXPECT().Get(ctx, "vault-1").Return(storedVault(2), nil).Times(1)

	first, err := repo.Get(ctx, "vault-1")
	require.NoError(t, err)
	second, err := repo.Get(ctx, "vault-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(2), second.Revision)
}

func TestCachedVaultRepository_GetErrorNotCached(t *testing.T) {
	repo, durable := newTestCachedRepo(t)
	ctx := testContext()

	gomock.InOrder(
		durable.EXPECT().Get(ctx, "vault-1").Return(models.StoredVault{}, ErrVaultNotFound),
		durable.EXPECT().Get(ctx, "vault-1").Return(storedVault(1), nil),
	)

	_, err := repo.Get(ctx, "vault-1")
	assert.ErrorIs(t, err, ErrVaultNotFound)

	got, err := repo.Get(ctx, "vault-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Revision)
}

func TestCachedVaultRepository_CreatePopulatesCache(t *testing.T) {
	repo, durable := newTestCachedRepo(t)
	ctx := testContext()

	durable.EXPECT().Create(ctx, gomock.Any()).Return(storedVault(1), nil)

	_, err := repo.Create(ctx, models.StoredVault{VaultID: "vault-1"})
	require.NoError(t, err)

	// no durable Get expected
	got, err := repo.Get(ctx, "vault-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Revision)
}

func TestCachedVaultRepository_UpdateRefreshesCache(t *testing.T) {
	repo, durable := newTestCachedRepo(t)
	ctx := testContext()

	durable.EXPECT().Create(ctx, gomock.Any()).Return(storedVault(1), nil)
	durable.EXPECT().Update(ctx, gomock.Any()).Return(storedVault(2), nil)

	_, err := repo.Create(ctx, models.StoredVault{VaultID: "vault-1"})
	require.NoError(t, err)
	_, err = repo.Update(ctx, storedVault(1))
	require.NoError(t, err)

	got, err := repo.Get(ctx, "vault-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Revision)
}

func TestCachedVaultRepository_ConflictInvalidates(t *testing.T) {
	repo, durable := newTestCachedRepo(t)
	ctx := testContext()

	durable.EXPECT().Create(ctx, gomock.Any()).Return(storedVault(1), nil)
	durable.EXPECT().Update(ctx, gomock.Any()).Return(models.StoredVault{}, ErrVersionConflict)
	// after the conflict the cached revision 1 is stale and must be re-read
	durable.EXPECT().Get(ctx, "vault-1").Return(storedVault(3), nil)

	_, err := repo.Create(ctx, models.StoredVault{VaultID: "vault-1"})
	require.NoError(t, err)

	_, err = repo.Update(ctx, storedVault(1))
	assert.ErrorIs(t, err, ErrVersionConflict)

	got, err := repo.Get(ctx, "vault-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Revision)
}

func TestCachedVaultRepository_DeleteInvalidates(t *testing.T) {
	repo, durable := newTestCachedRepo(t)
	ctx := testContext()

	durable.EXPECT().Create(ctx, gomock.Any()).Return(storedVault(1), nil)
	durable.EXPECT().Delete(ctx, "vault-1").Return(nil)
	durable.EXPECT().Get(ctx, "vault-1").Return(models.StoredVault{}, ErrVaultNotFound)

	_, err := repo.Create(ctx, models.StoredVault{VaultID: "vault-1"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, "vault-1"))

	_, err = repo.Get(ctx, "vault-1")
	assert.ErrorIs(t, err, ErrVaultNotFound)
}

func TestCachedVaultRepository_LargeEnvelope(t *testing.T) {
	repo, durable := newTestCachedRepo(t)
	ctx := testContext()

	big := storedVault(1)
	big.Envelope.Primary.Ciphertext = []byte(strings.Repeat("x", 200*1024))

	durable.EXPECT().Get(ctx, "vault-1").Return(big, nil).Times(1)

	_, err := repo.Get(ctx, "vault-1")
	require.NoError(t, err)
	got, err := repo.Get(ctx, "vault-1")
	require.NoError(t, err)
	assert.Equal(t, big.Envelope.Primary.Ciphertext, got.Envelope.Primary.Ciphertext)
}

func TestCachedVaultRepository_ListBypassesCache(t *testing.T) {
	repo, durable := newTestCachedRepo(t)
	ctx := testContext()

	durable.EXPECT().List(ctx).Return([]models.StoredVault{storedVault(1)}, nil).Times(2)

	for i := 0; i < 2; i++ {
		got, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
}
