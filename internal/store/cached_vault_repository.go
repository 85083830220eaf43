package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/VictoriaMetrics/fastcache"

	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/models"
)

const bytesPerMiB = 1 << 20

// CachedVaultRepository puts a bounded in-process cache in front of a
// durable [VaultRepository]. Reads hit the cache first; writes go to the
// durable tier and populate the cache only once they succeed; deletes and
// failed conditional writes invalidate.
//
// Entries are stored as JSON so a cached value never aliases a caller's
// slices.
type CachedVaultRepository struct {
	durable VaultRepository
	cache   *fastcache.Cache
	logger  *logger.Logger
}

// NewCachedVaultRepository wraps durable with a cache of sizeMiB megabytes.
func NewCachedVaultRepository(durable VaultRepository, sizeMiB int, logger *logger.Logger) *CachedVaultRepository {
	return &CachedVaultRepository{
		durable: durable,
		cache:   fastcache.New(sizeMiB * bytesPerMiB),
		logger:  logger.WithComponent("vault_cache"),
	}
}

func (c *CachedVaultRepository) Create(ctx context.Context, vault models.StoredVault) (models.StoredVault, error) {
	stored, err := c.durable.Create(ctx, vault)
	if err != nil {
		return models.StoredVault{}, err
	}
	c.put(stored)
	return stored, nil
}

func (c *CachedVaultRepository) Get(ctx context.Context, vaultID string) (models.StoredVault, error) {
	if vault, ok := c.get(vaultID); ok {
		return vault, nil
	}

	vault, err := c.durable.Get(ctx, vaultID)
	if err != nil {
		return models.StoredVault{}, err
	}
	c.put(vault)
	return vault, nil
}

// List always reads the durable tier.
func (c *CachedVaultRepository) List(ctx context.Context) ([]models.StoredVault, error) {
	return c.durable.List(ctx)
}

func (c *CachedVaultRepository) Update(ctx context.Context, vault models.StoredVault) (models.StoredVault, error) {
	updated, err := c.durable.Update(ctx, vault)
	if err != nil {
		if errors.Is(err, ErrVersionConflict) || errors.Is(err, ErrVaultNotFound) {
			c.cache.Del([]byte(vault.VaultID))
		}
		return models.StoredVault{}, err
	}
	c.put(updated)
	return updated, nil
}

func (c *CachedVaultRepository) Delete(ctx context.Context, vaultID string) error {
	c.cache.Del([]byte(vaultID))
	return c.durable.Delete(ctx, vaultID)
}

func (c *CachedVaultRepository) get(vaultID string) (models.StoredVault, bool) {
	data := c.cache.GetBig(nil, []byte(vaultID))
	if len(data) == 0 {
		return models.StoredVault{}, false
	}

	var vault models.StoredVault
	if err := json.Unmarshal(data, &vault); err != nil {
		c.logger.Warn().Err(err).Str("vault_id", vaultID).Msg("dropping undecodable cache entry")
		c.cache.Del([]byte(vaultID))
		return models.StoredVault{}, false
	}
	return vault, true
}

func (c *CachedVaultRepository) put(vault models.StoredVault) {
	data, err := json.Marshal(vault)
	if err != nil {
		c.logger.Warn().Err(err).Str("vault_id", vault.VaultID).Msg("vault not cached")
		return
	}
	c.cache.SetBig([]byte(vault.VaultID), data)
}
