package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/models"
)

const vaultsTable = "vaults"

var vaultColumns = []string{"vault_id", "envelope", "revision", "created_at", "updated_at"}

// vaultRepository is the SQL implementation of [VaultRepository]. The
// envelope is stored as its JSON text so that the persisted form and the
// exported form are the same document.
type vaultRepository struct {
	*DB
	logger *logger.Logger
	now    func() time.Time
}

// NewVaultRepository constructs a [VaultRepository] backed by db.
func NewVaultRepository(db *DB, logger *logger.Logger) VaultRepository {
	logger.Debug().Msg("creating vault repository")
	return &vaultRepository{
		DB:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Create inserts vault with revision 1. CreatedAt and UpdatedAt are set to
// the current time.
//
// Error handling:
//   - unique violation on vault_id → [ErrVaultAlreadyExists].
//   - any other driver-level error → wrapped [ErrExecutingStatement].
func (r *vaultRepository) Create(ctx context.Context, vault models.StoredVault) (models.StoredVault, error) {
	log := logger.FromContext(ctx)

	envelope, err := json.Marshal(vault.Envelope)
	if err != nil {
		return models.StoredVault{}, fmt.Errorf("%w: %w", ErrEncodingRecord, err)
	}

	now := r.now().UTC()
	vault.Revision = 1
	vault.CreatedAt = now
	vault.UpdatedAt = now

	query, args, err := r.builder.
		Insert(vaultsTable).
		Columns(vaultColumns...).
		Values(vault.VaultID, string(envelope), vault.Revision, vault.CreatedAt, vault.UpdatedAt).
		ToSql()
	if err != nil {
		return models.StoredVault{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = r.withRetry(ctx, func(ctx context.Context) error {
		_, execErr := r.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "*vaultRepository.Create").
			Str("vault_id", vault.VaultID).
			Msg("failed to insert vault")
		if isUniqueViolation(err) {
			return models.StoredVault{}, ErrVaultAlreadyExists
		}
		return models.StoredVault{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return vault, nil
}

// Get returns the vault stored under vaultID or [ErrVaultNotFound].
func (r *vaultRepository) Get(ctx context.Context, vaultID string) (models.StoredVault, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Select(vaultColumns...).
		From(vaultsTable).
		Where(sq.Eq{"vault_id": vaultID}).
		ToSql()
	if err != nil {
		return models.StoredVault{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var vault models.StoredVault
	err = r.withRetry(ctx, func(ctx context.Context) error {
		var scanErr error
		vault, scanErr = scanVault(r.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.StoredVault{}, ErrVaultNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "*vaultRepository.Get").
			Str("vault_id", vaultID).
			Msg("failed to get vault")
		return models.StoredVault{}, err
	}

	return vault, nil
}

// List returns every stored vault ordered by creation time.
func (r *vaultRepository) List(ctx context.Context) ([]models.StoredVault, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Select(vaultColumns...).
		From(vaultsTable).
		OrderBy("created_at", "vault_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*vaultRepository.List").
			Msg("failed to execute query for listing vaults")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	vaults := make([]models.StoredVault, 0)
	for rows.Next() {
		vault, scanErr := scanVault(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "*vaultRepository.List").
				Msg("failed to scan vault row")
			return nil, scanErr
		}
		vaults = append(vaults, vault)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "*vaultRepository.List").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return vaults, nil
}

// Update overwrites the envelope when vault.Revision matches the stored
// revision and returns the record with the new revision.
//
// Error handling:
//   - no row with that ID → [ErrVaultNotFound].
//   - row exists with a different revision → [ErrVersionConflict].
func (r *vaultRepository) Update(ctx context.Context, vault models.StoredVault) (models.StoredVault, error) {
	log := logger.FromContext(ctx)

	envelope, err := json.Marshal(vault.Envelope)
	if err != nil {
		return models.StoredVault{}, fmt.Errorf("%w: %w", ErrEncodingRecord, err)
	}

	updatedAt := r.now().UTC()
	query, args, err := r.builder.
		Update(vaultsTable).
		Set("envelope", string(envelope)).
		Set("revision", sq.Expr("revision + 1")).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"vault_id": vault.VaultID, "revision": vault.Revision}).
		ToSql()
	if err != nil {
		return models.StoredVault{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var affected int64
	err = r.withRetry(ctx, func(ctx context.Context) error {
		res, execErr := r.ExecContext(ctx, query, args...)
		if execErr != nil {
			return execErr
		}
		affected, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "*vaultRepository.Update").
			Str("vault_id", vault.VaultID).
			Msg("failed to update vault")
		return models.StoredVault{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected == 0 {
		if _, getErr := r.Get(ctx, vault.VaultID); getErr != nil {
			return models.StoredVault{}, getErr
		}
		log.Warn().
			Str("func", "*vaultRepository.Update").
			Str("vault_id", vault.VaultID).
			Int64("revision", vault.Revision).
			Msg("stale vault revision")
		return models.StoredVault{}, ErrVersionConflict
	}

	vault.Revision++
	vault.UpdatedAt = updatedAt
	return vault, nil
}

// Delete removes the vault together with every recovery record that refers
// to it, in one transaction. Deleting a missing vault returns
// [ErrVaultNotFound].
func (r *vaultRepository) Delete(ctx context.Context, vaultID string) error {
	log := logger.FromContext(ctx)

	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "*vaultRepository.Delete").
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() { _ = tx.Rollback() }()

	var affected int64
	for _, table := range []string{tokensTable, hardwareTable, bundlesTable, vaultsTable} {
		query, args, buildErr := r.builder.
			Delete(table).
			Where(sq.Eq{"vault_id": vaultID}).
			ToSql()
		if buildErr != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, buildErr)
		}

		res, execErr := tx.ExecContext(ctx, query, args...)
		if execErr != nil {
			log.Err(execErr).
				Str("func", "*vaultRepository.Delete").
				Str("vault_id", vaultID).
				Str("table", table).
				Msg("failed to delete rows")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
		if table == vaultsTable {
			affected, _ = res.RowsAffected()
		}
	}

	if affected == 0 {
		return ErrVaultNotFound
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "*vaultRepository.Delete").
			Str("vault_id", vaultID).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVault(row rowScanner) (models.StoredVault, error) {
	var (
		vault    models.StoredVault
		envelope string
	)
	if err := row.Scan(&vault.VaultID, &envelope, &vault.Revision, &vault.CreatedAt, &vault.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StoredVault{}, err
		}
		return models.StoredVault{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	if err := json.Unmarshal([]byte(envelope), &vault.Envelope); err != nil {
		return models.StoredVault{}, fmt.Errorf("%w: %w", ErrEncodingRecord, err)
	}
	return vault, nil
}
