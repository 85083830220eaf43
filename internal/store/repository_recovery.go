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

const (
	bundlesTable  = "recovery_bundles"
	hardwareTable = "hardware_records"
	tokensTable   = "recovery_tokens"
)

// ── Recovery bundles ─────────────────────────────────────────────────────────

type recoveryBundleRepository struct {
	*DB
	logger *logger.Logger
}

// NewRecoveryBundleRepository constructs a [RecoveryBundleRepository].
func NewRecoveryBundleRepository(db *DB, logger *logger.Logger) RecoveryBundleRepository {
	logger.Debug().Msg("creating recovery bundle repository")
	return &recoveryBundleRepository{DB: db, logger: logger}
}

func (r *recoveryBundleRepository) Save(ctx context.Context, stored models.StoredRecoveryBundle) error {
	log := logger.FromContext(ctx)

	bundle, err := json.Marshal(stored.Bundle)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingRecord, err)
	}

	query, args, err := r.builder.
		Insert(bundlesTable).
		Columns("recovery_id", "vault_id", "bundle", "created_at").
		Values(stored.Bundle.RecoveryID, stored.VaultID, string(bundle), stored.Bundle.Created).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.exec(ctx, query, args); err != nil {
		log.Err(err).
			Str("func", "*recoveryBundleRepository.Save").
			Str("vault_id", stored.VaultID).
			Msg("failed to insert recovery bundle")
		return err
	}
	return nil
}

func (r *recoveryBundleRepository) Get(ctx context.Context, recoveryID string) (models.StoredRecoveryBundle, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Select("vault_id", "bundle").
		From(bundlesTable).
		Where(sq.Eq{"recovery_id": recoveryID}).
		ToSql()
	if err != nil {
		return models.StoredRecoveryBundle{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	stored, err := scanBundle(r.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.StoredRecoveryBundle{}, ErrRecordNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "*recoveryBundleRepository.Get").
			Msg("failed to get recovery bundle")
		return models.StoredRecoveryBundle{}, err
	}
	return stored, nil
}

func (r *recoveryBundleRepository) ListByVault(ctx context.Context, vaultID string) ([]models.StoredRecoveryBundle, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Select("vault_id", "bundle").
		From(bundlesTable).
		Where(sq.Eq{"vault_id": vaultID}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*recoveryBundleRepository.ListByVault").
			Str("vault_id", vaultID).
			Msg("failed to execute query for listing recovery bundles")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	bundles := make([]models.StoredRecoveryBundle, 0)
	for rows.Next() {
		stored, scanErr := scanBundle(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		bundles = append(bundles, stored)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return bundles, nil
}

func scanBundle(row rowScanner) (models.StoredRecoveryBundle, error) {
	var (
		stored models.StoredRecoveryBundle
		bundle string
	)
	if err := row.Scan(&stored.VaultID, &bundle); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StoredRecoveryBundle{}, err
		}
		return models.StoredRecoveryBundle{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	if err := json.Unmarshal([]byte(bundle), &stored.Bundle); err != nil {
		return models.StoredRecoveryBundle{}, fmt.Errorf("%w: %w", ErrEncodingRecord, err)
	}
	return stored, nil
}

// ── Hardware records ─────────────────────────────────────────────────────────

type hardwareRecordRepository struct {
	*DB
	logger *logger.Logger
}

// NewHardwareRecordRepository constructs a [HardwareRecordRepository].
func NewHardwareRecordRepository(db *DB, logger *logger.Logger) HardwareRecordRepository {
	logger.Debug().Msg("creating hardware record repository")
	return &hardwareRecordRepository{DB: db, logger: logger}
}

func (r *hardwareRecordRepository) Save(ctx context.Context, stored models.StoredHardwareRecord) error {
	log := logger.FromContext(ctx)

	record, err := json.Marshal(stored.Record)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingRecord, err)
	}

	query, args, err := r.builder.
		Insert(hardwareTable).
		Columns("key_hash", "vault_id", "record", "created_at").
		Values(stored.Record.KeyHash, stored.VaultID, string(record), stored.Record.Created).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.exec(ctx, query, args); err != nil {
		log.Err(err).
			Str("func", "*hardwareRecordRepository.Save").
			Str("vault_id", stored.VaultID).
			Msg("failed to insert hardware record")
		return err
	}
	return nil
}

func (r *hardwareRecordRepository) FindByKeyHash(ctx context.Context, keyHash string) (models.StoredHardwareRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Select("vault_id", "record").
		From(hardwareTable).
		Where(sq.Eq{"key_hash": keyHash}).
		ToSql()
	if err != nil {
		return models.StoredHardwareRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		stored models.StoredHardwareRecord
		record string
	)
	err = r.QueryRowContext(ctx, query, args...).Scan(&stored.VaultID, &record)
	if errors.Is(err, sql.ErrNoRows) {
		return models.StoredHardwareRecord{}, ErrRecordNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "*hardwareRecordRepository.FindByKeyHash").
			Msg("failed to scan hardware record")
		return models.StoredHardwareRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	if err = json.Unmarshal([]byte(record), &stored.Record); err != nil {
		return models.StoredHardwareRecord{}, fmt.Errorf("%w: %w", ErrEncodingRecord, err)
	}

	return stored, nil
}

// ── Recovery tokens ──────────────────────────────────────────────────────────

type recoveryTokenRepository struct {
	*DB
	logger *logger.Logger
}

// NewRecoveryTokenRepository constructs a [RecoveryTokenRepository].
func NewRecoveryTokenRepository(db *DB, logger *logger.Logger) RecoveryTokenRepository {
	logger.Debug().Msg("creating recovery token repository")
	return &recoveryTokenRepository{DB: db, logger: logger}
}

func (r *recoveryTokenRepository) Save(ctx context.Context, token models.RecoveryToken) error {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Insert(tokensTable).
		Columns("token_hash", "vault_id", "method", "created_at", "expires_at").
		Values(token.TokenHash, token.VaultID, string(token.Method), token.CreatedAt, token.ExpiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.exec(ctx, query, args); err != nil {
		log.Err(err).
			Str("func", "*recoveryTokenRepository.Save").
			Str("vault_id", token.VaultID).
			Msg("failed to insert recovery token")
		return err
	}
	return nil
}

func (r *recoveryTokenRepository) Get(ctx context.Context, tokenHash string) (models.RecoveryToken, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Select("token_hash", "vault_id", "method", "created_at", "expires_at").
		From(tokensTable).
		Where(sq.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return models.RecoveryToken{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		token  models.RecoveryToken
		method string
	)
	err = r.QueryRowContext(ctx, query, args...).
		Scan(&token.TokenHash, &token.VaultID, &method, &token.CreatedAt, &token.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RecoveryToken{}, ErrRecordNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "*recoveryTokenRepository.Get").
			Msg("failed to scan recovery token")
		return models.RecoveryToken{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	token.Method = models.RecoveryMethod(method)

	return token, nil
}

// Delete removes the token and fails with [ErrRecordNotFound] when no row
// was removed, so of two concurrent deletes of one token exactly one
// succeeds.
func (r *recoveryTokenRepository) Delete(ctx context.Context, tokenHash string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Delete(tokensTable).
		Where(sq.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
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
			Str("func", "*recoveryTokenRepository.Delete").
			Msg("failed to delete recovery token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DeleteExpired removes every token whose expiry is at or before now and
// returns how many were removed.
func (r *recoveryTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Delete(tokensTable).
		Where(sq.LtOrEq{"expires_at": now.UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*recoveryTokenRepository.DeleteExpired").
			Msg("failed to delete expired tokens")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return res.RowsAffected()
}

// exec runs a single DML statement with retries and maps unique violations
// to [ErrRecordAlreadyExists].
func (db *DB) exec(ctx context.Context, query string, args []any) error {
	err := db.withRetry(ctx, func(ctx context.Context) error {
		_, execErr := db.ExecContext(ctx, query, args...)
		return execErr
	})
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return ErrRecordAlreadyExists
	}
	return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
}
