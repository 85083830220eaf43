package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/models"
)

const selectVaultSQL = `SELECT vault_id, envelope, revision, created_at, updated_at FROM vaults`

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// newDBFromSQL создаёт DB из существующего *sql.DB (для тестов).
func newDBFromSQL(db *sql.DB) *DB {
	return newDB(db, config.DriverPostgres, NewPostgresErrorClassifier(), logger.Nop())
}

func newTestVaultRepo(t *testing.T) (*vaultRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t)
	repo := NewVaultRepository(newDBFromSQL(db), logger.Nop()).(*vaultRepository)
	repo.now = func() time.Time { return fixedNow }
	return repo, mock
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func testEnvelope() models.Vault {
	return models.Vault{
		Version: models.VaultVersion,
		Format:  models.VaultFormat,
		Created: fixedNow,
		Updated: fixedNow,
		KDF: models.KDFHeader{
			Algorithm: models.KDFAlgorithmArgon2id, Salt: []byte("0123456789abcdef"),
			MemoryCost: 1024, TimeCost: 1, Parallelism: 1,
		},
		Primary:  models.Sealed{Nonce: []byte("n1"), Tag: []byte("t1"), Ciphertext: []byte("c1")},
		Recovery: models.Sealed{Nonce: []byte("n2"), Tag: []byte("t2"), Ciphertext: []byte("c2")},
		KeyWrap:  models.Sealed{Nonce: []byte("n3"), Tag: []byte("t3"), Ciphertext: []byte("c3")},
	}
}

func envelopeJSON(t *testing.T, v models.Vault) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

// ── Create ───────────────────────────────────────────────────────────────────

func TestVaultRepository_Create(t *testing.T) {
	tests := []struct {
		name    string
		execErr error
		wantErr error
	}{
		{name: "success"},
		{name: "duplicate id", execErr: pgError(pgerrcode.UniqueViolation), wantErr: ErrVaultAlreadyExists},
		{name: "driver error", execErr: errors.New("connection refused"), wantErr: ErrExecutingStatement},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newTestVaultRepo(t)
			env := testEnvelope()

			exp := mock.ExpectExec(regexp.QuoteMeta(
				"INSERT INTO vaults (vault_id,envelope,revision,created_at,updated_at) VALUES ($1,$2,$3,$4,$5)")).
				WithArgs("vault-1", envelopeJSON(t, env), int64(1), fixedNow, fixedNow)
			if tc.execErr != nil {
				exp.WillReturnError(tc.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			got, err := repo.Create(testContext(), models.StoredVault{VaultID: "vault-1", Envelope: env})

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(1), got.Revision)
				assert.Equal(t, fixedNow, got.CreatedAt)
				assert.Equal(t, fixedNow, got.UpdatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestVaultRepository_Create_RetriesTransientError(t *testing.T) {
	repo, mock := newTestVaultRepo(t)

	mock.ExpectExec("INSERT INTO vaults").
		WillReturnError(pgError(pgerrcode.SerializationFailure))
	mock.ExpectExec("INSERT INTO vaults").
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := repo.Create(testContext(), models.StoredVault{VaultID: "vault-1", Envelope: testEnvelope()})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── Get ──────────────────────────────────────────────────────────────────────

func TestVaultRepository_Get(t *testing.T) {
	env := testEnvelope()

	t.Run("success", func(t *testing.T) {
		repo, mock := newTestVaultRepo(t)
		rows := sqlmock.NewRows(vaultColumns).
			AddRow("vault-1", envelopeJSON(t, env), int64(3), fixedNow, fixedNow)
		mock.ExpectQuery(regexp.QuoteMeta(selectVaultSQL + " WHERE vault_id = $1")).
			WithArgs("vault-1").
			WillReturnRows(rows)

		got, err := repo.Get(testContext(), "vault-1")
		require.NoError(t, err)
		assert.Equal(t, "vault-1", got.VaultID)
		assert.Equal(t, int64(3), got.Revision)
		assert.Equal(t, env.Primary, got.Envelope.Primary)
		assert.Equal(t, env.KDF, got.Envelope.KDF)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newTestVaultRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectVaultSQL)).
			WillReturnRows(sqlmock.NewRows(vaultColumns))

		_, err := repo.Get(testContext(), "missing")
		assert.ErrorIs(t, err, ErrVaultNotFound)
	})

	t.Run("corrupt envelope", func(t *testing.T) {
		repo, mock := newTestVaultRepo(t)
		rows := sqlmock.NewRows(vaultColumns).
			AddRow("vault-1", "{not json", int64(1), fixedNow, fixedNow)
		mock.ExpectQuery(regexp.QuoteMeta(selectVaultSQL)).WillReturnRows(rows)

		_, err := repo.Get(testContext(), "vault-1")
		assert.ErrorIs(t, err, ErrEncodingRecord)
	})

	t.Run("wrong column count", func(t *testing.T) {
		repo, mock := newTestVaultRepo(t)
		rows := sqlmock.NewRows([]string{"vault_id"}).AddRow("vault-1")
		mock.ExpectQuery(regexp.QuoteMeta(selectVaultSQL)).WillReturnRows(rows)

		_, err := repo.Get(testContext(), "vault-1")
		assert.ErrorIs(t, err, ErrScanningRow)
	})
}

// ── List ─────────────────────────────────────────────────────────────────────

func TestVaultRepository_List(t *testing.T) {
	env := testEnvelope()

	t.Run("success", func(t *testing.T) {
		repo, mock := newTestVaultRepo(t)
		rows := sqlmock.NewRows(vaultColumns).
			AddRow("a", envelopeJSON(t, env), int64(1), fixedNow, fixedNow).
			AddRow("b", envelopeJSON(t, env), int64(2), fixedNow, fixedNow)
		mock.ExpectQuery(regexp.QuoteMeta(selectVaultSQL + " ORDER BY created_at, vault_id")).
			WillReturnRows(rows)

		got, err := repo.List(testContext())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].VaultID)
		assert.Equal(t, "b", got[1].VaultID)
	})

	t.Run("empty", func(t *testing.T) {
		repo, mock := newTestVaultRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectVaultSQL)).
			WillReturnRows(sqlmock.NewRows(vaultColumns))

		got, err := repo.List(testContext())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newTestVaultRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectVaultSQL)).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.List(testContext())
		assert.ErrorIs(t, err, ErrExecutingQuery)
	})

	t.Run("rows error", func(t *testing.T) {
		repo, mock := newTestVaultRepo(t)
		rows := sqlmock.NewRows(vaultColumns).
			AddRow("a", envelopeJSON(t, env), int64(1), fixedNow, fixedNow).
			RowError(0, errors.New("network interruption"))
		mock.ExpectQuery(regexp.QuoteMeta(selectVaultSQL)).WillReturnRows(rows)

		_, err := repo.List(testContext())
		assert.ErrorIs(t, err, ErrScanningRows)
	})
}

// ── Update ───────────────────────────────────────────────────────────────────

const updateVaultSQL = "UPDATE vaults SET envelope = $1, revision = revision + 1, updated_at = $2 WHERE revision = $3 AND vault_id = $4"

func TestVaultRepository_Update(t *testing.T) {
	env := testEnvelope()
	stored := models.StoredVault{VaultID: "vault-1", Envelope: env, Revision: 4}

	t.Run("success bumps revision", func(t *testing.T) {
		repo, mock := newTestVaultRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(updateVaultSQL)).
			WithArgs(envelopeJSON(t, env), fixedNow, int64(4), "vault-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		got, err := repo.Update(testContext(), stored)
		require.NoError(t, err)
		assert.Equal(t, int64(5), got.Revision)
		assert.Equal(t, fixedNow, got.UpdatedAt)
	})

	t.Run("stale revision", func(t *testing.T) {
		repo, mock := newTestVaultRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(updateVaultSQL)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(selectVaultSQL)).
			WithArgs("vault-1").
			WillReturnRows(sqlmock.NewRows(vaultColumns).
				AddRow("vault-1", envelopeJSON(t, env), int64(5), fixedNow, fixedNow))

		_, err := repo.Update(testContext(), stored)
		assert.ErrorIs(t, err, ErrVersionConflict)
	})

	t.Run("missing vault", func(t *testing.T) {
		repo, mock := newTestVaultRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(updateVaultSQL)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(selectVaultSQL)).
			WillReturnRows(sqlmock.NewRows(vaultColumns))

		_, err := repo.Update(testContext(), stored)
		assert.ErrorIs(t, err, ErrVaultNotFound)
	})

	t.Run("driver error", func(t *testing.T) {
		repo, mock := newTestVaultRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(updateVaultSQL)).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.Update(testContext(), stored)
		assert.ErrorIs(t, err, ErrExecutingStatement)
	})
}

// ── Delete ───────────────────────────────────────────────────────────────────

func TestVaultRepository_Delete(t *testing.T) {
	expectDeletes := func(mock sqlmock.Sqlmock, vaultRows int64) {
		for _, table := range []string{tokensTable, hardwareTable, bundlesTable} {
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM " + table + " WHERE vault_id = $1")).
				WithArgs("vault-1").
				WillReturnResult(sqlmock.NewResult(0, 0))
		}
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM vaults WHERE vault_id = $1")).
			WithArgs("vault-1").
			WillReturnResult(sqlmock.NewResult(0, vaultRows))
	}

	t.Run("success", func(t *testing.T) {
		repo, mock := newTestVaultRepo(t)
		mock.ExpectBegin()
		expectDeletes(mock, 1)
		mock.ExpectCommit()

		require.NoError(t, repo.Delete(testContext(), "vault-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing vault rolls back", func(t *testing.T) {
		repo, mock := newTestVaultRepo(t)
		mock.ExpectBegin()
		expectDeletes(mock, 0)
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Delete(testContext(), "vault-1"), ErrVaultNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin fails", func(t *testing.T) {
		repo, mock := newTestVaultRepo(t)
		mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

		assert.ErrorIs(t, repo.Delete(testContext(), "vault-1"), ErrBeginningTransaction)
	})

	t.Run("commit fails", func(t *testing.T) {
		repo, mock := newTestVaultRepo(t)
		mock.ExpectBegin()
		expectDeletes(mock, 1)
		mock.ExpectCommit().WillReturnError(errors.New("disk full"))

		assert.ErrorIs(t, repo.Delete(testContext(), "vault-1"), ErrCommitingTransaction)
	})
}

// ── NewConnect ───────────────────────────────────────────────────────────────

func TestNewConnect_UnknownDriver(t *testing.T) {
	_, err := NewConnect(context.Background(), config.DB{Driver: "mysql"}, logger.Nop())
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestNewDB_PlaceholderPerDriver(t *testing.T) {
	db, _ := newTestDB(t)

	pg, _, err := newDB(db, config.DriverPostgres, nil, logger.Nop()).builder.
		Select("x").From("t").Where("a = ?", 1).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT x FROM t WHERE a = $1", pg)

	lite, _, err := newDB(db, config.DriverSQLite, nil, logger.Nop()).builder.
		Select("x").From("t").Where("a = ?", 1).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT x FROM t WHERE a = ?", lite)
}
