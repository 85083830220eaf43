package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrVaultNotFound is returned when no vault is stored under the
	// requested ID.
	ErrVaultNotFound = errors.New("vault was not found")

	// ErrVaultAlreadyExists is returned when a vault is created under an ID
	// that is already taken.
	ErrVaultAlreadyExists = errors.New("vault already exists")

	// ErrVersionConflict is returned when an optimistic-locking check fails:
	// the revision supplied by the caller does not match the stored one,
	// meaning another writer has modified the vault since it was read.
	ErrVersionConflict = errors.New("vault version conflict occurred")

	// ErrRecordNotFound is returned when a recovery bundle, hardware record
	// or recovery token lookup matches nothing.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrRecordAlreadyExists is returned when a recovery record is inserted
	// under a key that is already taken.
	ErrRecordAlreadyExists = errors.New("record already exists")

	// ErrUnknownDriver is returned by [NewConnect] for a driver other than
	// sqlite3 or pgx.
	ErrUnknownDriver = errors.New("unknown database driver")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a multi-row result set
	// fails mid-way.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrEncodingRecord is returned when a record cannot be marshalled to or
	// unmarshalled from its stored JSON column.
	ErrEncodingRecord = errors.New("failed to encode stored record")
)
