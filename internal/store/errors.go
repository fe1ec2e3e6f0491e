package store

import "errors"

// Sentinel errors returned by repositories. Callers match them with [errors.Is].
var (
	// ErrVaultAlreadyExists is returned when a vault with the same derived id
	// (and therefore the same path) is already stored.
	ErrVaultAlreadyExists = errors.New("vault already exists")

	// ErrVaultNotFound is returned when no vault has the requested id.
	ErrVaultNotFound = errors.New("vault was not found")

	// ErrScheduleAlreadyExists is returned when a schedule for the same event
	// id is already stored.
	ErrScheduleAlreadyExists = errors.New("schedule already exists")

	// ErrScheduleNotFound is returned when no schedule has the requested id.
	ErrScheduleNotFound = errors.New("schedule was not found")

	// ErrAccountAlreadyExists is returned when an account address is taken.
	ErrAccountAlreadyExists = errors.New("account already exists")

	// ErrAccountNotFound is returned when no account has the requested address.
	ErrAccountNotFound = errors.New("account was not found")

	// ErrMintAlreadyExists is returned when a mint id is taken.
	ErrMintAlreadyExists = errors.New("mint already exists")

	// ErrMintNotFound is returned when no mint has the requested id.
	ErrMintNotFound = errors.New("mint was not found")

	// ErrNothingUpdated is returned when an UPDATE matched no row.
	ErrNothingUpdated = errors.New("no rows were updated")

	// ErrUnsupportedDSN is returned by NewStorage for an unknown DSN scheme.
	ErrUnsupportedDSN = errors.New("unsupported database dsn")
)

// Low-level database operation errors. Repositories wrap driver errors with
// one of these so the failing step is visible in logs.
var (
	// ErrBuildingSQLQuery is returned when squirrel cannot render a query.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when a transaction cannot start.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when COMMIT fails. The transaction
	// is rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when an INSERT or UPDATE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when a row cannot be scanned.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iteration over a result set fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
