package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/models"
)

func newTestDB(t *testing.T, dialect Dialect) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var classifier ErrorClassificator = NewPostgresErrorClassifier()
	if dialect == DialectSQLite {
		classifier = NewSQLiteErrorClassifier()
	}
	return &DB{DB: db, dialect: dialect, errorClassificator: classifier, logger: logger.Nop()}, mock
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

func id(b byte) models.Identity {
	return models.Identity{b}
}

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func vaultRow(v models.Vault) []driver.Value {
	return []driver.Value{
		v.ID[:], v.Path, v.Owner[:], v.PendingOwner[:], models.PackIdentities(v.Admins),
		int64(v.SignerNonce), v.Signer[:], v.CreatedAt, v.UpdatedAt,
	}
}

func testVault() models.Vault {
	return models.Vault{
		ID:          id(1),
		Path:        "treasury",
		Owner:       id(2),
		Admins:      []models.Identity{id(3), id(4)},
		SignerNonce: 254,
		Signer:      id(5),
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	}
}

// ─── vaults ───────────────────────────────────────────────────────────────────

func TestVaultRepository_CreateVault(t *testing.T) {
	db, mock := newTestDB(t, DialectPostgres)
	repos := NewSQLStorage(db).Repositories()
	v := testVault()

	mock.ExpectExec(`INSERT INTO vaults \(id,path,owner,pending_owner,admins,signer_nonce,signer,created_at,updated_at\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7,\$8,\$9\)`).
		WithArgs(v.ID[:], "treasury", v.Owner[:], make([]byte, 32), models.PackIdentities(v.Admins), int64(254), v.Signer[:], testTime, testTime).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repos.Vaults.CreateVault(testContext(), v))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultRepository_CreateVault_Duplicate(t *testing.T) {
	db, mock := newTestDB(t, DialectPostgres)
	repos := NewSQLStorage(db).Repositories()

	mock.ExpectExec("INSERT INTO vaults").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	err := repos.Vaults.CreateVault(testContext(), testVault())
	assert.ErrorIs(t, err, ErrVaultAlreadyExists)
}

func TestVaultRepository_CreateVault_SQLiteDuplicate(t *testing.T) {
	db, mock := newTestDB(t, DialectSQLite)
	repos := NewSQLStorage(db).Repositories()

	mock.ExpectExec(`INSERT INTO vaults .* VALUES \(\?,\?,\?,\?,\?,\?,\?,\?,\?\)`).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey})

	err := repos.Vaults.CreateVault(testContext(), testVault())
	assert.ErrorIs(t, err, ErrVaultAlreadyExists)
}

func TestVaultRepository_GetVault(t *testing.T) {
	db, mock := newTestDB(t, DialectPostgres)
	repos := NewSQLStorage(db).Repositories()
	v := testVault()

	mock.ExpectQuery(`SELECT .* FROM vaults WHERE id = \$1$`).
		WithArgs(v.ID[:]).
		WillReturnRows(sqlmock.NewRows(vaultColumns).AddRow(vaultRow(v)...))

	got, err := repos.Vaults.GetVault(testContext(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestVaultRepository_GetVault_NotFound(t *testing.T) {
	db, mock := newTestDB(t, DialectPostgres)
	repos := NewSQLStorage(db).Repositories()

	mock.ExpectQuery("SELECT .* FROM vaults").
		WillReturnRows(sqlmock.NewRows(vaultColumns))

	_, err := repos.Vaults.GetVault(testContext(), id(9))
	assert.ErrorIs(t, err, ErrVaultNotFound)
}

func TestVaultRepository_GetVault_CorruptAdmins(t *testing.T) {
	db, mock := newTestDB(t, DialectPostgres)
	repos := NewSQLStorage(db).Repositories()

	row := vaultRow(testVault())
	row[4] = []byte{1, 2, 3}
	mock.ExpectQuery("SELECT .* FROM vaults").
		WillReturnRows(sqlmock.NewRows(vaultColumns).AddRow(row...))

	_, err := repos.Vaults.GetVault(testContext(), id(1))
	assert.ErrorIs(t, err, ErrScanningRow)
}

func TestVaultRepository_UpdateVault(t *testing.T) {
	db, mock := newTestDB(t, DialectPostgres)
	repos := NewSQLStorage(db).Repositories()
	v := testVault()

	mock.ExpectExec(`UPDATE vaults SET owner = \$1, pending_owner = \$2, admins = \$3, updated_at = \$4 WHERE id = \$5`).
		WithArgs(v.Owner[:], make([]byte, 32), models.PackIdentities(v.Admins), testTime, v.ID[:]).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repos.Vaults.UpdateVault(testContext(), v))

	mock.ExpectExec("UPDATE vaults").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repos.Vaults.UpdateVault(testContext(), v), ErrVaultNotFound)
}

func TestVaultRepository_ListVaultsByOwner(t *testing.T) {
	db, mock := newTestDB(t, DialectPostgres)
	repos := NewSQLStorage(db).Repositories()
	a := testVault()
	b := testVault()
	b.ID, b.Path, b.Admins = id(7), "payroll", []models.Identity{}

	mock.ExpectQuery(`SELECT .* FROM vaults WHERE owner = \$1 ORDER BY created_at`).
		WillReturnRows(sqlmock.NewRows(vaultColumns).AddRow(vaultRow(a)...).AddRow(vaultRow(b)...))

	vaults, err := repos.Vaults.ListVaultsByOwner(testContext(), a.Owner)
	require.NoError(t, err)
	require.Len(t, vaults, 2)
	assert.Equal(t, "payroll", vaults[1].Path)
	assert.Empty(t, vaults[1].Admins)
}

// ─── schedules ────────────────────────────────────────────────────────────────

func testSchedule() models.Schedule {
	bitmap := models.NewRedemptionBitmap(10)
	_ = bitmap.Set(3)
	return models.Schedule{
		ID:             id(10),
		EventID:        1 << 63,
		VaultID:        id(1),
		Kind:           models.ScheduleKindMulti,
		MerkleRoot:     models.Hash{0xab},
		ActivationTime: time.Unix(1_700_000_000, 0).UTC(),
		IsActive:       true,
		ReceivingAsset: models.Asset{Mint: id(11), Account: id(12)},
		Redemptions:    bitmap,
		CreatedAt:      testTime,
		UpdatedAt:      testTime,
	}
}

func scheduleRow(s models.Schedule) []driver.Value {
	return []driver.Value{
		s.ID[:], int64(s.EventID), s.VaultID[:], int64(s.Kind), s.MerkleRoot[:],
		s.ActivationTime.Unix(), s.IsActive,
		s.ReceivingAsset.Mint[:], s.ReceivingAsset.Account[:],
		s.SendingAsset.Mint[:], s.SendingAsset.Account[:],
		int64(s.Redemptions.Len()), s.Redemptions.Bytes(), s.CreatedAt, s.UpdatedAt,
	}
}

func TestScheduleRepository_CreateSchedule(t *testing.T) {
	db, mock := newTestDB(t, DialectPostgres)
	repos := NewSQLStorage(db).Repositories()
	s := testSchedule()

	mock.ExpectExec("INSERT INTO schedules").
		WithArgs(
			s.ID[:], int64(s.EventID), s.VaultID[:], int64(3), s.MerkleRoot[:], int64(1_700_000_000), true,
			s.ReceivingAsset.Mint[:], s.ReceivingAsset.Account[:], make([]byte, 32), make([]byte, 32),
			int64(10), []byte{0x08, 0x00}, testTime, testTime,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repos.Schedules.CreateSchedule(testContext(), s))

	mock.ExpectExec("INSERT INTO schedules").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
	assert.ErrorIs(t, repos.Schedules.CreateSchedule(testContext(), s), ErrScheduleAlreadyExists)
}

func TestScheduleRepository_GetSchedule(t *testing.T) {
	db, mock := newTestDB(t, DialectPostgres)
	repos := NewSQLStorage(db).Repositories()
	s := testSchedule()

	mock.ExpectQuery(`SELECT .* FROM schedules WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(scheduleColumns).AddRow(scheduleRow(s)...))

	got, err := repos.Schedules.GetSchedule(testContext(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.EventID, got.EventID)
	assert.Equal(t, s.ActivationTime, got.ActivationTime)
	assert.Equal(t, models.ScheduleKindMulti, got.Kind)
	assert.Equal(t, 10, got.ClaimCount())
	set, err := got.Redemptions.IsSet(3)
	require.NoError(t, err)
	assert.True(t, set)

	mock.ExpectQuery("SELECT .* FROM schedules").WillReturnRows(sqlmock.NewRows(scheduleColumns))
	_, err = repos.Schedules.GetSchedule(testContext(), s.ID)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestScheduleRepository_UpdateRedemptions(t *testing.T) {
	db, mock := newTestDB(t, DialectPostgres)
	repos := NewSQLStorage(db).Repositories()
	s := testSchedule()

	mock.ExpectExec(`UPDATE schedules SET redemptions = \$1, updated_at = \$2 WHERE id = \$3 AND claim_count = \$4`).
		WithArgs([]byte{0x08, 0x00}, testTime, s.ID[:], int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repos.Schedules.UpdateRedemptions(testContext(), s.ID, s.Redemptions, testTime))

	mock.ExpectExec("UPDATE schedules").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repos.Schedules.UpdateRedemptions(testContext(), s.ID, s.Redemptions, testTime), ErrScheduleNotFound)
}

func TestScheduleRepository_UpdateScheduleStatus(t *testing.T) {
	db, mock := newTestDB(t, DialectSQLite)
	repos := NewSQLStorage(db).Repositories()

	mock.ExpectExec(`UPDATE schedules SET is_active = \?, updated_at = \? WHERE id = \?`).
		WithArgs(false, testTime, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repos.Schedules.UpdateScheduleStatus(testContext(), id(10), false, testTime))

	mock.ExpectExec("UPDATE schedules").WillReturnError(errors.New("disk I/O error"))
	assert.ErrorIs(t, repos.Schedules.UpdateScheduleStatus(testContext(), id(10), true, testTime), ErrExecutingStatement)
}

func TestScheduleRepository_ListSchedules(t *testing.T) {
	db, mock := newTestDB(t, DialectPostgres)
	repos := NewSQLStorage(db).Repositories()
	s := testSchedule()

	mock.ExpectQuery(`SELECT .* FROM schedules WHERE vault_id = \$1 AND is_active = \$2 ORDER BY event_id`).
		WithArgs(s.VaultID[:], true).
		WillReturnRows(sqlmock.NewRows(scheduleColumns).AddRow(scheduleRow(s)...))

	got, err := repos.Schedules.ListSchedules(testContext(), models.ScheduleFilter{VaultID: s.VaultID, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, s.ID, got[0].ID)

	mock.ExpectQuery(`SELECT .* FROM schedules ORDER BY event_id`).
		WillReturnError(errors.New("connection reset"))
	_, err = repos.Schedules.ListSchedules(testContext(), models.ScheduleFilter{})
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

// ─── ledger ───────────────────────────────────────────────────────────────────

func TestAccountRepository(t *testing.T) {
	db, mock := newTestDB(t, DialectPostgres)
	repos := NewSQLStorage(db).Repositories()
	acc := models.Account{Address: id(20), Owner: id(2), Mint: id(11), Amount: 500, CreatedAt: testTime, UpdatedAt: testTime}

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(acc.Address[:], acc.Owner[:], acc.Mint[:], int64(500), testTime, testTime).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repos.Accounts.CreateAccount(testContext(), acc))

	mock.ExpectQuery(`SELECT address, owner, mint, amount, created_at, updated_at FROM accounts WHERE address = \$1`).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(acc.Address[:], acc.Owner[:], acc.Mint[:], int64(500), testTime, testTime))
	got, err := repos.Accounts.GetAccount(testContext(), acc.Address)
	require.NoError(t, err)
	assert.Equal(t, acc, got)

	mock.ExpectExec(`UPDATE accounts SET amount = \$1`).
		WithArgs(int64(450), testTime, acc.Address[:]).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repos.Accounts.UpdateAccountBalance(testContext(), acc.Address, 450, testTime))

	assert.ErrorIs(t, repos.Accounts.UpdateAccountBalance(testContext(), acc.Address, 1<<63, testTime), ErrBalanceOverflow)

	mock.ExpectQuery("SELECT .* FROM accounts").WillReturnRows(sqlmock.NewRows(accountColumns))
	_, err = repos.Accounts.GetAccount(testContext(), id(99))
	assert.ErrorIs(t, err, ErrAccountNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMintRepository(t *testing.T) {
	db, mock := newTestDB(t, DialectPostgres)
	repos := NewSQLStorage(db).Repositories()
	mint := models.Mint{ID: id(11), Authority: id(2), CreatedAt: testTime}

	mock.ExpectExec("INSERT INTO mints").WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
	assert.ErrorIs(t, repos.Mints.CreateMint(testContext(), mint), ErrMintAlreadyExists)

	mock.ExpectQuery("SELECT id, authority, created_at FROM mints").
		WillReturnRows(sqlmock.NewRows(mintColumns).AddRow(mint.ID[:], mint.Authority[:], testTime))
	got, err := repos.Mints.GetMint(testContext(), mint.ID)
	require.NoError(t, err)
	assert.Equal(t, mint, got)
}

// ─── units of work ────────────────────────────────────────────────────────────

func TestSQLStorage_WithinTx_CommitsAndLocksRows(t *testing.T) {
	db, mock := newTestDB(t, DialectPostgres)
	storage := NewSQLStorage(db)
	v := testVault()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM vaults WHERE id = \$1 FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(vaultColumns).AddRow(vaultRow(v)...))
	mock.ExpectExec("UPDATE vaults").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := storage.WithinTx(testContext(), func(ctx context.Context, repos Repositories) error {
		got, err := repos.Vaults.GetVault(ctx, v.ID)
		if err != nil {
			return err
		}
		got.PendingOwner = id(8)
		return repos.Vaults.UpdateVault(ctx, got)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorage_WithinTx_RollsBackOnError(t *testing.T) {
	db, mock := newTestDB(t, DialectPostgres)
	storage := NewSQLStorage(db)
	boom := errors.New("transfer failed")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE schedules").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := storage.WithinTx(testContext(), func(ctx context.Context, repos Repositories) error {
		if err := repos.Schedules.UpdateRedemptions(ctx, id(10), models.NewRedemptionBitmap(2), testTime); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorage_WithinTx_RetriesSerializationFailure(t *testing.T) {
	db, mock := newTestDB(t, DialectPostgres)
	storage := NewSQLStorage(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts").WillReturnError(&pgconn.PgError{Code: pgerrcode.SerializationFailure})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	attempts := 0
	err := storage.WithinTx(testContext(), func(ctx context.Context, repos Repositories) error {
		attempts++
		return repos.Accounts.UpdateAccountBalance(ctx, id(20), 1, testTime)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorage_WithinTx_BeginFails(t *testing.T) {
	db, mock := newTestDB(t, DialectSQLite)
	storage := NewSQLStorage(db)

	mock.ExpectBegin().WillReturnError(errors.New("database is closed"))

	err := storage.WithinTx(testContext(), func(context.Context, Repositories) error { return nil })
	assert.ErrorIs(t, err, ErrBeginningTransaction)
}

func TestSQLStorage_WithinTx_SQLiteDoesNotLockRows(t *testing.T) {
	db, mock := newTestDB(t, DialectSQLite)
	storage := NewSQLStorage(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM schedules WHERE id = \?$`).
		WillReturnRows(sqlmock.NewRows(scheduleColumns).AddRow(scheduleRow(testSchedule())...))
	mock.ExpectCommit()

	err := storage.WithinTx(testContext(), func(ctx context.Context, repos Repositories) error {
		_, err := repos.Schedules.GetSchedule(ctx, id(10))
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassifiers(t *testing.T) {
	pg := NewPostgresErrorClassifier()
	assert.Equal(t, Retryable, pg.Classify(&pgconn.PgError{Code: pgerrcode.DeadlockDetected}))
	assert.Equal(t, NonRetryable, pg.Classify(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.Equal(t, NonRetryable, pg.Classify(nil))
	assert.Equal(t, NonRetryable, pg.Classify(errors.New("plain")))
	assert.False(t, pg.IsUniqueViolation(errors.New("plain")))

	lite := NewSQLiteErrorClassifier()
	assert.Equal(t, Retryable, lite.Classify(sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.True(t, lite.IsUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}))
	assert.False(t, lite.IsUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}))
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "***@db:5432/vault", redactDSN("mysql://root:secret@db:5432/vault"))
	assert.Equal(t, "mongodb", redactDSN("mongodb"))
}
