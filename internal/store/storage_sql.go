// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-claim-vault/internal/logger"
)

// maxTxAttempts bounds how often a unit of work is replayed after a
// retryable failure such as a serialization conflict.
const maxTxAttempts = 3

type sqlStorage struct {
	db *DB
}

// NewSQLStorage wraps a connected DB.
func NewSQLStorage(db *DB) Storage {
	return &sqlStorage{db: db}
}

func (s *sqlStorage) Repositories() Repositories {
	return s.repositories(s.db.DB, false)
}

func (s *sqlStorage) repositories(q querier, inTx bool) Repositories {
	base := sqlRepository{
		q:          q,
		builder:    s.db.statementBuilder(),
		classifier: s.db.errorClassificator,
		// SQLite already holds the database write lock for the whole
		// transaction; only Postgres needs row locks.
		lockRows: inTx && s.db.dialect == DialectPostgres,
	}
	return Repositories{
		Vaults:    &vaultRepository{base},
		Schedules: &scheduleRepository{base},
		Accounts:  &accountRepository{base},
		Mints:     &mintRepository{base},
	}
}

// WithinTx runs fn in a database transaction, committing only when fn
// succeeds. Retryable driver failures restart fn from scratch.
func (s *sqlStorage) WithinTx(ctx context.Context, fn TxFunc) error {
	log := logger.FromContext(ctx)

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.withinTxOnce(ctx, fn)
		if err == nil || s.db.errorClassificator.Classify(err) != Retryable {
			return err
		}
		log.Warn().Err(err).
			Str("func", "sqlStorage.WithinTx").
			Int("attempt", attempt).
			Msg("retrying unit of work")
	}
	return err
}

func (s *sqlStorage) withinTxOnce(ctx context.Context, fn TxFunc) error {
	log := logger.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "sqlStorage.WithinTx").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err = fn(ctx, s.repositories(tx, true)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "sqlStorage.WithinTx").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

func (s *sqlStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlStorage) Close() error {
	return s.db.Close()
}

// sqlRepository carries what every SQL repository needs.
type sqlRepository struct {
	q          querier
	builder    sq.StatementBuilderType
	classifier ErrorClassificator
	lockRows   bool
}

func (r sqlRepository) forUpdate(b sq.SelectBuilder) sq.SelectBuilder {
	if r.lockRows {
		return b.Suffix("FOR UPDATE")
	}
	return b
}

// exec runs a built statement and fails with ErrNothingUpdated when no row
// matched.
func (r sqlRepository) exec(ctx context.Context, b sq.Sqlizer, mustAffect bool) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if mustAffect {
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if n == 0 {
			return ErrNothingUpdated
		}
	}
	return nil
}
