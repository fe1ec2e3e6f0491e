// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/models"
)

// ErrBalanceOverflow is returned for balances the BIGINT column cannot hold.
var ErrBalanceOverflow = errors.New("balance exceeds storable range")

type accountRepository struct {
	sqlRepository
}

func (r *accountRepository) CreateAccount(ctx context.Context, account models.Account) error {
	if account.Amount > math.MaxInt64 {
		return ErrBalanceOverflow
	}

	insert := r.builder.Insert(tableAccounts).
		Columns(accountColumns...).
		Values(
			account.Address, account.Owner, account.Mint, int64(account.Amount),
			account.CreatedAt, account.UpdatedAt,
		)

	if err := r.exec(ctx, insert, false); err != nil {
		if r.classifier.IsUniqueViolation(err) {
			return ErrAccountAlreadyExists
		}
		logger.FromContext(ctx).Err(err).
			Str("func", "accountRepository.CreateAccount").
			Str("address", account.Address.String()).
			Msg("failed to insert account")
		return err
	}
	return nil
}

func (r *accountRepository) GetAccount(ctx context.Context, address models.Identity) (models.Account, error) {
	query, args, err := r.forUpdate(
		r.builder.Select(accountColumns...).From(tableAccounts).Where("address = ?", address),
	).ToSql()
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		account models.Account
		amount  int64
	)
	err = r.q.QueryRowContext(ctx, query, args...).Scan(
		&account.Address, &account.Owner, &account.Mint, &amount,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrAccountNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "accountRepository.GetAccount").
			Str("address", address.String()).
			Msg("failed to load account")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	account.Amount = uint64(amount)
	return account, nil
}

func (r *accountRepository) UpdateAccountBalance(ctx context.Context, address models.Identity, amount uint64, at time.Time) error {
	if amount > math.MaxInt64 {
		return ErrBalanceOverflow
	}

	update := r.builder.Update(tableAccounts).
		Set("amount", int64(amount)).
		Set("updated_at", at.UTC()).
		Where("address = ?", address)

	err := r.exec(ctx, update, true)
	if errors.Is(err, ErrNothingUpdated) {
		return ErrAccountNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "accountRepository.UpdateAccountBalance").
			Str("address", address.String()).
			Msg("failed to update balance")
		return err
	}
	return nil
}

type mintRepository struct {
	sqlRepository
}

func (r *mintRepository) CreateMint(ctx context.Context, mint models.Mint) error {
	insert := r.builder.Insert(tableMints).
		Columns(mintColumns...).
		Values(mint.ID, mint.Authority, mint.CreatedAt)

	if err := r.exec(ctx, insert, false); err != nil {
		if r.classifier.IsUniqueViolation(err) {
			return ErrMintAlreadyExists
		}
		logger.FromContext(ctx).Err(err).
			Str("func", "mintRepository.CreateMint").
			Str("mint", mint.ID.String()).
			Msg("failed to insert mint")
		return err
	}
	return nil
}

func (r *mintRepository) GetMint(ctx context.Context, id models.Identity) (models.Mint, error) {
	query, args, err := r.builder.Select(mintColumns...).From(tableMints).Where("id = ?", id).ToSql()
	if err != nil {
		return models.Mint{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var mint models.Mint
	err = r.q.QueryRowContext(ctx, query, args...).Scan(&mint.ID, &mint.Authority, &mint.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Mint{}, ErrMintNotFound
	}
	if err != nil {
		return models.Mint{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return mint, nil
}
