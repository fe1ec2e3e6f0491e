// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/models"
)

// vaultRepository stores vaults in the "vaults" table. The admin set is
// packed into a single column of concatenated 32-byte identities.
type vaultRepository struct {
	sqlRepository
}

func (r *vaultRepository) CreateVault(ctx context.Context, vault models.Vault) error {
	log := logger.FromContext(ctx)

	insert := r.builder.Insert(tableVaults).
		Columns(vaultColumns...).
		Values(
			vault.ID, vault.Path, vault.Owner, vault.PendingOwner,
			models.PackIdentities(vault.Admins), int(vault.SignerNonce), vault.Signer,
			vault.CreatedAt, vault.UpdatedAt,
		)

	if err := r.exec(ctx, insert, false); err != nil {
		if r.classifier.IsUniqueViolation(err) {
			return ErrVaultAlreadyExists
		}
		log.Err(err).
			Str("func", "vaultRepository.CreateVault").
			Str("vault_id", vault.ID.String()).
			Msg("failed to insert vault")
		return err
	}
	return nil
}

func (r *vaultRepository) GetVault(ctx context.Context, id models.Identity) (models.Vault, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.forUpdate(
		r.builder.Select(vaultColumns...).From(tableVaults).Where("id = ?", id),
	).ToSql()
	if err != nil {
		return models.Vault{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	vault, err := scanVault(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vault{}, ErrVaultNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "vaultRepository.GetVault").
			Str("vault_id", id.String()).
			Msg("failed to load vault")
		return models.Vault{}, err
	}
	return vault, nil
}

func (r *vaultRepository) UpdateVault(ctx context.Context, vault models.Vault) error {
	log := logger.FromContext(ctx)

	update := r.builder.Update(tableVaults).
		Set("owner", vault.Owner).
		Set("pending_owner", vault.PendingOwner).
		Set("admins", models.PackIdentities(vault.Admins)).
		Set("updated_at", vault.UpdatedAt).
		Where("id = ?", vault.ID)

	err := r.exec(ctx, update, true)
	if errors.Is(err, ErrNothingUpdated) {
		return ErrVaultNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "vaultRepository.UpdateVault").
			Str("vault_id", vault.ID.String()).
			Msg("failed to update vault")
		return err
	}
	return nil
}

func (r *vaultRepository) ListVaultsByOwner(ctx context.Context, owner models.Identity) ([]models.Vault, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.Select(vaultColumns...).
		From(tableVaults).
		Where("owner = ?", owner).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "vaultRepository.ListVaultsByOwner").
			Str("owner", owner.String()).
			Msg("failed to query vaults")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	vaults := make([]models.Vault, 0, 8)
	for rows.Next() {
		vault, err := scanVault(rows)
		if err != nil {
			return nil, err
		}
		vaults = append(vaults, vault)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return vaults, nil
}

func scanVault(row rowScanner) (models.Vault, error) {
	var (
		vault  models.Vault
		admins []byte
	)
	err := row.Scan(
		&vault.ID, &vault.Path, &vault.Owner, &vault.PendingOwner, &admins,
		&vault.SignerNonce, &vault.Signer, &vault.CreatedAt, &vault.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vault{}, err
	}
	if err != nil {
		return models.Vault{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if vault.Admins, err = models.UnpackIdentities(admins); err != nil {
		return models.Vault{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return vault, nil
}
