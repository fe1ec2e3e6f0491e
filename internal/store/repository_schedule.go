// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/models"
)

// scheduleRepository stores schedules in the "schedules" table. The
// redemption bitmap is a column of the schedule row, so locking the row
// locks the bitmap.
type scheduleRepository struct {
	sqlRepository
}

func (r *scheduleRepository) CreateSchedule(ctx context.Context, s models.Schedule) error {
	log := logger.FromContext(ctx)

	insert := r.builder.Insert(tableSchedules).
		Columns(scheduleColumns...).
		Values(
			s.ID, int64(s.EventID), s.VaultID, int(s.Kind), s.MerkleRoot,
			s.ActivationTime.Unix(), s.IsActive,
			s.ReceivingAsset.Mint, s.ReceivingAsset.Account,
			s.SendingAsset.Mint, s.SendingAsset.Account,
			s.Redemptions.Len(), s.Redemptions.Bytes(),
			s.CreatedAt, s.UpdatedAt,
		)

	if err := r.exec(ctx, insert, false); err != nil {
		if r.classifier.IsUniqueViolation(err) {
			return ErrScheduleAlreadyExists
		}
		log.Err(err).
			Str("func", "scheduleRepository.CreateSchedule").
			Str("schedule_id", s.ID.String()).
			Msg("failed to insert schedule")
		return err
	}
	return nil
}

func (r *scheduleRepository) GetSchedule(ctx context.Context, id models.Identity) (models.Schedule, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.forUpdate(
		r.builder.Select(scheduleColumns...).From(tableSchedules).Where("id = ?", id),
	).ToSql()
	if err != nil {
		return models.Schedule{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	schedule, err := scanSchedule(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Schedule{}, ErrScheduleNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "scheduleRepository.GetSchedule").
			Str("schedule_id", id.String()).
			Msg("failed to load schedule")
		return models.Schedule{}, err
	}
	return schedule, nil
}

func (r *scheduleRepository) UpdateScheduleStatus(ctx context.Context, id models.Identity, active bool, at time.Time) error {
	update := r.builder.Update(tableSchedules).
		Set("is_active", active).
		Set("updated_at", at.UTC()).
		Where("id = ?", id)

	return r.update(ctx, "scheduleRepository.UpdateScheduleStatus", id, update)
}

// UpdateRedemptions overwrites the packed bitmap. The claim count never
// changes, so the length is checked against the stored one.
func (r *scheduleRepository) UpdateRedemptions(ctx context.Context, id models.Identity, redemptions models.RedemptionBitmap, at time.Time) error {
	update := r.builder.Update(tableSchedules).
		Set("redemptions", redemptions.Bytes()).
		Set("updated_at", at.UTC()).
		Where("id = ? AND claim_count = ?", id, redemptions.Len())

	return r.update(ctx, "scheduleRepository.UpdateRedemptions", id, update)
}

func (r *scheduleRepository) update(ctx context.Context, fn string, id models.Identity, update sq.Sqlizer) error {
	err := r.exec(ctx, update, true)
	if errors.Is(err, ErrNothingUpdated) {
		return ErrScheduleNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", fn).
			Str("schedule_id", id.String()).
			Msg("failed to update schedule")
		return err
	}
	return nil
}

func (r *scheduleRepository) ListSchedules(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error) {
	log := logger.FromContext(ctx)

	b := r.builder.Select(scheduleColumns...).From(tableSchedules).OrderBy("event_id")
	if !filter.VaultID.IsZero() {
		b = b.Where("vault_id = ?", filter.VaultID)
	}
	if filter.ActiveOnly {
		b = b.Where("is_active = ?", true)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "scheduleRepository.ListSchedules").Msg("failed to query schedules")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	schedules := make([]models.Schedule, 0, 16)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return schedules, nil
}

func scanSchedule(row rowScanner) (models.Schedule, error) {
	var (
		s           models.Schedule
		eventID     int64
		activation  int64
		claimCount  uint16
		redemptions []byte
	)
	err := row.Scan(
		&s.ID, &eventID, &s.VaultID, &s.Kind, &s.MerkleRoot, &activation, &s.IsActive,
		&s.ReceivingAsset.Mint, &s.ReceivingAsset.Account,
		&s.SendingAsset.Mint, &s.SendingAsset.Account,
		&claimCount, &redemptions, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Schedule{}, err
	}
	if err != nil {
		return models.Schedule{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	s.EventID = uint64(eventID)
	s.ActivationTime = time.Unix(activation, 0).UTC()
	if s.Redemptions, err = models.RedemptionBitmapFromBytes(claimCount, redemptions); err != nil {
		return models.Schedule{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return s, nil
}
