package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-claim-vault/internal/authority"
	"github.com/MKhiriev/go-claim-vault/internal/clock"
	"github.com/MKhiriev/go-claim-vault/internal/events"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/internal/store"
	"github.com/MKhiriev/go-claim-vault/models"
)

type scheduleService struct {
	storage   store.Storage
	deriver   *authority.Deriver
	publisher events.Publisher
	clock     clock.Clock

	logger *logger.Logger
}

func NewScheduleService(deps Dependencies) ScheduleService {
	return &scheduleService{
		storage:   deps.Storage,
		deriver:   deps.Deriver,
		publisher: deps.Publisher,
		clock:     deps.Clock,
		logger:    deps.Logger,
	}
}

// CreateSchedule commits a claim set to the vault. The schedule id is
// derived from the event id, and the redemption bitmap is sized to
// ClaimCount once and for all.
func (s *scheduleService) CreateSchedule(ctx context.Context, caller models.Identity, req models.CreateScheduleRequest) (models.Schedule, error) {
	if req.ClaimCount == 0 || !req.Kind.Valid() {
		return models.Schedule{}, fmt.Errorf("%w: claim count %d, kind %s", ErrInvalidRequest, req.ClaimCount, req.Kind)
	}

	id, err := s.deriver.ScheduleAddress(req.EventID)
	if err != nil {
		return models.Schedule{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	now := s.clock.Now()
	schedule := models.Schedule{
		ID:             id,
		EventID:        req.EventID,
		VaultID:        req.VaultID,
		Kind:           req.Kind,
		MerkleRoot:     req.MerkleRoot,
		ActivationTime: activationTime(req.ActivationTime),
		IsActive:       true,
		ReceivingAsset: req.ReceivingAsset,
		SendingAsset:   req.SendingAsset,
		Redemptions:    models.NewRedemptionBitmap(req.ClaimCount),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.storage.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		vault, err := getVault(ctx, repos, req.VaultID)
		if err != nil {
			return err
		}
		if err := requireAdmin(caller, vault); err != nil {
			return err
		}

		// multi-asset schedules bind the payout mint per claim
		if !req.ReceivingAsset.Account.IsZero() {
			if err := requireCustody(ctx, repos, vault, req.ReceivingAsset.Account, req.ReceivingAsset.Mint, req.Kind == models.ScheduleKindSingle); err != nil {
				return fmt.Errorf("receiving asset: %w", err)
			}
		}
		if !req.SendingAsset.IsNone() {
			if err := requireCustody(ctx, repos, vault, req.SendingAsset.Account, req.SendingAsset.Mint, true); err != nil {
				return fmt.Errorf("sending asset: %w", err)
			}
		}

		if err := repos.Schedules.CreateSchedule(ctx, schedule); err != nil {
			if errors.Is(err, store.ErrScheduleAlreadyExists) {
				return fmt.Errorf("%w: event %d", ErrScheduleAlreadyExists, req.EventID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.Schedule{}, err
	}

	s.emit(ctx, events.ScheduleCreated, caller, schedule)
	return schedule, nil
}

// requireCustody checks that address is an account of the vault signer and,
// when checkMint is set, that it holds mint.
func requireCustody(ctx context.Context, repos store.Repositories, vault models.Vault, address, mint models.Identity, checkMint bool) error {
	acc, err := repos.Accounts.GetAccount(ctx, address)
	if errors.Is(err, store.ErrAccountNotFound) {
		return fmt.Errorf("%w: account %s does not exist", ErrInvalidAccount, address)
	}
	if err != nil {
		return err
	}
	if acc.Owner != vault.Signer {
		return fmt.Errorf("%w: account %s is not held by vault %s", ErrInvalidAccount, address, vault.ID)
	}
	if checkMint && acc.Mint != mint {
		return fmt.Errorf("%w: account %s holds %s, schedule declares %s", ErrInvalidAccount, address, acc.Mint, mint)
	}
	return nil
}

// activationTime is stored with second precision; zero means open at once.
func activationTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return t.Truncate(time.Second).UTC()
}

func (s *scheduleService) SetScheduleStatus(ctx context.Context, caller models.Identity, req models.SetScheduleStatusRequest) (models.Schedule, error) {
	var out models.Schedule

	err := s.storage.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		schedule, err := getSchedule(ctx, repos, req.ScheduleID)
		if err != nil {
			return err
		}
		if !req.VaultID.IsZero() && req.VaultID != schedule.VaultID {
			return fmt.Errorf("%w: schedule %s is not bound to vault %s", ErrInvalidAccount, schedule.ID, req.VaultID)
		}

		vault, err := getVault(ctx, repos, schedule.VaultID)
		if errors.Is(err, ErrVaultNotFound) {
			return fmt.Errorf("%w: %w", ErrInvalidAccount, err)
		}
		if err != nil {
			return err
		}
		if err := requireAdmin(caller, vault); err != nil {
			return err
		}

		now := s.clock.Now()
		if err := repos.Schedules.UpdateScheduleStatus(ctx, schedule.ID, req.IsActive, now); err != nil {
			return err
		}
		schedule.IsActive = req.IsActive
		schedule.UpdatedAt = now
		out = schedule
		return nil
	})
	if err != nil {
		return models.Schedule{}, err
	}

	s.emit(ctx, events.ScheduleStatusSet, caller, out)
	return out, nil
}

func (s *scheduleService) GetSchedule(ctx context.Context, id models.Identity) (models.Schedule, error) {
	return getSchedule(ctx, s.storage.Repositories(), id)
}

func (s *scheduleService) ListSchedules(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error) {
	return s.storage.Repositories().Schedules.ListSchedules(ctx, filter)
}

func (s *scheduleService) IsRedeemed(ctx context.Context, scheduleID models.Identity, index uint16) (models.RedemptionStatus, error) {
	schedule, err := s.GetSchedule(ctx, scheduleID)
	if err != nil {
		return models.RedemptionStatus{}, err
	}

	redeemed, err := schedule.Redemptions.IsSet(index)
	if err != nil {
		return models.RedemptionStatus{}, fmt.Errorf("%w: %w", ErrInvalidAccount, err)
	}
	return models.RedemptionStatus{ScheduleID: scheduleID, Index: index, Redeemed: redeemed}, nil
}

func (s *scheduleService) emit(ctx context.Context, t events.Type, signer models.Identity, schedule models.Schedule) {
	publish(ctx, s.publisher, s.logger, events.Event{
		Type:       t,
		OccurredAt: s.clock.Now(),
		Signer:     signer,
		VaultID:    schedule.VaultID,
		ScheduleID: schedule.ID,
		Data:       schedule,
	})
}
