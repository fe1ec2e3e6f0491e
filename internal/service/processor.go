// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/internal/metrics"
	"github.com/MKhiriev/go-claim-vault/internal/validators"
	"github.com/MKhiriev/go-claim-vault/models"
)

type processor struct {
	services  *Services
	validator validators.Validator

	logger *logger.Logger
}

func NewProcessor(services *Services, validator validators.Validator, logger *logger.Logger) Processor {
	return &processor{services: services, validator: validator, logger: logger}
}

// Process validates req and dispatches it to exactly one handler by Kind.
func (p *processor) Process(ctx context.Context, signer models.Identity, req models.Request) (receipt models.Receipt, err error) {
	started := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = string(KindOf(err))
		}
		metrics.ObserveRequest(string(req.Kind), outcome, started)

		log := logger.FromContext(ctx)
		switch KindOf(err) {
		case "":
			log.Info().Str("kind", string(req.Kind)).Str("signer", signer.String()).Msg("request processed")
		case KindInternal:
			log.Err(err).Str("func", "processor.Process").Str("kind", string(req.Kind)).Msg("request failed")
		default:
			log.Debug().Err(err).Str("kind", string(req.Kind)).Msg("request rejected")
		}
	}()

	if err := p.validator.Validate(ctx, req); err != nil {
		if _, known := kindHandlers[req.Kind]; !known {
			return models.Receipt{}, fmt.Errorf("%w: %q", ErrUnknownRequest, req.Kind)
		}
		return models.Receipt{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	handle, ok := kindHandlers[req.Kind]
	if !ok {
		return models.Receipt{}, fmt.Errorf("%w: %q", ErrUnknownRequest, req.Kind)
	}

	receipt, err = handle(ctx, p.services, signer, req)
	if err != nil {
		return models.Receipt{}, err
	}
	receipt.Kind = req.Kind
	return receipt, nil
}

type kindHandler func(ctx context.Context, s *Services, signer models.Identity, req models.Request) (models.Receipt, error)

var kindHandlers = map[models.RequestKind]kindHandler{
	models.RequestCreateVault: func(ctx context.Context, s *Services, signer models.Identity, req models.Request) (models.Receipt, error) {
		v, err := s.VaultService.CreateVault(ctx, signer, req.CreateVault.Path)
		return models.Receipt{Vault: &v}, err
	},
	models.RequestSetVault: func(ctx context.Context, s *Services, signer models.Identity, req models.Request) (models.Receipt, error) {
		v, err := s.VaultService.SetAdmins(ctx, signer, req.SetVault.VaultID, req.SetVault.Admins)
		return models.Receipt{Vault: &v}, err
	},
	models.RequestTransferOwnership: func(ctx context.Context, s *Services, signer models.Identity, req models.Request) (models.Receipt, error) {
		v, err := s.VaultService.TransferOwnership(ctx, signer, req.TransferOwnership.VaultID, req.TransferOwnership.NewOwner)
		return models.Receipt{Vault: &v}, err
	},
	models.RequestAcceptOwnership: func(ctx context.Context, s *Services, signer models.Identity, req models.Request) (models.Receipt, error) {
		v, err := s.VaultService.AcceptOwnership(ctx, signer, req.AcceptOwnership.VaultID)
		return models.Receipt{Vault: &v}, err
	},
	models.RequestWithdraw: func(ctx context.Context, s *Services, signer models.Identity, req models.Request) (models.Receipt, error) {
		a, err := s.VaultService.Withdraw(ctx, signer, *req.Withdraw)
		return models.Receipt{Account: &a}, err
	},
	models.RequestCreateSchedule: func(ctx context.Context, s *Services, signer models.Identity, req models.Request) (models.Receipt, error) {
		sc, err := s.ScheduleService.CreateSchedule(ctx, signer, *req.CreateSchedule)
		return models.Receipt{Schedule: &sc}, err
	},
	models.RequestSetScheduleStatus: func(ctx context.Context, s *Services, signer models.Identity, req models.Request) (models.Receipt, error) {
		sc, err := s.ScheduleService.SetScheduleStatus(ctx, signer, *req.SetScheduleStatus)
		return models.Receipt{Schedule: &sc}, err
	},
	models.RequestRedeem: func(ctx context.Context, s *Services, signer models.Identity, req models.Request) (models.Receipt, error) {
		r, err := s.RedemptionService.Redeem(ctx, signer, *req.Redeem)
		return models.Receipt{Redemption: &r}, err
	},
	models.RequestCreateMint: func(ctx context.Context, s *Services, signer models.Identity, req models.Request) (models.Receipt, error) {
		m, err := s.LedgerService.CreateMint(ctx, signer, *req.CreateMint)
		return models.Receipt{Mint: &m}, err
	},
	models.RequestOpenAccount: func(ctx context.Context, s *Services, signer models.Identity, req models.Request) (models.Receipt, error) {
		a, err := s.LedgerService.OpenAccount(ctx, signer, *req.OpenAccount)
		return models.Receipt{Account: &a}, err
	},
	models.RequestMintTo: func(ctx context.Context, s *Services, signer models.Identity, req models.Request) (models.Receipt, error) {
		a, err := s.LedgerService.MintTo(ctx, signer, *req.MintTo)
		return models.Receipt{Account: &a}, err
	},
	models.RequestTransfer: func(ctx context.Context, s *Services, signer models.Identity, req models.Request) (models.Receipt, error) {
		a, err := s.LedgerService.Transfer(ctx, signer, *req.Transfer)
		return models.Receipt{Account: &a}, err
	},
}
