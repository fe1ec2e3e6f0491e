// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-claim-vault/internal/authority"
	"github.com/MKhiriev/go-claim-vault/internal/clock"
	"github.com/MKhiriev/go-claim-vault/internal/events"
	"github.com/MKhiriev/go-claim-vault/internal/ledger"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/internal/metrics"
	"github.com/MKhiriev/go-claim-vault/internal/store"
	"github.com/MKhiriev/go-claim-vault/models"
)

type redemptionService struct {
	storage   store.Storage
	ledgers   LedgerFactory
	publisher events.Publisher
	clock     clock.Clock

	maxProofLength int

	logger *logger.Logger
}

func NewRedemptionService(deps Dependencies) RedemptionService {
	return &redemptionService{
		storage:        deps.Storage,
		ledgers:        deps.Ledgers,
		publisher:      deps.Publisher,
		clock:          deps.Clock,
		maxProofLength: deps.MaxProofLength,
		logger:         deps.Logger,
	}
}

// legs are the accounts both transfers of one redemption touch.
type legs struct {
	mint              models.Identity
	vaultReceiving    models.Identity
	claimantReceiving models.Identity

	fee             bool
	vaultFee        models.Identity
	claimantSending models.Identity
}

// Redeem pays out one claim.
//
// Everything runs in one unit of work: the claim index is marked redeemed
// before any value moves, and a failing transfer rolls the mark back with
// the rest. The fee leg, signed by the claimant, runs before the payout leg
// so a claimant who cannot pay the fee is never paid.
func (s *redemptionService) Redeem(ctx context.Context, signer models.Identity, req models.RedeemRequest) (models.Redemption, error) {
	claim := req.Claim
	var (
		schedule   models.Schedule
		redemption models.Redemption
	)

	err := s.storage.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		var err error
		schedule, err = getSchedule(ctx, repos, req.ScheduleID)
		if err != nil {
			return err
		}
		vault, err := getVault(ctx, repos, schedule.VaultID)
		if errors.Is(err, ErrVaultNotFound) {
			return fmt.Errorf("%w: schedule %s has no vault", ErrInvalidAccount, schedule.ID)
		}
		if err != nil {
			return err
		}
		if vault.ID != schedule.VaultID {
			return fmt.Errorf("%w: schedule %s is bound to vault %s", ErrInvalidAccount, schedule.ID, schedule.VaultID)
		}

		if signer.IsZero() || signer != claim.Claimant {
			return ErrInvalidSigner
		}

		now := s.clock.Now()
		if err := ScheduleOpen(schedule, now); err != nil {
			return err
		}
		if err := ProofValid(claim, req.Proof, schedule, s.maxProofLength); err != nil {
			return err
		}
		if err := NotYetRedeemed(schedule, claim.Index); err != nil {
			return err
		}

		book := s.ledgers(repos)
		l, err := s.resolveLegs(ctx, book, schedule, vault, req)
		if err != nil {
			return err
		}

		if err := schedule.Redemptions.Set(claim.Index); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidAccount, err)
		}
		if err := repos.Schedules.UpdateRedemptions(ctx, schedule.ID, schedule.Redemptions, now); err != nil {
			return err
		}

		if l.fee {
			if err := book.Transfer(ctx, ledger.Transfer{
				From:      l.claimantSending,
				To:        l.vaultFee,
				Amount:    claim.SendingAmount,
				Authority: authority.Signer(signer),
			}); err != nil {
				return fmt.Errorf("%w: fee leg: %w", ErrTransactionFailed, err)
			}
		}

		if err := book.Transfer(ctx, ledger.Transfer{
			From:      l.vaultReceiving,
			To:        l.claimantReceiving,
			Amount:    claim.ReceivingAmount,
			Authority: authority.Delegated(vault),
		}); err != nil {
			return fmt.Errorf("%w: payout leg: %w", ErrTransactionFailed, err)
		}

		redemption = models.Redemption{
			ScheduleID:      schedule.ID,
			Index:           claim.Index,
			Claimant:        claim.Claimant,
			ReceivingMint:   l.mint,
			ReceivingAmount: claim.ReceivingAmount,
			SendingAmount:   claim.SendingAmount,
			RedeemedAt:      now,
		}
		return nil
	})
	if err != nil {
		s.logger.Debug().Err(err).Str("schedule", req.ScheduleID.String()).
			Uint16("index", claim.Index).Msg("redemption rejected")
		return models.Redemption{}, err
	}

	metrics.ObserveRedemption(schedule.Kind.String())
	publish(ctx, s.publisher, s.logger, events.Event{
		Type:       events.ClaimRedeemed,
		OccurredAt: redemption.RedeemedAt,
		Signer:     signer,
		VaultID:    schedule.VaultID,
		ScheduleID: schedule.ID,
		Data:       redemption,
	})
	return redemption, nil
}

// resolveLegs fills in defaulted accounts and checks every account against
// the schedule's bindings.
func (s *redemptionService) resolveLegs(ctx context.Context, book LedgerOps, schedule models.Schedule, vault models.Vault, req models.RedeemRequest) (legs, error) {
	claim := req.Claim
	var l legs

	switch schedule.Kind {
	case models.ScheduleKindMulti:
		l.mint = claim.ReceivingMint
		l.vaultReceiving = req.VaultReceivingAccount
		if l.vaultReceiving.IsZero() {
			addr, err := book.AssociatedAddress(vault.Signer, l.mint)
			if err != nil {
				return legs{}, err
			}
			l.vaultReceiving = addr
		}
		if err := requireAccountMint(ctx, book, l.vaultReceiving, l.mint); err != nil {
			return legs{}, err
		}
	default:
		l.mint = schedule.ReceivingAsset.Mint
		l.vaultReceiving = schedule.ReceivingAsset.Account
		if !req.VaultReceivingAccount.IsZero() && req.VaultReceivingAccount != l.vaultReceiving {
			return legs{}, fmt.Errorf("%w: vault receiving account %s", ErrInvalidAccount, req.VaultReceivingAccount)
		}
	}

	l.claimantReceiving = req.ClaimantReceivingAccount
	if l.claimantReceiving.IsZero() {
		acc, err := book.OpenAccount(ctx, claim.Claimant, l.mint)
		if err != nil {
			return legs{}, fmt.Errorf("%w: %w", ErrInvalidAccount, err)
		}
		l.claimantReceiving = acc.Address
	} else if err := requireAccountMint(ctx, book, l.claimantReceiving, l.mint); err != nil {
		return legs{}, err
	}

	if schedule.SendingAsset.IsNone() || claim.SendingAmount == 0 {
		return l, nil
	}

	l.fee = true
	l.vaultFee = schedule.SendingAsset.Account
	if !req.VaultFeeAccount.IsZero() && req.VaultFeeAccount != l.vaultFee {
		return legs{}, fmt.Errorf("%w: vault fee account %s", ErrInvalidAccount, req.VaultFeeAccount)
	}
	l.claimantSending = req.ClaimantSendingAccount
	if l.claimantSending.IsZero() {
		addr, err := book.AssociatedAddress(claim.Claimant, schedule.SendingAsset.Mint)
		if err != nil {
			return legs{}, err
		}
		l.claimantSending = addr
	}
	return l, nil
}

func requireAccountMint(ctx context.Context, book LedgerOps, address, mint models.Identity) error {
	acc, err := book.GetAccount(ctx, address)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return fmt.Errorf("%w: account %s does not exist", ErrInvalidAccount, address)
	}
	if err != nil {
		return err
	}
	if acc.Mint != mint {
		return fmt.Errorf("%w: account %s holds %s, claim asserts %s", ErrInvalidAccount, address, acc.Mint, mint)
	}
	return nil
}
