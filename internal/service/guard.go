// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/go-claim-vault/internal/merkle"
	"github.com/MKhiriev/go-claim-vault/models"
)

// The checks below are pure: they read already loaded records and never
// mutate them. Redeem runs them as schedule gating, then proof, then replay.

// IsOwner reports whether id owns v.
func IsOwner(id models.Identity, v models.Vault) bool {
	return !id.IsZero() && id == v.Owner
}

// IsAdmin reports whether id may manage v. The owner always may.
func IsAdmin(id models.Identity, v models.Vault) bool {
	if IsOwner(id, v) {
		return true
	}
	return !id.IsZero() && slices.Contains(v.Admins, id)
}

// IsPendingOwner reports whether id was nominated as the next owner of v.
func IsPendingOwner(id models.Identity, v models.Vault) bool {
	return v.HasPendingOwner() && id == v.PendingOwner
}

func requireOwner(id models.Identity, v models.Vault) error {
	if !IsOwner(id, v) {
		return fmt.Errorf("%w: %s is not the owner of vault %s", ErrInvalidOwner, id, v.ID)
	}
	return nil
}

func requireAdmin(id models.Identity, v models.Vault) error {
	if !IsAdmin(id, v) {
		return fmt.Errorf("%w: %s is not an admin of vault %s", ErrInvalidOwner, id, v.ID)
	}
	return nil
}

func requirePendingOwner(id models.Identity, v models.Vault) error {
	if !IsPendingOwner(id, v) {
		return fmt.Errorf("%w: %s is not the pending owner of vault %s", ErrInvalidOwner, id, v.ID)
	}
	return nil
}

// ScheduleOpen fails when s is switched off or now is before its activation time.
func ScheduleOpen(s models.Schedule, now time.Time) error {
	if !s.IsActive {
		return ErrScheduleUnavailable
	}
	if now.Before(s.ActivationTime) {
		return fmt.Errorf("%w: opens at %s", ErrScheduleLocked, s.ActivationTime.UTC().Format(time.RFC3339))
	}
	return nil
}

// NotYetRedeemed fails when claim index was already redeemed. An index
// outside the schedule is a binding error.
func NotYetRedeemed(s models.Schedule, index uint16) error {
	redeemed, err := s.Redemptions.IsSet(index)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAccount, err)
	}
	if redeemed {
		return fmt.Errorf("%w: index %d", ErrAlreadyRedeemed, index)
	}
	return nil
}

// ProofValid recomputes the claim leaf and checks it against the schedule root.
func ProofValid(claim models.Claim, proof []models.Hash, s models.Schedule, maxProofLength int) error {
	ok, err := merkle.VerifyBounded(merkle.LeafHash(claim, s.Kind), proof, s.MerkleRoot, maxProofLength)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}
