// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package events publishes domain events after a request has committed.
// Publishing is best-effort: a failure is logged and never turns a
// committed request into an error.
package events

import (
	"context"
	"time"

	"github.com/MKhiriev/go-claim-vault/models"
)

type Type string

const (
	VaultCreated              Type = "vault.created"
	VaultAdminsSet            Type = "vault.admins_set"
	VaultOwnershipTransferred Type = "vault.ownership_transferred"
	VaultOwnershipAccepted    Type = "vault.ownership_accepted"
	VaultWithdrawn            Type = "vault.withdrawn"
	ScheduleCreated           Type = "schedule.created"
	ScheduleStatusSet         Type = "schedule.status_set"
	ClaimRedeemed             Type = "claim.redeemed"
)

// Event describes one committed state change. Data is the record after the
// change (vault, schedule or redemption).
type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Signer     models.Identity `json:"signer"`
	VaultID    models.Identity `json:"vault_id"`
	ScheduleID models.Identity `json:"schedule_id,omitempty"`
	Data       any             `json:"data,omitempty"`
}

//go:generate mockgen -source=events.go -destination=../mock/events_mock.go -package=mock
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
