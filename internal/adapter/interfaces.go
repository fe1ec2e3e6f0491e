// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the HTTP client of the claim vault server used by
// vaultctl. Mutating calls are signed with the caller's ed25519 key; reads
// are anonymous.
//
// Non-2xx responses are mapped by mapHTTPError to the sentinels in errors.go
// and carry the server's error kind in a *ServerError.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-claim-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/vault_client_mock.go -package=mock

// VaultClient talks to one claim vault server.
type VaultClient interface {
	// Submit signs req and posts it to the generic request endpoint.
	Submit(ctx context.Context, req models.Request) (models.Receipt, error)

	GetVault(ctx context.Context, id models.Identity) (models.Vault, error)
	GetSchedule(ctx context.Context, id models.Identity) (models.ScheduleView, error)
	IsRedeemed(ctx context.Context, scheduleID models.Identity, index uint16) (models.RedemptionStatus, error)
	GetAccount(ctx context.Context, address models.Identity) (models.Account, error)
	Version(ctx context.Context) (models.VersionInfo, error)
}
