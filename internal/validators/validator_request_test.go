// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"
	"testing"

	"github.com/MKhiriev/go-claim-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(b byte) models.Identity {
	var out models.Identity
	out[0] = b
	out[31] = b
	return out
}

func root() models.Hash {
	var h models.Hash
	h[0] = 0xaa
	return h
}

func TestNewRequestValidator(t *testing.T) {
	require.NotNil(t, NewRequestValidator())
}

func TestValidate_UnsupportedType(t *testing.T) {
	err := NewRequestValidator().Validate(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestValidate_Request(t *testing.T) {
	v := NewRequestValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		req     models.Request
		wantErr error
	}{
		{
			name: "valid create vault",
			req: models.Request{
				Kind:        models.RequestCreateVault,
				CreateVault: &models.CreateVaultRequest{Path: "treasury"},
			},
		},
		{
			name:    "unknown kind",
			req:     models.Request{Kind: "mint_nft"},
			wantErr: ErrUnknownKind,
		},
		{
			name: "payload of another kind",
			req: models.Request{
				Kind:        models.RequestSetVault,
				CreateVault: &models.CreateVaultRequest{Path: "treasury"},
			},
			wantErr: ErrMissingPayload,
		},
		{
			name: "payload is validated",
			req: models.Request{
				Kind:        models.RequestCreateVault,
				CreateVault: &models.CreateVaultRequest{},
			},
			wantErr: ErrEmptyPath,
		},
		{
			name: "open account needs no fields",
			req: models.Request{
				Kind:        models.RequestOpenAccount,
				OpenAccount: &models.OpenAccountRequest{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, &tt.req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_Payloads(t *testing.T) {
	v := NewRequestValidator()
	ctx := context.Background()

	tooMany := make([]models.Identity, models.MaxAdmins+1)
	for i := range tooMany {
		tooMany[i] = id(byte(i + 1))
	}

	validSchedule := models.CreateScheduleRequest{
		VaultID:        id(1),
		Kind:           models.ScheduleKindSingle,
		ClaimCount:     2,
		MerkleRoot:     root(),
		ReceivingAsset: models.Asset{Account: id(2)},
	}
	withKind := func(k models.ScheduleKind) models.CreateScheduleRequest {
		r := validSchedule
		r.Kind = k
		return r
	}

	tests := []struct {
		name    string
		obj     any
		wantErr error
	}{
		{"path too long", models.CreateVaultRequest{Path: strings.Repeat("p", models.MaxPathLength+1)}, ErrPathTooLong},
		{"path at limit", models.CreateVaultRequest{Path: strings.Repeat("p", models.MaxPathLength)}, nil},

		{"admins ok", models.SetVaultRequest{VaultID: id(1), Admins: []models.Identity{id(2), id(3)}}, nil},
		{"admins empty set", models.SetVaultRequest{VaultID: id(1)}, nil},
		{"admins missing vault", models.SetVaultRequest{Admins: []models.Identity{id(2)}}, ErrMissingVault},
		{"admins too many", models.SetVaultRequest{VaultID: id(1), Admins: tooMany}, ErrTooManyAdmins},
		{"admins duplicate", models.SetVaultRequest{VaultID: id(1), Admins: []models.Identity{id(2), id(2)}}, ErrDuplicateAdmin},
		{"admins zero", models.SetVaultRequest{VaultID: id(1), Admins: []models.Identity{models.ZeroIdentity}}, ErrInvalidAdmin},

		{"transfer ownership no owner", models.TransferOwnershipRequest{VaultID: id(1)}, ErrMissingOwner},
		{"accept ownership no vault", models.AcceptOwnershipRequest{}, ErrMissingVault},

		{"withdraw ok", models.WithdrawRequest{VaultID: id(1), Destination: id(2), Amount: 1}, nil},
		{"withdraw zero", models.WithdrawRequest{VaultID: id(1), Destination: id(2)}, ErrZeroAmount},
		{"withdraw no destination", models.WithdrawRequest{VaultID: id(1), Amount: 1}, ErrMissingTarget},

		{"schedule ok", validSchedule, nil},
		{"schedule multi without account", models.CreateScheduleRequest{VaultID: id(1), Kind: models.ScheduleKindMulti, ClaimCount: 1, MerkleRoot: root()}, nil},
		{"schedule bad kind", withKind(7), ErrInvalidKind},
		{"schedule zero claims", models.CreateScheduleRequest{VaultID: id(1), Kind: models.ScheduleKindSingle, MerkleRoot: root(), ReceivingAsset: models.Asset{Account: id(2)}}, ErrZeroClaimCount},
		{"schedule no root", models.CreateScheduleRequest{VaultID: id(1), Kind: models.ScheduleKindSingle, ClaimCount: 1, ReceivingAsset: models.Asset{Account: id(2)}}, ErrEmptyMerkleRoot},
		{"schedule single without account", models.CreateScheduleRequest{VaultID: id(1), Kind: models.ScheduleKindSingle, ClaimCount: 1, MerkleRoot: root()}, ErrMissingAccount},
		{"schedule fee mint without account", models.CreateScheduleRequest{VaultID: id(1), Kind: models.ScheduleKindSingle, ClaimCount: 1, MerkleRoot: root(), ReceivingAsset: models.Asset{Account: id(2)}, SendingAsset: models.Asset{Mint: id(3)}}, ErrMissingAccount},
		{"schedule fee account without mint", models.CreateScheduleRequest{VaultID: id(1), Kind: models.ScheduleKindSingle, ClaimCount: 1, MerkleRoot: root(), ReceivingAsset: models.Asset{Account: id(2)}, SendingAsset: models.Asset{Account: id(3)}}, ErrOrphanAccount},

		{"status no schedule", models.SetScheduleStatusRequest{IsActive: true}, ErrMissingSchedule},

		{"redeem ok", models.RedeemRequest{ScheduleID: id(1), Claim: models.Claim{Claimant: id(2)}}, nil},
		{"redeem no claimant", models.RedeemRequest{ScheduleID: id(1)}, ErrMissingClaimant},

		{"mint seed empty", models.CreateMintRequest{}, ErrEmptySeed},
		{"mint seed long", models.CreateMintRequest{Seed: strings.Repeat("s", 33)}, ErrSeedTooLong},
		{"mint to zero", models.MintToRequest{Account: id(1)}, ErrZeroAmount},
		{"transfer no from", models.TransferRequest{To: id(1), Amount: 1}, ErrMissingAccount},
		{"transfer ok", models.TransferRequest{From: id(1), To: id(2), Amount: 1}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.obj)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_FieldScoping(t *testing.T) {
	v := NewRequestValidator()
	ctx := context.Background()

	req := models.WithdrawRequest{VaultID: id(1)}
	assert.NoError(t, v.Validate(ctx, req, FieldVaultID))
	assert.ErrorIs(t, v.Validate(ctx, req, FieldAmount), ErrZeroAmount)
	assert.ErrorIs(t, v.Validate(ctx, req, "nope"), ErrUnknownField)
}
