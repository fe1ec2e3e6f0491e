// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

const (
	// MaxAdmins bounds the admin set of a single vault.
	MaxAdmins = 16
	// MaxPathLength bounds the caller-chosen vault path, in bytes.
	MaxPathLength = 32
)

// Vault is a custodial record. Assets held by the vault are owned by its
// derived Signer address, which has no private key; only the service can move
// them, and only on behalf of the owner or an admin.
type Vault struct {
	// ID is derived from Path and is unique per path.
	ID   Identity `json:"id"`
	Path string   `json:"path"`

	// Owner is never the zero identity once the vault exists.
	Owner Identity `json:"owner"`
	// PendingOwner is ZeroIdentity unless a transfer is in flight.
	PendingOwner Identity   `json:"pending_owner"`
	Admins       []Identity `json:"admins"`

	// SignerNonce is the derivation tag that, together with ID, reproduces Signer.
	SignerNonce uint8    `json:"signer_nonce"`
	Signer      Identity `json:"signer"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPendingOwner reports whether an ownership transfer awaits acceptance.
func (v Vault) HasPendingOwner() bool {
	return !v.PendingOwner.IsZero()
}
