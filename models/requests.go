// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// RequestKind is the closed set of operations a signer can submit.
type RequestKind string

const (
	RequestCreateVault       RequestKind = "create_vault"
	RequestSetVault          RequestKind = "set_vault"
	RequestTransferOwnership RequestKind = "transfer_ownership"
	RequestAcceptOwnership   RequestKind = "accept_ownership"
	RequestWithdraw          RequestKind = "withdraw"
	RequestCreateSchedule    RequestKind = "create_schedule"
	RequestSetScheduleStatus RequestKind = "set_schedule_status"
	RequestRedeem            RequestKind = "redeem"

	RequestCreateMint  RequestKind = "create_mint"
	RequestOpenAccount RequestKind = "open_account"
	RequestMintTo      RequestKind = "mint_to"
	RequestTransfer    RequestKind = "transfer"
)

// Request is a tagged union: Kind selects which payload field is read.
type Request struct {
	Kind RequestKind `json:"kind"`

	CreateVault       *CreateVaultRequest       `json:"create_vault,omitempty"`
	SetVault          *SetVaultRequest          `json:"set_vault,omitempty"`
	TransferOwnership *TransferOwnershipRequest `json:"transfer_ownership,omitempty"`
	AcceptOwnership   *AcceptOwnershipRequest   `json:"accept_ownership,omitempty"`
	Withdraw          *WithdrawRequest          `json:"withdraw,omitempty"`
	CreateSchedule    *CreateScheduleRequest    `json:"create_schedule,omitempty"`
	SetScheduleStatus *SetScheduleStatusRequest `json:"set_schedule_status,omitempty"`
	Redeem            *RedeemRequest            `json:"redeem,omitempty"`

	CreateMint  *CreateMintRequest  `json:"create_mint,omitempty"`
	OpenAccount *OpenAccountRequest `json:"open_account,omitempty"`
	MintTo      *MintToRequest      `json:"mint_to,omitempty"`
	Transfer    *TransferRequest    `json:"transfer,omitempty"`
}

type CreateVaultRequest struct {
	Path string `json:"path"`
}

// SetVaultRequest replaces the whole admin set.
type SetVaultRequest struct {
	VaultID Identity   `json:"vault_id"`
	Admins  []Identity `json:"admins"`
}

type TransferOwnershipRequest struct {
	VaultID  Identity `json:"vault_id"`
	NewOwner Identity `json:"new_owner"`
}

type AcceptOwnershipRequest struct {
	VaultID Identity `json:"vault_id"`
}

// WithdrawRequest moves custody out of a vault. A zero Mint withdraws native
// currency. A zero Source means the vault signer's associated account for Mint.
type WithdrawRequest struct {
	VaultID     Identity `json:"vault_id"`
	Mint        Identity `json:"mint"`
	Source      Identity `json:"source"`
	Destination Identity `json:"destination"`
	Amount      uint64   `json:"amount"`
}

type CreateScheduleRequest struct {
	VaultID        Identity     `json:"vault_id"`
	EventID        uint64       `json:"event_id"`
	Kind           ScheduleKind `json:"kind"`
	ClaimCount     uint16       `json:"claim_count"`
	ActivationTime time.Time    `json:"activation_time"`
	MerkleRoot     Hash         `json:"merkle_root"`
	ReceivingAsset Asset        `json:"receiving_asset"`
	SendingAsset   Asset        `json:"sending_asset"`
}

// SetScheduleStatusRequest toggles the kill-switch. A non-zero VaultID must
// be the vault the schedule is bound to.
type SetScheduleStatusRequest struct {
	ScheduleID Identity `json:"schedule_id"`
	VaultID    Identity `json:"vault_id,omitempty"`
	IsActive   bool     `json:"is_active"`
}

// RedeemRequest carries a claim and its proof. The account fields are
// optional; when set they must agree with the schedule's bindings.
type RedeemRequest struct {
	ScheduleID Identity `json:"schedule_id"`
	Claim      Claim    `json:"claim"`
	Proof      []Hash   `json:"proof"`

	// VaultReceivingAccount is the vault-held payout source.
	VaultReceivingAccount Identity `json:"vault_receiving_account"`
	// VaultFeeAccount is the vault-held fee destination.
	VaultFeeAccount Identity `json:"vault_fee_account"`
	// ClaimantReceivingAccount defaults to the claimant's associated account.
	ClaimantReceivingAccount Identity `json:"claimant_receiving_account"`
	// ClaimantSendingAccount defaults to the claimant's associated account
	// for the fee mint.
	ClaimantSendingAccount Identity `json:"claimant_sending_account"`
}

// CreateMintRequest registers a new mint with the signer as authority. Seed
// makes the mint address unique per authority.
type CreateMintRequest struct {
	Seed string `json:"seed"`
}

// OpenAccountRequest opens the associated account of Owner for Mint. A zero
// Owner means the signer.
type OpenAccountRequest struct {
	Owner Identity `json:"owner"`
	Mint  Identity `json:"mint"`
}

type MintToRequest struct {
	Mint    Identity `json:"mint"`
	Account Identity `json:"account"`
	Amount  uint64   `json:"amount"`
}

type TransferRequest struct {
	From   Identity `json:"from"`
	To     Identity `json:"to"`
	Amount uint64   `json:"amount"`
}

// Receipt is the outcome of a processed request. Only the fields relevant
// to Kind are set.
type Receipt struct {
	Kind       RequestKind `json:"kind"`
	Vault      *Vault      `json:"vault,omitempty"`
	Schedule   *Schedule   `json:"schedule,omitempty"`
	Redemption *Redemption `json:"redemption,omitempty"`
	Mint       *Mint       `json:"mint,omitempty"`
	Account    *Account    `json:"account,omitempty"`
}
