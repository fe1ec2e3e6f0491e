package service

import (
	"context"

	"github.com/MKhiriev/go-claim-vault/internal/ledger"
	"github.com/MKhiriev/go-claim-vault/internal/store"
	"github.com/MKhiriev/go-claim-vault/models"
)

// VaultService owns vault records and the two-step ownership protocol.
type VaultService interface {
	CreateVault(ctx context.Context, caller models.Identity, path string) (models.Vault, error)
	SetAdmins(ctx context.Context, caller, vaultID models.Identity, admins []models.Identity) (models.Vault, error)
	TransferOwnership(ctx context.Context, caller, vaultID, newOwner models.Identity) (models.Vault, error)
	AcceptOwnership(ctx context.Context, caller, vaultID models.Identity) (models.Vault, error)

	// Withdraw moves custody out of the vault under its derived authority
	// and returns the destination account.
	Withdraw(ctx context.Context, caller models.Identity, req models.WithdrawRequest) (models.Account, error)

	GetVault(ctx context.Context, id models.Identity) (models.Vault, error)
	ListVaults(ctx context.Context, owner models.Identity) ([]models.Vault, error)
}

// ScheduleService owns schedules and their redemption bitmaps.
type ScheduleService interface {
	CreateSchedule(ctx context.Context, caller models.Identity, req models.CreateScheduleRequest) (models.Schedule, error)
	SetScheduleStatus(ctx context.Context, caller models.Identity, req models.SetScheduleStatusRequest) (models.Schedule, error)

	GetSchedule(ctx context.Context, id models.Identity) (models.Schedule, error)
	ListSchedules(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error)
	IsRedeemed(ctx context.Context, scheduleID models.Identity, index uint16) (models.RedemptionStatus, error)
}

// RedemptionService redeems a single claim.
type RedemptionService interface {
	Redeem(ctx context.Context, signer models.Identity, req models.RedeemRequest) (models.Redemption, error)
}

// LedgerService exposes the host ledger to signed callers.
type LedgerService interface {
	CreateMint(ctx context.Context, caller models.Identity, req models.CreateMintRequest) (models.Mint, error)
	OpenAccount(ctx context.Context, caller models.Identity, req models.OpenAccountRequest) (models.Account, error)
	MintTo(ctx context.Context, caller models.Identity, req models.MintToRequest) (models.Account, error)
	Transfer(ctx context.Context, caller models.Identity, req models.TransferRequest) (models.Account, error)
	GetAccount(ctx context.Context, address models.Identity) (models.Account, error)
}

// Processor routes a tagged request to the service handling its kind.
type Processor interface {
	Process(ctx context.Context, signer models.Identity, req models.Request) (models.Receipt, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) models.VersionInfo
}

// LedgerOps is the ledger bound to one unit of work.
type LedgerOps interface {
	ledger.Transferer
	GetAccount(ctx context.Context, address models.Identity) (models.Account, error)
	OpenAccount(ctx context.Context, owner, mint models.Identity) (models.Account, error)
	AssociatedAddress(owner, mint models.Identity) (models.Identity, error)
	CreateMint(ctx context.Context, mintAuthority models.Identity, seed string) (models.Mint, error)
	MintTo(ctx context.Context, signer, mint, account models.Identity, amount uint64) (models.Account, error)
}

// LedgerFactory binds a ledger to the repositories of a unit of work so
// transfers commit or roll back with it.
type LedgerFactory func(repos store.Repositories) LedgerOps
