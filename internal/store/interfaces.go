package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-claim-vault/models"
)

// VaultRepository persists vault records.
//
// Inside Storage.WithinTx every read locks the row it returns until the
// unit of work ends.
type VaultRepository interface {
	CreateVault(ctx context.Context, vault models.Vault) error
	GetVault(ctx context.Context, id models.Identity) (models.Vault, error)
	UpdateVault(ctx context.Context, vault models.Vault) error
	ListVaultsByOwner(ctx context.Context, owner models.Identity) ([]models.Vault, error)
}

// ScheduleRepository persists schedules together with their redemption bitmap.
// Updates stamp updated_at with the caller's at.
type ScheduleRepository interface {
	CreateSchedule(ctx context.Context, schedule models.Schedule) error
	GetSchedule(ctx context.Context, id models.Identity) (models.Schedule, error)
	UpdateScheduleStatus(ctx context.Context, id models.Identity, active bool, at time.Time) error
	UpdateRedemptions(ctx context.Context, id models.Identity, redemptions models.RedemptionBitmap, at time.Time) error
	ListSchedules(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error)
}

// AccountRepository persists ledger accounts.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account models.Account) error
	GetAccount(ctx context.Context, address models.Identity) (models.Account, error)
	UpdateAccountBalance(ctx context.Context, address models.Identity, amount uint64, at time.Time) error
}

// MintRepository persists ledger mints.
type MintRepository interface {
	CreateMint(ctx context.Context, mint models.Mint) error
	GetMint(ctx context.Context, id models.Identity) (models.Mint, error)
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Vaults    VaultRepository
	Schedules ScheduleRepository
	Accounts  AccountRepository
	Mints     MintRepository
}

// TxFunc is the body of a unit of work.
type TxFunc func(ctx context.Context, repos Repositories) error

// Storage is the persistence root.
//
// WithinTx runs fn atomically: when fn returns an error nothing it wrote is
// kept. Units of work that touch the same vault, schedule or account are
// serialized; this is what keeps a claim index from being redeemed twice.
type Storage interface {
	Repositories() Repositories
	WithinTx(ctx context.Context, fn TxFunc) error
	Ping(ctx context.Context) error
	Close() error
}
