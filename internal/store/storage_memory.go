// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/MKhiriev/go-claim-vault/models"
)

// memoryStorage keeps everything in process. Units of work run one at a
// time and stage their writes; staged writes reach the shared maps only when
// the unit of work succeeds.
type memoryStorage struct {
	mu sync.Mutex

	vaults    *xsync.Map[models.Identity, models.Vault]
	schedules *xsync.Map[models.Identity, models.Schedule]
	accounts  *xsync.Map[models.Identity, models.Account]
	mints     *xsync.Map[models.Identity, models.Mint]
}

func NewMemoryStorage() Storage {
	return &memoryStorage{
		vaults:    xsync.NewMap[models.Identity, models.Vault](),
		schedules: xsync.NewMap[models.Identity, models.Schedule](),
		accounts:  xsync.NewMap[models.Identity, models.Account](),
		mints:     xsync.NewMap[models.Identity, models.Mint](),
	}
}

func (m *memoryStorage) Repositories() Repositories {
	return m.repositories(&memoryUnit{storage: m})
}

func (m *memoryStorage) repositories(u *memoryUnit) Repositories {
	return Repositories{Vaults: u, Schedules: u, Accounts: u, Mints: u}
}

func (m *memoryStorage) WithinTx(ctx context.Context, fn TxFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := &memoryUnit{
		storage:   m,
		staged:    true,
		vaults:    map[models.Identity]models.Vault{},
		schedules: map[models.Identity]models.Schedule{},
		accounts:  map[models.Identity]models.Account{},
		mints:     map[models.Identity]models.Mint{},
	}
	if err := fn(ctx, m.repositories(u)); err != nil {
		return err
	}

	for id, v := range u.vaults {
		m.vaults.Store(id, v)
	}
	for id, s := range u.schedules {
		m.schedules.Store(id, s)
	}
	for id, a := range u.accounts {
		m.accounts.Store(id, a)
	}
	for id, mint := range u.mints {
		m.mints.Store(id, mint)
	}
	return nil
}

func (m *memoryStorage) Ping(context.Context) error { return nil }
func (m *memoryStorage) Close() error               { return nil }

// memoryUnit implements every repository over the shared maps, optionally
// staging writes.
type memoryUnit struct {
	storage *memoryStorage
	staged  bool

	vaults    map[models.Identity]models.Vault
	schedules map[models.Identity]models.Schedule
	accounts  map[models.Identity]models.Account
	mints     map[models.Identity]models.Mint
}

func lookup[V any](base *xsync.Map[models.Identity, V], staged map[models.Identity]V, id models.Identity) (V, bool) {
	if v, ok := staged[id]; ok {
		return v, true
	}
	return base.Load(id)
}

func put[V any](u *memoryUnit, base *xsync.Map[models.Identity, V], staged map[models.Identity]V, id models.Identity, v V) {
	if u.staged {
		staged[id] = v
		return
	}
	base.Store(id, v)
}

func merged[V any](base *xsync.Map[models.Identity, V], staged map[models.Identity]V) []V {
	out := make([]V, 0, base.Size()+len(staged))
	base.Range(func(id models.Identity, v V) bool {
		if _, ok := staged[id]; !ok {
			out = append(out, v)
		}
		return true
	})
	for _, v := range staged {
		out = append(out, v)
	}
	return out
}

func cloneVault(v models.Vault) models.Vault {
	v.Admins = slices.Clone(v.Admins)
	return v
}

func cloneSchedule(s models.Schedule) models.Schedule {
	s.Redemptions = s.Redemptions.Clone()
	return s
}

// ─── vaults ───────────────────────────────────────────────────────────────────

func (u *memoryUnit) CreateVault(_ context.Context, vault models.Vault) error {
	if _, ok := lookup(u.storage.vaults, u.vaults, vault.ID); ok {
		return ErrVaultAlreadyExists
	}
	put(u, u.storage.vaults, u.vaults, vault.ID, cloneVault(vault))
	return nil
}

func (u *memoryUnit) GetVault(_ context.Context, id models.Identity) (models.Vault, error) {
	v, ok := lookup(u.storage.vaults, u.vaults, id)
	if !ok {
		return models.Vault{}, ErrVaultNotFound
	}
	return cloneVault(v), nil
}

func (u *memoryUnit) UpdateVault(_ context.Context, vault models.Vault) error {
	current, ok := lookup(u.storage.vaults, u.vaults, vault.ID)
	if !ok {
		return ErrVaultNotFound
	}
	current.Owner = vault.Owner
	current.PendingOwner = vault.PendingOwner
	current.Admins = slices.Clone(vault.Admins)
	current.UpdatedAt = vault.UpdatedAt
	put(u, u.storage.vaults, u.vaults, vault.ID, current)
	return nil
}

func (u *memoryUnit) ListVaultsByOwner(_ context.Context, owner models.Identity) ([]models.Vault, error) {
	out := make([]models.Vault, 0)
	for _, v := range merged(u.storage.vaults, u.vaults) {
		if v.Owner == owner {
			out = append(out, cloneVault(v))
		}
	}
	slices.SortFunc(out, func(a, b models.Vault) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

// ─── schedules ────────────────────────────────────────────────────────────────

func (u *memoryUnit) CreateSchedule(_ context.Context, s models.Schedule) error {
	if _, ok := lookup(u.storage.schedules, u.schedules, s.ID); ok {
		return ErrScheduleAlreadyExists
	}
	put(u, u.storage.schedules, u.schedules, s.ID, cloneSchedule(s))
	return nil
}

func (u *memoryUnit) GetSchedule(_ context.Context, id models.Identity) (models.Schedule, error) {
	s, ok := lookup(u.storage.schedules, u.schedules, id)
	if !ok {
		return models.Schedule{}, ErrScheduleNotFound
	}
	return cloneSchedule(s), nil
}

func (u *memoryUnit) UpdateScheduleStatus(_ context.Context, id models.Identity, active bool, at time.Time) error {
	s, ok := lookup(u.storage.schedules, u.schedules, id)
	if !ok {
		return ErrScheduleNotFound
	}
	s = cloneSchedule(s)
	s.IsActive = active
	s.UpdatedAt = at
	put(u, u.storage.schedules, u.schedules, id, s)
	return nil
}

func (u *memoryUnit) UpdateRedemptions(_ context.Context, id models.Identity, redemptions models.RedemptionBitmap, at time.Time) error {
	s, ok := lookup(u.storage.schedules, u.schedules, id)
	if !ok || s.Redemptions.Len() != redemptions.Len() {
		return ErrScheduleNotFound
	}
	s.Redemptions = redemptions.Clone()
	s.UpdatedAt = at
	put(u, u.storage.schedules, u.schedules, id, s)
	return nil
}

func (u *memoryUnit) ListSchedules(_ context.Context, filter models.ScheduleFilter) ([]models.Schedule, error) {
	out := make([]models.Schedule, 0)
	for _, s := range merged(u.storage.schedules, u.schedules) {
		if !filter.VaultID.IsZero() && s.VaultID != filter.VaultID {
			continue
		}
		if filter.ActiveOnly && !s.IsActive {
			continue
		}
		out = append(out, cloneSchedule(s))
	}
	slices.SortFunc(out, func(a, b models.Schedule) int {
		switch {
		case a.EventID < b.EventID:
			return -1
		case a.EventID > b.EventID:
			return 1
		}
		return 0
	})
	return out, nil
}

// ─── ledger ───────────────────────────────────────────────────────────────────

func (u *memoryUnit) CreateAccount(_ context.Context, account models.Account) error {
	if _, ok := lookup(u.storage.accounts, u.accounts, account.Address); ok {
		return ErrAccountAlreadyExists
	}
	put(u, u.storage.accounts, u.accounts, account.Address, account)
	return nil
}

func (u *memoryUnit) GetAccount(_ context.Context, address models.Identity) (models.Account, error) {
	a, ok := lookup(u.storage.accounts, u.accounts, address)
	if !ok {
		return models.Account{}, ErrAccountNotFound
	}
	return a, nil
}

func (u *memoryUnit) UpdateAccountBalance(_ context.Context, address models.Identity, amount uint64, at time.Time) error {
	a, ok := lookup(u.storage.accounts, u.accounts, address)
	if !ok {
		return ErrAccountNotFound
	}
	a.Amount = amount
	a.UpdatedAt = at
	put(u, u.storage.accounts, u.accounts, address, a)
	return nil
}

func (u *memoryUnit) CreateMint(_ context.Context, mint models.Mint) error {
	if _, ok := lookup(u.storage.mints, u.mints, mint.ID); ok {
		return ErrMintAlreadyExists
	}
	put(u, u.storage.mints, u.mints, mint.ID, mint)
	return nil
}

func (u *memoryUnit) GetMint(_ context.Context, id models.Identity) (models.Mint, error) {
	m, ok := lookup(u.storage.mints, u.mints, id)
	if !ok {
		return models.Mint{}, ErrMintNotFound
	}
	return m, nil
}
