package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-claim-vault/internal/authority"
	"github.com/MKhiriev/go-claim-vault/internal/clock"
	"github.com/MKhiriev/go-claim-vault/internal/config"
	"github.com/MKhiriev/go-claim-vault/internal/events"
	"github.com/MKhiriev/go-claim-vault/internal/ledger"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/internal/merkle"
	"github.com/MKhiriev/go-claim-vault/internal/store"
	"github.com/MKhiriev/go-claim-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	nativeAuthority = id(99)
	programID       = id(200)
	testStart       = time.Unix(1_700_000_000, 0).UTC()
)

func id(b byte) models.Identity {
	var out models.Identity
	for i := range out {
		out[i] = b
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type harness struct {
	t         *testing.T
	ctx       context.Context
	storage   store.Storage
	clock     *clock.Fixed
	deriver   *authority.Deriver
	publisher *recordingPublisher
	deps      Dependencies
	svc       *Services
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	clk := clock.NewFixed(testStart)
	deriver := authority.NewDeriver(programID)
	pub := &recordingPublisher{}

	deps := Dependencies{
		Storage:        store.NewMemoryStorage(),
		Deriver:        deriver,
		Ledgers:        NewLedgerFactory(deriver, nativeAuthority, clk),
		Publisher:      pub,
		Clock:          clk,
		Logger:         logger.Nop(),
		MaxProofLength: merkle.MaxProofLength,
	}
	appInfo, err := NewAppInfoService(config.App{Version: "test"}, models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)

	return &harness{
		t:         t,
		ctx:       context.Background(),
		storage:   deps.Storage,
		clock:     clk,
		deriver:   deriver,
		publisher: pub,
		deps:      deps,
		svc:       newServices(deps, appInfo),
	}
}

func (h *harness) vault(owner models.Identity, path string) models.Vault {
	h.t.Helper()
	v, err := h.svc.VaultService.CreateVault(h.ctx, owner, path)
	require.NoError(h.t, err)
	return v
}

// account opens the associated account of owner for mint and mints amount into it.
func (h *harness) account(owner, mint models.Identity, amount uint64) models.Account {
	h.t.Helper()
	acc, err := h.svc.LedgerService.OpenAccount(h.ctx, owner, models.OpenAccountRequest{Mint: mint})
	require.NoError(h.t, err)
	if amount == 0 {
		return acc
	}

	authority := nativeAuthority
	if mint != models.NativeMint {
		m, err := h.storage.Repositories().Mints.GetMint(h.ctx, mint)
		require.NoError(h.t, err)
		authority = m.Authority
	}
	acc, err = h.svc.LedgerService.MintTo(h.ctx, authority, models.MintToRequest{Mint: mint, Account: acc.Address, Amount: amount})
	require.NoError(h.t, err)
	return acc
}

func (h *harness) mint(authority models.Identity, seed string) models.Identity {
	h.t.Helper()
	m, err := h.svc.LedgerService.CreateMint(h.ctx, authority, models.CreateMintRequest{Seed: seed})
	require.NoError(h.t, err)
	return m.ID
}

func (h *harness) balance(address models.Identity) uint64 {
	h.t.Helper()
	acc, err := h.svc.LedgerService.GetAccount(h.ctx, address)
	require.NoError(h.t, err)
	return acc.Amount
}

func (h *harness) associated(owner, mint models.Identity) models.Identity {
	h.t.Helper()
	addr, err := h.deriver.AccountAddress(owner, mint)
	require.NoError(h.t, err)
	return addr
}

func (h *harness) redeemed(scheduleID models.Identity, index uint16) bool {
	h.t.Helper()
	st, err := h.svc.ScheduleService.IsRedeemed(h.ctx, scheduleID, index)
	require.NoError(h.t, err)
	return st.Redeemed
}

// ── guard ───────────────────────────────────────────────────────────────────

func TestGuard_Roles(t *testing.T) {
	owner, admin, other := id(1), id(2), id(3)
	v := models.Vault{Owner: owner, Admins: []models.Identity{admin}}

	assert.True(t, IsOwner(owner, v))
	assert.True(t, IsAdmin(owner, v), "owner is implicitly admin")
	assert.True(t, IsAdmin(admin, v))
	assert.False(t, IsOwner(admin, v), "admin is not owner")
	assert.False(t, IsAdmin(other, v))

	assert.False(t, IsPendingOwner(models.ZeroIdentity, v), "zero identity never matches an unset pending owner")
	v.PendingOwner = other
	assert.True(t, IsPendingOwner(other, v))
	assert.False(t, IsPendingOwner(owner, v))

	v.Admins = append(v.Admins, models.ZeroIdentity)
	assert.False(t, IsAdmin(models.ZeroIdentity, v))
}

func TestGuard_ScheduleOpen(t *testing.T) {
	at := time.Unix(1_000, 0)
	s := models.Schedule{IsActive: true, ActivationTime: at}

	assert.ErrorIs(t, ScheduleOpen(s, at.Add(-time.Second)), ErrScheduleLocked)
	assert.NoError(t, ScheduleOpen(s, at))
	assert.NoError(t, ScheduleOpen(s, at.Add(time.Hour)))

	s.IsActive = false
	assert.ErrorIs(t, ScheduleOpen(s, at.Add(time.Hour)), ErrScheduleUnavailable)
	assert.ErrorIs(t, ScheduleOpen(s, at.Add(-time.Hour)), ErrScheduleUnavailable, "inactive is reported before locked")
}

func TestGuard_NotYetRedeemed(t *testing.T) {
	s := models.Schedule{Redemptions: models.NewRedemptionBitmap(2)}
	require.NoError(t, s.Redemptions.Set(1))

	assert.NoError(t, NotYetRedeemed(s, 0))
	assert.ErrorIs(t, NotYetRedeemed(s, 1), ErrAlreadyRedeemed)
	assert.ErrorIs(t, NotYetRedeemed(s, 2), ErrInvalidAccount)
}

func TestGuard_ProofValid(t *testing.T) {
	claims := []models.Claim{
		{Index: 0, Claimant: id(10), ReceivingAmount: 1},
		{Index: 1, Claimant: id(11), ReceivingAmount: 2},
		{Index: 2, Claimant: id(12), ReceivingAmount: 3},
	}
	tree, err := merkle.NewClaimTree(claims, models.ScheduleKindSingle)
	require.NoError(t, err)
	s := models.Schedule{Kind: models.ScheduleKindSingle, MerkleRoot: tree.Root()}

	proof, err := tree.Proof(2)
	require.NoError(t, err)
	assert.NoError(t, ProofValid(claims[2], proof, s, 0))

	tampered := claims[2]
	tampered.ReceivingAmount++
	assert.ErrorIs(t, ProofValid(tampered, proof, s, 0), ErrUnauthorized)

	long := make([]models.Hash, 3)
	assert.ErrorIs(t, ProofValid(claims[2], long, s, 2), ErrUnauthorized)
	assert.ErrorIs(t, ProofValid(claims[2], long, s, 2), merkle.ErrProofTooLong)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, ""},
		{ErrInvalidOwner, KindAuthorization},
		{fmt.Errorf("wrapped: %w", ErrInvalidSigner), KindAuthorization},
		{ErrScheduleLocked, KindState},
		{ErrScheduleUnavailable, KindState},
		{ErrAlreadyRedeemed, KindState},
		{ErrInvalidAccount, KindState},
		{ErrUnauthorized, KindProof},
		{fmt.Errorf("%w: %w", ErrTransactionFailed, ledger.ErrInsufficientFunds), KindTransfer},
		{fmt.Errorf("%w: %w", ledger.ErrTransferFailed, ledger.ErrAccountNotFound), KindTransfer},
		{ErrVaultAlreadyExists, KindIdentityConflict},
		{ErrScheduleAlreadyExists, KindIdentityConflict},
		{ErrVaultNotFound, KindNotFound},
		{ledger.ErrAccountNotFound, KindNotFound},
		{ErrUnknownRequest, KindValidation},
		{errors.New("disk full"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.err), func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}
