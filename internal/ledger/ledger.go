// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package ledger moves balances between accounts. It is the value-transfer
// primitive the vault and redemption services call, and it always runs on
// the repositories of the caller's unit of work so its writes commit or roll
// back together with the caller's.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/MKhiriev/go-claim-vault/internal/authority"
	"github.com/MKhiriev/go-claim-vault/internal/clock"
	"github.com/MKhiriev/go-claim-vault/internal/store"
	"github.com/MKhiriev/go-claim-vault/models"
)

// Transfer is a request to move Amount from From to To. Authority must
// resolve to the owner of From.
type Transfer struct {
	From      models.Identity
	To        models.Identity
	Amount    uint64
	Authority authority.Handle
}

// Transferer is the value-transfer collaborator.
//
//go:generate mockgen -source=ledger.go -destination=../mock/ledger_mock.go -package=mock
type Transferer interface {
	Transfer(ctx context.Context, t Transfer) error
}

// Ledger implements Transferer and account administration over store repositories.
type Ledger struct {
	accounts        store.AccountRepository
	mints           store.MintRepository
	deriver         *authority.Deriver
	nativeAuthority models.Identity
	clock           clock.Clock
}

// New binds a ledger to one set of repositories. nativeAuthority may mint
// native currency; the zero identity disables native minting.
func New(repos store.Repositories, deriver *authority.Deriver, nativeAuthority models.Identity, clk clock.Clock) *Ledger {
	return &Ledger{
		accounts:        repos.Accounts,
		mints:           repos.Mints,
		deriver:         deriver,
		nativeAuthority: nativeAuthority,
		clock:           clk,
	}
}

func (l *Ledger) Transfer(ctx context.Context, t Transfer) error {
	actor, err := l.deriver.Resolve(t.Authority)
	if err != nil {
		return failed(err)
	}

	from, err := l.account(ctx, t.From)
	if err != nil {
		return err
	}
	if from.Owner != actor {
		return failed(fmt.Errorf("%w: %s does not own %s", ErrOwnerMismatch, actor, from.Address))
	}

	to, err := l.account(ctx, t.To)
	if err != nil {
		return err
	}
	if from.Mint != to.Mint {
		return failed(fmt.Errorf("%w: %s -> %s", ErrMintMismatch, from.Mint, to.Mint))
	}

	if from.Amount < t.Amount {
		return failed(fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, from.Amount, t.Amount))
	}
	if t.Amount == 0 || from.Address == to.Address {
		return nil
	}
	if to.Amount > math.MaxInt64-t.Amount {
		return failed(ErrBalanceOverflow)
	}

	now := l.clock.Now()
	if err := l.accounts.UpdateAccountBalance(ctx, from.Address, from.Amount-t.Amount, now); err != nil {
		return failed(err)
	}
	if err := l.accounts.UpdateAccountBalance(ctx, to.Address, to.Amount+t.Amount, now); err != nil {
		return failed(err)
	}
	return nil
}

func (l *Ledger) account(ctx context.Context, address models.Identity) (models.Account, error) {
	acc, err := l.accounts.GetAccount(ctx, address)
	if errors.Is(err, store.ErrAccountNotFound) {
		return models.Account{}, failed(fmt.Errorf("%w: %s", ErrAccountNotFound, address))
	}
	if err != nil {
		return models.Account{}, failed(err)
	}
	return acc, nil
}

// GetAccount returns an account by address.
func (l *Ledger) GetAccount(ctx context.Context, address models.Identity) (models.Account, error) {
	acc, err := l.accounts.GetAccount(ctx, address)
	if errors.Is(err, store.ErrAccountNotFound) {
		return models.Account{}, ErrAccountNotFound
	}
	return acc, err
}

// CreateMint registers a mint whose id is derived from authority and seed.
func (l *Ledger) CreateMint(ctx context.Context, mintAuthority models.Identity, seed string) (models.Mint, error) {
	id, err := l.deriver.MintAddress(mintAuthority, seed)
	if err != nil {
		return models.Mint{}, err
	}

	mint := models.Mint{ID: id, Authority: mintAuthority, CreatedAt: l.clock.Now()}
	if err := l.mints.CreateMint(ctx, mint); err != nil {
		if errors.Is(err, store.ErrMintAlreadyExists) {
			return models.Mint{}, ErrMintExists
		}
		return models.Mint{}, err
	}
	return mint, nil
}

// OpenAccount returns the associated account of owner for mint, creating it
// with a zero balance when it does not exist yet.
func (l *Ledger) OpenAccount(ctx context.Context, owner, mint models.Identity) (models.Account, error) {
	if err := l.requireMint(ctx, mint); err != nil {
		return models.Account{}, err
	}

	address, err := l.deriver.AccountAddress(owner, mint)
	if err != nil {
		return models.Account{}, err
	}

	existing, err := l.accounts.GetAccount(ctx, address)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrAccountNotFound) {
		return models.Account{}, err
	}

	now := l.clock.Now()
	acc := models.Account{Address: address, Owner: owner, Mint: mint, CreatedAt: now, UpdatedAt: now}
	if err := l.accounts.CreateAccount(ctx, acc); err != nil {
		return models.Account{}, err
	}
	return acc, nil
}

// AssociatedAddress is the address OpenAccount uses for owner and mint.
func (l *Ledger) AssociatedAddress(owner, mint models.Identity) (models.Identity, error) {
	return l.deriver.AccountAddress(owner, mint)
}

// MintTo creates amount new units of mint in account. signer must be the
// mint authority.
func (l *Ledger) MintTo(ctx context.Context, signer, mint, account models.Identity, amount uint64) (models.Account, error) {
	mintAuthority, err := l.mintAuthority(ctx, mint)
	if err != nil {
		return models.Account{}, err
	}
	if mintAuthority.IsZero() || signer != mintAuthority {
		return models.Account{}, ErrNotMintAuthority
	}

	acc, err := l.GetAccount(ctx, account)
	if err != nil {
		return models.Account{}, err
	}
	if acc.Mint != mint {
		return models.Account{}, ErrMintMismatch
	}
	if acc.Amount > math.MaxInt64-amount || amount > math.MaxInt64 {
		return models.Account{}, ErrBalanceOverflow
	}

	acc.Amount += amount
	acc.UpdatedAt = l.clock.Now()
	if err := l.accounts.UpdateAccountBalance(ctx, acc.Address, acc.Amount, acc.UpdatedAt); err != nil {
		return models.Account{}, err
	}
	return acc, nil
}

func (l *Ledger) mintAuthority(ctx context.Context, mint models.Identity) (models.Identity, error) {
	if mint == models.NativeMint {
		return l.nativeAuthority, nil
	}
	m, err := l.mints.GetMint(ctx, mint)
	if errors.Is(err, store.ErrMintNotFound) {
		return models.ZeroIdentity, ErrMintNotFound
	}
	if err != nil {
		return models.ZeroIdentity, err
	}
	return m.Authority, nil
}

func (l *Ledger) requireMint(ctx context.Context, mint models.Identity) error {
	_, err := l.mintAuthority(ctx, mint)
	return err
}

func failed(err error) error {
	return fmt.Errorf("%w: %w", ErrTransferFailed, err)
}
