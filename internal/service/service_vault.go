package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-claim-vault/internal/authority"
	"github.com/MKhiriev/go-claim-vault/internal/clock"
	"github.com/MKhiriev/go-claim-vault/internal/events"
	"github.com/MKhiriev/go-claim-vault/internal/ledger"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/internal/store"
	"github.com/MKhiriev/go-claim-vault/internal/validators"
	"github.com/MKhiriev/go-claim-vault/models"
)

type vaultService struct {
	storage   store.Storage
	deriver   *authority.Deriver
	ledgers   LedgerFactory
	publisher events.Publisher
	clock     clock.Clock

	logger *logger.Logger
}

func NewVaultService(deps Dependencies) VaultService {
	return &vaultService{
		storage:   deps.Storage,
		deriver:   deps.Deriver,
		ledgers:   deps.Ledgers,
		publisher: deps.Publisher,
		clock:     deps.Clock,
		logger:    deps.Logger,
	}
}

// CreateVault derives the vault id from path and its custody signer from
// the id. The signer's native account is opened in the same unit of work.
func (s *vaultService) CreateVault(ctx context.Context, caller models.Identity, path string) (models.Vault, error) {
	if caller.IsZero() {
		return models.Vault{}, fmt.Errorf("%w: empty caller", ErrInvalidOwner)
	}

	id, err := s.deriver.VaultAddress(path)
	if err != nil {
		return models.Vault{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	signer, nonce, err := s.deriver.SignerAddress(id)
	if err != nil {
		return models.Vault{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	now := s.clock.Now()
	vault := models.Vault{
		ID:          id,
		Path:        path,
		Owner:       caller,
		Admins:      []models.Identity{},
		SignerNonce: nonce,
		Signer:      signer,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.storage.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if err := repos.Vaults.CreateVault(ctx, vault); err != nil {
			if errors.Is(err, store.ErrVaultAlreadyExists) {
				return fmt.Errorf("%w: path %q", ErrVaultAlreadyExists, path)
			}
			return err
		}
		_, err := s.ledgers(repos).OpenAccount(ctx, signer, models.NativeMint)
		return err
	})
	if err != nil {
		return models.Vault{}, err
	}

	s.emit(ctx, events.VaultCreated, caller, vault)
	return vault, nil
}

func (s *vaultService) SetAdmins(ctx context.Context, caller, vaultID models.Identity, admins []models.Identity) (models.Vault, error) {
	if err := validators.ValidateAdmins(admins); err != nil {
		return models.Vault{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	vault, err := s.mutate(ctx, vaultID, func(v *models.Vault) error {
		if err := requireOwner(caller, *v); err != nil {
			return err
		}
		v.Admins = slices.Clone(admins)
		if v.Admins == nil {
			v.Admins = []models.Identity{}
		}
		return nil
	})
	if err != nil {
		return models.Vault{}, err
	}

	s.emit(ctx, events.VaultAdminsSet, caller, vault)
	return vault, nil
}

// TransferOwnership only nominates newOwner. Owner changes on AcceptOwnership.
func (s *vaultService) TransferOwnership(ctx context.Context, caller, vaultID, newOwner models.Identity) (models.Vault, error) {
	if newOwner.IsZero() {
		return models.Vault{}, fmt.Errorf("%w: empty new owner", ErrInvalidRequest)
	}

	vault, err := s.mutate(ctx, vaultID, func(v *models.Vault) error {
		if err := requireOwner(caller, *v); err != nil {
			return err
		}
		v.PendingOwner = newOwner
		return nil
	})
	if err != nil {
		return models.Vault{}, err
	}

	s.emit(ctx, events.VaultOwnershipTransferred, caller, vault)
	return vault, nil
}

func (s *vaultService) AcceptOwnership(ctx context.Context, caller, vaultID models.Identity) (models.Vault, error) {
	vault, err := s.mutate(ctx, vaultID, func(v *models.Vault) error {
		if err := requirePendingOwner(caller, *v); err != nil {
			return err
		}
		v.Owner = v.PendingOwner
		v.PendingOwner = models.ZeroIdentity
		return nil
	})
	if err != nil {
		return models.Vault{}, err
	}

	s.emit(ctx, events.VaultOwnershipAccepted, caller, vault)
	return vault, nil
}

// mutate loads, changes and stores one vault inside a unit of work.
func (s *vaultService) mutate(ctx context.Context, vaultID models.Identity, change func(v *models.Vault) error) (models.Vault, error) {
	var out models.Vault
	err := s.storage.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		v, err := getVault(ctx, repos, vaultID)
		if err != nil {
			return err
		}
		if err := change(&v); err != nil {
			return err
		}
		v.UpdatedAt = s.clock.Now()
		if err := repos.Vaults.UpdateVault(ctx, v); err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func (s *vaultService) Withdraw(ctx context.Context, caller models.Identity, req models.WithdrawRequest) (models.Account, error) {
	var (
		vault       models.Vault
		destination models.Account
	)

	err := s.storage.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		v, err := getVault(ctx, repos, req.VaultID)
		if err != nil {
			return err
		}
		if err := requireAdmin(caller, v); err != nil {
			return err
		}

		book := s.ledgers(repos)
		source := req.Source
		if source.IsZero() {
			if source, err = book.AssociatedAddress(v.Signer, req.Mint); err != nil {
				return err
			}
		}

		src, err := book.GetAccount(ctx, source)
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return fmt.Errorf("%w: vault account %s does not exist", ErrInvalidAccount, source)
		}
		if err != nil {
			return err
		}
		if src.Owner != v.Signer || src.Mint != req.Mint {
			return fmt.Errorf("%w: %s is not the vault's %s account", ErrInvalidAccount, source, req.Mint)
		}

		if err := book.Transfer(ctx, ledger.Transfer{
			From:      source,
			To:        req.Destination,
			Amount:    req.Amount,
			Authority: authority.Delegated(v),
		}); err != nil {
			return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
		}

		destination, err = book.GetAccount(ctx, req.Destination)
		vault = v
		return err
	})
	if err != nil {
		return models.Account{}, err
	}

	s.emit(ctx, events.VaultWithdrawn, caller, req)
	s.logger.Info().Str("vault", vault.ID.String()).Uint64("amount", req.Amount).
		Str("destination", req.Destination.String()).Msg("vault withdrawal")
	return destination, nil
}

func (s *vaultService) GetVault(ctx context.Context, id models.Identity) (models.Vault, error) {
	return getVault(ctx, s.storage.Repositories(), id)
}

func (s *vaultService) ListVaults(ctx context.Context, owner models.Identity) ([]models.Vault, error) {
	return s.storage.Repositories().Vaults.ListVaultsByOwner(ctx, owner)
}

func (s *vaultService) emit(ctx context.Context, t events.Type, signer models.Identity, data any) {
	e := events.Event{Type: t, OccurredAt: s.clock.Now(), Signer: signer, Data: data}
	switch d := data.(type) {
	case models.Vault:
		e.VaultID = d.ID
	case models.WithdrawRequest:
		e.VaultID = d.VaultID
	}
	publish(ctx, s.publisher, s.logger, e)
}
