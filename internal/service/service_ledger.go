package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-claim-vault/internal/authority"
	"github.com/MKhiriev/go-claim-vault/internal/ledger"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/internal/store"
	"github.com/MKhiriev/go-claim-vault/models"
)

type ledgerService struct {
	storage store.Storage
	ledgers LedgerFactory

	logger *logger.Logger
}

func NewLedgerService(deps Dependencies) LedgerService {
	return &ledgerService{
		storage: deps.Storage,
		ledgers: deps.Ledgers,
		logger:  deps.Logger,
	}
}

func (s *ledgerService) CreateMint(ctx context.Context, caller models.Identity, req models.CreateMintRequest) (models.Mint, error) {
	var mint models.Mint
	err := s.storage.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		var err error
		mint, err = s.ledgers(repos).CreateMint(ctx, caller, req.Seed)
		return err
	})
	return mint, err
}

// OpenAccount opens the associated account of req.Owner, or of the caller
// when no owner is given.
func (s *ledgerService) OpenAccount(ctx context.Context, caller models.Identity, req models.OpenAccountRequest) (models.Account, error) {
	owner := req.Owner
	if owner.IsZero() {
		owner = caller
	}

	var acc models.Account
	err := s.storage.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		var err error
		acc, err = s.ledgers(repos).OpenAccount(ctx, owner, req.Mint)
		return err
	})
	return acc, err
}

func (s *ledgerService) MintTo(ctx context.Context, caller models.Identity, req models.MintToRequest) (models.Account, error) {
	var acc models.Account
	err := s.storage.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		var err error
		acc, err = s.ledgers(repos).MintTo(ctx, caller, req.Mint, req.Account, req.Amount)
		return err
	})
	return acc, err
}

// Transfer moves funds out of an account the caller owns and returns the
// destination account.
func (s *ledgerService) Transfer(ctx context.Context, caller models.Identity, req models.TransferRequest) (models.Account, error) {
	var acc models.Account
	err := s.storage.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		book := s.ledgers(repos)
		if err := book.Transfer(ctx, ledger.Transfer{
			From:      req.From,
			To:        req.To,
			Amount:    req.Amount,
			Authority: authority.Signer(caller),
		}); err != nil {
			return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
		}

		var err error
		acc, err = book.GetAccount(ctx, req.To)
		return err
	})
	return acc, err
}

func (s *ledgerService) GetAccount(ctx context.Context, address models.Identity) (models.Account, error) {
	return s.ledgers(s.storage.Repositories()).GetAccount(ctx, address)
}
