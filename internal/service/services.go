package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-claim-vault/internal/authority"
	"github.com/MKhiriev/go-claim-vault/internal/clock"
	"github.com/MKhiriev/go-claim-vault/internal/config"
	"github.com/MKhiriev/go-claim-vault/internal/events"
	"github.com/MKhiriev/go-claim-vault/internal/ledger"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/internal/store"
	"github.com/MKhiriev/go-claim-vault/internal/validators"
	"github.com/MKhiriev/go-claim-vault/models"
)

type Services struct {
	VaultService      VaultService
	ScheduleService   ScheduleService
	RedemptionService RedemptionService
	LedgerService     LedgerService
	AppInfoService    AppInfoService
	Processor         Processor
}

// Dependencies are the collaborators shared by all services.
type Dependencies struct {
	Storage   store.Storage
	Deriver   *authority.Deriver
	Ledgers   LedgerFactory
	Publisher events.Publisher
	Clock     clock.Clock
	Logger    *logger.Logger

	MaxProofLength int
}

// NewLedgerFactory returns the factory of the built-in ledger.
func NewLedgerFactory(deriver *authority.Deriver, nativeAuthority models.Identity, clk clock.Clock) LedgerFactory {
	return func(repos store.Repositories) LedgerOps {
		return ledger.New(repos, deriver, nativeAuthority, clk)
	}
}

func NewServices(storage store.Storage, publisher events.Publisher, cfg config.StructuredConfig, buildInfo models.AppBuildInfo, log *logger.Logger) (*Services, error) {
	programID, err := cfg.App.ProgramIdentity()
	if err != nil {
		return nil, err
	}
	nativeAuthority, err := cfg.App.NativeMintAuthorityIdentity()
	if err != nil {
		return nil, err
	}

	clk := clock.System{}
	deriver := authority.NewDeriver(programID)

	deps := Dependencies{
		Storage:        storage,
		Deriver:        deriver,
		Ledgers:        NewLedgerFactory(deriver, nativeAuthority, clk),
		Publisher:      publisher,
		Clock:          clk,
		Logger:         log,
		MaxProofLength: cfg.App.MaxProofLength,
	}

	appInfo, err := NewAppInfoService(cfg.App, buildInfo, log)
	if err != nil {
		return nil, err
	}

	return newServices(deps, appInfo), nil
}

func newServices(deps Dependencies, appInfo AppInfoService) *Services {
	s := &Services{
		VaultService:      NewVaultService(deps),
		ScheduleService:   NewScheduleService(deps),
		RedemptionService: NewRedemptionService(deps),
		LedgerService:     NewLedgerService(deps),
		AppInfoService:    appInfo,
	}
	s.Processor = NewProcessor(s, validators.NewRequestValidator(), deps.Logger)
	return s
}

// publish is best-effort: the request already committed.
func publish(ctx context.Context, p events.Publisher, log *logger.Logger, e events.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		log.Warn().Err(err).Str("type", string(e.Type)).Msg("event not published")
	}
}

func getVault(ctx context.Context, repos store.Repositories, id models.Identity) (models.Vault, error) {
	v, err := repos.Vaults.GetVault(ctx, id)
	if errors.Is(err, store.ErrVaultNotFound) {
		return models.Vault{}, ErrVaultNotFound
	}
	return v, err
}

func getSchedule(ctx context.Context, repos store.Repositories, id models.Identity) (models.Schedule, error) {
	s, err := repos.Schedules.GetSchedule(ctx, id)
	if errors.Is(err, store.ErrScheduleNotFound) {
		return models.Schedule{}, ErrScheduleNotFound
	}
	return s, err
}
