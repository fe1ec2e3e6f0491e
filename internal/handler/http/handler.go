package http

import (
	"time"

	"github.com/MKhiriev/go-claim-vault/internal/clock"
	"github.com/MKhiriev/go-claim-vault/internal/config"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/internal/replay"
	"github.com/MKhiriev/go-claim-vault/internal/service"
)

type Handler struct {
	services *service.Services
	replay   replay.Guard
	clock    clock.Clock

	tokenMaxAge time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, guard replay.Guard, clk clock.Clock, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Info().Dur("token_max_age", cfg.TokenMaxAge).Msg("http handler created")
	return &Handler{
		services:    services,
		replay:      guard,
		clock:       clk,
		tokenMaxAge: cfg.TokenMaxAge,
		logger:      logger,
	}
}
