package handler

import (
	"github.com/MKhiriev/go-claim-vault/internal/clock"
	"github.com/MKhiriev/go-claim-vault/internal/config"
	"github.com/MKhiriev/go-claim-vault/internal/handler/http"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/internal/replay"
	"github.com/MKhiriev/go-claim-vault/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, guard replay.Guard, clk clock.Clock, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{HTTP: http.NewHandler(services, guard, clk, cfg, logger)}, nil
}
