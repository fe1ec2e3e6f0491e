package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-claim-vault/internal/metrics"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	// reads
	router.Group(func(r chi.Router) {
		r.Get("/api/version", h.getServerVersion)
		r.Get("/api/vaults", h.listVaults)
		r.Get("/api/vaults/{vaultID}", h.getVault)
		r.Get("/api/vaults/{vaultID}/schedules", h.listVaultSchedules)
		r.Get("/api/schedules/{scheduleID}", h.getSchedule)
		r.Get("/api/schedules/{scheduleID}/redemptions/{index}", h.isRedeemed)
		r.Get("/api/ledger/accounts/{address}", h.getAccount)
	})

	// signed mutations
	router.Group(func(r chi.Router) {
		r.Use(h.withSigner)

		r.Post("/api/requests", h.submitRequest)

		r.Post("/api/vaults", h.createVault)
		r.Put("/api/vaults/{vaultID}/admins", h.setAdmins)
		r.Post("/api/vaults/{vaultID}/ownership/transfer", h.transferOwnership)
		r.Post("/api/vaults/{vaultID}/ownership/accept", h.acceptOwnership)
		r.Post("/api/vaults/{vaultID}/withdrawals", h.withdraw)

		r.Post("/api/schedules", h.createSchedule)
		r.Put("/api/schedules/{scheduleID}/status", h.setScheduleStatus)
		r.Post("/api/schedules/{scheduleID}/redemptions", h.redeem)

		r.Post("/api/ledger/mints", h.createMint)
		r.Post("/api/ledger/accounts", h.openAccount)
		r.Post("/api/ledger/mint-to", h.mintTo)
		r.Post("/api/ledger/transfers", h.transfer)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
