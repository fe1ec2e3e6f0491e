package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-claim-vault/internal/clock"
	"github.com/MKhiriev/go-claim-vault/internal/config"
	"github.com/MKhiriev/go-claim-vault/internal/events"
	"github.com/MKhiriev/go-claim-vault/internal/handler"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/internal/replay"
	"github.com/MKhiriev/go-claim-vault/internal/server"
	"github.com/MKhiriev/go-claim-vault/internal/service"
	"github.com/MKhiriev/go-claim-vault/internal/store"
	"github.com/MKhiriev/go-claim-vault/internal/workers"
	"github.com/MKhiriev/go-claim-vault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("claim-vault").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLoggerWithLevel("claim-vault", cfg.App.LogLevel)
	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()
	clk := clock.System{}

	storage, err := store.NewStorage(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storage")
	}
	defer storage.Close()

	publisher, err := events.NewPublisher(ctx, cfg.Events, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating event publisher")
	}
	defer publisher.Close()

	guard, err := replay.NewGuard(ctx, cfg.Events, clk, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating replay guard")
	}

	services, err := service.NewServices(storage, publisher, *cfg, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, guard, clk, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	jobs := []workers.Job{{
		Name:   "schedule-stats",
		Spec:   cfg.Workers.StatsSpec,
		Worker: workers.NewScheduleStatsWorker(ctx, services.ScheduleService, cfg.Server.RequestTimeout, log),
	}}
	if memGuard, ok := guard.(*replay.MemoryGuard); ok {
		jobs = append(jobs, workers.Job{
			Name:   "replay-sweep",
			Spec:   cfg.Workers.StatsSpec,
			Worker: workers.NewReplaySweepWorker(memGuard, log),
		})
	}

	w, err := workers.NewWorkers(log, jobs...)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating workers")
	}

	srv, err := server.NewServer(handlers, w, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
