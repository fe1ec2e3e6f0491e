package config

import "time"

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			ProgramID:      DefaultProgramID,
			MaxProofLength: 32,
			LogLevel:       "debug",
			Version:        "dev",
		},
		Storage: Storage{
			DB: DB{MaxOpenConns: 10},
		},
		Server: Server{
			HTTPAddress:     "localhost:8080",
			RequestTimeout:  30 * time.Second,
			TokenMaxAge:     5 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Events: Events{
			Stream:       "vault-events",
			StreamMaxLen: 100_000,
		},
		Workers: Workers{
			StatsSpec: "@every 1m",
		},
	}
}
