// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks the merged config before startup.
func (cfg *StructuredConfig) validate() error {
	if _, err := cfg.App.ProgramIdentity(); err != nil {
		return fmt.Errorf("%w: program id: %w", ErrInvalidAppConfigs, err)
	}
	if _, err := cfg.App.NativeMintAuthorityIdentity(); err != nil {
		return fmt.Errorf("%w: native mint authority: %w", ErrInvalidAppConfigs, err)
	}
	if cfg.App.MaxProofLength <= 0 {
		return fmt.Errorf("%w: max proof length must be positive", ErrInvalidAppConfigs)
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 || cfg.Server.TokenMaxAge <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Workers.StatsSpec == "" {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
