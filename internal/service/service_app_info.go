package service

import (
	"context"

	"github.com/MKhiriev/go-claim-vault/internal/config"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/models"
)

type appInfoService struct {
	info models.VersionInfo

	logger *logger.Logger
}

// NewAppInfoService reports the configured version. Build metadata injected
// at link time takes precedence over the config value.
func NewAppInfoService(cfg config.App, build models.AppBuildInfo, logger *logger.Logger) (AppInfoService, error) {
	version := build.BuildVersion()
	if version == "" || version == "N/A" {
		version = cfg.Version
	}
	if version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		info: models.VersionInfo{
			Version: version,
			Date:    build.BuildDate(),
			Commit:  build.BuildCommit(),
		},
		logger: logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) models.VersionInfo {
	return s.info
}
