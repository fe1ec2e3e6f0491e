package service

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-claim-vault/internal/config"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppInfoService(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.App
		build   models.AppBuildInfo
		want    models.VersionInfo
		wantErr error
	}{
		{
			name: "config version",
			cfg:  config.App{Version: "1.0.0"},
			want: models.VersionInfo{Version: "1.0.0"},
		},
		{
			name:  "build info wins",
			cfg:   config.App{Version: "dev"},
			build: models.NewAppBuildInfo("v1.2.3-beta+build.42", "2026-10-01", "abc123"),
			want:  models.VersionInfo{Version: "v1.2.3-beta+build.42", Date: "2026-10-01", Commit: "abc123"},
		},
		{
			name:  "unset build version falls back",
			cfg:   config.App{Version: "0.0.1"},
			build: models.NewAppBuildInfo("N/A", "N/A", "N/A"),
			want:  models.VersionInfo{Version: "0.0.1", Date: "N/A", Commit: "N/A"},
		},
		{
			name:    "no version at all",
			wantErr: ErrVersionIsNotSpecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewAppInfoService(tt.cfg, tt.build, logger.Nop())
			if tt.wantErr != nil {
				assert.Nil(t, svc)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, svc.GetAppVersion(context.Background()))
		})
	}
}

func TestGetAppVersion_CancelledContext_StillReturnsVersion(t *testing.T) {
	svc, err := NewAppInfoService(config.App{Version: "1.0.0"}, models.AppBuildInfo{}, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, "1.0.0", svc.GetAppVersion(ctx).Version)
}
