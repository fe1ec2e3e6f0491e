package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-claim-vault/internal/clock"
	"github.com/MKhiriev/go-claim-vault/internal/config"
	"github.com/MKhiriev/go-claim-vault/internal/handler"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/internal/replay"
	"github.com/MKhiriev/go-claim-vault/internal/workers"
)

func testConfig() config.Server {
	return config.Server{
		HTTPAddress:     "127.0.0.1:0",
		RequestTimeout:  time.Second,
		TokenMaxAge:     time.Minute,
		ShutdownTimeout: time.Second,
	}
}

func TestNewServer_RequiresHandlers(t *testing.T) {
	_, err := NewServer(nil, nil, testConfig(), logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)

	_, err = NewServer(&handler.Handlers{}, nil, testConfig(), logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)
}

func TestServer_ShutdownStopsWorkers(t *testing.T) {
	cfg := testConfig()
	clk := clock.System{}
	h, err := handler.NewHandlers(nil, replay.NewMemoryGuard(clk), clk, cfg, logger.Nop())
	require.NoError(t, err)

	w, err := workers.NewWorkers(logger.Nop())
	require.NoError(t, err)
	w.Run()

	srv, err := NewServer(h, w, cfg, logger.Nop())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		srv.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return")
	}
}
