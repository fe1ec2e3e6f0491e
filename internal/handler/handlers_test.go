package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-claim-vault/internal/clock"
	"github.com/MKhiriev/go-claim-vault/internal/config"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/internal/replay"
)

func TestNewHandlers(t *testing.T) {
	clk := clock.System{}
	guard := replay.NewMemoryGuard(clk)

	h, err := NewHandlers(nil, guard, clk, config.Server{HTTPAddress: ":8080", TokenMaxAge: time.Minute}, logger.Nop())
	require.NoError(t, err)
	assert.NotNil(t, h.HTTP)

	_, err = NewHandlers(nil, guard, clk, config.Server{}, logger.Nop())
	assert.ErrorIs(t, err, errNoHandlersAreCreated)
}
