package adapter

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-claim-vault/internal/clock"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/internal/utils"
	"github.com/MKhiriev/go-claim-vault/models"
)

// Config selects the server and how requests are signed.
type Config struct {
	HTTPAddress    string
	RequestTimeout time.Duration
	// TokenTTL is the lifetime of each signed request token. It must not
	// exceed the server's token max age.
	TokenTTL time.Duration
}

type httpVaultClient struct {
	client *utils.HTTPClient
	key    ed25519.PrivateKey
	ttl    time.Duration
	clock  clock.Clock

	logger *logger.Logger
}

// NewHTTPVaultClient builds a VaultClient for cfg.HTTPAddress. key may be nil
// for read-only use; Submit then fails.
func NewHTTPVaultClient(cfg Config, key ed25519.PrivateKey, clk clock.Clock, log *logger.Logger) (VaultClient, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Minute
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Accept", "application/json")

	return &httpVaultClient{client: client, key: key, ttl: cfg.TokenTTL, clock: clk, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Submit posts req to POST /api/requests with a token bound to the exact
// body bytes sent.
func (h *httpVaultClient) Submit(ctx context.Context, req models.Request) (models.Receipt, error) {
	if h.key == nil {
		return models.Receipt{}, fmt.Errorf("%w: no signing key loaded", ErrUnauthorized)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return models.Receipt{}, fmt.Errorf("encode request: %w", err)
	}
	token, err := utils.SignRequestToken(h.key, body, h.ttl, h.clock.Now())
	if err != nil {
		return models.Receipt{}, fmt.Errorf("sign request: %w", err)
	}

	var receipt models.Receipt
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(token).
		SetBody(body).
		SetResult(&receipt).
		Post("/api/requests")
	if err != nil {
		return models.Receipt{}, fmt.Errorf("%s request: %w", req.Kind, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Receipt{}, err
	}

	h.logger.Debug().Str("kind", string(req.Kind)).Str("trace_id", resp.Header().Get("X-Trace-ID")).Msg("request accepted")
	return receipt, nil
}

func (h *httpVaultClient) GetVault(ctx context.Context, id models.Identity) (models.Vault, error) {
	var v models.Vault
	err := h.get(ctx, "/api/vaults/"+id.String(), &v)
	return v, err
}

func (h *httpVaultClient) GetSchedule(ctx context.Context, id models.Identity) (models.ScheduleView, error) {
	var s models.ScheduleView
	err := h.get(ctx, "/api/schedules/"+id.String(), &s)
	return s, err
}

func (h *httpVaultClient) IsRedeemed(ctx context.Context, scheduleID models.Identity, index uint16) (models.RedemptionStatus, error) {
	var st models.RedemptionStatus
	err := h.get(ctx, "/api/schedules/"+scheduleID.String()+"/redemptions/"+strconv.Itoa(int(index)), &st)
	return st, err
}

func (h *httpVaultClient) GetAccount(ctx context.Context, address models.Identity) (models.Account, error) {
	var a models.Account
	err := h.get(ctx, "/api/ledger/accounts/"+address.String(), &a)
	return a, err
}

func (h *httpVaultClient) Version(ctx context.Context) (models.VersionInfo, error) {
	var v models.VersionInfo
	err := h.get(ctx, "/api/version", &v)
	return v, err
}

func (h *httpVaultClient) get(ctx context.Context, path string, result any) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(result).
		Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return mapHTTPError(resp)
}
