package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient embeds *resty.Client so callers get its whole API.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent client identifying itself as vaultctl.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New().SetHeader("User-Agent", "vaultctl")}
}
