// Package utils holds small helpers shared by the HTTP handler, the client
// adapter and vaultctl: context keys, JSON response writing, body hashing
// and signed request tokens.
package utils

import (
	"context"

	"github.com/MKhiriev/go-claim-vault/models"
)

// contextKey keeps our context values apart from string keys set elsewhere.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

// SignerCtxKey holds the models.Identity that signed the current request.
// It is set by the signer middleware once the request token is verified.
var SignerCtxKey = contextKey("signer")

// WithSigner returns a copy of ctx carrying signer.
func WithSigner(ctx context.Context, signer models.Identity) context.Context {
	return context.WithValue(ctx, SignerCtxKey, signer)
}

// GetSignerFromContext returns the verified signer. ok is false when the
// request was not authenticated.
func GetSignerFromContext(ctx context.Context) (models.Identity, bool) {
	signer, ok := ctx.Value(SignerCtxKey).(models.Identity)
	if !ok || signer.IsZero() {
		return models.ZeroIdentity, false
	}
	return signer, true
}
