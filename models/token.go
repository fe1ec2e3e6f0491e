package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// RequestClaims are the claims of a signed request token. The subject is the
// signer's base58 identity, which is also the ed25519 key that verifies the
// token. BodyHash binds the token to one request body.
type RequestClaims struct {
	jwt.RegisteredClaims

	// BodyHash is the hex sha256 of the request body.
	BodyHash string `json:"bdh,omitempty"`
}

// Signer decodes the subject claim into an identity.
func (c RequestClaims) Signer() (Identity, error) {
	sub, err := c.GetSubject()
	if err != nil {
		return ZeroIdentity, fmt.Errorf("error extracting signer from token: %w", err)
	}

	id, err := ParseIdentity(sub)
	if err != nil {
		return ZeroIdentity, fmt.Errorf("error decoding signer from token: %w", err)
	}

	return id, nil
}
