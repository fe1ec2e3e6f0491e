// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-claim-vault/models"
)

var (
	ErrInvalidToken      = errors.New("invalid request token")
	ErrTokenLifetime     = errors.New("request token lifetime exceeds the allowed maximum")
	ErrBodyHashMismatch  = errors.New("request body does not match the token")
	ErrMissingTokenID    = errors.New("request token has no id")
	ErrInvalidAuthHeader = errors.New("invalid authorization header")
)

// BodyHash is the hex sha256 of a request body, carried in the bdh claim.
func BodyHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// SignRequestToken issues an EdDSA token for one request body. The subject
// is the base58 public key of key, so the server needs no key registry.
func SignRequestToken(key ed25519.PrivateKey, body []byte, ttl time.Duration, now time.Time) (string, error) {
	if len(key) != ed25519.PrivateKeySize || ttl <= 0 {
		return "", errors.New("invalid params for signing request token")
	}

	signer, err := models.IdentityFromBytes(key.Public().(ed25519.PublicKey))
	if err != nil {
		return "", err
	}

	claims := models.RequestClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   signer.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewTokenID(),
		},
		BodyHash: BodyHash(body),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("error occurred during signing request token: %w", err)
	}
	return signed, nil
}

// VerifyRequestToken checks the signature against the key named by the
// subject, the time window, the lifetime bound and the body hash. It returns
// the verified claims and signer.
func VerifyRequestToken(tokenString string, body []byte, maxAge time.Duration, now time.Time) (models.RequestClaims, models.Identity, error) {
	var claims models.RequestClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		parsed, ok := token.Claims.(*models.RequestClaims)
		if !ok {
			return nil, ErrInvalidToken
		}
		signer, err := parsed.Signer()
		if err != nil {
			return nil, err
		}
		return ed25519.PublicKey(signer.Bytes()), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return models.RequestClaims{}, models.ZeroIdentity, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.IssuedAt == nil || claims.ExpiresAt.Sub(claims.IssuedAt.Time) > maxAge {
		return models.RequestClaims{}, models.ZeroIdentity, ErrTokenLifetime
	}
	if claims.ID == "" {
		return models.RequestClaims{}, models.ZeroIdentity, ErrMissingTokenID
	}
	if subtle.ConstantTimeCompare([]byte(claims.BodyHash), []byte(BodyHash(body))) != 1 {
		return models.RequestClaims{}, models.ZeroIdentity, ErrBodyHashMismatch
	}

	signer, err := claims.Signer()
	if err != nil {
		return models.RequestClaims{}, models.ZeroIdentity, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, signer, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>" value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrInvalidAuthHeader
	}
	return parts[1], nil
}
