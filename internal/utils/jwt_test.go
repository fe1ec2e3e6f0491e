package utils

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-claim-vault/models"
)

var tokenNow = time.Unix(1_700_000_000, 0)

func newKey(t *testing.T) (ed25519.PrivateKey, models.Identity) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	id, err := models.IdentityFromBytes(pub)
	require.NoError(t, err)
	return priv, id
}

func TestRequestToken_RoundTrip(t *testing.T) {
	key, signer := newKey(t)
	body := []byte(`{"kind":"create_vault","create_vault":{"path":"treasury"}}`)

	token, err := SignRequestToken(key, body, time.Minute, tokenNow)
	require.NoError(t, err)

	claims, got, err := VerifyRequestToken(token, body, 5*time.Minute, tokenNow.Add(30*time.Second))
	require.NoError(t, err)
	assert.Equal(t, signer, got)
	assert.Equal(t, signer.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, BodyHash(body), claims.BodyHash)
}

func TestRequestToken_UniqueIDs(t *testing.T) {
	key, _ := newKey(t)
	a, err := SignRequestToken(key, nil, time.Minute, tokenNow)
	require.NoError(t, err)
	b, err := SignRequestToken(key, nil, time.Minute, tokenNow)
	require.NoError(t, err)

	ca, _, err := VerifyRequestToken(a, nil, time.Minute, tokenNow)
	require.NoError(t, err)
	cb, _, err := VerifyRequestToken(b, nil, time.Minute, tokenNow)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestVerifyRequestToken_Rejections(t *testing.T) {
	key, signer := newKey(t)
	other, _ := newKey(t)
	body := []byte(`{"kind":"redeem"}`)

	valid, err := SignRequestToken(key, body, time.Minute, tokenNow)
	require.NoError(t, err)
	longLived, err := SignRequestToken(key, body, time.Hour, tokenNow)
	require.NoError(t, err)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, models.RequestClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   signer.String(),
			IssuedAt:  jwt.NewNumericDate(tokenNow),
			ExpiresAt: jwt.NewNumericDate(tokenNow.Add(time.Minute)),
			ID:        "x",
		},
		BodyHash: BodyHash(body),
	}).SignedString(other)
	require.NoError(t, err)

	hmac, err := jwt.NewWithClaims(jwt.SigningMethodHS256, models.RequestClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: signer.String()},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, models.RequestClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   signer.String(),
			IssuedAt:  jwt.NewNumericDate(tokenNow),
			ExpiresAt: jwt.NewNumericDate(tokenNow.Add(time.Minute)),
		},
		BodyHash: BodyHash(body),
	}).SignedString(key)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		body    []byte
		now     time.Time
		wantErr error
	}{
		{name: "expired", token: valid, body: body, now: tokenNow.Add(2 * time.Minute), wantErr: ErrInvalidToken},
		{name: "issued in the future", token: valid, body: body, now: tokenNow.Add(-time.Minute), wantErr: ErrInvalidToken},
		{name: "body changed", token: valid, body: []byte(`{"kind":"withdraw"}`), now: tokenNow, wantErr: ErrBodyHashMismatch},
		{name: "lifetime above max age", token: longLived, body: body, now: tokenNow, wantErr: ErrTokenLifetime},
		{name: "signed by another key", token: forged, body: body, now: tokenNow, wantErr: ErrInvalidToken},
		{name: "hmac algorithm", token: hmac, body: body, now: tokenNow, wantErr: ErrInvalidToken},
		{name: "no token id", token: noID, body: body, now: tokenNow, wantErr: ErrMissingTokenID},
		{name: "garbage", token: "not-a-token", body: body, now: tokenNow, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := VerifyRequestToken(tt.token, tt.body, 5*time.Minute, tt.now)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSignRequestToken_InvalidParams(t *testing.T) {
	key, _ := newKey(t)
	_, err := SignRequestToken(key, nil, 0, tokenNow)
	assert.Error(t, err)
	_, err = SignRequestToken(ed25519.PrivateKey{1, 2, 3}, nil, time.Minute, tokenNow)
	assert.Error(t, err)
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "  bearer token  ", want: "token"},
		{header: "Bearer", wantErr: true},
		{header: "Basic abc", wantErr: true},
		{header: "", wantErr: true},
		{header: "Bearer a b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAuthHeader)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
