package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-claim-vault/models"
)

func TestSignerContext(t *testing.T) {
	signer := models.Identity{1, 2, 3}

	tests := []struct {
		name   string
		ctx    context.Context
		want   models.Identity
		wantOK bool
	}{
		{name: "set", ctx: WithSigner(context.Background(), signer), want: signer, wantOK: true},
		{name: "missing", ctx: context.Background(), want: models.ZeroIdentity},
		{name: "zero identity", ctx: WithSigner(context.Background(), models.ZeroIdentity), want: models.ZeroIdentity},
		{name: "wrong type", ctx: context.WithValue(context.Background(), SignerCtxKey, "abc"), want: models.ZeroIdentity},
		{name: "plain string key does not collide", ctx: context.WithValue(context.Background(), "signer", signer), want: models.ZeroIdentity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GetSignerFromContext(tt.ctx)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContextKey_String(t *testing.T) {
	assert.Equal(t, "signer", SignerCtxKey.String())
}
