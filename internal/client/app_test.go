package client

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-claim-vault/internal/adapter"
	"github.com/MKhiriev/go-claim-vault/internal/authority"
	"github.com/MKhiriev/go-claim-vault/internal/clock"
	"github.com/MKhiriev/go-claim-vault/internal/config"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/internal/merkle"
	"github.com/MKhiriev/go-claim-vault/internal/mock"
	"github.com/MKhiriev/go-claim-vault/models"
)

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	app := NewApp(out)
	app.log = logger.Nop()
	return app, out
}

// withMockClient routes every client the app builds to m and records the
// key it was built with.
func withMockClient(app *App, m adapter.VaultClient, gotKey *ed25519.PrivateKey) {
	app.newClient = func(_ adapter.Config, key ed25519.PrivateKey, _ clock.Clock, _ *logger.Logger) (adapter.VaultClient, error) {
		if gotKey != nil {
			*gotKey = key
		}
		return m, nil
	}
}

func writeClaims(t *testing.T, claims []models.Claim) string {
	t.Helper()
	data, err := json.Marshal(claims)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "claims.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func testClaims() []models.Claim {
	return []models.Claim{
		{Index: 0, Claimant: models.Identity{1}, ReceivingAmount: 100, SendingAmount: 1},
		{Index: 1, Claimant: models.Identity{2}, ReceivingAmount: 200, SendingAmount: 2},
		{Index: 2, Claimant: models.Identity{3}, ReceivingAmount: 300},
	}
}

func keygen(t *testing.T) (string, string) {
	t.Helper()
	app, out := newTestApp(t)
	path := filepath.Join(t.TempDir(), "signer.json")

	require.NoError(t, app.Run([]string{"--passphrase", "pw", "keygen", "-o", path}))

	var res map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	return path, res["signer"]
}

func TestKeygenAndWhoami(t *testing.T) {
	path, signer := keygen(t)
	require.NotEmpty(t, signer)

	app, out := newTestApp(t)
	require.NoError(t, app.Run([]string{"--passphrase", "pw", "--key", path, "whoami"}))
	assert.JSONEq(t, `{"signer":"`+signer+`"}`, out.String())

	app, _ = newTestApp(t)
	assert.Error(t, app.Run([]string{"--passphrase", "wrong", "--key", path, "whoami"}))

	app, _ = newTestApp(t)
	assert.ErrorIs(t, app.Run([]string{"whoami"}), ErrNoKeyFile)
}

func TestAddress(t *testing.T) {
	programID, err := models.ParseIdentity(config.DefaultProgramID)
	require.NoError(t, err)
	d := authority.NewDeriver(programID)

	vault, err := d.VaultAddress("treasury")
	require.NoError(t, err)
	signer, nonce, err := d.SignerAddress(vault)
	require.NoError(t, err)
	schedule, err := d.ScheduleAddress(42)
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		want addressResult
	}{
		{name: "vault", args: []string{"address", "vault", "treasury"}, want: addressResult{Kind: "vault", Address: vault}},
		{name: "schedule", args: []string{"address", "schedule", "42"}, want: addressResult{Kind: "schedule", Address: schedule}},
		{name: "signer", args: []string{"address", "signer", vault.String()}, want: addressResult{Kind: "signer", Address: signer, Nonce: &nonce}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, out := newTestApp(t)
			require.NoError(t, app.Run(tt.args))

			var got addressResult
			require.NoError(t, json.Unmarshal(out.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddress_Errors(t *testing.T) {
	for _, args := range [][]string{
		{"address", "vault"},
		{"address", "account", "only-one"},
		{"address", "schedule", "not-a-number"},
		{"address", "signer", "not-base58!"},
		{"address", "galaxy", "x"},
	} {
		app, _ := newTestApp(t)
		assert.Error(t, app.Run(args), "%v", args)
	}
}

func TestTree(t *testing.T) {
	claims := testClaims()
	path := writeClaims(t, claims)

	app, out := newTestApp(t)
	require.NoError(t, app.Run([]string{"tree", "--claims", path}))

	var got treeResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))

	want, err := merkle.NewClaimTree(claims, models.ScheduleKindSingle)
	require.NoError(t, err)

	assert.Equal(t, want.Root(), got.Root)
	assert.Equal(t, 3, got.ClaimCount)
	require.Len(t, got.Claims, 3)
	for _, c := range got.Claims {
		assert.Equal(t, merkle.LeafHash(c.Claim, models.ScheduleKindSingle), c.Leaf)
		assert.True(t, merkle.Verify(c.Leaf, c.Proof, got.Root))
	}
}

func TestTree_MultiKindChangesRoot(t *testing.T) {
	claims := testClaims()
	claims[0].ReceivingMint = models.Identity{9}
	path := writeClaims(t, claims)

	roots := map[string]models.Hash{}
	for _, kind := range []string{"single", "multi"} {
		app, out := newTestApp(t)
		require.NoError(t, app.Run([]string{"tree", "--kind", kind, "--claims", path}))
		var got treeResult
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		roots[kind] = got.Root
	}
	assert.NotEqual(t, roots["single"], roots["multi"])
}

func TestRedeem(t *testing.T) {
	keyPath, _ := keygen(t)
	claims := testClaims()
	claimsPath := writeClaims(t, claims)
	tree, err := merkle.NewClaimTree(claims, models.ScheduleKindSingle)
	require.NoError(t, err)

	scheduleID := models.Identity{0x51}
	feeAccount := models.Identity{0x52}

	ctrl := gomock.NewController(t)
	vc := mock.NewMockVaultClient(ctrl)

	view := models.ScheduleView{Schedule: models.Schedule{ID: scheduleID, MerkleRoot: tree.Root()}, ClaimCount: 3}
	vc.EXPECT().GetSchedule(gomock.Any(), scheduleID).Return(view, nil)
	vc.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req models.Request) (models.Receipt, error) {
		require.Equal(t, models.RequestRedeem, req.Kind)
		require.NotNil(t, req.Redeem)
		assert.Equal(t, claims[1], req.Redeem.Claim)
		assert.Equal(t, feeAccount, req.Redeem.VaultFeeAccount)
		assert.True(t, merkle.Verify(merkle.LeafHash(req.Redeem.Claim, models.ScheduleKindSingle), req.Redeem.Proof, tree.Root()))
		return models.Receipt{Kind: models.RequestRedeem, Redemption: &models.Redemption{ScheduleID: scheduleID, Index: 1}}, nil
	})

	app, out := newTestApp(t)
	var key ed25519.PrivateKey
	withMockClient(app, vc, &key)

	require.NoError(t, app.Run([]string{
		"--passphrase", "pw", "--key", keyPath,
		"redeem", "--schedule", scheduleID.String(), "--claims", claimsPath, "--index", "1",
		"--vault-fee-account", feeAccount.String(),
	}))
	assert.NotNil(t, key)

	var receipt models.Receipt
	require.NoError(t, json.Unmarshal(out.Bytes(), &receipt))
	require.NotNil(t, receipt.Redemption)
	assert.Equal(t, uint16(1), receipt.Redemption.Index)
}

func TestRedeem_RootMismatchDoesNotSubmit(t *testing.T) {
	keyPath, _ := keygen(t)
	claimsPath := writeClaims(t, testClaims())
	scheduleID := models.Identity{0x51}

	ctrl := gomock.NewController(t)
	vc := mock.NewMockVaultClient(ctrl)
	vc.EXPECT().GetSchedule(gomock.Any(), scheduleID).
		Return(models.ScheduleView{Schedule: models.Schedule{ID: scheduleID, MerkleRoot: models.Hash{0xff}}}, nil)

	app, _ := newTestApp(t)
	withMockClient(app, vc, nil)

	err := app.Run([]string{
		"--passphrase", "pw", "--key", keyPath,
		"redeem", "--schedule", scheduleID.String(), "--claims", claimsPath, "--index", "0",
	})
	assert.ErrorIs(t, err, ErrRootMismatch)
}

func TestRedeem_UnknownIndex(t *testing.T) {
	app, _ := newTestApp(t)
	err := app.Run([]string{
		"redeem", "--schedule", models.Identity{1}.String(), "--claims", writeClaims(t, testClaims()), "--index", "9",
	})
	assert.ErrorIs(t, err, ErrClaimNotInList)
}

func TestSubmit(t *testing.T) {
	keyPath, _ := keygen(t)
	req := models.Request{Kind: models.RequestCreateVault, CreateVault: &models.CreateVaultRequest{Path: "treasury"}}
	data, err := json.Marshal(req)
	require.NoError(t, err)
	reqPath := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(reqPath, data, 0o600))

	ctrl := gomock.NewController(t)
	vc := mock.NewMockVaultClient(ctrl)
	vc.EXPECT().Submit(gomock.Any(), req).Return(models.Receipt{Kind: models.RequestCreateVault, Vault: &models.Vault{Path: "treasury"}}, nil)

	app, out := newTestApp(t)
	withMockClient(app, vc, nil)

	require.NoError(t, app.Run([]string{"--passphrase", "pw", "--key", keyPath, "submit", "-f", reqPath}))
	assert.Contains(t, out.String(), `"treasury"`)
}

func TestGet(t *testing.T) {
	scheduleID := models.Identity{0x51}

	ctrl := gomock.NewController(t)
	vc := mock.NewMockVaultClient(ctrl)
	vc.EXPECT().IsRedeemed(gomock.Any(), scheduleID, uint16(7)).
		Return(models.RedemptionStatus{ScheduleID: scheduleID, Index: 7, Redeemed: true}, nil)
	vc.EXPECT().GetAccount(gomock.Any(), gomock.Any()).Return(models.Account{}, adapter.ErrNotFound)

	app, out := newTestApp(t)
	key := ed25519.PrivateKey{1}
	withMockClient(app, vc, &key)

	require.NoError(t, app.Run([]string{"get", "redeemed", scheduleID.String(), "7"}))
	assert.Nil(t, key, "reads must not load a signing key")

	var status models.RedemptionStatus
	require.NoError(t, json.Unmarshal(out.Bytes(), &status))
	assert.True(t, status.Redeemed)

	app, _ = newTestApp(t)
	withMockClient(app, vc, nil)
	assert.ErrorIs(t, app.Run([]string{"get", "account", models.Identity{2}.String()}), adapter.ErrNotFound)

	app, _ = newTestApp(t)
	assert.Error(t, app.Run([]string{"get", "redeemed", scheduleID.String(), "70000"}))
}
