package client

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/MKhiriev/go-claim-vault/models"
)

var ErrRootMismatch = errors.New("claim list does not match the schedule's merkle root")

type submitCommand struct {
	app *App

	File string `short:"f" long:"file" default:"-" description:"JSON request document, - for stdin"`
}

func (c *submitCommand) Execute([]string) error {
	var req models.Request
	if err := readJSON(c.File, &req); err != nil {
		return err
	}

	client, err := c.app.client(true)
	if err != nil {
		return err
	}

	ctx, cancel := c.app.context()
	defer cancel()

	receipt, err := client.Submit(ctx, req)
	if err != nil {
		return err
	}
	return c.app.print(receipt)
}

type redeemCommand struct {
	app *App
	claimList

	Schedule   string `short:"s" long:"schedule" required:"yes" description:"schedule id"`
	Index      uint16 `short:"i" long:"index" required:"yes" description:"claim index to redeem"`
	SkipVerify bool   `long:"skip-verify" description:"do not compare the local root with the schedule before submitting"`

	VaultReceivingAccount    string `long:"vault-receiving-account" description:"override the vault payout account"`
	VaultFeeAccount          string `long:"vault-fee-account" description:"override the vault fee account"`
	ClaimantReceivingAccount string `long:"claimant-receiving-account" description:"override the claimant payout account"`
	ClaimantSendingAccount   string `long:"claimant-sending-account" description:"override the claimant fee account"`
}

func (c *redeemCommand) Execute([]string) error {
	scheduleID, err := models.ParseIdentity(c.Schedule)
	if err != nil {
		return fmt.Errorf("invalid schedule id: %w", err)
	}

	claims, _, tree, err := c.load()
	if err != nil {
		return err
	}
	claim, proof, err := proofFor(claims, tree, c.Index)
	if err != nil {
		return err
	}

	req := &models.RedeemRequest{ScheduleID: scheduleID, Claim: claim, Proof: proof}
	overrides := []struct {
		raw string
		dst *models.Identity
	}{
		{c.VaultReceivingAccount, &req.VaultReceivingAccount},
		{c.VaultFeeAccount, &req.VaultFeeAccount},
		{c.ClaimantReceivingAccount, &req.ClaimantReceivingAccount},
		{c.ClaimantSendingAccount, &req.ClaimantSendingAccount},
	}
	for _, o := range overrides {
		if o.raw == "" {
			continue
		}
		if *o.dst, err = models.ParseIdentity(o.raw); err != nil {
			return fmt.Errorf("invalid account %q: %w", o.raw, err)
		}
	}

	client, err := c.app.client(true)
	if err != nil {
		return err
	}

	ctx, cancel := c.app.context()
	defer cancel()

	if !c.SkipVerify {
		view, err := client.GetSchedule(ctx, scheduleID)
		if err != nil {
			return err
		}
		if view.MerkleRoot != tree.Root() {
			return fmt.Errorf("%w: local %s, schedule %s", ErrRootMismatch, tree.Root(), view.MerkleRoot)
		}
	}

	c.app.logger().Debug().
		Str("schedule", scheduleID.String()).
		Uint16("index", claim.Index).
		Int("proof_len", len(proof)).
		Msg("submitting redeem")

	receipt, err := client.Submit(ctx, models.Request{Kind: models.RequestRedeem, Redeem: req})
	if err != nil {
		return err
	}
	return c.app.print(receipt)
}

type getCommand struct {
	app *App

	Args struct {
		Kind   string   `positional-arg-name:"kind" choice:"vault" choice:"schedule" choice:"account" choice:"redeemed" choice:"version"`
		Values []string `positional-arg-name:"value"`
	} `positional-args:"yes" required:"yes"`
}

func (c *getCommand) Execute([]string) error {
	values := c.Args.Values
	want := map[string]int{"vault": 1, "schedule": 1, "account": 1, "redeemed": 2, "version": 0}[c.Args.Kind]
	if len(values) != want {
		return fmt.Errorf("get %s takes %d argument(s), got %d", c.Args.Kind, want, len(values))
	}

	var id models.Identity
	if want > 0 {
		var err error
		if id, err = models.ParseIdentity(values[0]); err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
	}

	client, err := c.app.client(false)
	if err != nil {
		return err
	}

	ctx, cancel := c.app.context()
	defer cancel()

	var res any
	switch c.Args.Kind {
	case "vault":
		res, err = client.GetVault(ctx, id)
	case "schedule":
		res, err = client.GetSchedule(ctx, id)
	case "account":
		res, err = client.GetAccount(ctx, id)
	case "redeemed":
		var index uint64
		if index, err = strconv.ParseUint(values[1], 10, 16); err != nil {
			return fmt.Errorf("invalid index: %w", err)
		}
		res, err = client.IsRedeemed(ctx, id, uint16(index))
	case "version":
		res, err = client.Version(ctx)
	}
	if err != nil {
		return err
	}
	return c.app.print(res)
}
