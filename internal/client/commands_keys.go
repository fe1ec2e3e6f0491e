package client

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"strconv"

	"github.com/MKhiriev/go-claim-vault/internal/crypto"
	"github.com/MKhiriev/go-claim-vault/models"
)

type keygenCommand struct {
	app *App

	Out string `short:"o" long:"out" required:"yes" description:"path of the key file to create"`
}

func (c *keygenCommand) Execute([]string) error {
	if c.app.Options.Passphrase == "" {
		c.app.logger().Warn().Msg("sealing key with an empty passphrase")
	}

	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	file, err := c.app.keys.Seal(key, c.app.Options.Passphrase)
	if err != nil {
		return err
	}
	if err = crypto.WriteKeyFile(c.Out, file); err != nil {
		return err
	}

	c.app.logger().Info().Str("path", c.Out).Msg("key file written")
	return c.app.print(map[string]string{"signer": file.Signer, "key_file": c.Out})
}

type whoamiCommand struct {
	app *App
}

func (c *whoamiCommand) Execute([]string) error {
	key, err := c.app.loadKey()
	if err != nil {
		return err
	}
	signer, err := models.IdentityFromBytes(key.Public().(ed25519.PublicKey))
	if err != nil {
		return err
	}
	return c.app.print(map[string]string{"signer": signer.String()})
}

type addressCommand struct {
	app *App

	Args struct {
		Kind   string   `positional-arg-name:"kind" choice:"vault" choice:"schedule" choice:"signer" choice:"account" choice:"mint"`
		Values []string `positional-arg-name:"value"`
	} `positional-args:"yes" required:"yes"`
}

type addressResult struct {
	Kind    string          `json:"kind"`
	Address models.Identity `json:"address"`
	Nonce   *uint8          `json:"nonce,omitempty"`
}

func (c *addressCommand) Execute([]string) error {
	d, err := c.app.deriver()
	if err != nil {
		return err
	}

	values := c.Args.Values
	want := map[string]int{"vault": 1, "schedule": 1, "signer": 1, "account": 2, "mint": 2}[c.Args.Kind]
	if len(values) != want {
		return fmt.Errorf("address %s takes %d argument(s), got %d", c.Args.Kind, want, len(values))
	}

	res := addressResult{Kind: c.Args.Kind}
	switch c.Args.Kind {
	case "vault":
		res.Address, err = d.VaultAddress(values[0])
	case "schedule":
		var eventID uint64
		if eventID, err = strconv.ParseUint(values[0], 10, 64); err != nil {
			return fmt.Errorf("invalid event id: %w", err)
		}
		res.Address, err = d.ScheduleAddress(eventID)
	case "signer":
		var (
			vaultID models.Identity
			nonce   uint8
		)
		if vaultID, err = models.ParseIdentity(values[0]); err != nil {
			return fmt.Errorf("invalid vault id: %w", err)
		}
		res.Address, nonce, err = d.SignerAddress(vaultID)
		res.Nonce = &nonce
	case "account":
		var owner, mint models.Identity
		if owner, err = models.ParseIdentity(values[0]); err != nil {
			return fmt.Errorf("invalid owner: %w", err)
		}
		if mint, err = models.ParseIdentity(values[1]); err != nil {
			return fmt.Errorf("invalid mint: %w", err)
		}
		res.Address, err = d.AccountAddress(owner, mint)
	case "mint":
		var auth models.Identity
		if auth, err = models.ParseIdentity(values[0]); err != nil {
			return fmt.Errorf("invalid authority: %w", err)
		}
		res.Address, err = d.MintAddress(auth, values[1])
	}
	if err != nil {
		return err
	}

	return c.app.print(res)
}
