package client

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/MKhiriev/go-claim-vault/internal/adapter"
	"github.com/MKhiriev/go-claim-vault/internal/authority"
	"github.com/MKhiriev/go-claim-vault/internal/clock"
	"github.com/MKhiriev/go-claim-vault/internal/config"
	"github.com/MKhiriev/go-claim-vault/internal/crypto"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/models"
)

var ErrNoKeyFile = errors.New("no key file given, use --key or VAULTCTL_KEY")

// Options are shared by every command.
type Options struct {
	Server     string        `long:"server" env:"VAULTCTL_SERVER" default:"http://localhost:8080" description:"claim vault server address"`
	KeyFile    string        `short:"k" long:"key" env:"VAULTCTL_KEY" description:"sealed signer key file"`
	Passphrase string        `long:"passphrase" env:"VAULTCTL_PASSPHRASE" description:"passphrase of the key file"`
	ProgramID  string        `long:"program-id" env:"VAULTCTL_PROGRAM_ID" description:"program id used to derive addresses"`
	Timeout    time.Duration `long:"timeout" env:"VAULTCTL_TIMEOUT" default:"15s" description:"request timeout"`
	TokenTTL   time.Duration `long:"token-ttl" env:"VAULTCTL_TOKEN_TTL" default:"1m" description:"lifetime of each signed request token"`
	Verbose    bool          `short:"v" long:"verbose" description:"log debug output to stderr"`
}

type clientFactory func(cfg adapter.Config, key ed25519.PrivateKey, clk clock.Clock, log *logger.Logger) (adapter.VaultClient, error)

type App struct {
	Options Options

	parser    *flags.Parser
	keys      crypto.KeyStore
	clock     clock.Clock
	newClient clientFactory
	out       io.Writer

	log *logger.Logger
}

// NewApp registers every vaultctl command. Command output goes to out.
func NewApp(out io.Writer) *App {
	a := &App{
		keys:      crypto.NewKeyStore(),
		clock:     clock.System{},
		newClient: adapter.NewHTTPVaultClient,
		out:       out,
	}

	a.parser = flags.NewParser(&a.Options, flags.Default)
	a.parser.Name = "vaultctl"

	a.mustAddCommand("keygen", "Create a sealed signer key", "Generates an Ed25519 key and writes it sealed under the passphrase.", &keygenCommand{app: a})
	a.mustAddCommand("whoami", "Print the signer of the key file", "Opens the key file and prints the signer identity.", &whoamiCommand{app: a})
	a.mustAddCommand("address", "Derive a program address", "Derives vault, schedule, signer, account or mint addresses.", &addressCommand{app: a})
	a.mustAddCommand("tree", "Build a Merkle tree over a claim list", "Prints the root and a proof for every claim of a JSON claim list.", &treeCommand{app: a})
	a.mustAddCommand("submit", "Submit a signed request", "Reads a request document and submits it signed with the key file.", &submitCommand{app: a})
	a.mustAddCommand("redeem", "Redeem a claim", "Builds the proof for one claim of a claim list and submits a redeem request.", &redeemCommand{app: a})
	a.mustAddCommand("get", "Read vault state", "Reads a vault, schedule, account, redemption status or the server version.", &getCommand{app: a})

	return a
}

func (a *App) mustAddCommand(name, short, long string, data any) {
	if _, err := a.parser.AddCommand(name, short, long, data); err != nil {
		panic(fmt.Sprintf("register command %s: %v", name, err))
	}
}

func (a *App) Run(args []string) error {
	_, err := a.parser.ParseArgs(args)
	return err
}

func (a *App) logger() *logger.Logger {
	if a.log == nil {
		a.log = logger.NewCLILogger("vaultctl", a.Options.Verbose)
	}
	return a.log
}

func (a *App) deriver() (*authority.Deriver, error) {
	raw := a.Options.ProgramID
	if raw == "" {
		raw = config.DefaultProgramID
	}
	programID, err := models.ParseIdentity(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid program id: %w", err)
	}
	return authority.NewDeriver(programID), nil
}

func (a *App) loadKey() (ed25519.PrivateKey, error) {
	if a.Options.KeyFile == "" {
		return nil, ErrNoKeyFile
	}
	file, err := crypto.ReadKeyFile(a.Options.KeyFile)
	if err != nil {
		return nil, err
	}
	return a.keys.Open(file, a.Options.Passphrase)
}

// client returns a read-only client when signed is false.
func (a *App) client(signed bool) (adapter.VaultClient, error) {
	var key ed25519.PrivateKey
	if signed {
		var err error
		if key, err = a.loadKey(); err != nil {
			return nil, err
		}
	}

	return a.newClient(adapter.Config{
		HTTPAddress:    a.Options.Server,
		RequestTimeout: a.Options.Timeout,
		TokenTTL:       a.Options.TokenTTL,
	}, key, a.clock, a.logger())
}

func (a *App) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.Options.Timeout)
}

func (a *App) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSON(path string, v any) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err = json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
