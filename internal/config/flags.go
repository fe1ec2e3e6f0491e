package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// NetAddress is a host:port flag value.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the process command line.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-program-id base58 program id
//	-native-mint-authority base58 identity allowed to mint native currency
//	-max-proof-length redemption proof length cap
//	-log-level zerolog level
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-token-max-age maximum signed token lifetime
//	-redis redis address host:port for events and replay protection
//	-stats-spec cron spec of the statistics worker
func ParseFlags() (*StructuredConfig, error) {
	return parseFlags(flag.CommandLine, os.Args[1:])
}

func parseFlags(fs *flag.FlagSet, args []string) (*StructuredConfig, error) {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var programID string
	var nativeMintAuthority string
	var maxProofLength int
	var logLevel string
	var requestTimeout time.Duration
	var tokenMaxAge time.Duration
	var redisAddress string
	var statsSpec string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&programID, "program-id", "", "Base58 program id")
	fs.StringVar(&nativeMintAuthority, "native-mint-authority", "", "Base58 native mint authority")
	fs.IntVar(&maxProofLength, "max-proof-length", 0, "Maximum Merkle proof length")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&tokenMaxAge, "token-max-age", 0, "Maximum signed token lifetime")
	fs.StringVar(&redisAddress, "redis", "", "Redis address host:port")
	fs.StringVar(&statsSpec, "stats-spec", "", "Cron spec of the statistics worker")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			ProgramID:           programID,
			NativeMintAuthority: nativeMintAuthority,
			MaxProofLength:      maxProofLength,
			LogLevel:            logLevel,
		},
		Storage: Storage{
			DB: DB{DSN: databaseDSN},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
			TokenMaxAge:    tokenMaxAge,
		},
		Events: Events{
			RedisAddress: redisAddress,
		},
		Workers: Workers{
			StatsSpec: statsSpec,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns host:port, or "" when nothing was set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses host:port. The host must be an IP address or "localhost".
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
