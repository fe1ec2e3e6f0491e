package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors StructuredConfig in the JSON file layout.
type StructuredJSONConfig struct {
	App struct {
		ProgramID           string `json:"program_id"`
		NativeMintAuthority string `json:"native_mint_authority"`
		MaxProofLength      int    `json:"max_proof_length"`
		LogLevel            string `json:"log_level"`
		Version             string `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN          string `json:"dsn"`
			MaxOpenConns int    `json:"max_open_conns"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		TokenMaxAge     Duration `json:"token_max_age"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
	} `json:"server,omitempty"`

	Events struct {
		RedisAddress  string `json:"redis_address"`
		RedisPassword string `json:"redis_password"`
		RedisDB       int    `json:"redis_db"`
		Stream        string `json:"stream"`
		StreamMaxLen  int64  `json:"stream_max_len"`
	} `json:"events,omitempty"`

	Workers struct {
		StatsSpec string `json:"stats_spec"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		App: App{
			ProgramID:           jsonCfg.App.ProgramID,
			NativeMintAuthority: jsonCfg.App.NativeMintAuthority,
			MaxProofLength:      jsonCfg.App.MaxProofLength,
			LogLevel:            jsonCfg.App.LogLevel,
			Version:             jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN:          jsonCfg.Storage.DB.DSN,
				MaxOpenConns: jsonCfg.Storage.DB.MaxOpenConns,
			},
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			TokenMaxAge:     time.Duration(jsonCfg.Server.TokenMaxAge),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
		},
		Events: Events{
			RedisAddress:  jsonCfg.Events.RedisAddress,
			RedisPassword: jsonCfg.Events.RedisPassword,
			RedisDB:       jsonCfg.Events.RedisDB,
			Stream:        jsonCfg.Events.Stream,
			StreamMaxLen:  jsonCfg.Events.StreamMaxLen,
		},
		Workers: Workers{
			StatsSpec: jsonCfg.Workers.StatsSpec,
		},
	}, nil
}

// Duration accepts "1h"-style strings or integer nanoseconds in JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
