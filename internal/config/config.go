// Package config loads the chatgrid service configuration from a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath       = "config.toml"
	DefaultHTTPAddr         = ":8080"
	DefaultGraphBaseURL     = "https://graph.facebook.com"
	DefaultGraphAPIVersion  = "v23.0"
	DefaultPGHost           = "127.0.0.1"
	DefaultPGPort           = 5432
	DefaultPGUser           = "postgres"
	DefaultPGDatabase       = "chatgrid"
	DefaultPGSSLMode        = "disable"
	DefaultDataRoot         = "data"
	DefaultMediaTimeoutSec  = 10
	DefaultMediaWorkers     = 4
	DefaultMediaQueueSize   = 256
	DefaultMediaMaxAttempts = 5
	DefaultMediaReconcile   = "@every 1m"
	DefaultEchoWindowSec    = 120
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Postgres PostgresConfig `toml:"postgres"`
	WhatsApp WhatsAppConfig `toml:"whatsapp"`
	Storage  StorageConfig  `toml:"storage"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format" validate:"omitempty,oneof=text json"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type PostgresConfig struct {
	Host     string `toml:"host" validate:"required"`
	Port     int    `toml:"port" validate:"gt=0,lte=65535"`
	User     string `toml:"user" validate:"required"`
	Password string `toml:"password"`
	Database string `toml:"database" validate:"required"`
	SSLMode  string `toml:"sslmode"`
}

// WhatsAppConfig holds provider-wide settings for the WhatsApp Cloud API.
// Per-number credentials (access token, phone number id) live on channel
// records, not here.
type WhatsAppConfig struct {
	GraphBaseURL string `toml:"graph_base_url" validate:"required,url"`
	APIVersion   string `toml:"api_version" validate:"required"`
	// VerifyToken answers the webhook subscription handshake.
	VerifyToken string `toml:"verify_token"`
	// AppSecret enables X-Hub-Signature-256 validation when non-empty.
	AppSecret string `toml:"app_secret"`
	// MediaTimeoutSeconds bounds each call to the provider media API.
	MediaTimeoutSeconds int `toml:"media_timeout_seconds" validate:"gt=0"`
	// MediaFetchWorkers is the size of the background media worker pool.
	MediaFetchWorkers int `toml:"media_fetch_workers" validate:"gt=0"`
	// MediaQueueSize bounds the in-flight media fetch queue.
	MediaQueueSize int `toml:"media_queue_size" validate:"gt=0"`
	// MediaMaxAttempts bounds fetches for a pending placeholder before the
	// reconciler gives up on it.
	MediaMaxAttempts int `toml:"media_max_attempts" validate:"gt=0"`
	// MediaReconcileSchedule is a cron spec for the pending-media sweep.
	MediaReconcileSchedule string `toml:"media_reconcile_schedule" validate:"required"`
	// EchoMatchWindowSeconds is the recency bound for echo deduplication.
	EchoMatchWindowSeconds int `toml:"echo_match_window_seconds" validate:"gt=0"`
}

type StorageConfig struct {
	DataRoot string `toml:"data_root" validate:"required"`
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		WhatsApp: WhatsAppConfig{
			GraphBaseURL:           DefaultGraphBaseURL,
			APIVersion:             DefaultGraphAPIVersion,
			MediaTimeoutSeconds:    DefaultMediaTimeoutSec,
			MediaFetchWorkers:      DefaultMediaWorkers,
			MediaQueueSize:         DefaultMediaQueueSize,
			MediaMaxAttempts:       DefaultMediaMaxAttempts,
			MediaReconcileSchedule: DefaultMediaReconcile,
			EchoMatchWindowSeconds: DefaultEchoWindowSec,
		},
		Storage: StorageConfig{
			DataRoot: DefaultDataRoot,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Validate()
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Validate checks structural constraints on the loaded configuration.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
