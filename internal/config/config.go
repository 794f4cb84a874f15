// Package config reads the medchain configuration from MEDCHAIN_* environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gabapcia/medchain/internal/pkg/types"
	"github.com/gabapcia/medchain/internal/pkg/validator"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	envPrefix     = "MEDCHAIN"
	defaultDotEnv = ".env"
)

type Config struct {
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	ServiceName      string `envconfig:"SERVICE_NAME" default:"medchain" validate:"required"`
	TelemetryEnabled bool   `envconfig:"TELEMETRY_ENABLED" default:"false"`

	Simulator Simulator `envconfig:"SIMULATOR"`
	Notify    Notify    `envconfig:"NOTIFY"`
}

type Simulator struct {
	ChainID     types.Hex `envconfig:"CHAIN_ID" default:"0x7a69" validate:"required"`
	NetworkID   uint64    `envconfig:"NETWORK_ID" default:"31337"`
	NetworkName string    `envconfig:"NETWORK_NAME" default:"Hardhat Localhost" validate:"required"`

	GasPrice             uint64 `envconfig:"GAS_PRICE" default:"20000000000"`
	MaxPriorityFeePerGas uint64 `envconfig:"MAX_PRIORITY_FEE_PER_GAS" default:"2000000000"`
	MaxFeePerGas         uint64 `envconfig:"MAX_FEE_PER_GAS" default:"40000000000" validate:"gtefield=MaxPriorityFeePerGas"`

	ConfirmationMinDelay time.Duration `envconfig:"CONFIRMATION_MIN_DELAY" default:"2s" validate:"gte=0"`
	ConfirmationMaxDelay time.Duration `envconfig:"CONFIRMATION_MAX_DELAY" default:"5s" validate:"gtefield=ConfirmationMinDelay"`

	// Seed makes identifiers and delays reproducible when set.
	Seed *uint64 `envconfig:"SEED"`
}

// Notify configures the optional notification sinks; a sink is enabled by
// setting its address, brokers or URL.
type Notify struct {
	RedisAddr     string `envconfig:"REDIS_ADDR" validate:"omitempty,hostname_port"`
	RedisUsername string `envconfig:"REDIS_USERNAME"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0" validate:"gte=0"`
	RedisChannel  string `envconfig:"REDIS_CHANNEL" default:"medchain:notifications"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" validate:"dive,hostname_port"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"medchain-notifications"`

	WebhookURL      string        `envconfig:"WEBHOOK_URL" validate:"omitempty,http_url"`
	WebhookTimeout  time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"5s" validate:"gt=0"`
	WebhookRetryMax int           `envconfig:"WEBHOOK_RETRY_MAX" default:"2" validate:"gte=0"`

	RetryAttempts uint          `envconfig:"RETRY_ATTEMPTS" default:"3" validate:"gte=1"`
	RetryDelay    time.Duration `envconfig:"RETRY_DELAY" default:"200ms"`
	RetryMaxDelay time.Duration `envconfig:"RETRY_MAX_DELAY" default:"2s" validate:"gtefield=RetryDelay"`
}

// Load reads the configuration. Variables already present in the
// environment take precedence over the dotenv files, which default to
// ".env" and are skipped when missing.
func Load(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{defaultDotEnv}
	}

	for _, file := range dotenvFiles {
		if err := loadDotEnv(file); err != nil {
			return Config{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadDotEnv(file string) error {
	if _, err := os.Stat(file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	return godotenv.Load(file)
}
