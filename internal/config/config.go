// Package config loads the attestator tool settings from ATTESTATOR_*
// environment variables.
package config

import (
	"crypto/ecdsa"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pnetwork/event-attestator/attestation"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "ATTESTATOR_"

// DefaultPrivateKeyFile is where the key is read from when nothing else is set.
const DefaultPrivateKeyFile = "./attestator.key"

type Config struct {
	// PrivateKey is a hex key; when set it takes precedence over PrivateKeyFile.
	PrivateKey     string `env:"PRIVATE_KEY"`
	PrivateKeyFile string `env:"PRIVATE_KEY_FILE" envDefault:"./attestator.key"`

	Protocol   string `env:"PROTOCOL" envDefault:"evm" validate:"oneof=evm eos"`
	Chain      string `env:"CHAIN" envDefault:"mainnet" validate:"required"`
	Format     string `env:"SIGNATURE_FORMAT" envDefault:"evm" validate:"oneof=evm eos"`
	BatchLimit int    `env:"BATCH_LIMIT" envDefault:"0" validate:"gte=0,lte=1024"`

	Output    string `env:"OUTPUT" envDefault:"text" validate:"oneof=text json markdown"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console" validate:"oneof=console json"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"false"`
}

// Load reads the process environment.
func Load() (*Config, error) {
	return load(env.Options{Prefix: EnvPrefix})
}

// LoadFrom reads the given variables instead of the process environment.
// Keys carry the ATTESTATOR_ prefix.
func LoadFrom(environ map[string]string) (*Config, error) {
	return load(env.Options{Prefix: EnvPrefix, Environment: environ})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints. It is re-run after flags override fields.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// Context resolves Protocol and Chain into an attestation context.
func (c *Config) Context() (attestation.Context, error) {
	protocol, err := attestation.ParseProtocolID(c.Protocol)
	if err != nil {
		return attestation.Context{}, err
	}
	return c.ContextFor(protocol)
}

// ContextFor resolves Chain within the catalog of the given protocol,
// ignoring the configured Protocol.
func (c *Config) ContextFor(protocol attestation.ProtocolID) (attestation.Context, error) {
	chain, err := attestation.ResolveChain(protocol, c.Chain)
	if err != nil {
		return attestation.Context{}, errors.Wrapf(err, "chain %q", c.Chain)
	}
	return attestation.NewContext(protocol, chain), nil
}

func (c *Config) SignatureFormat() (attestation.SignatureFormat, error) {
	return attestation.ParseSignatureFormat(c.Format)
}

// LoadPrivateKey returns the inline key if present, otherwise the contents of
// PrivateKeyFile.
func (c *Config) LoadPrivateKey() (*ecdsa.PrivateKey, error) {
	if c.PrivateKey != "" {
		return attestation.PrivateKeyFromHex(c.PrivateKey)
	}
	raw, err := os.ReadFile(c.PrivateKeyFile)
	if err != nil {
		return nil, errors.Wrapf(err, "read private key file %s", c.PrivateKeyFile)
	}
	key, err := attestation.PrivateKeyFromHex(string(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "private key file %s", c.PrivateKeyFile)
	}
	return key, nil
}

// Logger builds a production zap logger at the configured level and encoding.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Encoding = c.LogFormat
	if c.LogFormat == "console" {
		zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	return zcfg.Build()
}
