package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr string           `yaml:"listen_addr" env:"PHASEGATE_LISTEN_ADDR"`
	PolicyPath string           `yaml:"policy_path" env:"PHASEGATE_POLICY_PATH"`
	DB         DBConfig         `yaml:"db"`
	SigningKey SigningKeyConfig `yaml:"signing_key"`
	Auth       AuthConfig       `yaml:"auth"`
}

type DBConfig struct {
	Driver string `yaml:"driver" env:"PHASEGATE_DB_DRIVER"`
	DSN    string `yaml:"dsn" env:"PHASEGATE_DB_DSN"`
}

type SigningKeyConfig struct {
	KeyID          string `yaml:"key_id" env:"PHASEGATE_SIGNING_KEY_ID"`
	PrivateKeyPath string `yaml:"private_key_path" env:"PHASEGATE_SIGNING_KEY_PATH"`
}

type AuthConfig struct {
	DevToken string `yaml:"dev_token" env:"PHASEGATE_DEV_TOKEN"`
}

// Load reads a YAML config, expands $VAR references, then applies
// environment-variable overrides on top.
func Load(path string) (Config, error) {
	// #nosec G304 -- path is operator-provided config path.
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	expanded := os.ExpandEnv(string(raw))
	expanded = strings.ReplaceAll(expanded, "\r\n", "\n")

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, err
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env overrides: %w", err)
	}
	return cfg, cfg.Validate()
}

// FromEnv builds a config from environment variables alone.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	if c.PolicyPath == "" {
		return fmt.Errorf("policy_path is required")
	}
	if c.DB.Driver != "" && c.DB.DSN == "" {
		return fmt.Errorf("db.dsn is required when db.driver is set")
	}
	switch c.DB.Driver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported db.driver: %s", c.DB.Driver)
	}
	return nil
}
