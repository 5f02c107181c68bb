// Package common provides shared utilities for the sdc-map CLI commands.
//
// This package contains helpers used across the standalone binaries
// (sdc-map, admin) to reduce code duplication:
//
//   - Decryption key loading and generation
//   - YAML configuration loading with .env support
package common

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/miniBill/sdc-map/crypto"
	"github.com/miniBill/sdc-map/store"
)

// Config is the YAML configuration shared by the binaries.
type Config struct {
	// HTTPAddr is the collection server's listen address.
	HTTPAddr string `yaml:"http_addr"`

	// AdminKey gates the privileged answers fetch. It is independent of
	// the decryption secret.
	AdminKey string `yaml:"admin_key"`

	// GeoDir, if set, is a local directory of boundary dataset files
	// served under /geo.
	GeoDir string `yaml:"geo_dir"`

	// DrainDuration is how long the server keeps answering after being
	// marked not ready, before shutting down.
	DrainDuration time.Duration `yaml:"drain_duration"`

	Store store.SQLConfig `yaml:"store"`
}

// DefaultConfig returns a config with the defaults a local run needs.
func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:      ":8080",
		DrainDuration: 5 * time.Second,
	}
}

// LoadConfig reads a YAML config file. A .env file in the working
// directory, if present, is loaded first so the YAML can be expanded from
// the environment by the caller's deployment tooling.
func LoadConfig(path string) (*Config, error) {
	// Missing .env is fine, it is a local development convenience.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadOrGenerateKey loads an X25519 decryption key from a hex string, or
// generates a fresh key pair if hexKey is empty.
func LoadOrGenerateKey(hexKey string) (crypto.PrivateKey, error) {
	if hexKey != "" {
		return crypto.NewPrivateKeyFromString(hexKey)
	}
	_, privKey, err := crypto.GenerateKeyPair()
	return privKey, err
}
