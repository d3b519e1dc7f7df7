package helper

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Default file modes for written material. Key material is owner-only.
const (
	defaultCertFileMode = os.FileMode(0o644)
	defaultKeyFileMode  = os.FileMode(0o600)
)

// Config drives one helper run.
//
// Example:
//
//	endpoint_address: unix:///tmp/spire-agent/public/api.sock
//	cert_file_path: /run/identity/svid.pem
//	key_file_path: /run/identity/svid_key.pem
//	bundle_file_path: /run/identity/bundle.pem
//	key_file_mode: "0600"
//	oneshot: false
type Config struct {
	// EndpointAddress overrides the Workload API endpoint address normally
	// resolved from the SPIFFE_ENDPOINT_SOCKET environment variable.
	EndpointAddress string `yaml:"endpoint_address"`

	// CertFilePath receives the PEM certificate chain, leaf first. Required.
	CertFilePath string `yaml:"cert_file_path"`

	// KeyFilePath receives the PEM PKCS#8 private key. Required.
	KeyFilePath string `yaml:"key_file_path"`

	// BundleFilePath receives the PEM trust roots of every trust domain in
	// the update. Required.
	BundleFilePath string `yaml:"bundle_file_path"`

	// CertFileMode is the octal mode for certificate and bundle files
	// (default "0644").
	CertFileMode string `yaml:"cert_file_mode"`

	// KeyFileMode is the octal mode for the key file (default "0600").
	KeyFileMode string `yaml:"key_file_mode"`

	// Hint selects the credential with a matching hint instead of the
	// default (first) one.
	Hint string `yaml:"hint"`

	// Oneshot writes the first update and exits instead of staying
	// subscribed for rotation.
	Oneshot bool `yaml:"oneshot"`
}

// LoadConfig reads and parses a helper configuration file.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) // #nosec G304 - config file path is trusted (from admin/user)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Validate checks required fields, naming the first missing one.
func (c *Config) Validate() error {
	if c.CertFilePath == "" {
		return fmt.Errorf("cert_file_path config is missing")
	}
	if c.KeyFilePath == "" {
		return fmt.Errorf("key_file_path config is missing")
	}
	if c.BundleFilePath == "" {
		return fmt.Errorf("bundle_file_path config is missing")
	}
	if _, err := c.certFileMode(); err != nil {
		return err
	}
	if _, err := c.keyFileMode(); err != nil {
		return err
	}
	return nil
}

func (c *Config) certFileMode() (os.FileMode, error) {
	return parseFileMode("cert_file_mode", c.CertFileMode, defaultCertFileMode)
}

func (c *Config) keyFileMode() (os.FileMode, error) {
	return parseFileMode("key_file_mode", c.KeyFileMode, defaultKeyFileMode)
}

func parseFileMode(field, value string, fallback os.FileMode) (os.FileMode, error) {
	if value == "" {
		return fallback, nil
	}
	mode, err := strconv.ParseUint(value, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("%s config is not a valid octal mode: %q", field, value)
	}
	return os.FileMode(mode), nil
}
