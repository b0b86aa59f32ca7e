package config

import (
	"errors"
	"fmt"
	"net"
	"os"

	"gopkg.in/yaml.v3"
	"vp21rc/internal/logger"
)

// DefaultPath is the config file read when --config is not given
const DefaultPath = "vp21rc.yml"

// Config represents the vp21rc configuration file
type Config struct {
	Serial SerialConfig `yaml:"serial"`
	Log    LogConfig    `yaml:"log"`
	API    APIConfig    `yaml:"api"`
}

// SerialConfig selects the projector port
type SerialConfig struct {
	Port string `yaml:"port"` // opened at startup when set
}

// LogConfig contains logging settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// APIConfig contains HTTP control API settings
type APIConfig struct {
	Listen           string `yaml:"listen"`
	JWTSecret        string `yaml:"jwt_secret"` // auth disabled when empty
	JWTIssuer        string `yaml:"jwt_issuer"`
	TokenExpiryHours int    `yaml:"token_expiry_hours"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: logger.LOG_INFO},
		API: APIConfig{
			Listen:           "127.0.0.1:8021",
			JWTIssuer:        "vp21rc",
			TokenExpiryHours: 24,
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults; the file is never written.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !logger.ValidLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}

	if _, _, err := net.SplitHostPort(c.API.Listen); err != nil {
		return fmt.Errorf("api.listen: %w", err)
	}

	if c.API.JWTSecret != "" && len(c.API.JWTSecret) < 16 {
		return fmt.Errorf("api.jwt_secret must be at least 16 characters")
	}

	if c.API.TokenExpiryHours <= 0 {
		return fmt.Errorf("api.token_expiry_hours must be positive")
	}

	return nil
}

// AuthEnabled reports whether the API requires bearer tokens
func (c *Config) AuthEnabled() bool {
	return c.API.JWTSecret != ""
}
