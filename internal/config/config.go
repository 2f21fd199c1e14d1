package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the client configuration, loaded from a YAML file with
// environment variable overrides for the secrets.
type Config struct {
	Remote   RemoteConfig   `mapstructure:"remote"`
	Timeouts TimeoutConfig  `mapstructure:"timeouts"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Coach    CoachConfig    `mapstructure:"coach"`
}

// RemoteConfig locates the hosted backend.
type RemoteConfig struct {
	URL     string `mapstructure:"url"`
	AnonKey string `mapstructure:"anon_key"`
}

// TimeoutConfig bounds remote calls. An AI invocation that never
// settles would strand the coach outside idle, so both are mandatory.
type TimeoutConfig struct {
	Request time.Duration `mapstructure:"request"`
	AI      time.Duration `mapstructure:"ai"`
}

// RedisConfig enables the optional warm-start snapshot cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CoachConfig tunes the coach presentation.
type CoachConfig struct {
	// RevealInterval is the delay between characters in the typed
	// reveal. Zero means print instantly.
	RevealInterval time.Duration `mapstructure:"reveal_interval"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Timeouts: TimeoutConfig{
			Request: 10 * time.Second,
			AI:      45 * time.Second,
		},
		Coach: CoachConfig{
			RevealInterval: 20 * time.Millisecond,
		},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "tend.yaml"
	}
	return filepath.Join(base, "tend", "config.yaml")
}

// Load reads the config file at path (missing file is fine: defaults
// apply), then applies environment overrides TEND_REMOTE_URL and
// TEND_ANON_KEY.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file: defaults + env only.
	case err != nil:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := decode(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if v := os.Getenv("TEND_REMOTE_URL"); v != "" {
		cfg.Remote.URL = v
	}
	if v := os.Getenv("TEND_ANON_KEY"); v != "" {
		cfg.Remote.AnonKey = v
	}

	return cfg, nil
}

// decode parses YAML into a generic map first, then maps it onto the
// typed struct so duration strings like "10s" work in the file.
func decode(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config yaml: %w", err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     cfg,
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
