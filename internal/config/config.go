// Package config loads prfcdc CLI settings from a config file and
// environment variables via viper; flag overrides are applied on top of
// the result by cmd/prfcdc.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the settings the prfcdc command-line tool needs beyond
// what the library itself requires at construction time.
type Config struct {
	// KeyHex is the hex-encoded 32-byte master key. Empty means "generate
	// a random key and print it," matching the "must be explicit, no
	// default key" stance of a keyed chunker.
	KeyHex string `mapstructure:"key_hex"`

	// Variant selects the fingerprint variant by name: "poly", "aes", or
	// "aes-alt".
	Variant string `mapstructure:"variant"`

	// MetricsAddr, when non-empty, serves Prometheus metrics on this
	// address (e.g. ":9090") for the duration of the run.
	MetricsAddr string `mapstructure:"metrics_addr"`

	// KeyFile, when non-empty, is read for the master key and watched for
	// changes; a change is only logged, and the new key takes effect on the
	// next run of the command (never mid-stream; see cmd/prfcdc).
	KeyFile string `mapstructure:"key_file"`

	// LogLevel is a logrus level name ("debug", "info", "warn", "error").
	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from (in increasing precedence) defaults, an
// optional config file named prfcdc.yaml on the search path, and
// PRFCDC_-prefixed environment variables.
func Load(configFile string) (Config, error) {
	v := viper.New()
	v.SetDefault("variant", "poly")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("PRFCDC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("prfcdc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/prfcdc")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && configFile != "" {
			return Config{}, fmt.Errorf("config: reading %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	return cfg, nil
}
