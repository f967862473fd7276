// Package config loads tool configuration from the environment and an
// optional config file. Flags still override anything loaded here.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config carries the settings shared by all subcommands.
type Config struct {
	// Salt feeds the hash action. Empty is allowed but produces
	// linkable pseudonyms across deployments.
	Salt string `mapstructure:"SALT"`
	// Profile is the default anonymization profile name.
	Profile string `mapstructure:"PROFILE"`
	// FailOnRisk is a risk percentage threshold; negative disables it.
	FailOnRisk float64 `mapstructure:"FAIL_ON_RISK"`
	// Debug enables debug-level logging.
	Debug bool `mapstructure:"DEBUG"`
}

// Load reads configuration from PRIVACYKIT_* environment variables and
// an optional .privacykit.env file in the working directory.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".privacykit.env")
	v.SetConfigType("env")
	v.SetEnvPrefix("PRIVACYKIT")
	v.AutomaticEnv()

	v.SetDefault("SALT", "")
	v.SetDefault("PROFILE", "basic")
	v.SetDefault("FAIL_ON_RISK", -1.0)
	v.SetDefault("DEBUG", false)

	v.BindEnv("SALT")
	v.BindEnv("PROFILE")
	v.BindEnv("FAIL_ON_RISK")
	v.BindEnv("DEBUG")

	// The config file is optional.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
