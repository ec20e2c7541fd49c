// Package config handles configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the compositor-wide input configuration.
type Config struct {
	// Seat is the default seat setup applied at startup.
	Seat SeatConfig `mapstructure:"seat"`
}

// SeatConfig configures a single seat's keyboard.
type SeatConfig struct {
	Name     string         `mapstructure:"name"`
	Keyboard KeyboardConfig `mapstructure:"keyboard"`
}

// KeyboardConfig holds the RMLVO keymap-selection quintuple plus repeat
// timing. Any field left empty defers to the matching XKB_DEFAULT_*
// environment variable at keymap-compile time (see internal/xkb).
type KeyboardConfig struct {
	Rules   string `mapstructure:"rules"`
	Model   string `mapstructure:"model"`
	Layout  string `mapstructure:"layout"`
	Variant string `mapstructure:"variant"`
	Options string `mapstructure:"options"`

	RepeatRate  int32 `mapstructure:"repeat_rate"`
	RepeatDelay int32 `mapstructure:"repeat_delay"`
}

// DefaultConfig provides sensible defaults: an empty RMLVO (deferring to
// the environment, exactly as libxkbcommon does) and the repeat timing
// Smithay's anvil compositor ships with.
var DefaultConfig = Config{
	Seat: SeatConfig{
		Name: "seat0",
		Keyboard: KeyboardConfig{
			RepeatRate:  25,
			RepeatDelay: 600,
		},
	},
}

var cfg *Config

// Init initializes the configuration system: defaults, then an optional
// waycore.toml in /etc/waycore, $HOME/.config/waycore, or the working
// directory, then WAYCORE_-prefixed environment overrides.
func Init() error {
	viper.SetConfigName("waycore")
	viper.SetConfigType("toml")

	viper.AddConfigPath("/etc/waycore")
	if home := os.Getenv("HOME"); home != "" {
		viper.AddConfigPath(filepath.Join(home, ".config", "waycore"))
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("WAYCORE")
	viper.AutomaticEnv()

	viper.SetDefault("seat", DefaultConfig.Seat)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return nil
}

// Get returns the current configuration, defaults if Init was never called.
func Get() *Config {
	if cfg == nil {
		return &DefaultConfig
	}
	return cfg
}
