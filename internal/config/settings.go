package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Settings are the user tunables read from config.yaml and ARBOR_* env vars.
type Settings struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// ShowHidden renders dot-entries in the tree.
	ShowHidden bool `mapstructure:"show_hidden"`

	// FollowLinksOnCopy copies the target of a symlink instead of the link.
	FollowLinksOnCopy bool `mapstructure:"follow_links_on_copy"`

	// AssumeYes confirms every plan and declines every rename without prompting.
	AssumeYes bool `mapstructure:"assume_yes"`

	// Accessible asks questions as plain line prompts instead of the TUI.
	Accessible bool `mapstructure:"accessible"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		LogLevel:   "warn",
		ShowHidden: true,
	}
}

// Load reads settings from the config file at p.Config, if present, with
// ARBOR_* environment variables taking precedence.
func Load(p *Paths) (*Settings, error) {
	v := viper.New()
	defaults := DefaultSettings()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("show_hidden", defaults.ShowHidden)
	v.SetDefault("follow_links_on_copy", defaults.FollowLinksOnCopy)
	v.SetDefault("assume_yes", defaults.AssumeYes)
	v.SetDefault("accessible", defaults.Accessible)

	v.SetEnvPrefix("arbor")
	v.AutomaticEnv()

	v.SetConfigFile(p.Config)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config %s: %w", p.Config, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &s, nil
}
