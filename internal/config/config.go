// Package config provides configuration for the profile manager: the
// profile directory location, policy knobs from an optional config file,
// and environment toggles.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Policy values for overwriting an existing profile on save.
const (
	// ConfirmPrompt asks interactively before overwriting.
	ConfirmPrompt = "prompt"
	// ConfirmAlways overwrites silently.
	ConfirmAlways = "always"
	// ConfirmNever refuses to overwrite.
	ConfirmNever = "never"
)

// Policy values for a failed auto-save before switching away from an
// active OAuth profile.
const (
	// AutoSaveProceed logs a warning and continues the switch.
	AutoSaveProceed = "proceed"
	// AutoSavePrompt asks interactively whether to continue.
	AutoSavePrompt = "promptContinue"
	// AutoSaveAbort fails the switch.
	AutoSaveAbort = "abort"
)

// ConfigFileName is the optional config file inside the profile directory.
const ConfigFileName = "config.yaml"

// NotificationConfig holds settings for desktop notifications.
type NotificationConfig struct {
	// Enabled enables desktop notifications.
	Enabled bool `yaml:"enabled,omitempty"`
	// OnSwitch sends a notification after a successful profile switch.
	OnSwitch bool `yaml:"on_switch,omitempty"`
	// OnExpiryWarning sends an alert when switching to an expired or
	// expiring credential.
	OnExpiryWarning bool `yaml:"on_expiry_warning,omitempty"`
}

// Config represents the profile manager configuration.
type Config struct {
	// ConfirmOverwrite controls save-over-existing behavior:
	// prompt, always, or never.
	ConfirmOverwrite string `yaml:"confirm_overwrite,omitempty"`
	// OnAutoSaveFailure controls switch behavior when the pre-switch
	// auto-save fails: proceed, promptContinue, or abort.
	OnAutoSaveFailure string `yaml:"on_auto_save_failure,omitempty"`
	// Notifications holds desktop notification settings.
	Notifications NotificationConfig `yaml:"notifications,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		ConfirmOverwrite:  ConfirmPrompt,
		OnAutoSaveFailure: AutoSaveProceed,
		Notifications: NotificationConfig{
			Enabled:         false,
			OnSwitch:        true,
			OnExpiryWarning: true,
		},
	}
}

// Load reads the config file from the profile directory. A missing file
// yields defaults.
func Load(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks policy values, applying defaults to empty ones.
func (c *Config) Validate() error {
	switch c.ConfirmOverwrite {
	case "":
		c.ConfirmOverwrite = ConfirmPrompt
	case ConfirmPrompt, ConfirmAlways, ConfirmNever:
	default:
		return fmt.Errorf("invalid confirm_overwrite %q: must be %s, %s or %s",
			c.ConfirmOverwrite, ConfirmPrompt, ConfirmAlways, ConfirmNever)
	}

	switch c.OnAutoSaveFailure {
	case "":
		c.OnAutoSaveFailure = AutoSaveProceed
	case AutoSaveProceed, AutoSavePrompt, AutoSaveAbort:
	default:
		return fmt.Errorf("invalid on_auto_save_failure %q: must be %s, %s or %s",
			c.OnAutoSaveFailure, AutoSaveProceed, AutoSavePrompt, AutoSaveAbort)
	}

	return nil
}

// Debug reports whether verbose diagnostics are enabled via environment.
func Debug() bool {
	return boolEnv("CCPROFILE_DEBUG")
}

// AuditEnabled reports whether audit logging is enabled via environment.
func AuditEnabled() bool {
	return boolEnv("CCPROFILE_AUDIT")
}

func boolEnv(key string) bool {
	v := os.Getenv(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
