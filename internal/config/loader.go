package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and configuration files to produce a Config.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	configPath := flagSet.Lookup("config").Value.String()
	if len(args) == 0 && configPath == "" {
		displayHelp(cmd)
		return nil, ErrHelpRequested
	}

	cfg := &Config{
		RecordLimit:    50,
		Iterations:     3,
		SettleInterval: 500 * time.Millisecond,
		Timeout:        30 * time.Second,
		ConfigFile:     configPath,
		Auth:           AuthConfig{Mode: AuthModeCredential},
		Tracing:        TracingConfig{SampleRate: 1.0},
	}

	if configPath != "" {
		cfgViper := viper.New()
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
		if err := cfgViper.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.ExportPath = strings.TrimSpace(cfg.ExportPath)
	if cfg.Auth.Mode == "" {
		cfg.Auth.Mode = AuthModeCredential
	}

	return cfg, nil
}

// applyFlagOverrides applies explicitly set CLI flags over file-based settings.
func applyFlagOverrides(cfg *Config, flags *pflag.FlagSet) error {
	var err error

	set := func(name string, apply func() error) {
		if err != nil || !flags.Changed(name) {
			return
		}
		err = apply()
	}

	set("base-url", func() error {
		val, e := flags.GetString("base-url")
		cfg.BaseURL = val
		return e
	})
	set("category", func() error {
		val, e := flags.GetStringSlice("category")
		cfg.Categories = val
		return e
	})
	set("variant", func() error {
		val, e := flags.GetStringSlice("variant")
		cfg.Variants = val
		return e
	})
	set("limit", func() error {
		val, e := flags.GetIntSlice("limit")
		cfg.Limits = val
		return e
	})
	set("record-limit", func() error {
		val, e := flags.GetInt("record-limit")
		cfg.RecordLimit = val
		return e
	})
	set("iterations", func() error {
		val, e := flags.GetInt("iterations")
		cfg.Iterations = val
		return e
	})
	set("settle", func() error {
		val, e := flags.GetDuration("settle")
		cfg.SettleInterval = val
		return e
	})
	set("timeout", func() error {
		val, e := flags.GetDuration("timeout")
		cfg.Timeout = val
		return e
	})
	set("auth-mode", func() error {
		val, e := flags.GetString("auth-mode")
		cfg.Auth.Mode = AuthMode(strings.ToLower(strings.TrimSpace(val)))
		return e
	})
	set("username", func() error {
		val, e := flags.GetString("username")
		cfg.Auth.Username = val
		return e
	})
	set("password", func() error {
		val, e := flags.GetString("password")
		cfg.Auth.Password = val
		return e
	})
	set("token", func() error {
		val, e := flags.GetString("token")
		cfg.Auth.Token = val
		return e
	})
	set("token-url", func() error {
		val, e := flags.GetString("token-url")
		cfg.Auth.TokenURL = val
		return e
	})
	set("client-id", func() error {
		val, e := flags.GetString("client-id")
		cfg.Auth.ClientID = val
		return e
	})
	set("client-secret", func() error {
		val, e := flags.GetString("client-secret")
		cfg.Auth.ClientSecret = val
		return e
	})
	set("json-output", func() error {
		val, e := flags.GetBool("json-output")
		cfg.JSONOutput = val
		return e
	})
	set("log-errors", func() error {
		val, e := flags.GetBool("log-errors")
		cfg.LogErrors = val
		return e
	})
	set("export", func() error {
		val, e := flags.GetString("export")
		cfg.ExportPath = val
		return e
	})
	set("otlp-endpoint", func() error {
		val, e := flags.GetString("otlp-endpoint")
		cfg.Tracing.Endpoint = val
		return e
	})
	set("otlp-protocol", func() error {
		val, e := flags.GetString("otlp-protocol")
		cfg.Tracing.Protocol = val
		return e
	})
	set("trace-sample-rate", func() error {
		val, e := flags.GetFloat64("trace-sample-rate")
		cfg.Tracing.SampleRate = val
		return e
	})

	return err
}
