package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode selects how outbound requests are authenticated.
type AuthMode string

const (
	AuthModeCredential AuthMode = "credential"
	AuthModeToken      AuthMode = "token"
)

type Config struct {
	BaseURL        string        `mapstructure:"base_url"`
	Categories     []string      `mapstructure:"categories"`
	Variants       []string      `mapstructure:"variants"`
	Limits         []int         `mapstructure:"limits"`
	RecordLimit    int           `mapstructure:"record_limit"`
	Iterations     int           `mapstructure:"iterations"`
	SettleInterval time.Duration `mapstructure:"settle_interval"`
	Timeout        time.Duration `mapstructure:"timeout"`
	JSONOutput     bool          `mapstructure:"json_output"`
	ExportPath     string        `mapstructure:"export"`
	LogErrors      bool          `mapstructure:"log_errors"`
	ConfigFile     string        `mapstructure:"-"`
	Auth           AuthConfig    `mapstructure:"auth"`
	Tracing        TracingConfig `mapstructure:"tracing"`
}

type AuthConfig struct {
	Mode         AuthMode `mapstructure:"mode"`
	Username     string   `mapstructure:"username"`
	Password     string   `mapstructure:"password"`
	Token        string   `mapstructure:"token"`
	TokenURL     string   `mapstructure:"token_url"`
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
}

type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Insecure    bool    `mapstructure:"insecure"`
	Propagate   *bool   `mapstructure:"propagate"`
}

// Enabled reports whether an OTLP endpoint has been configured.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != ""
}

// ShouldPropagate defaults to propagating whenever tracing is enabled; an
// explicit propagate setting overrides that.
func (t TracingConfig) ShouldPropagate() bool {
	if t.Propagate != nil {
		return *t.Propagate
	}
	return t.Enabled()
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	if strings.TrimSpace(c.BaseURL) == "" {
		issues = append(issues, "base_url is required (use --help for usage information)")
	}
	if len(c.Categories) == 0 {
		issues = append(issues, "at least one category must be enabled")
	}
	if c.Iterations < 1 {
		issues = append(issues, "iterations must be >= 1")
	}
	if c.RecordLimit < 1 {
		issues = append(issues, "record_limit must be >= 1")
	}
	for idx, limit := range c.Limits {
		if limit < 1 {
			issues = append(issues, fmt.Sprintf("limits[%d]: must be >= 1", idx))
		}
	}
	if c.SettleInterval < 0 {
		issues = append(issues, "settle_interval must be >= 0")
	}
	if c.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}

	issues = append(issues, validateAuthConfig(c.Auth)...)
	issues = append(issues, validateTracingConfig(c.Tracing)...)

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func validateAuthConfig(auth AuthConfig) []string {
	var issues []string

	switch auth.Mode {
	case "", AuthModeCredential:
		if strings.TrimSpace(auth.Username) == "" {
			issues = append(issues, "auth: username is required for credential mode")
		}
		if strings.TrimSpace(auth.Password) == "" {
			issues = append(issues, "auth: password is required for credential mode")
		}
	case AuthModeToken:
		if strings.TrimSpace(auth.Token) == "" && strings.TrimSpace(auth.TokenURL) == "" {
			issues = append(issues, "auth: token or token_url is required for token mode")
		}
		if strings.TrimSpace(auth.TokenURL) != "" {
			if strings.TrimSpace(auth.ClientID) == "" {
				issues = append(issues, "auth: client_id is required when token_url is set")
			}
			if strings.TrimSpace(auth.ClientSecret) == "" {
				issues = append(issues, "auth: client_secret is required when token_url is set")
			}
		}
	default:
		issues = append(issues, fmt.Sprintf("auth: unsupported mode %q", auth.Mode))
	}

	return issues
}

func validateTracingConfig(tr TracingConfig) []string {
	var issues []string
	if tr.SampleRate < 0 || tr.SampleRate > 1.0 {
		issues = append(issues, "tracing: sample_rate must be between 0.0 and 1.0")
	}
	switch strings.ToLower(tr.Protocol) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing: protocol must be 'grpc' or 'http', got %q", tr.Protocol))
	}
	return issues
}
