// Package config provides unified configuration for the torwart gate.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (TORWART_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the torwart gate.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Upstream      UpstreamConfig      `yaml:"upstream"`
	Auth          AuthConfig          `yaml:"auth"`
	Routes        []RouteConfig       `yaml:"routes"`
	Observability ObservabilityConfig `yaml:"observability"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 8080
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 60s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 10s
}

// UpstreamConfig holds the protected backend settings.
type UpstreamConfig struct {
	URL     string        `yaml:"url"`     // required
	Timeout time.Duration `yaml:"timeout"` // default: 30s
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// Mode selects the authenticator chain: "jwt", "apikey", or "none".
	Mode string `yaml:"mode"` // default: "jwt"

	// SigningSecret is the shared HMAC secret for JWT verification.
	SigningSecret     string `yaml:"signing_secret"`
	SigningSecretFile string `yaml:"signing_secret_file"` // _file variant for signing_secret

	// BypassPaths are exact paths that skip authentication, in addition
	// to the built-in health-check segment bypass.
	BypassPaths []string `yaml:"bypass_paths"`

	// APIKeys are static API key entries for mode=apikey.
	APIKeys []APIKeyConfig `yaml:"api_keys"`
}

// APIKeyConfig describes a single API key entry.
type APIKeyConfig struct {
	Key         string   `yaml:"key" json:"key"`
	KeyFile     string   `yaml:"key_file" json:"key_file"` // _file variant for key
	CompanyID   string   `yaml:"company_id" json:"company_id"`
	UserID      string   `yaml:"user_id" json:"user_id"`
	Role        string   `yaml:"role" json:"role"`
	Permissions []string `yaml:"permissions" json:"permissions"`
}

// RouteConfig binds a path prefix to a per-route guard.
type RouteConfig struct {
	Prefix string `yaml:"prefix"`

	// Permission names a permission the identity must hold. Empty means
	// no permission check for this route.
	Permission string `yaml:"permission"`

	// RequireAdmin requires the admin role. Takes precedence over
	// Permission when both are set.
	RequireAdmin bool `yaml:"require_admin"`
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // default: "INFO"
	Debug string `yaml:"debug"` // comma-separated debug categories
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Upstream: UpstreamConfig{
			Timeout: 30 * time.Second,
		},
		Auth: AuthConfig{
			Mode: "jwt",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}
