package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
//
// An empty signing secret in jwt mode is deliberately not rejected here:
// the gate fails closed per request (500) so that a secret rotated away
// at runtime never lets a token through.
func (c *Config) Validate() error {
	var errs []error

	// server.port must be positive.
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	// upstream.url is required and must parse.
	if c.Upstream.URL == "" {
		errs = append(errs, fmt.Errorf("upstream.url is required"))
	} else if u, err := url.Parse(c.Upstream.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("upstream.url must be an absolute URL, got %q", c.Upstream.URL))
	}

	// auth.mode must be a known value.
	switch c.Auth.Mode {
	case "none", "apikey", "jwt":
		// valid
	default:
		errs = append(errs, fmt.Errorf("auth.mode must be \"none\", \"apikey\", or \"jwt\", got %q", c.Auth.Mode))
	}

	// API key entries need a key source and a company.
	if c.Auth.Mode == "apikey" {
		if len(c.Auth.APIKeys) == 0 {
			errs = append(errs, fmt.Errorf("auth.api_keys must not be empty when auth.mode is \"apikey\""))
		}
		for i, k := range c.Auth.APIKeys {
			if k.Key == "" && k.KeyFile == "" {
				errs = append(errs, fmt.Errorf("auth.api_keys[%d].key or key_file is required", i))
			}
			if k.CompanyID == "" {
				errs = append(errs, fmt.Errorf("auth.api_keys[%d].company_id is required", i))
			}
		}
	}

	// Route prefixes must be rooted.
	for i, rt := range c.Routes {
		if rt.Prefix == "" || !strings.HasPrefix(rt.Prefix, "/") {
			errs = append(errs, fmt.Errorf("routes[%d].prefix must start with \"/\", got %q", i, rt.Prefix))
		}
	}

	// Bypass paths must be rooted.
	for i, p := range c.Auth.BypassPaths {
		if !strings.HasPrefix(p, "/") {
			errs = append(errs, fmt.Errorf("auth.bypass_paths[%d] must start with \"/\", got %q", i, p))
		}
	}

	return errors.Join(errs...)
}
