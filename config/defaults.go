package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"

	"github.com/crmarques/srvinv/faults"
)

// WithDefaults fills every unset optional key.
func (c Config) WithDefaults() Config {
	c.Server.BaseURL = strings.TrimSpace(c.Server.BaseURL)
	c.Server.APIVersion = strings.Trim(strings.TrimSpace(c.Server.APIVersion), "/")
	if c.Server.APIVersion == "" {
		c.Server.APIVersion = DefaultAPIVersion
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = DefaultTimeout
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheBackendMemory
	}
	if strings.TrimSpace(c.Cache.PathTemplate) == "" {
		c.Cache.PathTemplate = DefaultPathTemplate
	}
	if c.Cache.DurationSeconds == 0 {
		c.Cache.DurationSeconds = DefaultCacheDuration
	}

	c.Identity.PrivateIP = strings.TrimSpace(c.Identity.PrivateIP)
	c.Telemetry.OTelEndpoint = strings.TrimSpace(c.Telemetry.OTelEndpoint)
	return c
}

func (c Config) Validate() error {
	if c.Server.BaseURL == "" {
		return validationError("server.base-url is required", nil)
	}
	baseURL, err := url.Parse(c.Server.BaseURL)
	if err != nil || baseURL.Host == "" || (baseURL.Scheme != "http" && baseURL.Scheme != "https") {
		return validationError(fmt.Sprintf("server.base-url %q must be an absolute http(s) URL", c.Server.BaseURL), err)
	}
	if c.Server.Timeout < 0 {
		return validationError("server.timeout must not be negative", nil)
	}
	if c.Server.RequestsPerSecond < 0 {
		return validationError("server.requests-per-second must not be negative", nil)
	}
	if c.Server.Burst < 0 {
		return validationError("server.burst must not be negative", nil)
	}
	if err := validateAuth(c.Server.Auth); err != nil {
		return err
	}

	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendFile:
	default:
		return validationError(fmt.Sprintf("cache.backend %q is not one of %s, %s", c.Cache.Backend, CacheBackendMemory, CacheBackendFile), nil)
	}
	if count := strings.Count(c.Cache.PathTemplate, PathPlaceholder); count != 1 {
		return validationError(
			fmt.Sprintf("cache.path-template must contain the %s placeholder exactly once, found %d", PathPlaceholder, count),
			nil,
		)
	}
	if c.Cache.DurationSeconds <= 0 {
		return validationError("cache.duration-seconds must be positive", nil)
	}

	if c.Identity.PrivateIP != "" {
		if _, err := netip.ParseAddr(c.Identity.PrivateIP); err != nil {
			return validationError(fmt.Sprintf("identity.private-ip %q is not an IP address", c.Identity.PrivateIP), err)
		}
	}

	return nil
}

func validateAuth(auth *HTTPAuth) error {
	if auth == nil {
		return nil
	}

	setCount := 0
	if auth.BasicAuth != nil {
		setCount++
	}
	if auth.BearerToken != nil {
		setCount++
	}
	if auth.CustomHeader != nil {
		setCount++
	}
	if setCount != 1 {
		return validationError("server.auth must define exactly one auth mode", nil)
	}

	switch {
	case auth.BasicAuth != nil:
		if auth.BasicAuth.Username == "" || auth.BasicAuth.Password == "" {
			return validationError("server.auth.basic-auth requires username and password", nil)
		}
	case auth.BearerToken != nil:
		if auth.BearerToken.Token == "" {
			return validationError("server.auth.bearer-token.token is required", nil)
		}
	case auth.CustomHeader != nil:
		if auth.CustomHeader.Header == "" || auth.CustomHeader.Token == "" {
			return validationError("server.auth.custom-header requires header and token", nil)
		}
	}
	return nil
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}
