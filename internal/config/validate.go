package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/rshade/bookcat/internal/cache"
	"github.com/rshade/bookcat/internal/logging"
	"github.com/rshade/bookcat/internal/pagination"
)

// SupportedVersions is the range of config file versions this build reads.
const SupportedVersions = ">=1.0.0, <2.0.0"

// Output formats accepted by Output.DefaultFormat.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
	FormatYAML   = "yaml"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// OutputFormats lists the accepted output formats.
func OutputFormats() []string {
	return []string{FormatTable, FormatJSON, FormatNDJSON, FormatYAML}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if err := checkVersion(c.Version); err != nil {
		add("version: %v", err)
	}

	if u, err := url.Parse(c.API.Endpoint); err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		add("api.endpoint must be an absolute http(s) URL, got %q", c.API.Endpoint)
	}
	if c.API.Timeout <= 0 {
		add("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.API.RateLimit < 0 {
		add("api.rate_limit must not be negative, got %g", c.API.RateLimit)
	}
	if c.API.RateLimit > 0 && c.API.Burst < 1 {
		add("api.burst must be at least 1 when rate_limit is set, got %d", c.API.Burst)
	}

	if c.Display.PageSize < 1 {
		add("display.page_size must be at least 1, got %d", c.Display.PageSize)
	}
	if c.Display.MaxVisiblePages < 1 {
		add("display.max_visible_pages must be at least 1, got %d", c.Display.MaxVisiblePages)
	}
	if strings.TrimSpace(c.Display.DateFormat) == "" {
		add("display.date_format must not be empty")
	}
	tag, err := language.Parse(c.Display.Locale)
	if err != nil {
		add("display.locale %q: %v", c.Display.Locale, err)
	}
	if c.Display.Sort != "" {
		field, _, sortErr := pagination.ParseSort(c.Display.Sort)
		switch {
		case sortErr != nil:
			add("display.sort: %v", sortErr)
		case !pagination.NewBookSorter(tag).IsValidField(field):
			add("display.sort field %q is not one of %s", field,
				strings.Join(pagination.NewBookSorter(tag).GetValidFields(), ", "))
		}
	}

	if !slices.Contains(OutputFormats(), c.Output.DefaultFormat) {
		add("output.default_format must be one of %s, got %q",
			strings.Join(OutputFormats(), ", "), c.Output.DefaultFormat)
	}

	switch c.Cache.Backend {
	case CacheBackendFile:
	case CacheBackendRedis:
		if c.Cache.Enabled && c.Cache.RedisAddr == "" {
			add("cache.redis_addr is required for the redis backend")
		}
	default:
		add("cache.backend must be %q or %q, got %q", CacheBackendFile, CacheBackendRedis, c.Cache.Backend)
	}
	if c.Cache.TTLSeconds < cache.MinTTLSeconds || c.Cache.TTLSeconds > cache.MaxTTLSeconds {
		add("cache.ttl_seconds: %v: got %d", cache.ErrInvalidTTL, c.Cache.TTLSeconds)
	}

	if c.Logging.Level != "" {
		if _, lvlErr := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); lvlErr != nil {
			add("logging.level: %v", lvlErr)
		}
	}
	if c.Logging.Format != "" && c.Logging.Format != logging.FormatJSON && c.Logging.Format != logging.FormatConsole {
		add("logging.format must be %q or %q, got %q", logging.FormatConsole, logging.FormatJSON, c.Logging.Format)
	}
	if c.Logging.Audit.Enabled && c.Logging.Audit.File == "" {
		add("logging.audit.file is required when auditing is enabled")
	}

	return errors.Join(errs...)
}

func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	version, err := semver.NewVersion(v)
	if err != nil {
		return err
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return fmt.Errorf("%s is outside the supported range %s", v, SupportedVersions)
	}
	return nil
}
