package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// ErrUnknownKey is returned by Get and Set for keys not in Keys().
var ErrUnknownKey = errors.New("unknown config key")

type accessor struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringField(field func(c *Config) *string) accessor {
	return accessor{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error {
			*field(c) = v
			return nil
		},
	}
}

func intField(field func(c *Config) *int) accessor {
	return accessor{
		get: func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("expected an integer, got %q", v)
			}
			*field(c) = n
			return nil
		},
	}
}

func boolField(field func(c *Config) *bool) accessor {
	return accessor{
		get: func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", v)
			}
			*field(c) = b
			return nil
		},
	}
}

//nolint:gochecknoglobals // Compile-time constant lookup table.
var accessors = map[string]accessor{
	"version":      stringField(func(c *Config) *string { return &c.Version }),
	"api.endpoint": stringField(func(c *Config) *string { return &c.API.Endpoint }),
	"api.timeout": {
		get: func(c *Config) string { return c.API.Timeout.String() },
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("expected a duration such as 10s, got %q", v)
			}
			c.API.Timeout = d
			return nil
		},
	},
	"api.rate_limit": {
		get: func(c *Config) string { return strconv.FormatFloat(c.API.RateLimit, 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("expected a number, got %q", v)
			}
			c.API.RateLimit = f
			return nil
		},
	},
	"api.burst":                 intField(func(c *Config) *int { return &c.API.Burst }),
	"display.page_size":         intField(func(c *Config) *int { return &c.Display.PageSize }),
	"display.max_visible_pages": intField(func(c *Config) *int { return &c.Display.MaxVisiblePages }),
	"display.date_format":       stringField(func(c *Config) *string { return &c.Display.DateFormat }),
	"display.sort":              stringField(func(c *Config) *string { return &c.Display.Sort }),
	"display.locale":            stringField(func(c *Config) *string { return &c.Display.Locale }),
	"output.default_format":     stringField(func(c *Config) *string { return &c.Output.DefaultFormat }),
	"cache.enabled":             boolField(func(c *Config) *bool { return &c.Cache.Enabled }),
	"cache.backend":             stringField(func(c *Config) *string { return &c.Cache.Backend }),
	"cache.directory":           stringField(func(c *Config) *string { return &c.Cache.Directory }),
	"cache.ttl_seconds":         intField(func(c *Config) *int { return &c.Cache.TTLSeconds }),
	"cache.redis_addr":          stringField(func(c *Config) *string { return &c.Cache.RedisAddr }),
	"cache.redis_db":            intField(func(c *Config) *int { return &c.Cache.RedisDB }),
	"cache.redis_prefix":        stringField(func(c *Config) *string { return &c.Cache.RedisPrefix }),
	"logging.level":             stringField(func(c *Config) *string { return &c.Logging.Level }),
	"logging.format":            stringField(func(c *Config) *string { return &c.Logging.Format }),
	"logging.file":              stringField(func(c *Config) *string { return &c.Logging.File }),
	"logging.caller":            boolField(func(c *Config) *bool { return &c.Logging.Caller }),
	"logging.audit.enabled":     boolField(func(c *Config) *bool { return &c.Logging.Audit.Enabled }),
	"logging.audit.file":        stringField(func(c *Config) *string { return &c.Logging.Audit.File }),
	"metrics.textfile":          stringField(func(c *Config) *string { return &c.Metrics.Textfile }),
}

// Keys returns every dotted key accepted by Get and Set, sorted.
func Keys() []string {
	keys := make([]string, 0, len(accessors))
	for k := range accessors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value at a dotted key such as "display.page_size".
func (c *Config) Get(key string) (string, error) {
	a, ok := accessors[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return a.get(c), nil
}

// Set parses value into the field at key. It does not validate the
// resulting configuration; call Validate before saving.
func (c *Config) Set(key, value string) error {
	a, ok := accessors[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := a.set(c, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}
