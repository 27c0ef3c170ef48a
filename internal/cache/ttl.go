package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// TTL limits and environment overrides.
const (
	DefaultTTLSeconds = 300
	MinTTLSeconds     = 1
	MaxTTLSeconds     = 86400

	EnvTTLSeconds   = "BOOKCAT_CACHE_TTL_SECONDS"
	EnvCacheEnabled = "BOOKCAT_CACHE_ENABLED"
	EnvCacheDir     = "BOOKCAT_CACHE_DIR"

	minutesPerHour = 60
)

// ErrInvalidTTL is returned for TTLs outside [MinTTLSeconds, MaxTTLSeconds].
var ErrInvalidTTL = fmt.Errorf("TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)

// GetTTLFromEnv returns EnvTTLSeconds when it holds a valid TTL, else fallback.
func GetTTLFromEnv(fallback int) int {
	ttl, err := strconv.Atoi(os.Getenv(EnvTTLSeconds))
	if err != nil || ttl < MinTTLSeconds || ttl > MaxTTLSeconds {
		return fallback
	}
	return ttl
}

// GetCacheEnabledFromEnv returns EnvCacheEnabled when set and parseable,
// else fallback.
func GetCacheEnabledFromEnv(fallback bool) bool {
	enabled, err := strconv.ParseBool(os.Getenv(EnvCacheEnabled))
	if err != nil {
		return fallback
	}
	return enabled
}

// GetCacheDirFromEnv returns EnvCacheDir, or "" when unset.
func GetCacheDirFromEnv() string {
	return os.Getenv(EnvCacheDir)
}

// ParseTTL accepts integer seconds ("300") or a duration ("5m", "1h30m").
func ParseTTL(s string) (int, error) {
	seconds, err := strconv.Atoi(s)
	if err != nil {
		d, durErr := time.ParseDuration(s)
		if durErr != nil {
			return 0, fmt.Errorf("invalid TTL format: %w", durErr)
		}
		seconds = int(d.Seconds())
	}
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return seconds, nil
}

// FormatDuration renders d compactly: "45s", "5m", "1h30m".
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % minutesPerHour
	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, minutes)
}
