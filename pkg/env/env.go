// Package env reads process environment values with fallbacks. Config
// loading proper goes through envconfig; this covers the few lookups that
// happen before config exists, like picking a log level at logger setup.
package env

import (
	"os"
	"strings"
)

// Get returns the named environment variable, or fallback when the variable
// is unset or blank.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}
