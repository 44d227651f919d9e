// Package config resolves agefetch settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// AppName names the cache subdirectory.
const AppName = "agefetch"

// Config holds the settings agefetch reads from the environment.
type Config struct {
	Username string // $USER, "Unknown" when unset
	CacheDir string // empty => caching disabled
	Debug    bool   // AGEFETCH_DEBUG => zap dev logger on stderr
}

// Load reads the environment into a Config. It never fails.
func Load() *Config {
	return &Config{
		Username: getenv("USER", "Unknown"),
		CacheDir: CacheDir(),
		Debug:    mustBool("AGEFETCH_DEBUG", false),
	}
}

// CacheDir returns the agefetch cache directory, respecting XDG_CACHE_HOME.
// Falls back to $HOME/.cache/agefetch, and returns "" when neither variable
// is set, which disables caching.
func CacheDir() string {
	if base := os.Getenv("XDG_CACHE_HOME"); base != "" {
		return filepath.Join(base, AppName)
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".cache", AppName)
	}
	return ""
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
