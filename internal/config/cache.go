package config

import (
	"strings"
	"time"
)

// CacheConfig drives the response cache middleware. The cache is only
// applied to public browse routes (restaurant collection, features, map
// pins); availability responses are ephemeral by contract and are never
// cached. When Enabled is false or no redis client is configured, caching
// is disabled entirely.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      getenvDefault("CACHE_ENABLED", "true") == "true",
		Methods:      parseMethods(getenvDefault("CACHE_METHODS", "GET")),
		TTL:          envDurDefault("CACHE_TTL", 30*time.Second),
		Prefix:       getenvDefault("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envIntDefault("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}

func envDurDefault(key string, def time.Duration) time.Duration {
	v := getenvDefault(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
