package config

import "time"

// CacheConfig controls the redis response cache for public read
// routes. Disabled entirely when CACHE_ENABLED is not "true" or when
// no redis client is available.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads the cache settings with short-TTL defaults; a
// stale post listing is acceptable for a few seconds, a stale session
// never is, which is why sessions bypass this cache entirely.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 30*time.Second),
		Prefix:  envStr("CACHE_PREFIX", "cache"),
	}
}
