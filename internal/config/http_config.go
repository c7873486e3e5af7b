package config

import (
	"time"
)

type HTTPConfig interface {
	GetRequestTimeout() time.Duration
	GetWithCredentials() bool
}

type HTTP struct{}

var _ HTTPConfig = HTTP{}

// GetRequestTimeout bounds every backend call. The browser original relied on
// the transport's own defaults; here the bound is explicit.
func (HTTP) GetRequestTimeout() time.Duration {
	if v := GetEnv("STOREFRONT_TIMEOUT", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return 30 * time.Second
}

// GetWithCredentials mirrors the original client's withCredentials flag:
// requests carry cross-origin cookies for endpoints that rely on them.
func (HTTP) GetWithCredentials() bool {
	return GetEnv("STOREFRONT_WITH_CREDENTIALS", "true") == "true"
}
