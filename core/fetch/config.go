package fetch

// Config holds configuration for the upstream fetch client.
type Config struct {
	// BaseURL is the origin every pathname is resolved against.
	BaseURL string `mapstructure:"base_url" default:"https://bestdori.com"`
	// CacheDir is the directory holding cached responses.
	CacheDir string `mapstructure:"cache_dir" default:".bestdori-cache"`
	// Concurrency is the maximum number of in-flight requests.
	Concurrency int `mapstructure:"concurrency" default:"4"`
	// RequestsPerSecond paces requests when positive.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"0"`
	// TimeoutSeconds bounds connection setup and response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// PrimaryRegion is the region marker tried first in asset paths.
	PrimaryRegion string `mapstructure:"primary_region" default:"jp"`
	// SecondaryRegion is the region marker used by the fallback.
	SecondaryRegion string `mapstructure:"secondary_region" default:"en"`
	// RefreshListings refetches the all.N.json listings on every run.
	RefreshListings bool `mapstructure:"refresh_listings" default:"true"`
}
