// Package config provides configuration management for bandori-index.
//
// It uses Viper for environment variables and godotenv for an optional .env
// file, which overrides the process environment.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Fetch: upstream base URL, cache directory, concurrency, regions, listing refresh
//   - Catalog: artifact and manifest locations
//   - Server: preview server address and API key
//   - Storage: S3/MinIO credentials, bucket and object prefix
//   - Database: SQL export connection (mysql or sqlite)
//   - Log: logging level and format
//
// Each package owning settings declares them with mapstructure and default tags.
// Nested keys map to environment variables by replacing dots with underscores, so
// fetch.cache_dir is read from FETCH_CACHE_DIR.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Fetch.BaseURL)
package config
