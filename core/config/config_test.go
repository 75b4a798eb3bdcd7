package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://bestdori.com", cfg.Fetch.BaseURL)
	assert.Equal(t, 4, cfg.Fetch.Concurrency)
	assert.Equal(t, "jp", cfg.Fetch.PrimaryRegion)
	assert.Equal(t, "en", cfg.Fetch.SecondaryRegion)
	assert.True(t, cfg.Fetch.RefreshListings)
	assert.Equal(t, "data.json", cfg.Catalog.Output)
	assert.Equal(t, "manifest.json", cfg.Catalog.Manifest)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "catalog", cfg.Storage.Prefix)
}

func TestLoadConfig_Overrides(t *testing.T) {
	dir := t.TempDir()
	env := "FETCH_CONCURRENCY=2\nFETCH_REFRESH_LISTINGS=false\nCATALOG_DIR=dist\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644))

	t.Setenv("FETCH_CONCURRENCY", "")
	t.Setenv("FETCH_REFRESH_LISTINGS", "")
	t.Setenv("CATALOG_DIR", "")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Fetch.Concurrency)
	assert.False(t, cfg.Fetch.RefreshListings)
	assert.Equal(t, "dist", cfg.Catalog.Dir)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}
