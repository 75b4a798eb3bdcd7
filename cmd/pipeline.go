package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"bandori-index/core/config"
	"bandori-index/core/fetch"
	"bandori-index/feature/catalog/collection"
	"bandori-index/feature/catalog/graph"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// newFetchClient creates the upstream client with its disk cache.
func newFetchClient(cfg *config.Config, fs afero.Fs, logg *zap.Logger) (*fetch.Client, error) {
	cache, err := fetch.NewCache(fs, cfg.Fetch.CacheDir)
	if err != nil {
		return nil, err
	}
	pool := fetch.NewPool(cfg.Fetch.Concurrency, cfg.Fetch.RequestsPerSecond)
	return fetch.NewClient(cfg.Fetch, pool, cache, logg)
}

// resolveCatalog runs the collection builder and the resolver.
func resolveCatalog(ctx context.Context, client collection.Fetcher, cfg *config.Config, logg *zap.Logger, refetch bool) (*graph.Graph, error) {
	builder := collection.NewBuilder(client, logg, collection.Options{
		RefreshListings: cfg.Fetch.RefreshListings,
		Refetch:         refetch,
	})
	set, err := builder.Build(ctx)
	if err != nil {
		return nil, err
	}
	return graph.Resolve(set)
}

// artifactPaths returns the artifact and manifest paths. A non-empty out replaces the
// configured artifact path and the manifest is written next to it.
func artifactPaths(cfg *config.Config, out string) (string, string) {
	if out == "" {
		out = filepath.Join(cfg.Catalog.Dir, cfg.Catalog.Output)
	}
	return out, filepath.Join(filepath.Dir(out), cfg.Catalog.Manifest)
}

// outputFile is one file of a build's output.
type outputFile struct {
	Path string
	Data []byte
}

// writeFilesAtomic stages every file next to its target before renaming any of
// them, so a failed write leaves all previous outputs in place.
func writeFilesAtomic(fs afero.Fs, files ...outputFile) error {
	staged := make([]string, 0, len(files))
	cleanup := func() {
		for _, tmp := range staged {
			_ = fs.Remove(tmp)
		}
	}

	for _, f := range files {
		if err := fs.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
			cleanup()
			return fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
		}
		tmp := f.Path + ".tmp"
		if err := afero.WriteFile(fs, tmp, f.Data, 0o644); err != nil {
			_ = fs.Remove(tmp)
			cleanup()
			return fmt.Errorf("failed to write %s: %w", tmp, err)
		}
		staged = append(staged, tmp)
	}

	for i, f := range files {
		if err := fs.Rename(staged[i], f.Path); err != nil {
			cleanup()
			return fmt.Errorf("failed to replace %s: %w", f.Path, err)
		}
	}
	return nil
}

// readManifest loads the manifest written by the last build.
func readManifest(fs afero.Fs, path string) ([]graph.AssetEntry, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest (run build first): %w", err)
	}
	return graph.DecodeManifest(data)
}
