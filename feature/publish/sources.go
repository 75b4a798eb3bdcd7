package publish

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"bandori-index/core/storage"
	"bandori-index/feature/catalog/graph"

	"github.com/minio/minio-go/v7"
)

// ManifestSource is the expected side of a mirror check: every manifest entry,
// keyed by graph.AssetEntry.Key and located by its upstream pathname.
type ManifestSource struct {
	entries []graph.AssetEntry
}

// NewManifestSource creates a source over entries.
func NewManifestSource(entries []graph.AssetEntry) *ManifestSource {
	return &ManifestSource{entries: entries}
}

// Name returns the source name.
func (s *ManifestSource) Name() string {
	return "manifest"
}

// Load returns the manifest keys.
func (s *ManifestSource) Load(_ context.Context) (map[string]string, error) {
	index := make(map[string]string, len(s.entries))
	for _, e := range s.entries {
		index[e.Key()] = e.Pathname
	}
	return index, nil
}

// MirrorSource lists the raw mirror under the publish prefix with a single
// recursive listing. It can purge the objects it listed.
type MirrorSource struct {
	client storage.Client
	bucket string
	prefix string

	mu      sync.Mutex
	objects map[string]string
}

// NewMirrorSource creates a source over the raw mirror of p.
func (p *Publisher) NewMirrorSource() *MirrorSource {
	return &MirrorSource{client: p.client, bucket: p.bucket, prefix: p.prefix}
}

// Name returns the source name.
func (s *MirrorSource) Name() string {
	return "mirror"
}

// Load maps every mirrored object to its asset key. Objects outside the
// raw/<type>/<file> layout are ignored.
func (s *MirrorSource) Load(ctx context.Context) (map[string]string, error) {
	root := storage.Key(s.prefix, RawDir) + "/"
	opts := minio.ListObjectsOptions{
		Prefix:    root,
		Recursive: true,
	}

	index := make(map[string]string)
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list mirror: %w", obj.Err)
		}
		typ, file, ok := strings.Cut(strings.TrimPrefix(obj.Key, root), "/")
		if !ok || typ == "" || file == "" || strings.Contains(file, "/") {
			continue
		}
		index[graph.AssetKey(typ, file)] = obj.Key
	}

	s.mu.Lock()
	s.objects = index
	s.mu.Unlock()
	return index, nil
}

// Purge removes the objects behind keys in one bulk request.
func (s *MirrorSource) Purge(ctx context.Context, keys []string) error {
	s.mu.Lock()
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		if name, ok := s.objects[key]; ok {
			names = append(names, name)
		}
	}
	s.mu.Unlock()

	objectsCh := make(chan minio.ObjectInfo)
	go func() {
		defer close(objectsCh)
		for _, name := range names {
			select {
			case objectsCh <- minio.ObjectInfo{Key: name}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var failed []string
	for rerr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		failed = append(failed, fmt.Sprintf("%s: %v", rerr.ObjectName, rerr.Err))
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to remove %d objects: %s", len(failed), strings.Join(failed, "; "))
	}
	return nil
}
