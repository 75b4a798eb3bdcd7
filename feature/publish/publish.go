package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync/atomic"

	"bandori-index/core/fetch"
	"bandori-index/core/reconcile"
	"bandori-index/core/storage"
	"bandori-index/feature/catalog/graph"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// ArtifactName is the object name of the serialized catalog.
	ArtifactName = "data.json"
	// ManifestName is the object name of the asset manifest.
	ManifestName = "manifest.json"
	// RawDir holds the mirrored source assets.
	RawDir = "raw"

	uploadWorkers = 8
	jsonType      = "application/json"
)

// Fetcher retrieves upstream documents. *fetch.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, pathname string, policy fetch.Policy) ([]byte, error)
}

// MirrorResult summarizes a mirror run.
type MirrorResult struct {
	Uploaded int   `json:"uploaded"`
	Bytes    int64 `json:"bytes"`
}

// CheckReport is the outcome of a mirror check.
type CheckReport struct {
	// Total is the number of manifest entries.
	Total int `json:"total"`
	// Missing lists the manifest entries without a mirrored object, in manifest order.
	Missing []graph.AssetEntry `json:"missing"`
	// Stale lists mirrored object names the manifest no longer references.
	Stale []string `json:"stale"`
	// Purged counts the stale objects deleted by this check.
	Purged int `json:"purged"`
	// Summary holds the per-target counts, including extra targets.
	Summary reconcile.Summary `json:"summary"`
}

// Publisher uploads catalogs to a storage bucket.
type Publisher struct {
	client  storage.Client
	bucket  string
	prefix  string
	region  string
	fetcher Fetcher
	logger  *zap.Logger
}

// NewPublisher creates a Publisher for the bucket and prefix of cfg. fetcher may be
// nil when Mirror is not used.
func NewPublisher(client storage.Client, cfg storage.Config, fetcher Fetcher, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		region:  cfg.Region,
		fetcher: fetcher,
		logger:  logger,
	}
}

// RawKey is the mirror object name of a manifest entry: the target filename stem
// with the extension of the source pathname.
func RawKey(prefix string, e graph.AssetEntry) string {
	stem := strings.TrimSuffix(e.Filename, path.Ext(e.Filename))
	return storage.Key(prefix, RawDir, e.Type, stem+path.Ext(e.Pathname))
}

// EnsureBucket creates the bucket when it does not exist.
func (p *Publisher) EnsureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{Region: p.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", p.bucket, err)
	}
	p.logger.Info("Created bucket", zap.String("bucket", p.bucket))
	return nil
}

// Publish uploads the artifact and the manifest.
func (p *Publisher) Publish(ctx context.Context, artifact, manifest []byte) error {
	if err := p.EnsureBucket(ctx); err != nil {
		return err
	}
	for _, obj := range []struct {
		name string
		data []byte
	}{
		{ArtifactName, artifact},
		{ManifestName, manifest},
	} {
		key := storage.Key(p.prefix, obj.name)
		if err := p.put(ctx, key, obj.data, jsonType); err != nil {
			return err
		}
		p.logger.Info("Published object", zap.String("key", key), zap.Int("bytes", len(obj.data)))
	}
	return nil
}

// Mirror fetches every entry's source asset and uploads it under RawDir. The first
// failure aborts the run.
func (p *Publisher) Mirror(ctx context.Context, entries []graph.AssetEntry) (MirrorResult, error) {
	if p.fetcher == nil {
		return MirrorResult{}, fmt.Errorf("mirror requires an upstream fetcher")
	}
	if err := p.EnsureBucket(ctx); err != nil {
		return MirrorResult{}, err
	}

	var uploaded, size atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadWorkers)
	for _, e := range entries {
		g.Go(func() error {
			data, err := p.fetcher.Fetch(gctx, e.Pathname, fetch.SkipIfCached)
			if err != nil {
				return fmt.Errorf("failed to fetch asset %s: %w", e.Pathname, err)
			}
			key := RawKey(p.prefix, e)
			if err := p.put(gctx, key, data, mimetype.Detect(data).String()); err != nil {
				return err
			}
			uploaded.Add(1)
			size.Add(int64(len(data)))
			return nil
		})
	}
	err := g.Wait()

	res := MirrorResult{Uploaded: int(uploaded.Load()), Bytes: size.Load()}
	if err != nil {
		return res, err
	}
	p.logger.Info("Mirrored assets", zap.Int("uploaded", res.Uploaded), zap.Int64("bytes", res.Bytes))
	return res, nil
}

// Check reconciles the manifest with the mirror and any extra targets, such as the
// exported catalog_assets table. With opts.DoPurge and opts.Confirmed stale mirror
// objects are deleted.
func (p *Publisher) Check(ctx context.Context, entries []graph.AssetEntry, opts reconcile.Options, extra ...reconcile.Source) (*CheckReport, error) {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", p.bucket)
	}

	mirror := p.NewMirrorSource()
	spec := &reconcile.Spec{
		Expected: NewManifestSource(entries),
		Targets:  append([]reconcile.Source{mirror}, extra...),
	}

	plan, err := reconcile.ReconcileWithPlan(ctx, spec, opts)
	if err != nil {
		return nil, err
	}

	missing := make(map[string]bool)
	report := &CheckReport{Total: len(entries), Missing: []graph.AssetEntry{}, Stale: []string{}, Summary: plan.Summary}
	for _, r := range plan.Results {
		switch {
		case r.Expected && !r.Present[mirror.Name()]:
			missing[r.Key] = true
		case !r.Expected && r.Present[mirror.Name()]:
			report.Stale = append(report.Stale, r.Name)
		}
	}
	for _, e := range entries {
		if missing[e.Key()] {
			report.Missing = append(report.Missing, e)
		}
	}

	report.Purged, err = reconcile.ApplyPlan(ctx, spec, plan, opts)
	if err != nil {
		return report, err
	}
	if report.Purged > 0 {
		p.logger.Info("Purged stale mirror objects", zap.Int("count", report.Purged))
	}
	return report, nil
}

// Read returns the published object name (ArtifactName or ManifestName).
func (p *Publisher) Read(ctx context.Context, name string) ([]byte, error) {
	key := storage.Key(p.prefix, name)
	obj, err := p.client.GetObject(ctx, p.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func (p *Publisher) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := p.client.PutObject(ctx, p.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}
