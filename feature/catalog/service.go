package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"bandori-index/core/utils"
	"bandori-index/feature/catalog/artifact"
	"bandori-index/feature/catalog/graph"
	"bandori-index/feature/catalog/models"

	"go.uber.org/zap"
)

var (
	// ErrNotLoaded is returned before the first successful Load.
	ErrNotLoaded = errors.New("catalog not loaded")
	// ErrUnknownKind is returned for a kind outside models.Kinds.
	ErrUnknownKind = errors.New("unknown kind")
	// ErrNotFound is returned for an id missing from its collection.
	ErrNotFound = errors.New("record not found")
)

// Snapshot is one loaded catalog.
type Snapshot struct {
	Raw      []byte
	Sections map[string]any
	Manifest []graph.AssetEntry
	LoadedAt time.Time
}

// Service serves the most recently loaded catalog.
type Service struct {
	source Source
	cfg    Config
	logger *zap.Logger

	mu   sync.RWMutex
	snap *Snapshot
}

// NewService creates a new catalog service.
func NewService(source Source, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, cfg: cfg, logger: logger}
}

// Load reads and decodes the artifact and manifest. The previous snapshot stays
// in place when loading fails.
func (s *Service) Load(ctx context.Context) error {
	raw, err := s.source.Read(ctx, s.cfg.Output)
	if err != nil {
		return err
	}
	sections, err := artifact.Decode(raw)
	if err != nil {
		return err
	}

	manifestData, err := s.source.Read(ctx, s.cfg.Manifest)
	if err != nil {
		return err
	}
	manifest, err := graph.DecodeManifest(manifestData)
	if err != nil {
		return err
	}

	snap := &Snapshot{Raw: raw, Sections: sections, Manifest: manifest, LoadedAt: time.Now()}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.logger.Info("Loaded catalog", zap.Int("bytes", len(raw)), zap.Int("assets", len(manifest)))
	return nil
}

func (s *Service) snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotLoaded
	}
	return s.snap, nil
}

func (s *Service) section(kind string) (map[string]any, error) {
	if !slices.Contains(models.Kinds, models.Kind(kind)) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	section, _ := snap.Sections[kind].(map[string]any)
	return section, nil
}

// IDs returns the ids of kind in ascending order.
func (s *Service) IDs(kind string) ([]int, error) {
	section, err := s.section(kind)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(section))
	for key := range section {
		id, err := utils.ParseID(key)
		if err != nil {
			return nil, fmt.Errorf("malformed %s key: %w", kind, err)
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Record returns the decoded record of kind with the given id.
func (s *Service) Record(kind, id string) (any, error) {
	section, err := s.section(kind)
	if err != nil {
		return nil, err
	}
	rec, ok := section[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return rec, nil
}

// Assets returns the manifest entries, restricted to typ when it is not empty.
func (s *Service) Assets(typ string) ([]graph.AssetEntry, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if typ == "" {
		return snap.Manifest, nil
	}
	out := []graph.AssetEntry{}
	for _, e := range snap.Manifest {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out, nil
}

// Artifact returns the raw artifact bytes.
func (s *Service) Artifact() ([]byte, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Raw, nil
}
