package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Source reads built catalog files by name. publish.Publisher satisfies it for
// catalogs served straight from the bucket.
type Source interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads catalog files from a directory.
type DirSource struct {
	fs  afero.Fs
	dir string
}

// NewDirSource creates a Source over dir on fs.
func NewDirSource(fs afero.Fs, dir string) *DirSource {
	return &DirSource{fs: fs, dir: dir}
}

// Read returns the contents of dir/name.
func (s *DirSource) Read(_ context.Context, name string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
