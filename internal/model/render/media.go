package render

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// MediaStore is the shared storage that shared images are written to.
type MediaStore struct {
	fs  afero.Fs
	dir string
}

func NewMediaStore(fs afero.Fs, dir string) *MediaStore {
	return &MediaStore{fs: fs, dir: dir}
}

// Save returns the reference later passed to Read.
func (m *MediaStore) Save(name string, data []byte) (string, error) {
	if err := m.fs.MkdirAll(m.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create media dir")
	}

	path := filepath.Join(m.dir, filepath.Base(name))
	if err := afero.WriteFile(m.fs, path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "save media")
	}
	return path, nil
}

func (m *MediaStore) Read(path string) ([]byte, error) {
	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "read media")
	}
	return data, nil
}

// Prune deletes saved images last written before the cutoff and reports how many went.
func (m *MediaStore) Prune(before time.Time) (int, error) {
	infos, err := afero.ReadDir(m.fs, m.dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "list media")
	}

	removed := 0
	for _, info := range infos {
		if info.IsDir() || !info.ModTime().Before(before) {
			continue
		}
		if err = m.fs.Remove(filepath.Join(m.dir, info.Name())); err != nil {
			return removed, errors.Wrap(err, "remove media")
		}
		removed++
	}
	return removed, nil
}
