package prefs

import (
	"path/filepath"
	"strconv"
	"sync"

	"github.com/spf13/afero"
)

// Registry hands out one UIModeStore per user, each in its own directory.
type Registry struct {
	fs  afero.Fs
	dir string

	mu     sync.Mutex
	stores map[int64]*UIModeStore
}

func NewRegistry(fs afero.Fs, dir string) *Registry {
	return &Registry{
		fs:     fs,
		dir:    dir,
		stores: make(map[int64]*UIModeStore),
	}
}

func (r *Registry) ForUser(userID int64) *UIModeStore {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stores[userID]
	if !ok {
		s = NewUIModeStore(r.fs, filepath.Join(r.dir, strconv.FormatInt(userID, 10)))
		r.stores[userID] = s
	}
	return s
}
