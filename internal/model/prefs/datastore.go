// Package prefs persists small key-value preference files and exposes them as streams.
package prefs

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"max.ks1230/moneyezy-bot/internal/logger"
	"max.ks1230/moneyezy-bot/internal/model/observable"
)

const (
	fileExt  = ".yaml"
	dirPerm  = 0o755
	filePerm = 0o600
)

// Preferences is an immutable snapshot; Edit hands out a private copy.
type Preferences map[string]any

func (p Preferences) Bool(key string) (val, ok bool) {
	raw, found := p[key]
	if !found {
		return false, false
	}
	val, ok = raw.(bool)
	return val, ok
}

func (p Preferences) clone() Preferences {
	res := make(Preferences, len(p))
	for k, v := range p {
		res[k] = v
	}
	return res
}

// DataStore is a named preference file. Nothing touches disk until the first read or edit.
type DataStore struct {
	fs   afero.Fs
	path string

	loadOnce sync.Once
	writeMu  sync.Mutex
	data     *observable.Value[Preferences]
}

func NewDataStore(fs afero.Fs, dir, name string) *DataStore {
	return &DataStore{
		fs:   fs,
		path: filepath.Join(dir, name+fileExt),
		data: observable.New(Preferences{}),
	}
}

func (s *DataStore) Path() string {
	return s.path
}

// Data streams the current snapshot followed by every committed edit.
func (s *DataStore) Data(ctx context.Context) <-chan Preferences {
	s.ensureLoaded()
	return s.data.Subscribe(ctx)
}

// Edit applies fn to a copy of the current preferences and returns once the
// result is on disk. Concurrent edits are serialized; the last commit wins.
func (s *DataStore) Edit(ctx context.Context, fn func(Preferences)) error {
	s.ensureLoaded()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "edit preferences")
	}

	next := s.data.Get().clone()
	fn(next)

	if err := s.write(next); err != nil {
		return errors.Wrap(err, "edit preferences")
	}
	s.data.Set(next)
	return nil
}

func (s *DataStore) ensureLoaded() {
	s.loadOnce.Do(func() {
		prefs, err := s.read()
		if err != nil {
			logger.Error("cannot read preferences, using defaults", zap.String("path", s.path), zap.Error(err))
			return
		}
		s.data.Set(prefs)
	})
}

func (s *DataStore) read() (Preferences, error) {
	raw, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Preferences{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	prefs := Preferences{}
	if err = yaml.Unmarshal(raw, &prefs); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}
	return prefs, nil
}

func (s *DataStore) write(prefs Preferences) error {
	raw, err := yaml.Marshal(map[string]any(prefs))
	if err != nil {
		return errors.Wrap(err, "marshal yaml")
	}

	if err = s.fs.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return errors.Wrap(err, "create dir")
	}

	tmp := s.path + ".tmp"
	if err = afero.WriteFile(s.fs, tmp, raw, filePerm); err != nil {
		return errors.Wrap(err, "write temp file")
	}
	if err = s.fs.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "replace file")
	}
	return nil
}
