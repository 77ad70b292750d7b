package prefs

import (
	"context"

	"github.com/spf13/afero"
)

const (
	PrefFileUIMode = "ui_mode_preference"
	UIModeKey      = "ui_mode"
)

// UIModeStore keeps the light/dark display flag. true means night mode.
type UIModeStore struct {
	store *DataStore
}

func NewUIModeStore(fs afero.Fs, dir string) *UIModeStore {
	return &UIModeStore{store: NewDataStore(fs, dir, PrefFileUIMode)}
}

// UIMode starts with the persisted flag (false if never saved) and then
// emits once per committed save. Each call is an independent subscription.
func (s *UIModeStore) UIMode(ctx context.Context) <-chan bool {
	in := s.store.Data(ctx)
	out := make(chan bool)

	go func() {
		defer close(out)
		for prefs := range in {
			isNight, _ := prefs.Bool(UIModeKey)
			select {
			case <-ctx.Done():
				return
			case out <- isNight:
			}
		}
	}()
	return out
}

// Current is a one-shot read of the flag.
func (s *UIModeStore) Current(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	select {
	case v, ok := <-s.UIMode(ctx):
		if !ok {
			return false, ctx.Err()
		}
		return v, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (s *UIModeStore) SaveToDataStore(ctx context.Context, isNightMode bool) error {
	return s.store.Edit(ctx, func(p Preferences) {
		p[UIModeKey] = isNightMode
	})
}
