package prefs

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DataStore_ShouldPersistYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewDataStore(fs, "/prefs", "ui_mode_preference")

	err := store.Edit(context.Background(), func(p Preferences) {
		p["ui_mode"] = true
	})
	require.NoError(t, err)

	raw, err := afero.ReadFile(fs, "/prefs/ui_mode_preference.yaml")
	require.NoError(t, err)
	assert.Equal(t, "ui_mode: true\n", string(raw))

	exists, err := afero.Exists(fs, "/prefs/ui_mode_preference.yaml.tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func Test_DataStore_BrokenFileShouldFallBackToDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/prefs/ui_mode_preference.yaml", []byte("::: not yaml"), 0o600))

	store := NewUIModeStore(fs, "/prefs")
	v, err := store.Current(context.Background())
	require.NoError(t, err)
	assert.False(t, v)
}

func Test_DataStore_EditShouldRespectCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewDataStore(afero.NewMemMapFs(), "/prefs", "x")
	err := store.Edit(ctx, func(p Preferences) { p["k"] = true })
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_Preferences_Bool(t *testing.T) {
	p := Preferences{"a": true, "b": "yes"}

	v, ok := p.Bool("a")
	assert.True(t, v)
	assert.True(t, ok)

	_, ok = p.Bool("b")
	assert.False(t, ok)

	_, ok = p.Bool("missing")
	assert.False(t, ok)
}
