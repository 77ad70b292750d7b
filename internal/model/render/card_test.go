package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = CardInput{
	UserID:        1,
	TransactionID: 7,
	Heading:       "Coffee",
	Lines: []Line{
		{"Amount", "Rs. 120.00"},
		{"Type", "Expense"},
		{"Tag", "Food"},
	},
}

func Test_Card_ShouldEncodePNGWithThemeBackground(t *testing.T) {
	for _, dark := range []bool{false, true} {
		in := sample
		in.Dark = dark

		raw, err := Card(in)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(raw))
		require.NoError(t, err)

		assert.Equal(t, cardWidth, img.Bounds().Dx())
		assert.Equal(t, 2*padding+lineHeight+headerGap+lineHeight*3, img.Bounds().Dy())

		r, g, b, _ := img.At(1, 1).RGBA()
		want := PaletteFor(dark).Background
		assert.Equal(t, uint32(want.R), r>>8)
		assert.Equal(t, uint32(want.G), g>>8)
		assert.Equal(t, uint32(want.B), b>>8)
	}
}

type mapCache struct {
	cards map[string][]byte
	gets  int
}

func (c *mapCache) GetCard(_, _ int64, theme string) ([]byte, error) {
	c.gets++
	card, ok := c.cards[theme]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return card, nil
}

func (c *mapCache) CacheCard(_, _ int64, theme string, card []byte) error {
	c.cards[theme] = card
	return nil
}

func Test_CardRenderer_ShouldReuseCachedCard(t *testing.T) {
	cache := &mapCache{cards: map[string][]byte{}}
	r := NewCardRenderer(cache)

	first, err := r.Render(sample)
	require.NoError(t, err)
	require.Contains(t, cache.cards, ThemeLight)

	cache.cards[ThemeLight] = []byte("cached")
	second, err := r.Render(sample)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, []byte("cached"), second)
	assert.Equal(t, 2, cache.gets)
}

func Test_CardRenderer_WithoutCache(t *testing.T) {
	raw, err := NewCardRenderer(nil).Render(sample)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}

func Test_MediaStore_SaveAndRead(t *testing.T) {
	m := NewMediaStore(afero.NewMemMapFs(), "/media")

	path, err := m.Save("../escape/card.png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "/media/card.png", path)

	data, err := m.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}
