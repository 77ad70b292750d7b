// Package render rasterizes transaction details into shareable PNG cards.
package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"max.ks1230/moneyezy-bot/internal/logger"
)

const (
	cardWidth   = 480
	padding     = 24
	lineHeight  = 26
	headerGap   = 18
	labelColumn = 150
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

type Palette struct {
	Background color.RGBA
	Text       color.RGBA
	Muted      color.RGBA
	Accent     color.RGBA
}

var (
	LightPalette = Palette{
		Background: color.RGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff},
		Text:       color.RGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff},
		Muted:      color.RGBA{R: 0x75, G: 0x75, B: 0x75, A: 0xff},
		Accent:     color.RGBA{R: 0x00, G: 0x96, B: 0x88, A: 0xff},
	}
	DarkPalette = Palette{
		Background: color.RGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xff},
		Text:       color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff},
		Muted:      color.RGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff},
		Accent:     color.RGBA{R: 0x80, G: 0xcb, B: 0xc4, A: 0xff},
	}
)

func PaletteFor(dark bool) Palette {
	if dark {
		return DarkPalette
	}
	return LightPalette
}

func ThemeName(dark bool) string {
	if dark {
		return ThemeDark
	}
	return ThemeLight
}

type Line struct {
	Label string
	Value string
}

// CardInput identifies the card for caching and carries what to draw.
type CardInput struct {
	UserID        int64
	TransactionID int64
	Heading       string
	Lines         []Line
	Dark          bool
}

// Card draws in.Lines under in.Heading. The built-in face covers Latin-1 only,
// so callers pass ASCII-friendly values.
func Card(in CardInput) ([]byte, error) {
	pal := PaletteFor(in.Dark)
	height := 2*padding + lineHeight + headerGap + lineHeight*len(in.Lines)

	img := image.NewRGBA(image.Rect(0, 0, cardWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(pal.Background), image.Point{}, draw.Src)

	// accent bar under the heading
	barY := padding + lineHeight + headerGap/2
	draw.Draw(img, image.Rect(padding, barY, cardWidth-padding, barY+2), image.NewUniform(pal.Accent), image.Point{}, draw.Src)

	drawText(img, pal.Accent, padding, padding+lineHeight-8, in.Heading)

	y := padding + lineHeight + headerGap + lineHeight - 8
	for _, l := range in.Lines {
		drawText(img, pal.Muted, padding, y, l.Label)
		drawText(img, pal.Text, padding+labelColumn, y, l.Value)
		y += lineHeight
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encode card")
	}
	return buf.Bytes(), nil
}

func drawText(dst draw.Image, c color.Color, x, y int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

type cardCache interface {
	GetCard(userID, transactionID int64, theme string) ([]byte, error)
	CacheCard(userID, transactionID int64, theme string, card []byte) error
}

// CardRenderer memoizes cards per record and theme when a cache is configured.
type CardRenderer struct {
	cache cardCache
}

func NewCardRenderer(cache cardCache) *CardRenderer {
	return &CardRenderer{cache: cache}
}

func (r *CardRenderer) Render(in CardInput) ([]byte, error) {
	theme := ThemeName(in.Dark)
	if r.cache != nil {
		if cached, err := r.cache.GetCard(in.UserID, in.TransactionID, theme); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	card, err := Card(in)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err = r.cache.CacheCard(in.UserID, in.TransactionID, theme, card); err != nil {
			logger.Warn("cannot cache card", zap.Int64("id", in.TransactionID), zap.Error(err))
		}
	}
	return card, nil
}
