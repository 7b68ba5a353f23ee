package render

import (
	"errors"
	"fmt"
	"image/color"
	"qrkeep/internal/models"
	"qrkeep/internal/providers"
	"qrkeep/internal/structures"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/lucasb-eyer/go-colorful"
	qrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyData = errors.New("nothing to encode")
	ErrRender    = errors.New("render qr code")
)

type RenderOptions struct {
	Size       int
	Foreground string
	Background string
}

// OptionsFromSettings returns the render options stored in user settings.
func OptionsFromSettings(s models.Settings) RenderOptions {
	return RenderOptions{
		Size:       s.DefaultSize,
		Foreground: s.ForegroundColor,
		Background: s.BackgroundColor,
	}
}

type RendererInterface interface {
	PNG(data string, opts RenderOptions) ([]byte, error)
}

type QRRenderer struct {
	level qrcode.RecoveryLevel
	cache providers.CacheProviderInterface
}

func NewQRRenderer(conf *structures.Config, cache providers.CacheProviderInterface) RendererInterface {
	return &QRRenderer{
		level: recoveryLevel(conf.Render.ErrorCorrection),
		cache: cache,
	}
}

func recoveryLevel(name string) qrcode.RecoveryLevel {
	switch name {
	case "low":
		return qrcode.Low
	case "medium":
		return qrcode.Medium
	case "highest":
		return qrcode.Highest
	default:
		return qrcode.High
	}
}

// PNG encodes data as a square PNG image. Size is clamped to the settings range
// and colors fall back to black on white when unparsable.
func (r *QRRenderer) PNG(data string, opts RenderOptions) ([]byte, error) {
	if data == "" {
		return nil, ErrEmptyData
	}
	size := models.ClampSize(opts.Size)
	fg := parseColor(opts.Foreground, color.Black)
	bg := parseColor(opts.Background, color.White)

	key := cacheKey(data, size, fg, bg)
	if img, ok := r.cache.Get(key); ok {
		return img, nil
	}

	qr, err := qrcode.New(data, r.level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	qr.ForegroundColor = fg
	qr.BackgroundColor = bg

	img, err := qr.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	r.cache.Set(key, img)
	return img, nil
}

func parseColor(hex string, fallback color.Color) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func cacheKey(data string, size int, fg, bg color.Color) string {
	h := xxhash.New()
	_, _ = h.WriteString(data)
	_, _ = h.WriteString("|" + strconv.Itoa(size))
	for _, c := range []color.Color{fg, bg} {
		r, g, b, _ := c.RGBA()
		_, _ = fmt.Fprintf(h, "|%02x%02x%02x", r>>8, g>>8, b>>8)
	}
	return fmt.Sprintf("png:%016x", h.Sum64())
}
