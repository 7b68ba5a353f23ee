package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"qrkeep/internal/structures"
	"qrkeep/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderConfig(level string) *structures.Config {
	return &structures.Config{Render: structures.RenderConfig{ErrorCorrection: level}}
}

func TestQRRenderer_DecodeRoundTrip(t *testing.T) {
	r := NewQRRenderer(renderConfig("high"), testutil.NewMockCache())
	payload := `WIFI:T:WPA;S:Home\;Net;P:secret;;`

	img, err := r.PNG(payload, RenderOptions{Size: 256, Foreground: "#1a237e", Background: "#ffffff"})
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 256, cfg.Width)

	decoded, err := NewQRDecoder().Decode(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, payload, decoded.Text)
	assert.Equal(t, "QR_CODE", decoded.Format)
}

func TestQRRenderer_ClampsSize(t *testing.T) {
	r := NewQRRenderer(renderConfig("low"), testutil.NewMockCache())

	img, err := r.PNG("hello", RenderOptions{Size: 5000})
	require.NoError(t, err)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Width)
}

func TestQRRenderer_UsesCache(t *testing.T) {
	cache := testutil.NewMockCache()
	r := NewQRRenderer(renderConfig("medium"), cache)
	opts := RenderOptions{Size: 128, Foreground: "#000000", Background: "#ffffff"}

	first, err := r.PNG("cached", opts)
	require.NoError(t, err)
	require.Len(t, cache.Data, 1)

	for k := range cache.Data {
		cache.Data[k] = []byte("from-cache")
	}
	second, err := r.PNG("cached", opts)
	require.NoError(t, err)
	assert.Equal(t, []byte("from-cache"), second)
	assert.NotEqual(t, first, second)

	_, err = r.PNG("cached", RenderOptions{Size: 128, Foreground: "#ff0000", Background: "#ffffff"})
	require.NoError(t, err)
	assert.Len(t, cache.Data, 2, "different colors use a different key")
}

func TestQRRenderer_EmptyData(t *testing.T) {
	r := NewQRRenderer(renderConfig("high"), testutil.NewMockCache())
	_, err := r.PNG("", RenderOptions{Size: 256})
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestQRRenderer_TooLongData(t *testing.T) {
	r := NewQRRenderer(renderConfig("highest"), testutil.NewMockCache())
	_, err := r.PNG(string(bytes.Repeat([]byte("x"), 5000)), RenderOptions{Size: 256})
	assert.ErrorIs(t, err, ErrRender)
}

func TestParseColor_Fallback(t *testing.T) {
	assert.Equal(t, color.Black, parseColor("not-a-color", color.Black))
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, parseColor("#ff0000", color.Black))
}

func TestRecoveryLevel_DefaultsToHigh(t *testing.T) {
	assert.Equal(t, recoveryLevel("high"), recoveryLevel(""))
	assert.NotEqual(t, recoveryLevel("low"), recoveryLevel("highest"))
}

func TestPDFExporter(t *testing.T) {
	r := NewQRRenderer(renderConfig("high"), testutil.NewMockCache())
	img, err := r.PNG("https://example.com", RenderOptions{Size: 256})
	require.NoError(t, err)

	doc, err := NewPDFExporter().PDF(img)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
}

func TestPDFExporter_EmptyImage(t *testing.T) {
	_, err := NewPDFExporter().PDF(nil)
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestQRDecoder_BlankImage(t *testing.T) {
	blank := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			blank.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, blank))

	_, err := NewQRDecoder().Decode(&buf)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQRDecoder_NotAnImage(t *testing.T) {
	_, err := NewQRDecoder().Decode(bytes.NewReader([]byte("plain text")))
	assert.ErrorIs(t, err, ErrUnreadableImage)
}
