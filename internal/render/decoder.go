package render

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/makiuchi-d/gozxing"
	zxingqr "github.com/makiuchi-d/gozxing/qrcode"
)

var (
	ErrNotFound        = errors.New("no qr code found")
	ErrUnreadableImage = errors.New("unreadable image")
)

type Decoded struct {
	Text   string `json:"text"`
	Format string `json:"format"`
}

type DecoderInterface interface {
	Decode(r io.Reader) (Decoded, error)
}

type QRDecoder struct {
	hints map[gozxing.DecodeHintType]interface{}
}

func NewQRDecoder() DecoderInterface {
	return &QRDecoder{
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

func (d *QRDecoder) Decode(r io.Reader) (Decoded, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return Decoded{}, fmt.Errorf("%w: %w", ErrUnreadableImage, err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return Decoded{}, fmt.Errorf("%w: %w", ErrUnreadableImage, err)
	}

	result, err := zxingqr.NewQRCodeReader().Decode(bmp, d.hints)
	if err != nil {
		return Decoded{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return Decoded{
		Text:   result.GetText(),
		Format: result.GetBarcodeFormat().String(),
	}, nil
}
