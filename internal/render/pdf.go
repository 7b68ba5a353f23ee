package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

type PDFExporterInterface interface {
	PDF(png []byte) ([]byte, error)
}

// PDFExporter lays a rendered code out on an A4 page under a "QR Code" title.
type PDFExporter struct{}

func NewPDFExporter() PDFExporterInterface {
	return &PDFExporter{}
}

func (e *PDFExporter) PDF(png []byte) ([]byte, error) {
	if len(png) == 0 {
		return nil, ErrEmptyData
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("QR Code", true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 16)
	pdf.Text(90, 20, "QR Code")

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("qr", 55, 30, 100, 100, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
