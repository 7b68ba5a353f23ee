package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"qrkeep/internal/models"
	"qrkeep/internal/providers"
	"qrkeep/internal/render"
	"qrkeep/internal/services"
	"qrkeep/internal/structures"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

type QRController struct {
	logger   providers.Logger
	store    services.RecordStoreInterface
	renderer render.RendererInterface
	pdf      render.PDFExporterInterface
	decoder  render.DecoderInterface
	metrics  providers.MetricsProviderInterface
	maxScan  int64
}

func NewQRController(
	conf *structures.Config,
	logger providers.Logger,
	store services.RecordStoreInterface,
	renderer render.RendererInterface,
	pdf render.PDFExporterInterface,
	decoder render.DecoderInterface,
	metrics providers.MetricsProviderInterface,
) *QRController {
	maxMB := conf.Render.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 10
	}
	return &QRController{
		logger:   logger,
		store:    store,
		renderer: renderer,
		pdf:      pdf,
		decoder:  decoder,
		metrics:  metrics,
		maxScan:  int64(maxMB) << 20,
	}
}

type generateRequest struct {
	Type   models.QRType   `json:"type"`
	Fields json.RawMessage `json:"fields"`
}

type generateResponse struct {
	Data  string               `json:"data"`
	Added bool                 `json:"added"`
	Entry *models.HistoryEntry `json:"entry,omitempty"`
	mutation
}

// Generate builds the payload for the requested type and records it in history.
// A repeat inside the dedup window answers 200 with added=false.
func (qc *QRController) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if req.Type == "" {
		req.Type = models.QRText
	}

	payload, err := models.DecodePayload(req.Type, req.Fields)
	if err != nil {
		writeError(w, qc.logger, r, err)
		return
	}
	snapshot, err := models.FormSnapshot(payload)
	if err != nil {
		writeError(w, qc.logger, r, err)
		return
	}

	data := payload.Encode()
	entry, added, err := qc.store.AddHistoryEntry(models.NewHistoryEntry{
		Type:           models.EntryGenerated,
		Data:           data,
		QRType:         payload.Kind(),
		AdditionalData: snapshot,
	})
	if err != nil && !isPersistence(err) {
		writeError(w, qc.logger, r, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, generateResponse{
		Data:     data,
		Added:    added,
		Entry:    entry,
		mutation: persistOutcome(qc.logger, r, err),
	})
}

// PNG serves GET /qr.png?data=&size=&fg=&bg=. Missing options come from settings.
func (qc *QRController) PNG(w http.ResponseWriter, r *http.Request) {
	img, ok := qc.render(w, r)
	if !ok {
		return
	}
	qc.metrics.IncQRRendered("png")
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="qrcode.png"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func (qc *QRController) PDF(w http.ResponseWriter, r *http.Request) {
	img, ok := qc.render(w, r)
	if !ok {
		return
	}
	doc, err := qc.pdf.PDF(img)
	if err != nil {
		qc.logger.Errorf(providers.TypeGet, "PDF export failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	qc.metrics.IncQRRendered("pdf")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="qrcode.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (qc *QRController) render(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	q := r.URL.Query()
	data := q.Get("data")
	if data == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil, false
	}

	opts := render.OptionsFromSettings(qc.store.Settings())
	if size, err := cast.ToIntE(q.Get("size")); err == nil && size > 0 {
		opts.Size = size
	}
	if fg := q.Get("fg"); models.IsHexColor(fg) {
		opts.Foreground = fg
	}
	if bg := q.Get("bg"); models.IsHexColor(bg) {
		opts.Background = bg
	}

	img, err := qc.renderer.PNG(data, opts)
	if err != nil {
		qc.logger.Errorf(providers.TypeGet, "Render failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	return img, true
}

type scanResponse struct {
	Text    string               `json:"text"`
	Format  string               `json:"format"`
	OpenURL string               `json:"openUrl,omitempty"`
	Added   bool                 `json:"added"`
	Entry   *models.HistoryEntry `json:"entry,omitempty"`
	mutation
}

// Scan decodes an uploaded image (multipart field "file"). The result is recorded
// only when the saveScans setting is on.
func (qc *QRController) Scan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, qc.maxScan)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Bad Request: missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	decoded, err := qc.decoder.Decode(file)
	switch {
	case errors.Is(err, render.ErrNotFound):
		qc.metrics.IncScans("not_found")
		http.Error(w, "No QR code found in image", http.StatusUnprocessableEntity)
		return
	case errors.Is(err, render.ErrUnreadableImage):
		qc.metrics.IncScans("error")
		http.Error(w, "Bad Request: unreadable image", http.StatusBadRequest)
		return
	case err != nil:
		qc.metrics.IncScans("error")
		qc.logger.Errorf(providers.TypePost, "Scan failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	qc.metrics.IncScans("decoded")

	settings := qc.store.Settings()
	resp := scanResponse{Text: decoded.Text, Format: decoded.Format, mutation: mutation{Persisted: true}}
	if settings.AutoOpen && isWebURL(decoded.Text) {
		resp.OpenURL = decoded.Text
	}
	if settings.SaveScans {
		entry, added, err := qc.store.AddHistoryEntry(models.NewHistoryEntry{
			Type:   models.EntryScanned,
			Data:   decoded.Text,
			Source: header.Filename,
			Format: decoded.Format,
		})
		if err != nil && !isPersistence(err) {
			writeError(w, qc.logger, r, err)
			return
		}
		resp.Entry, resp.Added = entry, added
		resp.mutation = persistOutcome(qc.logger, r, err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func isWebURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
