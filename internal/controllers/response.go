package controllers

import (
	"errors"
	"net/http"
	"qrkeep/internal/models"
	"qrkeep/internal/providers"
	"qrkeep/internal/services"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// mutation reports whether a state change reached storage. The in-memory change
// stands either way.
type mutation struct {
	Persisted bool   `json:"persisted"`
	Warning   string `json:"warning,omitempty"`
}

func persistOutcome(logger providers.Logger, r *http.Request, err error) mutation {
	if err == nil {
		return mutation{Persisted: true}
	}
	logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
	return mutation{Persisted: false, Warning: "changes are kept in memory but could not be saved: " + err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// writeError answers validation errors with 400 and everything else with 500.
func writeError(w http.ResponseWriter, logger providers.Logger, r *http.Request, err error) {
	if models.IsValidation(err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
		return
	}
	logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	return json.NewDecoder(r.Body).Decode(dst)
}

func isPersistence(err error) bool {
	return errors.Is(err, services.ErrPersistence)
}
