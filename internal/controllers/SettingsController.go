package controllers

import (
	"net/http"
	"qrkeep/internal/models"
	"qrkeep/internal/providers"
	"qrkeep/internal/services"
)

type SettingsController struct {
	logger providers.Logger
	store  services.RecordStoreInterface
}

func NewSettingsController(logger providers.Logger, store services.RecordStoreInterface) *SettingsController {
	return &SettingsController{
		logger: logger,
		store:  store,
	}
}

type settingsResponse struct {
	Settings models.Settings `json:"settings"`
	mutation
}

func (sc *SettingsController) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sc.store.Settings())
}

// Update merges a partial settings object. Unknown keys are ignored.
func (sc *SettingsController) Update(w http.ResponseWriter, r *http.Request) {
	var partial map[string]any
	if err := decodeBody(w, r, &partial); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	settings, err := sc.store.UpdateSettings(partial)
	if err != nil && !isPersistence(err) {
		writeError(w, sc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Settings: settings, mutation: persistOutcome(sc.logger, r, err)})
}
