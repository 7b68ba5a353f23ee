package controllers

import (
	"net/http"
	"qrkeep/internal/providers"
	"qrkeep/internal/services"
)

type FavoritesController struct {
	logger providers.Logger
	store  services.RecordStoreInterface
}

func NewFavoritesController(logger providers.Logger, store services.RecordStoreInterface) *FavoritesController {
	return &FavoritesController{
		logger: logger,
		store:  store,
	}
}

type toggleRequest struct {
	Data string `json:"data"`
}

type toggleResponse struct {
	Favorite bool `json:"favorite"`
	mutation
}

func (fc *FavoritesController) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fc.store.Favorites())
}

func (fc *FavoritesController) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	favorite, err := fc.store.ToggleFavorite(req.Data)
	if err != nil && !isPersistence(err) {
		writeError(w, fc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Favorite: favorite, mutation: persistOutcome(fc.logger, r, err)})
}
